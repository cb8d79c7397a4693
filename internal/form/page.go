// Package form models an HTML page and the autofill-enabled forms it holds.
// Field writes, the feedback region and the busy indicator are applied to the
// parsed document, so the page can be rendered back with every change.
package form

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"golang.org/x/net/html/charset"
)

// AutofillSelector marks the forms that opt into autofill
const AutofillSelector = "form.autofill-form"

// Page is a parsed HTML document. Every DOM mutation goes through its mutex.
type Page struct {
	ID  string
	mu  sync.Mutex
	doc *goquery.Document
}

// Parse reads an HTML page, decoding it to UTF-8 according to contentType
// (or the document's meta charset when contentType is empty).
func Parse(r io.Reader, contentType string) (*Page, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to detect charset: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(utf8Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Page{ID: uuid.New().String(), doc: doc}, nil
}

// ParseString parses an UTF-8 HTML string
func ParseString(html string) (*Page, error) {
	return Parse(strings.NewReader(html), "text/html; charset=utf-8")
}

// Forms discovers the forms to initialize: every form.autofill-form, or the
// first form of the page when none is marked.
func (p *Page) Forms() []*Form {
	p.mu.Lock()
	defer p.mu.Unlock()

	marked := p.doc.Find(AutofillSelector)
	if marked.Length() == 0 {
		single := p.doc.Find("form").First()
		if single.Length() == 0 {
			return nil
		}
		return []*Form{newForm(p, single, 0)}
	}

	forms := make([]*Form, 0, marked.Length())
	marked.Each(func(i int, s *goquery.Selection) {
		forms = append(forms, newForm(p, s, i))
	})
	return forms
}

// HTML renders the whole document
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.doc.Html()
}
