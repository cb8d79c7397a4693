package form

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nexconsult/autofill-api/internal/models"
)

// Canonical field names a form may expose
const (
	FieldCNPJ         = models.FieldCNPJ
	FieldNomeFantasia = models.FieldNomeFantasia
	FieldRazaoSocial  = models.FieldRazaoSocial
	FieldCEP          = models.FieldCEP
	FieldLogradouro   = models.FieldLogradouro
	FieldBairro       = models.FieldBairro
	FieldCidade       = models.FieldCidade
	FieldEstado       = models.FieldEstado
)

// CanonicalFields lists every field the binding resolves
var CanonicalFields = models.CanonicalFields

// legacyNames are element names older pages use for a canonical field
var legacyNames = map[string][]string{
	FieldEstado: {"uf"},
}

// EventType names a notification emitted after a programmatic write
type EventType string

const (
	EventInput  EventType = "input"
	EventChange EventType = "change"
)

// Event is delivered to listeners after the binder writes a field
type Event struct {
	Type  EventType
	Field string
	Value string
}

// Listener observes field writes (masks, framework bindings)
type Listener func(Event)

// Binding maps canonical names to the element each one resolved to.
// It is built once when the form is created and never re-resolved.
type Binding map[string]*goquery.Selection

// Resolved reports whether the form exposes the field
func (b Binding) Resolved(name string) bool {
	_, ok := b[name]
	return ok
}

// Form is one autofill-enabled form of a page
type Form struct {
	page      *Page
	sel       *goquery.Selection
	index     int
	binding   Binding
	listeners []Listener
	disabled  []*goquery.Selection
}

func newForm(p *Page, sel *goquery.Selection, index int) *Form {
	f := &Form{
		page:    p,
		sel:     sel,
		index:   index,
		binding: make(Binding, len(CanonicalFields)),
	}
	for _, name := range CanonicalFields {
		for _, candidate := range append([]string{name}, legacyNames[name]...) {
			if el := f.resolve(candidate); el != nil {
				f.binding[name] = el
				break
			}
		}
	}
	f.ensureFeedback()
	return f
}

// Index is the form position among the forms discovered on the page
func (f *Form) Index() int {
	return f.index
}

// Name returns the form id, its name attribute, or a positional label
func (f *Form) Name() string {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	if id, ok := f.sel.Attr("id"); ok && id != "" {
		return id
	}
	if name, ok := f.sel.Attr("name"); ok && name != "" {
		return name
	}
	return "form-" + strconv.Itoa(f.index)
}

// Binding returns the field binding resolved at creation
func (f *Form) Binding() Binding {
	return f.binding
}

// Listen registers a listener for binder notifications
func (f *Form) Listen(l Listener) {
	f.listeners = append(f.listeners, l)
}

// resolve finds a field by id first, then by name, scoped to the form
func (f *Form) resolve(name string) *goquery.Selection {
	if el := f.sel.Find(`[id="` + name + `"]`).First(); el.Length() > 0 {
		return el
	}
	if el := f.sel.Find(`[name="` + name + `"]`).First(); el.Length() > 0 {
		return el
	}
	return nil
}

func (f *Form) element(name string) *goquery.Selection {
	if el, ok := f.binding[name]; ok {
		return el
	}
	return f.resolve(name)
}

// SetField writes a non-empty value into the named field and notifies the
// listeners with an input and a change event. Absent fields and empty values
// are ignored. It reports whether a write happened.
func (f *Form) SetField(name, value string) bool {
	if value == "" {
		return false
	}

	f.page.mu.Lock()
	el := f.element(name)
	if el == nil {
		f.page.mu.Unlock()
		return false
	}
	writeValue(el, value)
	f.page.mu.Unlock()

	for _, t := range []EventType{EventInput, EventChange} {
		f.emit(Event{Type: t, Field: name, Value: value})
	}
	return true
}

// SetRaw writes value without notifying listeners. Used by live masking,
// where the field rewrites itself.
func (f *Form) SetRaw(name, value string) bool {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	el := f.element(name)
	if el == nil {
		return false
	}
	writeValue(el, value)
	return true
}

// Value returns the current value of the named field
func (f *Form) Value(name string) (string, bool) {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	el := f.element(name)
	if el == nil {
		return "", false
	}
	return readValue(el), true
}

// Values snapshots every resolved canonical field
func (f *Form) Values() map[string]string {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	values := make(map[string]string, len(f.binding))
	for name, el := range f.binding {
		values[name] = readValue(el)
	}
	return values
}

func (f *Form) emit(e Event) {
	for _, l := range f.listeners {
		l(e)
	}
}

func writeValue(el *goquery.Selection, value string) {
	switch goquery.NodeName(el) {
	case "textarea":
		el.SetText(value)
	case "select":
		selectOption(el, value)
	default:
		el.SetAttr("value", value)
	}
}

func readValue(el *goquery.Selection) string {
	switch goquery.NodeName(el) {
	case "textarea":
		return el.Text()
	case "select":
		opt := el.Find("option[selected]").First()
		if opt.Length() == 0 {
			opt = el.Find("option").First()
		}
		return optionValue(opt)
	default:
		return el.AttrOr("value", "")
	}
}

// selectOption selects the option whose value or label equals value,
// adding one when the list has no match
func selectOption(el *goquery.Selection, value string) {
	var match *goquery.Selection
	el.Find("option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if optionValue(opt) == value || strings.TrimSpace(opt.Text()) == value {
			match = opt
			return false
		}
		return true
	})

	el.Find("option").RemoveAttr("selected")
	if match == nil {
		el.AppendHtml(`<option></option>`)
		match = el.Find("option").Last()
		match.SetAttr("value", value)
		match.SetText(value)
	}
	match.SetAttr("selected", "selected")
}

func optionValue(opt *goquery.Selection) string {
	if v, ok := opt.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(opt.Text())
}
