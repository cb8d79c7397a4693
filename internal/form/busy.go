package form

import "github.com/PuerkitoBio/goquery"

const (
	controlSelector = `button, input[type="submit"]`
	primarySelector = `button.btn-primary, input[type="submit"].btn-primary`
	spinnerSelector = "[data-autofill-spinner]"
	spinnerMarkup   = `<span data-autofill-spinner="true" class="spinner" role="status" aria-label="Carregando"></span>`
)

// Enter disables the form controls and shows the busy indicator next to the
// primary control (or at the end of the form when it has no control).
// Controls that were already disabled are left for their owner.
func (f *Form) Enter() {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	controls := f.sel.Find(controlSelector)
	controls.Each(func(_ int, c *goquery.Selection) {
		if _, disabled := c.Attr("disabled"); disabled {
			return
		}
		c.SetAttr("disabled", "disabled")
		f.disabled = append(f.disabled, c)
	})

	if f.sel.Find(spinnerSelector).Length() > 0 {
		return
	}

	anchor := f.sel.Find(primarySelector).First()
	if anchor.Length() == 0 {
		anchor = controls.First()
	}
	if anchor.Length() > 0 {
		anchor.AfterHtml(spinnerMarkup)
	} else {
		f.sel.AppendHtml(spinnerMarkup)
	}
}

// Leave removes the busy indicator and re-enables the controls Enter
// disabled. Calling it without a matching Enter does nothing.
func (f *Form) Leave() {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	f.sel.Find(spinnerSelector).Remove()
	for _, c := range f.disabled {
		c.RemoveAttr("disabled")
	}
	f.disabled = nil
}

// Busy reports whether the busy indicator is shown
func (f *Form) Busy() bool {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	return f.sel.Find(spinnerSelector).Length() > 0
}

// DisabledControls counts the controls currently disabled in the form
func (f *Form) DisabledControls() int {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	return f.sel.Find(controlSelector).Filter("[disabled]").Length()
}
