package form

import "strings"

// Severity tags a feedback message
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

const (
	feedbackSelector = "[data-autofill-feedback]"
	feedbackRegion   = `<div data-autofill-feedback="true" class="feedback" aria-live="polite" aria-atomic="true"></div>`
)

// className maps a severity to the span class used by the page stylesheet
func (s Severity) className() string {
	switch s {
	case SeverityError:
		return "error"
	case SeveritySuccess:
		return "success"
	default:
		return "small"
	}
}

func severityFromClass(class string) Severity {
	for _, c := range strings.Fields(class) {
		switch c {
		case "error":
			return SeverityError
		case "success":
			return SeveritySuccess
		}
	}
	return SeverityInfo
}

// ensureFeedback creates the status region once. Caller holds the page lock.
func (f *Form) ensureFeedback() {
	if f.sel.Find(feedbackSelector).Length() == 0 {
		f.sel.AppendHtml(feedbackRegion)
	}
}

// Report replaces the status region content with a single message
func (f *Form) Report(severity Severity, message string) {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	f.ensureFeedback()
	region := f.sel.Find(feedbackSelector).First()
	region.Empty()
	region.AppendHtml(`<span></span>`)

	span := region.Children().Last()
	span.SetAttr("class", severity.className())
	span.SetText(message)
}

// Feedback returns the message currently shown, if any
func (f *Form) Feedback() (Severity, string, bool) {
	f.page.mu.Lock()
	defer f.page.mu.Unlock()

	span := f.sel.Find(feedbackSelector + " > span").First()
	if span.Length() == 0 {
		return "", "", false
	}
	return severityFromClass(span.AttrOr("class", "")), span.Text(), true
}
