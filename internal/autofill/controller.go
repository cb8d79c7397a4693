// Package autofill drives the CEP and CNPJ autofill of HTML forms: live
// masking while typing, a lookup when the field loses focus, and the
// resulting field writes, feedback and busy indicator.
package autofill

import (
	"context"
	"fmt"
	"sync"

	"github.com/nexconsult/autofill-api/internal/form"
	"github.com/nexconsult/autofill-api/internal/models"
	"github.com/nexconsult/autofill-api/internal/services"
	"github.com/nexconsult/autofill-api/internal/utils"
	"github.com/sirupsen/logrus"
)

// State is the UI state of one form
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
)

// CEPLookup resolves postal codes
type CEPLookup interface {
	LookupCEP(ctx context.Context, code string) services.LookupResult
}

// CNPJLookup resolves company registrations
type CNPJLookup interface {
	LookupCNPJ(ctx context.Context, code string) services.LookupResult
}

// Deps are the collaborators shared by the controllers of a page
type Deps struct {
	CEP     CEPLookup
	CNPJ    CNPJLookup
	Metrics *services.Metrics
	Logger  *logrus.Logger
}

// Options tune controller behavior
type Options struct {
	// DiscardStale drops a lookup result when a newer blur of the same
	// field started after it. Off means the last lookup to settle wins.
	DiscardStale bool
}

// Controller owns one form: its binding, state and lookups
type Controller struct {
	form   *form.Form
	deps   Deps
	opts   Options
	logger *logrus.Entry

	mu          sync.Mutex
	state       State
	generations map[string]uint64
}

// Init creates a controller for every autofill form on the page: each
// form.autofill-form, or the first form when none is marked
func Init(page *form.Page, deps Deps, opts Options) []*Controller {
	forms := page.Forms()
	controllers := make([]*Controller, 0, len(forms))
	for _, f := range forms {
		controllers = append(controllers, NewController(f, deps, opts))
	}
	return controllers
}

// NewController binds a controller to f and installs the mask listener
func NewController(f *form.Form, deps Deps, opts Options) *Controller {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	c := &Controller{
		form:        f,
		deps:        deps,
		opts:        opts,
		state:       StateIdle,
		generations: make(map[string]uint64),
		logger: log.WithFields(logrus.Fields{
			"form": f.Name(),
		}),
	}
	f.Listen(c.remask)
	return c
}

// Form returns the controlled form
func (c *Controller) Form() *form.Form {
	return c.form
}

// State returns the current UI state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// fieldKind reports which code a field holds
func fieldKind(field string) (utils.Kind, bool) {
	switch field {
	case models.FieldCEP:
		return utils.KindCEP, true
	case models.FieldCNPJ:
		return utils.KindCNPJ, true
	}
	return 0, false
}

// remask keeps binder writes to cep and cnpj in display format
func (c *Controller) remask(e form.Event) {
	if e.Type != form.EventInput {
		return
	}
	kind, ok := fieldKind(e.Field)
	if !ok {
		return
	}
	if masked := utils.Mask(kind, e.Value); masked != e.Value {
		c.form.SetRaw(e.Field, masked)
	}
}

// Input applies a keystroke: the raw text replaces the field value, masked
// when the field holds a code. It returns the written value and the caret
// position mapped onto it. No lookup is started.
func (c *Controller) Input(field, raw string, cursor int) (string, int, bool) {
	kind, ok := fieldKind(field)
	if !ok {
		return raw, cursor, c.form.SetRaw(field, raw)
	}

	masked, pos := utils.Reformat(kind, raw, cursor)
	return masked, pos, c.form.SetRaw(field, masked)
}

// Set writes a value as a script would, notifying listeners
func (c *Controller) Set(field, value string) bool {
	return c.form.SetField(field, value)
}

// Blur handles a code field losing focus. Empty fields are ignored,
// incomplete codes only report an error, and complete codes are looked up.
// The form is busy while the lookup runs and is always released after it.
func (c *Controller) Blur(ctx context.Context, field string) (result services.LookupResult) {
	kind, ok := fieldKind(field)
	if !ok {
		return result
	}
	raw, ok := c.form.Value(field)
	if !ok {
		return result
	}

	digits := utils.OnlyDigits(raw)
	if digits == "" {
		return result
	}
	logger := c.logger.WithField(kind.String(), digits)

	if len(digits) != kind.Length() {
		c.form.Report(form.SeverityError, incompleteMessage(kind))
		return services.LookupResult{
			Outcome: services.OutcomeInvalidLength,
			Code:    digits,
			Err:     fmt.Errorf("%s has %d digits: %w", kind, len(digits), services.ErrInvalidLength),
		}
	}

	lookup := c.lookupFor(kind)
	if lookup == nil {
		logger.Warn("No lookup configured for field")
		return result
	}

	gen := c.begin(field)
	c.form.Report(form.SeverityInfo, searchingMessage(kind, digits))

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("panic", r).Error("Lookup panicked")
			result = services.LookupResult{
				Outcome: services.OutcomeTransportError,
				Code:    digits,
				Err:     &services.TransportError{Err: fmt.Errorf("lookup panicked: %v", r)},
			}
			c.form.Report(form.SeverityError, failureMessage(kind, result))
		}
	}()

	c.enter()
	defer c.leave()

	result = lookup(ctx, digits)

	if c.opts.DiscardStale && c.isStale(field, gen) {
		logger.WithField("outcome", result.Outcome).Debug("Discarding stale lookup")
		result.Warnings = append(result.Warnings, "descartado: consulta mais recente em andamento")
		return result
	}

	if result.OK() {
		c.apply(result.Fields)
		c.form.Report(form.SeveritySuccess, successMessage(kind, result.Warnings))
	} else {
		c.form.Report(form.SeverityError, failureMessage(kind, result))
	}

	logger.WithFields(logrus.Fields{
		"outcome": result.Outcome,
		"fields":  len(result.Fields),
	}).Info("Autofill lookup settled")

	return result
}

func (c *Controller) lookupFor(kind utils.Kind) services.LookupFunc {
	switch kind {
	case utils.KindCEP:
		if c.deps.CEP != nil {
			return c.deps.CEP.LookupCEP
		}
	case utils.KindCNPJ:
		if c.deps.CNPJ != nil {
			return c.deps.CNPJ.LookupCNPJ
		}
	}
	return nil
}

// apply writes the resolved fields in canonical order
func (c *Controller) apply(fields map[string]string) {
	for _, name := range models.CanonicalFields {
		if value, ok := fields[name]; ok {
			c.form.SetField(name, value)
		}
	}
}

func (c *Controller) begin(field string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generations[field]++
	return c.generations[field]
}

func (c *Controller) isStale(field string, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[field] != gen
}

func (c *Controller) enter() {
	c.transition(StateLoading)
	c.form.Enter()
}

func (c *Controller) leave() {
	c.form.Leave()
	c.transition(StateIdle)
}

func (c *Controller) transition(to State) {
	c.mu.Lock()
	from := c.state
	c.state = to
	c.mu.Unlock()

	if from != to {
		c.deps.Metrics.ObserveTransition(string(from), string(to))
	}
}
