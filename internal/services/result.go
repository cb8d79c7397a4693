package services

import (
	"errors"
	"fmt"
)

// Outcome classifies a lookup
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeNotFound       Outcome = "not_found"
	OutcomeInvalidLength  Outcome = "invalid_length"
	OutcomeTransportError Outcome = "transport_error"
)

// LookupResult is the tagged result of a CEP or CNPJ lookup. Fields is only
// set on success and always holds canonical field names.
type LookupResult struct {
	Outcome  Outcome           `json:"outcome"`
	Code     string            `json:"code"`
	Fields   map[string]string `json:"fields,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
	Status   int               `json:"status,omitempty"`
	Cached   bool              `json:"cached,omitempty"`
	Err      error             `json:"-"`
}

// OK reports whether the lookup succeeded
func (r LookupResult) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Error returns the failure message, or "" on success
func (r LookupResult) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func successResult(code string, fields map[string]string, status int) LookupResult {
	if fields == nil {
		fields = map[string]string{}
	}
	return LookupResult{Outcome: OutcomeSuccess, Code: code, Fields: fields, Status: status}
}

func invalidLengthResult(code string, want int) LookupResult {
	return LookupResult{
		Outcome: OutcomeInvalidLength,
		Code:    code,
		Err:     fmt.Errorf("expected %d digits, got %d: %w", want, len(code), ErrInvalidLength),
	}
}

// failureResult maps a fetch error onto the not-found or transport outcome
func failureResult(code string, status int, err error) LookupResult {
	if errors.Is(err, ErrNotFound) {
		return LookupResult{Outcome: OutcomeNotFound, Code: code, Status: status, Err: err}
	}

	var te *TransportError
	if !errors.As(err, &te) {
		err = &TransportError{Status: status, Err: err}
	}
	return LookupResult{Outcome: OutcomeTransportError, Code: code, Status: status, Err: err}
}

