package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a code does not have the exact number of digits
	ErrInvalidLength = errors.New("invalid length")

	// ErrNotFound is returned when the provider reports the code as unknown
	ErrNotFound = errors.New("not found")
)

// TransportError describes a failed round trip: network failure, a non-2xx
// status other than 404, or a body that is not a JSON object.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
