package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ValidationError reports user input that a step rejected. It is recovered in
// place: the step re-prompts and nothing is mutated.
type ValidationError struct {
	Field  string
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Input, e.Reason)
}

// Provider operations, used in ProviderError and lifecycle events.
const (
	OpSearchFlights = "search_flights"
	OpSearchHotels  = "search_hotels"
	OpBookFlight    = "book_flight"
)

// ProviderError wraps a failure at the provider boundary (network, auth, parsing).
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsBooking reports whether the failure happened while booking.
func (e *ProviderError) IsBooking() bool {
	return e.Op == OpBookFlight
}
