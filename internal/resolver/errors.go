package resolver

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllProvidersExhausted is matched by every *ExhaustedError.
var ErrAllProvidersExhausted = errors.New("all geocoding providers exhausted")

// Chain construction errors.
var (
	ErrNoProviders       = errors.New("no geocoding providers configured")
	ErrDuplicateProvider = errors.New("duplicate provider id")
	ErrUnnamedProvider   = errors.New("provider id is required")
)

// AttemptError is the failure of a single provider during one resolution.
type AttemptError struct {
	ProviderID string
	Err        error
}

func (e AttemptError) Error() string {
	return e.ProviderID + ": " + e.Err.Error()
}

func (e AttemptError) Unwrap() error {
	return e.Err
}

// ExhaustedError is returned when every provider of the chain failed.
// Attempts holds exactly one entry per provider, in attempt order.
type ExhaustedError struct {
	Query    string
	Attempts []AttemptError
}

func (e *ExhaustedError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s for %q", ErrAllProvidersExhausted, e.Query)
	for i, attempt := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(attempt.Error())
	}

	return b.String()
}

// Is reports whether target is ErrAllProvidersExhausted.
func (e *ExhaustedError) Is(target error) bool {
	return target == ErrAllProvidersExhausted
}

// Unwrap exposes the individual attempt errors to errors.Is and errors.As.
func (e *ExhaustedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, attempt := range e.Attempts {
		errs = append(errs, attempt)
	}

	return errs
}
