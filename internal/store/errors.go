package store

import (
	"errors"

	"water-billing-backend/internal/validation"
)

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrHasPayments is returned when deleting a client that owns payments.
	ErrHasPayments = errors.New("client has registered payments")
	// ErrWrongPin is returned when the current PIN does not match.
	ErrWrongPin = errors.New("current pin is incorrect")
)

// ValidationError reports malformed input detected before any write.
type ValidationError struct {
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Violations.Error()
}

func invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Violations: v}
}

// IsValidation reports whether err carries input violations.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// isOutcome reports whether err is an expected business outcome rather
// than a storage failure.
func isOutcome(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrHasPayments) ||
		errors.Is(err, ErrWrongPin) ||
		IsValidation(err)
}
