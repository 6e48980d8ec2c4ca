package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when a required reference or content hash is
	// not (yet) resolvable. Recoverable: redelivery may succeed later.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a creation event targets an address that
	// already exists for that entity type. Safe to treat as a no-op.
	ErrConflict = errors.New("already exists")

	// ErrInsufficientBalance is returned when a ledger mutation would drive a
	// balance negative. The event is rejected with no partial state.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// FieldError describes a single offending input field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports malformed, missing, or internally inconsistent
// event input. It enumerates every offending field so the caller can log and
// move on.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Reason)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
