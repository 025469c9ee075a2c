package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a request that violates the input contract.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCursor signals a malformed, tampered or stale pagination token.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrSourceUnavailable signals a content source that failed or timed out.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)

// InvalidInputError wraps ErrInvalidInput with the offending field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return ErrInvalidInput }

// NewInvalidInput creates an invalid input error for a request field.
func NewInvalidInput(field, reason string) error {
	return &InvalidInputError{Field: field, Reason: reason}
}

// SourceError wraps ErrSourceUnavailable with the failing source name.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable.Error(), e.Source, e.Err)
}

// Is reports ErrSourceUnavailable so callers can match the sentinel.
func (e *SourceError) Is(target error) bool { return target == ErrSourceUnavailable }

func (e *SourceError) Unwrap() error { return e.Err }

// NewSourceError creates a source failure error.
func NewSourceError(source string, err error) error {
	return &SourceError{Source: source, Err: err}
}
