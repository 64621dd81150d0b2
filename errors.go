package giflib

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is the sentinel every ValidationError wraps, so
	// callers can test the error kind with errors.Is without caring
	// about the specific field that failed.
	ErrValidation = errors.New("giflib: validation error")

	// ErrEncoding is the sentinel every EncodingError wraps.
	ErrEncoding = errors.New("giflib: encoding error")
)

// ValidationError reports a caller-facing precondition violation caught
// before any read or write began: dimensions out of range, a palette
// larger than 256 entries, a pixel index outside the palette, or similar.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("giflib: validation: %s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) succeed for any ValidationError.
func (e *ValidationError) Unwrap() error { return ErrValidation }

func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// EncodingError reports an internal codec inconsistency found during
// encode or decode: a corrupt LZW stream, a code missing from the
// dictionary, or an unexpected end of input.
type EncodingError struct {
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("giflib: encoding: %s", e.Message)
}

// Unwrap lets errors.Is(err, ErrEncoding) succeed for any EncodingError.
func (e *EncodingError) Unwrap() error { return ErrEncoding }

func newEncodingError(format string, args ...any) *EncodingError {
	return &EncodingError{Message: fmt.Sprintf(format, args...)}
}
