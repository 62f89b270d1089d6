package errors

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// MaxIDLength bounds node and session identifiers.
const MaxIDLength = 256

// FieldError is one rejected field of a larger value.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError aggregates every problem found while validating a value,
// so callers can report all of them at once.
type ValidationError struct {
	Code   Code
	Fields []FieldError
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	parts := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", v.Code, strings.Join(parts, "; "))
}

// Add records a field problem.
func (v *ValidationError) Add(field, format string, args ...any) {
	v.Fields = append(v.Fields, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Err returns v as an error, or nil if no field was rejected.
func (v *ValidationError) Err() error {
	if v == nil || len(v.Fields) == 0 {
		return nil
	}
	return v
}

// NewValidation starts an empty ValidationError with the given code.
func NewValidation(code Code) *ValidationError {
	return &ValidationError{Code: code}
}

// ValidateID checks a node or session identifier. IDs are opaque but must be
// non-empty, bounded and free of control characters, since they end up in
// URLs, cache keys and DOT output.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", MaxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains invalid control characters")
		}
	}
	return nil
}

// ValidateCanvas checks that a canvas has finite, positive dimensions.
func ValidateCanvas(width, height float64) error {
	for _, d := range []float64{width, height} {
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
			return New(ErrCodeInvalidCanvas, "canvas dimensions must be positive and finite, got %gx%g", width, height)
		}
	}
	return nil
}

// InUnitInterval reports whether v lies in the closed unit interval.
func InUnitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}
