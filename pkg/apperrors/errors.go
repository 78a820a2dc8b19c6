// Package apperrors defines the error kinds shared by stores, services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConflict reports a uniqueness violation (slug, rating key) at the storage layer.
	ErrConflict = errors.New("conflict")
	// ErrNotFound reports that a targeted row does not exist. Stores and services
	// signal absence with nil results; handlers use this to build responses.
	ErrNotFound = errors.New("not found")
	// ErrDecode reports a result row whose shape does not match what the decoder expects.
	ErrDecode = errors.New("row decode failed")
)

// Violation is one failed structural rule on one field.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated rule of a candidate entity.
type ValidationError struct {
	Violations []Violation `json:"errors"`
}

// NewValidationError creates an empty validation error collection
func NewValidationError() *ValidationError {
	return &ValidationError{Violations: make([]Violation, 0)}
}

// Add records a violation
func (v *ValidationError) Add(field, rule, message string) {
	v.Violations = append(v.Violations, Violation{Field: field, Rule: rule, Message: message})
}

// HasViolations returns true if at least one rule failed
func (v *ValidationError) HasViolations() bool {
	return len(v.Violations) > 0
}

// Fields lists the violated field names in order of detection, without duplicates
func (v *ValidationError) Fields() []string {
	seen := make(map[string]struct{}, len(v.Violations))
	fields := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		if _, ok := seen[violation.Field]; ok {
			continue
		}
		seen[violation.Field] = struct{}{}
		fields = append(fields, violation.Field)
	}
	return fields
}

func (v *ValidationError) Error() string {
	if len(v.Violations) == 0 {
		return "validation failed"
	}

	messages := make([]string, len(v.Violations))
	for i, violation := range v.Violations {
		messages[i] = violation.Field + ": " + violation.Message
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// IsValidation reports whether err is or wraps a *ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// Conflict wraps ErrConflict with a description of the colliding key
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Decode wraps ErrDecode with a description of the mismatch
func Decode(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrDecode, fmt.Sprintf(format, args...))
}
