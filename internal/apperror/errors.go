// Package apperror defines the error taxonomy shared across the application.
package apperror

import "fmt"

// ValidationError represents malformed input to a constructor or a failed
// internal consistency check. It is always fatal to the current operation
// and carries the offending field name.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("validation failed for %s='%s': %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// APIError represents a failure from an external collaborator (bank API,
// AI service). It is propagated unchanged by the core logic; retries are
// the collaborator's concern.
type APIError struct {
	Service   string
	Operation string
	Err       error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Service, e.Operation, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// SheetError represents a failure reading from or writing to the spreadsheet
// storage collaborator.
type SheetError struct {
	SpreadsheetID string
	Range         string
	Err           error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("spreadsheet %s: range %s: %v", e.SpreadsheetID, e.Range, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

// AuthenticationError represents a failed authentication against a
// collaborator. Distinguished from APIError so the analyzer can report it
// as its own failure kind.
type AuthenticationError struct {
	Service string
	Err     error
}

func (e *AuthenticationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication with %s failed: %v", e.Service, e.Err)
	}
	return fmt.Sprintf("authentication with %s failed", e.Service)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}
