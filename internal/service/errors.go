package service

import "errors"

// Sentinel errors shared by the services. Handlers translate them to HTTP
// status codes.
var (
	ErrNotFound = errors.New("resource not found")
	ErrInUse    = errors.New("resource is still referenced")
)

// ValidationError is a field-addressable domain validation failure.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "validation failed"
}

// fieldError builds a single-field ValidationError.
func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// ConflictError reports a uniqueness violation, field-addressed like a
// validation failure but surfaced with a conflict status.
type ConflictError struct {
	Fields map[string]string
}

func (e *ConflictError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "conflict"
}

func conflictError(field, msg string) *ConflictError {
	return &ConflictError{Fields: map[string]string{field: msg}}
}
