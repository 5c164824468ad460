package services

import "errors"

// ErrCompanyNotFound marks a request for a company absent from the
// profile collection. Fatal for the request.
var ErrCompanyNotFound = errors.New("company not found")

// ErrSelectionExhausted marks a catalog that cannot supply even the
// minimum viable plan after every relaxation.
var ErrSelectionExhausted = errors.New("selection exhausted")

// ValidationError rejects a request before any data load. The message
// is surfaced to the caller verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(message string) *ValidationError {
	return &ValidationError{Message: message}
}
