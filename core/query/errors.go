package query

import (
	"errors"
	"fmt"
)

// ErrInvalidPageSize is reported when a page size below one is requested.
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// UsageError reports caller misuse detected before any work is done.
type UsageError struct {
	Param string
	Value any
	Err   error
}

// Error returns the error message for a UsageError.
func (e *UsageError) Error() string {
	return fmt.Sprintf("invalid %s %v: %v", e.Param, e.Value, e.Err)
}

// Unwrap exposes the sentinel so callers can use errors.Is.
func (e *UsageError) Unwrap() error {
	return e.Err
}

func checkPageSize(pageSize int) error {
	if pageSize < 1 {
		return &UsageError{Param: "pageSize", Value: pageSize, Err: ErrInvalidPageSize}
	}
	return nil
}

// QueryValidationError represents an error found during query validation.
type QueryValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for a QueryValidationError.
func (ve QueryValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
}

// QueryValidationResult contains the results of a query validation.
type QueryValidationResult struct {
	IsValid bool
	Errors  []QueryValidationError
}

// Err joins the validation errors, or returns nil for a valid query.
func (r QueryValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}
