package changelog

import (
	"errors"
	"fmt"
)

// ParseError is returned when the changelog does not have the structure
// the release workflow relies on. It is not recoverable.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// ValidationError represents a changelog validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsParseError returns true if the error is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
