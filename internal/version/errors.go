package version

import (
	"errors"
	"fmt"
)

// ParseError is returned when a version string does not have the expected shape.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return "Got invalid empty version string: ''"
	}
	return fmt.Sprintf("Got invalid version string: '%s' (%s)", e.Input, e.Reason)
}

// FileError is returned when the version file has no readable version literal.
type FileError struct {
	Path    string
	Message string
}

func (e *FileError) Error() string {
	return e.Message
}

// StateError is returned when a transition is not allowed from the current
// state, e.g. bumping a version that is already in dev.
type StateError struct {
	Version string
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%s (got %s)", e.Message, e.Version)
}

// IsParseError returns true if err is or wraps a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsStateError returns true if err is or wraps a StateError.
func IsStateError(err error) bool {
	var se *StateError
	return errors.As(err, &se)
}
