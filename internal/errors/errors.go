// Package errors gives relkit's command failures a category, which picks the
// exit code, and the remediation steps printed under the message.
package errors

import (
	stderrors "errors"
)

// ErrorCategory groups failures by what the user has to fix.
type ErrorCategory int

const (
	// Argument covers bad flags and positional arguments.
	Argument ErrorCategory = iota
	// Configuration covers pyproject.toml, relkit.yaml and RELKIT_* values.
	Configuration
	// Prerequisite covers an unusable project layout or repository.
	Prerequisite
	// Validation covers changelog, version and deprecation checks.
	Validation
	// VersionControl covers sync, commit, tag and push failures.
	VersionControl
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:       "Argument Error",
	Configuration:  "Configuration Error",
	Prerequisite:   "Prerequisite Error",
	Validation:     "Validation Error",
	VersionControl: "Git Error",
	Runtime:        "Runtime Error",
}

func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is a failure ready to be shown to the user.
type CLIError struct {
	Category ErrorCategory
	Message  string
	// Usage is the command line synopsis, shown for argument errors.
	Usage       string
	Remediation []string
	Cause       error
}

func (e *CLIError) Error() string { return e.Message }

func (e *CLIError) Unwrap() error { return e.Cause }

// New returns a CLIError without a cause.
func New(category ErrorCategory, message string, remediation ...string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// WithUsage sets the synopsis printed under the message and returns e.
func (e *CLIError) WithUsage(usage string) *CLIError {
	e.Usage = usage
	return e
}

// Wrap keeps err's message and records err as the cause. It returns nil for
// a nil err.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	return &CLIError{Category: category, Message: err.Error(), Remediation: remediation, Cause: err}
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
