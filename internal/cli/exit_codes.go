package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ariel-frischer/relkit/internal/changelog"
	"github.com/ariel-frischer/relkit/internal/check"
	"github.com/ariel-frischer/relkit/internal/config"
	"github.com/ariel-frischer/relkit/internal/deprecation"
	clierrors "github.com/ariel-frischer/relkit/internal/errors"
	"github.com/ariel-frischer/relkit/internal/git"
	"github.com/ariel-frischer/relkit/internal/layout"
	"github.com/ariel-frischer/relkit/internal/release"
	"github.com/ariel-frischer/relkit/internal/version"
)

// Exit codes for the relkit CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitValidationFailed indicates the project failed a check
	ExitValidationFailed = 1

	// ExitAborted indicates the user declined a confirmation
	ExitAborted = 2

	// ExitInvalidArguments indicates invalid command arguments or settings
	ExitInvalidArguments = 3

	// ExitMissingPrerequisite indicates the project or repository is not usable
	ExitMissingPrerequisite = 4

	// ExitVersionControl indicates a git step failed
	ExitVersionControl = 5
)

// ExitError carries an exit code for output that was already written.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// NewExitError returns an error that exits with code without printing.
func NewExitError(code int) error {
	return &ExitError{Code: code}
}

// exitCodeFor maps an error category to its exit code.
func exitCodeFor(category clierrors.ErrorCategory) int {
	switch category {
	case clierrors.Argument, clierrors.Configuration:
		return ExitInvalidArguments
	case clierrors.Prerequisite:
		return ExitMissingPrerequisite
	case clierrors.VersionControl:
		return ExitVersionControl
	default:
		return ExitValidationFailed
	}
}

// classify turns a domain error into a CLIError with remediation hints.
func classify(err error) *clierrors.CLIError {
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return cliErr
	}

	var (
		notDir      *layout.NotADirectoryError
		preflight   *release.PreflightError
		fileErr     *version.FileError
		pending     *deprecation.PendingError
		projectErr  *check.ProjectError
		problem     *check.Problem
		versionErr  *version.ParseError
		stateErr    *version.StateError
		parseErr    *changelog.ParseError
		validateErr *changelog.ValidationError
	)
	switch {
	case config.IsInvalidConfig(err), errors.Is(err, layout.ErrEmptyVersionFile):
		return clierrors.InvalidConfig(err)
	case errors.As(err, &notDir):
		return clierrors.MissingSourceDir(err)
	case errors.As(err, &preflight):
		return clierrors.PendingFiles(err)
	case errors.As(err, &fileErr):
		return clierrors.Wrap(err, clierrors.Prerequisite)
	case errors.As(err, &pending):
		return clierrors.PendingDeprecations(err)
	case errors.As(err, &projectErr), errors.As(err, &problem):
		return clierrors.ProjectInvalid(err)
	case errors.As(err, &versionErr):
		return clierrors.InvalidVersion(err)
	case errors.As(err, &stateErr), errors.As(err, &parseErr), errors.As(err, &validateErr):
		return clierrors.Wrap(err, clierrors.Validation)
	case git.IsError(err):
		return clierrors.VersionControlFailed(err)
	default:
		return clierrors.Wrap(err, clierrors.Runtime)
	}
}

// reportError prints err to w and returns the exit code for it.
func reportError(w io.Writer, err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, release.ErrAborted) {
		fmt.Fprintln(w, err.Error())
		return ExitAborted
	}

	cliErr := classify(err)
	clierrors.FprintError(w, cliErr)
	return exitCodeFor(cliErr.Category)
}
