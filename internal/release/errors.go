package release

import (
	"errors"
	"strings"
)

// ErrAborted is returned when the user declines the confirmation prompt.
var ErrAborted = errors.New("Aborted!")

// PreflightError is returned when the working tree has uncommitted changes.
type PreflightError struct {
	Files []string
}

func (e *PreflightError) Error() string {
	return "There are pending files to commit, commit or stash them before releasing:\n  " +
		strings.Join(e.Files, "\n  ")
}

// IsPreflightError reports whether err is a PreflightError.
func IsPreflightError(err error) bool {
	var e *PreflightError
	return errors.As(err, &e)
}
