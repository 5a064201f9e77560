package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		constant int
		want     int
	}{
		"ExitSuccess":             {constant: ExitSuccess, want: 0},
		"ExitValidationFailed":    {constant: ExitValidationFailed, want: 1},
		"ExitAborted":             {constant: ExitAborted, want: 2},
		"ExitInvalidArguments":    {constant: ExitInvalidArguments, want: 3},
		"ExitMissingPrerequisite": {constant: ExitMissingPrerequisite, want: 4},
		"ExitVersionControl":      {constant: ExitVersionControl, want: 5},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.constant)
		})
	}
}

func TestReportError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err       error
		wantCode  int
		wantOut   string
		wantEmpty bool
	}{
		"aborted": {
			err:      release.ErrAborted,
			wantCode: ExitAborted,
			wantOut:  "Aborted!\n",
		},
		"exit error prints nothing": {
			err:       NewExitError(ExitValidationFailed),
			wantCode:  ExitValidationFailed,
			wantEmpty: true,
		},
		"project invalid": {
			err:      fmt.Errorf("loading: %w", &check.ProjectError{Problems: []*check.Problem{{Kind: check.KindVersion, Message: "x"}}}),
			wantCode: ExitValidationFailed,
			wantOut:  "Validation Error",
		},
		"pending deprecations": {
			err:      &deprecation.PendingError{Version: "0.6.0"},
			wantCode: ExitValidationFailed,
			wantOut:  "Found the following pending deprecations",
		},
		"changelog parse": {
			err:      &changelog.ParseError{Message: "no section"},
			wantCode: ExitValidationFailed,
			wantOut:  "no section",
		},
		"version parse": {
			err:      &version.ParseError{Input: "x"},
			wantCode: ExitValidationFailed,
			wantOut:  "Got invalid version string: 'x'",
		},
		"version state": {
			err:      &version.StateError{Version: "0.1.0", Message: "current version is not a dev version"},
			wantCode: ExitValidationFailed,
		},
		"missing src": {
			err:      &layout.NotADirectoryError{Path: "src"},
			wantCode: ExitMissingPrerequisite,
			wantOut:  "Prerequisite Error",
		},
		"preflight": {
			err:      &release.PreflightError{Files: []string{"?? x"}},
			wantCode: ExitMissingPrerequisite,
			wantOut:  "git stash",
		},
		"version file": {
			err:      &version.FileError{Path: "p", Message: "no version"},
			wantCode: ExitMissingPrerequisite,
		},
		"invalid config": {
			err:      &config.InvalidConfigError{Message: "Invalid key 'x'"},
			wantCode: ExitInvalidArguments,
			wantOut:  "Configuration Error",
		},
		"argument": {
			err:      clierrors.New(clierrors.Argument, "bad flag"),
			wantCode: ExitInvalidArguments,
		},
		"git": {
			err:      &git.Error{Op: "push", Err: errors.New("rejected")},
			wantCode: ExitVersionControl,
			wantOut:  "git push: rejected",
		},
		"other": {
			err:      errors.New("disk full"),
			wantCode: ExitValidationFailed,
			wantOut:  "Runtime Error",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			code := reportError(&out, tt.err)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantEmpty {
				assert.Empty(t, out.String())
			}
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestBoolOverride(t *testing.T) {
	tests := map[string]struct {
		args       []string
		configured bool
		want       bool
	}{
		"configured true":  {configured: true, want: true},
		"configured false": {configured: false, want: false},
		"--no-tag wins":    {args: []string{"--no-tag"}, configured: true, want: false},
		"--tag wins":       {args: []string{"--tag"}, configured: false, want: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			resetFlags(releaseCmd)
			t.Cleanup(func() { resetFlags(releaseCmd) })
			require.NoError(t, releaseCmd.ParseFlags(tt.args))
			assert.Equal(t, tt.want, boolOverride(releaseCmd, "tag", "no-tag", tt.configured))
		})
	}
}
