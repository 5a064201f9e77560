package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":        {category: Argument, want: "Argument Error"},
		"configuration":   {category: Configuration, want: "Configuration Error"},
		"prerequisite":    {category: Prerequisite, want: "Prerequisite Error"},
		"validation":      {category: Validation, want: "Validation Error"},
		"version control": {category: VersionControl, want: "Git Error"},
		"runtime":         {category: Runtime, want: "Runtime Error"},
		"unknown":         {category: ErrorCategory(99), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Wrap(nil, Runtime))

	base := stderrors.New("boom")
	err := Wrap(base, VersionControl, "retry")
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, VersionControl, err.Category)
	assert.Equal(t, []string{"retry"}, err.Remediation)
	assert.ErrorIs(t, err, base)
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := New(Validation, "bad changelog")
	wrapped := fmt.Errorf("running release: %w", cliErr)

	assert.Same(t, cliErr, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  *CLIError
		want []string
		skip []string
	}{
		"message only": {
			err:  New(Runtime, "something failed"),
			want: []string{"Error [Runtime Error]: something failed\n"},
			skip: []string{"To fix this:", "Usage:"},
		},
		"with usage": {
			err:  New(Argument, "missing version", "pass a version").WithUsage("relkit release"),
			want: []string{"Usage: relkit release", "To fix this:", "  • pass a version"},
		},
		"multi-line message": {
			err: New(Validation, "Found the following errors in the project:\n- [Invalid CHANGELOG] x"),
			want: []string{
				"Error [Validation Error]: Found the following errors in the project:\n- [Invalid CHANGELOG] x\n",
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := formatError(tt.err, plainPalette)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			for _, s := range tt.skip {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestFprintError_Nil(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestFprintError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, PendingFiles(stderrors.New("There are pending files to commit")))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Error [Prerequisite Error]: There are pending files to commit\n"),
		"non-terminal writers get plain output: %q", out)
	assert.Contains(t, out, "  • Or stash them: git stash\n")
}

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("cause")
	tests := map[string]struct {
		err      *CLIError
		category ErrorCategory
	}{
		"git not repository":   {err: GitNotRepository("/tmp/x", cause), category: Prerequisite},
		"missing source dir":   {err: MissingSourceDir(cause), category: Prerequisite},
		"invalid config":       {err: InvalidConfig(cause), category: Configuration},
		"pending files":        {err: PendingFiles(cause), category: Prerequisite},
		"project invalid":      {err: ProjectInvalid(cause), category: Validation},
		"pending deprecations": {err: PendingDeprecations(cause), category: Validation},
		"invalid version":      {err: InvalidVersion(cause), category: Validation},
		"version control":      {err: VersionControlFailed(cause), category: VersionControl},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.category, tt.err.Category)
			assert.NotEmpty(t, tt.err.Remediation)
			assert.ErrorIs(t, tt.err, cause)
		})
	}

	assert.Equal(t, "not a git repository: /tmp/x: cause", GitNotRepository("/tmp/x", cause).Message)
	assert.Nil(t, GitNotRepository("/tmp/x", nil))

	flagErr := InvalidFlagValue("format", "xml", "text", "json", "yaml")
	assert.Equal(t, Argument, flagErr.Category)
	assert.True(t, strings.HasPrefix(flagErr.Remediation[0], "Valid values: text, json, yaml"))
}
