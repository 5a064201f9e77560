package release

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrompter_Input(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in         string
		prompt     string
		want       string
		wantPrompt string
	}{
		"answer": {
			in:         "0.2\n",
			prompt:     "Enter release version",
			want:       "0.2",
			wantPrompt: "Enter release version (Default: 0.1.0): ",
		},
		"empty answer uses default": {
			in:     "\n",
			prompt: "Enter release version",
			want:   "0.1.0",
		},
		"end of input uses default": {
			in:     "",
			prompt: "Enter release version",
			want:   "0.1.0",
		},
		"multi-line prompt": {
			in:         "  0.3  \n",
			prompt:     "Current version\nEnter release version",
			want:       "0.3",
			wantPrompt: "Current version\nEnter release version\n(Default: 0.1.0): ",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.in), &out)

			got, err := p.Input(tt.prompt, "0.1.0")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			if tt.wantPrompt != "" {
				assert.Equal(t, tt.wantPrompt, out.String())
			}
		})
	}
}

func TestLinePrompter_Confirm(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		in   string
		want bool
	}{
		"y":     {in: "y\n", want: true},
		"Y":     {in: "Y\n", want: true},
		"yes":   {in: "yes\n", want: true},
		"no":    {in: "n\n", want: false},
		"YES":   {in: "YES\n", want: false},
		"empty": {in: "\n", want: false},
		"eof":   {in: "", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.in), &out)

			got, err := p.Confirm("Release?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasPrefix(out.String(), "Release? Confirm? [y/n]: "))
		})
	}
}

func TestLinePrompter_Sequence(t *testing.T) {
	t.Parallel()

	p := NewPrompter(strings.NewReader("0.2\ny\n"), &bytes.Buffer{})

	got, err := p.Input("version", "0.1.0")
	require.NoError(t, err)
	assert.Equal(t, "0.2", got)

	ok, err := p.Confirm("sure")
	require.NoError(t, err)
	assert.True(t, ok)
}
