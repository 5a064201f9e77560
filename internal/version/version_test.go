package version

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input   string
		wantErr string
	}{
		"release":        {input: "0.1.0"},
		"dev":            {input: "0.1dev"},
		"empty":          {input: "", wantErr: "Got invalid empty version string: ''"},
		"leading letter": {input: "v1.0", wantErr: "Got invalid version string: 'v1.0' (first character must be numeric)"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsParseError(err))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input     string
		want      Version
		canonical string
		wantErr   bool
	}{
		"single component": {
			input:     "1",
			want:      Version{Major: 1},
			canonical: "1.0.0",
		},
		"two component dev": {
			input:     "0.1dev",
			want:      Version{Minor: 1, Dev: true},
			canonical: "0.1.0dev",
		},
		"beta": {
			input:     "1.0b1",
			want:      Version{Major: 1, Pre: &PreRelease{Kind: "b", Number: 1}},
			canonical: "1.0.0b1",
		},
		"release candidate dev": {
			input:     "2.3.4rc2dev",
			want:      Version{Major: 2, Minor: 3, Patch: 4, Pre: &PreRelease{Kind: "rc", Number: 2}, Dev: true},
			canonical: "2.3.4rc2dev",
		},
		"garbage after digits": {input: "1.x", wantErr: true},
		"empty":                {input: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsParseError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.canonical, got.String())
		})
	}
}

func TestVersionMethods(t *testing.T) {
	t.Parallel()

	v := MustParse("2.0b3dev")
	assert.True(t, v.IsDev())
	assert.True(t, v.IsPreRelease())
	assert.True(t, v.IsMajor())
	assert.False(t, v.Release().IsDev())
	assert.Equal(t, "2.0.0b3", v.Release().String())

	assert.False(t, MustParse("2.1").IsMajor())
	assert.False(t, MustParse("2.0.1").IsMajor())
	assert.Panics(t, func() { MustParse("dev") })
}

func TestComplete(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"one component":         {input: "1", want: "1.0.0"},
		"two components":        {input: "2.1", want: "2.1.0"},
		"three components":      {input: "2.1.3", want: "2.1.3"},
		"pre-release":           {input: "1.0b10", want: "1.0.0b10"},
		"completed pre-release": {input: "1.0.0rc1", want: "1.0.0rc1"},
		"alpha one component":   {input: "3a2", want: "3.0.0a2"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := Complete(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Complete(got), "Complete must be idempotent")
		})
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.1.0", Normalize("0.1dev"))
	assert.Equal(t, "0.6.0", Normalize("0.6"))
	assert.Equal(t, Normalize("0.6.0"), Normalize("0.6dev"))
	assert.NotEqual(t, Normalize("0.1dev"), Normalize("0.1.1dev"))
}

func TestIsPreRelease(t *testing.T) {
	t.Parallel()

	assert.True(t, IsPreRelease("1.0a1"))
	assert.True(t, IsPreRelease("1.0b1"))
	assert.True(t, IsPreRelease("1.0rc1"))
	assert.False(t, IsPreRelease("1.0.0"))
	assert.False(t, IsPreRelease("1.0dev"))
}

func TestIsMajor(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  bool
	}{
		"major dev":        {input: "2.0dev", want: true},
		"minor dev":        {input: "2.1dev", want: false},
		"patch release":    {input: "0.1.1dev", want: false},
		"zero":             {input: "0.0.0", want: true},
		"single component": {input: "3", want: true},
		"major beta":       {input: "1.0b1", want: true},
		"patch only":       {input: "1.0.1", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsMajor(tt.input))
		})
	}
}

func TestBumpUp(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input     string
		want      string
		wantState bool
	}{
		"three components":     {input: "1.2.5", want: "1.2.6dev"},
		"two components":       {input: "0.1", want: "0.1.1dev"},
		"two components major": {input: "0.8", want: "0.8.1dev"},
		"carry is not applied": {input: "1.2.9", want: "1.2.10dev"},
		"beta":                 {input: "1.0b1", want: "1.0dev"},
		"release candidate":    {input: "2.1.0rc3", want: "2.1.0dev"},
		"dev is rejected":      {input: "0.1dev", wantState: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := BumpUp(tt.input)
			if tt.wantState {
				require.Error(t, err)
				assert.True(t, IsStateError(err))
				assert.Contains(t, err.Error(), tt.input)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReleaseCandidate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input     string
		want      string
		wantState bool
	}{
		"two component dev":   {input: "0.1dev", want: "0.1.0"},
		"three component dev": {input: "2.4.1dev", want: "2.4.1"},
		"pre-release dev":     {input: "1.0b2dev", want: "1.0.0b2"},
		"release is rejected": {input: "0.1.0", wantState: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := ReleaseCandidate(tt.input)
			if tt.wantState {
				require.Error(t, err)
				assert.True(t, IsStateError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReleaseThenBump(t *testing.T) {
	t.Parallel()

	release, err := ReleaseCandidate("0.3dev")
	require.NoError(t, err)
	assert.Equal(t, "0.3.0", release)

	dev, err := BumpUp(release)
	require.NoError(t, err)
	assert.Equal(t, "0.3.1dev", dev)
}

func writeVersionFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "__init__.py")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		want    string
		wantErr string
	}{
		"double quoted": {
			content: "\"\"\"Package.\"\"\"\n__version__ = \"0.1dev\"\n",
			want:    "0.1dev",
		},
		"single quoted with comment": {
			content: "__version__ = '1.2.0'  # managed by relkit\n",
			want:    "1.2.0",
		},
		"missing assignment": {
			content: "import os\n",
			wantErr: "Please add version string in",
		},
		"not a literal": {
			content: "__version__ = get_version()\n",
			wantErr: "Could not find __version__ value in",
		},
		"unterminated literal": {
			content: "__version__ = '0.1\n",
			wantErr: "Could not find __version__ value in",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeVersionFile(t, tt.content)
			got, err := ReadFile(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Contains(t, err.Error(), path)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.py"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		version string
		want    string
	}{
		"keeps double quotes and surrounding text": {
			content: "# header\n__version__ = \"0.1dev\"\nother = 1\n",
			version: "0.1.0",
			want:    "# header\n__version__ = \"0.1.0\"\nother = 1\n",
		},
		"keeps single quotes and comment": {
			content: "__version__ = '0.1.0'  # keep me\n",
			version: "0.1.1dev",
			want:    "__version__ = '0.1.1dev'  # keep me\n",
		},
		"no trailing newline": {
			content: "__version__ = '2.0'",
			version: "2.0.1dev",
			want:    "__version__ = '2.0.1dev'",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			path := writeVersionFile(t, tt.content)
			require.NoError(t, WriteFile(path, tt.version))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			got, err := ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.version, got)
		})
	}
}

func TestWriteFile_NoLiteral(t *testing.T) {
	t.Parallel()

	path := writeVersionFile(t, "VERSION = '1'\n")
	err := WriteFile(path, "1.0.0")
	require.Error(t, err)

	var fe *FileError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, path, fe.Path)
}
