package layout

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o755))
	}
}

func touch(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("__version__ = '0.1dev'\n"), 0o644))
	}
}

func TestResolve_Conventional(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		dirs        []string
		files       []string
		wantPackage string
		wantWarning bool
		wantErr     string
	}{
		"single package": {
			dirs:        []string{"src/mypkg"},
			wantPackage: "mypkg",
		},
		"artifacts are ignored": {
			dirs:        []string{"src/__pycache__", "src/mypkg.egg-info", "src/.cache", "src/mypkg"},
			wantPackage: "mypkg",
		},
		"files are ignored": {
			dirs:        []string{"src/zpkg"},
			files:       []string{"src/apkg.py"},
			wantPackage: "zpkg",
		},
		"several packages picks first sorted": {
			dirs:        []string{"src/zeta", "src/alpha"},
			wantPackage: "alpha",
			wantWarning: true,
		},
		"missing src": {
			dirs:    []string{"lib/mypkg"},
			wantErr: "Expected a directory at 'src' but it doesn't exist",
		},
		"empty src": {
			dirs:    []string{"src"},
			wantErr: "no package directory found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			mkdirs(t, root, tt.dirs...)
			touch(t, root, tt.files...)

			var warnings bytes.Buffer
			l, err := Resolve(root, Options{Warnings: &warnings})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPackage, l.PackageName)
			assert.Equal(t, filepath.Join(root, "src", tt.wantPackage), l.PackagePath)
			assert.Equal(t, DefaultVersionFile, l.VersionFileName)
			assert.Equal(t, filepath.Join(root, "src", tt.wantPackage, "__init__.py"), l.VersionFilePath())
			if tt.wantWarning {
				assert.Contains(t, warnings.String(), "found more than one directory")
			} else {
				assert.Empty(t, warnings.String())
			}
		})
	}
}

func TestResolve_MissingSrcIsNotADirectoryError(t *testing.T) {
	t.Parallel()

	_, err := Resolve(t.TempDir(), Options{})
	var nde *NotADirectoryError
	require.ErrorAs(t, err, &nde)
	assert.Equal(t, "src", nde.Path)
}

func TestResolve_Explicit(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files       []string
		versionFile string
		wantPackage string
		wantFile    string
		wantErr     string
	}{
		"relative path": {
			files:       []string{"pkg/mypkg/_version.py"},
			versionFile: "pkg/mypkg/_version.py",
			wantPackage: "mypkg",
			wantFile:    "_version.py",
		},
		"missing file": {
			versionFile: "pkg/missing.py",
			wantErr:     "Version file not found:",
		},
		"empty path": {
			versionFile: "  ",
			wantErr:     "Empty version file path in configuration.",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			touch(t, root, tt.files...)

			l, err := Resolve(root, Options{VersionFile: tt.versionFile, ExplicitVersionFile: true})
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPackage, l.PackageName)
			assert.Equal(t, tt.wantFile, l.VersionFileName)
			assert.Equal(t, filepath.Join(root, tt.versionFile), l.VersionFilePath())
		})
	}
}

func TestResolve_Changelog(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		files []string
		want  string
	}{
		"none":       {want: ""},
		"markdown":   {files: []string{"CHANGELOG.md"}, want: "CHANGELOG.md"},
		"rst":        {files: []string{"CHANGELOG.rst"}, want: "CHANGELOG.rst"},
		"rst wins":   {files: []string{"CHANGELOG.md", "CHANGELOG.rst"}, want: "CHANGELOG.rst"},
		"other name": {files: []string{"HISTORY.md"}, want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			root := t.TempDir()
			mkdirs(t, root, "src/mypkg")
			touch(t, root, tt.files...)

			l, err := Resolve(root, Options{})
			require.NoError(t, err)
			if tt.want == "" {
				assert.False(t, l.HasChangelog())
				assert.Empty(t, l.ChangelogPath)
				return
			}
			assert.True(t, l.HasChangelog())
			assert.Equal(t, filepath.Join(root, tt.want), l.ChangelogPath)
		})
	}
}
