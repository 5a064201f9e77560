package deprecation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindInText(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text string
		want []Finding
	}{
		"simple": {
			text: `
def function():
    """
    Notes
    -----
    .. deprecated:: 1.2.3

        -Attention, ` + "`module.function`" + ` removed in 1.3
    """
    pass
`,
			want: []Finding{{Body: "-Attention, `module.function` removed in 1.3\n", Target: "1.3"}},
		},
		"trailing text": {
			text: `
def function():
    """
    .. deprecated:: 1.2.3
        Stuff removed in 1.3, -update ` + "`module.function`" + `
    """
`,
			want: []Finding{{Body: "Stuff removed in 1.3, -update `module.function`\n", Target: "1.3"}},
		},
		"multi-line body": {
			text: `
def function():
    """
    .. deprecated:: 1.2.3
        This
        description spans
        multiple lines. Removed in 1.3.4
        so update
    """
`,
			want: []Finding{{
				Body:   "This\n        description spans\n        multiple lines. Removed in 1.3.4\n        so update\n",
				Target: "1.3.4",
			}},
		},
		"multiple": {
			text: `
def function():
    """
    .. deprecated:: 1.2.3
        Will be removed in 1.3
    """

def another():
    """
    .. deprecated:: 1.2.6
        Will be removed in 1.4
    """
`,
			want: []Finding{
				{Body: "Will be removed in 1.3\n", Target: "1.3"},
				{Body: "Will be removed in 1.4\n", Target: "1.4"},
			},
		},
		"no directive": {
			text: "def function():\n    pass\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FindInText(tt.text))
		})
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func directive(announced, target string) string {
	return "def f():\n    \"\"\"\n    .. deprecated:: " + announced + "\n        Removed in " + target + "\n    \"\"\"\n"
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "some/nested/dir/functions.py", directive("0.5.6", "0.6")+directive("0.5.6", "0.6.0"))
	writeFile(t, root, "some/nested/functions.py", directive("0.1", "0.2"))
	writeFile(t, root, "functions.py", directive("0.1", "0.3"))
	writeFile(t, root, "notes.txt", directive("0.1", "0.3"))
	writeFile(t, root, ".venv/lib/site.py", directive("0.1", "0.3"))

	records, err := Find(root, Options{})
	require.NoError(t, err)

	var got []string
	for _, r := range records {
		rel, err := filepath.Rel(root, r.Path)
		require.NoError(t, err)
		got = append(got, filepath.ToSlash(rel)+"@"+r.Target)
	}
	assert.Equal(t, []string{
		"functions.py@0.3",
		"some/nested/dir/functions.py@0.6",
		"some/nested/dir/functions.py@0.6.0",
		"some/nested/functions.py@0.2",
	}, got)
}

func TestFind_Extensions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, root, "a.py", directive("0.1", "0.3"))
	writeFile(t, root, "b.pyx", directive("0.1", "0.3"))

	records, err := Find(root, Options{Extensions: []string{".pyx"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, filepath.Join(root, "b.pyx"), records[0].Path)
}

func TestFind_MissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Find(filepath.Join(t.TempDir(), "missing"), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current string
		wantErr bool
	}{
		"due at release":     {current: "0.6.0", wantErr: true},
		"due at dev version": {current: "0.6dev", wantErr: true},
		"not yet due":        {current: "0.5.9", wantErr: false},
		"already past":       {current: "0.7.0", wantErr: false},
	}

	root := t.TempDir()
	writeFile(t, root, "pkg/mod.py", directive("0.4", "0.6"))

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := Check(root, tt.current, Options{})
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var pe *PendingError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "0.6.0", pe.Version)
			require.Len(t, pe.Records, 1)
			assert.Contains(t, err.Error(), "Found the following pending deprecations:\n- ")
			assert.Contains(t, err.Error(), "Removed in 0.6")
			assert.Contains(t, err.Error(), filepath.Join(root, "pkg", "mod.py"))
		})
	}
}

func TestCheckRecords_GroupsByNormalizedTarget(t *testing.T) {
	t.Parallel()

	records := []Record{
		{Finding: Finding{Body: "a\n", Target: "0.6"}, Path: "a.py"},
		{Finding: Finding{Body: "b\n", Target: "0.6.0"}, Path: "b.py"},
		{Finding: Finding{Body: "c\n", Target: "0.7"}, Path: "c.py"},
	}

	err := CheckRecords(records, "0.6.0")
	var pe *PendingError
	require.ErrorAs(t, err, &pe)
	assert.Len(t, pe.Records, 2)
	assert.Equal(t, "Found the following pending deprecations:\n- \"a\\n\" at \"a.py\"\n- \"b\\n\" at \"b.py\"", err.Error())

	assert.NoError(t, CheckRecords(nil, "0.6.0"))
}
