package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relkit/internal/changelog"
)

func doc(latest string, entries ...string) *changelog.Document {
	src := "# CHANGELOG\n\n## " + latest + "\n\n"
	for _, e := range entries {
		src += "* " + e + "\n"
	}
	src += "\n## 0.0.1 (2023-01-01)\n\n* [Feature] First\n"
	return changelog.Parse(src, changelog.FormatMarkdown)
}

func TestCheckLatestChangelogEntries(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		entries []string
		wantErr bool
		want    []string
	}{
		"all tagged": {
			entries: []string{"[Fix] a", "[Doc] b"},
		},
		"untagged entry": {
			entries: []string{"[Fix] a", "Stuff"},
			wantErr: true,
			want:    []string{`"Stuff"`, "(0.2dev)", "[API Change], [Feature], [Fix], [Doc]"},
		},
		"several untagged": {
			entries: []string{"One", "Two"},
			wantErr: true,
			want:    []string{`"One", "Two"`},
		},
		"no entries": {},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := New("0.2dev", "src/pkg/__init__.py", doc("0.2dev", tt.entries...)).CheckLatestChangelogEntries()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var p *Problem
			require.ErrorAs(t, err, &p)
			assert.Equal(t, KindChangelog, p.Kind)
			for _, w := range tt.want {
				assert.Contains(t, p.Message, w)
			}
		})
	}
}

func TestCheckConsistentDevVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version string
		entries []string
		wantErr bool
	}{
		"api change on minor bump": {version: "0.1.1dev", entries: []string{"[API Change] Drops x"}, wantErr: true},
		"api change on major":      {version: "1.0dev", entries: []string{"[API Change] Drops x"}},
		"api change on 2.0.0":      {version: "2.0.0", entries: []string{"[API Change] Drops x"}},
		"no api change":            {version: "0.1.1dev", entries: []string{"[Fix] a"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := New(tt.version, "src/pkg/__init__.py", doc(tt.version, tt.entries...)).CheckConsistentDevVersion()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var p *Problem
			require.ErrorAs(t, err, &p)
			assert.Equal(t, KindVersion, p.Kind)
			assert.Contains(t, p.Message, tt.version)
			assert.Contains(t, p.Message, "src/pkg/__init__.py")
		})
	}
}

func TestCheckConsistentChangelogAndVersion(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		version string
		heading string
		wantErr bool
	}{
		"dev matches":            {version: "0.1dev", heading: "0.1dev"},
		"dated release matches":  {version: "0.1.0", heading: "0.1.0 (2024-01-01)"},
		"undated release":        {version: "0.1.0", heading: "0.1.0"},
		"different dev versions": {version: "0.1.1dev", heading: "0.1dev", wantErr: true},
		"not normalized":         {version: "0.1.0", heading: "0.1", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := New(tt.version, "src/pkg/__init__.py", doc(tt.heading, "[Fix] a")).CheckConsistentChangelogAndVersion()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var p *Problem
			require.ErrorAs(t, err, &p)
			assert.Contains(t, p.Message, tt.version)
			assert.Contains(t, p.Message, tt.heading)
			assert.Contains(t, p.Message, "src/pkg/__init__.py")
		})
	}
}

func TestCheck_Aggregates(t *testing.T) {
	t.Parallel()

	c := New("0.1.1dev", "src/pkg/__init__.py", doc("0.1dev", "Stuff", "[API Change] Drops x"))
	err := c.Check()

	var pe *ProjectError
	require.ErrorAs(t, err, &pe)
	require.Len(t, pe.Problems, 3)
	assert.Equal(t, KindChangelog, pe.Problems[0].Kind)
	assert.Equal(t, KindVersion, pe.Problems[1].Kind)
	assert.Equal(t, KindVersion, pe.Problems[2].Kind)

	msg := err.Error()
	assert.Contains(t, msg, "Found the following errors in the project:\n- [Invalid CHANGELOG] ")
	assert.Contains(t, msg, "\n- [Invalid version] ")
}

func TestCheck_Passes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, New("1.0dev", "v.py", doc("1.0dev", "[API Change] Drops x", "[Fix] a")).Check())
	assert.NoError(t, New("0.1dev", "v.py", nil).Check())
}

func TestCheck_MissingSectionIsFatal(t *testing.T) {
	t.Parallel()

	d := changelog.Parse("# CHANGELOG\n\nNothing yet.\n", changelog.FormatMarkdown)
	err := New("0.1dev", "v.py", d).Check()
	require.Error(t, err)
	assert.True(t, changelog.IsParseError(err))

	var pe *ProjectError
	assert.NotErrorAs(t, err, &pe)
}
