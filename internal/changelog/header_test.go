package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		format  Format
		date    string
		want    string
	}{
		"markdown":       {content: "0.1dev", format: FormatMarkdown, want: "## 0.1dev"},
		"markdown dated": {content: "0.1.0", format: FormatMarkdown, date: "2024-01-01", want: "## 0.1.0 (2024-01-01)"},
		"rst":            {content: "0.1dev", format: FormatRST, want: "0.1dev\n------"},
		"rst dated":      {content: "0.1.0", format: FormatRST, date: "2024-01-01", want: "0.1.0 (2024-01-01)\n------------------"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, MakeHeader(tt.content, tt.format, tt.date))
		})
	}
}

func TestStripDate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0.1.0", StripDate("0.1.0 (2024-01-01)"))
	assert.Equal(t, "0.1dev", StripDate("0.1dev"))
	assert.Equal(t, "0.1.0 (draft)", StripDate("0.1.0 (draft)"))
	assert.Equal(t, "0.1.0(2024-01-01)", StripDate("0.1.0(2024-01-01)"))
	assert.Equal(t, "0.1.0 (2024-01-01) x", StripDate("0.1.0 (2024-01-01) x"))
}

func TestReleaseHeader(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src    string
		format Format
		want   string
	}{
		"markdown": {
			src:    "# CHANGELOG\n\n## 0.1dev\n\n* [Fix] a\n\n## 0.0.1 (2023-01-01)\n",
			format: FormatMarkdown,
			want:   "# CHANGELOG\n\n## 0.1.0 (2024-01-01)\n\n* [Fix] a\n\n## 0.0.1 (2023-01-01)\n",
		},
		"rst": {
			src:    "CHANGELOG\n=========\n\n0.1dev\n------\n\n* [Fix] a\n",
			format: FormatRST,
			want:   "CHANGELOG\n=========\n\n0.1.0 (2024-01-01)\n------------------\n\n* [Fix] a\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.src, tt.format).ReleaseHeader("0.1.0", "2024-01-01")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReleaseHeader_NoSection(t *testing.T) {
	t.Parallel()

	_, err := Parse("# CHANGELOG\n", FormatMarkdown).ReleaseHeader("0.1.0", "2024-01-01")
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestAddDevSection(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		src     string
		format  Format
		want    string
		wantErr bool
	}{
		"markdown": {
			src:    "# CHANGELOG\n\n## 0.1.0 (2024-01-01)\n\n* [Fix] a\n",
			format: FormatMarkdown,
			want:   "# CHANGELOG\n\n## 0.1.1dev\n\n## 0.1.0 (2024-01-01)\n\n* [Fix] a\n",
		},
		"markdown title only": {
			src:    "# CHANGELOG",
			format: FormatMarkdown,
			want:   "# CHANGELOG\n\n## 0.1.1dev",
		},
		"rst": {
			src:    "CHANGELOG\n=========\n\n0.1.0 (2024-01-01)\n------------------\n",
			format: FormatRST,
			want:   "CHANGELOG\n=========\n\n0.1.1dev\n--------\n\n0.1.0 (2024-01-01)\n------------------\n",
		},
		"no title": {
			src:     "## 0.1.0\n",
			format:  FormatMarkdown,
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Parse(tt.src, tt.format).AddDevSection("0.1.1dev")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsParseError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			s, err := Parse(got, tt.format).LatestSection()
			require.NoError(t, err)
			assert.Equal(t, "0.1.1dev", s.Heading)
			assert.Empty(t, s.Entries)
		})
	}
}

func TestExpandIssueReferences(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		text string
		want string
	}{
		"single": {
			text: "* [Fix] Fixes crash (#12)\n",
			want: "* [Fix] Fixes crash ([#12](https://github.com/owner/repo/issues/12))\n",
		},
		"several": {
			text: "see #1 and #23",
			want: "see [#1](https://github.com/owner/repo/issues/1) and [#23](https://github.com/owner/repo/issues/23)",
		},
		"already linked": {
			text: "[#12](https://github.com/owner/repo/issues/12)",
			want: "[#12](https://github.com/owner/repo/issues/12)",
		},
		"headings are untouched": {
			text: "# CHANGELOG\n\n## 0.1dev\n",
			want: "# CHANGELOG\n\n## 0.1dev\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got := ExpandIssueReferences(tt.text, "owner/repo")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, ExpandIssueReferences(got, "owner/repo"))
		})
	}
}
