package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// DateLayout is the format of the release date in section headings.
const DateLayout = "2006-01-02"

var dateSuffixPattern = regexp.MustCompile(` \(\d{4}-\d{2}-\d{2}\)$`)

// MakeHeader renders a version heading. A non-empty date is appended as
// " (YYYY-MM-DD)".
//
//	md:  ## 0.2.0 (2024-01-01)
//	rst: 0.2.0 (2024-01-01)
//	     ----------------------
func MakeHeader(content string, format Format, date string) string {
	if date != "" {
		content += fmt.Sprintf(" (%s)", date)
	}
	if format == FormatRST {
		return content + "\n" + strings.Repeat("-", len(content))
	}
	return "## " + content
}

// StripDate removes a trailing " (YYYY-MM-DD)" from a heading. No other
// annotation is recognised.
func StripDate(heading string) string {
	return dateSuffixPattern.ReplaceAllString(heading, "")
}

// ReleaseHeader replaces the heading of the latest section with the dated
// heading for release and returns the new text.
func (d *Document) ReleaseHeader(release, date string) (string, error) {
	index, _, err := d.FirstSubheading()
	if err != nil {
		return "", err
	}
	h := d.Blocks[index].(*Heading)
	if !h.Pos.Known() {
		return "", &ParseError{Message: "cannot locate the latest section heading in the source"}
	}

	return d.splice(h.Pos, MakeHeader(release, d.Format, date)), nil
}

// AddDevSection inserts an empty section for dev right below the document
// title and returns the new text.
func (d *Document) AddDevSection(dev string) (string, error) {
	var title *Heading
	for _, b := range d.Blocks {
		if h, ok := b.(*Heading); ok && h.Level == 1 {
			title = h
			break
		}
	}
	if title == nil || !title.Pos.Known() {
		return "", &ParseError{Message: fmt.Sprintf("Couldn't find the changelog title (e.g., %s)", titleExample(d.Format))}
	}

	header := MakeHeader(dev, d.Format, "")
	at := title.Pos.End
	insert := "\n" + header + "\n"
	if !strings.HasSuffix(d.Source[:at], "\n") {
		insert = "\n\n" + header
	}
	return d.Source[:at] + insert + d.Source[at:], nil
}

// splice replaces the lines covered by span with text, keeping the line
// terminator of the replaced range.
func (d *Document) splice(span Span, text string) string {
	old := d.Source[span.Start:span.End]
	switch {
	case strings.HasSuffix(old, "\r\n"):
		text += "\r\n"
	case strings.HasSuffix(old, "\n"):
		text += "\n"
	}
	return d.Source[:span.Start] + text + d.Source[span.End:]
}

func titleExample(format Format) string {
	if format == FormatRST {
		return "CHANGELOG\n========="
	}
	return "# CHANGELOG"
}
