package changelog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Document is a parsed changelog. Source is kept so edits can splice the
// original bytes.
type Document struct {
	Path   string
	Format Format
	Source string
	Blocks []Block
}

// Parse builds the block tree for src. Parsing never fails; structural
// problems surface from the queries that need the structure.
func Parse(src string, format Format) *Document {
	var blocks []Block
	switch format {
	case FormatRST:
		blocks = parseRST([]byte(src))
	default:
		blocks = parseMarkdown([]byte(src))
	}
	return &Document{Format: format, Source: src, Blocks: blocks}
}

// ParseFile reads and parses the changelog at path. The format is taken
// from the file extension.
func ParseFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}

	doc := Parse(string(data), format)
	doc.Path = path
	return doc, nil
}

// FormatFromPath maps a .md or .rst suffix to its Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md":
		return FormatMarkdown, nil
	case ".rst":
		return FormatRST, nil
	default:
		return FormatMarkdown, fmt.Errorf("unsupported changelog format %q, must be .rst or .md", filepath.Ext(path))
	}
}

// FirstSubheading returns the index and text of the first level-2 heading.
func (d *Document) FirstSubheading() (int, string, error) {
	for i, b := range d.Blocks {
		if h, ok := b.(*Heading); ok && h.Level == 2 {
			return i, h.Text, nil
		}
	}
	return -1, "", &ParseError{
		Message: fmt.Sprintf("Couldn't find a level 2 heading in the changelog (e.g., %s)", MakeHeader("0.1dev", d.Format, "")),
	}
}

// FirstListAfter returns the first list after block index and its position.
// It returns nil and -1 when a heading comes first, which is an empty section.
func (d *Document) FirstListAfter(index int) (*List, int) {
	for i := index + 1; i < len(d.Blocks); i++ {
		switch b := d.Blocks[i].(type) {
		case *List:
			return b, i
		case *Heading:
			return nil, -1
		}
	}
	return nil, -1
}

// ExtractEntryText returns the text of a list item. Code spans keep their
// markup and links contribute their anchor text. Any other inline element
// is rejected, and nested lists are not part of the entry.
func ExtractEntryText(item *ListItem) (string, error) {
	var parts []string
	for _, child := range item.Children {
		p, ok := child.(*Paragraph)
		if !ok {
			continue
		}

		var b strings.Builder
		for _, in := range p.Inlines {
			switch v := in.(type) {
			case *Text:
				b.WriteString(v.Raw)
			case *CodeSpan:
				b.WriteString(v.Raw)
			case *Link:
				b.WriteString(v.AnchorText)
			case *Unsupported:
				return "", &ParseError{Message: fmt.Sprintf("Unsupported element in changelog entry: %s", v.Kind)}
			default:
				return "", &ParseError{Message: fmt.Sprintf("Unsupported element in changelog entry: %T", in)}
			}
		}
		parts = append(parts, b.String())
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// Classify returns the category whose tag prefixes text.
func Classify(text string) (Category, error) {
	trimmed := strings.TrimSpace(text)
	for _, c := range Categories() {
		if strings.HasPrefix(trimmed, c.Tag()) {
			return c, nil
		}
	}
	return CategoryUnknown, &ValidationError{
		Field:   "entry",
		Message: fmt.Sprintf("%q does not start with any of %s", trimmed, validTags()),
	}
}

// LatestSection returns the first level-2 section. Entries that cannot be
// classified are kept with CategoryUnknown and their error.
func (d *Document) LatestSection() (*Section, error) {
	index, heading, err := d.FirstSubheading()
	if err != nil {
		return nil, err
	}
	return d.section(index, heading)
}

// Sections returns every level-2 section in document order.
func (d *Document) Sections() ([]*Section, error) {
	var out []*Section
	for i, b := range d.Blocks {
		h, ok := b.(*Heading)
		if !ok || h.Level != 2 {
			continue
		}
		s, err := d.section(i, h.Text)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", h.Text, err)
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *Document) section(index int, heading string) (*Section, error) {
	s := &Section{Heading: heading, HeadingIndex: index}

	list, _ := d.FirstListAfter(index)
	if list == nil {
		return s, nil
	}
	s.List = list

	for i, item := range list.Items {
		text, err := ExtractEntryText(item)
		if err != nil {
			return nil, err
		}
		category, err := Classify(text)
		s.Entries = append(s.Entries, Entry{Text: text, Category: category, Index: i, Err: err})
	}
	return s, nil
}

// Heading returns the heading block of s in d.
func (d *Document) Heading(s *Section) *Heading {
	if s.HeadingIndex < 0 || s.HeadingIndex >= len(d.Blocks) {
		return nil
	}
	h, _ := d.Blocks[s.HeadingIndex].(*Heading)
	return h
}
