package changelog

import "strings"

// Format is the markup language of a changelog file.
type Format int

const (
	FormatMarkdown Format = iota
	FormatRST
)

func (f Format) String() string {
	switch f {
	case FormatRST:
		return "rst"
	default:
		return "md"
	}
}

// Span is a byte range [Start, End) of the source text. A zero Span means the
// position is unknown.
type Span struct {
	Start int
	End   int
}

// Known reports whether the span locates any source text.
func (s Span) Known() bool {
	return s.End > s.Start
}

// Node is any element of a parsed changelog.
type Node interface {
	node()
}

// Block is a node that covers whole source lines.
type Block interface {
	Node
	Span() Span
}

// Inline is a node inside a heading or paragraph.
type Inline interface {
	Node
	inline()
}

// Heading is a section title. Text is the title content without markup.
type Heading struct {
	Level   int
	Text    string
	Inlines []Inline
	Pos     Span
}

// List is a bullet or ordered list.
type List struct {
	Items []*ListItem
	Pos   Span
}

// ListItem is one entry of a List. Its span runs from the marker line up to
// the next item, or the end of the list for the last one.
type ListItem struct {
	Children []Block
	Pos      Span
}

// Paragraph is a run of text lines.
type Paragraph struct {
	Inlines []Inline
	Pos     Span
}

// Opaque is any other block (code, quotes, rules, directives). Its content is
// never inspected.
type Opaque struct {
	Kind string
	Pos  Span
}

// Text is literal inline text.
type Text struct {
	Raw string
}

// CodeSpan is inline code. Raw holds the markup verbatim, delimiters included.
type CodeSpan struct {
	Raw string
}

// Link is a hyperlink. Only the anchor text is part of an entry's text.
type Link struct {
	AnchorText string
	URL        string
}

// Unsupported is an inline element an entry may not contain.
type Unsupported struct {
	Kind string
}

func (*Document) node()    {}
func (*Heading) node()     {}
func (*List) node()        {}
func (*ListItem) node()    {}
func (*Paragraph) node()   {}
func (*Opaque) node()      {}
func (*Text) node()        {}
func (*CodeSpan) node()    {}
func (*Link) node()        {}
func (*Unsupported) node() {}

func (*Text) inline()        {}
func (*CodeSpan) inline()    {}
func (*Link) inline()        {}
func (*Unsupported) inline() {}

func (h *Heading) Span() Span   { return h.Pos }
func (l *List) Span() Span      { return l.Pos }
func (i *ListItem) Span() Span  { return i.Pos }
func (p *Paragraph) Span() Span { return p.Pos }
func (o *Opaque) Span() Span    { return o.Pos }

// Walk visits n and its descendants in document order. Returning false from
// fn skips the children of the node just visited.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	switch v := n.(type) {
	case *Document:
		for _, b := range v.Blocks {
			Walk(b, fn)
		}
	case *Heading:
		for _, in := range v.Inlines {
			Walk(in, fn)
		}
	case *List:
		for _, item := range v.Items {
			Walk(item, fn)
		}
	case *ListItem:
		for _, b := range v.Children {
			Walk(b, fn)
		}
	case *Paragraph:
		for _, in := range v.Inlines {
			Walk(in, fn)
		}
	}
}

// Category is the kind of change an entry describes. Categories are ordered
// by rank; the zero value is not a valid category.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAPIChange
	CategoryFeature
	CategoryFix
	CategoryDoc
)

// Categories returns the valid categories in rank order.
func Categories() []Category {
	return []Category{CategoryAPIChange, CategoryFeature, CategoryFix, CategoryDoc}
}

// Name returns the label used inside the bracket tag, e.g. "API Change".
func (c Category) Name() string {
	switch c {
	case CategoryAPIChange:
		return "API Change"
	case CategoryFeature:
		return "Feature"
	case CategoryFix:
		return "Fix"
	case CategoryDoc:
		return "Doc"
	default:
		return "Unknown"
	}
}

// Tag returns the bracket prefix an entry must start with, e.g. "[Fix]".
func (c Category) Tag() string {
	return "[" + c.Name() + "]"
}

func (c Category) String() string {
	return c.Name()
}

// MarshalText renders the category by name in JSON and YAML reports.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Name()), nil
}

// validTags lists the accepted prefixes for error messages.
func validTags() string {
	tags := make([]string, 0, 4)
	for _, c := range Categories() {
		tags = append(tags, c.Tag())
	}
	return strings.Join(tags, ", ")
}

// Entry is one item of a changelog section.
type Entry struct {
	Text     string   `json:"text" yaml:"text"`
	Category Category `json:"category" yaml:"category"`
	// Index is the position of the item in the section's list.
	Index int `json:"index" yaml:"index"`
	// Err is the classification error, nil when Category is valid.
	Err error `json:"-" yaml:"-"`
}

// Section is a level-2 heading and the entries of the list that follows it.
type Section struct {
	Heading      string  `json:"heading" yaml:"heading"`
	HeadingIndex int     `json:"-" yaml:"-"`
	Entries      []Entry `json:"entries" yaml:"entries"`
	// List is nil for a section without entries.
	List *List `json:"-" yaml:"-"`
}

// Invalid returns the entries that could not be classified.
func (s *Section) Invalid() []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Category == CategoryUnknown {
			out = append(out, e)
		}
	}
	return out
}

// Has reports whether any entry belongs to c.
func (s *Section) Has(c Category) bool {
	for _, e := range s.Entries {
		if e.Category == c {
			return true
		}
	}
	return false
}
