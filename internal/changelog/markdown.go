package changelog

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// markdownParser recognises every CommonMark block but only three inline
// constructs: code spans, links (images come along with links) and '*'
// emphasis. Underscore emphasis, autolinks and raw HTML are never
// interpreted, so entries such as "[Fix] Fixes my_var_name in __init__" keep
// their underscores as plain text while "**bold**" is parsed and rejected.
var markdownParser = parser.NewParser(
	parser.WithBlockParsers(parser.DefaultBlockParsers()...),
	parser.WithInlineParsers(
		util.Prioritized(parser.NewCodeSpanParser(), 100),
		util.Prioritized(parser.NewLinkParser(), 200),
		util.Prioritized(starEmphasisParser{}, 500),
	),
	parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
)

// starEmphasis is goldmark's emphasis delimiter processor restricted to '*'.
type starEmphasis struct{}

func (starEmphasis) IsDelimiter(b byte) bool { return b == '*' }

func (starEmphasis) CanOpenCloser(opener, closer *parser.Delimiter) bool {
	return opener.Char == closer.Char
}

func (starEmphasis) OnMatch(consumes int) ast.Node {
	return ast.NewEmphasis(consumes)
}

type starEmphasisParser struct{}

func (starEmphasisParser) Trigger() []byte { return []byte{'*'} }

func (starEmphasisParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	before := block.PrecendingCharacter()
	line, segment := block.PeekLine()
	node := parser.ScanDelimiter(line, before, 1, starEmphasis{})
	if node == nil {
		return nil
	}
	node.Segment = segment.WithStop(segment.Start + node.OriginalLength)
	block.Advance(node.OriginalLength)
	pc.PushDelimiter(node)
	return node
}

func parseMarkdown(src []byte) []Block {
	root := markdownParser.Parse(text.NewReader(src))
	c := &mdConverter{src: src}

	var blocks []Block
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		blocks = append(blocks, c.block(n))
	}

	// A top-level list ends where the next block starts so that trailing
	// lines goldmark does not record (closing fences, blank lines) belong to
	// the list rather than vanishing.
	for i, b := range blocks {
		l, ok := b.(*List)
		if !ok || len(l.Items) == 0 {
			continue
		}
		end := len(src)
		if i+1 < len(blocks) {
			next := blocks[i+1].Span()
			if !next.Known() {
				continue
			}
			end = next.Start
		}
		if end > l.Pos.Start {
			l.Pos.End = end
			l.Items[len(l.Items)-1].Pos.End = end
		}
	}

	return blocks
}

type mdConverter struct {
	src []byte
}

func (c *mdConverter) block(n ast.Node) Block {
	switch v := n.(type) {
	case *ast.Heading:
		return &Heading{
			Level:   v.Level,
			Text:    strings.TrimSpace(c.linesValue(v)),
			Inlines: c.inlines(v),
			Pos:     c.span(v),
		}
	case *ast.List:
		return c.list(v)
	case *ast.Paragraph, *ast.TextBlock:
		return &Paragraph{Inlines: c.inlines(n), Pos: c.span(n)}
	default:
		return &Opaque{Kind: n.Kind().String(), Pos: c.span(n)}
	}
}

func (c *mdConverter) linesValue(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.src))
	}
	return b.String()
}

func (c *mdConverter) list(n *ast.List) *List {
	l := &List{}
	for it := n.FirstChild(); it != nil; it = it.NextSibling() {
		item := &ListItem{Pos: c.span(it)}
		for ch := it.FirstChild(); ch != nil; ch = ch.NextSibling() {
			item.Children = append(item.Children, c.block(ch))
		}
		l.Items = append(l.Items, item)
	}

	// Items run up to the start of their successor.
	for i := 0; i+1 < len(l.Items); i++ {
		if next := l.Items[i+1].Pos; next.Known() && next.Start > l.Items[i].Pos.Start {
			l.Items[i].Pos.End = next.Start
		}
	}
	if len(l.Items) > 0 {
		l.Pos = Span{Start: l.Items[0].Pos.Start, End: l.Items[len(l.Items)-1].Pos.End}
	}
	return l
}

func (c *mdConverter) inlines(parent ast.Node) []Inline {
	var out []Inline
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch v := n.(type) {
		case *ast.Text:
			out = appendText(out, c.textValue(v))
		case *ast.String:
			out = appendText(out, string(v.Value))
		case *ast.CodeSpan:
			out = append(out, &CodeSpan{Raw: c.codeSpanRaw(v)})
		case *ast.Link:
			out = append(out, &Link{AnchorText: c.plain(v), URL: string(v.Destination)})
		case *ast.Image:
			out = append(out, &Unsupported{Kind: "image"})
		default:
			out = append(out, &Unsupported{Kind: n.Kind().String()})
		}
	}
	return out
}

// appendText merges adjacent text runs. goldmark splits text around
// brackets it tried to parse as links.
func appendText(out []Inline, raw string) []Inline {
	if len(out) > 0 {
		if t, ok := out[len(out)-1].(*Text); ok {
			t.Raw += raw
			return out
		}
	}
	return append(out, &Text{Raw: raw})
}

func (c *mdConverter) textValue(t *ast.Text) string {
	s := string(t.Segment.Value(c.src))
	if t.SoftLineBreak() || t.HardLineBreak() {
		s += "\n"
	}
	return s
}

// plain flattens the text of an inline container such as a link label.
func (c *mdConverter) plain(n ast.Node) string {
	var b strings.Builder
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		switch v := ch.(type) {
		case *ast.Text:
			b.WriteString(c.textValue(v))
		case *ast.String:
			b.Write(v.Value)
		case *ast.CodeSpan:
			b.WriteString(c.codeSpanRaw(v))
		default:
			b.WriteString(c.plain(ch))
		}
	}
	return b.String()
}

// codeSpanRaw recovers the code span markup, backticks included, from the
// source around its content segments.
func (c *mdConverter) codeSpanRaw(n *ast.CodeSpan) string {
	first, ok := n.FirstChild().(*ast.Text)
	if !ok {
		return "``"
	}
	last := first
	for ch := n.FirstChild(); ch != nil; ch = ch.NextSibling() {
		if t, ok := ch.(*ast.Text); ok {
			last = t
		}
	}

	start, end := first.Segment.Start, last.Segment.Stop
	for start > 0 && c.src[start-1] == ' ' {
		start--
	}
	for start > 0 && c.src[start-1] == '`' {
		start--
	}
	for end < len(c.src) && c.src[end] == ' ' {
		end++
	}
	for end < len(c.src) && c.src[end] == '`' {
		end++
	}
	return string(c.src[start:end])
}

// span returns the source lines covered by n and its descendants.
func (c *mdConverter) span(n ast.Node) Span {
	r, ok := c.segmentRange(n)
	if !ok {
		return Span{}
	}

	start, end := lineStart(c.src, r.Start), lineEnd(c.src, r.Stop)
	if n.Kind() == ast.KindFencedCodeBlock {
		// goldmark records only the content lines.
		if start > 0 {
			start = lineStart(c.src, start-1)
		}
		if end < len(c.src) {
			next := len(c.src)
			if i := bytes.IndexByte(c.src[end:], '\n'); i >= 0 {
				next = end + i + 1
			}
			closing := bytes.TrimSpace(c.src[end:next])
			if bytes.HasPrefix(closing, []byte("```")) || bytes.HasPrefix(closing, []byte("~~~")) {
				end = next
			}
		}
	}
	return Span{Start: start, End: end}
}

// segmentRange returns the smallest segment covering every line and text
// segment recorded under n.
func (c *mdConverter) segmentRange(n ast.Node) (text.Segment, bool) {
	r := text.Segment{Start: -1}
	add := func(s text.Segment) {
		if s.Stop <= s.Start {
			return
		}
		if r.Start < 0 || s.Start < r.Start {
			r.Start = s.Start
		}
		if s.Stop > r.Stop {
			r.Stop = s.Stop
		}
	}

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := node.(*ast.Text); ok {
			add(t.Segment)
			return ast.WalkContinue, nil
		}
		if node.Type() == ast.TypeBlock {
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				add(lines.At(i))
			}
		}
		return ast.WalkContinue, nil
	})

	return r, r.Start >= 0
}

// lineStart returns the offset of the first byte of the line holding pos.
func lineStart(src []byte, pos int) int {
	if pos > len(src) {
		pos = len(src)
	}
	if i := bytes.LastIndexByte(src[:pos], '\n'); i >= 0 {
		return i + 1
	}
	return 0
}

// lineEnd returns the offset just past the newline ending the line that
// holds the byte before pos, or len(src) on the last line.
func lineEnd(src []byte, pos int) int {
	if pos > 0 && pos <= len(src) && src[pos-1] == '\n' {
		return pos
	}
	if pos >= len(src) {
		return len(src)
	}
	if i := bytes.IndexByte(src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(src)
}
