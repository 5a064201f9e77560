package changelog

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rstLine is one source line. text excludes the line terminator and indent
// counts leading spaces (tabs count as one).
type rstLine struct {
	start  int
	end    int
	indent int
	text   string
}

func (l rstLine) blank() bool {
	return strings.TrimSpace(l.text) == ""
}

// content returns the line with the first col bytes removed.
func (l rstLine) content(col int) string {
	if col >= len(l.text) {
		return ""
	}
	return l.text[col:]
}

type rstParser struct {
	levels map[string]int
}

func parseRST(src []byte) []Block {
	p := &rstParser{levels: map[string]int{}}
	return p.blocks(splitLines(src), 0, true)
}

func splitLines(src []byte) []rstLine {
	var lines []rstLine
	for start := 0; start < len(src); {
		end := len(src)
		if i := bytes.IndexByte(src[start:], '\n'); i >= 0 {
			end = start + i + 1
		}
		text := strings.TrimRight(string(src[start:end]), "\r\n")
		indent := len(text) - len(strings.TrimLeft(text, " \t"))
		lines = append(lines, rstLine{start: start, end: end, indent: indent, text: text})
		start = end
	}
	return lines
}

// blocks parses lines whose content starts at column col. Section titles
// are only recognised at the top level.
func (p *rstParser) blocks(lines []rstLine, col int, titles bool) []Block {
	var out []Block
	for i := 0; i < len(lines); {
		l := lines[i]
		if l.blank() {
			i++
			continue
		}
		text := l.content(col)

		switch {
		case l.indent > col:
			j := p.indented(lines, i, col)
			out = append(out, &Opaque{Kind: "block_quote", Pos: spanOf(lines[i:j])})
			i = j

		case titles && p.isOverlinedTitle(lines, i, col):
			out = append(out, p.heading("o"+text[:1], lines[i+1], col, lines[i:i+3]))
			i += 3

		case titles && p.isUnderlinedTitle(lines, i, col):
			under := lines[i+1].content(col)
			out = append(out, p.heading("u"+under[:1], l, col, lines[i:i+2]))
			i += 2

		case isAdornment(text) && len(strings.TrimSpace(text)) >= 4:
			out = append(out, &Opaque{Kind: "transition", Pos: spanOf(lines[i : i+1])})
			i++

		case bulletMarker(text) != 0:
			list, j := p.list(lines, i, col)
			out = append(out, list)
			i = j

		case strings.HasPrefix(text, ".."):
			j := p.indented(lines, i+1, col)
			out = append(out, &Opaque{Kind: "directive", Pos: spanOf(lines[i:j])})
			i = j

		default:
			j := i
			var parts []string
			for j < len(lines) && !lines[j].blank() {
				parts = append(parts, strings.TrimRight(lines[j].content(col), " \t"))
				j++
			}
			out = append(out, &Paragraph{
				Inlines: rstInlines(strings.Join(parts, "\n")),
				Pos:     spanOf(lines[i:j]),
			})
			i = j
		}
	}
	return out
}

// indented returns the index just past the run of lines, starting at i, that
// are blank or indented deeper than col. Trailing blank lines are left out.
func (p *rstParser) indented(lines []rstLine, i, col int) int {
	j, last := i, i
	for j < len(lines) && (lines[j].blank() || lines[j].indent > col) {
		j++
		if !lines[j-1].blank() {
			last = j
		}
	}
	return last
}

func (p *rstParser) isUnderlinedTitle(lines []rstLine, i, col int) bool {
	if i+1 >= len(lines) || lines[i+1].blank() || lines[i+1].indent != col {
		return false
	}
	title := strings.TrimSpace(lines[i].content(col))
	under := strings.TrimSpace(lines[i+1].content(col))
	return !isAdornment(title) && isAdornment(under) &&
		utf8.RuneCountInString(under) >= utf8.RuneCountInString(title)
}

func (p *rstParser) isOverlinedTitle(lines []rstLine, i, col int) bool {
	if i+2 >= len(lines) {
		return false
	}
	over := strings.TrimSpace(lines[i].content(col))
	under := strings.TrimSpace(lines[i+2].content(col))
	title := strings.TrimSpace(lines[i+1].content(col))
	return isAdornment(over) && over == under && title != "" && !isAdornment(title) &&
		utf8.RuneCountInString(over) >= utf8.RuneCountInString(title)
}

// heading builds a title node. Levels are handed out in the order adornment
// styles first appear in the document.
func (p *rstParser) heading(style string, titleLine rstLine, col int, covered []rstLine) *Heading {
	level, ok := p.levels[style]
	if !ok {
		level = len(p.levels) + 1
		p.levels[style] = level
	}
	text := strings.TrimSpace(titleLine.content(col))
	return &Heading{
		Level:   level,
		Text:    text,
		Inlines: rstInlines(text),
		Pos:     spanOf(covered),
	}
}

// list collects consecutive bullet items that share the marker of line i.
func (p *rstParser) list(lines []rstLine, i, col int) (*List, int) {
	marker := bulletMarker(lines[i].content(col))
	l := &List{}

	for i < len(lines) {
		text := lines[i].content(col)
		if lines[i].indent != col || bulletMarker(text) != marker {
			break
		}

		body := col + 1
		for body < len(lines[i].text) && lines[i].text[body] == ' ' {
			body++
		}
		if body == col+1 {
			body = col + 2
		}

		first := lines[i]
		first.indent = body
		itemLines := []rstLine{first}
		j := i + 1
		for j < len(lines) && (lines[j].blank() || lines[j].indent >= body) {
			itemLines = append(itemLines, lines[j])
			j++
		}
		for len(itemLines) > 1 && itemLines[len(itemLines)-1].blank() {
			itemLines = itemLines[:len(itemLines)-1]
		}

		l.Items = append(l.Items, &ListItem{
			Children: p.blocks(itemLines, body, false),
			Pos:      spanOf(itemLines),
		})
		i += len(itemLines)

		// Blank lines separate items of the same list.
		k := i
		for k < len(lines) && lines[k].blank() {
			k++
		}
		if k < len(lines) && lines[k].indent == col && bulletMarker(lines[k].content(col)) == marker {
			i = k
			continue
		}
		break
	}

	l.Pos = Span{Start: l.Items[0].Pos.Start, End: l.Items[len(l.Items)-1].Pos.End}
	return l, i
}

// bulletMarker returns the bullet character starting text, or 0.
func bulletMarker(text string) byte {
	if text == "" {
		return 0
	}
	switch c := text[0]; c {
	case '*', '-', '+':
		if len(text) == 1 || text[1] == ' ' {
			return c
		}
	}
	return 0
}

// isAdornment reports whether s is a run of one repeated punctuation
// character, as used for title underlines and transitions.
func isAdornment(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	first := rune(s[0])
	if !unicode.IsPunct(first) && !unicode.IsSymbol(first) {
		return false
	}
	for _, r := range s {
		if r != first {
			return false
		}
	}
	return true
}

func spanOf(lines []rstLine) Span {
	if len(lines) == 0 {
		return Span{}
	}
	return Span{Start: lines[0].start, End: lines[len(lines)-1].end}
}

// rstInlines recognises inline literals (``code``) and hyperlinks
// (`text <url>`_). Everything else is kept as text.
func rstInlines(s string) []Inline {
	var out []Inline
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			out = append(out, &Text{Raw: text.String()})
			text.Reset()
		}
	}

	for i := 0; i < len(s); {
		if strings.HasPrefix(s[i:], "``") {
			if end := strings.Index(s[i+2:], "``"); end > 0 {
				flush()
				stop := i + 2 + end + 2
				out = append(out, &CodeSpan{Raw: s[i:stop]})
				i = stop
				continue
			}
		}

		if s[i] == '`' {
			end := strings.IndexByte(s[i+1:], '`')
			if end > 0 {
				stop := i + 1 + end + 1
				if stop < len(s) && s[stop] == '_' {
					flush()
					out = append(out, rstLink(s[i+1:stop-1]))
					stop++
					if stop < len(s) && s[stop] == '_' {
						stop++
					}
					i = stop
					continue
				}
			}
		}

		text.WriteByte(s[i])
		i++
	}
	flush()
	return out
}

// rstLink splits the body of a hyperlink reference into anchor text and URL.
// A reference without an embedded URL links to a named target.
func rstLink(body string) *Link {
	if strings.HasSuffix(body, ">") {
		if lt := strings.LastIndex(body, "<"); lt >= 0 {
			return &Link{
				AnchorText: strings.TrimSpace(body[:lt]),
				URL:        body[lt+1 : len(body)-1],
			}
		}
	}
	return &Link{AnchorText: body}
}
