package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps categories to their terminal styling.
var categoryStyles = map[Category]CategoryStyle{
	CategoryAPIChange: {Color: color.New(color.FgRed), Icon: "⚠"},
	CategoryFeature:   {Color: color.New(color.FgGreen), Icon: "✓"},
	CategoryFix:       {Color: color.New(color.FgYellow), Icon: "⚡"},
	CategoryDoc:       {Color: color.New(color.FgBlue), Icon: "~"},
	CategoryUnknown:   {Color: color.New(color.FgMagenta), Icon: "?"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatSection writes a section to the writer with its entries grouped by
// category in rank order. Unclassified entries are listed last.
func FormatSection(s *Section, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeSectionHeader(s.Heading, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if len(s.Entries) == 0 {
		_, err := fmt.Fprintln(w, "\n  (no entries)")
		return err
	}

	grouped := groupByCategory(s.Entries)
	for _, cat := range append(Categories(), CategoryUnknown) {
		entries, ok := grouped[cat]
		if !ok {
			continue
		}
		if err := writeCategorySection(cat, entries, w, opts, width); err != nil {
			return fmt.Errorf("formatting %s entries: %w", cat.Name(), err)
		}
	}

	return nil
}

// groupByCategory groups entries by their category.
func groupByCategory(entries []Entry) map[Category][]Entry {
	grouped := make(map[Category][]Entry)
	for _, e := range entries {
		grouped[e.Category] = append(grouped[e.Category], e)
	}
	return grouped
}

func writeSectionHeader(heading string, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", heading)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(heading))
	return err
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(category Category, entries []Entry, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[category]

	if err := writeCategoryHeader(category, style, w, opts); err != nil {
		return err
	}

	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

func writeCategoryHeader(category Category, style CategoryStyle, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "\n### %s\n", category.Name())
		return err
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(category.Name()))
	return err
}

// writeEntry writes a single entry without its category tag, wrapped to
// the terminal width.
func writeEntry(entry Entry, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	prefix := "  - "
	text := strings.TrimSpace(strings.TrimPrefix(entry.Text, entry.Category.Tag()))
	if entry.Category == CategoryUnknown {
		text = entry.Text
	}
	text = strings.Join(strings.Fields(text), " ")

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, text)
		return err
	}

	wrapped := wrapText(text, width-len(prefix), "    ")

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(wrapped))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatEntrySummary returns a brief one-line summary of an entry.
func FormatEntrySummary(entry Entry, opts FormatOptions) string {
	style := categoryStyles[entry.Category]
	text := truncateText(strings.Join(strings.Fields(entry.Text), " "), 60)

	if opts.Plain {
		return text
	}

	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
