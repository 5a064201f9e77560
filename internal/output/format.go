// Package output provides terminal output formatting utilities for relkit.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// GetTerminalWidth returns the terminal width, defaulting to 80 if unavailable.
func GetTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// PrintStep prints a progress line for one release step (e.g., "→ Creating tag 0.1.0...").
func PrintStep(out io.Writer, message string) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", magenta("→"), message)
}

// PrintSuccess prints a green checkmark followed by message.
func PrintSuccess(out io.Writer, message string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", green("✓"), cyan(message))
}

// PrintSkip prints a dimmed note for a step that did not apply.
func PrintSkip(out io.Writer, message string) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s\n", dim("○ "+message))
}

// PrintPreview frames a file's content between labelled separators so it can
// be reviewed before confirming.
func PrintPreview(out io.Writer, label, content string) {
	termWidth := GetTerminalWidth()
	magenta := color.New(color.FgMagenta, color.Faint).SprintFunc()

	title := " " + label + " "
	lineLen := (termWidth - len(title)) / 2
	if lineLen < 3 {
		lineLen = 3
	}

	line := strings.Repeat("─", lineLen)
	fmt.Fprintf(out, "\n%s%s%s\n", magenta(line), magenta(title), magenta(line))
	fmt.Fprint(out, content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%s\n", magenta(strings.Repeat("─", 2*lineLen+len(title))))
}
