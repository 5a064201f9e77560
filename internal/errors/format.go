package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// palette holds the styling applied to each part of a formatted error.
type palette struct {
	label    func(a ...interface{}) string
	message  func(a ...interface{}) string
	category func(a ...interface{}) string
	fix      func(a ...interface{}) string
	usage    func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

var (
	coloredPalette = palette{
		label:    color.New(color.FgRed, color.Bold).SprintFunc(),
		message:  color.New(color.FgRed).SprintFunc(),
		category: color.New(color.FgYellow).SprintFunc(),
		fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
		usage:    color.New(color.FgCyan).SprintFunc(),
		bullet:   color.New(color.FgGreen).SprintFunc(),
	}
	plainPalette = palette{
		label:    fmt.Sprint,
		message:  fmt.Sprint,
		category: fmt.Sprint,
		fix:      fmt.Sprint,
		usage:    fmt.Sprint,
		bullet:   fmt.Sprint,
	}
)

// formatError renders:
//
//	Error [Category]: message
//
//	Usage: relkit release
//
//	To fix this:
//	  • step
//
// Multi-line messages such as problem lists keep their layout after the label.
func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints err to w. Colors are only used when w is a terminal, so
// redirected stderr and captured output stay plain.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	p := plainPalette
	if !color.NoColor && isTerminal(w) {
		p = coloredPalette
	}
	fmt.Fprint(w, formatError(err, p))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}
