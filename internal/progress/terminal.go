package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is implemented by *os.File.
type fdWriter interface {
	Fd() uintptr
}

// DetectTerminalCapabilities inspects w, the stream progress is written to.
// Checks: w is a terminal, NO_COLOR env, RELKIT_ASCII env, terminal width.
// Writers that are not files, such as buffers in tests, report no capabilities.
func DetectTerminalCapabilities(w io.Writer) TerminalCapabilities {
	f, ok := w.(fdWriter)
	if !ok {
		return TerminalCapabilities{}
	}
	fd := int(f.Fd())
	isTTY := term.IsTerminal(fd)

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("RELKIT_ASCII") == "1"

	width := 0
	if isTTY {
		if cols, _, err := term.GetSize(fd); err == nil {
			width = cols
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the symbol set for the terminal.
// Unicode: ✓/✗ with braille spinner (set 14). ASCII: [OK]/[FAIL] with |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			Failure:    "✗",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		Failure:    "[FAIL]",
		SpinnerSet: 9, // | / - \
	}
}
