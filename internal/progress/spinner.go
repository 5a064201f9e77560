package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerInterval = 100 * time.Millisecond

// Reporter shows one line per step. On a terminal the line animates while
// the step runs; elsewhere only the result line is written.
type Reporter struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
}

// NewReporter returns a Reporter writing to out with the given capabilities.
func NewReporter(out io.Writer, caps TerminalCapabilities) *Reporter {
	return &Reporter{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Step runs fn while showing message, then prints its outcome.
func (r *Reporter) Step(message string, fn func() error) error {
	var s *spinner.Spinner
	if r.caps.IsTTY {
		s = spinner.New(spinner.CharSets[r.symbols.SpinnerSet], spinnerInterval, spinner.WithWriter(r.out))
		s.Suffix = " " + message
		s.Start()
	}

	err := fn()

	if s != nil {
		s.Stop()
	}
	if err != nil {
		fmt.Fprintf(r.out, "%s %s\n", r.symbols.Failure, message)
		return err
	}
	fmt.Fprintf(r.out, "%s %s\n", r.symbols.Checkmark, message)
	return nil
}
