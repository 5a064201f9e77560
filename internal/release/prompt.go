package release

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user for input during an interactive release.
type Prompter interface {
	// Input asks a question and returns the answer, or def when the answer
	// is empty.
	Input(prompt, def string) (string, error)
	// Confirm asks for a yes/no confirmation.
	Confirm(prompt string) (bool, error)
}

// LinePrompter reads one line per answer from a reader.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter creates a LinePrompter reading from in and writing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

// separator keeps a one-line question on the same line as its suffix.
func separator(prompt string) string {
	if strings.Contains(prompt, "\n") {
		return "\n"
	}
	return " "
}

func (p *LinePrompter) Input(prompt, def string) (string, error) {
	fmt.Fprintf(p.out, "%s%s(Default: %s): ", prompt, separator(prompt), def)
	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *LinePrompter) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s%sConfirm? [y/n]: ", prompt, separator(prompt))
	answer, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch answer {
	case "y", "Y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLine returns the next line without its terminator. End of input counts
// as an empty answer.
func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}
	return strings.TrimSpace(line), nil
}
