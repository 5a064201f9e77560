package version

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// assignmentPattern finds the version assignment; the first group holds the
// right-hand side up to the end of the line.
var assignmentPattern = regexp.MustCompile(`__version__\s+=\s+(.*)`)

// literal is the location of a quoted version literal inside a file.
type literal struct {
	start int // offset of the first byte inside the quotes
	end   int // offset of the closing quote
	value string
}

// ReadFile returns the version literal assigned to __version__ in path.
// The literal is evaluated as a single- or double-quoted string, it is never
// executed.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading version file: %w", err)
	}

	lit, err := findLiteral(path, data)
	if err != nil {
		return "", err
	}
	return lit.value, nil
}

// WriteFile replaces the version literal in path with newVersion. The quotes
// and every other byte of the file are kept as they were.
func WriteFile(path, newVersion string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading version file: %w", err)
	}

	lit, err := findLiteral(path, data)
	if err != nil {
		return err
	}

	out := make([]byte, 0, len(data)-len(lit.value)+len(newVersion))
	out = append(out, data[:lit.start]...)
	out = append(out, newVersion...)
	out = append(out, data[lit.end:]...)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat version file: %w", err)
	}
	if err := os.WriteFile(path, out, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing version file: %w", err)
	}
	return nil
}

func findLiteral(path string, data []byte) (literal, error) {
	loc := assignmentPattern.FindSubmatchIndex(data)
	if loc == nil {
		return literal{}, &FileError{
			Path:    path,
			Message: fmt.Sprintf("Please add version string in %s, e.g., __version__ = '0.1dev'", path),
		}
	}

	rhsStart, rhsEnd := loc[2], loc[3]
	lit, ok := evalStringLiteral(string(data[rhsStart:rhsEnd]))
	if !ok {
		return literal{}, &FileError{
			Path: path,
			Message: fmt.Sprintf(
				"Could not find __version__ value in %s. Please add in the format __version__ = '0.1dev'", path),
		}
	}
	lit.start += rhsStart
	lit.end += rhsStart
	return lit, nil
}

// evalStringLiteral accepts a right-hand side made of exactly one quoted
// string, optionally followed by a comment. Escapes are not supported since
// version strings never need them.
func evalStringLiteral(rhs string) (literal, bool) {
	trimmed := strings.TrimRight(rhs, " \t\r")
	if trimmed == "" {
		return literal{}, false
	}

	quote := trimmed[0]
	if quote != '"' && quote != '\'' {
		return literal{}, false
	}
	closing := strings.IndexByte(trimmed[1:], quote)
	if closing < 0 {
		return literal{}, false
	}
	closing++

	value := trimmed[1:closing]
	if strings.ContainsRune(value, '\\') {
		return literal{}, false
	}

	rest := strings.TrimSpace(trimmed[closing+1:])
	if rest != "" && !strings.HasPrefix(rest, "#") {
		return literal{}, false
	}

	return literal{start: 1, end: closing, value: value}, true
}
