// Package deprecation finds ".. deprecated::" directives in source files and
// reports the ones whose removal is due at the version being released.
//
// A directive names the version that introduced the deprecation, followed by
// an indented body naming the version at which the feature goes away:
//
//	.. deprecated:: 0.4
//	    `load_config` will be removed in 0.6, use `load` instead
package deprecation

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ariel-frischer/relkit/internal/version"
)

var (
	directivePattern = regexp.MustCompile(
		`\.\. deprecated::\s+[0-9\.]+\s+([\w,.` + "`" + ` \n\-]+\ +[0-9\.]+[\w,` + "`" + `. \n\-]*\n{1})`)
	targetPattern = regexp.MustCompile(`[0-9\.]{3,5}`)
)

// DefaultExtensions lists the file suffixes scanned when none are configured.
var DefaultExtensions = []string{".py"}

// Finding is a directive found in a piece of text.
type Finding struct {
	// Body is the directive text after the announced version, verbatim.
	Body string `json:"body" yaml:"body"`
	// Target is the version at which removal is expected.
	Target string `json:"target" yaml:"target"`
}

// Record is a Finding tagged with the file it came from.
type Record struct {
	Finding `yaml:",inline"`
	Path    string `json:"path" yaml:"path"`
}

func (r Record) String() string {
	return fmt.Sprintf("%q at %q", r.Body, r.Path)
}

// Options controls which files are scanned.
type Options struct {
	// Extensions are the file suffixes to scan. Empty means DefaultExtensions.
	Extensions []string
}

func (o Options) extensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions
	}
	return o.Extensions
}

// PendingError lists deprecations due for removal at the current version.
type PendingError struct {
	Version string
	Records []Record
}

func (e *PendingError) Error() string {
	lines := make([]string, 0, len(e.Records))
	for _, r := range e.Records {
		lines = append(lines, "- "+r.String())
	}
	return "Found the following pending deprecations:\n" + strings.Join(lines, "\n")
}

// FindInText returns the directives in text, in order of appearance. A
// directive whose body names no target version is skipped.
func FindInText(text string) []Finding {
	var out []Finding
	for _, m := range directivePattern.FindAllStringSubmatch(text, -1) {
		body := m[1]
		target := targetPattern.FindString(body)
		if target == "" {
			continue
		}
		out = append(out, Finding{Body: body, Target: target})
	}
	return out
}

// Find scans every matching file under root in lexical order. Hidden
// directories are skipped. A file that cannot be read stops the scan.
func Find(root string, opts Options) ([]Record, error) {
	exts := opts.extensions()
	var records []Record

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasExtension(path, exts) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			slog.Error("issue reading file", "path", path, "error", err)
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, f := range FindInText(string(data)) {
			records = append(records, Record{Finding: f, Path: path})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning for deprecations: %w", err)
	}

	slog.Debug("deprecation scan finished", "root", root, "records", len(records))
	return records, nil
}

func hasExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// Pending returns the records whose target normalizes to the same release
// as current, keeping their scan order.
func Pending(records []Record, current string) []Record {
	byTarget := make(map[string][]Record)
	for _, r := range records {
		key := version.Normalize(r.Target)
		byTarget[key] = append(byTarget[key], r)
	}
	return byTarget[version.Normalize(current)]
}

// CheckRecords fails with a PendingError when any record is due at current.
func CheckRecords(records []Record, current string) error {
	pending := Pending(records, current)
	if len(pending) == 0 {
		return nil
	}
	return &PendingError{Version: version.Normalize(current), Records: pending}
}

// Check scans root and fails if any deprecation is due at current.
func Check(root, current string, opts Options) error {
	records, err := Find(root, opts)
	if err != nil {
		return err
	}
	return CheckRecords(records, current)
}
