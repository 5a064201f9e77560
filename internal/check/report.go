package check

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/relkit/internal/changelog"
	"github.com/ariel-frischer/relkit/internal/deprecation"
)

// Report output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Result is the outcome of one named check.
type Result struct {
	Name    string `json:"name" yaml:"name"`
	Passed  bool   `json:"passed" yaml:"passed"`
	Kind    string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Report is the machine-readable view of a project check.
type Report struct {
	Version             string               `json:"version" yaml:"version"`
	VersionFile         string               `json:"version_file" yaml:"version_file"`
	Changelog           string               `json:"changelog,omitempty" yaml:"changelog,omitempty"`
	LatestSection       *changelog.Section   `json:"latest_section,omitempty" yaml:"latest_section,omitempty"`
	Checks              []Result             `json:"checks" yaml:"checks"`
	PendingDeprecations []deprecation.Record `json:"pending_deprecations" yaml:"pending_deprecations"`
	Passed              bool                 `json:"passed" yaml:"passed"`
}

// Input describes the project state a Report is built from.
type Input struct {
	Version         string
	VersionFilePath string
	Document        *changelog.Document
	// Records are the deprecation directives found in the package.
	Records []deprecation.Record
}

// BuildReport runs every check against in. Only a changelog that cannot be
// interpreted at all produces an error.
func BuildReport(in Input) (*Report, error) {
	c := New(in.Version, in.VersionFilePath, in.Document)
	r := &Report{
		Version:             in.Version,
		VersionFile:         in.VersionFilePath,
		PendingDeprecations: deprecation.Pending(in.Records, in.Version),
		Passed:              true,
	}

	if in.Document != nil {
		r.Changelog = in.Document.Path
		s, err := in.Document.LatestSection()
		if err != nil {
			return nil, err
		}
		r.LatestSection = s
	}

	named := []struct {
		name string
		fn   func() error
	}{
		{"changelog entries", c.CheckLatestChangelogEntries},
		{"api change version", c.CheckConsistentDevVersion},
		{"changelog version", c.CheckConsistentChangelogAndVersion},
	}
	for _, n := range named {
		res := Result{Name: n.name, Passed: true}
		if err := n.fn(); err != nil {
			var p *Problem
			if !errors.As(err, &p) {
				return nil, err
			}
			res.Passed = false
			res.Kind = p.Kind
			res.Message = p.Message
			r.Passed = false
		}
		r.Checks = append(r.Checks, res)
	}

	dep := Result{Name: "pending deprecations", Passed: len(r.PendingDeprecations) == 0}
	if !dep.Passed {
		dep.Message = fmt.Sprintf("%d deprecation(s) due at %s", len(r.PendingDeprecations), in.Version)
		r.Passed = false
	}
	r.Checks = append(r.Checks, dep)

	if r.PendingDeprecations == nil {
		r.PendingDeprecations = []deprecation.Record{}
	}
	return r, nil
}

// Render writes r to w in the given format.
func (r *Report) Render(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		_, err := io.WriteString(w, FormatReport(r))
		return err
	case FormatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown report format %q (valid: %s, %s, %s)", format, FormatText, FormatJSON, FormatYAML)
	}
}

// FormatReport renders r for the console.
func FormatReport(r *Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Version: %s (%s)\n", r.Version, r.VersionFile)
	if r.Changelog != "" {
		fmt.Fprintf(&b, "Changelog: %s\n", r.Changelog)
	}
	b.WriteString("\n")

	for _, c := range r.Checks {
		if c.Passed {
			fmt.Fprintf(&b, "✓ %s\n", c.Name)
			continue
		}
		fmt.Fprintf(&b, "✗ %s: %s\n", c.Name, c.Message)
	}

	for _, rec := range r.PendingDeprecations {
		fmt.Fprintf(&b, "  - %s\n", rec)
	}
	return b.String()
}
