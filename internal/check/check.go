// Package check cross-validates the stored version and the changelog before
// a release.
//
// The three checks are independent. Check runs all of them and reports every
// problem at once rather than stopping at the first.
package check

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/relkit/internal/changelog"
	"github.com/ariel-frischer/relkit/internal/version"
)

// Problem kinds.
const (
	KindChangelog = "Invalid CHANGELOG"
	KindVersion   = "Invalid version"
)

// Problem is one failed check.
type Problem struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

func (p *Problem) Error() string {
	return p.Message
}

// ProjectError aggregates the problems found by Check.
type ProjectError struct {
	Problems []*Problem
}

func (e *ProjectError) Error() string {
	var b strings.Builder
	b.WriteString("Found the following errors in the project:")
	for _, p := range e.Problems {
		fmt.Fprintf(&b, "\n- [%s] %s", p.Kind, p.Message)
	}
	return b.String()
}

// Checker validates one version against one changelog.
type Checker struct {
	// Version is the text stored in the version file.
	Version         string
	VersionFilePath string
	// Document may be nil when the project has no changelog; every check
	// then passes.
	Document *changelog.Document
}

// New creates a Checker.
func New(current, versionFilePath string, doc *changelog.Document) *Checker {
	return &Checker{Version: current, VersionFilePath: versionFilePath, Document: doc}
}

func (c *Checker) latest() (*changelog.Section, error) {
	if c.Document == nil {
		return nil, nil
	}
	return c.Document.LatestSection()
}

// CheckLatestChangelogEntries fails when any entry of the latest section
// lacks a category tag. The message names every invalid entry.
func (c *Checker) CheckLatestChangelogEntries() error {
	s, err := c.latest()
	if err != nil || s == nil {
		return err
	}

	invalid := s.Invalid()
	if len(invalid) == 0 {
		return nil
	}

	quoted := make([]string, 0, len(invalid))
	for _, e := range invalid {
		quoted = append(quoted, fmt.Sprintf("%q", e.Text))
	}
	tags := make([]string, 0, 4)
	for _, cat := range changelog.Categories() {
		tags = append(tags, cat.Tag())
	}
	return &Problem{
		Kind: KindChangelog,
		Message: fmt.Sprintf("Entries in the latest section (%s) must start with one of %s. Invalid entries: %s",
			s.Heading, strings.Join(tags, ", "), strings.Join(quoted, ", ")),
	}
}

// CheckConsistentDevVersion fails when the latest section announces an API
// change but the current version is not a major version.
func (c *Checker) CheckConsistentDevVersion() error {
	s, err := c.latest()
	if err != nil || s == nil {
		return err
	}

	if !s.Has(changelog.CategoryAPIChange) || version.IsMajor(c.Version) {
		return nil
	}
	return &Problem{
		Kind: KindVersion,
		Message: fmt.Sprintf("Found %s entries in the latest section, but the version in %s (%s) is not a major version",
			changelog.CategoryAPIChange.Tag(), c.VersionFilePath, c.Version),
	}
}

// CheckConsistentChangelogAndVersion fails when the latest section heading,
// ignoring a trailing " (YYYY-MM-DD)", differs from the stored version.
func (c *Checker) CheckConsistentChangelogAndVersion() error {
	s, err := c.latest()
	if err != nil || s == nil {
		return err
	}

	heading := changelog.StripDate(s.Heading)
	if heading == c.Version {
		return nil
	}
	return &Problem{
		Kind: KindVersion,
		Message: fmt.Sprintf("Version in %s (%s) does not match the latest section in the CHANGELOG (%s)",
			c.VersionFilePath, c.Version, heading),
	}
}

// Check runs every check. Problems are collected into a ProjectError; a
// changelog without the expected structure fails immediately.
func (c *Checker) Check() error {
	problems, err := c.Problems()
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return &ProjectError{Problems: problems}
	}
	return nil
}

// Problems runs every check and returns the problems found.
func (c *Checker) Problems() ([]*Problem, error) {
	checks := []func() error{
		c.CheckLatestChangelogEntries,
		c.CheckConsistentDevVersion,
		c.CheckConsistentChangelogAndVersion,
	}

	var problems []*Problem
	for _, check := range checks {
		err := check()
		if err == nil {
			continue
		}
		p, ok := err.(*Problem)
		if !ok {
			return nil, err
		}
		problems = append(problems, p)
	}
	return problems, nil
}
