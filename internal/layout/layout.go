// Package layout locates the package directory, the version file and the
// changelog of a managed project.
//
// A project either follows the conventional layout (a single package
// directory under src/ whose __init__.py holds the version) or names its
// version file explicitly in the configuration.
package layout

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// SourceDir is the conventional source root, relative to the project root.
	SourceDir = "src"
	// DefaultVersionFile is the entry file holding the version literal in the
	// conventional layout.
	DefaultVersionFile = "__init__.py"
)

// changelogNames lists accepted changelog files in order of preference.
var changelogNames = []string{"CHANGELOG.rst", "CHANGELOG.md"}

// ErrEmptyVersionFile is returned when the configured version file is an
// empty string.
var ErrEmptyVersionFile = errors.New("Empty version file path in configuration.")

// NotADirectoryError is returned when the conventional source root is absent.
type NotADirectoryError struct {
	Path string
}

func (e *NotADirectoryError) Error() string {
	return fmt.Sprintf("Expected a directory at '%s' but it doesn't exist", e.Path)
}

// Layout is the resolved location of the project files. It is immutable once
// returned by Resolve.
type Layout struct {
	Root            string
	PackageName     string
	PackagePath     string
	VersionFileName string
	// ChangelogPath is empty when the project has no changelog.
	ChangelogPath string
}

// VersionFilePath returns the full path to the version file.
func (l *Layout) VersionFilePath() string {
	return filepath.Join(l.PackagePath, l.VersionFileName)
}

// HasChangelog reports whether a changelog was found.
func (l *Layout) HasChangelog() bool {
	return l.ChangelogPath != ""
}

// Options controls layout resolution.
type Options struct {
	// VersionFile is the configured version file, relative to the root.
	// It is only consulted when ExplicitVersionFile is set.
	VersionFile         string
	ExplicitVersionFile bool

	// Warnings receives user-facing warnings. Nil discards them.
	Warnings io.Writer
}

// Resolve discovers the layout of the project rooted at root.
func Resolve(root string, opts Options) (*Layout, error) {
	var (
		l   *Layout
		err error
	)
	if opts.ExplicitVersionFile {
		l, err = resolveExplicit(root, opts.VersionFile)
	} else {
		l, err = resolveConventional(root, opts.Warnings)
	}
	if err != nil {
		return nil, err
	}

	l.Root = root
	l.ChangelogPath = findChangelog(root)

	slog.Debug("resolved project layout",
		"package", l.PackageName,
		"version_file", l.VersionFilePath(),
		"changelog", l.ChangelogPath)

	return l, nil
}

func resolveExplicit(root, versionFile string) (*Layout, error) {
	if strings.TrimSpace(versionFile) == "" {
		return nil, ErrEmptyVersionFile
	}

	path := versionFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("Version file not found: %s", path)
		}
		return nil, fmt.Errorf("checking version file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("Version file not found: %s (is a directory)", path)
	}

	pkgPath := filepath.Dir(path)
	return &Layout{
		PackageName:     filepath.Base(pkgPath),
		PackagePath:     pkgPath,
		VersionFileName: filepath.Base(path),
	}, nil
}

func resolveConventional(root string, warnings io.Writer) (*Layout, error) {
	src := filepath.Join(root, SourceDir)
	info, err := os.Stat(src)
	if err != nil || !info.IsDir() {
		return nil, &NotADirectoryError{Path: SourceDir}
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", src, err)
	}

	var candidates []string
	for _, e := range entries {
		if !e.IsDir() || isArtifactDir(e.Name()) {
			continue
		}
		candidates = append(candidates, e.Name())
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no package directory found in %s", src)
	}
	sort.Strings(candidates)

	if len(candidates) > 1 {
		slog.Warn("multiple package directories found, using the first",
			"candidates", candidates, "selected", candidates[0])
		if warnings != nil {
			fmt.Fprintf(warnings, "Warning: found more than one directory in %s: %s. Using %q\n",
				SourceDir, strings.Join(candidates, ", "), candidates[0])
		}
	}

	name := candidates[0]
	return &Layout{
		PackageName:     name,
		PackagePath:     filepath.Join(src, name),
		VersionFileName: DefaultVersionFile,
	}, nil
}

// isArtifactDir reports whether name is a build artifact, cache or hidden
// directory that never holds the package.
func isArtifactDir(name string) bool {
	return name == "__pycache__" ||
		strings.HasSuffix(name, ".egg-info") ||
		strings.HasPrefix(name, ".")
}

func findChangelog(root string) string {
	for _, name := range changelogNames {
		path := filepath.Join(root, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
