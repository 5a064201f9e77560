// Package testutil provides test fixtures and fakes shared by relkit tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// Project describes a throwaway project laid out as src/<Package>/__init__.py.
type Project struct {
	Package string
	Version string
	// Changelog is written to ChangelogName when non-empty.
	Changelog     string
	ChangelogName string
	// Files maps extra paths, relative to the root, to their content.
	Files map[string]string
}

// WriteProject creates p under a temp directory and returns the root.
func WriteProject(t *testing.T, p Project) string {
	t.Helper()
	root := t.TempDir()

	pkg := p.Package
	if pkg == "" {
		pkg = "pkg"
	}
	files := map[string]string{
		filepath.Join("src", pkg, "__init__.py"): fmt.Sprintf("__version__ = '%s'\n", p.Version),
	}
	if p.Changelog != "" {
		name := p.ChangelogName
		if name == "" {
			name = "CHANGELOG.md"
		}
		files[name] = p.Changelog
	}
	for rel, content := range p.Files {
		files[rel] = content
	}

	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", path, err)
		}
	}
	return root
}

// ReadFile returns the content of rel under root, failing the test on error.
func ReadFile(t *testing.T, root, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// RecordingVCS records every version-control call as a one-line string,
// e.g. "CommitAll pkg release 0.1.0".
type RecordingVCS struct {
	mu    sync.Mutex
	Calls []string

	// Pending is returned by PendingChanges.
	Pending []string
	// Errors maps a method name to the error it returns.
	Errors map[string]error
	// OnCommit runs before CommitAll records its call.
	OnCommit func(message string)
}

func (v *RecordingVCS) record(method string, args ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	call := method
	if len(args) > 0 {
		call += " " + strings.Join(args, " ")
	}
	v.Calls = append(v.Calls, call)
	return v.Errors[method]
}

func (v *RecordingVCS) PendingChanges() ([]string, error) {
	if err := v.record("PendingChanges"); err != nil {
		return nil, err
	}
	return v.Pending, nil
}

func (v *RecordingVCS) Sync(_ context.Context, branch string) error {
	return v.record("Sync", branch)
}

func (v *RecordingVCS) CommitAll(message string) error {
	if v.OnCommit != nil {
		v.OnCommit(message)
	}
	return v.record("CommitAll", message)
}

func (v *RecordingVCS) Tag(name, message string) error {
	return v.record("Tag", name, message)
}

func (v *RecordingVCS) Push(_ context.Context) error {
	return v.record("Push")
}

func (v *RecordingVCS) PushTag(_ context.Context, name string) error {
	return v.record("PushTag", name)
}

// ScriptedPrompter answers prompts from fixed lists and records the prompts.
type ScriptedPrompter struct {
	Inputs   []string
	Confirms []bool
	Prompts  []string
}

func (p *ScriptedPrompter) Input(prompt, def string) (string, error) {
	p.Prompts = append(p.Prompts, prompt)
	if len(p.Inputs) == 0 {
		return def, nil
	}
	answer := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *ScriptedPrompter) Confirm(prompt string) (bool, error) {
	p.Prompts = append(p.Prompts, prompt)
	if len(p.Confirms) == 0 {
		return false, nil
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer, nil
}
