// Package release drives a release end to end: it validates the project,
// writes the release version and changelog header, commits and tags, then
// moves the project to the next development version.
//
// Failures after the first write leave the working tree as it was at the
// failing step. Nothing is rolled back.
package release

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/relkit/internal/changelog"
	"github.com/ariel-frischer/relkit/internal/check"
	"github.com/ariel-frischer/relkit/internal/deprecation"
	"github.com/ariel-frischer/relkit/internal/layout"
	"github.com/ariel-frischer/relkit/internal/output"
	"github.com/ariel-frischer/relkit/internal/version"
)

// DefaultBranch is synced before releasing when no branch is configured.
const DefaultBranch = "main"

// TargetStable stops after the release commit, without bumping to a new
// dev version.
const TargetStable = "stable"

// VCS is the version-control collaborator.
type VCS interface {
	PendingChanges() ([]string, error)
	Sync(ctx context.Context, branch string) error
	CommitAll(message string) error
	Tag(name, message string) error
	Push(ctx context.Context) error
	PushTag(ctx context.Context, name string) error
}

// Options configures a single release.
type Options struct {
	Root string
	// Yes skips the version prompt and the confirmation.
	Yes  bool
	Tag  bool
	Push bool
	// Target is empty or TargetStable.
	Target string
	// Branch is synced before releasing. Empty means DefaultBranch.
	Branch string
	// GitHub is the "owner/repo" used to expand issue references.
	GitHub string
	// VersionFile is an explicit version file relative to Root. Empty uses
	// the src/<package>/__init__.py convention unless VersionFileSet is true.
	VersionFile string
	// VersionFileSet marks VersionFile as configured even when it is empty.
	VersionFileSet bool
	// PackageName overrides the name used in commit messages.
	PackageName string
	// Extensions are the file suffixes scanned for deprecations.
	Extensions []string
}

// Result summarizes a completed release.
type Result struct {
	Release string
	// Dev is empty when the release stopped at TargetStable.
	Dev string
	// Changelog is the changelog path, empty when the project has none.
	Changelog string
}

// Orchestrator runs releases against a VCS.
type Orchestrator struct {
	VCS      VCS
	Prompter Prompter
	Out      io.Writer
	Now      func() time.Time
}

// New creates an Orchestrator writing progress to out.
func New(vcs VCS, prompter Prompter, out io.Writer) *Orchestrator {
	return &Orchestrator{VCS: vcs, Prompter: prompter, Out: out, Now: time.Now}
}

func (o *Orchestrator) out() io.Writer {
	if o.Out == nil {
		return io.Discard
	}
	return o.Out
}

func (o *Orchestrator) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// project is the state read before any file is modified.
type project struct {
	layout  *layout.Layout
	pkg     string
	current string
	doc     *changelog.Document
}

// Run performs the release described by opts.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (*Result, error) {
	if o.VCS == nil {
		return nil, fmt.Errorf("release: no version control configured")
	}
	if o.Prompter == nil && !opts.Yes {
		return nil, fmt.Errorf("release: interactive mode needs a prompter")
	}
	if opts.Target != "" && opts.Target != TargetStable {
		return nil, fmt.Errorf("unknown release target %q (valid: %s)", opts.Target, TargetStable)
	}

	if err := o.preflight(ctx, opts); err != nil {
		return nil, err
	}

	p, err := o.load(opts)
	if err != nil {
		return nil, err
	}

	release, err := o.chooseRelease(p, opts)
	if err != nil {
		return nil, err
	}
	slog.Debug("releasing", "package", p.pkg, "current", p.current, "release", release)

	res := &Result{Release: release, Changelog: p.layout.ChangelogPath}

	text, err := o.releaseChangelog(p, release, opts)
	if err != nil {
		return nil, err
	}

	if !opts.Yes {
		if err := o.confirm(p, release, text); err != nil {
			return nil, err
		}
	}

	if p.doc != nil {
		if err := writeFile(p.layout.ChangelogPath, text); err != nil {
			return nil, err
		}
	}

	output.PrintStep(o.out(), fmt.Sprintf("Committing release version: %s", release))
	if err := o.commitVersion(ctx, p, release, fmt.Sprintf("%s release %s", p.pkg, release), opts.Tag, opts.Push); err != nil {
		return nil, err
	}

	if opts.Target == TargetStable {
		output.PrintSuccess(o.out(), fmt.Sprintf("Version %s was created", release))
		return res, nil
	}

	dev, err := version.BumpUp(release)
	if err != nil {
		return nil, err
	}
	res.Dev = dev

	if p.doc != nil && !version.IsPreRelease(release) {
		output.PrintStep(o.out(), "Creating new section in CHANGELOG...")
		bumped, err := changelog.Parse(text, p.doc.Format).AddDevSection(dev)
		if err != nil {
			return nil, err
		}
		if err := writeFile(p.layout.ChangelogPath, bumped); err != nil {
			return nil, err
		}
	}

	output.PrintStep(o.out(), fmt.Sprintf("Committing dev version: %s", dev))
	if err := o.commitVersion(ctx, p, dev, fmt.Sprintf("Bumps up %s to version %s", p.pkg, dev), false, opts.Push); err != nil {
		return nil, err
	}

	output.PrintSuccess(o.out(), fmt.Sprintf("Version %s was created, you are now in %s", release, dev))
	return res, nil
}

func (o *Orchestrator) preflight(ctx context.Context, opts Options) error {
	pending, err := o.VCS.PendingChanges()
	if err != nil {
		return err
	}
	if len(pending) > 0 {
		return &PreflightError{Files: pending}
	}

	branch := opts.Branch
	if branch == "" {
		branch = DefaultBranch
	}
	output.PrintStep(o.out(), fmt.Sprintf("Syncing branch %s...", branch))
	return o.VCS.Sync(ctx, branch)
}

// load resolves the layout, reads the current version and runs every
// consistency check.
func (o *Orchestrator) load(opts Options) (*project, error) {
	l, err := layout.Resolve(opts.Root, layout.Options{
		VersionFile:         opts.VersionFile,
		ExplicitVersionFile: opts.VersionFileSet || opts.VersionFile != "",
		Warnings:            o.out(),
	})
	if err != nil {
		return nil, err
	}

	current, err := version.ReadFile(l.VersionFilePath())
	if err != nil {
		return nil, err
	}

	p := &project{layout: l, pkg: l.PackageName, current: current}
	if opts.PackageName != "" {
		p.pkg = opts.PackageName
	}

	if l.HasChangelog() {
		p.doc, err = changelog.ParseFile(l.ChangelogPath)
		if err != nil {
			return nil, err
		}
		if err := check.New(current, l.VersionFilePath(), p.doc).Check(); err != nil {
			return nil, err
		}
	} else {
		output.PrintSkip(o.out(), "No CHANGELOG.{rst,md} found, skipping changelog checks")
	}

	if err := deprecation.Check(l.PackagePath, current, deprecation.Options{Extensions: opts.Extensions}); err != nil {
		return nil, err
	}
	return p, nil
}

func (o *Orchestrator) chooseRelease(p *project, opts Options) (string, error) {
	release, err := version.ReleaseCandidate(p.current)
	if err != nil {
		return "", err
	}
	if opts.Yes {
		return release, nil
	}

	answer, err := o.Prompter.Input(
		fmt.Sprintf("Current version in %s is %s. Enter release version", p.layout.VersionFileName, p.current),
		release)
	if err != nil {
		return "", err
	}
	if err := version.Validate(answer); err != nil {
		return "", err
	}
	// A typed answer is used as written: "1.0b1" tags 1.0b1 and bumps to 1.0dev.
	return answer, nil
}

// releaseChangelog returns the changelog text as it will be committed with
// the release: dated header, expanded issue links and sorted latest section.
func (o *Orchestrator) releaseChangelog(p *project, release string, opts Options) (string, error) {
	if p.doc == nil {
		return "", nil
	}

	text := p.doc.Source
	if !version.IsPreRelease(release) {
		var err error
		text, err = p.doc.ReleaseHeader(release, o.now().Format(changelog.DateLayout))
		if err != nil {
			return "", err
		}
	}

	switch {
	case p.doc.Format != changelog.FormatMarkdown:
		output.PrintSkip(o.out(), "Skipping github expansion (only supported in .md files)")
	case opts.GitHub == "":
		output.PrintSkip(o.out(), "Skipping github expansion (no github repository configured)")
	default:
		text = changelog.ExpandIssueReferences(text, opts.GitHub)
	}

	sorted, err := changelog.Parse(text, p.doc.Format).SortLatestSection()
	if err != nil {
		return "", err
	}
	return sorted, nil
}

func (o *Orchestrator) confirm(p *project, release, text string) error {
	prompt := fmt.Sprintf("Release %s version %s.", p.pkg, release)
	if p.doc != nil {
		output.PrintPreview(o.out(), filepath.Base(p.layout.ChangelogPath), text)
		prompt = fmt.Sprintf("%s content will be committed as shown.", p.layout.ChangelogPath)
	}

	ok, err := o.Prompter.Confirm(prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAborted
	}
	return nil
}

// commitVersion writes v to the version file, commits everything and
// optionally tags and pushes.
func (o *Orchestrator) commitVersion(ctx context.Context, p *project, v, message string, tag, push bool) error {
	if err := version.WriteFile(p.layout.VersionFilePath(), v); err != nil {
		return err
	}
	if err := o.VCS.CommitAll(message); err != nil {
		return err
	}

	switch {
	case tag:
		output.PrintStep(o.out(), fmt.Sprintf("Creating tag %s...", v))
		if err := o.VCS.Tag(v, message); err != nil {
			return err
		}
		if push {
			output.PrintStep(o.out(), "Pushing tags...")
			return o.VCS.PushTag(ctx, v)
		}
	case push:
		output.PrintStep(o.out(), "Pushing...")
		return o.VCS.Push(ctx)
	}
	return nil
}

func writeFile(path, content string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
