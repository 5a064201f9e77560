package cli

import (
	"github.com/ariel-frischer/relkit/internal/changelog"
	"github.com/ariel-frischer/relkit/internal/config"
	clierrors "github.com/ariel-frischer/relkit/internal/errors"
	"github.com/ariel-frischer/relkit/internal/layout"
	"github.com/ariel-frischer/relkit/internal/version"
	"github.com/spf13/cobra"
)

// project is the read-only view of a managed project used by the
// inspection commands.
type project struct {
	root    string
	cfg     *config.Configuration
	layout  *layout.Layout
	current string
	// doc is nil when the project has no changelog.
	doc *changelog.Document
}

func loadConfig(cmd *cobra.Command) (string, *config.Configuration, error) {
	root, err := projectRoot()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadWithOptions(config.LoadOptions{Root: root, WarningWriter: cmd.ErrOrStderr()})
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

func loadProject(cmd *cobra.Command) (*project, error) {
	root, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	l, err := layout.Resolve(root, layout.Options{
		VersionFile:         cfg.Version.VersionFile,
		ExplicitVersionFile: cfg.Version.VersionFileSet,
		Warnings:            cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}

	current, err := version.ReadFile(l.VersionFilePath())
	if err != nil {
		return nil, err
	}

	p := &project{root: root, cfg: cfg, layout: l, current: current}
	if l.HasChangelog() {
		p.doc, err = changelog.ParseFile(l.ChangelogPath)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// requireChangelog fails with a prerequisite error when p has no changelog.
func (p *project) requireChangelog() error {
	if p.doc != nil {
		return nil
	}
	return clierrors.New(clierrors.Prerequisite,
		"no CHANGELOG.md or CHANGELOG.rst found in "+p.root,
		"Create CHANGELOG.md with a level-1 title and a '## <version>' section",
	)
}

func (p *project) packageName() string {
	if p.cfg.PackageName != "" {
		return p.cfg.PackageName
	}
	return p.layout.PackageName
}
