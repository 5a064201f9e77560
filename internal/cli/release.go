package cli

import (
	"context"
	"fmt"

	clierrors "github.com/ariel-frischer/relkit/internal/errors"
	"github.com/ariel-frischer/relkit/internal/git"
	"github.com/ariel-frischer/relkit/internal/progress"
	"github.com/ariel-frischer/relkit/internal/release"
	"github.com/spf13/cobra"
)

var (
	releaseYes    bool
	releaseTag    bool
	releaseNoTag  bool
	releasePush   bool
	releaseNoPush bool
	releaseTarget string
	releaseBranch string
)

var releaseCmd = &cobra.Command{
	Use:     "release",
	Aliases: []string{"version"},
	Short:   "Release the current dev version",
	Long: `Release the project: check the changelog, version and deprecations, write the
release version and dated changelog header, commit and tag, then bump to the
next dev version and add an empty changelog section for it.

The working tree must be clean. The release branch is checked out and pulled
from origin first. Nothing is rolled back when a step fails.`,
	Example: `  # Interactive release with the defaults from pyproject.toml
  relkit release

  # Non-interactive, tagged, not pushed
  relkit release --yes --no-push

  # Cut a release on the stable branch without bumping
  relkit release --target stable --branch stable`,
	Args: argumentError(cobra.NoArgs),
	RunE: runRelease,
}

func init() {
	releaseCmd.GroupID = GroupRelease
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().BoolVarP(&releaseYes, "yes", "y", false, "Accept the proposed version and skip confirmation")
	releaseCmd.Flags().BoolVar(&releaseTag, "tag", false, "Create an annotated tag (default from settings)")
	releaseCmd.Flags().BoolVar(&releaseNoTag, "no-tag", false, "Do not create a tag")
	releaseCmd.Flags().BoolVar(&releasePush, "push", false, "Push commits and tags (default from settings)")
	releaseCmd.Flags().BoolVar(&releaseNoPush, "no-push", false, "Do not push")
	releaseCmd.Flags().StringVar(&releaseTarget, "target", "", "Release target: 'stable' stops after the release commit")
	releaseCmd.Flags().StringVar(&releaseBranch, "branch", release.DefaultBranch, "Branch to sync before releasing")
}

func runRelease(cmd *cobra.Command, args []string) error {
	if releaseTarget != "" && releaseTarget != release.TargetStable {
		return clierrors.InvalidFlagValue("target", releaseTarget, release.TargetStable)
	}
	for _, pair := range [][2]string{{"tag", "no-tag"}, {"push", "no-push"}} {
		if cmd.Flags().Changed(pair[0]) && cmd.Flags().Changed(pair[1]) {
			return clierrors.New(clierrors.Argument,
				fmt.Sprintf("--%s and --%s cannot be used together", pair[0], pair[1])).WithUsage(cmd.UseLine())
		}
	}

	root, cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repo, err := git.Open(root)
	if err != nil {
		return clierrors.GitNotRepository(root, err)
	}

	opts := release.Options{
		Root:           root,
		Yes:            releaseYes,
		Tag:            boolOverride(cmd, "tag", "no-tag", cfg.Version.Tag),
		Push:           boolOverride(cmd, "push", "no-push", cfg.Version.Push),
		Target:         releaseTarget,
		Branch:         releaseBranch,
		GitHub:         cfg.GitHub,
		VersionFile:    cfg.Version.VersionFile,
		VersionFileSet: cfg.Version.VersionFileSet,
		PackageName:    cfg.PackageName,
	}

	out := cmd.OutOrStdout()
	vcs := &reportingVCS{
		Repository: repo,
		reporter:   progress.NewReporter(out, progress.DetectTerminalCapabilities(out)),
	}
	orch := release.New(vcs, release.NewPrompter(cmd.InOrStdin(), out), out)

	res, err := orch.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	if res.Changelog != "" {
		fmt.Fprintf(out, "Changelog: %s\n", res.Changelog)
	}
	return nil
}

// boolOverride resolves a --flag/--no-flag pair against the configured value.
func boolOverride(cmd *cobra.Command, on, off string, configured bool) bool {
	switch {
	case cmd.Flags().Changed(off):
		return false
	case cmd.Flags().Changed(on):
		return true
	default:
		return configured
	}
}

// reportingVCS shows network steps with a progress line.
type reportingVCS struct {
	*git.Repository
	reporter *progress.Reporter
}

func (v *reportingVCS) Sync(ctx context.Context, branch string) error {
	return v.reporter.Step(fmt.Sprintf("Checking out %s and pulling from %s", branch, git.DefaultRemote), func() error {
		return v.Repository.Sync(ctx, branch)
	})
}

func (v *reportingVCS) Push(ctx context.Context) error {
	return v.reporter.Step("Pushing to "+git.DefaultRemote, func() error {
		return v.Repository.Push(ctx)
	})
}

func (v *reportingVCS) PushTag(ctx context.Context, name string) error {
	return v.reporter.Step(fmt.Sprintf("Pushing tag %s to %s", name, git.DefaultRemote), func() error {
		return v.Repository.PushTag(ctx, name)
	})
}
