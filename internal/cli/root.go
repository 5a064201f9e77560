// Package cli implements the relkit command tree.
package cli

import (
	"context"
	"os"
	"path/filepath"

	clierrors "github.com/ariel-frischer/relkit/internal/errors"
	"github.com/ariel-frischer/relkit/internal/git"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupRelease   = "release"
	GroupChangelog = "changelog"
	GroupInternal  = "internal"
)

var (
	projectRootFlag string
	debugFlag       bool
	logFileFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "relkit",
	Short: "Release versioning and changelog consistency checks",
	Long: `relkit keeps the version file, the changelog and deprecation notices of a
package consistent, and cuts releases from them.

A release validates the project, writes the release version and a dated
changelog header, commits and tags, then bumps to the next dev version.`,
	Example: `  # Check the project without changing anything
  relkit check

  # Release non-interactively without pushing
  relkit release --yes --no-push

  # Sort the latest changelog section and preview the change
  relkit changelog sort --dry-run`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupChangelog, Title: "Changelog Commands:"},
		&cobra.Group{ID: GroupInternal, Title: "Other Commands:"},
	)
	rootCmd.SetHelpCommandGroupID(GroupInternal)
	rootCmd.SetCompletionCommandGroupID(GroupInternal)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.New(clierrors.Argument, err.Error()).WithUsage(cmd.UseLine())
	})

	rootCmd.PersistentFlags().StringVarP(&projectRootFlag, "project-root", "C", "", "Project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Write logs to a rotating file")

	git.SetDebugLogger(gitDebugLogger)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return ExecuteContext(context.Background(), os.Args[1:])
}

// ExecuteContext runs the command tree with args and returns the exit code.
// Errors are printed to the command's error stream.
func ExecuteContext(ctx context.Context, args []string) int {
	defer closeLogging()

	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	return reportError(rootCmd.ErrOrStderr(), err)
}

// argumentError reports positional argument problems as argument errors.
func argumentError(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return clierrors.New(clierrors.Argument, err.Error()).WithUsage(cmd.UseLine())
		}
		return nil
	}
}

// projectRoot returns the absolute project root from -C or the working directory.
func projectRoot() (string, error) {
	root := projectRootFlag
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		root = wd
	}
	return filepath.Abs(root)
}
