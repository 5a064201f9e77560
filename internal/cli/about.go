package cli

import (
	"fmt"
	"io"

	"github.com/ariel-frischer/relkit/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SourceURL is the project source URL
const SourceURL = "https://github.com/ariel-frischer/relkit"

var aboutPlain bool

// aboutCmd shows build info. It is not called "version" because that name is
// the release command's alias.
var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Display version information",
	Long:  "Display version, commit, build date, and Go version information for relkit",
	Example: `  relkit about
  relkit about --plain   # for scripts`,
	Args: argumentError(cobra.NoArgs),
	Run: func(cmd *cobra.Command, args []string) {
		if aboutPlain {
			printPlainVersion(cmd.OutOrStdout())
			return
		}
		printPrettyVersion(cmd.OutOrStdout())
	},
}

func init() {
	aboutCmd.GroupID = GroupInternal
	rootCmd.AddCommand(aboutCmd)
	rootCmd.Version = build.Version

	aboutCmd.Flags().BoolVar(&aboutPlain, "plain", false, "Plain output without formatting")
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	info := build.Read()
	fmt.Fprintf(w, "relkit %s\n", info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built: %s\n", info.BuildDate)
	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "platform: %s\n", info.Platform)
}

func printPrettyVersion(w io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	info := build.Read()
	fmt.Fprintf(w, "%s %s\n", cyan("relkit"), info.Version)
	if build.IsDevBuild() {
		fmt.Fprintln(w, yellow("development build"))
	}
	commit := truncateCommit(info.Commit)
	if info.Modified {
		commit += " (modified)"
	}
	rows := []struct {
		label string
		value string
	}{
		{"Commit", commit},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
		{"Source", SourceURL},
	}
	for _, item := range rows {
		fmt.Fprintf(w, "  %s %s\n", dim(fmt.Sprintf("%-9s", item.label)), item.value)
	}
}

// truncateCommit shortens a full commit hash for display.
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
