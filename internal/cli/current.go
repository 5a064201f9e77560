package cli

import (
	"fmt"

	"github.com/ariel-frischer/relkit/internal/version"
	"github.com/spf13/cobra"
)

var currentPlain bool

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current, release and next dev versions",
	Long: `Show the version stored in the version file, the release version a
'relkit release --yes' would produce and the dev version it would bump to.`,
	Example: `  relkit current
  relkit current --plain   # only the current version, for scripts`,
	Args: argumentError(cobra.NoArgs),
	RunE: runCurrent,
}

func init() {
	currentCmd.GroupID = GroupRelease
	rootCmd.AddCommand(currentCmd)

	currentCmd.Flags().BoolVar(&currentPlain, "plain", false, "Print only the current version")
}

func runCurrent(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if currentPlain {
		fmt.Fprintln(out, p.current)
		return nil
	}

	fmt.Fprintf(out, "Package:  %s\n", p.packageName())
	fmt.Fprintf(out, "File:     %s\n", p.layout.VersionFilePath())
	fmt.Fprintf(out, "Current:  %s\n", p.current)

	// A released version has no candidate; report it instead of failing.
	release, err := version.ReleaseCandidate(p.current)
	if err != nil {
		fmt.Fprintf(out, "Release:  - (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "Release:  %s\n", release)

	if dev, err := version.BumpUp(release); err == nil {
		fmt.Fprintf(out, "Next dev: %s\n", dev)
	}
	return nil
}
