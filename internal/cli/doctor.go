package cli

import (
	"fmt"

	"github.com/ariel-frischer/relkit/internal/health"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the project is ready to be released",
	Long: `Check the settings, the git repository, identity and remote, and the version
file. Exits with code 4 when a check fails.`,
	Example: `  relkit doctor
  relkit -C path/to/project doctor`,
	Args: argumentError(cobra.NoArgs),
	RunE: runDoctor,
}

func init() {
	doctorCmd.GroupID = GroupInternal
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	root, err := projectRoot()
	if err != nil {
		return err
	}

	report := health.RunHealthChecks(root)
	fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))
	if !report.Passed {
		return NewExitError(ExitMissingPrerequisite)
	}
	return nil
}
