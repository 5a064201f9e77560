package cli

import (
	"github.com/ariel-frischer/relkit/internal/check"
	"github.com/ariel-frischer/relkit/internal/deprecation"
	clierrors "github.com/ariel-frischer/relkit/internal/errors"
	"github.com/spf13/cobra"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the changelog, version and deprecations",
	Long: `Run every release check without changing anything:

  - entries of the latest changelog section start with a known tag
  - [API Change] entries are only released in a major version
  - the latest changelog section matches the version file
  - no deprecation is due for removal at the current version

All problems are reported together. Exits 1 when any check fails.`,
	Example: `  relkit check
  relkit check --format json`,
	Args: argumentError(cobra.NoArgs),
	RunE: runCheck,
}

func init() {
	checkCmd.GroupID = GroupRelease
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFormat, "format", check.FormatText, "Output format: text, json or yaml")
}

func runCheck(cmd *cobra.Command, args []string) error {
	switch checkFormat {
	case check.FormatText, check.FormatJSON, check.FormatYAML:
	default:
		return clierrors.InvalidFlagValue("format", checkFormat, check.FormatText, check.FormatJSON, check.FormatYAML)
	}

	p, err := loadProject(cmd)
	if err != nil {
		return err
	}

	records, err := deprecation.Find(p.layout.PackagePath, deprecation.Options{})
	if err != nil {
		return err
	}

	report, err := check.BuildReport(check.Input{
		Version:         p.current,
		VersionFilePath: p.layout.VersionFilePath(),
		Document:        p.doc,
		Records:         records,
	})
	if err != nil {
		return err
	}

	if err := report.Render(cmd.OutOrStdout(), checkFormat); err != nil {
		return err
	}
	if !report.Passed {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}
