package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/relkit/internal/deprecation"
	"github.com/ariel-frischer/relkit/internal/output"
	"github.com/ariel-frischer/relkit/internal/version"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var deprecationsAll bool

var deprecationsCmd = &cobra.Command{
	Use:   "deprecations",
	Short: "List deprecations due for removal",
	Long: `Scan the package for '.. deprecated::' directives and list the ones whose
removal is due at the current version. With --all every directive is listed.

Exits 1 when a deprecation is due.`,
	Example: `  relkit deprecations
  relkit deprecations --all`,
	Args: argumentError(cobra.NoArgs),
	RunE: runDeprecations,
}

func init() {
	deprecationsCmd.GroupID = GroupRelease
	rootCmd.AddCommand(deprecationsCmd)

	deprecationsCmd.Flags().BoolVar(&deprecationsAll, "all", false, "List every directive, not only the due ones")
}

func runDeprecations(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}

	records, err := deprecation.Find(p.layout.PackagePath, deprecation.Options{})
	if err != nil {
		return err
	}
	pending := deprecation.Pending(records, p.current)

	shown := pending
	if deprecationsAll {
		shown = records
	}

	out := cmd.OutOrStdout()
	if len(shown) == 0 {
		output.PrintSkip(out, fmt.Sprintf("No deprecations due at %s", version.Normalize(p.current)))
		return nil
	}

	due := make(map[string]bool, len(pending))
	for _, r := range pending {
		due[r.Path+"\x00"+r.Body] = true
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"File", "Removal", "Due", "Notice"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_CENTER, tablewriter.ALIGN_LEFT})
	for _, r := range shown {
		mark := ""
		if due[r.Path+"\x00"+r.Body] {
			mark = "yes"
		}
		table.Append([]string{relPath(p.root, r.Path), r.Target, mark, oneLine(r.Body)})
	}
	table.Render()

	if len(pending) > 0 {
		return NewExitError(ExitValidationFailed)
	}
	return nil
}

func relPath(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
