package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/relkit/internal/changelog"
	clierrors "github.com/ariel-frischer/relkit/internal/errors"
	"github.com/ariel-frischer/relkit/internal/output"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
)

var (
	changelogPlainFlag  bool
	changelogAllFlag    bool
	changelogDryRunFlag bool
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Inspect and tidy the project changelog",
	Long: `Inspect and tidy CHANGELOG.md or CHANGELOG.rst at the project root.

The latest section is the first level-2 heading and the list that follows it.`,
	Args: argumentError(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var changelogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the latest changelog section grouped by category",
	Example: `  relkit changelog show
  relkit changelog show --all    # every section
  relkit changelog show --plain  # no colors/icons`,
	Args: argumentError(cobra.NoArgs),
	RunE: runChangelogShow,
}

var changelogSortCmd = &cobra.Command{
	Use:   "sort",
	Short: "Sort the latest section by category",
	Long: `Reorder the entries of the latest section: [API Change], [Feature], [Fix],
then [Doc]. Entries of the same category keep their order. Every other byte of
the file is preserved.`,
	Example: `  relkit changelog sort --dry-run   # print a unified diff
  relkit changelog sort`,
	Args: argumentError(cobra.NoArgs),
	RunE: runChangelogSort,
}

var changelogExpandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Link #123 issue references to the configured GitHub repository",
	Long: `Rewrite bare '#123' references as markdown links to the issue in the
repository named by the 'github' setting. Only markdown changelogs are supported.`,
	Example: `  relkit changelog expand --dry-run
  RELKIT_GITHUB=owner/repo relkit changelog expand`,
	Args: argumentError(cobra.NoArgs),
	RunE: runChangelogExpand,
}

func init() {
	changelogCmd.GroupID = GroupChangelog
	rootCmd.AddCommand(changelogCmd)
	changelogCmd.AddCommand(changelogShowCmd, changelogSortCmd, changelogExpandCmd)

	changelogShowCmd.Flags().BoolVar(&changelogPlainFlag, "plain", false, "Plain text output (no colors/icons)")
	changelogShowCmd.Flags().BoolVar(&changelogAllFlag, "all", false, "Show every section, not only the latest")
	changelogSortCmd.Flags().BoolVar(&changelogDryRunFlag, "dry-run", false, "Print the change as a unified diff without writing")
	changelogExpandCmd.Flags().BoolVar(&changelogDryRunFlag, "dry-run", false, "Print the change as a unified diff without writing")
}

func runChangelogShow(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if err := p.requireChangelog(); err != nil {
		return err
	}

	opts := changelog.FormatOptions{Plain: changelogPlainFlag}
	out := cmd.OutOrStdout()

	if !changelogAllFlag {
		s, err := p.doc.LatestSection()
		if err != nil {
			return err
		}
		return changelog.FormatSection(s, out, opts)
	}

	sections, err := p.doc.Sections()
	if err != nil {
		return err
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(out)
		}
		if err := changelog.FormatSection(s, out, opts); err != nil {
			return err
		}
	}
	return nil
}

func runChangelogSort(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if err := p.requireChangelog(); err != nil {
		return err
	}

	sorted, err := p.doc.SortLatestSection()
	if err != nil {
		return err
	}
	return applyChangelogEdit(cmd.OutOrStdout(), p.doc, sorted, "Latest section is already sorted")
}

func runChangelogExpand(cmd *cobra.Command, args []string) error {
	p, err := loadProject(cmd)
	if err != nil {
		return err
	}
	if err := p.requireChangelog(); err != nil {
		return err
	}
	if p.doc.Format != changelog.FormatMarkdown {
		return clierrors.New(clierrors.Prerequisite,
			"issue expansion is only supported in .md changelogs",
			"Rename the changelog to CHANGELOG.md to use link expansion",
		)
	}
	if p.cfg.GitHub == "" {
		return clierrors.New(clierrors.Configuration,
			"no github repository configured",
			"Set github = \"owner/repo\" under [tool.relkit] in pyproject.toml",
			"Or export RELKIT_GITHUB=owner/repo",
		)
	}

	expanded := changelog.ExpandIssueReferences(p.doc.Source, p.cfg.GitHub)
	return applyChangelogEdit(cmd.OutOrStdout(), p.doc, expanded, "No issue references to expand")
}

// applyChangelogEdit writes updated over doc, or prints a diff with --dry-run.
func applyChangelogEdit(out io.Writer, doc *changelog.Document, updated, unchanged string) error {
	if updated == doc.Source {
		output.PrintSkip(out, unchanged)
		return nil
	}

	if changelogDryRunFlag {
		diff, err := unifiedDiff(filepath.Base(doc.Path), doc.Source, updated)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, diff)
		return err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(doc.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(doc.Path, []byte(updated), mode); err != nil {
		return fmt.Errorf("writing %s: %w", doc.Path, err)
	}
	output.PrintSuccess(out, "Updated "+doc.Path)
	return nil
}

func unifiedDiff(name, before, after string) (string, error) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("building diff: %w", err)
	}
	return diff, nil
}
