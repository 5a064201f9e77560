// Package health checks that a project can be released: the repository,
// the git identity and remote, the settings and the version file. The
// results back the 'relkit doctor' command.
package health

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/relkit/internal/config"
	"github.com/ariel-frischer/relkit/internal/git"
	"github.com/ariel-frischer/relkit/internal/layout"
	"github.com/ariel-frischer/relkit/internal/version"
)

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Warning marks a passed check worth pointing out.
	Warning bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

func (r *HealthReport) add(c CheckResult) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Passed = false
	}
}

// RunHealthChecks runs all health checks for the project at root.
// Later checks are skipped when the ones they depend on fail.
func RunHealthChecks(root string) *HealthReport {
	report := &HealthReport{Passed: true}

	cfg, settings := CheckSettings(root)
	report.add(settings)

	repo, repoCheck := CheckRepository(root)
	report.add(repoCheck)
	if repo != nil {
		report.add(CheckIdentity(repo))
		push := cfg == nil || cfg.Version.Push
		report.add(CheckRemote(repo, push))
	}

	if cfg != nil {
		report.add(CheckVersionFile(root, cfg))
	}
	return report
}

// CheckSettings loads the project settings.
func CheckSettings(root string) (*config.Configuration, CheckResult) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{Root: root, SkipWarnings: true})
	if err != nil {
		return nil, CheckResult{Name: "Settings", Message: err.Error()}
	}
	msg := "using defaults"
	switch cfg.Source {
	case config.SourcePyproject:
		msg = "loaded from " + config.PyprojectFile
	case config.SourceYAML:
		msg = "loaded from " + config.YAMLFile
	}
	return cfg, CheckResult{Name: "Settings", Passed: true, Message: msg}
}

// CheckRepository opens the git repository containing root.
func CheckRepository(root string) (*git.Repository, CheckResult) {
	repo, err := git.Open(root)
	if err != nil {
		return nil, CheckResult{Name: "Git repository", Message: err.Error()}
	}
	return repo, CheckResult{Name: "Git repository", Passed: true, Message: repo.Root()}
}

// CheckIdentity verifies commits and tags can be authored.
func CheckIdentity(repo *git.Repository) CheckResult {
	name, email, err := repo.Identity()
	if err != nil {
		return CheckResult{Name: "Git identity", Message: err.Error()}
	}
	return CheckResult{Name: "Git identity", Passed: true, Message: fmt.Sprintf("%s <%s>", name, email)}
}

// CheckRemote verifies the release remote exists. A missing remote only
// fails when releases push.
func CheckRemote(repo *git.Repository, push bool) CheckResult {
	url, err := repo.RemoteURL()
	if err != nil {
		return CheckResult{Name: "Git remote", Message: err.Error()}
	}
	if url != "" {
		return CheckResult{Name: "Git remote", Passed: true, Message: git.DefaultRemote + " " + url}
	}
	if push {
		return CheckResult{
			Name:    "Git remote",
			Message: fmt.Sprintf("no '%s' remote, releases push by default (use --no-push or version.push = false)", git.DefaultRemote),
		}
	}
	return CheckResult{Name: "Git remote", Passed: true, Warning: true, Message: fmt.Sprintf("no '%s' remote, pushing disabled", git.DefaultRemote)}
}

// CheckVersionFile resolves the layout and reads the current version.
func CheckVersionFile(root string, cfg *config.Configuration) CheckResult {
	l, err := layout.Resolve(root, layout.Options{
		VersionFile:         cfg.Version.VersionFile,
		ExplicitVersionFile: cfg.Version.VersionFileSet,
	})
	if err != nil {
		return CheckResult{Name: "Version file", Message: err.Error()}
	}
	current, err := version.ReadFile(l.VersionFilePath())
	if err != nil {
		return CheckResult{Name: "Version file", Message: err.Error()}
	}
	res := CheckResult{Name: "Version file", Passed: true, Message: fmt.Sprintf("%s (%s)", l.VersionFilePath(), current)}
	if _, err := version.ReleaseCandidate(current); err != nil {
		res.Warning = true
		res.Message += ", not a dev version so it cannot be released"
	}
	return res
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder
	for _, check := range report.Checks {
		switch {
		case !check.Passed:
			fmt.Fprintf(&b, "✗ %s: %s\n", check.Name, check.Message)
		case check.Warning:
			fmt.Fprintf(&b, "⚠ %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		}
	}
	return b.String()
}
