package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the relkit CLI.
// These templates ensure consistent, actionable error messages.

// GitNotRepository creates an error when not in a git repository.
func GitNotRepository(path string, err error) *CLIError {
	e := Wrap(err, Prerequisite,
		"Initialize with: git init",
		"Or pass the project root with: relkit -C <path>",
	)
	if e != nil {
		e.Message = fmt.Sprintf("not a git repository: %s: %v", path, err)
	}
	return e
}

// MissingSourceDir creates an error when the conventional src/ layout is absent.
func MissingSourceDir(err error) *CLIError {
	return Wrap(err, Prerequisite,
		"Put the package under src/<package>/ with __version__ in __init__.py",
		"Or set [tool.relkit.version] version_file in pyproject.toml",
	)
}

// InvalidConfig creates an error for a rejected settings file or variable.
func InvalidConfig(err error) *CLIError {
	return Wrap(err, Configuration,
		"Valid keys: github, package_name, version.version_file, version.tag, version.push, log.file, log.level",
		"Booleans are lowercase: tag = true",
	)
}

// PendingFiles creates an error when the working tree is not clean.
func PendingFiles(err error) *CLIError {
	return Wrap(err, Prerequisite,
		"Commit the changes: git commit -am \"...\"",
		"Or stash them: git stash",
	)
}

// ProjectInvalid creates an error for failed changelog or version checks.
func ProjectInvalid(err error) *CLIError {
	return Wrap(err, Validation,
		"Run 'relkit check' to see every problem",
		"Run 'relkit changelog sort' to reorder the latest section",
	)
}

// PendingDeprecations creates an error when removals are due at the current version.
func PendingDeprecations(err error) *CLIError {
	return Wrap(err, Validation,
		"Remove the deprecated code or move its removal to a later version",
		"List every directive with: relkit deprecations --all",
	)
}

// InvalidVersion creates an error for a version string that cannot be used.
func InvalidVersion(err error) *CLIError {
	return Wrap(err, Validation,
		"Versions look like 1.2, 1.2.3, 1.2.0rc1 or 1.3.dev0",
	)
}

// VersionControlFailed creates an error for a failed git step.
func VersionControlFailed(err error) *CLIError {
	return Wrap(err, VersionControl,
		"Check the remote and your credentials: git remote -v",
		"Re-run with --debug --log-file relkit.log for details",
	)
}

// InvalidFlagValue creates an error for a flag given a value outside its set.
func InvalidFlagValue(flag, value string, valid ...string) *CLIError {
	return New(Argument,
		fmt.Sprintf("invalid value %q for --%s", value, flag),
		"Valid values: "+strings.Join(valid, ", "),
		"Use 'relkit <command> --help' to see valid options",
	)
}
