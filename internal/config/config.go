// relkit - Release versioning and changelog consistency checks
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/relkit

// Package config loads relkit settings using koanf.
// Settings are loaded with priority: environment variables (RELKIT_*) > project
// file > defaults. The project file is the [tool.relkit] table of pyproject.toml
// when present, otherwise relkit.yaml at the project root.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// PyprojectFile is the primary settings file.
	PyprojectFile = "pyproject.toml"
	// PyprojectSection is the table relkit reads inside pyproject.toml.
	PyprojectSection = "tool.relkit"
	// YAMLFile is read when pyproject.toml has no relkit table.
	YAMLFile = "relkit.yaml"
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "RELKIT_"
)

// ConfigSource tracks where the project settings came from
type ConfigSource string

const (
	SourceDefault   ConfigSource = "default"
	SourcePyproject ConfigSource = "pyproject"
	SourceYAML      ConfigSource = "yaml"
)

// Configuration represents the relkit settings of one project
type Configuration struct {
	// GitHub is the owner/name used to expand #123 references. Empty disables expansion.
	GitHub string `koanf:"github" validate:"omitempty,github_repo"`
	// PackageName overrides the package name shown in commit messages.
	PackageName string        `koanf:"package_name"`
	Version     VersionConfig `koanf:"version"`
	// CheckLinks is accepted so existing projects keep loading. relkit ignores it.
	CheckLinks map[string]interface{} `koanf:"check_links"`
	Log        LogConfig              `koanf:"log"`

	// Source records which file the settings were read from.
	Source ConfigSource `koanf:"-"`
}

// VersionConfig holds the release settings.
type VersionConfig struct {
	VersionFile string `koanf:"version_file"`
	// VersionFileSet reports that version_file was given, even as "".
	VersionFileSet bool `koanf:"-"`
	Tag            bool `koanf:"tag"`
	Push           bool `koanf:"push"`
}

// LogConfig holds the debug log settings.
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// Root is the project root holding pyproject.toml or relkit.yaml.
	Root string
	// WarningWriter receives warnings about ignored settings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads the settings of the project at root.
func Load(root string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{Root: root})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	source, err := loadProjectConfig(k, opts.Root)
	if err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	cfg, err := finalizeConfig(k, sourceName(source))
	if err != nil {
		return nil, err
	}
	cfg.Source = source
	cfg.Version.VersionFileSet = k.Exists("version.version_file")

	if len(cfg.CheckLinks) > 0 && !opts.SkipWarnings {
		fmt.Fprintln(warningWriter, "Warning: 'check_links' settings are ignored by relkit")
	}
	return cfg, nil
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		_ = k.Set(key, value)
	}
}

// loadProjectConfig reads the relkit table of pyproject.toml, falling back to
// relkit.yaml when pyproject.toml is missing or has no such table.
func loadProjectConfig(k *koanf.Koanf, root string) (ConfigSource, error) {
	pyproject := filepath.Join(root, PyprojectFile)
	if fileExists(pyproject) {
		found, err := loadPyproject(k, pyproject)
		if err != nil {
			return SourceDefault, err
		}
		if found {
			return SourcePyproject, nil
		}
	}

	yamlPath := filepath.Join(root, YAMLFile)
	if fileExists(yamlPath) {
		if err := loadYAMLConfig(k, yamlPath); err != nil {
			return SourceDefault, err
		}
		return SourceYAML, nil
	}
	return SourceDefault, nil
}

func loadPyproject(k *koanf.Koanf, path string) (bool, error) {
	pk := koanf.New(".")
	if err := pk.Load(file.Provider(path), toml.Parser()); err != nil {
		return false, &InvalidConfigError{Message: fmt.Sprintf(
			"Invalid %s file: %v. If using a boolean value ensure it's in lowercase, e.g., key = true",
			PyprojectFile, err)}
	}
	if !pk.Exists(PyprojectSection) {
		slog.Debug("no relkit table in pyproject.toml", "path", path)
		return false, nil
	}

	section := pk.Cut(PyprojectSection)
	if err := validateKeys(section.Raw(), PyprojectFile); err != nil {
		return false, err
	}
	if err := k.Merge(section); err != nil {
		return false, fmt.Errorf("merging %s settings: %w", PyprojectFile, err)
	}
	return true, nil
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax: %w", err)
	}
	yk := koanf.New(".")
	if err := yk.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	if err := validateKeys(yk.Raw(), YAMLFile); err != nil {
		return err
	}
	if err := k.Merge(yk); err != nil {
		return fmt.Errorf("merging %s settings: %w", YAMLFile, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides.
// Values are checked against the key schema so RELKIT_TAG=yes fails early.
func loadEnvironmentConfig(k *koanf.Koanf) error {
	ek := koanf.New(".")
	if err := ek.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}

	for _, key := range ek.Keys() {
		if schema, known := KnownKeys[key]; !known || schema.Type == TypeTable {
			continue
		}
		parsed, err := ValidateValue(key, ek.String(key))
		if err != nil {
			return &InvalidConfigError{Message: fmt.Sprintf(
				"Invalid value for %s%s: %v", EnvPrefix, envName(key), err)}
		}
		_ = k.Set(key, parsed.Parsed)
	}
	return nil
}

// envNames maps RELKIT_* suffixes to their dotted keys.
var envNames = map[string]string{
	"GITHUB":       "github",
	"PACKAGE_NAME": "package_name",
	"VERSION_FILE": "version.version_file",
	"TAG":          "version.tag",
	"PUSH":         "version.push",
	"LOG_FILE":     "log.file",
	"LOG_LEVEL":    "log.level",
}

// envTransform converts RELKIT_VERSION_FILE to version.version_file.
// Unmapped variables keep a lowercased name, which no known key matches.
func envTransform(s string) string {
	name := strings.TrimPrefix(s, EnvPrefix)
	if key, ok := envNames[name]; ok {
		return key
	}
	return strings.ToLower(name)
}

func envName(key string) string {
	for name, k := range envNames {
		if k == key {
			return name
		}
	}
	return strings.ToUpper(key)
}

// finalizeConfig unmarshals and validates the merged settings
func finalizeConfig(k *koanf.Koanf, name string) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := ValidateConfigValues(&cfg, name); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// sourceName names the settings origin in validation errors.
func sourceName(source ConfigSource) string {
	switch source {
	case SourcePyproject:
		return PyprojectFile
	case SourceYAML:
		return YAMLFile
	default:
		return EnvPrefix + "* environment"
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
