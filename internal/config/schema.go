package config

import (
	"fmt"
	"strings"
)

// ConfigValueType defines the expected type for a configuration value.
type ConfigValueType int

const (
	TypeBool ConfigValueType = iota
	TypeString
	TypeEnum
	TypeTable
)

// String returns the string representation of ConfigValueType.
func (t ConfigValueType) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeString:
		return "string"
	case TypeEnum:
		return "enum"
	case TypeTable:
		return "table"
	default:
		return "unknown"
	}
}

// ConfigKeySchema defines a known configuration key with its expected type and validation rules.
type ConfigKeySchema struct {
	Path          string          // Dotted key path (e.g., "version.tag")
	Type          ConfigValueType // Expected value type for validation
	AllowedValues []string        // Valid values for enum types (empty for non-enums)
	Description   string          // Human-readable description for help text
	Default       interface{}     // Default value, nil when unset
}

// KnownKeys is the registry of all known configuration keys with their schemas.
var KnownKeys = map[string]ConfigKeySchema{
	"github": {
		Path:        "github",
		Type:        TypeString,
		Description: "GitHub repository (owner/name) used to expand #123 issue references",
	},
	"package_name": {
		Path:        "package_name",
		Type:        TypeString,
		Description: "Package name used in release commit messages",
	},
	"version": {
		Path:        "version",
		Type:        TypeTable,
		Description: "Release settings",
	},
	"version.version_file": {
		Path:        "version.version_file",
		Type:        TypeString,
		Description: "Version file relative to the project root (default: src/<package>/__init__.py)",
	},
	"version.tag": {
		Path:        "version.tag",
		Type:        TypeBool,
		Description: "Create an annotated tag for each release",
		Default:     true,
	},
	"version.push": {
		Path:        "version.push",
		Type:        TypeBool,
		Description: "Push release commits and tags",
		Default:     true,
	},
	"check_links": {
		Path:        "check_links",
		Type:        TypeTable,
		Description: "Link checker settings (accepted for compatibility, not used)",
	},
	"log": {
		Path:        "log",
		Type:        TypeTable,
		Description: "Debug log settings",
	},
	"log.file": {
		Path:        "log.file",
		Type:        TypeString,
		Description: "Rotating debug log file",
	},
	"log.level": {
		Path:          "log.level",
		Type:          TypeEnum,
		AllowedValues: []string{"debug", "info", "warn", "error"},
		Description:   "Minimum level written to the log file",
		Default:       "info",
	},
}

// ValidTopLevelKeys lists the accepted top-level keys in file order.
var ValidTopLevelKeys = []string{"github", "version", "package_name", "check_links", "log"}

// ValidVersionKeys lists the accepted keys of the version table.
var ValidVersionKeys = []string{"version_file", "tag", "push"}

// ErrUnknownKey is returned when trying to access an unknown configuration key.
type ErrUnknownKey struct {
	Key string
}

func (e ErrUnknownKey) Error() string {
	return "unknown configuration key: " + e.Key
}

// GetKeySchema returns the schema for a known configuration key.
// Returns ErrUnknownKey if the key is not in the registry.
func GetKeySchema(path string) (ConfigKeySchema, error) {
	schema, ok := KnownKeys[path]
	if !ok {
		return ConfigKeySchema{}, ErrUnknownKey{Key: path}
	}
	return schema, nil
}

// ParsedValue represents a configuration value after type inference and validation.
type ParsedValue struct {
	Raw    string      // Original string input from user
	Parsed interface{} // Value converted to correct type
	Type   ConfigValueType
}

// ValidateValue validates a string value, as found in the environment,
// against the schema for a given key.
func ValidateValue(key, value string) (ParsedValue, error) {
	schema, err := GetKeySchema(key)
	if err != nil {
		return ParsedValue{}, err
	}
	return validateAgainstSchema(schema, value)
}

// validateAgainstSchema validates a value against a specific schema.
func validateAgainstSchema(schema ConfigKeySchema, value string) (ParsedValue, error) {
	switch schema.Type {
	case TypeBool:
		return parseBoolValue(value)
	case TypeEnum:
		return parseEnumValue(schema, value)
	case TypeString:
		return ParsedValue{Raw: value, Parsed: value, Type: TypeString}, nil
	default:
		return ParsedValue{}, fmt.Errorf("%s cannot be set from a string", schema.Path)
	}
}

// parseBoolValue parses and validates a boolean value.
func parseBoolValue(value string) (ParsedValue, error) {
	switch strings.ToLower(value) {
	case "true":
		return ParsedValue{Raw: value, Parsed: true, Type: TypeBool}, nil
	case "false":
		return ParsedValue{Raw: value, Parsed: false, Type: TypeBool}, nil
	default:
		return ParsedValue{}, fmt.Errorf("invalid boolean: %q (expected true or false)", value)
	}
}

// parseEnumValue validates a value against allowed enum options.
func parseEnumValue(schema ConfigKeySchema, value string) (ParsedValue, error) {
	for _, allowed := range schema.AllowedValues {
		if value == allowed {
			return ParsedValue{Raw: value, Parsed: value, Type: TypeEnum}, nil
		}
	}
	return ParsedValue{}, fmt.Errorf(
		"invalid value: %q (valid options: %s)",
		value,
		strings.Join(schema.AllowedValues, ", "),
	)
}

// GetDefaults returns the default value of every key that has one.
func GetDefaults() map[string]interface{} {
	defaults := make(map[string]interface{})
	for path, schema := range KnownKeys {
		if schema.Default != nil {
			defaults[path] = schema.Default
		}
	}
	return defaults
}
