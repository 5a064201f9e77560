package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError represents a configuration validation error with context
type ValidationError struct {
	FilePath string
	Line     int
	Column   int
	Message  string
	// Field is the dotted settings key, e.g. "log.level".
	Field string
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line, e.Column, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// InvalidConfigError is returned for unknown keys and mistyped values.
type InvalidConfigError struct {
	Message string
}

func (e *InvalidConfigError) Error() string {
	return e.Message
}

// IsInvalidConfig reports whether err is a configuration problem.
func IsInvalidConfig(err error) bool {
	var ic *InvalidConfigError
	var ve *ValidationError
	return errors.As(err, &ic) || errors.As(err, &ve)
}

// ValidateYAMLSyntax checks if the YAML file has valid syntax.
// Returns nil if valid, or a ValidationError with line/column information if invalid.
func ValidateYAMLSyntax(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // Missing file is not an error - will use defaults
		}
		if os.IsPermission(err) {
			return &ValidationError{
				FilePath: filePath,
				Message:  "permission denied",
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}

	return ValidateYAMLSyntaxFromBytes(data, filePath)
}

// ValidateYAMLSyntaxFromBytes checks if YAML data has valid syntax.
// Returns nil if valid, or a ValidationError if invalid.
func ValidateYAMLSyntaxFromBytes(data []byte, filePath string) error {
	// Empty data is valid - will use defaults
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			return &ValidationError{
				FilePath: filePath,
				Message:  strings.Join(typeError.Errors, "; "),
			}
		}

		line, column := extractLineColumn(err.Error())
		return &ValidationError{
			FilePath: filePath,
			Line:     line,
			Column:   column,
			Message:  cleanYAMLError(err.Error()),
		}
	}

	return nil
}

// validateKeys checks the keys and value types of a loaded project section.
// fileName names the file in messages, e.g. "pyproject.toml".
func validateKeys(raw map[string]interface{}, fileName string) error {
	for _, key := range sortedKeys(raw) {
		if !contains(ValidTopLevelKeys, key) {
			return &InvalidConfigError{Message: fmt.Sprintf(
				"Invalid key '%s' in %s file. Valid keys are : %s",
				key, fileName, strings.Join(ValidTopLevelKeys, ", "))}
		}
	}

	ver, ok := raw["version"]
	if !ok {
		return validateLog(raw, fileName)
	}
	table, ok := ver.(map[string]interface{})
	if !ok {
		return &InvalidConfigError{Message: fmt.Sprintf(
			"Type of 'version' key in %s is invalid. It should be a table with keys : %s",
			fileName, strings.Join(ValidVersionKeys, ", "))}
	}
	for _, key := range sortedKeys(table) {
		if !contains(ValidVersionKeys, key) {
			return &InvalidConfigError{Message: fmt.Sprintf(
				"Invalid version key '%s' in %s file. Valid keys are : %s",
				key, fileName, strings.Join(ValidVersionKeys, ", "))}
		}
	}
	for _, key := range []string{"tag", "push"} {
		v, ok := table[key]
		if !ok {
			continue
		}
		if _, isBool := v.(bool); !isBool {
			return &InvalidConfigError{Message: fmt.Sprintf(
				"Type of '%s' key in %s is invalid. It should be lowercase boolean : true / false",
				key, fileName)}
		}
	}
	if v, ok := table["version_file"]; ok {
		if _, isString := v.(string); !isString {
			return &InvalidConfigError{Message: fmt.Sprintf(
				"Type of 'version_file' key in %s is invalid. It should be a string", fileName)}
		}
	}

	return validateLog(raw, fileName)
}

func validateLog(raw map[string]interface{}, fileName string) error {
	logRaw, ok := raw["log"]
	if !ok {
		return nil
	}
	_, ok = logRaw.(map[string]interface{})
	if !ok {
		return &InvalidConfigError{Message: fmt.Sprintf("Type of 'log' key in %s is invalid. It should be a table", fileName)}
	}
	return nil
}

// githubRepoPattern matches "owner/name" GitHub repositories.
var githubRepoPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*/[A-Za-z0-9._-]+$`)

var configValidator = newConfigValidator()

func newConfigValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their settings key instead of the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("koanf"), ",", 2)[0]
	})
	_ = v.RegisterValidation("github_repo", func(fl validator.FieldLevel) bool {
		return githubRepoPattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateConfigValues validates the decoded settings against the constraints
// in the Configuration struct tags. Key names and value types are checked
// before decoding by validateKeys.
func ValidateConfigValues(cfg *Configuration, filePath string) error {
	if err := configValidator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			for _, fieldErr := range validationErrors {
				return &ValidationError{
					FilePath: filePath,
					Field:    settingsKey(fieldErr.Namespace()),
					Message:  formatValidationError(fieldErr),
				}
			}
		}
		return &ValidationError{
			FilePath: filePath,
			Message:  err.Error(),
		}
	}
	return nil
}

// settingsKey drops the struct name from a validator namespace:
// "Configuration.log.level" -> "log.level".
func settingsKey(namespace string) string {
	if _, key, ok := strings.Cut(namespace, "."); ok {
		return key
	}
	return namespace
}

// formatValidationError formats a validation error for a specific field.
func formatValidationError(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fieldErr.Param(), " ", ", ")
	case "github_repo":
		return fmt.Sprintf("%q is not an owner/name GitHub repository, e.g. ploomber/pkgmt", fieldErr.Value())
	default:
		return fmt.Sprintf("failed validation: %s", fieldErr.Tag())
	}
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// extractLineColumn attempts to extract line and column numbers from a YAML error message.
// Returns 0, 0 if unable to extract.
func extractLineColumn(errMsg string) (line, column int) {
	// yaml.v3 errors look like: "yaml: line 5: could not find expected ':'"
	var l, c int
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d: column %d:", &l, &c); n == 2 {
		return l, c
	}
	if n, _ := fmt.Sscanf(errMsg, "yaml: line %d:", &l); n == 1 {
		return l, 1
	}
	return 0, 0
}

// cleanYAMLError removes the "yaml: line X:" prefix from error messages for cleaner output.
func cleanYAMLError(errMsg string) string {
	if idx := strings.LastIndex(errMsg, ": "); idx > 0 {
		if strings.HasPrefix(errMsg, "yaml:") {
			return errMsg[idx+2:]
		}
	}
	return errMsg
}
