// Package version models project version strings in dev, release and
// pre-release states and implements the transitions between them.
//
// Version strings follow the layout used by the managed project's version file:
//
//	0.1dev      dev version (unreleased work)
//	0.1.0       release version
//	1.0b1       pre-release (alpha a, beta b, release candidate rc)
//
// The package functions operate on the raw text so that transitions keep the
// number of components the user wrote (BumpUp("1.0b1") == "1.0dev"), while
// Parse gives a typed view for callers that need the numeric parts.
package version

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DevSuffix marks a version as unreleased work in progress.
const DevSuffix = "dev"

var (
	preReleasePattern = regexp.MustCompile(`(a|b|rc)\d+`)
	versionPattern    = regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?(?:(a|b|rc)(\d+))?(dev)?$`)
)

// PreRelease is the alpha/beta/release-candidate marker of a version.
type PreRelease struct {
	Kind   string // "a", "b" or "rc"
	Number int
}

func (p PreRelease) String() string {
	return p.Kind + strconv.Itoa(p.Number)
}

// Version is the typed form of a version string.
type Version struct {
	Major int
	Minor int
	Patch int
	Pre   *PreRelease
	Dev   bool
}

// Parse validates text and parses it into a Version.
func Parse(text string) (Version, error) {
	if err := Validate(text); err != nil {
		return Version{}, err
	}

	m := versionPattern.FindStringSubmatch(text)
	if m == nil {
		return Version{}, &ParseError{Input: text, Reason: "expected MAJOR[.MINOR[.PATCH]][a|b|rcN][dev]"}
	}

	var v Version
	v.Major, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		v.Minor, _ = strconv.Atoi(m[2])
	}
	if m[3] != "" {
		v.Patch, _ = strconv.Atoi(m[3])
	}
	if m[4] != "" {
		n, _ := strconv.Atoi(m[5])
		v.Pre = &PreRelease{Kind: m[4], Number: n}
	}
	v.Dev = m[6] != ""

	return v, nil
}

// MustParse is like Parse but panics on invalid input.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the canonical text: three numeric components, the
// pre-release marker if any and the dev suffix if any.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Pre != nil {
		s += v.Pre.String()
	}
	if v.Dev {
		s += DevSuffix
	}
	return s
}

// IsDev reports whether v carries the dev suffix.
func (v Version) IsDev() bool { return v.Dev }

// IsPreRelease reports whether v carries an a/b/rc marker.
func (v Version) IsPreRelease() bool { return v.Pre != nil }

// IsMajor reports whether minor and patch are both zero.
func (v Version) IsMajor() bool {
	return v.Minor == 0 && v.Patch == 0
}

// Release returns v without the dev suffix.
func (v Version) Release() Version {
	v.Dev = false
	return v
}

// Validate checks the minimal shape every version string must have:
// it must be non-empty and start with a digit.
func Validate(text string) error {
	if len(text) == 0 {
		return &ParseError{Input: text, Reason: "empty"}
	}
	if text[0] < '0' || text[0] > '9' {
		return &ParseError{Input: text, Reason: "first character must be numeric"}
	}
	return nil
}

// IsPreRelease reports whether text contains an a, b or rc marker.
func IsPreRelease(text string) bool {
	return strings.Contains(text, "a") || strings.Contains(text, "b") || strings.Contains(text, "rc")
}

// splitPreRelease returns text without its pre-release marker and the marker.
func splitPreRelease(text string) (string, string) {
	if !IsPreRelease(text) {
		return text, ""
	}
	part := preReleasePattern.FindString(text)
	if part == "" {
		return text, ""
	}
	return strings.Replace(text, part, "", 1), part
}

// Complete pads the numeric part of text to three components and keeps the
// pre-release marker at the end. "1" -> "1.0.0", "1.0b10" -> "1.0.0b10".
// Complete is idempotent.
func Complete(text string) string {
	numeric, pre := splitPreRelease(text)
	elements := len(strings.Split(numeric, "."))

	completed := text
	if elements < 3 {
		completed = numeric + strings.Repeat(".0", 3-elements)
	}
	if !strings.HasSuffix(completed, pre) {
		completed += pre
	}
	return completed
}

// Normalize strips the dev suffix and completes text to three components.
// Two versions refer to the same release iff their normalized forms match.
func Normalize(text string) string {
	return Complete(strings.ReplaceAll(text, DevSuffix, ""))
}

// IsMajor reports whether text (ignoring any dev suffix) has zero minor and
// patch components, e.g. "2.0dev" or "1.0.0". "2.1dev" is not major.
func IsMajor(text string) bool {
	completed, _ := splitPreRelease(Normalize(text))
	parts := strings.Split(completed, ".")
	if len(parts) < 3 {
		return false
	}
	return parts[1] == "0" && parts[2] == "0"
}

// BumpUp returns the next dev version after releasing text.
//
//	1.2.5  -> 1.2.6dev
//	0.8    -> 0.8.1dev (a patch component is added first)
//	1.0b1  -> 1.0dev   (pre-releases go back to dev of the same release)
//
// Dev versions cannot be bumped; they must be released first.
func BumpUp(text string) (string, error) {
	if loc := preReleasePattern.FindStringIndex(text); loc != nil {
		return text[:loc[0]] + DevSuffix, nil
	}

	if strings.Contains(text, DevSuffix) {
		return "", &StateError{
			Version: text,
			Message: "current version is a dev version, new dev versions can only be made from release versions",
		}
	}

	tokens := strings.Split(text, ".")
	if len(tokens) == 2 {
		tokens = append(tokens, "0")
	}

	last, err := strconv.Atoi(tokens[len(tokens)-1])
	if err != nil {
		return "", &ParseError{Input: text, Reason: "last component is not numeric"}
	}
	tokens[len(tokens)-1] = strconv.Itoa(last + 1)

	return strings.Join(tokens, ".") + DevSuffix, nil
}

// ReleaseCandidate returns the release version for the dev version text,
// completed to three components. "2.4dev" -> "2.4.0".
func ReleaseCandidate(text string) (string, error) {
	if !strings.Contains(text, DevSuffix) {
		return "", &StateError{Version: text, Message: "current version is not a dev version"}
	}
	return Complete(strings.ReplaceAll(text, DevSuffix, "")), nil
}
