// Package version provides utilities for semantic version comparison.
package version

import (
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3", "go1.22.4" -> "v1.22.4"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	version = strings.TrimPrefix(version, "go")
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// FromGoRuntime converts a runtime.Version() string into a semver string.
// Development toolchains ("devel go1.23-abc123 ...") and release candidates
// ("go1.22rc1") are reduced to their release numbers.
func FromGoRuntime(goVersion string) string {
	goVersion = strings.TrimSpace(goVersion)
	goVersion = strings.TrimPrefix(goVersion, "devel ")
	if i := strings.IndexAny(goVersion, " -+"); i >= 0 {
		goVersion = goVersion[:i]
	}
	if m := releasePattern.FindString(strings.TrimPrefix(goVersion, "go")); m != "" {
		return Normalize(m)
	}
	return Normalize(goVersion)
}

var releasePattern = regexp.MustCompile(`^\d+(\.\d+){0,2}`)

// toolVersionPattern matches the trailing version in "msgfmt (GNU gettext-tools) 0.21.1"
var toolVersionPattern = regexp.MustCompile(`(\d+(?:\.\d+){0,2})\s*$`)

// ParseToolVersion extracts the version from the first line of a tool's
// --version output. It returns "" when no version can be found.
func ParseToolVersion(output string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(output), "\n")
	m := toolVersionPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ""
	}
	return Normalize(m[1])
}

// AtLeast reports whether current satisfies the minimum version.
// An empty minimum always passes; an invalid current version never does.
func AtLeast(current, minimum string) bool {
	if strings.TrimSpace(minimum) == "" {
		return true
	}

	cur := Normalize(current)
	floor := Normalize(minimum)

	if !semver.IsValid(floor) {
		return false
	}
	if !semver.IsValid(cur) {
		return false
	}

	return semver.Compare(cur, floor) >= 0
}
