// Package util provides utility functions for the backend.
package util

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ParsedVersion holds parsed semantic version components
type ParsedVersion struct {
	Major *int
	Minor *int
	Patch *int
}

// ParseSemanticVersion parses a version string into numeric components
// Returns nil values for components that cannot be parsed
func ParseSemanticVersion(version string) *ParsedVersion {
	version = strings.TrimSpace(version)
	if version == "" {
		return &ParsedVersion{}
	}

	cleanVersion := strings.TrimPrefix(version, "v")

	if v, err := semver.NewVersion(cleanVersion); err == nil {
		major := int(v.Major())
		minor := int(v.Minor())
		patch := int(v.Patch())
		return &ParsedVersion{Major: &major, Minor: &minor, Patch: &patch}
	}

	// Fall back to extracting leading numeric components, e.g. "5.0" or "117.0.5938"
	re := regexp.MustCompile(`^(\d+)(?:\.(\d+))?(?:\.(\d+))?`)
	matches := re.FindStringSubmatch(cleanVersion)
	if matches == nil {
		return &ParsedVersion{}
	}

	parsed := &ParsedVersion{}
	if n, err := strconv.Atoi(matches[1]); err == nil {
		parsed.Major = &n
	}
	if matches[2] != "" {
		if n, err := strconv.Atoi(matches[2]); err == nil {
			parsed.Minor = &n
		}
	}
	if matches[3] != "" {
		if n, err := strconv.Atoi(matches[3]); err == nil {
			parsed.Patch = &n
		}
	}
	return parsed
}

// SanitizeKey ensures the database key is valid for ArangoDB
// ArangoDB keys cannot contain spaces, slashes, or brackets
func SanitizeKey(key string) string {
	key = strings.TrimSpace(key)

	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"[", "",
		"]", "",
		"(", "",
		")", "",
	)

	return replacer.Replace(key)
}
