package entities

import (
	"fmt"
	"regexp"
	"strconv"
)

// versionPattern matches a Chromium four-part version anywhere in a string,
// e.g. "Google Chrome 115.0.5790.170" or "Version=115.0.5790.170".
var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)\.(\d+)\.(\d+)`)

// Version is a Chromium version number: MAJOR.MINOR.BUILD.PATCH
//
// See https://www.chromium.org/developers/version-numbers/
type Version struct {
	Major int
	Minor int
	Build int
	Patch int
}

// NewVersion creates a version from its four components
func NewVersion(major, minor, build, patch int) Version {
	return Version{Major: major, Minor: minor, Build: build, Patch: patch}
}

// ParseVersion parses a strict dotted version such as "115.0.5790.170"
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(s)
	if m == nil || m[0] != s {
		return Version{}, fmt.Errorf("invalid version %q: expected MAJOR.MINOR.BUILD.PATCH", s)
	}
	return fromMatch(m)
}

// FindVersion extracts the first dotted version embedded in free-form
// command output
func FindVersion(output string) (Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return Version{}, fmt.Errorf("no version number found in %q", output)
	}
	return fromMatch(m)
}

func fromMatch(m []string) (Version, error) {
	var parts [4]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, fmt.Errorf("invalid version component %q: %w", m[i+1], err)
		}
		parts[i] = n
	}
	return NewVersion(parts[0], parts[1], parts[2], parts[3]), nil
}

// String returns the dotted form
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Patch)
}

// Compare returns 1 if v > other, -1 if v < other, 0 if equal
func (v Version) Compare(other Version) int {
	a := [4]int{v.Major, v.Minor, v.Build, v.Patch}
	b := [4]int{other.Major, other.Minor, other.Build, other.Patch}
	for i := range a {
		if a[i] > b[i] {
			return 1
		} else if a[i] < b[i] {
			return -1
		}
	}
	return 0
}

// Equal reports whether both versions are identical
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}
