// Package semver implements the minimal semantic-version arithmetic relcut
// needs: parsing bare X.Y.Z triples and computing the next version for a
// given bump kind. Pre-release and build metadata are out of scope; the
// version manifests this tool operates on carry plain triples.
package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the category of semantic-version increment.
type Kind int

const (
	Patch Kind = iota
	Minor
	Major
)

// String returns the lowercase keyword for the bump kind.
func (k Kind) String() string {
	switch k {
	case Major:
		return "major"
	case Minor:
		return "minor"
	case Patch:
		return "patch"
	default:
		return "unknown"
	}
}

// ParseKind recognizes the three bump keywords. The boolean reports whether
// the input named a valid kind; callers must not substitute a default on
// false, since a silently wrong kind could mis-version a release.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, true
	case "minor":
		return Minor, true
	case "patch":
		return Patch, true
	default:
		return Patch, false
	}
}

// Version is a parsed semantic version triple.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse decomposes a dotted version string into exactly three non-negative
// integers. Anything else (wrong arity, signs, non-numeric components,
// leading "v") is an error; version strings read from a manifest are
// expected to be bare triples.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("invalid version %q: expected exactly three dot-separated components", s)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not an integer", s, part)
		}
		if n < 0 || strings.HasPrefix(part, "+") || strings.HasPrefix(part, "-") {
			return Version{}, fmt.Errorf("invalid version %q: component %q must be a non-negative integer", s, part)
		}
		nums[i] = n
	}

	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// String renders the version as "X.Y.Z".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Tag renders the version as a release tag name ("vX.Y.Z").
func (v Version) Tag() string {
	return "v" + v.String()
}

// Bump returns the next version for the given bump kind. Components below
// the bumped one reset to zero; components above it are preserved.
func (v Version) Bump(kind Kind) Version {
	switch kind {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}
