package depselector

import (
	"regexp"
	"strconv"

	"github.com/Masterminds/semver"
	"github.com/pkg/errors"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

// versionPattern is the grammar a version string must satisfy:
//
//	MAJOR[.MINOR[.PATCH]][-PRERELEASE][+BUILD]
//
// Unlike the Masterminds semver library's own regular expression, no "v"
// prefix is permitted. Minor and patch are optional and default to 0.
var versionPattern = regexp.MustCompile(`^\d+(\.\d+(\.\d+)?)?(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?$`)

// Version is a single, fully-resolved package version. Ordering follows
// semantic versioning precedence: major, then minor, then patch, with a
// pre-release release always sorting below the corresponding plain release.
// Build metadata is carried for display purposes only and never affects
// ordering or equality.
type Version struct {
	sv *semver.Version
}

// ParseVersion parses s as a Version, or returns a *MalformedVersionError
// if s does not satisfy the version grammar.
func ParseVersion(s string) (Version, error) {
	if !versionPattern.MatchString(s) {
		return Version{}, &MalformedVersionError{Input: s}
	}

	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, &MalformedVersionError{Input: s, Cause: errors.Wrap(err, "parsing semver")}
	}

	return Version{sv: sv}, nil
}

// MustParseVersion is like ParseVersion but panics on error. It exists for
// constructing Versions from constants known to be well-formed (tests,
// internally-derived ceilings), never for parsing external input.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Valid reports whether v was produced by a successful parse.
func (v Version) Valid() bool {
	return v.sv != nil
}

// Major, Minor and Patch return the numeric version components.
func (v Version) Major() int64 { return v.sv.Major() }
func (v Version) Minor() int64 { return v.sv.Minor() }
func (v Version) Patch() int64 { return v.sv.Patch() }

// Prerelease returns the pre-release identifier, or the empty string.
func (v Version) Prerelease() string { return v.sv.Prerelease() }

// Compare returns -1, 0 or +1 as v is less than, equal to, or greater than
// o. A pre-release version always compares less than the release with the
// same major.minor.patch triple; build metadata is ignored entirely.
func (v Version) Compare(o Version) int {
	return v.sv.Compare(o.sv)
}

// Equal reports whether v and o denote the same version for ordering
// purposes (build metadata aside).
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// Less reports whether v sorts strictly before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// String renders v in canonical form.
func (v Version) String() string {
	if v.sv == nil {
		return ""
	}
	return v.sv.String()
}

// ceilingOfMinor and ceilingOfPatch construct the next-major / next-minor
// "ceiling" version used by the pessimistic (~>) operator. They always
// succeed since their inputs are built from already-valid components.
func ceilingOfMinor(v Version) Version {
	return MustParseVersion(itoa(v.Major()+1) + ".0.0")
}

func ceilingOfPatch(v Version) Version {
	return MustParseVersion(itoa(v.Major()) + "." + itoa(v.Minor()+1) + ".0")
}
