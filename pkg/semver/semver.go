// Package semver implements the version arithmetic and ordering rules used
// by the releaser.
//
// Versions are plain "major.minor.patch" strings with an optional prerelease
// marker ("-beta" or "-beta.N"). The rules differ from SemVer 2 precedence
// in two ways that matter here: prerelease counters are compared as bare
// integers with a missing counter counting as zero, and bumping a version
// that already carries a marker on the production channel promotes it to a
// final release instead of applying the requested bump.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Spoutnik97/releaser/pkg/errors"
)

// Production is the release channel that produces final versions. Any other
// channel value is treated as a prerelease channel.
const Production = "production"

// PreLabel is the prerelease label attached on non-production channels.
const PreLabel = "beta"

// Bump is the magnitude of a version increment, ordered Patch < Minor < Major.
type Bump int

const (
	Patch Bump = iota
	Minor
	Major
)

// String returns the lowercase bump name.
func (b Bump) String() string {
	switch b {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return "patch"
	}
}

// Higher returns the greater of two bump kinds.
func Higher(a, b Bump) Bump {
	if b > a {
		return b
	}
	return a
}

// Version is a parsed semantic version with an optional prerelease marker.
type Version struct {
	Major, Minor, Patch int

	Pre     string // prerelease label, e.g. "beta"
	PreN    int    // prerelease counter, valid when HasPreN
	HasPre  bool
	HasPreN bool
}

// Parse parses a version string such as "1.2.3" or "1.2.3-beta.4".
// It fails with an INVALID_VERSION error when the release part does not
// have three numeric dot-separated components.
func Parse(s string) (Version, error) {
	release, suffix, hasSuffix := strings.Cut(s, "-")

	nums := strings.Split(release, ".")
	if len(nums) < 3 {
		return Version{}, errors.New(errors.ErrCodeInvalidVersion, "version %q needs major.minor.patch", s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.Atoi(nums[0]); err == nil {
		if v.Minor, err = strconv.Atoi(nums[1]); err == nil {
			v.Patch, err = strconv.Atoi(nums[2])
		}
	}
	if err != nil {
		return Version{}, errors.New(errors.ErrCodeInvalidVersion, "version %q has non-numeric components", s)
	}

	if hasSuffix {
		v.HasPre = true
		label, counter, hasCounter := strings.Cut(suffix, ".")
		v.Pre = label
		if hasCounter {
			if n, err := strconv.Atoi(counter); err == nil {
				v.PreN = n
				v.HasPreN = true
			}
		}
	}

	return v, nil
}

// String renders the version back to its canonical form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.HasPre {
		s += "-" + v.Pre
		if v.HasPreN {
			s += "." + strconv.Itoa(v.PreN)
		}
	}
	return s
}

// Increase computes the next version for the given bump and channel.
//
// On the production channel a version that already carries a prerelease
// marker is promoted as-is: the marker is stripped and the requested bump
// is ignored. On prerelease channels the release numbers are bumped and the
// marker advances: an existing counter increments (a bare marker counts as
// zero), while a version without a marker gains a bare "-beta".
func Increase(version string, bump Bump, env string) (string, error) {
	v, err := Parse(version)
	if err != nil {
		return "", err
	}

	if env == Production {
		if v.HasPre {
			return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch}.String(), nil
		}
		return apply(v, bump).String(), nil
	}

	next := apply(v, bump)
	next.HasPre = true
	next.Pre = PreLabel
	if v.HasPre {
		counter := 0
		if v.HasPreN {
			counter = v.PreN
		}
		next.PreN = counter + 1
		next.HasPreN = true
	}
	return next.String(), nil
}

// apply increments the release numbers, zeroing the lower-order components.
func apply(v Version, bump Bump) Version {
	switch bump {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// Compare orders two version strings, returning -1, 0, or 1.
//
// Release numbers are compared component-wise with unparsable components
// counting as zero. On equal release numbers a version without a suffix
// outranks any of its prereleases; two suffixed versions compare by their
// trailing numeric counters (missing counter = 0).
func Compare(a, b string) int {
	aRelease, aSuffix, aHasSuffix := strings.Cut(a, "-")
	bRelease, bSuffix, bHasSuffix := strings.Cut(b, "-")

	aNums := strings.Split(aRelease, ".")
	bNums := strings.Split(bRelease, ".")
	for i := 0; i < 3; i++ {
		an := componentAt(aNums, i)
		bn := componentAt(bNums, i)
		if an != bn {
			if an < bn {
				return -1
			}
			return 1
		}
	}

	switch {
	case !aHasSuffix && !bHasSuffix:
		return 0
	case !aHasSuffix:
		return 1 // final release outranks any prerelease
	case !bHasSuffix:
		return -1
	}

	an := suffixCounter(aSuffix)
	bn := suffixCounter(bSuffix)
	if an < bn {
		return -1
	}
	if an > bn {
		return 1
	}
	return 0
}

func componentAt(nums []string, i int) int {
	if i >= len(nums) {
		return 0
	}
	n, err := strconv.Atoi(nums[i])
	if err != nil {
		return 0
	}
	return n
}

func suffixCounter(suffix string) int {
	if _, counter, ok := strings.Cut(suffix, "."); ok {
		if n, err := strconv.Atoi(counter); err == nil {
			return n
		}
	}
	return 0
}
