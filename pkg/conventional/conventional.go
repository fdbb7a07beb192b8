// Package conventional classifies one-line commit subjects following the
// conventional-commit shape "<hash> <type>(<scope>): <description>" and
// derives the version bump a commit sequence implies.
package conventional

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Spoutnik97/releaser/pkg/semver"
)

// subjectPattern matches "<hash> <type>(<scope>): <description>", where the
// hash is any word token (git abbreviates to hex, but the format does not
// depend on it) and the type is a bare word optionally preceded by "!".
var subjectPattern = regexp.MustCompile(`^\w+\s+!?\w+\(([^)]+)\):\s+(.+)$`)

// Sections holds the classified changelog buckets. Each bucket preserves
// commit order; a single commit may land in several buckets (a breaking fix
// is both a fix and a breaking entry).
type Sections struct {
	Features    []string
	Fixes       []string
	Performance []string
	Breaking    []string
}

// Classify sorts commit subjects into changelog buckets and returns the
// bump the whole sequence implies. Entries are rendered with FormatLine.
// A sequence with no matching commit defaults to a patch bump.
func Classify(subjects []string) (Sections, semver.Bump) {
	var s Sections
	bump := semver.Patch

	for _, line := range subjects {
		entry := FormatLine(line)
		if strings.Contains(line, "feat(") {
			s.Features = append(s.Features, entry)
			bump = semver.Higher(bump, semver.Minor)
		}
		if strings.Contains(line, "fix(") {
			s.Fixes = append(s.Fixes, entry)
			bump = semver.Higher(bump, semver.Patch)
		}
		if strings.Contains(line, "perf(") {
			s.Performance = append(s.Performance, entry)
			bump = semver.Higher(bump, semver.Patch)
		}
		if strings.Contains(line, "!feat(") || strings.Contains(line, "!fix(") {
			s.Breaking = append(s.Breaking, entry)
			bump = semver.Higher(bump, semver.Major)
		}
	}

	return s, bump
}

// DetermineTarget scans commit subjects and returns the implied bump,
// short-circuiting to Major on the first breaking marker. It is used for
// the dependency-propagation pass, where only the magnitude matters.
func DetermineTarget(subjects []string) semver.Bump {
	target := semver.Patch
	for _, line := range subjects {
		if strings.Contains(line, "!feat(") || strings.Contains(line, "!fix(") {
			return semver.Major
		}
		if strings.Contains(line, "feat(") {
			target = semver.Higher(target, semver.Minor)
		}
	}
	return target
}

// FormatLine renders a commit subject as a changelog entry,
// "**<scope>**: <description>". Subjects that do not match the structural
// pattern are returned verbatim.
func FormatLine(line string) string {
	if m := subjectPattern.FindStringSubmatch(line); m != nil {
		return fmt.Sprintf("**%s**: %s", m[1], m[2])
	}
	return line
}
