package semver

import "strings"

// TagPrefix returns the tag prefix for a package, e.g. "pkg-a-v".
func TagPrefix(name string) string {
	return name + "-v"
}

// LatestTag selects the tag representing the latest applicable release of a
// package from a raw tag list.
//
// Only tags with the "<name>-v" prefix are considered; on the production
// channel prerelease tags are discarded. The maximum under Compare wins.
// When no tag remains, a synthetic "<name>-v<currentVersion>" tag is
// returned so the current on-disk version serves as the baseline.
func LatestTag(name, currentVersion, env string, tags []string) string {
	prefix := TagPrefix(name)

	best := ""
	for _, tag := range tags {
		if !strings.HasPrefix(tag, prefix) {
			continue
		}
		if env == Production && strings.Contains(tag, "-"+PreLabel) {
			continue
		}
		if best == "" || Compare(strings.TrimPrefix(tag, prefix), strings.TrimPrefix(best, prefix)) > 0 {
			best = tag
		}
	}

	if best == "" {
		return prefix + currentVersion
	}
	return best
}
