// Package changelog renders per-package changelog fragments from classified
// commit buckets and merges them with existing changelog bodies.
package changelog

import (
	"fmt"
	"strings"

	"github.com/Spoutnik97/releaser/pkg/conventional"
)

// Render produces the changelog fragment for one release: a package title,
// a version heading, then one block per non-empty bucket in the fixed order
// Features, Fixes, Performance.
//
// Breaking entries feed the bump decision but get no section of their own.
// That is the tool's established output format, not an oversight here.
func Render(name, newVersion string, s conventional.Sections) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", name)
	fmt.Fprintf(&b, "## Version %s\n", newVersion)
	writeSection(&b, "Features", s.Features)
	writeSection(&b, "Fixes", s.Fixes)
	writeSection(&b, "Performance", s.Performance)
	return b.String()
}

func writeSection(b *strings.Builder, title string, entries []string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "### %s\n", title)
	for _, entry := range entries {
		b.WriteString(entry)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
}

// Merge places a freshly rendered fragment above an existing changelog body
// so the newest version heading always comes first. The first occurrence of
// the package title line is stripped from the existing body; Render emits a
// fresh one.
func Merge(existing, name, rendered string) string {
	if existing == "" {
		return rendered
	}
	rest := strings.Replace(existing, fmt.Sprintf("# %s\n", name), "", 1)
	return rendered + rest
}

// PullRequestSection formats one package's release for the aggregated
// pull-request description: a "name - version" heading followed by the
// rendered fragment with all heading lines dropped.
func PullRequestSection(name, newVersion, rendered string) string {
	var kept []string
	for _, line := range strings.Split(rendered, "\n") {
		if !strings.HasPrefix(line, "#") {
			kept = append(kept, line)
		}
	}
	return fmt.Sprintf("## %s - %s\n%s\n\n", name, newVersion, strings.Join(kept, "\n"))
}
