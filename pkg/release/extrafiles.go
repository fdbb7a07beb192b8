package release

import (
	"regexp"
	"strings"

	"github.com/Spoutnik97/releaser/pkg/errors"
	"github.com/Spoutnik97/releaser/pkg/manifest"
)

// VersionMarker tags lines whose embedded version string is kept in sync
// with the package's release version.
const VersionMarker = "// x-releaser-version"

var embeddedVersion = regexp.MustCompile(`\d+\.\d+\.\d+(-[a-zA-Z0-9.]+)?`)

// RewriteMarkedVersions replaces the embedded semantic-version substring on
// every line carrying the marker comment. Lines without a version before
// the marker are left alone. The trailing-newline presence of the input is
// preserved exactly.
func RewriteMarkedVersions(content, newVersion string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if !strings.Contains(line, VersionMarker) {
			continue
		}
		before, _, _ := strings.Cut(line, VersionMarker)
		if old := embeddedVersion.FindString(before); old != "" {
			lines[i] = strings.Replace(line, old, newVersion, 1)
		}
	}
	return strings.Join(lines, "\n")
}

func (o *Orchestrator) bumpExtraFiles(pkg manifest.Package, newVersion string) error {
	for _, path := range pkg.ExtraFiles {
		content, err := o.fs.ReadText(path)
		if err != nil {
			return errors.Wrap(errors.ErrCodeFileIO, err, "reading %s", path)
		}
		if err := o.writeText(path, RewriteMarkedVersions(content, newVersion)); err != nil {
			return err
		}
		o.log.Info("updated version marker", "path", path)
	}
	return nil
}
