package manifest

import (
	"encoding/json"
	"path/filepath"
	"regexp"

	"github.com/Spoutnik97/releaser/pkg/errors"
)

// Meta is the subset of a package metadata file the releaser needs.
type Meta struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// MetaPath returns the metadata file path for a package directory.
func MetaPath(dir string) string {
	return filepath.Join(dir, "package.json")
}

// ParseMeta extracts name and version from a package.json body.
func ParseMeta(data string) (Meta, error) {
	var meta Meta
	if err := json.Unmarshal([]byte(data), &meta); err != nil {
		return Meta{}, errors.Wrap(errors.ErrCodeMissingMetadata, err, "parsing package metadata")
	}
	if meta.Name == "" || meta.Version == "" {
		return Meta{}, errors.New(errors.ErrCodeMissingMetadata, "package metadata is missing name or version")
	}
	return meta, nil
}

var versionField = regexp.MustCompile(`("version"\s*:\s*")([^"]+)(")`)

// RewriteVersion replaces the value of the first "version" field in a
// package.json body, leaving every other byte untouched.
func RewriteVersion(data, newVersion string) (string, error) {
	loc := versionField.FindStringSubmatchIndex(data)
	if loc == nil {
		return "", errors.New(errors.ErrCodeMissingMetadata, "package metadata has no version field")
	}
	// loc[4:6] bounds the captured value.
	return data[:loc[4]] + newVersion + data[loc[5]:], nil
}
