// Package manifest loads the declarative package list driving a release run
// and reads package metadata files.
//
// The canonical manifest is a JSON array of package entries
// (releaser-manifest.json); a TOML variant with a [[packages]] table is
// also accepted.
package manifest

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/Spoutnik97/releaser/pkg/errors"
)

// DefaultPath is the manifest file looked up when no override is given.
const DefaultPath = "releaser-manifest.json"

// Package is one releasable unit of the monorepo. Path is its identity.
type Package struct {
	Path         string   `json:"path" toml:"path"`
	ExtraFiles   []string `json:"extraFiles" toml:"extraFiles"`
	Dependencies []string `json:"dependencies" toml:"dependencies"`
}

// Manifest is the ordered package list; order is the processing order.
type Manifest struct {
	Packages []Package `toml:"packages"`
}

// Load reads and parses the manifest at path. Files ending in ".toml" are
// parsed as TOML, everything else as a JSON array of packages.
func Load(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "reading manifest %s", path)
	}

	var m Manifest
	if strings.HasSuffix(path, ".toml") {
		if err := toml.Unmarshal(data, &m); err != nil {
			return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parsing manifest %s", path)
		}
	} else {
		if err := json.Unmarshal(data, &m.Packages); err != nil {
			return Manifest{}, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parsing manifest %s", path)
		}
	}

	for _, pkg := range m.Packages {
		if pkg.Path == "" {
			return Manifest{}, errors.New(errors.ErrCodeInvalidManifest, "manifest %s has a package without a path", path)
		}
	}
	return m, nil
}
