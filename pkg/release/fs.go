package release

import "os"

// FS is the filesystem collaborator: read and write whole text files.
// Package metadata, changelogs, and extra marker files all go through it.
type FS interface {
	ReadText(path string) (string, error)
	WriteText(path, content string) error
}

// NewOSFS returns the FS backed by the real filesystem.
func NewOSFS() FS { return osFS{} }

type osFS struct{}

func (osFS) ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (osFS) WriteText(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}
