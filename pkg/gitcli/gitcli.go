// Package gitcli wraps the git binary behind a narrow interface covering
// the operations the release engine needs: listing tags, diffing a package
// path against a tag, reading one-line commit subjects, and creating tags
// and commits.
package gitcli

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/Spoutnik97/releaser/pkg/errors"
)

// Git is the version-control collaborator consumed by the release engine.
// Implementations must preserve line order as git produces it.
type Git interface {
	// Tags lists tags matching "<prefix>*".
	Tags(ctx context.Context, prefix string) ([]string, error)

	// ChangedPaths lists files changed between sinceTag and untilRef,
	// scoped to scope. Empty means no changes.
	ChangedPaths(ctx context.Context, sinceTag, untilRef, scope string) ([]string, error)

	// LogSubjects returns one-line commit subjects for a revision range,
	// optionally scoped to a path.
	LogSubjects(ctx context.Context, span, scope string) ([]string, error)

	// TagExists reports whether a tag with the exact name exists.
	TagExists(ctx context.Context, name string) (bool, error)

	// CreateTag creates an annotated tag.
	CreateTag(ctx context.Context, name, message string) error

	// AddAll stages every pending change.
	AddAll(ctx context.Context) error

	// Commit records a commit with the given message.
	Commit(ctx context.Context, message string) error
}

// Client runs git in a working directory (the current directory when empty).
type Client struct {
	dir string
}

// NewClient returns a Client running git in dir.
func NewClient(dir string) *Client {
	return &Client{dir: dir}
}

var _ Git = (*Client)(nil)

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if c.dir != "" {
		cmd.Dir = c.dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", errors.Wrap(errors.ErrCodeGitCommand, err, "git %s: %s", strings.Join(args, " "), detail)
	}
	return stdout.String(), nil
}

func (c *Client) Tags(ctx context.Context, prefix string) ([]string, error) {
	out, err := c.run(ctx, "tag", "-l", prefix+"*")
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *Client) ChangedPaths(ctx context.Context, sinceTag, untilRef, scope string) ([]string, error) {
	out, err := c.run(ctx, "diff", "--name-only", sinceTag, untilRef, "--", scope)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *Client) LogSubjects(ctx context.Context, span, scope string) ([]string, error) {
	args := []string{"log", span, "--oneline"}
	if scope != "" {
		args = append(args, "--", scope)
	}
	out, err := c.run(ctx, args...)
	if err != nil {
		return nil, err
	}
	return splitLines(out), nil
}

func (c *Client) TagExists(ctx context.Context, name string) (bool, error) {
	out, err := c.run(ctx, "tag", "-l", name)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) != "", nil
}

func (c *Client) CreateTag(ctx context.Context, name, message string) error {
	_, err := c.run(ctx, "tag", "-a", name, "-m", message)
	return err
}

func (c *Client) AddAll(ctx context.Context) error {
	_, err := c.run(ctx, "add", ".")
	return err
}

func (c *Client) Commit(ctx context.Context, message string) error {
	_, err := c.run(ctx, "commit", "-m", message)
	return err
}

func splitLines(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
