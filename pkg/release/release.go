// Package release drives a release run over a manifest of packages: it
// resolves each package's last tag, classifies the commits since it,
// computes the next version, regenerates the changelog, rewrites version
// markers, and runs a dependency-propagation pass before committing.
//
// Packages are processed strictly sequentially; all run state lives on the
// Orchestrator and is never shared across goroutines.
package release

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	xsemver "golang.org/x/mod/semver"

	"github.com/Spoutnik97/releaser/pkg/changelog"
	"github.com/Spoutnik97/releaser/pkg/conventional"
	"github.com/Spoutnik97/releaser/pkg/errors"
	"github.com/Spoutnik97/releaser/pkg/gitcli"
	"github.com/Spoutnik97/releaser/pkg/manifest"
	"github.com/Spoutnik97/releaser/pkg/semver"
)

// Default output files of a run.
const (
	DefaultPullRequestFile = "pull_request_content.md"
	DefaultTagListFile     = "tags_to_create.txt"
)

// Options configures a release run.
type Options struct {
	// Env is the release channel; semver.Production produces final
	// versions, anything else produces beta prereleases.
	Env string

	// DryRun reports every mutation instead of performing it. Read-side
	// git and file operations still run.
	DryRun bool

	// TagOnly tags each package's current on-disk version and exits
	// before changelog and commit processing.
	TagOnly bool

	// PullRequestFile aggregates the per-package changelog fragments.
	PullRequestFile string

	// TagListFile receives the newly created tag names in TagOnly mode.
	TagListFile string
}

// Released records one package bumped by the first pass, in manifest order.
type Released struct {
	Name    string
	Version string
}

// Result is what a run produced (or, under dry-run, would have produced).
type Result struct {
	// Changed maps package name to newly assigned version, including
	// dependency-triggered bumps.
	Changed map[string]string

	// PullRequest is the aggregated pull-request description text.
	PullRequest string

	// TagsCreated lists the tags created in TagOnly mode.
	TagsCreated []string
}

// Orchestrator owns the state of one release run.
type Orchestrator struct {
	git  gitcli.Git
	fs   FS
	log  *log.Logger
	opts Options

	changed  map[string]string
	released []Released
	pr       strings.Builder
	tags     []string
}

// New creates an Orchestrator. A short run identifier is attached to the
// logger so interleaved CI output stays attributable.
func New(git gitcli.Git, fs FS, logger *log.Logger, opts Options) *Orchestrator {
	if opts.Env == "" {
		opts.Env = semver.Production
	}
	if opts.PullRequestFile == "" {
		opts.PullRequestFile = DefaultPullRequestFile
	}
	if opts.TagListFile == "" {
		opts.TagListFile = DefaultTagListFile
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		git:     git,
		fs:      fs,
		log:     logger.With("run", uuid.NewString()[:8]),
		opts:    opts,
		changed: make(map[string]string),
	}
}

// Run executes the release over the manifest. Any unrecoverable error
// aborts the run; tag-creation failures in TagOnly mode are reported and
// skipped instead.
func (o *Orchestrator) Run(ctx context.Context, m manifest.Manifest) (*Result, error) {
	if o.opts.TagOnly {
		if err := o.tagCurrentVersions(ctx, m); err != nil {
			return nil, err
		}
		return o.result(), nil
	}

	for _, pkg := range m.Packages {
		if err := o.processPackage(ctx, pkg); err != nil {
			return nil, err
		}
	}
	if err := o.propagate(ctx, m); err != nil {
		return nil, err
	}
	if err := o.finalize(ctx); err != nil {
		return nil, err
	}
	return o.result(), nil
}

func (o *Orchestrator) result() *Result {
	return &Result{
		Changed:     o.changed,
		PullRequest: o.pr.String(),
		TagsCreated: o.tags,
	}
}

// processPackage runs the first-pass pipeline for one package: resolve the
// last tag, skip when the file tree is unchanged, otherwise classify
// commits, compute the next version, and rewrite changelog and markers.
func (o *Orchestrator) processPackage(ctx context.Context, pkg manifest.Package) error {
	meta, rawMeta, err := o.readMeta(pkg)
	if err != nil {
		return err
	}

	tags, err := o.git.Tags(ctx, semver.TagPrefix(meta.Name))
	if err != nil {
		return err
	}
	lastTag := semver.LatestTag(meta.Name, meta.Version, o.opts.Env, tags)
	o.log.Info("analyzing package", "name", meta.Name, "path", pkg.Path, "version", meta.Version, "tag", lastTag)

	changedPaths, err := o.git.ChangedPaths(ctx, lastTag, "HEAD", pkg.Path)
	if err != nil {
		return err
	}
	if len(changedPaths) == 0 {
		o.log.Info("no changes detected, skipping", "name", meta.Name)
		return nil
	}

	subjects, err := o.git.LogSubjects(ctx, lastTag+"..HEAD", pkg.Path)
	if err != nil {
		return err
	}

	sections, bump := conventional.Classify(subjects)
	newVersion, err := semver.Increase(meta.Version, bump, o.opts.Env)
	if err != nil {
		return err
	}

	rendered := changelog.Render(meta.Name, newVersion, sections)
	if err := o.updateChangelog(pkg, meta.Name, rendered); err != nil {
		return err
	}
	if err := o.updateMetadata(pkg, rawMeta, newVersion); err != nil {
		return err
	}
	if err := o.bumpExtraFiles(pkg, newVersion); err != nil {
		return err
	}

	o.pr.WriteString(changelog.PullRequestSection(meta.Name, newVersion, rendered))
	o.changed[meta.Name] = newVersion
	o.released = append(o.released, Released{Name: meta.Name, Version: newVersion})
	o.log.Info("updated package", "name", meta.Name, "from", meta.Version, "to", newVersion, "bump", bump.String())
	return nil
}

// propagate is the second pass: packages untouched by the first pass whose
// declared dependencies changed receive a bump of their own. The pass walks
// the manifest once and does not iterate to a fixed point.
func (o *Orchestrator) propagate(ctx context.Context, m manifest.Manifest) error {
	for _, pkg := range m.Packages {
		meta, rawMeta, err := o.readMeta(pkg)
		if err != nil {
			return err
		}
		if _, ok := o.changed[meta.Name]; ok {
			continue
		}
		if !dependsOnChanged(pkg, o.changed) {
			continue
		}

		tags, err := o.git.Tags(ctx, semver.TagPrefix(meta.Name))
		if err != nil {
			return err
		}
		lastTag := semver.LatestTag(meta.Name, meta.Version, o.opts.Env, tags)
		subjects, err := o.git.LogSubjects(ctx, lastTag+"..HEAD", pkg.Path)
		if err != nil {
			return err
		}

		// A dependency-only bump is a patch; own unreleased commits
		// raise it to whatever they imply.
		bump := conventional.DetermineTarget(subjects)
		newVersion, err := semver.Increase(meta.Version, bump, o.opts.Env)
		if err != nil {
			return err
		}

		if err := o.updateMetadata(pkg, rawMeta, newVersion); err != nil {
			return err
		}
		if err := o.bumpExtraFiles(pkg, newVersion); err != nil {
			return err
		}

		o.changed[meta.Name] = newVersion
		o.log.Info("bumped for dependency change", "name", meta.Name, "from", meta.Version, "to", newVersion)
	}
	return nil
}

// finalize stages everything, records the release commit, and writes the
// aggregated pull-request content.
func (o *Orchestrator) finalize(ctx context.Context) error {
	if o.opts.DryRun {
		if len(o.changed) > 0 {
			o.log.Info("dry-run: would commit version bumps", "message", commitMessage(o.released))
		}
		o.log.Info("dry-run: would write pull request content", "path", o.opts.PullRequestFile)
		return nil
	}

	if len(o.changed) > 0 {
		if err := o.git.AddAll(ctx); err != nil {
			return err
		}
		if err := o.git.Commit(ctx, commitMessage(o.released)); err != nil {
			return err
		}
		o.log.Info("created release commit", "packages", len(o.changed))
	}

	return o.writeText(o.opts.PullRequestFile, o.pr.String())
}

// tagCurrentVersions implements TagOnly mode: one annotated tag per package
// at its current on-disk version, skipping tags that already exist. The
// created tag names are written to the tag list file, one per line.
func (o *Orchestrator) tagCurrentVersions(ctx context.Context, m manifest.Manifest) error {
	for _, pkg := range m.Packages {
		meta, _, err := o.readMeta(pkg)
		if err != nil {
			return err
		}

		tag := semver.TagPrefix(meta.Name) + meta.Version
		o.warnIfBehind(ctx, meta)

		if o.opts.DryRun {
			o.log.Info("dry-run: would create tag", "tag", tag)
			continue
		}

		exists, err := o.git.TagExists(ctx, tag)
		if err != nil {
			o.log.Error("tag lookup failed", "tag", tag, "err", err)
			continue
		}
		if exists {
			o.log.Info("tag already exists, skipping", "tag", tag)
			continue
		}
		if err := o.git.CreateTag(ctx, tag, tag); err != nil {
			o.log.Error("tag creation failed", "tag", tag, "err", err)
			continue
		}
		o.tags = append(o.tags, tag)
		o.log.Info("created tag", "tag", tag)
	}

	if o.opts.DryRun {
		o.log.Info("dry-run: would write tag list", "path", o.opts.TagListFile)
		return nil
	}
	var b strings.Builder
	for _, tag := range o.tags {
		b.WriteString(tag)
		b.WriteByte('\n')
	}
	return o.writeText(o.opts.TagListFile, b.String())
}

// warnIfBehind flags an on-disk version older than the latest matching tag,
// which usually means the release commit was not pulled before tagging.
func (o *Orchestrator) warnIfBehind(ctx context.Context, meta manifest.Meta) {
	tags, err := o.git.Tags(ctx, semver.TagPrefix(meta.Name))
	if err != nil || len(tags) == 0 {
		return
	}
	latest := semver.LatestTag(meta.Name, meta.Version, o.opts.Env, tags)
	latestVersion := strings.TrimPrefix(latest, semver.TagPrefix(meta.Name))
	if xsemver.IsValid("v"+meta.Version) && xsemver.IsValid("v"+latestVersion) &&
		xsemver.Compare("v"+meta.Version, "v"+latestVersion) < 0 {
		o.log.Warn("on-disk version is older than the latest tag",
			"name", meta.Name, "version", meta.Version, "tag", latest)
	}
}

func (o *Orchestrator) readMeta(pkg manifest.Package) (manifest.Meta, string, error) {
	path := manifest.MetaPath(pkg.Path)
	raw, err := o.fs.ReadText(path)
	if err != nil {
		return manifest.Meta{}, "", errors.Wrap(errors.ErrCodeMissingMetadata, err, "reading %s", path)
	}
	meta, err := manifest.ParseMeta(raw)
	return meta, raw, err
}

func (o *Orchestrator) updateChangelog(pkg manifest.Package, name, rendered string) error {
	path := filepath.Join(pkg.Path, "CHANGELOG.md")
	existing, err := o.fs.ReadText(path)
	if err != nil {
		o.log.Info("no existing changelog, creating one", "name", name)
		existing = ""
	}
	return o.writeText(path, changelog.Merge(existing, name, rendered))
}

func (o *Orchestrator) updateMetadata(pkg manifest.Package, rawMeta, newVersion string) error {
	updated, err := manifest.RewriteVersion(rawMeta, newVersion)
	if err != nil {
		return err
	}
	return o.writeText(manifest.MetaPath(pkg.Path), updated)
}

// writeText routes every mutation through dry-run handling.
func (o *Orchestrator) writeText(path, content string) error {
	if o.opts.DryRun {
		o.log.Info("dry-run: would write", "path", path)
		return nil
	}
	if err := o.fs.WriteText(path, content); err != nil {
		return errors.Wrap(errors.ErrCodeFileIO, err, "writing %s", path)
	}
	return nil
}

func dependsOnChanged(pkg manifest.Package, changed map[string]string) bool {
	for _, dep := range pkg.Dependencies {
		if _, ok := changed[dep]; ok {
			return true
		}
	}
	return false
}

func commitMessage(released []Released) string {
	var b strings.Builder
	b.WriteString("chore(release): bump packages")
	for _, r := range released {
		fmt.Fprintf(&b, "\n- %s: %s", r.Name, r.Version)
	}
	return b.String()
}
