package cli

import (
	"context"

	"github.com/Spoutnik97/releaser/pkg/gitcli"
	"github.com/Spoutnik97/releaser/pkg/manifest"
	"github.com/Spoutnik97/releaser/pkg/release"
)

// runRelease loads the manifest and drives one release run.
func (c *CLI) runRelease(ctx context.Context, opts releaseOpts) error {
	logger := loggerFromContext(ctx)

	section("Release Process Started")
	if opts.dryRun {
		printWarning("Running in dry-run mode - no changes will be made")
	}
	printInfo("Environment: %s", StyleHighlight.Render(opts.env))

	m, err := manifest.Load(opts.manifest)
	if err != nil {
		printError("Could not load manifest %s", opts.manifest)
		return err
	}

	p := newProgress(logger)
	section("Analyzing Packages")

	orch := release.New(gitcli.NewClient(""), release.NewOSFS(), logger, release.Options{
		Env:     opts.env,
		DryRun:  opts.dryRun,
		TagOnly: opts.tagOnly,
	})

	res, err := orch.Run(ctx, m)
	if err != nil {
		return err
	}

	if opts.tagOnly {
		section("Tag Creation Summary")
		printSuccess("Created %d tags - list written to %s", len(res.TagsCreated), release.DefaultTagListFile)
	} else {
		section("Summary")
		printSuccess("Updated %d packages", len(res.Changed))
		printSuccess("Pull request content written to %s", release.DefaultPullRequestFile)
	}
	p.done("Release run finished")
	return nil
}
