// Package cli implements the releaser command-line interface.
//
// The CLI exposes a single root command taking an optional environment
// argument (default "production"; any other value selects the beta
// prerelease channel) plus the --dry-run and --tag modes. It is built with
// cobra and logs through charmbracelet/log; the logger travels on the
// command context.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Spoutnik97/releaser/pkg/buildinfo"
	"github.com/Spoutnik97/releaser/pkg/manifest"
	"github.com/Spoutnik97/releaser/pkg/semver"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for the command tree.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// releaseOpts holds the command-line options of a release run.
type releaseOpts struct {
	env      string
	manifest string
	dryRun   bool
	tagOnly  bool
}

// RootCommand creates the root cobra command.
//
// Defaults honor the environment: RELEASER_ENVIRONMENT overrides the
// default channel and RELEASER_MANIFEST the manifest path, both typically
// provided through a .env file loaded by main.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	opts := releaseOpts{
		env:      envOr("RELEASER_ENVIRONMENT", semver.Production),
		manifest: envOr("RELEASER_MANIFEST", manifest.DefaultPath),
	}

	root := &cobra.Command{
		Use:   "releaser [environment]",
		Short: "Releaser orchestrates monorepo version bumps and changelogs",
		Long: `Releaser reads a manifest of packages, derives each package's next
semantic version from the conventional commits since its last release tag,
regenerates changelogs, keeps embedded version markers in sync, and bumps
dependent packages when one of their dependencies changes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(log.DebugLevel)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.env = args[0]
			}
			return c.runRelease(cmd.Context(), opts)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "report what would happen without writing files or touching git")
	root.Flags().BoolVar(&opts.tagOnly, "tag", false, "create tags for the current on-disk versions and exit")
	root.Flags().StringVar(&opts.manifest, "manifest", opts.manifest, "path to the release manifest")

	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
