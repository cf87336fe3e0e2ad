package cli

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/toolcatalog/pkg/builder"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/diff"
	catalogio "github.com/matzehuels/toolcatalog/pkg/io"
	"github.com/matzehuels/toolcatalog/pkg/observability"
	"github.com/matzehuels/toolcatalog/pkg/sources"
)

// buildOptions holds the flags of the build command.
type buildOptions struct {
	config      string
	output      string
	message     string
	dryRun      bool
	noCache     bool
	refresh     bool
	concurrency int
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Rebuild the catalog from its configured sources",
		Long: `Fetch every configured source, merge the results and write the catalog.

The previous catalog in the output directory is compared with the new one and
the changes are printed. With --message the one-line summary followed by the
full change list is also written to a file, ready to be used as a commit
message.`,
		Example: `  # Rebuild using ./toolcatalog.toml
  toolcatalog build

  # Preview changes without touching the catalog
  toolcatalog build --dry-run

  # Write a commit message for the update
  toolcatalog build --message .git/COMMIT_MSG`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.runBuild(cmd.Context(), opts, cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.config, "config", "c", config.DefaultFile, "configuration file")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "catalog directory (overrides the configured output)")
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "write summary and changes to this file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "compute changes without writing the catalog")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached responses but store fresh ones")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", builder.DefaultConcurrency, "sources fetched in parallel")

	return cmd
}

// runBuild executes one build pass and returns the changes it made.
func (c *CLI) runBuild(ctx context.Context, opts buildOptions, w io.Writer) (*diff.Diff, error) {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return nil, err
	}
	output := cmp.Or(opts.output, cfg.Output)

	store, err := newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	tools, plugins, err := sources.Open(cfg.Sources, sources.Deps{
		Cache:   store,
		TTL:     cfg.Cache.TTL,
		Refresh: opts.refresh,
		GitHub:  cfg.GitHub,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, err
	}

	stats := &observability.Counters{}
	stats.Register()
	defer observability.Reset()

	prog := newProgress(c.Logger)
	repo, err := builder.New(c.Logger).WithConcurrency(opts.concurrency).Build(ctx, tools, plugins)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Fetched %d sources", len(tools)+len(plugins)))
	c.Logger.Debug("build stats", "stats", stats.Snapshot())

	before, err := catalogio.Import(output)
	if err != nil {
		return nil, fmt.Errorf("read current catalog: %w", err)
	}

	target := output
	if opts.dryRun {
		tmp, err := os.MkdirTemp("", appName+"-")
		if err != nil {
			return nil, err
		}
		defer os.RemoveAll(tmp)
		target = tmp
	}
	if err := catalogio.Export(repo, target, c.Logger); err != nil {
		return nil, err
	}
	after, err := catalogio.Import(target)
	if err != nil {
		return nil, fmt.Errorf("read written catalog: %w", err)
	}

	d := diff.Compare(before, after)
	if d == nil {
		printSuccess("Catalog is up to date")
		printDetail("Directory: %s", output)
		return nil, nil
	}

	fmt.Fprint(w, diff.Render(d))
	fmt.Fprintln(w)
	printDetail("%s", stats.Snapshot())
	if opts.dryRun {
		printWarning("Dry run: %s", d.Summary())
	} else {
		printSuccess("%s", d.Summary())
		printFile(output)
	}

	if opts.message != "" {
		if err := writeMessage(opts.message, d); err != nil {
			return nil, err
		}
		printDetail("Message: %s", opts.message)
	}
	return d, nil
}

// writeMessage writes the summary line, a blank line and the rendered
// changes to path.
func writeMessage(path string, d *diff.Diff) error {
	msg := d.Summary() + "\n\n" + diff.Render(d)
	if err := os.WriteFile(path, []byte(msg), 0o644); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	return nil
}
