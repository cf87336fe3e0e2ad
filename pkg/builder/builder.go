// Package builder merges the output of several version providers into one
// catalog repository.
//
// Sources are fetched concurrently but merged strictly in the order they
// were declared, on a single goroutine. Providers listed earlier therefore
// win ties on scalar fields (download location, signature, hash) while
// requirements of all providers are unioned.
package builder

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/errors"
	"github.com/matzehuels/toolcatalog/pkg/observability"
)

// DefaultConcurrency bounds how many sources are fetched at once.
const DefaultConcurrency = 8

// ToolSource yields tool versions from one origin, in any order.
type ToolSource interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Tools returns every tool version the source knows about.
	Tools(ctx context.Context) ([]*catalog.ToolVersion, error)
}

// PluginSource yields plugin versions from one origin, in any order.
type PluginSource interface {
	// Name identifies the source in logs and errors.
	Name() string
	// Plugins returns every plugin version the source knows about.
	Plugins(ctx context.Context) ([]*catalog.PluginVersion, error)
}

// Builder assembles a Repository from tool and plugin sources.
type Builder struct {
	logger      *log.Logger
	concurrency int
}

// New creates a Builder. A nil logger falls back to log.Default().
func New(logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{logger: logger, concurrency: DefaultConcurrency}
}

// WithConcurrency sets how many sources may be fetched in parallel.
// Values below one mean sequential fetching.
func (b *Builder) WithConcurrency(n int) *Builder {
	b.concurrency = max(n, 1)
	return b
}

// Build fetches every source and merges the results into a fresh
// Repository. Tool sources are merged first, in order, then plugin sources.
// Any error aborts the whole pass.
func (b *Builder) Build(ctx context.Context, tools []ToolSource, plugins []PluginSource) (*catalog.Repository, error) {
	start := time.Now()

	toolResults, err := fetchAll(ctx, b.concurrency, tools, ToolSource.Tools)
	if err != nil {
		return nil, err
	}
	pluginResults, err := fetchAll(ctx, b.concurrency, plugins, PluginSource.Plugins)
	if err != nil {
		return nil, err
	}

	repo := catalog.NewRepository()
	for i, versions := range toolResults {
		b.logger.Debug("merging source", "source", tools[i].Name(), "tools", len(versions))
		for _, v := range versions {
			if err := repo.AddToolVersion(v); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "source %s", tools[i].Name())
			}
		}
	}
	for i, versions := range pluginResults {
		b.logger.Debug("merging source", "source", plugins[i].Name(), "plugins", len(versions))
		for _, v := range versions {
			if err := repo.AddPluginVersion(v); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "source %s", plugins[i].Name())
			}
		}
	}

	b.logger.Info("built repository",
		"tools", len(repo.Tools()),
		"plugins", len(repo.Plugins()),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return repo, nil
}

// Build is a convenience wrapper around [Builder.Build] with default settings.
func Build(ctx context.Context, tools []ToolSource, plugins []PluginSource) (*catalog.Repository, error) {
	return New(nil).Build(ctx, tools, plugins)
}

type named interface{ Name() string }

// fetchAll calls fetch for every source with bounded parallelism and returns
// the results indexed like sources, so callers can merge in declaration
// order regardless of completion order.
func fetchAll[S named, R any](ctx context.Context, limit int, sources []S, fetch func(S, context.Context) ([]R, error)) ([][]R, error) {
	results := make([][]R, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, src := range sources {
		g.Go(func() error {
			hooks := observability.Build()
			hooks.OnSourceStart(ctx, src.Name())
			start := time.Now()
			out, err := fetch(src, ctx)
			hooks.OnSourceComplete(ctx, src.Name(), len(out), time.Since(start), err)
			if err != nil {
				return errors.Wrap(errors.ErrCodeNetwork, err, "fetch source %s", src.Name())
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// fetchError keeps the code a source attached to err. Uncoded failures are
// network errors, except for cancellation which stays uncoded.
func fetchError(name string, err error) error {
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("fetch source %s: %w", name, err)
	}
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeNetwork
	}
	return errors.Wrap(code, err, "fetch source %s", name)
}
