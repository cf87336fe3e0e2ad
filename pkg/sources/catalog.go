package sources

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/toolcatalog/pkg/builder"
	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
	catalogio "github.com/matzehuels/toolcatalog/pkg/io"
)

// CatalogSource republishes the contents of another published catalog.
type CatalogSource struct {
	dir    string
	logger *log.Logger
}

func newCatalog(cfg config.SourceConfig, deps Deps) (*CatalogSource, error) {
	if cfg.Dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "catalog source requires dir")
	}
	return &CatalogSource{dir: cfg.Dir, logger: deps.logger()}, nil
}

func newCatalogTools(cfg config.SourceConfig, deps Deps) (builder.ToolSource, error) {
	s, err := newCatalog(cfg, deps)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func newCatalogPlugins(cfg config.SourceConfig, deps Deps) (builder.PluginSource, error) {
	s, err := newCatalog(cfg, deps)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Name implements builder.ToolSource and builder.PluginSource.
func (s *CatalogSource) Name() string { return "catalog:" + s.dir }

func (s *CatalogSource) load(ctx context.Context) (*catalog.Repository, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := catalogio.Import(s.dir)
	if err != nil {
		return nil, err
	}
	if repo.Empty() {
		s.logger.Warn("catalog source is empty", "dir", s.dir)
	}
	return repo, nil
}

// Tools implements builder.ToolSource.
func (s *CatalogSource) Tools(ctx context.Context) ([]*catalog.ToolVersion, error) {
	repo, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []*catalog.ToolVersion
	for _, t := range repo.Tools() {
		out = append(out, t.Versions()...)
	}
	return out, nil
}

// Plugins implements builder.PluginSource.
func (s *CatalogSource) Plugins(ctx context.Context) ([]*catalog.PluginVersion, error) {
	repo, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	var out []*catalog.PluginVersion
	for _, p := range repo.Plugins() {
		out = append(out, p.Versions()...)
	}
	return out, nil
}
