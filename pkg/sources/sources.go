// Package sources turns [config.SourceConfig] entries into version
// providers for the builder.
//
// Supported types:
//
//	type        capability    reads
//	github      tool          GitHub releases of a repository
//	phar-io     tool          a phar.io repository XML feed
//	catalog     tool, plugin  another published catalog directory
//	plugin-dir  plugin        <dir>/<name>/plugin.json descriptors
//
// [Open] fails with UNKNOWN_SOURCE before anything is fetched when a type is
// unknown or does not support the requested capability.
package sources

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/toolcatalog/pkg/builder"
	"github.com/matzehuels/toolcatalog/pkg/cache"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// Deps carries the shared collaborators handed to every source.
type Deps struct {
	Cache   cache.Cache   // response cache; nil disables caching
	TTL     time.Duration // cache entry lifetime
	Refresh bool          // bypass cached responses
	GitHub  config.GitHubConfig
	Logger  *log.Logger
}

func (d Deps) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}

// Kind describes one source type and the capabilities it can serve.
// A nil constructor means the capability is unsupported.
type Kind struct {
	Name      string
	NewTool   func(cfg config.SourceConfig, deps Deps) (builder.ToolSource, error)
	NewPlugin func(cfg config.SourceConfig, deps Deps) (builder.PluginSource, error)
}

var kinds = map[string]Kind{
	"github":     {Name: "github", NewTool: newGitHub},
	"phar-io":    {Name: "phar-io", NewTool: newPharIO},
	"catalog":    {Name: "catalog", NewTool: newCatalogTools, NewPlugin: newCatalogPlugins},
	"plugin-dir": {Name: "plugin-dir", NewPlugin: newPluginDir},
}

// Types returns the registered source types, sorted.
func Types() []string {
	return slices.Sorted(maps.Keys(kinds))
}

// Open builds the tool and plugin sources described by cfgs, preserving
// their order within each capability.
func Open(cfgs []config.SourceConfig, deps Deps) ([]builder.ToolSource, []builder.PluginSource, error) {
	var tools []builder.ToolSource
	var plugins []builder.PluginSource

	for i, cfg := range cfgs {
		kind, ok := kinds[cfg.Type]
		if !ok {
			return nil, nil, errors.New(errors.ErrCodeUnknownSource,
				"source #%d: unknown type %q (available: %s)", i+1, cfg.Type, strings.Join(Types(), ", "))
		}

		switch {
		case cfg.Capability == config.CapabilityTool && kind.NewTool != nil:
			src, err := kind.NewTool(cfg, deps)
			if err != nil {
				return nil, nil, errors.Wrap(errors.GetCode(err), err, "source #%d (%s)", i+1, cfg.Label())
			}
			tools = append(tools, src)
		case cfg.Capability == config.CapabilityPlugin && kind.NewPlugin != nil:
			src, err := kind.NewPlugin(cfg, deps)
			if err != nil {
				return nil, nil, errors.Wrap(errors.GetCode(err), err, "source #%d (%s)", i+1, cfg.Label())
			}
			plugins = append(plugins, src)
		default:
			return nil, nil, errors.New(errors.ErrCodeUnknownSource,
				"source #%d (%s): capability %q not supported", i+1, cfg.Label(), cfg.Capability)
		}
	}

	deps.logger().Debug("opened sources", "tools", len(tools), "plugins", len(plugins))
	return tools, plugins, nil
}
