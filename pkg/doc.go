// Package pkg holds the libraries behind the toolcatalog command.
//
// # Overview
//
// Toolcatalog aggregates version metadata for externally published tools
// (phars) and their plugins from several sources into one published
// catalog, and describes what changed between two snapshots of it.
//
//  1. [catalog] - Data model (tools, plugins, versions, requirements, hashes)
//  2. [builder] - Concurrent fetch and ordered merge of version sources
//  3. [diff] - Hierarchical comparison of two repositories, rendering and summary
//  4. [io] - Published catalog format (export and import)
//  5. [sources] - GitHub, phar.io, catalog and plugin-directory providers
//  6. [integrations], [httputil], [cache] - Cached, retrying HTTP access
//  7. [config], [errors], [observability], [buildinfo] - Ambient support
//
// # Architecture
//
//	toolcatalog.toml
//	       ↓
//	  [sources] (one provider per [[source]] entry)
//	       ↓
//	  [builder] (fetch concurrently, merge in declaration order)
//	       ↓
//	  [io] Export → catalog/ → Import
//	       ↓
//	  [diff] Compare(previous, written) → Render / Summary
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/toolcatalog/pkg/builder"
//	    "github.com/matzehuels/toolcatalog/pkg/config"
//	    "github.com/matzehuels/toolcatalog/pkg/diff"
//	    catalogio "github.com/matzehuels/toolcatalog/pkg/io"
//	    "github.com/matzehuels/toolcatalog/pkg/sources"
//	)
//
//	cfg, _ := config.Load("toolcatalog.toml")
//	tools, plugins, _ := sources.Open(cfg.Sources, sources.Deps{TTL: cfg.Cache.TTL})
//	repo, _ := builder.Build(ctx, tools, plugins)
//
//	before, _ := catalogio.Import(cfg.Output)
//	_ = catalogio.Export(repo, cfg.Output, nil)
//	after, _ := catalogio.Import(cfg.Output)
//
//	if d := diff.Compare(before, after); d != nil {
//	    fmt.Println(d.Summary())
//	    fmt.Print(diff.Render(d))
//	}
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/catalog
// [builder]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/builder
// [diff]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/diff
// [io]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/io
// [sources]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/sources
// [integrations]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/integrations
// [httputil]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/httputil
// [cache]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/toolcatalog/pkg/buildinfo
package pkg
