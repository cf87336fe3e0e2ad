// Package catalog provides the data model of the tool and plugin catalog.
//
// # Overview
//
// A [Repository] is the top-level aggregate. It maps names to [Tool] and
// [Plugin] entities, each of which holds an ordered set of published
// versions ([ToolVersion], [PluginVersion]) keyed by version string.
// Versions carry optional download and signature locations, a content
// [Hash], and categorized [RequirementList] values (runtime platform,
// library ecosystem, peer tools and peer plugins).
//
// # Plugin Variants
//
// A [PluginVersion] is a closed union over its code source: either a
// [FilePlugin] (code and optional signature stored on disk) or an
// [InlinePlugin] (code carried in memory). The variant is inspected with a
// type switch on [PluginVersion.Source]; no other implementations exist.
//
// # Merging
//
// Several providers may describe the same artifact. Records sharing
// (name, version) are combined with Merge, which returns a new record and
// never mutates its inputs:
//
//	merged := existing.Merge(incoming)
//
// Scalar fields already set on the receiver win; requirements are unioned by
// name with the receiver's constraint kept on conflict.
//
// # Lifetime
//
// Entities are built once per aggregation pass and discarded after diffing
// or export. Two snapshots that are compared against each other must be
// built from independent containers. Repository, Tool and Plugin are not
// safe for concurrent use without external synchronization.
package catalog
