// Package diff computes and renders the difference between two catalog
// snapshots.
//
// # Overview
//
// [Compare] walks two [catalog.Repository] values level by level:
// repository (tools and plugins by name), entity (versions by version
// string) and version (a fixed, ordered set of properties). At every level
// the same classification applies:
//
//   - keys only in the new snapshot become Added nodes, with every
//     descendant marked Added
//   - keys only in the old snapshot become Removed nodes, likewise
//   - keys in both are compared one level down; a Changed node is emitted
//     only when something below differs, carrying just the differences
//
// Children are sorted by key at every level, so output never depends on map
// iteration order. Compare is pure: calling it again on the same snapshots
// yields an identical result. When nothing differs it returns nil.
//
// # Properties
//
// Tool versions are compared on phar-url, requirements, checksum and
// signature. Plugin versions are compared on api-version, code,
// requirements, checksum and signature. Requirements are flattened to a
// single string per version ("php: php:^8.1, ext-json:*, composer: ..."),
// which makes the comparison sensitive to declaration order.
//
// # Rendering
//
// [Diff.String] renders the indented multi-line report used in changelogs;
// [Diff.Summary] renders the one-line commit subject:
//
//	d := diff.Compare(oldRepo, newRepo)
//	if d != nil {
//	    fmt.Println(d.Summary())
//	    fmt.Print(d)
//	}
package diff
