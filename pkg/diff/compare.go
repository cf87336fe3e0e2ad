package diff

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/toolcatalog/pkg/catalog"
)

// Property names compared per version, in output order.
const (
	PropAPIVersion   = "api-version"
	PropPharURL      = "phar-url"
	PropCode         = "code"
	PropRequirements = "requirements"
	PropChecksum     = "checksum"
	PropSignature    = "signature"
)

// property is one serialized value of a version; value is nil when unset.
type property struct {
	name  string
	value *string
}

// Compare returns the difference from before to after, or nil when there is
// none. Either side may be nil, which is treated as an empty repository.
func Compare(before, after *catalog.Repository) *Diff {
	tools := diffEntities(ToolEntity, before.ToolMap(), after.ToolMap(),
		(*catalog.Tool).VersionMap, toolProperties)
	plugins := diffEntities(PluginEntity, before.PluginMap(), after.PluginMap(),
		(*catalog.Plugin).VersionMap, pluginProperties)

	entities := append(tools, plugins...)
	if len(entities) == 0 {
		return nil
	}
	// Stable sort keeps tools ahead of plugins sharing a name.
	slices.SortStableFunc(entities, func(a, b EntityDiff) int {
		return cmp.Compare(a.Key, b.Key)
	})
	return &Diff{Entities: entities}
}

// classify runs the three-way comparison for one level. Keys only in after
// go to added, keys only in before go to removed, and keys in both go to changed,
// which reports whether anything differs. Results are sorted by key.
func classify[V, D any](
	before, after map[string]V,
	added func(key string, v V) D,
	removed func(key string, v V) D,
	changed func(key string, o, n V) (D, bool),
) []D {
	keys := slices.Collect(maps.Keys(before))
	for k := range after {
		if _, ok := before[k]; !ok {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var out []D
	for _, k := range keys {
		o, inOld := before[k]
		n, inNew := after[k]
		switch {
		case inOld && inNew:
			if d, ok := changed(k, o, n); ok {
				out = append(out, d)
			}
		case inNew:
			out = append(out, added(k, n))
		default:
			out = append(out, removed(k, o))
		}
	}
	return out
}

func diffEntities[E, V any](
	typ EntityType,
	before, after map[string]E,
	versions func(E) map[string]V,
	props func(V) []property,
) []EntityDiff {
	whole := func(kind Kind) func(string, E) EntityDiff {
		return func(name string, e E) EntityDiff {
			vs := versions(e)
			var children []VersionDiff
			for _, ver := range slices.Sorted(maps.Keys(vs)) {
				children = append(children, wholeVersion(kind, ver, props(vs[ver])))
			}
			return EntityDiff{Node: Node[VersionDiff]{Kind: kind, Key: name, Children: children}, Type: typ}
		}
	}
	return classify(before, after, whole(Added), whole(Removed),
		func(name string, o, n E) (EntityDiff, bool) {
			children := diffVersions(versions(o), versions(n), props)
			if len(children) == 0 {
				return EntityDiff{}, false
			}
			return EntityDiff{Node: Node[VersionDiff]{Kind: Changed, Key: name, Children: children}, Type: typ}, true
		})
}

func diffVersions[V any](before, after map[string]V, props func(V) []property) []VersionDiff {
	return classify(before, after,
		func(ver string, v V) VersionDiff { return wholeVersion(Added, ver, props(v)) },
		func(ver string, v V) VersionDiff { return wholeVersion(Removed, ver, props(v)) },
		func(ver string, o, n V) (VersionDiff, bool) {
			children := diffProperties(props(o), props(n))
			if len(children) == 0 {
				return VersionDiff{}, false
			}
			return VersionDiff{Node: Node[PropertyDifference]{Kind: Changed, Key: ver, Children: children}}, true
		})
}

// wholeVersion marks every set property of a version as added or removed.
func wholeVersion(kind Kind, ver string, props []property) VersionDiff {
	var children []PropertyDifference
	for _, p := range props {
		if p.value == nil {
			continue
		}
		pd := PropertyDifference{Name: p.name}
		if kind == Added {
			pd.New = p.value
		} else {
			pd.Old = p.value
		}
		children = append(children, pd)
	}
	return VersionDiff{Node: Node[PropertyDifference]{Kind: kind, Key: ver, Children: children}}
}

// diffProperties compares two property lists of the same shape position by
// position, keeping the fixed property order.
func diffProperties(before, after []property) []PropertyDifference {
	var out []PropertyDifference
	for i := range before {
		o, n := before[i].value, after[i].value
		switch {
		case o == nil && n == nil:
			continue
		case o != nil && n != nil && *o == *n:
			continue
		}
		out = append(out, PropertyDifference{Name: before[i].name, Old: o, New: n})
	}
	return out
}

func toolProperties(v *catalog.ToolVersion) []property {
	return []property{
		{PropPharURL, optional(v.DownloadLocation)},
		{PropRequirements, serializeRequirements(v.Requirements.Categories())},
		{PropChecksum, serializeHash(v.Hash)},
		{PropSignature, optional(v.SignatureLocation)},
	}
}

func pluginProperties(v *catalog.PluginVersion) []property {
	var code, signature *string
	switch src := v.Source.(type) {
	case catalog.FilePlugin:
		code = optional(src.FilePath)
		signature = optional(src.SignaturePath)
	case catalog.InlinePlugin:
		code = optional(src.Code)
	default:
		panic(fmt.Sprintf("diff: unsupported plugin source %T for %s %s", src, v.Name, v.Version))
	}
	return []property{
		{PropAPIVersion, optional(v.APIVersion)},
		{PropCode, code},
		{PropRequirements, serializeRequirements(v.Requirements.Categories())},
		{PropChecksum, serializeHash(v.Hash)},
		{PropSignature, signature},
	}
}

// serializeRequirements flattens the categories to
// "label: name:constraint, name:constraint, label: ...", skipping empty
// categories. Declaration order is preserved.
func serializeRequirements(categories []catalog.RequirementCategory) *string {
	var parts []string
	for _, c := range categories {
		if c.List.Len() == 0 {
			continue
		}
		parts = append(parts, c.Label+": "+c.List.String())
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, ", ")
	return &s
}

func serializeHash(h *catalog.Hash) *string {
	if h == nil {
		return nil
	}
	s := h.String()
	return &s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
