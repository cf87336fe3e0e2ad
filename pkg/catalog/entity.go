package catalog

import (
	"maps"

	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// versioned is the contract shared by ToolVersion and PluginVersion so that
// Tool and Plugin can share one container implementation.
type versioned[V any] interface {
	entityName() string
	versionKey() string
	Merge(V) V
}

// entity is an ordered map of version string → version record belonging to
// one named tool or plugin.
type entity[V versioned[V]] struct {
	kind      string
	name      string
	order     []string
	byVersion map[string]V
}

func newEntity[V versioned[V]](kind, name string) entity[V] {
	return entity[V]{kind: kind, name: name, byVersion: make(map[string]V)}
}

// Name returns the entity name.
func (e *entity[V]) Name() string { return e.name }

// Len returns the number of versions.
func (e *entity[V]) Len() int { return len(e.order) }

// AddVersion appends v. It fails when v belongs to another entity or when
// the version string is already present.
func (e *entity[V]) AddVersion(v V) error {
	if v.entityName() != e.name {
		return errors.New(errors.ErrCodeNameMismatch,
			"%s version %s is named %q, expected %q", e.kind, v.versionKey(), v.entityName(), e.name)
	}
	if _, ok := e.byVersion[v.versionKey()]; ok {
		return errors.New(errors.ErrCodeDuplicateVersion,
			"%s %q already has version %s", e.kind, e.name, v.versionKey())
	}
	e.order = append(e.order, v.versionKey())
	e.byVersion[v.versionKey()] = v
	return nil
}

// HasVersion reports whether version is present.
func (e *entity[V]) HasVersion(version string) bool {
	_, ok := e.byVersion[version]
	return ok
}

// Version returns the record for version or a VERSION_NOT_FOUND error.
func (e *entity[V]) Version(version string) (V, error) {
	v, ok := e.byVersion[version]
	if !ok {
		var zero V
		return zero, errors.New(errors.ErrCodeVersionNotFound, "%s %q has no version %s", e.kind, e.name, version)
	}
	return v, nil
}

// Versions returns all records in insertion order.
func (e *entity[V]) Versions() []V {
	out := make([]V, len(e.order))
	for i, k := range e.order {
		out[i] = e.byVersion[k]
	}
	return out
}

// VersionMap returns a copy of the version → record map.
func (e *entity[V]) VersionMap() map[string]V {
	return maps.Clone(e.byVersion)
}

// MergeVersion replaces the stored record for v's version with the result
// of merging v into it. The stored record keeps precedence on scalar fields.
func (e *entity[V]) MergeVersion(v V) error {
	if v.entityName() != e.name {
		return errors.New(errors.ErrCodeNameMismatch,
			"%s version %s is named %q, expected %q", e.kind, v.versionKey(), v.entityName(), e.name)
	}
	existing, err := e.Version(v.versionKey())
	if err != nil {
		return err
	}
	e.byVersion[v.versionKey()] = existing.Merge(v)
	return nil
}

// Tool is a named external tool with its published versions.
type Tool struct {
	entity[*ToolVersion]
}

// NewTool creates an empty tool.
func NewTool(name string) *Tool {
	return &Tool{entity: newEntity[*ToolVersion]("tool", name)}
}

// Plugin is a named plugin with its published versions.
type Plugin struct {
	entity[*PluginVersion]
}

// NewPlugin creates an empty plugin.
func NewPlugin(name string) *Plugin {
	return &Plugin{entity: newEntity[*PluginVersion]("plugin", name)}
}
