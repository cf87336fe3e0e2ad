package catalog

import (
	"maps"
	"slices"
)

// Repository is the complete catalog: every tool and plugin by name.
// The zero value is not usable; create one with [NewRepository].
type Repository struct {
	tools   map[string]*Tool
	plugins map[string]*Plugin
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{
		tools:   make(map[string]*Tool),
		plugins: make(map[string]*Plugin),
	}
}

// Tool returns the tool called name, creating it if necessary.
func (r *Repository) Tool(name string) *Tool {
	t, ok := r.tools[name]
	if !ok {
		t = NewTool(name)
		r.tools[name] = t
	}
	return t
}

// Plugin returns the plugin called name, creating it if necessary.
func (r *Repository) Plugin(name string) *Plugin {
	p, ok := r.plugins[name]
	if !ok {
		p = NewPlugin(name)
		r.plugins[name] = p
	}
	return p
}

// LookupTool returns the tool called name without creating it.
func (r *Repository) LookupTool(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// LookupPlugin returns the plugin called name without creating it.
func (r *Repository) LookupPlugin(name string) (*Plugin, bool) {
	p, ok := r.plugins[name]
	return p, ok
}

// Tools returns all tools sorted by name.
func (r *Repository) Tools() []*Tool {
	out := make([]*Tool, 0, len(r.tools))
	for _, name := range slices.Sorted(maps.Keys(r.tools)) {
		out = append(out, r.tools[name])
	}
	return out
}

// Plugins returns all plugins sorted by name.
func (r *Repository) Plugins() []*Plugin {
	out := make([]*Plugin, 0, len(r.plugins))
	for _, name := range slices.Sorted(maps.Keys(r.plugins)) {
		out = append(out, r.plugins[name])
	}
	return out
}

// ToolMap returns a copy of the name → tool map.
func (r *Repository) ToolMap() map[string]*Tool {
	if r == nil {
		return nil
	}
	return maps.Clone(r.tools)
}

// PluginMap returns a copy of the name → plugin map.
func (r *Repository) PluginMap() map[string]*Plugin {
	if r == nil {
		return nil
	}
	return maps.Clone(r.plugins)
}

// AddToolVersion stores v, merging it into an existing record with the same
// version. The record already stored keeps precedence.
func (r *Repository) AddToolVersion(v *ToolVersion) error {
	t := r.Tool(v.Name)
	if t.HasVersion(v.Version) {
		return t.MergeVersion(v)
	}
	return t.AddVersion(v)
}

// AddPluginVersion stores v, merging it into an existing record with the
// same version. The record already stored keeps precedence.
func (r *Repository) AddPluginVersion(v *PluginVersion) error {
	p := r.Plugin(v.Name)
	if p.HasVersion(v.Version) {
		return p.MergeVersion(v)
	}
	return p.AddVersion(v)
}

// Empty reports whether the repository holds no tools and no plugins.
func (r *Repository) Empty() bool {
	return r == nil || (len(r.tools) == 0 && len(r.plugins) == 0)
}
