package catalog

import "path/filepath"

// Requirement category labels, as used in the published catalog and in
// serialized requirement strings.
const (
	LabelRuntime    = "php"
	LabelLibrary    = "composer"
	LabelPeerTool   = "tool"
	LabelPeerPlugin = "plugin"
)

// PluginAPIVersion is the only plugin API version the catalog publishes.
const PluginAPIVersion = "1.0.0"

// RequirementCategory pairs a category label with its list.
type RequirementCategory struct {
	Label string
	List  *RequirementList
}

// ToolRequirements groups the requirements a tool version declares.
type ToolRequirements struct {
	Runtime RequirementList // platform requirements (php, ext-*)
	Library RequirementList // composer packages
}

// Categories returns the categories in their fixed serialization order.
func (r *ToolRequirements) Categories() []RequirementCategory {
	return []RequirementCategory{
		{Label: LabelRuntime, List: &r.Runtime},
		{Label: LabelLibrary, List: &r.Library},
	}
}

func (r *ToolRequirements) union(other *ToolRequirements) ToolRequirements {
	return ToolRequirements{
		Runtime: *r.Runtime.union(&other.Runtime),
		Library: *r.Library.union(&other.Library),
	}
}

// PluginRequirements groups the requirements a plugin version declares.
type PluginRequirements struct {
	Runtime    RequirementList // platform requirements
	PeerTool   RequirementList // tools the plugin integrates with
	PeerPlugin RequirementList // other plugins it depends on
	Library    RequirementList // composer packages
}

// Categories returns the categories in their fixed serialization order.
func (r *PluginRequirements) Categories() []RequirementCategory {
	return []RequirementCategory{
		{Label: LabelRuntime, List: &r.Runtime},
		{Label: LabelPeerTool, List: &r.PeerTool},
		{Label: LabelPeerPlugin, List: &r.PeerPlugin},
		{Label: LabelLibrary, List: &r.Library},
	}
}

func (r *PluginRequirements) union(other *PluginRequirements) PluginRequirements {
	return PluginRequirements{
		Runtime:    *r.Runtime.union(&other.Runtime),
		PeerTool:   *r.PeerTool.union(&other.PeerTool),
		PeerPlugin: *r.PeerPlugin.union(&other.PeerPlugin),
		Library:    *r.Library.union(&other.Library),
	}
}

// ToolVersion is one published release of a tool.
type ToolVersion struct {
	Name              string
	Version           string
	DownloadLocation  string // URL of the phar; empty when not downloadable
	SignatureLocation string // URL of the detached signature; may be empty
	Hash              *Hash  // nil when unknown
	Requirements      ToolRequirements
}

// NewToolVersion returns a ToolVersion with empty requirement lists.
func NewToolVersion(name, version string) *ToolVersion {
	return &ToolVersion{Name: name, Version: version}
}

func (v *ToolVersion) entityName() string { return v.Name }
func (v *ToolVersion) versionKey() string { return v.Version }

// Merge returns a new ToolVersion combining v and other. Requirements of
// other are added when their name is unknown to v; download location,
// signature location and hash are taken from other only where v has none.
// Neither v nor other is modified.
func (v *ToolVersion) Merge(other *ToolVersion) *ToolVersion {
	out := &ToolVersion{
		Name:              v.Name,
		Version:           v.Version,
		DownloadLocation:  firstNonEmpty(v.DownloadLocation, other.DownloadLocation),
		SignatureLocation: firstNonEmpty(v.SignatureLocation, other.SignatureLocation),
		Hash:              v.Hash.clone(),
		Requirements:      v.Requirements.union(&other.Requirements),
	}
	if out.Hash == nil {
		out.Hash = other.Hash.clone()
	}
	return out
}

// Downloadable reports whether the version has a download location.
func (v *ToolVersion) Downloadable() bool { return v.DownloadLocation != "" }

// PluginSource is the code origin of a plugin version. It is implemented
// only by FilePlugin and InlinePlugin.
type PluginSource interface {
	pluginSource()
}

// FilePlugin is plugin code stored in a file. FilePath and SignaturePath
// are references relative to Root. Two copies of a catalog in different
// directories therefore hold equal values. An empty Root
// means the paths are used as given.
type FilePlugin struct {
	Root          string
	FilePath      string
	SignaturePath string // empty when unsigned
}

// CodeFile returns the path to read the plugin code from.
func (p FilePlugin) CodeFile() string { return p.resolve(p.FilePath) }

// SignatureFile returns the path to read the signature from, or "" when the
// plugin is unsigned.
func (p FilePlugin) SignatureFile() string {
	if p.SignaturePath == "" {
		return ""
	}
	return p.resolve(p.SignaturePath)
}

func (p FilePlugin) resolve(ref string) string {
	if p.Root == "" || filepath.IsAbs(ref) {
		return ref
	}
	return filepath.Join(p.Root, ref)
}

func (FilePlugin) pluginSource() {}

// InlinePlugin is plugin code held in memory.
type InlinePlugin struct {
	Code string
}

func (InlinePlugin) pluginSource() {}

// PluginVersion is one published release of a plugin.
type PluginVersion struct {
	Name         string
	Version      string
	APIVersion   string
	Hash         *Hash
	Requirements PluginRequirements
	Source       PluginSource
}

// NewPluginVersion returns a PluginVersion with the fixed API version.
func NewPluginVersion(name, version string, src PluginSource, hash *Hash) *PluginVersion {
	return &PluginVersion{
		Name:       name,
		Version:    version,
		APIVersion: PluginAPIVersion,
		Hash:       hash,
		Source:     src,
	}
}

func (v *PluginVersion) entityName() string { return v.Name }
func (v *PluginVersion) versionKey() string { return v.Version }

// Merge returns a new PluginVersion combining v and other following the same
// rules as [ToolVersion.Merge]. For file plugins a missing signature path is
// filled from other when both sides are file-backed.
func (v *PluginVersion) Merge(other *PluginVersion) *PluginVersion {
	out := &PluginVersion{
		Name:         v.Name,
		Version:      v.Version,
		APIVersion:   firstNonEmpty(v.APIVersion, other.APIVersion),
		Hash:         v.Hash.clone(),
		Requirements: v.Requirements.union(&other.Requirements),
		Source:       v.Source,
	}
	if out.Hash == nil {
		out.Hash = other.Hash.clone()
	}
	if out.Source == nil {
		out.Source = other.Source
	}
	if mine, ok := out.Source.(FilePlugin); ok && mine.SignaturePath == "" {
		if theirs, ok := other.Source.(FilePlugin); ok && theirs.SignaturePath != "" {
			if mine.Root != theirs.Root {
				mine = FilePlugin{FilePath: mine.CodeFile(), SignaturePath: theirs.SignatureFile()}
			} else {
				mine.SignaturePath = theirs.SignaturePath
			}
			out.Source = mine
		}
	}
	return out
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
