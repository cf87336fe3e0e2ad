package io

import (
	"github.com/matzehuels/toolcatalog/pkg/catalog"
)

// File names and suffixes of the published catalog.
const (
	IndexFile        = "repository.json"
	ToolFileSuffix   = "-tool.json"
	PluginFileSuffix = "-plugin.json"
	CodeSuffix       = ".php"
	SignatureSuffix  = ".asc"
)

// PluginType is the only plugin "type" value published.
const PluginType = "php-file"

// IncludeHash is the algorithm used for include checksums in the index.
const IncludeHash = catalog.SHA512

type index struct {
	Includes []include `json:"includes"`
}

type include struct {
	URL      string        `json:"url"`
	Checksum *catalog.Hash `json:"checksum"`
}

// document is the shape of every include file. A file normally carries
// either tools or plugins.
type document struct {
	Tools   map[string][]toolEntry   `json:"tools,omitempty"`
	Plugins map[string][]pluginEntry `json:"plugins,omitempty"`
}

type toolEntry struct {
	Version      string        `json:"version"`
	URL          string        `json:"url"`
	Requirements toolReqs      `json:"requirements"`
	Checksum     *catalog.Hash `json:"checksum,omitempty"`
	Signature    string        `json:"signature,omitempty"`
}

type toolReqs struct {
	Runtime catalog.RequirementList `json:"php"`
	Library catalog.RequirementList `json:"composer"`
}

type pluginEntry struct {
	APIVersion   string        `json:"api-version"`
	Version      string        `json:"version"`
	Type         string        `json:"type"`
	URL          string        `json:"url"`
	Requirements pluginReqs    `json:"requirements"`
	Checksum     *catalog.Hash `json:"checksum"`
	Signature    string        `json:"signature,omitempty"`
}

type pluginReqs struct {
	Runtime    catalog.RequirementList `json:"php"`
	PeerTool   catalog.RequirementList `json:"tool"`
	PeerPlugin catalog.RequirementList `json:"plugin"`
	Library    catalog.RequirementList `json:"composer"`
}

func toolFile(name string) string   { return name + ToolFileSuffix }
func pluginFile(name string) string { return name + PluginFileSuffix }

func codeFile(name, version string) string { return name + "-" + version + CodeSuffix }
