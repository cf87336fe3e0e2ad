package io

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// Export writes repo as a published catalog into dir, creating it if
// needed. Files of a previous export that are no longer referenced are
// removed. A nil logger falls back to log.Default().
func Export(repo *catalog.Repository, dir string, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	e := &exporter{
		dir:      dir,
		logger:   logger,
		written:  make(map[string]bool),
		includes: []include{},
	}
	for _, t := range repo.Tools() {
		if err := e.tool(t); err != nil {
			return fmt.Errorf("tool %s: %w", t.Name(), err)
		}
	}
	for _, p := range repo.Plugins() {
		if err := e.plugin(p); err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
	}
	if err := e.index(); err != nil {
		return err
	}
	return e.prune()
}

type exporter struct {
	dir      string
	logger   *log.Logger
	written  map[string]bool
	includes []include
}

func (e *exporter) tool(t *catalog.Tool) error {
	name := t.Name()
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}

	var entries []toolEntry
	for _, v := range sortByVersion(t.Versions(), func(v *catalog.ToolVersion) string { return v.Version }) {
		if !v.Downloadable() {
			continue
		}
		entries = append(entries, toolEntry{
			Version:      v.Version,
			URL:          v.DownloadLocation,
			Requirements: toolReqs{Runtime: v.Requirements.Runtime, Library: v.Requirements.Library},
			Checksum:     v.Hash,
			Signature:    v.SignatureLocation,
		})
	}
	if len(entries) == 0 {
		e.logger.Debug("tool has no downloadable versions", "tool", name)
		return nil
	}
	return e.include(toolFile(name), document{Tools: map[string][]toolEntry{name: entries}})
}

func (e *exporter) plugin(p *catalog.Plugin) error {
	name := p.Name()
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}

	var entries []pluginEntry
	for _, v := range sortByVersion(p.Versions(), func(v *catalog.PluginVersion) string { return v.Version }) {
		entry, err := e.pluginVersion(v)
		if err != nil {
			return fmt.Errorf("version %s: %w", v.Version, err)
		}
		entries = append(entries, entry)
	}
	if len(entries) == 0 {
		return nil
	}
	return e.include(pluginFile(name), document{Plugins: map[string][]pluginEntry{name: entries}})
}

func (e *exporter) pluginVersion(v *catalog.PluginVersion) (pluginEntry, error) {
	if err := errors.ValidateVersion(v.Version); err != nil {
		return pluginEntry{}, err
	}

	var code []byte
	var sigPath string
	switch src := v.Source.(type) {
	case catalog.FilePlugin:
		data, err := os.ReadFile(src.CodeFile())
		if err != nil {
			return pluginEntry{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read plugin code")
		}
		code, sigPath = data, src.SignatureFile()
	case catalog.InlinePlugin:
		code = []byte(src.Code)
	default:
		return pluginEntry{}, errors.New(errors.ErrCodeInternal, "unsupported plugin source %T", v.Source)
	}

	hash := v.Hash
	if hash == nil {
		var err error
		if hash, err = catalog.ComputeHash(catalog.SHA512, code); err != nil {
			return pluginEntry{}, err
		}
	} else if !hash.Verify(code) {
		return pluginEntry{}, errors.New(errors.ErrCodeInvalidHash, "plugin code does not match checksum %s", hash)
	}

	file := codeFile(v.Name, v.Version)
	if err := e.write(file, code); err != nil {
		return pluginEntry{}, err
	}

	entry := pluginEntry{
		APIVersion: cmp.Or(v.APIVersion, catalog.PluginAPIVersion),
		Version:    v.Version,
		Type:       PluginType,
		URL:        file,
		Requirements: pluginReqs{
			Runtime:    v.Requirements.Runtime,
			PeerTool:   v.Requirements.PeerTool,
			PeerPlugin: v.Requirements.PeerPlugin,
			Library:    v.Requirements.Library,
		},
		Checksum: hash,
	}
	if sigPath != "" {
		sig, err := os.ReadFile(sigPath)
		if err != nil {
			return pluginEntry{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read plugin signature")
		}
		entry.Signature = file + SignatureSuffix
		if err := e.write(entry.Signature, sig); err != nil {
			return pluginEntry{}, err
		}
	}
	return entry, nil
}

// include writes an include document and records it for the index.
func (e *exporter) include(file string, doc document) error {
	data, err := marshal(doc)
	if err != nil {
		return err
	}
	if err := e.write(file, data); err != nil {
		return err
	}
	sum, err := catalog.ComputeHash(IncludeHash, data)
	if err != nil {
		return err
	}
	e.includes = append(e.includes, include{URL: file, Checksum: sum})
	return nil
}

func (e *exporter) index() error {
	slices.SortFunc(e.includes, func(a, b include) int { return strings.Compare(a.URL, b.URL) })
	data, err := marshal(index{Includes: e.includes})
	if err != nil {
		return err
	}
	if err := e.write(IndexFile, data); err != nil {
		return err
	}
	e.logger.Info("exported catalog", "dir", e.dir, "includes", len(e.includes))
	return nil
}

func (e *exporter) write(file string, data []byte) error {
	path := filepath.Join(e.dir, file)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	e.written[file] = true
	return nil
}

// prune removes catalog files left over from a previous export.
func (e *exporter) prune() error {
	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", e.dir, err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || e.written[name] || !isCatalogFile(name) {
			continue
		}
		if err := os.Remove(filepath.Join(e.dir, name)); err != nil {
			return fmt.Errorf("remove stale %s: %w", name, err)
		}
		e.logger.Debug("removed stale file", "file", name)
	}
	return nil
}

func isCatalogFile(name string) bool {
	for _, suffix := range []string{ToolFileSuffix, PluginFileSuffix, CodeSuffix, CodeSuffix + SignatureSuffix} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// marshal encodes v with two-space indentation and a trailing newline.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return buf.Bytes(), nil
}

// sortByVersion orders records by semantic version when both sides parse,
// falling back to plain string order otherwise.
func sortByVersion[V any](vs []V, key func(V) string) []V {
	out := slices.Clone(vs)
	slices.SortStableFunc(out, func(a, b V) int {
		ka, kb := key(a), key(b)
		va, errA := semver.NewVersion(ka)
		vb, errB := semver.NewVersion(kb)
		if errA == nil && errB == nil {
			if c := va.Compare(vb); c != 0 {
				return c
			}
		}
		return strings.Compare(ka, kb)
	})
	return out
}
