package sources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/toolcatalog/pkg/builder"
	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// DescriptorFile is the per-plugin descriptor read by the plugin-dir source.
const DescriptorFile = "plugin.json"

// descriptor is the content of <dir>/<name>/plugin.json:
//
//	{
//	  "versions": [
//	    {
//	      "version": "1.0.0",
//	      "code": "src/plugin-1.0.0.php",
//	      "signature": "src/plugin-1.0.0.php.asc",
//	      "requirements": {"php": {"php": "^8.1"}, "tool": {"phpunit": "^10"}}
//	    }
//	  ]
//	}
//
// Paths are relative to the plugin directory. A version carries either
// code or inline, never both.
type descriptor struct {
	Versions []descriptorVersion `json:"versions"`
}

type descriptorVersion struct {
	Version      string `json:"version"`
	Code         string `json:"code"`
	Inline       string `json:"inline"`
	Signature    string `json:"signature"`
	Requirements struct {
		Runtime    catalog.RequirementList `json:"php"`
		PeerTool   catalog.RequirementList `json:"tool"`
		PeerPlugin catalog.RequirementList `json:"plugin"`
		Library    catalog.RequirementList `json:"composer"`
	} `json:"requirements"`
}

// PluginDirSource reads plugin versions from descriptor files below a
// directory, one subdirectory per plugin. With a configured name only that
// plugin is read.
type PluginDirSource struct {
	dir    string
	plugin string
	logger *log.Logger
}

func newPluginDir(cfg config.SourceConfig, deps Deps) (builder.PluginSource, error) {
	if cfg.Dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "plugin-dir source requires dir")
	}
	if cfg.Name != "" {
		if err := errors.ValidateEntityName(cfg.Name); err != nil {
			return nil, err
		}
	}
	return &PluginDirSource{dir: cfg.Dir, plugin: cfg.Name, logger: deps.logger()}, nil
}

// Name implements builder.PluginSource.
func (s *PluginDirSource) Name() string { return "plugin-dir:" + s.dir }

// Plugins implements builder.PluginSource.
func (s *PluginDirSource) Plugins(ctx context.Context) ([]*catalog.PluginVersion, error) {
	names, err := s.names()
	if err != nil {
		return nil, err
	}

	var out []*catalog.PluginVersion
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		versions, err := s.read(name)
		if err != nil {
			return nil, err
		}
		out = append(out, versions...)
	}
	s.logger.Debug("plugin directory", "dir", s.dir, "plugins", len(names), "versions", len(out))
	return out, nil
}

func (s *PluginDirSource) names() ([]string, error) {
	if s.plugin != "" {
		return []string{s.plugin}, nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "plugin directory %s not found", s.dir)
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(s.dir, e.Name(), DescriptorFile)); err != nil {
			continue
		}
		names = append(names, e.Name())
	}
	slices.Sort(names)
	return names, nil
}

func (s *PluginDirSource) read(name string) ([]*catalog.PluginVersion, error) {
	if err := errors.ValidateEntityName(name); err != nil {
		return nil, err
	}
	base := filepath.Join(s.dir, name)
	data, err := os.ReadFile(filepath.Join(base, DescriptorFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "plugin %s: %s not found", name, DescriptorFile)
		}
		return nil, err
	}
	var desc descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidInput
		}
		return nil, errors.Wrap(code, err, "plugin %s: decode %s", name, DescriptorFile)
	}

	out := make([]*catalog.PluginVersion, 0, len(desc.Versions))
	for _, dv := range desc.Versions {
		v, err := pluginVersion(name, base, dv)
		if err != nil {
			return nil, errors.Wrap(errors.GetCode(err), err, "plugin %s %s", name, dv.Version)
		}
		out = append(out, v)
	}
	return out, nil
}

func pluginVersion(name, base string, dv descriptorVersion) (*catalog.PluginVersion, error) {
	if err := errors.ValidateVersion(dv.Version); err != nil {
		return nil, err
	}

	var (
		src  catalog.PluginSource
		code []byte
	)
	switch {
	case dv.Code != "" && dv.Inline != "":
		return nil, errors.New(errors.ErrCodeInvalidInput, "code and inline are mutually exclusive")
	case dv.Code != "":
		path := filepath.Join(base, dv.Code)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read code")
		}
		fp := catalog.FilePlugin{FilePath: path}
		if dv.Signature != "" {
			fp.SignaturePath = filepath.Join(base, dv.Signature)
		}
		src, code = fp, data
	case dv.Inline != "":
		if dv.Signature != "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "inline code cannot be signed")
		}
		src, code = catalog.InlinePlugin{Code: dv.Inline}, []byte(dv.Inline)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "one of code or inline is required")
	}

	hash, err := catalog.ComputeHash(catalog.SHA512, code)
	if err != nil {
		return nil, err
	}
	v := catalog.NewPluginVersion(name, dv.Version, src, hash)
	v.Requirements = catalog.PluginRequirements{
		Runtime:    dv.Requirements.Runtime,
		PeerTool:   dv.Requirements.PeerTool,
		PeerPlugin: dv.Requirements.PeerPlugin,
		Library:    dv.Requirements.Library,
	}
	return v, nil
}
