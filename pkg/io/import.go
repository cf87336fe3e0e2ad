package io

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/errors"
)

// Import reads the published catalog in dir into a fresh Repository.
//
// A directory without an index yields an empty repository, so the first
// build of a catalog compares against nothing. Every include is verified
// against the checksum recorded in the index. Plugins come back as
// [catalog.FilePlugin] values pointing at the published code files.
func Import(dir string) (*catalog.Repository, error) {
	repo := catalog.NewRepository()

	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if os.IsNotExist(err) {
		return repo, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	var idx index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode %s", IndexFile)
	}
	for _, inc := range idx.Includes {
		if err := importInclude(repo, dir, inc); err != nil {
			return nil, fmt.Errorf("include %s: %w", inc.URL, err)
		}
	}
	return repo, nil
}

func importInclude(repo *catalog.Repository, dir string, inc include) error {
	if err := checkFileName(inc.URL); err != nil {
		return err
	}
	if inc.Checksum == nil {
		return errors.New(errors.ErrCodeInvalidCatalog, "missing checksum")
	}
	sum, err := catalog.NewHash(string(inc.Checksum.Type), inc.Checksum.Value)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Join(dir, inc.URL))
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read include")
	}
	if !sum.Verify(data) {
		return errors.New(errors.ErrCodeInvalidCatalog, "checksum mismatch, want %s", sum)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode")
	}
	for name, entries := range doc.Tools {
		if err := importTool(repo, name, entries); err != nil {
			return err
		}
	}
	for name, entries := range doc.Plugins {
		if err := importPlugin(repo, dir, name, entries); err != nil {
			return err
		}
	}
	return nil
}

func importTool(repo *catalog.Repository, name string, entries []toolEntry) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	for _, e := range entries {
		hash, err := checksum(e.Checksum)
		if err != nil {
			return fmt.Errorf("tool %s %s: %w", name, e.Version, err)
		}
		v := catalog.NewToolVersion(name, e.Version)
		v.DownloadLocation = e.URL
		v.SignatureLocation = e.Signature
		v.Hash = hash
		v.Requirements = catalog.ToolRequirements{Runtime: e.Requirements.Runtime, Library: e.Requirements.Library}
		if err := repo.AddToolVersion(v); err != nil {
			return err
		}
	}
	return nil
}

func importPlugin(repo *catalog.Repository, dir, name string, entries []pluginEntry) error {
	if err := errors.ValidateEntityName(name); err != nil {
		return err
	}
	for _, e := range entries {
		if e.Type != PluginType {
			return errors.New(errors.ErrCodeInvalidCatalog, "plugin %s %s: unsupported type %q", name, e.Version, e.Type)
		}
		if e.Checksum == nil {
			return errors.New(errors.ErrCodeInvalidCatalog, "plugin %s %s: missing checksum", name, e.Version)
		}
		hash, err := checksum(e.Checksum)
		if err != nil {
			return fmt.Errorf("plugin %s %s: %w", name, e.Version, err)
		}
		if err := checkFileName(e.URL); err != nil {
			return err
		}

		src := catalog.FilePlugin{Root: dir, FilePath: e.URL}
		if e.Signature != "" {
			if err := checkFileName(e.Signature); err != nil {
				return err
			}
			src.SignaturePath = e.Signature
		}

		v := catalog.NewPluginVersion(name, e.Version, src, hash)
		if e.APIVersion != "" {
			v.APIVersion = e.APIVersion
		}
		v.Requirements = catalog.PluginRequirements{
			Runtime:    e.Requirements.Runtime,
			PeerTool:   e.Requirements.PeerTool,
			PeerPlugin: e.Requirements.PeerPlugin,
			Library:    e.Requirements.Library,
		}
		if err := repo.AddPluginVersion(v); err != nil {
			return err
		}
	}
	return nil
}

// checksum revalidates a decoded hash, which bypassed [catalog.NewHash].
func checksum(h *catalog.Hash) (*catalog.Hash, error) {
	if h == nil {
		return nil, nil
	}
	return catalog.NewHash(string(h.Type), h.Value)
}

// checkFileName rejects references that would escape the catalog directory.
func checkFileName(name string) error {
	if name == "" || name == "." || name == ".." || filepath.Base(name) != name {
		return errors.New(errors.ErrCodeInvalidCatalog, "invalid file reference %q", name)
	}
	return nil
}
