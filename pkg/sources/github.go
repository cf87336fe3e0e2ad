package sources

import (
	"context"
	"path"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/toolcatalog/pkg/builder"
	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
	"github.com/matzehuels/toolcatalog/pkg/integrations"
	"github.com/matzehuels/toolcatalog/pkg/integrations/github"
)

// DefaultAssetPattern selects the phar among release assets.
const DefaultAssetPattern = "*.phar"

// GitHubSource yields one tool version per GitHub release whose tag is a
// semantic version and which carries a matching asset.
type GitHubSource struct {
	client       *github.Client
	tool         string
	owner, repo  string
	asset        string
	constraint   *semver.Constraints
	prereleases  bool
	refresh      bool
	requirements catalog.ToolRequirements
	logger       *log.Logger
}

func newGitHub(cfg config.SourceConfig, deps Deps) (builder.ToolSource, error) {
	owner, repo, err := integrations.SplitRepo(cfg.Repo)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "github source")
	}
	s := &GitHubSource{
		client:      github.NewClient(deps.Cache, deps.GitHub.Token, deps.TTL),
		tool:        cfg.Name,
		owner:       owner,
		repo:        repo,
		asset:       cfg.Asset,
		prereleases: cfg.Prereleases,
		refresh:     deps.Refresh,
		logger:      deps.logger(),
	}
	if s.tool == "" {
		s.tool = repo
	}
	if err := errors.ValidateEntityName(s.tool); err != nil {
		return nil, err
	}
	if s.asset == "" {
		s.asset = DefaultAssetPattern
	}
	if deps.GitHub.BaseURL != "" {
		s.client.WithBaseURL(deps.GitHub.BaseURL)
	}
	if cfg.Constraint != "" {
		c, err := semver.NewConstraint(cfg.Constraint)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "constraint %q", cfg.Constraint)
		}
		s.constraint = c
	}
	if s.requirements, err = toolRequirements(cfg.Requirements); err != nil {
		return nil, err
	}
	return s, nil
}

// Name implements builder.ToolSource.
func (s *GitHubSource) Name() string { return "github:" + s.owner + "/" + s.repo }

// Tools implements builder.ToolSource.
func (s *GitHubSource) Tools(ctx context.Context) ([]*catalog.ToolVersion, error) {
	releases, err := s.client.Releases(ctx, s.owner, s.repo, s.refresh)
	if err != nil {
		return nil, err
	}

	var out []*catalog.ToolVersion
	for _, r := range releases {
		v, ok := s.version(r)
		if ok {
			out = append(out, v)
		}
	}
	s.logger.Debug("github releases", "repo", s.owner+"/"+s.repo, "releases", len(releases), "versions", len(out))
	return out, nil
}

func (s *GitHubSource) version(r github.Release) (*catalog.ToolVersion, bool) {
	version := strings.TrimPrefix(r.TagName, "v")
	sv, err := semver.NewVersion(version)
	if err != nil {
		s.logger.Debug("skipping non-semver tag", "tag", r.TagName)
		return nil, false
	}
	if (r.Prerelease || sv.Prerelease() != "") && !s.prereleases {
		return nil, false
	}
	if s.constraint != nil && !s.constraint.Check(sv) {
		return nil, false
	}

	pattern := strings.ReplaceAll(s.asset, "{version}", version)
	var asset github.Asset
	found := false
	for _, a := range r.Assets {
		if ok, _ := path.Match(pattern, a.Name); ok {
			asset, found = a, true
			break
		}
	}
	if !found {
		s.logger.Debug("release has no matching asset", "tag", r.TagName, "pattern", pattern)
		return nil, false
	}

	v := catalog.NewToolVersion(s.tool, version)
	v.DownloadLocation = asset.BrowserDownloadURL
	if sig, ok := r.Asset(asset.Name + ".asc"); ok {
		v.SignatureLocation = sig.BrowserDownloadURL
	}
	if asset.Digest != "" {
		if h, err := catalog.FromDigest(asset.Digest); err == nil {
			v.Hash = h
		} else {
			s.logger.Warn("ignoring asset digest", "asset", asset.Name, "err", err)
		}
	}
	v.Requirements = cloneToolRequirements(s.requirements)
	return v, true
}
