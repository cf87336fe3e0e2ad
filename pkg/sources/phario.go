package sources

import (
	"context"
	"encoding/xml"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/toolcatalog/pkg/builder"
	"github.com/matzehuels/toolcatalog/pkg/catalog"
	"github.com/matzehuels/toolcatalog/pkg/config"
	"github.com/matzehuels/toolcatalog/pkg/errors"
	"github.com/matzehuels/toolcatalog/pkg/integrations"
)

// pharRepository is the phar.io repository feed:
//
//	<repository xmlns="https://phar.io/repository">
//	  <phar name="phpunit">
//	    <release version="10.0.0" url="https://phar.phpunit.de/phpunit-10.0.0.phar">
//	      <signature type="gpg"/>
//	      <hash type="sha-256" value="..."/>
//	    </release>
//	  </phar>
//	</repository>
type pharRepository struct {
	Phars []pharEntry `xml:"phar"`
}

type pharEntry struct {
	Name     string        `xml:"name,attr"`
	Releases []pharRelease `xml:"release"`
}

type pharRelease struct {
	Version   string         `xml:"version,attr"`
	URL       string         `xml:"url,attr"`
	Signature *pharSignature `xml:"signature"`
	Hash      *pharHash      `xml:"hash"`
}

type pharSignature struct {
	Type string `xml:"type,attr"`
	URL  string `xml:"url,attr"`
}

type pharHash struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// PharIOSource reads tool versions from a phar.io repository XML feed.
// Without a configured name every phar in the feed is yielded.
type PharIOSource struct {
	client       *integrations.Client
	url          string
	tool         string
	constraint   *semver.Constraints
	refresh      bool
	requirements catalog.ToolRequirements
	logger       *log.Logger
}

func newPharIO(cfg config.SourceConfig, deps Deps) (builder.ToolSource, error) {
	if err := errors.ValidateURL(cfg.URL); err != nil {
		return nil, err
	}
	s := &PharIOSource{
		client:  integrations.NewClient(deps.Cache, "phar-io:", deps.TTL, map[string]string{"Accept": "application/xml"}),
		url:     cfg.URL,
		tool:    cfg.Name,
		refresh: deps.Refresh,
		logger:  deps.logger(),
	}
	if cfg.Constraint != "" {
		c, err := semver.NewConstraint(cfg.Constraint)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "constraint %q", cfg.Constraint)
		}
		s.constraint = c
	}
	var err error
	if s.requirements, err = toolRequirements(cfg.Requirements); err != nil {
		return nil, err
	}
	return s, nil
}

// Name implements builder.ToolSource.
func (s *PharIOSource) Name() string { return "phar-io:" + s.url }

// Tools implements builder.ToolSource.
func (s *PharIOSource) Tools(ctx context.Context) ([]*catalog.ToolVersion, error) {
	var body []byte
	err := s.client.Cached(ctx, s.url, s.refresh, &body, func() error {
		var err error
		body, err = s.client.GetBytes(ctx, s.url)
		return err
	})
	if err != nil {
		return nil, err
	}

	var feed pharRepository
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode phar.io feed %s", s.url)
	}

	var out []*catalog.ToolVersion
	for _, phar := range feed.Phars {
		if s.tool != "" && phar.Name != s.tool {
			continue
		}
		if err := errors.ValidateEntityName(phar.Name); err != nil {
			return nil, err
		}
		for _, r := range phar.Releases {
			v, err := s.version(phar.Name, r)
			if err != nil {
				return nil, err
			}
			if v != nil {
				out = append(out, v)
			}
		}
	}
	s.logger.Debug("phar.io feed", "url", s.url, "versions", len(out))
	return out, nil
}

func (s *PharIOSource) version(name string, r pharRelease) (*catalog.ToolVersion, error) {
	if s.constraint != nil {
		sv, err := semver.NewVersion(r.Version)
		if err != nil || !s.constraint.Check(sv) {
			return nil, nil
		}
	}

	v := catalog.NewToolVersion(name, r.Version)
	v.DownloadLocation = r.URL
	if r.Signature != nil {
		v.SignatureLocation = r.Signature.URL
		if v.SignatureLocation == "" && r.URL != "" {
			v.SignatureLocation = r.URL + ".asc"
		}
	}
	if r.Hash != nil {
		h, err := catalog.NewHash(r.Hash.Type, r.Hash.Value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidHash, err, "%s %s", name, r.Version)
		}
		v.Hash = h
	}
	v.Requirements = cloneToolRequirements(s.requirements)
	return v, nil
}
