package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/toolcatalog/pkg/cache"
	"github.com/matzehuels/toolcatalog/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API endpoint.
const DefaultBaseURL = "https://api.github.com"

const (
	perPage  = 100
	maxPages = 10
)

// Client lists releases through the GitHub REST API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client. Pass an empty token for
// unauthenticated requests (60 requests per hour).
func NewClient(c cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	return &Client{
		Client:  integrations.NewClient(c, "github:", cacheTTL, headers),
		baseURL: DefaultBaseURL,
	}
}

// WithBaseURL points the client at a GitHub Enterprise instance or a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// Releases returns the published releases of owner/repo, newest first as
// reported by GitHub. Drafts are skipped. If refresh is true, cached data is
// bypassed.
func (c *Client) Releases(ctx context.Context, owner, repo string, refresh bool) ([]Release, error) {
	key := "releases:" + owner + "/" + repo

	var releases []Release
	err := c.Cached(ctx, key, refresh, &releases, func() error {
		var err error
		releases, err = c.fetchReleases(ctx, owner, repo)
		return err
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github repo %s/%s", err, owner, repo)
		}
		return nil, err
	}
	return releases, nil
}

func (c *Client) fetchReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	var all []Release
	for page := 1; page <= maxPages; page++ {
		var batch []Release
		url := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d&page=%d", c.baseURL, owner, repo, perPage, page)
		if err := c.Get(ctx, url, &batch); err != nil {
			return nil, err
		}
		for _, r := range batch {
			if !r.Draft {
				all = append(all, r)
			}
		}
		if len(batch) < perPage {
			break
		}
	}
	return all, nil
}
