// Package integrations provides the HTTP plumbing shared by version providers.
//
// # Client Pattern
//
// [Client] wraps an *http.Client with default headers, a namespaced
// [cache.Cache] and a retry policy. Provider clients embed it:
//
//	type Client struct {
//	    *integrations.Client
//	    baseURL string
//	}
//
// and combine [Client.Cached] with [Client.Get] or [Client.GetBytes] so that
// each upstream document is fetched at most once per cache TTL.
//
// # Errors
//
// A 404 maps to [ErrNotFound]. Connection failures, 429 and 5xx responses map
// to [ErrNetwork] wrapped as retryable; other statuses map to [ErrNetwork]
// and fail immediately.
//
// # Subpackages
//
//   - [github]: GitHub releases API
//
// [github]: github.com/matzehuels/toolcatalog/pkg/integrations/github
// [cache.Cache]: github.com/matzehuels/toolcatalog/pkg/cache.Cache
package integrations
