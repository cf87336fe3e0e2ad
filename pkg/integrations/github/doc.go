// Package github lists repository releases through the GitHub REST API.
//
// # Usage
//
//	client := github.NewClient(c, token, 24*time.Hour)
//	releases, err := client.Releases(ctx, "phpstan", "phpstan", false)
//
// Each [Release] carries its assets; the tool provider picks the phar and
// its detached ".asc" signature from them.
//
// # Authentication
//
// A token is optional. It is forwarded verbatim as a bearer token; without
// one the API allows 60 requests per hour.
//
// # Caching
//
// The complete release list of a repository is cached as one entry under
// "github:releases:<owner>/<repo>". Pass refresh=true to bypass the cache.
package github
