package cache

import "github.com/opencontainers/go-digest"

// Hash returns the hex encoded SHA-256 of data, used to derive file names
// from arbitrary keys.
func Hash(data []byte) string {
	return digest.FromBytes(data).Encoded()
}
