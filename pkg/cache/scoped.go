package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache and prefixes every key.
//
// Example usage:
//
//	github := cache.Namespace(c, "github:")
//	pharIO := cache.Namespace(c, "phar-io:")
type Scoped struct {
	inner  Cache
	prefix string
}

// Namespace returns a view of c whose keys are prefixed with prefix.
// Namespaces nest: Namespace(Namespace(c, "a:"), "b:") uses "a:b:".
// A nil c yields a view over a [NullCache].
func Namespace(c Cache, prefix string) Cache {
	if c == nil {
		c = NewNullCache()
	}
	if s, ok := c.(*Scoped); ok {
		return &Scoped{inner: s.inner, prefix: s.prefix + prefix}
	}
	return &Scoped{inner: c, prefix: prefix}
}

// Prefix returns the full key prefix of the view.
func (s *Scoped) Prefix() string { return s.prefix }

func (s *Scoped) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *Scoped) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *Scoped) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the underlying cache.
func (s *Scoped) Close() error { return s.inner.Close() }

var _ Cache = (*Scoped)(nil)
