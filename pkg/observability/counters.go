package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// Counters tallies build, cache and HTTP events. It implements all hook
// interfaces and is safe for concurrent use.
type Counters struct {
	NoopBuildHooks
	NoopHTTPHooks

	sources   atomic.Int64
	failed    atomic.Int64
	versions  atomic.Int64
	hits      atomic.Int64
	misses    atomic.Int64
	requests  atomic.Int64
	httpFails atomic.Int64
}

// Register installs c as build, cache and HTTP hooks.
func (c *Counters) Register() {
	SetBuildHooks(c)
	SetCacheHooks(c)
	SetHTTPHooks(c)
}

func (c *Counters) OnSourceComplete(_ context.Context, _ string, versions int, _ time.Duration, err error) {
	c.sources.Add(1)
	if err != nil {
		c.failed.Add(1)
		return
	}
	c.versions.Add(int64(versions))
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.hits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.misses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string, string) { c.requests.Add(1) }

func (c *Counters) OnError(context.Context, string, string, string, error) { c.httpFails.Add(1) }

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Sources, FailedSources, Versions int64
	CacheHits, CacheMisses           int64
	Requests, RequestErrors          int64
}

// Snapshot returns the current counts.
func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Sources:       c.sources.Load(),
		FailedSources: c.failed.Load(),
		Versions:      c.versions.Load(),
		CacheHits:     c.hits.Load(),
		CacheMisses:   c.misses.Load(),
		Requests:      c.requests.Load(),
		RequestErrors: c.httpFails.Load(),
	}
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%d sources, %d versions, %d requests, %d cache hits", s.Sources, s.Versions, s.Requests, s.CacheHits)
}
