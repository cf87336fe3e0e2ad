package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/toolcatalog/pkg/cache"
	"github.com/matzehuels/toolcatalog/pkg/httputil"
)

var fastRetry = httputil.Policy{Attempts: 3, Delay: time.Millisecond}

func newTestClient(t *testing.T, server *httptest.Server, headers map[string]string) (*Client, cache.Cache) {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	client := NewClient(c, "test:", time.Hour, headers).WithRetry(fastRetry)
	if server != nil {
		client.WithHTTPClient(server.Client())
	}
	return client, c
}

func TestNewClient(t *testing.T) {
	client := NewClient(nil, "test:", time.Hour, map[string]string{"Authorization": "Bearer token"})
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.cache == nil {
		t.Error("NewClient() should fall back to a null cache")
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); !strings.HasPrefix(ua, "toolcatalog/") {
			t.Errorf("User-Agent = %q", ua)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, map[string]string{"X-Default": "default", "X-Override": "default"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if got.Get("X-Default") != "default" {
		t.Errorf("default header = %q", got.Get("X-Default"))
	}
	if got.Get("X-Override") != "overridden" {
		t.Errorf("override header = %q", got.Get("X-Override"))
	}
}

func TestClientGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<phar name=\"phpunit\"/>"))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)

	text, err := client.GetText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetText() error: %v", err)
	}
	if text != `<phar name="phpunit"/>` {
		t.Errorf("GetText() = %q", text)
	}
}

func TestClientGetStatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		want      error
		retryable bool
	}{
		{"not found", http.StatusNotFound, ErrNotFound, false},
		{"server error", http.StatusInternalServerError, ErrNetwork, true},
		{"rate limited", http.StatusTooManyRequests, ErrNetwork, true},
		{"forbidden", http.StatusForbidden, ErrNetwork, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client, _ := newTestClient(t, server, nil)

			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)
			if !errors.Is(err, tt.want) {
				t.Errorf("Get() error = %v, want %v", err, tt.want)
			}
			if httputil.IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable(%v) = %v, want %v", err, !tt.retryable, tt.retryable)
			}
		})
	}
}

func TestClientCached(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"value":"fetched"}`))
	}))
	defer server.Close()

	client, c := newTestClient(t, server, nil)
	ctx := context.Background()

	type payload struct {
		Value string `json:"value"`
	}
	load := func(refresh bool) payload {
		var p payload
		err := client.Cached(ctx, "key", refresh, &p, func() error {
			return client.Get(ctx, server.URL, &p)
		})
		if err != nil {
			t.Fatalf("Cached() error: %v", err)
		}
		return p
	}

	if got := load(false); got.Value != "fetched" {
		t.Errorf("first load = %+v", got)
	}
	if got := load(false); got.Value != "fetched" {
		t.Errorf("cached load = %+v", got)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
	if _, ok, _ := c.Get(ctx, "test:key"); !ok {
		t.Error("entry not stored under the client prefix")
	}

	load(true)
	if n := hits.Load(); n != 2 {
		t.Errorf("server hits after refresh = %d, want 2", n)
	}
}

func TestClientCachedRetries(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`"ok"`))
	}))
	defer server.Close()

	client, _ := newTestClient(t, server, nil)
	ctx := context.Background()

	var v string
	err := client.Cached(ctx, "flaky", false, &v, func() error {
		return client.Get(ctx, server.URL, &v)
	})
	if err != nil {
		t.Fatalf("Cached() error: %v", err)
	}
	if v != "ok" || hits.Load() != 3 {
		t.Errorf("v = %q after %d hits", v, hits.Load())
	}
}

func TestClientCachedFetchError(t *testing.T) {
	client, c := newTestClient(t, nil, nil)
	ctx := context.Background()

	calls := 0
	var v string
	err := client.Cached(ctx, "missing", false, &v, func() error {
		calls++
		return ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Cached() error = %v, want ErrNotFound", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error fetched %d times", calls)
	}
	if _, ok, _ := c.Get(ctx, "test:missing"); ok {
		t.Error("failed fetch must not be cached")
	}
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		input       string
		owner, repo string
		wantErr     bool
	}{
		{"phpstan/phpstan", "phpstan", "phpstan", false},
		{"https://github.com/phar-io/phive", "phar-io", "phive", false},
		{"git@github.com:vimeo/psalm.git", "vimeo", "psalm", false},
		{"https://github.com/sebastianbergmann/phpunit/", "sebastianbergmann", "phpunit", false},
		{"phpstan", "", "", true},
		{"a/b/c", "", "", true},
		{"", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			owner, repo, err := SplitRepo(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitRepo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if owner != tt.owner || repo != tt.repo {
				t.Errorf("SplitRepo(%q) = %s/%s, want %s/%s", tt.input, owner, repo, tt.owner, tt.repo)
			}
		})
	}
}

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"https url", "https://github.com/user/repo", "https://github.com/user/repo"},
		{"with .git suffix", "https://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git@ to https", "git@github.com:user/repo", "https://github.com/user/repo"},
		{"git:// to https", "git://github.com/user/repo", "https://github.com/user/repo"},
		{"git+ prefix", "git+https://github.com/user/repo", "https://github.com/user/repo"},
		{"with spaces", "  https://github.com/user/repo  ", "https://github.com/user/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRepoURL(tt.input); got != tt.want {
				t.Errorf("NormalizeRepoURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
