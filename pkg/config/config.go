// Package config loads the toolcatalog TOML configuration.
//
// A minimal configuration publishes one tool from its GitHub releases:
//
//	output = "catalog"
//
//	[[source]]
//	type = "github"
//	name = "phpstan"
//	repo = "phpstan/phpstan"
//	[source.requirements]
//	php = ["php:^7.2|^8.0"]
//
// Sources are listed in precedence order: when two sources describe the same
// version, the one declared first wins on download location, signature and
// checksum, while requirements of both are combined.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/toolcatalog/pkg/errors"
)

const appName = "toolcatalog"

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = appName + ".toml"

// Defaults applied by [Load] for unset fields.
const (
	DefaultOutput   = "catalog"
	DefaultCacheTTL = 24 * time.Hour
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Source capabilities.
const (
	CapabilityTool   = "tool"
	CapabilityPlugin = "plugin"
)

// Config is the complete configuration of a catalog build.
type Config struct {
	Output  string         `toml:"output"`
	Cache   CacheConfig    `toml:"cache"`
	GitHub  GitHubConfig   `toml:"github"`
	Sources []SourceConfig `toml:"source"`
}

// CacheConfig selects and configures the response cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"` // file, redis or none
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
}

// GitHubConfig holds GitHub API settings.
type GitHubConfig struct {
	// Token is forwarded as a bearer token. GITHUB_TOKEN overrides it.
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

// SourceConfig declares one version provider. Which fields apply depends
// on Type; unknown types are rejected when the sources are opened.
type SourceConfig struct {
	Type         string             `toml:"type"`
	Capability   string             `toml:"capability"`
	Name         string             `toml:"name"`
	Repo         string             `toml:"repo"`
	URL          string             `toml:"url"`
	Dir          string             `toml:"dir"`
	Asset        string             `toml:"asset"`
	Constraint   string             `toml:"constraint"`
	Prereleases  bool               `toml:"prereleases"`
	Requirements RequirementsConfig `toml:"requirements"`
}

// RequirementsConfig lists static requirements as "name:constraint"
// strings, in declaration order. A missing constraint means any version.
type RequirementsConfig struct {
	PHP      []string `toml:"php"`
	Composer []string `toml:"composer"`
}

// Label returns a short description of the source for logs and errors.
func (s SourceConfig) Label() string {
	target := s.Repo
	for _, alt := range []string{s.URL, s.Dir, s.Name} {
		if target == "" {
			target = alt
		}
	}
	if target == "" {
		return s.Type
	}
	return s.Type + ":" + target
}

// Load reads the configuration at path. An empty path means [DefaultFile]
// in the working directory. Relative paths inside the file are resolved
// against the file's directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.resolve(filepath.Dir(path))
	return cfg, nil
}

// Parse decodes a TOML document, applies defaults and validates it.
// Unknown keys are an error.
func Parse(data string) (*Config, error) {
	var cfg Config
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parsing config TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = DefaultCacheTTL
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		c.GitHub.Token = token
	}
	for i := range c.Sources {
		s := &c.Sources[i]
		if s.Capability == "" {
			switch s.Type {
			case "github", "phar-io":
				s.Capability = CapabilityTool
			case "plugin-dir":
				s.Capability = CapabilityPlugin
			}
		}
	}
}

// Validate checks settings that do not depend on the source registry.
func (c *Config) Validate() error {
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend %q: want file, redis or none", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend redis requires redis_addr")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	for i, s := range c.Sources {
		if s.Type == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "source #%d: missing type", i+1)
		}
	}
	return nil
}

// resolve makes relative filesystem paths relative to base.
func (c *Config) resolve(base string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	c.Output = abs(c.Output)
	c.Cache.Dir = abs(c.Cache.Dir)
	for i := range c.Sources {
		c.Sources[i].Dir = abs(c.Sources[i].Dir)
	}
}

// CacheDir returns the cache directory: the configured one, or the XDG
// cache home (~/.cache/toolcatalog).
func (c *Config) CacheDir() (string, error) {
	if c != nil && c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	return DefaultCacheDir()
}

// DefaultCacheDir returns the cache directory using XDG standard.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
