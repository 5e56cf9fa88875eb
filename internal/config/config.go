// Package config loads the pipelinedag configuration file.
//
// The file is TOML and every field is optional: values start from
// [Default], the file overrides them and command-line flags override both.
//
// Config file locations (priority order):
//  1. --config flag
//  2. $PIPELINEDAG_CONFIG
//  3. $XDG_CONFIG_HOME/pipelinedag/config.toml
//  4. ~/.config/pipelinedag/config.toml
package config

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/pipelinedag/pkg/errors"
	"github.com/matzehuels/pipelinedag/pkg/graph"
	"github.com/matzehuels/pipelinedag/pkg/layout"
	"github.com/matzehuels/pipelinedag/pkg/layout/ordering"
	"github.com/matzehuels/pipelinedag/pkg/pipeline"
)

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the complete configuration.
type Config struct {
	Direction     string  `toml:"direction"`
	Engine        string  `toml:"engine"`
	Quality       string  `toml:"quality"`
	ViewportWidth float64 `toml:"viewport_width"`
	Reduce        bool    `toml:"reduce"`

	Compact layout.Sizing `toml:"compact"`
	Normal  layout.Sizing `toml:"normal"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and configures the layout cache.
type CacheConfig struct {
	Backend string `toml:"backend"`

	// Dir overrides the file backend directory. Empty means the XDG cache
	// directory.
	Dir string `toml:"dir,omitempty"`

	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password,omitempty"`
	RedisDB       int    `toml:"redis_db"`

	// Namespace prefixes every key, so that deployments sharing a Redis
	// do not read each other's entries.
	Namespace string `toml:"namespace,omitempty"`

	TTL Duration `toml:"ttl"`
}

// ServerConfig configures `pipelinedag serve`.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Duration wraps time.Duration for TOML strings such as "24h".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText formats the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() *Config {
	presets := layout.DefaultPresets()
	return &Config{
		Direction: pipeline.DefaultDirection,
		Engine:    pipeline.DefaultEngine,
		Quality:   pipeline.DefaultQuality,
		Compact:   presets.Compact,
		Normal:    presets.Normal,
		Cache: CacheConfig{
			Backend:   BackendFile,
			RedisAddr: "localhost:6379",
			TTL:       Duration(24 * time.Hour),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			RequestTimeout: Duration(30 * time.Second),
			MaxBodyBytes:   4 << 20,
		},
	}
}

// Load reads the file at path over the defaults. An empty path searches
// the default locations and returns the defaults if no file exists there.
// The second return value is the file that was read, or "".
func Load(path string) (*Config, string, error) {
	explicit := path != ""
	if !explicit {
		path = FindConfigPath()
		if path == "" {
			return Default(), "", nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, path, errs.Wrap(errs.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return nil, path, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config")
	}
	defer f.Close()

	cfg, err := Decode(f)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// Decode reads TOML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	// Only the preset selection sets Compact; the tables never do.
	cfg.Compact.Compact, cfg.Normal.Compact = true, false

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks every field and returns an INVALID_CONFIG error naming
// the first offending key.
func (c *Config) Validate() error {
	invalid := func(key string, err error) error {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "invalid %s", key)
	}

	if _, err := graph.ParseDirection(c.Direction); err != nil {
		return invalid("direction", err)
	}
	if !pipeline.ValidEngines[c.Engine] {
		return invalid("engine", fmt.Errorf("%q (must be one of: sugiyama, graphviz)", c.Engine))
	}
	if _, ok := ordering.ParseQuality(c.Quality); !ok {
		return invalid("quality", fmt.Errorf("%q (must be one of: fast, balanced, optimal)", c.Quality))
	}
	if c.ViewportWidth < 0 {
		return invalid("viewport_width", fmt.Errorf("%g is negative", c.ViewportWidth))
	}
	if err := c.Compact.Validate(); err != nil {
		return invalid("[compact]", err)
	}
	if err := c.Normal.Validate(); err != nil {
		return invalid("[normal]", err)
	}
	if !slices.Contains([]string{BackendFile, BackendRedis, BackendNone}, c.Cache.Backend) {
		return invalid("cache.backend", fmt.Errorf("%q (must be one of: file, redis, none)", c.Cache.Backend))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return invalid("cache.redis_addr", fmt.Errorf("required for the redis backend"))
	}
	if c.Cache.TTL < 0 {
		return invalid("cache.ttl", fmt.Errorf("%s is negative", c.Cache.TTL.Std()))
	}
	if c.Server.Addr == "" {
		return invalid("server.addr", fmt.Errorf("must not be empty"))
	}
	if c.Server.RequestTimeout < 0 {
		return invalid("server.request_timeout", fmt.Errorf("%s is negative", c.Server.RequestTimeout.Std()))
	}
	if c.Server.MaxBodyBytes <= 0 {
		return invalid("server.max_body_bytes", fmt.Errorf("%d is not positive", c.Server.MaxBodyBytes))
	}
	return nil
}

// Presets returns the configured sizing presets.
func (c *Config) Presets() layout.Presets {
	return layout.Presets{Compact: c.Compact, Normal: c.Normal}
}

// LayoutOptions returns pipeline options carrying the configured defaults.
// Callers apply flag overrides on the result.
func (c *Config) LayoutOptions() pipeline.Options {
	return pipeline.Options{
		Direction:     c.Direction,
		Engine:        c.Engine,
		Quality:       c.Quality,
		ViewportWidth: c.ViewportWidth,
		Reduce:        c.Reduce,
		Presets:       c.Presets(),
	}
}
