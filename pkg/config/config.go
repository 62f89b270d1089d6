// Package config loads orbit's TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/orbit/config.toml (falling back to
// ~/.config/orbit). A missing file yields [Default]; keys absent from the
// file keep their default values. Command-line flags override whatever is
// loaded here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/layout/force"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config holds orbit configuration.
type Config struct {
	Physics force.Params `toml:"physics"`
	Loop    LoopConfig   `toml:"loop"`
	Canvas  CanvasConfig `toml:"canvas"`
	Server  ServerConfig `toml:"server"`
	Cache   CacheConfig  `toml:"cache"`
	Source  SourceConfig `toml:"source"`
}

// LoopConfig controls the live tick loop.
type LoopConfig struct {
	RateHz float64 `toml:"rate_hz"`
	MaxDT  float64 `toml:"max_dt"` // seconds
}

// CanvasConfig is the default canvas for commands that do not get one.
type CanvasConfig struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

// CacheConfig selects where settled frames are cached.
type CacheConfig struct {
	Backend   string `toml:"backend"` // "none", "file", "redis"
	Dir       string `toml:"dir"`     // file backend; empty means the default cache dir
	RedisAddr string `toml:"redis_addr"`
	TTL       string `toml:"ttl"`    // Go duration, e.g. "24h"
	Prefix    string `toml:"prefix"` // prepended to every key, for shared Redis
}

// SourceConfig locates snapshots stored in MongoDB.
type SourceConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Physics: force.DefaultParams(),
		Loop:    LoopConfig{RateHz: force.DefaultRate, MaxDT: force.DefaultMaxDT},
		Canvas:  CanvasConfig{Width: 1600, Height: 1200},
		Server:  ServerConfig{Bind: "127.0.0.1", Port: 8420},
		Cache:   CacheConfig{Backend: CacheFile, RedisAddr: "localhost:6379", TTL: "24h"},
		Source:  SourceConfig{Database: "orbit", Collection: "snapshots"},
	}
}

// ConfigDir returns the orbit config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "orbit")
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at [Path].
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads a config file over the defaults. A missing file is not an
// error; a malformed or invalid one is.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to [Path].
func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

// SaveFile writes the config to path, creating parent directories.
func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	v := errors.NewValidation(errors.ErrCodeInvalidConfig)

	if err := c.Physics.Validate(); err != nil {
		v.Add("physics", "%v", err)
	}
	if c.Loop.RateHz <= 0 {
		v.Add("loop.rate_hz", "must be positive, got %g", c.Loop.RateHz)
	}
	if c.Loop.MaxDT <= 0 {
		v.Add("loop.max_dt", "must be positive, got %g", c.Loop.MaxDT)
	}
	if err := errors.ValidateCanvas(c.Canvas.Width, c.Canvas.Height); err != nil {
		v.Add("canvas", "%s", errors.UserMessage(err))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		v.Add("server.port", "out of range: %d", c.Server.Port)
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		v.Add("cache.backend", "unknown backend %q", c.Cache.Backend)
	}
	if _, err := c.CacheTTL(); err != nil {
		v.Add("cache.ttl", "%v", err)
	}

	return v.Err()
}

// Params returns the physics parameters for a new engine.
func (c *Config) Params() force.Params {
	return c.Physics
}

// LoopOptions returns the tick loop settings.
func (c *Config) LoopOptions() force.LoopOptions {
	return force.LoopOptions{Rate: c.Loop.RateHz, MaxDT: c.Loop.MaxDT}
}

// CanvasSize returns the default canvas.
func (c *Config) CanvasSize() force.Size {
	return force.Size{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// CacheTTL parses the cache TTL. An empty TTL means entries never expire.
func (c *Config) CacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative ttl %s", d)
	}
	return d, nil
}
