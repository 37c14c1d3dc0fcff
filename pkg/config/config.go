// Package config loads archmind settings from a TOML or YAML file.
//
// Values are layered: [Default], then the file, then ARCHMIND_* environment
// variables. Command-line flags are applied by the caller afterwards.
//
//	cfg, err := config.Load("")          // ~/.config/archmind/config.toml if present
//	cfg, err := config.Load("arch.yaml") // explicit YAML file
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/Arch-Mind/frontend-sub001/pkg/cache"
	"github.com/Arch-Mind/frontend-sub001/pkg/cluster"
	"github.com/Arch-Mind/frontend-sub001/pkg/layout"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultAddr is the listen address for archmind serve.
const DefaultAddr = ":8080"

// Config is the complete archmind configuration.
type Config struct {
	Strategy string   `toml:"strategy" yaml:"strategy" json:"strategy" validate:"required"`
	Prefixes []string `toml:"prefixes" yaml:"prefixes" json:"prefixes,omitempty" validate:"dive,required"`

	Cluster ClusterConfig `toml:"cluster" yaml:"cluster" json:"cluster"`
	State   state.Config  `toml:"state" yaml:"state" json:"state"`
	Cache   CacheConfig   `toml:"cache" yaml:"cache" json:"cache"`
	Server  ServerConfig  `toml:"server" yaml:"server" json:"server"`
}

// ClusterConfig holds the cluster thresholds.
type ClusterConfig struct {
	MinSize  int `toml:"min_size" yaml:"min_size" json:"min_size" validate:"min=1"`
	MaxDepth int `toml:"max_depth" yaml:"max_depth" json:"max_depth" validate:"min=0"`
}

// CacheConfig selects the layout cache.
type CacheConfig struct {
	Backend  string   `toml:"backend" yaml:"backend" json:"backend" validate:"oneof=file redis none"`
	Dir      string   `toml:"dir" yaml:"dir" json:"dir,omitempty"`
	RedisURL string   `toml:"redis_url" yaml:"redis_url" json:"redis_url,omitempty" validate:"required_if=Backend redis"`
	TTL      Duration `toml:"ttl" yaml:"ttl" json:"ttl"`
}

// ServerConfig configures archmind serve.
type ServerConfig struct {
	Addr        string   `toml:"addr" yaml:"addr" json:"addr" validate:"required"`
	CORSOrigins []string `toml:"cors_origins" yaml:"cors_origins" json:"cors_origins,omitempty"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Strategy: layout.DefaultStrategy,
		Cluster: ClusterConfig{
			MinSize:  cluster.DefaultMinSize,
			MaxDepth: cluster.DefaultMaxDepth,
		},
		State: state.Config{Backend: state.BackendFile},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration(cache.DefaultTTL),
		},
		Server: ServerConfig{
			Addr:        DefaultAddr,
			CORSOrigins: []string{"*"},
		},
	}
}

// DefaultPath returns ~/.config/archmind/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "archmind", "config.toml"), nil
}

// Load reads the file at path over [Default] and applies environment
// overrides. An empty path reads [DefaultPath] when it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, err
			}
		case os.IsNotExist(err) && !explicit:
		default:
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	applyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes data as TOML, or as YAML when format is "yaml" or "yml",
// over [Default]. Environment variables are not consulted.
func Parse(format string, data []byte) (Config, error) {
	cfg := Default()
	if err := decode("config."+format, data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// Environment overrides.
const (
	EnvStrategy     = "ARCHMIND_STRATEGY"
	EnvStateBackend = "ARCHMIND_STATE_BACKEND"
	EnvStateDSN     = "ARCHMIND_STATE_DSN"
	EnvCacheBackend = "ARCHMIND_CACHE_BACKEND"
	EnvRedisURL     = "ARCHMIND_REDIS_URL"
	EnvAddr         = "ARCHMIND_ADDR"
)

func applyEnv(cfg *Config, lookup func(string) (string, bool)) {
	for key, dst := range map[string]*string{
		EnvStrategy:     &cfg.Strategy,
		EnvStateBackend: &cfg.State.Backend,
		EnvStateDSN:     &cfg.State.DSN,
		EnvCacheBackend: &cfg.Cache.Backend,
		EnvRedisURL:     &cfg.Cache.RedisURL,
		EnvAddr:         &cfg.Server.Addr,
	} {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
}

// =============================================================================
// Duration
// =============================================================================

// Duration is a time.Duration written as a Go duration string ("24h") in
// TOML and YAML files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }
