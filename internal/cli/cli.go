// Package cli implements the archmind command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/Arch-Mind/frontend-sub001/pkg/buildinfo"
	"github.com/Arch-Mind/frontend-sub001/pkg/cache"
	"github.com/Arch-Mind/frontend-sub001/pkg/config"
	"github.com/Arch-Mind/frontend-sub001/pkg/pipeline"
	"github.com/Arch-Mind/frontend-sub001/pkg/state"
)

// appName is the application name used for directories and display.
const appName = "archmind"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Config is replaced by the
// root command once --config has been parsed.
type CLI struct {
	Logger *log.Logger
	Config config.Config
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// =============================================================================
// Service Factories
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(cc, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Config.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		return cache.NewRedisCache(ctx, c.Config.Cache.RedisURL)
	default:
		fc, err := cache.NewFileCache(c.Config.Cache.Dir)
		if err != nil {
			c.Logger.Warn("layout cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return fc, nil
	}
}

// openStore opens the configured cluster state backend.
func (c *CLI) openStore(ctx context.Context) (*state.Store, error) {
	return state.Open(ctx, c.Config.State, c.Logger)
}

// pipelineOptions returns pipeline options seeded from the configuration.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Strategy:        c.Config.Strategy,
		Prefixes:        c.Config.Prefixes,
		MinClusterSize:  c.Config.Cluster.MinSize,
		MaxClusterDepth: c.Config.Cluster.MaxDepth,
		CacheTTL:        c.Config.Cache.TTL.Std(),
		Logger:          c.Logger,
	}
}
