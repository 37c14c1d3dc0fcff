package state

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// ValidBackends lists the accepted backend names.
var ValidBackends = map[string]bool{
	BackendMemory: true,
	BackendFile:   true,
	BackendBadger: true,
	BackendRedis:  true,
	BackendMongo:  true,
}

// Config selects and configures a backend.
type Config struct {
	Backend string `toml:"backend" yaml:"backend" json:"backend"`

	// Dir is the file backend directory, or the parent of the badger
	// database directory. Empty selects ~/.config/archmind/state.
	Dir string `toml:"dir" yaml:"dir" json:"dir,omitempty"`

	// DSN is the redis URL or mongo URI.
	DSN string `toml:"dsn" yaml:"dsn" json:"dsn,omitempty"`
}

// Open creates the backend named in cfg and wraps it in a Store.
func Open(ctx context.Context, cfg Config, logger *log.Logger) (*Store, error) {
	var (
		b   Backend
		err error
	)
	switch cfg.Backend {
	case "", BackendFile:
		b, err = NewFileBackend(cfg.Dir)
	case BackendMemory:
		b = NewMemoryBackend()
	case BackendBadger:
		dir := cfg.Dir
		if dir == "" {
			var fb *FileBackend
			if fb, err = NewFileBackend(""); err == nil {
				dir = fb.Path()
			}
		}
		if err == nil {
			b, err = NewBadgerBackend(BadgerConfig{Path: filepath.Join(dir, "badger"), SyncWrites: true, Logger: logger})
		}
	case BackendRedis:
		b, err = NewRedisBackend(ctx, RedisConfig{URL: cfg.DSN})
	case BackendMongo:
		b, err = NewMongoBackend(ctx, MongoConfig{URI: cfg.DSN})
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	s := New(b)
	s.Logger = logger
	return s, nil
}
