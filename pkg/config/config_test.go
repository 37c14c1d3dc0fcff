package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Arch-Mind/frontend-sub001/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestParseTOML(t *testing.T) {
	cfg, err := Parse("toml", []byte(`
strategy = "by-module"
prefixes = ["/work/checkout/"]

[cluster]
min_size = 3
max_depth = 2

[state]
backend = "badger"
dir = "/var/lib/archmind"

[cache]
backend = "none"
ttl = "90m"

[server]
addr = "127.0.0.1:9000"
cors_origins = ["http://localhost:5173"]
`))
	require.NoError(t, err)

	assert.Equal(t, "by-module", cfg.Strategy)
	assert.Equal(t, []string{"/work/checkout/"}, cfg.Prefixes)
	assert.Equal(t, ClusterConfig{MinSize: 3, MaxDepth: 2}, cfg.Cluster)
	assert.Equal(t, "badger", cfg.State.Backend)
	assert.Equal(t, "/var/lib/archmind", cfg.State.Dir)
	assert.Equal(t, CacheNone, cfg.Cache.Backend)
	assert.Equal(t, 90*time.Minute, cfg.Cache.TTL.Std())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.CORSOrigins)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse("yaml", []byte(`
strategy: force
cluster:
  min_size: 8
cache:
  backend: redis
  redis_url: redis://localhost:6379/1
  ttl: 2h
`))
	require.NoError(t, err)

	assert.Equal(t, "force", cfg.Strategy)
	assert.Equal(t, 8, cfg.Cluster.MinSize)
	assert.Equal(t, Default().Cluster.MaxDepth, cfg.Cluster.MaxDepth, "unset keys keep defaults")
	assert.Equal(t, "redis://localhost:6379/1", cfg.Cache.RedisURL)
	assert.Equal(t, 2*time.Hour, cfg.Cache.TTL.Std())
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"UnknownStrategy", func(c *Config) { c.Strategy = "spiral" }, "not a known layout strategy"},
		{"UnknownStateBackend", func(c *Config) { c.State.Backend = "etcd" }, "not a known state backend"},
		{"MongoWithoutDSN", func(c *Config) { c.State.Backend = "mongo" }, "state.dsn is required"},
		{"RedisCacheWithoutURL", func(c *Config) { c.Cache.Backend = CacheRedis }, "redis_url"},
		{"BadCacheBackend", func(c *Config) { c.Cache.Backend = "memcached" }, "must be one of"},
		{"ZeroMinSize", func(c *Config) { c.Cluster.MinSize = 0 }, "min_size"},
		{"EmptyAddr", func(c *Config) { c.Server.Addr = "" }, "addr is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Equal(t, errors.ErrCodeInvalidInput, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("ExplicitFile", func(t *testing.T) {
		path := filepath.Join(dir, "archmind.yml")
		require.NoError(t, os.WriteFile(path, []byte("strategy: by-file\n"), 0o644))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "by-file", cfg.Strategy)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("strategy = "), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("EnvOverride", func(t *testing.T) {
		t.Setenv(EnvStrategy, "dependency")
		t.Setenv(EnvAddr, ":9999")
		path := filepath.Join(dir, "env.toml")
		require.NoError(t, os.WriteFile(path, []byte(`strategy = "force"`), 0o644))
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "dependency", cfg.Strategy)
		assert.Equal(t, ":9999", cfg.Server.Addr)
	})
}

func TestDurationText(t *testing.T) {
	var d Duration
	require.NoError(t, d.UnmarshalText([]byte("1h30m")))
	assert.Equal(t, 90*time.Minute, d.Std())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1h30m0s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))
}
