package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "terra.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadWithoutPathReturnsDefaults(t *testing.T) {
	t.Setenv("TERRA_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, -31, cfg.World.MinIndex)
	assert.Equal(t, 30, cfg.World.MaxIndex)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
world:
  name: test
  seed: 77
  min_index: -4
  max_index: 4
  generation: lazy
  break_reach: 100
generator:
  layout: shallow
loader:
  yield_pause: 5ms
storage:
  backend: badger
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.World.Name)
	assert.Equal(t, int64(77), cfg.World.GetSeed())
	assert.True(t, cfg.World.Lazy())
	assert.Equal(t, 100.0, cfg.World.BreakReach)
	assert.Equal(t, "shallow", cfg.Generator.Layout)
	assert.Equal(t, 5*time.Millisecond, cfg.Loader.YieldPause)
	assert.Equal(t, "badger", cfg.Storage.Backend)
	// не заданные в файле поля остаются по умолчанию
	assert.Equal(t, 1600.0, cfg.World.VisibleRange)
	assert.Equal(t, 4, cfg.Storage.SaveWorkers)
	assert.True(t, cfg.Generator.CloudNoise)
}

func TestLoadFromEnvPath(t *testing.T) {
	path := writeConfig(t, "world:\n  name: from-env\n")
	t.Setenv("TERRA_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.World.Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world: [не карта"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "world:\n  min_index: 5\n  max_index: 1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestValidateRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"generation", func(c *Config) { c.World.Generation = "eager" }},
		{"layout", func(c *Config) { c.Generator.Layout = "deep" }},
		{"backend", func(c *Config) { c.Storage.Backend = "redis" }},
		{"visible_range", func(c *Config) { c.World.VisibleRange = 0 }},
		{"break_reach", func(c *Config) { c.World.BreakReach = -1 }},
		{"drain", func(c *Config) { c.Loader.DrainPerTick = 0 }},
		{"prefetch", func(c *Config) { c.Loader.PrefetchAhead = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("TERRA_DATA_DIR", "/tmp/terra")
	t.Setenv("TERRA_SEED", "123")
	t.Setenv("TERRA_METRICS_PORT", "9100")

	cfg := Default()
	assert.Equal(t, "/tmp/terra", cfg.World.GetDataDir())
	assert.Equal(t, int64(123), cfg.World.GetSeed())
	assert.Equal(t, 9100, cfg.Observability.GetMetricsPort())

	cfg.World.DataDir = "worlds"
	cfg.World.Seed = 5
	cfg.Observability.MetricsPort = 2112
	assert.Equal(t, "worlds", cfg.World.GetDataDir(), "значение из файла важнее env")
	assert.Equal(t, int64(5), cfg.World.GetSeed())
	assert.Equal(t, 2112, cfg.Observability.GetMetricsPort())
}

func TestDefaultsWithoutEnv(t *testing.T) {
	t.Setenv("TERRA_DATA_DIR", "")
	t.Setenv("TERRA_SEED", "not-a-number")
	t.Setenv("TERRA_METRICS_PORT", "")

	cfg := Default()
	assert.Equal(t, "data", cfg.World.GetDataDir())
	assert.Zero(t, cfg.World.GetSeed())
	assert.Zero(t, cfg.Observability.GetMetricsPort(), "метрики выключены")
}
