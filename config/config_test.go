package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchpipe/fetchpipe"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fetchpipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, cfg.Transport.Timeout)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "fetchpipe.Client", cfg.Cache.Name)
	assert.Equal(t, 0, cfg.Cache.CountLimit)
	assert.False(t, cfg.GraphQL.Enabled)
	assert.False(t, cfg.Debug.Enabled)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
transport:
  timeout: 5
cache:
  countlimit: 64
  costlimit: 1048576
graphql:
  enabled: true
`)

	cfg, err := NewLoader("", path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Transport.Timeout)
	assert.Equal(t, 64, cfg.Cache.CountLimit)
	assert.Equal(t, 1048576, cfg.Cache.CostLimit)
	assert.True(t, cfg.GraphQL.Enabled)
	// Untouched keys keep their defaults.
	assert.True(t, cfg.Cache.Enabled)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "cache:\n  countlimit: 64\n")
	t.Setenv("FETCHPIPE_CACHE__COUNTLIMIT", "7")
	t.Setenv("FETCHPIPE_DEBUG__ENABLED", "true")

	cfg, err := NewLoader("FETCHPIPE", path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Cache.CountLimit)
	assert.True(t, cfg.Debug.Enabled)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader("", filepath.Join(t.TempDir(), "absent.yaml")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadCancelledContext(t *testing.T) {
	path := writeConfigFile(t, "cache:\n  enabled: true\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader("", path).Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptionsRenderConfiguredClient(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.CountLimit = 8
	cfg.Cache.CostLimit = 512
	cfg.GraphQL.Enabled = true

	client := fetchpipe.New(cfg.Options()...)
	require.True(t, client.IsValid())

	mc, ok := client.Cache().(*fetchpipe.MemoryCache)
	require.True(t, ok)
	assert.Equal(t, 8, mc.CountLimit())
	assert.Equal(t, 512, mc.TotalCostLimit())
	assert.Equal(t, "fetchpipe.Client", mc.Name())
}

func TestOptionsDisabledCache(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cache.Enabled = false

	client := fetchpipe.New(cfg.Options()...)
	require.True(t, client.IsValid())
	assert.Nil(t, client.Cache())
}

func TestOptionsDebug(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debug.Enabled = true
	cfg.Debug.LogCache = false

	client := fetchpipe.New(cfg.Options()...)
	assert.True(t, client.IsValid())
}
