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
	path := filepath.Join(t.TempDir(), "hub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.ElementsMatch(t, []string{Users, Messages, Songs, Media}, keys(cfg.Caches))
	assert.NotEqual(t, cfg.Caches[Users].DefaultTTL, cfg.Caches[Messages].DefaultTTL,
		"domains get independent profiles")
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysFile(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
log:
  level: DEBUG
caches:
  users:
    max_size: 50
    tiers:
      entity: 1m
  rehearsals:
    default_ttl: 45s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout, "unset fields keep defaults")
	assert.Equal(t, "DEBUG", cfg.Log.Level)
	assert.Equal(t, 1000, cfg.Log.BufferSize)

	users := cfg.Caches[Users]
	assert.Equal(t, 50, users.MaxSize)
	assert.Equal(t, time.Minute, users.Tiers.Entity)
	assert.Equal(t, Default().Caches[Users].DefaultTTL, users.DefaultTTL)
	assert.Equal(t, Default().Caches[Users].Tiers.Blob, users.Tiers.Blob)

	rehearsals, ok := cfg.Caches["rehearsals"]
	require.True(t, ok)
	assert.Equal(t, 45*time.Second, rehearsals.DefaultTTL)
	assert.Equal(t, 500, rehearsals.MaxSize)

	assert.Contains(t, cfg.Caches, Songs)
}

func TestLoad_RejectsInvalidProfile(t *testing.T) {
	path := writeConfig(t, `
caches:
  media:
    max_size: 0
    evict_fraction: 1.5
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cache "media"`)
	assert.Contains(t, err.Error(), "max_size must be positive")
	assert.Contains(t, err.Error(), "evict_fraction")
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "http: [not, a, map"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "caches:\n  users:\n    default_ttl: forever\n"))
	assert.ErrorContains(t, err, `parse cache "users"`)
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
