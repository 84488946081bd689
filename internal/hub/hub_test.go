package hub

import (
	"strings"
	"testing"
	"time"

	"rehearsal-hub/internal/config"
	"rehearsal-hub/internal/logs"
	"rehearsal-hub/internal/store"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h := New(config.Default().Caches, logs.NewLogger(50, logs.DEBUG, nil))
	t.Cleanup(h.Close)
	return h
}

func TestHub_BuildsIndependentStores(t *testing.T) {
	h := newTestHub(t)

	assert.Equal(t, []string{config.Media, config.Messages, config.Songs, config.Users}, h.Names())

	users := h.MustGet(config.Users)
	messages := h.MustGet(config.Messages)
	assert.Equal(t, 200, users.Config().MaxSize)
	assert.Equal(t, 1000, messages.Config().MaxSize)
	assert.NotSame(t, users.Metrics(), messages.Metrics())

	require.NoError(t, users.Set("u1", "Grace"))
	_, ok := messages.Get("u1")
	assert.False(t, ok)

	_, ok = h.Get("unknown")
	assert.False(t, ok)
	assert.Panics(t, func() { h.MustGet("unknown") })
}

func TestHub_StatsAndClearAll(t *testing.T) {
	h := newTestHub(t)

	require.NoError(t, h.MustGet(config.Songs).Set("s1", "Way Maker"))
	require.NoError(t, h.MustGet(config.Users).Set("u1", "Grace"))

	stats := h.Stats()
	require.Len(t, stats, 4)
	assert.Equal(t, config.Media, stats[0].Name)
	assert.Equal(t, 1, stats[2].Size)

	h.ClearAll()
	for _, st := range h.Stats() {
		assert.Zero(t, st.Size, st.Name)
	}
}

func TestHub_RegisterExportsLabelledMetrics(t *testing.T) {
	h := newTestHub(t)
	songs := h.MustGet(config.Songs)
	require.NoError(t, songs.Set("s1", "Way Maker"))
	_, _ = songs.Get("s1")

	reg := prometheus.NewRegistry()
	require.NoError(t, h.Register(reg))

	expected := `
# HELP rehearsal_hub_cache_hits_total Rehearsal hub metric cache_hits_total
# TYPE rehearsal_hub_cache_hits_total counter
rehearsal_hub_cache_hits_total{cache="songs"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "rehearsal_hub_cache_hits_total"))
}

func TestHub_CloseDestroysStores(t *testing.T) {
	profiles := map[string]store.Config{"users": store.DefaultConfig()}
	h := New(profiles, logs.NewLogger(10, logs.DEBUG, nil), store.WithClock(time.Now))

	users := h.MustGet("users")
	h.Close()

	assert.ErrorIs(t, users.Set("k", "v"), store.ErrDestroyed)
	assert.Empty(t, h.Names())
}
