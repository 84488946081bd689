package hub

import (
	"context"
	"errors"
	"testing"

	"rehearsal-hub/internal/config"
	"rehearsal-hub/internal/health"
	"rehearsal-hub/internal/logs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoize_UsesNamedStore(t *testing.T) {
	h := newTestHub(t)

	fetch, err := Memoize(h, config.Songs, func(id string) string { return "song:" + id },
		func(ctx context.Context, id string) (string, error) { return "lyrics for " + id, nil })
	require.NoError(t, err)

	v, err := fetch(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "lyrics for s1", v)

	cached, ok := h.MustGet(config.Songs).Get("song:s1")
	require.True(t, ok)
	assert.Equal(t, "lyrics for s1", cached)
}

func TestMemoize_UnknownCache(t *testing.T) {
	h := newTestHub(t)

	_, err := Memoize(h, "nope", func(id string) string { return id },
		func(ctx context.Context, id string) (string, error) { return id, nil })
	assert.Error(t, err)
}

func TestMemoize_FailuresReachHealthAnalyzer(t *testing.T) {
	logger := logs.NewLogger(50, logs.DEBUG, nil)
	h := New(config.Default().Caches, logger)
	t.Cleanup(h.Close)

	fetch, err := Memoize(h, config.Media, func(id string) string { return id },
		func(ctx context.Context, id string) ([]byte, error) { return nil, errors.New("cdn timeout") })
	require.NoError(t, err)

	for _, id := range []string{"a", "b", "c"} {
		_, err := fetch(context.Background(), id)
		require.Error(t, err)
	}

	report := health.NewAnalyzer(h, logger).Analyze()
	assert.Equal(t, health.StatusDegraded, report.OverallStatus)
}
