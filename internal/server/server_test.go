package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarot-bot/internal/cache"
	"tarot-bot/internal/models"
	"tarot-bot/pkg/logger"
)

type staticStats map[models.ReadingType]cache.Stats

func (s staticStats) Stats() map[models.ReadingType]cache.Stats { return s }

type sessionCount int

func (n sessionCount) Len() int { return int(n) }

type usageCounts struct {
	counts map[models.ReadingType]int64
	err    error
}

func (u usageCounts) CountUsage(_ context.Context, kind models.ReadingType) (int64, error) {
	return u.counts[kind], u.err
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestLiveness(t *testing.T) {
	h := NewRouter(Sources{}, logger.NewNop())

	code, body := get(t, h, "/")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bot is alive!", body)

	code, body = get(t, h, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body)

	code, _ = get(t, h, "/stats")
	assert.Equal(t, http.StatusNotFound, code)
}

type report struct {
	Cache    map[string]cache.Stats `json:"cache"`
	Sessions *int                   `json:"sessions"`
	Usage    map[string]int64       `json:"usage"`
}

func TestStats(t *testing.T) {
	h := NewRouter(Sources{
		Cache: staticStats{
			models.ReadingTarot: {Entries: 2, Hits: 5, Misses: 2},
			models.ReadingChart: {Entries: 1, Hits: 0, Misses: 1},
		},
		Sessions: sessionCount(3),
		Usage: usageCounts{counts: map[models.ReadingType]int64{
			models.ReadingTarot: 7,
			models.ReadingChart: 1,
		}},
	}, logger.NewNop())

	code, body := get(t, h, "/stats")
	require.Equal(t, http.StatusOK, code)

	var got report
	require.NoError(t, json.Unmarshal([]byte(body), &got))
	assert.Equal(t, cache.Stats{Entries: 2, Hits: 5, Misses: 2}, got.Cache["tarot"])
	assert.Equal(t, int64(1), got.Cache["chart"].Misses)
	require.NotNil(t, got.Sessions)
	assert.Equal(t, 3, *got.Sessions)
	assert.Equal(t, map[string]int64{"tarot": 7, "chart": 1}, got.Usage)
}

func TestStatsWithoutUsageLog(t *testing.T) {
	h := NewRouter(Sources{Cache: staticStats{}}, logger.NewNop())

	code, body := get(t, h, "/stats")
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, body, "usage")
	assert.NotContains(t, body, "sessions")
}

func TestStatsUsageError(t *testing.T) {
	h := NewRouter(Sources{Usage: usageCounts{err: errors.New("db gone")}}, logger.NewNop())

	code, _ := get(t, h, "/stats")
	assert.Equal(t, http.StatusInternalServerError, code)
}
