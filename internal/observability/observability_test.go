package observability

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/config"
	"github.com/riskibarqy/score-predictor/internal/platform/cache"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracing_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  config.Config
	}{
		{name: "flag off", cfg: config.Config{UptraceEnabled: false, UptraceDSN: "https://token@api.uptrace.dev/1"}},
		{name: "missing dsn", cfg: config.Config{UptraceEnabled: true, UptraceDSN: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			shutdown, err := InitTracing(tt.cfg, logging.NewNop())
			if err != nil {
				t.Fatalf("unexpected init error: %v", err)
			}
			if err := shutdown(context.Background()); err != nil {
				t.Fatalf("unexpected shutdown error: %v", err)
			}
		})
	}
}

func TestStartProfiling_DisabledStopsCleanly(t *testing.T) {
	t.Parallel()

	p, err := StartProfiling(config.Config{}, logging.NewNop())
	if err != nil {
		t.Fatalf("unexpected start error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected stop error: %v", err)
	}

	var nilProfiling *Profiling
	if err := nilProfiling.Stop(context.Background()); err != nil {
		t.Fatalf("unexpected nil stop error: %v", err)
	}
}

func TestPprofMux_ServesIndex(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	pprofMux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusOK)
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_ExposesObservations(t *testing.T) {
	t.Parallel()

	m := NewMetrics()
	m.ObserveHTTP(http.MethodGet, "/v1/tournaments", http.StatusOK, 15*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "", http.StatusNotFound, time.Millisecond)
	m.ObserveMatchUpdate("FINISHED", 3)
	m.ObserveRescore(21, 40*time.Millisecond)
	m.ObservePublish("redis", nil)
	m.ObservePublish("redis", errors.New("down"))

	body := scrape(t, m)
	for _, want := range []string{
		`score_predictor_http_requests_total{method="GET",route="/v1/tournaments",status="200"} 1`,
		`score_predictor_http_requests_total{method="GET",route="unmatched",status="404"} 1`,
		`score_predictor_match_result_updates_total{status="FINISHED"} 1`,
		`score_predictor_predictions_rescored_total 24`,
		`score_predictor_broadcast_publish_total{driver="redis",outcome="error"} 1`,
		`score_predictor_broadcast_publish_total{driver="redis",outcome="ok"} 1`,
		`score_predictor_tournament_rescore_duration_seconds_count 1`,
		`go_goroutines`,
	} {
		assert.Contains(t, body, want)
	}
}

func TestMetrics_RegisterCacheReadsStoreStats(t *testing.T) {
	t.Parallel()

	store := cache.NewStore(time.Minute)
	m := NewMetrics()
	m.RegisterCache(store)

	ctx := context.Background()
	store.Get(ctx, "missing")
	store.Set(ctx, "present", 1)
	store.Get(ctx, "present")

	body := scrape(t, m)
	lines := map[string]bool{}
	for _, line := range strings.Split(body, "\n") {
		lines[line] = true
	}
	assert.True(t, lines["score_predictor_cache_hits_total 1"], "hits line missing")
	assert.True(t, lines["score_predictor_cache_misses_total 1"], "misses line missing")
	assert.True(t, lines["score_predictor_cache_entries 1"], "entries line missing")
}

func TestMetrics_AreIsolatedPerInstance(t *testing.T) {
	t.Parallel()

	a, b := NewMetrics(), NewMetrics()
	a.ObserveMatchUpdate("LIVE", 0)

	assert.NotContains(t, scrape(t, b), `match_result_updates_total{status="LIVE"}`)
}
