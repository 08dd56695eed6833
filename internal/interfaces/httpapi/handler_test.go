package httpapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

const testAdminToken = "s3cret"

type observedRequest struct {
	method, route string
	status        int
}

type recordingObserver struct {
	requests []observedRequest
}

func (o *recordingObserver) ObserveHTTP(method, route string, status int, _ time.Duration) {
	o.requests = append(o.requests, observedRequest{method: method, route: route, status: status})
}

func newTestRouter(t *testing.T, observer RequestObserver) http.Handler {
	t.Helper()

	seedMatches := memory.SeedMatches()
	matches := memory.NewMatchRepository(seedMatches)
	tournaments := memory.NewTournamentRepository(memory.SeedTournaments())
	rooms := memory.NewRoomRepository(memory.SeedRooms())
	predictions := memory.NewPredictionRepository(matches, memory.SeedPredictions(seedMatches))

	handler := NewHandler(Services{
		Tournaments: usecase.NewTournamentService(tournaments),
		Matches:     usecase.NewMatchService(tournaments, matches, predictions, nil, logging.NewNop()),
		Predictions: usecase.NewPredictionService(tournaments, matches, predictions),
		Standings:   usecase.NewStandingsService(tournaments, matches),
		Statistics:  usecase.NewStatisticsService(tournaments, predictions),
		Leaderboard: usecase.NewLeaderboardService(tournaments, rooms, predictions),
	}, 2, logging.NewNop())

	return NewRouter(handler, RouterConfig{
		Logger:     logging.NewNop(),
		AdminToken: testAdminToken,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, "metrics")
		}),
		Observer: observer,
	})
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       any            `json:"data"`
	Error      map[string]any `json:"error"`
}

func do(t *testing.T, router http.Handler, method, target, body string, headers ...string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var out envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func dataList(t *testing.T, env envelope) []any {
	t.Helper()
	items, ok := env.Data.([]any)
	require.True(t, ok, "expected list data, got %T", env.Data)
	return items
}

func dataObject(t *testing.T, env envelope) map[string]any {
	t.Helper()
	obj, ok := env.Data.(map[string]any)
	require.True(t, ok, "expected object data, got %T", env.Data)
	return obj
}

func TestRouter_PublicReads(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	tests := []struct {
		name   string
		target string
		status int
		count  int
	}{
		{name: "tournaments", target: "/v1/tournaments", status: http.StatusOK, count: 1},
		{name: "matches", target: "/v1/tournaments/euro-2024/matches", status: http.StatusOK, count: 18},
		{name: "standings groups", target: "/v1/tournaments/euro-2024/standings", status: http.StatusOK, count: 3},
		{name: "third place", target: "/v1/tournaments/euro-2024/standings/third-place", status: http.StatusOK, count: 3},
		{name: "leaderboard", target: "/v1/tournaments/euro-2024/leaderboard", status: http.StatusOK, count: 3},
		{name: "room leaderboard", target: "/v1/rooms/room-office/leaderboard?tournament_id=euro-2024", status: http.StatusOK, count: 2},
		{name: "match predictions", target: "/v1/matches/euro-2024-01/predictions", status: http.StatusOK, count: 3},
		{name: "user predictions", target: "/v1/users/user-ana/predictions?tournament_id=euro-2024", status: http.StatusOK, count: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, env := do(t, router, http.MethodGet, tt.target, "")
			if status != tt.status {
				t.Fatalf("unexpected status: got=%d want=%d", status, tt.status)
			}
			assert.Equal(t, googleAPIVersion, env.APIVersion)
			assert.Len(t, dataList(t, env), tt.count)
		})
	}
}

func TestRouter_GetMatchAndTournament(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	status, env := do(t, router, http.MethodGet, "/v1/matches/euro-2024-11", "")
	require.Equal(t, http.StatusOK, status)
	m := dataObject(t, env)
	assert.Equal(t, "Live", m["status"])
	assert.EqualValues(t, 0, m["home_score"])
	assert.EqualValues(t, 1, m["away_score"])

	status, env = do(t, router, http.MethodGet, "/v1/matches/euro-2024-05", "")
	require.Equal(t, http.StatusOK, status)
	assert.Nil(t, dataObject(t, env)["home_score"])

	status, env = do(t, router, http.MethodGet, "/v1/tournaments/euro-2024", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "UEFA Euro 2024", dataObject(t, env)["name"])
}

func TestRouter_NotFoundEnvelope(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	for _, target := range []string{"/v1/tournaments/nope", "/v1/matches/nope", "/v1/tournaments/nope/standings"} {
		status, env := do(t, router, http.MethodGet, target, "")
		if status != http.StatusNotFound {
			t.Fatalf("unexpected status for %s: got=%d want=%d", target, status, http.StatusNotFound)
		}
		assert.Equal(t, "NOT_FOUND", env.Error["status"])
	}
}

func TestRouter_StatisticsRequiresTournament(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	status, env := do(t, router, http.MethodGet, "/v1/users/user-ana/statistics", "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error["status"])

	status, env = do(t, router, http.MethodGet, "/v1/users/user-ana/statistics?tournament_id=euro-2024", "")
	require.Equal(t, http.StatusOK, status)
	summary := dataObject(t, env)
	assert.EqualValues(t, 5, summary["total"])
	assert.Contains(t, summary, "top_five_favorite_teams")
}

func TestRouter_UpsertPrediction(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "scheduled match", body: `{"user_id":"user-dewi","user_name":"Dewi","match_id":"euro-2024-06","home_score":1,"away_score":1}`, status: http.StatusOK},
		{name: "finished match", body: `{"user_id":"user-dewi","match_id":"euro-2024-01","home_score":1,"away_score":1}`, status: http.StatusConflict},
		{name: "missing score", body: `{"user_id":"user-dewi","match_id":"euro-2024-06","home_score":1}`, status: http.StatusBadRequest},
		{name: "negative score", body: `{"user_id":"user-dewi","match_id":"euro-2024-06","home_score":-1,"away_score":0}`, status: http.StatusBadRequest},
		{name: "unknown field", body: `{"user_id":"user-dewi","match_id":"euro-2024-06","home_score":1,"away_score":0,"extra":true}`, status: http.StatusBadRequest},
		{name: "unknown match", body: `{"user_id":"user-dewi","match_id":"nope","home_score":1,"away_score":0}`, status: http.StatusNotFound},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, env := do(t, router, http.MethodPut, "/v1/predictions", tt.body, "Content-Type", "application/json")
			if status != tt.status {
				t.Fatalf("unexpected status: got=%d want=%d error=%v", status, tt.status, env.Error)
			}
		})
	}
}

func TestRouter_LivePredictionIsScoredImmediately(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	status, env := do(t, router, http.MethodPut, "/v1/predictions",
		`{"user_id":"user-dewi","match_id":"euro-2024-11","home_score":0,"away_score":1}`)
	require.Equal(t, http.StatusOK, status)

	score, ok := dataObject(t, env)["score"].(map[string]any)
	require.True(t, ok, "expected score object")
	assert.EqualValues(t, 8, score["points"])
	assert.Equal(t, true, score["correct_score"])
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	body := `{"status":"Finished","home_score":2,"away_score":1}`

	status, _ := do(t, router, http.MethodPatch, "/v1/admin/matches/euro-2024-05", body)
	require.Equal(t, http.StatusUnauthorized, status)

	status, _ = do(t, router, http.MethodPatch, "/v1/admin/matches/euro-2024-05", body, adminTokenHeader, "wrong")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestRouter_AdminUpdateAndRescore(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	auth := []string{adminTokenHeader, testAdminToken}

	status, env := do(t, router, http.MethodPatch, "/v1/admin/matches/euro-2024-05",
		`{"status":"Finished","home_score":2,"away_score":1}`, auth...)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.EqualValues(t, 3, dataObject(t, env)["rescored_predictions"])

	status, env = do(t, router, http.MethodPatch, "/v1/admin/matches/euro-2024-06", `{"status":"Finished"}`, auth...)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error["status"])

	status, env = do(t, router, http.MethodPost, "/v1/admin/tournaments/euro-2024/rescore?workers=3", "", auth...)
	require.Equal(t, http.StatusOK, status, env.Error)
	result := dataObject(t, env)
	assert.EqualValues(t, 3, result["worker_count"])
	assert.EqualValues(t, 18, result["match_count"])
	assert.EqualValues(t, 21, result["prediction_count"])

	status, _ = do(t, router, http.MethodPost, "/v1/admin/tournaments/euro-2024/rescore?workers=99", "", auth...)
	require.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, router, http.MethodPost, "/v1/admin/tournaments/euro-2024/rescore", "", auth...)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, dataObject(t, env)["worker_count"])
}

func TestRouter_AdminDeletePredictions(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)
	auth := []string{adminTokenHeader, testAdminToken}

	status, env := do(t, router, http.MethodDelete, "/v1/admin/predictions",
		`{"ids":["pred-user-ana-euro-2024-01","pred-user-ana-euro-2024-01"]}`, auth...)
	require.Equal(t, http.StatusOK, status, env.Error)
	assert.EqualValues(t, 1, dataObject(t, env)["deleted"])

	status, _ = do(t, router, http.MethodDelete, "/v1/admin/predictions", `{"ids":[]}`, auth...)
	require.Equal(t, http.StatusBadRequest, status)

	status, env = do(t, router, http.MethodGet, "/v1/matches/euro-2024-01/predictions", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, dataList(t, env), 2)
}

func TestRouter_AdminWithoutConfiguredToken(t *testing.T) {
	t.Parallel()

	handler := NewHandler(Services{}, 1, logging.NewNop())
	router := NewRouter(handler, RouterConfig{Logger: logging.NewNop()})

	status, env := do(t, router, http.MethodDelete, "/v1/admin/predictions", `{"ids":["a"]}`, adminTokenHeader, "anything")
	require.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "UNAVAILABLE", env.Error["status"])
}

func TestRouter_SystemRoutesAndObserver(t *testing.T) {
	t.Parallel()

	observer := &recordingObserver{}
	router := newTestRouter(t, observer)

	status, env := do(t, router, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"status": "ok"}, env.Data)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())

	status, _ = do(t, router, http.MethodGet, "/v1/nowhere", "")
	require.Equal(t, http.StatusNotFound, status)

	require.Len(t, observer.requests, 3)
	assert.Equal(t, observedRequest{method: http.MethodGet, route: "GET /healthz", status: http.StatusOK}, observer.requests[0])
	assert.Equal(t, "GET /metrics", observer.requests[1].route)
	assert.Equal(t, observedRequest{method: http.MethodGet, route: "", status: http.StatusNotFound}, observer.requests[2])
}
