package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/sports-tournament/internal/domain/game"
	"github.com/riskibarqy/sports-tournament/internal/domain/sportevent"
	"github.com/riskibarqy/sports-tournament/internal/domain/team"
	"github.com/riskibarqy/sports-tournament/internal/domain/user"
	"github.com/riskibarqy/sports-tournament/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/sports-tournament/internal/platform/id"
	"github.com/riskibarqy/sports-tournament/internal/platform/logging"
	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

const testJobToken = "job-secret"

type staticVerifier map[string]user.Principal

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	p, ok := v[token]
	if !ok {
		return user.Principal{}, usecase.ErrUnauthorized
	}
	return p, nil
}

type envelope struct {
	APIVersion string         `json:"apiVersion"`
	Data       map[string]any `json:"data"`
	Error      *struct {
		Code   int    `json:"code"`
		Status string `json:"status"`
		Errors []struct {
			Reason   string `json:"reason"`
			Location string `json:"location"`
		} `json:"errors"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	games := []game.Game{
		{ID: "g-1", SportEventID: "se-1", ScorekeeperID: "keeper-1", Participants: []game.Participant{
			{TeamID: "team-a", Designation: game.DesignationHome},
			{TeamID: "team-b", Designation: game.DesignationAway},
		}},
	}
	scoreRepo := memory.NewScoreRepository()
	gameRepo := memory.NewGameRepository(games)
	teamRepo := memory.NewTeamRepository(
		[]team.Team{{ID: "team-a", Name: "Alpha"}, {ID: "team-b", Name: "Bravo"}},
		[]team.Player{{ID: "p-a1", TeamID: "team-a"}},
	)
	eventRepo := memory.NewSportEventRepository([]sportevent.SportEvent{{ID: "se-1", Name: "Futsal Open"}})
	boardRepo := memory.NewLeaderboardRepository(memory.NewGameResults(scoreRepo, gameRepo), &id.Sequence{Prefix: "lb-"})
	dispatchRepo := memory.NewJobDispatchRepository()

	logger := logging.NewNop()
	leaderboards := usecase.NewLeaderboardService(boardRepo, eventRepo, gameRepo, teamRepo, 2, logger)
	scores := usecase.NewScoreService(scoreRepo, gameRepo, teamRepo, usecase.NewInlineTrigger(leaderboards, logger), &id.Sequence{Prefix: "id-"}, logger)
	jobs := usecase.NewJobService(leaderboards, dispatchRepo, logger)

	verifier := staticVerifier{
		"admin":   {UserID: "admin-1", Role: user.RoleAdmin},
		"keeper":  {UserID: "keeper-1", Role: user.RoleScorekeeper},
		"keeper2": {UserID: "keeper-2", Role: user.RoleScorekeeper},
		"public":  {UserID: "u-9", Role: user.RolePublic},
	}
	return NewRouter(NewHandler(scores, leaderboards, jobs, logger), verifier, logger, RouterConfig{
		CORSAllowedOrigins: []string{"https://scores.example.com"},
		InternalJobToken:   testJobToken,
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	assert.Equal(t, "2.0", env.APIVersion)
	return rec.Code, env
}

func TestRouter_ScoreToLeaderboardFlow(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	code, env := do(t, h, http.MethodPost, "/v1/games/g-1/score", "admin", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusCreated, code)
	scoreID := env.Data["id"].(string)

	code, env = do(t, h, http.MethodPost, "/v1/scores/"+scoreID+"/details", "keeper",
		`{"team_id":"team-a","player_id":"p-a1","points":2,"event_type":"goal","minute":12}`)
	require.Equal(t, http.StatusCreated, code)
	assert.EqualValues(t, 2, env.Data["score"].(map[string]any)["final_score_side1"])

	code, _ = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID, "keeper", `{"status":"completed"}`)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID+"/verify", "admin", `{"verified":true}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "recalculated", env.Data["recalculation"].(map[string]any)["status"])

	code, env = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID+"/verify", "admin", `{}`)
	require.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "verified", env.Error.Errors[0].Location)

	code, env = do(t, h, http.MethodGet, "/v1/leaderboards/se-1", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Futsal Open", env.Data["sport_event_name"])
	entries := env.Data["entries"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)
	assert.Equal(t, "team-a", first["team_id"])
	assert.EqualValues(t, 3, first["points"])
	assert.EqualValues(t, 1, first["clean_sheets"])

	code, env = do(t, h, http.MethodGet, "/v1/scores/"+scoreID, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, env.Data["details"], 1)
	assert.Equal(t, "verified", env.Data["verification_status"])
}

func listScores(t *testing.T, h http.Handler, path string) (int, []map[string]any) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env.Data
}

func TestRouter_ScoreListingAndScorekeeperAssignment(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	code, env := do(t, h, http.MethodPost, "/v1/games/g-1/score", "admin", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusCreated, code)
	scoreID := env.Data["id"].(string)

	code, live := listScores(t, h, "/v1/scores/live")
	require.Equal(t, http.StatusOK, code)
	require.Len(t, live, 1)
	assert.Equal(t, scoreID, live[0]["id"])

	code, items := listScores(t, h, "/v1/scores?status=completed&sport_event_id=se-1")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, items)
	code, items = listScores(t, h, "/v1/scores?sport_event_id=se-1")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, items, 1)

	code, env = do(t, h, http.MethodGet, "/v1/scores?status=finished", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "status", env.Error.Errors[0].Location)

	code, _ = do(t, h, http.MethodPost, "/v1/scores/"+scoreID+"/scorekeeper", "keeper", `{"scorekeeper_id":"keeper-2"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, h, http.MethodPost, "/v1/scores/"+scoreID+"/scorekeeper", "admin", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "scorekeeper_id", env.Error.Errors[0].Location)

	code, env = do(t, h, http.MethodPost, "/v1/scores/"+scoreID+"/scorekeeper", "admin", `{"scorekeeper_id":"keeper-2"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "keeper-2", env.Data["scorekeeper_id"])

	code, _ = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID, "keeper2", `{"final_score_side1":1}`)
	assert.Equal(t, http.StatusOK, code, "newly assigned scorekeeper may edit")

	code, _ = do(t, h, http.MethodPost, "/v1/scores/missing/scorekeeper", "admin", `{"scorekeeper_id":"keeper-2"}`)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRouter_PermissionErrorsAreForbidden(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	code, env := do(t, h, http.MethodPost, "/v1/games/g-1/score", "keeper", `{}`)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PERMISSION_DENIED", env.Error.Status)

	code, env = do(t, h, http.MethodPost, "/v1/games/g-1/score", "admin", `{}`)
	require.Equal(t, http.StatusCreated, code)
	scoreID := env.Data["id"].(string)

	code, _ = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID, "keeper2", `{"status":"in_progress"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID+"/verify", "keeper", `{"verified":true}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, h, http.MethodPatch, "/v1/leaderboards/se-1/finalize", "public", `{}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID, "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "UNAUTHENTICATED", env.Error.Status)
}

func TestRouter_ValidationErrorsNameTheField(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)
	_, env := do(t, h, http.MethodPost, "/v1/games/g-1/score", "admin", `{}`)
	scoreID := env.Data["id"].(string)

	code, env := do(t, h, http.MethodPatch, "/v1/scores/"+scoreID, "admin", `{"status":"completed"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_ARGUMENT", env.Error.Status)
	assert.Equal(t, "status", env.Error.Errors[0].Location)

	code, env = do(t, h, http.MethodPatch, "/v1/scores/"+scoreID, "admin", `{"final_score_side1":-1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "final_score_side1", env.Error.Errors[0].Location)

	code, env = do(t, h, http.MethodPost, "/v1/scores/"+scoreID+"/details", "admin", `{"team_id":"team-a","event_type":"goal","points":0}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "points", env.Error.Errors[0].Location)

	code, _ = do(t, h, http.MethodPost, "/v1/scores/"+scoreID+"/details", "admin", `{"team_id":"team-a","bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, h, http.MethodPost, "/v1/games/g-1/score", "admin", `{}`)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_EXISTS", env.Error.Status)

	code, _ = do(t, h, http.MethodGet, "/v1/scores/missing", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, h, http.MethodGet, "/v1/leaderboards?is_final=maybe", "", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestRouter_InternalJobsRequireToken(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-leaderboard", strings.NewReader(`{"sport_event_id":"se-1"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-leaderboard", strings.NewReader(`{"sport_event_id":"se-1","dispatch_id":"d-1"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "no_results", env.Data["outcome"])

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/recalculate-leaderboard", strings.NewReader(`{"sport_event_id":"se-unknown","dispatch_id":"d-2"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/v1/internal/jobs/dispatches/failed", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"dispatch_id":"d-2"`)
}

func TestCORS(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/leaderboards", nil)
	req.Header.Set("Origin", "https://scores.example.com")
	rec := httptest.NewRecorder()
	CORS([]string{"https://scores.example.com"}, next).ServeHTTP(rec, req)
	assert.Equal(t, "https://scores.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	CORS([]string{"https://scores.example.com"}, next).ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/leaderboards", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rec = httptest.NewRecorder()
	CORS([]string{"*"}, next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestShouldTraceRequest(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"/healthz", " /readyz ", "/livez"} {
		assert.False(t, shouldTraceRequest(path), path)
	}
	for _, path := range []string{"/v1/leaderboards", "/v1/scores/s-1"} {
		assert.True(t, shouldTraceRequest(path), path)
	}
	assert.True(t, shouldCreateHTTPAPISpan("httpapi.Handler.GetScore"))
	assert.True(t, shouldCreateHTTPAPISpan("httpapi.RequireAuth"))
	assert.False(t, shouldCreateHTTPAPISpan("httpapi.writeJSON"))
}

func TestResolveClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", resolveClientIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.2:5123"
	assert.Equal(t, "198.51.100.2", resolveClientIP(req))
}

func TestWithPrincipalRoundTrip(t *testing.T) {
	t.Parallel()

	_, ok := principalFromContext(context.Background())
	assert.False(t, ok)

	ctx := withPrincipal(context.Background(), user.Principal{UserID: "u-1", Role: user.RoleScorekeeper})
	p, ok := principalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "u-1", p.UserID)
	assert.Equal(t, user.RoleScorekeeper, p.Role)
}
