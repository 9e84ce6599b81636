package httpapi

import (
	"net/http"

	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/scores", handler.ListScores)
	mux.HandleFunc("GET /v1/scores/live", handler.ListLiveScores)
	mux.HandleFunc("GET /v1/scores/{scoreID}", handler.GetScore)
	mux.HandleFunc("GET /v1/games/{gameID}/score", handler.GetScoreByGame)
	mux.HandleFunc("GET /v1/leaderboards", handler.ListLeaderboards)
	mux.HandleFunc("GET /v1/leaderboards/{sportEventID}", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/teams/{teamID}/standings", handler.ListTeamStandings)
}

func registerScoreRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/games/{gameID}/score", RequireAuth(verifier, http.HandlerFunc(handler.CreateScore)))
	mux.Handle("PATCH /v1/scores/{scoreID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateScore)))
	mux.Handle("POST /v1/scores/{scoreID}/details", RequireAuth(verifier, http.HandlerFunc(handler.CreateScoreDetail)))
	mux.Handle("PATCH /v1/scores/{scoreID}/details/{detailID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateScoreDetail)))
	mux.Handle("DELETE /v1/scores/{scoreID}/details/{detailID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteScoreDetail)))
	mux.Handle("POST /v1/scores/{scoreID}/scorekeeper", RequireAuth(verifier, http.HandlerFunc(handler.AssignScorekeeper)))
	mux.Handle("PATCH /v1/scores/{scoreID}/verify", RequireAuth(verifier, http.HandlerFunc(handler.VerifyScore)))
}

func registerLeaderboardRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leaderboards/{sportEventID}/calculate", RequireAuth(verifier, http.HandlerFunc(handler.CalculateLeaderboard)))
	mux.Handle("PATCH /v1/leaderboards/{sportEventID}/finalize", RequireAuth(verifier, http.HandlerFunc(handler.FinalizeLeaderboard)))
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST "+usecase.RecalculateLeaderboardJobPath, RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculationJob)))
	mux.Handle("POST /v1/internal/jobs/recalculate-all", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRecalculateAllJob)))
	mux.Handle("GET /v1/internal/jobs/dispatches/failed", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ListFailedDispatches)))
}
