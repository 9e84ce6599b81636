package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-tournament/internal/domain/leaderboard"
	"github.com/riskibarqy/sports-tournament/internal/domain/user"
	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard", attribute.String("sport_event.id", r.PathValue("sportEventID")))
	defer span.End()

	view, err := h.leaderboardService.Get(ctx, r.PathValue("sportEventID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardViewToDTO(view))
}

func (h *Handler) ListLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeaderboards")
	defer span.End()

	var filter leaderboard.ListFilter
	if raw := strings.TrimSpace(r.URL.Query().Get("is_final")); raw != "" {
		isFinal, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: is_final must be a boolean", usecase.ErrInvalidInput))
			return
		}
		filter.IsFinal = &isFinal
	}

	items, err := h.leaderboardService.List(ctx, filter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list leaderboards failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]leaderboardSummaryDTO, 0, len(items))
	for _, lb := range items {
		out = append(out, leaderboardSummaryToDTO(lb))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListTeamStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamStandings")
	defer span.End()

	teamID := r.PathValue("teamID")
	items, err := h.leaderboardService.ListTeamStandings(ctx, teamID)
	if err != nil {
		h.logger.WarnContext(ctx, "list team standings failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamStandingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, teamStandingToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CalculateLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CalculateLeaderboard", attribute.String("sport_event.id", r.PathValue("sportEventID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !user.CanManageLeaderboard(principal) {
		writeError(ctx, w, forbidden("recalculating a leaderboard"))
		return
	}

	sportEventID := r.PathValue("sportEventID")
	result, err := h.leaderboardService.Recalculate(ctx, sportEventID)
	if err != nil {
		h.logger.ErrorContext(ctx, "forced leaderboard recalculation failed", "sport_event_id", sportEventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) FinalizeLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.FinalizeLeaderboard", attribute.String("sport_event.id", r.PathValue("sportEventID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !user.CanManageLeaderboard(principal) {
		writeError(ctx, w, forbidden("finalizing a leaderboard"))
		return
	}

	var req finalizeLeaderboardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	isFinal := true
	if req.IsFinal != nil {
		isFinal = *req.IsFinal
	}

	sportEventID := r.PathValue("sportEventID")
	lb, err := h.leaderboardService.SetFinal(ctx, sportEventID, isFinal)
	if err != nil {
		h.logger.WarnContext(ctx, "finalize leaderboard failed", "sport_event_id", sportEventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardSummaryToDTO(lb))
}
