package httpapi

import (
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/sports-tournament/internal/domain/user"
	"github.com/riskibarqy/sports-tournament/internal/usecase"
)

func (h *Handler) CreateScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateScore")
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !user.CanCreateScore(principal) {
		writeError(ctx, w, forbidden("creating a score record"))
		return
	}

	var req createScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	gameID := strings.TrimSpace(r.PathValue("gameID"))
	record, err := h.scoreService.Create(ctx, usecase.CreateScoreInput{
		GameID:        gameID,
		Status:        req.Status,
		ScorekeeperID: req.ScorekeeperID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create score record failed", "game_id", gameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoreRecordToDTO(record))
}

func (h *Handler) GetScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScore", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	view, err := h.scoreService.Get(ctx, r.PathValue("scoreID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreViewToDTO(view))
}

func (h *Handler) GetScoreByGame(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreByGame")
	defer span.End()

	view, err := h.scoreService.GetByGame(ctx, r.PathValue("gameID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreViewToDTO(view))
}

func (h *Handler) ListScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScores")
	defer span.End()

	query := r.URL.Query()
	records, err := h.scoreService.List(ctx, usecase.ListScoresInput{
		Status:       query.Get("status"),
		SportEventID: query.Get("sport_event_id"),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list score records failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreRecordsToDTO(records))
}

func (h *Handler) ListLiveScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLiveScores")
	defer span.End()

	records, err := h.scoreService.ListLive(ctx, r.URL.Query().Get("sport_event_id"))
	if err != nil {
		h.logger.ErrorContext(ctx, "list live scores failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreRecordsToDTO(records))
}

func (h *Handler) UpdateScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScore", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreID := r.PathValue("scoreID")
	record, err := h.scoreService.Update(ctx, usecase.UpdateScoreInput{
		ScoreID:         scoreID,
		Status:          req.Status,
		FinalScoreSide1: req.FinalScoreSide1,
		FinalScoreSide2: req.FinalScoreSide2,
		Guard:           editGuard(principal),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update score record failed", "score_id", scoreID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreRecordToDTO(record))
}

func (h *Handler) CreateScoreDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateScoreDetail", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req detailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreID := r.PathValue("scoreID")
	record, detail, err := h.scoreService.RecordDetail(ctx, usecase.DetailInput{
		ScoreID:      scoreID,
		TeamID:       req.TeamID,
		PlayerID:     req.PlayerID,
		AssistedByID: req.AssistedByID,
		Points:       req.Points,
		EventType:    req.EventType,
		Minute:       req.Minute,
		Period:       req.Period,
		Description:  req.Description,
		ActorID:      principal.UserID,
		Guard:        editGuard(principal),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record score detail failed", "score_id", scoreID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	detailDTO := scoreDetailToDTO(detail)
	writeSuccess(ctx, w, http.StatusCreated, detailWriteDTO{Record: scoreRecordToDTO(record), Detail: &detailDTO})
}

func (h *Handler) UpdateScoreDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScoreDetail", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateDetailRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreID, detailID := r.PathValue("scoreID"), r.PathValue("detailID")
	record, detail, err := h.scoreService.UpdateDetail(ctx, usecase.UpdateDetailInput{
		ScoreID:      scoreID,
		DetailID:     detailID,
		TeamID:       req.TeamID,
		PlayerID:     req.PlayerID,
		AssistedByID: req.AssistedByID,
		Points:       req.Points,
		EventType:    req.EventType,
		Minute:       req.Minute,
		Period:       req.Period,
		Description:  req.Description,
		Guard:        editGuard(principal),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update score detail failed", "score_id", scoreID, "detail_id", detailID, "error", err)
		writeError(ctx, w, err)
		return
	}

	detailDTO := scoreDetailToDTO(detail)
	writeSuccess(ctx, w, http.StatusOK, detailWriteDTO{Record: scoreRecordToDTO(record), Detail: &detailDTO})
}

func (h *Handler) DeleteScoreDetail(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteScoreDetail", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreID, detailID := r.PathValue("scoreID"), r.PathValue("detailID")
	record, err := h.scoreService.DeleteDetail(ctx, scoreID, detailID, editGuard(principal))
	if err != nil {
		h.logger.WarnContext(ctx, "delete score detail failed", "score_id", scoreID, "detail_id", detailID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, detailWriteDTO{Record: scoreRecordToDTO(record)})
}

func (h *Handler) AssignScorekeeper(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AssignScorekeeper", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !user.CanAssignScorekeeper(principal) {
		writeError(ctx, w, forbidden("assigning a scorekeeper"))
		return
	}

	var req assignScorekeeperRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreID := r.PathValue("scoreID")
	record, err := h.scoreService.AssignScorekeeper(ctx, usecase.AssignScorekeeperInput{
		ScoreID:       scoreID,
		ScorekeeperID: req.ScorekeeperID,
		ActorID:       principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "assign scorekeeper failed", "score_id", scoreID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreRecordToDTO(record))
}

func (h *Handler) VerifyScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.VerifyScore", attribute.String("score.id", r.PathValue("scoreID")))
	defer span.End()

	principal, err := requirePrincipal(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if !user.CanVerifyScore(principal) {
		writeError(ctx, w, forbidden("verifying a score record"))
		return
	}

	var req verifyScoreRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scoreID := r.PathValue("scoreID")
	result, err := h.scoreService.Verify(ctx, usecase.VerifyInput{
		ScoreID:  scoreID,
		Verified: *req.Verified,
		Status:   req.VerificationStatus,
		Notes:    req.Notes,
		ActorID:  principal.UserID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "verify score record failed", "score_id", scoreID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, verifyScoreDTO{
		Record:        scoreRecordToDTO(result.Record),
		Recalculation: result.Recalculation,
	})
}
