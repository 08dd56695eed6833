package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func (h *Handler) UpdateMatchResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateMatchResult")
	defer span.End()

	matchID := r.PathValue("matchID")
	var req updateMatchResultRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.UpdateResult(ctx, usecase.UpdateMatchResultInput{
		MatchID:   matchID,
		Status:    req.Status,
		HomeScore: req.HomeScore,
		AwayScore: req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update match result failed", "match_id", matchID, "status", req.Status, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "match result updated",
		"match_id", result.Match.ID,
		"status", string(result.Match.Status),
		"rescored", result.Rescored,
	)
	writeSuccess(ctx, w, http.StatusOK, matchUpdateDTO{Match: matchToDTO(result.Match), Rescored: result.Rescored})
}

func (h *Handler) RescoreTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RescoreTournament")
	defer span.End()

	tournamentID := r.PathValue("tournamentID")
	query := rescoreQuery{Workers: h.rescoreWorkers}
	if raw := strings.TrimSpace(r.URL.Query().Get("workers")); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: workers must be an integer", usecase.ErrInvalidInput))
			return
		}
		query.Workers = workers
	}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.matchService.RescoreTournament(ctx, tournamentID, query.Workers)
	if err != nil {
		h.logger.ErrorContext(ctx, "rescore tournament failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rescoreToDTO(result))
}

func (h *Handler) DeletePredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeletePredictions")
	defer span.End()

	var req deletePredictionsRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	deleted, err := h.predictionService.Delete(ctx, req.IDs)
	if err != nil {
		h.logger.WarnContext(ctx, "delete predictions failed", "count", len(req.IDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, deletedDTO{Deleted: deleted})
}
