package httpapi

import (
	"net/http"

	"github.com/riskibarqy/score-predictor/internal/usecase"
)

func (h *Handler) UpsertPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpsertPrediction")
	defer span.End()

	var req upsertPredictionRequest
	if err := h.decodeBody(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictionService.Upsert(ctx, usecase.UpsertPredictionInput{
		UserID:    req.UserID,
		UserName:  req.UserName,
		MatchID:   req.MatchID,
		HomeScore: *req.HomeScore,
		AwayScore: *req.AwayScore,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "upsert prediction failed", "user_id", req.UserID, "match_id", req.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item, true))
}

func (h *Handler) ListMatchPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchPredictions")
	defer span.End()

	matchID := r.PathValue("matchID")
	items, err := h.predictionService.ListByMatch(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "list match predictions failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTO(items, false))
}

func (h *Handler) ListUserPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListUserPredictions")
	defer span.End()

	query := tournamentScopedQuery{OwnerID: r.PathValue("userID"), TournamentID: r.URL.Query().Get("tournament_id")}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.predictionService.ListByUserAndTournament(ctx, query.OwnerID, query.TournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list user predictions failed", "user_id", query.OwnerID, "tournament_id", query.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionsToDTO(items, true))
}

func (h *Handler) GetUserStatistics(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetUserStatistics")
	defer span.End()

	query := tournamentScopedQuery{OwnerID: r.PathValue("userID"), TournamentID: r.URL.Query().Get("tournament_id")}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.statisticsService.GetUserStatistics(ctx, query.OwnerID, query.TournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get user statistics failed", "user_id", query.OwnerID, "tournament_id", query.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, statisticsToDTO(summary))
}

func (h *Handler) GetRoomLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoomLeaderboard")
	defer span.End()

	query := tournamentScopedQuery{OwnerID: r.PathValue("roomID"), TournamentID: r.URL.Query().Get("tournament_id")}
	if err := h.validateRequest(ctx, query); err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.leaderboardService.ByRoom(ctx, query.OwnerID, query.TournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get room leaderboard failed", "room_id", query.OwnerID, "tournament_id", query.TournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, leaderboardToDTO(entries))
}
