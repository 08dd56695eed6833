package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, metrics http.Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}", handler.GetTournament)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/matches", handler.ListTournamentMatches)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings", handler.GetStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/standings/third-place", handler.GetThirdPlaceStandings)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/leaderboard", handler.GetTournamentLeaderboard)
	mux.HandleFunc("GET /v1/rooms/{roomID}/leaderboard", handler.GetRoomLeaderboard)
	mux.HandleFunc("GET /v1/users/{userID}/statistics", handler.GetUserStatistics)
	mux.HandleFunc("GET /v1/users/{userID}/predictions", handler.ListUserPredictions)
	mux.HandleFunc("GET /v1/matches/{matchID}", handler.GetMatch)
	mux.HandleFunc("GET /v1/matches/{matchID}/predictions", handler.ListMatchPredictions)
	mux.HandleFunc("PUT /v1/predictions", handler.UpsertPrediction)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, adminToken string) {
	admin := func(h http.HandlerFunc) http.Handler { return RequireAdminToken(adminToken, h) }

	mux.Handle("PATCH /v1/admin/matches/{matchID}", admin(handler.UpdateMatchResult))
	mux.Handle("POST /v1/admin/tournaments/{tournamentID}/rescore", admin(handler.RescoreTournament))
	mux.Handle("DELETE /v1/admin/predictions", admin(handler.DeletePredictions))
}
