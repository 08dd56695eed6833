package httpapi

import (
	"context"
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/score-predictor/internal/platform/logging"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

// Services groups the use cases the handlers delegate to.
type Services struct {
	Tournaments *usecase.TournamentService
	Matches     *usecase.MatchService
	Predictions *usecase.PredictionService
	Standings   *usecase.StandingsService
	Statistics  *usecase.StatisticsService
	Leaderboard *usecase.LeaderboardService
}

type Handler struct {
	tournamentService  *usecase.TournamentService
	matchService       *usecase.MatchService
	predictionService  *usecase.PredictionService
	standingsService   *usecase.StandingsService
	statisticsService  *usecase.StatisticsService
	leaderboardService *usecase.LeaderboardService
	rescoreWorkers     int
	logger             *logging.Logger
	validator          *validator.Validate
}

// NewHandler builds the handler set. rescoreWorkers is the pool size used
// when a rescore request does not name one.
func NewHandler(services Services, rescoreWorkers int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService:  services.Tournaments,
		matchService:       services.Matches,
		predictionService:  services.Predictions,
		standingsService:   services.Standings,
		statisticsService:  services.Statistics,
		leaderboardService: services.Leaderboard,
		rescoreWorkers:     rescoreWorkers,
		logger:             logger,
		validator:          validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}
	return nil
}

// decodeBody reads a JSON body into dst, rejecting unknown fields, and
// validates it.
func (h *Handler) decodeBody(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigStd.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}
