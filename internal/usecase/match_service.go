package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
	"github.com/riskibarqy/score-predictor/internal/platform/logging"
)

const (
	defaultRescoreWorkers = 4
	maxRescoreWorkers     = 32
)

// MatchEventPublisher fans match updates out to realtime subscribers.
type MatchEventPublisher interface {
	PublishMatchUpdated(ctx context.Context, event match.UpdatedEvent) error
}

// MatchObserver records outcomes of result updates and rescoring runs.
type MatchObserver interface {
	ObserveMatchUpdate(status string, rescored int)
	ObserveRescore(predictions int, elapsed time.Duration)
}

type nopMatchObserver struct{}

func (nopMatchObserver) ObserveMatchUpdate(string, int)    {}
func (nopMatchObserver) ObserveRescore(int, time.Duration) {}

type UpdateMatchResultInput struct {
	MatchID   string
	Status    string
	HomeScore *int
	AwayScore *int
}

type MatchUpdateResult struct {
	Match    match.Match
	Rescored int
}

type MatchRescoreResult struct {
	MatchID     string
	Predictions int
	Error       string
}

type RescoreResult struct {
	TournamentID    string
	WorkerCount     int
	MatchCount      int
	PredictionCount int
	FailedCount     int
	Matches         []MatchRescoreResult
}

type MatchService struct {
	tournamentRepo tournament.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	publisher      MatchEventPublisher
	observer       MatchObserver
	logger         *logging.Logger
	now            func() time.Time
}

func NewMatchService(
	tournamentRepo tournament.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
	publisher MatchEventPublisher,
	logger *logging.Logger,
) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		publisher:      publisher,
		observer:       nopMatchObserver{},
		logger:         logger,
		now:            time.Now,
	}
}

// SetObserver replaces the observer; nil restores the no-op one.
func (s *MatchService) SetObserver(observer MatchObserver) {
	if observer == nil {
		observer = nopMatchObserver{}
	}
	s.observer = observer
}

func (s *MatchService) GetByID(ctx context.Context, matchID string) (match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetByID", matchAttr(matchID))
	defer span.End()

	return requireMatch(ctx, s.matchRepo, matchID)
}

func (s *MatchService) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListByTournament", tournamentAttr(tournamentID))
	defer span.End()

	item, err := requireTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list matches by tournament: %w", err)
	}
	return matches, nil
}

// UpdateResult persists a result change, rescores every prediction of the
// match and publishes the update. A failed publish is logged only.
func (s *MatchService) UpdateResult(ctx context.Context, input UpdateMatchResultInput) (MatchUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.UpdateResult", matchAttr(input.MatchID))
	defer span.End()

	matchID := strings.TrimSpace(input.MatchID)
	if matchID == "" {
		return MatchUpdateResult{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}
	status, err := match.ParseStatus(input.Status)
	if err != nil {
		return MatchUpdateResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := match.ValidateResult(status, input.HomeScore, input.AwayScore); err != nil {
		return MatchUpdateResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	updated, exists, err := s.matchRepo.UpdateResult(ctx, match.ResultUpdate{
		MatchID:   matchID,
		Status:    status,
		HomeScore: input.HomeScore,
		AwayScore: input.AwayScore,
	})
	if err != nil {
		return MatchUpdateResult{}, fmt.Errorf("update match result: %w", err)
	}
	if !exists {
		return MatchUpdateResult{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}

	rescored, err := s.rescoreMatch(ctx, updated)
	if err != nil {
		return MatchUpdateResult{}, err
	}
	span.SetAttributes(
		attribute.String("match.id", updated.ID),
		attribute.String("match.status", string(updated.Status)),
		attribute.Int("match.rescored", rescored),
	)

	s.observer.ObserveMatchUpdate(string(updated.Status), rescored)
	s.publish(ctx, match.NewUpdatedEvent(updated, rescored, s.now()))

	return MatchUpdateResult{Match: updated, Rescored: rescored}, nil
}

// RescoreTournament recomputes the score of every prediction in a tournament,
// one pool task per match. Individual match failures are reported in the
// result rather than aborting the run.
func (s *MatchService) RescoreTournament(ctx context.Context, tournamentID string, workers int) (RescoreResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.RescoreTournament", tournamentAttr(tournamentID))
	defer span.End()

	item, err := requireTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return RescoreResult{}, err
	}

	matches, err := s.matchRepo.ListByTournament(ctx, item.ID)
	if err != nil {
		return RescoreResult{}, fmt.Errorf("list matches by tournament: %w", err)
	}

	workerCount := normalizeRescoreWorkers(workers, len(matches))
	result := RescoreResult{
		TournamentID: item.ID,
		WorkerCount:  workerCount,
		MatchCount:   len(matches),
		Matches:      make([]MatchRescoreResult, 0, len(matches)),
	}
	if len(matches) == 0 {
		return result, nil
	}

	started := s.now()
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RescoreResult{}, fmt.Errorf("create rescore pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan MatchRescoreResult, len(matches))
	var predictionCount atomic.Int64
	var failedCount atomic.Int64

	var wg sync.WaitGroup
	for _, m := range matches {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			row := MatchRescoreResult{MatchID: m.ID}
			count, err := s.rescoreMatch(ctx, m)
			if err != nil {
				failedCount.Add(1)
				row.Error = err.Error()
				s.logger.WarnContext(ctx, "rescore match failed", "match_id", m.ID, "error", err)
			}
			row.Predictions = count
			predictionCount.Add(int64(count))
			rows <- row
		}); err != nil {
			wg.Done()
			return RescoreResult{}, fmt.Errorf("submit rescore task: %w", err)
		}
	}

	wg.Wait()
	close(rows)

	for row := range rows {
		result.Matches = append(result.Matches, row)
	}
	sort.Slice(result.Matches, func(i, j int) bool {
		return result.Matches[i].MatchID < result.Matches[j].MatchID
	})
	result.PredictionCount = int(predictionCount.Load())
	result.FailedCount = int(failedCount.Load())
	s.observer.ObserveRescore(result.PredictionCount, s.now().Sub(started))

	s.logger.InfoContext(ctx, "tournament rescored",
		"tournament_id", item.ID,
		"matches", result.MatchCount,
		"predictions", result.PredictionCount,
		"failed", result.FailedCount,
		"workers", workerCount,
	)
	return result, nil
}

// rescoreMatch recomputes the score of every prediction for m. Predictions of
// a match that has not started are cleared.
func (s *MatchService) rescoreMatch(ctx context.Context, m match.Match) (int, error) {
	items, err := s.predictionRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return 0, fmt.Errorf("list predictions by match: %w", err)
	}
	if len(items) == 0 {
		return 0, nil
	}

	updates := make([]prediction.ScoreUpdate, 0, len(items))
	for _, item := range items {
		updates = append(updates, prediction.ScoreUpdate{
			PredictionID: item.ID,
			Score:        scoring.Rescore(m, item),
		})
	}

	if err := s.predictionRepo.SaveScores(ctx, m.ID, updates); err != nil {
		return 0, fmt.Errorf("save prediction scores: %w", err)
	}
	return len(updates), nil
}

func (s *MatchService) publish(ctx context.Context, event match.UpdatedEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishMatchUpdated(ctx, event); err != nil {
		trace.SpanFromContext(ctx).RecordError(err)
		s.logger.WarnContext(ctx, "publish match update failed",
			"match_id", event.MatchID,
			"tournament_id", event.TournamentID,
			"error", err,
		)
	}
}

func requireMatch(ctx context.Context, repo match.Repository, matchID string) (match.Match, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Match{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	item, exists, err := repo.GetByID(ctx, matchID)
	if err != nil {
		return match.Match{}, fmt.Errorf("get match: %w", err)
	}
	if !exists {
		return match.Match{}, fmt.Errorf("%w: match=%s", ErrNotFound, matchID)
	}
	return item, nil
}

func normalizeRescoreWorkers(requested, tasks int) int {
	workers := requested
	if workers <= 0 {
		workers = defaultRescoreWorkers
	}
	if workers > maxRescoreWorkers {
		workers = maxRescoreWorkers
	}
	if tasks > 0 && workers > tasks {
		workers = tasks
	}
	return workers
}
