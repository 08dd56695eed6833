package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/statistics"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
)

type StatisticsService struct {
	tournamentRepo tournament.Repository
	predictionRepo prediction.Repository
}

func NewStatisticsService(tournamentRepo tournament.Repository, predictionRepo prediction.Repository) *StatisticsService {
	return &StatisticsService{
		tournamentRepo: tournamentRepo,
		predictionRepo: predictionRepo,
	}
}

// GetUserStatistics folds a user's predictions on started matches of one
// tournament into a summary.
func (s *StatisticsService) GetUserStatistics(ctx context.Context, userID, tournamentID string) (statistics.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StatisticsService.GetUserStatistics", tournamentAttr(tournamentID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return statistics.Summary{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return statistics.Summary{}, fmt.Errorf("%w: tournament id is required", ErrInvalidInput)
	}

	var items []prediction.Prediction
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		_, err := requireTournament(ctx, s.tournamentRepo, tournamentID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		loaded, err := s.predictionRepo.ListByUserAndTournament(ctx, userID, tournamentID)
		if err != nil {
			return fmt.Errorf("list predictions by user and tournament: %w", err)
		}
		items = loaded
		return nil
	})
	if err := p.Wait(); err != nil {
		return statistics.Summary{}, err
	}

	return statistics.Calculate(scorablePredictions(items)), nil
}

// scorablePredictions keeps the predictions whose match has started.
func scorablePredictions(items []prediction.Prediction) []prediction.Prediction {
	out := make([]prediction.Prediction, 0, len(items))
	for _, item := range items {
		if match.IsScorable(item.Match.Status) {
			out = append(out, item)
		}
	}
	return out
}
