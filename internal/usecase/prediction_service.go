package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
)

type UpsertPredictionInput struct {
	UserID    string
	UserName  string
	MatchID   string
	HomeScore int
	AwayScore int
}

type PredictionService struct {
	tournamentRepo tournament.Repository
	matchRepo      match.Repository
	predictionRepo prediction.Repository
	newID          func() string
}

func NewPredictionService(
	tournamentRepo tournament.Repository,
	matchRepo match.Repository,
	predictionRepo prediction.Repository,
) *PredictionService {
	return &PredictionService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		newID:          uuid.NewString,
	}
}

// Upsert creates or replaces the caller's guess for a match. Guesses are
// accepted until the match finishes; a guess on a live match is scored right
// away.
func (s *PredictionService) Upsert(ctx context.Context, input UpsertPredictionInput) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Upsert", matchAttr(input.MatchID))
	defer span.End()

	item := prediction.Prediction{
		UserID:    strings.TrimSpace(input.UserID),
		UserName:  strings.TrimSpace(input.UserName),
		MatchID:   strings.TrimSpace(input.MatchID),
		HomeScore: input.HomeScore,
		AwayScore: input.AwayScore,
	}
	if err := item.Validate(); err != nil {
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	m, err := requireMatch(ctx, s.matchRepo, item.MatchID)
	if err != nil {
		return prediction.Prediction{}, err
	}
	if m.Status != match.StatusScheduled && m.Status != match.StatusLive {
		return prediction.Prediction{}, fmt.Errorf("%w: match=%s is %s", ErrConflict, m.ID, m.Status)
	}

	existing, exists, err := s.predictionRepo.GetByUserAndMatch(ctx, item.UserID, item.MatchID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction: %w", err)
	}
	if exists {
		item.ID = existing.ID
	} else {
		item.ID = s.newID()
	}
	if item.UserName == "" {
		item.UserName = existing.UserName
	}
	item.TournamentID = m.TournamentID
	item.Match = m
	item.Score = scoring.Rescore(m, item)

	saved, err := s.predictionRepo.Upsert(ctx, item)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}
	return saved, nil
}

func (s *PredictionService) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByMatch", matchAttr(matchID))
	defer span.End()

	m, err := requireMatch(ctx, s.matchRepo, matchID)
	if err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByMatch(ctx, m.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by match: %w", err)
	}
	return items, nil
}

func (s *PredictionService) ListByUserAndTournament(ctx context.Context, userID, tournamentID string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.ListByUserAndTournament", tournamentAttr(tournamentID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	t, err := requireTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByUserAndTournament(ctx, userID, t.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by user and tournament: %w", err)
	}
	return items, nil
}

// Delete removes predictions by id and reports how many existed.
func (s *PredictionService) Delete(ctx context.Context, ids []string) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Delete")
	defer span.End()

	cleaned := uniqueIDs(ids)
	if len(cleaned) == 0 {
		return 0, fmt.Errorf("%w: at least one prediction id is required", ErrInvalidInput)
	}

	deleted, err := s.predictionRepo.DeleteByIDs(ctx, cleaned)
	if err != nil {
		return 0, fmt.Errorf("delete predictions: %w", err)
	}
	return deleted, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
