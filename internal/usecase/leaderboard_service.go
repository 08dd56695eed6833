package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/room"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
)

type LeaderboardService struct {
	tournamentRepo tournament.Repository
	roomRepo       room.Repository
	predictionRepo prediction.Repository
}

func NewLeaderboardService(
	tournamentRepo tournament.Repository,
	roomRepo room.Repository,
	predictionRepo prediction.Repository,
) *LeaderboardService {
	return &LeaderboardService{
		tournamentRepo: tournamentRepo,
		roomRepo:       roomRepo,
		predictionRepo: predictionRepo,
	}
}

func (s *LeaderboardService) ByTournament(ctx context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ByTournament", tournamentAttr(tournamentID))
	defer span.End()

	return s.build(ctx, tournamentID)
}

// ByRoom ranks only the room's participants on the tournament leaderboard.
func (s *LeaderboardService) ByRoom(ctx context.Context, roomID, tournamentID string) ([]leaderboard.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeaderboardService.ByRoom", tournamentAttr(tournamentID))
	defer span.End()

	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return nil, fmt.Errorf("%w: room id is required", ErrInvalidInput)
	}

	item, exists, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("get room: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: room=%s", ErrNotFound, roomID)
	}

	entries, err := s.build(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return leaderboard.FilterUsers(entries, item.ParticipantIDs), nil
}

func (s *LeaderboardService) build(ctx context.Context, tournamentID string) ([]leaderboard.Entry, error) {
	item, err := requireTournament(ctx, s.tournamentRepo, tournamentID)
	if err != nil {
		return nil, err
	}

	items, err := s.predictionRepo.ListByTournament(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("list predictions by tournament: %w", err)
	}
	return leaderboard.Build(items), nil
}
