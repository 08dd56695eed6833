package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/standings"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
)

type StandingsService struct {
	tournamentRepo tournament.Repository
	matchRepo      match.Repository
}

func NewStandingsService(tournamentRepo tournament.Repository, matchRepo match.Repository) *StandingsService {
	return &StandingsService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
	}
}

// GetByTournament computes the group tables from the tournament's current
// match results.
func (s *StandingsService) GetByTournament(ctx context.Context, tournamentID string) (standings.Table, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.GetByTournament", tournamentAttr(tournamentID))
	defer span.End()

	matches, err := s.loadMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standings.Compute(matches), nil
}

// ThirdPlaceByTournament ranks the third-placed team of every group.
func (s *StandingsService) ThirdPlaceByTournament(ctx context.Context, tournamentID string) ([]standings.Row, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.ThirdPlaceByTournament", tournamentAttr(tournamentID))
	defer span.End()

	matches, err := s.loadMatches(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standings.ThirdPlaceTeams(standings.Compute(matches), matches), nil
}

func (s *StandingsService) loadMatches(ctx context.Context, tournamentID string) ([]match.Match, error) {
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
