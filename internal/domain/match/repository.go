package match

import "context"

// ResultUpdate carries the mutable part of a match.
type ResultUpdate struct {
	MatchID   string
	Status    Status
	HomeScore *int
	AwayScore *int
}

type Repository interface {
	GetByID(ctx context.Context, matchID string) (Match, bool, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Match, error)
	// UpdateResult reports false when the match does not exist.
	UpdateResult(ctx context.Context, update ResultUpdate) (Match, bool, error)
}
