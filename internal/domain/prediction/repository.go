package prediction

import "context"

// ScoreUpdate sets or clears (Score == nil) the breakdown of one prediction.
type ScoreUpdate struct {
	PredictionID string
	Score        *Score
}

type Repository interface {
	GetByUserAndMatch(ctx context.Context, userID, matchID string) (Prediction, bool, error)
	Upsert(ctx context.Context, item Prediction) (Prediction, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
	ListByTournament(ctx context.Context, tournamentID string) ([]Prediction, error)
	// ListByUserAndTournament returns the user's history ordered by match date.
	ListByUserAndTournament(ctx context.Context, userID, tournamentID string) ([]Prediction, error)
	SaveScores(ctx context.Context, matchID string, updates []ScoreUpdate) error
	DeleteByIDs(ctx context.Context, ids []string) (int, error)
}
