package match

import "time"

// UpdatedEvent is emitted after a result change has been persisted and its
// predictions rescored.
type UpdatedEvent struct {
	MatchID      string    `json:"match_id"`
	TournamentID string    `json:"tournament_id"`
	Status       Status    `json:"status"`
	HomeScore    *int      `json:"home_score"`
	AwayScore    *int      `json:"away_score"`
	Rescored     int       `json:"rescored_predictions"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func NewUpdatedEvent(m Match, rescored int, at time.Time) UpdatedEvent {
	return UpdatedEvent{
		MatchID:      m.ID,
		TournamentID: m.TournamentID,
		Status:       m.Status,
		HomeScore:    m.HomeScore,
		AwayScore:    m.AwayScore,
		Rescored:     rescored,
		OccurredAt:   at.UTC(),
	}
}
