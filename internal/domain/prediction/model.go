package prediction

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
)

var ErrNegativeScore = errors.New("predicted score must be >= 0")

// Score is the persisted points breakdown of a prediction.
type Score struct {
	Points            int
	CorrectScore      bool
	CorrectResult     bool
	CorrectDifference bool
	FivePlusGoals     bool
}

// AnyHit reports whether at least one criterion was met.
func (s Score) AnyHit() bool {
	return s.CorrectScore || s.CorrectResult || s.CorrectDifference || s.FivePlusGoals
}

// Prediction is one user's guess for one match. Score is nil until the match
// has started.
type Prediction struct {
	ID           string
	UserID       string
	UserName     string
	MatchID      string
	TournamentID string
	HomeScore    int
	AwayScore    int
	Score        *Score
	Match        match.Match
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsScored reports whether the prediction has been scored against its match.
func (p Prediction) IsScored() bool {
	return p.Score != nil
}

// Points returns the awarded points, 0 for unscored predictions.
func (p Prediction) Points() int {
	if p.Score == nil {
		return 0
	}
	return p.Score.Points
}

// PredictedOutcome is the direction the user bet on.
func (p Prediction) PredictedOutcome() match.Outcome {
	return match.DetermineOutcome(p.HomeScore, p.AwayScore)
}

// FormatScoreKey formats a score as "home-away".
func FormatScoreKey(home, away int) string {
	return fmt.Sprintf("%d-%d", home, away)
}

func (p Prediction) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return fmt.Errorf("prediction user id is required")
	}
	if strings.TrimSpace(p.MatchID) == "" {
		return fmt.Errorf("prediction match id is required")
	}
	if p.HomeScore < 0 || p.AwayScore < 0 {
		return fmt.Errorf("%w: home=%d away=%d", ErrNegativeScore, p.HomeScore, p.AwayScore)
	}

	return nil
}
