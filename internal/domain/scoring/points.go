package scoring

import (
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
)

// Points awarded per rule. Rules are independent, so a prediction earns at
// most 9 points.
const (
	PointsExactScore     = 5
	PointsMatchResult    = 2
	PointsGoalDifference = 1
	PointsFivePlusGoals  = 1

	// FivePlusGoalsThreshold is the goal total both the actual and the
	// predicted score must reach for the five-plus bonus.
	FivePlusGoalsThreshold = 5
)

// Guess is the predicted result being scored.
type Guess struct {
	HomeScore int
	AwayScore int
}

// GuessOf extracts the predicted score from a stored prediction.
func GuessOf(p prediction.Prediction) Guess {
	return Guess{HomeScore: p.HomeScore, AwayScore: p.AwayScore}
}

// Breakdown stores the points earned per rule and their total.
type Breakdown struct {
	TotalPoints          int
	ExactScorePoints     int
	MatchResultPoints    int
	GoalDifferencePoints int
	FivePlusGoalsPoints  int
}

// Score converts the breakdown into the flags stored on a prediction.
func (b Breakdown) Score() prediction.Score {
	return prediction.Score{
		Points:            b.TotalPoints,
		CorrectScore:      b.ExactScorePoints > 0,
		CorrectResult:     b.MatchResultPoints > 0,
		CorrectDifference: b.GoalDifferencePoints > 0,
		FivePlusGoals:     b.FivePlusGoalsPoints > 0,
	}
}

// Calculate scores a guess against the match result. The boolean is false,
// with a zero breakdown, while the match is not live or finished.
func Calculate(m match.Match, guess Guess) (Breakdown, bool) {
	if !match.IsScorable(m.Status) {
		return Breakdown{}, false
	}

	actualHome, actualAway := m.Scores()
	out := Breakdown{}
	if guess.HomeScore == actualHome && guess.AwayScore == actualAway {
		out.ExactScorePoints = PointsExactScore
	}
	if match.DetermineOutcome(guess.HomeScore, guess.AwayScore) == match.DetermineOutcome(actualHome, actualAway) {
		out.MatchResultPoints = PointsMatchResult
	}
	if abs(guess.HomeScore-guess.AwayScore) == abs(actualHome-actualAway) {
		out.GoalDifferencePoints = PointsGoalDifference
	}
	if actualHome+actualAway >= FivePlusGoalsThreshold && guess.HomeScore+guess.AwayScore >= FivePlusGoalsThreshold {
		out.FivePlusGoalsPoints = PointsFivePlusGoals
	}

	out.TotalPoints = out.ExactScorePoints + out.MatchResultPoints + out.GoalDifferencePoints + out.FivePlusGoalsPoints
	return out, true
}

// Rescore returns the score to persist for a prediction given the current
// state of its match. A nil score clears a previously stored one.
func Rescore(m match.Match, p prediction.Prediction) *prediction.Score {
	breakdown, ok := Calculate(m, GuessOf(p))
	if !ok {
		return nil
	}
	score := breakdown.Score()
	return &score
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
