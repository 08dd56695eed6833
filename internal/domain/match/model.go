package match

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusLive      Status = "Live"
	StatusFinished  Status = "Finished"
	StatusPostponed Status = "Postponed"
)

type Stage string

const (
	StageGroup             Stage = "Group Stage"
	StageKnockoutPlayoff   Stage = "Knockout Playoff"
	StageRoundOf16         Stage = "Round of 16"
	StageQuarterfinals     Stage = "Quarterfinals"
	StageSemifinals        Stage = "Semifinals"
	StageFinal             Stage = "Final"
	StageThirdPlacePlayoff Stage = "Third Place Playoff"
)

type Outcome string

const (
	OutcomeHomeWin Outcome = "Home Win"
	OutcomeAwayWin Outcome = "Away Win"
	OutcomeDraw    Outcome = "Draw"
)

var (
	ErrUnknownStatus = errors.New("unknown match status")
	ErrNegativeScore = errors.New("match score must be >= 0")
	ErrMissingScore  = errors.New("match score is required once the match has started")
)

// Match is one fixture with its current result.
type Match struct {
	ID           string
	TournamentID string
	Stage        Stage
	GroupTour    string
	// GroupName is empty for matches outside the group stage.
	GroupName string
	Status    Status
	HomeScore *int
	AwayScore *int
	MatchDate time.Time
	HomeTeam  team.Team
	AwayTeam  team.Team
	UpdatedAt time.Time
}

// Scores returns the current result, treating a missing side as 0.
func (m Match) Scores() (int, int) {
	return valueOrZero(m.HomeScore), valueOrZero(m.AwayScore)
}

func (m Match) Outcome() Outcome {
	home, away := m.Scores()
	return DetermineOutcome(home, away)
}

func (m Match) IsGrouped() bool {
	return strings.TrimSpace(m.GroupName) != ""
}

// Involves reports whether both teams take part in the match, in any order.
func (m Match) Involves(a, b string) bool {
	home, away := m.HomeTeam.Key(), m.AwayTeam.Key()
	return (home == a && away == b) || (home == b && away == a)
}

func DetermineOutcome(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHomeWin
	case home < away:
		return OutcomeAwayWin
	default:
		return OutcomeDraw
	}
}

func ParseStatus(value string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "scheduled":
		return StatusScheduled, nil
	case "live", "in_progress", "in-progress":
		return StatusLive, nil
	case "finished", "ft":
		return StatusFinished, nil
	case "postponed":
		return StatusPostponed, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, value)
	}
}

// IsScorable reports whether predictions for a match in this status earn points.
func IsScorable(status Status) bool {
	return status == StatusLive || status == StatusFinished
}

// ValidateResult checks a result update before it is persisted.
func ValidateResult(status Status, homeScore, awayScore *int) error {
	switch status {
	case StatusScheduled, StatusLive, StatusFinished, StatusPostponed:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStatus, status)
	}
	if (homeScore != nil && *homeScore < 0) || (awayScore != nil && *awayScore < 0) {
		return ErrNegativeScore
	}
	if IsScorable(status) && (homeScore == nil || awayScore == nil) {
		return fmt.Errorf("%w: status=%s", ErrMissingScore, status)
	}

	return nil
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
