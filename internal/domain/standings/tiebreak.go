package standings

import (
	"sort"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

type record struct {
	points       int
	goalsScored  int
	goalsAgainst int
}

func (r record) goalDifference() int {
	return r.goalsScored - r.goalsAgainst
}

// sortRows orders rows by points, then by the head-to-head record of each
// pair of rows level on points, then by overall goal difference, goals scored,
// seeding rank and team name.
func sortRows(rows []Row, matches []match.Match) {
	sort.SliceStable(rows, func(i, j int) bool {
		return ranksAbove(rows[i], rows[j], matches)
	})
}

func ranksAbove(a, b Row, matches []match.Match) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	ha, hb := headToHead(rowKey(a), rowKey(b), matches)
	if ha.points != hb.points {
		return ha.points > hb.points
	}
	if ha.goalDifference() != hb.goalDifference() {
		return ha.goalDifference() > hb.goalDifference()
	}
	if ha.goalsScored != hb.goalsScored {
		return ha.goalsScored > hb.goalsScored
	}
	if a.GoalDifference() != b.GoalDifference() {
		return a.GoalDifference() > b.GoalDifference()
	}
	if a.GoalsScored != b.GoalsScored {
		return a.GoalsScored > b.GoalsScored
	}
	if a.Rank != b.Rank {
		return a.Rank < b.Rank
	}
	if a.Team != b.Team {
		return a.Team < b.Team
	}
	return a.ID < b.ID
}

// headToHead accumulates the played matches between exactly the two teams.
// Two teams that never met get two zero records.
func headToHead(aKey, bKey string, matches []match.Match) (record, record) {
	var a, b record
	if aKey == bKey {
		return a, b
	}
	for _, m := range matches {
		if m.Status == match.StatusScheduled || !m.Involves(aKey, bKey) {
			continue
		}

		homeScore, awayScore := m.Scores()
		home, away := &a, &b
		if m.HomeTeam.Key() == bKey {
			home, away = &b, &a
		}
		home.goalsScored += homeScore
		home.goalsAgainst += awayScore
		away.goalsScored += awayScore
		away.goalsAgainst += homeScore
		switch m.Outcome() {
		case match.OutcomeHomeWin:
			home.points += PointsWin
		case match.OutcomeAwayWin:
			away.points += PointsWin
		default:
			home.points += PointsDraw
			away.points += PointsDraw
		}
	}
	return a, b
}

func rowKey(row Row) string {
	return team.Team{ID: row.TeamID, Name: row.Team}.Key()
}
