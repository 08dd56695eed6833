package standings

import (
	"strings"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

// Compute folds the grouped matches into one ranked table per group.
// Matches without a group label are ignored.
func Compute(matches []match.Match) Table {
	table := Table{}
	groupMatches := make(map[string][]match.Match)
	index := make(map[string]map[string]int)

	for _, m := range matches {
		if !m.IsGrouped() {
			continue
		}
		group := strings.TrimSpace(m.GroupName)
		if _, ok := index[group]; !ok {
			index[group] = make(map[string]int)
		}
		groupMatches[group] = append(groupMatches[group], m)

		home := ensureRow(table, index[group], group, m.HomeTeam)
		away := ensureRow(table, index[group], group, m.AwayTeam)
		rows := table[group]
		applyMatch(&rows[home], &rows[away], m)
	}

	for group, rows := range table {
		sortRows(rows, groupMatches[group])
	}

	return table
}

// ThirdPlaceTeams collects the third-placed row of every group that has at
// least three teams, ranked with the same ordering as a group table.
func ThirdPlaceTeams(table Table, matches []match.Match) []Row {
	out := make([]Row, 0, len(table))
	for _, group := range table.Groups() {
		rows := table[group]
		if len(rows) < 3 {
			continue
		}
		out = append(out, cloneRow(rows[2]))
	}

	sortRows(out, matches)
	return out
}

func ensureRow(table Table, index map[string]int, group string, t team.Team) int {
	key := t.Key()
	if pos, ok := index[key]; ok {
		return pos
	}

	table[group] = append(table[group], Row{
		ID:     group + ":" + key,
		TeamID: t.ID,
		Team:   t.Name,
		Logo:   t.Logo,
		Form:   []string{},
		Rank:   t.Rank,
	})
	pos := len(table[group]) - 1
	index[key] = pos
	return pos
}

func applyMatch(home, away *Row, m match.Match) {
	if m.Status == match.StatusScheduled {
		home.Form = appendForm(home.Form, FormPending)
		away.Form = appendForm(away.Form, FormPending)
		return
	}

	homeScore, awayScore := m.Scores()
	home.Played++
	away.Played++
	home.GoalsScored += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsScored += awayScore
	away.GoalsAgainst += homeScore

	switch m.Outcome() {
	case match.OutcomeHomeWin:
		recordResult(home, FormWon)
		recordResult(away, FormLost)
	case match.OutcomeAwayWin:
		recordResult(home, FormLost)
		recordResult(away, FormWon)
	default:
		recordResult(home, FormDrawn)
		recordResult(away, FormDrawn)
	}
}

func recordResult(row *Row, result string) {
	switch result {
	case FormWon:
		row.Won++
		row.Points += PointsWin
	case FormDrawn:
		row.Drawn++
		row.Points += PointsDraw
	case FormLost:
		row.Lost++
	}
	row.Form = appendForm(row.Form, result)
}

func appendForm(form []string, result string) []string {
	form = append(form, result)
	if len(form) > FormLength {
		form = form[len(form)-FormLength:]
	}
	return form
}

func cloneRow(row Row) Row {
	row.Form = append([]string{}, row.Form...)
	return row
}
