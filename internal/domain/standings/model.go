package standings

import "sort"

const (
	FormWon     = "won"
	FormLost    = "lost"
	FormDrawn   = "drawn"
	FormPending = ""

	FormLength = 5

	PointsWin  = 3
	PointsDraw = 1
)

// Row is one team's record within one group.
type Row struct {
	ID           string
	TeamID       string
	Team         string
	Logo         string
	Played       int
	Won          int
	Lost         int
	Drawn        int
	GoalsScored  int
	GoalsAgainst int
	Points       int
	Form         []string
	Rank         int
}

func (r Row) GoalDifference() int {
	return r.GoalsScored - r.GoalsAgainst
}

// Table maps a group label to its ranked rows.
type Table map[string][]Row

// Groups returns the group labels in ascending order.
func (t Table) Groups() []string {
	out := make([]string, 0, len(t))
	for group := range t {
		out = append(out, group)
	}
	sort.Strings(out)
	return out
}
