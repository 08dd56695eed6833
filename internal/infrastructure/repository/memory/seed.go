package memory

import (
	"fmt"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/room"
	"github.com/riskibarqy/score-predictor/internal/domain/scoring"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
)

const (
	TournamentIDEuro2024 = "euro-2024"
	RoomIDOffice         = "room-office"
)

var seedKickoff = time.Date(2024, 6, 14, 19, 0, 0, 0, time.UTC)

func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:              TournamentIDEuro2024,
			Name:            "UEFA Euro 2024",
			Logo:            "euro-2024.png",
			Status:          tournament.StatusInProgress,
			GroupCount:      3,
			GroupMatchCount: 6,
			KnockoutRound:   8,
		},
	}
}

func seedGroups() map[string][]team.Team {
	return map[string][]team.Team{
		"A": {
			{ID: "ger", Name: "Germany", Logo: "ger.png", Rank: 16},
			{ID: "sco", Name: "Scotland", Logo: "sco.png", Rank: 39},
			{ID: "hun", Name: "Hungary", Logo: "hun.png", Rank: 26},
			{ID: "sui", Name: "Switzerland", Logo: "sui.png", Rank: 19},
		},
		"B": {
			{ID: "esp", Name: "Spain", Logo: "esp.png", Rank: 8},
			{ID: "cro", Name: "Croatia", Logo: "cro.png", Rank: 10},
			{ID: "ita", Name: "Italy", Logo: "ita.png", Rank: 9},
			{ID: "alb", Name: "Albania", Logo: "alb.png", Rank: 66},
		},
		"C": {
			{ID: "svn", Name: "Slovenia", Logo: "svn.png", Rank: 57},
			{ID: "den", Name: "Denmark", Logo: "den.png", Rank: 21},
			{ID: "srb", Name: "Serbia", Logo: "srb.png", Rank: 33},
			{ID: "eng", Name: "England", Logo: "eng.png", Rank: 5},
		},
	}
}

type seedResult struct {
	group      string
	home, away int
	homeScore  int
	awayScore  int
	status     match.Status
}

// SeedMatches returns the first two group rounds, finished, plus the third
// round still to be played.
func SeedMatches() []match.Match {
	groups := seedGroups()
	results := []seedResult{
		{"A", 0, 1, 5, 1, match.StatusFinished},
		{"A", 2, 3, 1, 3, match.StatusFinished},
		{"A", 0, 2, 2, 0, match.StatusFinished},
		{"A", 1, 3, 1, 1, match.StatusFinished},
		{"A", 3, 0, 1, 1, match.StatusScheduled},
		{"A", 1, 2, 0, 1, match.StatusScheduled},
		{"B", 0, 1, 3, 0, match.StatusFinished},
		{"B", 2, 3, 2, 1, match.StatusFinished},
		{"B", 1, 3, 2, 2, match.StatusFinished},
		{"B", 0, 2, 1, 0, match.StatusFinished},
		{"B", 3, 0, 0, 1, match.StatusLive},
		{"B", 1, 2, 1, 1, match.StatusScheduled},
		{"C", 0, 1, 1, 1, match.StatusFinished},
		{"C", 2, 3, 0, 1, match.StatusFinished},
		{"C", 0, 2, 1, 1, match.StatusFinished},
		{"C", 1, 3, 1, 1, match.StatusFinished},
		{"C", 3, 0, 0, 0, match.StatusScheduled},
		{"C", 1, 2, 0, 0, match.StatusScheduled},
	}

	out := make([]match.Match, 0, len(results))
	for i, r := range results {
		home, away := groups[r.group][r.home], groups[r.group][r.away]
		m := match.Match{
			ID:           fmt.Sprintf("%s-%02d", TournamentIDEuro2024, i+1),
			TournamentID: TournamentIDEuro2024,
			Stage:        match.StageGroup,
			GroupTour:    fmt.Sprintf("%d", i%6/2+1),
			GroupName:    r.group,
			Status:       r.status,
			MatchDate:    seedKickoff.Add(time.Duration(i) * 6 * time.Hour),
			HomeTeam:     home,
			AwayTeam:     away,
		}
		if r.status != match.StatusScheduled {
			m.HomeScore = intPtr(r.homeScore)
			m.AwayScore = intPtr(r.awayScore)
		}
		out = append(out, m)
	}

	return out
}

func SeedRooms() []room.Room {
	return []room.Room{
		{
			ID:             RoomIDOffice,
			Name:           "Office Pool",
			Type:           room.TypePrivate,
			CreatorID:      "user-ana",
			ParticipantIDs: []string{"user-ana", "user-budi"},
		},
	}
}

// SeedPredictions scores every seeded guess against its match.
func SeedPredictions(matches []match.Match) []prediction.Prediction {
	guesses := map[string][][2]int{
		"user-ana":   {{4, 1}, {1, 2}, {2, 0}, {0, 1}, {2, 1}, {1, 2}, {1, 1}},
		"user-budi":  {{2, 0}, {0, 2}, {1, 1}, {1, 1}, {3, 0}, {2, 2}, {0, 0}},
		"user-citra": {{5, 1}, {1, 1}, {3, 1}, {2, 1}, {1, 0}, {1, 0}, {2, 2}},
	}
	names := map[string]string{"user-ana": "Ana", "user-budi": "Budi", "user-citra": "Citra"}

	out := make([]prediction.Prediction, 0, len(guesses)*7)
	for _, userID := range []string{"user-ana", "user-budi", "user-citra"} {
		for i, g := range guesses[userID] {
			if i >= len(matches) {
				break
			}
			m := matches[i]
			p := prediction.Prediction{
				ID:           fmt.Sprintf("pred-%s-%s", userID, m.ID),
				UserID:       userID,
				UserName:     names[userID],
				MatchID:      m.ID,
				TournamentID: m.TournamentID,
				HomeScore:    g[0],
				AwayScore:    g[1],
				CreatedAt:    seedKickoff.Add(-24 * time.Hour),
				UpdatedAt:    seedKickoff.Add(-24 * time.Hour),
			}
			p.Score = scoring.Rescore(m, p)
			out = append(out, p)
		}
	}
	return out
}

func intPtr(v int) *int {
	return &v
}
