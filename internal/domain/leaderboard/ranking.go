package leaderboard

import (
	"sort"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
)

// Entry is one user's aggregated line on a leaderboard.
type Entry struct {
	Rank              int
	UserID            string
	UserName          string
	Points            int
	CorrectScore      int
	CorrectResult     int
	CorrectDifference int
	FivePlusGoals     int
	Predictions       int
}

// Build sums the scored predictions of started matches per user and ranks the
// users. Users level on every criterion share a rank.
func Build(predictions []prediction.Prediction) []Entry {
	byUser := make(map[string]*Entry)
	for _, item := range predictions {
		if item.Score == nil || !match.IsScorable(item.Match.Status) {
			continue
		}

		entry, ok := byUser[item.UserID]
		if !ok {
			entry = &Entry{UserID: item.UserID, UserName: item.UserName}
			byUser[item.UserID] = entry
		}
		if entry.UserName == "" {
			entry.UserName = item.UserName
		}

		entry.Predictions++
		entry.Points += item.Score.Points
		if item.Score.CorrectScore {
			entry.CorrectScore++
		}
		if item.Score.CorrectResult {
			entry.CorrectResult++
		}
		if item.Score.CorrectDifference {
			entry.CorrectDifference++
		}
		if item.Score.FivePlusGoals {
			entry.FivePlusGoals++
		}
	}

	out := make([]Entry, 0, len(byUser))
	for _, entry := range byUser {
		out = append(out, *entry)
	}
	return rank(out)
}

// FilterUsers keeps the entries of the given users and ranks them again.
func FilterUsers(entries []Entry, userIDs []string) []Entry {
	allowed := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		allowed[id] = struct{}{}
	}

	out := make([]Entry, 0, len(userIDs))
	for _, entry := range entries {
		if _, ok := allowed[entry.UserID]; ok {
			out = append(out, entry)
		}
	}
	return rank(out)
}

func rank(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !level(a, b) {
			return ahead(a, b)
		}
		return a.UserID < b.UserID
	})

	for i := range entries {
		if i > 0 && level(entries[i], entries[i-1]) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
	return entries
}

func ahead(a, b Entry) bool {
	if a.Points != b.Points {
		return a.Points > b.Points
	}
	if a.CorrectScore != b.CorrectScore {
		return a.CorrectScore > b.CorrectScore
	}
	if a.CorrectResult != b.CorrectResult {
		return a.CorrectResult > b.CorrectResult
	}
	if a.CorrectDifference != b.CorrectDifference {
		return a.CorrectDifference > b.CorrectDifference
	}
	return a.FivePlusGoals > b.FivePlusGoals
}

func level(a, b Entry) bool {
	return a.Points == b.Points &&
		a.CorrectScore == b.CorrectScore &&
		a.CorrectResult == b.CorrectResult &&
		a.CorrectDifference == b.CorrectDifference &&
		a.FivePlusGoals == b.FivePlusGoals
}
