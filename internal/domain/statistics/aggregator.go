package statistics

import (
	"sort"
	"strings"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

type streak struct {
	current int
	longest int
}

func (s *streak) record(hit bool) {
	if !hit {
		s.current = 0
		return
	}
	s.current++
	if s.current > s.longest {
		s.longest = s.current
	}
}

type scoreCount struct {
	home  int
	away  int
	count int
}

// scoreCounter counts predicted scores keyed by "home-away".
type scoreCounter map[string]*scoreCount

func (c scoreCounter) add(home, away, delta int) {
	key := prediction.FormatScoreKey(home, away)
	item, ok := c[key]
	if !ok {
		item = &scoreCount{home: home, away: away}
		c[key] = item
	}
	item.count += delta
}

// top returns the most frequent score. Ties go to the lowest total goals and
// then to the lower home score.
func (c scoreCounter) top() string {
	var best *scoreCount
	for _, item := range c {
		if best == nil || beats(item, best) {
			best = item
		}
	}
	if best == nil {
		return ""
	}
	return prediction.FormatScoreKey(best.home, best.away)
}

func beats(a, b *scoreCount) bool {
	if a.count != b.count {
		return a.count > b.count
	}
	if a.home+a.away != b.home+b.away {
		return a.home+a.away < b.home+b.away
	}
	return a.home < b.home
}

func seededScoreCounter() scoreCounter {
	out := make(scoreCounter, (MaxSeededGoals+1)*(MaxSeededGoals+1))
	for home := 0; home <= MaxSeededGoals; home++ {
		for away := 0; away <= MaxSeededGoals; away++ {
			out.add(home, away, 0)
		}
	}
	return out
}

// Calculate folds predictions in the given order, which is expected to be
// the user's history order. Unscored predictions count as misses.
func Calculate(predictions []prediction.Prediction) Summary {
	out := Summary{Total: len(predictions)}

	var (
		scoreStreak  streak
		resultStreak streak
		anyHitStreak streak
		losingStreak streak
	)
	correctScores := seededScoreCounter()
	predictedScores := scoreCounter{}
	teamPoints := make(map[string]int)
	teamNames := make(map[string]string)

	for _, item := range predictions {
		score := prediction.Score{}
		if item.IsScored() {
			score = *item.Score
		}

		out.TotalPoints += score.Points
		for _, t := range []team.Team{item.Match.HomeTeam, item.Match.AwayTeam} {
			key := t.Key()
			if key == "" {
				continue
			}
			teamPoints[key] += score.Points
			if _, ok := teamNames[key]; !ok {
				teamNames[key] = displayName(t)
			}
		}

		predictedScores.add(item.HomeScore, item.AwayScore, 1)

		if score.CorrectScore {
			out.CorrectScore++
			correctScores.add(item.HomeScore, item.AwayScore, 1)
		}
		if score.CorrectResult {
			out.CorrectResult++
		}
		if score.CorrectDifference {
			out.CorrectDifference++
		}
		if score.FivePlusGoals {
			out.FivePlusGoals++
		}

		scoreStreak.record(score.CorrectScore)
		resultStreak.record(score.CorrectResult)
		anyHitStreak.record(score.AnyHit())
		losingStreak.record(!score.AnyHit())

		switch item.PredictedOutcome() {
		case match.OutcomeHomeWin:
			out.HomePredictions++
			if score.CorrectResult {
				out.CorrectHomePredictions++
			}
		case match.OutcomeAwayWin:
			out.AwayPredictions++
			if score.CorrectResult {
				out.CorrectAwayPredictions++
			}
		default:
			out.DrawPredictions++
		}
	}

	out.CorrectScorePercentage = percentage(out.CorrectScore, out.Total)
	out.CorrectResultPercentage = percentage(out.CorrectResult, out.Total)
	out.CorrectScorePerRow = scoreStreak.longest
	out.CorrectResultPerRow = resultStreak.longest
	out.LongestCorrectStreak = anyHitStreak.longest
	out.LongestLosingStreak = losingStreak.longest
	out.MostCommonCorrectScore = correctScores.top()
	out.MostPopularPredictedScore = predictedScores.top()
	out.MostCommonPrediction = dominantDirection(out.HomePredictions, out.AwayPredictions, out.DrawPredictions)
	out.TopFiveFavoriteTeams = topTeams(teamPoints, teamNames, TopTeamsLimit)

	return out
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) * 100 / float64(total)
}

// dominantDirection prefers home, then away, then draw on equal tallies.
func dominantDirection(home, away, draw int) Direction {
	switch {
	case home >= away && home >= draw:
		return DirectionHome
	case away >= draw:
		return DirectionAway
	default:
		return DirectionDraw
	}
}

func topTeams(points map[string]int, names map[string]string, limit int) []TeamPoints {
	keys := make([]string, 0, len(points))
	for key := range points {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if points[a] != points[b] {
			return points[a] > points[b]
		}
		if names[a] != names[b] {
			return names[a] < names[b]
		}
		return a < b
	})
	if len(keys) > limit {
		keys = keys[:limit]
	}

	out := make([]TeamPoints, 0, len(keys))
	for _, key := range keys {
		out = append(out, TeamPoints{Team: names[key], Points: points[key]})
	}
	return out
}

func displayName(t team.Team) string {
	if name := strings.TrimSpace(t.Name); name != "" {
		return name
	}
	return t.Key()
}
