package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
)

type MatchRepository struct {
	mu    sync.RWMutex
	items map[string]match.Match
	now   func() time.Time
}

func NewMatchRepository(matches []match.Match) *MatchRepository {
	items := make(map[string]match.Match, len(matches))
	for _, m := range matches {
		items[m.ID] = cloneMatch(m)
	}
	return &MatchRepository{items: items, now: time.Now}
}

func (r *MatchRepository) GetByID(_ context.Context, matchID string) (match.Match, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.items[matchID]
	if !ok {
		return match.Match{}, false, nil
	}
	return cloneMatch(m), true, nil
}

func (r *MatchRepository) ListByTournament(_ context.Context, tournamentID string) ([]match.Match, error) {
	r.mu.RLock()
	out := make([]match.Match, 0, len(r.items))
	for _, m := range r.items {
		if m.TournamentID == tournamentID {
			out = append(out, cloneMatch(m))
		}
	}
	r.mu.RUnlock()

	sortMatches(out)
	return out, nil
}

func (r *MatchRepository) UpdateResult(_ context.Context, update match.ResultUpdate) (match.Match, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.items[update.MatchID]
	if !ok {
		return match.Match{}, false, nil
	}
	m.Status = update.Status
	m.HomeScore = copyInt(update.HomeScore)
	m.AwayScore = copyInt(update.AwayScore)
	m.UpdatedAt = r.now().UTC()
	r.items[m.ID] = m

	return cloneMatch(m), true, nil
}

func sortMatches(items []match.Match) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].MatchDate.Equal(items[j].MatchDate) {
			return items[i].MatchDate.Before(items[j].MatchDate)
		}
		return items[i].ID < items[j].ID
	})
}

func cloneMatch(m match.Match) match.Match {
	m.HomeScore = copyInt(m.HomeScore)
	m.AwayScore = copyInt(m.AwayScore)
	return m
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
