package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
)

// PredictionRepository keeps predictions in memory and joins the current
// state of their match on every read.
type PredictionRepository struct {
	mu      sync.RWMutex
	items   map[string]prediction.Prediction
	byOwner map[string]string
	matches match.Repository
	now     func() time.Time
}

func NewPredictionRepository(matches match.Repository, seed []prediction.Prediction) *PredictionRepository {
	r := &PredictionRepository{
		items:   make(map[string]prediction.Prediction, len(seed)),
		byOwner: make(map[string]string, len(seed)),
		matches: matches,
		now:     time.Now,
	}
	for _, item := range seed {
		item.Score = copyScore(item.Score)
		r.items[item.ID] = item
		r.byOwner[ownerKey(item.UserID, item.MatchID)] = item.ID
	}
	return r
}

func (r *PredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	id, ok := r.byOwner[ownerKey(userID, matchID)]
	item := r.items[id]
	r.mu.RUnlock()
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	out, err := r.hydrate(ctx, []prediction.Prediction{item})
	if err != nil {
		return prediction.Prediction{}, false, err
	}
	return out[0], true, nil
}

func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	now := r.now().UTC()

	r.mu.Lock()
	key := ownerKey(item.UserID, item.MatchID)
	if id, ok := r.byOwner[key]; ok {
		existing := r.items[id]
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else {
		if item.ID == "" {
			r.mu.Unlock()
			return prediction.Prediction{}, fmt.Errorf("prediction id is required")
		}
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	item.Score = copyScore(item.Score)
	item.Match = match.Match{}
	r.items[item.ID] = item
	r.byOwner[key] = item.ID
	r.mu.Unlock()

	out, err := r.hydrate(ctx, []prediction.Prediction{item})
	if err != nil {
		return prediction.Prediction{}, err
	}
	return out[0], nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	return r.list(ctx, func(p prediction.Prediction) bool { return p.MatchID == matchID })
}

func (r *PredictionRepository) ListByTournament(ctx context.Context, tournamentID string) ([]prediction.Prediction, error) {
	return r.list(ctx, func(p prediction.Prediction) bool { return p.TournamentID == tournamentID })
}

func (r *PredictionRepository) ListByUserAndTournament(ctx context.Context, userID, tournamentID string) ([]prediction.Prediction, error) {
	return r.list(ctx, func(p prediction.Prediction) bool {
		return p.UserID == userID && p.TournamentID == tournamentID
	})
}

func (r *PredictionRepository) SaveScores(_ context.Context, matchID string, updates []prediction.ScoreUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	for _, update := range updates {
		item, ok := r.items[update.PredictionID]
		if !ok || item.MatchID != matchID {
			continue
		}
		item.Score = copyScore(update.Score)
		item.UpdatedAt = now
		r.items[item.ID] = item
	}
	return nil
}

func (r *PredictionRepository) DeleteByIDs(_ context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		item, ok := r.items[id]
		if !ok {
			continue
		}
		delete(r.items, id)
		delete(r.byOwner, ownerKey(item.UserID, item.MatchID))
		deleted++
	}
	return deleted, nil
}

func (r *PredictionRepository) list(ctx context.Context, keep func(prediction.Prediction) bool) ([]prediction.Prediction, error) {
	r.mu.RLock()
	items := make([]prediction.Prediction, 0, len(r.items))
	for _, item := range r.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	r.mu.RUnlock()

	return r.hydrate(ctx, items)
}

// hydrate attaches the current match to each prediction and orders the
// result by match date, then prediction id.
func (r *PredictionRepository) hydrate(ctx context.Context, items []prediction.Prediction) ([]prediction.Prediction, error) {
	cache := make(map[string]match.Match)
	out := make([]prediction.Prediction, 0, len(items))
	for _, item := range items {
		m, ok := cache[item.MatchID]
		if !ok {
			loaded, exists, err := r.matches.GetByID(ctx, item.MatchID)
			if err != nil {
				return nil, fmt.Errorf("get match %s: %w", item.MatchID, err)
			}
			if !exists {
				loaded = match.Match{ID: item.MatchID, TournamentID: item.TournamentID}
			}
			m = loaded
			cache[item.MatchID] = m
		}
		item.Match = m
		item.Score = copyScore(item.Score)
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Match.MatchDate, out[j].Match.MatchDate
		if !a.Equal(b) {
			return a.Before(b)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func ownerKey(userID, matchID string) string {
	return userID + "\x00" + matchID
}

func copyScore(score *prediction.Score) *prediction.Score {
	if score == nil {
		return nil
	}
	out := *score
	return &out
}
