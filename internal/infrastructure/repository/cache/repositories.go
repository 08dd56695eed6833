package cache

import (
	"context"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/room"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
)

const (
	keyTournamentList   = "tournament:list"
	prefixTournamentID  = "tournament:id:"
	prefixRoomID        = "room:id:"
	prefixMatchID       = "match:id:"
	prefixMatchesByTour = "match:tournament:"
)

type TournamentRepository struct {
	next  tournament.Repository
	cache *basecache.Store
}

func NewTournamentRepository(next tournament.Repository, cache *basecache.Store) *TournamentRepository {
	return &TournamentRepository{next: next, cache: cache}
}

func (r *TournamentRepository) List(ctx context.Context) ([]tournament.Tournament, error) {
	items, err := basecache.Load(ctx, r.cache, keyTournamentList, func(ctx context.Context) ([]tournament.Tournament, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]tournament.Tournament(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]tournament.Tournament(nil), items...), nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, prefixTournamentID+tournamentID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return cachedTournamentByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return tournament.Tournament{}, false, err
	}

	cached, _ := v.(cachedTournamentByID)
	return cached.value, cached.exists, nil
}

type cachedTournamentByID struct {
	value  tournament.Tournament
	exists bool
}

type RoomRepository struct {
	next  room.Repository
	cache *basecache.Store
}

func NewRoomRepository(next room.Repository, cache *basecache.Store) *RoomRepository {
	return &RoomRepository{next: next, cache: cache}
}

func (r *RoomRepository) GetByID(ctx context.Context, roomID string) (room.Room, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, prefixRoomID+roomID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, roomID)
		if err != nil {
			return nil, err
		}
		item.ParticipantIDs = append([]string(nil), item.ParticipantIDs...)
		return cachedRoomByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return room.Room{}, false, err
	}

	cached, _ := v.(cachedRoomByID)
	out := cached.value
	out.ParticipantIDs = append([]string(nil), out.ParticipantIDs...)
	return out, cached.exists, nil
}

type cachedRoomByID struct {
	value  room.Room
	exists bool
}

// MatchRepository caches match reads and drops the affected entries when a
// result is written through it.
type MatchRepository struct {
	next  match.Repository
	cache *basecache.Store
}

func NewMatchRepository(next match.Repository, cache *basecache.Store) *MatchRepository {
	return &MatchRepository{next: next, cache: cache}
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, prefixMatchID+matchID, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, matchID)
		if err != nil {
			return nil, err
		}
		return cachedMatchByID{value: item, exists: exists}, nil
	})
	if err != nil {
		return match.Match{}, false, err
	}

	cached, _ := v.(cachedMatchByID)
	return cached.value, cached.exists, nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	items, err := basecache.Load(ctx, r.cache, prefixMatchesByTour+tournamentID, func(ctx context.Context) ([]match.Match, error) {
		items, err := r.next.ListByTournament(ctx, tournamentID)
		if err != nil {
			return nil, err
		}
		return append([]match.Match(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]match.Match(nil), items...), nil
}

func (r *MatchRepository) UpdateResult(ctx context.Context, update match.ResultUpdate) (match.Match, bool, error) {
	item, exists, err := r.next.UpdateResult(ctx, update)
	if err != nil {
		return match.Match{}, false, err
	}

	r.cache.Delete(ctx, prefixMatchID+update.MatchID)
	if exists {
		r.cache.Delete(ctx, prefixMatchesByTour+item.TournamentID)
	}
	return item, exists, nil
}

type cachedMatchByID struct {
	value  match.Match
	exists bool
}
