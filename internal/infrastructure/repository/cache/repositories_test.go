package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
	basecache "github.com/riskibarqy/score-predictor/internal/platform/cache"
)

type countingMatchRepository struct {
	match.Repository
	lists int
	gets  int
}

func (r *countingMatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	r.gets++
	return r.Repository.GetByID(ctx, matchID)
}

func (r *countingMatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	r.lists++
	return r.Repository.ListByTournament(ctx, tournamentID)
}

func TestMatchRepository_CachesReads(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingMatchRepository{Repository: memory.NewMatchRepository(memory.SeedMatches())}
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 3; i++ {
		items, err := repo.ListByTournament(ctx, memory.TournamentIDEuro2024)
		require.NoError(t, err)
		require.Len(t, items, 18)

		_, exists, err := repo.GetByID(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, exists)
	}

	if next.lists != 1 {
		t.Fatalf("unexpected list loads: got=%d want=%d", next.lists, 1)
	}
	if next.gets != 1 {
		t.Fatalf("unexpected get loads: got=%d want=%d", next.gets, 1)
	}
}

func TestMatchRepository_UpdateResultInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &countingMatchRepository{Repository: memory.NewMatchRepository(memory.SeedMatches())}
	repo := NewMatchRepository(next, basecache.NewStore(time.Minute))

	before, exists, err := repo.GetByID(ctx, "euro-2024-05")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, match.StatusScheduled, before.Status)
	_, err = repo.ListByTournament(ctx, memory.TournamentIDEuro2024)
	require.NoError(t, err)

	home, away := 1, 0
	updated, exists, err := repo.UpdateResult(ctx, match.ResultUpdate{
		MatchID:   "euro-2024-05",
		Status:    match.StatusFinished,
		HomeScore: &home,
		AwayScore: &away,
	})
	require.NoError(t, err)
	require.True(t, exists)
	assert.Equal(t, match.StatusFinished, updated.Status)

	after, _, err := repo.GetByID(ctx, "euro-2024-05")
	require.NoError(t, err)
	assert.Equal(t, match.StatusFinished, after.Status)

	items, err := repo.ListByTournament(ctx, memory.TournamentIDEuro2024)
	require.NoError(t, err)
	for _, item := range items {
		if item.ID == "euro-2024-05" {
			assert.Equal(t, match.StatusFinished, item.Status)
		}
	}
	if next.lists != 2 {
		t.Fatalf("unexpected list loads: got=%d want=%d", next.lists, 2)
	}
}

func TestRoomRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRoomRepository(memory.NewRoomRepository(memory.SeedRooms()), basecache.NewStore(time.Minute))

	first, exists, err := repo.GetByID(ctx, memory.RoomIDOffice)
	require.NoError(t, err)
	require.True(t, exists)
	require.NotEmpty(t, first.ParticipantIDs)
	first.ParticipantIDs[0] = "mutated"

	second, _, err := repo.GetByID(ctx, memory.RoomIDOffice)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second.ParticipantIDs[0])
}

func TestTournamentRepository_List(t *testing.T) {
	t.Parallel()

	repo := NewTournamentRepository(memory.NewTournamentRepository(memory.SeedTournaments()), basecache.NewStore(0))
	items, err := repo.List(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, items)

	item, exists, err := repo.GetByID(context.Background(), memory.TournamentIDEuro2024)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, memory.TournamentIDEuro2024, item.ID)
}
