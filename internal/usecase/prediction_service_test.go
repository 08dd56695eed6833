package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
)

func newPredictionService(repos seededRepos) *PredictionService {
	svc := NewPredictionService(repos.tournaments, repos.matches, repos.predictions)
	svc.newID = func() string { return "pred-new" }
	return svc
}

func TestPredictionService_UpsertCreatesUnscoredOnScheduledMatch(t *testing.T) {
	t.Parallel()

	svc := newPredictionService(newSeededRepos())
	got, err := svc.Upsert(context.Background(), UpsertPredictionInput{
		UserID:    " user-dewi ",
		UserName:  "Dewi",
		MatchID:   "euro-2024-06",
		HomeScore: 0,
		AwayScore: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "pred-new", got.ID)
	assert.Equal(t, "user-dewi", got.UserID)
	assert.Equal(t, memory.TournamentIDEuro2024, got.TournamentID)
	assert.Nil(t, got.Score)
}

func TestPredictionService_UpsertKeepsExistingID(t *testing.T) {
	t.Parallel()

	svc := newPredictionService(newSeededRepos())
	got, err := svc.Upsert(context.Background(), UpsertPredictionInput{
		UserID:    "user-ana",
		MatchID:   "euro-2024-05",
		HomeScore: 3,
		AwayScore: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "pred-user-ana-euro-2024-05", got.ID)
	assert.Equal(t, "Ana", got.UserName)
	assert.Equal(t, 3, got.HomeScore)
}

func TestPredictionService_UpsertScoresLiveMatch(t *testing.T) {
	t.Parallel()

	svc := newPredictionService(newSeededRepos())
	got, err := svc.Upsert(context.Background(), UpsertPredictionInput{
		UserID:    "user-ana",
		MatchID:   "euro-2024-11",
		HomeScore: 0,
		AwayScore: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	if got.Score.Points != 8 {
		t.Fatalf("unexpected live points: got=%d want=%d", got.Score.Points, 8)
	}
}

func TestPredictionService_UpsertRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input UpsertPredictionInput
		want  error
	}{
		{name: "finished match", input: UpsertPredictionInput{UserID: "user-ana", MatchID: "euro-2024-01", HomeScore: 1}, want: ErrConflict},
		{name: "negative score", input: UpsertPredictionInput{UserID: "user-ana", MatchID: "euro-2024-05", HomeScore: -1}, want: ErrInvalidInput},
		{name: "missing user", input: UpsertPredictionInput{MatchID: "euro-2024-05"}, want: ErrInvalidInput},
		{name: "unknown match", input: UpsertPredictionInput{UserID: "user-ana", MatchID: "missing"}, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newPredictionService(newSeededRepos())
			if _, err := svc.Upsert(context.Background(), tt.input); !errors.Is(err, tt.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tt.want)
			}
		})
	}
}

func TestPredictionService_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := newSeededRepos()
	svc := newPredictionService(repos)

	deleted, err := svc.Delete(ctx, []string{"pred-user-ana-euro-2024-01", " pred-user-ana-euro-2024-01 ", "missing", ""})
	require.NoError(t, err)
	if deleted != 1 {
		t.Fatalf("unexpected deleted count: got=%d want=%d", deleted, 1)
	}

	items, err := svc.ListByMatch(ctx, "euro-2024-01")
	require.NoError(t, err)
	assert.Len(t, items, 2)

	if _, err := svc.Delete(ctx, []string{" "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPredictionService_ListByUserAndTournament(t *testing.T) {
	t.Parallel()

	svc := newPredictionService(newSeededRepos())
	items, err := svc.ListByUserAndTournament(context.Background(), "user-budi", memory.TournamentIDEuro2024)
	require.NoError(t, err)
	require.Len(t, items, 7)
	assert.Equal(t, "euro-2024-01", items[0].MatchID)

	if _, err := svc.ListByUserAndTournament(context.Background(), "user-budi", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
