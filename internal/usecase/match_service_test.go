package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
)

func newMatchService(repos seededRepos, publisher MatchEventPublisher) *MatchService {
	return NewMatchService(repos.tournaments, repos.matches, repos.predictions, publisher, nil)
}

func TestMatchService_UpdateResultRescoresPredictions(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := newSeededRepos()
	publisher := &recordingPublisher{}
	svc := newMatchService(repos, publisher)

	got, err := svc.UpdateResult(ctx, UpdateMatchResultInput{
		MatchID:   "euro-2024-05",
		Status:    "finished",
		HomeScore: intPtr(2),
		AwayScore: intPtr(1),
	})
	if err != nil {
		t.Fatalf("update result: %v", err)
	}
	if got.Match.Status != match.StatusFinished {
		t.Fatalf("unexpected status: got=%s want=%s", got.Match.Status, match.StatusFinished)
	}
	if got.Rescored != 3 {
		t.Fatalf("unexpected rescored count: got=%d want=%d", got.Rescored, 3)
	}

	items, err := repos.predictions.ListByMatch(ctx, "euro-2024-05")
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	want := map[string]int{"user-ana": 8, "user-budi": 2, "user-citra": 3}
	for _, item := range items {
		if item.Score == nil {
			t.Fatalf("prediction %s left unscored", item.ID)
		}
		if item.Score.Points != want[item.UserID] {
			t.Fatalf("unexpected points for %s: got=%d want=%d", item.UserID, item.Score.Points, want[item.UserID])
		}
	}

	if len(publisher.events) != 1 {
		t.Fatalf("unexpected published events: got=%d want=%d", len(publisher.events), 1)
	}
	event := publisher.events[0]
	if event.MatchID != "euro-2024-05" || event.Rescored != 3 || event.TournamentID != memory.TournamentIDEuro2024 {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestMatchService_UpdateResultBackToScheduledClearsScores(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repos := newSeededRepos()
	svc := newMatchService(repos, nil)

	if _, err := svc.UpdateResult(ctx, UpdateMatchResultInput{MatchID: "euro-2024-01", Status: "Postponed"}); err != nil {
		t.Fatalf("update result: %v", err)
	}

	items, err := repos.predictions.ListByMatch(ctx, "euro-2024-01")
	if err != nil {
		t.Fatalf("list predictions: %v", err)
	}
	for _, item := range items {
		if item.Score != nil {
			t.Fatalf("expected score of %s to be cleared, got %+v", item.ID, *item.Score)
		}
	}
}

func TestMatchService_UpdateResultValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input UpdateMatchResultInput
		want  error
	}{
		{name: "missing id", input: UpdateMatchResultInput{Status: "Finished", HomeScore: intPtr(1), AwayScore: intPtr(0)}, want: ErrInvalidInput},
		{name: "unknown status", input: UpdateMatchResultInput{MatchID: "euro-2024-05", Status: "abandoned"}, want: ErrInvalidInput},
		{name: "live without score", input: UpdateMatchResultInput{MatchID: "euro-2024-05", Status: "Live", HomeScore: intPtr(1)}, want: ErrInvalidInput},
		{name: "negative score", input: UpdateMatchResultInput{MatchID: "euro-2024-05", Status: "Live", HomeScore: intPtr(-1), AwayScore: intPtr(0)}, want: ErrInvalidInput},
		{name: "unknown match", input: UpdateMatchResultInput{MatchID: "missing", Status: "Finished", HomeScore: intPtr(0), AwayScore: intPtr(0)}, want: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newMatchService(newSeededRepos(), nil)
			_, err := svc.UpdateResult(context.Background(), tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("unexpected error: got=%v want=%v", err, tt.want)
			}
		})
	}
}

func TestMatchService_PublishFailureIsNotReturned(t *testing.T) {
	t.Parallel()

	publisher := &recordingPublisher{err: errBroken}
	svc := newMatchService(newSeededRepos(), publisher)

	_, err := svc.UpdateResult(context.Background(), UpdateMatchResultInput{
		MatchID:   "euro-2024-11",
		Status:    "Finished",
		HomeScore: intPtr(0),
		AwayScore: intPtr(2),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected publish attempt, got=%d", len(publisher.events))
	}
}

func TestMatchService_RescoreTournament(t *testing.T) {
	t.Parallel()

	svc := newMatchService(newSeededRepos(), nil)
	got, err := svc.RescoreTournament(context.Background(), memory.TournamentIDEuro2024, 3)
	if err != nil {
		t.Fatalf("rescore tournament: %v", err)
	}
	if got.MatchCount != 18 {
		t.Fatalf("unexpected match count: got=%d want=%d", got.MatchCount, 18)
	}
	if got.PredictionCount != 21 {
		t.Fatalf("unexpected prediction count: got=%d want=%d", got.PredictionCount, 21)
	}
	if got.WorkerCount != 3 || got.FailedCount != 0 {
		t.Fatalf("unexpected run stats: %+v", got)
	}
	if len(got.Matches) != 18 || got.Matches[0].MatchID != "euro-2024-01" {
		t.Fatalf("unexpected match rows: %+v", got.Matches)
	}
}

func TestMatchService_RescoreTournamentNotFound(t *testing.T) {
	t.Parallel()

	svc := newMatchService(newSeededRepos(), nil)
	if _, err := svc.RescoreTournament(context.Background(), "missing", 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNormalizeRescoreWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested, tasks, want int
	}{
		{requested: 0, tasks: 10, want: defaultRescoreWorkers},
		{requested: 100, tasks: 100, want: maxRescoreWorkers},
		{requested: 8, tasks: 2, want: 2},
		{requested: 3, tasks: 0, want: 3},
	}
	for _, tt := range tests {
		if got := normalizeRescoreWorkers(tt.requested, tt.tasks); got != tt.want {
			t.Fatalf("unexpected workers for %d/%d: got=%d want=%d", tt.requested, tt.tasks, got, tt.want)
		}
	}
}

type countingObserver struct {
	updates  []string
	rescored int
	runs     int
}

func (o *countingObserver) ObserveMatchUpdate(status string, rescored int) {
	o.updates = append(o.updates, status)
	o.rescored += rescored
}

func (o *countingObserver) ObserveRescore(predictions int, _ time.Duration) {
	o.runs++
	o.rescored += predictions
}

func TestMatchService_ReportsToObserver(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newMatchService(newSeededRepos(), nil)
	observer := &countingObserver{}
	svc.SetObserver(observer)

	if _, err := svc.UpdateResult(ctx, UpdateMatchResultInput{
		MatchID:   "euro-2024-05",
		Status:    "Live",
		HomeScore: intPtr(0),
		AwayScore: intPtr(0),
	}); err != nil {
		t.Fatalf("update result: %v", err)
	}
	if _, err := svc.RescoreTournament(ctx, memory.TournamentIDEuro2024, 2); err != nil {
		t.Fatalf("rescore tournament: %v", err)
	}

	if len(observer.updates) != 1 || observer.updates[0] != string(match.StatusLive) {
		t.Fatalf("unexpected observed updates: %v", observer.updates)
	}
	if observer.runs != 1 {
		t.Fatalf("unexpected observed runs: got=%d want=%d", observer.runs, 1)
	}
	if observer.rescored != 3+21 {
		t.Fatalf("unexpected observed rescored total: got=%d want=%d", observer.rescored, 24)
	}

	svc.SetObserver(nil)
	if _, err := svc.RescoreTournament(ctx, memory.TournamentIDEuro2024, 2); err != nil {
		t.Fatalf("rescore with nop observer: %v", err)
	}
	if observer.runs != 1 {
		t.Fatalf("observer still attached after reset")
	}
}
