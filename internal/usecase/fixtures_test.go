package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/infrastructure/repository/memory"
)

type seededRepos struct {
	tournaments *memory.TournamentRepository
	rooms       *memory.RoomRepository
	matches     *memory.MatchRepository
	predictions *memory.PredictionRepository
}

func newSeededRepos() seededRepos {
	seedMatches := memory.SeedMatches()
	matches := memory.NewMatchRepository(seedMatches)
	return seededRepos{
		tournaments: memory.NewTournamentRepository(memory.SeedTournaments()),
		rooms:       memory.NewRoomRepository(memory.SeedRooms()),
		matches:     matches,
		predictions: memory.NewPredictionRepository(matches, memory.SeedPredictions(seedMatches)),
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []match.UpdatedEvent
	err    error
}

func (p *recordingPublisher) PublishMatchUpdated(_ context.Context, event match.UpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

var errBroken = errors.New("broken")

func intPtr(v int) *int {
	return &v
}
