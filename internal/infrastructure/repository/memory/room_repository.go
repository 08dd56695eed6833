package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/score-predictor/internal/domain/room"
)

type RoomRepository struct {
	mu    sync.RWMutex
	items map[string]room.Room
}

func NewRoomRepository(rooms []room.Room) *RoomRepository {
	items := make(map[string]room.Room, len(rooms))
	for _, item := range rooms {
		item.ParticipantIDs = append([]string(nil), item.ParticipantIDs...)
		items[item.ID] = item
	}
	return &RoomRepository{items: items}
}

func (r *RoomRepository) GetByID(_ context.Context, roomID string) (room.Room, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[roomID]
	if !ok {
		return room.Room{}, false, nil
	}
	item.ParticipantIDs = append([]string(nil), item.ParticipantIDs...)
	return item, true, nil
}
