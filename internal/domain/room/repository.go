package room

import "context"

type Repository interface {
	GetByID(ctx context.Context, roomID string) (Room, bool, error)
}
