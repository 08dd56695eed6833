package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/score-predictor/internal/domain/room"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, roomID string) (room.Room, bool, error) {
	query, args, err := qb.Select("public_id", "name", "type", "creator_user_id").
		From("rooms").
		Where(
			qb.Eq("public_id", roomID),
			qb.IsNull("deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return room.Room{}, false, fmt.Errorf("build select room by id query: %w", err)
	}

	var row roomTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return room.Room{}, false, nil
		}
		return room.Room{}, false, fmt.Errorf("get room by id: %w", err)
	}

	participantsQuery, participantsArgs, err := qb.Select("user_id").
		From("room_participants").
		Where(qb.Eq("room_public_id", roomID)).
		OrderBy("joined_at ASC", "user_id ASC").
		ToSQL()
	if err != nil {
		return room.Room{}, false, fmt.Errorf("build select room participants query: %w", err)
	}

	var participants []string
	if err := r.db.SelectContext(ctx, &participants, participantsQuery, participantsArgs...); err != nil {
		return room.Room{}, false, fmt.Errorf("select room participants: %w", err)
	}

	return room.Room{
		ID:             row.PublicID,
		Name:           row.Name,
		Type:           room.Type(row.Type),
		CreatorID:      row.CreatorID,
		ParticipantIDs: participants,
	}, true, nil
}
