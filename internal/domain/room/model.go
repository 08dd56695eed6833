package room

type Type string

const (
	TypePublic  Type = "public"
	TypePrivate Type = "private"
)

// Room is a private or public group of users competing on one leaderboard.
type Room struct {
	ID             string
	Name           string
	Type           Type
	CreatorID      string
	ParticipantIDs []string
}

func (r Room) HasParticipant(userID string) bool {
	for _, id := range r.ParticipantIDs {
		if id == userID {
			return true
		}
	}
	return false
}
