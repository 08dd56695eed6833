package team

import (
	"fmt"
	"strings"
)

// Team is a national or club side taking part in a tournament.
type Team struct {
	ID   string
	Name string
	Logo string
	// Rank is the external seeding rank. Lower is better.
	Rank int
}

// Key identifies a team inside computed tables. It falls back to the display
// name for teams loaded without an id.
func (t Team) Key() string {
	if id := strings.TrimSpace(t.ID); id != "" {
		return id
	}
	return strings.TrimSpace(t.Name)
}

func (t Team) Validate() error {
	if t.Key() == "" {
		return fmt.Errorf("team id or name is required")
	}
	if t.Rank < 0 {
		return fmt.Errorf("team rank must be >= 0")
	}

	return nil
}
