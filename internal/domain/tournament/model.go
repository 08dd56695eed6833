package tournament

type Status string

const (
	StatusScheduled  Status = "SCHEDULED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
)

// Tournament groups the matches users predict on.
type Tournament struct {
	ID              string
	Name            string
	Logo            string
	Status          Status
	GroupCount      int
	GroupMatchCount int
	KnockoutRound   int
}
