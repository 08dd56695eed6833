package statistics

// Direction is the side a prediction favoured.
type Direction string

const (
	DirectionHome Direction = "home"
	DirectionAway Direction = "away"
	DirectionDraw Direction = "draw"
)

const (
	// MaxSeededGoals bounds the pre-seeded correct score counter per side.
	MaxSeededGoals = 8
	TopTeamsLimit  = 5
)

type TeamPoints struct {
	Team   string
	Points int
}

// Summary aggregates one user's prediction history.
type Summary struct {
	Total                     int
	TotalPoints               int
	CorrectScore              int
	CorrectResult             int
	CorrectDifference         int
	FivePlusGoals             int
	CorrectScorePercentage    float64
	CorrectResultPercentage   float64
	CorrectScorePerRow        int
	CorrectResultPerRow       int
	LongestCorrectStreak      int
	LongestLosingStreak       int
	MostCommonCorrectScore    string
	MostPopularPredictedScore string
	CorrectHomePredictions    int
	CorrectAwayPredictions    int
	HomePredictions           int
	AwayPredictions           int
	DrawPredictions           int
	MostCommonPrediction      Direction
	TopFiveFavoriteTeams      []TeamPoints
}
