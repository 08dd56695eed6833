package httpapi

import (
	"time"

	"github.com/riskibarqy/score-predictor/internal/domain/leaderboard"
	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/standings"
	"github.com/riskibarqy/score-predictor/internal/domain/statistics"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
	"github.com/riskibarqy/score-predictor/internal/domain/tournament"
	"github.com/riskibarqy/score-predictor/internal/usecase"
)

type upsertPredictionRequest struct {
	UserID    string `json:"user_id" validate:"required,max=64"`
	UserName  string `json:"user_name" validate:"omitempty,max=100"`
	MatchID   string `json:"match_id" validate:"required,max=64"`
	HomeScore *int   `json:"home_score" validate:"required,min=0,max=99"`
	AwayScore *int   `json:"away_score" validate:"required,min=0,max=99"`
}

type updateMatchResultRequest struct {
	Status    string `json:"status" validate:"required"`
	HomeScore *int   `json:"home_score" validate:"omitempty,min=0,max=99"`
	AwayScore *int   `json:"away_score" validate:"omitempty,min=0,max=99"`
}

type deletePredictionsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500,dive,required"`
}

type tournamentScopedQuery struct {
	OwnerID      string `validate:"required"`
	TournamentID string `validate:"required"`
}

type rescoreQuery struct {
	Workers int `validate:"omitempty,min=1,max=32"`
}

type tournamentDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Logo            string `json:"logo"`
	Status          string `json:"status"`
	GroupCount      int    `json:"group_count"`
	GroupMatchCount int    `json:"group_match_count"`
	KnockoutRound   int    `json:"knockout_round"`
}

type teamDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
	Rank int    `json:"rank"`
}

type matchDTO struct {
	ID           string  `json:"id"`
	TournamentID string  `json:"tournament_id"`
	Stage        string  `json:"stage"`
	GroupTour    string  `json:"group_tour,omitempty"`
	GroupName    string  `json:"group_name,omitempty"`
	Status       string  `json:"status"`
	HomeScore    *int    `json:"home_score"`
	AwayScore    *int    `json:"away_score"`
	MatchDate    string  `json:"match_date"`
	HomeTeam     teamDTO `json:"home_team"`
	AwayTeam     teamDTO `json:"away_team"`
}

type scoreDTO struct {
	Points            int  `json:"points"`
	CorrectScore      bool `json:"correct_score"`
	CorrectResult     bool `json:"correct_result"`
	CorrectDifference bool `json:"correct_difference"`
	FivePlusGoals     bool `json:"five_plus_goals"`
}

type predictionDTO struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	MatchID      string    `json:"match_id"`
	TournamentID string    `json:"tournament_id"`
	HomeScore    int       `json:"home_score"`
	AwayScore    int       `json:"away_score"`
	Score        *scoreDTO `json:"score"`
	Match        *matchDTO `json:"match,omitempty"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

type standingRowDTO struct {
	Rank           int      `json:"rank"`
	TeamID         string   `json:"team_id"`
	Team           string   `json:"team"`
	Logo           string   `json:"logo"`
	Played         int      `json:"played"`
	Won            int      `json:"won"`
	Drawn          int      `json:"drawn"`
	Lost           int      `json:"lost"`
	GoalsScored    int      `json:"goals_scored"`
	GoalsAgainst   int      `json:"goals_against"`
	GoalDifference int      `json:"goal_difference"`
	Points         int      `json:"points"`
	Form           []string `json:"form"`
}

type standingGroupDTO struct {
	Group string           `json:"group"`
	Rows  []standingRowDTO `json:"rows"`
}

type leaderboardEntryDTO struct {
	Rank              int    `json:"rank"`
	UserID            string `json:"user_id"`
	UserName          string `json:"user_name"`
	Points            int    `json:"points"`
	CorrectScore      int    `json:"correct_score"`
	CorrectResult     int    `json:"correct_result"`
	CorrectDifference int    `json:"correct_difference"`
	FivePlusGoals     int    `json:"five_plus_goals"`
	Predictions       int    `json:"predictions"`
}

type teamPointsDTO struct {
	Team   string `json:"team"`
	Points int    `json:"points"`
}

type statisticsDTO struct {
	Total                     int             `json:"total"`
	TotalPoints               int             `json:"total_points"`
	CorrectScore              int             `json:"correct_score"`
	CorrectResult             int             `json:"correct_result"`
	CorrectDifference         int             `json:"correct_difference"`
	FivePlusGoals             int             `json:"five_plus_goals"`
	CorrectScorePercentage    float64         `json:"correct_score_percentage"`
	CorrectResultPercentage   float64         `json:"correct_result_percentage"`
	CorrectScorePerRow        int             `json:"correct_score_per_row"`
	CorrectResultPerRow       int             `json:"correct_result_per_row"`
	LongestCorrectStreak      int             `json:"longest_correct_streak"`
	LongestLosingStreak       int             `json:"longest_losing_streak"`
	MostCommonCorrectScore    string          `json:"most_common_correct_score"`
	MostPopularPredictedScore string          `json:"most_popular_predicted_score"`
	CorrectHomePredictions    int             `json:"correct_home_predictions"`
	CorrectAwayPredictions    int             `json:"correct_away_predictions"`
	HomePredictions           int             `json:"home_predictions"`
	AwayPredictions           int             `json:"away_predictions"`
	DrawPredictions           int             `json:"draw_predictions"`
	MostCommonPrediction      string          `json:"most_common_prediction"`
	TopFiveFavoriteTeams      []teamPointsDTO `json:"top_five_favorite_teams"`
}

type matchUpdateDTO struct {
	Match    matchDTO `json:"match"`
	Rescored int      `json:"rescored_predictions"`
}

type matchRescoreDTO struct {
	MatchID     string `json:"match_id"`
	Predictions int    `json:"predictions"`
	Error       string `json:"error,omitempty"`
}

type rescoreDTO struct {
	TournamentID    string            `json:"tournament_id"`
	WorkerCount     int               `json:"worker_count"`
	MatchCount      int               `json:"match_count"`
	PredictionCount int               `json:"prediction_count"`
	FailedCount     int               `json:"failed_count"`
	Matches         []matchRescoreDTO `json:"matches"`
}

type deletedDTO struct {
	Deleted int `json:"deleted"`
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

func tournamentToDTO(v tournament.Tournament) tournamentDTO {
	return tournamentDTO{
		ID:              v.ID,
		Name:            v.Name,
		Logo:            v.Logo,
		Status:          string(v.Status),
		GroupCount:      v.GroupCount,
		GroupMatchCount: v.GroupMatchCount,
		KnockoutRound:   v.KnockoutRound,
	}
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{ID: v.ID, Name: v.Name, Logo: v.Logo, Rank: v.Rank}
}

func matchToDTO(v match.Match) matchDTO {
	return matchDTO{
		ID:           v.ID,
		TournamentID: v.TournamentID,
		Stage:        string(v.Stage),
		GroupTour:    v.GroupTour,
		GroupName:    v.GroupName,
		Status:       string(v.Status),
		HomeScore:    copyInt(v.HomeScore),
		AwayScore:    copyInt(v.AwayScore),
		MatchDate:    formatTime(v.MatchDate),
		HomeTeam:     teamToDTO(v.HomeTeam),
		AwayTeam:     teamToDTO(v.AwayTeam),
	}
}

func matchesToDTO(items []match.Match) []matchDTO {
	out := make([]matchDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchToDTO(item))
	}
	return out
}

// predictionToDTO embeds the match only when the caller is not already
// scoped to one.
func predictionToDTO(v prediction.Prediction, withMatch bool) predictionDTO {
	out := predictionDTO{
		ID:           v.ID,
		UserID:       v.UserID,
		UserName:     v.UserName,
		MatchID:      v.MatchID,
		TournamentID: v.TournamentID,
		HomeScore:    v.HomeScore,
		AwayScore:    v.AwayScore,
		CreatedAt:    formatTime(v.CreatedAt),
		UpdatedAt:    formatTime(v.UpdatedAt),
	}
	if v.Score != nil {
		out.Score = &scoreDTO{
			Points:            v.Score.Points,
			CorrectScore:      v.Score.CorrectScore,
			CorrectResult:     v.Score.CorrectResult,
			CorrectDifference: v.Score.CorrectDifference,
			FivePlusGoals:     v.Score.FivePlusGoals,
		}
	}
	if withMatch && v.Match.ID != "" {
		m := matchToDTO(v.Match)
		out.Match = &m
	}
	return out
}

func predictionsToDTO(items []prediction.Prediction, withMatch bool) []predictionDTO {
	out := make([]predictionDTO, 0, len(items))
	for _, item := range items {
		out = append(out, predictionToDTO(item, withMatch))
	}
	return out
}

func standingRowsToDTO(rows []standings.Row) []standingRowDTO {
	out := make([]standingRowDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, standingRowDTO{
			Rank:           r.Rank,
			TeamID:         r.TeamID,
			Team:           r.Team,
			Logo:           r.Logo,
			Played:         r.Played,
			Won:            r.Won,
			Drawn:          r.Drawn,
			Lost:           r.Lost,
			GoalsScored:    r.GoalsScored,
			GoalsAgainst:   r.GoalsAgainst,
			GoalDifference: r.GoalDifference(),
			Points:         r.Points,
			Form:           append([]string{}, r.Form...),
		})
	}
	return out
}

func standingsToDTO(table standings.Table) []standingGroupDTO {
	groups := table.Groups()
	out := make([]standingGroupDTO, 0, len(groups))
	for _, g := range groups {
		out = append(out, standingGroupDTO{Group: g, Rows: standingRowsToDTO(table[g])})
	}
	return out
}

func leaderboardToDTO(entries []leaderboard.Entry) []leaderboardEntryDTO {
	out := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryDTO{
			Rank:              e.Rank,
			UserID:            e.UserID,
			UserName:          e.UserName,
			Points:            e.Points,
			CorrectScore:      e.CorrectScore,
			CorrectResult:     e.CorrectResult,
			CorrectDifference: e.CorrectDifference,
			FivePlusGoals:     e.FivePlusGoals,
			Predictions:       e.Predictions,
		})
	}
	return out
}

func statisticsToDTO(s statistics.Summary) statisticsDTO {
	teams := make([]teamPointsDTO, 0, len(s.TopFiveFavoriteTeams))
	for _, t := range s.TopFiveFavoriteTeams {
		teams = append(teams, teamPointsDTO{Team: t.Team, Points: t.Points})
	}

	return statisticsDTO{
		Total:                     s.Total,
		TotalPoints:               s.TotalPoints,
		CorrectScore:              s.CorrectScore,
		CorrectResult:             s.CorrectResult,
		CorrectDifference:         s.CorrectDifference,
		FivePlusGoals:             s.FivePlusGoals,
		CorrectScorePercentage:    s.CorrectScorePercentage,
		CorrectResultPercentage:   s.CorrectResultPercentage,
		CorrectScorePerRow:        s.CorrectScorePerRow,
		CorrectResultPerRow:       s.CorrectResultPerRow,
		LongestCorrectStreak:      s.LongestCorrectStreak,
		LongestLosingStreak:       s.LongestLosingStreak,
		MostCommonCorrectScore:    s.MostCommonCorrectScore,
		MostPopularPredictedScore: s.MostPopularPredictedScore,
		CorrectHomePredictions:    s.CorrectHomePredictions,
		CorrectAwayPredictions:    s.CorrectAwayPredictions,
		HomePredictions:           s.HomePredictions,
		AwayPredictions:           s.AwayPredictions,
		DrawPredictions:           s.DrawPredictions,
		MostCommonPrediction:      string(s.MostCommonPrediction),
		TopFiveFavoriteTeams:      teams,
	}
}

func rescoreToDTO(v usecase.RescoreResult) rescoreDTO {
	rows := make([]matchRescoreDTO, 0, len(v.Matches))
	for _, m := range v.Matches {
		rows = append(rows, matchRescoreDTO{MatchID: m.MatchID, Predictions: m.Predictions, Error: m.Error})
	}
	return rescoreDTO{
		TournamentID:    v.TournamentID,
		WorkerCount:     v.WorkerCount,
		MatchCount:      v.MatchCount,
		PredictionCount: v.PredictionCount,
		FailedCount:     v.FailedCount,
		Matches:         rows,
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
