package postgres

import (
	"database/sql"
	"time"
)

type tournamentTableModel struct {
	PublicID        string `db:"public_id"`
	Name            string `db:"name"`
	Logo            string `db:"logo"`
	Status          string `db:"status"`
	GroupCount      int    `db:"group_count"`
	GroupMatchCount int    `db:"group_match_count"`
	KnockoutRound   int    `db:"knockout_round"`
}

type roomTableModel struct {
	PublicID  string `db:"public_id"`
	Name      string `db:"name"`
	Type      string `db:"type"`
	CreatorID string `db:"creator_user_id"`
}

// matchRow is a match joined with both of its teams.
type matchRow struct {
	PublicID     string         `db:"public_id"`
	TournamentID string         `db:"tournament_public_id"`
	Stage        string         `db:"stage"`
	GroupTour    string         `db:"group_tour"`
	GroupName    sql.NullString `db:"group_name"`
	Status       string         `db:"status"`
	HomeScore    sql.NullInt64  `db:"home_score"`
	AwayScore    sql.NullInt64  `db:"away_score"`
	MatchDate    time.Time      `db:"match_date"`
	UpdatedAt    time.Time      `db:"updated_at"`
	HomeTeamID   string         `db:"home_team_public_id"`
	HomeTeamName string         `db:"home_team_name"`
	HomeTeamLogo string         `db:"home_team_logo"`
	HomeTeamRank int            `db:"home_team_rank"`
	AwayTeamID   string         `db:"away_team_public_id"`
	AwayTeamName string         `db:"away_team_name"`
	AwayTeamLogo string         `db:"away_team_logo"`
	AwayTeamRank int            `db:"away_team_rank"`
}

// predictionRow is a prediction joined with its match row.
type predictionRow struct {
	PredictionID      string        `db:"prediction_public_id"`
	UserID            string        `db:"user_id"`
	UserName          string        `db:"user_name"`
	PredictedHome     int           `db:"predicted_home_score"`
	PredictedAway     int           `db:"predicted_away_score"`
	Points            sql.NullInt64 `db:"points"`
	CorrectScore      sql.NullBool  `db:"correct_score"`
	CorrectResult     sql.NullBool  `db:"correct_result"`
	CorrectDifference sql.NullBool  `db:"correct_difference"`
	FivePlusGoals     sql.NullBool  `db:"five_plus_goals"`
	CreatedAt         time.Time     `db:"prediction_created_at"`
	PredictionUpdated time.Time     `db:"prediction_updated_at"`
	matchRow
}

type predictionInsertModel struct {
	PublicID          string        `db:"public_id"`
	UserID            string        `db:"user_id"`
	UserName          string        `db:"user_name"`
	MatchID           string        `db:"match_public_id"`
	TournamentID      string        `db:"tournament_public_id"`
	HomeScore         int           `db:"home_score"`
	AwayScore         int           `db:"away_score"`
	Points            sql.NullInt64 `db:"points"`
	CorrectScore      sql.NullBool  `db:"correct_score"`
	CorrectResult     sql.NullBool  `db:"correct_result"`
	CorrectDifference sql.NullBool  `db:"correct_difference"`
	FivePlusGoals     sql.NullBool  `db:"five_plus_goals"`
}
