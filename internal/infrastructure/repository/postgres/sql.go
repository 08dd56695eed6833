package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	"github.com/riskibarqy/score-predictor/internal/domain/team"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

var matchColumns = []string{
	"m.public_id",
	"m.tournament_public_id",
	"m.stage",
	"m.group_tour",
	"m.group_name",
	"m.status",
	"m.home_score",
	"m.away_score",
	"m.match_date",
	"m.updated_at",
	"ht.public_id AS home_team_public_id",
	"ht.name AS home_team_name",
	"ht.logo AS home_team_logo",
	"ht.rank AS home_team_rank",
	"at.public_id AS away_team_public_id",
	"at.name AS away_team_name",
	"at.logo AS away_team_logo",
	"at.rank AS away_team_rank",
}

const (
	joinHomeTeam = "JOIN teams ht ON ht.public_id = m.home_team_public_id AND ht.deleted_at IS NULL"
	joinAwayTeam = "JOIN teams at ON at.public_id = m.away_team_public_id AND at.deleted_at IS NULL"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isConstraintViolation(err error) bool {
	code := pqCode(err)
	return code == pqUniqueViolation || code == pqForeignKeyViolation
}

func (r matchRow) toDomain() match.Match {
	m := match.Match{
		ID:           r.PublicID,
		TournamentID: r.TournamentID,
		Stage:        match.Stage(r.Stage),
		GroupTour:    r.GroupTour,
		GroupName:    r.GroupName.String,
		Status:       match.Status(r.Status),
		HomeScore:    nullIntPtr(r.HomeScore),
		AwayScore:    nullIntPtr(r.AwayScore),
		MatchDate:    r.MatchDate.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		HomeTeam:     team.Team{ID: r.HomeTeamID, Name: r.HomeTeamName, Logo: r.HomeTeamLogo, Rank: r.HomeTeamRank},
		AwayTeam:     team.Team{ID: r.AwayTeamID, Name: r.AwayTeamName, Logo: r.AwayTeamLogo, Rank: r.AwayTeamRank},
	}
	return m
}

func (r predictionRow) toDomain() prediction.Prediction {
	out := prediction.Prediction{
		ID:           r.PredictionID,
		UserID:       r.UserID,
		UserName:     r.UserName,
		MatchID:      r.PublicID,
		TournamentID: r.TournamentID,
		HomeScore:    r.PredictedHome,
		AwayScore:    r.PredictedAway,
		Match:        r.matchRow.toDomain(),
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.PredictionUpdated.UTC(),
	}
	if r.Points.Valid {
		out.Score = &prediction.Score{
			Points:            int(r.Points.Int64),
			CorrectScore:      r.CorrectScore.Bool,
			CorrectResult:     r.CorrectResult.Bool,
			CorrectDifference: r.CorrectDifference.Bool,
			FivePlusGoals:     r.FivePlusGoals.Bool,
		}
	}
	return out
}

type scoreColumns struct {
	points            sql.NullInt64
	correctScore      sql.NullBool
	correctResult     sql.NullBool
	correctDifference sql.NullBool
	fivePlusGoals     sql.NullBool
}

// nullableScore maps an unscored prediction to NULL columns.
func nullableScore(score *prediction.Score) scoreColumns {
	if score == nil {
		return scoreColumns{}
	}
	return scoreColumns{
		points:            sql.NullInt64{Int64: int64(score.Points), Valid: true},
		correctScore:      sql.NullBool{Bool: score.CorrectScore, Valid: true},
		correctResult:     sql.NullBool{Bool: score.CorrectResult, Valid: true},
		correctDifference: sql.NullBool{Bool: score.CorrectDifference, Valid: true},
		fivePlusGoals:     sql.NullBool{Bool: score.FivePlusGoals, Valid: true},
	}
}

func nullIntPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
