package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/score-predictor/internal/domain/prediction"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

var predictionColumns = append([]string{
	"p.public_id AS prediction_public_id",
	"p.user_id",
	"p.user_name",
	"p.home_score AS predicted_home_score",
	"p.away_score AS predicted_away_score",
	"p.points",
	"p.correct_score",
	"p.correct_result",
	"p.correct_difference",
	"p.five_plus_goals",
	"p.created_at AS prediction_created_at",
	"p.updated_at AS prediction_updated_at",
}, matchColumns...)

const upsertPredictionSuffix = "ON CONFLICT (user_id, match_public_id) WHERE deleted_at IS NULL DO UPDATE SET " +
	"user_name = EXCLUDED.user_name, home_score = EXCLUDED.home_score, away_score = EXCLUDED.away_score, " +
	"points = EXCLUDED.points, correct_score = EXCLUDED.correct_score, correct_result = EXCLUDED.correct_result, " +
	"correct_difference = EXCLUDED.correct_difference, five_plus_goals = EXCLUDED.five_plus_goals, updated_at = NOW() " +
	"RETURNING public_id"

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func selectPredictions() *qb.SelectBuilder {
	return qb.Select(predictionColumns...).
		From("predictions p").
		Join("JOIN matches m ON m.public_id = p.match_public_id AND m.deleted_at IS NULL").
		Join(joinHomeTeam).
		Join(joinAwayTeam)
}

func (r *PredictionRepository) GetByUserAndMatch(ctx context.Context, userID, matchID string) (prediction.Prediction, bool, error) {
	return r.getOne(ctx,
		qb.Eq("p.user_id", userID),
		qb.Eq("p.match_public_id", matchID),
	)
}

func (r *PredictionRepository) getOne(ctx context.Context, conditions ...qb.Condition) (prediction.Prediction, bool, error) {
	query, args, err := selectPredictions().
		Where(append(conditions, qb.IsNull("p.deleted_at"))...).
		Limit(1).
		ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build select prediction query: %w", err)
	}

	var row predictionRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	if strings.TrimSpace(item.ID) == "" {
		return prediction.Prediction{}, fmt.Errorf("prediction id is required")
	}

	score := nullableScore(item.Score)
	query, args, err := qb.InsertModel("predictions", predictionInsertModel{
		PublicID:          item.ID,
		UserID:            item.UserID,
		UserName:          item.UserName,
		MatchID:           item.MatchID,
		TournamentID:      item.TournamentID,
		HomeScore:         item.HomeScore,
		AwayScore:         item.AwayScore,
		Points:            score.points,
		CorrectScore:      score.correctScore,
		CorrectResult:     score.correctResult,
		CorrectDifference: score.correctDifference,
		FivePlusGoals:     score.fivePlusGoals,
	}, upsertPredictionSuffix)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var publicID string
	if err := r.db.GetContext(ctx, &publicID, query, args...); err != nil {
		if isConstraintViolation(err) {
			return prediction.Prediction{}, fmt.Errorf("upsert prediction user=%s match=%s: constraint %s: %w", item.UserID, item.MatchID, pqCode(err), err)
		}
		return prediction.Prediction{}, fmt.Errorf("upsert prediction: %w", err)
	}

	saved, exists, err := r.getOne(ctx, qb.Eq("p.public_id", publicID))
	if err != nil {
		return prediction.Prediction{}, err
	}
	if !exists {
		return prediction.Prediction{}, fmt.Errorf("upserted prediction %s not readable", publicID)
	}
	return saved, nil
}

func (r *PredictionRepository) ListByMatch(ctx context.Context, matchID string) ([]prediction.Prediction, error) {
	return r.list(ctx, "select predictions by match",
		qb.Eq("p.match_public_id", matchID),
	)
}

func (r *PredictionRepository) ListByTournament(ctx context.Context, tournamentID string) ([]prediction.Prediction, error) {
	return r.list(ctx, "select predictions by tournament",
		qb.Eq("p.tournament_public_id", tournamentID),
	)
}

func (r *PredictionRepository) ListByUserAndTournament(ctx context.Context, userID, tournamentID string) ([]prediction.Prediction, error) {
	return r.list(ctx, "select predictions by user and tournament",
		qb.Eq("p.user_id", userID),
		qb.Eq("p.tournament_public_id", tournamentID),
	)
}

func (r *PredictionRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]prediction.Prediction, error) {
	query, args, err := selectPredictions().
		Where(append(conditions, qb.IsNull("p.deleted_at"))...).
		OrderBy("m.match_date ASC", "m.public_id ASC", "p.public_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", op, err)
	}

	var rows []predictionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// SaveScores writes all score updates for one match in a single transaction.
func (r *PredictionRepository) SaveScores(ctx context.Context, matchID string, updates []prediction.ScoreUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save prediction scores tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, update := range updates {
		score := nullableScore(update.Score)
		query, args, err := qb.Update("predictions").
			Set("points", score.points).
			Set("correct_score", score.correctScore).
			Set("correct_result", score.correctResult).
			Set("correct_difference", score.correctDifference).
			Set("five_plus_goals", score.fivePlusGoals).
			SetExpr("updated_at", "NOW()").
			Where(
				qb.Eq("public_id", update.PredictionID),
				qb.Eq("match_public_id", matchID),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return fmt.Errorf("build update prediction score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update prediction score id=%s: %w", update.PredictionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save prediction scores tx: %w", err)
	}
	return nil
}

// DeleteByIDs soft-deletes predictions and reports how many were removed.
func (r *PredictionRepository) DeleteByIDs(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := qb.Update("predictions").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.In("public_id", ids),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete predictions query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete predictions: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("read deleted prediction rows: %w", err)
	}
	return int(affected), nil
}
