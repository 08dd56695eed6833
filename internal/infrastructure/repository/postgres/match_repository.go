package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/score-predictor/internal/domain/match"
	qb "github.com/riskibarqy/score-predictor/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

func selectMatches() *qb.SelectBuilder {
	return qb.Select(matchColumns...).
		From("matches m").
		Join(joinHomeTeam).
		Join(joinAwayTeam)
}

func (r *MatchRepository) GetByID(ctx context.Context, matchID string) (match.Match, bool, error) {
	query, args, err := selectMatches().
		Where(
			qb.Eq("m.public_id", matchID),
			qb.IsNull("m.deleted_at"),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build select match by id query: %w", err)
	}

	var row matchRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}
	return row.toDomain(), true, nil
}

func (r *MatchRepository) ListByTournament(ctx context.Context, tournamentID string) ([]match.Match, error) {
	query, args, err := selectMatches().
		Where(
			qb.Eq("m.tournament_public_id", tournamentID),
			qb.IsNull("m.deleted_at"),
		).
		OrderBy("m.match_date ASC", "m.public_id ASC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by tournament query: %w", err)
	}

	var rows []matchRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches by tournament: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *MatchRepository) UpdateResult(ctx context.Context, update match.ResultUpdate) (match.Match, bool, error) {
	query, args, err := qb.Update("matches").
		Set("status", string(update.Status)).
		Set("home_score", nullableInt(update.HomeScore)).
		Set("away_score", nullableInt(update.AwayScore)).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", update.MatchID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build update match result query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return match.Match{}, false, fmt.Errorf("update match result: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("read updated match rows: %w", err)
	}
	if affected == 0 {
		return match.Match{}, false, nil
	}

	return r.GetByID(ctx, update.MatchID)
}
