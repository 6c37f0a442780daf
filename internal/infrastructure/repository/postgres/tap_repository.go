package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kapofest/cheerboard/internal/domain/tap"
	"github.com/kapofest/cheerboard/internal/platform/id"
	qb "github.com/kapofest/cheerboard/internal/platform/querybuilder"
)

// tapUpsertSuffix makes the insert-or-increment a single statement. Postgres
// takes a row lock on the conflicting row, so concurrent increments on the
// same (match, team, user) key serialize and compose instead of racing.
const tapUpsertSuffix = `ON CONFLICT (match_public_id, team_public_id, user_id)
DO UPDATE SET
    count = cheer_taps.count + EXCLUDED.count,
    updated_at = NOW()
RETURNING public_id, match_public_id, team_public_id, user_id, count, updated_at`

type TapRepository struct {
	db    *sqlx.DB
	idGen id.Generator
}

func NewTapRepository(db *sqlx.DB, idGen id.Generator) *TapRepository {
	return &TapRepository{db: db, idGen: idGen}
}

func (r *TapRepository) Increment(ctx context.Context, matchID, teamID, userID string, count int64) (tap.Record, error) {
	if count <= 0 {
		return tap.Record{}, fmt.Errorf("increment count must be positive, got %d", count)
	}

	publicID, err := r.idGen.NewID()
	if err != nil {
		return tap.Record{}, fmt.Errorf("generate tap record id: %w", err)
	}

	query, args, err := qb.InsertModel("cheer_taps", tapInsertModel{
		PublicID: publicID,
		MatchID:  matchID,
		TeamID:   teamID,
		UserID:   userID,
		Count:    count,
	}, tapUpsertSuffix)
	if err != nil {
		return tap.Record{}, fmt.Errorf("build upsert tap query: %w", err)
	}

	var stored tapTableModel
	if err := r.db.GetContext(ctx, &stored, query, args...); err != nil {
		return tap.Record{}, fmt.Errorf("upsert tap: %w", err)
	}

	return mapTapRowToDomain(stored), nil
}

func (r *TapRepository) TotalsByTeam(ctx context.Context, matchID string, teamIDs []string) (map[string]int64, error) {
	ids := make([]any, 0, len(teamIDs))
	for _, teamID := range teamIDs {
		ids = append(ids, teamID)
	}

	query, args, err := qb.Select("team_public_id", "COALESCE(SUM(count), 0) AS total").
		From("cheer_taps").
		Where(
			qb.Eq("match_public_id", matchID),
			qb.In("team_public_id", ids),
		).
		GroupBy("team_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build tap totals query: %w", err)
	}

	var rows []tapTotalRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select tap totals: %w", err)
	}

	totals := make(map[string]int64, len(teamIDs))
	for _, teamID := range teamIDs {
		totals[teamID] = 0
	}
	for _, row := range rows {
		totals[row.TeamID] = row.Total
	}

	return totals, nil
}

func (r *TapRepository) ListByMatch(ctx context.Context, matchID string) ([]tap.Record, error) {
	query, args, err := qb.Select("*").From("cheer_taps").
		Where(qb.Eq("match_public_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list taps query: %w", err)
	}

	var rows []tapTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list taps: %w", err)
	}

	out := make([]tap.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapTapRowToDomain(row))
	}

	return out, nil
}

func mapTapRowToDomain(row tapTableModel) tap.Record {
	return tap.Record{
		ID:        row.PublicID,
		MatchID:   row.MatchID,
		TeamID:    row.TeamID,
		UserID:    row.UserID,
		Count:     row.Count,
		UpdatedAt: row.UpdatedAt,
	}
}
