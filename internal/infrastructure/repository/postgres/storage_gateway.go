package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/match-stats-scheduler/internal/domain/match"
	"github.com/riskibarqy/match-stats-scheduler/internal/domain/matchstats"
	qb "github.com/riskibarqy/match-stats-scheduler/internal/platform/querybuilder"
)

const (
	scheduledMatchesTable = "scheduled_matches"
	matchStatisticsTable  = "match_statistics"
)

// StorageGateway persists scheduled matches and collected statistics.
// Rows are keyed by match_id and every write is an upsert.
type StorageGateway struct {
	db  *sqlx.DB
	loc *time.Location
	now func() time.Time
}

// NewStorageGateway returns a gateway that reports times in loc.
func NewStorageGateway(db *sqlx.DB, loc *time.Location) *StorageGateway {
	if loc == nil {
		loc = time.UTC
	}
	return &StorageGateway{db: db, loc: loc, now: time.Now}
}

func (g *StorageGateway) SaveScheduledMatches(ctx context.Context, items []match.Match) error {
	if len(items) == 0 {
		return nil
	}

	updatedAt := g.now()
	models := make([]any, 0, len(items))
	for _, item := range items {
		models = append(models, scheduledMatchModelFrom(item, updatedAt))
	}
	columns, err := qb.Columns(scheduledMatchTableModel{})
	if err != nil {
		return fmt.Errorf("resolve scheduled match columns: %w", err)
	}

	query, args, err := qb.InsertModels(scheduledMatchesTable, models,
		"ON CONFLICT (match_id) DO UPDATE SET\n    "+upsertSetClause(columns, "match_id"))
	if err != nil {
		return fmt.Errorf("build upsert scheduled matches query: %w", err)
	}

	return withTx(ctx, g.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert scheduled matches count=%d: %w", len(items), err)
		}
		return nil
	})
}

func (g *StorageGateway) SaveMatchStatistics(ctx context.Context, item matchstats.Statistics) error {
	columns, err := qb.Columns(matchStatisticsTableModel{})
	if err != nil {
		return fmt.Errorf("resolve match statistics columns: %w", err)
	}

	query, args, err := qb.InsertModel(matchStatisticsTable, matchStatisticsModelFrom(item, g.now()),
		"ON CONFLICT (match_id) DO UPDATE SET\n    "+upsertSetClause(columns, "match_id"))
	if err != nil {
		return fmt.Errorf("build upsert match statistics query: %w", err)
	}

	if _, err := g.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert match statistics match_id=%s: %w", item.MatchID, err)
	}
	return nil
}

func (g *StorageGateway) GetAllMatchStatistics(ctx context.Context) ([]matchstats.Statistics, error) {
	columns, err := qb.Columns(matchStatisticsTableModel{})
	if err != nil {
		return nil, fmt.Errorf("resolve match statistics columns: %w", err)
	}
	query, args, err := qb.Select(columns...).From(matchStatisticsTable).
		OrderBy("match_datetime", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select match statistics query: %w", err)
	}

	var rows []matchStatisticsTableModel
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select match statistics: %w", err)
	}

	out := make([]matchstats.Statistics, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(g.loc))
	}
	return out, nil
}

func (g *StorageGateway) GetUpcomingMatches(ctx context.Context, now time.Time) ([]match.Match, error) {
	columns, err := qb.Columns(scheduledMatchTableModel{})
	if err != nil {
		return nil, fmt.Errorf("resolve scheduled match columns: %w", err)
	}
	query, args, err := qb.Select(columns...).From(scheduledMatchesTable).
		Where(
			qb.IsNotNull("collection_time"),
			qb.Gt("collection_time", now.UTC()),
		).
		OrderBy("match_datetime", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select upcoming matches query: %w", err)
	}

	var rows []scheduledMatchTableModel
	if err := g.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select upcoming matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain(g.loc))
	}
	return out, nil
}
