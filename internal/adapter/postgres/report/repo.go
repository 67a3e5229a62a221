// Package report implements read-only aggregate queries over inventory,
// items history and scanning sessions. Callers run them inside
// TxManager.RunInSnapshot so every figure of a report sees the same data.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/domain"
)

// Repo runs report queries against PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new report repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// PartAvailability returns per-part unit counts by status, ordered by part
// number. Parts without units are included with zero counts.
func (r *Repo) PartAvailability(ctx context.Context) ([]domain.PartAvailability, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := postgres.Builder().
		Select(
			"p.id", "p.name", "p.number",
			"count(i.id) FILTER (WHERE i.status = 'VALIDATED')",
			"count(i.id) FILTER (WHERE i.status = 'IN_STOCK')",
			"count(i.id) FILTER (WHERE i.status = 'USED')",
			"count(i.id) FILTER (WHERE i.status = 'DISPATCHED')",
		).
		From("parts p").
		LeftJoin("inventory_items i ON i.part_id = p.id").
		GroupBy("p.id", "p.name", "p.number").
		OrderBy("p.number")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build part availability: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("part availability: %w", err)
	}
	defer rows.Close()

	result := []domain.PartAvailability{}
	for rows.Next() {
		var a domain.PartAvailability
		if err := rows.Scan(&a.PartID, &a.PartName, &a.PartNumber,
			&a.Validated, &a.InStock, &a.Used, &a.Dispatched); err != nil {
			return nil, fmt.Errorf("part availability: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("part availability: %w", err)
	}
	return result, nil
}

// TopUsedParts returns the n parts with the most transitions into USED or
// DISPATCHED in [from, to).
func (r *Repo) TopUsedParts(ctx context.Context, n int, from, to time.Time) ([]domain.PartUsage, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := postgres.Builder().
		Select("p.id", "p.name", "p.number", "count(*) AS used").
		From("inventory_item_events e").
		Join("parts p ON p.id = e.part_id").
		Where(squirrel.Eq{"e.to_status": []string{
			string(domain.ItemStatusUsed), string(domain.ItemStatusDispatched),
		}}).
		Where(squirrel.GtOrEq{"e.changed_at": from}).
		Where(squirrel.Lt{"e.changed_at": to}).
		GroupBy("p.id", "p.name", "p.number").
		OrderBy("used DESC", "p.number").
		Limit(uint64(n))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build top used parts: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("top used parts: %w", err)
	}
	defer rows.Close()

	result := []domain.PartUsage{}
	for rows.Next() {
		var u domain.PartUsage
		if err := rows.Scan(&u.PartID, &u.PartName, &u.PartNumber, &u.Count); err != nil {
			return nil, fmt.Errorf("top used parts: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top used parts: %w", err)
	}
	return result, nil
}

// OperatorStats aggregates sessions started in [from, to) per operator.
// Scan counters are summed from each session's statistics document.
func (r *Repo) OperatorStats(ctx context.Context, from, to time.Time) ([]domain.OperatorStats, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	q := postgres.Builder().
		Select(
			"operator_id", "max(operator_name)", "max(operator_email)",
			"count(*) FILTER (WHERE status = 'ACTIVE')",
			"count(*) FILTER (WHERE status = 'COMPLETED')",
			"count(*) FILTER (WHERE status = 'CANCELLED')",
			"coalesce(sum((statistics->>'total_scanned')::int), 0)",
			"coalesce(sum((statistics->>'successful_scans')::int), 0)",
			"coalesce(sum((statistics->>'unexpected_scans')::int), 0)",
			"coalesce(sum((statistics->>'duplicate_scans')::int), 0)",
		).
		From("scanning_sessions").
		Where(squirrel.GtOrEq{"started_at": from}).
		Where(squirrel.Lt{"started_at": to}).
		GroupBy("operator_id").
		OrderBy("max(operator_name)", "operator_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build operator stats: %w", err)
	}

	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("operator stats: %w", err)
	}
	defer rows.Close()

	result := []domain.OperatorStats{}
	for rows.Next() {
		var s domain.OperatorStats
		if err := rows.Scan(&s.OperatorID, &s.OperatorName, &s.OperatorEmail,
			&s.Active, &s.Completed, &s.Cancelled,
			&s.TotalScanned, &s.SuccessfulScans, &s.UnexpectedScans, &s.DuplicateScans); err != nil {
			return nil, fmt.Errorf("operator stats: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("operator stats: %w", err)
	}
	return result, nil
}
