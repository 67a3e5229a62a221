// Package ledger implements daily ledger persistence using PostgreSQL.
// Rows are keyed by calendar date; callers serialize mutations of one day
// with GetByDateForUpdate inside a transaction.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/domain"
)

// Repo provides daily ledger persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new ledger repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const ledgerColumns = `ledger_date, opening_stock, closing_stock, current_stock, parts_added,
       parts_dispatched, is_opened, is_closed, opened_at, closed_at, created_at, updated_at`

const getByDateSQL = `
SELECT ` + ledgerColumns + `
FROM daily_ledgers
WHERE ledger_date = $1`

const getByDateForUpdateSQL = getByDateSQL + `
FOR UPDATE`

const getLatestBeforeSQL = `
SELECT ` + ledgerColumns + `
FROM daily_ledgers
WHERE ledger_date < $1
ORDER BY ledger_date DESC
LIMIT 1`

// Concurrent creators of the same day race on the primary key; the loser
// gets no row back and re-reads.
const insertSQL = `
INSERT INTO daily_ledgers (ledger_date, opening_stock, closing_stock, current_stock, parts_added,
                           parts_dispatched, is_opened, is_closed, opened_at, closed_at,
                           created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)
ON CONFLICT (ledger_date) DO NOTHING
RETURNING ` + ledgerColumns

const updateSQL = `
UPDATE daily_ledgers
SET opening_stock = $2, closing_stock = $3, current_stock = $4, parts_added = $5,
    parts_dispatched = $6, is_opened = $7, is_closed = $8, opened_at = $9, closed_at = $10,
    updated_at = $11
WHERE ledger_date = $1
RETURNING ` + ledgerColumns

const deleteSQL = `
DELETE FROM daily_ledgers WHERE ledger_date = $1`

const listRangeSQL = `
SELECT ` + ledgerColumns + `
FROM daily_ledgers
WHERE ledger_date BETWEEN $1 AND $2
ORDER BY ledger_date`

const insertAdjustmentSQL = `
INSERT INTO ledger_adjustments (id, ledger_date, kind, delta, item_id, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const adjustmentsSQL = `
SELECT id, ledger_date, kind, delta, item_id, reason, created_at
FROM ledger_adjustments
WHERE ledger_date = $1
ORDER BY created_at, id`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByDate returns the ledger of a calendar day.
// Returns domain.ErrNotFound if the day has no record yet.
func (r *Repo) GetByDate(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanLedger(querier.QueryRow(ctx, getByDateSQL, date))
	if err != nil {
		return nil, postgres.MapError(err, "ledger", date.Format(domain.DateLayout))
	}
	return l, nil
}

// GetByDateForUpdate is GetByDate plus a row lock held until the surrounding
// transaction ends.
func (r *Repo) GetByDateForUpdate(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanLedger(querier.QueryRow(ctx, getByDateForUpdateSQL, date))
	if err != nil {
		return nil, postgres.MapError(err, "ledger", date.Format(domain.DateLayout))
	}
	return l, nil
}

// GetLatestBefore returns the most recent ledger strictly before date.
// Returns domain.ErrNotFound on a cold start.
func (r *Repo) GetLatestBefore(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanLedger(querier.QueryRow(ctx, getLatestBeforeSQL, date))
	if err != nil {
		return nil, postgres.MapError(err, "ledger before", date.Format(domain.DateLayout))
	}
	return l, nil
}

// ListRange returns the ledgers between from and to inclusive, oldest first.
func (r *Repo) ListRange(ctx context.Context, from, to time.Time) ([]domain.DailyLedger, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listRangeSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	defer rows.Close()

	ledgers := []domain.DailyLedger{}
	for rows.Next() {
		l, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("list ledgers: %w", err)
		}
		ledgers = append(ledgers, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}
	return ledgers, nil
}

// Adjustments returns the audit rows recorded for a day, oldest first.
func (r *Repo) Adjustments(ctx context.Context, date time.Time) ([]domain.LedgerAdjustment, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, adjustmentsSQL, date)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()

	adjustments := []domain.LedgerAdjustment{}
	for rows.Next() {
		var (
			a    domain.LedgerAdjustment
			kind string
		)
		if err := rows.Scan(&a.ID, &a.Date, &kind, &a.Delta, &a.ItemID, &a.Reason, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("list adjustments: %w", err)
		}
		a.Kind = domain.LedgerEntryKind(kind)
		adjustments = append(adjustments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	return adjustments, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert creates the record of a day, stamped with l.UpdatedAt. If another
// writer created it first, domain.ErrAlreadyExists is returned and nothing
// is changed.
func (r *Repo) Insert(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now, err := stamp(l.UpdatedAt, "updated_at")
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", l.DateString(), err)
	}
	row := querier.QueryRow(ctx, insertSQL,
		l.Date, l.OpeningStock, l.ClosingStock, l.CurrentStock, l.PartsAdded,
		l.PartsDispatched, l.IsOpened, l.IsClosed, l.OpenedAt, l.ClosedAt, now,
	)

	created, err := scanLedger(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("ledger %s: %w", l.DateString(), domain.ErrAlreadyExists)
	}
	if err != nil {
		return nil, postgres.MapError(err, "ledger", l.DateString())
	}
	return created, nil
}

// Update writes every counter and flag of l, and l.UpdatedAt. The table's
// CHECK constraints reject a row that breaks the balance identity or goes
// negative.
func (r *Repo) Update(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	now, err := stamp(l.UpdatedAt, "updated_at")
	if err != nil {
		return nil, fmt.Errorf("ledger %s: %w", l.DateString(), err)
	}
	row := querier.QueryRow(ctx, updateSQL,
		l.Date, l.OpeningStock, l.ClosingStock, l.CurrentStock, l.PartsAdded,
		l.PartsDispatched, l.IsOpened, l.IsClosed, l.OpenedAt, l.ClosedAt, now,
	)

	updated, err := scanLedger(row)
	if err != nil {
		return nil, postgres.MapError(err, "ledger", l.DateString())
	}
	return updated, nil
}

// Delete removes the record of a day. Only the resync path calls it.
func (r *Repo) Delete(ctx context.Context, date time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	ct, err := querier.Exec(ctx, deleteSQL, date)
	if err != nil {
		return postgres.MapError(err, "ledger", date.Format(domain.DateLayout))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("ledger %s: %w", date.Format(domain.DateLayout), domain.ErrNotFound)
	}
	return nil
}

// AddAdjustment appends an audit row stamped with a.CreatedAt.
func (r *Repo) AddAdjustment(ctx context.Context, a domain.LedgerAdjustment) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	createdAt, err := stamp(a.CreatedAt, "created_at")
	if err != nil {
		return fmt.Errorf("ledger adjustment %s: %w", a.ID, err)
	}

	_, err = querier.Exec(ctx, insertAdjustmentSQL,
		a.ID, a.Date, string(a.Kind), a.Delta, a.ItemID, a.Reason, createdAt,
	)
	if err != nil {
		return postgres.MapError(err, "ledger adjustment", a.ID)
	}
	return nil
}

// stamp normalizes a caller-supplied instant to the column's precision.
// Timestamps come from the service clock; a zero one is a caller bug.
func stamp(t time.Time, field string) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, domain.NewValidationError(field, "required")
	}
	return t.UTC().Truncate(time.Microsecond), nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanLedger(row pgx.Row) (*domain.DailyLedger, error) {
	var l domain.DailyLedger
	err := row.Scan(
		&l.Date, &l.OpeningStock, &l.ClosingStock, &l.CurrentStock, &l.PartsAdded,
		&l.PartsDispatched, &l.IsOpened, &l.IsClosed, &l.OpenedAt, &l.ClosedAt,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}
