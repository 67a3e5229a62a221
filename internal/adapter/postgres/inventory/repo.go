// Package inventory implements the inventory item store using PostgreSQL.
// Items are keyed by the scanned identifier; every status change is
// recorded in inventory_item_events so terminal units keep their history.
package inventory

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

// Repo provides inventory item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new inventory repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// SQL constants
// ---------------------------------------------------------------------------

const itemColumns = `id, part_id, status, status_changed_at, serial_number, created_at`

const insertSQL = `
INSERT INTO inventory_items (id, part_id, status, status_changed_at, serial_number, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING
RETURNING ` + itemColumns

const insertEventSQL = `
INSERT INTO inventory_item_events (item_id, part_id, from_status, to_status, changed_at)
VALUES ($1, $2, $3, $4, $5)`

const getSQL = `
SELECT ` + itemColumns + `
FROM inventory_items
WHERE id = $1`

const getForUpdateSQL = `
SELECT ` + itemColumns + `
FROM inventory_items
WHERE id = $1 AND part_id = $2
FOR UPDATE`

// The status guard makes a stale read fail instead of overwriting.
const updateStatusSQL = `
UPDATE inventory_items
SET status = $3, status_changed_at = $4
WHERE id = $1 AND status = $2
RETURNING ` + itemColumns

const listByPartSQL = `
SELECT ` + itemColumns + `
FROM inventory_items
WHERE part_id = $1
ORDER BY created_at, id`

const countInStockSQL = `
SELECT count(*) FROM inventory_items WHERE status = 'IN_STOCK'`

const eventsSQL = `
SELECT item_id, part_id, COALESCE(from_status, ''), to_status, changed_at
FROM inventory_item_events
WHERE item_id = $1
ORDER BY id`

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Insert registers a new item. An existing id returns domain.ErrAlreadyExists;
// the stored row is never overwritten.
func (r *Repo) Insert(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	changedAt := item.StatusChangedAt.UTC().Truncate(time.Microsecond)
	createdAt := changedAt
	if !item.CreatedAt.IsZero() {
		createdAt = item.CreatedAt.UTC().Truncate(time.Microsecond)
	}

	row := querier.QueryRow(ctx, insertSQL,
		item.ID, item.PartID, string(item.Status), changedAt, item.SerialNumber, createdAt,
	)
	created, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT keeps the surrounding transaction usable.
		return nil, fmt.Errorf("item %s: %w", item.ID, domain.ErrAlreadyExists)
	}
	if err != nil {
		return nil, postgres.MapError(err, "item", item.ID)
	}

	if _, err := querier.Exec(ctx, insertEventSQL, created.ID, created.PartID, nil, string(created.Status), changedAt); err != nil {
		return nil, postgres.MapError(err, "item event", item.ID)
	}

	return created, nil
}

// UpdateStatus moves an item from one status to another and appends the
// change to its history. Returns domain.ErrConflict when the stored status
// is no longer from.
func (r *Repo) UpdateStatus(ctx context.Context, id string, from, to domain.ItemStatus, at time.Time) (*domain.InventoryItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	at = at.UTC().Truncate(time.Microsecond)
	updated, err := scanItem(querier.QueryRow(ctx, updateStatusSQL, id, string(from), string(to), at))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("item %s: status is no longer %s: %w", id, from, domain.ErrConflict)
	}
	if err != nil {
		return nil, postgres.MapError(err, "item", id)
	}

	if _, err := querier.Exec(ctx, insertEventSQL, updated.ID, updated.PartID, string(from), string(to), at); err != nil {
		return nil, postgres.MapError(err, "item event", id)
	}

	return updated, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Get returns an item by its scanned identifier.
func (r *Repo) Get(ctx context.Context, id string) (*domain.InventoryItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	item, err := scanItem(querier.QueryRow(ctx, getSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "item", id)
	}
	return item, nil
}

// GetForUpdate locks an item of the given part for the rest of the
// transaction. An item that exists under another part is not found.
func (r *Repo) GetForUpdate(ctx context.Context, partID uuid.UUID, id string) (*domain.InventoryItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	item, err := scanItem(querier.QueryRow(ctx, getForUpdateSQL, id, partID))
	if err != nil {
		return nil, postgres.MapError(err, "item", id)
	}
	return item, nil
}

// ListByPart returns all items of a part in registration order.
func (r *Repo) ListByPart(ctx context.Context, partID uuid.UUID) ([]domain.InventoryItem, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listByPartSQL, partID)
	if err != nil {
		return nil, fmt.Errorf("list items by part: %w", err)
	}
	defer rows.Close()

	items := []domain.InventoryItem{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list items by part: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items by part: %w", err)
	}
	return items, nil
}

// CountInStock recounts every IN_STOCK item. It is the cold-start and
// resync source of a ledger's opening stock.
func (r *Repo) CountInStock(ctx context.Context) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := querier.QueryRow(ctx, countInStockSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("count in-stock items: %w", err)
	}
	return n, nil
}

// Events returns the status history of an item, oldest first.
func (r *Repo) Events(ctx context.Context, id string) ([]domain.ItemEvent, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, eventsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("item %s events: %w", id, err)
	}
	defer rows.Close()

	events := []domain.ItemEvent{}
	for rows.Next() {
		var (
			e        domain.ItemEvent
			from, to string
		)
		if err := rows.Scan(&e.ItemID, &e.PartID, &from, &to, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("item %s events: %w", id, err)
		}
		e.From, e.To = domain.ItemStatus(from), domain.ItemStatus(to)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("item %s events: %w", id, err)
	}
	return events, nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanItem(row pgx.Row) (*domain.InventoryItem, error) {
	var (
		item   domain.InventoryItem
		status string
	)
	if err := row.Scan(&item.ID, &item.PartID, &status, &item.StatusChangedAt, &item.SerialNumber, &item.CreatedAt); err != nil {
		return nil, err
	}
	item.Status = domain.ItemStatus(status)
	return &item, nil
}
