// Package part implements the read side of the parts catalog. Catalog
// editing lives elsewhere; this repository only creates parts for imports
// and answers lookups by number.
package part

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/domain"
)

// Repo provides part persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new part repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const partColumns = `id, name, number, created_at`

const createSQL = `
INSERT INTO parts (id, name, number, number_key, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + partColumns

const getByIDSQL = `
SELECT ` + partColumns + `
FROM parts
WHERE id = $1`

const findByNumberSQL = `
SELECT ` + partColumns + `
FROM parts
WHERE number_key = $1`

const listSQL = `
SELECT ` + partColumns + `
FROM parts
ORDER BY number`

// Create inserts a part. A part number that normalizes to an existing one
// returns domain.ErrAlreadyExists.
func (r *Repo) Create(ctx context.Context, p domain.Part) (*domain.Part, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)

	row := querier.QueryRow(ctx, createSQL, p.ID, p.Name, p.Number, domain.NormalizePartKey(p.Number), now)
	created, err := scanPart(row)
	if err != nil {
		return nil, postgres.MapError(err, "part", p.Number)
	}
	return created, nil
}

// GetByID returns a part by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Part, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPart(querier.QueryRow(ctx, getByIDSQL, id))
	if err != nil {
		return nil, postgres.MapError(err, "part", id)
	}
	return p, nil
}

// FindPartByNumber looks a part up by number, ignoring case and spacing.
// Returns domain.ErrNotFound for unknown numbers.
func (r *Repo) FindPartByNumber(ctx context.Context, number string) (*domain.Part, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	p, err := scanPart(querier.QueryRow(ctx, findByNumberSQL, domain.NormalizePartKey(number)))
	if err != nil {
		return nil, postgres.MapError(err, "part", number)
	}
	return p, nil
}

// List returns every catalog part ordered by number.
func (r *Repo) List(ctx context.Context) ([]domain.Part, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, listSQL)
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	defer rows.Close()

	parts := []domain.Part{}
	for rows.Next() {
		var p domain.Part
		if err := rows.Scan(&p.ID, &p.Name, &p.Number, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("list parts: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	return parts, nil
}

func scanPart(row pgx.Row) (*domain.Part, error) {
	var p domain.Part
	if err := row.Scan(&p.ID, &p.Name, &p.Number, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
