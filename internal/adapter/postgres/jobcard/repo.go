// Package jobcard implements the job-card/DNS registry used to validate
// the reference a scanning session is bound to.
package jobcard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/aerotrack/partledger/internal/adapter/postgres"
	"github.com/aerotrack/partledger/internal/domain"
)

// Repo provides job card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new job card repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const jobCardColumns = `identifier, kind, title, usage_count, created_at`

const createSQL = `
INSERT INTO job_cards (identifier, kind, title)
VALUES ($1, $2, $3)
RETURNING ` + jobCardColumns

const resolveSQL = `
UPDATE job_cards
SET usage_count = usage_count + 1
WHERE identifier = $1 AND kind = $2
RETURNING ` + jobCardColumns

const getSQL = `
SELECT ` + jobCardColumns + `
FROM job_cards
WHERE identifier = $1 AND kind = $2`

// Create registers a job card or DNS reference.
func (r *Repo) Create(ctx context.Context, identifier string, kind domain.JobCardKind, title string) (*domain.JobCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	jc, err := scanJobCard(querier.QueryRow(ctx, createSQL, identifier, string(kind), title))
	if err != nil {
		return nil, postgres.MapError(err, "job card", identifier)
	}
	return jc, nil
}

// Resolve confirms the reference exists and counts one more use of it.
// Returns domain.ErrNotFound for unknown references.
func (r *Repo) Resolve(ctx context.Context, identifier string, kind domain.JobCardKind) (*domain.JobCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	jc, err := scanJobCard(querier.QueryRow(ctx, resolveSQL, identifier, string(kind)))
	if err != nil {
		return nil, postgres.MapError(err, "job card", identifier)
	}
	return jc, nil
}

// Get returns a reference without touching its usage counter.
func (r *Repo) Get(ctx context.Context, identifier string, kind domain.JobCardKind) (*domain.JobCard, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	jc, err := scanJobCard(querier.QueryRow(ctx, getSQL, identifier, string(kind)))
	if err != nil {
		return nil, postgres.MapError(err, "job card", identifier)
	}
	return jc, nil
}

func scanJobCard(row pgx.Row) (*domain.JobCard, error) {
	var (
		jc   domain.JobCard
		kind string
	)
	if err := row.Scan(&jc.Identifier, &kind, &jc.Title, &jc.UsageCount, &jc.CreatedAt); err != nil {
		return nil, err
	}
	jc.Kind = domain.JobCardKind(kind)
	if !jc.Kind.IsValid() {
		return nil, fmt.Errorf("job card %s: unknown kind %q", jc.Identifier, kind)
	}
	return &jc, nil
}
