package testhelper

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aerotrack/partledger/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// UniqueDate returns a ledger date no other test in the run is likely to
// touch. Ledger rows are keyed by date, so parallel tests must not share one.
func UniqueDate() time.Time {
	base := time.Date(2200, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, rand.IntN(300_000))
}

// SeedPart creates a catalog part with a unique number.
func SeedPart(t *testing.T, pool *pgxpool.Pool) domain.Part {
	t.Helper()

	suffix := uniqueSuffix()
	part := domain.Part{
		ID:        uuid.New(),
		Name:      "Gear " + suffix,
		Number:    "GR-" + suffix,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO parts (id, name, number, number_key, created_at) VALUES ($1, $2, $3, $4, $5)`,
		part.ID, part.Name, part.Number, domain.NormalizePartKey(part.Number), part.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedPart: %v", err)
	}

	return part
}

// SeedItem registers an inventory unit of part in the given status.
func SeedItem(t *testing.T, pool *pgxpool.Pool, partID uuid.UUID, status domain.ItemStatus) domain.InventoryItem {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	item := domain.InventoryItem{
		ID:              "QR-" + uuid.New().String(),
		PartID:          partID,
		Status:          status,
		StatusChangedAt: now,
		CreatedAt:       now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO inventory_items (id, part_id, status, status_changed_at, created_at) VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.PartID, string(item.Status), item.StatusChangedAt, item.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedItem: %v", err)
	}

	return item
}

// SeedJobCard creates a job card or DNS reference with zero usage.
func SeedJobCard(t *testing.T, pool *pgxpool.Pool, kind domain.JobCardKind) domain.JobCard {
	t.Helper()

	card := domain.JobCard{
		Identifier: "JC-" + uniqueSuffix(),
		Kind:       kind,
		Title:      "Landing gear overhaul",
		CreatedAt:  time.Now().UTC().Truncate(time.Microsecond),
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO job_cards (identifier, kind, title, created_at) VALUES ($1, $2, $3, $4)`,
		card.Identifier, string(card.Kind), card.Title, card.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedJobCard: %v", err)
	}

	return card
}

// SeedOperator returns an operator identity. Operators live in the external
// identity provider, so nothing is written.
func SeedOperator() domain.Operator {
	suffix := uniqueSuffix()
	return domain.Operator{
		ID:    uuid.New(),
		Name:  "Operator " + suffix,
		Email: "operator-" + suffix + "@example.com",
		Role:  "operator",
	}
}
