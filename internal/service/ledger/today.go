package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
)

// GetOrCreateToday returns today's ledger, creating it on first use.
func (s *Service) GetOrCreateToday(ctx context.Context) (*domain.DailyLedger, error) {
	return s.getOrCreate(ctx, s.Today())
}

// GetToday returns today's ledger without creating it.
func (s *Service) GetToday(ctx context.Context) (*domain.DailyLedger, error) {
	return s.ledgers.GetByDate(ctx, s.Today())
}

// GetByDate returns the ledger of a given day.
func (s *Service) GetByDate(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	return s.ledgers.GetByDate(ctx, date)
}

// ListRange returns the ledgers of an inclusive date range, oldest first.
func (s *Service) ListRange(ctx context.Context, r domain.DateRange) ([]domain.DailyLedger, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return s.ledgers.ListRange(ctx, r.From, r.To)
}

// Adjustments returns the audit trail of a day.
func (s *Service) Adjustments(ctx context.Context, date time.Time) ([]domain.LedgerAdjustment, error) {
	return s.ledgers.Adjustments(ctx, date)
}

// getOrCreate returns the ledger of date, seeding a new one from the most
// recent earlier record or, on a cold start, from a live count of IN_STOCK
// units. Concurrent creators race on the primary key; the loser re-reads.
func (s *Service) getOrCreate(ctx context.Context, date time.Time) (*domain.DailyLedger, error) {
	l, err := s.ledgers.GetByDate(ctx, date)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get ledger: %w", err)
	}

	opening, source, err := s.openingStock(ctx, date)
	if err != nil {
		return nil, err
	}

	created, err := s.insert(ctx, domain.NewDailyLedger(date, opening))
	if errors.Is(err, domain.ErrAlreadyExists) {
		return s.ledgers.GetByDate(ctx, date)
	}
	if err != nil {
		return nil, fmt.Errorf("insert ledger: %w", err)
	}

	s.log.InfoContext(ctx, "ledger created",
		slog.String("date", created.DateString()),
		slog.Int("opening_stock", opening),
		slog.String("seeded_from", source),
	)

	return created, nil
}

// insert and save stamp l with the service clock before writing it.
func (s *Service) insert(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error) {
	l.CreatedAt = s.clock.Now()
	l.UpdatedAt = l.CreatedAt
	return s.ledgers.Insert(ctx, l)
}

func (s *Service) save(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error) {
	l.UpdatedAt = s.clock.Now()
	return s.ledgers.Update(ctx, l)
}

func (s *Service) openingStock(ctx context.Context, date time.Time) (int, string, error) {
	prev, err := s.ledgers.GetLatestBefore(ctx, date)
	switch {
	case err == nil:
		if prev.IsClosed {
			return prev.CarryOver(), "closing:" + prev.DateString(), nil
		}
		return prev.CarryOver(), "current:" + prev.DateString(), nil
	case !errors.Is(err, domain.ErrNotFound):
		return 0, "", fmt.Errorf("get previous ledger: %w", err)
	}

	count, err := s.stock.CountInStock(ctx)
	if err != nil {
		return 0, "", fmt.Errorf("count in-stock items: %w", err)
	}
	return count, "recount", nil
}
