package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aerotrack/partledger/internal/domain"
)

// LedgerSummary returns the daily ledgers of a range with their totals.
// Days without a ledger row are absent from Days.
func (s *Service) LedgerSummary(ctx context.Context, r domain.DateRange) (*domain.LedgerSummary, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}

	var days []domain.DailyLedger
	err := s.tx.RunInSnapshot(ctx, func(txCtx context.Context) error {
		var err error
		days, err = s.ledgers.ListRange(txCtx, r.From, r.To)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list ledgers: %w", err)
	}

	return summarizeLedger(r, days), nil
}

// summarizeLedger folds days, oldest first, into a summary. LastClosing is
// the closing stock of the newest day, nil while that day is still open.
func summarizeLedger(r domain.DateRange, days []domain.DailyLedger) *domain.LedgerSummary {
	sum := &domain.LedgerSummary{
		From: r.From,
		To:   r.To,
		Days: days,
	}
	if sum.Days == nil {
		sum.Days = []domain.DailyLedger{}
	}
	for _, d := range days {
		sum.TotalAdded += d.PartsAdded
		sum.TotalDispatched += d.PartsDispatched
	}
	if len(days) > 0 {
		sum.FirstOpening = days[0].OpeningStock
		if last := days[len(days)-1]; last.ClosingStock != nil {
			closing := *last.ClosingStock
			sum.LastClosing = &closing
		}
	}
	return sum
}

// Reconcile compares today's ledger with a live count of IN_STOCK units.
// Both figures come from the same snapshot.
func (s *Service) Reconcile(ctx context.Context) (*domain.Reconciliation, error) {
	today := domain.BusinessDate(s.clock.Now(), s.loc)
	rec := &domain.Reconciliation{Date: today}

	err := s.tx.RunInSnapshot(ctx, func(txCtx context.Context) error {
		l, err := s.ledgers.GetByDate(txCtx, today)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("ledger %s not created yet: %w", today.Format(domain.DateLayout), err)
		case err != nil:
			return fmt.Errorf("get ledger: %w", err)
		}
		rec.LedgerStock = l.CurrentStock

		live, err := s.stock.CountInStock(txCtx)
		if err != nil {
			return fmt.Errorf("count in stock: %w", err)
		}
		rec.LiveStock = live
		return nil
	})
	if err != nil {
		return nil, err
	}

	rec.Drift = rec.LiveStock - rec.LedgerStock
	rec.CheckedAt = s.clock.Now()

	if rec.Drift != 0 {
		s.log.WarnContext(ctx, "ledger drift detected",
			slog.String("date", today.Format(domain.DateLayout)),
			slog.Int("ledger_stock", rec.LedgerStock),
			slog.Int("live_stock", rec.LiveStock),
			slog.Int("drift", rec.Drift),
		)
	}

	return rec, nil
}
