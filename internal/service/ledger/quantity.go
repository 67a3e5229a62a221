package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
)

// AddQuantity applies a stock change to a day's ledger and records it in the
// audit trail. A closed day returns *domain.LedgerClosedError; a dispatch
// that would go below zero returns domain.ErrInsufficientStock. Nothing is
// written when an error is returned.
//
// When called inside a caller's transaction the ledger change commits or
// rolls back with it.
func (s *Service) AddQuantity(ctx context.Context, input AddQuantityInput) (*domain.DailyLedger, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = s.Today()
	}

	var updated *domain.DailyLedger
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.getOrCreate(txCtx, date); err != nil {
			return err
		}

		l, err := s.ledgers.GetByDateForUpdate(txCtx, date)
		if err != nil {
			return fmt.Errorf("lock ledger: %w", err)
		}
		if err := l.Apply(input.Kind, input.Delta); err != nil {
			return err
		}

		updated, err = s.save(txCtx, *l)
		if err != nil {
			return fmt.Errorf("update ledger: %w", err)
		}

		delta := abs(input.Delta)
		if input.Kind == domain.LedgerEntryDispatched {
			delta = -delta
		}
		adj := domain.LedgerAdjustment{
			ID:        uuid.New(),
			Date:      date,
			Kind:      input.Kind,
			Delta:     delta,
			CreatedAt: s.clock.Now(),
		}
		if input.ItemID != "" {
			itemID := input.ItemID
			adj.ItemID = &itemID
		}
		if err := s.ledgers.AddAdjustment(txCtx, adj); err != nil {
			return fmt.Errorf("record adjustment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.DebugContext(ctx, "ledger quantity applied",
		slog.String("date", updated.DateString()),
		slog.String("kind", input.Kind.String()),
		slog.Int("delta", abs(input.Delta)),
		slog.Int("current_stock", updated.CurrentStock),
	)

	return updated, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
