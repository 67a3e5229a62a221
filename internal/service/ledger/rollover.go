package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
)

// OpenDay opens today's ledger. If yesterday's ledger was left open it is
// closed first, so a missed close trigger is recovered by the next open.
// changed is false when today was already open.
func (s *Service) OpenDay(ctx context.Context) (l *domain.DailyLedger, changed bool, err error) {
	now := s.clock.Now()
	today := domain.BusinessDate(now, s.loc)
	yesterday := today.AddDate(0, 0, -1)

	var closedYesterday *domain.DailyLedger
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		y, err := s.ledgers.GetByDateForUpdate(txCtx, yesterday)
		switch {
		case err == nil:
			if y.Close(now) {
				if closedYesterday, err = s.save(txCtx, *y); err != nil {
					return fmt.Errorf("close previous day: %w", err)
				}
			}
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("lock previous day: %w", err)
		}

		if _, err := s.getOrCreate(txCtx, today); err != nil {
			return err
		}
		l, err = s.ledgers.GetByDateForUpdate(txCtx, today)
		if err != nil {
			return fmt.Errorf("lock ledger: %w", err)
		}
		if changed = l.Open(now); changed {
			if l, err = s.save(txCtx, *l); err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if closedYesterday != nil {
		s.log.WarnContext(ctx, "previous day closed during rollover",
			slog.String("date", closedYesterday.DateString()),
			slog.Int("closing_stock", *closedYesterday.ClosingStock),
		)
	}
	if changed {
		s.log.InfoContext(ctx, "ledger opened",
			slog.String("date", l.DateString()),
			slog.Int("opening_stock", l.OpeningStock),
		)
	}

	return l, changed, nil
}

// CloseDay closes today's ledger, freezing its closing stock. changed is
// false when today was already closed.
func (s *Service) CloseDay(ctx context.Context) (l *domain.DailyLedger, changed bool, err error) {
	now := s.clock.Now()
	today := domain.BusinessDate(now, s.loc)

	var neverOpened bool
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.getOrCreate(txCtx, today); err != nil {
			return err
		}
		l, err = s.ledgers.GetByDateForUpdate(txCtx, today)
		if err != nil {
			return fmt.Errorf("lock ledger: %w", err)
		}
		neverOpened = !l.IsOpened
		if changed = l.Close(now); changed {
			if l, err = s.save(txCtx, *l); err != nil {
				return fmt.Errorf("close ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	if changed {
		if neverOpened {
			s.log.WarnContext(ctx, "closing a ledger that was never opened",
				slog.String("date", l.DateString()))
		}
		s.log.InfoContext(ctx, "ledger closed",
			slog.String("date", l.DateString()),
			slog.Int("closing_stock", *l.ClosingStock),
		)
	}

	return l, changed, nil
}

// ForceResync discards today's counters and rebuilds the ledger from a live
// count of IN_STOCK units. The opened flag survives; a closed day is
// reopened for writes. The discarded figures go to the audit trail.
func (s *Service) ForceResync(ctx context.Context, input ResyncInput) (*domain.DailyLedger, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	today := domain.BusinessDate(now, s.loc)

	var (
		rebuilt *domain.DailyLedger
		old     *domain.DailyLedger
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		old, err = s.ledgers.GetByDateForUpdate(txCtx, today)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("lock ledger: %w", err)
		}

		count, err := s.stock.CountInStock(txCtx)
		if err != nil {
			return fmt.Errorf("count in-stock items: %w", err)
		}

		fresh := domain.NewDailyLedger(today, count)
		previous := 0
		reason := input.Reason
		if old != nil {
			if err := s.ledgers.Delete(txCtx, today); err != nil {
				return fmt.Errorf("delete ledger: %w", err)
			}
			fresh.IsOpened = old.IsOpened
			fresh.OpenedAt = old.OpenedAt
			previous = old.CurrentStock
			reason = fmt.Sprintf("%s (discarded opening=%d added=%d dispatched=%d current=%d)",
				input.Reason, old.OpeningStock, old.PartsAdded, old.PartsDispatched, old.CurrentStock)
		}

		rebuilt, err = s.insert(txCtx, fresh)
		if err != nil {
			return fmt.Errorf("insert ledger: %w", err)
		}

		return s.ledgers.AddAdjustment(txCtx, domain.LedgerAdjustment{
			ID:        uuid.New(),
			Date:      today,
			Kind:      domain.LedgerEntryResync,
			Delta:     count - previous,
			Reason:    reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{
		slog.String("date", rebuilt.DateString()),
		slog.Int("opening_stock", rebuilt.OpeningStock),
		slog.String("reason", input.Reason),
	}
	if old != nil {
		attrs = append(attrs,
			slog.Int("discarded_opening", old.OpeningStock),
			slog.Int("discarded_added", old.PartsAdded),
			slog.Int("discarded_dispatched", old.PartsDispatched),
		)
	}
	s.log.WarnContext(ctx, "ledger force-resynced", attrs...)

	return rebuilt, nil
}
