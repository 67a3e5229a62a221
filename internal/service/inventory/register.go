package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/ledger"
)

// Register creates a unit in VALIDATED or IN_STOCK. An id that is already
// registered returns a *domain.StatusConflictError carrying the stored
// status; the stored unit is left as it was. A unit registered straight
// into stock is added to today's ledger in the same transaction.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.InventoryItem, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	itemID := strings.TrimSpace(input.ItemID)
	now := s.clock.Now()

	var created *domain.InventoryItem
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.items.Insert(txCtx, domain.InventoryItem{
			ID:              itemID,
			PartID:          input.PartID,
			Status:          input.Status,
			StatusChangedAt: now,
			SerialNumber:    input.SerialNumber,
			CreatedAt:       now,
		})
		if errors.Is(err, domain.ErrAlreadyExists) {
			existing, getErr := s.items.Get(txCtx, itemID)
			if getErr != nil {
				return fmt.Errorf("get existing item: %w", getErr)
			}
			return &domain.StatusConflictError{ItemID: itemID, Current: existing.Status}
		}
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}

		if kind, ok := domain.LedgerEffect("", input.Status); ok {
			if _, err := s.ledger.AddQuantity(txCtx, ledger.AddQuantityInput{
				Delta:  1,
				Kind:   kind,
				ItemID: itemID,
			}); err != nil {
				return fmt.Errorf("ledger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item registered",
		slog.String("item_id", created.ID),
		slog.String("part_id", created.PartID.String()),
		slog.String("status", created.Status.String()),
	)

	return created, nil
}
