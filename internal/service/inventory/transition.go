package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/ledger"
)

// Transition moves a unit of a part to a new status. A move the state
// machine does not allow returns a *domain.StatusConflictError and changes
// nothing. Moves into or out of IN_STOCK update today's ledger in the same
// transaction, so a rejected ledger change rolls the move back.
func (s *Service) Transition(ctx context.Context, input TransitionInput) (*TransitionResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	itemID := strings.TrimSpace(input.ItemID)

	var result TransitionResult
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		item, err := s.items.GetForUpdate(txCtx, input.PartID, itemID)
		if err != nil {
			return fmt.Errorf("lock item: %w", err)
		}
		if !domain.CanTransition(item.Status, input.Target) {
			return &domain.StatusConflictError{ItemID: itemID, Current: item.Status, Target: input.Target}
		}

		updated, err := s.items.UpdateStatus(txCtx, itemID, item.Status, input.Target, s.clock.Now())
		if err != nil {
			return fmt.Errorf("update item status: %w", err)
		}

		if kind, ok := domain.LedgerEffect(item.Status, input.Target); ok {
			if _, err := s.ledger.AddQuantity(txCtx, ledger.AddQuantityInput{
				Delta:  1,
				Kind:   kind,
				ItemID: itemID,
			}); err != nil {
				return fmt.Errorf("ledger: %w", err)
			}
		}

		result = TransitionResult{Item: updated, Previous: item.Status}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "item transitioned",
		slog.String("item_id", itemID),
		slog.String("from", result.Previous.String()),
		slog.String("to", result.Item.Status.String()),
	)

	return &result, nil
}

// Get returns a unit by its scanned identifier.
func (s *Service) Get(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	return s.items.Get(ctx, strings.TrimSpace(itemID))
}

// ListByPart returns all units of a part.
func (s *Service) ListByPart(ctx context.Context, partID uuid.UUID) ([]domain.InventoryItem, error) {
	return s.items.ListByPart(ctx, partID)
}

// History returns the status changes of a unit, oldest first. Terminal units
// keep their history. An unknown code is ErrNotFound, not an empty list.
func (s *Service) History(ctx context.Context, itemID string) ([]domain.ItemEvent, error) {
	itemID = strings.TrimSpace(itemID)
	if _, err := s.items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return s.items.Events(ctx, itemID)
}
