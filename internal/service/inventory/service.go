// Package inventory runs the status state machine of serialized units and
// keeps the daily ledger in step with every move into or out of stock.
package inventory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/ledger"
)

type itemRepo interface {
	Insert(ctx context.Context, item domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.ItemStatus, at time.Time) (*domain.InventoryItem, error)
	Get(ctx context.Context, id string) (*domain.InventoryItem, error)
	GetForUpdate(ctx context.Context, partID uuid.UUID, id string) (*domain.InventoryItem, error)
	ListByPart(ctx context.Context, partID uuid.UUID) ([]domain.InventoryItem, error)
	Events(ctx context.Context, id string) ([]domain.ItemEvent, error)
}

type ledgerService interface {
	AddQuantity(ctx context.Context, input ledger.AddQuantityInput) (*domain.DailyLedger, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides inventory item operations.
type Service struct {
	items  itemRepo
	ledger ledgerService
	tx     txManager
	clock  clockwork.Clock
	log    *slog.Logger
}

// NewService creates a new inventory service.
func NewService(
	log *slog.Logger,
	items itemRepo,
	ledger ledgerService,
	tx txManager,
	clock clockwork.Clock,
) *Service {
	return &Service{
		items:  items,
		ledger: ledger,
		tx:     tx,
		clock:  clock,
		log:    log.With("service", "inventory"),
	}
}

// TransitionResult is the item after a transition and the status it left.
type TransitionResult struct {
	Item     *domain.InventoryItem
	Previous domain.ItemStatus
}
