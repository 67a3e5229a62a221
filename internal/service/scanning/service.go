// Package scanning runs operator scanning sessions: it classifies each scan
// against the session's expected parts and applies the session's inventory
// operation to the scanned unit.
package scanning

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/broadcast"
	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/inventory"
)

type sessionRepo interface {
	Create(ctx context.Context, s *domain.ScanningSession) error
	Get(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
	AppendScan(ctx context.Context, sessionID uuid.UUID, seq int, it domain.ScannedItem) error
	Save(ctx context.Context, s *domain.ScanningSession) error
	List(ctx context.Context, filter domain.SessionFilter) ([]domain.ScanningSession, int, error)
}

type partCatalog interface {
	FindPartByNumber(ctx context.Context, number string) (*domain.Part, error)
}

type jobCardRegistry interface {
	Resolve(ctx context.Context, identifier string, kind domain.JobCardKind) (*domain.JobCard, error)
}

type inventoryService interface {
	Register(ctx context.Context, input inventory.RegisterInput) (*domain.InventoryItem, error)
	Transition(ctx context.Context, input inventory.TransitionInput) (*inventory.TransitionResult, error)
	Get(ctx context.Context, itemID string) (*domain.InventoryItem, error)
}

type eventSource interface {
	Subscribe(filter broadcast.Filter) *broadcast.Subscription
}

// eventClaimer elects one consumer per scan event when several instances
// receive the same broadcast.
type eventClaimer interface {
	Claim(ctx context.Context, event domain.ScanEvent) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides scanning session operations.
type Service struct {
	sessions  sessionRepo
	catalog   partCatalog
	jobCards  jobCardRegistry
	inventory inventoryService
	events    eventSource
	claims    eventClaimer
	tx        txManager
	clock     clockwork.Clock
	locks     *sessionLocks
	log       *slog.Logger
}

// NewService creates a new scanning service.
func NewService(
	log *slog.Logger,
	sessions sessionRepo,
	catalog partCatalog,
	jobCards jobCardRegistry,
	inv inventoryService,
	events eventSource,
	claims eventClaimer,
	tx txManager,
	clock clockwork.Clock,
) *Service {
	return &Service{
		sessions:  sessions,
		catalog:   catalog,
		jobCards:  jobCards,
		inventory: inv,
		events:    events,
		claims:    claims,
		tx:        tx,
		clock:     clock,
		locks:     newSessionLocks(),
		log:       log.With("service", "scanning"),
	}
}

// ScanResult is the session after a scan and the item the scan appended.
// Item is zero for a duplicate.
type ScanResult struct {
	Session *domain.ScanningSession
	Item    domain.ScannedItem
}
