// Package ledger maintains the per-day stock ledger. Every mutation runs in a
// transaction holding the day's row lock, and every operation that the
// scheduler may repeat converges to the same state.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/domain"
)

type ledgerRepo interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	GetByDateForUpdate(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	GetLatestBefore(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	Insert(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error)
	Update(ctx context.Context, l domain.DailyLedger) (*domain.DailyLedger, error)
	Delete(ctx context.Context, date time.Time) error
	ListRange(ctx context.Context, from, to time.Time) ([]domain.DailyLedger, error)
	AddAdjustment(ctx context.Context, a domain.LedgerAdjustment) error
	Adjustments(ctx context.Context, date time.Time) ([]domain.LedgerAdjustment, error)
}

type stockCounter interface {
	CountInStock(ctx context.Context) (int, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides daily ledger operations.
type Service struct {
	ledgers ledgerRepo
	stock   stockCounter
	tx      txManager
	clock   clockwork.Clock
	loc     *time.Location
	log     *slog.Logger
}

// NewService creates a new ledger service. loc is the business timezone
// that decides which calendar day "today" is.
func NewService(
	log *slog.Logger,
	ledgers ledgerRepo,
	stock stockCounter,
	tx txManager,
	clock clockwork.Clock,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		ledgers: ledgers,
		stock:   stock,
		tx:      tx,
		clock:   clock,
		loc:     loc,
		log:     log.With("service", "ledger"),
	}
}

// Today returns the current business date.
func (s *Service) Today() time.Time {
	return domain.BusinessDate(s.clock.Now(), s.loc)
}

// Location returns the business timezone.
func (s *Service) Location() *time.Location { return s.loc }
