// Package report computes read-only inventory, ledger and operator figures.
// Every report runs in one snapshot transaction.
package report

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/domain"
)

type reportRepo interface {
	PartAvailability(ctx context.Context) ([]domain.PartAvailability, error)
	TopUsedParts(ctx context.Context, n int, from, to time.Time) ([]domain.PartUsage, error)
	OperatorStats(ctx context.Context, from, to time.Time) ([]domain.OperatorStats, error)
}

type ledgerReader interface {
	GetByDate(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	ListRange(ctx context.Context, from, to time.Time) ([]domain.DailyLedger, error)
}

type stockCounter interface {
	CountInStock(ctx context.Context) (int, error)
}

type snapshotRunner interface {
	RunInSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service provides report operations.
type Service struct {
	reports reportRepo
	ledgers ledgerReader
	stock   stockCounter
	tx      snapshotRunner
	clock   clockwork.Clock
	loc     *time.Location
	log     *slog.Logger
}

// NewService creates a new report service. loc is the business timezone
// that turns ledger dates into instants.
func NewService(
	log *slog.Logger,
	reports reportRepo,
	ledgers ledgerReader,
	stock stockCounter,
	tx snapshotRunner,
	clock clockwork.Clock,
	loc *time.Location,
) *Service {
	return &Service{
		reports: reports,
		ledgers: ledgers,
		stock:   stock,
		tx:      tx,
		clock:   clock,
		loc:     loc,
		log:     log.With("service", "report"),
	}
}

// window converts an inclusive range of dates into the half-open instant
// range [first midnight, midnight after the last day) in the business zone.
func (s *Service) window(r domain.DateRange) (from, to time.Time) {
	from = time.Date(r.From.Year(), r.From.Month(), r.From.Day(), 0, 0, 0, 0, s.loc)
	to = time.Date(r.To.Year(), r.To.Month(), r.To.Day()+1, 0, 0, 0, 0, s.loc)
	return from, to
}

// Today returns the current business date.
func (s *Service) Today() time.Time {
	return domain.BusinessDate(s.clock.Now(), s.loc)
}
