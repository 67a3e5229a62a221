package report

import (
	"context"
	"fmt"

	"github.com/aerotrack/partledger/internal/domain"
)

// PartAvailability returns unit counts by status for every catalog part.
func (s *Service) PartAvailability(ctx context.Context) ([]domain.PartAvailability, error) {
	var rows []domain.PartAvailability
	err := s.tx.RunInSnapshot(ctx, func(txCtx context.Context) error {
		var err error
		rows, err = s.reports.PartAvailability(txCtx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("part availability: %w", err)
	}
	return rows, nil
}

// TopUsedParts returns the parts with the most units leaving stock as USED
// or DISPATCHED within the range, busiest first.
func (s *Service) TopUsedParts(ctx context.Context, input TopPartsInput) ([]domain.PartUsage, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	from, to := s.window(input.Range)
	var rows []domain.PartUsage
	err := s.tx.RunInSnapshot(ctx, func(txCtx context.Context) error {
		var err error
		rows, err = s.reports.TopUsedParts(txCtx, input.limit(), from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("top used parts: %w", err)
	}
	return rows, nil
}

// OperatorStats returns session figures per operator for sessions started
// within the range.
func (s *Service) OperatorStats(ctx context.Context, r domain.DateRange) ([]domain.OperatorStats, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}

	from, to := s.window(r)
	var rows []domain.OperatorStats
	err := s.tx.RunInSnapshot(ctx, func(txCtx context.Context) error {
		var err error
		rows, err = s.reports.OperatorStats(txCtx, from, to)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("operator stats: %w", err)
	}
	return rows, nil
}
