package scanning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/pkg/ctxutil"
)

// CreateSession starts an ACTIVE session for the authenticated operator.
// The job card must be known to the registry, and expected part numbers are
// resolved through the catalog so the stored lines carry catalog names.
func (s *Service) CreateSession(ctx context.Context, input CreateSessionInput) (*domain.ScanningSession, error) {
	operator, err := operatorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	opType, _ := domain.ParseOperationType(input.OperationType)
	ref := strings.TrimSpace(input.JobCardRef)
	kind := input.JobCardKind
	if kind == "" {
		kind = domain.JobCardKindJobCard
	}

	var session *domain.ScanningSession
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := s.jobCards.Resolve(txCtx, ref, kind); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("job_card_ref", "unknown job card")
			}
			return fmt.Errorf("resolve job card: %w", err)
		}

		expected, err := s.resolveExpected(txCtx, input.ExpectedItems)
		if err != nil {
			return err
		}

		session = domain.NewScanningSession(uuid.New(), operator, opType, ref, expected, s.clock.Now())
		if err := s.sessions.Create(txCtx, session); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session created",
		slog.String("session_id", session.ID.String()),
		slog.String("operator_id", operator.ID.String()),
		slog.String("operation_type", opType.String()),
		slog.String("job_card_ref", ref),
		slog.Int("total_expected", session.Statistics.TotalExpected),
	)

	return session, nil
}

func (s *Service) resolveExpected(ctx context.Context, lines []ExpectedItemInput) ([]domain.ExpectedItem, error) {
	expected := make([]domain.ExpectedItem, 0, len(lines))
	var errs []domain.FieldError

	for idx, line := range lines {
		item := domain.ExpectedItem{
			PartName:   strings.TrimSpace(line.PartName),
			PartNumber: strings.TrimSpace(line.PartNumber),
			Quantity:   line.Quantity,
		}
		if item.PartNumber != "" {
			part, err := s.catalog.FindPartByNumber(ctx, item.PartNumber)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				errs = append(errs, domain.FieldError{
					Field:   fmt.Sprintf("expected_items[%d].part_number", idx),
					Message: "unknown part number",
				})
				continue
			case err != nil:
				return nil, fmt.Errorf("find part %s: %w", item.PartNumber, err)
			}
			item.PartName = part.Name
			item.PartNumber = part.Number
		}
		expected = append(expected, item)
	}

	if len(errs) > 0 {
		return nil, domain.NewValidationErrors(errs)
	}
	return expected, nil
}

// GetSession returns a session with its scanned items.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	return s.sessions.Get(ctx, id)
}

// AuthorizeSession returns the session if the caller may feed or watch it:
// its owner, or an admin. Device ingest, live streams and REST scans check
// it before touching the session.
func (s *Service) AuthorizeSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	caller, err := operatorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := mayManage(caller, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns a page of sessions and the total number of matches.
func (s *Service) ListSessions(ctx context.Context, input ListSessionsInput) ([]domain.ScanningSession, int, error) {
	if err := input.Validate(); err != nil {
		return nil, 0, err
	}
	return s.sessions.List(ctx, input.filter())
}

// CompleteSession moves an ACTIVE session to COMPLETED.
func (s *Service) CompleteSession(ctx context.Context, id uuid.UUID, notes string) (*domain.ScanningSession, error) {
	return s.terminate(ctx, id, func(session *domain.ScanningSession) error {
		return session.Complete(s.clock.Now(), strings.TrimSpace(notes))
	})
}

// CancelSession moves an ACTIVE session to CANCELLED.
func (s *Service) CancelSession(ctx context.Context, id uuid.UUID, reason string) (*domain.ScanningSession, error) {
	return s.terminate(ctx, id, func(session *domain.ScanningSession) error {
		return session.Cancel(s.clock.Now(), strings.TrimSpace(reason))
	})
}

// terminate runs under the same per-session lock as scans, so a scan that
// arrives after completion sees the terminal status.
func (s *Service) terminate(ctx context.Context, id uuid.UUID, apply func(*domain.ScanningSession) error) (*domain.ScanningSession, error) {
	caller, err := operatorFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(id)
	defer unlock()

	var session *domain.ScanningSession
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		var err error
		session, err = s.sessions.GetForUpdate(txCtx, id)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}
		if err := mayManage(caller, session); err != nil {
			return err
		}
		if err := apply(session); err != nil {
			return err
		}
		if err := s.sessions.Save(txCtx, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "session ended",
		slog.String("session_id", id.String()),
		slog.String("status", session.Status.String()),
		slog.Int64("duration_ms", *session.DurationMs),
		slog.Int("total_scanned", session.Statistics.TotalScanned),
		slog.Float64("completion", session.Statistics.CompletionPercentage),
	)

	return session, nil
}

func mayManage(caller domain.Operator, session *domain.ScanningSession) error {
	if session.Operator.ID != caller.ID && !caller.IsAdmin() {
		return fmt.Errorf("session %s: %w", session.ID, domain.ErrForbidden)
	}
	return nil
}

func operatorFromCtx(ctx context.Context) (domain.Operator, error) {
	id, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return domain.Operator{}, domain.ErrUnauthorized
	}
	return domain.Operator{ID: id.ID, Name: id.Name, Email: id.Email, Role: id.Role}, nil
}
