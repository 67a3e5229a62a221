package scanning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/inventory"
)

// AddScannedItem records one scan in a session and applies the session's
// operation to the scanned unit, all in one transaction.
//
// A terminal session returns a *domain.SessionConflictError. A repeated code
// returns domain.ErrDuplicateScan together with the current session; the
// duplicate is counted but not appended. A unit whose status does not allow
// the operation is still appended, with the conflict described on the item.
// Any other failure appends nothing.
func (s *Service) AddScannedItem(ctx context.Context, sessionID uuid.UUID, payload ScanPayload) (*ScanResult, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	payload.QRID = strings.TrimSpace(payload.QRID)
	payload.PartNumber = strings.TrimSpace(payload.PartNumber)
	payload.PartName = strings.TrimSpace(payload.PartName)
	if payload.ScannedAt.IsZero() {
		payload.ScannedAt = s.clock.Now()
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	var (
		result    ScanResult
		duplicate bool
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		session, err := s.sessions.GetForUpdate(txCtx, sessionID)
		if err != nil {
			return fmt.Errorf("lock session: %w", err)
		}

		if err := session.CheckAccepts(payload.QRID); err != nil {
			if !errors.Is(err, domain.ErrDuplicateScan) {
				return err
			}
			// Committed on purpose: the duplicate counter is part of the
			// session's statistics.
			duplicate = true
			session.RecordDuplicate()
			if err := s.sessions.Save(txCtx, session); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			result.Session = session
			return nil
		}

		item := domain.ScannedItem{
			QRID:         payload.QRID,
			PartName:     payload.PartName,
			PartNumber:   payload.PartNumber,
			SerialNumber: payload.SerialNumber,
			ScannedAt:    payload.ScannedAt,
		}
		if session.WouldExpect(item.PartNumber, item.PartName) {
			if err := s.applyOperation(txCtx, session.OperationType, &item); err != nil {
				return err
			}
		} else {
			item.Message = "not applied: part not expected in this session"
		}

		appended, err := session.AddScan(item)
		if err != nil {
			return err
		}
		if err := s.sessions.AppendScan(txCtx, session.ID, len(session.ScannedItems), appended); err != nil {
			return fmt.Errorf("append scan: %w", err)
		}
		if err := s.sessions.Save(txCtx, session); err != nil {
			return fmt.Errorf("save session: %w", err)
		}

		result = ScanResult{Session: session, Item: appended}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if duplicate {
		s.log.InfoContext(ctx, "duplicate scan ignored",
			slog.String("session_id", sessionID.String()),
			slog.String("qr_id", payload.QRID),
			slog.Int("duplicate_scans", result.Session.Statistics.DuplicateScans),
		)
		return &result, domain.ErrDuplicateScan
	}

	s.log.InfoContext(ctx, "scan recorded",
		slog.String("session_id", sessionID.String()),
		slog.String("qr_id", result.Item.QRID),
		slog.Bool("expected", result.Item.IsExpected),
		slog.String("status", result.Item.Status.String()),
		slog.Float64("completion", result.Session.Statistics.CompletionPercentage),
	)

	return &result, nil
}

// applyOperation moves the scanned unit toward the operation's target status
// and records the outcome on item. Outcomes an operator has to act on, such
// as a unit already dispatched or not yet registered, are written to
// item.Message and are not errors.
func (s *Service) applyOperation(ctx context.Context, op domain.OperationType, item *domain.ScannedItem) error {
	existing, err := s.inventory.Get(ctx, item.QRID)
	switch {
	case err == nil:
		item.PreviousStatus = existing.Status
		item.Status = existing.Status
	case errors.Is(err, domain.ErrNotFound):
		existing = nil
	default:
		return fmt.Errorf("get item: %w", err)
	}

	partID, err := s.partFor(ctx, existing, item)
	if err != nil {
		return err
	}
	if partID == uuid.Nil {
		item.Message = "not applied: part number not in catalog"
		return nil
	}

	switch op {
	case domain.OperationQCValidation:
		if existing != nil {
			return s.record(item, &domain.StatusConflictError{ItemID: item.QRID, Current: existing.Status})
		}
		return s.record(item, s.register(ctx, partID, item))

	case domain.OperationStoreInward:
		if existing == nil {
			if err := s.register(ctx, partID, item); err != nil {
				return s.record(item, err)
			}
		}
		return s.record(item, s.transition(ctx, partID, item, domain.ItemStatusInStock))

	case domain.OperationStoreOutward:
		if existing == nil {
			item.Message = "not applied: item is not registered"
			return nil
		}
		return s.record(item, s.transition(ctx, partID, item, domain.ItemStatusDispatched))
	}

	return fmt.Errorf("unsupported operation type %q", op)
}

// partFor returns the part a scan belongs to: the registered unit's part,
// else the catalog part of the scanned part number. uuid.Nil means unknown.
func (s *Service) partFor(ctx context.Context, existing *domain.InventoryItem, item *domain.ScannedItem) (uuid.UUID, error) {
	if existing != nil {
		return existing.PartID, nil
	}
	if item.PartNumber == "" {
		return uuid.Nil, nil
	}

	part, err := s.catalog.FindPartByNumber(ctx, item.PartNumber)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return uuid.Nil, nil
	case err != nil:
		return uuid.Nil, fmt.Errorf("find part %s: %w", item.PartNumber, err)
	}
	if item.PartName == "" {
		item.PartName = part.Name
	}
	return part.ID, nil
}

func (s *Service) register(ctx context.Context, partID uuid.UUID, item *domain.ScannedItem) error {
	created, err := s.inventory.Register(ctx, inventory.RegisterInput{
		PartID:       partID,
		ItemID:       item.QRID,
		Status:       domain.ItemStatusValidated,
		SerialNumber: item.SerialNumber,
	})
	if err != nil {
		return err
	}
	item.Status = created.Status
	return nil
}

func (s *Service) transition(ctx context.Context, partID uuid.UUID, item *domain.ScannedItem, target domain.ItemStatus) error {
	res, err := s.inventory.Transition(ctx, inventory.TransitionInput{
		PartID: partID,
		ItemID: item.QRID,
		Target: target,
	})
	if err != nil {
		return err
	}
	item.PreviousStatus = res.Previous
	item.Status = res.Item.Status
	return nil
}

// record turns operator-facing failures into a message on the item and
// passes everything else through.
func (s *Service) record(item *domain.ScannedItem, err error) error {
	var conflict *domain.StatusConflictError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &conflict):
		item.Status = conflict.Current
		item.PreviousStatus = conflict.Current
		item.Message = conflict.Error()
		return nil
	case errors.Is(err, domain.ErrInsufficientStock):
		item.Message = "not applied: ledger has no stock left"
		return nil
	case errors.Is(err, domain.ErrConflict):
		// Closed ledger day and similar.
		item.Message = "not applied: " + err.Error()
		return nil
	}
	return err
}
