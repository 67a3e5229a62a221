package scanning

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aerotrack/partledger/internal/domain"
)

// Consume feeds a broadcast scan event into its session.
func (s *Service) Consume(ctx context.Context, event domain.ScanEvent) (*ScanResult, error) {
	if event.SessionID == nil {
		return nil, domain.NewValidationError("session_id", "required")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}
	return s.AddScannedItem(ctx, *event.SessionID, PayloadFromEvent(event))
}

// Run consumes every broadcast scan event addressed to a session until ctx
// is done or the event stream closes. Events claimed by another instance
// are skipped. Per-event failures are logged and do not stop the consumer.
func (s *Service) Run(ctx context.Context) error {
	sub := s.events.Subscribe(func(e domain.ScanEvent) bool { return e.SessionID != nil })
	defer sub.Close()

	s.log.InfoContext(ctx, "scan consumer started")

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "scan consumer stopped")
			return nil
		case event, ok := <-sub.C():
			if !ok {
				return nil
			}
			s.consumeClaimed(ctx, event)
			if dropped := sub.Dropped(); dropped > 0 {
				s.log.DebugContext(ctx, "scan consumer lagging", slog.Uint64("dropped", dropped))
			}
		}
	}
}

func (s *Service) consumeClaimed(ctx context.Context, event domain.ScanEvent) {
	log := s.log.With(
		slog.String("session_id", event.SessionID.String()),
		slog.String("device_id", event.DeviceID),
		slog.String("qr_id", event.QRID),
	)

	won, err := s.claims.Claim(ctx, event)
	if err != nil {
		log.WarnContext(ctx, "scan event claim failed", slog.String("error", err.Error()))
		return
	}
	if !won {
		return
	}

	_, err = s.Consume(ctx, event)
	var ended *domain.SessionConflictError
	switch {
	case err == nil, errors.Is(err, domain.ErrDuplicateScan):
	case errors.As(err, &ended):
		log.InfoContext(ctx, "scan event for ended session", slog.String("status", ended.Status.String()))
	default:
		log.WarnContext(ctx, "scan event rejected", slog.String("error", err.Error()))
	}
}
