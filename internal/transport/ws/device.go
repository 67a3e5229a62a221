package ws

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aerotrack/partledger/internal/broadcast"
	"github.com/aerotrack/partledger/internal/domain"
)

const maxDeviceIDLength = 64

// ack answers every message a device sends.
type ack struct {
	Type  string `json:"type"`
	QRID  string `json:"qr_id,omitempty"`
	Error string `json:"error,omitempty"`
}

// ServeDevice reads scan events from a device and publishes them. The
// device id in the path overrides whatever the payload carries. An event
// addressed to a session is published only if the connected operator owns
// that session or is an admin.
// GET /ws/devices/{deviceID}
func (h *Handler) ServeDevice(w http.ResponseWriter, r *http.Request) {
	deviceID := strings.TrimSpace(r.PathValue("deviceID"))
	if deviceID == "" || len(deviceID) > maxDeviceIDLength {
		http.Error(w, "invalid device id", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.WarnContext(r.Context(), "device upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.log.With(slog.String("device_id", deviceID))
	log.InfoContext(ctx, "device connected")
	defer log.InfoContext(ctx, "device disconnected")

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Acks are written only from the read loop; pings go through
	// WriteControl, which may run concurrently with it.
	write := func(v ack) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					return
				}
			}
		}
	}()

	// Sessions this connection may feed. A session's owner never changes.
	allowed := make(map[uuid.UUID]bool)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.WarnContext(ctx, "device read failed", slog.String("error", err.Error()))
			}
			return
		}

		event, err := broadcast.DecodeEvent(data)
		if err != nil {
			if werr := write(ack{Type: "rejected", Error: rejectReason(err)}); werr != nil {
				return
			}
			continue
		}
		event.DeviceID = deviceID

		if event.SessionID != nil && !allowed[*event.SessionID] {
			reason, err := h.authorize(ctx, *event.SessionID)
			if err != nil {
				log.ErrorContext(ctx, "authorize session", slog.String("qr_id", event.QRID), slog.String("error", err.Error()))
				if werr := write(ack{Type: "error", QRID: event.QRID, Error: "session lookup failed"}); werr != nil {
					return
				}
				continue
			}
			if reason != "" {
				if werr := write(ack{Type: "rejected", QRID: event.QRID, Error: reason}); werr != nil {
					return
				}
				continue
			}
			allowed[*event.SessionID] = true
		}

		if err := h.publisher.Publish(ctx, event); err != nil {
			log.ErrorContext(ctx, "publish scan event", slog.String("qr_id", event.QRID), slog.String("error", err.Error()))
			if werr := write(ack{Type: "error", QRID: event.QRID, Error: "publish failed"}); werr != nil {
				return
			}
			continue
		}
		if err := write(ack{Type: "accepted", QRID: event.QRID}); err != nil {
			return
		}
	}
}

// authorize returns a rejection reason for a session the caller may not
// feed, or an error when the lookup itself failed.
func (h *Handler) authorize(ctx context.Context, id uuid.UUID) (string, error) {
	_, err := h.sessions.AuthorizeSession(ctx, id)
	switch {
	case err == nil:
		return "", nil
	case errors.Is(err, domain.ErrNotFound):
		return "session_id: unknown session", nil
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "session_id: not permitted", nil
	}
	return "", err
}

func rejectReason(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Errors) > 0 {
		parts := make([]string, len(verr.Errors))
		for i, fe := range verr.Errors {
			parts[i] = fe.Field + ": " + fe.Message
		}
		return strings.Join(parts, "; ")
	}
	return "invalid scan event"
}
