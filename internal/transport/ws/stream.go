package ws

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aerotrack/partledger/internal/broadcast"
	"github.com/aerotrack/partledger/internal/domain"
)

// ServeSession streams the scan events of one session to its owner or an
// admin. Events published while the client is disconnected are not
// replayed.
// GET /ws/sessions/{id}
func (h *Handler) ServeSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "invalid session id", http.StatusBadRequest)
		return
	}
	session, err := h.sessions.AuthorizeSession(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	case err != nil:
		h.log.ErrorContext(ctx, "get session", slog.String("session_id", id.String()), slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WarnContext(ctx, "stream upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	sub := h.events.Subscribe(broadcast.ForSession(session.ID))
	defer sub.Close()

	log := h.log.With(slog.String("session_id", session.ID.String()))
	log.DebugContext(ctx, "stream opened")

	// The read pump only services control frames and notices the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			log.DebugContext(ctx, "stream closed by client")
			return
		case event, ok := <-sub.C():
			if !ok {
				closeNormally(conn, "server shutting down")
				return
			}
			payload, err := broadcast.EncodeEvent(event)
			if err != nil {
				log.WarnContext(ctx, "encode scan event", slog.String("error", err.Error()))
				continue
			}
			if err := writeText(conn, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func writeText(conn *websocket.Conn, payload json.RawMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
