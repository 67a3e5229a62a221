// Package ws serves the WebSocket side of the scan event broadcaster:
// scanning devices push events in, UIs stream a session's events out.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/aerotrack/partledger/internal/broadcast"
	"github.com/aerotrack/partledger/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	maxMessageSize = 4096
)

type eventSubscriber interface {
	Subscribe(filter broadcast.Filter) *broadcast.Subscription
}

// sessionAuthorizer resolves a session the caller on ctx may feed or watch.
type sessionAuthorizer interface {
	AuthorizeSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
}

// Handler upgrades device and session stream connections.
type Handler struct {
	publisher broadcast.Publisher
	events    eventSubscriber
	sessions  sessionAuthorizer
	upgrader  websocket.Upgrader
	log       *slog.Logger
}

// NewHandler creates a Handler. allowedOrigins restricts browser
// connections; an empty list or "*" accepts any origin.
func NewHandler(
	logger *slog.Logger,
	publisher broadcast.Publisher,
	events eventSubscriber,
	sessions sessionAuthorizer,
	allowedOrigins []string,
) *Handler {
	return &Handler{
		publisher: publisher,
		events:    events,
		sessions:  sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		log: logger.With("handler", "ws"),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(set) == 0 {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func closeNormally(conn *websocket.Conn, text string) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
