package rest

import (
	"net/http"

	"github.com/aerotrack/partledger/internal/transport/middleware"
)

// Routes holds every handler the router mounts. The WebSocket endpoints
// are plain handler funcs so this package does not depend on the ws
// transport.
type Routes struct {
	Health    *HealthHandler
	Ledger    *LedgerHandler
	Sessions  *SessionHandler
	Items     *ItemHandler
	Reports   *ReportHandler
	Scheduler *SchedulerHandler

	DeviceStream  http.HandlerFunc
	SessionStream http.HandlerFunc
}

// NewRouter mounts all routes. scanLimit guards the endpoints devices hit
// per scan. Global middleware (recovery, request id, auth, logging) is
// applied by the caller around the returned mux.
func NewRouter(rt Routes, scanLimit middleware.Middleware) *http.ServeMux {
	mux := http.NewServeMux()

	authed := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return middleware.AdminOnly(h) }
	scans := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(scanLimit(h)) }

	mux.HandleFunc("GET /live", rt.Health.Live)
	mux.HandleFunc("GET /ready", rt.Health.Ready)
	mux.HandleFunc("GET /health", rt.Health.Health)

	mux.Handle("GET /ledger", authed(rt.Ledger.List))
	mux.Handle("GET /ledger/today", authed(rt.Ledger.Today))
	mux.Handle("GET /ledger/{date}", authed(rt.Ledger.Get))
	mux.Handle("GET /ledger/{date}/adjustments", authed(rt.Ledger.Adjustments))
	mux.Handle("POST /admin/ledger/open", admin(rt.Ledger.Open))
	mux.Handle("POST /admin/ledger/close", admin(rt.Ledger.Close))
	mux.Handle("POST /admin/ledger/resync", admin(rt.Ledger.Resync))

	mux.Handle("GET /admin/scheduler/jobs", admin(rt.Scheduler.List))
	mux.Handle("POST /admin/scheduler/jobs/{name}/trigger", admin(rt.Scheduler.Trigger))

	mux.Handle("POST /sessions", authed(rt.Sessions.Create))
	mux.Handle("GET /sessions", authed(rt.Sessions.List))
	mux.Handle("GET /sessions/{id}", authed(rt.Sessions.Get))
	mux.Handle("POST /sessions/{id}/scans", scans(rt.Sessions.Scan))
	mux.Handle("POST /sessions/{id}/complete", authed(rt.Sessions.Complete))
	mux.Handle("POST /sessions/{id}/cancel", authed(rt.Sessions.Cancel))

	mux.Handle("GET /parts/{partID}/items", authed(rt.Items.List))
	mux.Handle("POST /parts/{partID}/items", authed(rt.Items.Register))
	mux.Handle("POST /parts/{partID}/items/{itemID}/transition", authed(rt.Items.Transition))
	mux.Handle("GET /items/{itemID}", authed(rt.Items.Get))
	mux.Handle("GET /items/{itemID}/history", authed(rt.Items.History))

	mux.Handle("GET /reports/availability", authed(rt.Reports.Availability))
	mux.Handle("GET /reports/ledger", authed(rt.Reports.Ledger))
	mux.Handle("GET /reports/ledger.xlsx", authed(rt.Reports.LedgerXLSX))
	mux.Handle("GET /reports/top-parts", authed(rt.Reports.TopParts))
	mux.Handle("GET /reports/operators", authed(rt.Reports.Operators))
	mux.Handle("GET /reports/reconcile", authed(rt.Reports.Reconcile))

	if rt.DeviceStream != nil {
		mux.Handle("GET /ws/devices/{deviceID}", scans(rt.DeviceStream))
	}
	if rt.SessionStream != nil {
		mux.Handle("GET /ws/sessions/{id}", authed(rt.SessionStream))
	}

	return mux
}
