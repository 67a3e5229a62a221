package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/transport/middleware"
	"github.com/aerotrack/partledger/pkg/ctxutil"
)

//go:generate moq -out ledger_service_mock_test.go -pkg rest . ledgerService
//go:generate moq -out scanning_service_mock_test.go -pkg rest . scanningService
//go:generate moq -out inventory_service_mock_test.go -pkg rest . inventoryService
//go:generate moq -out report_service_mock_test.go -pkg rest . reportService
//go:generate moq -out job_runner_mock_test.go -pkg rest . jobRunner

var (
	today = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	operator = ctxutil.Identity{ID: uuid.New(), Name: "Ravi", Email: "ravi@example.com", Role: "operator"}
	admin    = ctxutil.Identity{ID: uuid.New(), Name: "Meera", Email: "meera@example.com", Role: ctxutil.RoleAdmin}

	anonymous ctxutil.Identity
)

// deps holds the service mocks behind a router. Unset mocks panic when
// called, which is what a test that does not expect the call wants.
type deps struct {
	ledger    *ledgerServiceMock
	scanning  *scanningServiceMock
	inventory *inventoryServiceMock
	reports   *reportServiceMock
	jobs      *jobRunnerMock
}

func newDeps() *deps {
	return &deps{
		ledger:    &ledgerServiceMock{TodayFunc: func() time.Time { return today }},
		scanning:  &scanningServiceMock{AuthorizeSessionFunc: allowSession},
		inventory: &inventoryServiceMock{},
		reports:   &reportServiceMock{TodayFunc: func() time.Time { return today }},
		jobs:      &jobRunnerMock{},
	}
}

func allowSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error) {
	return &domain.ScanningSession{ID: id, Status: domain.SessionStatusActive}, nil
}

func nopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func withIdentity(r *http.Request, who ctxutil.Identity) context.Context {
	return ctxutil.WithIdentity(r.Context(), who)
}

func (d *deps) router() http.Handler {
	log := nopLogger()
	passthrough := middleware.Middleware(func(next http.Handler) http.Handler { return next })
	return NewRouter(Routes{
		Health:    NewHealthHandler("test"),
		Ledger:    NewLedgerHandler(d.ledger, log),
		Sessions:  NewSessionHandler(d.scanning, log),
		Items:     NewItemHandler(d.inventory, log),
		Reports:   NewReportHandler(d.reports, log),
		Scheduler: NewSchedulerHandler(d.jobs, log),
	}, passthrough)
}

// call sends a request through the router as who; a zero identity is
// anonymous. body is JSON-encoded unless it is already a string.
func (d *deps) call(t *testing.T, who ctxutil.Identity, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, r)
	if who.ID != uuid.Nil {
		req = req.WithContext(withIdentity(req, who))
	}
	rec := httptest.NewRecorder()
	d.router().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}
