package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aerotrack/partledger/internal/scheduler"
)

type jobRunner interface {
	Jobs() []scheduler.JobStatus
	Trigger(ctx context.Context, name string) error
}

// SchedulerHandler exposes the rollover scheduler to admins.
type SchedulerHandler struct {
	jobs jobRunner
	log  *slog.Logger
}

// NewSchedulerHandler creates a SchedulerHandler.
func NewSchedulerHandler(jobs jobRunner, logger *slog.Logger) *SchedulerHandler {
	return &SchedulerHandler{jobs: jobs, log: logger.With("handler", "scheduler")}
}

type jobResponse struct {
	Name        string     `json:"name"`
	At          string     `json:"at"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	Attempts    int        `json:"attempts"`
}

// List returns the registered jobs and their last runs.
// GET /admin/scheduler/jobs
func (h *SchedulerHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.jobs.Jobs()
	out := make([]jobResponse, len(jobs))
	for i, j := range jobs {
		out[i] = jobResponse(j)
	}
	writeJSON(w, http.StatusOK, out)
}

// Trigger runs a job now, outside its schedule.
// POST /admin/scheduler/jobs/{name}/trigger
func (h *SchedulerHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := h.jobs.Trigger(r.Context(), name); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "job": name})
}
