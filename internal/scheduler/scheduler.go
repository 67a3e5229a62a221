// Package scheduler runs daily wall-clock jobs such as the ledger's
// open-day and close-day rollover.
//
// Jobs are not fired by timers set for their exact time. Instead the
// scheduler ticks at a fixed interval and runs every job whose time of day
// has passed and which has not yet succeeded for the current business date.
// A restart therefore catches up on missed runs, and a failing job is
// retried at the next tick until its per-date attempt budget is spent.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/aerotrack/partledger/internal/config"
	"github.com/aerotrack/partledger/internal/domain"
)

// Handler runs one job. It must be idempotent.
type Handler func(ctx context.Context) error

type job struct {
	name    string
	at      string
	hour    int
	minute  int
	handler Handler

	doneFor     time.Time
	attemptDate time.Time
	attempts    int
	running     bool
}

// dueAt is the job's wall-clock time on the calendar day of now. It is built
// from the hour and minute, not as an offset from midnight, so DST days keep
// the configured local time.
func (j *job) dueAt(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), j.hour, j.minute, 0, 0, now.Location())
}

// Scheduler runs registered jobs once per business date.
type Scheduler struct {
	clock       clockwork.Clock
	loc         *time.Location
	interval    time.Duration
	maxAttempts int
	log         *slog.Logger

	mu   sync.Mutex
	jobs []*job
}

// New creates a scheduler that ticks every interval. maxAttempts bounds the
// failed runs of one job per date; zero or less means unbounded.
func New(log *slog.Logger, clock clockwork.Clock, loc *time.Location, interval time.Duration, maxAttempts int) *Scheduler {
	return &Scheduler{
		clock:       clock,
		loc:         loc,
		interval:    interval,
		maxAttempts: maxAttempts,
		log:         log.With("component", "scheduler"),
	}
}

// Register adds a job due every day at the given "HH:MM" local time. Jobs
// due at the same tick run in registration order.
func (s *Scheduler) Register(name, at string, handler Handler) error {
	offset, err := config.ParseClock(at)
	if err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if j.name == name {
			return fmt.Errorf("job %s: %w", name, domain.ErrAlreadyExists)
		}
	}
	s.jobs = append(s.jobs, &job{
		name:    name,
		at:      at,
		hour:    int(offset / time.Hour),
		minute:  int(offset % time.Hour / time.Minute),
		handler: handler,
	})
	return nil
}

// Run ticks once immediately, then every interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "scheduler started",
		slog.Duration("interval", s.interval),
		slog.String("timezone", s.loc.String()),
	)

	s.Tick(ctx)

	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "scheduler stopped")
			return nil
		case <-ticker.Chan():
			s.Tick(ctx)
		}
	}
}

// Tick runs every job that is due and still pending for today. Handlers run
// outside the scheduler lock so Jobs stays responsive during a slow rollover.
func (s *Scheduler) Tick(ctx context.Context) {
	now := s.clock.Now().In(s.loc)
	date := domain.BusinessDate(now, s.loc)

	for _, j := range s.claimDue(now, date) {
		log := s.log.With(slog.String("job", j.name), slog.String("date", date.Format(domain.DateLayout)))

		err := j.handler(ctx)

		s.mu.Lock()
		j.running = false
		if err == nil {
			j.doneFor = date
		} else {
			j.attempts++
		}
		attempts := j.attempts
		s.mu.Unlock()

		switch {
		case err == nil:
			log.InfoContext(ctx, "job succeeded", slog.Int("failed_attempts", attempts))
		case s.maxAttempts > 0 && attempts >= s.maxAttempts:
			log.ErrorContext(ctx, "job gave up until next date",
				slog.Int("attempts", attempts),
				slog.String("error", err.Error()),
			)
		default:
			log.WarnContext(ctx, "job failed, retrying at next tick",
				slog.Int("attempts", attempts),
				slog.String("error", err.Error()),
			)
		}
	}
}

// claimDue marks the jobs due at now as running and returns them in
// registration order. A job already running from an overlapping tick is
// skipped.
func (s *Scheduler) claimDue(now, date time.Time) []*job {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []*job
	for _, j := range s.jobs {
		if j.running || now.Before(j.dueAt(now)) || j.doneFor.Equal(date) {
			continue
		}
		if !j.attemptDate.Equal(date) {
			j.attemptDate, j.attempts = date, 0
		}
		if s.maxAttempts > 0 && j.attempts >= s.maxAttempts {
			continue
		}
		j.running = true
		due = append(due, j)
	}
	return due
}

// Trigger runs a job now regardless of its schedule. It does not change the
// job's per-date bookkeeping.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.Lock()
	var handler Handler
	for _, j := range s.jobs {
		if j.name == name {
			handler = j.handler
			break
		}
	}
	s.mu.Unlock()

	if handler == nil {
		return fmt.Errorf("job %s: %w", name, domain.ErrNotFound)
	}

	s.log.InfoContext(ctx, "job triggered", slog.String("job", name))
	if err := handler(ctx); err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}
	return nil
}

// JobStatus describes one registered job.
type JobStatus struct {
	Name        string
	At          string
	LastSuccess *time.Time
	Attempts    int
}

// Jobs returns the registered jobs in registration order. Attempts counts
// failed runs for the current business date only.
func (s *Scheduler) Jobs() []JobStatus {
	date := domain.BusinessDate(s.clock.Now(), s.loc)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, j := range s.jobs {
		st := JobStatus{Name: j.name, At: j.at}
		if j.attemptDate.Equal(date) {
			st.Attempts = j.attempts
		}
		if !j.doneFor.IsZero() {
			d := j.doneFor
			st.LastSuccess = &d
		}
		out = append(out, st)
	}
	return out
}
