// Package worker schedules periodic dataset reloads for the API server.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"headline-desk/internal/handler/http/respond"
	"headline-desk/internal/usecase/headline"
)

// Reloader swaps in a freshly loaded snapshot. *headline.Service implements it.
type Reloader interface {
	Reload(ctx context.Context) (headline.Snapshot, error)
}

// ReloadJob runs one bounded reload. It implements cron.Job.
type ReloadJob struct {
	reloader Reloader
	timeout  time.Duration
	logger   *slog.Logger
}

// NewReloadJob creates a reload job. A zero timeout means no deadline.
func NewReloadJob(r Reloader, timeout time.Duration, logger *slog.Logger) *ReloadJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReloadJob{reloader: r, timeout: timeout, logger: logger}
}

// Run satisfies cron.Job.
func (j *ReloadJob) Run() {
	_ = j.RunContext(context.Background())
}

// RunContext reloads the dataset and records the outcome.
// A failed reload leaves the previous snapshot serving.
func (j *ReloadJob) RunContext(ctx context.Context) error {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	start := time.Now()
	snap, err := j.reloader.Reload(ctx)
	duration := time.Since(start)
	recordRun(err == nil, duration.Seconds())

	if err != nil {
		j.logger.Error("scheduled reload failed",
			slog.String("error", respond.SanitizeError(err)),
			slog.Duration("duration", duration))
		return err
	}
	j.logger.Info("scheduled reload completed",
		slog.Int("articles", snap.Len()),
		slog.Int("undated", snap.Undated()),
		slog.Duration("duration", duration))
	return nil
}

// Scheduler runs a job on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler parses schedule in the named IANA zone and registers job.
func NewScheduler(schedule, timezone string, job cron.Job, logger *slog.Logger) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	cl := cronLogger{logger: logger}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddJob(schedule, job); err != nil {
		return nil, fmt.Errorf("add reload job: %w", err)
	}
	return &Scheduler{cron: c}, nil
}

// Start begins running the schedule in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Next returns the next scheduled run, or the zero time before Start.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop stops scheduling and waits for a running job until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct{ logger *slog.Logger }

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{slog.Any("error", err)}, keysAndValues...)...)
}
