package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/movies-backend/config"
	"github.com/dustin/movies-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// JobFunc is one run of a maintenance job
type JobFunc func(ctx context.Context) error

// Status is a snapshot of the worker's last run
type Status struct {
	Running   bool      `json:"running"`
	Interval  string    `json:"interval"`
	LastRun   time.Time `json:"last_run,omitempty"`
	LastError string    `json:"last_error,omitempty"`
}

// ScheduledWorker runs a job on a fixed interval. Runs never overlap.
type ScheduledWorker struct {
	name     string
	cron     *cron.Cron
	job      JobFunc
	interval time.Duration
	logger   *logger.Logger
	entryID  cron.EntryID

	// ctx is canceled on Stop so an in-flight run aborts its transaction
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	lastRun time.Time
	lastErr error
}

// NewScheduledWorker creates a cron-scheduled worker with validation and defaults
func NewScheduledWorker(cfg *config.WorkerConfig, name string, job JobFunc, log *logger.Logger) (*ScheduledWorker, error) {
	interval := time.Hour // default
	if cfg != nil && cfg.PurgeInterval != "" {
		duration, err := time.ParseDuration(cfg.PurgeInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid purge interval '%s': %v", cfg.PurgeInterval, err)
		}
		if duration < time.Second {
			return nil, fmt.Errorf("purge interval must be at least 1s, got %v", duration)
		}
		interval = duration
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &ScheduledWorker{
		name: name,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DiscardLogger),
		)),
		job:      job,
		interval: interval,
		logger:   log.WithComponent("scheduled-worker").WithField("worker", name),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start schedules and begins the worker
func (w *ScheduledWorker) Start() error {
	spec := "@every " + w.interval.String()
	w.logger.Info(fmt.Sprintf("Starting scheduled worker: %s (every %v)", w.name, w.interval))

	entryID, err := w.cron.AddFunc(spec, func() {
		w.RunOnce()
	})
	if err != nil {
		w.logger.Error("Failed to schedule worker " + w.name + ": " + err.Error())
		return err
	}

	w.entryID = entryID
	w.cron.Start()

	return nil
}

// RunOnce executes the job immediately, bounded by one interval
func (w *ScheduledWorker) RunOnce() error {
	ctx, cancel := context.WithTimeout(w.ctx, w.interval)
	defer cancel()

	w.logger.Debug("Executing job for worker: " + w.name)
	err := w.job(ctx)

	w.mu.Lock()
	w.lastRun = time.Now()
	w.lastErr = err
	w.mu.Unlock()

	if err != nil {
		w.logger.Err(err, "Job failed for worker "+w.name)
		return err
	}

	w.logger.Debug("Job completed for worker: " + w.name)
	return nil
}

// Stop cancels an in-flight run and waits for it to return
func (w *ScheduledWorker) Stop() error {
	w.logger.Info("Stopping scheduled worker: " + w.name)

	if w.entryID > 0 {
		w.cron.Remove(w.entryID)
		w.entryID = 0
	}

	w.cancel()
	ctx := w.cron.Stop()
	<-ctx.Done()

	w.logger.Info("Scheduled worker stopped: " + w.name)

	return nil
}

// IsRunning checks if the worker has active cron entries
func (w *ScheduledWorker) IsRunning() bool {
	return len(w.cron.Entries()) > 0
}

// Status reports the schedule and the outcome of the last run
func (w *ScheduledWorker) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := Status{
		Running:  w.IsRunning(),
		Interval: w.interval.String(),
		LastRun:  w.lastRun,
	}
	if w.lastErr != nil {
		status.LastError = w.lastErr.Error()
	}
	return status
}
