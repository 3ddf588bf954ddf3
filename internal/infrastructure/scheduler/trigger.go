package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TriggerScheduler is a periodic retrain trigger
const TriggerScheduler = "scheduler"

// Submitter is the part of Scheduler the trigger needs.
type Submitter interface {
	Submit(jobType JobType, trigger string, opts ...JobOption) (Job, error)
	HasActive(jobType JobType) bool
}

// IntervalTriggerConfig holds configuration for the interval trigger
type IntervalTriggerConfig struct {
	Interval time.Duration
	JobType  JobType
	// RunOnStart submits one job immediately on Start.
	RunOnStart bool
}

// IntervalTrigger submits a job every Interval. A tick is skipped while a
// job of the same type is still pending or running.
type IntervalTrigger struct {
	config    IntervalTriggerConfig
	submitter Submitter
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(cfg IntervalTriggerConfig, submitter Submitter, logger *zap.Logger) (*IntervalTrigger, error) {
	if cfg.Interval <= 0 {
		return nil, errors.Join(ErrInvalidConfig, errors.New("interval must be positive"))
	}
	if cfg.JobType == "" {
		cfg.JobType = JobTypeRetrain
	}
	if !cfg.JobType.Valid() {
		return nil, ErrUnknownJobType
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntervalTrigger{config: cfg, submitter: submitter, logger: logger}, nil
}

// Start starts the trigger loop
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.isRunning {
		return nil
	}
	t.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go t.runLoop(ctx)

	t.logger.Info("Interval trigger started",
		zap.Duration("interval", t.config.Interval),
		zap.String("job_type", string(t.config.JobType)),
	)
	return nil
}

// Stop stops the trigger loop
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.cancel()
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *IntervalTrigger) runLoop(ctx context.Context) {
	defer t.wg.Done()

	if t.config.RunOnStart {
		t.fire()
	}

	ticker := time.NewTicker(t.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.fire()
		}
	}
}

func (t *IntervalTrigger) fire() {
	if t.submitter.HasActive(t.config.JobType) {
		t.logger.Debug("Skipping tick, job already active", zap.String("job_type", string(t.config.JobType)))
		return
	}

	job, err := t.submitter.Submit(t.config.JobType, TriggerScheduler)
	if err != nil {
		t.logger.Warn("Failed to submit scheduled job", zap.String("job_type", string(t.config.JobType)), zap.Error(err))
		return
	}
	t.logger.Info("Scheduled job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
}
