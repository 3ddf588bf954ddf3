package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// JobType names the work a job performs
type JobType string

const (
	// JobTypeRetrain retrains the price model and hot-swaps it.
	JobTypeRetrain JobType = "retrain"
	// JobTypePipeline regenerates, merges and validates the training data.
	JobTypePipeline JobType = "pipeline"
)

// Valid reports whether t is a known job type.
func (t JobType) Valid() bool {
	return t == JobTypeRetrain || t == JobTypePipeline
}

// Job is one unit of background work. Records is only read by pipeline jobs.
type Job struct {
	ID          uuid.UUID  `json:"id"`
	Type        JobType    `json:"type"`
	Trigger     string     `json:"trigger"`
	Records     int        `json:"records,omitempty"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RetryCount  int        `json:"retry_count"`
	MaxRetries  int        `json:"max_retries"`
}

// NewJob creates a pending job.
func NewJob(jobType JobType, trigger string, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Trigger:    trigger,
		Status:     JobStatusPending,
		CreatedAt:  time.Now(),
		MaxRetries: maxRetries,
	}
}

func (j *Job) start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

func (j *Job) complete() {
	now := time.Now()
	j.Status = JobStatusSucceeded
	j.CompletedAt = &now
}

func (j *Job) fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

func (j *Job) shouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

func (j *Job) scheduleRetry() {
	j.RetryCount++
	j.Status = JobStatusPending
	j.CompletedAt = nil
}

// Active reports whether the job has not reached a final state.
func (j *Job) Active() bool {
	return j.Status == JobStatusPending || j.Status == JobStatusRunning
}

// JobExecutor runs a job. The job passed in is a private copy.
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// JobExecutorFunc adapts a function to JobExecutor.
type JobExecutorFunc func(ctx context.Context, job *Job) error

// Execute implements JobExecutor.
func (f JobExecutorFunc) Execute(ctx context.Context, job *Job) error {
	return f(ctx, job)
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// HistorySize bounds how many finished jobs stay queryable.
	HistorySize int
}

// DefaultSchedulerConfig returns default scheduler configuration
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Workers:     1,
		QueueSize:   8,
		JobTimeout:  30 * time.Minute,
		MaxRetries:  2,
		RetryDelay:  time.Minute,
		HistorySize: 100,
	}
}

// ConfigFromRetrain maps the retrain settings onto a SchedulerConfig.
func ConfigFromRetrain(cfg config.RetrainConfig) SchedulerConfig {
	sc := DefaultSchedulerConfig()
	sc.Workers = cfg.Workers
	sc.QueueSize = cfg.QueueSize
	sc.JobTimeout = cfg.JobTimeout
	sc.MaxRetries = cfg.MaxRetries
	sc.RetryDelay = cfg.RetryDelay
	return sc
}

// Validate checks the configuration.
func (c SchedulerConfig) Validate() error {
	switch {
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue size must be at least 1", ErrInvalidConfig)
	case c.JobTimeout <= 0:
		return fmt.Errorf("%w: job timeout must be positive", ErrInvalidConfig)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max retries cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithMetrics records finished jobs on m.
func WithMetrics(m *telemetry.PriceMetrics) Option {
	return func(s *Scheduler) {
		s.metrics = m
	}
}

// Scheduler runs retrain and pipeline jobs on a fixed worker pool.
type Scheduler struct {
	config   SchedulerConfig
	executor JobExecutor
	logger   *zap.Logger
	metrics  *telemetry.PriceMetrics

	jobs    chan *Job
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// registry holds every known job, keyed by ID; order tracks insertion
	// for history trimming.
	registry map[uuid.UUID]*Job
	order    []uuid.UUID
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg SchedulerConfig, executor JobExecutor, logger *zap.Logger, opts ...Option) (*Scheduler, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: executor is required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		config:   cfg,
		executor: executor,
		logger:   logger,
		jobs:     make(chan *Job, cfg.QueueSize),
		registry: make(map[uuid.UUID]*Job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches the worker pool. Starting twice is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(runCtx, i)
	}

	s.logger.Info("Job scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("queue_size", s.config.QueueSize),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers to exit or for ctx
// to expire. Queued jobs that never started are marked failed.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.logger.Warn("Job scheduler stop timed out")
		return ctx.Err()
	}

	s.mu.Lock()
drain:
	for {
		select {
		case job := <-s.jobs:
			job.fail("scheduler stopped")
		default:
			break drain
		}
	}
	s.mu.Unlock()

	s.logger.Info("Job scheduler stopped")
	return nil
}

// JobOption customizes a job before it is enqueued
type JobOption func(*Job)

// WithRecords sets the number of records a pipeline job generates
func WithRecords(n int) JobOption {
	return func(j *Job) { j.Records = n }
}

// Submit enqueues a new job and returns a snapshot of it.
func (s *Scheduler) Submit(jobType JobType, trigger string, opts ...JobOption) (Job, error) {
	job := NewJob(jobType, trigger, s.config.MaxRetries)
	for _, opt := range opts {
		opt(job)
	}
	return s.SubmitJob(job)
}

// SubmitJob enqueues job as-is and returns a snapshot of it.
func (s *Scheduler) SubmitJob(job *Job) (Job, error) {
	if !job.Type.Valid() {
		return Job{}, fmt.Errorf("%w: %q", ErrUnknownJobType, job.Type)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Job{}, ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
	default:
		return Job{}, ErrJobQueueFull
	}

	s.remember(job)
	s.logger.Debug("Job submitted",
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
		zap.String("trigger", job.Trigger),
	)
	return *job, nil
}

// remember stores job and trims finished jobs beyond HistorySize. Callers
// hold s.mu.
func (s *Scheduler) remember(job *Job) {
	s.registry[job.ID] = job
	s.order = append(s.order, job.ID)

	for len(s.order) > s.config.HistorySize {
		trimmed := false
		for i, id := range s.order {
			if j := s.registry[id]; j != nil && !j.Active() {
				delete(s.registry, id)
				s.order = append(s.order[:i], s.order[i+1:]...)
				trimmed = true
				break
			}
		}
		if !trimmed {
			return
		}
	}
}

// Get returns a snapshot of the job with id.
func (s *Scheduler) Get(id uuid.UUID) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.registry[id]
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return *job, nil
}

// HasActive reports whether a job of jobType is pending or running.
func (s *Scheduler) HasActive(jobType JobType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.registry {
		if job.Type == jobType && job.Active() {
			return true
		}
	}
	return false
}

// IsRunning reports whether the worker pool is up.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	job.start()
	snapshot := *job
	s.mu.Unlock()

	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job_type", string(job.Type)),
	)
	log.Info("Processing job", zap.Int("attempt", snapshot.RetryCount+1))

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	defer cancel()

	jobCtx, span := telemetry.StartServiceSpan(jobCtx, "scheduler", string(job.Type),
		telemetry.WithAttribute(telemetry.SpanAttrJobID, job.ID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrTrigger, job.Trigger),
	)
	defer span.End()

	var err error
	telemetry.WithProfilingLabels(jobCtx, telemetry.OperationLabels("job", map[string]string{
		telemetry.ProfilingLabelJobType: string(job.Type),
	}), func(c context.Context) {
		err = s.executor.Execute(c, &snapshot)
	})

	s.mu.Lock()
	if err == nil {
		job.complete()
		s.mu.Unlock()
		telemetry.SetOK(span)
		s.metrics.RecordJob(ctx, string(job.Type), string(JobStatusSucceeded))
		log.Info("Job completed")
		return
	}

	job.fail(err.Error())
	retry := job.shouldRetry() && ctx.Err() == nil
	if retry {
		job.scheduleRetry()
	}
	attempt := job.RetryCount
	s.mu.Unlock()

	telemetry.RecordError(span, err)
	log.Error("Job failed", zap.Error(err), zap.Bool("will_retry", retry))

	if !retry {
		s.metrics.RecordJob(ctx, string(job.Type), string(JobStatusFailed))
		return
	}

	log.Info("Job scheduled for retry", zap.Int("retry_count", attempt), zap.Duration("delay", s.config.RetryDelay))
	s.wg.Add(1)
	go s.requeueAfter(ctx, job, s.config.RetryDelay)
}

// requeueAfter puts job back on the queue after delay unless the scheduler
// stops first.
func (s *Scheduler) requeueAfter(ctx context.Context, job *Job, delay time.Duration) {
	defer s.wg.Done()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.mu.Lock()
		job.fail("scheduler stopped before retry")
		s.mu.Unlock()
		return
	case <-timer.C:
	}

	select {
	case s.jobs <- job:
	case <-ctx.Done():
		s.mu.Lock()
		job.fail("scheduler stopped before retry")
		s.mu.Unlock()
	}
}
