package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() SchedulerConfig {
	cfg := DefaultSchedulerConfig()
	cfg.JobTimeout = time.Second
	cfg.RetryDelay = 10 * time.Millisecond
	return cfg
}

func startScheduler(t *testing.T, cfg SchedulerConfig, exec JobExecutor) *Scheduler {
	t.Helper()
	s, err := NewScheduler(cfg, exec, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

func waitForStatus(t *testing.T, s *Scheduler, id uuid.UUID, want JobStatus) Job {
	t.Helper()
	var job Job
	require.Eventually(t, func() bool {
		var err error
		job, err = s.Get(id)
		return err == nil && job.Status == want
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestSchedulerConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SchedulerConfig)
	}{
		{"no workers", func(c *SchedulerConfig) { c.Workers = 0 }},
		{"no queue", func(c *SchedulerConfig) { c.QueueSize = 0 }},
		{"no timeout", func(c *SchedulerConfig) { c.JobTimeout = 0 }},
		{"negative retries", func(c *SchedulerConfig) { c.MaxRetries = -1 }},
	}

	assert.NoError(t, DefaultSchedulerConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSchedulerConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestConfigFromRetrain(t *testing.T) {
	cfg := ConfigFromRetrain(config.RetrainConfig{
		Workers:    2,
		QueueSize:  4,
		JobTimeout: time.Minute,
		MaxRetries: 1,
		RetryDelay: time.Second,
	})

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 4, cfg.QueueSize)
	assert.Equal(t, time.Minute, cfg.JobTimeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.RetryDelay)
	assert.Equal(t, 100, cfg.HistorySize)
}

func TestNewScheduler_RequiresExecutor(t *testing.T) {
	_, err := NewScheduler(DefaultSchedulerConfig(), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScheduler_RunsJob(t *testing.T) {
	var seen atomic.Value
	s := startScheduler(t, testConfig(), JobExecutorFunc(func(ctx context.Context, job *Job) error {
		seen.Store(job.Type)
		return nil
	}))

	submitted, err := s.Submit(JobTypeRetrain, "api")
	require.NoError(t, err)
	assert.Equal(t, JobStatusPending, submitted.Status)
	assert.Equal(t, "api", submitted.Trigger)

	job := waitForStatus(t, s, submitted.ID, JobStatusSucceeded)
	assert.NotNil(t, job.StartedAt)
	assert.NotNil(t, job.CompletedAt)
	assert.Equal(t, JobTypeRetrain, seen.Load())
	assert.False(t, s.HasActive(JobTypeRetrain))
}

func TestScheduler_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	s := startScheduler(t, testConfig(), JobExecutorFunc(func(ctx context.Context, job *Job) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}))

	submitted, err := s.Submit(JobTypePipeline, "cli")
	require.NoError(t, err)

	job := waitForStatus(t, s, submitted.ID, JobStatusSucceeded)
	assert.Equal(t, 2, job.RetryCount)
	assert.Equal(t, int32(3), calls.Load())
}

func TestScheduler_SubmitWithRecords(t *testing.T) {
	var records atomic.Int32
	s := startScheduler(t, testConfig(), JobExecutorFunc(func(ctx context.Context, job *Job) error {
		records.Store(int32(job.Records))
		return nil
	}))

	submitted, err := s.Submit(JobTypePipeline, "api", WithRecords(250))
	require.NoError(t, err)
	assert.Equal(t, 250, submitted.Records)

	waitForStatus(t, s, submitted.ID, JobStatusSucceeded)
	assert.Equal(t, int32(250), records.Load())
}

func TestScheduler_FailsAfterMaxRetries(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRetries = 1
	var calls atomic.Int32
	s := startScheduler(t, cfg, JobExecutorFunc(func(ctx context.Context, job *Job) error {
		calls.Add(1)
		return errors.New("dataset missing")
	}))

	submitted, err := s.Submit(JobTypeRetrain, "api")
	require.NoError(t, err)

	job := waitForStatus(t, s, submitted.ID, JobStatusFailed)
	assert.Equal(t, "dataset missing", job.Error)
	assert.Equal(t, 1, job.RetryCount)
	assert.Equal(t, int32(2), calls.Load())
}

func TestScheduler_JobTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.JobTimeout = 20 * time.Millisecond
	cfg.MaxRetries = 0
	s := startScheduler(t, cfg, JobExecutorFunc(func(ctx context.Context, job *Job) error {
		<-ctx.Done()
		return ctx.Err()
	}))

	submitted, err := s.Submit(JobTypeRetrain, "api")
	require.NoError(t, err)

	job := waitForStatus(t, s, submitted.ID, JobStatusFailed)
	assert.Contains(t, job.Error, "deadline exceeded")
}

func TestScheduler_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.QueueSize = 1
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	s := startScheduler(t, cfg, JobExecutorFunc(func(ctx context.Context, job *Job) error {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))
	defer close(release)

	_, err := s.Submit(JobTypeRetrain, "api")
	require.NoError(t, err)
	<-started

	_, err = s.Submit(JobTypeRetrain, "api")
	require.NoError(t, err)
	assert.True(t, s.HasActive(JobTypeRetrain))

	_, err = s.Submit(JobTypeRetrain, "api")
	assert.ErrorIs(t, err, ErrJobQueueFull)
}

func TestScheduler_SubmitValidation(t *testing.T) {
	s, err := NewScheduler(testConfig(), JobExecutorFunc(func(context.Context, *Job) error { return nil }), nil)
	require.NoError(t, err)

	_, err = s.Submit(JobTypeRetrain, "api")
	assert.ErrorIs(t, err, ErrSchedulerNotRunning)

	_, err = s.Submit(JobType("backup"), "api")
	assert.ErrorIs(t, err, ErrUnknownJobType)

	_, err = s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestScheduler_StopIdempotent(t *testing.T) {
	s, err := NewScheduler(testConfig(), JobExecutorFunc(func(context.Context, *Job) error { return nil }), nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.Start(ctx))
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
	assert.False(t, s.IsRunning())
}

func TestScheduler_StopCancelsPendingRetry(t *testing.T) {
	cfg := testConfig()
	cfg.RetryDelay = time.Hour
	s, err := NewScheduler(cfg, JobExecutorFunc(func(context.Context, *Job) error {
		return errors.New("fail")
	}), nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	submitted, err := s.Submit(JobTypeRetrain, "api")
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		job, _ := s.Get(submitted.ID)
		return job.RetryCount == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Stop(context.Background()))

	job, err := s.Get(submitted.ID)
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, job.Status)
	assert.Equal(t, "scheduler stopped before retry", job.Error)
}

func TestScheduler_HistoryTrimsFinishedJobs(t *testing.T) {
	cfg := testConfig()
	cfg.HistorySize = 2
	s := startScheduler(t, cfg, JobExecutorFunc(func(context.Context, *Job) error { return nil }))

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		job, err := s.Submit(JobTypeRetrain, "api")
		require.NoError(t, err)
		waitForStatus(t, s, job.ID, JobStatusSucceeded)
		ids = append(ids, job.ID)
	}

	_, err := s.Get(ids[0])
	assert.ErrorIs(t, err, ErrJobNotFound)
	_, err = s.Get(ids[3])
	assert.NoError(t, err)
}

type fakeSubmitter struct {
	mu        sync.Mutex
	submitted []string
	active    bool
}

func (f *fakeSubmitter) Submit(jobType JobType, trigger string, _ ...JobOption) (Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, trigger)
	return Job{ID: uuid.New(), Type: jobType, Trigger: trigger}, nil
}

func (f *fakeSubmitter) HasActive(JobType) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

func (f *fakeSubmitter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func TestIntervalTrigger_SubmitsOnTick(t *testing.T) {
	sub := &fakeSubmitter{}
	trigger, err := NewIntervalTrigger(IntervalTriggerConfig{Interval: 10 * time.Millisecond, RunOnStart: true}, sub, nil)
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	require.Eventually(t, func() bool { return sub.count() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))

	sub.mu.Lock()
	defer sub.mu.Unlock()
	assert.Equal(t, TriggerScheduler, sub.submitted[0])
}

func TestIntervalTrigger_SkipsWhileActive(t *testing.T) {
	sub := &fakeSubmitter{active: true}
	trigger, err := NewIntervalTrigger(IntervalTriggerConfig{Interval: 5 * time.Millisecond, RunOnStart: true}, sub, nil)
	require.NoError(t, err)

	require.NoError(t, trigger.Start(context.Background()))
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, trigger.Stop(context.Background()))

	assert.Zero(t, sub.count())
}

func TestNewIntervalTrigger_Validation(t *testing.T) {
	_, err := NewIntervalTrigger(IntervalTriggerConfig{}, &fakeSubmitter{}, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewIntervalTrigger(IntervalTriggerConfig{Interval: time.Second, JobType: "backup"}, &fakeSubmitter{}, nil)
	assert.ErrorIs(t, err, ErrUnknownJobType)
}
