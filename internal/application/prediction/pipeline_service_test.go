package prediction

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/shared"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/datagen"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPipeline(t *testing.T, dir string) *PipelineService {
	t.Helper()
	return NewPipelineService(
		config.PipelineConfig{DataDir: dir, GenerateRecords: 100},
		WithGenerator(datagen.New(datagen.WithSeed(42))),
		WithPipelineClock(fixedClock),
	)
}

func TestPipelineService_Run(t *testing.T) {
	dir := t.TempDir()
	svc := newTestPipeline(t, dir)

	result, err := svc.Run(context.Background(), 120)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, result.Log.Status)
	require.Len(t, result.Log.StepsCompleted, 4)
	for i, name := range []string{StepGenerate, StepMerge, StepValidate, StepStatistics} {
		assert.Equal(t, name, result.Log.StepsCompleted[i].Name)
		assert.Equal(t, StepCompleted, result.Log.StepsCompleted[i].Status)
	}
	assert.Equal(t, 120, result.Log.StepsCompleted[0].Details["records_generated"])
	assert.Equal(t, 0, result.Log.StepsCompleted[1].Details["original_records"])

	require.NotNil(t, result.Report)
	require.NotNil(t, result.Statistics)
	assert.Equal(t, result.Report.RecordsAfter, result.Statistics.TotalRecords)
	assert.Equal(t, filepath.Join(dir, CombinedFile), result.OutputFile)

	for _, name := range []string{ExpandedFile, CombinedFile, ValidationReportFile, StatisticsFile, PipelineLogFile} {
		assert.FileExists(t, filepath.Join(dir, name))
	}

	data, err := os.ReadFile(filepath.Join(dir, PipelineLogFile))
	require.NoError(t, err)
	var saved PipelineLog
	require.NoError(t, json.Unmarshal(data, &saved))
	assert.Equal(t, StatusCompleted, saved.Status)
	assert.Len(t, saved.StepsCompleted, 4)
}

func TestPipelineService_Run_MergesOriginal(t *testing.T) {
	dir := t.TempDir()
	original := datagen.New(datagen.WithSeed(1)).Generate(10)
	require.NoError(t, dataset.FromRecords(original).WriteCSVFile(filepath.Join(dir, OriginalFile)))

	result, err := newTestPipeline(t, dir).Run(context.Background(), 50)
	require.NoError(t, err)

	merge := result.Log.StepsCompleted[1]
	assert.Equal(t, 10, merge.Details["original_records"])
	assert.LessOrEqual(t, merge.Details["total_records"], 60)
}

func TestPipelineService_Run_DefaultRecordCount(t *testing.T) {
	dir := t.TempDir()
	result, err := newTestPipeline(t, dir).Run(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 100, result.Log.StepsCompleted[0].Details["records_generated"])
}

func TestPipelineService_Run_StopsAtFailedStep(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	result, err := newTestPipeline(t, filepath.Join(blocker, "data")).Run(context.Background(), 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), StepGenerate)

	assert.Equal(t, StatusFailed, result.Log.Status)
	require.Len(t, result.Log.StepsCompleted, 1)
	assert.Equal(t, StepFailed, result.Log.StepsCompleted[0].Status)
	assert.Contains(t, result.Log.StepsCompleted[0].Details, "error")
}

func TestPipelineService_ConcurrentRunsAreSerialized(t *testing.T) {
	dir := t.TempDir()
	svc := newTestPipeline(t, dir)
	ctx := context.Background()

	const runs = 4
	results := make([]*PipelineResult, runs)
	errs := make([]error, runs)
	var wg sync.WaitGroup
	for i := 0; i < runs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Run(ctx, 40+10*i)
		}(i)
	}
	wg.Wait()

	for i := 0; i < runs; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, StatusCompleted, results[i].Log.Status)
	}

	final, _, err := dataset.ReadCSVFile(filepath.Join(dir, CombinedFile))
	require.NoError(t, err)
	sizes := make([]int, 0, runs)
	for _, r := range results {
		sizes = append(sizes, r.Report.RecordsAfter)
	}
	assert.Contains(t, sizes, final.Len(), "the dataset on disk is the complete output of one run")
}

func TestPipelineService_Validate_MissingDataset(t *testing.T) {
	_, err := newTestPipeline(t, t.TempDir()).Validate(context.Background())
	assert.ErrorIs(t, err, shared.ErrNoData)
}

func TestJobExecutor_Execute(t *testing.T) {
	training, _, _, dir := newTestTrainingService(t)
	writeTrainingData(t, dir, 100)
	pipeline := newTestPipeline(t, filepath.Join(dir, "pipeline"))
	exec := NewJobExecutor(training, pipeline, nil)
	ctx := context.Background()

	retrain := scheduler.NewJob(scheduler.JobTypeRetrain, string(commodity.TriggerScheduler), 0)
	require.NoError(t, exec.Execute(ctx, retrain))
	assert.True(t, training.ModelLoaded())

	run := scheduler.NewJob(scheduler.JobTypePipeline, string(commodity.TriggerAPI), 0)
	run.Records = 30
	require.NoError(t, exec.Execute(ctx, run))
	assert.FileExists(t, filepath.Join(dir, "pipeline", PipelineLogFile))

	err := exec.Execute(ctx, &scheduler.Job{ID: uuid.New(), Type: "backup"})
	assert.ErrorIs(t, err, scheduler.ErrUnknownJobType)
}
