package bootstrap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	prediction "github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/scheduler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(dir string) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "test", Env: "test", Version: "1.0.0"},
		HTTP: config.HTTPConfig{
			Port:             "0",
			MaxBodySize:      1 << 20,
			CORSAllowOrigins: []string{"*"},
			CORSAllowMethods: []string{"GET", "POST", "OPTIONS"},
		},
		Log: config.LogConfig{Level: "info"},
		Database: config.DatabaseConfig{
			Driver:      "sqlite",
			SQLitePath:  filepath.Join(dir, "db", "predictions.db"),
			LogLevel:    "silent",
			AutoMigrate: true,
		},
		Redis:   config.RedisConfig{TTL: time.Minute},
		Storage: config.StorageConfig{Type: "local", LocalDir: filepath.Join(dir, "models")},
		Model: config.ModelConfig{
			Path:       filepath.Join(dir, "models", "price_model.gob"),
			DataPath:   filepath.Join(dir, "data", "crop_prices_final.csv"),
			Estimators: 5,
			MaxDepth:   4,
		},
		Pipeline: config.PipelineConfig{DataDir: filepath.Join(dir, "data"), GenerateRecords: 120},
		Retrain: config.RetrainConfig{
			Enabled:    true,
			Workers:    1,
			QueueSize:  4,
			JobTimeout: time.Minute,
			RetryDelay: time.Second,
		},
		Telemetry: config.TelemetryConfig{ServiceName: "cropprice-test"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zap.NewNop(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Close(context.Background())) })
	return a
}

func wheat() prediction.PredictRequest {
	qty := 500.0
	return prediction.PredictRequest{CropType: "Wheat", Region: "North", Quality: "Premium", QuantityKg: &qty, Season: "Winter"}
}

func TestNew_WiresServices(t *testing.T) {
	a := newTestApp(t, testConfig(t.TempDir()))
	ctx := context.Background()

	require.NotNil(t, a.DB)
	require.NotNil(t, a.Scheduler)
	assert.False(t, a.Training.ModelLoaded())

	h := a.Handlers()
	assert.NotNil(t, h.System)
	assert.NotNil(t, h.Jobs)

	resp, err := a.Predictions.Predict(ctx, wheat())
	require.NoError(t, err)
	assert.Equal(t, string(commodity.MethodFallback), resp.Method)

	recent, err := a.Predictions.Recent(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, recent.Count)
	assert.Equal(t, resp.ID, recent.Predictions[0].ID)
}

func TestNew_WithoutDatabaseAndJobs(t *testing.T) {
	a := newTestApp(t, testConfig(t.TempDir()), WithoutDatabase(), WithoutJobs())

	assert.Nil(t, a.DB)
	assert.Nil(t, a.Scheduler)
	assert.Nil(t, a.Handlers().Jobs)

	recent, err := a.Predictions.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Zero(t, recent.Count)
}

func TestNew_UnsupportedStorage(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Storage.Type = "ftp"

	_, err := New(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artifact store")
}

func TestApp_PipelineThenTrainLoadsModel(t *testing.T) {
	a := newTestApp(t, testConfig(t.TempDir()), WithoutJobs())
	ctx := context.Background()

	_, err := a.Pipeline.Run(ctx, 0)
	require.NoError(t, err)

	trained, err := a.Training.Train(ctx, commodity.TriggerCLI)
	require.NoError(t, err)
	assert.True(t, trained.ModelLoaded)

	resp, err := a.Predictions.Predict(ctx, wheat())
	require.NoError(t, err)
	assert.Equal(t, string(commodity.MethodMLModel), resp.Method)

	versions, err := a.Training.Versions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "cli", versions[0].Trigger)
}

func TestApp_StartJobsRunsPipelineJob(t *testing.T) {
	a := newTestApp(t, testConfig(t.TempDir()))
	ctx := context.Background()
	require.NoError(t, a.StartJobs(ctx))

	job, err := a.Scheduler.Submit(scheduler.JobTypePipeline, "api", scheduler.WithRecords(50))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, err := a.Scheduler.Get(job.ID)
		return err == nil && got.Status == scheduler.JobStatusSucceeded
	}, 10*time.Second, 20*time.Millisecond)
}

func TestApp_Engine(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.HTTP.RateLimitEnabled = true
	cfg.HTTP.RateLimitRPS = 100
	cfg.HTTP.RateLimitBurst = 10
	a := newTestApp(t, cfg, WithoutJobs())

	engine, limiter, err := a.Engine(nil)
	require.NoError(t, err)
	require.NotNil(t, limiter)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/jobs/"+"00000000-0000-0000-0000-000000000000", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApp_ServeStopsOnCancel(t *testing.T) {
	a := newTestApp(t, testConfig(t.TempDir()), WithoutJobs())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Serve(ctx, nil) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout):
		t.Fatal("server did not shut down")
	}
}
