package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/auth"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/handler"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/middleware"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ShutdownTimeout bounds the graceful HTTP shutdown
const ShutdownTimeout = 30 * time.Second

// Handlers builds the HTTP handlers over the app services
func (a *App) Handlers() router.Handlers {
	h := router.Handlers{
		System:     handler.NewSystemHandler(a.Training),
		Prediction: handler.NewPredictionHandler(a.Predictions),
		Model:      handler.NewModelHandler(a.Training),
		Data:       handler.NewDataHandler(a.Pipeline),
		Strategies: handler.NewStrategyHandler(a.Registry),
	}
	if a.Scheduler != nil {
		h.Jobs = handler.NewJobHandler(a.Scheduler)
	}
	return h
}

// Engine builds the gin engine. The returned rate limiter is nil when rate
// limiting is disabled.
func (a *App) Engine(swagger gin.HandlerFunc) (*gin.Engine, *middleware.RateLimiter, error) {
	cfg := a.Config
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		return nil, nil, err
	}

	var jwtService *auth.JWTService
	if cfg.JWT.Enabled {
		jwtService = auth.NewJWTService(cfg.JWT)
	}
	var limiter *middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	}

	engine := router.NewEngine(a.Handlers(), router.Options{
		Config:         cfg,
		Logger:         a.Logger,
		JWT:            jwtService,
		RateLimiter:    limiter,
		MeterProvider:  a.Telemetry.Meter,
		SwaggerHandler: swagger,
	})
	return engine, limiter, nil
}

// Serve runs the HTTP server and the background jobs until ctx is done,
// then shuts the server down gracefully.
func (a *App) Serve(ctx context.Context, swagger gin.HandlerFunc) error {
	cfg := a.Config
	log := a.Logger

	engine, limiter, err := a.Engine(swagger)
	if err != nil {
		return err
	}

	if err := a.StartJobs(ctx); err != nil {
		return err
	}
	if limiter != nil {
		go limiter.RunCleanup(ctx, time.Minute)
	}

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("model_loaded", a.Training.ModelLoaded()),
			zap.Bool("jobs_enabled", a.Scheduler != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
