package router

import (
	"net/http"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/auth"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/logger"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/telemetry"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/dto"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/handler"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers bundles the HTTP handlers served by the API. Jobs may be nil
// when background jobs are disabled.
type Handlers struct {
	System     *handler.SystemHandler
	Prediction *handler.PredictionHandler
	Model      *handler.ModelHandler
	Data       *handler.DataHandler
	Jobs       *handler.JobHandler
	Strategies *handler.StrategyHandler
}

// Options carries the infrastructure the engine is built with. Nil fields
// disable the matching feature.
type Options struct {
	Config         *config.Config
	Logger         *zap.Logger
	JWT            *auth.JWTService
	RateLimiter    *middleware.RateLimiter
	MeterProvider  *telemetry.MeterProvider
	SwaggerHandler gin.HandlerFunc
}

// NewEngine builds the gin engine with the full middleware stack and every
// route of the price service.
func NewEngine(h Handlers, opts Options) *gin.Engine {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanAttributes())
	engine.Use(middleware.HTTPMetrics(opts.MeterProvider))
	if cfg.Profiling.Enabled {
		engine.Use(middleware.ProfilingWithConfig(middleware.DefaultProfilingConfig()))
	}
	engine.Use(middleware.SecureWithConfig(middleware.DefaultSecurityConfig()))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.HTTP.CORSAllowOrigins,
		AllowMethods:  cfg.HTTP.CORSAllowMethods,
		AllowHeaders:  cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}
	engine.Use(middleware.Timeout(cfg.HTTP.RequestTimeout))

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeNotFound, "Route not found", middleware.GetRequestID(c)))
	})
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Method not allowed", middleware.GetRequestID(c)))
	})

	var guard Guard
	if opts.JWT != nil {
		guard = func(scope string) gin.HandlerFunc {
			return middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
				JWTService: opts.JWT,
				Scopes:     []string{scope},
				Logger:     log,
			})
		}
	}

	engine.GET("/", h.System.GetServiceInfo)
	engine.GET("/health", h.System.Health)

	if opts.SwaggerHandler != nil {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(middleware.SwaggerConfig{
				Enabled:    cfg.Swagger.Enabled,
				AllowedIPs: cfg.Swagger.AllowedIPs,
			}, nil),
			opts.SwaggerHandler,
		)
	}

	Mount(engine.Group("/api"), legacyRoutes(h), guard)
	Mount(engine.Group("/api/"+APIVersion), versionedRoutes(h), guard)
	return engine
}
