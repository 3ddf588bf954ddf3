package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/bootstrap"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/logger"
	"go.uber.org/zap"

	_ "github.com/Parulsharma-1704/SupplyChainCropTracking/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Crop Price Prediction API
//	@version		1.0
//	@description	Crop price prediction service: ML inference with rule-based fallback, data pipeline and periodic retraining.

//	@contact.name	API Support
//	@contact.url	https://github.com/Parulsharma-1704/SupplyChainCropTracking

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:5001
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

//	@externalDocs.description	OpenAPI
//	@externalDocs.url			https://swagger.io/resources/open-api/

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		File:       cfg.Log.File,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting crop price service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.HTTP.Port),
		zap.String("model_type", cfg.Model.Type),
		zap.Bool("retrain_enabled", cfg.Retrain.Enabled),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize service", zap.Error(err))
	}

	serveErr := app.Serve(ctx, ginSwagger.WrapHandler(swaggerFiles.Handler))
	if serveErr != nil {
		app.Logger.Error("Server error", zap.Error(serveErr))
	}

	if err := app.Close(context.Background()); err != nil {
		log.Error("Error during shutdown", zap.Error(err))
	}
	if serveErr != nil {
		_ = logger.Sync(log)
		os.Exit(1)
	}
}
