package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/bootstrap"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries the persistent flags shared by every command
type cli struct {
	configPath string
	verbose    bool
	out        io.Writer
}

func newRootCommand(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "pricectl",
		Short:         "Operate the crop price prediction service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "Path to config.toml (default: search ., ./config, /app)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		c.newGenerateCommand(),
		c.newValidateCommand(),
		c.newPipelineCommand(),
		c.newTrainCommand(),
		c.newCompareCommand(),
		c.newPredictCommand(),
		c.newVersionsCommand(),
		c.newTokenCommand(),
		c.newServeCommand(),
	)
	return root
}

func (c *cli) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(c.configPath)
	if err != nil {
		return nil, err
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newLogger writes to stderr so command output on stdout stays parseable
func (c *cli) newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     "console",
		Output:     "stderr",
		File:       cfg.Log.File,
		TimeFormat: "2006-01-02 15:04:05",
	})
}

// withApp builds the service, runs fn and closes everything afterwards
func (c *cli) withApp(ctx context.Context, fn func(*bootstrap.App) error, opts ...bootstrap.Option) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	log, err := c.newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync(log) }()

	app, err := bootstrap.New(ctx, cfg, log, opts...)
	if err != nil {
		return err
	}
	runErr := fn(app)
	if err := app.Close(context.Background()); err != nil {
		log.Warn("Error during shutdown", zap.Error(err))
	}
	return runErr
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
