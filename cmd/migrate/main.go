// Command migrate applies the embedded postgres schema migrations of the
// crop price service. sqlite databases are migrated on startup instead.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/config"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/logger"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/migration"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type migrateCLI struct {
	migrationsPath string
	configPath     string
	logLevel       string
	log            *zap.Logger
}

func main() {
	c := &migrateCLI{}
	err := c.rootCommand().Execute()
	if c.log != nil {
		_ = logger.Sync(c.log)
	}
	if err != nil {
		os.Exit(1)
	}
}

func (c *migrateCLI) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the crop price postgres schema",
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			log, err := logger.New(&logger.Config{
				Level:      c.logLevel,
				Format:     "console",
				Output:     "stdout",
				TimeFormat: "2006-01-02 15:04:05",
			})
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			c.log = log
			return nil
		},
		Example: `  migrate up
  migrate down --steps 1
  migrate --config ./config/config.toml version`,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.migrationsPath, "path", "", "Migrations directory (default: migrations embedded in the binary)")
	flags.StringVarP(&c.configPath, "config", "c", "", "Path to config.toml (default: search ., ./config, /app)")
	flags.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	root.AddCommand(
		c.stepCommand("up", "Apply pending migrations", 1),
		c.stepCommand("down", "Roll back applied migrations", -1),
		c.withMigrator(&cobra.Command{Use: "force <version>", Short: "Set the version without running migrations", Args: cobra.ExactArgs(1)},
			func(m *migration.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q", args[0])
				}
				return m.Force(v)
			}),
		c.withMigrator(&cobra.Command{Use: "version", Short: "Show the applied version", Args: cobra.NoArgs},
			c.printVersion),
		&cobra.Command{
			Use:   "list",
			Short: "List the migrations embedded in the binary",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				names, err := migration.Files()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			},
		},
	)
	return root
}

// stepCommand builds up or down. Without --steps every migration in that
// direction runs; sign is +1 for up and -1 for down.
func (c *migrateCLI) stepCommand(use, short string, sign int) *cobra.Command {
	var steps int
	cmd := c.withMigrator(&cobra.Command{Use: use, Short: short, Args: cobra.NoArgs},
		func(m *migration.Migrator, _ []string) error {
			switch {
			case steps < 0:
				return fmt.Errorf("--steps must not be negative, got %d", steps)
			case steps > 0:
				return m.Steps(sign * steps)
			case sign > 0:
				return m.Up()
			default:
				return m.Down()
			}
		})
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "Number of migrations to run (0 = all)")
	return cmd
}

func (c *migrateCLI) printVersion(m *migration.Migrator, _ []string) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		c.log.Info("No migrations applied")
		return nil
	}
	c.log.Info("Current migration version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// withMigrator sets cmd.RunE to open the configured postgres database, run
// fn against it and close it again.
func (c *migrateCLI) withMigrator(cmd *cobra.Command, fn func(*migration.Migrator, []string) error) *cobra.Command {
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		m, err := c.openMigrator()
		if err != nil {
			return err
		}
		c.log.Info("Running migration command",
			zap.String("command", cmd.Name()),
			zap.String("source", c.source()),
		)
		runErr := fn(m, args)
		if err := m.Close(); err != nil {
			c.log.Warn("Failed to close migrator", zap.Error(err))
		}
		if runErr != nil {
			c.log.Error("Migration command failed", zap.String("command", cmd.Name()), zap.Error(runErr))
		}
		return runErr
	}
	return cmd
}

func (c *migrateCLI) openMigrator() (*migration.Migrator, error) {
	cfg, err := config.LoadFrom(c.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("SQL migrations apply to postgres only, configured driver is %q", cfg.Database.Driver)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if c.migrationsPath != "" {
		m, err = migration.NewFromPath(db, c.migrationsPath, c.log)
	} else {
		m, err = migration.New(db, c.log)
	}
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func (c *migrateCLI) source() string {
	if c.migrationsPath == "" {
		return "embedded"
	}
	return c.migrationsPath
}
