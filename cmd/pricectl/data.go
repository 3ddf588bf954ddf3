package main

import (
	"fmt"
	"path/filepath"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/bootstrap"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/datagen"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/dataset"
	"github.com/spf13/cobra"
)

func (c *cli) newGenerateCommand() *cobra.Command {
	var (
		records int
		seed    uint64
		days    int
		output  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate synthetic crop price records",
		Example: `  pricectl generate --records 1000
  pricectl generate --records 200 --seed 7 --output /tmp/prices.csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			log, err := c.newLogger(cfg)
			if err != nil {
				return err
			}
			if output == "" {
				output = filepath.Join(cfg.Pipeline.DataDir, prediction.ExpandedFile)
			}

			opts := []datagen.Option{datagen.WithLogger(log), datagen.WithSeed(seed)}
			if days > 0 {
				opts = append(opts, datagen.WithDays(days))
			}

			frame, err := datagen.New(opts...).GenerateFile(cmd.Context(), records, output)
			if err != nil {
				return err
			}
			return c.printJSON(map[string]any{
				"records_generated": frame.Len(),
				"output_file":       output,
				"statistics":        dataset.ComputeStatistics(frame),
			})
		},
	}

	cmd.Flags().IntVarP(&records, "records", "n", prediction.DefaultPipelineRecords, "Number of records to generate")
	cmd.Flags().Uint64Var(&seed, "seed", datagen.DefaultSeed, "Random seed")
	cmd.Flags().IntVar(&days, "days", 0, "Spread records over the last N days (0 = generator default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output CSV (default: <pipeline.data_dir>/crop_prices_expanded.csv)")
	return cmd
}

func (c *cli) newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Clean the combined dataset and print the quality report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				report, err := app.Pipeline.Validate(cmd.Context())
				if err != nil {
					return err
				}
				return c.printJSON(report)
			}, bootstrap.WithoutDatabase(), bootstrap.WithoutJobs())
		},
	}
}

func (c *cli) newPipelineCommand() *cobra.Command {
	var records int

	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Run generate, merge, validate and statistics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if records < 0 {
				return fmt.Errorf("records cannot be negative, got %d", records)
			}
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				result, err := app.Pipeline.Run(cmd.Context(), records)
				if result != nil {
					if perr := c.printJSON(result.Log); perr != nil {
						return perr
					}
				}
				return err
			}, bootstrap.WithoutDatabase(), bootstrap.WithoutJobs())
		},
	}

	cmd.Flags().IntVarP(&records, "records", "n", 0, "Records to generate (0 = pipeline.generate_records)")
	return cmd
}
