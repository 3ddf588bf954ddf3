package main

import (
	"fmt"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/application/prediction"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/bootstrap"
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/domain/commodity"
	"github.com/spf13/cobra"
)

func (c *cli) newTrainCommand() *cobra.Command {
	var noHistory bool

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a model on the combined dataset and store it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []bootstrap.Option{bootstrap.WithoutJobs()}
			if noHistory {
				opts = append(opts, bootstrap.WithoutDatabase())
			}
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				resp, err := app.Training.Train(cmd.Context(), commodity.TriggerCLI)
				if err != nil {
					return err
				}
				return c.printJSON(resp)
			}, opts...)
		},
	}

	cmd.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in the model version table")
	return cmd
}

func (c *cli) newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Train linear, forest and boosting candidates and report the best",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				resp, err := app.Training.Compare(cmd.Context())
				if err != nil {
					return err
				}
				return c.printJSON(resp)
			}, bootstrap.WithoutDatabase(), bootstrap.WithoutJobs())
		},
	}
}

func (c *cli) newVersionsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List the model training history, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				versions, err := app.Training.Versions(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return c.printJSON(versions)
			}, bootstrap.WithoutJobs())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of versions")
	return cmd
}

func (c *cli) newPredictCommand() *cobra.Command {
	var (
		req      prediction.PredictRequest
		quantity float64
		year     int
		month    int
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the price of one lot",
		Example: `  pricectl predict --crop Wheat --region North --quality Premium --quantity 1000
  pricectl predict --crop Rice --region South --quality Standard --quantity 250 --season Monsoon`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			if flags.Changed("quantity") {
				req.QuantityKg = &quantity
			}
			if flags.Changed("year") {
				req.Year = &year
			}
			if flags.Changed("month") {
				if month < 1 || month > 12 {
					return fmt.Errorf("month must be between 1 and 12, got %d", month)
				}
				req.Month = &month
			}

			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				resp, err := app.Predictions.Predict(cmd.Context(), req)
				if err != nil {
					return err
				}
				return c.printJSON(resp)
			}, bootstrap.WithoutDatabase(), bootstrap.WithoutJobs())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.CropType, "crop", "", "Crop type, e.g. Wheat")
	flags.StringVar(&req.Region, "region", "", "Region, e.g. North")
	flags.StringVar(&req.Quality, "quality", "", "Quality grade, e.g. Premium")
	flags.Float64Var(&quantity, "quantity", 0, "Quantity in kg")
	flags.StringVar(&req.Season, "season", "", "Season (default: derived from the current month)")
	flags.StringVar(&req.Weather, "weather", "", "Weather condition (default: Normal)")
	flags.StringVar(&req.MarketDemand, "demand", "", "Market demand (default: Medium)")
	flags.IntVar(&year, "year", 0, "Year (default: current year)")
	flags.IntVar(&month, "month", 0, "Month 1-12 (default: current month)")
	return cmd
}
