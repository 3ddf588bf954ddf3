package main

import (
	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/bootstrap"
	"github.com/spf13/cobra"

	_ "github.com/Parulsharma-1704/SupplyChainCropTracking/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (c *cli) newServeCommand() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withApp(cmd.Context(), func(app *bootstrap.App) error {
				if port != "" {
					app.Config.HTTP.Port = port
				}
				return app.Serve(cmd.Context(), ginSwagger.WrapHandler(swaggerFiles.Handler))
			})
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (default: http.port)")
	return cmd
}
