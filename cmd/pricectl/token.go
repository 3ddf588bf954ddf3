package main

import (
	"fmt"
	"time"

	"github.com/Parulsharma-1704/SupplyChainCropTracking/internal/infrastructure/auth"
	"github.com/spf13/cobra"
)

func (c *cli) newTokenCommand() *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the protected endpoints",
		Example: `  pricectl token --subject ops
  pricectl token --subject retrain-bot --scope model:write --ttl 1h`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return auth.ErrMissingSecret
			}
			for _, s := range scopes {
				if !validScope(s) {
					return fmt.Errorf("unknown scope %q (valid: %v)", s, auth.AllScopes)
				}
			}
			if ttl > 0 {
				cfg.JWT.TokenTTL = ttl
			}

			token, err := auth.NewJWTService(cfg.JWT).Issue(subject, scopes...)
			if err != nil {
				return err
			}
			return c.printJSON(token)
		},
	}

	cmd.Flags().StringVarP(&subject, "subject", "s", "operator", "Token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", nil, "Granted scope, repeatable (default: all scopes)")
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Token lifetime (default: jwt.token_ttl)")
	return cmd
}

func validScope(scope string) bool {
	for _, s := range auth.AllScopes {
		if s == scope {
			return true
		}
	}
	return false
}
