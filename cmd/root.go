package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/neilk17/twenty-capture/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "twenty-capture",
	Short: "Profile capture companion for Twenty CRM",
	Long:  "Scrapes professional profile pages, checks the Twenty CRM for duplicates, and creates or updates people and company records over GraphQL.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
