package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "demographics-cli",
	Short: "UK area demographics aggregation toolkit",
	Long:  "Aggregates per-area census statistics, classifies coverage regimes for search locations, and precomputes area boundary adjacency tables.",
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
