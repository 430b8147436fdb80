package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/demographics"
)

var importStatsCmd = &cobra.Command{
	Use:   "import-stats",
	Short: "Import a JSON statistics dataset into SQLite",
	Long: `Reads a per-area statistics JSON file and loads it into the configured
SQLite database, creating the schema if needed. Existing records for the
same area codes are replaced.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		from, _ := cmd.Flags().GetString("from")
		if from == "" {
			return eris.New("import-stats: --from is required")
		}
		dbPath, _ := cmd.Flags().GetString("db")
		if dbPath == "" {
			dbPath = cfg.Stats.Path
		}

		src, err := demographics.NewJSONStore(from)
		if err != nil {
			return err
		}
		defer src.Close()

		records, err := src.AllAreaStatistics(ctx)
		if err != nil {
			return err
		}

		dst, err := demographics.NewSQLiteStore(dbPath)
		if err != nil {
			return err
		}
		defer dst.Close()

		if err := dst.Migrate(ctx); err != nil {
			return err
		}

		log := zap.L().With(zap.String("command", "import-stats"))
		log.Info("importing statistics",
			zap.String("from", from),
			zap.String("db", dbPath),
			zap.Int("records", len(records)),
		)

		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return eris.Wrap(err, "import-stats: interrupted")
			}
			if err := dst.Put(ctx, rec); err != nil {
				return eris.Wrapf(err, "import-stats: record %s", rec.AreaCode)
			}
		}

		fmt.Printf("Imported %d area records into %s\n", len(records), dbPath)
		return nil
	},
}

func init() {
	importStatsCmd.Flags().String("from", "", "source JSON dataset path (required)")
	importStatsCmd.Flags().String("db", "", "SQLite database path (default: stats.path from config)")
	rootCmd.AddCommand(importStatsCmd)
}
