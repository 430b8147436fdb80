package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/demographics"
	"github.com/sells-group/demographics-cli/internal/report"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Consolidate demographics for a set of area codes",
	Long: `Loads per-area census statistics for the given area codes and consolidates
them into a single report: population, households, age profile, country of
birth, household sizes and composition, and deprivation rates.

Area codes with no record in the store are skipped; a selection matching no
records at all is an error.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		codesStr, _ := cmd.Flags().GetString("codes")
		codes := splitAndTrim(codesStr)
		if len(codes) == 0 {
			return eris.New("aggregate: --codes is required")
		}

		if statsPath, _ := cmd.Flags().GetString("stats"); statsPath != "" {
			cfg.Stats.Path = statsPath
		}

		store, cleanup, err := openStatsStore(ctx)
		if err != nil {
			return err
		}
		defer cleanup()

		log := zap.L().With(zap.String("command", "aggregate"))
		log.Info("aggregating selection", zap.Int("codes", len(codes)))

		res, err := demographics.AggregateFromStore(ctx, store, codes)
		if err != nil {
			if eris.Is(err, demographics.ErrNoData) {
				fmt.Fprintln(os.Stderr, "No demographic data is available for the selected areas.")
				return err
			}
			return eris.Wrap(err, "aggregate")
		}

		if xlsxPath, _ := cmd.Flags().GetString("xlsx"); xlsxPath != "" {
			if err := report.WriteXLSX(xlsxPath, res); err != nil {
				return err
			}
			fmt.Printf("Workbook written to %s\n", xlsxPath)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}

		report.RenderText(os.Stdout, res)
		return nil
	},
}

func init() {
	aggregateCmd.Flags().String("codes", "", "comma-separated area codes (required)")
	aggregateCmd.Flags().String("stats", "", "statistics store path (overrides stats.path from config)")
	aggregateCmd.Flags().Bool("json", false, "emit the full result as JSON")
	aggregateCmd.Flags().String("xlsx", "", "also write the result as an XLSX workbook")
	rootCmd.AddCommand(aggregateCmd)
}

// splitAndTrim splits a comma-separated flag value, trimming whitespace and
// dropping empties.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
