package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/adjacency"
	"github.com/sells-group/demographics-cli/internal/boundary"
)

var adjacencyCmd = &cobra.Command{
	Use:   "adjacency",
	Short: "Precompute the area adjacency table from boundary data",
	Long: `Reads an area boundary dataset (GeoJSON or shapefile), bins areas into a
spatial grid, tests each area against nearby candidates for boundary
proximity, and writes the resulting neighbour table as a JSON artifact.

This is an offline batch; downstream consumers load the artifact instead of
doing geometry work at request time.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		boundariesPath, _ := cmd.Flags().GetString("boundaries")
		if boundariesPath == "" {
			return eris.New("adjacency: --boundaries is required")
		}
		if _, err := os.Stat(boundariesPath); err != nil {
			return eris.Wrapf(err, "adjacency: boundary dataset %s", boundariesPath)
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			outPath = cfg.Adjacency.OutputPath
		}

		opts := adjacency.Options{
			CellSizeDeg:      cfg.Adjacency.CellSizeDeg,
			ToleranceM:       cfg.Adjacency.ToleranceM,
			Workers:          cfg.Adjacency.Workers,
			Symmetrize:       cfg.Adjacency.Symmetrize,
			ProgressInterval: cfg.Adjacency.ProgressInterval,
		}
		if v, _ := cmd.Flags().GetFloat64("cell-size"); v > 0 {
			opts.CellSizeDeg = v
		}
		if v, _ := cmd.Flags().GetFloat64("tolerance-m"); v > 0 {
			opts.ToleranceM = v
		}
		if v, _ := cmd.Flags().GetInt("workers"); v > 0 {
			opts.Workers = v
		}
		if cmd.Flags().Changed("symmetrize") {
			opts.Symmetrize, _ = cmd.Flags().GetBool("symmetrize")
		}

		log := zap.L().With(zap.String("command", "adjacency"))
		log.Info("loading boundaries", zap.String("path", boundariesPath))

		start := time.Now()
		areas, err := boundary.Load(boundariesPath)
		if err != nil {
			return eris.Wrap(err, "adjacency: load boundaries")
		}

		table, err := adjacency.Precompute(ctx, areas, opts)
		if err != nil {
			return err
		}

		if err := table.WriteFile(outPath); err != nil {
			return err
		}

		st := table.Stats()
		fmt.Printf("Adjacency table written to %s\n", outPath)
		fmt.Printf("Areas:       %d\n", st.Areas)
		fmt.Printf("Avg degree:  %.1f\n", st.Avg)
		fmt.Printf("Min degree:  %d\n", st.Min)
		fmt.Printf("Max degree:  %d\n", st.Max)
		fmt.Printf("Elapsed:     %s\n", time.Since(start).Round(time.Second))
		return nil
	},
}

func init() {
	adjacencyCmd.Flags().String("boundaries", "", "boundary dataset path, .geojson/.json or .shp (required)")
	adjacencyCmd.Flags().String("out", "", "output artifact path (default: from config)")
	adjacencyCmd.Flags().Float64("cell-size", 0, "grid cell size in degrees (default: from config)")
	adjacencyCmd.Flags().Float64("tolerance-m", 0, "boundary proximity tolerance in meters (default: from config)")
	adjacencyCmd.Flags().Int("workers", 0, "parallel cell workers (default: GOMAXPROCS)")
	adjacencyCmd.Flags().Bool("symmetrize", true, "union reverse edges into the table")
	rootCmd.AddCommand(adjacencyCmd)
}
