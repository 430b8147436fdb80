package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/demographics-cli/internal/boundary"
)

var fetchBoundariesCmd = &cobra.Command{
	Use:   "fetch-boundaries",
	Short: "Download a boundary dataset for adjacency precompute",
	Long: `Downloads an area boundary dataset over http, https, or ftp into the
configured temp directory. ZIP archives are extracted and the contained
GeoJSON or shapefile located. Already-downloaded files are reused.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		url, _ := cmd.Flags().GetString("url")
		if url == "" {
			url = cfg.Boundary.URL
		}
		if url == "" {
			return eris.New("fetch-boundaries: no URL given (use --url or set boundary.url)")
		}

		dest, _ := cmd.Flags().GetString("dest")
		if dest == "" {
			dest = cfg.Boundary.TempDir
		}

		zap.L().Info("fetching boundary dataset",
			zap.String("url", url),
			zap.String("dest", dest),
		)

		path, err := boundary.NewDownloader(cfg.Boundary.RateLimit).Fetch(ctx, url, dest)
		if err != nil {
			return eris.Wrap(err, "fetch-boundaries")
		}

		fmt.Printf("Boundary dataset ready at %s\n", path)
		return nil
	},
}

func init() {
	fetchBoundariesCmd.Flags().String("url", "", "dataset URL (default: from config)")
	fetchBoundariesCmd.Flags().String("dest", "", "destination directory (default: from config)")
	rootCmd.AddCommand(fetchBoundariesCmd)
}
