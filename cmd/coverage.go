package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/demographics-cli/internal/coverage"
	"github.com/sells-group/demographics-cli/internal/report"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage",
	Short: "Classify dataset coverage for a search result",
	Long: `Classifies the coverage regime for a search: given the area codes a query
returned (possibly none) and the searched location, reports whether the
selection is fully or partially covered and the user-facing messaging for
the result page.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		codesStr, _ := cmd.Flags().GetString("codes")
		lat, _ := cmd.Flags().GetFloat64("lat")
		lng, _ := cmd.Flags().GetFloat64("lng")
		name, _ := cmd.Flags().GetString("name")

		rep := coverage.Classify(splitAndTrim(codesStr), coverage.Location{
			Lat:  lat,
			Lng:  lng,
			Name: name,
		})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}

		report.RenderCoverage(os.Stdout, &rep)
		return nil
	},
}

func init() {
	coverageCmd.Flags().String("codes", "", "comma-separated area codes returned by the search (may be empty)")
	coverageCmd.Flags().Float64("lat", 0, "searched location latitude")
	coverageCmd.Flags().Float64("lng", 0, "searched location longitude")
	coverageCmd.Flags().String("name", "", "searched location display name")
	coverageCmd.Flags().Bool("json", false, "emit the full report as JSON")
	rootCmd.AddCommand(coverageCmd)
}
