// Package report renders aggregation results for humans: a fixed-width
// text summary for the terminal and an XLSX workbook for spreadsheet
// users.
package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/demographics-cli/internal/coverage"
	"github.com/sells-group/demographics-cli/internal/demographics"
)

var printer = message.NewPrinter(language.BritishEnglish)

// RenderText writes a terminal summary of an aggregation result.
func RenderText(w io.Writer, res *demographics.AggregationResult) {
	fmt.Fprintf(w, "Areas:              %d\n", len(res.Query.AreaCodes))
	fmt.Fprintf(w, "Total population:   %s\n", printer.Sprintf("%d", res.Population.Total))
	fmt.Fprintf(w, "  Male:             %s (%.2f%%)\n",
		printer.Sprintf("%d", res.Population.Male), res.Population.MalePercent)
	fmt.Fprintf(w, "  Female:           %s (%.2f%%)\n",
		printer.Sprintf("%d", res.Population.Female), res.Population.FemalePercent)
	fmt.Fprintf(w, "Households:         %s\n", printer.Sprintf("%d", res.Households.Total))
	fmt.Fprintf(w, "Avg household size: %.2f\n", res.Households.AverageSize)

	renderShares(w, "Age profile", res.AgeProfile)
	renderShares(w, "Country of birth", res.CountryOfBirth)
	renderShares(w, "Household sizes", res.HouseholdSizes)
	renderShares(w, "Household composition", res.HouseholdComposition)

	fmt.Fprintf(w, "\nHousehold deprivation\n")
	fmt.Fprintf(w, "  %-25s %10s  %5.1f%%\n", "Employment",
		printer.Sprintf("%d", res.Deprivation.Employment), res.Deprivation.EmploymentPercent)
	fmt.Fprintf(w, "  %-25s %10s  %5.1f%%\n", "Education",
		printer.Sprintf("%d", res.Deprivation.Education), res.Deprivation.EducationPercent)
	fmt.Fprintf(w, "  %-25s %10s  %5.1f%%\n", "Health",
		printer.Sprintf("%d", res.Deprivation.Health), res.Deprivation.HealthPercent)
	fmt.Fprintf(w, "  %-25s %10s  %5.1f%%\n", "Housing",
		printer.Sprintf("%d", res.Deprivation.Housing), res.Deprivation.HousingPercent)
}

func renderShares(w io.Writer, title string, shares []demographics.CountShare) {
	if len(shares) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, s := range shares {
		fmt.Fprintf(w, "  %-25s %10s  %5.1f%%\n",
			s.Label, printer.Sprintf("%d", s.Count), s.Percent)
	}
}

// RenderCoverage writes a terminal summary of a coverage report.
func RenderCoverage(w io.Writer, rep *coverage.Report) {
	fmt.Fprintf(w, "Fully covered:      %v\n", rep.Status.IsFullyCovered)
	fmt.Fprintf(w, "Partially covered:  %v\n", rep.Status.IsPartiallyCovered)
	if len(rep.Status.CoveredRegimes) > 0 {
		names := make([]string, len(rep.Status.CoveredRegimes))
		for i, r := range rep.Status.CoveredRegimes {
			names[i] = r.Name()
		}
		fmt.Fprintf(w, "Covered regimes:    %s\n", strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "Areas:              %d\n", rep.Status.AreaCount)

	if rep.Messaging.ValidationError != "" {
		fmt.Fprintf(w, "\nValidation: %s\n", rep.Messaging.ValidationError)
	}
	if rep.Messaging.EmptyStateTitle != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", rep.Messaging.EmptyStateTitle, rep.Messaging.EmptyStateDescription)
	}
	if rep.Messaging.SearchHint != "" {
		fmt.Fprintf(w, "\nHint: %s\n", rep.Messaging.SearchHint)
	}
	if rep.Messaging.FutureExpansionNote != "" {
		fmt.Fprintf(w, "%s\n", rep.Messaging.FutureExpansionNote)
	}
}
