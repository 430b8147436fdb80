package report

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/demographics-cli/internal/coverage"
	"github.com/sells-group/demographics-cli/internal/demographics"
)

func sampleResult() *demographics.AggregationResult {
	return &demographics.AggregationResult{
		Query: demographics.QueryMeta{
			AreaCodes:       []string{"E01000001", "E01000002"},
			TotalPopulation: 1500,
		},
		Population: demographics.PopulationSummary{
			Total: 1500, Male: 740, Female: 760,
			MalePercent: 49.33, FemalePercent: 50.67,
		},
		Households: demographics.HouseholdSummary{Total: 600, AverageSize: 2.5},
		AgeProfile: []demographics.CountShare{
			{Label: "0-15", Count: 300, Percent: 20},
			{Label: "16-29", Count: 450, Percent: 30},
		},
		HouseholdComposition: []demographics.CountShare{
			{Label: "One person", Count: 200, Percent: 33.33},
		},
		Deprivation: demographics.DeprivationSummary{
			Employment: 60, EmploymentPercent: 10,
		},
	}
}

func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	RenderText(&buf, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "Total population:   1,500")
	assert.Contains(t, out, "Male:             740 (49.33%)")
	assert.Contains(t, out, "Avg household size: 2.50")
	assert.Contains(t, out, "Age profile")
	assert.Contains(t, out, "0-15")
	assert.Contains(t, out, "Household composition")
	// Distributions with no entries are omitted entirely.
	assert.NotContains(t, out, "Country of birth")
	assert.Contains(t, out, "Household deprivation")
}

func TestRenderCoverageFull(t *testing.T) {
	rep := coverage.Classify([]string{"E01000001"}, coverage.Location{})

	var buf bytes.Buffer
	RenderCoverage(&buf, &rep)
	out := buf.String()

	assert.Contains(t, out, "Fully covered:      true")
	assert.Contains(t, out, "England")
	assert.Contains(t, out, "Areas:              1")
	assert.NotContains(t, out, "Validation:")
}

func TestRenderCoverageComingSoon(t *testing.T) {
	rep := coverage.Classify(nil, coverage.Location{Lat: 55.9, Lng: -4.2, Name: "Glasgow"})

	var buf bytes.Buffer
	RenderCoverage(&buf, &rep)
	out := buf.String()

	assert.Contains(t, out, "Fully covered:      false")
	assert.Contains(t, out, rep.Messaging.EmptyStateTitle)
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.xlsx")
	require.NoError(t, WriteXLSX(path, sampleResult()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)

	require.Contains(t, f.Sheet, "Summary")
	require.Contains(t, f.Sheet, "Age Profile")
	require.Contains(t, f.Sheet, "Household Composition")
	// Empty distributions get no sheet.
	assert.NotContains(t, f.Sheet, "Country of Birth")

	age := f.Sheet["Age Profile"]
	require.GreaterOrEqual(t, len(age.Rows), 3)
	assert.Equal(t, "Label", age.Rows[0].Cells[0].String())
	assert.Equal(t, "0-15", age.Rows[1].Cells[0].String())
}
