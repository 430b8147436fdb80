package report

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/demographics-cli/internal/demographics"
)

// WriteXLSX saves an aggregation result as a workbook with one summary
// sheet plus one sheet per labelled distribution.
func WriteXLSX(path string, res *demographics.AggregationResult) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, res); err != nil {
		return err
	}

	distributions := []struct {
		name   string
		shares []demographics.CountShare
	}{
		{"Age Profile", res.AgeProfile},
		{"Country of Birth", res.CountryOfBirth},
		{"Household Sizes", res.HouseholdSizes},
		{"Household Composition", res.HouseholdComposition},
	}
	for _, d := range distributions {
		if len(d.shares) == 0 {
			continue
		}
		if err := addShareSheet(f, d.name, d.shares); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func addSummarySheet(f *xlsx.File, res *demographics.AggregationResult) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "report: add summary sheet")
	}

	addRow(sheet, "Area codes", strings.Join(res.Query.AreaCodes, ", "))
	addIntRow(sheet, "Areas", len(res.Query.AreaCodes))
	addIntRow(sheet, "Total population", res.Population.Total)
	addIntRow(sheet, "Male", res.Population.Male)
	addFloatRow(sheet, "Male %", res.Population.MalePercent)
	addIntRow(sheet, "Female", res.Population.Female)
	addFloatRow(sheet, "Female %", res.Population.FemalePercent)
	addIntRow(sheet, "Households", res.Households.Total)
	addFloatRow(sheet, "Avg household size", res.Households.AverageSize)
	addIntRow(sheet, "Employment deprived", res.Deprivation.Employment)
	addFloatRow(sheet, "Employment deprived %", res.Deprivation.EmploymentPercent)
	addIntRow(sheet, "Education deprived", res.Deprivation.Education)
	addFloatRow(sheet, "Education deprived %", res.Deprivation.EducationPercent)
	addIntRow(sheet, "Health deprived", res.Deprivation.Health)
	addFloatRow(sheet, "Health deprived %", res.Deprivation.HealthPercent)
	addIntRow(sheet, "Housing deprived", res.Deprivation.Housing)
	addFloatRow(sheet, "Housing deprived %", res.Deprivation.HousingPercent)
	return nil
}

func addShareSheet(f *xlsx.File, name string, shares []demographics.CountShare) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}

	header := sheet.AddRow()
	header.AddCell().SetString("Label")
	header.AddCell().SetString("Count")
	header.AddCell().SetString("Percent")

	for _, s := range shares {
		row := sheet.AddRow()
		row.AddCell().SetString(s.Label)
		row.AddCell().SetInt(s.Count)
		row.AddCell().SetFloat(s.Percent)
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func addIntRow(sheet *xlsx.Sheet, label string, value int) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetInt(value)
}

func addFloatRow(sheet *xlsx.Sheet, label string, value float64) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloat(value)
}
