// Package demographics consolidates per-area census statistics across an
// arbitrary selected set of areas into a single report.
package demographics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoData is returned when a selection matches no records in the store.
var ErrNoData = eris.New("no demographic data available for this selection")

// ageBandOrder is the canonical display order for the age profile,
// youngest to oldest. Bands outside this list sort after it, by label.
var ageBandOrder = []string{"0-15", "16-29", "30-44", "45-64", "65+"}

// Aggregate consolidates the statistics of the selected areas into one
// result. Selected codes missing from the store are silently skipped;
// if nothing at all matches, ErrNoData is returned. The function is pure
// and deterministic: identical inputs produce identical output, including
// slice ordering.
func Aggregate(store map[string]AreaStatistics, codes []string) (*AggregationResult, error) {
	var matched []AreaStatistics
	for _, code := range codes {
		if st, ok := store[code]; ok {
			matched = append(matched, st)
		}
	}
	if len(matched) == 0 {
		return nil, eris.Wrapf(ErrNoData, "aggregate: %d codes selected", len(codes))
	}

	var (
		pop         Population
		households  int
		deprivation Deprivation
		ages        = map[string]int{}
		countries   = map[string]int{}
		sizes       = map[string]int{}
		comps       = map[string]int{}
	)

	for _, st := range matched {
		pop.Total += st.Population.Total
		pop.Male += st.Population.Male
		pop.Female += st.Population.Female
		households += st.Households.Total
		deprivation.Employment += st.HouseholdDeprivation.Employment
		deprivation.Education += st.HouseholdDeprivation.Education
		deprivation.Health += st.HouseholdDeprivation.Health
		deprivation.Housing += st.HouseholdDeprivation.Housing

		sumInto(ages, st.AgeGroups)
		sumInto(countries, st.CountryOfBirth)
		sumInto(sizes, st.HouseholdSizes)
		sumInto(comps, st.HouseholdComposition)
	}

	avgSize := 0.0
	if households > 0 {
		avgSize = float64(pop.Total) / float64(households)
	}

	result := &AggregationResult{
		Query: QueryMeta{
			AreaCodes:       append([]string(nil), codes...),
			TotalPopulation: pop.Total,
		},
		Population: PopulationSummary{
			Total:         pop.Total,
			Male:          pop.Male,
			Female:        pop.Female,
			MalePercent:   percent(pop.Male, pop.Total),
			FemalePercent: percent(pop.Female, pop.Total),
		},
		Households: HouseholdSummary{
			Total:       households,
			AverageSize: avgSize,
		},
		AgeProfile:           shares(ages, pop.Total, byAgeBand),
		CountryOfBirth:       shares(countries, pop.Total, byCountDesc),
		HouseholdSizes:       shares(sizes, households, byLeadingInt),
		HouseholdComposition: shares(comps, households, byCountDesc),
		Deprivation: DeprivationSummary{
			Employment:        deprivation.Employment,
			Education:         deprivation.Education,
			Health:            deprivation.Health,
			Housing:           deprivation.Housing,
			EmploymentPercent: percent(deprivation.Employment, households),
			EducationPercent:  percent(deprivation.Education, households),
			HealthPercent:     percent(deprivation.Health, households),
			HousingPercent:    percent(deprivation.Housing, households),
		},
	}

	return result, nil
}

// percent returns count/total as a percentage, and 0 when total is 0 so
// empty denominators never produce NaN.
func percent(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func sumInto(dst map[string]int, src map[string]int) {
	for label, count := range src {
		dst[label] += count
	}
}

// shares converts a label→count map into an ordered CountShare slice with
// percentages of the given total.
func shares(counts map[string]int, total int, less func(a, b CountShare) bool) []CountShare {
	out := make([]CountShare, 0, len(counts))
	for label, count := range counts {
		out = append(out, CountShare{
			Label:   label,
			Count:   count,
			Percent: percent(count, total),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// byAgeBand orders entries by the canonical age-band sequence; bands not
// in the sequence sort after it, alphabetically.
func byAgeBand(a, b CountShare) bool {
	ai, bi := ageBandRank(a.Label), ageBandRank(b.Label)
	if ai != bi {
		return ai < bi
	}
	return a.Label < b.Label
}

func ageBandRank(label string) int {
	for i, band := range ageBandOrder {
		if band == label {
			return i
		}
	}
	return len(ageBandOrder)
}

// byCountDesc orders entries largest count first, ties by label.
func byCountDesc(a, b CountShare) bool {
	if a.Count != b.Count {
		return a.Count > b.Count
	}
	return a.Label < b.Label
}

// byLeadingInt orders entries by the integer parsed from the front of the
// label ("3 people" → 3); unparsable labels parse as 0. Ties by label.
func byLeadingInt(a, b CountShare) bool {
	ai, bi := leadingInt(a.Label), leadingInt(b.Label)
	if ai != bi {
		return ai < bi
	}
	return a.Label < b.Label
}

func leadingInt(label string) int {
	s := strings.TrimSpace(label)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
