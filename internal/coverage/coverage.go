// Package coverage classifies a demographics query outcome into a coverage
// regime and produces the user-facing messaging bundle for it.
package coverage

import (
	"fmt"

	"github.com/sells-group/demographics-cli/internal/area"
)

// Location is the approximate point a query was centered on.
type Location struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name string  `json:"name,omitempty"`
}

// Status describes how well the returned area set is covered by
// statistical data. IsFullyCovered and IsPartiallyCovered are mutually
// exclusive; both are false when no areas were returned.
type Status struct {
	IsFullyCovered     bool          `json:"is_fully_covered"`
	IsPartiallyCovered bool          `json:"is_partially_covered"`
	CoveredRegimes     []area.Regime `json:"covered_regimes"`
	PrimaryRegime      area.Regime   `json:"primary_regime"`
	AreaCount          int           `json:"area_count"`
}

// Messaging is the displayable copy bundle derived from a Status. Every
// field is always present; unused fields are empty strings.
type Messaging struct {
	SearchHint            string `json:"search_hint"`
	ValidationError       string `json:"validation_error"`
	EmptyStateTitle       string `json:"empty_state_title"`
	EmptyStateDescription string `json:"empty_state_description"`
	FutureExpansionNote   string `json:"future_expansion_note"`
}

// Report is the full classifier output.
type Report struct {
	Status    Status    `json:"status"`
	Messaging Messaging `json:"messaging"`
}

// Classify determines the coverage regime for a query that returned the
// given area codes around the given location. It never fails: an
// unrecognizable location degrades to a generic outside-coverage message.
func Classify(areaCodes []string, loc Location) Report {
	if len(areaCodes) == 0 {
		return classifyEmpty(loc)
	}
	return classifyCodes(areaCodes)
}

// classifyEmpty handles the zero-result case by locating the query point.
func classifyEmpty(loc Location) Report {
	regime := area.RegimeForPoint(loc.Lat, loc.Lng)

	rep := Report{
		Status: Status{
			PrimaryRegime:  regime,
			CoveredRegimes: []area.Regime{},
		},
	}

	switch regime {
	case area.RegimeEngland:
		// Inside the covered regime but no areas found: a genuine data
		// desert (open countryside, water) rather than missing coverage.
		rep.Messaging.EmptyStateTitle = "No demographic data for this area"
		rep.Messaging.EmptyStateDescription = "No populated areas were found here. " +
			"This usually means the search area is open countryside or water."
		rep.Messaging.SearchHint = "Try widening the search or moving it toward a town or city."

	case area.RegimeScotland, area.RegimeWales:
		rep.Messaging.EmptyStateTitle = fmt.Sprintf("%s coverage coming soon", regime.Name())
		rep.Messaging.EmptyStateDescription = fmt.Sprintf(
			"Demographic data for %s is not available yet.", regime.Name())
		rep.Messaging.FutureExpansionNote = fmt.Sprintf(
			"We're working on adding %s demographics.", regime.Name())

	default:
		name := loc.Name
		if name == "" {
			name = "this location"
		}
		rep.Messaging.EmptyStateTitle = "Outside coverage area"
		rep.Messaging.EmptyStateDescription = fmt.Sprintf(
			"Demographic data is not available for %s.", name)
	}

	return rep
}

// classifyCodes handles the non-empty case by pattern-matching code
// prefixes. Codes matching no regime pattern are ignored.
func classifyCodes(areaCodes []string) Report {
	seen := map[area.Regime]bool{}
	for _, code := range areaCodes {
		if r := area.RegimeForCode(code); r != area.RegimeUnknown {
			seen[r] = true
		}
	}

	// Deterministic precedence order for the regime list.
	var regimes []area.Regime
	for _, r := range []area.Regime{area.RegimeEngland, area.RegimeScotland, area.RegimeWales} {
		if seen[r] {
			regimes = append(regimes, r)
		}
	}
	if regimes == nil {
		regimes = []area.Regime{}
	}

	st := Status{
		CoveredRegimes: regimes,
		PrimaryRegime:  area.RegimeUnknown,
		AreaCount:      len(areaCodes),
	}
	if len(regimes) > 0 {
		st.PrimaryRegime = regimes[0]
	}

	hasCovered := seen[area.RegimeEngland]
	st.IsFullyCovered = hasCovered && len(regimes) == 1
	st.IsPartiallyCovered = hasCovered && len(regimes) > 1

	rep := Report{Status: st}

	switch {
	case st.IsPartiallyCovered:
		// Boundary-straddling search: usable as-is, surface a soft hint.
		rep.Messaging.SearchHint = "This search straddles a coverage boundary. " +
			"Demographics reflect the covered portion only."
	case len(regimes) == 0:
		// Every returned code failed pattern matching; shouldn't happen
		// with codes sourced from the covered-region geometry query.
		rep.Messaging.ValidationError = "returned area codes were not recognized"
	}

	return rep
}
