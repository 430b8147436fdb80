// Package area identifies the geographic regime an area code or point
// belongs to. Area codes are one uppercase letter plus eight digits; the
// letter denotes the regime.
package area

import "regexp"

// Regime is one of the supported geographic jurisdictions.
type Regime string

const (
	// RegimeEngland has full statistical coverage.
	RegimeEngland Regime = "england"
	// RegimeScotland is recognized but not yet covered.
	RegimeScotland Regime = "scotland"
	// RegimeWales is recognized but not yet covered.
	RegimeWales Regime = "wales"
	// RegimeUnknown is anything outside the three jurisdictions.
	RegimeUnknown Regime = "unknown"
)

// Area code patterns, anchored so a code embedded in a longer string
// never matches.
var (
	englandCodeRe  = regexp.MustCompile(`^E\d{8}$`)
	scotlandCodeRe = regexp.MustCompile(`^S\d{8}$`)
	walesCodeRe    = regexp.MustCompile(`^W\d{8}$`)
)

// Name returns the regime's display name.
func (r Regime) Name() string {
	switch r {
	case RegimeEngland:
		return "England"
	case RegimeScotland:
		return "Scotland"
	case RegimeWales:
		return "Wales"
	default:
		return "Unknown"
	}
}

// Covered reports whether full statistical data exists for the regime.
func (r Regime) Covered() bool {
	return r == RegimeEngland
}

// RegimeForCode returns the regime an area code belongs to, or
// RegimeUnknown for codes matching no supported pattern.
func RegimeForCode(code string) Regime {
	switch {
	case englandCodeRe.MatchString(code):
		return RegimeEngland
	case scotlandCodeRe.MatchString(code):
		return RegimeScotland
	case walesCodeRe.MatchString(code):
		return RegimeWales
	default:
		return RegimeUnknown
	}
}

// BBox is an approximate geographic bounding box for a regime.
type BBox struct {
	MinLat float64
	MaxLat float64
	MinLng float64
	MaxLng float64
}

// Contains reports whether the point lies inside the box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// regimeBox pairs a regime with its approximate bounding box. Boxes are
// deliberately coarse; first match in precedence order wins. The England
// box spans Wales as well, so Welsh points resolve to England here —
// point classification is only used for empty-result messaging, where
// either answer yields a correct "not yet covered" style message.
type regimeBox struct {
	regime Regime
	box    BBox
}

// Precedence order: England, Scotland, Wales.
var regimeBoxes = []regimeBox{
	{RegimeEngland, BBox{MinLat: 49.85, MaxLat: 55.82, MinLng: -6.45, MaxLng: 1.80}},
	{RegimeScotland, BBox{MinLat: 54.60, MaxLat: 60.90, MinLng: -8.70, MaxLng: -0.70}},
	{RegimeWales, BBox{MinLat: 51.30, MaxLat: 53.60, MinLng: -5.50, MaxLng: -2.60}},
}

// RegimeForPoint classifies a lat/lng against the regime bounding boxes.
// Returns RegimeUnknown when no box contains the point.
func RegimeForPoint(lat, lng float64) Regime {
	for _, rb := range regimeBoxes {
		if rb.box.Contains(lat, lng) {
			return rb.regime
		}
	}
	return RegimeUnknown
}
