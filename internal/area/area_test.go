package area

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegimeForCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected Regime
	}{
		{name: "england LSOA", code: "E01000001", expected: RegimeEngland},
		{name: "scotland data zone", code: "S01000001", expected: RegimeScotland},
		{name: "wales LSOA", code: "W01000123", expected: RegimeWales},
		{name: "lowercase prefix rejected", code: "e01000001", expected: RegimeUnknown},
		{name: "too short", code: "E0100001", expected: RegimeUnknown},
		{name: "too long", code: "E010000012", expected: RegimeUnknown},
		{name: "embedded code rejected", code: "xE01000001", expected: RegimeUnknown},
		{name: "trailing garbage rejected", code: "E01000001x", expected: RegimeUnknown},
		{name: "unsupported prefix", code: "N01000001", expected: RegimeUnknown},
		{name: "empty", code: "", expected: RegimeUnknown},
		{name: "letters in suffix", code: "E0100000A", expected: RegimeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RegimeForCode(tt.code))
		})
	}
}

func TestRegimeForPoint(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		expected Regime
	}{
		{name: "central london", lat: 51.51, lng: -0.13, expected: RegimeEngland},
		{name: "manchester", lat: 53.48, lng: -2.24, expected: RegimeEngland},
		{name: "glasgow area", lat: 55.9, lng: -4.2, expected: RegimeScotland},
		{name: "shetland", lat: 60.35, lng: -1.26, expected: RegimeScotland},
		{name: "cardiff resolves via england box precedence", lat: 51.48, lng: -3.18, expected: RegimeEngland},
		{name: "paris outside all boxes", lat: 48.85, lng: 2.35, expected: RegimeUnknown},
		{name: "new york outside all boxes", lat: 40.71, lng: -74.0, expected: RegimeUnknown},
		{name: "north atlantic", lat: 58.0, lng: -20.0, expected: RegimeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RegimeForPoint(tt.lat, tt.lng))
		})
	}
}

func TestRegimeName(t *testing.T) {
	assert.Equal(t, "England", RegimeEngland.Name())
	assert.Equal(t, "Scotland", RegimeScotland.Name())
	assert.Equal(t, "Wales", RegimeWales.Name())
	assert.Equal(t, "Unknown", RegimeUnknown.Name())
}

func TestRegimeCovered(t *testing.T) {
	assert.True(t, RegimeEngland.Covered())
	assert.False(t, RegimeScotland.Covered())
	assert.False(t, RegimeWales.Covered())
	assert.False(t, RegimeUnknown.Covered())
}

func TestBBoxContains(t *testing.T) {
	b := BBox{MinLat: 50, MaxLat: 55, MinLng: -5, MaxLng: 0}
	assert.True(t, b.Contains(52, -2))
	assert.True(t, b.Contains(50, -5)) // inclusive edges
	assert.True(t, b.Contains(55, 0))
	assert.False(t, b.Contains(55.01, -2))
	assert.False(t, b.Contains(52, 0.01))
}
