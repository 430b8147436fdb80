// Package boundary loads area boundary geometries from GeoJSON or
// shapefile datasets for the adjacency precompute batch.
package boundary

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Area pairs an area code with its boundary geometry (polygon or
// multipolygon in lng/lat order).
type Area struct {
	Code string
	Geom geom.T
}

// codeFieldNames are the attribute/property names probed, in order, for
// the area code. Covers ONS LSOA extracts and Scottish data zone dumps.
var codeFieldNames = []string{
	"area_code", "lsoa21cd", "lsoa11cd", "datazone", "geo_code", "code",
}

// Load reads a boundary dataset, dispatching on file extension
// (.geojson/.json or .shp).
func Load(path string) ([]Area, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".shp":
		return LoadShapefile(path)
	default:
		return nil, eris.Errorf("boundary: unsupported dataset format %q", filepath.Ext(path))
	}
}

// polygonal reports whether g is a polygon or multipolygon.
func polygonal(g geom.T) bool {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	default:
		return false
	}
}
