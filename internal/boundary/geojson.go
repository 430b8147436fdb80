package boundary

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"
)

// LoadGeoJSON reads a FeatureCollection of area boundaries. Features with
// no recognizable area code or a non-polygonal geometry are skipped with
// a debug log; an unreadable or unparsable file is fatal.
func LoadGeoJSON(path string) ([]Area, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: read %s", path)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrapf(err, "boundary: parse %s", path)
	}

	log := zap.L().With(zap.String("component", "boundary.geojson"))

	var areas []Area
	var skipped int
	for i, f := range fc.Features {
		if f == nil || f.Geometry == nil || !polygonal(f.Geometry) {
			skipped++
			log.Debug("skipping feature without polygonal geometry", zap.Int("index", i))
			continue
		}
		code := featureCode(f)
		if code == "" {
			skipped++
			log.Debug("skipping feature without area code", zap.Int("index", i))
			continue
		}
		areas = append(areas, Area{Code: code, Geom: f.Geometry})
	}

	if skipped > 0 {
		log.Info("skipped features during load",
			zap.String("path", path),
			zap.Int("skipped", skipped),
			zap.Int("loaded", len(areas)),
		)
	}

	return areas, nil
}

// featureCode extracts the area code from feature properties or, failing
// that, the feature ID.
func featureCode(f *geojson.Feature) string {
	for _, name := range codeFieldNames {
		for key, val := range f.Properties {
			if !strings.EqualFold(key, name) {
				continue
			}
			if s, ok := val.(string); ok && s != "" {
				return s
			}
		}
	}
	return f.ID
}
