package boundary

import (
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// LoadShapefile reads area boundaries from a shapefile. The area code is
// taken from the first attribute field matching codeFieldNames. Records
// with malformed geometry are skipped with a debug log.
func LoadShapefile(shpPath string) ([]Area, error) {
	reader, err := shp.Open(shpPath)
	if err != nil {
		return nil, eris.Wrapf(err, "boundary: open shapefile %s", shpPath)
	}
	defer func() { _ = reader.Close() }()

	// Build field name → index map.
	fields := reader.Fields()
	fieldIdx := make(map[string]int, len(fields))
	for i, f := range fields {
		name := strings.TrimRight(f.String(), "\x00")
		fieldIdx[strings.ToLower(name)] = i
	}

	codeIdx := -1
	for _, name := range codeFieldNames {
		if idx, ok := fieldIdx[name]; ok {
			codeIdx = idx
			break
		}
	}
	if codeIdx < 0 {
		return nil, eris.Errorf("boundary: no area code field in %s", shpPath)
	}

	log := zap.L().With(zap.String("component", "boundary.shapefile"))

	var areas []Area
	var skipped int
	for reader.Next() {
		n, shape := reader.Shape()

		code := strings.TrimSpace(strings.TrimRight(reader.Attribute(codeIdx), "\x00"))
		if code == "" {
			skipped++
			continue
		}

		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		g := polygonToMultiPolygon(poly)
		if g == nil {
			skipped++
			log.Debug("skipping malformed polygon record", zap.Int("record", n))
			continue
		}

		areas = append(areas, Area{Code: code, Geom: g})
	}

	if skipped > 0 {
		log.Info("skipped shapefile records",
			zap.String("path", shpPath),
			zap.Int("skipped", skipped),
			zap.Int("loaded", len(areas)),
		)
	}

	return areas, nil
}

// polygonToMultiPolygon converts a shapefile Polygon to a geom.MultiPolygon.
func polygonToMultiPolygon(p *shp.Polygon) geom.T {
	if p == nil || p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY).SetSRID(4326)

	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		var end int32
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		} else {
			end = int32(len(p.Points))
		}

		flat := make([]float64, 0, (end-start)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}

		ring := geom.NewLinearRingFlat(geom.XY, flat)
		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(ring); err != nil {
			zap.L().Debug("boundary: skipping malformed ring", zap.Int32("part", i), zap.Error(err))
			continue
		}
		if err := mp.Push(poly); err != nil {
			zap.L().Debug("boundary: skipping malformed polygon part", zap.Int32("part", i), zap.Error(err))
			continue
		}
	}

	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}
