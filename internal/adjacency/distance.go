package adjacency

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// Degree→meter scale factors at UK latitudes vary with latitude; the
// local equirectangular projection below is accurate to well under the
// tolerance over the span of adjacent small areas.
const metersPerDegLat = 110574.0

// withinTolerance reports whether the boundaries of a and b come within
// toleranceM meters of each other. The tolerance absorbs representation
// gaps and slivers between polygons that share a border in reality.
// Geometry errors (empty rings, degenerate coordinates) are returned
// rather than panicking the batch.
func withinTolerance(a, b geom.T, toleranceM float64) (bool, error) {
	if a == nil || b == nil {
		return false, eris.New("adjacency: nil geometry")
	}

	// Cheap bounding-box rejection, expanded by the tolerance.
	if !boundsWithin(a, b, toleranceM) {
		return false, nil
	}

	ringsA, err := rings(a)
	if err != nil {
		return false, err
	}
	ringsB, err := rings(b)
	if err != nil {
		return false, err
	}

	// Project around the shared neighborhood's latitude.
	bnds := a.Bounds()
	midLat := (bnds.Min(1) + bnds.Max(1)) / 2
	mPerDegLng := metersPerDegLat * math.Cos(midLat*math.Pi/180)

	for _, ra := range ringsA {
		for _, rb := range ringsB {
			if ringsWithin(ra, rb, mPerDegLng, toleranceM) {
				return true, nil
			}
		}
	}
	return false, nil
}

// boundsWithin checks whether the bounding boxes, each expanded by the
// tolerance, overlap.
func boundsWithin(a, b geom.T, toleranceM float64) bool {
	ab, bb := a.Bounds(), b.Bounds()
	midLat := (ab.Min(1) + ab.Max(1)) / 2
	padLat := toleranceM / metersPerDegLat
	mPerDegLng := metersPerDegLat * math.Cos(midLat*math.Pi/180)
	if mPerDegLng <= 0 {
		return false
	}
	padLng := toleranceM / mPerDegLng

	return ab.Min(0)-padLng <= bb.Max(0) && bb.Min(0)-padLng <= ab.Max(0) &&
		ab.Min(1)-padLat <= bb.Max(1) && bb.Min(1)-padLat <= ab.Max(1)
}

// rings extracts every linear ring of a polygon or multipolygon as flat
// [lng, lat, lng, lat, ...] coordinate slices.
func rings(g geom.T) ([][]float64, error) {
	switch t := g.(type) {
	case *geom.Polygon:
		return polygonRings(t), nil
	case *geom.MultiPolygon:
		var out [][]float64
		for i := 0; i < t.NumPolygons(); i++ {
			out = append(out, polygonRings(t.Polygon(i))...)
		}
		return out, nil
	default:
		return nil, eris.Errorf("adjacency: unsupported geometry type %T", g)
	}
}

func polygonRings(p *geom.Polygon) [][]float64 {
	var out [][]float64
	for i := 0; i < p.NumLinearRings(); i++ {
		coords := p.LinearRing(i).FlatCoords()
		if len(coords) >= 4 {
			out = append(out, coords)
		}
	}
	return out
}

// ringsWithin reports whether any segment of ring a passes within
// toleranceM of any segment of ring b. Coordinates are projected to a
// local planar frame before measuring.
func ringsWithin(a, b []float64, mPerDegLng, toleranceM float64) bool {
	stride := 2
	for i := 0; i+3 < len(a); i += stride {
		ax1, ay1 := a[i]*mPerDegLng, a[i+1]*metersPerDegLat
		ax2, ay2 := a[i+2]*mPerDegLng, a[i+3]*metersPerDegLat
		for j := 0; j+3 < len(b); j += stride {
			bx1, by1 := b[j]*mPerDegLng, b[j+1]*metersPerDegLat
			bx2, by2 := b[j+2]*mPerDegLng, b[j+3]*metersPerDegLat
			if segmentDistance(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2) <= toleranceM {
				return true
			}
		}
	}
	return false
}

// segmentDistance returns the minimum distance between two segments.
func segmentDistance(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 float64) float64 {
	if segmentsIntersect(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2) {
		return 0
	}
	d := pointSegmentDistance(ax1, ay1, bx1, by1, bx2, by2)
	d = math.Min(d, pointSegmentDistance(ax2, ay2, bx1, by1, bx2, by2))
	d = math.Min(d, pointSegmentDistance(bx1, by1, ax1, ay1, ax2, ay2))
	d = math.Min(d, pointSegmentDistance(bx2, by2, ax1, ay1, ax2, ay2))
	return d
}

// pointSegmentDistance returns the distance from point p to segment (a, b).
func pointSegmentDistance(px, py, ax, ay, bx, by float64) float64 {
	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return math.Hypot(px-ax, py-ay)
	}
	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(ax+t*dx), py-(ay+t*dy))
}

// segmentsIntersect reports whether two segments properly intersect.
func segmentsIntersect(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 float64) bool {
	d1 := cross(bx1, by1, bx2, by2, ax1, ay1)
	d2 := cross(bx1, by1, bx2, by2, ax2, ay2)
	d3 := cross(ax1, ay1, ax2, ay2, bx1, by1)
	d4 := cross(ax1, ay1, ax2, ay2, bx2, by2)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

func cross(ox, oy, ax, ay, bx, by float64) float64 {
	return (ax-ox)*(by-oy) - (ay-oy)*(bx-ox)
}
