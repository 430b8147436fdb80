// Package adjacency precomputes, for every area boundary, the set of
// neighbouring areas, using a coarse spatial grid to keep the candidate
// set per area small.
package adjacency

import (
	"math"

	"github.com/twpayne/go-geom"

	"github.com/sells-group/demographics-cli/internal/boundary"
)

// CellKey identifies a square grid cell.
type CellKey struct {
	X int
	Y int
}

// Grid bins areas into fixed-size square cells by boundary centroid. The
// cell size is chosen larger than a typical area's extent so that true
// neighbours never sit more than one cell apart.
type Grid struct {
	cellSize float64
	cells    map[CellKey][]int // indices into the areas slice
}

// cellFor maps a point to its grid cell.
func cellFor(lng, lat, cellSize float64) CellKey {
	return CellKey{
		X: int(math.Floor(lng / cellSize)),
		Y: int(math.Floor(lat / cellSize)),
	}
}

// centroid returns the bounding-box centre of a geometry, which is close
// enough to the true centroid for cell binning.
func centroid(g geom.T) (lng, lat float64) {
	b := g.Bounds()
	return (b.Min(0) + b.Max(0)) / 2, (b.Min(1) + b.Max(1)) / 2
}

// BuildGrid indexes the areas by centroid cell.
func BuildGrid(areas []boundary.Area, cellSize float64) *Grid {
	g := &Grid{
		cellSize: cellSize,
		cells:    map[CellKey][]int{},
	}
	for i, a := range areas {
		lng, lat := centroid(a.Geom)
		key := cellFor(lng, lat, cellSize)
		g.cells[key] = append(g.cells[key], i)
	}
	return g
}

// Cells returns the populated cell keys.
func (g *Grid) Cells() []CellKey {
	keys := make([]CellKey, 0, len(g.cells))
	for k := range g.cells {
		keys = append(keys, k)
	}
	return keys
}

// Members returns the area indices whose centroid falls in the cell.
func (g *Grid) Members(key CellKey) []int {
	return g.cells[key]
}

// Candidates returns the area indices in the 3×3 block of cells centered
// on the given cell. True adjacency cannot span further than one cell at
// the chosen cell size.
func (g *Grid) Candidates(key CellKey) []int {
	var out []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			out = append(out, g.cells[CellKey{X: key.X + dx, Y: key.Y + dy}]...)
		}
	}
	return out
}
