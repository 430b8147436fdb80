package adjacency

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/demographics-cli/internal/boundary"
)

// square builds a closed square polygon with the given lower-left corner
// and side length, in degrees.
func square(lng, lat, side float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{lng, lat},
		{lng + side, lat},
		{lng + side, lat + side},
		{lng, lat + side},
		{lng, lat},
	}})
}

func TestCellFor(t *testing.T) {
	assert.Equal(t, CellKey{X: 0, Y: 0}, cellFor(0.05, 0.05, 0.1))
	assert.Equal(t, CellKey{X: -1, Y: 0}, cellFor(-0.05, 0.05, 0.1))
	assert.Equal(t, CellKey{X: 12, Y: 515}, cellFor(1.25, 51.51, 0.1))
}

func TestGridCandidates(t *testing.T) {
	areas := []boundary.Area{
		{Code: "A", Geom: square(0.01, 0.01, 0.02)}, // cell (0,0)
		{Code: "B", Geom: square(0.11, 0.01, 0.02)}, // cell (1,0)
		{Code: "C", Geom: square(0.51, 0.51, 0.02)}, // cell (5,5), far away
	}
	grid := BuildGrid(areas, 0.1)

	candidates := grid.Candidates(cellFor(0.02, 0.02, 0.1))
	assert.ElementsMatch(t, []int{0, 1}, candidates)

	far := grid.Candidates(cellFor(0.52, 0.52, 0.1))
	assert.ElementsMatch(t, []int{2}, far)
}

func TestWithinToleranceSharedEdge(t *testing.T) {
	a := square(0, 51.5, 0.01)
	b := square(0.01, 51.5, 0.01) // shares the right edge of a

	ok, err := withinTolerance(a, b, 50)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWithinToleranceSliverGap(t *testing.T) {
	a := square(0, 51.5, 0.01)
	// ~7m gap at this latitude: inside a 50m tolerance.
	b := square(0.0101, 51.5, 0.01)

	ok, err := withinTolerance(a, b, 50)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWithinToleranceFarApart(t *testing.T) {
	a := square(0, 51.5, 0.01)
	b := square(0.05, 51.5, 0.01) // ~2.8km away

	ok, err := withinTolerance(a, b, 50)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithinToleranceUnsupportedGeometry(t *testing.T) {
	pt := geom.NewPointFlat(geom.XY, []float64{0, 51.5})
	sq := square(0, 51.5, 0.01)
	// Bounding boxes touch, so the ring extraction runs and rejects the point.
	_, err := withinTolerance(pt, sq, 50)
	assert.Error(t, err)
}

func TestSegmentDistance(t *testing.T) {
	// Crossing segments have distance 0.
	assert.Zero(t, segmentDistance(0, 0, 10, 10, 0, 10, 10, 0))
	// Parallel horizontal segments 5 apart.
	assert.InDelta(t, 5.0, segmentDistance(0, 0, 10, 0, 0, 5, 10, 5), 0.0001)
	// Collinear, 3 apart end to end.
	assert.InDelta(t, 3.0, segmentDistance(0, 0, 1, 0, 4, 0, 6, 0), 0.0001)
}

func precomputeFixture() []boundary.Area {
	// Row of three touching squares plus one isolated square.
	return []boundary.Area{
		{Code: "E01000001", Geom: square(0.00, 51.50, 0.01)},
		{Code: "E01000002", Geom: square(0.01, 51.50, 0.01)},
		{Code: "E01000003", Geom: square(0.02, 51.50, 0.01)},
		{Code: "E01000004", Geom: square(0.50, 51.50, 0.01)},
	}
}

func TestPrecompute(t *testing.T) {
	table, err := Precompute(context.Background(), precomputeFixture(), Options{
		Symmetrize: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, table.AreaCount)
	assert.NotEmpty(t, table.RunID)
	assert.ElementsMatch(t, []string{"E01000002"}, table.NeighborsOf("E01000001"))
	assert.ElementsMatch(t, []string{"E01000001", "E01000003"}, table.NeighborsOf("E01000002"))
	assert.Empty(t, table.NeighborsOf("E01000004"))
	assert.Nil(t, table.NeighborsOf("E01999999"))
}

func TestPrecomputeSymmetry(t *testing.T) {
	table, err := Precompute(context.Background(), precomputeFixture(), Options{
		Symmetrize: true,
	})
	require.NoError(t, err)

	for code, adj := range table.Neighbors {
		for _, other := range adj {
			assert.Contains(t, table.Neighbors[other], code,
				"edge %s→%s has no reverse edge", code, other)
		}
	}
}

func TestPrecomputeEmptyInput(t *testing.T) {
	_, err := Precompute(context.Background(), nil, Options{})
	assert.Error(t, err)
}

func TestPrecomputeSkipsBadGeometry(t *testing.T) {
	areas := precomputeFixture()
	// A point is not a valid boundary; pairs involving it are skipped,
	// the batch still completes.
	areas = append(areas, boundary.Area{
		Code: "E01000005",
		Geom: geom.NewPointFlat(geom.XY, []float64{0.005, 51.505}),
	})

	table, err := Precompute(context.Background(), areas, Options{Symmetrize: true})
	require.NoError(t, err)
	assert.Equal(t, 5, table.AreaCount)
	assert.Empty(t, table.NeighborsOf("E01000005"))
	// The valid row is unaffected.
	assert.Contains(t, table.NeighborsOf("E01000002"), "E01000001")
}

func TestPrecomputeDeterministicNeighbors(t *testing.T) {
	first, err := Precompute(context.Background(), precomputeFixture(), Options{Symmetrize: true})
	require.NoError(t, err)
	second, err := Precompute(context.Background(), precomputeFixture(), Options{Symmetrize: true})
	require.NoError(t, err)

	for code := range first.Neighbors {
		assert.ElementsMatch(t, first.Neighbors[code], second.Neighbors[code], code)
	}
}

func TestTableRoundTrip(t *testing.T) {
	table, err := Precompute(context.Background(), precomputeFixture(), Options{Symmetrize: true})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "adjacency.json")
	require.NoError(t, table.WriteFile(path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, table.RunID, loaded.RunID)
	assert.Equal(t, table.AreaCount, loaded.AreaCount)
	assert.Equal(t, table.Neighbors, loaded.Neighbors)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestTableStats(t *testing.T) {
	table := &Table{Neighbors: map[string][]string{
		"A": {"B", "C"},
		"B": {"A"},
		"C": {"A"},
		"D": {},
	}}
	st := table.Stats()
	assert.Equal(t, 4, st.Areas)
	assert.Equal(t, 0, st.Min)
	assert.Equal(t, 2, st.Max)
	assert.InDelta(t, 1.0, st.Avg, 0.0001)
}

func TestTableStatsEmpty(t *testing.T) {
	st := (&Table{}).Stats()
	assert.Zero(t, st.Areas)
	assert.Zero(t, st.Avg)
}
