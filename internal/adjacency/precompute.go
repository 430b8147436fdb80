package adjacency

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/demographics-cli/internal/boundary"
)

// Options configures a precompute run. Zero values fall back to the
// documented defaults.
type Options struct {
	// CellSizeDeg is the grid cell size in degrees (default 0.1). Cells
	// must be larger than a typical area so neighbours are at most one
	// cell away.
	CellSizeDeg float64
	// ToleranceM is how close two boundaries must come, in meters, to
	// count as adjacent (default 50). Absorbs digitization slivers.
	ToleranceM float64
	// Workers caps parallel cell workers (default GOMAXPROCS).
	Workers int
	// Symmetrize unions reverse edges so B∈adj(A) implies A∈adj(B).
	Symmetrize bool
	// ProgressInterval is how many areas between progress logs
	// (default 1000).
	ProgressInterval int
}

func (o *Options) applyDefaults() {
	if o.CellSizeDeg <= 0 {
		o.CellSizeDeg = 0.1
	}
	if o.ToleranceM <= 0 {
		o.ToleranceM = 50
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.ProgressInterval <= 0 {
		o.ProgressInterval = 1000
	}
}

// Precompute builds the adjacency table for the given areas. Cells are
// processed in parallel; each worker owns a disjoint set of areas (those
// whose centroid falls in its cell), so partial maps merge without
// conflicts. Per-pair geometry failures are recorded and skipped; they
// never abort the batch.
func Precompute(ctx context.Context, areas []boundary.Area, opts Options) (*Table, error) {
	if len(areas) == 0 {
		return nil, eris.New("adjacency: no areas to process")
	}
	opts.applyDefaults()

	log := zap.L().With(zap.String("component", "adjacency.precompute"))

	grid := BuildGrid(areas, opts.CellSizeDeg)
	cells := grid.Cells()

	log.Info("grid index built",
		zap.Int("areas", len(areas)),
		zap.Int("cells", len(cells)),
		zap.Float64("cell_size_deg", opts.CellSizeDeg),
		zap.Float64("tolerance_m", opts.ToleranceM),
		zap.Int("workers", opts.Workers),
	)

	var (
		mu           sync.Mutex
		neighbors    = make(map[string][]string, len(areas))
		processed    atomic.Int64
		skippedPairs atomic.Int64
		start        = time.Now()
		total        = int64(len(areas))
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, cell := range cells {
		g.Go(func() error {
			candidates := grid.Candidates(cell)
			partial := map[string][]string{}

			for _, ai := range grid.Members(cell) {
				if err := gCtx.Err(); err != nil {
					return err
				}
				a := areas[ai]
				var adj []string
				for _, bi := range candidates {
					if bi == ai {
						continue
					}
					b := areas[bi]
					if b.Code == a.Code {
						continue
					}
					ok, err := pairAdjacent(a, b, opts.ToleranceM)
					if err != nil {
						skippedPairs.Add(1)
						log.Debug("geometry test failed, treating as not adjacent",
							zap.String("area", a.Code),
							zap.String("candidate", b.Code),
							zap.Error(err),
						)
						continue
					}
					if ok {
						adj = append(adj, b.Code)
					}
				}
				partial[a.Code] = dedup(adj)

				if n := processed.Add(1); n%int64(opts.ProgressInterval) == 0 {
					elapsed := time.Since(start)
					rate := float64(n) / elapsed.Seconds()
					remaining := time.Duration(float64(total-n) / rate * float64(time.Second))
					log.Info("precompute progress",
						zap.Int64("processed", n),
						zap.Int64("total", total),
						zap.Float64("areas_per_sec", rate),
						zap.Duration("eta", remaining),
					)
				}
			}

			mu.Lock()
			for code, adj := range partial {
				neighbors[code] = adj
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "adjacency: precompute")
	}

	if opts.Symmetrize {
		symmetrize(neighbors)
	}

	table := &Table{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		CellSizeDeg: opts.CellSizeDeg,
		ToleranceM:  opts.ToleranceM,
		Symmetrized: opts.Symmetrize,
		AreaCount:   len(areas),
		Neighbors:   neighbors,
	}

	log.Info("precompute complete",
		zap.Int("areas", len(areas)),
		zap.Int64("skipped_pairs", skippedPairs.Load()),
		zap.Duration("elapsed", time.Since(start)),
	)

	return table, nil
}

// pairAdjacent wraps the geometry test so a panicking geometry operation
// on one malformed pair degrades to "no adjacency determined".
func pairAdjacent(a, b boundary.Area, toleranceM float64) (adjacent bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			adjacent = false
			err = eris.Errorf("adjacency: geometry panic: %v", r)
		}
	}()
	return withinTolerance(a.Geom, b.Geom, toleranceM)
}

// symmetrize unions reverse edges in place. Tolerance edge cases near the
// grid boundary can otherwise leave one-directional edges.
func symmetrize(neighbors map[string][]string) {
	for code, adj := range neighbors {
		for _, other := range adj {
			if !contains(neighbors[other], code) {
				neighbors[other] = append(neighbors[other], code)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func dedup(list []string) []string {
	if len(list) < 2 {
		return list
	}
	seen := make(map[string]bool, len(list))
	out := list[:0]
	for _, v := range list {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
