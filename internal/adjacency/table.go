package adjacency

import (
	"encoding/json"
	"os"
	"sort"
	"time"

	"github.com/rotisserie/eris"
)

// Table is the precomputed area→neighbours lookup. It is produced once
// by a batch run, persisted as a JSON artifact, and loaded wholesale by
// downstream consumers; it is never mutated at request time.
type Table struct {
	RunID       string              `json:"run_id"`
	GeneratedAt time.Time           `json:"generated_at"`
	CellSizeDeg float64             `json:"cell_size_deg"`
	ToleranceM  float64             `json:"tolerance_m"`
	Symmetrized bool                `json:"symmetrized"`
	AreaCount   int                 `json:"area_count"`
	Neighbors   map[string][]string `json:"neighbors"`
}

// Neighbors returns the adjacency list for an area code, or nil when the
// code is unknown.
func (t *Table) NeighborsOf(code string) []string {
	return t.Neighbors[code]
}

// DegreeStats summarizes adjacency-list lengths across the table.
type DegreeStats struct {
	Areas int     `json:"areas"`
	Avg   float64 `json:"avg"`
	Min   int     `json:"min"`
	Max   int     `json:"max"`
}

// Stats computes the degree distribution summary printed after a run.
func (t *Table) Stats() DegreeStats {
	st := DegreeStats{Areas: len(t.Neighbors)}
	if st.Areas == 0 {
		return st
	}
	st.Min = len(t.Neighbors[anyKey(t.Neighbors)])
	total := 0
	for _, neighbors := range t.Neighbors {
		n := len(neighbors)
		total += n
		if n < st.Min {
			st.Min = n
		}
		if n > st.Max {
			st.Max = n
		}
	}
	st.Avg = float64(total) / float64(st.Areas)
	return st
}

func anyKey(m map[string][]string) string {
	for k := range m {
		return k
	}
	return ""
}

// WriteFile serializes the table to path. Neighbour lists are sorted
// first so repeated runs over identical input produce identical bytes.
func (t *Table) WriteFile(path string) error {
	for _, neighbors := range t.Neighbors {
		sort.Strings(neighbors)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return eris.Wrap(err, "adjacency: marshal table")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "adjacency: write %s", path)
	}
	return nil
}

// LoadFile reads a previously written table artifact.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "adjacency: read %s", path)
	}
	var t Table
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "adjacency: parse %s", path)
	}
	return &t, nil
}
