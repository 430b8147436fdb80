package demographics

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
)

// JSONStore is a StatsStore backed by a static JSON extract loaded
// wholesale into memory. The file may contain either an array of records
// or a mapping from area code to record.
type JSONStore struct {
	records map[string]AreaStatistics
}

// NewJSONStore reads and parses the statistics file at path.
func NewJSONStore(path string) (*JSONStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "stats: read %s", path)
	}

	records := map[string]AreaStatistics{}

	var list []AreaStatistics
	if err := json.Unmarshal(data, &list); err == nil {
		for _, rec := range list {
			records[rec.AreaCode] = rec
		}
		return &JSONStore{records: records}, nil
	}

	var byCode map[string]AreaStatistics
	if err := json.Unmarshal(data, &byCode); err != nil {
		return nil, eris.Wrapf(err, "stats: parse %s", path)
	}
	for code, rec := range byCode {
		if rec.AreaCode == "" {
			rec.AreaCode = code
		}
		records[code] = rec
	}
	return &JSONStore{records: records}, nil
}

// AreaStatistics implements StatsStore.
func (s *JSONStore) AreaStatistics(_ context.Context, codes []string) (map[string]AreaStatistics, error) {
	out := make(map[string]AreaStatistics, len(codes))
	for _, code := range codes {
		if rec, ok := s.records[code]; ok {
			out[code] = rec
		}
	}
	return out, nil
}

// AllAreaStatistics implements StatsStore.
func (s *JSONStore) AllAreaStatistics(context.Context) (map[string]AreaStatistics, error) {
	out := make(map[string]AreaStatistics, len(s.records))
	for code, rec := range s.records {
		out[code] = rec
	}
	return out, nil
}

// Close implements StatsStore.
func (s *JSONStore) Close() error { return nil }
