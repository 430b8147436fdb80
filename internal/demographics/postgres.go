package demographics

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"
)

// PostgresStore is a StatsStore backed by the hosted census tables. The
// label maps are stored as jsonb columns.
type PostgresStore struct {
	pool Pool
}

// NewPostgresStore creates a PostgresStore over an existing pool.
func NewPostgresStore(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresSelect = `
	SELECT area_code, population_total, population_male, population_female,
	       households_total, age_groups, country_of_birth, household_sizes,
	       household_composition, dep_employment, dep_education, dep_health, dep_housing
	FROM demographics.area_statistics`

// AreaStatistics implements StatsStore.
func (s *PostgresStore) AreaStatistics(ctx context.Context, codes []string) (map[string]AreaStatistics, error) {
	if len(codes) == 0 {
		return map[string]AreaStatistics{}, nil
	}
	rows, err := s.pool.Query(ctx, postgresSelect+" WHERE area_code = ANY($1)", codes)
	if err != nil {
		return nil, eris.Wrap(err, "stats: query postgres selection")
	}
	defer rows.Close()

	return scanPostgresRows(rows)
}

// AllAreaStatistics implements StatsStore.
func (s *PostgresStore) AllAreaStatistics(ctx context.Context) (map[string]AreaStatistics, error) {
	rows, err := s.pool.Query(ctx, postgresSelect)
	if err != nil {
		return nil, eris.Wrap(err, "stats: query postgres all")
	}
	defer rows.Close()

	return scanPostgresRows(rows)
}

// Close implements StatsStore. The pool is owned by the caller.
func (s *PostgresStore) Close() error { return nil }

func scanPostgresRows(rows pgx.Rows) (map[string]AreaStatistics, error) {
	out := map[string]AreaStatistics{}
	for rows.Next() {
		var (
			rec                           AreaStatistics
			ages, countries, sizes, comps []byte
		)
		if err := rows.Scan(
			&rec.AreaCode, &rec.Population.Total, &rec.Population.Male, &rec.Population.Female,
			&rec.Households.Total, &ages, &countries, &sizes, &comps,
			&rec.HouseholdDeprivation.Employment, &rec.HouseholdDeprivation.Education,
			&rec.HouseholdDeprivation.Health, &rec.HouseholdDeprivation.Housing,
		); err != nil {
			return nil, eris.Wrap(err, "stats: scan postgres row")
		}

		var err error
		if rec.AgeGroups, err = unmarshalJSONB(ages); err != nil {
			return nil, err
		}
		if rec.CountryOfBirth, err = unmarshalJSONB(countries); err != nil {
			return nil, err
		}
		if rec.HouseholdSizes, err = unmarshalJSONB(sizes); err != nil {
			return nil, err
		}
		if rec.HouseholdComposition, err = unmarshalJSONB(comps); err != nil {
			return nil, err
		}

		out[rec.AreaCode] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "stats: iterate postgres rows")
	}
	return out, nil
}

func unmarshalJSONB(data []byte) (map[string]int, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "stats: unmarshal jsonb labels")
	}
	return m, nil
}
