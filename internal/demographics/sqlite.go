package demographics

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a StatsStore backed by a local SQLite database. The
// open-ended label maps are stored as JSON text columns.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens a SQLite database at the given path.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "stats: open sqlite")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "stats: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS area_statistics (
	area_code             TEXT PRIMARY KEY,
	population_total      INTEGER NOT NULL DEFAULT 0,
	population_male       INTEGER NOT NULL DEFAULT 0,
	population_female     INTEGER NOT NULL DEFAULT 0,
	households_total      INTEGER NOT NULL DEFAULT 0,
	age_groups            TEXT,
	country_of_birth      TEXT,
	household_sizes       TEXT,
	household_composition TEXT,
	dep_employment        INTEGER NOT NULL DEFAULT 0,
	dep_education         INTEGER NOT NULL DEFAULT 0,
	dep_health            INTEGER NOT NULL DEFAULT 0,
	dep_housing           INTEGER NOT NULL DEFAULT 0
);
`

// Migrate creates the statistics table if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "stats: migrate sqlite")
}

// Close implements StatsStore.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Put inserts or replaces one record. Used by the import command.
func (s *SQLiteStore) Put(ctx context.Context, rec AreaStatistics) error {
	ages, err := marshalLabels(rec.AgeGroups)
	if err != nil {
		return err
	}
	countries, err := marshalLabels(rec.CountryOfBirth)
	if err != nil {
		return err
	}
	sizes, err := marshalLabels(rec.HouseholdSizes)
	if err != nil {
		return err
	}
	comps, err := marshalLabels(rec.HouseholdComposition)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO area_statistics (
			area_code, population_total, population_male, population_female,
			households_total, age_groups, country_of_birth, household_sizes,
			household_composition, dep_employment, dep_education, dep_health, dep_housing
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AreaCode, rec.Population.Total, rec.Population.Male, rec.Population.Female,
		rec.Households.Total, ages, countries, sizes, comps,
		rec.HouseholdDeprivation.Employment, rec.HouseholdDeprivation.Education,
		rec.HouseholdDeprivation.Health, rec.HouseholdDeprivation.Housing,
	)
	return eris.Wrapf(err, "stats: put %s", rec.AreaCode)
}

const sqliteSelect = `
	SELECT area_code, population_total, population_male, population_female,
	       households_total, age_groups, country_of_birth, household_sizes,
	       household_composition, dep_employment, dep_education, dep_health, dep_housing
	FROM area_statistics`

// AreaStatistics implements StatsStore.
func (s *SQLiteStore) AreaStatistics(ctx context.Context, codes []string) (map[string]AreaStatistics, error) {
	if len(codes) == 0 {
		return map[string]AreaStatistics{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(codes)), ",")
	args := make([]any, len(codes))
	for i, c := range codes {
		args[i] = c
	}

	rows, err := s.db.QueryContext(ctx, sqliteSelect+" WHERE area_code IN ("+placeholders+")", args...)
	if err != nil {
		return nil, eris.Wrap(err, "stats: query sqlite selection")
	}
	defer rows.Close()

	return scanSQLiteRows(rows)
}

// AllAreaStatistics implements StatsStore.
func (s *SQLiteStore) AllAreaStatistics(ctx context.Context) (map[string]AreaStatistics, error) {
	rows, err := s.db.QueryContext(ctx, sqliteSelect)
	if err != nil {
		return nil, eris.Wrap(err, "stats: query sqlite all")
	}
	defer rows.Close()

	return scanSQLiteRows(rows)
}

func scanSQLiteRows(rows *sql.Rows) (map[string]AreaStatistics, error) {
	out := map[string]AreaStatistics{}
	for rows.Next() {
		var (
			rec                            AreaStatistics
			ages, countries, sizes, comps sql.NullString
		)
		if err := rows.Scan(
			&rec.AreaCode, &rec.Population.Total, &rec.Population.Male, &rec.Population.Female,
			&rec.Households.Total, &ages, &countries, &sizes, &comps,
			&rec.HouseholdDeprivation.Employment, &rec.HouseholdDeprivation.Education,
			&rec.HouseholdDeprivation.Health, &rec.HouseholdDeprivation.Housing,
		); err != nil {
			return nil, eris.Wrap(err, "stats: scan sqlite row")
		}

		var err error
		if rec.AgeGroups, err = unmarshalLabels(ages); err != nil {
			return nil, err
		}
		if rec.CountryOfBirth, err = unmarshalLabels(countries); err != nil {
			return nil, err
		}
		if rec.HouseholdSizes, err = unmarshalLabels(sizes); err != nil {
			return nil, err
		}
		if rec.HouseholdComposition, err = unmarshalLabels(comps); err != nil {
			return nil, err
		}

		out[rec.AreaCode] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "stats: iterate sqlite rows")
	}
	return out, nil
}

func marshalLabels(m map[string]int) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, eris.Wrap(err, "stats: marshal labels")
	}
	return string(data), nil
}

func unmarshalLabels(s sql.NullString) (map[string]int, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var m map[string]int
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, eris.Wrap(err, "stats: unmarshal labels")
	}
	return m, nil
}
