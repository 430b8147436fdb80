package demographics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// StatsStore provides read access to the per-area statistics dataset.
// The dataset is externally owned and treated as a read-only snapshot;
// implementations exist for JSON files, SQLite, and Postgres.
type StatsStore interface {
	// AreaStatistics returns the records for the given codes. Codes with
	// no record are simply absent from the result.
	AreaStatistics(ctx context.Context, codes []string) (map[string]AreaStatistics, error)

	// AllAreaStatistics returns the full dataset keyed by area code.
	AllAreaStatistics(ctx context.Context) (map[string]AreaStatistics, error)

	Close() error
}

// Pool is the subset of pgxpool.Pool used by the Postgres store. It is
// satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type Pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// AggregateFromStore loads the selected codes from a store and aggregates
// them. The store lookup tolerates missing codes; a selection matching
// nothing yields ErrNoData from Aggregate.
func AggregateFromStore(ctx context.Context, store StatsStore, codes []string) (*AggregationResult, error) {
	records, err := store.AreaStatistics(ctx, codes)
	if err != nil {
		return nil, eris.Wrap(err, "demographics: load selected areas")
	}
	return Aggregate(records, codes)
}
