package main

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/demographics-cli/internal/demographics"
)

// openStatsStore builds the configured statistics store. The returned
// cleanup closes the store and, for postgres, the underlying pool.
func openStatsStore(ctx context.Context) (demographics.StatsStore, func(), error) {
	switch strings.ToLower(cfg.Stats.Driver) {
	case "", "json":
		store, err := demographics.NewJSONStore(cfg.Stats.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "sqlite":
		store, err := demographics.NewSQLiteStore(cfg.Stats.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil

	case "postgres":
		if cfg.Stats.DatabaseURL == "" {
			return nil, nil, eris.New("stats: no database_url configured (set stats.database_url)")
		}
		pool, err := pgxpool.New(ctx, cfg.Stats.DatabaseURL)
		if err != nil {
			return nil, nil, eris.Wrap(err, "stats: create connection pool")
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, eris.Wrap(err, "stats: ping database")
		}
		store := demographics.NewPostgresStore(pool)
		return store, func() { pool.Close() }, nil

	default:
		return nil, nil, eris.Errorf("stats: unknown driver %q (expected json, sqlite, or postgres)", cfg.Stats.Driver)
	}
}
