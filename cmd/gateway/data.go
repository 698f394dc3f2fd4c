package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mind-engage/mindengage-merit/internal/config"
	"github.com/mind-engage/mindengage-merit/internal/db"
	"github.com/mind-engage/mindengage-merit/internal/refdata"
	"github.com/mind-engage/mindengage-merit/internal/storage"
)

// loadDataset reads reference data from the configured source. The returned
// *sql.DB is nil unless the source is a database.
func loadDataset(ctx context.Context, cfg config.Config, bs storage.BlobStore, log zerolog.Logger) (refdata.Dataset, *sql.DB, error) {
	switch cfg.DataSource {
	case config.SourceEmbedded, "":
		ds, err := refdata.Default()
		return ds, nil, err

	case config.SourceFile:
		ds, err := refdata.LoadBlob(ctx, bs, cfg.DataFile)
		return ds, nil, err

	case config.SourceSQLite, config.SourcePostgres:
		dbh, err := db.Open(ctx, db.Driver(cfg.DataSource), cfg.DBDSN)
		if err != nil {
			return refdata.Dataset{}, nil, fmt.Errorf("db open: %w", err)
		}
		ds, err := refdata.LoadSQL(ctx, dbh)
		if err != nil {
			dbh.Close()
			return refdata.Dataset{}, nil, err
		}
		if cfg.DBSeed || len(ds.Universities) == 0 {
			if ds, err = refdata.Default(); err != nil {
				dbh.Close()
				return refdata.Dataset{}, nil, err
			}
			if err := refdata.SeedSQL(ctx, dbh, ds); err != nil {
				dbh.Close()
				return refdata.Dataset{}, nil, fmt.Errorf("seed: %w", err)
			}
			log.Info().Str("version", ds.Version).Msg("database seeded with embedded dataset")
		}
		return ds, dbh, nil
	}
	return refdata.Dataset{}, nil, fmt.Errorf("unsupported data source: %s", cfg.DataSource)
}
