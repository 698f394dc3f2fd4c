package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens the reference-data DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:merit.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/merit?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS dataset_meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS universities (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  short_name TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  application_deadline TEXT NOT NULL DEFAULT '',
  application_fee TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  merit_history_json TEXT NOT NULL DEFAULT '',
  merit_estimate_json TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS programs (
  university_id TEXT NOT NULL REFERENCES universities(id) ON DELETE CASCADE,
  id TEXT NOT NULL,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  test_options_json TEXT NOT NULL,
  formula_json TEXT NOT NULL,
  minimum_json TEXT NOT NULL,
  bands_json TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (university_id, id)
);

CREATE TABLE IF NOT EXISTS merit_tables (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS merit_entries (
  table_id TEXT NOT NULL REFERENCES merit_tables(id) ON DELETE CASCADE,
  campus TEXT NOT NULL,
  campus_ord INTEGER NOT NULL,
  ord INTEGER NOT NULL,
  program_name TEXT NOT NULL,
  merit_number REAL,               -- set when merit is a plain percentage
  merit_text TEXT NOT NULL DEFAULT '',
  entry_campus TEXT NOT NULL DEFAULT '',
  shift TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  seats INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (table_id, campus_ord, ord)
);

CREATE TABLE IF NOT EXISTS test_patterns (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  pattern_json TEXT NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS dataset_meta (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS universities (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  short_name TEXT NOT NULL DEFAULT '',
  website TEXT NOT NULL DEFAULT '',
  application_deadline TEXT NOT NULL DEFAULT '',
  application_fee TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  merit_history_json TEXT NOT NULL DEFAULT '',
  merit_estimate_json TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS programs (
  university_id TEXT NOT NULL REFERENCES universities(id) ON DELETE CASCADE,
  id TEXT NOT NULL,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  test_options_json TEXT NOT NULL,
  formula_json TEXT NOT NULL,
  minimum_json TEXT NOT NULL,
  bands_json TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  PRIMARY KEY (university_id, id)
);

CREATE TABLE IF NOT EXISTS merit_tables (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS merit_entries (
  table_id TEXT NOT NULL REFERENCES merit_tables(id) ON DELETE CASCADE,
  campus TEXT NOT NULL,
  campus_ord INTEGER NOT NULL,
  ord INTEGER NOT NULL,
  program_name TEXT NOT NULL,
  merit_number DOUBLE PRECISION,
  merit_text TEXT NOT NULL DEFAULT '',
  entry_campus TEXT NOT NULL DEFAULT '',
  shift TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  seats INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (table_id, campus_ord, ord)
);

CREATE TABLE IF NOT EXISTS test_patterns (
  id TEXT PRIMARY KEY,
  ord INTEGER NOT NULL,
  name TEXT NOT NULL,
  pattern_json TEXT NOT NULL
);
`
