package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	// DriverPgxPool talks to Postgres through a native pgx pool instead of database/sql.
	DriverPgxPool Driver = "pgxpool"
)

const defaultPostgresDSN = "postgres://localhost:5432/clepbridge?sslmode=disable"

// Open opens a DB and ensures the reference tables exist.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	driver = Normalize(driver)
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:clepbridge.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = defaultPostgresDSN
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	tunePool(driver, db)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return db, nil
}

// OpenPool opens a pgx connection pool and ensures the reference tables exist.
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		dsn = defaultPostgresDSN
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	if _, err := pool.Exec(ctx, schemaPostgres); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return pool, nil
}

// Normalize maps common aliases to the canonical driver names.
func Normalize(d Driver) Driver {
	switch strings.ToLower(strings.TrimSpace(string(d))) {
	case "pg", "pgsql", "pgx", "postgres", "postgresql":
		return DriverPostgres
	case "sqlite", "sqlite3":
		return DriverSQLite
	case "pgxpool":
		return DriverPgxPool
	default:
		return d
	}
}

// tunePool sizes the database/sql pool. The match path only reads, but
// sqlite still serializes on a single connection to avoid busy errors.
func tunePool(driver Driver, db *sql.DB) {
	switch driver {
	case DriverSQLite:
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	default:
		db.SetMaxOpenConns(20)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(45 * time.Minute)
		db.SetConnMaxIdleTime(15 * time.Minute)
	}
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

// Schemas cover only the tables the match engine reads. Learners, favorites
// and institution membership belong to the account services.
const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS exams (
  eid INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS institutions (
  id TEXT,
  msea_org_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  enrollment INTEGER NOT NULL DEFAULT 0,
  max_credits INTEGER NOT NULL DEFAULT 0,
  transcription_fee INTEGER NOT NULL DEFAULT 0,
  score_validity_years INTEGER NOT NULL DEFAULT 0,
  website_url TEXT NOT NULL DEFAULT '',
  can_use_for_failed_courses INTEGER NOT NULL DEFAULT 0,
  can_enrolled_students_use_clep INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS acceptance (
  msea_org_id TEXT NOT NULL,
  eid INTEGER NOT NULL REFERENCES exams(eid),
  cut_score INTEGER NOT NULL CHECK (cut_score BETWEEN 20 AND 80),
  credits INTEGER NOT NULL DEFAULT 0 CHECK (credits >= 0),
  related_course TEXT,
  last_updated TEXT
);

CREATE INDEX IF NOT EXISTS acceptance_eid_idx ON acceptance(eid);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS exams (
  eid INTEGER PRIMARY KEY,
  name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS institutions (
  id UUID,
  msea_org_id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  zip TEXT NOT NULL DEFAULT '',
  enrollment INTEGER NOT NULL DEFAULT 0,
  max_credits INTEGER NOT NULL DEFAULT 0,
  transcription_fee INTEGER NOT NULL DEFAULT 0,
  score_validity_years INTEGER NOT NULL DEFAULT 0,
  website_url TEXT NOT NULL DEFAULT '',
  can_use_for_failed_courses BOOLEAN NOT NULL DEFAULT FALSE,
  can_enrolled_students_use_clep BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS acceptance (
  msea_org_id TEXT NOT NULL,
  eid INTEGER NOT NULL REFERENCES exams(eid),
  cut_score INTEGER NOT NULL CHECK (cut_score BETWEEN 20 AND 80),
  credits INTEGER NOT NULL DEFAULT 0 CHECK (credits >= 0),
  related_course TEXT,
  last_updated TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS acceptance_eid_idx ON acceptance(eid);
`
