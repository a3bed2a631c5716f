// Package postgis writes conversion results into a PostGIS table so batch
// runs can be queried spatially afterwards.
package postgis

import (
	"context"
	"database/sql"
	"regexp"
	"time"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/export"
	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultTable receives results when no table is configured.
const DefaultTable = "geoconv_results"

const batchSize = 10000

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ErrInvalidTable is returned for table names that are not plain
// identifiers.
var ErrInvalidTable = eris.New("invalid table name")

// Store is a results table in a PostGIS database.
type Store struct {
	db    *sql.DB
	table string
}

// Open connects and pings the database.
func Open(ctx context.Context, dsn, table string) (*Store, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tablePattern.MatchString(table) {
		return nil, eris.Wrapf(ErrInvalidTable, "%q", table)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgis: open")
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "postgis: ping")
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Store{db: db, table: table}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// schema returns the statements that create the table and its GIST index.
func schema(table string) []string {
	t := pq.QuoteIdentifier(table)
	idx := pq.QuoteIdentifier(table + "_location_idx")
	return []string{
		`CREATE EXTENSION IF NOT EXISTS postgis`,
		`CREATE TABLE IF NOT EXISTS ` + t + ` (
			id BIGSERIAL PRIMARY KEY,
			input TEXT NOT NULL,
			format TEXT NOT NULL,
			utm TEXT,
			mgrs TEXT,
			zone TEXT,
			location GEOMETRY(POINT, 4326) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS ` + idx + ` ON ` + t + ` USING GIST(location)`,
	}
}

func insertStatement(table string) string {
	return `INSERT INTO ` + pq.QuoteIdentifier(table) + ` (input, format, utm, mgrs, zone, location)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), ST_GeomFromEWKB($6))`
}

// InitSchema creates the table and spatial index if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, q := range schema(s.table) {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return eris.Wrapf(err, "postgis: exec %q", q)
		}
	}
	return nil
}

// Insert writes results in transactions of up to batchSize rows.
func (s *Store) Insert(ctx context.Context, results []convert.Result) error {
	start := time.Now()
	for lo := 0; lo < len(results); lo += batchSize {
		hi := min(lo+batchSize, len(results))
		if err := s.insertBatch(ctx, results[lo:hi]); err != nil {
			return err
		}
	}
	zap.L().Debug("postgis insert complete",
		zap.String("table", s.table),
		zap.Int("rows", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (s *Store) insertBatch(ctx context.Context, results []convert.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "postgis: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, insertStatement(s.table))
	if err != nil {
		return eris.Wrap(err, "postgis: prepare insert")
	}
	defer stmt.Close()

	for _, r := range results {
		location, err := export.EWKB(r)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, r.Input, r.Format.String(), r.UTM, r.MGRS, r.Zone, location); err != nil {
			return eris.Wrapf(err, "postgis: insert %q", r.Input)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "postgis: commit")
	}
	return nil
}

// Count returns the number of stored results.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+pq.QuoteIdentifier(s.table)).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgis: count")
	}
	return n, nil
}
