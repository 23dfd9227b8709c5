// Package sqlite archives every building report in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned when no report has been archived for an address.
var ErrNotFound = errors.New("no archived report")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	address      TEXT NOT NULL,
	geohash      TEXT NOT NULL DEFAULT '',
	health_score TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	body         TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_address ON reports(address, generated_at);
`

// sortableTime is fixed-width so generated_at orders lexically.
const sortableTime = "2006-01-02T15:04:05.000000000Z07:00"

// Archive stores reports. It implements pipeline.ReportSink.
type Archive struct {
	db *sql.DB
}

// Open opens or creates the archive at path and applies the schema.
func Open(path string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return &Archive{db: db}, nil
}

// Name identifies the sink in logs and metrics.
func (a *Archive) Name() string { return "sqlite" }

// Publish appends the report.
func (a *Archive) Publish(ctx context.Context, report domain.BuildingReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("serialize building report: %w", err)
	}
	_, err = a.db.ExecContext(ctx,
		`INSERT INTO reports (address, geohash, health_score, generated_at, body) VALUES (?, ?, ?, ?, ?)`,
		report.Address, report.Geohash, string(report.HealthScore),
		report.GeneratedAt.UTC().Format(sortableTime), string(body),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Latest returns the most recently generated report for a formatted address.
func (a *Archive) Latest(ctx context.Context, address string) (domain.BuildingReport, error) {
	var body string
	err := a.db.QueryRowContext(ctx,
		`SELECT body FROM reports WHERE address = ? ORDER BY generated_at DESC, id DESC LIMIT 1`,
		address,
	).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.BuildingReport{}, fmt.Errorf("%s: %w", address, ErrNotFound)
	}
	if err != nil {
		return domain.BuildingReport{}, fmt.Errorf("query latest report: %w", err)
	}

	var report domain.BuildingReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return domain.BuildingReport{}, fmt.Errorf("decode archived report: %w", err)
	}
	return report, nil
}

// Count returns the number of archived reports for an address.
func (a *Archive) Count(ctx context.Context, address string) (int, error) {
	var n int
	if err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE address = ?`, address).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.db.Close()
}
