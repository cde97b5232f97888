// Package store persists accuracy analysis runs so repeated studies over
// the same claim datasets can be compared across rasters.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/floodscope/internal/accuracy"
)

// Run is one persisted accuracy analysis.
type Run struct {
	ID        string          `json:"id"`
	Raster    string          `json:"raster"`
	Result    accuracy.Result `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

// SQLiteStore implements run persistence using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL
// mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS accuracy_runs (
	id             TEXT PRIMARY KEY,
	raster         TEXT NOT NULL,
	total_claims   INTEGER NOT NULL,
	covered_claims INTEGER NOT NULL,
	accuracy       REAL NOT NULL,
	categories     TEXT NOT NULL,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_accuracy_runs_raster ON accuracy_runs(raster);
CREATE INDEX IF NOT EXISTS idx_accuracy_runs_created_at ON accuracy_runs(created_at);
`

// Migrate creates the schema if it does not exist.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveRun persists one analysis result under a fresh id.
func (s *SQLiteStore) SaveRun(ctx context.Context, rasterName string, res *accuracy.Result) (*Run, error) {
	if res == nil {
		return nil, eris.New("sqlite: nil result")
	}

	id := uuid.New().String()
	now := time.Now().UTC()

	categoriesJSON, err := json.Marshal(res.Categories)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal categories")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO accuracy_runs (id, raster, total_claims, covered_claims, accuracy, categories, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, rasterName, res.TotalClaims, res.CoveredClaims, res.Accuracy, string(categoriesJSON), now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &Run{ID: id, Raster: rasterName, Result: *res, CreatedAt: now}, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, raster, total_claims, covered_claims, accuracy, categories, created_at
		 FROM accuracy_runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []Run
	for rows.Next() {
		var (
			r              Run
			categoriesJSON string
		)
		if err := rows.Scan(&r.ID, &r.Raster, &r.Result.TotalClaims, &r.Result.CoveredClaims,
			&r.Result.Accuracy, &categoriesJSON, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		if err := json.Unmarshal([]byte(categoriesJSON), &r.Result.Categories); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal categories for run %s", r.ID)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate runs")
	}
	return runs, nil
}
