package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
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
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started_at     DATETIME NOT NULL,
	policy         TEXT NOT NULL,
	files_seen     INTEGER NOT NULL DEFAULT 0,
	files_skipped  INTEGER NOT NULL DEFAULT 0,
	tables_skipped INTEGER NOT NULL DEFAULT 0,
	rows_dropped   INTEGER NOT NULL DEFAULT 0,
	records        INTEGER NOT NULL DEFAULT 0,
	selected       INTEGER NOT NULL DEFAULT 0,
	artifact       TEXT
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) RecordRun(ctx context.Context, run *model.RunSummary) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, policy, files_seen, files_skipped, tables_skipped, rows_dropped, records, selected, artifact)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.Policy,
		run.FilesSeen, run.FilesSkipped, run.TablesSkipped,
		run.RowsDropped, run.Records, run.Selected, run.ArtifactPath,
	)
	return eris.Wrap(err, "sqlite: record run")
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, policy, files_seen, files_skipped, tables_skipped, rows_dropped, records, selected, artifact
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		var artifact sql.NullString
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.Policy,
			&run.FilesSeen, &run.FilesSkipped, &run.TablesSkipped,
			&run.RowsDropped, &run.Records, &run.Selected, &artifact); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		run.ArtifactPath = artifact.String
		out = append(out, run)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}
