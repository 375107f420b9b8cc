package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 4
	pgxCfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started_at     TIMESTAMPTZ NOT NULL,
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

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) RecordRun(ctx context.Context, run *model.RunSummary) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO runs (id, started_at, policy, files_seen, files_skipped, tables_skipped, rows_dropped, records, selected, artifact)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID, run.StartedAt, run.Policy,
		run.FilesSeen, run.FilesSkipped, run.TablesSkipped,
		run.RowsDropped, run.Records, run.Selected, run.ArtifactPath,
	)
	return eris.Wrap(err, "postgres: record run")
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, started_at, policy, files_seen, files_skipped, tables_skipped, rows_dropped, records, selected, COALESCE(artifact, '')
		FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var run model.RunSummary
		if err := rows.Scan(&run.ID, &run.StartedAt, &run.Policy,
			&run.FilesSeen, &run.FilesSkipped, &run.TablesSkipped,
			&run.RowsDropped, &run.Records, &run.Selected, &run.ArtifactPath); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		out = append(out, run)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate runs")
}
