// Package store persists run summaries for auditing.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// Store defines the run-history persistence interface.
type Store interface {
	RecordRun(ctx context.Context, run *model.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error)
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver. Driver "none" returns
// a no-op store so the pipeline can run without persistence.
func Open(driver, databaseURL string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(databaseURL)
	case "postgres":
		return NewPostgres(databaseURL)
	case "none":
		return nopStore{}, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

type nopStore struct{}

func (nopStore) RecordRun(context.Context, *model.RunSummary) error { return nil }
func (nopStore) ListRuns(context.Context, int) ([]model.RunSummary, error) {
	return nil, nil
}
func (nopStore) Migrate(context.Context) error { return nil }
func (nopStore) Close() error                  { return nil }
