package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLite_RecordAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := model.RunSummary{
		Policy:       "recency-window",
		FilesSeen:    4,
		FilesSkipped: 1,
		RowsDropped:  7,
		Records:      120,
		Selected:     3,
		ArtifactPath: "out/anomaly_email.md",
	}
	require.NoError(t, s.RecordRun(ctx, &run))
	assert.NotEmpty(t, run.ID, "RecordRun assigns an ID")
	assert.False(t, run.StartedAt.IsZero())

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "recency-window", runs[0].Policy)
	assert.Equal(t, 120, runs[0].Records)
	assert.Equal(t, "out/anomaly_email.md", runs[0].ArtifactPath)
}

func TestSQLite_ListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	old := model.RunSummary{Policy: "recency-window", StartedAt: time.Now().UTC().Add(-time.Hour)}
	recent := model.RunSummary{Policy: "latest-per-group", StartedAt: time.Now().UTC()}
	require.NoError(t, s.RecordRun(ctx, &old))
	require.NoError(t, s.RecordRun(ctx, &recent))

	runs, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, recent.ID, runs[0].ID)
}

func TestOpen_Drivers(t *testing.T) {
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "open.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open("none", "")
	require.NoError(t, err)
	require.NoError(t, s.RecordRun(context.Background(), &model.RunSummary{}))
	require.NoError(t, s.Close())

	_, err = Open("mysql", "")
	require.Error(t, err)
}
