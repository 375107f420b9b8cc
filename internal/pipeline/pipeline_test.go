package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/fusion"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/resolve"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	return Options{
		Aliases:     resolve.Default(),
		Fusion:      fusion.DefaultConfig(),
		AssumedZone: loc,
		MaxParallel: 2,
	}
}

func TestCanonicalize_SentinelRow(t *testing.T) {
	table := &model.RawTable{
		Source:  "anomalies_hanoi_2025.csv",
		Format:  model.FormatTabular,
		Columns: []string{"timestamp", "city", "anomaly"},
		Rows: []model.Row{
			{"timestamp": "2025-01-01T10:00:00+07:00", "city": "Hanoi", "anomaly": "-1"},
		},
	}

	records, stats := Canonicalize(table, testOptions(t))
	require.Len(t, records, 1)
	assert.Zero(t, stats.RowsDropped)

	rec := records[0]
	assert.Equal(t, "Hanoi", rec.City)
	assert.True(t, rec.IsAnomalous)
	assert.Equal(t, []string{"IsolationForest"}, rec.Methods)
	assert.Equal(t, time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC), rec.Instant)
	assert.Equal(t, []string{"anomalies_hanoi_2025.csv"}, rec.Sources)
}

func TestCanonicalize_CityFromFilename(t *testing.T) {
	table := &model.RawTable{
		Source:  "result_anomaly/z_score/da-nang_zscore.csv",
		Columns: []string{"timestamp", "zscore_flag_aqi"},
		Rows: []model.Row{
			{"timestamp": "2025-01-01 10:00", "zscore_flag_aqi": "-1"},
		},
	}

	records, _ := Canonicalize(table, testOptions(t))
	require.Len(t, records, 1)
	assert.Equal(t, "da-nang", records[0].City)
	assert.Equal(t, []string{"Z-score AQI"}, records[0].Methods)
}

func TestCanonicalize_DropsUnparseableTimestamps(t *testing.T) {
	table := &model.RawTable{
		Source:  "anomalies_hanoi_2025.csv",
		Columns: []string{"timestamp", "city", "anomaly"},
		Rows: []model.Row{
			{"timestamp": "garbage", "city": "Hanoi", "anomaly": "-1"},
			{"timestamp": "", "city": "Hanoi", "anomaly": "-1"},
			{"timestamp": "2025-01-01 10:00", "city": "Hanoi", "anomaly": "-1"},
		},
	}

	records, stats := Canonicalize(table, testOptions(t))
	require.Len(t, records, 1)
	assert.Equal(t, 2, stats.RowsDropped)
}

func TestCanonicalize_SkipsTableWithoutTimeColumn(t *testing.T) {
	table := &model.RawTable{
		Source:  "anomalies_hanoi_2025.csv",
		Columns: []string{"city", "anomaly"},
		Rows:    []model.Row{{"city": "Hanoi", "anomaly": "-1"}},
	}

	records, stats := Canonicalize(table, testOptions(t))
	assert.Empty(t, records)
	assert.Equal(t, 1, stats.TablesSkipped)
}

func TestCanonicalize_NoFlagColumnsYieldsNoAnomalies(t *testing.T) {
	// A plain measurement file: rows canonicalize but nothing is anomalous.
	table := &model.RawTable{
		Source:  "result/aqi-hanoi_2025.csv",
		Columns: []string{"timestamp", "city", "aqi", "wind_speed"},
		Rows: []model.Row{
			{"timestamp": "2025-01-01 10:00", "city": "hanoi", "aqi": "152", "wind_speed": "7.4 km/h"},
		},
	}

	records, stats := Canonicalize(table, testOptions(t))
	require.Len(t, records, 1)
	assert.Zero(t, stats.RowsDropped)

	rec := records[0]
	assert.False(t, rec.IsAnomalous)
	assert.Empty(t, rec.Methods)
	require.NotNil(t, rec.AQI)
	assert.Equal(t, 152.0, *rec.AQI)
	require.NotNil(t, rec.Wind)
	assert.Equal(t, 7.4, *rec.Wind)
}

func TestCanonicalize_PreservesRowOrder(t *testing.T) {
	table := &model.RawTable{
		Source:  "anomalies_hanoi_2025.csv",
		Columns: []string{"timestamp", "city"},
		Rows: []model.Row{
			{"timestamp": "2025-01-01 12:00", "city": "a"},
			{"timestamp": "2025-01-01 10:00", "city": "b"},
			{"timestamp": "2025-01-01 11:00", "city": "c"},
		},
	}

	records, _ := Canonicalize(table, testOptions(t))
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b", "c"},
		[]string{records[0].City, records[1].City, records[2].City})
}

func TestCanonicalizeAll_JoinsInTableOrder(t *testing.T) {
	mk := func(source, city string) *model.RawTable {
		return &model.RawTable{
			Source:  source,
			Columns: []string{"timestamp", "city"},
			Rows:    []model.Row{{"timestamp": "2025-01-01 10:00", "city": city}},
		}
	}
	tables := []*model.RawTable{
		mk("a.csv", "hanoi"),
		mk("b.csv", "hue"),
		mk("c.csv", "vinh"),
	}

	records, stats, err := CanonicalizeAll(context.Background(), tables, testOptions(t))
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Zero(t, stats.TablesSkipped)
	assert.Equal(t, []string{"hanoi", "hue", "vinh"},
		[]string{records[0].City, records[1].City, records[2].City})
}
