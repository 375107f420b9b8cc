package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewRenderer(loc, "en", clock)
}

func ptr(f float64) *float64 { return &f }

func TestRender_Empty(t *testing.T) {
	assert.Equal(t, "", testRenderer(t).Render(nil))
}

func TestRender_Table(t *testing.T) {
	records := []model.CanonicalRecord{
		{
			City:        "Hanoi",
			Instant:     time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC),
			AQI:         ptr(152),
			Wind:        ptr(7.4),
			IsAnomalous: true,
			Methods:     []string{"IsolationForest", "Z-score AQI"},
			Sources:     []string{"anomalies_hanoi_2025.csv", "hanoi_zscore.csv"},
		},
	}

	out := testRenderer(t).Render(records)

	// 03:00 UTC renders as 10:00 in the UTC+7 display zone.
	assert.Contains(t, out, "| Hanoi | 2025-01-01 10:00 | 152 | 7.40 | IsolationForest, Z-score AQI | anomalies_hanoi_2025.csv; hanoi_zscore.csv |")
	assert.Contains(t, out, "(UTC+7)")
	assert.True(t, strings.HasPrefix(out, "# "))
}

func TestRender_NaiveTimestampRoundTrip(t *testing.T) {
	// A zone-naive "2025-01-01 10:00" assumed to be UTC+7 must come back
	// out as 10:00 when displayed in UTC+7.
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	instant := time.Date(2025, 1, 1, 10, 0, 0, 0, loc).UTC()

	out := testRenderer(t).Render([]model.CanonicalRecord{{
		City:        "Hanoi",
		Instant:     instant,
		IsAnomalous: true,
		Methods:     []string{"IsolationForest"},
		Sources:     []string{"a.csv"},
	}})

	assert.Contains(t, out, "| Hanoi | 2025-01-01 10:00 |")
}

func TestRender_BlankMissingValues(t *testing.T) {
	out := testRenderer(t).Render([]model.CanonicalRecord{{
		City:        "Hue",
		Instant:     time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC),
		IsAnomalous: true,
		Methods:     []string{"Z-score"},
		Sources:     []string{"hue_zscore.csv"},
	}})

	assert.Contains(t, out, "| Hue | 2025-01-01 10:00 |  |  | Z-score | hue_zscore.csv |")
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "anomaly_email.md")

	require.NoError(t, Write(path, "# report\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# report\n", string(data))

	// Leftover temp file would mean the rename path is broken.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWrite_EmptyContentWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "anomaly_email.md")
	require.NoError(t, Write(path, ""))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
