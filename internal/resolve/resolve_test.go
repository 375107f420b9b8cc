package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_ExactPriorityOrder(t *testing.T) {
	table := AliasTable{FieldTime: {"time", "timestamp", "datetime"}}

	// Both aliases present: the higher-priority alias wins regardless of
	// column order.
	col, ok := table.Resolve([]string{"timestamp", "time"}, FieldTime)
	require.True(t, ok)
	assert.Equal(t, "time", col)
}

func TestResolve_CaseInsensitiveExact(t *testing.T) {
	table := Default()

	col, ok := table.Resolve([]string{"Timestamp", "value"}, FieldTime)
	require.True(t, ok)
	assert.Equal(t, "Timestamp", col)
}

func TestResolve_SubstringMatch(t *testing.T) {
	table := Default()

	col, ok := table.Resolve([]string{"observed_datetime_utc"}, FieldTime)
	require.True(t, ok)
	assert.Equal(t, "observed_datetime_utc", col)
}

func TestResolve_ExactBeatsSubstring(t *testing.T) {
	table := Default()

	// "city" matches exactly; "city_code" would only match by substring.
	col, ok := table.Resolve([]string{"city_code", "city"}, FieldCity)
	require.True(t, ok)
	assert.Equal(t, "city", col)
}

func TestResolve_NotFound(t *testing.T) {
	table := Default()

	_, ok := table.Resolve([]string{"value", "score"}, FieldCity)
	assert.False(t, ok)

	_, ok = table.Resolve(nil, FieldCity)
	assert.False(t, ok)
}

func TestResolve_VietnameseAliases(t *testing.T) {
	table := Default()

	col, ok := table.Resolve([]string{"thanh_pho", "gio"}, FieldCity)
	require.True(t, ok)
	assert.Equal(t, "thanh_pho", col)

	col, ok = table.Resolve([]string{"thanh_pho", "gio"}, FieldWind)
	require.True(t, ok)
	assert.Equal(t, "gio", col)
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	require.NoError(t, os.WriteFile(path, []byte("city:\n  - municipio\n"), 0o644))

	table, err := LoadFile(path)
	require.NoError(t, err)

	// Overridden field replaced wholesale.
	col, ok := table.Resolve([]string{"municipio"}, FieldCity)
	require.True(t, ok)
	assert.Equal(t, "municipio", col)
	_, ok = table.Resolve([]string{"city"}, FieldCity)
	assert.False(t, ok)

	// Untouched fields keep their defaults.
	col, ok = table.Resolve([]string{"timestamp"}, FieldTime)
	require.True(t, ok)
	assert.Equal(t, "timestamp", col)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
