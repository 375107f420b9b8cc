// Package resolve maps the arbitrary column names of detector output files
// onto the canonical field set. New detectors are onboarded by adding alias
// entries, never by new code paths.
package resolve

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Canonical field names.
const (
	FieldCity   = "city"
	FieldTime   = "time"
	FieldAQI    = "aqi"
	FieldWind   = "wind"
	FieldFlag   = "flag"
	FieldMethod = "method"
)

// AliasTable maps a canonical field name to an ordered list of acceptable
// source-column names, checked in priority order.
type AliasTable map[string][]string

// Default returns the built-in alias table covering the column spellings
// the crawler and detectors are known to emit.
func Default() AliasTable {
	return AliasTable{
		FieldCity:   {"city", "thanh_pho", "tinh", "province", "location"},
		FieldTime:   {"time", "timestamp", "datetime", "date", "DateTime", "created_at"},
		FieldAQI:    {"AQI", "aqi", "aqi_value"},
		FieldWind:   {"wind_speed", "wind", "windspeed", "gio", "gió"},
		FieldFlag:   {"flag", "is_anomaly", "is_outlier", "bat_thuong"},
		FieldMethod: {"method", "detector", "algorithm", "phuong_phap"},
	}
}

// LoadFile reads per-field alias overrides from a YAML file and merges them
// over the defaults. A field present in the file replaces that field's
// default alias list wholesale.
func LoadFile(path string) (AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "resolve: read alias file %s", path)
	}

	var overrides AliasTable
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, eris.Wrapf(err, "resolve: parse alias file %s", path)
	}

	table := Default()
	for field, aliases := range overrides {
		table[field] = aliases
	}
	return table, nil
}

// Resolve returns the best-matching source column for a canonical field.
// Matching order: exact match in declared alias priority, then
// case-insensitive exact, then case-insensitive substring (alias contained
// in a column name). First match wins; strategies are never mixed.
func (t AliasTable) Resolve(columns []string, field string) (string, bool) {
	aliases := t[field]
	if len(aliases) == 0 || len(columns) == 0 {
		return "", false
	}

	present := make(map[string]bool, len(columns))
	lower := make(map[string]string, len(columns))
	for _, col := range columns {
		present[col] = true
		lc := strings.ToLower(col)
		if _, seen := lower[lc]; !seen {
			lower[lc] = col
		}
	}

	for _, alias := range aliases {
		if present[alias] {
			return alias, true
		}
	}

	for _, alias := range aliases {
		if col, ok := lower[strings.ToLower(alias)]; ok {
			return col, true
		}
	}

	for _, col := range columns {
		lc := strings.ToLower(col)
		for _, alias := range aliases {
			if strings.Contains(lc, strings.ToLower(alias)) {
				return col, true
			}
		}
	}

	return "", false
}
