// Package fusion evaluates the detector-specific flag encodings on a raw
// row and fuses them into a single anomaly verdict.
//
// Three encodings are recognized, each independent and additive: named
// per-detector sentinel columns, one generic flag column (numeric sentinel
// or truthy token), and a free-text method column carried verbatim. Any one
// firing makes the row anomalous; the method list is the deduplicated union
// in detection order. The mere presence of a measurement value never counts
// as a flag.
package fusion

import (
	"fmt"
	"strings"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/normalize"
)

// AnomalousSentinel is the numeric value detectors emit for "anomalous";
// sklearn-style detectors use -1, with 0 or 1 meaning normal.
const AnomalousSentinel = -1

// SentinelColumn maps one named per-detector column to its method label.
type SentinelColumn struct {
	Column    string  `yaml:"column" mapstructure:"column"`
	Method    string  `yaml:"method" mapstructure:"method"`
	Anomalous float64 `yaml:"anomalous" mapstructure:"anomalous"`
}

// Config describes every flag encoding the engine knows about.
type Config struct {
	Sentinels    []SentinelColumn `yaml:"sentinels" mapstructure:"sentinels"`
	FlagSentinel float64          `yaml:"flag_sentinel" mapstructure:"flag_sentinel"`
	TruthyTokens []string         `yaml:"truthy_tokens" mapstructure:"truthy_tokens"`
}

// DefaultConfig returns the encodings of the two shipped detectors.
func DefaultConfig() Config {
	return Config{
		Sentinels: []SentinelColumn{
			{Column: "anomaly", Method: "IsolationForest", Anomalous: AnomalousSentinel},
			{Column: "zscore_flag_aqi", Method: "Z-score AQI", Anomalous: AnomalousSentinel},
			{Column: "zscore_flag_wind", Method: "Z-score Wind", Anomalous: AnomalousSentinel},
		},
		FlagSentinel: AnomalousSentinel,
		TruthyTokens: []string{"true", "yes", "1", "-1", "anomaly", "outlier"},
	}
}

// Verdict is the fused result for one row.
type Verdict struct {
	Anomalous bool
	Methods   []string
}

// Evaluate applies every encoding to the row. flagCol and methodCol are the
// resolved generic flag and method columns ("" when the table has none);
// sourceHint is a detector name inferred from the file path, used only when
// a generic flag fires with no other method attribution.
func (c Config) Evaluate(row model.Row, flagCol, methodCol, sourceHint string) Verdict {
	var v Verdict
	seen := make(map[string]bool)
	add := func(method string) {
		if method == "" || seen[method] {
			return
		}
		seen[method] = true
		v.Methods = append(v.Methods, method)
	}

	for _, s := range c.Sentinels {
		raw, ok := row[s.Column]
		if !ok {
			continue
		}
		if n, ok := normalize.Number(raw); ok && n == s.Anomalous {
			v.Anomalous = true
			add(s.Method)
		}
	}

	if flagCol != "" {
		if raw, ok := row[flagCol]; ok && c.flagFires(raw) {
			v.Anomalous = true
			if len(v.Methods) == 0 {
				if sourceHint != "" {
					add(sourceHint)
				} else {
					add("Unknown")
				}
			}
		}
	}

	// The method column is informational: carried through verbatim for
	// anomalous rows, never itself a flag.
	if v.Anomalous && methodCol != "" {
		if raw, ok := row[methodCol]; ok && raw != nil {
			add(strings.TrimSpace(fmt.Sprint(raw)))
		}
	}

	return v
}

func (c Config) flagFires(raw any) bool {
	if raw == nil {
		return false
	}
	if n, ok := normalize.Number(raw); ok && n == c.FlagSentinel {
		return true
	}
	token := strings.ToLower(strings.TrimSpace(fmt.Sprint(raw)))
	for _, t := range c.TruthyTokens {
		if token == t {
			return true
		}
	}
	return false
}
