package normalize

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Detector output file naming conventions:
//   anomalies_<city>_<year>.csv   (isolation forest)
//   <city>_zscore.csv             (z-score)
var (
	isoNameRe    = regexp.MustCompile(`^anomalies_(.+?)_\d{4}$`)
	zscoreNameRe = regexp.MustCompile(`^(.+?)_zscore$`)
)

// CityFromSource derives a city name from a source identifier when the
// table carries no city column.
func CityFromSource(source string) string {
	stem := filepath.Base(source)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	if m := isoNameRe.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	if m := zscoreNameRe.FindStringSubmatch(stem); m != nil {
		return m[1]
	}
	return stem
}

// MethodFromSource guesses the detector name from a source path. Used only
// as the method label of last resort when a generic flag fires without any
// named detector signal. Empty when the path reveals nothing.
func MethodFromSource(source string) string {
	p := strings.ToLower(strings.ReplaceAll(source, "\\", "/"))
	stem := filepath.Base(p)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))

	switch {
	case strings.Contains(p, "/z_score/") || strings.HasSuffix(stem, "_zscore"):
		return "Z-score"
	case strings.Contains(p, "/isolation_forest/") || strings.HasPrefix(stem, "anomalies_"):
		return "IsolationForest"
	}
	return ""
}
