package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// First embedded numeral in a string, so "7.4 km/h" -> 7.4 and "78%" -> 78.
var numRe = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// Number extracts a numeric value from a raw cell. Numeric types pass
// through; strings yield their first embedded numeral.
func Number(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}

	s := strings.TrimSpace(fmt.Sprint(raw))
	if s == "" {
		return 0, false
	}
	m := numRe.FindString(s)
	if m == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
