package model

import "time"

// CanonicalRecord is the unified anomaly-report unit, independent of the
// source file schema. Records are created in bulk per RawTable and never
// mutated afterwards; the selector and renderer only filter and group.
//
// Invariants: Instant is always set (rows without a parseable timestamp are
// dropped before reaching this type), City is never empty, and
// IsAnomalous == true implies Methods is non-empty.
type CanonicalRecord struct {
	City        string    `json:"city"`
	Instant     time.Time `json:"instant"` // UTC-normalized
	AQI         *float64  `json:"aqi,omitempty"`
	Wind        *float64  `json:"wind,omitempty"`
	IsAnomalous bool      `json:"is_anomalous"`
	Methods     []string  `json:"methods,omitempty"` // distinct, detection order
	Sources     []string  `json:"sources"`           // provenance, always retained
}
