// Package selector picks which canonical records are worth reporting.
// Exactly one policy is active per run; non-anomalous records are never
// selected under any policy.
package selector

import (
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// Policy identifies a selection strategy.
type Policy string

const (
	// RecencyWindow keeps anomalous records within a fixed duration before now.
	RecencyWindow Policy = "recency-window"
	// LatestPerGroup keeps the chronologically last anomalous record per group key.
	LatestPerGroup Policy = "latest-per-group"
	// LatestGlobal keeps anomalous records at the universe's maximum instant,
	// merging same-city rows across detectors.
	LatestGlobal Policy = "latest-global-then-filter"
)

// ParsePolicy resolves a configured policy identifier. An unknown
// identifier is a configuration error and must abort the run before any
// input file is read.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case RecencyWindow, LatestPerGroup, LatestGlobal:
		return Policy(s), nil
	}
	return "", eris.Errorf("selector: unknown policy %q", s)
}

// GroupKey identifies the grouping for LatestPerGroup.
type GroupKey string

const (
	GroupByCity       GroupKey = "city"
	GroupByCityMethod GroupKey = "city_method"
)

// ParseGroupKey resolves a configured group key identifier.
func ParseGroupKey(s string) (GroupKey, error) {
	switch GroupKey(s) {
	case GroupByCity, GroupByCityMethod:
		return GroupKey(s), nil
	}
	return "", eris.Errorf("selector: unknown group key %q", s)
}

// Options configures one selection pass.
type Options struct {
	Policy  Policy
	Window  time.Duration // RecencyWindow only
	GroupBy GroupKey      // LatestPerGroup only
}

// Selector applies a selection policy against an explicit time source.
type Selector struct {
	clock clockwork.Clock
}

// New returns a Selector on the real clock.
func New() *Selector {
	return &Selector{clock: clockwork.NewRealClock()}
}

// NewWithClock returns a Selector on the given clock, for deterministic tests.
func NewWithClock(c clockwork.Clock) *Selector {
	return &Selector{clock: c}
}

// Select returns the records to report, time-ordered ascending. The input
// is never mutated; merged rows are fresh records.
func (s *Selector) Select(universe []model.CanonicalRecord, opts Options) []model.CanonicalRecord {
	var out []model.CanonicalRecord

	switch opts.Policy {
	case RecencyWindow:
		cutoff := s.clock.Now().UTC().Add(-opts.Window)
		for _, rec := range universe {
			if rec.IsAnomalous && !rec.Instant.Before(cutoff) {
				out = append(out, rec)
			}
		}

	case LatestPerGroup:
		latest := make(map[string]model.CanonicalRecord)
		var order []string
		for _, rec := range universe {
			if !rec.IsAnomalous {
				continue
			}
			key := groupKey(rec, opts.GroupBy)
			prev, seen := latest[key]
			// Ties on identical instant: later input order wins, matching
			// "most recently observed".
			if !seen {
				order = append(order, key)
			}
			if !seen || !rec.Instant.Before(prev.Instant) {
				latest[key] = rec
			}
		}
		for _, key := range order {
			out = append(out, latest[key])
		}

	case LatestGlobal:
		var max time.Time
		for _, rec := range universe {
			if rec.Instant.After(max) {
				max = rec.Instant
			}
		}
		merged := make(map[string]model.CanonicalRecord)
		var order []string
		for _, rec := range universe {
			if !rec.IsAnomalous || !rec.Instant.Equal(max) {
				continue
			}
			prev, seen := merged[rec.City]
			if !seen {
				order = append(order, rec.City)
				merged[rec.City] = cloneRecord(rec)
				continue
			}
			merged[rec.City] = mergeRecords(prev, rec)
		}
		for _, city := range order {
			out = append(out, merged[city])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Instant.Before(out[j].Instant)
	})
	return out
}

func groupKey(rec model.CanonicalRecord, by GroupKey) string {
	if by == GroupByCityMethod {
		key := rec.City
		for _, m := range rec.Methods {
			key += "\x00" + m
		}
		return key
	}
	return rec.City
}

func cloneRecord(rec model.CanonicalRecord) model.CanonicalRecord {
	out := rec
	out.Methods = append([]string(nil), rec.Methods...)
	out.Sources = append([]string(nil), rec.Sources...)
	return out
}

// mergeRecords fuses two same-city same-instant records into one row whose
// methods and sources are deduplicated unions. Measurement values fill in
// from whichever record has them first.
func mergeRecords(a, b model.CanonicalRecord) model.CanonicalRecord {
	out := a
	out.Methods = unionStrings(a.Methods, b.Methods)
	out.Sources = unionStrings(a.Sources, b.Sources)
	if out.AQI == nil {
		out.AQI = b.AQI
	}
	if out.Wind == nil {
		out.Wind = b.Wind
	}
	return out
}

func unionStrings(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
