// Package pipeline canonicalizes raw detector tables into the unified
// anomaly-record universe.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/fusion"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/normalize"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/resolve"
)

// Options configures canonicalization. Zero values are not usable; callers
// build Options from validated configuration.
type Options struct {
	Aliases     resolve.AliasTable
	Fusion      fusion.Config
	AssumedZone *time.Location
	MaxParallel int
}

// Stats counts what canonicalization discarded.
type Stats struct {
	TablesSkipped int
	RowsDropped   int
}

// Canonicalize converts one RawTable into CanonicalRecords. A table whose
// schema cannot be resolved is skipped entirely; individual rows missing a
// city or a parseable instant are dropped and counted. Output order matches
// input row order.
func Canonicalize(t *model.RawTable, opts Options) ([]model.CanonicalRecord, Stats) {
	var stats Stats
	log := zap.L().With(zap.String("source", t.Source))

	timeCol, ok := opts.Aliases.Resolve(t.Columns, resolve.FieldTime)
	if !ok {
		log.Warn("no time column resolved, skipping table")
		stats.TablesSkipped = 1
		return nil, stats
	}

	cityCol, hasCityCol := opts.Aliases.Resolve(t.Columns, resolve.FieldCity)
	fallbackCity := normalize.CityFromSource(t.Source)
	if !hasCityCol && fallbackCity == "" {
		log.Warn("no city column resolved and none derivable from source, skipping table")
		stats.TablesSkipped = 1
		return nil, stats
	}

	aqiCol, _ := opts.Aliases.Resolve(t.Columns, resolve.FieldAQI)
	windCol, _ := opts.Aliases.Resolve(t.Columns, resolve.FieldWind)
	flagCol, _ := opts.Aliases.Resolve(t.Columns, resolve.FieldFlag)
	methodCol, _ := opts.Aliases.Resolve(t.Columns, resolve.FieldMethod)
	sourceHint := normalize.MethodFromSource(t.Source)

	records := make([]model.CanonicalRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		instant, ok := normalize.Instant(row[timeCol], opts.AssumedZone)
		if !ok {
			stats.RowsDropped++
			continue
		}

		city := fallbackCity
		if hasCityCol {
			if raw := row[cityCol]; raw != nil {
				if s := strings.TrimSpace(fmt.Sprint(raw)); s != "" {
					city = s
				}
			}
		}
		if city == "" {
			stats.RowsDropped++
			continue
		}

		verdict := opts.Fusion.Evaluate(row, flagCol, methodCol, sourceHint)

		rec := model.CanonicalRecord{
			City:        city,
			Instant:     instant,
			IsAnomalous: verdict.Anomalous,
			Methods:     verdict.Methods,
			Sources:     []string{t.Source},
		}
		if aqiCol != "" {
			if n, ok := normalize.Number(row[aqiCol]); ok {
				rec.AQI = &n
			}
		}
		if windCol != "" {
			if n, ok := normalize.Number(row[windCol]); ok {
				rec.Wind = &n
			}
		}
		records = append(records, rec)
	}

	if stats.RowsDropped > 0 {
		log.Info("dropped rows during canonicalization", zap.Int("dropped", stats.RowsDropped))
	}
	return records, stats
}

// CanonicalizeAll canonicalizes tables in parallel (each table is a pure,
// independent unit of work) and joins the results back in input-table order
// before any selection happens.
func CanonicalizeAll(ctx context.Context, tables []*model.RawTable, opts Options) ([]model.CanonicalRecord, Stats, error) {
	perTable := make([][]model.CanonicalRecord, len(tables))
	perStats := make([]Stats, len(tables))

	g, _ := errgroup.WithContext(ctx)
	limit := opts.MaxParallel
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i, t := range tables {
		g.Go(func() error {
			perTable[i], perStats[i] = Canonicalize(t, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, err
	}

	var out []model.CanonicalRecord
	var total Stats
	for i := range tables {
		out = append(out, perTable[i]...)
		total.TablesSkipped += perStats[i].TablesSkipped
		total.RowsDropped += perStats[i].RowsDropped
	}
	return out, total, nil
}
