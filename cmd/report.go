package main

import (
	"context"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/config"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/fusion"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/loader"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/pipeline"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/report"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/resolve"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/selector"
	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/store"
)

var reportChangedList string

var reportCmd = &cobra.Command{
	Use:   "report [files...]",
	Short: "Run the full pipeline once and write the report artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), cfg, args)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportChangedList, "changed-list", "",
		"file listing changed input paths, one per line (overrides the directory scan)")
	rootCmd.AddCommand(reportCmd)
}

// runReport executes one pipeline pass: enumerate, load, canonicalize,
// select, render, persist the run summary.
func runReport(ctx context.Context, cfg *config.Config, args []string) error {
	log := zap.L()

	// Configuration errors are fatal before any file is read.
	policy, err := selector.ParsePolicy(cfg.Select.Policy)
	if err != nil {
		return err
	}
	groupBy, err := selector.ParseGroupKey(cfg.Select.GroupBy)
	if err != nil {
		return err
	}
	aliases := resolve.Default()
	if cfg.Input.AliasFile != "" {
		aliases, err = resolve.LoadFile(cfg.Input.AliasFile)
		if err != nil {
			return err
		}
	}

	st, err := store.Open(cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()
	if err := st.Migrate(ctx); err != nil {
		return err
	}

	run := model.RunSummary{Policy: cfg.Select.Policy}

	files, err := enumerateInputs(cfg, args)
	if err != nil {
		return err
	}
	run.FilesSeen = len(files)

	if len(files) == 0 {
		log.Info("no input files found", zap.String("dir", cfg.Input.Dir))
		return st.RecordRun(ctx, &run)
	}

	var tables []*model.RawTable
	for _, path := range files {
		t, err := loader.Load(path)
		if err != nil {
			log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			run.FilesSkipped++
			continue
		}
		tables = append(tables, t)
	}

	records, stats, err := pipeline.CanonicalizeAll(ctx, tables, pipeline.Options{
		Aliases:     aliases,
		Fusion:      fusion.DefaultConfig(),
		AssumedZone: cfg.AssumedLocation(),
		MaxParallel: cfg.Pipeline.MaxParallel,
	})
	if err != nil {
		return err
	}
	run.TablesSkipped = stats.TablesSkipped
	run.RowsDropped = stats.RowsDropped
	run.Records = len(records)

	if len(records) == 0 {
		if len(tables) == 0 {
			log.Warn("files present but none parseable", zap.Int("files", len(files)))
		} else {
			log.Info("no canonical records after canonicalization",
				zap.Int("tables", len(tables)),
				zap.Int("tables_skipped", stats.TablesSkipped),
				zap.Int("rows_dropped", stats.RowsDropped))
		}
		return st.RecordRun(ctx, &run)
	}

	clock := clockwork.NewRealClock()
	selected := selector.NewWithClock(clock).Select(records, selector.Options{
		Policy:  policy,
		Window:  cfg.Select.Window,
		GroupBy: groupBy,
	})
	run.Selected = len(selected)

	if len(selected) == 0 {
		log.Info("no anomalies to report",
			zap.Int("records", len(records)),
			zap.String("policy", cfg.Select.Policy))
		return st.RecordRun(ctx, &run)
	}

	renderer := report.NewRenderer(cfg.DisplayLocation(), cfg.Report.Locale, clock)
	content := renderer.Render(selected)
	if err := report.Write(cfg.Report.OutPath, content); err != nil {
		return err
	}
	run.ArtifactPath = cfg.Report.OutPath

	log.Info("wrote anomaly report",
		zap.String("path", cfg.Report.OutPath),
		zap.Int("selected", len(selected)))

	return st.RecordRun(ctx, &run)
}

// enumerateInputs resolves the run's input files: explicit args win, then a
// changed-files list, then a recursive scan of the input directory.
func enumerateInputs(cfg *config.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		var files []string
		for _, path := range args {
			if loader.Supported(path) {
				files = append(files, path)
			} else {
				zap.L().Warn("ignoring unsupported input", zap.String("path", path))
			}
		}
		return files, nil
	}

	if reportChangedList != "" {
		return loader.ReadChangedList(reportChangedList)
	}

	files, err := loader.Scan(cfg.Input.Dir)
	if err != nil {
		return nil, eris.Wrapf(err, "enumerate inputs in %s", cfg.Input.Dir)
	}
	return files, nil
}
