package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "aqinotify",
	Short: "Canonicalize per-city anomaly detector output and report recent anomalies",
	Long:  "Ingests detector output files of unpredictable schema (CSV, JSON, XLSX), normalizes them into canonical anomaly records, fuses overlapping detector verdicts per city, and renders a Markdown alert report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
