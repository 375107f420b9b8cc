package main

import (
	"io/fs"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report whenever the input directory changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		log := zap.L()
		limiter := rate.NewLimiter(rate.Every(watchInterval), 1)
		var lastSeen time.Time

		log.Info("watching input directory",
			zap.String("dir", cfg.Input.Dir),
			zap.Duration("interval", watchInterval))

		for {
			if err := limiter.Wait(ctx); err != nil {
				return nil // context cancelled, clean shutdown
			}

			newest := newestMtime(cfg.Input.Dir)
			if newest.IsZero() || !newest.After(lastSeen) {
				continue
			}
			lastSeen = newest

			if err := runReport(ctx, cfg, nil); err != nil {
				log.Error("report run failed", zap.Error(err))
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 30*time.Second, "minimum interval between directory checks")
	rootCmd.AddCommand(watchCmd)
}

// newestMtime returns the most recent modification time of any file under
// dir, or the zero time when the directory is missing or empty.
func newestMtime(dir string) time.Time {
	var newest time.Time
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
		return nil
	})
	return newest
}
