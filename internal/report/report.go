// Package report renders selected anomaly records into the Markdown table
// artifact and writes it to disk.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// Renderer formats selected records for the given display zone and locale.
type Renderer struct {
	zone    *time.Location
	printer *message.Printer
	clock   clockwork.Clock
}

// NewRenderer builds a Renderer. The locale must already be validated.
func NewRenderer(zone *time.Location, locale string, clock clockwork.Clock) *Renderer {
	return &Renderer{
		zone:    zone,
		printer: message.NewPrinter(language.Make(locale)),
		clock:   clock,
	}
}

// Render produces the Markdown report for records already time-ordered
// ascending. An empty selection yields an empty string: no artifact is a
// valid outcome, distinct from an error.
func (r *Renderer) Render(records []model.CanonicalRecord) string {
	if len(records) == 0 {
		return ""
	}

	now := r.clock.Now().In(r.zone)
	_, offset := now.Zone()
	zoneLabel := fmt.Sprintf("UTC%+d", offset/3600)

	var b strings.Builder
	fmt.Fprintf(&b, "# Cảnh báo bất thường AQI/Gió — %s\n\n", now.Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&b, "| Thành phố | Thời điểm (%s) | AQI | Gió | Phương pháp | Nguồn |\n", zoneLabel)
	b.WriteString("|---|---:|---:|---:|---|---|\n")

	for _, rec := range records {
		ts := rec.Instant.In(r.zone).Format("2006-01-02 15:04")

		aqi := ""
		if rec.AQI != nil {
			aqi = r.printer.Sprintf("%.0f", *rec.AQI)
		}
		wind := ""
		if rec.Wind != nil {
			wind = r.printer.Sprintf("%.2f", *rec.Wind)
		}

		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			rec.City, ts, aqi, wind,
			strings.Join(rec.Methods, ", "),
			strings.Join(rec.Sources, "; "))
	}

	return b.String()
}

// Write stores the rendered artifact atomically (temp file then rename).
// Empty content writes nothing and removes no existing artifact.
func Write(path, content string) error {
	if content == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir for %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(content), 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "report: rename %s", path)
	}
	return nil
}
