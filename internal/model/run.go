package model

import "time"

// RunSummary records the outcome of one pipeline pass for auditing.
type RunSummary struct {
	ID            string    `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	Policy        string    `json:"policy"`
	FilesSeen     int       `json:"files_seen"`
	FilesSkipped  int       `json:"files_skipped"`
	TablesSkipped int       `json:"tables_skipped"`
	RowsDropped   int       `json:"rows_dropped"`
	Records       int       `json:"records"`
	Selected      int       `json:"selected"`
	ArtifactPath  string    `json:"artifact_path,omitempty"`
}
