// Package loader reads detector output files into RawTables. Each file is
// read in one blocking pass; a failure is returned to the caller, which
// logs and skips that file without aborting the run.
package loader

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// Load reads one file into a RawTable, dispatching on extension.
func Load(path string) (*model.RawTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return CSV(path)
	case ".json":
		return JSON(path)
	case ".xlsx":
		return XLSX(path)
	default:
		return nil, eris.Errorf("loader: unsupported file type %s", path)
	}
}

// Supported reports whether the loader can handle the file.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json", ".xlsx":
		return true
	}
	return false
}

// Scan walks a directory tree and returns every supported file, sorted.
// A missing directory is "no files", not an error.
func Scan(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && Supported(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "loader: scan %s", dir)
	}
	return paths, nil
}

// ReadChangedList reads a newline-separated list of file paths, as produced
// by a change-detection step. Blank lines and unsupported files are ignored.
func ReadChangedList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read changed list %s", path)
	}
	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && Supported(line) {
			paths = append(paths, line)
		}
	}
	return paths, nil
}

// rowsFromCells converts header + cell rows into row maps. Short rows are
// padded implicitly by omission; extra cells beyond the header are dropped.
func rowsFromCells(header []string, cells [][]string) []model.Row {
	rows := make([]model.Row, 0, len(cells))
	for _, rec := range cells {
		row := make(model.Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
