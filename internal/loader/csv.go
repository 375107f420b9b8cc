package loader

import (
	"encoding/csv"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// CSV reads a comma-delimited file with a required header row.
func CSV(path string) (*model.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // allow variable fields
	reader.LazyQuotes = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "loader: parse csv %s", path)
	}
	if len(all) == 0 {
		return nil, eris.Errorf("loader: %s has no header row", path)
	}

	for _, rec := range all {
		for i, field := range rec {
			rec[i] = strings.TrimSpace(field)
		}
	}

	header := all[0]
	return &model.RawTable{
		Source:  path,
		Format:  model.FormatTabular,
		Columns: header,
		Rows:    rowsFromCells(header, all[1:]),
	}, nil
}
