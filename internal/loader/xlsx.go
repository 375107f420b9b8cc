package loader

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// XLSX reads the first sheet of a spreadsheet, first row as header.
func XLSX(path string) (*model.RawTable, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("loader: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, eris.Errorf("loader: %s has no header row", path)
	}

	cells := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rec := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			rec = append(rec, strings.TrimSpace(cell.String()))
		}
		cells = append(cells, rec)
	}

	header := cells[0]
	return &model.RawTable{
		Source:  path,
		Format:  model.FormatTabular,
		Columns: header,
		Rows:    rowsFromCells(header, cells[1:]),
	}, nil
}
