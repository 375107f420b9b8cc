package loader

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/heydaisyilu/Automatic-Anomaly-Detection-System/internal/model"
)

// JSON reads a hierarchical file: either an object whose "data" field is a
// list of row-objects, or a bare top-level list of row-objects.
func JSON(path string) (*model.RawTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "loader: read %s", path)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "loader: parse json %s", path)
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		list, ok := v["data"].([]any)
		if !ok {
			return nil, eris.Errorf("loader: %s has no list-valued data field", path)
		}
		items = list
	default:
		return nil, eris.Errorf("loader: %s is neither object nor list", path)
	}

	rows := make([]model.Row, 0, len(items))
	var columns []string
	seen := make(map[string]bool)

	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, eris.Errorf("loader: %s contains a non-object row", path)
		}
		rows = append(rows, model.Row(obj))

		// Column order: first-seen across rows, keys sorted within a row
		// so the result is deterministic.
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
		}
	}

	return &model.RawTable{
		Source:  path,
		Format:  model.FormatHierarchical,
		Columns: columns,
		Rows:    rows,
	}, nil
}
