package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/schema"
)

// ============================================================================
// JSON HELPER — Parses a JSON array of objects into []engine.Record
// ============================================================================
// Values are stringified as written (numbers keep their literal text) so
// the same coercion rules apply to CSV and JSON sources.
// ============================================================================

// ReadJSONRows reads a JSON array of flat objects into rows.
func ReadJSONRows(data []byte) ([]Row, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("failed to decode JSON rows: %w", err)
	}

	rows := make([]Row, 0, len(objects))
	for _, obj := range objects {
		row := make(Row, len(obj))
		for k, v := range obj {
			row[schema.ToKey(k)] = stringify(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseJSON parses JSON bytes into Records using cols for the mapping.
func ParseJSON(data []byte, cols schema.Columns) ([]engine.Record, LoadReport, error) {
	rows, err := ReadJSONRows(data)
	if err != nil {
		return nil, LoadReport{}, err
	}
	records, report := CoerceRecords(rows, cols)
	return records, report, nil
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	}
}
