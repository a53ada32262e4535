package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/schema"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.Record
// ============================================================================
// Consumer reads the CSV from wherever it lives (file, embedded sample, HTTP).
// This helper converts the raw bytes into loose rows, then coerces them
// through the column mapping into strict records.
// ============================================================================

// Row is one loosely-typed tabular row keyed by snake_case column name.
type Row map[string]string

// ReadCSVRows reads CSV bytes into rows keyed by the normalized header.
// Rows with a field-count mismatch are kept; missing cells read as "".
// A header with no data rows yields an empty slice, not an error.
func ReadCSVRows(data []byte) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = schema.ToKey(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []Row
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue // skip rows the CSV reader cannot split
		}

		row := make(Row, len(keys))
		for i, key := range keys {
			if key == "" {
				continue
			}
			if i < len(fields) {
				row[key] = fields[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseCSV parses CSV bytes into Records using cols for the mapping.
func ParseCSV(data []byte, cols schema.Columns) ([]engine.Record, LoadReport, error) {
	rows, err := ReadCSVRows(data)
	if err != nil {
		return nil, LoadReport{}, err
	}
	records, report := CoerceRecords(rows, cols)
	return records, report, nil
}

// ============================================================================
// CSV OUTPUT
// ============================================================================

// WriteSeriesCSV writes an aggregated series as "year,<metric>" rows.
func WriteSeriesCSV(w io.Writer, metric string, points []engine.AggregatedPoint) error {
	if metric == "" {
		metric = "total"
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"year", metric}); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{
			strconv.Itoa(p.Year),
			strconv.FormatFloat(p.Total, 'f', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
