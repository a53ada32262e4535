package helpers

import (
	"math"
	"strings"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/schema"
)

// ============================================================================
// COERCION — Loose rows → strict engine.Record
// ============================================================================
// The single place where untyped cells become numbers. A row whose year or
// metric cannot be parsed is kept and marked with a RejectReason, so the
// pipeline excludes it and callers can count it. Coercion never fails.
// ============================================================================

// LoadReport counts what coercion saw.
type LoadReport struct {
	Rows           int                         `json:"rows"`
	WellFormed     int                         `json:"wellFormed"`
	Rejected       map[engine.RejectReason]int `json:"rejected,omitempty"`
	MissingColumns []string                    `json:"missingColumns,omitempty"`
}

// RejectedTotal returns the number of malformed rows.
func (r LoadReport) RejectedTotal() int {
	n := 0
	for _, c := range r.Rejected {
		n += c
	}
	return n
}

// CoerceRecords maps rows onto records using cols. Column names are matched
// in snake_case form. A missing state column leaves State empty.
func CoerceRecords(rows []Row, cols schema.Columns) ([]engine.Record, LoadReport) {
	cols = cols.Normalized()
	report := LoadReport{
		Rows:           len(rows),
		Rejected:       make(map[engine.RejectReason]int),
		MissingColumns: missingColumns(rows, cols),
	}

	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		rec := CoerceRow(row, cols)
		if rec.Reject != engine.RejectNone {
			report.Rejected[rec.Reject]++
		} else {
			report.WellFormed++
		}
		records = append(records, rec)
	}
	return records, report
}

// CoerceRow converts a single row. cols must already be normalized.
func CoerceRow(row Row, cols schema.Columns) engine.Record {
	var rec engine.Record
	if cols.State != "" {
		rec.State = strings.ToUpper(strings.TrimSpace(row[cols.State]))
	}

	year, ok := parseYear(row[cols.Year])
	if !ok {
		rec.Reject = engine.RejectYear
		return rec
	}
	rec.Year = year

	metric, ok := schema.ParseNumber(row[cols.Metric])
	if !ok {
		rec.Reject = engine.RejectMetric
		return rec
	}
	rec.Metric = metric
	return rec
}

// parseYear accepts whole numbers only; "2012.0" is accepted, "2012.5" is not.
func parseYear(s string) (int, bool) {
	f, ok := schema.ParseNumber(s)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func missingColumns(rows []Row, cols schema.Columns) []string {
	if len(rows) == 0 {
		return nil
	}
	var missing []string
	for _, c := range []string{cols.Year, cols.State, cols.Metric} {
		if c == "" {
			continue
		}
		if _, ok := rows[0][c]; !ok {
			missing = append(missing, c)
		}
	}
	return missing
}
