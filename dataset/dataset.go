package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/helpers"
	"github.com/spektr-org/crimescope/logger"
	"github.com/spektr-org/crimescope/schema"
)

// ============================================================================
// DATASET LOADER — File → []engine.Record with an explicit fallback policy
// ============================================================================
// A failed load is an error unless UseFallbackDataset is set, in which case
// the bundled sample records are used and the substitution is logged.
// Substituted data is always marked with Source "fallback", so it can
// never pass for the real dataset.
// ============================================================================

// ErrNoRecords is returned when a file parses but holds no data rows.
var ErrNoRecords = errors.New("dataset has no records")

// Source values for Dataset.Source.
const (
	SourceFile     = "file"
	SourceFallback = "fallback"
)

// Dataset is one completed load.
type Dataset struct {
	ID       uuid.UUID          `json:"id"`
	Source   string             `json:"source"`
	Path     string             `json:"path"`
	Columns  schema.Columns     `json:"columns"`
	Records  []engine.Record    `json:"-"`
	Report   helpers.LoadReport `json:"report"`
	LoadedAt time.Time          `json:"loadedAt"`

	// LoadErr is the error that triggered a fallback, if any.
	LoadErr error `json:"-"`
}

// View returns the records as a RecordView.
func (d *Dataset) View() engine.RecordView {
	return engine.NewSliceView(d.Records)
}

// IsFallback reports whether the records are the bundled substitute.
func (d *Dataset) IsFallback() bool {
	return d.Source == SourceFallback
}

// Loader reads crime tables from disk.
type Loader struct {
	Columns            schema.Columns
	Format             string // "auto" (by extension), "csv", "json"
	UseFallbackDataset bool
	Fallback           []engine.Record // nil → SampleEstimatedCrimes()

	// ReadFile defaults to os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// NewLoader creates a loader for the given column mapping.
func NewLoader(cols schema.Columns, useFallback bool) *Loader {
	return &Loader{Columns: cols, Format: "auto", UseFallbackDataset: useFallback}
}

// Load reads and coerces path. On failure it either returns the error or,
// when UseFallbackDataset is set, a fallback Dataset with LoadErr populated.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	start := time.Now()

	ds, err := l.loadFile(ctx, path)
	if err == nil {
		loadDuration.WithLabelValues(SourceFile).Observe(time.Since(start).Seconds())
		return ds, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil, err
	}
	if !l.UseFallbackDataset {
		return nil, err
	}

	logger.Warn("⚠️  crimescope: load of %s failed (%v); using fallback dataset", path, err)
	fallbackLoadsTotal.Inc()

	records := l.Fallback
	if records == nil {
		records = SampleEstimatedCrimes()
	}
	ds = &Dataset{
		ID:       uuid.New(),
		Source:   SourceFallback,
		Path:     path,
		Columns:  l.Columns,
		Records:  records,
		Report:   reportFor(records),
		LoadedAt: time.Now(),
		LoadErr:  err,
	}
	loadDuration.WithLabelValues(SourceFallback).Observe(time.Since(start).Seconds())
	return ds, nil
}

func (l *Loader) loadFile(ctx context.Context, path string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	read := l.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var rows []helpers.Row
	switch l.format(path) {
	case "json":
		rows, err = helpers.ReadJSONRows(data)
	default:
		rows, err = helpers.ReadCSVRows(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoRecords)
	}

	records, report := helpers.CoerceRecords(rows, l.Columns)
	rowsLoadedTotal.Add(float64(report.Rows))
	for reason, n := range report.Rejected {
		observeReject(reason, n)
	}

	logger.Info("📂 crimescope: loaded %s: %d rows, %d well-formed, %d malformed",
		path, report.Rows, report.WellFormed, report.RejectedTotal())
	if report.RejectedTotal() > 0 {
		logger.Warn("⚠️  crimescope: %s: %d malformed rows excluded (year=%d metric=%d)",
			path, report.RejectedTotal(), report.Rejected[engine.RejectYear], report.Rejected[engine.RejectMetric])
	}
	if report.WellFormed == 0 {
		logger.Warn("⚠️  crimescope: %s has no well-formed rows; missing columns: %v",
			path, report.MissingColumns)
	}

	return &Dataset{
		ID:       uuid.New(),
		Source:   SourceFile,
		Path:     path,
		Columns:  l.Columns,
		Records:  records,
		Report:   report,
		LoadedAt: time.Now(),
	}, nil
}

func (l *Loader) format(path string) string {
	f := strings.ToLower(strings.TrimSpace(l.Format))
	if f == "csv" || f == "json" {
		return f
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "csv"
}

func reportFor(records []engine.Record) helpers.LoadReport {
	report := helpers.LoadReport{
		Rows:     len(records),
		Rejected: make(map[engine.RejectReason]int),
	}
	for _, r := range records {
		if reason := r.Reason(); reason != engine.RejectNone {
			report.Rejected[reason]++
		} else {
			report.WellFormed++
		}
	}
	return report
}

// Timer returns a prometheus timer for callers that load through other paths.
func Timer(source string) *prometheus.Timer {
	return prometheus.NewTimer(loadDuration.WithLabelValues(source))
}
