package dataset

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/logger"
	"github.com/spektr-org/crimescope/schema"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.InitWriter(&buf, "debug", "compact")
	t.Cleanup(func() { logger.Init("info", "compact") })
	return &buf
}

func TestLoadCSV(t *testing.T) {
	logs := captureLogs(t)
	path := writeFile(t, "crimes.csv", "year,state_abbr,aggravated_assault\n2012,CA,100\n2012,NY,50\n2013,CA,80\n2013,TX,N/A\n")

	ds, err := NewLoader(schema.EstimatedCrimes, false).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ds.Source != SourceFile || ds.IsFallback() {
		t.Errorf("Source = %q, want file", ds.Source)
	}
	if ds.ID.String() == "" || ds.Path != path {
		t.Errorf("dataset identity: %+v", ds)
	}
	if ds.Report.Rows != 4 || ds.Report.WellFormed != 3 {
		t.Errorf("report = %+v", ds.Report)
	}
	if !strings.Contains(logs.String(), "1 malformed rows excluded") {
		t.Errorf("expected malformed WARN, got logs:\n%s", logs.String())
	}

	points := engine.Aggregate(ds.Records, engine.FilterSpec{StartYear: 2012, EndYear: 2013})
	if len(points) != 2 || points[0].Total != 150 || points[1].Total != 80 {
		t.Errorf("Aggregate = %v", points)
	}
}

func TestLoadJSONByExtension(t *testing.T) {
	path := writeFile(t, "crimes.json", `[{"year": 2012, "state_abbr": "CA", "aggravated_assault": 7}]`)
	ds, err := NewLoader(schema.EstimatedCrimes, false).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(ds.Records) != 1 || ds.Records[0].Metric != 7 {
		t.Errorf("records = %+v", ds.Records)
	}
}

func TestLoadErrorWithoutFallback(t *testing.T) {
	_, err := NewLoader(schema.EstimatedCrimes, false).Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	if err == nil {
		t.Fatal("expected error for a missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist: %v", err)
	}
}

func TestLoadFallback(t *testing.T) {
	logs := captureLogs(t)
	missing := filepath.Join(t.TempDir(), "missing.csv")

	ds, err := NewLoader(schema.EstimatedCrimes, true).Load(context.Background(), missing)
	if err != nil {
		t.Fatalf("Load with fallback failed: %v", err)
	}
	if !ds.IsFallback() || ds.LoadErr == nil {
		t.Errorf("fallback dataset not marked: source=%q err=%v", ds.Source, ds.LoadErr)
	}
	if len(ds.Records) != len(SampleEstimatedCrimes()) {
		t.Errorf("fallback records = %d", len(ds.Records))
	}
	if !strings.Contains(logs.String(), "using fallback dataset") {
		t.Errorf("expected fallback WARN, got logs:\n%s", logs.String())
	}

	custom := []engine.Record{{Year: 2000, State: "CA", Metric: 1}}
	l := NewLoader(schema.EstimatedCrimes, true)
	l.Fallback = custom
	ds, err = l.Load(context.Background(), missing)
	if err != nil || len(ds.Records) != 1 {
		t.Errorf("custom fallback: ds=%+v err=%v", ds, err)
	}
}

func TestLoadHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "year,state_abbr,aggravated_assault\n")
	_, err := NewLoader(schema.EstimatedCrimes, false).Load(context.Background(), path)
	if !errors.Is(err, ErrNoRecords) {
		t.Errorf("err = %v, want ErrNoRecords", err)
	}
}

func TestLoadRenamedColumnsWarns(t *testing.T) {
	logs := captureLogs(t)
	path := writeFile(t, "renamed.csv", "Year,State,Assaults\n2012,CA,100\n")

	ds, err := NewLoader(schema.EstimatedCrimes, true).Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// Renamed columns are a data problem, not a load failure.
	if ds.IsFallback() {
		t.Error("renamed columns should not trigger the fallback")
	}
	if ds.Report.WellFormed != 0 {
		t.Errorf("WellFormed = %d, want 0", ds.Report.WellFormed)
	}
	if !strings.Contains(logs.String(), "no well-formed rows") {
		t.Errorf("expected WARN for zero well-formed rows, got:\n%s", logs.String())
	}
}

func TestLoadCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLoader(schema.EstimatedCrimes, true).Load(ctx, "whatever.csv")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled even with fallback enabled", err)
	}
}

func TestWriteMetrics(t *testing.T) {
	path := writeFile(t, "crimes.csv", "year,state_abbr,aggravated_assault\n2012,CA,x\n")
	if _, err := NewLoader(schema.EstimatedCrimes, false).Load(context.Background(), path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "crimescope.prom")
	if err := WriteMetrics(out); err != nil {
		t.Fatalf("WriteMetrics failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	for _, want := range []string{
		"crimescope_rows_loaded_total",
		`crimescope_rows_rejected_total{reason="metric"}`,
		"crimescope_load_duration_seconds",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics output missing %q:\n%s", want, text)
		}
	}
}

func TestSamples(t *testing.T) {
	recs := SampleEstimatedCrimes()
	if len(recs) != 6*14 {
		t.Errorf("sample rows = %d, want 84", len(recs))
	}
	points := engine.Aggregate(recs, engine.FilterSpec{StartYear: 2010, EndYear: 2023, State: "CA"})
	if len(points) != 14 || points[0].Year != 2010 || points[13].Year != 2023 {
		t.Errorf("CA sample series = %v", points)
	}

	trend := SampleOffenderTrend()
	if len(trend) != 14 || trend[0].State != "" {
		t.Errorf("offender trend = %+v", trend)
	}
}
