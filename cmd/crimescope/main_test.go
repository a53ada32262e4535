package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spektr-org/crimescope/config"
	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/render"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestApplyFlags(t *testing.T) {
	cfg := testConfig(t)
	applyFlags(cfg, cliFlags{filePath: "x.csv", startYear: 2012, state: "NY", year: 2013})
	if cfg.Data.File != "x.csv" || cfg.Explore.StartYear != 2012 || cfg.Explore.EndYear != 2023 {
		t.Errorf("applyFlags: data=%+v explore=%+v", cfg.Data, cfg.Explore)
	}
	if cfg.Explore.State != "NY" || cfg.Explore.Chart != "bar" {
		t.Errorf("state=%q chart=%q, want NY/bar", cfg.Explore.State, cfg.Explore.Chart)
	}
}

func TestBrushList(t *testing.T) {
	var b brushList
	b.Set("arrest_rate:30:40")
	b.Set("avg_victim_age:30:35")
	if len(b) != 2 || b.String() != "arrest_rate:30:40,avg_victim_age:30:35" {
		t.Errorf("brushList = %v", b)
	}
}

func writeCrimesFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crimes.csv")
	data := "year,state_abbr,aggravated_assault\n2010,CA,100\n2010,TX,50\n2011,CA,N/A\n2011,TX,70\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunExploreCSV(t *testing.T) {
	path := writeCrimesFile(t)
	cfg := testConfig(t)
	applyFlags(cfg, cliFlags{filePath: path})

	var buf bytes.Buffer
	if err := runExplore(context.Background(), &buf, cfg, cliFlags{format: "csv"}); err != nil {
		t.Fatalf("runExplore: %v", err)
	}
	want := "year,aggravated_assault\n2010,150\n2011,70\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRunExploreLowerCaseState(t *testing.T) {
	cfg := testConfig(t)
	applyFlags(cfg, cliFlags{filePath: writeCrimesFile(t), state: "ca"})

	var buf bytes.Buffer
	if err := runExplore(context.Background(), &buf, cfg, cliFlags{format: "csv"}); err != nil {
		t.Fatalf("runExplore: %v", err)
	}
	if want := "year,aggravated_assault\n2010,100\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestRunExploreBarMissingYearCSV(t *testing.T) {
	cfg := testConfig(t)
	applyFlags(cfg, cliFlags{filePath: writeCrimesFile(t), year: 2015})

	var buf bytes.Buffer
	if err := runExplore(context.Background(), &buf, cfg, cliFlags{format: "csv", year: 2015}); err != nil {
		t.Fatalf("runExplore: %v", err)
	}
	if want := "year,aggravated_assault\n"; buf.String() != want {
		t.Errorf("missing year wrote rows: %q", buf.String())
	}
}

func TestRunExploreJSONSelectors(t *testing.T) {
	cfg := testConfig(t)
	applyFlags(cfg, cliFlags{filePath: writeCrimesFile(t)})

	var buf bytes.Buffer
	if err := runExplore(context.Background(), &buf, cfg, cliFlags{format: "json"}); err != nil {
		t.Fatalf("runExplore: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"states":[{"value":"ALL","label":"All"},{"value":"CA","label":"CA"}`) {
		t.Errorf("state selector missing: %s", out)
	}
	if !strings.Contains(out, `"years":[{"value":"2010","label":"2010"},{"value":"2011","label":"2011"}]`) {
		t.Errorf("year selector missing: %s", out)
	}
}

func TestRunExploreMissingFile(t *testing.T) {
	cfg := testConfig(t)
	applyFlags(cfg, cliFlags{filePath: filepath.Join(t.TempDir(), "missing.csv")})
	if err := runExplore(context.Background(), &bytes.Buffer{}, cfg, cliFlags{format: "json"}); err == nil {
		t.Error("expected error without fallback")
	}

	cfg.Data.UseFallbackDataset = true
	var buf bytes.Buffer
	if err := runExplore(context.Background(), &buf, cfg, cliFlags{format: "json"}); err != nil {
		t.Fatalf("fallback explore: %v", err)
	}
	if !strings.Contains(buf.String(), `"fallback":true`) {
		t.Errorf("fallback not marked: %s", buf.String())
	}
}

func TestRunTrendSample(t *testing.T) {
	var buf bytes.Buffer
	if err := runTrend(context.Background(), &buf, testConfig(t), cliFlags{format: "csv"}); err != nil {
		t.Fatalf("runTrend: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "year,total_offender_count" || len(lines) != 15 {
		t.Errorf("trend csv = %q", buf.String())
	}
}

func TestRunTrendText(t *testing.T) {
	var buf bytes.Buffer
	if err := runTrend(context.Background(), &buf, testConfig(t), cliFlags{format: "text"}); err != nil {
		t.Fatalf("runTrend: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Offender Count, ") {
		t.Errorf("trend reply missing metric label: %q", buf.String())
	}
}

func TestRunSankeyCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := runSankey(&buf, "csv"); err != nil {
		t.Fatalf("runSankey: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "source,target,value\n") || !strings.Contains(out, "\nGun,Male,50\n") {
		t.Errorf("sankey csv = %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteLinksCSVError(t *testing.T) {
	if err := runSankey(failingWriter{}, "csv"); err == nil {
		t.Error("expected write error")
	}
}

func TestRunSankeyText(t *testing.T) {
	var buf bytes.Buffer
	if err := runSankey(&buf, "text"); err != nil {
		t.Fatalf("runSankey: %v", err)
	}
	if !strings.Contains(buf.String(), "Knife → Male:") {
		t.Errorf("sankey text = %q", buf.String())
	}
}

func TestRunParallelBrush(t *testing.T) {
	var buf bytes.Buffer
	f := cliFlags{format: "csv", brushes: brushList{"firearm_percentage:40:50", "arrest_rate:35:40"}}
	if err := runParallel(&buf, testConfig(t), f); err != nil {
		t.Fatalf("runParallel: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Errorf("got %d lines, want header + 5 states:\n%s", len(lines), buf.String())
	}

	var text bytes.Buffer
	f = cliFlags{format: "text", brushes: brushList{"arrest_rate:1000:2000"}}
	if err := runParallel(&text, testConfig(t), f); err != nil {
		t.Fatalf("runParallel text: %v", err)
	}
	if strings.TrimSpace(text.String()) != "No states match the active brushes." {
		t.Errorf("empty brush text = %q", text.String())
	}

	f.brushes = brushList{"bogus:1:2"}
	if err := runParallel(&bytes.Buffer{}, testConfig(t), f); err == nil {
		t.Error("expected error for unknown brush dimension")
	}
}

func TestWriteResultText(t *testing.T) {
	res, err := engine.Execute(engine.ExploreQuery{
		Filter:      engine.FilterSpec{StartYear: 1990, EndYear: 1991},
		MetricLabel: "Count",
	}, engine.NewSliceView(nil))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := writeResult(&buf, res, res, "text", "count", render.Options{Width: 800, Height: 400}); err != nil {
		t.Fatalf("writeResult: %v", err)
	}
	if strings.TrimSpace(buf.String()) != engine.NoDataReply {
		t.Errorf("no-data text = %q", buf.String())
	}
}
