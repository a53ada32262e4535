package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spektr-org/crimescope/engine"
)

func lineConfig(points ...engine.AggregatedPoint) *engine.ChartConfig {
	q := engine.ExploreQuery{Title: "Assaults & Robberies", MetricLabel: "Aggravated Assault Count"}
	return engine.BuildLineChart(q, points)
}

func TestLineSVG(t *testing.T) {
	cfg := lineConfig(
		engine.AggregatedPoint{Year: 2010, Total: 120},
		engine.AggregatedPoint{Year: 2011, Total: 140},
		engine.AggregatedPoint{Year: 2012, Total: 400},
	)
	var buf bytes.Buffer
	if err := LineSVG(&buf, cfg, Options{}); err != nil {
		t.Fatalf("LineSVG: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<svg") {
		t.Errorf("output does not start with <svg: %.40q", out)
	}
	if !strings.Contains(out, "Assaults &amp; Robberies") {
		t.Error("title missing or unescaped")
	}
	if !strings.Contains(out, ">2011<") {
		t.Error("year tick label missing")
	}
}

func TestLineSVGSinglePoint(t *testing.T) {
	cfg := lineConfig(engine.AggregatedPoint{Year: 2015, Total: 0})
	var buf bytes.Buffer
	if err := LineSVG(&buf, cfg, DefaultOptions()); err != nil {
		t.Fatalf("single point LineSVG: %v", err)
	}
	if !strings.Contains(buf.String(), ">2015<") {
		t.Error("single year label missing")
	}
}

func TestBarSVG(t *testing.T) {
	points := []engine.AggregatedPoint{{Year: 2010, Total: 120}, {Year: 2011, Total: 400}}
	q := engine.ExploreQuery{MetricLabel: "Count"}

	for _, year := range []int{2010, 2011} {
		var buf bytes.Buffer
		if err := BarSVG(&buf, engine.BuildBarChart(q, points, year), Options{Width: 400, Height: 300}); err != nil {
			t.Fatalf("BarSVG(%d): %v", year, err)
		}
		if !strings.Contains(buf.String(), "Count (") {
			t.Errorf("bar %d: title missing", year)
		}
	}

	// all-zero bar still renders
	zero := engine.BuildBarChart(q, []engine.AggregatedPoint{{Year: 2010, Total: 0}}, 2010)
	if err := BarSVG(&bytes.Buffer{}, zero, Options{}); err != nil {
		t.Errorf("zero bar: %v", err)
	}
}

func TestChartNoData(t *testing.T) {
	for name, cfg := range map[string]*engine.ChartConfig{
		"nil":   nil,
		"empty": {ChartType: "line", Series: []engine.ChartSeries{{Name: "x"}}},
	} {
		var buf bytes.Buffer
		if err := Chart(&buf, cfg, Options{}); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if !strings.Contains(buf.String(), engine.NoDataReply) {
			t.Errorf("%s: no-data message missing", name)
		}
	}

	cfg := lineConfig(engine.AggregatedPoint{Year: 2010, Total: 1})
	cfg.ChartType = "pie"
	if err := Chart(&bytes.Buffer{}, cfg, Options{}); err == nil {
		t.Error("expected error for unsupported chart type")
	}
}

func TestTextTable(t *testing.T) {
	out := TextTable([]engine.AggregatedPoint{{Year: 2010, Total: 1234}, {Year: 2011, Total: 99}}, "Assaults in CA")
	for _, want := range []string{"Assaults in CA", "Year", "2010", "1,234", "Total 1,333", "peak 2010"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	if out := TextTable(nil, "Empty"); !strings.Contains(out, engine.NoDataReply) {
		t.Errorf("empty table = %q", out)
	}
}

func TestResultTable(t *testing.T) {
	q := engine.ExploreQuery{MetricLabel: "Assaults", Title: "By year"}
	td := engine.BuildTable(q, []engine.AggregatedPoint{{Year: 2010, Total: 200}, {Year: 2011, Total: 230}})
	out := ResultTable(td)
	for _, want := range []string{"By year", "Assaults", "2011", "Total: 430"} {
		if !strings.Contains(out, want) {
			t.Errorf("result table missing %q:\n%s", want, out)
		}
	}
}
