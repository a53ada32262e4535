package engine

import (
	"strings"
	"testing"
)

// ============================================================================
// EXECUTOR TESTS
// ============================================================================

var assaultRecords = []Record{
	{Year: 2010, State: "CA", Metric: 120},
	{Year: 2010, State: "TX", Metric: 80},
	{Year: 2011, State: "CA", Metric: 140},
	{Year: 2011, State: "TX", Metric: 90},
	{Year: 2012, State: "CA", Metric: 400},
	{Year: 2012, State: "TX", Metric: 100},
	{Year: 2013, State: "CA", Metric: 0, Reject: RejectMetric},
	{Year: 2013, State: "TX", Metric: 60},
}

func TestExecuteLineChart(t *testing.T) {
	q := ExploreQuery{
		Filter:      FilterSpec{StartYear: 2012, EndYear: 2010, State: "CA"},
		MetricLabel: "Aggravated Assault Count",
		Reply:       "{total} assaults in {state} over {period}",
	}
	res, err := Execute(q, NewSliceView(assaultRecords))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Type != "chart" || res.NoData {
		t.Fatalf("type=%q noData=%v, want chart with data", res.Type, res.NoData)
	}
	if res.ChartConfig == nil || res.ChartConfig.ChartType != "line" {
		t.Fatalf("chart config = %+v, want line", res.ChartConfig)
	}
	data := res.ChartConfig.Series[0].Data
	if len(data) != 3 {
		t.Fatalf("got %d points, want 3", len(data))
	}
	if data[0].Year != 2010 || data[2].Year != 2012 || data[2].Value != 400 {
		t.Errorf("series = %+v", data)
	}
	if data[1].Tooltip != "Year: 2011, Count: 140" {
		t.Errorf("tooltip = %q", data[1].Tooltip)
	}
	if res.Filter.StartYear != 2010 || res.Filter.EndYear != 2012 {
		t.Errorf("filter not normalized: %+v", res.Filter)
	}
	if res.Reply != "660 assaults in CA over 2010 – 2012" {
		t.Errorf("reply = %q", res.Reply)
	}
	if res.Stats == nil || res.Stats.MaxYear != 2012 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestExecuteBarChartFixedAxis(t *testing.T) {
	q := ExploreQuery{
		Filter:    FilterSpec{StartYear: 2010, EndYear: 2011, State: "CA"},
		Visualize: "bar",
		Year:      2011,
	}
	res, err := Execute(q, NewSliceView(assaultRecords))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	cfg := res.ChartConfig
	if cfg == nil || cfg.ChartType != "bar" {
		t.Fatalf("chart config = %+v, want bar", cfg)
	}
	// y max spans every CA year, not just the displayed range
	if cfg.YMax != 400 {
		t.Errorf("YMax = %v, want 400", cfg.YMax)
	}
	if len(cfg.Series[0].Data) != 1 || cfg.Series[0].Data[0].Value != 140 {
		t.Errorf("bar data = %+v", cfg.Series[0].Data)
	}
	if cfg.Title != "Count (2011)" {
		t.Errorf("title = %q", cfg.Title)
	}
	if len(res.Series) != 1 || res.Series[0].Year != 2011 {
		t.Errorf("series = %+v", res.Series)
	}
	// stats describe the displayed bar, not the widened y-axis series
	if res.Stats == nil || res.Stats.Sum != 140 || res.Stats.Points != 1 {
		t.Errorf("stats = %+v, want the 2011 bar only", res.Stats)
	}
}

func TestExecuteBarChartMissingYear(t *testing.T) {
	q := ExploreQuery{
		Filter:    FilterSpec{StartYear: 2010, EndYear: 2013, State: "CA"},
		Visualize: "bar",
		Year:      2013,
	}
	res, err := Execute(q, NewSliceView(assaultRecords))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.NoData || res.ChartConfig != nil {
		t.Fatalf("want no-data result, got %+v", res)
	}
	if res.Reply != "No data for year 2013" {
		t.Errorf("reply = %q", res.Reply)
	}
	if len(res.Series) != 0 {
		t.Errorf("series = %+v, want empty for a missing year", res.Series)
	}
	if res.Stats != nil {
		t.Errorf("stats = %+v, want nil", res.Stats)
	}
}

func TestExecuteLowerCaseState(t *testing.T) {
	q := ExploreQuery{Filter: FilterSpec{StartYear: 2010, EndYear: 2011, State: " ca "}}
	res, err := Execute(q, NewSliceView(assaultRecords))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.NoData {
		t.Fatalf("lower-case state gave no data: %+v", res)
	}
	if res.Filter.State != "CA" {
		t.Errorf("filter state = %q, want CA", res.Filter.State)
	}
	if len(res.Series) != 2 || res.Series[1].Total != 140 {
		t.Errorf("series = %+v", res.Series)
	}
}

func TestExecuteNoData(t *testing.T) {
	q := ExploreQuery{Filter: FilterSpec{StartYear: 1990, EndYear: 1995, State: AllStates}}
	res, err := Execute(q, NewSliceView(assaultRecords))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.NoData || res.Reply != NoDataReply {
		t.Errorf("result = %+v, want no data", res)
	}
	if res.ChartConfig != nil {
		t.Error("no-data result should not carry a chart")
	}
	if len(res.Series) != 0 {
		t.Errorf("series = %v, want empty", res.Series)
	}
}

func TestExecuteMalformedCounted(t *testing.T) {
	var hooked int
	q := ExploreQuery{Filter: FilterSpec{StartYear: 2013, EndYear: 2013}, Intent: "text"}
	res, err := Execute(q, NewSliceView(assaultRecords),
		WithRejectHook(func(Record, RejectReason) { hooked++ }),
		WithUnit("offenses"))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if hooked != 1 {
		t.Errorf("reject hook called %d times, want 1", hooked)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "1 malformed") {
		t.Errorf("errors = %v", res.Errors)
	}
	if res.Data == nil || res.Data.Value != "60" || res.Data.Unit != "offenses" {
		t.Errorf("text data = %+v", res.Data)
	}
}

func TestExecuteTable(t *testing.T) {
	q := ExploreQuery{Filter: FilterSpec{StartYear: 2010, EndYear: 2012}, Intent: "table", MetricLabel: "Assaults"}
	res, err := Execute(q, NewSliceView(assaultRecords))
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	tbl := res.TableData
	if tbl == nil || len(tbl.Rows) != 3 {
		t.Fatalf("table = %+v", tbl)
	}
	if tbl.Rows[0][0] != "2010" || tbl.Rows[0][1] != "200" {
		t.Errorf("first row = %v", tbl.Rows[0])
	}
	if tbl.Columns[1].Label != "Assaults" {
		t.Errorf("column label = %q", tbl.Columns[1].Label)
	}
	if tbl.Summary == nil || tbl.Summary.Values["total"] != "930" {
		t.Errorf("summary = %+v", tbl.Summary)
	}
}

func TestExecuteRejectsUnknownIntent(t *testing.T) {
	if _, err := Execute(ExploreQuery{Intent: "pie"}, NewSliceView(nil)); err == nil {
		t.Error("expected error for unknown intent")
	}
	if _, err := Execute(ExploreQuery{Visualize: "pie"}, NewSliceView(nil)); err == nil {
		t.Error("expected error for unknown chart type")
	}
}

// ── Normalization + placeholders ─────────────────────────────────────────────

func TestNormalizeQuery(t *testing.T) {
	q := NormalizeQuery(ExploreQuery{
		Filter:    FilterSpec{StartYear: 2015, EndYear: 2011, State: " all "},
		Visualize: "BAR",
	})
	if q.Intent != "chart" || q.Visualize != "bar" {
		t.Errorf("intent=%q visualize=%q", q.Intent, q.Visualize)
	}
	if q.Year != 2015 {
		t.Errorf("bar year = %d, want end of range 2015", q.Year)
	}
	if q.Filter.State != AllStates || q.Filter.StartYear != 2011 {
		t.Errorf("filter = %+v", q.Filter)
	}
}

func TestResolvePlaceholders(t *testing.T) {
	points := []AggregatedPoint{{2010, 100}, {2011, 150}, {2012, 200}}
	q := ExploreQuery{Filter: FilterSpec{State: "TX"}, MetricLabel: "Assaults"}

	got := ResolvePlaceholders("{metric} {direction} by {growth_percent}, peak {peak_year}", q, points)
	if got != "Assaults increased by 100.0%, peak 2012" {
		t.Errorf("got %q", got)
	}

	got = ResolvePlaceholders("{total} in {state} {unknown}", q, points)
	if got != "450 in TX" {
		t.Errorf("unresolved placeholder not stripped: %q", got)
	}

	got = ResolvePlaceholders("", q, points)
	if got != "Assaults for TX, 2010 – 2012: 450." {
		t.Errorf("default reply = %q", got)
	}
}

func TestBuildGrowth(t *testing.T) {
	g := BuildGrowth([]AggregatedPoint{{2010, 200}, {2011, 150}})
	if g.Direction != "decreased" || g.ChangePercent != -25 {
		t.Errorf("growth = %+v", g)
	}
	if FormatGrowth(g) != "↓ 25.0%" {
		t.Errorf("FormatGrowth = %q", FormatGrowth(g))
	}
	if g := BuildGrowth([]AggregatedPoint{{2010, 5}}); g.Direction != "insufficient data" {
		t.Errorf("single point growth = %+v", g)
	}
	if BuildGrowth(nil) != nil {
		t.Error("BuildGrowth(nil) should be nil")
	}
	if g := BuildGrowth([]AggregatedPoint{{2010, 1000}, {2011, 1002}}); g.Direction != "unchanged" {
		t.Errorf("small change direction = %q", g.Direction)
	}
}

func TestDerivePeriod(t *testing.T) {
	if got := DerivePeriod(nil); got != "No data" {
		t.Errorf("empty = %q", got)
	}
	if got := DerivePeriod([]AggregatedPoint{{2012, 1}}); got != "2012" {
		t.Errorf("single = %q", got)
	}
	if got := DerivePeriod([]AggregatedPoint{{2010, 1}, {2014, 1}}); got != "2010 – 2014" {
		t.Errorf("range = %q", got)
	}
}
