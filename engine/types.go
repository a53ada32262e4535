package engine

import (
	"math"
	"strings"
)

// ============================================================================
// CRIMESCOPE ENGINE TYPES — Year/State/Metric Analytics
// ============================================================================
// Record is the strict row shape every consumer reads. Loose tabular rows are
// coerced into it exactly once, at the load boundary (package helpers).
//
// Dependency: engine imports only go-moremath (summary stats) and logger.
// ============================================================================

// ============================================================================
// RECORD — one (year, state, metric) observation
// ============================================================================

// RejectReason names why a row could not be coerced. Empty means well-formed.
type RejectReason string

const (
	RejectNone   RejectReason = ""
	RejectYear   RejectReason = "year"   // year missing or non-numeric
	RejectMetric RejectReason = "metric" // metric missing, non-numeric, or non-finite
)

// Record is a single crime-statistics observation.
//
// Records built in code are well-formed by default. The CSV/JSON coercion
// layer sets Reject when a year or metric field failed to parse, so the
// pipeline can exclude the row without the loader having to drop it.
type Record struct {
	Year   int          `json:"year"`
	State  string       `json:"state"`
	Metric float64      `json:"metric"`
	Reject RejectReason `json:"reject,omitempty"`
}

// WellFormed reports whether the record may take part in aggregation.
func (r Record) WellFormed() bool {
	return r.Reason() == RejectNone
}

// Reason returns the reject reason, treating non-finite metrics as malformed
// even when the record was built in code.
func (r Record) Reason() RejectReason {
	if r.Reject != RejectNone {
		return r.Reject
	}
	if math.IsNaN(r.Metric) || math.IsInf(r.Metric, 0) {
		return RejectMetric
	}
	return RejectNone
}

// ============================================================================
// FILTERSPEC — the active (year range, state) selection
// ============================================================================

// AllStates is the sentinel meaning "do not restrict by state".
// The empty string is accepted as an alias; the state selector sends "" for All.
const AllStates = "ALL"

// FilterSpec selects an inclusive year range and an optional state.
// Construct a fresh one from UI state on every recompute.
type FilterSpec struct {
	StartYear int    `json:"startYear"`
	EndYear   int    `json:"endYear"`
	State     string `json:"state"`
}

// Normalize returns f with StartYear <= EndYear and the state upper-cased,
// matching the form the loader stores records in.
func (f FilterSpec) Normalize() FilterSpec {
	if f.StartYear > f.EndYear {
		f.StartYear, f.EndYear = f.EndYear, f.StartYear
	}
	f.State = strings.ToUpper(strings.TrimSpace(f.State))
	if f.IsAllStates() {
		f.State = AllStates
	}
	return f
}

// IsAllStates reports whether the state filter is the "all" sentinel.
func (f FilterSpec) IsAllStates() bool {
	s := strings.TrimSpace(f.State)
	return s == "" || strings.EqualFold(s, AllStates)
}

// ForYear collapses the range to a single year, keeping the state filter.
func (f FilterSpec) ForYear(year int) FilterSpec {
	f.StartYear, f.EndYear = year, year
	return f
}

// ============================================================================
// AGGREGATED POINT — one year of a chart series
// ============================================================================

// AggregatedPoint is the total of the metric for one year after filtering.
type AggregatedPoint struct {
	Year  int     `json:"year"`
	Total float64 `json:"total"`
}

// ============================================================================
// EXPLORE QUERY — Contract between the dashboard controller and Execute
// ============================================================================

// ExploreQuery defines what Execute should compute for one recompute.
type ExploreQuery struct {
	Filter      FilterSpec `json:"filter"`
	Intent      string     `json:"intent"`      // "chart", "table", "text"
	Visualize   string     `json:"visualize"`   // "line", "bar"
	Year        int        `json:"year"`        // bar charts: the year to display (0 → end of range)
	Title       string     `json:"title"`       // chart/table title
	MetricLabel string     `json:"metricLabel"` // y-axis label, e.g. "Aggravated Assault Count"
	Reply       string     `json:"reply"`       // template: "{total} assaults in {state} over {period}."
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output.
type Result struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // "chart", "table", "text"
	Reply   string `json:"reply"`
	Title   string `json:"title"`
	Summary string `json:"summary"`

	// NoData is set when no record survived filtering. Renderers show an
	// explicit "no data" state instead of an empty chart.
	NoData bool `json:"noData"`

	// Exactly one of these is populated based on Type:
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
	Data        *TextData    `json:"data,omitempty"`

	// Pass-through for renderers and callers
	Filter FilterSpec        `json:"filter"`
	Series []AggregatedPoint `json:"series"`
	Stats  *SeriesSummary    `json:"stats,omitempty"`
	Errors []string          `json:"errors,omitempty"`
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group holds the records of one year and their aggregate.
type Group struct {
	Year  int        `json:"year"`
	Label string     `json:"label"`
	Value float64    `json:"value"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // records in this group (zero-copy)
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "line", "bar"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	YMax       float64       `json:"yMax,omitempty"` // fixed axis top; 0 = derive from data
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label   string  `json:"label"`
	Year    int     `json:"year"`
	Value   float64 `json:"value"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title   string     `json:"title"`
	Columns []Column   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Summary *Summary   `json:"summary,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// TEXT TYPES
// ============================================================================

// TextData is structured data for text answers (type="text").
type TextData struct {
	Value    string      `json:"value"`
	RawValue float64     `json:"rawValue"`
	Unit     string      `json:"unit"`
	Period   string      `json:"period"`
	Count    int         `json:"count"`
	Growth   *GrowthData `json:"growth,omitempty"`
}

// GrowthData contains change-over-time metrics between the first and last year.
type GrowthData struct {
	EarliestValue float64 `json:"earliestValue"`
	LatestValue   float64 `json:"latestValue"`
	EarliestYear  int     `json:"earliestYear"`
	LatestYear    int     `json:"latestYear"`
	ChangeAmount  float64 `json:"changeAmount"`
	ChangePercent float64 `json:"changePercent"`
	Direction     string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
}

// SeriesSummary describes an aggregated series.
type SeriesSummary struct {
	Points  int     `json:"points"`
	Sum     float64 `json:"sum"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"stdDev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	MinYear int     `json:"minYear"`
	MaxYear int     `json:"maxYear"`
}
