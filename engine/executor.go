package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spektr-org/crimescope/logger"
)

// ============================================================================
// EXECUTOR — Explore Dispatcher + Placeholder Resolution
// ============================================================================
// Entry point: Execute(query, view, opts...)
//
// Pipeline:
//   1. Normalize the query (range order, state sentinel, bar year)
//   2. Filter + aggregate → ascending year series
//   3. Dispatch to builder (chart / table / text)
//   4. Resolve reply template placeholders
//   5. Return Result
//
// Execute never loads data. Callers hand it an already-loaded view.
// ============================================================================

// NoDataReply is the reply for a selection with no surviving records.
const NoDataReply = "No data for this selection"

// Execute runs an ExploreQuery against a RecordView and returns a render-ready Result.
func Execute(query ExploreQuery, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	query = NormalizeQuery(query)
	if query.MetricLabel == "" {
		query.MetricLabel = cfg.MetricLabel
	}

	switch query.Intent {
	case "chart", "table", "text":
	default:
		return nil, fmt.Errorf("unknown intent %q", query.Intent)
	}
	if query.Intent == "chart" && query.Visualize != "line" && query.Visualize != "bar" {
		return nil, fmt.Errorf("unknown chart type %q", query.Visualize)
	}

	var rejected int
	userHook := cfg.RejectHook
	cfg.RejectHook = func(r Record, reason RejectReason) {
		rejected++
		if userHook != nil {
			userHook(r, reason)
		}
	}

	// Bar charts need every year of the state selection for the fixed y max.
	aggFilter := query.Filter
	if query.Visualize == "bar" && query.Intent == "chart" {
		aggFilter.StartYear, aggFilter.EndYear = minInt, maxInt
	}

	filtered := applyFilter(view, aggFilter, cfg)
	points := pointsFromGroups(GroupByYear(filtered))
	logger.Debug("🔧 crimescope: %d records, %d kept, %d malformed, %d years, filter=%+v",
		view.Len(), filtered.Len(), rejected, len(points), query.Filter)

	result := &Result{
		Success: true,
		Title:   query.Title,
		Filter:  query.Filter,
		Series:  points,
	}
	if rejected > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("%d malformed records excluded", rejected))
	}

	// The widened series only feeds the bar y max; the result carries the one bar.
	isBar := query.Visualize == "bar" && query.Intent == "chart"
	if isBar {
		p, ok := SelectYear(points, query.Year)
		if !ok {
			result.Type = "text"
			result.NoData = true
			result.Series = []AggregatedPoint{}
			result.Reply = fmt.Sprintf("No data for year %d", query.Year)
			return result, nil
		}
		result.Series = []AggregatedPoint{p}
	}

	if len(result.Series) == 0 {
		result.Type = "text"
		result.NoData = true
		result.Reply = NoDataReply
		result.Data = BuildText(result.Series, cfg.Unit)
		return result, nil
	}

	stats := Summarize(result.Series)
	result.Stats = &stats
	result.Summary = fmt.Sprintf("%d years, %s total", len(result.Series), FormatCount(stats.Sum))

	switch query.Intent {
	case "chart":
		result.Type = "chart"
		if isBar {
			result.ChartConfig = BuildBarChart(query, points, query.Year)
		} else {
			result.ChartConfig = BuildLineChart(query, points)
		}
	case "table":
		result.Type = "table"
		result.TableData = BuildTable(query, points)
	case "text":
		result.Type = "text"
		result.Data = BuildText(points, cfg.Unit)
	}

	result.Reply = ResolvePlaceholders(query.Reply, query, result.Series)
	return result, nil
}

const (
	minInt = -int(^uint(0)>>1) - 1
	maxInt = int(^uint(0) >> 1)
)

func pointsFromGroups(groups []Group) []AggregatedPoint {
	points := make([]AggregatedPoint, len(groups))
	for i, g := range groups {
		points[i] = AggregatedPoint{Year: g.Year, Total: g.Value}
	}
	return points
}

// ============================================================================
// QUERY NORMALIZATION
// ============================================================================

// NormalizeQuery applies deterministic rules to a query built from UI state.
func NormalizeQuery(q ExploreQuery) ExploreQuery {
	q.Filter = q.Filter.Normalize()
	q.Intent = strings.ToLower(strings.TrimSpace(q.Intent))
	q.Visualize = strings.ToLower(strings.TrimSpace(q.Visualize))

	// Rule 1: no intent → chart
	if q.Intent == "" {
		q.Intent = "chart"
	}

	// Rule 2: charts default to a line
	if q.Intent == "chart" && q.Visualize == "" {
		q.Visualize = "line"
	}

	// Rule 3: bar without a year shows the end of the range
	if q.Visualize == "bar" && q.Year == 0 {
		q.Year = q.Filter.EndYear
	}

	return q
}

// ============================================================================
// PLACEHOLDER RESOLUTION
// ============================================================================

// ResolvePlaceholders substitutes computed values into the reply template.
func ResolvePlaceholders(template string, query ExploreQuery, points []AggregatedPoint) string {
	if template == "" {
		return buildDefaultReply(query, points)
	}

	s := Summarize(points)
	replacements := map[string]string{
		"{total}":  FormatCount(s.Sum),
		"{count}":  fmt.Sprintf("%d", s.Points),
		"{period}": DerivePeriod(points),
		"{state}":  StateLabel(query.Filter.State),
		"{metric}": query.MetricLabel,
	}

	if s.Points > 0 {
		replacements["{avg}"] = FormatCount(s.Mean)
		replacements["{peak_year}"] = fmt.Sprintf("%d", s.MaxYear)
		replacements["{peak_total}"] = FormatCount(s.Max)
	}

	if g := BuildGrowth(points); g != nil && g.Direction != "insufficient data" {
		replacements["{growth_percent}"] = fmt.Sprintf("%.1f%%", g.ChangePercent)
		replacements["{direction}"] = g.Direction
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	// Safety net: strip unresolved placeholders
	return stripUnresolvedPlaceholders(result)
}

// ============================================================================
// INTERNAL HELPERS
// ============================================================================

func buildDefaultReply(query ExploreQuery, points []AggregatedPoint) string {
	if len(points) == 0 {
		return NoDataReply
	}
	return fmt.Sprintf("%s for %s, %s: %s.",
		query.MetricLabel, StateLabel(query.Filter.State), DerivePeriod(points), FormatCount(Summarize(points).Sum))
}

var placeholderRegex = regexp.MustCompile(`\{[a-z_]+\}`)

func stripUnresolvedPlaceholders(text string) string {
	cleaned := placeholderRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimRight(cleaned, " .—-–")
	if cleaned == "" {
		return text
	}
	return cleaned
}
