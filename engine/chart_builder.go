package engine

import (
	"fmt"
	"strconv"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from ExploreQuery + series
// ============================================================================
// Line charts map year → horizontal position and total → vertical position.
// Bar charts show one year against a y axis fixed across all years, so
// flipping between years does not rescale the bar.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#FF00FF", "#4682B4", "#E74C3C", "#3498DB", "#27AE60",
	"#9B59B6", "#F59E0B", "#06B6D4", "#EC4899", "#84CC16",
}

// Tooltip returns the hover text for a series point.
func Tooltip(p AggregatedPoint) string {
	return fmt.Sprintf("Year: %d, Count: %s", p.Year, FormatCount(p.Total))
}

// BuildLineChart produces a ChartConfig from a query and its aggregated series.
// Returns nil for an empty series; callers render the "no data" state instead.
func BuildLineChart(query ExploreQuery, points []AggregatedPoint) *ChartConfig {
	if len(points) == 0 {
		return nil
	}

	cfg := &ChartConfig{
		ChartType:  "line",
		Title:      query.Title,
		XAxis:      "Year",
		YAxis:      query.MetricLabel,
		ShowLegend: false,
		ShowGrid:   true,
	}
	cfg.Series = []ChartSeries{buildSeries(points, seriesName(query))}
	cfg.Colors = assignColors(len(cfg.Series))
	cfg.Series[0].Color = cfg.Colors[0]
	return cfg
}

// BuildBarChart produces a single-bar ChartConfig for year, with YMax pinned
// to the largest total across all of points. Returns nil when year is absent.
func BuildBarChart(query ExploreQuery, points []AggregatedPoint, year int) *ChartConfig {
	p, ok := SelectYear(points, year)
	if !ok {
		return nil
	}

	title := query.Title
	if title == "" {
		title = fmt.Sprintf("%s (%d)", query.MetricLabel, year)
	}

	cfg := &ChartConfig{
		ChartType:  "bar",
		Title:      title,
		XAxis:      "Year",
		YAxis:      query.MetricLabel,
		YMax:       MaxTotal(points),
		ShowLegend: false,
		ShowGrid:   true,
	}
	cfg.Series = []ChartSeries{buildSeries([]AggregatedPoint{p}, seriesName(query))}
	cfg.Colors = []string{"#4682B4"}
	cfg.Series[0].Color = cfg.Colors[0]
	return cfg
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSeries(points []AggregatedPoint, name string) ChartSeries {
	data := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		data = append(data, ChartPoint{
			Label:   strconv.Itoa(p.Year),
			Year:    p.Year,
			Value:   RoundTo2(p.Total),
			Tooltip: Tooltip(p),
		})
	}
	return ChartSeries{Name: name, Data: data}
}

func seriesName(query ExploreQuery) string {
	if query.MetricLabel != "" {
		return query.MetricLabel
	}
	return "Value"
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
