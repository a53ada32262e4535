package engine

import (
	"strconv"
)

// ============================================================================
// TABLE BUILDER — Produces TableData from an aggregated series
// ============================================================================

// BuildTable produces a Year / Total table with a grand-total summary row.
func BuildTable(query ExploreQuery, points []AggregatedPoint) *TableData {
	label := seriesName(query)
	table := &TableData{
		Title: query.Title,
		Columns: []Column{
			{Key: "year", Label: "Year", Type: "text", Align: "left"},
			{Key: "total", Label: label, Type: "number", Align: "right"},
		},
		Rows: make([][]string, 0, len(points)),
	}

	var total float64
	for _, p := range points {
		table.Rows = append(table.Rows, []string{strconv.Itoa(p.Year), FormatCount(p.Total)})
		total += p.Total
	}

	if len(points) > 0 {
		table.Summary = &Summary{
			Label: "Total",
			Values: map[string]string{
				"total": FormatCount(total),
			},
		}
	}
	return table
}
