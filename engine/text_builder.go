package engine

import (
	"fmt"
)

// ============================================================================
// TEXT BUILDER — Produces TextData for text answers
// ============================================================================

// BuildText summarizes a series as a single total plus growth data.
func BuildText(points []AggregatedPoint, unit string) *TextData {
	if len(points) == 0 {
		return &TextData{
			Value:  "0",
			Unit:   unit,
			Period: DerivePeriod(points),
		}
	}

	var total float64
	for _, p := range points {
		total += p.Total
	}

	return &TextData{
		Value:    FormatCount(total),
		RawValue: total,
		Unit:     unit,
		Period:   DerivePeriod(points),
		Count:    len(points),
		Growth:   BuildGrowth(points),
	}
}

// ============================================================================
// GROWTH BUILDER
// ============================================================================

// BuildGrowth compares the first and last year of an ascending series.
func BuildGrowth(points []AggregatedPoint) *GrowthData {
	if len(points) == 0 {
		return nil
	}

	earliest := points[0]
	latest := points[len(points)-1]

	if len(points) < 2 {
		return &GrowthData{
			EarliestValue: earliest.Total,
			LatestValue:   latest.Total,
			EarliestYear:  earliest.Year,
			LatestYear:    latest.Year,
			Direction:     "insufficient data",
		}
	}

	changeAmount := latest.Total - earliest.Total
	var changePercent float64
	if earliest.Total != 0 {
		changePercent = (changeAmount / earliest.Total) * 100
	}

	direction := "unchanged"
	if changePercent > 0.5 {
		direction = "increased"
	} else if changePercent < -0.5 {
		direction = "decreased"
	}

	return &GrowthData{
		EarliestValue: earliest.Total,
		LatestValue:   latest.Total,
		EarliestYear:  earliest.Year,
		LatestYear:    latest.Year,
		ChangeAmount:  changeAmount,
		ChangePercent: changePercent,
		Direction:     direction,
	}
}

// FormatGrowth renders growth as an arrow and percentage, e.g. "↑ 12.5%".
func FormatGrowth(g *GrowthData) string {
	if g == nil {
		return "No data"
	}
	abs := g.ChangePercent
	if abs < 0 {
		abs = -abs
	}
	switch g.Direction {
	case "increased":
		return fmt.Sprintf("↑ %.1f%%", abs)
	case "decreased":
		return fmt.Sprintf("↓ %.1f%%", abs)
	case "insufficient data":
		return "Need at least 2 years"
	default:
		return "→ No change"
	}
}

// ============================================================================
// PERIOD HELPER
// ============================================================================

// DerivePeriod builds a human-readable period string from an ascending series.
func DerivePeriod(points []AggregatedPoint) string {
	first, last, ok := YearExtent(points)
	if !ok {
		return "No data"
	}
	if first == last {
		return fmt.Sprintf("%d", first)
	}
	return fmt.Sprintf("%d – %d", first, last)
}
