package engine

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// ============================================================================
// AGGREGATORS — Filter, Group by Year, Sum, Sort
// ============================================================================
// Pipeline: drop malformed → range → state → group by year → sum → sort.
// Pure: no I/O, no shared state. Safe to call concurrently.
// ============================================================================

// Aggregate is the main entry point for the aggregation pipeline.
// It returns one point per distinct year present in the filtered input,
// ascending by year. Years with no surviving records are absent (no gap
// filling). An empty result is a zero-length, non-nil slice.
func Aggregate(records []Record, filter FilterSpec) []AggregatedPoint {
	return AggregateView(NewSliceView(records), filter)
}

// AggregateView runs Aggregate over any RecordView.
func AggregateView(view RecordView, filter FilterSpec, opts ...Option) []AggregatedPoint {
	cfg := applyOptions(opts)

	// 1–3. Malformed, range, and state filters in one pass
	filtered := applyFilter(view, filter.Normalize(), cfg)

	// 4. Group and sum
	groups := GroupByYear(filtered)

	// 5. One point per year, ascending
	return pointsFromGroups(groups)
}

// ============================================================================
// GROUPING
// ============================================================================

// GroupByYear groups a view by year and sums the metric of each group.
// Groups come back sorted ascending by year.
func GroupByYear(view RecordView) []Group {
	grouped := make(map[int][]int)
	for i := 0; i < view.Len(); i++ {
		y := view.At(i).Year
		grouped[y] = append(grouped[y], i)
	}

	years := make([]int, 0, len(grouped))
	for y := range grouped {
		years = append(years, y)
	}
	sort.Ints(years)

	groups := make([]Group, 0, len(years))
	for _, y := range years {
		sub := newSubView(view, grouped[y])
		groups = append(groups, Group{
			Year:  y,
			Label: strconv.Itoa(y),
			Value: SumMetric(sub),
			Count: sub.Len(),
			View:  sub,
		})
	}
	return groups
}

// SumMetric sums the metric across a view.
func SumMetric(view RecordView) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.At(i).Metric
	}
	return total
}

// ============================================================================
// SINGLE-YEAR SELECTION
// ============================================================================

// SelectYear finds the point for year in an ascending series.
func SelectYear(points []AggregatedPoint, year int) (AggregatedPoint, bool) {
	i := sort.Search(len(points), func(i int) bool { return points[i].Year >= year })
	if i < len(points) && points[i].Year == year {
		return points[i], true
	}
	return AggregatedPoint{}, false
}

// YearTotal aggregates a single year: the degenerate range [year, year].
func YearTotal(records []Record, year int, state string) (AggregatedPoint, bool) {
	points := Aggregate(records, FilterSpec{State: state}.ForYear(year))
	if len(points) == 0 {
		return AggregatedPoint{}, false
	}
	return points[0], true
}

// ============================================================================
// SERIES HELPERS
// ============================================================================

// MaxTotal returns the largest total in a series, or 0 when empty.
func MaxTotal(points []AggregatedPoint) float64 {
	m := 0.0
	for i, p := range points {
		if i == 0 || p.Total > m {
			m = p.Total
		}
	}
	return m
}

// YearExtent returns the first and last year of an ascending series.
func YearExtent(points []AggregatedPoint) (first, last int, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	return points[0].Year, points[len(points)-1].Year, true
}

// Summarize computes descriptive statistics over the totals of a series.
func Summarize(points []AggregatedPoint) SeriesSummary {
	s := SeriesSummary{Points: len(points)}
	if len(points) == 0 {
		return s
	}

	xs := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Total
	}
	sample := stats.Sample{Xs: xs}
	s.Sum = sample.Sum()
	s.Mean = sample.Mean()
	if len(xs) > 1 {
		s.StdDev = sample.StdDev()
	}
	s.Min, s.Max = sample.Bounds()

	minSeen, maxSeen := false, false
	for _, p := range points {
		if !minSeen && p.Total == s.Min {
			s.MinYear, minSeen = p.Year, true
		}
		if !maxSeen && p.Total == s.Max {
			s.MaxYear, maxSeen = p.Year, true
		}
	}
	return s
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatCount formats a total: whole numbers with comma separators,
// fractional values rounded to one decimal.
func FormatCount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	if v < 0 {
		return "-" + FormatCount(-v)
	}
	r := math.Round(v*10) / 10
	whole := math.Trunc(r)
	if r == whole {
		return FormatInt(int(whole))
	}
	tenth := int(math.Round((r - whole) * 10))
	return fmt.Sprintf("%s.%d", FormatInt(int(whole)), tenth)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// StateLabel returns a display label for a state filter value.
func StateLabel(state string) string {
	if (FilterSpec{State: state}).IsAllStates() {
		return "all states"
	}
	return strings.TrimSpace(state)
}
