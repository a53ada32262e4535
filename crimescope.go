// Package crimescope is a U.S. crime statistics dashboard.
//
// The core is a filter/aggregation pipeline over (year, state, metric)
// records:
//
//	import "github.com/spektr-org/crimescope/engine"
//
//	points := engine.Aggregate(records, engine.FilterSpec{
//	    StartYear: 2010, EndYear: 2023, State: "CA",
//	})
//
// Aggregate filters to an inclusive year range and an optional state, sums
// the metric per year, and returns the series in ascending year order.
// Execute wraps it with chart, table, and text builders.
//
// Loading (package dataset), rendering (render, parallel, sankey), and
// scene control (dashboard) live around the pipeline. The pipeline never
// loads data and never errors.
package crimescope
