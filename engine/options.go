package engine

// ============================================================================
// ENGINE OPTIONS — Functional options for AggregateView() and Execute()
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	RejectHook  func(Record, RejectReason) // observes malformed rows; never changes output
	MetricLabel string                     // default y-axis label when the query has none
	Unit        string                     // unit suffix for text answers
}

// WithRejectHook registers a callback for every malformed record the filter
// step excludes. Callers use it to count or log rejects; the hook must not
// mutate shared state without its own synchronization.
func WithRejectHook(fn func(Record, RejectReason)) Option {
	return func(c *config) {
		c.RejectHook = fn
	}
}

// WithMetricLabel sets the label used when ExploreQuery.MetricLabel is empty.
func WithMetricLabel(label string) Option {
	return func(c *config) {
		c.MetricLabel = label
	}
}

// WithUnit sets the unit attached to text answers (e.g. "offenses").
func WithUnit(unit string) Option {
	return func(c *config) {
		c.Unit = unit
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		MetricLabel: "Count",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
