package dataset

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/spektr-org/crimescope/engine"
)

// -----------------------------------------------------------------------------
// Metrics
// -----------------------------------------------------------------------------

// Registry holds the loader metrics. It is separate from the default
// registry so textfile output contains only crimescope series.
var Registry = prometheus.NewRegistry()

var (
	rowsLoadedTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "crimescope_rows_loaded_total",
		Help: "Total number of tabular rows read by the dataset loader",
	})

	rowsRejectedTotal = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "crimescope_rows_rejected_total",
		Help: "Rows kept out of aggregation because a field failed to parse",
	}, []string{"reason"})

	fallbackLoadsTotal = promauto.With(Registry).NewCounter(prometheus.CounterOpts{
		Name: "crimescope_fallback_loads_total",
		Help: "Loads that substituted the bundled fallback dataset",
	})

	loadDuration = promauto.With(Registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crimescope_load_duration_seconds",
		Help:    "Duration of dataset loads",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"source"})
)

func observeReject(reason engine.RejectReason, n int) {
	if n > 0 {
		rowsRejectedTotal.WithLabelValues(string(reason)).Add(float64(n))
	}
}

// WriteMetrics writes the loader metrics in the node_exporter textfile format.
func WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
