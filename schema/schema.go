package schema

import "strings"

// ============================================================================
// SCHEMA — Maps a crime-statistics table onto (year, state, metric)
// ============================================================================
// Columns names the three source columns the loader coerces into
// engine.Record. Presets cover the dashboard's bundled datasets; Discover
// suggests Columns for an unfamiliar CSV.
// ============================================================================

// Columns names the source columns for year, state and metric.
// An empty State means the dataset is national (no state breakdown).
type Columns struct {
	Year   string `json:"year" mapstructure:"year"`
	State  string `json:"state" mapstructure:"state"`
	Metric string `json:"metric" mapstructure:"metric"`
}

// Presets for the bundled datasets.
var (
	// EstimatedCrimes is the per-state estimated crimes table (1979–2023).
	EstimatedCrimes = Columns{Year: "year", State: "state_abbr", Metric: "aggravated_assault"}

	// OffenderTrend is the national yearly offender count built by package trend.
	OffenderTrend = Columns{Year: "year", Metric: "total_offender_count"}

	// VictimTrend is the national yearly victim count.
	VictimTrend = Columns{Year: "year", Metric: "total_victim_count"}
)

// Preset returns a named preset. Names are case-insensitive.
func Preset(name string) (Columns, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "estimated_crimes", "estimated-crimes":
		return EstimatedCrimes, true
	case "offender_trend", "offender-trend":
		return OffenderTrend, true
	case "victim_trend", "victim-trend":
		return VictimTrend, true
	}
	return Columns{}, false
}

// Normalized returns the columns with keys in the loader's snake_case form.
func (c Columns) Normalized() Columns {
	return Columns{
		Year:   ToKey(c.Year),
		State:  ToKey(c.State),
		Metric: ToKey(c.Metric),
	}
}

// HasState reports whether the dataset carries a state column.
func (c Columns) HasState() bool {
	return strings.TrimSpace(c.State) != ""
}

// ============================================================================
// DISCOVERED CONFIG
// ============================================================================

// Config describes what discovery found in a dataset.
type Config struct {
	Name       string          `json:"name"`
	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	DiscoveredFrom string `json:"discoveredFrom,omitempty"`
	DiscoveredAt   string `json:"discoveredAt,omitempty"`

	// Columns skipped during discovery
	SkippedColumns []SkippedColumn `json:"skippedColumns,omitempty"`
}

// DimensionMeta describes a string or coded column used for filtering.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	IsYear          bool     `json:"isYear,omitempty"`
	IsStateCode     bool     `json:"isStateCode,omitempty"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric column that can be summed per year.
type MeasureMeta struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
}

// SkippedColumn records why a column was excluded during discovery.
type SkippedColumn struct {
	Column string `json:"column"`
	Reason string `json:"reason"`
}

// DimensionKeys returns all dimension keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all measure keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}

// Suggest picks Columns from the discovered config: the first year
// dimension, the first state-code dimension, and the preferred measure.
// Fields that could not be matched are left empty.
func (c Config) Suggest() Columns {
	var cols Columns
	for _, d := range c.Dimensions {
		if d.IsYear && cols.Year == "" {
			cols.Year = d.Key
		}
		if d.IsStateCode && cols.State == "" {
			cols.State = d.Key
		}
	}
	for _, m := range c.Measures {
		if m.Key == EstimatedCrimes.Metric {
			cols.Metric = m.Key
			return cols
		}
	}
	if len(c.Measures) > 0 {
		cols.Metric = c.Measures[0].Key
	}
	return cols
}
