package parallel

import (
	"fmt"
	"math"
	"strings"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/helpers"
	"github.com/spektr-org/crimescope/schema"
)

// ============================================================================
// STATE PROFILES — one row per state, compared across several axes
// ============================================================================

// StateProfile is a state's multi-year crime summary.
type StateProfile struct {
	State             string  `json:"state"`
	Abbr              string  `json:"state_abbr"`
	Population        float64 `json:"population"`
	Tier              string  `json:"population_tier"`
	TotalAssaults     float64 `json:"total_assaults"`
	AssaultRate       float64 `json:"assault_rate_per_100k"`
	FirearmPercentage float64 `json:"firearm_percentage"`
	ArrestRate        float64 `json:"arrest_rate"`
	AvgVictimAge      float64 `json:"avg_victim_age"`
	MaleVictimPct     float64 `json:"male_victim_pct"`
	YearsAnalyzed     int     `json:"years_analyzed"`
}

// Dimension is one vertical axis of the plot.
type Dimension struct {
	Key   string
	Label string
	// Decimals is the precision used in tooltips and tick labels.
	Decimals int
}

// DefaultDimensions are the four axes the dashboard compares.
var DefaultDimensions = []Dimension{
	{Key: "total_assaults", Label: "Total Assaults", Decimals: 0},
	{Key: "firearm_percentage", Label: "Firearm Usage %", Decimals: 1},
	{Key: "arrest_rate", Label: "Arrest Rate %", Decimals: 1},
	{Key: "avg_victim_age", Label: "Avg Victim Age", Decimals: 1},
}

// Tiers in legend order.
var Tiers = []string{"Large", "Medium", "Small", "Very Small"}

// Value returns the profile's value for a dimension key; NaN when unknown.
func (p StateProfile) Value(key string) float64 {
	switch key {
	case "population":
		return p.Population
	case "total_assaults":
		return p.TotalAssaults
	case "assault_rate_per_100k":
		return p.AssaultRate
	case "firearm_percentage":
		return p.FirearmPercentage
	case "arrest_rate":
		return p.ArrestRate
	case "avg_victim_age":
		return p.AvgVictimAge
	case "male_victim_pct":
		return p.MaleVictimPct
	case "years_analyzed":
		return float64(p.YearsAnalyzed)
	}
	return math.NaN()
}

// Format renders a dimension value for display.
func (d Dimension) Format(v float64) string {
	if d.Decimals == 0 {
		return engine.FormatCount(math.Round(v))
	}
	return fmt.Sprintf("%.*f", d.Decimals, v)
}

// valid reports whether the profile can be drawn on every default axis.
func (p StateProfile) valid() bool {
	if strings.TrimSpace(p.State) == "" {
		return false
	}
	for _, d := range DefaultDimensions {
		if v := p.Value(d.Key); math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ============================================================================
// LOADING
// ============================================================================

// LoadProfiles parses a state analysis CSV. Rows without a state name or
// with a missing axis value are dropped.
func LoadProfiles(data []byte) ([]StateProfile, error) {
	rows, err := helpers.ReadCSVRows(data)
	if err != nil {
		return nil, err
	}

	num := func(r helpers.Row, key string) float64 {
		if v, ok := schema.ParseNumber(r[key]); ok {
			return v
		}
		return math.NaN()
	}

	profiles := make([]StateProfile, 0, len(rows))
	for _, r := range rows {
		p := StateProfile{
			State:             strings.TrimSpace(r["state"]),
			Abbr:              strings.ToUpper(strings.TrimSpace(r["state_abbr"])),
			Population:        num(r, "population"),
			Tier:              strings.TrimSpace(r["population_tier"]),
			TotalAssaults:     num(r, "total_assaults"),
			AssaultRate:       num(r, "assault_rate_per_100k"),
			FirearmPercentage: num(r, "firearm_percentage"),
			ArrestRate:        num(r, "arrest_rate"),
			AvgVictimAge:      num(r, "avg_victim_age"),
			MaleVictimPct:     num(r, "male_victim_pct"),
		}
		if years := num(r, "years_analyzed"); !math.IsNaN(years) {
			p.YearsAnalyzed = int(years)
		}
		if p.valid() {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}

// SampleProfiles returns the bundled state profiles.
func SampleProfiles() []StateProfile {
	return []StateProfile{
		{"Louisiana", "LA", 4657757, "Medium", 12500, 468.2, 48.7, 36.4, 30.5, 79.8, 14},
		{"Alaska", "AK", 733391, "Very Small", 3200, 436.5, 41.2, 42.1, 29.8, 76.3, 14},
		{"Tennessee", "TN", 6910840, "Medium", 25800, 373.4, 45.9, 38.7, 31.2, 78.1, 14},
		{"Arkansas", "AR", 3011524, "Medium", 10200, 338.8, 46.8, 35.2, 30.9, 79.5, 14},
		{"Nevada", "NV", 3104614, "Medium", 9800, 315.7, 37.4, 41.8, 32.1, 75.2, 14},
		{"California", "CA", 39538223, "Large", 115000, 290.9, 34.2, 43.7, 32.8, 74.8, 14},
		{"Texas", "TX", 29145505, "Large", 82000, 281.4, 44.1, 39.2, 31.4, 78.9, 14},
		{"Florida", "FL", 21538187, "Large", 58500, 271.7, 42.8, 37.6, 32.0, 77.3, 14},
		{"Illinois", "IL", 12812508, "Large", 33200, 259.2, 36.7, 45.3, 32.4, 76.8, 14},
		{"New York", "NY", 19336776, "Large", 47800, 247.1, 26.4, 52.8, 33.7, 72.5, 14},
		{"Pennsylvania", "PA", 13002700, "Large", 28900, 222.3, 28.7, 49.1, 33.2, 73.9, 14},
		{"Massachusetts", "MA", 7001399, "Medium", 13200, 188.6, 21.8, 54.2, 34.5, 71.4, 14},
		{"Connecticut", "CT", 3605944, "Medium", 5800, 160.9, 23.1, 51.7, 34.1, 72.8, 14},
		{"Maine", "ME", 1395722, "Small", 1450, 103.9, 26.3, 48.9, 35.2, 74.2, 14},
	}
}

// Tooltip returns the hover text for a profile.
func Tooltip(p StateProfile) string {
	lines := []string{
		fmt.Sprintf("%s (%s)", p.State, p.Abbr),
		"Population Tier: " + p.Tier,
		"Population: " + engine.FormatCount(p.Population),
		"Total Assaults: " + engine.FormatCount(p.TotalAssaults),
		fmt.Sprintf("Assault Rate: %.1f/100k", p.AssaultRate),
		fmt.Sprintf("Firearm Usage: %.1f%%", p.FirearmPercentage),
		fmt.Sprintf("Arrest Rate: %.1f%%", p.ArrestRate),
		fmt.Sprintf("Avg Victim Age: %.1f", p.AvgVictimAge),
	}
	return strings.Join(lines, "\n")
}
