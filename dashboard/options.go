package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/schema"
)

// AllLabel is the display label of the "all states" option.
const AllLabel = "All"

// Option is one entry of a selector.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StateOptions returns the state selector: "All" first, then the distinct
// non-empty states of records in sorted order.
func StateOptions(records []engine.Record) []Option {
	seen := make(map[string]bool)
	var states []string
	for _, r := range records {
		s := strings.TrimSpace(r.State)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		states = append(states, s)
	}
	sort.Strings(states)

	opts := make([]Option, 0, len(states)+1)
	opts = append(opts, Option{Value: engine.AllStates, Label: AllLabel})
	for _, s := range states {
		opts = append(opts, Option{Value: s, Label: s})
	}
	return opts
}

// YearOptions returns every year from from to to inclusive, in ascending order.
func YearOptions(from, to int) []Option {
	if from > to {
		from, to = to, from
	}
	opts := make([]Option, 0, to-from+1)
	for y := from; y <= to; y++ {
		v := strconv.Itoa(y)
		opts = append(opts, Option{Value: v, Label: v})
	}
	return opts
}

// DatasetYearOptions returns YearOptions spanning the well-formed records,
// or nil when there are none.
func DatasetYearOptions(records []engine.Record) []Option {
	first, last, found := 0, 0, false
	for _, r := range records {
		if !r.WellFormed() {
			continue
		}
		if !found || r.Year < first {
			first = r.Year
		}
		if !found || r.Year > last {
			last = r.Year
		}
		found = true
	}
	if !found {
		return nil
	}
	return YearOptions(first, last)
}

// StateName maps an abbreviation to the full name used by the parallel plot.
// The "all" sentinel and unknown codes return false.
func StateName(abbr string) (string, bool) {
	if (engine.FilterSpec{State: abbr}).IsAllStates() {
		return "", false
	}
	return schema.StateName(abbr)
}
