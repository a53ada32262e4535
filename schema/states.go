package schema

import (
	"sort"
	"strings"
)

// ============================================================================
// US STATE CODES
// ============================================================================

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "FL": "Florida", "GA": "Georgia",
	"HI": "Hawaii", "ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine", "MD": "Maryland",
	"MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota", "MS": "Mississippi", "MO": "Missouri",
	"MT": "Montana", "NE": "Nebraska", "NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey",
	"NM": "New Mexico", "NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina",
	"SD": "South Dakota", "TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont",
	"VA": "Virginia", "WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	"DC": "District of Columbia",
}

// StateName returns the full name for a two-letter state code.
func StateName(abbr string) (string, bool) {
	name, ok := stateNames[strings.ToUpper(strings.TrimSpace(abbr))]
	return name, ok
}

// StateAbbr returns the two-letter code for a full state name (case-insensitive).
func StateAbbr(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for abbr, full := range stateNames {
		if strings.EqualFold(full, name) {
			return abbr, true
		}
	}
	return "", false
}

// IsStateCode reports whether s is a known upper-case state code.
func IsStateCode(s string) bool {
	_, ok := stateNames[s]
	return ok
}

// StateCodes returns every known code in sorted order.
func StateCodes() []string {
	codes := make([]string, 0, len(stateNames))
	for abbr := range stateNames {
		codes = append(codes, abbr)
	}
	sort.Strings(codes)
	return codes
}
