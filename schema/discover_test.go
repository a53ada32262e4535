package schema

import (
	"encoding/json"
	"fmt"
	"testing"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// Sample estimated-crimes export
var estimatedCSV = []byte(`year,state_abbr,state_name,population,violent_crime,homicide,aggravated_assault,caveats
2012,CA,California,"38,041,430","144,235","1,878","80,815",
2012,NY,New York,"19,570,261","79,610",684,"44,045",
2012,TX,Texas,"26,059,203","106,930","1,144","70,599",
2013,CA,California,"38,332,521","154,739","1,745","90,133",
2013,NY,New York,"19,651,127","75,977",648,"41,316",
2013,TX,Texas,"26,448,193","105,525","1,149","70,010",
2014,CA,California,"38,802,500","153,709","1,697","91,445",
2014,NY,New York,"19,746,227","74,853",617,"41,394",
2014,TX,Texas,"26,956,958","106,200","1,184","71,137",N/A
2015,CA,California,"39,144,818","166,588","1,861","98,355",
2015,NY,New York,"19,795,791","75,165",610,"41,102",
2015,TX,Texas,"27,469,114","113,316","1,316","73,930",
`)

// Sample national trend with renamed columns
var renamedCSV = []byte(`Data Year,Offenders,Record ID
2016,"412,300",1
2017,"430,112",2
2018,"441,870",3
2019,"450,001",4
2020,"468,220",5
2021,"471,010",6
2022,"480,500",7
2023,"488,400",8
2024,"490,010",9
2025,"491,110",10
2026,"492,000",11
`)

func TestDiscoverEstimatedCrimes(t *testing.T) {
	config, err := DiscoverFromCSV(estimatedCSV)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	pretty, _ := json.MarshalIndent(config, "", "  ")
	fmt.Printf("=== ESTIMATED CRIMES SCHEMA ===\n%s\n\n", string(pretty))

	dimKeys := config.DimensionKeys()
	assertContains(t, dimKeys, "year", "year should be a dimension")
	assertContains(t, dimKeys, "state_abbr", "state_abbr should be a dimension")
	assertContains(t, dimKeys, "state_name", "state_name should be a dimension")

	measKeys := config.MeasureKeys()
	assertContains(t, measKeys, "aggravated_assault", "aggravated_assault should be a measure")
	assertContains(t, measKeys, "homicide", "homicide should be a measure")
	assertContains(t, measKeys, "population", "population should be a measure")

	skipped := make([]string, len(config.SkippedColumns))
	for i, s := range config.SkippedColumns {
		skipped[i] = s.Column
	}
	assertContains(t, skipped, "caveats", "caveats should be skipped (all null)")

	for _, d := range config.Dimensions {
		if d.Key == "year" && !d.IsYear {
			t.Error("year should be detected as a year column")
		}
		if d.Key == "state_abbr" && !d.IsStateCode {
			t.Error("state_abbr should be detected as a state code column")
		}
		if d.Key == "state_name" && d.IsStateCode {
			t.Error("state_name holds full names, not codes")
		}
	}

	if got := config.Suggest(); got != EstimatedCrimes {
		t.Errorf("Suggest() = %+v, want %+v", got, EstimatedCrimes)
	}
}

func TestDiscoverRenamedColumns(t *testing.T) {
	config, err := DiscoverFromCSV(renamedCSV)
	if err != nil {
		t.Fatalf("DiscoverFromCSV failed: %v", err)
	}

	got := config.Suggest()
	want := Columns{Year: "data_year", Metric: "offenders"}
	if got != want {
		t.Errorf("Suggest() = %+v, want %+v", got, want)
	}

	skipped := make([]string, len(config.SkippedColumns))
	for i, s := range config.SkippedColumns {
		skipped[i] = s.Column
	}
	assertContains(t, skipped, "Record ID", "Record ID should be skipped (unique ID)")
}

func TestDiscoverErrors(t *testing.T) {
	if _, err := DiscoverFromCSV([]byte("")); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := DiscoverFromCSV([]byte("year,state_abbr\n")); err == nil {
		t.Error("expected error for header-only input")
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234", 1234, true},
		{" 42 ", 42, true},
		{"3.5", 3.5, true},
		{"N/A", 0, false},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
	}
	for _, c := range cases {
		got, ok := ParseNumber(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestToKey(t *testing.T) {
	cases := map[string]string{
		"Data Year":          "data_year",
		"stateAbbr":          "state_abbr",
		"aggravated-assault": "aggravated_assault",
		" year ":             "year",
	}
	for in, want := range cases {
		if got := ToKey(in); got != want {
			t.Errorf("ToKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPresetsAndStates(t *testing.T) {
	cols, ok := Preset("Estimated-Crimes")
	if !ok || cols != EstimatedCrimes {
		t.Errorf("Preset(estimated) = %+v, %v", cols, ok)
	}
	if _, ok := Preset("unknown"); ok {
		t.Error("unknown preset should not resolve")
	}
	if OffenderTrend.HasState() || !EstimatedCrimes.HasState() {
		t.Error("HasState mismatch")
	}

	if name, ok := StateName("ca"); !ok || name != "California" {
		t.Errorf("StateName(ca) = %q, %v", name, ok)
	}
	if abbr, ok := StateAbbr("new york"); !ok || abbr != "NY" {
		t.Errorf("StateAbbr(new york) = %q, %v", abbr, ok)
	}
	if len(StateCodes()) != 51 {
		t.Errorf("StateCodes() len = %d, want 51", len(StateCodes()))
	}
}

// ============================================================================
// TEST HELPERS
// ============================================================================

func assertContains(t *testing.T, slice []string, item string, msg string) {
	t.Helper()
	for _, s := range slice {
		if s == item {
			return
		}
	}
	t.Errorf("%s: %q not found in %v", msg, item, slice)
}
