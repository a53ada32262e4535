package dataset

import "github.com/spektr-org/crimescope/engine"

// ============================================================================
// BUNDLED SAMPLES — used only when a load fails and fallback is enabled
// ============================================================================

const sampleFirstYear = 2010

// Aggravated assault counts, 2010–2023, for a handful of states.
var sampleAssaults = map[string][]float64{
	"CA": {94347, 92031, 95358, 90133, 91445, 98355, 104375, 105412, 105093, 106282, 113089, 116538, 115672, 112994},
	"TX": {72148, 69921, 70581, 70010, 71137, 73930, 80043, 83124, 81919, 82745, 92051, 91763, 89115, 86240},
	"NY": {46206, 44952, 44045, 41316, 41394, 41102, 41941, 42090, 43019, 43487, 47651, 50324, 51980, 50611},
	"FL": {70564, 65977, 63012, 58953, 58022, 57311, 58103, 56950, 55071, 53622, 55490, 49806, 48311, 47205},
	"IL": {35221, 33450, 32109, 28761, 26839, 27541, 31770, 32303, 30416, 29612, 31850, 32512, 30966, 29874},
	"WA": {12480, 12154, 12033, 11850, 12233, 12715, 13302, 14001, 14512, 14630, 16018, 17240, 17511, 16902},
}

// National offender counts built from the yearly NIBRS extracts.
var sampleOffenders = []float64{
	3952381, 4011250, 4101733, 4157702, 4233126, 4312551, 4420690,
	4489013, 4570318, 4625114, 4380922, 4512603, 4703355, 4768201,
}

// SampleEstimatedCrimes returns the bundled per-state sample, ordered by
// state then year.
func SampleEstimatedCrimes() []engine.Record {
	states := []string{"CA", "FL", "IL", "NY", "TX", "WA"}
	records := make([]engine.Record, 0, len(states)*len(sampleAssaults["CA"]))
	for _, st := range states {
		for i, v := range sampleAssaults[st] {
			records = append(records, engine.Record{Year: sampleFirstYear + i, State: st, Metric: v})
		}
	}
	return records
}

// SampleOffenderTrend returns the bundled national offender series.
func SampleOffenderTrend() []engine.Record {
	records := make([]engine.Record, len(sampleOffenders))
	for i, v := range sampleOffenders {
		records[i] = engine.Record{Year: sampleFirstYear + i, Metric: v}
	}
	return records
}
