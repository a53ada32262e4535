// Package trend builds the national yearly offender series from per-year
// NIBRS export folders.
package trend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/helpers"
	"github.com/spektr-org/crimescope/logger"
)

// ============================================================================
// NATIONAL TREND — data/<year>/<table>.csv → one total per year
// ============================================================================
// Layout expected under the root:
//
//	2010/Offender Sex by Offense Category.csv
//	2011/Offender Sex by Offense Category.csv
//	...
//
// Every integer cell below the header is summed. Non-integer cells
// (labels, blanks, "N/A") are ignored.
// ============================================================================

// DefaultMatch selects the offender-sex table in each year folder.
const DefaultMatch = "offender sex"

// DefaultMetric names the total column of the generated trend CSV.
const DefaultMetric = "total_offender_count"

// ErrNoYears is returned when the root holds no numeric year folders.
var ErrNoYears = errors.New("no year directories found")

// BuildNationalTrend walks the numeric year directories of fsys in ascending
// order and sums the first CSV in each whose name contains match
// (case-insensitive). Years without a matching file are skipped with a warning.
func BuildNationalTrend(fsys fs.FS, match string) ([]engine.AggregatedPoint, error) {
	if match == "" {
		match = DefaultMatch
	}
	match = strings.ToLower(match)

	years, err := yearDirs(fsys)
	if err != nil {
		return nil, err
	}
	if len(years) == 0 {
		return nil, ErrNoYears
	}

	points := make([]engine.AggregatedPoint, 0, len(years))
	for _, year := range years {
		dir := strconv.Itoa(year)
		name, err := findTable(fsys, dir, match)
		if err != nil {
			return nil, err
		}
		if name == "" {
			logger.Warn("⚠️  trend: no %q table in %s, year skipped", match, dir)
			continue
		}

		total, err := sumFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		logger.Debug("🔧 trend: %d → %d (%s)", year, total, name)
		points = append(points, engine.AggregatedPoint{Year: year, Total: float64(total)})
	}
	return points, nil
}

func yearDirs(fsys fs.FS) ([]int, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list trend root: %w", err)
	}
	var years []int
	for _, e := range entries {
		if !e.IsDir() || !isDigits(e.Name()) {
			continue
		}
		y, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		years = append(years, y)
	}
	sort.Ints(years)
	return years, nil
}

func findTable(fsys fs.FS, dir, match string) (string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", dir, err)
	}
	// ReadDir returns entries sorted by name, so "first" is stable.
	for _, e := range entries {
		name := strings.ToLower(e.Name())
		if !e.IsDir() && strings.Contains(name, match) && strings.HasSuffix(name, ".csv") {
			return e.Name(), nil
		}
	}
	return "", nil
}

func sumFile(fsys fs.FS, name string) (int64, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read header of %s: %w", name, err)
	}

	var total int64
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", name, err)
		}
		for _, cell := range fields {
			if n, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64); err == nil {
				total += n
			}
		}
	}
	return total, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// WriteTrendCSV writes the series as "year,<metric>" rows, with metric
// defaulting to DefaultMetric.
func WriteTrendCSV(w io.Writer, metric string, points []engine.AggregatedPoint) error {
	if metric == "" {
		metric = DefaultMetric
	}
	return helpers.WriteSeriesCSV(w, metric, points)
}
