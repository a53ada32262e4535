package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spektr-org/crimescope/config"
	"github.com/spektr-org/crimescope/dashboard"
	"github.com/spektr-org/crimescope/dataset"
	"github.com/spektr-org/crimescope/logger"
	"github.com/spektr-org/crimescope/schema"
)

// ============================================================================
// CRIMESCOPE CLI — U.S. crime statistics, one scene at a time
// ============================================================================

const version = "0.3.0"

// brushList collects repeated --brush flags.
type brushList []string

func (b *brushList) String() string { return strings.Join(*b, ",") }

func (b *brushList) Set(v string) error {
	*b = append(*b, v)
	return nil
}

// cliFlags holds every parsed flag. Zero values mean "use the config".
type cliFlags struct {
	configPath string
	filePath   string
	startYear  int
	endYear    int
	state      string
	year       int
	scene      string
	chart      string
	format     string
	outFile    string
	trendDir   string
	brushes    brushList
	metricsOut string
	discover   bool
}

func main() {
	// ── Flags ─────────────────────────────────────────────────────────────
	var f cliFlags
	flag.StringVar(&f.configPath, "config", "", "Path to YAML config file")
	flag.StringVar(&f.filePath, "file", "", "Path to crime data file (CSV or JSON); overrides data.file")
	flag.IntVar(&f.startYear, "start", 0, "Explore start year (inclusive)")
	flag.IntVar(&f.endYear, "end", 0, "Explore end year (inclusive)")
	flag.StringVar(&f.state, "state", "", "Explore state code, or ALL")
	flag.IntVar(&f.year, "year", 0, "Show a single-year bar chart for this year")
	flag.StringVar(&f.scene, "scene", "explore", "Scene: explore, trend, parallel, sankey")
	flag.StringVar(&f.chart, "chart", "", "Explore chart type: line, bar")
	flag.StringVar(&f.format, "format", "json", "Output format: json, pretty, text, csv, svg")
	flag.StringVar(&f.outFile, "out", "", "Write output to file instead of stdout")
	flag.StringVar(&f.trendDir, "trend-dir", "", "Directory of per-year NIBRS folders for the trend scene")
	flag.Var(&f.brushes, "brush", "Parallel brush dim:lo:hi (repeatable)")
	flag.StringVar(&f.metricsOut, "metrics-out", "", "Write loader metrics in Prometheus textfile format")
	flag.BoolVar(&f.discover, "discover", false, "Print auto-detected columns of --file and exit")
	showVersion := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Crimescope — U.S. crime statistics dashboard

Usage:
  crimescope --file estimated_crimes.csv --start 2010 --end 2023 --state CA
  crimescope --file estimated_crimes.csv --state TX --year 2015 --format svg --out tx.svg
  crimescope --scene trend --trend-dir data --format csv
  crimescope --scene parallel --brush firearm_percentage:40:50 --format svg
  crimescope --file export.csv --discover --format pretty

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment:
  CRIMESCOPE_*      Overrides any config key (e.g. CRIMESCOPE_DATA_FILE)

Formats:
  json      Full JSON output (default)
  pretty    Pretty-printed JSON
  text      Terminal table and summary
  csv       Series as year,total CSV (ready for Sheets/Excel)
  svg       Rendered chart

Examples:
  # Aggravated assaults in California as CSV
  crimescope --state CA --format csv --out ca.csv

  # National offender trend built from raw NIBRS folders
  crimescope --scene trend --trend-dir data --format svg --out trend.svg

  # Use the bundled sample when the data file is missing
  CRIMESCOPE_DATA_USE_FALLBACK_DATASET=true crimescope --format text
`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("crimescope %s\n", version)
		os.Exit(0)
	}

	// ── Config ────────────────────────────────────────────────────────────
	cfg, err := config.Load(f.configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid config: %v", err)
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format)

	switch f.format {
	case "json", "pretty", "text", "csv", "svg":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown --format %q\n", f.format)
		flag.Usage()
		os.Exit(1)
	}

	// ── Output writer ─────────────────────────────────────────────────────
	var writer io.Writer = os.Stdout
	if f.outFile != "" {
		out, err := os.Create(f.outFile)
		if err != nil {
			fatalf("Failed to create output file: %v", err)
		}
		defer out.Close()
		writer = out
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// ── Discover mode ─────────────────────────────────────────────────────
	if f.discover {
		runDiscover(writer, cfg.Data.File, f.format)
		return
	}

	// ── Scenes ────────────────────────────────────────────────────────────
	scene, err := dashboard.ParseScene(f.scene)
	if err != nil {
		fatalf("%v", err)
	}

	switch scene {
	case dashboard.Explore:
		err = runExplore(ctx, writer, cfg, f)
	case dashboard.Trend:
		err = runTrend(ctx, writer, cfg, f)
	case dashboard.Parallel:
		err = runParallel(writer, cfg, f)
	case dashboard.Sankey:
		err = runSankey(writer, f.format)
	}
	if err != nil {
		fatalf("%s scene failed: %v", scene, err)
	}
	if f.outFile != "" {
		logger.Info("📄 %s output written to %s", scene, f.outFile)
	}

	// ── Metrics ───────────────────────────────────────────────────────────
	metricsPath := f.metricsOut
	if metricsPath == "" && cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.TextfilePath
	}
	if metricsPath != "" {
		if err := dataset.WriteMetrics(metricsPath); err != nil {
			logger.Warn("⚠️  %v", err)
		}
	}
}

// applyFlags lays explicitly set flags over the loaded config.
func applyFlags(cfg *config.Config, f cliFlags) {
	if f.filePath != "" {
		cfg.Data.File = f.filePath
	}
	if f.trendDir != "" {
		cfg.Data.TrendDir = f.trendDir
	}
	if f.startYear != 0 {
		cfg.Explore.StartYear = f.startYear
	}
	if f.endYear != 0 {
		cfg.Explore.EndYear = f.endYear
	}
	if f.state != "" {
		cfg.Explore.State = f.state
	}
	if f.chart != "" {
		cfg.Explore.Chart = f.chart
	}
	if f.year != 0 {
		cfg.Explore.Chart = "bar"
	}
}

// ============================================================================
// DISCOVER
// ============================================================================

type discoverOutput struct {
	Schema    *schema.Config `json:"schema"`
	Suggested schema.Columns `json:"suggested"`
}

func runDiscover(w io.Writer, path, format string) {
	data, err := os.ReadFile(path)
	if err != nil {
		fatalf("Failed to read file: %v", err)
	}
	sch, err := schema.DiscoverFromCSV(data)
	if err != nil {
		fatalf("Auto-Detect failed: %v", err)
	}
	logger.Info("🔍 Auto-Detect: %s (%d dims, %d measures, %d skipped)",
		sch.Name, len(sch.Dimensions), len(sch.Measures), len(sch.SkippedColumns))
	writeJSON(w, discoverOutput{Schema: sch, Suggested: sch.Suggest()}, format)
}

// ============================================================================
// JSON OUTPUT
// ============================================================================

func writeJSON(w io.Writer, v interface{}, format string) {
	var out []byte
	var err error

	if format == "pretty" {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}

	if err != nil {
		fatalf("Failed to marshal output: %v", err)
	}
	fmt.Fprintln(w, string(out))
}

// ============================================================================
// HELPERS
// ============================================================================

var errUnsupportedFormat = errors.New("format not supported by this scene")

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
