package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spektr-org/crimescope/config"
	"github.com/spektr-org/crimescope/dashboard"
	"github.com/spektr-org/crimescope/dataset"
	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/helpers"
	"github.com/spektr-org/crimescope/logger"
	"github.com/spektr-org/crimescope/parallel"
	"github.com/spektr-org/crimescope/render"
	"github.com/spektr-org/crimescope/sankey"
	"github.com/spektr-org/crimescope/trend"
)

// ============================================================================
// SCENES — one runner per dashboard scene
// ============================================================================

// ── Explore (scene 4) ────────────────────────────────────────────────────────

func runExplore(ctx context.Context, w io.Writer, cfg *config.Config, f cliFlags) error {
	loader := dataset.NewLoader(cfg.Data.Columns, cfg.Data.UseFallbackDataset)
	loader.Format = cfg.Data.Format

	query := engine.ExploreQuery{
		Filter: engine.FilterSpec{
			StartYear: cfg.Explore.StartYear,
			EndYear:   cfg.Explore.EndYear,
			State:     cfg.Explore.State,
		},
		Visualize:   cfg.Explore.Chart,
		Year:        f.year,
		MetricLabel: cfg.Explore.MetricLabel,
		Reply:       cfg.Explore.Reply,
	}
	if query.Visualize == "line" {
		query.Title = cfg.Explore.MetricLabel + " Trend"
	}

	ctrl := dashboard.NewController(loader, cfg.Data.File, query,
		engine.WithRejectHook(func(r engine.Record, reason engine.RejectReason) {
			logger.Debug("🔧 explore: excluded record %+v (%s)", r, reason)
		}))
	if err := ctrl.Show(dashboard.Explore); err != nil {
		return err
	}

	view, err := ctrl.Explore(ctx)
	if err != nil {
		return err
	}
	if view.Fallback {
		logger.Warn("⚠️  explore: results are from the bundled fallback dataset (%s)", view.DatasetID)
	}

	return writeResult(w, view.Result, view, f.format, cfg.Data.Columns.Metric, renderOptions(cfg))
}

// ── Trend (scene 1) ──────────────────────────────────────────────────────────

const (
	trendTitle       = "National Offender Count Trend"
	trendMetricLabel = "Total Offender Count"
	trendReply       = "{metric}, {period}: {direction} {growth_percent}, peak {peak_year}."
)

func runTrend(ctx context.Context, w io.Writer, cfg *config.Config, f cliFlags) error {
	var records []engine.Record
	if cfg.Data.TrendDir != "" {
		timer := dataset.Timer("trend")
		points, err := trend.BuildNationalTrend(os.DirFS(cfg.Data.TrendDir), cfg.Data.TrendMatch)
		timer.ObserveDuration()
		if err != nil {
			return fmt.Errorf("failed to build trend from %s: %w", cfg.Data.TrendDir, err)
		}
		records = make([]engine.Record, len(points))
		for i, p := range points {
			records[i] = engine.Record{Year: p.Year, Metric: p.Total}
		}
		logger.Info("📂 trend: %d years from %s", len(points), cfg.Data.TrendDir)
	} else {
		logger.Info("📂 trend: no trend_dir configured, using the bundled offender trend")
		records = dataset.SampleOffenderTrend()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	first, last := yearBounds(records)
	res, err := engine.Execute(engine.ExploreQuery{
		Filter:      engine.FilterSpec{StartYear: first, EndYear: last, State: engine.AllStates},
		Title: trendTitle,
		Reply: trendReply,
	}, engine.NewSliceView(records), engine.WithMetricLabel(trendMetricLabel))
	if err != nil {
		return err
	}

	if f.format == "csv" {
		return trend.WriteTrendCSV(w, "", res.Series)
	}
	return writeResult(w, res, res, f.format, trend.DefaultMetric, renderOptions(cfg))
}

func yearBounds(records []engine.Record) (first, last int) {
	for i, r := range records {
		if i == 0 || r.Year < first {
			first = r.Year
		}
		if i == 0 || r.Year > last {
			last = r.Year
		}
	}
	return first, last
}

// ── Parallel coordinates (scene 2) ───────────────────────────────────────────

type parallelOutput struct {
	Brushes   parallel.BrushSet       `json:"brushes"`
	Highlight parallel.Highlight      `json:"highlight,omitempty"`
	Visible   []parallel.StateProfile `json:"visible"`
}

func runParallel(w io.Writer, cfg *config.Config, f cliFlags) error {
	profiles := parallel.SampleProfiles()
	if cfg.Data.ProfilesFile != "" {
		timer := dataset.Timer("profiles")
		data, err := os.ReadFile(cfg.Data.ProfilesFile)
		if err != nil {
			return fmt.Errorf("failed to read profiles: %w", err)
		}
		profiles, err = parallel.LoadProfiles(data)
		timer.ObserveDuration()
		if err != nil {
			return fmt.Errorf("failed to parse profiles: %w", err)
		}
		logger.Info("📂 parallel: loaded %d state profiles from %s", len(profiles), cfg.Data.ProfilesFile)
	}

	brushes := parallel.BrushSet{}
	for _, s := range f.brushes {
		b, err := parallel.ParseBrush(s)
		if err != nil {
			return err
		}
		brushes.Set(b)
	}

	plot := &parallel.Plot{
		Profiles: profiles,
		Brushes:  brushes,
		Title:    parallel.DefaultTitle,
	}
	if name, ok := dashboard.StateName(cfg.Explore.State); ok {
		plot.Highlight = parallel.NewHighlight(name)
	}

	switch f.format {
	case "svg":
		return plot.WriteSVG(w, cfg.Render.Width, cfg.Render.Height)
	case "text":
		visible := plot.Visible()
		if len(visible) == 0 {
			if brushes.Active() {
				fmt.Fprintln(w, "No states match the active brushes.")
			} else {
				fmt.Fprintln(w, "No state profiles loaded.")
			}
			return nil
		}
		for _, p := range visible {
			fmt.Fprintln(w, parallel.Tooltip(p))
			fmt.Fprintln(w)
		}
		return nil
	case "csv":
		return writeProfilesCSV(w, plot.Visible())
	default:
		writeJSON(w, parallelOutput{Brushes: brushes, Highlight: plot.Highlight, Visible: plot.Visible()}, f.format)
		return nil
	}
}

func writeProfilesCSV(w io.Writer, profiles []parallel.StateProfile) error {
	cw := csv.NewWriter(w)
	header := []string{"state", "state_abbr", "population_tier"}
	for _, d := range parallel.DefaultDimensions {
		header = append(header, d.Key)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, p := range profiles {
		row := []string{p.State, p.Abbr, p.Tier}
		for _, d := range parallel.DefaultDimensions {
			row = append(row, d.Format(p.Value(d.Key)))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ── Sankey (scene 3) ─────────────────────────────────────────────────────────

const sankeyTitle = "Weapon → Victim Sex → Arrest Outcome"

type sankeyNode struct {
	ID    string  `json:"id"`
	Depth int     `json:"depth"`
	Value float64 `json:"value"`
}

type sankeyOutput struct {
	Nodes []sankeyNode  `json:"nodes"`
	Links []sankey.Link `json:"links"`
}

func runSankey(w io.Writer, format string) error {
	g := sankey.DefaultWeaponFlow()
	lay, err := g.Layout(sankey.DefaultOptions())
	if err != nil {
		return err
	}

	switch format {
	case "svg":
		return lay.WriteSVG(w, sankeyTitle)
	case "text":
		for _, l := range g.Links {
			fmt.Fprintf(w, "%s → %s: %s\n", l.Source, l.Target, engine.FormatCount(l.Value))
		}
		return nil
	case "csv":
		return writeLinksCSV(w, g.Links)
	default:
		out := sankeyOutput{Links: g.Links}
		for _, n := range lay.Nodes {
			out.Nodes = append(out.Nodes, sankeyNode{ID: n.ID, Depth: n.Depth, Value: n.Value})
		}
		writeJSON(w, out, format)
		return nil
	}
}

func writeLinksCSV(w io.Writer, links []sankey.Link) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target", "value"}); err != nil {
		return err
	}
	for _, l := range links {
		if err := cw.Write([]string{l.Source, l.Target, strconv.FormatFloat(l.Value, 'f', -1, 64)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ============================================================================
// RESULT OUTPUT
// ============================================================================

func renderOptions(cfg *config.Config) render.Options {
	return render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height}
}

// writeResult renders an engine result. payload is what json/pretty emit.
func writeResult(w io.Writer, res *engine.Result, payload interface{}, format, metric string, opts render.Options) error {
	switch format {
	case "csv":
		return helpers.WriteSeriesCSV(w, metric, res.Series)
	case "svg":
		if res.NoData {
			return render.NoDataSVG(w, res.Reply, opts)
		}
		return render.Chart(w, res.ChartConfig, opts)
	case "text":
		var lines []string
		switch {
		case res.TableData != nil:
			lines = append(lines, render.ResultTable(res.TableData))
		case !res.NoData:
			title := res.Title
			if res.ChartConfig != nil && title == "" {
				title = res.ChartConfig.Title
			}
			lines = append(lines, render.TextTable(res.Series, title))
		}
		if res.Reply != "" {
			lines = append(lines, res.Reply)
		}
		for _, e := range res.Errors {
			lines = append(lines, "⚠️  "+e)
		}
		fmt.Fprintln(w, strings.Join(lines, "\n"))
		return nil
	case "json", "pretty":
		writeJSON(w, payload, format)
		return nil
	}
	return fmt.Errorf("%w: %s", errUnsupportedFormat, format)
}
