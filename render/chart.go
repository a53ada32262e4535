package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/spektr-org/crimescope/engine"
)

// ============================================================================
// RENDER — engine.ChartConfig → SVG
// ============================================================================
// Line and bar charts go through go-chart. A nil config or an empty series
// renders the explicit "no data" panel instead of an empty chart. go-chart
// writes text verbatim, so labels are escaped here.
// ============================================================================

// Options sizes rendered output.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions matches the dashboard's chart panel.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 400}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// maxXTicks keeps year labels legible on long ranges.
const maxXTicks = 12

// Chart renders cfg by its ChartType.
func Chart(w io.Writer, cfg *engine.ChartConfig, opts Options) error {
	if isEmpty(cfg) {
		return NoDataSVG(w, engine.NoDataReply, opts)
	}
	switch cfg.ChartType {
	case "line":
		return LineSVG(w, cfg, opts)
	case "bar":
		return BarSVG(w, cfg, opts)
	default:
		return fmt.Errorf("unsupported chart type %q", cfg.ChartType)
	}
}

// LineSVG renders the first series of cfg as a year/total line chart.
// The y axis starts at zero.
func LineSVG(w io.Writer, cfg *engine.ChartConfig, opts Options) error {
	if isEmpty(cfg) {
		return NoDataSVG(w, engine.NoDataReply, opts)
	}
	opts = opts.normalized()
	series := cfg.Series[0]

	xs := make([]float64, len(series.Data))
	ys := make([]float64, len(series.Data))
	for i, p := range series.Data {
		xs[i] = float64(p.Year)
		ys[i] = p.Value
	}

	color := seriesColor(series, cfg.Colors)
	ch := chart.Chart{
		Title:      html.EscapeString(cfg.Title),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  html.EscapeString(cfg.XAxis),
			Ticks: yearTicks(series.Data),
		},
		YAxis: chart.YAxis{
			Name:           html.EscapeString(cfg.YAxis),
			Range:          &chart.ContinuousRange{Min: 0, Max: axisTop(maxValue(series.Data))},
			ValueFormatter: countFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    series.Name,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: color,
					StrokeWidth: 2,
					DotColor:    color,
					DotWidth:    3,
				},
			},
		},
	}

	if err := ch.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render line chart: %w", err)
	}
	return nil
}

// BarSVG renders the single-year bar of cfg. The y axis is pinned to
// cfg.YMax so bars for different years share a scale.
func BarSVG(w io.Writer, cfg *engine.ChartConfig, opts Options) error {
	if isEmpty(cfg) {
		return NoDataSVG(w, engine.NoDataReply, opts)
	}
	opts = opts.normalized()
	series := cfg.Series[0]

	top := cfg.YMax
	if m := maxValue(series.Data); m > top {
		top = m
	}

	color := seriesColor(series, cfg.Colors)
	bars := make([]chart.Value, len(series.Data))
	for i, p := range series.Data {
		bars[i] = chart.Value{
			Label: html.EscapeString(p.Label),
			Value: p.Value,
			Style: chart.Style{FillColor: color, StrokeColor: color},
		}
	}

	bc := chart.BarChart{
		Title:      html.EscapeString(cfg.Title),
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   opts.Width / 4,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis: chart.YAxis{
			Name:           html.EscapeString(cfg.YAxis),
			Range:          &chart.ContinuousRange{Min: 0, Max: axisTop(top)},
			ValueFormatter: countFormatter,
		},
		Bars: bars,
	}

	if err := bc.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render bar chart: %w", err)
	}
	return nil
}

// ============================================================================
// AXIS HELPERS
// ============================================================================

func isEmpty(cfg *engine.ChartConfig) bool {
	return cfg == nil || len(cfg.Series) == 0 || len(cfg.Series[0].Data) == 0
}

// yearTicks labels every year, or every n-th year on long ranges. The first
// and last year are always present since ticks bound the x range. A single
// year is padded by one on each side.
func yearTicks(data []engine.ChartPoint) []chart.Tick {
	if len(data) == 1 {
		y := float64(data[0].Year)
		return []chart.Tick{
			{Value: y - 1},
			{Value: y, Label: strconv.Itoa(data[0].Year)},
			{Value: y + 1},
		}
	}

	step := (len(data) + maxXTicks - 1) / maxXTicks
	ticks := make([]chart.Tick, 0, maxXTicks+1)
	for i, p := range data {
		if i%step == 0 || i == len(data)-1 {
			ticks = append(ticks, chart.Tick{Value: float64(p.Year), Label: strconv.Itoa(p.Year)})
		}
	}
	return ticks
}

func maxValue(data []engine.ChartPoint) float64 {
	var m float64
	for _, p := range data {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}

// axisTop returns a y-axis maximum slightly above v. go-chart rejects a
// zero-height range, so an all-zero series still gets a unit axis.
func axisTop(v float64) float64 {
	if !(v > 0) || math.IsInf(v, 0) {
		return 1
	}
	return v * 1.1
}

func countFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return engine.FormatCount(math.Round(f))
	}
	return fmt.Sprint(v)
}

func seriesColor(s engine.ChartSeries, palette []string) drawing.Color {
	hex := s.Color
	if hex == "" && len(palette) > 0 {
		hex = palette[0]
	}
	if hex == "" {
		return chart.ColorBlue
	}
	return drawing.ColorFromHex(hex)
}
