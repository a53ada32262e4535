package parallel

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
)

// ============================================================================
// PARALLEL COORDINATES PLOT
// ============================================================================
// Each state is one path across the axes. Every axis is scaled to its own
// [min, max] over the drawn profiles, so the shared y range is [0, 1].
// Stroke color follows the population tier; highlighted states are drawn
// at 0.8 opacity, the rest at 0.3.
// ============================================================================

// ErrNoProfiles is returned when no profile survives the brushes.
var ErrNoProfiles = errors.New("no state profiles to plot")

// TierColors maps a population tier to its stroke color.
var TierColors = map[string]color.NRGBA{
	"Large":      {0xe7, 0x4c, 0x3c, 0xff},
	"Medium":     {0x34, 0x98, 0xdb, 0xff},
	"Small":      {0x27, 0xae, 0x60, 0xff},
	"Very Small": {0x9b, 0x59, 0xb6, 0xff},
}

var otherTierColor = color.NRGBA{0xbd, 0xc3, 0xc7, 0xff}

// DefaultTitle is the plot title used when Plot.Title is empty.
const DefaultTitle = "State-Level Crime Analysis: Multi-Dimensional Comparison"

// Plot describes one parallel-coordinates rendering.
type Plot struct {
	Profiles   []StateProfile
	Dimensions []Dimension // nil → DefaultDimensions
	Highlight  Highlight
	Brushes    BrushSet
	Title      string
}

// Visible returns the profiles that pass every brush.
func (p *Plot) Visible() []StateProfile {
	return p.Brushes.Filter(p.Profiles)
}

func (p *Plot) dims() []Dimension {
	if len(p.Dimensions) == 0 {
		return DefaultDimensions
	}
	return p.Dimensions
}

// strokeColor returns the tier color with highlight opacity applied.
func (p *Plot) strokeColor(sp StateProfile) color.NRGBA {
	c, ok := TierColors[sp.Tier]
	if !ok {
		c = otherTierColor
	}
	c.A = uint8(p.Highlight.Opacity(sp)*255 + 0.5)
	return c
}

// axisLabel prefixes the label with its position so the ordinal x scale
// keeps the configured axis order.
func axisLabel(i int, d Dimension) string {
	return fmt.Sprintf("%d %s", i+1, d.Label)
}

// Table builds the long-form plot table: one row per (state, axis).
func (p *Plot) Table() (*table.Table, map[string]Extent, error) {
	visible := p.Visible()
	if len(visible) == 0 {
		return nil, nil, ErrNoProfiles
	}
	dims := p.dims()
	scales := Scales(visible, dims)

	var (
		axes     []string
		values   []float64
		raw      []float64
		states   []string
		colors   []color.NRGBA
		tooltips []string
	)
	for _, sp := range visible {
		c := p.strokeColor(sp)
		for i, d := range dims {
			ext, ok := scales[d.Key]
			if !ok {
				continue
			}
			v := sp.Value(d.Key)
			axes = append(axes, axisLabel(i, d))
			values = append(values, ext.Norm(v))
			raw = append(raw, v)
			states = append(states, sp.State)
			colors = append(colors, c)
			tooltips = append(tooltips, fmt.Sprintf("%s: %s", sp.State, d.Format(v)))
		}
	}

	tab := new(table.Builder).
		Add("axis", axes).
		Add("value", values).
		Add("raw", raw).
		Add("state", states).
		Add("color", colors).
		Add("tooltip", tooltips).
		Done()
	return tab, scales, nil
}

// WriteSVG renders the plot as SVG.
func (p *Plot) WriteSVG(w io.Writer, width, height int) error {
	tab, scales, err := p.Table()
	if err != nil {
		return err
	}

	title := p.Title
	if title == "" {
		title = DefaultTitle
	}

	var ranges []string
	for _, d := range p.dims() {
		if ext, ok := scales[d.Key]; ok {
			ranges = append(ranges, fmt.Sprintf("%s %s–%s", d.Label, d.Format(ext.Min), d.Format(ext.Max)))
		}
	}

	plot := gg.NewPlot(tab)
	plot.GroupBy("state")
	plot.SetScale("y", gg.NewLinearScaler().SetMin(0).SetMax(1))
	plot.Add(gg.Title(title))
	plot.Add(gg.AxisLabel("x", "axis"))
	plot.Add(gg.AxisLabel("y", strings.Join(ranges, " · ")))
	plot.Add(gg.LayerLines{X: "axis", Y: "value", Color: "color"})
	plot.Add(gg.LayerTooltips{X: "axis", Y: "value", Label: "tooltip"})

	return plot.WriteSVG(w, width, height)
}
