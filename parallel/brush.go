package parallel

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ============================================================================
// SCALES + BRUSHING
// ============================================================================
// A brush selects an interval on one axis. A profile passes a BrushSet
// only if it lies inside every brush (intersection across axes).
// ============================================================================

// Extent is the [Min, Max] domain of one axis.
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Norm maps v into [0, 1] within the extent. A zero-width extent maps to 0.5.
func (e Extent) Norm(v float64) float64 {
	if e.Max == e.Min {
		return 0.5
	}
	return (v - e.Min) / (e.Max - e.Min)
}

// Scales computes the extent of every dimension over profiles.
// Dimensions with no finite values are omitted.
func Scales(profiles []StateProfile, dims []Dimension) map[string]Extent {
	out := make(map[string]Extent, len(dims))
	for _, d := range dims {
		ext := Extent{Min: math.Inf(1), Max: math.Inf(-1)}
		for _, p := range profiles {
			v := p.Value(d.Key)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			ext.Min = math.Min(ext.Min, v)
			ext.Max = math.Max(ext.Max, v)
		}
		if !math.IsInf(ext.Min, 1) {
			out[d.Key] = ext
		}
	}
	return out
}

// Brush selects [Lo, Hi] on one dimension.
type Brush struct {
	Dimension string  `json:"dimension"`
	Lo        float64 `json:"lo"`
	Hi        float64 `json:"hi"`
}

// Normalize orders the bounds.
func (b Brush) Normalize() Brush {
	if b.Lo > b.Hi {
		b.Lo, b.Hi = b.Hi, b.Lo
	}
	return b
}

// Contains reports whether p's value on the brushed axis is within bounds.
func (b Brush) Contains(p StateProfile) bool {
	b = b.Normalize()
	v := p.Value(b.Dimension)
	return !math.IsNaN(v) && v >= b.Lo && v <= b.Hi
}

// ParseBrush parses "dimension:lo:hi".
func ParseBrush(s string) (Brush, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return Brush{}, fmt.Errorf("brush %q: want dimension:lo:hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Brush{}, fmt.Errorf("brush %q: bad lower bound: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[2]), 64)
	if err != nil {
		return Brush{}, fmt.Errorf("brush %q: bad upper bound: %w", s, err)
	}
	dim := strings.TrimSpace(parts[0])
	if math.IsNaN((StateProfile{}).Value(dim)) {
		return Brush{}, fmt.Errorf("brush %q: unknown dimension %q", s, dim)
	}
	return Brush{Dimension: dim, Lo: lo, Hi: hi}.Normalize(), nil
}

// BrushSet holds at most one brush per dimension.
type BrushSet map[string]Brush

// Set adds or replaces the brush on b.Dimension.
func (s BrushSet) Set(b Brush) {
	s[b.Dimension] = b.Normalize()
}

// Clear removes the brush on a dimension.
func (s BrushSet) Clear(dimension string) {
	delete(s, dimension)
}

// Active reports whether any brush is set.
func (s BrushSet) Active() bool {
	return len(s) > 0
}

// Filter returns the profiles inside every brush, in input order.
// An empty set keeps everything.
func (s BrushSet) Filter(profiles []StateProfile) []StateProfile {
	out := make([]StateProfile, 0, len(profiles))
	for _, p := range profiles {
		if s.Contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// Contains reports whether p passes every brush.
func (s BrushSet) Contains(p StateProfile) bool {
	for _, b := range s {
		if !b.Contains(p) {
			return false
		}
	}
	return true
}

// ============================================================================
// HIGHLIGHT
// ============================================================================

const (
	OpacityHighlighted = 0.8
	OpacityDimmed      = 0.3
)

// Highlight is the set of state names drawn at full opacity.
// An empty highlight treats every state as highlighted.
type Highlight map[string]bool

// NewHighlight builds a highlight from full state names.
func NewHighlight(states ...string) Highlight {
	h := make(Highlight, len(states))
	for _, s := range states {
		if s = strings.TrimSpace(s); s != "" {
			h[s] = true
		}
	}
	return h
}

// Opacity returns the stroke opacity for a profile.
func (h Highlight) Opacity(p StateProfile) float64 {
	if len(h) == 0 || h[p.State] {
		return OpacityHighlighted
	}
	return OpacityDimmed
}
