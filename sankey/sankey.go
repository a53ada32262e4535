package sankey

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ============================================================================
// SANKEY — flow graph validation + layout
// ============================================================================
// Nodes are placed in columns by depth (longest path from a source); sinks
// are justified to the last column. Node height is proportional to
// max(inflow, outflow). Link width is proportional to its value.
// ============================================================================

var (
	// ErrUnknownNode is returned when a link names a node that does not exist.
	ErrUnknownNode = errors.New("sankey: link references unknown node")
	// ErrCycle is returned when the links do not form a DAG.
	ErrCycle = errors.New("sankey: graph contains a cycle")
	// ErrBadValue is returned for a link value that is not positive and finite.
	ErrBadValue = errors.New("sankey: link value must be positive")
)

// Node is one category in the flow.
type Node struct {
	ID string `json:"id"`
}

// Link is a weighted flow from Source to Target.
type Link struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Value  float64 `json:"value"`
}

// Graph is a set of nodes and links.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// DefaultWeaponFlow returns the weapon → victim sex → arrest outcome sample.
func DefaultWeaponFlow() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "Knife"}, {ID: "Gun"},
			{ID: "Male"}, {ID: "Female"},
			{ID: "Arrested"}, {ID: "Not Arrested"},
		},
		Links: []Link{
			{Source: "Knife", Target: "Male", Value: 30},
			{Source: "Knife", Target: "Female", Value: 20},
			{Source: "Gun", Target: "Male", Value: 50},
			{Source: "Gun", Target: "Female", Value: 10},
			{Source: "Male", Target: "Arrested", Value: 60},
			{Source: "Male", Target: "Not Arrested", Value: 20},
			{Source: "Female", Target: "Arrested", Value: 25},
			{Source: "Female", Target: "Not Arrested", Value: 5},
		},
	}
}

// Validate checks node references, link values, and acyclicity.
func (g Graph) Validate() error {
	_, err := g.order()
	return err
}

// order returns node indices in topological order.
func (g Graph) order() ([]int, error) {
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, dup := index[n.ID]; dup {
			return nil, fmt.Errorf("sankey: duplicate node %q", n.ID)
		}
		index[n.ID] = i
	}

	indeg := make([]int, len(g.Nodes))
	out := make([][]int, len(g.Nodes))
	for _, l := range g.Links {
		s, ok := index[l.Source]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, l.Source)
		}
		t, ok := index[l.Target]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownNode, l.Target)
		}
		if !(l.Value > 0) || math.IsInf(l.Value, 0) {
			return nil, fmt.Errorf("%w: %s → %s = %v", ErrBadValue, l.Source, l.Target, l.Value)
		}
		out[s] = append(out[s], t)
		indeg[t]++
	}

	// Kahn's algorithm, seeded in node order for a stable result.
	var queue, order []int
	for i, d := range indeg {
		if d == 0 {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)
		for _, t := range out[n] {
			indeg[t]--
			if indeg[t] == 0 {
				queue = append(queue, t)
			}
		}
	}
	if len(order) != len(g.Nodes) {
		return nil, ErrCycle
	}
	return order, nil
}

// ============================================================================
// LAYOUT
// ============================================================================

// Options controls the layout extent.
type Options struct {
	Width, Height int
	NodeWidth     float64
	NodePadding   float64
	Margin        float64
}

// DefaultOptions mirrors the dashboard's 1100×400 Sankey panel.
func DefaultOptions() Options {
	return Options{Width: 1100, Height: 400, NodeWidth: 24, NodePadding: 20, Margin: 30}
}

// NodeLayout is a positioned node.
type NodeLayout struct {
	ID     string
	Index  int
	Depth  int
	Value  float64
	X0, X1 float64
	Y0, Y1 float64
	In     float64
	Out    float64
}

// LinkLayout is a positioned link. Y0 is the center of the link at the
// source node, Y1 the center at the target node.
type LinkLayout struct {
	Link
	Source, Target int
	Width          float64
	Y0, Y1         float64
}

// Layout is a computed diagram.
type Layout struct {
	Options Options
	Nodes   []NodeLayout
	Links   []LinkLayout
}

// Layout validates the graph and positions every node and link.
func (g Graph) Layout(opts Options) (*Layout, error) {
	order, err := g.order()
	if err != nil {
		return nil, err
	}
	if opts.NodeWidth <= 0 {
		opts.NodeWidth = 24
	}

	lay := &Layout{Options: opts, Nodes: make([]NodeLayout, len(g.Nodes))}
	index := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		index[n.ID] = i
		lay.Nodes[i] = NodeLayout{ID: n.ID, Index: i}
	}

	// Values and flows
	outs := make([][]int, len(g.Nodes))
	for li, l := range g.Links {
		s, t := index[l.Source], index[l.Target]
		lay.Nodes[s].Out += l.Value
		lay.Nodes[t].In += l.Value
		outs[s] = append(outs[s], li)
	}
	for i := range lay.Nodes {
		lay.Nodes[i].Value = math.Max(lay.Nodes[i].In, lay.Nodes[i].Out)
	}

	// Depth = longest path from a source
	maxDepth := 0
	for _, n := range order {
		for _, li := range outs[n] {
			t := index[g.Links[li].Target]
			if d := lay.Nodes[n].Depth + 1; d > lay.Nodes[t].Depth {
				lay.Nodes[t].Depth = d
			}
		}
	}
	for _, n := range lay.Nodes {
		if n.Depth > maxDepth {
			maxDepth = n.Depth
		}
	}
	// Justify: sinks go to the last column
	for i := range lay.Nodes {
		if len(outs[i]) == 0 && lay.Nodes[i].In > 0 {
			lay.Nodes[i].Depth = maxDepth
		}
	}

	// Columns
	columns := make([][]int, maxDepth+1)
	for i, n := range lay.Nodes {
		columns[n.Depth] = append(columns[n.Depth], i)
	}

	x0 := opts.Margin
	innerW := float64(opts.Width) - 2*opts.Margin
	innerH := float64(opts.Height) - 2*opts.Margin
	step := 0.0
	if maxDepth > 0 {
		step = (innerW - opts.NodeWidth) / float64(maxDepth)
	}

	// Vertical scale: the tightest column decides
	ky := math.Inf(1)
	for _, col := range columns {
		var sum float64
		for _, i := range col {
			sum += lay.Nodes[i].Value
		}
		if sum == 0 {
			continue
		}
		avail := innerH - float64(len(col)-1)*opts.NodePadding
		ky = math.Min(ky, avail/sum)
	}
	if math.IsInf(ky, 1) || ky < 0 {
		ky = 0
	}

	for d, col := range columns {
		var used float64
		for _, i := range col {
			used += lay.Nodes[i].Value * ky
		}
		used += float64(len(col)-1) * opts.NodePadding
		y := opts.Margin + (innerH-used)/2
		for _, i := range col {
			n := &lay.Nodes[i]
			n.X0 = x0 + float64(d)*step
			n.X1 = n.X0 + opts.NodeWidth
			n.Y0 = y
			n.Y1 = y + n.Value*ky
			y = n.Y1 + opts.NodePadding
		}
	}

	// Links: stack at each end, ordered by the other end's position
	lay.Links = make([]LinkLayout, len(g.Links))
	for li, l := range g.Links {
		lay.Links[li] = LinkLayout{
			Link:   l,
			Source: index[l.Source],
			Target: index[l.Target],
			Width:  l.Value * ky,
		}
	}
	bySource := make([][]int, len(g.Nodes))
	byTarget := make([][]int, len(g.Nodes))
	for li, l := range lay.Links {
		bySource[l.Source] = append(bySource[l.Source], li)
		byTarget[l.Target] = append(byTarget[l.Target], li)
	}
	for i := range lay.Nodes {
		src := bySource[i]
		sort.SliceStable(src, func(a, b int) bool {
			return lay.Nodes[lay.Links[src[a]].Target].Y0 < lay.Nodes[lay.Links[src[b]].Target].Y0
		})
		y := lay.Nodes[i].Y0
		for _, li := range src {
			lay.Links[li].Y0 = y + lay.Links[li].Width/2
			y += lay.Links[li].Width
		}

		tgt := byTarget[i]
		sort.SliceStable(tgt, func(a, b int) bool {
			return lay.Nodes[lay.Links[tgt[a]].Source].Y0 < lay.Nodes[lay.Links[tgt[b]].Source].Y0
		})
		y = lay.Nodes[i].Y0
		for _, li := range tgt {
			lay.Links[li].Y1 = y + lay.Links[li].Width/2
			y += lay.Links[li].Width
		}
	}

	return lay, nil
}

// Node returns the layout of the node with the given id.
func (l *Layout) Node(id string) (NodeLayout, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeLayout{}, false
}

// LinkPath returns the SVG path of a link's centerline as a horizontal
// cubic Bézier from the source's right edge to the target's left edge.
func (l *Layout) LinkPath(link LinkLayout) string {
	x0 := l.Nodes[link.Source].X1
	x1 := l.Nodes[link.Target].X0
	xm := (x0 + x1) / 2
	return fmt.Sprintf("M%.2f,%.2fC%.2f,%.2f %.2f,%.2f %.2f,%.2f",
		x0, link.Y0, xm, link.Y0, xm, link.Y1, x1, link.Y1)
}

// LinkTooltip is the hover text of a link.
func LinkTooltip(l Link) string {
	return fmt.Sprintf("Source: %s\nTarget: %s\nValue: %g", l.Source, l.Target, l.Value)
}

// NodeTooltip is the hover text of a node.
func NodeTooltip(n NodeLayout) string {
	return fmt.Sprintf("Node: %s", n.ID)
}
