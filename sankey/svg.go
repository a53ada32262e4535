package sankey

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// category10 is the node palette, assigned in node order.
var category10 = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// NodeColor returns the fill color of the i'th node.
func NodeColor(i int) string {
	return category10[i%len(category10)]
}

// WriteSVG renders the layout. Links are drawn under nodes; every link
// and node carries a <title> so viewers show a hover tooltip.
func (l *Layout) WriteSVG(w io.Writer, title string) error {
	cw := &errWriter{w: w}
	canvas := svg.New(cw)
	canvas.Start(l.Options.Width, l.Options.Height, `font-family="Helvetica,Arial,sans-serif"`)
	if title != "" {
		canvas.Title(title)
	}

	canvas.Group(`fill="none"`)
	for _, link := range l.Links {
		canvas.Group()
		canvas.Title(LinkTooltip(link.Link))
		canvas.Path(l.LinkPath(link),
			fmt.Sprintf(`stroke="%s"`, NodeColor(link.Source)),
			fmt.Sprintf(`stroke-width="%.2f"`, math.Max(1, link.Width)),
			`stroke-opacity="0.4"`)
		canvas.Gend()
	}
	canvas.Gend()

	mid := float64(l.Options.Width) / 2
	for _, n := range l.Nodes {
		canvas.Group()
		canvas.Title(NodeTooltip(n))
		canvas.Rect(round(n.X0), round(n.Y0), round(n.X1-n.X0), round(n.Y1-n.Y0),
			fmt.Sprintf(`fill="%s"`, NodeColor(n.Index)), `stroke="#333"`)
		if n.X0 < mid {
			canvas.Text(round(n.X1+6), round((n.Y0+n.Y1)/2), n.ID, `dy="0.35em"`, `text-anchor="start"`, `font-size="12"`)
		} else {
			canvas.Text(round(n.X0-6), round((n.Y0+n.Y1)/2), n.ID, `dy="0.35em"`, `text-anchor="end"`, `font-size="12"`)
		}
		canvas.Gend()
	}

	canvas.End()
	return cw.err
}

func round(v float64) int {
	return int(math.Round(v))
}

// errWriter records the first write error; svgo itself ignores them.
type errWriter struct {
	w   io.Writer
	err error
}

func (c *errWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	if err != nil {
		c.err = err
	}
	return n, err
}
