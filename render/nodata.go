package render

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

// NoDataSVG renders an empty panel carrying message, used when a selection
// has no surviving records.
func NoDataSVG(w io.Writer, message string, opts Options) error {
	opts = opts.normalized()
	ew := &errWriter{w: w}

	canvas := svg.New(ew)
	canvas.Start(opts.Width, opts.Height)
	canvas.Title(message)
	canvas.Rect(0, 0, opts.Width, opts.Height, `fill="#ffffff"`, `stroke="#cccccc"`)
	canvas.Text(opts.Width/2, opts.Height/2, message,
		`text-anchor="middle"`, `dominant-baseline="middle"`,
		`font-family="sans-serif"`, `font-size="16"`, `fill="#666666"`)
	canvas.End()

	return ew.err
}

// errWriter keeps the first write error; svgo does not return one.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
