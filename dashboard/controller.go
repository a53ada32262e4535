// Package dashboard drives the four-scene dashboard: scene navigation, the
// Explore filter, and the reload policy around the aggregation pipeline.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spektr-org/crimescope/dataset"
	"github.com/spektr-org/crimescope/engine"
	"github.com/spektr-org/crimescope/logger"
	"github.com/spektr-org/crimescope/parallel"
)

// ErrStale is returned by Explore when a newer recompute started while
// this one was loading. Its result is discarded.
var ErrStale = errors.New("explore result superseded by a newer request")

// Source loads the Explore dataset. *dataset.Loader satisfies it.
type Source interface {
	Load(ctx context.Context, path string) (*dataset.Dataset, error)
}

// ExploreView is one completed Explore recompute.
type ExploreView struct {
	Generation uint64             `json:"generation"`
	DatasetID  string             `json:"datasetId"`
	Fallback   bool               `json:"fallback"`
	Result     *engine.Result     `json:"result"`
	Highlight  parallel.Highlight `json:"highlight,omitempty"`

	// Selector choices for the loaded dataset.
	States []Option `json:"states"`
	Years  []Option `json:"years"`
}

// Controller owns the current scene and Explore selection.
//
// Every Explore call reloads through Source and re-runs the pipeline with
// a freshly built FilterSpec. When calls overlap, only the latest may
// publish; earlier ones get ErrStale.
type Controller struct {
	mu sync.Mutex

	source Source
	path   string
	opts   []engine.Option

	scene  Scene
	filter engine.FilterSpec
	query  engine.ExploreQuery

	generation uint64
	last       *ExploreView
}

// NewController returns a controller on the Trend scene with the given
// Explore template. template.Filter is the initial selection.
func NewController(source Source, path string, template engine.ExploreQuery, opts ...engine.Option) *Controller {
	return &Controller{
		source: source,
		path:   path,
		opts:   opts,
		scene:  Trend,
		filter: template.Filter.Normalize(),
		query:  template,
	}
}

// ── Navigation ───────────────────────────────────────────────────────────────

// Scene returns the current scene.
func (c *Controller) Scene() Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scene
}

// Show switches to s.
func (c *Controller) Show(s Scene) error {
	if !s.Valid() {
		return fmt.Errorf("unknown scene %d", int(s))
	}
	c.mu.Lock()
	c.scene = s
	c.mu.Unlock()
	logger.Debug("🔧 dashboard: scene %s", s)
	return nil
}

// Next advances one scene. It stays put on the last scene.
func (c *Controller) Next() Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene < Explore {
		c.scene++
	}
	return c.scene
}

// Prev goes back one scene. It stays put on the first scene.
func (c *Controller) Prev() Scene {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene > Trend {
		c.scene--
	}
	return c.scene
}

// ── Explore ──────────────────────────────────────────────────────────────────

// Filter returns the current Explore selection.
func (c *Controller) Filter() engine.FilterSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// SetFilter replaces the Explore selection. Any in-flight Explore call
// becomes stale.
func (c *Controller) SetFilter(f engine.FilterSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = f.Normalize()
	c.generation++
}

// SetChart selects the Explore chart: "line", or "bar" for a single year.
func (c *Controller) SetChart(visualize string, year int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.Visualize = visualize
	c.query.Year = year
	c.generation++
}

// Last returns the most recent published Explore view, or nil.
func (c *Controller) Last() *ExploreView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Explore loads the dataset and recomputes the Explore chart for the
// current selection.
func (c *Controller) Explore(ctx context.Context) (*ExploreView, error) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	q := c.query
	q.Filter = c.filter
	path := c.path
	c.mu.Unlock()

	ds, loadErr := c.source.Load(ctx, path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		logger.Debug("🔧 dashboard: discarding explore generation %d (current %d)", gen, c.generation)
		return nil, ErrStale
	}
	if loadErr != nil {
		return nil, fmt.Errorf("explore load failed: %w", loadErr)
	}

	res, err := engine.Execute(q, ds.View(), c.opts...)
	if err != nil {
		return nil, err
	}

	view := &ExploreView{
		Generation: gen,
		DatasetID:  ds.ID.String(),
		Fallback:   ds.IsFallback(),
		Result:     res,
		States:     StateOptions(ds.Records),
		Years:      DatasetYearOptions(ds.Records),
	}
	if name, ok := StateName(q.Filter.State); ok {
		view.Highlight = parallel.NewHighlight(name)
	}
	c.last = view
	return view, nil
}
