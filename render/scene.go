/*Package render draws GridFrames into images. It reproduces the scene
behavior of an interactive grid viewer: a fixed registry of per-mode
actors created once and reconfigured on every call, a cached lookup
table, and a camera that is reset exactly once per series and restored
on every later render so playback never jumps the view.*/
package render

import (
	"fmt"
	"image"

	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/render/colormap"
	"github.com/mindes-tools/vtsview/vtsio"
)

// shadedTri is a world-space triangle with per-vertex scalar values,
// colored through the lookup table at raster time.
type shadedTri struct {
	p [3]geom.Vec
	v [3]float64
}

// flatSeg is a world-space line segment in a fixed color.
type flatSeg struct {
	a, b geom.Vec
	col  [3]float64
}

// actor is one persistent scene object: geometry plus visibility and
// draw style. Actors are allocated once by NewPipeline and refilled per
// render, never recreated.
type actor struct {
	visible bool
	tris    []shadedTri
	lines   []flatSeg
	useFlat bool
	flat    [3]float64
	opacity float64
	bias    float64
}

func (a *actor) clear() {
	a.visible = false
	a.tris = a.tris[:0]
	a.lines = a.lines[:0]
	a.useFlat = false
	a.opacity = 1
	a.bias = 0
}

// Result reports what one Render call did, for callers that reflect
// state back into UI controls and for tests.
type Result struct {
	// Skipped is set when nothing could be drawn (no frame, or the
	// selected field is absent); prior scene state is left alone.
	Skipped bool
	Reason  string

	// ScalarName is the array that colored the scene (the magnitude
	// array for vector fields).
	ScalarName string
	// Range is the effective scalar range, reflected back into the
	// manual-range controls when auto-range is on.
	Range [2]float64
	// LUTRebuilt reports whether the lookup table was reconstructed.
	LUTRebuilt bool
	// CameraReset reports whether this call framed a new series.
	CameraReset bool
	// ContourHidden / GlyphHidden report graceful per-mode fallbacks.
	ContourHidden bool
	GlyphHidden   bool

	Image *image.RGBA
}

// Pipeline owns the persistent scene. All methods must be called from a
// single thread; frames arrive from the playback controller, which
// guarantees that.
type Pipeline struct {
	Width, Height int
	// Status receives short user-facing messages; optional.
	Status func(msg string)

	cam       Camera
	saved     Camera
	haveSaved bool
	resetNext bool

	luts colormap.Manager
	lut  *colormap.LUT

	surface, wire, clip, contour, glyph *actor
	axes, box                           *actor

	lastImage *image.RGBA
}

// NewPipeline creates the actor registry for images of the given size.
func NewPipeline(width, height int) *Pipeline {
	p := &Pipeline{
		Width: width, Height: height,
		surface: &actor{}, wire: &actor{}, clip: &actor{},
		contour: &actor{}, glyph: &actor{},
		axes: &actor{}, box: &actor{},
	}
	p.resetNext = true
	return p
}

// NewSeries arms a one-time camera reset: the next Render frames the
// whole dataset, later ones restore the saved view.
func (p *Pipeline) NewSeries() { p.resetNext = true }

// Camera exposes the live camera for interactive manipulation.
func (p *Pipeline) Camera() *Camera { return &p.cam }

func (p *Pipeline) status(msg string) {
	if p.Status != nil {
		p.Status(msg)
	}
}

func (p *Pipeline) actors() []*actor {
	return []*actor{p.surface, p.wire, p.clip, p.contour, p.glyph, p.axes, p.box}
}

func (p *Pipeline) hideAll() {
	for _, a := range p.actors() {
		a.clear()
	}
}

// Render updates the scene for one frame and configuration and
// rasterizes it. It never returns an error: problems degrade into a
// skipped render or a hidden actor, reported through Result.
func (p *Pipeline) Render(frame *vtsio.GridFrame, cfg Config) *Result {
	res := &Result{}
	p.hideAll()

	if frame == nil {
		res.Skipped, res.Reason = true, "no frame loaded"
		return res
	}

	grid := frame
	if !cfg.IncludeBoundary {
		grid = grid.Interior()
	}

	// Resolve the coloring scalar. A vector field colors by its cached
	// magnitude array. An absent field skips the render quietly.
	name := cfg.Field
	if name == "" {
		if fs := grid.Fields(); len(fs) > 0 {
			name = fs[0].Name
		}
	}
	field, ok := grid.Field(name)
	if !ok {
		res.Skipped = true
		res.Reason = fmt.Sprintf("field %q not in current frame", name)
		return res
	}
	scalar := field
	if field.Kind() == vtsio.Vector {
		scalar, _ = grid.VectorMagnitude(field.Name)
	}
	res.ScalarName = scalar.Name

	// Resolve the scalar range. A manual range with min >= max is
	// invalid and falls back to auto.
	lo, hi := cfg.RangeMin, cfg.RangeMax
	if cfg.AutoRange || lo >= hi {
		lo, hi = scalar.Range()
	}
	res.Range = [2]float64{lo, hi}

	lut, rebuilt, err := p.luts.Lookup(cfg.Colormap, lo, hi)
	if err != nil {
		res.Skipped, res.Reason = true, err.Error()
		return res
	}
	p.lut = lut
	res.LUTRebuilt = rebuilt

	switch cfg.Mode {
	case ModeSurface:
		p.updateSurface(grid, scalar, false)
	case ModeSurfaceGrid:
		p.updateSurface(grid, scalar, true)
	case ModeClip:
		p.updateClip(grid, scalar, cfg.ClipAxis, cfg.ClipPosition)
	case ModeContour:
		if !p.updateContour(grid, scalar, cfg.ContourLevels) {
			res.ContourHidden = true
		}
	case ModeGlyph:
		if !p.updateGlyph(grid, field, cfg) {
			res.GlyphHidden = true
			p.status("Invalid vector data for glyph")
		}
	}

	p.applyOpacity(cfg.Opacity)
	p.updateOverlays(grid.Bounds, cfg)

	// Camera policy: reset once per series, otherwise restore so style
	// and frame changes never move the view.
	if p.resetNext {
		p.cam.Reset(grid.Bounds)
		p.resetNext = false
		res.CameraReset = true
	} else if p.haveSaved {
		p.cam.Restore(p.saved)
	}
	p.saved = p.cam.Save()
	p.haveSaved = true

	res.Image = p.rasterize(cfg)
	p.lastImage = res.Image
	return res
}

func (p *Pipeline) applyOpacity(op float64) {
	if op < 0 {
		op = 0
	} else if op > 1 {
		op = 1
	}
	p.surface.opacity = op
	p.clip.opacity = op
	p.contour.opacity = op
	p.glyph.opacity = op
	// The wireframe overlay is kept slightly more present than the
	// surface it sits on.
	wireOp := op * 1.2
	if wireOp > 1 {
		wireOp = 1
	} else if wireOp < 0.02 {
		wireOp = 0.02
	}
	p.wire.opacity = wireOp
}

func (p *Pipeline) rasterize(cfg Config) *image.RGBA {
	view := newViewTransform(p.cam, p.Width, p.Height)
	cv := newCanvas(p.Width, p.Height, cfg.Background, view)

	for _, a := range p.actors() {
		if !a.visible {
			continue
		}
		for _, tr := range a.tris {
			var cols [3][3]float64
			for i := 0; i < 3; i++ {
				if a.useFlat {
					cols[i] = a.flat
				} else {
					r, g, b := p.lut.Map(tr.v[i])
					cols[i] = [3]float64{r, g, b}
				}
			}
			cv.triangle3D(tr.p[0], tr.p[1], tr.p[2],
				cols[0], cols[1], cols[2], a.opacity, a.bias)
		}
		for _, seg := range a.lines {
			cv.line3D(seg.a, seg.b, seg.col, a.opacity, a.bias)
		}
	}

	if cfg.ShowColorBar {
		p.drawColorBar(cv.img, cfg)
	}
	return cv.img
}
