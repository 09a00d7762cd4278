package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mindes-tools/vtsview/geom"
)

// Mode selects which visualization pipeline draws the current frame.
type Mode int

const (
	ModeSurface Mode = iota
	ModeSurfaceGrid
	ModeClip
	ModeContour
	ModeGlyph
)

var modeNames = []string{
	"Surface", "Surface-with-grid", "Clip", "Contour", "Vector-Arrows",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// ParseMode converts a mode name to its Mode value.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown visualization mode %q", s)
}

// Axis names a coordinate axis for clipping and camera alignment.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string { return [...]string{"X", "Y", "Z"}[a] }

// ParseAxis accepts "X", "Y" or "Z".
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	}
	return 0, fmt.Errorf("unknown axis %q", s)
}

// GlyphSizeMode chooses how arrow glyphs are scaled.
type GlyphSizeMode int

const (
	// GlyphSizeMagnitude scales each arrow by its vector's magnitude.
	GlyphSizeMagnitude GlyphSizeMode = iota
	// GlyphSizeUniform draws all arrows the same length.
	GlyphSizeUniform
)

// GlyphColorMode chooses how arrow glyphs are colored.
type GlyphColorMode int

const (
	// GlyphColorMap colors arrows by magnitude through the lookup table.
	GlyphColorMap GlyphColorMode = iota
	// GlyphColorFlat paints all arrows a single user-chosen color.
	GlyphColorFlat
)

// Glyph scale factors outside this window are clamped.
const (
	MinGlyphScale = 0.001
	MaxGlyphScale = 100.0
)

// ClampGlyphScale forces a scale factor into the allowed window. A
// non-positive or NaN-ish value falls back to 1.
func ClampGlyphScale(s float64) float64 {
	if !(s > 0) {
		return 1.0
	}
	if s < MinGlyphScale {
		return MinGlyphScale
	}
	if s > MaxGlyphScale {
		return MaxGlyphScale
	}
	return s
}

// Backgrounds maps the selectable background names to their gray levels.
var Backgrounds = map[string][3]float64{
	"White":      {1.0, 1.0, 1.0},
	"Light Gray": {0.9, 0.9, 0.9},
	"Gray":       {0.5, 0.5, 0.5},
	"Dark Gray":  {0.2, 0.2, 0.2},
	"Black":      {0.0, 0.0, 0.0},
}

// BackgroundByName returns the named background, defaulting to Light
// Gray for unknown names.
func BackgroundByName(name string) [3]float64 {
	if c, ok := Backgrounds[name]; ok {
		return c
	}
	return Backgrounds["Light Gray"]
}

// ContrastTextColor picks black or white text against a background
// color using its perceived luminance.
func ContrastTextColor(bg [3]float64) [3]float64 {
	brightness := (bg[0]*299 + bg[1]*587 + bg[2]*114) / 1000
	if brightness > 0.5 {
		return [3]float64{0, 0, 0}
	}
	return [3]float64{1, 1, 1}
}

// Config is the full visualization state read on every redraw.
type Config struct {
	Mode  Mode
	Field string
	// Colormap is a name accepted by render/colormap.
	Colormap string
	// Opacity of the visible actors, 0 to 1.
	Opacity float64
	// IncludeBoundary renders the full grid; when false one cell layer
	// is trimmed from every face (if the grid is large enough).
	IncludeBoundary bool

	AutoRange          bool
	RangeMin, RangeMax float64

	ClipAxis     Axis
	ClipPosition float64

	// ContourLevels is the raw comma-separated level text; unparseable
	// input hides the contour actor instead of failing the render.
	ContourLevels string

	GlyphSizeMode  GlyphSizeMode
	GlyphColorMode GlyphColorMode
	GlyphScale     float64
	GlyphColor     [3]float64

	ShowAxes     bool
	ShowBounds   bool
	ShowColorBar bool

	Background [3]float64
}

// DefaultConfig matches the viewer's reset state.
func DefaultConfig() Config {
	return Config{
		Mode:            ModeSurface,
		Colormap:        "Cool-Warm",
		Opacity:         1.0,
		IncludeBoundary: true,
		AutoRange:       true,
		GlyphScale:      1.0,
		GlyphColor:      [3]float64{1, 0, 0},
		Background:      Backgrounds["Light Gray"],
	}
}

// ParseContourLevels parses a comma-separated list of level values.
// Empty tokens are skipped; an empty or unparseable list is an error
// (the caller hides the contour actor rather than aborting the render).
func ParseContourLevels(text string) ([]float64, error) {
	var levels []float64
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("bad contour level %q", tok)
		}
		levels = append(levels, v)
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no contour levels given")
	}
	return levels, nil
}

// ClipPlane returns the clip plane's origin and normal for a grid with
// the given bounds: the user position on the clip axis, bounds midpoints
// on the other two, normal along the axis.
func ClipPlane(b geom.Bounds, axis Axis, pos float64) (origin, normal geom.Vec) {
	origin = b.Center()
	origin[axis] = pos
	normal[axis] = 1
	return origin, normal
}
