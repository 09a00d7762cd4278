/*Package config reads the viewer's INI configuration files.*/
package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/render"
	"github.com/mindes-tools/vtsview/render/colormap"
)

const ExampleViewerFile = `[Viewer]

#######################
# Required Parameters #
#######################

# Visualization mode. One of:
# [ Surface | Surface-with-grid | Clip | Contour | Vector-Arrows ]
Mode = Surface

# Color map used for scalar coloring. One of:
# [ Cool-Warm | Rainbow | Grayscale | Viridis | Plasma ]
Colormap = Cool-Warm

#######################
# Optional Parameters #
#######################

# Point-data array to color by. When empty, the first field of each
# frame is used (scalars sort before vectors).
# Field = phi

# Actor opacity from 0 to 1.
Opacity = 1.0

# Render the outermost cell layer. Turning this off trims one layer of
# cells from every face when the grid has at least 3 cells per axis.
IncludeBoundary = true

# Compute the scalar range from the data. When false, RangeMin/RangeMax
# are used instead; an inverted manual range falls back to auto.
AutoRange = true
# RangeMin = 0.0
# RangeMax = 1.0

# Clip mode: axis [ X | Y | Z ] and position along it.
ClipAxis = X
ClipPosition = 0.0

# Contour mode: comma-separated isosurface levels.
# ContourLevels = 0.25, 0.5, 0.75

# Vector-Arrows mode. SizeMode is [ Magnitude | Uniform ], ColorMode is
# [ Colormap | Flat ]. Scale is clamped to [0.001, 100]. FlatColor is
# three RGB components in [0, 1].
GlyphSizeMode = Magnitude
GlyphColorMode = Colormap
GlyphScale = 1.0
GlyphFlatColor = 1, 0, 0

# Scene decorations.
ShowAxes = false
ShowBounds = false
ShowColorBar = false

# Background. One of:
# [ White | Light Gray | Gray | Dark Gray | Black ]
Background = Light Gray

# Output image size in pixels.
ImageWidth = 800
ImageHeight = 600

# Directory rendered images and probe tables are written to.
Output = .

# Image format by extension: [ png | jpg | jpeg | tif | tiff | bmp ]
ImageFormat = png

# Series prefix. When empty the folder must contain exactly one series.
# Prefix = step

[Playback]

# Delay between playback ticks, in milliseconds.
DelayMS = 20

# Auto-update folder re-scan interval, in milliseconds.
AutoIntervalMS = 500

# Number of prefetched frames held ahead of playback.
QueueCapacity = 2

[Probe]

# Probe line endpoints.
X1 = 0.0
Y1 = 0.0
Z1 = 0.0
X2 = 1.0
Y2 = 1.0
Z2 = 1.0

# Number of line segments the probe is resampled into.
Segments = 100`

type ViewerConfig struct {
	Mode     string
	Field    string
	Colormap string
	Opacity  float64

	IncludeBoundary bool

	AutoRange          bool
	RangeMin, RangeMax float64

	ClipAxis     string
	ClipPosition float64

	ContourLevels string

	GlyphSizeMode  string
	GlyphColorMode string
	GlyphScale     float64
	GlyphFlatColor string

	ShowAxes     bool
	ShowBounds   bool
	ShowColorBar bool

	Background string

	ImageWidth, ImageHeight int

	Output      string
	ImageFormat string

	Prefix string
}

type PlaybackConfig struct {
	DelayMS        int
	AutoIntervalMS int
	QueueCapacity  int
}

type ProbeConfig struct {
	X1, Y1, Z1 float64
	X2, Y2, Z2 float64
	Segments   int
}

// Wrapper is the gcfg target for one config file holding all three
// sections.
type Wrapper struct {
	Viewer   ViewerConfig
	Playback PlaybackConfig
	Probe    ProbeConfig
}

// DefaultWrapper returns a Wrapper preloaded with the viewer's reset
// state, so a config file only has to name what it changes.
func DefaultWrapper() *Wrapper {
	w := &Wrapper{}
	w.Viewer.Mode = "Surface"
	w.Viewer.Colormap = "Cool-Warm"
	w.Viewer.Opacity = 1.0
	w.Viewer.IncludeBoundary = true
	w.Viewer.AutoRange = true
	w.Viewer.ClipAxis = "X"
	w.Viewer.GlyphSizeMode = "Magnitude"
	w.Viewer.GlyphColorMode = "Colormap"
	w.Viewer.GlyphScale = 1.0
	w.Viewer.GlyphFlatColor = "1, 0, 0"
	w.Viewer.Background = "Light Gray"
	w.Viewer.ImageWidth = 800
	w.Viewer.ImageHeight = 600
	w.Viewer.Output = "."
	w.Viewer.ImageFormat = "png"
	w.Playback.DelayMS = 20
	w.Playback.AutoIntervalMS = 500
	w.Playback.QueueCapacity = 2
	w.Probe.X2, w.Probe.Y2, w.Probe.Z2 = 1, 1, 1
	w.Probe.Segments = 100
	return w
}

// ReadFile loads a config file over the defaults.
func ReadFile(path string) (*Wrapper, error) {
	w := DefaultWrapper()
	if err := gcfg.ReadFileInto(w, path); err != nil {
		return nil, err
	}
	return w, nil
}

func (con *ViewerConfig) ValidMode() bool {
	_, err := render.ParseMode(con.Mode)
	return err == nil
}
func (con *ViewerConfig) ValidColormap() bool {
	return colormap.IsKnown(con.Colormap)
}
func (con *ViewerConfig) ValidOpacity() bool {
	return con.Opacity >= 0 && con.Opacity <= 1
}
func (con *ViewerConfig) ValidClipAxis() bool {
	_, err := render.ParseAxis(con.ClipAxis)
	return err == nil
}
func (con *ViewerConfig) ValidGlyphSizeMode() bool {
	return con.GlyphSizeMode == "Magnitude" || con.GlyphSizeMode == "Uniform"
}
func (con *ViewerConfig) ValidGlyphColorMode() bool {
	return con.GlyphColorMode == "Colormap" || con.GlyphColorMode == "Flat"
}
func (con *ViewerConfig) ValidBackground() bool {
	_, ok := render.Backgrounds[con.Background]
	return ok
}
func (con *ViewerConfig) ValidImageSize() bool {
	return con.ImageWidth > 0 && con.ImageHeight > 0
}
func (con *ViewerConfig) ValidOutput() bool {
	return con.Output != ""
}
func (con *ViewerConfig) ValidImageFormat() bool {
	switch con.ImageFormat {
	case "png", "jpg", "jpeg", "tif", "tiff", "bmp":
		return true
	}
	return false
}

func (con *PlaybackConfig) ValidDelayMS() bool        { return con.DelayMS > 0 }
func (con *PlaybackConfig) ValidAutoIntervalMS() bool { return con.AutoIntervalMS > 0 }
func (con *PlaybackConfig) ValidQueueCapacity() bool  { return con.QueueCapacity > 0 }

func (con *ProbeConfig) ValidSegments() bool { return con.Segments > 0 }

// Endpoints returns the probe line as vectors.
func (con *ProbeConfig) Endpoints() (p1, p2 geom.Vec) {
	return geom.Vec{con.X1, con.Y1, con.Z1}, geom.Vec{con.X2, con.Y2, con.Z2}
}

// ParseRGB parses three comma-separated color components in [0, 1].
func ParseRGB(s string) ([3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return [3]float64{}, fmt.Errorf("bad RGB color %q", s)
	}
	var c [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || v < 0 || v > 1 {
			return [3]float64{}, fmt.Errorf("bad RGB component %q", p)
		}
		c[i] = v
	}
	return c, nil
}

// ToRenderConfig converts the validated viewer section into the render
// package's configuration.
func (con *ViewerConfig) ToRenderConfig() (render.Config, error) {
	cfg := render.DefaultConfig()

	mode, err := render.ParseMode(con.Mode)
	if err != nil {
		return cfg, err
	}
	axis, err := render.ParseAxis(con.ClipAxis)
	if err != nil {
		return cfg, err
	}
	flat, err := ParseRGB(con.GlyphFlatColor)
	if err != nil {
		return cfg, err
	}
	if !con.ValidColormap() {
		return cfg, fmt.Errorf("unknown color map %q", con.Colormap)
	}
	if !con.ValidOpacity() {
		return cfg, fmt.Errorf("opacity %g out of range", con.Opacity)
	}

	cfg.Mode = mode
	cfg.Field = con.Field
	cfg.Colormap = con.Colormap
	cfg.Opacity = con.Opacity
	cfg.IncludeBoundary = con.IncludeBoundary
	cfg.AutoRange = con.AutoRange
	cfg.RangeMin, cfg.RangeMax = con.RangeMin, con.RangeMax
	cfg.ClipAxis = axis
	cfg.ClipPosition = con.ClipPosition
	cfg.ContourLevels = con.ContourLevels
	if con.GlyphSizeMode == "Uniform" {
		cfg.GlyphSizeMode = render.GlyphSizeUniform
	}
	if con.GlyphColorMode == "Flat" {
		cfg.GlyphColorMode = render.GlyphColorFlat
	}
	cfg.GlyphScale = render.ClampGlyphScale(con.GlyphScale)
	cfg.GlyphColor = flat
	cfg.ShowAxes = con.ShowAxes
	cfg.ShowBounds = con.ShowBounds
	cfg.ShowColorBar = con.ShowColorBar
	cfg.Background = render.BackgroundByName(con.Background)
	return cfg, nil
}
