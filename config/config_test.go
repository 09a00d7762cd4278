package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gcfg.v1"

	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/render"
)

func TestExampleFileParses(t *testing.T) {
	w := DefaultWrapper()
	require.NoError(t, gcfg.ReadStringInto(w, ExampleViewerFile))

	assert.True(t, w.Viewer.ValidMode())
	assert.True(t, w.Viewer.ValidColormap())
	assert.True(t, w.Viewer.ValidOpacity())
	assert.True(t, w.Viewer.ValidClipAxis())
	assert.True(t, w.Viewer.ValidGlyphSizeMode())
	assert.True(t, w.Viewer.ValidGlyphColorMode())
	assert.True(t, w.Viewer.ValidBackground())
	assert.True(t, w.Viewer.ValidImageSize())
	assert.True(t, w.Viewer.ValidOutput())
	assert.True(t, w.Viewer.ValidImageFormat())
	assert.True(t, w.Playback.ValidDelayMS())
	assert.True(t, w.Playback.ValidAutoIntervalMS())
	assert.True(t, w.Playback.ValidQueueCapacity())
	assert.True(t, w.Probe.ValidSegments())

	_, err := w.Viewer.ToRenderConfig()
	assert.NoError(t, err)
}

func TestReadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.ini")
	body := `[Viewer]
Mode = Contour
ContourLevels = 0.25, 0.75
Colormap = Viridis
Opacity = 0.5
Background = Black

[Playback]
DelayMS = 40
`
	require.NoError(t, ioutil.WriteFile(path, []byte(body), 0666))

	w, err := ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "Contour", w.Viewer.Mode)
	assert.Equal(t, "Viridis", w.Viewer.Colormap)
	assert.Equal(t, 0.5, w.Viewer.Opacity)
	assert.Equal(t, 40, w.Playback.DelayMS)
	// Untouched sections keep their defaults.
	assert.Equal(t, 500, w.Playback.AutoIntervalMS)
	assert.Equal(t, 2, w.Playback.QueueCapacity)
	assert.Equal(t, "X", w.Viewer.ClipAxis)

	cfg, err := w.Viewer.ToRenderConfig()
	require.NoError(t, err)
	assert.Equal(t, render.ModeContour, cfg.Mode)
	assert.Equal(t, "0.25, 0.75", cfg.ContourLevels)
	assert.Equal(t, [3]float64{0, 0, 0}, cfg.Background)
	assert.Equal(t, 0.5, cfg.Opacity)
}

func TestValidators(t *testing.T) {
	w := DefaultWrapper()
	w.Viewer.Mode = "Sliced"
	assert.False(t, w.Viewer.ValidMode())
	w.Viewer.Colormap = "Magma"
	assert.False(t, w.Viewer.ValidColormap())
	w.Viewer.Opacity = 1.5
	assert.False(t, w.Viewer.ValidOpacity())
	w.Viewer.ClipAxis = "W"
	assert.False(t, w.Viewer.ValidClipAxis())
	w.Viewer.ImageWidth = 0
	assert.False(t, w.Viewer.ValidImageSize())
	w.Playback.DelayMS = 0
	assert.False(t, w.Playback.ValidDelayMS())
	w.Probe.Segments = 0
	assert.False(t, w.Probe.ValidSegments())

	_, err := w.Viewer.ToRenderConfig()
	assert.Error(t, err)
}

func TestParseRGB(t *testing.T) {
	c, err := ParseRGB("1, 0, 0.5")
	require.NoError(t, err)
	assert.Equal(t, [3]float64{1, 0, 0.5}, c)

	_, err = ParseRGB("1, 0")
	assert.Error(t, err)
	_, err = ParseRGB("1, 0, 2")
	assert.Error(t, err)
	_, err = ParseRGB("red, 0, 0")
	assert.Error(t, err)
}

func TestProbeEndpoints(t *testing.T) {
	w := DefaultWrapper()
	w.Probe.X1, w.Probe.Y1, w.Probe.Z1 = 1, 2, 3
	p1, p2 := w.Probe.Endpoints()
	assert.Equal(t, geom.Vec{1, 2, 3}, p1)
	assert.Equal(t, geom.Vec{1, 1, 1}, p2)
}

func TestGlyphConversion(t *testing.T) {
	w := DefaultWrapper()
	w.Viewer.Mode = "Vector-Arrows"
	w.Viewer.GlyphSizeMode = "Uniform"
	w.Viewer.GlyphColorMode = "Flat"
	w.Viewer.GlyphFlatColor = "0, 1, 0"
	w.Viewer.GlyphScale = 1e9

	cfg, err := w.Viewer.ToRenderConfig()
	require.NoError(t, err)
	assert.Equal(t, render.ModeGlyph, cfg.Mode)
	assert.Equal(t, render.GlyphSizeUniform, cfg.GlyphSizeMode)
	assert.Equal(t, render.GlyphColorFlat, cfg.GlyphColorMode)
	assert.Equal(t, [3]float64{0, 1, 0}, cfg.GlyphColor)
	assert.Equal(t, render.MaxGlyphScale, cfg.GlyphScale)
}
