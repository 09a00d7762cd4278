package colormap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-12

func entry(t *testing.T, name string, i int) (r, g, b float64) {
	t.Helper()
	l, err := New(name, 0, 1)
	require.NoError(t, err)
	return l.At(i)
}

func TestCoolWarmEndpoints(t *testing.T) {
	r, g, b := entry(t, "Cool-Warm", 0)
	assert.InDelta(t, 0x3b/255.0, r, eps)
	assert.InDelta(t, 0x4c/255.0, g, eps)
	assert.InDelta(t, 0xc0/255.0, b, eps)

	r, g, b = entry(t, "Cool-Warm", 255)
	assert.InDelta(t, 0xb4/255.0, r, eps)
	assert.InDelta(t, 0x04/255.0, g, eps)
	assert.InDelta(t, 0x26/255.0, b, eps)
}

func TestCoolWarmSegments(t *testing.T) {
	// Entry 102 (t = 0.4) is 80% of the way from deep blue to near-white.
	r, g, b := entry(t, "Cool-Warm", 102)
	f := 0.8
	assert.InDelta(t, coolWarmBlue[0]+f*(coolWarmWhite[0]-coolWarmBlue[0]), r, eps)
	assert.InDelta(t, coolWarmBlue[1]+f*(coolWarmWhite[1]-coolWarmBlue[1]), g, eps)
	assert.InDelta(t, coolWarmBlue[2]+f*(coolWarmWhite[2]-coolWarmBlue[2]), b, eps)
}

func TestGrayscale(t *testing.T) {
	for _, i := range []int{0, 51, 255} {
		r, g, b := entry(t, "Grayscale", i)
		want := float64(i) / 255.0
		assert.InDelta(t, want, r, eps)
		assert.InDelta(t, want, g, eps)
		assert.InDelta(t, want, b, eps)
	}
}

func TestRainbowStartsRed(t *testing.T) {
	r, g, b := entry(t, "Rainbow", 0)
	assert.InDelta(t, 1, r, eps)
	assert.InDelta(t, 0, g, eps)
	assert.InDelta(t, 0, b, eps)
}

func TestStopMapsHitTheirStops(t *testing.T) {
	// t = k/9 lands exactly on viridis stop k when 255k is divisible by 9.
	l, err := New("Viridis", 0, 1)
	require.NoError(t, err)
	r, g, b := l.At(0)
	assert.InDelta(t, viridisStops[0][0], r, eps)
	assert.InDelta(t, viridisStops[0][1], g, eps)
	assert.InDelta(t, viridisStops[0][2], b, eps)
	r, g, b = l.At(85) // t = 1/3, stop 3
	assert.InDelta(t, viridisStops[3][0], r, eps)
	assert.InDelta(t, viridisStops[3][1], g, eps)
	assert.InDelta(t, viridisStops[3][2], b, eps)
	r, g, b = l.At(255)
	assert.InDelta(t, viridisStops[9][0], r, eps)
	assert.InDelta(t, viridisStops[9][1], g, eps)
	assert.InDelta(t, viridisStops[9][2], b, eps)

	l, err = New("Plasma", 0, 1)
	require.NoError(t, err)
	r, g, b = l.At(255)
	assert.InDelta(t, plasmaStops[7][0], r, eps)
	assert.InDelta(t, plasmaStops[7][1], g, eps)
	assert.InDelta(t, plasmaStops[7][2], b, eps)
}

func TestHSVToRGB(t *testing.T) {
	r, g, b := hsvToRGB(0, 1, 1)
	assert.InDelta(t, 1, r, eps)
	assert.InDelta(t, 0, g, eps)
	assert.InDelta(t, 0, b, eps)

	r, g, b = hsvToRGB(1.0/3, 1, 1)
	assert.InDelta(t, 0, r, eps)
	assert.InDelta(t, 1, g, eps)
	assert.InDelta(t, 0, b, eps)

	r, g, b = hsvToRGB(2.0/3, 1, 1)
	assert.InDelta(t, 0, r, eps)
	assert.InDelta(t, 0, g, eps)
	assert.InDelta(t, 1, b, eps)

	// Zero saturation is gray at the value level.
	r, g, b = hsvToRGB(0.25, 0, 0.5)
	assert.InDelta(t, 0.5, r, eps)
	assert.InDelta(t, 0.5, g, eps)
	assert.InDelta(t, 0.5, b, eps)
}

func TestMapClamps(t *testing.T) {
	l, err := New("Grayscale", 2, 4)
	require.NoError(t, err)

	r, _, _ := l.Map(1) // below range
	assert.InDelta(t, 0, r, eps)
	r, _, _ = l.Map(5) // above range
	assert.InDelta(t, 1, r, eps)
	r, _, _ = l.Map(3) // midpoint
	assert.InDelta(t, 128.0/255.0, r, eps)
}

func TestManagerCache(t *testing.T) {
	m := &Manager{}

	l1, rebuilt, err := m.Lookup("Viridis", 0, 10)
	require.NoError(t, err)
	assert.True(t, rebuilt)

	l2, rebuilt, err := m.Lookup("Viridis", 0, 10)
	require.NoError(t, err)
	assert.False(t, rebuilt)
	assert.Same(t, l1, l2)

	l3, rebuilt, err := m.Lookup("Viridis", 0, 20)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.NotSame(t, l1, l3)

	_, _, err = m.Lookup("NoSuchMap", 0, 1)
	assert.Error(t, err)
}

func TestUnknownName(t *testing.T) {
	_, err := New("Magma", 0, 1)
	assert.Error(t, err)
	assert.False(t, IsKnown("Magma"))
	for _, n := range Names {
		assert.True(t, IsKnown(n), n)
	}
}
