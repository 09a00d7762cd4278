/*Package colormap builds the 256-entry lookup tables that color scalar
fields. Five named maps are supported; each is generated procedurally so
the same RGB values come out at the same table fractions every build,
which the regression tests rely on.*/
package colormap

import (
	"fmt"
)

// Size is the number of entries in every lookup table.
const Size = 256

// Names lists the supported color maps in UI order.
var Names = []string{"Cool-Warm", "Rainbow", "Grayscale", "Viridis", "Plasma"}

// LUT maps scalar values in [Min, Max] to RGB colors through a fixed
// 256-entry table. Values outside the range clamp to the end entries.
type LUT struct {
	Name     string
	Min, Max float64
	table    [Size][3]float64
}

// IsKnown reports whether name is one of the supported color maps.
func IsKnown(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// New builds the named lookup table over [min, max].
func New(name string, min, max float64) (*LUT, error) {
	l := &LUT{Name: name, Min: min, Max: max}
	switch name {
	case "Cool-Warm":
		l.fillCoolWarm()
	case "Rainbow":
		l.fillRainbow()
	case "Grayscale":
		l.fillGrayscale()
	case "Viridis":
		l.fillStops(viridisStops)
	case "Plasma":
		l.fillStops(plasmaStops)
	default:
		return nil, fmt.Errorf("unknown color map %q", name)
	}
	return l, nil
}

// At returns table entry i.
func (l *LUT) At(i int) (r, g, b float64) {
	c := l.table[i]
	return c[0], c[1], c[2]
}

// Map returns the color for scalar value v, clamped to [Min, Max]. A
// degenerate range maps everything to the first entry.
func (l *LUT) Map(v float64) (r, g, b float64) {
	t := 0.0
	if l.Max > l.Min {
		t = (v - l.Min) / (l.Max - l.Min)
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	i := int(t*float64(Size-1) + 0.5)
	return l.At(i)
}

// Cool-Warm runs deep blue through near-white to deep red in two linear
// segments split at the table midpoint.
var (
	coolWarmBlue  = [3]float64{0x3b / 255.0, 0x4c / 255.0, 0xc0 / 255.0}
	coolWarmWhite = [3]float64{0xdd / 255.0, 0xdd / 255.0, 0xdd / 255.0}
	coolWarmRed   = [3]float64{0xb4 / 255.0, 0x04 / 255.0, 0x26 / 255.0}
)

func (l *LUT) fillCoolWarm() {
	for i := 0; i < Size; i++ {
		t := float64(i) / float64(Size-1)
		var a, b [3]float64
		var f float64
		if t <= 0.5 {
			a, b, f = coolWarmBlue, coolWarmWhite, t*2
		} else {
			a, b, f = coolWarmWhite, coolWarmRed, (t-0.5)*2
		}
		for c := 0; c < 3; c++ {
			l.table[i][c] = a[c] + f*(b[c]-a[c])
		}
	}
}

func (l *LUT) fillRainbow() {
	for i := 0; i < Size; i++ {
		t := float64(i) / float64(Size-1)
		r, g, b := hsvToRGB(0.667*t, 1, 1)
		l.table[i] = [3]float64{r, g, b}
	}
}

func (l *LUT) fillGrayscale() {
	for i := 0; i < Size; i++ {
		t := float64(i) / float64(Size-1)
		l.table[i] = [3]float64{t, t, t}
	}
}

// viridisStops and plasmaStops are coarse samplings of the matplotlib
// gradients, interpolated linearly up to the full table size.
var viridisStops = [][3]float64{
	{0.267, 0.005, 0.329}, {0.282, 0.140, 0.450}, {0.251, 0.280, 0.528},
	{0.200, 0.410, 0.538}, {0.151, 0.520, 0.520}, {0.122, 0.610, 0.470},
	{0.208, 0.690, 0.388}, {0.380, 0.750, 0.280}, {0.600, 0.800, 0.150},
	{0.993, 0.906, 0.145},
}

var plasmaStops = [][3]float64{
	{0.050, 0.030, 0.500}, {0.150, 0.080, 0.600}, {0.300, 0.120, 0.650},
	{0.500, 0.200, 0.600}, {0.700, 0.300, 0.500}, {0.850, 0.450, 0.350},
	{0.950, 0.700, 0.200}, {0.990, 0.900, 0.150},
}

func (l *LUT) fillStops(stops [][3]float64) {
	n := len(stops)
	for i := 0; i < Size; i++ {
		t := float64(i) / float64(Size-1)
		idx := int(t * float64(n-1))
		if idx > n-2 {
			idx = n - 2
		}
		f := t*float64(n-1) - float64(idx)
		a, b := stops[idx], stops[idx+1]
		for c := 0; c < 3; c++ {
			l.table[i][c] = a[c] + f*(b[c]-a[c])
		}
	}
}

// hsvToRGB converts hue, saturation, value in [0, 1] to RGB.
func hsvToRGB(h, s, v float64) (r, g, b float64) {
	h = h - float64(int(h))
	if h < 0 {
		h++
	}
	h *= 6
	sector := int(h)
	f := h - float64(sector)
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch sector % 6 {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// Manager caches the last-built lookup table so render calls that keep
// the same color map and scalar range skip table construction.
type Manager struct {
	cur *LUT
}

// Lookup returns a table for (name, min, max), rebuilding only when the
// request differs from the cached one. The second return reports whether
// a rebuild happened.
func (m *Manager) Lookup(name string, min, max float64) (*LUT, bool, error) {
	if m.cur != nil && m.cur.Name == name &&
		m.cur.Min == min && m.cur.Max == max {
		return m.cur, false, nil
	}
	l, err := New(name, min, max)
	if err != nil {
		return nil, false, err
	}
	m.cur = l
	return l, true, nil
}
