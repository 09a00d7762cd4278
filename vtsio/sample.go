package vtsio

import (
	"math"

	"github.com/mindes-tools/vtsview/geom"
)

// Interpolate evaluates the field f at an arbitrary point p by trilinear
// interpolation in the grid's logical index space. It returns one value
// per component, and false when p lies outside the grid.
//
// The mapping from physical space to index space assumes the grid's axes
// are aligned with its bounding box, which holds for the rectilinear
// lattices the solvers write. Curvilinear grids would need a cell search
// here instead.
func (g *GridFrame) Interpolate(f *Field, p geom.Vec) ([]float64, bool) {
	if g.NumPoints() == 0 || f.Len() != g.NumPoints() {
		return nil, false
	}

	var fi [3]float64
	for d := 0; d < 3; d++ {
		span := g.Bounds.Max[d] - g.Bounds.Min[d]
		if g.Dims[d] == 1 || span == 0 {
			if p[d] < g.Bounds.Min[d] || p[d] > g.Bounds.Max[d] {
				return nil, false
			}
			fi[d] = 0
			continue
		}
		t := (p[d] - g.Bounds.Min[d]) / span
		if t < 0 || t > 1 {
			return nil, false
		}
		fi[d] = t * float64(g.Dims[d]-1)
	}

	var i0 [3]int
	var fr [3]float64
	for d := 0; d < 3; d++ {
		i0[d] = int(math.Floor(fi[d]))
		if i0[d] > g.Dims[d]-2 {
			i0[d] = g.Dims[d] - 2
		}
		if i0[d] < 0 {
			i0[d] = 0
		}
		fr[d] = fi[d] - float64(i0[d])
		if g.Dims[d] == 1 {
			i0[d], fr[d] = 0, 0
		}
	}

	idx := func(i, j, k int) int {
		return i + j*g.Dims[0] + k*g.Dims[0]*g.Dims[1]
	}
	// Corner index offsets, clamped on degenerate axes.
	di, dj, dk := 1, 1, 1
	if g.Dims[0] == 1 {
		di = 0
	}
	if g.Dims[1] == 1 {
		dj = 0
	}
	if g.Dims[2] == 1 {
		dk = 0
	}

	out := make([]float64, f.Components)
	for c := 0; c < f.Components; c++ {
		at := func(i, j, k int) float64 {
			return f.Data[idx(i, j, k)*f.Components+c]
		}
		x0, x1 := i0[0], i0[0]+di
		y0, y1 := i0[1], i0[1]+dj
		z0, z1 := i0[2], i0[2]+dk

		c00 := lerp(at(x0, y0, z0), at(x1, y0, z0), fr[0])
		c10 := lerp(at(x0, y1, z0), at(x1, y1, z0), fr[0])
		c01 := lerp(at(x0, y0, z1), at(x1, y0, z1), fr[0])
		c11 := lerp(at(x0, y1, z1), at(x1, y1, z1), fr[0])

		c0 := lerp(c00, c10, fr[1])
		c1 := lerp(c01, c11, fr[1])
		out[c] = lerp(c0, c1, fr[2])
	}
	return out, true
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }
