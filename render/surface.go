package render

import (
	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/vtsio"
)

var wireColor = [3]float64{0, 0, 0}

func (p *Pipeline) updateSurface(g *vtsio.GridFrame, scalar *vtsio.Field, withGrid bool) {
	p.surface.tris = appendShell(p.surface.tris[:0], g, scalar)
	p.surface.visible = true

	if withGrid {
		p.wire.lines = appendShellEdges(p.wire.lines[:0], g)
		// Pull the grid lines slightly toward the camera so they do not
		// z-fight with the surface they sit on.
		p.wire.bias = g.Bounds.MaxSpan() * 0.002
		p.wire.visible = true
	}
}

// faceSlices returns the fixed-axis indices of the two boundary faces
// along an axis with n points (one face for a degenerate axis).
func faceSlices(n int) []int {
	if n <= 1 {
		return []int{0}
	}
	return []int{0, n - 1}
}

// appendShell adds the outer faces of the structured grid as triangles,
// two per boundary quad, carrying the scalar value at each corner.
func appendShell(dst []shadedTri, g *vtsio.GridFrame, s *vtsio.Field) []shadedTri {
	nx, ny, nz := g.Dims[0], g.Dims[1], g.Dims[2]
	id := func(i, j, k int) int { return i + j*nx + k*nx*ny }

	quad := func(a, b, c, d int) {
		pa, pb, pc, pd := g.Points[a], g.Points[b], g.Points[c], g.Points[d]
		va, vb, vc, vd := s.Value(a), s.Value(b), s.Value(c), s.Value(d)
		dst = append(dst,
			shadedTri{p: [3]geom.Vec{pa, pb, pc}, v: [3]float64{va, vb, vc}},
			shadedTri{p: [3]geom.Vec{pa, pc, pd}, v: [3]float64{va, vc, vd}},
		)
	}

	for _, k := range faceSlices(nz) {
		for j := 0; j < ny-1; j++ {
			for i := 0; i < nx-1; i++ {
				quad(id(i, j, k), id(i+1, j, k), id(i+1, j+1, k), id(i, j+1, k))
			}
		}
	}
	for _, j := range faceSlices(ny) {
		for k := 0; k < nz-1; k++ {
			for i := 0; i < nx-1; i++ {
				quad(id(i, j, k), id(i+1, j, k), id(i+1, j, k+1), id(i, j, k+1))
			}
		}
	}
	for _, i := range faceSlices(nx) {
		for k := 0; k < nz-1; k++ {
			for j := 0; j < ny-1; j++ {
				quad(id(i, j, k), id(i, j+1, k), id(i, j+1, k+1), id(i, j, k+1))
			}
		}
	}
	return dst
}

// appendShellEdges adds the cell grid lines of every boundary face.
func appendShellEdges(dst []flatSeg, g *vtsio.GridFrame) []flatSeg {
	nx, ny, nz := g.Dims[0], g.Dims[1], g.Dims[2]
	id := func(i, j, k int) int { return i + j*nx + k*nx*ny }
	seg := func(a, b int) {
		dst = append(dst, flatSeg{a: g.Points[a], b: g.Points[b], col: wireColor})
	}

	for _, k := range faceSlices(nz) {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx-1; i++ {
				seg(id(i, j, k), id(i+1, j, k))
			}
		}
		for i := 0; i < nx; i++ {
			for j := 0; j < ny-1; j++ {
				seg(id(i, j, k), id(i, j+1, k))
			}
		}
	}
	for _, j := range faceSlices(ny) {
		for k := 0; k < nz; k++ {
			for i := 0; i < nx-1; i++ {
				seg(id(i, j, k), id(i+1, j, k))
			}
		}
		for i := 0; i < nx; i++ {
			for k := 0; k < nz-1; k++ {
				seg(id(i, j, k), id(i, j, k+1))
			}
		}
	}
	for _, i := range faceSlices(nx) {
		for k := 0; k < nz; k++ {
			for j := 0; j < ny-1; j++ {
				seg(id(i, j, k), id(i, j+1, k))
			}
		}
		for j := 0; j < ny; j++ {
			for k := 0; k < nz-1; k++ {
				seg(id(i, j, k), id(i, j, k+1))
			}
		}
	}
	return dst
}
