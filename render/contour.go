package render

import (
	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/vtsio"
)

// Each grid cell is decomposed into six tetrahedra sharing the cell's
// main diagonal; the isosurface is then extracted per tetrahedron.
var tetraDirs = [6][2][3]int{
	{{1, 0, 0}, {1, 1, 0}},
	{{1, 0, 0}, {1, 0, 1}},
	{{0, 1, 0}, {1, 1, 0}},
	{{0, 0, 1}, {1, 0, 1}},
	{{0, 1, 0}, {0, 1, 1}},
	{{0, 0, 1}, {0, 1, 1}},
}

// updateContour parses the level list and extracts one isosurface per
// level. Unparseable or empty input hides the actor and reports false;
// the render itself carries on.
func (p *Pipeline) updateContour(g *vtsio.GridFrame, scalar *vtsio.Field,
	levelText string) bool {

	levels, err := ParseContourLevels(levelText)
	if err != nil {
		p.contour.visible = false
		return false
	}

	dst := p.contour.tris[:0]
	for _, level := range levels {
		dst = appendIsosurface(dst, g, scalar, level)
	}
	p.contour.tris = dst
	p.contour.visible = true
	return true
}

// appendIsosurface runs marching tetrahedra over every cell.
func appendIsosurface(dst []shadedTri, g *vtsio.GridFrame, s *vtsio.Field,
	level float64) []shadedTri {

	nx, ny, nz := g.Dims[0], g.Dims[1], g.Dims[2]
	id := func(i, j, k int) int { return i + j*nx + k*nx*ny }

	for k := 0; k < nz-1; k++ {
		for j := 0; j < ny-1; j++ {
			for i := 0; i < nx-1; i++ {
				for _, dir := range tetraDirs {
					c := [4]int{
						id(i, j, k),
						id(i+dir[0][0], j+dir[0][1], k+dir[0][2]),
						id(i+dir[1][0], j+dir[1][1], k+dir[1][2]),
						id(i+1, j+1, k+1),
					}
					dst = marchTetra(dst, g, s, c, level)
				}
			}
		}
	}
	return dst
}

// marchTetra emits the isosurface triangles crossing one tetrahedron.
// The emitted vertices carry the level value itself, which is exactly
// the scalar on the surface.
func marchTetra(dst []shadedTri, g *vtsio.GridFrame, s *vtsio.Field,
	c [4]int, level float64) []shadedTri {

	var above, below []int
	for _, idx := range c {
		if s.Value(idx) >= level {
			above = append(above, idx)
		} else {
			below = append(below, idx)
		}
	}
	if len(above) == 0 || len(below) == 0 {
		return dst
	}

	cross := func(ia, ib int) geom.Vec {
		va, vb := s.Value(ia), s.Value(ib)
		t := 0.5
		if va != vb {
			t = (level - va) / (vb - va)
		}
		return g.Points[ia].Lerp(g.Points[ib], t)
	}

	tri := func(a, b, c geom.Vec) shadedTri {
		return shadedTri{
			p: [3]geom.Vec{a, b, c},
			v: [3]float64{level, level, level},
		}
	}

	switch len(above) {
	case 1:
		p0 := cross(above[0], below[0])
		p1 := cross(above[0], below[1])
		p2 := cross(above[0], below[2])
		return append(dst, tri(p0, p1, p2))
	case 3:
		p0 := cross(below[0], above[0])
		p1 := cross(below[0], above[1])
		p2 := cross(below[0], above[2])
		return append(dst, tri(p0, p1, p2))
	default: // 2 above, 2 below: a quad from the four crossing edges
		p00 := cross(above[0], below[0])
		p01 := cross(above[0], below[1])
		p10 := cross(above[1], below[0])
		p11 := cross(above[1], below[1])
		return append(dst, tri(p00, p01, p11), tri(p00, p11, p10))
	}
}
