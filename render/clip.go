package render

import (
	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/vtsio"
)

// updateClip keeps the part of the grid shell on the positive side of
// the clip plane and fills the exposed cross-section with a sheet
// sampled from the field, so the cut face is colored, not hollow.
func (p *Pipeline) updateClip(g *vtsio.GridFrame, scalar *vtsio.Field,
	axis Axis, pos float64) {

	origin, normal := ClipPlane(g.Bounds, axis, pos)

	shell := appendShell(nil, g, scalar)
	dst := p.clip.tris[:0]
	for _, tr := range shell {
		dst = clipTriangle(dst, tr, origin, normal)
	}
	dst = appendCutSheet(dst, g, scalar, axis, pos)
	p.clip.tris = dst
	p.clip.visible = true
}

// clipTriangle clips one triangle against the half-space
// normal·(x-origin) >= 0, appending the surviving 0, 1 or 2 triangles.
func clipTriangle(dst []shadedTri, tr shadedTri, origin, normal geom.Vec) []shadedTri {
	var keepP, dropP []geom.Vec
	var keepV, dropV []float64
	var d [3]float64
	for i := 0; i < 3; i++ {
		d[i] = tr.p[i].Sub(origin).Dot(normal)
		if d[i] >= 0 {
			keepP = append(keepP, tr.p[i])
			keepV = append(keepV, tr.v[i])
		} else {
			dropP = append(dropP, tr.p[i])
			dropV = append(dropV, tr.v[i])
		}
	}

	switch len(keepP) {
	case 3:
		return append(dst, tr)
	case 0:
		return dst
	}

	// Edge crossing between the kept and dropped sides.
	cross := func(ka, da int) (geom.Vec, float64) {
		a, b := keepP[ka], dropP[da]
		va, vb := keepV[ka], dropV[da]
		da0 := a.Sub(origin).Dot(normal)
		db0 := b.Sub(origin).Dot(normal)
		t := da0 / (da0 - db0)
		return a.Lerp(b, t), va + t*(vb-va)
	}

	if len(keepP) == 1 {
		c0, v0 := cross(0, 0)
		c1, v1 := cross(0, 1)
		return append(dst, shadedTri{
			p: [3]geom.Vec{keepP[0], c0, c1},
			v: [3]float64{keepV[0], v0, v1},
		})
	}

	// Two vertices kept: the clipped region is a quad.
	c0, v0 := cross(0, 0)
	c1, v1 := cross(1, 0)
	return append(dst,
		shadedTri{
			p: [3]geom.Vec{keepP[0], keepP[1], c1},
			v: [3]float64{keepV[0], keepV[1], v1},
		},
		shadedTri{
			p: [3]geom.Vec{keepP[0], c1, c0},
			v: [3]float64{keepV[0], v1, v0},
		},
	)
}

// appendCutSheet samples the field on the clip plane across the bounds
// cross-section, one quad per cell of the section grid. Samples outside
// the grid are dropped, which trims the sheet to the dataset.
func appendCutSheet(dst []shadedTri, g *vtsio.GridFrame, scalar *vtsio.Field,
	axis Axis, pos float64) []shadedTri {

	u, v := (int(axis)+1)%3, (int(axis)+2)%3
	nu, nv := g.Dims[u], g.Dims[v]
	if nu < 2 || nv < 2 {
		return dst
	}
	if pos < g.Bounds.Min[axis] || pos > g.Bounds.Max[axis] {
		return dst
	}

	at := func(iu, iv int) (geom.Vec, float64, bool) {
		var pt geom.Vec
		pt[axis] = pos
		pt[u] = g.Bounds.Min[u] + (g.Bounds.Max[u]-g.Bounds.Min[u])*
			float64(iu)/float64(nu-1)
		pt[v] = g.Bounds.Min[v] + (g.Bounds.Max[v]-g.Bounds.Min[v])*
			float64(iv)/float64(nv-1)
		vals, ok := g.Interpolate(scalar, pt)
		if !ok {
			return pt, 0, false
		}
		return pt, vals[0], true
	}

	for iu := 0; iu < nu-1; iu++ {
		for iv := 0; iv < nv-1; iv++ {
			p00, v00, ok00 := at(iu, iv)
			p10, v10, ok10 := at(iu+1, iv)
			p11, v11, ok11 := at(iu+1, iv+1)
			p01, v01, ok01 := at(iu, iv+1)
			if !ok00 || !ok10 || !ok11 || !ok01 {
				continue
			}
			dst = append(dst,
				shadedTri{p: [3]geom.Vec{p00, p10, p11}, v: [3]float64{v00, v10, v11}},
				shadedTri{p: [3]geom.Vec{p00, p11, p01}, v: [3]float64{v00, v11, v01}},
			)
		}
	}
	return dst
}
