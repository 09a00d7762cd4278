package render

import (
	"math"

	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/vtsio"
)

// updateGlyph draws an arrow per grid point from a 3-component field.
// A non-vector selection reports false and leaves the actor hidden.
func (p *Pipeline) updateGlyph(g *vtsio.GridFrame, field *vtsio.Field,
	cfg Config) bool {

	if field.Kind() != vtsio.Vector {
		p.glyph.visible = false
		return false
	}

	scale := ClampGlyphScale(cfg.GlyphScale)
	dst := p.glyph.lines[:0]
	for i, pt := range g.Points {
		x, y, z := field.Tuple3(i)
		d := geom.Vec{x, y, z}
		mag := d.Norm()
		if mag == 0 {
			continue
		}

		length := scale
		if cfg.GlyphSizeMode == GlyphSizeMagnitude {
			length = mag * scale
		}

		col := cfg.GlyphColor
		if cfg.GlyphColorMode == GlyphColorMap {
			r, gg, b := p.lut.Map(mag)
			col = [3]float64{r, gg, b}
		}
		dst = appendArrow(dst, pt, d.Scale(length/mag), col)
	}
	p.glyph.lines = dst
	p.glyph.visible = true
	return true
}

// appendArrow adds a shaft segment plus two head barbs.
func appendArrow(dst []flatSeg, base, dir geom.Vec, col [3]float64) []flatSeg {
	tip := base.Add(dir)
	dst = append(dst, flatSeg{a: base, b: tip, col: col})

	// A perpendicular for the barbs; fall back when dir is near an axis.
	perp := dir.Cross(geom.Vec{0, 0, 1})
	if perp.Norm() < 1e-12*dir.Norm() {
		perp = dir.Cross(geom.Vec{0, 1, 0})
	}
	perp = perp.Normalize().Scale(dir.Norm() * 0.25 * math.Tan(math.Pi/6))
	back := dir.Scale(-0.25)
	dst = append(dst,
		flatSeg{a: tip, b: tip.Add(back).Add(perp), col: col},
		flatSeg{a: tip, b: tip.Add(back).Sub(perp), col: col},
	)
	return dst
}
