package render

import (
	"image"

	"github.com/mindes-tools/vtsview/geom"
)

// updateOverlays rebuilds the decoration actors: an orientation gizmo
// (X red, Y green, Z blue) and the bounding box, drawn in whatever text
// color contrasts with the background.
func (p *Pipeline) updateOverlays(b geom.Bounds, cfg Config) {
	if cfg.ShowAxes {
		l := b.MaxSpan() * 0.25
		if l <= 0 {
			l = 1
		}
		o := b.Min
		p.axes.lines = append(p.axes.lines[:0],
			flatSeg{a: o, b: o.Add(geom.Vec{l, 0, 0}), col: [3]float64{1, 0, 0}},
			flatSeg{a: o, b: o.Add(geom.Vec{0, l, 0}), col: [3]float64{0, 1, 0}},
			flatSeg{a: o, b: o.Add(geom.Vec{0, 0, l}), col: [3]float64{0, 0, 1}},
		)
		p.axes.visible = true
	}

	if cfg.ShowBounds {
		text := ContrastTextColor(cfg.Background)
		p.box.lines = appendBoxEdges(p.box.lines[:0], b, text)
		p.box.visible = true
	}
}

// appendBoxEdges adds the 12 edges of a bounds box.
func appendBoxEdges(dst []flatSeg, b geom.Bounds, col [3]float64) []flatSeg {
	corner := func(mask int) geom.Vec {
		v := b.Min
		if mask&1 != 0 {
			v[0] = b.Max[0]
		}
		if mask&2 != 0 {
			v[1] = b.Max[1]
		}
		if mask&4 != 0 {
			v[2] = b.Max[2]
		}
		return v
	}
	for m := 0; m < 8; m++ {
		for _, bit := range []int{1, 2, 4} {
			if m&bit == 0 {
				dst = append(dst, flatSeg{
					a: corner(m), b: corner(m | bit), col: col,
				})
			}
		}
	}
	return dst
}

// drawColorBar paints a horizontal gradient strip near the bottom of
// the finished image, bordered in the contrast text color.
func (p *Pipeline) drawColorBar(img *image.RGBA, cfg Config) {
	if p.lut == nil {
		return
	}
	w := img.Rect.Dx()
	h := img.Rect.Dy()
	x0, x1 := w/10, w-w/10
	barH := 12
	y1 := h - 20
	y0 := y1 - barH
	if x1-x0 < 2 || y0 < 1 {
		return
	}

	for x := x0; x < x1; x++ {
		t := float64(x-x0) / float64(x1-x0-1)
		r, g, b := p.lut.Map(p.lut.Min + t*(p.lut.Max-p.lut.Min))
		c := toRGBA([3]float64{r, g, b})
		for y := y0; y < y1; y++ {
			img.SetRGBA(x, y, c)
		}
	}

	border := toRGBA(ContrastTextColor(cfg.Background))
	for x := x0 - 1; x <= x1; x++ {
		img.SetRGBA(x, y0-1, border)
		img.SetRGBA(x, y1, border)
	}
	for y := y0 - 1; y <= y1; y++ {
		img.SetRGBA(x0-1, y, border)
		img.SetRGBA(x1, y, border)
	}
}
