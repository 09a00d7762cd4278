package render

import (
	"image"
	"image/color"
	"math"

	"github.com/mindes-tools/vtsview/geom"
)

// The software rasterizer draws shaded triangles and lines into an
// image.RGBA through a z-buffer. It exists so renders are deterministic
// and testable without a GPU or window system.

const fovDegrees = 30.0

type viewTransform struct {
	eye                geom.Vec
	right, up, forward geom.Vec
	w, h               int
	scale              float64
}

func newViewTransform(cam Camera, w, h int) viewTransform {
	forward := cam.Focal.Sub(cam.Position).Normalize()
	right := forward.Cross(cam.Up).Normalize()
	up := right.Cross(forward)
	scale := float64(h) / 2 / math.Tan(fovDegrees/2*math.Pi/180)
	return viewTransform{
		eye: cam.Position, right: right, up: up, forward: forward,
		w: w, h: h, scale: scale,
	}
}

// project maps a world point to pixel coordinates and view depth.
// Points at or behind the eye plane are rejected.
func (v viewTransform) project(p geom.Vec) (x, y, depth float64, ok bool) {
	d := p.Sub(v.eye)
	z := d.Dot(v.forward)
	if z < 1e-9 {
		return 0, 0, 0, false
	}
	x = d.Dot(v.right)/z*v.scale + float64(v.w)/2
	y = float64(v.h)/2 - d.Dot(v.up)/z*v.scale
	return x, y, z, true
}

type canvas struct {
	img   *image.RGBA
	depth []float64
	w, h  int
	view  viewTransform
}

func newCanvas(w, h int, bg [3]float64, view viewTransform) *canvas {
	cv := &canvas{
		img:   image.NewRGBA(image.Rect(0, 0, w, h)),
		depth: make([]float64, w*h),
		w:     w, h: h,
		view: view,
	}
	bgc := toRGBA(bg)
	for i := range cv.depth {
		cv.depth[i] = math.Inf(1)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cv.img.SetRGBA(x, y, bgc)
		}
	}
	return cv
}

func toRGBA(c [3]float64) color.RGBA {
	conv := func(v float64) uint8 {
		if v <= 0 {
			return 0
		}
		if v >= 1 {
			return 255
		}
		return uint8(v*255 + 0.5)
	}
	return color.RGBA{conv(c[0]), conv(c[1]), conv(c[2]), 255}
}

// plot writes one pixel with a depth test and alpha blend.
func (cv *canvas) plot(x, y int, z float64, c [3]float64, opacity float64) {
	if x < 0 || x >= cv.w || y < 0 || y >= cv.h {
		return
	}
	i := y*cv.w + x
	if z >= cv.depth[i] {
		return
	}
	if opacity >= 1 {
		cv.img.SetRGBA(x, y, toRGBA(c))
	} else {
		old := cv.img.RGBAAt(x, y)
		blend := func(s float64, d uint8) uint8 {
			v := s*opacity + float64(d)/255*(1-opacity)
			return toRGBA([3]float64{v, v, v}).R
		}
		cv.img.SetRGBA(x, y, color.RGBA{
			blend(c[0], old.R), blend(c[1], old.G), blend(c[2], old.B), 255,
		})
	}
	cv.depth[i] = z
}

// triangle3D fills a world-space triangle with per-vertex colors. The
// colors are Gouraud-interpolated after flat Lambert shading; bias is
// subtracted from the depth to pull overlays toward the camera.
func (cv *canvas) triangle3D(a, b, c geom.Vec, ca, cb, cc [3]float64,
	opacity, bias float64) {

	l := cv.lambert(a, b, c)
	for i := 0; i < 3; i++ {
		ca[i] *= l
		cb[i] *= l
		cc[i] *= l
	}

	x0, y0, z0, ok0 := cv.view.project(a)
	x1, y1, z1, ok1 := cv.view.project(b)
	x2, y2, z2, ok2 := cv.view.project(c)
	if !ok0 || !ok1 || !ok2 {
		return
	}

	minX := int(math.Floor(min3(x0, x1, x2)))
	maxX := int(math.Ceil(max3(x0, x1, x2)))
	minY := int(math.Floor(min3(y0, y1, y2)))
	maxY := int(math.Ceil(max3(y0, y1, y2)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= cv.w {
		maxX = cv.w - 1
	}
	if maxY >= cv.h {
		maxY = cv.h - 1
	}

	area := edge(x0, y0, x1, y1, x2, y2)
	if area == 0 {
		return
	}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			w0 := edge(x1, y1, x2, y2, px, py) / area
			w1 := edge(x2, y2, x0, y0, px, py) / area
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*z0 + w1*z1 + w2*z2 - bias
			col := [3]float64{
				w0*ca[0] + w1*cb[0] + w2*cc[0],
				w0*ca[1] + w1*cb[1] + w2*cc[1],
				w0*ca[2] + w1*cb[2] + w2*cc[2],
			}
			cv.plot(x, y, z, col, opacity)
		}
	}
}

func (cv *canvas) lambert(a, b, c geom.Vec) float64 {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	l := math.Abs(n.Dot(cv.view.forward))
	if l < 0.3 {
		l = 0.3
	}
	return l
}

// line3D draws a world-space segment in a flat color.
func (cv *canvas) line3D(a, b geom.Vec, col [3]float64, opacity, bias float64) {
	x0, y0, z0, ok0 := cv.view.project(a)
	x1, y1, z1, ok1 := cv.view.project(b)
	if !ok0 || !ok1 {
		return
	}
	steps := int(math.Max(math.Abs(x1-x0), math.Abs(y1-y0))) + 1
	// Segments projected from points near the eye plane can span billions
	// of pixels; anything past twice the canvas perimeter adds nothing
	// visible.
	if limit := 2 * (cv.w + cv.h); steps > limit {
		steps = limit
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(x0 + t*(x1-x0))
		y := int(y0 + t*(y1-y0))
		z := z0 + t*(z1-z0) - bias
		cv.plot(x, y, z, col, opacity)
	}
}

func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float64) float64 { return math.Min(a, math.Min(b, c)) }
func max3(a, b, c float64) float64 { return math.Max(a, math.Max(b, c)) }
