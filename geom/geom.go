// Package geom provides the small amount of vector math shared by the
// grid I/O, probing, and rendering packages.
package geom

import (
	"math"
)

// Vec is a point or direction in 3D space.
type Vec [3]float64

// Add returns v + u.
func (v Vec) Add(u Vec) Vec {
	return Vec{v[0] + u[0], v[1] + u[1], v[2] + u[2]}
}

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec {
	return Vec{v[0] - u[0], v[1] - u[1], v[2] - u[2]}
}

// Scale returns v multiplied by the scalar s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the inner product of v and u.
func (v Vec) Dot(u Vec) float64 {
	return v[0]*u[0] + v[1]*u[1] + v[2]*u[2]
}

// Cross returns the cross product of v and u.
func (v Vec) Cross(u Vec) Vec {
	return Vec{
		v[1]*u[2] - v[2]*u[1],
		v[2]*u[0] - v[0]*u[2],
		v[0]*u[1] - v[1]*u[0],
	}
}

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged so that callers never divide by zero.
func (v Vec) Normalize() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// Lerp returns the point a fraction t of the way from v to u.
func (v Vec) Lerp(u Vec, t float64) Vec {
	return Vec{
		v[0] + (u[0]-v[0])*t,
		v[1] + (u[1]-v[1])*t,
		v[2] + (u[2]-v[2])*t,
	}
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min, Max Vec
}

// BoundsOf computes the bounding box of a point set. An empty set yields the
// zero Bounds.
func BoundsOf(pts []Vec) Bounds {
	if len(pts) == 0 {
		return Bounds{}
	}
	b := Bounds{pts[0], pts[0]}
	for _, p := range pts[1:] {
		for d := 0; d < 3; d++ {
			if p[d] < b.Min[d] {
				b.Min[d] = p[d]
			}
			if p[d] > b.Max[d] {
				b.Max[d] = p[d]
			}
		}
	}
	return b
}

// Center returns the midpoint of b.
func (b Bounds) Center() Vec {
	return Vec{
		(b.Min[0] + b.Max[0]) / 2,
		(b.Min[1] + b.Max[1]) / 2,
		(b.Min[2] + b.Max[2]) / 2,
	}
}

// Span returns the per-axis widths of b.
func (b Bounds) Span() Vec {
	return b.Max.Sub(b.Min)
}

// MaxSpan returns the largest per-axis width of b.
func (b Bounds) MaxSpan() float64 {
	s := b.Span()
	max := s[0]
	if s[1] > max {
		max = s[1]
	}
	if s[2] > max {
		max = s[2]
	}
	return max
}

// Contains reports whether p lies inside b, boundary included.
func (b Bounds) Contains(p Vec) bool {
	for d := 0; d < 3; d++ {
		if p[d] < b.Min[d] || p[d] > b.Max[d] {
			return false
		}
	}
	return true
}

// Union returns the smallest bounds enclosing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	for d := 0; d < 3; d++ {
		if o.Min[d] < b.Min[d] {
			b.Min[d] = o.Min[d]
		}
		if o.Max[d] > b.Max[d] {
			b.Max[d] = o.Max[d]
		}
	}
	return b
}
