package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVecOps(t *testing.T) {
	v, u := Vec{1, 2, 3}, Vec{4, 5, 6}
	assert.Equal(t, Vec{5, 7, 9}, v.Add(u))
	assert.Equal(t, Vec{-3, -3, -3}, v.Sub(u))
	assert.Equal(t, Vec{2, 4, 6}, v.Scale(2))
	assert.Equal(t, 32.0, v.Dot(u))
	assert.Equal(t, Vec{-3, 6, -3}, v.Cross(u))
	assert.Equal(t, 5.0, Vec{3, 4, 0}.Norm())
	assert.Equal(t, Vec{1, 0, 0}, Vec{10, 0, 0}.Normalize())
	assert.Equal(t, Vec{0, 0, 0}, Vec{0, 0, 0}.Normalize())
	assert.Equal(t, Vec{2.5, 0, 0}, Vec{0, 0, 0}.Lerp(Vec{5, 0, 0}, 0.5))
}

func TestBounds(t *testing.T) {
	pts := []Vec{{0, 1, 2}, {3, -1, 5}, {1, 1, 1}}
	b := BoundsOf(pts)
	assert.Equal(t, Vec{0, -1, 1}, b.Min)
	assert.Equal(t, Vec{3, 1, 5}, b.Max)
	assert.Equal(t, Vec{1.5, 0, 3}, b.Center())
	assert.Equal(t, 4.0, b.MaxSpan())
	assert.True(t, b.Contains(Vec{1, 0, 2}))
	assert.False(t, b.Contains(Vec{1, 0, 6}))

	assert.Equal(t, Bounds{}, BoundsOf(nil))
}

func TestBoundsUnion(t *testing.T) {
	a := Bounds{Min: Vec{0, 0, 0}, Max: Vec{2, 2, 2}}
	b := Bounds{Min: Vec{1, -1, 1}, Max: Vec{3, 1, 1.5}}
	u := a.Union(b)
	assert.Equal(t, Vec{0, -1, 0}, u.Min)
	assert.Equal(t, Vec{3, 2, 2}, u.Max)
	assert.Equal(t, u, b.Union(a))
	assert.Equal(t, a, a.Union(a))
}
