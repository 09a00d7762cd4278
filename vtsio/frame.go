// Package vtsio reads and writes VTK XML structured-grid (.vts) files and
// provides the in-memory GridFrame representation used by the rest of the
// viewer. Frames are immutable after creation: playback replaces the
// current frame, it never mutates one.
package vtsio

import (
	"fmt"
	"math"
	"sort"

	"github.com/mindes-tools/vtsview/geom"
)

// FieldKind distinguishes scalar point arrays from 3-component vector
// arrays. Arrays with any other component count are not loaded.
type FieldKind int

const (
	Scalar FieldKind = iota
	Vector
)

// String returns the short tag used in field selectors, "[S]" or "[V]".
func (k FieldKind) String() string {
	if k == Vector {
		return "[V]"
	}
	return "[S]"
}

// Field is one named point-data array. Data is tuple-major: for vectors,
// Data[3*i:3*i+3] are the components of point i.
type Field struct {
	Name       string
	Components int
	Data       []float64
}

// Kind returns Scalar for 1-component arrays and Vector for 3-component
// arrays.
func (f *Field) Kind() FieldKind {
	if f.Components == 3 {
		return Vector
	}
	return Scalar
}

// Tag returns the human-readable selector text, e.g. "[V] velocity".
func (f *Field) Tag() string {
	return fmt.Sprintf("%s %s", f.Kind(), f.Name)
}

// Len returns the number of tuples in the array.
func (f *Field) Len() int { return len(f.Data) / f.Components }

// Value returns the i'th scalar value. It must only be called on scalar
// fields.
func (f *Field) Value(i int) float64 { return f.Data[i] }

// Tuple3 returns the components of the i'th vector. It must only be called
// on vector fields.
func (f *Field) Tuple3(i int) (x, y, z float64) {
	return f.Data[3*i], f.Data[3*i+1], f.Data[3*i+2]
}

// Range returns the minimum and maximum over all components of the array.
// An empty array yields (0, 0).
func (f *Field) Range() (min, max float64) {
	if len(f.Data) == 0 {
		return 0, 0
	}
	min, max = f.Data[0], f.Data[0]
	for _, v := range f.Data[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

// GridFrame is one loaded structured-grid dataset: the point lattice plus
// its named point-data arrays. The point at logical index (i, j, k) is
// Points[i + j*Dims[0] + k*Dims[0]*Dims[1]].
type GridFrame struct {
	Dims   [3]int
	Points []geom.Vec
	Bounds geom.Bounds

	fields map[string]*Field

	// Derived magnitude arrays, built lazily on the render thread.
	mags map[string]*Field
}

// NewGridFrame assembles a frame from its parts. Field tuple counts must
// match the point count; mismatched fields are rejected.
func NewGridFrame(dims [3]int, pts []geom.Vec, fields []*Field) (*GridFrame, error) {
	n := dims[0] * dims[1] * dims[2]
	if n != len(pts) {
		return nil, fmt.Errorf(
			"point count %d does not match dimensions %dx%dx%d",
			len(pts), dims[0], dims[1], dims[2],
		)
	}
	g := &GridFrame{
		Dims:   dims,
		Points: pts,
		Bounds: geom.BoundsOf(pts),
		fields: make(map[string]*Field),
		mags:   make(map[string]*Field),
	}
	for _, f := range fields {
		if f.Len() != n {
			return nil, fmt.Errorf(
				"array '%s' has %d tuples, but the grid has %d points",
				f.Name, f.Len(), n,
			)
		}
		g.fields[f.Name] = f
	}
	return g, nil
}

// NumPoints returns the total number of grid points.
func (g *GridFrame) NumPoints() int { return len(g.Points) }

// Field looks a point-data array up by name. Derived magnitude arrays are
// visible here once computed.
func (g *GridFrame) Field(name string) (*Field, bool) {
	if f, ok := g.fields[name]; ok {
		return f, true
	}
	f, ok := g.mags[name]
	return f, ok
}

// Fields enumerates the loaded arrays, scalars first, each group sorted by
// name. This is the order field selectors present them in.
func (g *GridFrame) Fields() []*Field {
	fs := make([]*Field, 0, len(g.fields))
	for _, f := range g.fields {
		fs = append(fs, f)
	}
	sort.Slice(fs, func(i, j int) bool {
		if (fs[i].Kind() == Scalar) != (fs[j].Kind() == Scalar) {
			return fs[i].Kind() == Scalar
		}
		return fs[i].Name < fs[j].Name
	})
	return fs
}

// MagnitudeName returns the name under which the derived magnitude of a
// vector field is stored.
func MagnitudeName(field string) string { return field + "_magnitude" }

// VectorMagnitude returns the per-point magnitude array of the named
// vector field, computing and caching it on first use. It returns false
// if the field is missing or not a vector. Not safe for concurrent use;
// only the render thread derives arrays.
func (g *GridFrame) VectorMagnitude(name string) (*Field, bool) {
	magName := MagnitudeName(name)
	if m, ok := g.mags[magName]; ok {
		return m, true
	}
	v, ok := g.fields[name]
	if !ok || v.Kind() != Vector {
		return nil, false
	}
	m := &Field{Name: magName, Components: 1, Data: make([]float64, v.Len())}
	for i := range m.Data {
		x, y, z := v.Tuple3(i)
		m.Data[i] = math.Sqrt(x*x + y*y + z*z)
	}
	g.mags[magName] = m
	return m, true
}

// Interior returns a copy of g with one layer of cells trimmed from every
// face, used when the boundary layer should be excluded from rendering.
// If any axis has fewer than 3 cells the frame is returned unchanged.
func (g *GridFrame) Interior() *GridFrame {
	nx, ny, nz := g.Dims[0], g.Dims[1], g.Dims[2]
	if nx-1 < 3 || ny-1 < 3 || nz-1 < 3 {
		return g
	}

	dims := [3]int{nx - 2, ny - 2, nz - 2}
	pts := make([]geom.Vec, dims[0]*dims[1]*dims[2])
	idx := func(i, j, k int) int { return i + j*nx + k*nx*ny }

	out := 0
	for k := 1; k < nz-1; k++ {
		for j := 1; j < ny-1; j++ {
			for i := 1; i < nx-1; i++ {
				pts[out] = g.Points[idx(i, j, k)]
				out++
			}
		}
	}

	fields := make([]*Field, 0, len(g.fields))
	for _, f := range g.Fields() {
		sub := &Field{
			Name:       f.Name,
			Components: f.Components,
			Data:       make([]float64, f.Components*len(pts)),
		}
		out = 0
		for k := 1; k < nz-1; k++ {
			for j := 1; j < ny-1; j++ {
				for i := 1; i < nx-1; i++ {
					src := idx(i, j, k) * f.Components
					copy(sub.Data[out:out+f.Components],
						f.Data[src:src+f.Components])
					out += f.Components
				}
			}
		}
		fields = append(fields, sub)
	}

	sub, err := NewGridFrame(dims, pts, fields)
	if err != nil {
		// Construction from a consistent parent cannot mismatch.
		panic(err)
	}
	return sub
}
