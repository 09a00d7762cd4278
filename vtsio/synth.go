package vtsio

import (
	"github.com/mindes-tools/vtsview/geom"
)

// Synthetic builds a frame on a uniform lattice with one scalar field
// ("phi", linear in the coordinates plus a phase offset) and one vector
// field ("flow"). It backs the -Synth driver mode and test fixtures:
// the linear scalar makes interpolation results exact.
func Synthetic(dims [3]int, step, phase float64) *GridFrame {
	n := dims[0] * dims[1] * dims[2]
	pts := make([]geom.Vec, n)
	phi := &Field{Name: "phi", Components: 1, Data: make([]float64, n)}
	flow := &Field{Name: "flow", Components: 3, Data: make([]float64, 3*n)}

	i := 0
	for k := 0; k < dims[2]; k++ {
		for j := 0; j < dims[1]; j++ {
			for l := 0; l < dims[0]; l++ {
				x := float64(l) * step
				y := float64(j) * step
				z := float64(k) * step
				pts[i] = geom.Vec{x, y, z}
				phi.Data[i] = x + 2*y + 3*z + phase
				flow.Data[3*i] = y
				flow.Data[3*i+1] = z
				flow.Data[3*i+2] = x + phase
				i++
			}
		}
	}

	g, err := NewGridFrame(dims, pts, []*Field{phi, flow})
	if err != nil {
		panic(err)
	}
	return g
}
