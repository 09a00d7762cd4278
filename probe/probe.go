/*Package probe samples grid fields along a line segment and exports the
resulting table. The sampler resamples the line at a fixed resolution
regardless of its length, interpolating between grid nodes, which is how
the interactive line-probe tool produces its plots.*/
package probe

import (
	"math"

	"github.com/mindes-tools/vtsview/geom"
	"github.com/mindes-tools/vtsview/vtsio"
)

// Resolution is the number of line segments a probe is divided into;
// a probe carries Resolution+1 samples.
const Resolution = 100

// Result is a probe table: an arc_length column followed by one column
// per scalar field and four (X, Y, Z, Magnitude) per vector field.
type Result struct {
	Columns []string
	Rows    [][]float64
}

// Empty reports whether the probe produced no samples.
func (r *Result) Empty() bool { return len(r.Rows) == 0 }

// Sample probes the frame along the segment p1-p2 at the default
// resolution. Degenerate probes (nil frame, no fields, zero-length line)
// return an empty Result rather than an error; the caller clears its
// table view either way.
func Sample(g *vtsio.GridFrame, p1, p2 geom.Vec) *Result {
	return SampleN(g, p1, p2, Resolution)
}

// SampleN probes with an explicit segment count.
func SampleN(g *vtsio.GridFrame, p1, p2 geom.Vec, segments int) *Result {
	res := &Result{}
	if g == nil || segments < 1 {
		return res
	}
	fields := g.Fields()
	if len(fields) == 0 || p2.Sub(p1).Norm() == 0 {
		return res
	}

	res.Columns = append(res.Columns, "arc_length")
	for _, f := range fields {
		if f.Kind() == vtsio.Scalar {
			res.Columns = append(res.Columns, f.Name)
		} else {
			res.Columns = append(res.Columns,
				f.Name+"_X", f.Name+"_Y", f.Name+"_Z", f.Name+"_Magnitude")
		}
	}

	step := p2.Sub(p1).Norm() / float64(segments)
	for i := 0; i <= segments; i++ {
		t := float64(i) / float64(segments)
		pt := p1.Lerp(p2, t)
		row := make([]float64, 0, len(res.Columns))
		row = append(row, step*float64(i))
		for _, f := range fields {
			vals, ok := g.Interpolate(f, pt)
			if !ok {
				// Outside the grid: zero-filled, matching how probe
				// filters blank invalid samples.
				vals = make([]float64, f.Components)
			}
			if f.Kind() == vtsio.Scalar {
				row = append(row, vals[0])
			} else {
				mag := math.Sqrt(vals[0]*vals[0] + vals[1]*vals[1] + vals[2]*vals[2])
				row = append(row, vals[0], vals[1], vals[2], mag)
			}
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}
