package vtsio

import (
	"bufio"
	"fmt"
	"os"
)

// Write writes a GridFrame as an ascii .vts file that Read round-trips.
// The solver normally produces these files; the writer exists for test
// fixtures and for generating synthetic demonstration series.
func Write(path string, g *GridFrame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	nx, ny, nz := g.Dims[0], g.Dims[1], g.Dims[2]
	ext := fmt.Sprintf("0 %d 0 %d 0 %d", nx-1, ny-1, nz-1)

	fmt.Fprintf(w, "<?xml version=\"1.0\"?>\n")
	fmt.Fprintf(w, "<VTKFile type=\"StructuredGrid\" version=\"1.0\" "+
		"byte_order=\"LittleEndian\">\n")
	fmt.Fprintf(w, "  <StructuredGrid WholeExtent=\"%s\">\n", ext)
	fmt.Fprintf(w, "    <Piece Extent=\"%s\">\n", ext)

	fmt.Fprintf(w, "      <PointData>\n")
	for _, fd := range g.Fields() {
		fmt.Fprintf(w, "        <DataArray type=\"Float64\" Name=\"%s\" "+
			"NumberOfComponents=\"%d\" format=\"ascii\">\n",
			fd.Name, fd.Components)
		writeValues(w, fd.Data)
		fmt.Fprintf(w, "        </DataArray>\n")
	}
	fmt.Fprintf(w, "      </PointData>\n")

	fmt.Fprintf(w, "      <Points>\n")
	fmt.Fprintf(w, "        <DataArray type=\"Float64\" "+
		"NumberOfComponents=\"3\" format=\"ascii\">\n")
	for _, p := range g.Points {
		fmt.Fprintf(w, "          %.17g %.17g %.17g\n", p[0], p[1], p[2])
	}
	fmt.Fprintf(w, "        </DataArray>\n")
	fmt.Fprintf(w, "      </Points>\n")

	fmt.Fprintf(w, "    </Piece>\n")
	fmt.Fprintf(w, "  </StructuredGrid>\n")
	fmt.Fprintf(w, "</VTKFile>\n")

	return w.Flush()
}

func writeValues(w *bufio.Writer, vals []float64) {
	perLine := 6
	for i, v := range vals {
		if i%perLine == 0 {
			fmt.Fprintf(w, "         ")
		}
		fmt.Fprintf(w, " %.17g", v)
		if i%perLine == perLine-1 || i == len(vals)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
}
