package vtsio

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"io/ioutil"
	"math"
	"strconv"
	"strings"

	"github.com/mindes-tools/vtsview/geom"
)

// LoadError is returned for any failure to turn a file into a usable
// GridFrame: a missing file, malformed structured-grid content, or a
// dataset with zero points.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }

/*
The on-disk format is the VTK XML structured grid format:

    <VTKFile type="StructuredGrid" byte_order="LittleEndian">
      <StructuredGrid WholeExtent="0 nx-1 0 ny-1 0 nz-1">
        <Piece Extent="0 nx-1 0 ny-1 0 nz-1">
          <PointData>
            <DataArray type="Float64" Name="..." NumberOfComponents="1"
                       format="ascii"> ... </DataArray>
          </PointData>
          <Points>
            <DataArray type="Float64" NumberOfComponents="3"
                       format="ascii"> ... </DataArray>
          </Points>
        </Piece>
      </StructuredGrid>
    </VTKFile>

Both "ascii" and inline "binary" (base64 with a leading byte-count header
word) data arrays are supported. Appended-data blocks are not: the solvers
this viewer targets write inline arrays.
*/
type xmlFile struct {
	XMLName    xml.Name           `xml:"VTKFile"`
	Type       string             `xml:"type,attr"`
	ByteOrder  string             `xml:"byte_order,attr"`
	HeaderType string             `xml:"header_type,attr"`
	Grid       *xmlStructuredGrid `xml:"StructuredGrid"`
}

type xmlStructuredGrid struct {
	WholeExtent string     `xml:"WholeExtent,attr"`
	Pieces      []xmlPiece `xml:"Piece"`
}

type xmlPiece struct {
	Extent    string        `xml:"Extent,attr"`
	PointData xmlArrayBlock `xml:"PointData"`
	Points    xmlArrayBlock `xml:"Points"`
}

type xmlArrayBlock struct {
	Arrays []xmlDataArray `xml:"DataArray"`
}

type xmlDataArray struct {
	Type       string `xml:"type,attr"`
	Name       string `xml:"Name,attr"`
	Components string `xml:"NumberOfComponents,attr"`
	Format     string `xml:"format,attr"`
	Body       string `xml:",chardata"`
}

// Read parses one .vts file into a GridFrame. Any failure, including a
// structurally valid file with zero points, is reported as a *LoadError.
func Read(path string) (*GridFrame, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "cannot read file", Err: err}
	}

	file := &xmlFile{}
	if err := xml.Unmarshal(data, file); err != nil {
		return nil, &LoadError{Path: path, Reason: "malformed XML", Err: err}
	}
	if file.Type != "StructuredGrid" || file.Grid == nil {
		return nil, &LoadError{
			Path: path, Reason: "not a StructuredGrid VTKFile",
		}
	}
	if len(file.Grid.Pieces) == 0 {
		return nil, &LoadError{Path: path, Reason: "no Piece element"}
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if file.ByteOrder == "BigEndian" {
		order = binary.BigEndian
	}
	headerBytes := 4
	if file.HeaderType == "UInt64" {
		headerBytes = 8
	}

	piece := &file.Grid.Pieces[0]
	ext := piece.Extent
	if ext == "" {
		ext = file.Grid.WholeExtent
	}
	dims, err := parseExtent(ext)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "bad extent", Err: err}
	}

	n := dims[0] * dims[1] * dims[2]
	if n == 0 {
		return nil, &LoadError{Path: path, Reason: "dataset has zero points"}
	}

	if len(piece.Points.Arrays) == 0 {
		return nil, &LoadError{Path: path, Reason: "no Points array"}
	}
	ptArr := &piece.Points.Arrays[0]
	ptVals, err := decodeArray(ptArr, order, headerBytes)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "bad Points array", Err: err}
	}
	if len(ptVals) != 3*n {
		return nil, &LoadError{Path: path, Reason: fmt.Sprintf(
			"Points array has %d values, expected %d", len(ptVals), 3*n,
		)}
	}
	pts := make([]geom.Vec, n)
	for i := range pts {
		pts[i] = geom.Vec{ptVals[3*i], ptVals[3*i+1], ptVals[3*i+2]}
	}

	fields := []*Field{}
	for i := range piece.PointData.Arrays {
		arr := &piece.PointData.Arrays[i]
		if arr.Name == "" {
			continue
		}
		comps := 1
		if arr.Components != "" {
			comps, err = strconv.Atoi(arr.Components)
			if err != nil {
				return nil, &LoadError{
					Path: path, Err: err,
					Reason: fmt.Sprintf("bad component count on '%s'", arr.Name),
				}
			}
		}
		// Only scalar and 3-vector point data is meaningful to the viewer.
		if comps != 1 && comps != 3 {
			continue
		}
		vals, err := decodeArray(arr, order, headerBytes)
		if err != nil {
			return nil, &LoadError{
				Path: path, Err: err,
				Reason: fmt.Sprintf("bad data in array '%s'", arr.Name),
			}
		}
		if len(vals) != comps*n {
			return nil, &LoadError{Path: path, Reason: fmt.Sprintf(
				"array '%s' has %d values, expected %d",
				arr.Name, len(vals), comps*n,
			)}
		}
		fields = append(fields, &Field{
			Name: arr.Name, Components: comps, Data: vals,
		})
	}

	g, err := NewGridFrame(dims, pts, fields)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "inconsistent grid", Err: err}
	}
	return g, nil
}

// parseExtent converts "i0 i1 j0 j1 k0 k1" into point dimensions.
func parseExtent(s string) ([3]int, error) {
	words := strings.Fields(s)
	if len(words) != 6 {
		return [3]int{}, fmt.Errorf("extent '%s' does not have 6 entries", s)
	}
	e := [6]int{}
	for i, w := range words {
		v, err := strconv.Atoi(w)
		if err != nil {
			return [3]int{}, err
		}
		e[i] = v
	}
	dims := [3]int{e[1] - e[0] + 1, e[3] - e[2] + 1, e[5] - e[4] + 1}
	for _, d := range dims {
		if d < 1 {
			return [3]int{}, fmt.Errorf("extent '%s' is inverted", s)
		}
	}
	return dims, nil
}

func decodeArray(
	arr *xmlDataArray, order binary.ByteOrder, headerBytes int,
) ([]float64, error) {
	switch arr.Format {
	case "", "ascii":
		return decodeASCII(arr.Body)
	case "binary":
		return decodeBase64(arr.Body, arr.Type, order, headerBytes)
	}
	return nil, fmt.Errorf("unsupported format '%s'", arr.Format)
}

func decodeASCII(body string) ([]float64, error) {
	words := strings.Fields(body)
	vals := make([]float64, len(words))
	for i, w := range words {
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func decodeBase64(
	body, typ string, order binary.ByteOrder, headerBytes int,
) ([]float64, error) {
	raw, err := base64.StdEncoding.DecodeString(
		strings.Join(strings.Fields(body), ""),
	)
	if err != nil {
		return nil, err
	}
	if len(raw) < headerBytes {
		return nil, fmt.Errorf("binary block shorter than its header")
	}
	// The header word is the payload byte count; trust the block length
	// instead so truncated counts fail loudly below.
	raw = raw[headerBytes:]

	switch typ {
	case "Float32":
		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("Float32 block length %d not a multiple of 4", len(raw))
		}
		vals := make([]float64, len(raw)/4)
		for i := range vals {
			bits := order.Uint32(raw[4*i:])
			vals[i] = float64(math.Float32frombits(bits))
		}
		return vals, nil
	case "Float64":
		if len(raw)%8 != 0 {
			return nil, fmt.Errorf("Float64 block length %d not a multiple of 8", len(raw))
		}
		vals := make([]float64, len(raw)/8)
		for i := range vals {
			vals[i] = math.Float64frombits(order.Uint64(raw[8*i:]))
		}
		return vals, nil
	case "Int32":
		if len(raw)%4 != 0 {
			return nil, fmt.Errorf("Int32 block length %d not a multiple of 4", len(raw))
		}
		vals := make([]float64, len(raw)/4)
		for i := range vals {
			vals[i] = float64(int32(order.Uint32(raw[4*i:])))
		}
		return vals, nil
	case "Int64":
		if len(raw)%8 != 0 {
			return nil, fmt.Errorf("Int64 block length %d not a multiple of 8", len(raw))
		}
		vals := make([]float64, len(raw)/8)
		for i := range vals {
			vals[i] = float64(int64(order.Uint64(raw[8*i:])))
		}
		return vals, nil
	}
	return nil, fmt.Errorf("unsupported binary type '%s'", typ)
}
