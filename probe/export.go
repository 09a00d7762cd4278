package probe

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	plt "github.com/phil-mansfield/pyplot"
	"github.com/phil-mansfield/table"
)

// WriteTable writes the probe result as a whitespace-separated text
// table with a #-prefixed header line naming the columns.
func WriteTable(r *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "# %s\n", strings.Join(r.Columns, " "))
	for _, row := range r.Rows {
		for i, v := range row {
			if i > 0 {
				fmt.Fprint(w, " ")
			}
			fmt.Fprintf(w, "%.10g", v)
		}
		fmt.Fprint(w, "\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

// ReadTable reads a table written by WriteTable back into a Result.
func ReadTable(path string) (*Result, error) {
	cols, err := readHeader(path)
	if err != nil {
		return nil, err
	}

	idxs := make([]int, len(cols))
	for i := range idxs {
		idxs[i] = i
	}
	data, err := table.ReadTable(path, idxs, nil)
	if err != nil {
		return nil, err
	}

	r := &Result{Columns: cols}
	if len(data) == 0 {
		return r, nil
	}
	for row := 0; row < len(data[0]); row++ {
		vals := make([]float64, len(data))
		for col := range data {
			vals[col] = data[col][row]
		}
		r.Rows = append(r.Rows, vals)
	}
	return r, nil
}

func readHeader(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return nil, fmt.Errorf("%s: empty table", path)
	}
	line := strings.TrimSpace(sc.Text())
	if !strings.HasPrefix(line, "#") {
		return nil, fmt.Errorf("%s: missing column header", path)
	}
	return strings.Fields(strings.TrimPrefix(line, "#")), nil
}

// WriteCSV writes the probe result as a spreadsheet-importable CSV file
// with a header row.
func WriteCSV(r *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(r.Columns); err != nil {
		return err
	}
	rec := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, v := range row {
			rec[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// PlotCommands queues per-column plot commands for every field column
// against arc length. The caller runs plt.Execute() when it actually
// wants the figure generated.
func PlotCommands(r *Result, figPath string) {
	plt.Reset()
	if r.Empty() || len(r.Columns) < 2 {
		return
	}

	arc := make([]float64, len(r.Rows))
	for i, row := range r.Rows {
		arc[i] = row[0]
	}

	plt.Figure()
	for col := 1; col < len(r.Columns); col++ {
		ys := make([]float64, len(r.Rows))
		for i, row := range r.Rows {
			ys[i] = row[col]
		}
		plt.Plot(arc, ys, plt.LW(2))
	}
	plt.XLabel("arc length")
	plt.YLabel("value")
	plt.Grid(plt.Axis("both"))
	plt.SaveFig(figPath)
}

// Plot writes the figure for a probe result.
func Plot(r *Result, figPath string) {
	PlotCommands(r, figPath)
	if !r.Empty() {
		plt.Execute()
	}
}
