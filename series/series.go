// Package series discovers time-ordered .vts file series in a folder.
// A series is the set of files sharing a filename prefix, ordered by the
// integer suffix embedded in each name: "MeshData_step600.vts" belongs to
// the series "MeshData_step" with index 600.
package series

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Ext is the file extension series are built from.
const Ext = ".vts"

var (
	// ErrNoFilesFound is returned when a folder or prefix matches no files.
	ErrNoFilesFound = fmt.Errorf("no %s files found", Ext)
	// ErrNoValidSeries is returned when files exist but none yields a
	// series prefix.
	ErrNoValidSeries = fmt.Errorf("no valid %s series found", Ext)
)

// MultipleSeriesError is returned by Load when the folder holds more than
// one series and the caller gave no prefix: the choice must be presented
// to the user, never defaulted.
type MultipleSeriesError struct {
	Folder   string
	Prefixes []string
}

func (e *MultipleSeriesError) Error() string {
	return fmt.Sprintf("folder %s holds %d series (%s); a prefix must be chosen",
		e.Folder, len(e.Prefixes), strings.Join(e.Prefixes, ", "))
}

// ExtractPrefix returns the series prefix of a data filename: the stem
// with its longest trailing digit run removed. All-digit stems keep the
// whole stem so prefixes are never empty. Non-series files return false.
func ExtractPrefix(filename string) (string, bool) {
	if !strings.HasSuffix(filename, Ext) {
		return "", false
	}
	stem := filename[:len(filename)-len(Ext)]
	if stem == "" {
		return "", false
	}
	i := len(stem)
	for i > 0 && stem[i-1] >= '0' && stem[i-1] <= '9' {
		i--
	}
	if i == 0 {
		return stem, true
	}
	return stem[:i], true
}

// ExtractIndex returns the numeric suffix of a filename within the series
// of the given prefix. Files whose suffix holds no digits return ok=false
// and sort after every indexed file.
func ExtractIndex(prefix, filename string) (int, bool) {
	stem := strings.TrimSuffix(filename, Ext)
	if len(stem) < len(prefix) || !strings.HasPrefix(stem, prefix) {
		return 0, false
	}
	suffix := stem[len(prefix):]
	digits := strings.Builder{}
	for _, c := range suffix {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		// Digit runs long enough to overflow int sort last too.
		return 0, false
	}
	return n, true
}

// listFiles returns the paths of a folder's files starting with prefix
// and ending in Ext. Plain name comparison, so prefixes containing glob
// metacharacters match literally.
func listFiles(folder, prefix string) ([]string, error) {
	entries, err := ioutil.ReadDir(folder)
	if err != nil {
		return nil, err
	}
	files := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) ||
			!strings.HasSuffix(name, Ext) {
			continue
		}
		files = append(files, filepath.Join(folder, name))
	}
	return files, nil
}

// Discover scans a folder and returns the sorted set of series prefixes
// found in it.
func Discover(folder string) ([]string, error) {
	files, err := listFiles(folder, "")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFilesFound
	}

	set := map[string]bool{}
	for _, f := range files {
		if p, ok := ExtractPrefix(filepath.Base(f)); ok {
			set[p] = true
		}
	}
	if len(set) == 0 {
		return nil, ErrNoValidSeries
	}

	prefixes := make([]string, 0, len(set))
	for p := range set {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	return prefixes, nil
}

// Descriptor is a resolved series: a folder, a prefix, and the file paths
// ordered by embedded index.
type Descriptor struct {
	Folder string
	Prefix string
	Files  []string
}

// Resolve lists and orders the files of one series. Files with no
// parseable index sort to the end, by name among themselves.
func Resolve(folder, prefix string) (*Descriptor, error) {
	files, err := listFiles(folder, prefix)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFilesFound
	}
	sortByIndex(prefix, files)
	return &Descriptor{Folder: folder, Prefix: prefix, Files: files}, nil
}

func sortByIndex(prefix string, files []string) {
	sort.SliceStable(files, func(i, j int) bool {
		ni, oki := ExtractIndex(prefix, filepath.Base(files[i]))
		nj, okj := ExtractIndex(prefix, filepath.Base(files[j]))
		if oki != okj {
			return oki // indexed files come first
		}
		if !oki {
			return files[i] < files[j]
		}
		return ni < nj
	})
}

// Load resolves the series in a folder when the prefix is not known in
// advance. A single detected series is used directly; multiple series
// produce a *MultipleSeriesError carrying the choices for the caller's
// selection dialog.
func Load(folder string) (*Descriptor, error) {
	prefixes, err := Discover(folder)
	if err != nil {
		return nil, err
	}
	if len(prefixes) > 1 {
		return nil, &MultipleSeriesError{Folder: folder, Prefixes: prefixes}
	}
	return Resolve(folder, prefixes[0])
}

// Refresh re-scans the folder, replacing the descriptor's file list.
// It reports whether the list changed. An emptied folder leaves an empty
// list rather than an error so a watcher can keep polling.
func (d *Descriptor) Refresh() (changed bool, err error) {
	files, err := listFiles(d.Folder, d.Prefix)
	if err != nil {
		return false, err
	}
	sortByIndex(d.Prefix, files)

	if len(files) == len(d.Files) {
		same := true
		for i := range files {
			if files[i] != d.Files[i] {
				same = false
				break
			}
		}
		if same {
			return false, nil
		}
	}
	d.Files = files
	return true, nil
}

// IndexOf locates a file by basename after a Refresh, so the current
// selection survives a re-scan when the file still exists. Returns -1
// when absent.
func (d *Descriptor) IndexOf(basename string) int {
	for i, f := range d.Files {
		if filepath.Base(f) == basename {
			return i
		}
	}
	return -1
}

// Len returns the number of files in the series.
func (d *Descriptor) Len() int { return len(d.Files) }

// Base returns the basename of the i'th file.
func (d *Descriptor) Base(i int) string { return filepath.Base(d.Files[i]) }
