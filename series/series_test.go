package series

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t,
			ioutil.WriteFile(filepath.Join(dir, n), []byte("x"), 0666))
	}
}

func TestExtractPrefix(t *testing.T) {
	tests := []struct {
		file, prefix string
		ok           bool
	}{
		{"scalar_variables_step0.vts", "scalar_variables_step", true},
		{"vec3_variables_step300.vts", "vec3_variables_step", true},
		{"MeshData_step600.vts", "MeshData_step", true},
		{"data123.vts", "data", true},
		{"test.vts", "test", true},       // no digits: whole stem
		{"123.vts", "123", true},         // all digits: whole stem
		{"notes.txt", "", false},         // wrong extension
		{".vts", "", false},              // empty stem
	}
	for _, tt := range tests {
		p, ok := ExtractPrefix(tt.file)
		assert.Equal(t, tt.ok, ok, tt.file)
		assert.Equal(t, tt.prefix, p, tt.file)
	}
}

func TestExtractIndex(t *testing.T) {
	n, ok := ExtractIndex("step", "step042.vts")
	assert.True(t, ok)
	assert.Equal(t, 42, n)

	_, ok = ExtractIndex("step", "stepABC.vts")
	assert.False(t, ok)

	_, ok = ExtractIndex("step", "other7.vts")
	assert.False(t, ok)
}

func TestResolveOrdering(t *testing.T) {
	dir := t.TempDir()
	// Deliberately created out of order, including a 2-digit index that
	// would sort wrongly as a string, and a digitless file.
	touch(t, dir,
		"step3.vts", "step10.vts", "step0.vts", "step2.vts", "step1.vts",
		"step9.vts", "step4.vts", "step5.vts", "step6.vts", "step7.vts",
		"step8.vts", "stepABC.vts",
	)

	d, err := Resolve(dir, "step")
	require.NoError(t, err)
	require.Equal(t, 12, d.Len())
	for i := 0; i <= 9; i++ {
		assert.Equal(t, "step"+string(rune('0'+i))+".vts", d.Base(i))
	}
	assert.Equal(t, "step10.vts", d.Base(10))
	assert.Equal(t, "stepABC.vts", d.Base(11)) // non-numeric sorts last
}

func TestResolveGlobMetacharacterPrefix(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "run[1]0.vts", "run[1]1.vts")

	p, ok := ExtractPrefix("run[1]0.vts")
	require.True(t, ok)
	require.Equal(t, "run[1]", p)

	d, err := Resolve(dir, p)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, "run[1]0.vts", d.Base(0))
	assert.Equal(t, "run[1]1.vts", d.Base(1))

	touch(t, dir, "run[1]2.vts")
	changed, err := d.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, d.Len())
}

func TestResolveEmpty(t *testing.T) {
	_, err := Resolve(t.TempDir(), "step")
	assert.True(t, errors.Is(err, ErrNoFilesFound))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "alpha1.vts", "alpha2.vts", "beta7.vts", "readme.txt")

	prefixes, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, prefixes)

	_, err = Discover(t.TempDir())
	assert.True(t, errors.Is(err, ErrNoFilesFound))
}

func TestLoadSingleAndMultiple(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "only0.vts", "only1.vts")

	d, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "only", d.Prefix)
	assert.Equal(t, 2, d.Len())

	touch(t, dir, "other0.vts")
	_, err = Load(dir)
	var multi *MultipleSeriesError
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, []string{"only", "other"}, multi.Prefixes)
}

func TestRefreshPreservesSelection(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "run0.vts", "run1.vts", "run2.vts")

	d, err := Resolve(dir, "run")
	require.NoError(t, err)
	selected := d.Base(1)

	changed, err := d.Refresh()
	require.NoError(t, err)
	assert.False(t, changed)

	touch(t, dir, "run3.vts")
	changed, err = d.Refresh()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 1, d.IndexOf(selected))

	require.NoError(t, os.Remove(filepath.Join(dir, "run1.vts")))
	_, err = d.Refresh()
	require.NoError(t, err)
	assert.Equal(t, -1, d.IndexOf(selected))
	assert.Equal(t, 3, d.Len())
}
