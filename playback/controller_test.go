package playback

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindes-tools/vtsview/series"
	"github.com/mindes-tools/vtsview/vtsio"
)

// writeSeries creates an n-frame synthetic series and resolves it.
func writeSeries(t *testing.T, n int) *series.Descriptor {
	t.Helper()
	dir := t.TempDir()
	for i := 0; i < n; i++ {
		g := vtsio.Synthetic([3]int{3, 3, 3}, 1, float64(i))
		path := filepath.Join(dir, fmt.Sprintf("step%d.vts", i))
		require.NoError(t, vtsio.Write(path, g))
	}
	d, err := series.Resolve(dir, "step")
	require.NoError(t, err)
	require.Equal(t, n, d.Len())
	return d
}

// countingLoader counts loads per path; it is called from both the test
// thread and the prefetch worker.
type countingLoader struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingLoader() *countingLoader {
	return &countingLoader{counts: map[string]int{}}
}

func (l *countingLoader) load(path string) (*vtsio.GridFrame, error) {
	l.mu.Lock()
	l.counts[filepath.Base(path)]++
	l.mu.Unlock()
	return vtsio.Read(path)
}

func (l *countingLoader) count(base string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[base]
}

// runToCompletion ticks the controller until it stops, with a deadline so
// a wedged prefetch cannot hang the test suite.
func runToCompletion(t *testing.T, c *Controller) {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for c.State() == Playing {
		require.True(t, time.Now().Before(deadline), "playback did not finish")
		c.Tick()
		time.Sleep(time.Millisecond)
	}
}

func TestPlaybackRunsToCompletion(t *testing.T) {
	d := writeSeries(t, 5)
	loader := newCountingLoader()

	var shown []int
	c := NewController(d, Hooks{
		FrameChanged: func(i int, name string) { shown = append(shown, i) },
	})
	c.Load = loader.load

	require.NoError(t, c.Play())
	assert.Equal(t, Playing, c.State())
	assert.Equal(t, 0, c.CurrentIndex())
	require.NotNil(t, c.CurrentFrame())

	runToCompletion(t, c)

	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, 4, c.CurrentIndex())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, shown)

	// The queue is drained on stop.
	_, ok := c.queue.TryGet()
	assert.False(t, ok)

	// No frame was loaded twice: the in-flight set is never re-entered
	// within one session.
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, loader.count(fmt.Sprintf("step%d.vts", i)), i)
	}
}

func TestPlaybackSkipsBrokenFrames(t *testing.T) {
	d := writeSeries(t, 5)
	require.NoError(t,
		ioutil.WriteFile(d.Files[2], []byte("not a vts file"), 0666))

	var shown []int
	c := NewController(d, Hooks{
		FrameChanged: func(i int, name string) { shown = append(shown, i) },
	})
	require.NoError(t, c.Play())
	runToCompletion(t, c)

	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, []int{0, 1, 3, 4}, shown)
}

func TestPlaybackStopsWhenLastFrameBroken(t *testing.T) {
	// With the final file unreadable the worker exits without ever
	// queueing the last index; the controller must still reach Stopped
	// instead of ticking forever.
	d := writeSeries(t, 3)
	require.NoError(t,
		ioutil.WriteFile(d.Files[2], []byte("not a vts file"), 0666))

	var shown []int
	c := NewController(d, Hooks{
		FrameChanged: func(i int, name string) { shown = append(shown, i) },
	})
	require.NoError(t, c.Play())
	runToCompletion(t, c)

	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, []int{0, 1}, shown)
}

func TestSingleFrameSeriesPlaysAndStops(t *testing.T) {
	d := writeSeries(t, 1)
	c := NewController(d, Hooks{})
	require.NoError(t, c.Play())
	runToCompletion(t, c)

	assert.Equal(t, Stopped, c.State())
	assert.Equal(t, 0, c.CurrentIndex())
}

func TestPlayRestartsAfterCompletion(t *testing.T) {
	d := writeSeries(t, 3)
	loader := newCountingLoader()
	c := NewController(d, Hooks{})
	c.Load = loader.load

	require.NoError(t, c.Play())
	runToCompletion(t, c)
	require.Equal(t, 2, c.CurrentIndex())

	// Playing again from the end restarts at frame 0 with a fresh
	// in-flight set, so every frame loads once more.
	require.NoError(t, c.Play())
	assert.Equal(t, 0, c.CurrentIndex())
	runToCompletion(t, c)
	assert.Equal(t, 2, c.CurrentIndex())
	assert.Equal(t, 2, loader.count("step0.vts"))
}

func TestStopMidPlayback(t *testing.T) {
	d := writeSeries(t, 5)
	c := NewController(d, Hooks{})
	require.NoError(t, c.Play())
	c.Stop()
	assert.Equal(t, Stopped, c.State())
	// Idempotent.
	c.Stop()
	assert.Equal(t, Stopped, c.State())

	_, ok := c.queue.TryGet()
	assert.False(t, ok)
}

func TestTickOnEmptyQueueWaits(t *testing.T) {
	// While the worker is alive but the buffer momentarily empty, a tick
	// is a harmless no-op rather than a stop or a synchronous load.
	d := writeSeries(t, 3)
	gate := make(chan struct{})
	var calls int
	var mu sync.Mutex
	c := NewController(d, Hooks{})
	c.Load = func(path string) (*vtsio.GridFrame, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if !first {
			<-gate // hold the worker so the queue stays empty
		}
		return vtsio.Read(path)
	}
	require.NoError(t, c.Play())

	idx := c.CurrentIndex()
	assert.True(t, c.Tick())
	assert.Equal(t, idx, c.CurrentIndex())
	assert.Equal(t, Playing, c.State())

	close(gate)
	runToCompletion(t, c)
	assert.Equal(t, Stopped, c.State())
}

func TestSelectFrame(t *testing.T) {
	d := writeSeries(t, 3)
	var lastName string
	c := NewController(d, Hooks{
		FrameChanged: func(i int, name string) { lastName = name },
	})

	require.NoError(t, c.SelectFrame(1))
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, "step1.vts", lastName)

	assert.Error(t, c.SelectFrame(-1))
	assert.Error(t, c.SelectFrame(3))

	require.NoError(t, c.Play())
	assert.Error(t, c.SelectFrame(0))
	c.Stop()
}

func TestAutoUpdate(t *testing.T) {
	d := writeSeries(t, 2)
	var statuses []string
	c := NewController(d, Hooks{
		Status: func(msg string) { statuses = append(statuses, msg) },
	})
	require.NoError(t, c.SelectFrame(1))
	require.NoError(t, c.StartAutoUpdate(0))
	assert.True(t, c.AutoUpdating())

	// Newest file is already displayed: nothing happens.
	require.NoError(t, c.AutoCheck())
	assert.Equal(t, 1, c.CurrentIndex())
	assert.Equal(t, "No new files", statuses[len(statuses)-1])

	// The solver writes a new step: it is picked up and displayed.
	g := vtsio.Synthetic([3]int{3, 3, 3}, 1, 2)
	require.NoError(t, vtsio.Write(filepath.Join(d.Folder, "step2.vts"), g))
	require.NoError(t, c.AutoCheck())
	assert.Equal(t, 2, c.CurrentIndex())
	assert.Equal(t, "Auto-loaded latest file", statuses[len(statuses)-1])

	c.StopAutoUpdate()
	assert.False(t, c.AutoUpdating())
}

func TestAutoUpdateAndPlaybackExclusive(t *testing.T) {
	d := writeSeries(t, 2)
	c := NewController(d, Hooks{})

	require.NoError(t, c.StartAutoUpdate(time.Second))
	assert.Error(t, c.Play())
	c.StopAutoUpdate()

	require.NoError(t, c.Play())
	assert.Error(t, c.StartAutoUpdate(time.Second))
	c.Stop()
}
