package playback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindes-tools/vtsview/vtsio"
)

func TestQueueBounds(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Put(Item{Index: 0}))
	assert.True(t, q.Put(Item{Index: 1}))

	// Third Put must block until a slot frees or the queue closes.
	done := make(chan bool, 1)
	go func() { done <- q.Put(Item{Index: 2}) }()
	select {
	case <-done:
		t.Fatal("Put on a full queue did not block")
	case <-time.After(20 * time.Millisecond):
	}

	it, ok := q.TryGet()
	require.True(t, ok)
	assert.Equal(t, 0, it.Index)
	assert.True(t, <-done)
}

func TestQueueCloseWakesProducer(t *testing.T) {
	q := NewQueue(1)
	require.True(t, q.Put(Item{Index: 0}))

	done := make(chan bool, 1)
	go func() { done <- q.Put(Item{Index: 1}) }()
	time.Sleep(10 * time.Millisecond)
	q.Close()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("Close did not wake the blocked producer")
	}

	assert.False(t, q.Put(Item{Index: 2}))
}

func TestQueueTryGetAndDrain(t *testing.T) {
	q := NewQueue(2)
	_, ok := q.TryGet()
	assert.False(t, ok)

	f := &vtsio.GridFrame{}
	q.Put(Item{Index: 7, Frame: f})
	it, ok := q.TryGet()
	require.True(t, ok)
	assert.Equal(t, 7, it.Index)
	assert.Same(t, f, it.Frame)

	q.Put(Item{Index: 8})
	q.Put(Item{Index: 9})
	assert.Equal(t, 2, q.Drain())
	_, ok = q.TryGet()
	assert.False(t, ok)
}

func TestFlightSet(t *testing.T) {
	s := newFlightSet()
	assert.True(t, s.checkAndInsert(3))
	assert.False(t, s.checkAndInsert(3))
	assert.True(t, s.contains(3))
	assert.False(t, s.contains(4))

	s.reset()
	assert.False(t, s.contains(3))
	assert.True(t, s.checkAndInsert(3))
}
