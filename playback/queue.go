// Package playback drives sequential playback of a .vts series: a
// background prefetch worker keeps a small bounded buffer of upcoming
// frames filled, and a controller running on the UI thread consumes them
// on a fixed-delay tick.
//
// Two execution contexts exist: the controller (UI/render thread) and one
// prefetch worker per playback session. They share only the bounded frame
// queue and the in-flight index set; the worker never touches rendering
// state.
package playback

import (
	"sync"

	"github.com/mindes-tools/vtsview/vtsio"
)

// DefaultQueueCapacity double-buffers prefetch: the worker stays at most
// about two frames ahead of playback.
const DefaultQueueCapacity = 2

// Item is one prefetched frame tagged with its series index.
type Item struct {
	Index int
	Frame *vtsio.GridFrame
}

// Queue is a bounded producer/consumer frame buffer. Put blocks when the
// queue is full, which is what throttles the prefetch worker; TryGet
// never blocks, which is what keeps the render tick responsive.
type Queue struct {
	ch        chan Item
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue holding at most capacity frames.
func NewQueue(capacity int) *Queue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	return &Queue{
		ch:   make(chan Item, capacity),
		done: make(chan struct{}),
	}
}

// Put inserts an item, blocking while the queue is full. It returns false
// once the queue has been closed, waking any blocked producer.
func (q *Queue) Put(it Item) bool {
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- it:
		return true
	case <-q.done:
		return false
	}
}

// TryGet pops the oldest item without blocking.
func (q *Queue) TryGet() (Item, bool) {
	select {
	case it := <-q.ch:
		return it, true
	default:
		return Item{}, false
	}
}

// Close unblocks producers. Items already queued remain poppable until
// Drain discards them. Safe to call more than once.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Drain discards all buffered items and returns how many were dropped.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case <-q.ch:
			n++
		default:
			return n
		}
	}
}

// flightSet records which series indices have been loaded or scheduled in
// the current playback session. Indices are only ever added; the set is
// reset wholesale when playback restarts. This is the guard that makes
// duplicate scheduling idempotent.
type flightSet struct {
	mu   sync.Mutex
	seen map[int]bool
}

func newFlightSet() *flightSet {
	return &flightSet{seen: map[int]bool{}}
}

// checkAndInsert atomically marks index i and reports whether it was new.
func (s *flightSet) checkAndInsert(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[i] {
		return false
	}
	s.seen[i] = true
	return true
}

func (s *flightSet) contains(i int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[i]
}

func (s *flightSet) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = map[int]bool{}
}
