package playback

import (
	"log"
	"sync"

	"github.com/mindes-tools/vtsview/vtsio"
)

// LoadFunc reads one frame from disk. The default is vtsio.Read; tests
// inject counting or failing loaders.
type LoadFunc func(path string) (*vtsio.GridFrame, error)

// prefetcher is the background worker of one playback session. It walks
// the file list from a starting index, loading frames into the queue.
// It only performs file I/O and produces plain GridFrame values; it must
// never touch mappers, actors, or any other render state.
type prefetcher struct {
	files   []string
	queue   *Queue
	flights *flightSet
	load    LoadFunc

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// startPrefetch spawns the worker goroutine beginning at index start.
func startPrefetch(
	files []string, start int, queue *Queue, flights *flightSet, load LoadFunc,
) *prefetcher {
	p := &prefetcher{
		files:   files,
		queue:   queue,
		flights: flights,
		load:    load,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run(start)
	return p
}

// Stop requests cancellation and waits for the worker to exit. The wait
// is at most one frame load: the stop flag is polled before each file.
// Idempotent.
func (p *prefetcher) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	p.wg.Wait()
}

// finished reports whether the worker goroutine has exited. Once true,
// no further item will ever be put on the queue.
func (p *prefetcher) finished() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

func (p *prefetcher) run(start int) {
	defer close(p.done)
	defer p.wg.Done()

	for i := start; i < len(p.files); i++ {
		select {
		case <-p.stop:
			return
		default:
		}

		// Check-and-insert before any I/O: if another path already loaded
		// or scheduled this index, move on without touching the file.
		if !p.flights.checkAndInsert(i) {
			continue
		}

		frame, err := p.load(p.files[i])
		if err != nil {
			// A broken frame must not kill the session; skip it.
			log.Printf("prefetch: skipping frame %d: %v", i, err)
			continue
		}

		// Blocks while the buffer is full; that is the backpressure that
		// keeps prefetch just ahead of playback.
		if !p.queue.Put(Item{Index: i, Frame: frame}) {
			return
		}
	}
}
