package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/mindes-tools/vtsview/series"
	"github.com/mindes-tools/vtsview/vtsio"
)

// State is the playback state machine: a controller is either Stopped or
// Playing.
type State int

const (
	Stopped State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "Playing"
	}
	return "Stopped"
}

// DefaultDelay is the tick period of sequential playback (50 frames/s).
const DefaultDelay = 20 * time.Millisecond

// DefaultAutoInterval is the folder re-scan period of auto-update mode.
const DefaultAutoInterval = 500 * time.Millisecond

// Hooks are the notifications a front end consumes. All of them are
// optional and all fire on the thread that calls the controller, never
// from the prefetch worker.
type Hooks struct {
	// FrameChanged fires when a new frame becomes current, with its
	// series index and basename (drives the file-selector UI).
	FrameChanged func(index int, name string)
	// Status receives short user-facing progress/problem messages.
	Status func(msg string)
	// Render is called with each frame that should be drawn.
	Render func(frame *vtsio.GridFrame)
}

func (h *Hooks) frameChanged(i int, name string) {
	if h.FrameChanged != nil {
		h.FrameChanged(i, name)
	}
}

func (h *Hooks) status(msg string) {
	if h.Status != nil {
		h.Status(msg)
	}
}

func (h *Hooks) render(g *vtsio.GridFrame) {
	if h.Render != nil {
		h.Render(g)
	}
}

// Controller owns the playback state of one series. All methods must be
// called from a single thread (the UI/render thread); the only concurrent
// machinery is the prefetch worker it manages internally.
type Controller struct {
	// Delay is the sequential-playback tick period.
	Delay time.Duration
	// QueueCapacity bounds the prefetch buffer.
	QueueCapacity int
	// Load reads frames; replaceable for tests.
	Load LoadFunc

	desc  *series.Descriptor
	hooks Hooks

	state   State
	index   int
	current *vtsio.GridFrame
	// displayed is the basename of the frame on screen, the identity
	// auto-update compares against.
	displayed string

	queue   *Queue
	flights *flightSet
	pf      *prefetcher

	autoActive   bool
	autoInterval time.Duration
}

// NewController creates a Stopped controller over a resolved series.
func NewController(desc *series.Descriptor, hooks Hooks) *Controller {
	return &Controller{
		Delay:         DefaultDelay,
		QueueCapacity: DefaultQueueCapacity,
		Load:          vtsio.Read,
		desc:          desc,
		hooks:         hooks,
		flights:       newFlightSet(),
	}
}

// State returns Stopped or Playing.
func (c *Controller) State() State { return c.state }

// CurrentIndex returns the series index of the displayed frame.
func (c *Controller) CurrentIndex() int { return c.index }

// CurrentFrame returns the displayed frame, nil before the first load.
func (c *Controller) CurrentFrame() *vtsio.GridFrame { return c.current }

// AutoUpdating reports whether auto-update mode is active.
func (c *Controller) AutoUpdating() bool { return c.autoActive }

// SelectFrame loads and displays one frame synchronously, the manual
// file-selector path. Refused during playback, when the selector is
// disabled anyway.
func (c *Controller) SelectFrame(i int) error {
	if c.state == Playing {
		return fmt.Errorf("cannot select frames during playback")
	}
	if c.desc == nil || i < 0 || i >= c.desc.Len() {
		return fmt.Errorf("frame index %d out of range", i)
	}
	frame, err := c.Load(c.desc.Files[i])
	if err != nil {
		c.hooks.status(fmt.Sprintf("Load failed: %v", err))
		return err
	}
	c.setCurrent(i, frame)
	c.hooks.status(fmt.Sprintf("Loaded: %s", c.desc.Base(i)))
	return nil
}

func (c *Controller) setCurrent(i int, frame *vtsio.GridFrame) {
	c.index = i
	c.current = frame
	c.displayed = c.desc.Base(i)
	c.hooks.frameChanged(i, c.displayed)
	c.hooks.render(frame)
}

// Play starts sequential playback. The first frame is loaded
// synchronously so something is on screen immediately; the prefetch
// worker then runs ahead of the tick. Playback that had finished at the
// series end restarts from frame 0.
func (c *Controller) Play() error {
	if c.state == Playing {
		return fmt.Errorf("already playing")
	}
	if c.autoActive {
		return fmt.Errorf("auto-update is active; stop it before playback")
	}
	if c.desc == nil || c.desc.Len() == 0 {
		return series.ErrNoFilesFound
	}

	if c.index >= c.desc.Len()-1 {
		c.index = 0
	}

	c.flights.reset()
	c.queue = NewQueue(c.QueueCapacity)

	frame, err := c.Load(c.desc.Files[c.index])
	if err != nil {
		c.hooks.status(fmt.Sprintf("Load failed: %v", err))
		return err
	}
	c.flights.checkAndInsert(c.index)
	c.setCurrent(c.index, frame)
	c.hooks.status(fmt.Sprintf("Playing: %s", c.displayed))

	c.state = Playing
	// The worker is handed the current index too; the flight set makes it
	// skip straight to the next unloaded frame.
	c.pf = startPrefetch(c.desc.Files, c.index, c.queue, c.flights, c.Load)
	return nil
}

// Tick advances playback by at most one frame and reports whether the
// controller is still Playing. It never blocks and never loads
// synchronously: when the buffer is empty it waits for a later tick
// rather than janking the render thread, unless the worker has already
// exited, in which case the session is over and the controller stops.
func (c *Controller) Tick() bool {
	if c.state != Playing {
		return false
	}

	it, ok := c.queue.TryGet()
	if !ok && c.pf != nil && c.pf.finished() {
		// The worker may have delivered its last item between the pop and
		// the finished check; look once more before declaring the end.
		it, ok = c.queue.TryGet()
		if !ok {
			// Worker exhausted the file list without reaching the queue
			// again (trailing frames failed to load, or a one-file
			// series): playback is over.
			c.Stop()
			return false
		}
	}
	if ok {
		c.setCurrent(it.Index, it.Frame)
		c.hooks.status(fmt.Sprintf("Playing: %s", c.displayed))
		if it.Index == c.desc.Len()-1 {
			c.Stop()
			return false
		}
	}
	return c.state == Playing
}

// Stop cancels playback: the worker is signalled and awaited, the buffer
// drained. Stopping a Stopped controller is a no-op.
func (c *Controller) Stop() {
	if c.state == Stopped && c.pf == nil {
		return
	}
	c.state = Stopped
	if c.queue != nil {
		c.queue.Close()
	}
	if c.pf != nil {
		c.pf.Stop()
		c.pf = nil
	}
	if c.queue != nil {
		c.queue.Drain()
	}
	c.hooks.status("Stopped")
}

// Run drives Tick on a fixed-delay timer until playback finishes or ctx
// is cancelled. It must run on the thread that owns the controller.
func (c *Controller) Run(ctx context.Context) {
	timer := time.NewTimer(c.Delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			c.Stop()
			return
		case <-timer.C:
		}
		if !c.Tick() {
			return
		}
		timer.Reset(c.Delay)
	}
}

// StartAutoUpdate switches to live-watch mode: the folder is re-scanned
// periodically and the newest file displayed as the external solver
// grows the series. Mutually exclusive with sequential playback.
func (c *Controller) StartAutoUpdate(interval time.Duration) error {
	if c.state == Playing {
		return fmt.Errorf("sequential playback is active; stop it before auto-update")
	}
	if c.desc == nil {
		return series.ErrNoFilesFound
	}
	if interval <= 0 {
		interval = DefaultAutoInterval
	}
	c.autoInterval = interval
	c.autoActive = true
	return nil
}

// StopAutoUpdate leaves live-watch mode.
func (c *Controller) StopAutoUpdate() { c.autoActive = false }

// AutoCheck performs one auto-update scan: refresh the series and, when
// the newest file differs from what is displayed, load and display it.
func (c *Controller) AutoCheck() error {
	if c.desc == nil {
		return series.ErrNoFilesFound
	}
	if _, err := c.desc.Refresh(); err != nil {
		return err
	}
	if c.desc.Len() == 0 {
		c.hooks.status("Auto-check: no files")
		return nil
	}

	last := c.desc.Len() - 1
	latest := c.desc.Base(last)
	if latest == c.displayed {
		c.hooks.status("No new files")
		return nil
	}

	frame, err := c.Load(c.desc.Files[last])
	if err != nil {
		c.hooks.status(fmt.Sprintf("Auto-load failed: %v", err))
		return err
	}
	c.setCurrent(last, frame)
	c.hooks.status("Auto-loaded latest file")
	return nil
}

// RunAutoUpdate drives AutoCheck on its timer until auto-update is
// stopped or ctx is cancelled. Per-scan failures are reported through
// the status hook and do not end the loop.
func (c *Controller) RunAutoUpdate(ctx context.Context) {
	interval := c.autoInterval
	if interval <= 0 {
		interval = DefaultAutoInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for c.autoActive {
		select {
		case <-ctx.Done():
			c.StopAutoUpdate()
			return
		case <-ticker.C:
			c.AutoCheck()
		}
	}
}
