package video

import (
	"errors"
	"fmt"
	"runtime"

	"prism/src/render"
)

// cycle carries the handshake state for one start/stop cycle. The control
// thread builds it, hands it over on the start channel (the "starting"
// signal), and from then on each channel has exactly one closer: ready
// and stopped are closed by the render thread, stop by the control
// thread. onStopped is written before stop is closed and read only after
// the render thread observes the close, so the channel ordering carries
// it across threads.
type cycle struct {
	app Application
	win Window

	// ctx is pre-created by the control thread when the policy assigns
	// context ownership there; nil otherwise.
	ctx GfxContext

	ready   chan struct{} // closed once the render loop is running ("started")
	stop    chan struct{} // closed to request the loop to end ("stopping")
	stopped chan struct{} // closed after render-side teardown ("stopped")

	// onStopped is the one-shot asynchronous-stop callback, invoked on
	// the render thread after render-side teardown. Nil for blocking stops.
	onStopped func()
}

func newCycle(app Application, win Window, ctx GfxContext) *cycle {
	return &cycle{
		app:     app,
		win:     win,
		ctx:     ctx,
		ready:   make(chan struct{}),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// errThreadExited reports a render thread that is gone without a captured
// fault, which only happens if it is observed after termination.
var errThreadExited = errors.New("video: render thread exited")

// renderThread is the dedicated worker that owns the render loop and, on
// most platforms, the graphics context. It is started once at subsystem
// construction and lives until quit is closed or a fault kills it; it is
// never restarted.
type renderThread struct {
	ws     WindowSystem
	policy Policy

	start chan *cycle   // control thread hands one cycle per start
	quit  chan struct{} // closed by Shutdown; monotonic

	// done is closed when the goroutine exits; err is the captured fault,
	// valid to read only after done is closed. Waiting on done and then
	// reading err is the join that re-raises the fault.
	done chan struct{}
	err  error
}

func newRenderThread(ws WindowSystem, policy Policy) *renderThread {
	rt := &renderThread{
		ws:     ws,
		policy: policy,
		start:  make(chan *cycle),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go rt.run()
	return rt
}

// run is the render thread body. It is pinned to one OS thread for its
// whole life: graphics APIs bind the context to the thread that
// initialized it, so every context call from here on must come from this
// exact thread. The thread idles between cycles waiting for a start or
// for quit; any fault escaping a cycle is captured and ends the thread
// for good.
func (rt *renderThread) run() {
	runtime.LockOSThread()
	var err error
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("%+v", v)
		}
		rt.err = err
		close(rt.done)
	}()
	for {
		select {
		case <-rt.quit:
			return
		case c := <-rt.start:
			if err = rt.cycle(c); err != nil {
				return
			}
		}
	}
}

// cycle runs one start/stop cycle: bring up the context if this thread
// owns it, signal ready, render frames until stop, then tear down and
// signal stopped.
func (rt *renderThread) cycle(c *cycle) error {
	ctx := c.ctx
	if rt.policy.ContextThread() == RenderThread {
		var err error
		ctx, err = rt.ws.CreateContext(c.win)
		if err != nil {
			return fmt.Errorf("video: creating context on render thread: %w", err)
		}
	}
	r := ctx.Renderer()
	close(c.ready)

	if err := rt.frames(c, r); err != nil {
		return err
	}

	// Teardown order: capability first, then the context itself if this
	// thread owns it. The window is the control thread's to destroy.
	r.Release()
	if rt.policy.ContextThread() == RenderThread {
		rt.ws.DestroyContext(ctx)
	}
	if c.onStopped != nil {
		c.onStopped()
	}
	close(c.stopped)
	return nil
}

// frames runs the per-frame loop. Only the cycle's stop channel ends it;
// quit is deliberately not checked here, so a frame in flight is always
// rendered and presented before any teardown can begin.
func (rt *renderThread) frames(c *cycle, r render.Context) (err error) {
	defer render.CheckError(&err)
	for {
		select {
		case <-c.stop:
			return nil
		default:
		}
		if err := c.app.Render(r); err != nil {
			return fmt.Errorf("video: render callback: %w", err)
		}
		if err := r.Present(); err != nil {
			return fmt.Errorf("video: presenting frame: %w", err)
		}
	}
}
