// Package video coordinates the lifecycle of a windowing-and-rendering
// subsystem across two threads with conflicting affinity rules: the
// control thread, which must own window creation and the event pump, and
// a dedicated render thread, which on most platforms must own the
// graphics context for the whole process lifetime.
//
// The package decides when and on which thread windows, contexts, and
// render loops come up and go down; the actual platform calls live
// behind the WindowSystem interface, and what gets drawn each frame is
// the Application's business.
package video

import (
	"fmt"
	"log/slog"
)

// Video is the control-thread facade of the subsystem. All methods must
// be called from the control thread, one at a time: facade calls are not
// safe to interleave from multiple goroutines, and a Stop racing an
// in-flight StopAsync is undefined.
//
// The render thread is created once, at New, and lives until Shutdown or
// a fault. After Shutdown the subsystem is permanently terminated; after
// a fault it is permanently Faulted and every call returns the captured
// fault. Either way, recovery means constructing a new Video.
type Video struct {
	ws     WindowSystem
	policy Policy
	log    *slog.Logger

	m  machine
	rt *renderThread

	win Window

	// ctx is held here only when the policy pins context ownership to the
	// control thread; otherwise the render thread keeps it to itself.
	ctx GfxContext

	cur     *cycle
	pending bool // an asynchronous stop's control-side teardown is still owed

	width  int
	height int

	fault error
}

// New builds the subsystem and starts its render thread. A nil policy
// selects DefaultPolicy.
func New(ws WindowSystem, policy Policy) *Video {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &Video{
		ws:     ws,
		policy: policy,
		log:    slog.Default(),
		rt:     newRenderThread(ws, policy),
	}
}

// Start creates the window (and, when the policy assigns it here, the
// context) on the calling thread, resolves the screen geometry from the
// application's requested mode, and blocks until the render thread is
// running frames. Construction failures surface synchronously and leave
// the subsystem Idle; the render thread is never involved in them.
func (v *Video) Start(app Application) error {
	if err := v.finishPending(); err != nil {
		return err
	}
	if err := v.m.transition(StateIdle, StateStarting); err != nil {
		return v.opErr(err)
	}

	s := app.Settings()
	width, height, err := resolveGeometry(v.ws, s)
	if err != nil {
		v.m.transition(StateStarting, StateIdle)
		return err
	}

	win, err := v.ws.CreateWindow(WindowOptions{
		Title:     app.Name(),
		Mode:      s.Mode,
		Width:     width,
		Height:    height,
		Pos:       s.Pos,
		Resizable: app.Resizable(),
	})
	if err != nil {
		v.m.transition(StateStarting, StateIdle)
		return fmt.Errorf("video: creating window: %w", err)
	}

	var ctx GfxContext
	if v.policy.ContextThread() == ControlThread {
		ctx, err = v.ws.CreateContext(win)
		if err != nil {
			v.ws.DestroyWindow(win)
			v.m.transition(StateStarting, StateIdle)
			return fmt.Errorf("video: creating context: %w", err)
		}
	}

	c := newCycle(app, win, ctx)
	v.win, v.ctx, v.cur = win, ctx, c

	// Hand the cycle to the render thread and wait for it to come up.
	// A dead render thread surfaces its captured fault here.
	select {
	case v.rt.start <- c:
	case <-v.rt.done:
		return v.faulted()
	}
	if err := v.await(c.ready); err != nil {
		return err
	}

	v.width, v.height = width, height
	v.m.transition(StateStarting, StateRunning)
	v.log.Debug("video: started", "mode", s.Mode, "width", width, "height", height)
	return nil
}

// Stop ends the render loop and blocks until both threads agree the
// subsystem is idle again: the render thread has torn down its side,
// and this thread has destroyed the control-owned context (if any) and
// the window.
func (v *Video) Stop() error {
	if err := v.m.transition(StateRunning, StateStopping); err != nil {
		return v.opErr(err)
	}
	c := v.cur
	close(c.stop)
	if err := v.await(c.stopped); err != nil {
		return err
	}
	v.teardown()
	v.m.transition(StateStopping, StateIdle)
	v.log.Debug("video: stopped")
	return nil
}

// StopAsync requests the same stop as Stop but returns immediately.
// onStopped is invoked exactly once, on the render thread, after the
// render-side teardown. The control-side teardown (control-owned context
// and the window) is owed until the next facade call, which completes it
// before doing anything else; until then the subsystem reads as Stopping.
func (v *Video) StopAsync(onStopped func()) error {
	if err := v.m.transition(StateRunning, StateStopping); err != nil {
		return v.opErr(err)
	}
	c := v.cur
	c.onStopped = onStopped
	close(c.stop)
	v.pending = true
	return nil
}

// Shutdown permanently terminates the subsystem: it completes any owed
// stop (a Running subsystem is stopped first), tells the render thread to
// exit, and joins it. On a Faulted subsystem it tears down the control-
// owned handles and returns the captured fault. After Shutdown returns,
// every further call fails with ErrTerminated.
func (v *Video) Shutdown() error {
	if err := v.finishPending(); err != nil {
		v.teardown()
		return err
	}
	if v.m.state() == StateRunning {
		if err := v.Stop(); err != nil {
			v.teardown()
			return err
		}
	}
	if v.m.state() == StateFaulted {
		<-v.rt.done
		v.teardown()
		return &FaultError{Err: v.fault}
	}
	if err := v.m.transition(StateIdle, StateTerminating); err != nil {
		return v.opErr(err)
	}
	close(v.rt.quit)
	<-v.rt.done
	v.m.transition(StateTerminating, StateTerminated)
	v.log.Debug("video: terminated")
	return nil
}

// ScreenSize reports the dimensions resolved during the most recent
// successful Start. Pure read; call it from the control thread.
func (v *Video) ScreenSize() (width, height int) {
	return v.width, v.height
}

// State reports the current lifecycle state.
func (v *Video) State() State {
	return v.m.state()
}

// await blocks until ch is closed. If the render thread dies first, the
// wait short-circuits and re-raises the captured fault instead.
func (v *Video) await(ch <-chan struct{}) error {
	select {
	case <-ch:
		return nil
	case <-v.rt.done:
		// The awaited signal may have landed in the same instant the
		// thread died; prefer it, a completed handshake is not a fault.
		select {
		case <-ch:
			return nil
		default:
		}
		return v.faulted()
	}
}

// faulted joins the dead render thread, records its captured fault, and
// moves the machine to Faulted.
func (v *Video) faulted() error {
	<-v.rt.done
	if v.fault == nil {
		v.fault = v.rt.err
		if v.fault == nil {
			v.fault = errThreadExited
		}
		v.log.Error("video: render thread fault", "err", v.fault)
	}
	v.m.fault()
	return &FaultError{Err: v.fault}
}

// finishPending completes the control-side teardown owed by a previous
// StopAsync: wait for the render side to finish, then destroy the
// control-owned handles and return to Idle.
func (v *Video) finishPending() error {
	if !v.pending {
		return nil
	}
	if err := v.await(v.cur.stopped); err != nil {
		return err
	}
	v.teardown()
	v.pending = false
	return v.m.transition(StateStopping, StateIdle)
}

// teardown destroys the control-owned handles, context strictly before
// window. Only ever runs on the control thread.
func (v *Video) teardown() {
	if v.ctx != nil {
		v.ws.DestroyContext(v.ctx)
		v.ctx = nil
	}
	if v.win != nil {
		v.ws.DestroyWindow(v.win)
		v.win = nil
	}
	v.cur = nil
	v.pending = false
}

// opErr maps a rejected transition onto the terminal conditions: the
// captured fault when Faulted, ErrTerminated after Shutdown, and the
// transition error itself otherwise.
func (v *Video) opErr(err error) error {
	switch v.m.state() {
	case StateFaulted:
		return v.faulted()
	case StateTerminated, StateTerminating:
		return ErrTerminated
	}
	return err
}
