package video

import "runtime"

// Thread identifies one of the two long-lived threads of the subsystem.
type Thread int32

const (
	// ControlThread owns the window, the event pump, and the facade.
	ControlThread Thread = iota

	// RenderThread owns the render loop and presentation.
	RenderThread
)

func (t Thread) String() string {
	if t == ControlThread {
		return "control"
	}
	return "render"
}

// Policy decides which thread creates and destroys the graphics context.
// The choice is made once at construction and holds for the lifetime of
// the subsystem; the context must only ever be touched from that thread.
type Policy interface {
	ContextThread() Thread
}

type staticPolicy Thread

func (p staticPolicy) ContextThread() Thread { return Thread(p) }

// ContextOn returns a Policy that pins context ownership to t.
func ContextOn(t Thread) Policy { return staticPolicy(t) }

// DefaultPolicy selects the context-ownership policy for the current
// platform. On windows the context must be handled by the thread that
// owns window-message delivery, or a cross-thread dispatch from the
// render thread deadlocks against the control thread's message pump.
// Everywhere else the graphics API forbids re-initialization from more
// than one thread over the process lifetime, so the context belongs to
// the thread issuing all subsequent graphics calls.
func DefaultPolicy() Policy {
	if runtime.GOOS == "windows" {
		return ContextOn(ControlThread)
	}
	return ContextOn(RenderThread)
}
