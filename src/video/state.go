package video

import (
	"fmt"
	"sync/atomic"
)

// State is the lifecycle state of the subsystem.
//
// Legal transitions:
//
//	Idle -> Starting -> Running -> Stopping -> Idle   (one start/stop cycle)
//	Idle -> Terminating -> Terminated                 (shutdown, permanent)
//	any  -> Faulted                                   (render thread fault, absorbing)
type State int32

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
	StateTerminating
	StateTerminated
	StateFaulted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateTerminating:
		return "terminating"
	case StateTerminated:
		return "terminated"
	case StateFaulted:
		return "faulted"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// machine holds the lifecycle state behind a compare-and-swap so an
// illegal transition cannot be expressed at all, only rejected.
type machine struct {
	v atomic.Int32
}

func (m *machine) state() State {
	return State(m.v.Load())
}

func (m *machine) transition(from, to State) error {
	if m.v.CompareAndSwap(int32(from), int32(to)) {
		return nil
	}
	return fmt.Errorf("%w: %v -> %v while %v", ErrBadTransition, from, to, m.state())
}

// fault moves the machine to Faulted from whatever state observed the
// fault. Terminated stays Terminated; Faulted is absorbing.
func (m *machine) fault() {
	for {
		s := m.v.Load()
		if s == int32(StateFaulted) || s == int32(StateTerminated) {
			return
		}
		if m.v.CompareAndSwap(s, int32(StateFaulted)) {
			return
		}
	}
}
