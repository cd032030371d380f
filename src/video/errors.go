package video

import "errors"

var (
	// ErrBadTransition is returned when a facade operation is called in a
	// lifecycle state that does not permit it.
	ErrBadTransition = errors.New("video: illegal lifecycle transition")

	// ErrTerminated is returned from any operation after Shutdown has
	// completed. The subsystem cannot be restarted.
	ErrTerminated = errors.New("video: subsystem terminated")
)

// FaultError wraps a fault captured on the render thread. Once one is
// observed the subsystem is permanently Faulted; every later facade call
// returns the same underlying fault.
type FaultError struct {
	Err error
}

func (e *FaultError) Error() string {
	return "video: render thread fault: " + e.Err.Error()
}

func (e *FaultError) Unwrap() error {
	return e.Err
}
