package render

import (
	"fmt"
	"runtime"

	"github.com/vulkan-go/vulkan"
)

// NewError converts a vulkan result to an error, annotated with the
// calling frame. Returns nil on success.
func NewError(retVal vulkan.Result) error {
	if retVal != vulkan.Success {
		pc, _, _, ok := runtime.Caller(1)
		if !ok {
			return fmt.Errorf("vulkan error: %w (%d)", vulkan.Error(retVal), retVal)
		}
		frame := newStackFrame(pc)
		return fmt.Errorf("vulkan error: %w (%d) on %s",
			vulkan.Error(retVal), retVal, frame.String())
	}
	return nil
}

func IsError(retVal vulkan.Result) bool {
	return retVal != vulkan.Success
}

// OrPanic panics on a non-nil error, running the finalizers first so
// partially constructed graphics state is released before unwinding.
func OrPanic(err error, finalizers ...func()) {
	if err != nil {
		for _, fn := range finalizers {
			fn()
		}
		panic(err)
	}
}

// CheckError captures a panic into *err. Deferred around any code that
// crosses into graphics calls, so a fault unwinds as an error instead of
// killing the process.
func CheckError(err *error) {
	if v := recover(); v != nil {
		*err = fmt.Errorf("%+v", v)
	}
}
