package render

import (
	"fmt"
	"path/filepath"
	"runtime"
)

type stackFrame struct {
	fn   string
	file string
	line int
}

func newStackFrame(pc uintptr) *stackFrame {
	f := &stackFrame{fn: "unknown"}
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return f
	}
	f.fn = fn.Name()
	f.file, f.line = fn.FileLine(pc)
	return f
}

func (f *stackFrame) String() string {
	return fmt.Sprintf("%s (%s:%d)", f.fn, filepath.Base(f.file), f.line)
}
