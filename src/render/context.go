package render

// Context is the renderer capability handed to the per-frame render
// operation. It is produced when the graphics context comes up and is only
// ever used on the thread that owns that context for the process lifetime.
type Context interface {
	// Present makes the rendered frame visible (buffer swap/flip).
	Present() error

	// Release frees the resources the capability holds. The Context must
	// not be used after Release.
	Release()
}

// Func adapts a plain function to a per-frame render operation.
type Func func(ctx Context) error
