package video

import "prism/src/render"

// Application describes the client of the video subsystem: the window
// identity it wants and the per-frame render operation. Render is invoked
// once per frame on the render thread with the renderer capability; a
// non-nil error is a render-thread fault and permanently stops the loop.
type Application interface {
	Name() string
	Resizable() bool
	Settings() Settings
	Render(ctx render.Context) error
}

// Window is an opaque window handle. It is created and destroyed
// exclusively on the control thread.
type Window interface{}

// GfxContext is the graphics context handle. It is created and destroyed
// on the thread the Policy assigns and owned by that thread for its
// lifetime; only its Renderer crosses to the render loop.
type GfxContext interface {
	Renderer() render.Context
}

// WindowOptions is the resolved window request handed to the window
// system. Pos is nil when the platform should place the window itself.
type WindowOptions struct {
	Title     string
	Mode      Mode
	Width     int
	Height    int
	Pos       *Position
	Resizable bool
}

// WindowSystem is the window-system collaborator: the actual platform
// calls the coordinator drives but does not implement. CreateWindow and
// DestroyWindow are only ever called on the control thread;
// CreateContext and DestroyContext on the thread the Policy assigns.
type WindowSystem interface {
	CreateWindow(opts WindowOptions) (Window, error)
	DestroyWindow(win Window)
	CreateContext(win Window) (GfxContext, error)
	DestroyContext(ctx GfxContext)

	// DesktopMode reports the desktop display dimensions, used to resolve
	// maximized and windowed-fullscreen geometry.
	DesktopMode() (width, height int, err error)
}
