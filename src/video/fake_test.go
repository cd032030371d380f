package video

import (
	"sync"
	"time"

	"prism/src/render"
)

// eventLog records the interleaving of window-system and renderer calls
// from both threads, so tests can assert ordering guarantees.
type eventLog struct {
	mu  sync.Mutex
	log []string
}

func (e *eventLog) add(s string) {
	e.mu.Lock()
	e.log = append(e.log, s)
	e.mu.Unlock()
}

func (e *eventLog) list() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.log...)
}

// indexOf returns the position of the nth occurrence of s, or -1.
func (e *eventLog) indexOf(s string, nth int) int {
	seen := 0
	for i, v := range e.list() {
		if v == s {
			seen++
			if seen == nth {
				return i
			}
		}
	}
	return -1
}

type fakeRenderer struct {
	ev         *eventLog
	presentErr error
}

func (r *fakeRenderer) Present() error {
	r.ev.add("present")
	return r.presentErr
}

func (r *fakeRenderer) Release() {
	r.ev.add("renderer.release")
}

type fakeContext struct {
	r *fakeRenderer
}

func (c *fakeContext) Renderer() render.Context { return c.r }

type fakeWindow struct{}

type fakeWindowSystem struct {
	ev *eventLog

	desktopW   int
	desktopH   int
	windowErr  error
	contextErr error
	presentErr error
}

func newFakeWindowSystem() *fakeWindowSystem {
	return &fakeWindowSystem{ev: &eventLog{}, desktopW: 1920, desktopH: 1080}
}

func (ws *fakeWindowSystem) CreateWindow(o WindowOptions) (Window, error) {
	if ws.windowErr != nil {
		return nil, ws.windowErr
	}
	ws.ev.add("window.create")
	return &fakeWindow{}, nil
}

func (ws *fakeWindowSystem) DestroyWindow(w Window) {
	ws.ev.add("window.destroy")
}

func (ws *fakeWindowSystem) CreateContext(w Window) (GfxContext, error) {
	if ws.contextErr != nil {
		return nil, ws.contextErr
	}
	ws.ev.add("context.create")
	return &fakeContext{r: &fakeRenderer{ev: ws.ev, presentErr: ws.presentErr}}, nil
}

func (ws *fakeWindowSystem) DestroyContext(c GfxContext) {
	ws.ev.add("context.destroy")
}

func (ws *fakeWindowSystem) DesktopMode() (int, int, error) {
	return ws.desktopW, ws.desktopH, nil
}

type fakeApp struct {
	name     string
	settings Settings
	render   render.Func
}

func (a *fakeApp) Name() string       { return a.name }
func (a *fakeApp) Resizable() bool    { return false }
func (a *fakeApp) Settings() Settings { return a.settings }

func (a *fakeApp) Render(ctx render.Context) error {
	if a.render != nil {
		return a.render(ctx)
	}
	// keep the frame loop from spinning flat out in tests
	time.Sleep(50 * time.Microsecond)
	return nil
}

func windowedApp() *fakeApp {
	return &fakeApp{
		name:     "test",
		settings: Settings{Mode: ModeWindowed, Width: 800, Height: 600},
	}
}
