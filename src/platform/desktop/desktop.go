// Package desktop is the GLFW-backed window system for desktop
// platforms, wired for Vulkan. GLFW requires the process's main thread
// for window calls, so the main thread is the control thread: lock it
// with runtime.LockOSThread before touching this package.
package desktop

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/vulkan-go/vulkan"

	"prism/src/render"
	"prism/src/render/vk"
	"prism/src/video"
)

// WindowSystem implements video.WindowSystem on GLFW + Vulkan.
type WindowSystem struct {
	appName string
}

var _ video.WindowSystem = (*WindowSystem)(nil)

// New initializes GLFW. Call Terminate when the subsystem is done.
func New(appName string) (*WindowSystem, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("desktop: initializing glfw: %w", err)
	}
	if !glfw.VulkanSupported() {
		glfw.Terminate()
		return nil, fmt.Errorf("desktop: vulkan loader not available")
	}
	return &WindowSystem{appName: appName}, nil
}

// Terminate releases GLFW. All windows must be destroyed first.
func (ws *WindowSystem) Terminate() {
	glfw.Terminate()
}

// PollEvents pumps the window-system event queue. Control thread only.
func (ws *WindowSystem) PollEvents() {
	glfw.PollEvents()
}

func (ws *WindowSystem) CreateWindow(o video.WindowOptions) (video.Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if o.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	var monitor *glfw.Monitor
	switch o.Mode {
	case video.ModeFullscreen:
		monitor = glfw.GetPrimaryMonitor()
	case video.ModeMaximized:
		glfw.WindowHint(glfw.Maximized, glfw.True)
	case video.ModeWindowedFullscreen:
		glfw.WindowHint(glfw.Decorated, glfw.False)
	}

	win, err := glfw.CreateWindow(o.Width, o.Height, o.Title, monitor, nil)
	if err != nil {
		return nil, fmt.Errorf("desktop: creating window: %w", err)
	}

	switch o.Mode {
	case video.ModeWindowedFullscreen:
		win.SetPos(0, 0)
	case video.ModeWindowed:
		if o.Pos != nil {
			win.SetPos(o.Pos.X, o.Pos.Y)
		} else if mode := glfw.GetPrimaryMonitor().GetVideoMode(); mode != nil {
			win.SetPos((mode.Width-o.Width)/2, (mode.Height-o.Height)/2)
		}
	}
	return win, nil
}

func (ws *WindowSystem) DestroyWindow(w video.Window) {
	w.(*glfw.Window).Destroy()
}

func (ws *WindowSystem) DesktopMode() (width, height int, err error) {
	monitor := glfw.GetPrimaryMonitor()
	if monitor == nil {
		return 0, 0, fmt.Errorf("desktop: no primary monitor")
	}
	mode := monitor.GetVideoMode()
	if mode == nil {
		return 0, 0, fmt.Errorf("desktop: no desktop display mode")
	}
	return mode.Width, mode.Height, nil
}

// context pairs the Vulkan device with the swapchain renderer built on
// it. The renderer crosses to the render loop; the device dies with the
// context.
type context struct {
	dev *vk.Device
	r   *vk.Renderer
}

func (c *context) Renderer() render.Context { return c.r }

func (ws *WindowSystem) CreateContext(w video.Window) (video.GfxContext, error) {
	win := w.(*glfw.Window)
	dev, err := vk.NewDevice(vk.DeviceOptions{
		AppName:            ws.appName,
		InstanceExtensions: glfw.GetRequiredInstanceExtensions(),
		ProcAddr:           glfw.GetVulkanGetInstanceProcAddress(),
	}, func(instance vulkan.Instance) (uintptr, error) {
		return win.CreateWindowSurface(instance, nil)
	})
	if err != nil {
		return nil, err
	}
	width, height := win.GetFramebufferSize()
	r, err := vk.NewRenderer(dev, width, height)
	if err != nil {
		dev.Destroy()
		return nil, err
	}
	return &context{dev: dev, r: r}, nil
}

func (ws *WindowSystem) DestroyContext(c video.GfxContext) {
	ctx := c.(*context)
	ctx.r.Release()
	ctx.dev.Destroy()
}
