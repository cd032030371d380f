// Package vk is the Vulkan-backed renderer. Everything in it must run on
// the thread that owns the graphics context; the lifecycle coordinator is
// responsible for only ever calling it from there.
package vk

import (
	"fmt"
	"unsafe"

	"github.com/vulkan-go/vulkan"

	"prism/src/render"
)

// Device bundles the per-context Vulkan handles: instance, physical and
// logical device, the graphics/present queue, and the window surface.
type Device struct {
	instance vulkan.Instance
	gpu      vulkan.PhysicalDevice
	device   vulkan.Device
	queue    vulkan.Queue
	family   uint32
	surface  vulkan.Surface
}

// DeviceOptions parameterize instance creation.
type DeviceOptions struct {
	AppName string

	// InstanceExtensions are the surface extensions the window system
	// requires, e.g. from glfw.GetRequiredInstanceExtensions.
	InstanceExtensions []string

	// ProcAddr is the instance-proc-address loader from the window
	// system (e.g. glfw.GetVulkanGetInstanceProcAddress); required
	// before any Vulkan call.
	ProcAddr unsafe.Pointer
}

// NewDevice initializes Vulkan and brings up an instance and a logical
// device with one graphics queue. surfaceFor turns the created instance
// into a window surface, keeping the window-system dependency out of
// this package.
func NewDevice(opts DeviceOptions, surfaceFor func(instance vulkan.Instance) (uintptr, error)) (*Device, error) {
	if opts.ProcAddr != nil {
		vulkan.SetGetInstanceProcAddr(opts.ProcAddr)
	}
	if err := vulkan.Init(); err != nil {
		return nil, fmt.Errorf("vk: initializing loader: %w", err)
	}

	d := &Device{}
	ret := vulkan.CreateInstance(&vulkan.InstanceCreateInfo{
		SType: vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vulkan.ApplicationInfo{
			SType:              vulkan.StructureTypeApplicationInfo,
			PApplicationName:   safeString(opts.AppName),
			ApplicationVersion: vulkan.MakeVersion(1, 0, 0),
			PEngineName:        safeString("prism"),
			EngineVersion:      vulkan.MakeVersion(1, 0, 0),
			ApiVersion:         vulkan.ApiVersion10,
		},
		EnabledExtensionCount:   uint32(len(opts.InstanceExtensions)),
		PpEnabledExtensionNames: safeStrings(opts.InstanceExtensions),
	}, nil, &d.instance)
	if err := render.NewError(ret); err != nil {
		return nil, err
	}
	if err := vulkan.InitInstance(d.instance); err != nil {
		vulkan.DestroyInstance(d.instance, nil)
		return nil, fmt.Errorf("vk: loading instance procs: %w", err)
	}

	surf, err := surfaceFor(d.instance)
	if err != nil {
		vulkan.DestroyInstance(d.instance, nil)
		return nil, fmt.Errorf("vk: creating window surface: %w", err)
	}
	d.surface = vulkan.SurfaceFromPointer(surf)

	if err := d.pickGPU(); err != nil {
		d.Destroy()
		return nil, err
	}
	if err := d.createDevice(); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

func (d *Device) pickGPU() error {
	var count uint32
	if err := render.NewError(vulkan.EnumeratePhysicalDevices(d.instance, &count, nil)); err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("vk: no physical devices")
	}
	gpus := make([]vulkan.PhysicalDevice, count)
	if err := render.NewError(vulkan.EnumeratePhysicalDevices(d.instance, &count, gpus)); err != nil {
		return err
	}

	for _, gpu := range gpus {
		var qcount uint32
		vulkan.GetPhysicalDeviceQueueFamilyProperties(gpu, &qcount, nil)
		props := make([]vulkan.QueueFamilyProperties, qcount)
		vulkan.GetPhysicalDeviceQueueFamilyProperties(gpu, &qcount, props)
		for i := range props {
			props[i].Deref()
			if props[i].QueueFlags&vulkan.QueueFlags(vulkan.QueueGraphicsBit) == 0 {
				continue
			}
			var supported vulkan.Bool32
			vulkan.GetPhysicalDeviceSurfaceSupport(gpu, uint32(i), d.surface, &supported)
			if supported != vulkan.True {
				continue
			}
			d.gpu = gpu
			d.family = uint32(i)
			return nil
		}
	}
	return fmt.Errorf("vk: no queue family supports both graphics and present")
}

func (d *Device) createDevice() error {
	ret := vulkan.CreateDevice(d.gpu, &vulkan.DeviceCreateInfo{
		SType:                vulkan.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vulkan.DeviceQueueCreateInfo{{
			SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: d.family,
			QueueCount:       1,
			PQueuePriorities: []float32{1.0},
		}},
		EnabledExtensionCount:   1,
		PpEnabledExtensionNames: safeStrings([]string{"VK_KHR_swapchain"}),
	}, nil, &d.device)
	if err := render.NewError(ret); err != nil {
		return err
	}
	vulkan.GetDeviceQueue(d.device, d.family, 0, &d.queue)
	return nil
}

// Destroy releases the device-level handles in reverse creation order.
// Any renderer built on this device must be released first.
func (d *Device) Destroy() {
	if d.device != nil {
		vulkan.DeviceWaitIdle(d.device)
		vulkan.DestroyDevice(d.device, nil)
		d.device = nil
	}
	if d.surface != vulkan.NullSurface {
		vulkan.DestroySurface(d.instance, d.surface, nil)
		d.surface = vulkan.NullSurface
	}
	if d.instance != nil {
		vulkan.DestroyInstance(d.instance, nil)
		d.instance = nil
	}
}

func safeString(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\x00' {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}
