package vk

import (
	"fmt"

	"github.com/vulkan-go/vulkan"

	"prism/src/render"
)

// Renderer is the swapchain-backed renderer capability. One is created
// per start cycle on top of a Device, and it is the thing handed to the
// per-frame render operation.
type Renderer struct {
	dev *Device

	swapchain vulkan.Swapchain
	format    vulkan.Format
	extent    vulkan.Extent2D
	images    []vulkan.Image

	acquired vulkan.Semaphore
	released bool
}

var _ render.Context = (*Renderer)(nil)

// NewRenderer builds a swapchain sized to the window's surface.
func NewRenderer(dev *Device, width, height int) (*Renderer, error) {
	r := &Renderer{dev: dev}

	var caps vulkan.SurfaceCapabilities
	ret := vulkan.GetPhysicalDeviceSurfaceCapabilities(dev.gpu, dev.surface, &caps)
	if err := render.NewError(ret); err != nil {
		return nil, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	r.extent = vulkan.Extent2D{Width: uint32(width), Height: uint32(height)}
	// 0xFFFFFFFF in CurrentExtent means the surface follows the swapchain.
	if caps.CurrentExtent.Width != 0xFFFFFFFF {
		r.extent = caps.CurrentExtent
	}

	format, colorSpace, err := r.pickFormat()
	if err != nil {
		return nil, err
	}
	r.format = format

	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	ret = vulkan.CreateSwapchain(dev.device, &vulkan.SwapchainCreateInfo{
		SType:            vulkan.StructureTypeSwapchainCreateInfo,
		Surface:          dev.surface,
		MinImageCount:    imageCount,
		ImageFormat:      format,
		ImageColorSpace:  colorSpace,
		ImageExtent:      r.extent,
		ImageArrayLayers: 1,
		ImageUsage:       vulkan.ImageUsageFlags(vulkan.ImageUsageColorAttachmentBit),
		ImageSharingMode: vulkan.SharingModeExclusive,
		PreTransform:     vulkan.SurfaceTransformIdentityBit,
		CompositeAlpha:   vulkan.CompositeAlphaOpaqueBit,
		PresentMode:      vulkan.PresentModeFifo,
		Clipped:          vulkan.True,
	}, nil, &r.swapchain)
	if err := render.NewError(ret); err != nil {
		return nil, err
	}

	var count uint32
	if err := render.NewError(vulkan.GetSwapchainImages(dev.device, r.swapchain, &count, nil)); err != nil {
		r.Release()
		return nil, err
	}
	r.images = make([]vulkan.Image, count)
	if err := render.NewError(vulkan.GetSwapchainImages(dev.device, r.swapchain, &count, r.images)); err != nil {
		r.Release()
		return nil, err
	}

	ret = vulkan.CreateSemaphore(dev.device, &vulkan.SemaphoreCreateInfo{
		SType: vulkan.StructureTypeSemaphoreCreateInfo,
	}, nil, &r.acquired)
	if err := render.NewError(ret); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) pickFormat() (vulkan.Format, vulkan.ColorSpace, error) {
	var count uint32
	ret := vulkan.GetPhysicalDeviceSurfaceFormats(r.dev.gpu, r.dev.surface, &count, nil)
	if err := render.NewError(ret); err != nil {
		return 0, 0, err
	}
	if count == 0 {
		return 0, 0, fmt.Errorf("vk: surface reports no formats")
	}
	formats := make([]vulkan.SurfaceFormat, count)
	ret = vulkan.GetPhysicalDeviceSurfaceFormats(r.dev.gpu, r.dev.surface, &count, formats)
	if err := render.NewError(ret); err != nil {
		return 0, 0, err
	}
	formats[0].Deref()
	if formats[0].Format == vulkan.FormatUndefined {
		return vulkan.FormatB8g8r8a8Unorm, formats[0].ColorSpace, nil
	}
	return formats[0].Format, formats[0].ColorSpace, nil
}

// Device exposes the logical device for command recording by the render
// callback.
func (r *Renderer) Device() vulkan.Device {
	return r.dev.device
}

// Queue exposes the graphics/present queue.
func (r *Renderer) Queue() vulkan.Queue {
	return r.dev.queue
}

// Extent reports the swapchain dimensions.
func (r *Renderer) Extent() (width, height int) {
	return int(r.extent.Width), int(r.extent.Height)
}

// Present acquires the next swapchain image and queues it for
// presentation. An out-of-date swapchain is not an error here; the next
// start cycle rebuilds it at the new size.
func (r *Renderer) Present() error {
	var idx uint32
	ret := vulkan.AcquireNextImage(r.dev.device, r.swapchain, vulkan.MaxUint64,
		r.acquired, vulkan.NullFence, &idx)
	if ret == vulkan.ErrorOutOfDate || ret == vulkan.Suboptimal {
		return nil
	}
	if err := render.NewError(ret); err != nil {
		return err
	}

	ret = vulkan.QueuePresent(r.dev.queue, &vulkan.PresentInfo{
		SType:              vulkan.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vulkan.Semaphore{r.acquired},
		SwapchainCount:     1,
		PSwapchains:        []vulkan.Swapchain{r.swapchain},
		PImageIndices:      []uint32{idx},
	})
	if ret == vulkan.ErrorOutOfDate || ret == vulkan.Suboptimal {
		return nil
	}
	return render.NewError(ret)
}

// Release drains the device and frees the swapchain resources. The
// Device itself stays up; it belongs to the graphics context, not to one
// render cycle.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	vulkan.DeviceWaitIdle(r.dev.device)
	if r.acquired != vulkan.NullSemaphore {
		vulkan.DestroySemaphore(r.dev.device, r.acquired, nil)
		r.acquired = vulkan.NullSemaphore
	}
	if r.swapchain != vulkan.NullSwapchain {
		vulkan.DestroySwapchain(r.dev.device, r.swapchain, nil)
		r.swapchain = vulkan.NullSwapchain
	}
	r.images = nil
}
