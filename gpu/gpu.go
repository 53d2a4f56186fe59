// Package gpu opens the offscreen canvas benchmarks render into.
//
// The canvas renders through gogpu/wgpu HAL. By default it creates its own
// Vulkan device; the noop backend runs the full pipeline without a GPU,
// which is useful in tests and CI:
//
//	canvas, err := gpu.Open(gpu.Config{Width: 800, Height: 600, Backend: gpu.BackendNoop})
//
// A host application that already owns a device (for example a gogpu
// window) can share it instead:
//
//	canvas, err := gpu.OpenShared(app.DeviceProvider(), 800, 600)
package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"

	gpuimpl "github.com/gogpu/gpumark/internal/gpu"
)

// Backend names accepted by Config.Backend.
const (
	BackendVulkan = gpuimpl.BackendVulkan
	BackendNoop   = gpuimpl.BackendNoop
)

type (
	// Canvas is an offscreen render target on a GPU device.
	Canvas = gpuimpl.Canvas

	// Config describes the canvas Open creates.
	Config = gpuimpl.Config

	// Frame is one render pass into a canvas.
	Frame = gpuimpl.Frame

	// Pixel is an 8-bit RGBA color read back from a canvas.
	Pixel = gpuimpl.Pixel

	// AdapterInfo describes the adapter a canvas renders with.
	AdapterInfo = gpuimpl.AdapterInfo
)

// Open creates a device on the configured backend and a canvas owning it.
func Open(cfg Config) (*Canvas, error) {
	return gpuimpl.Open(cfg)
}

// OpenShared creates a canvas on a device owned by the host application.
//
// The provider should be a gpucontext.DeviceProvider that also exposes
// HalDevice() and HalQueue() for direct HAL access. The device is not
// destroyed when the canvas is closed.
func OpenShared(provider any, width, height int) (*Canvas, error) {
	dp, ok := provider.(gpucontext.DeviceProvider)
	if !ok {
		return nil, fmt.Errorf("gpu: %T is not a gpucontext.DeviceProvider", provider)
	}
	return gpuimpl.NewCanvasFromProvider(dp, width, height)
}
