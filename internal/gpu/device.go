package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// Backend names accepted by Config.Backend.
const (
	BackendVulkan = "vulkan"
	BackendNoop   = "noop"
)

// Default canvas dimensions.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

var (
	// ErrNoAdapter is returned when the backend exposes no GPU adapter.
	ErrNoAdapter = errors.New("gpu: no GPU adapters found")

	// ErrUnknownBackend is returned for an unrecognised Config.Backend.
	ErrUnknownBackend = errors.New("gpu: unknown backend")

	// ErrInvalidSize is returned for a zero or negative canvas size.
	ErrInvalidSize = errors.New("gpu: invalid canvas size")

	// ErrNoHAL is returned when a device provider does not expose HAL types.
	ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")
)

// Config describes the canvas Open creates.
type Config struct {
	// Width and Height of the offscreen target in pixels.
	// Zero selects DefaultWidth / DefaultHeight.
	Width, Height int

	// Backend is BackendVulkan (default) or BackendNoop.
	Backend string
}

// AdapterInfo describes the adapter a canvas renders with.
type AdapterInfo struct {
	Name       string
	DeviceType gputypes.DeviceType
}

// Open creates a device on the configured backend and an offscreen canvas
// on it. The canvas owns the device and releases it on Close.
func Open(cfg Config) (*Canvas, error) {
	if cfg.Width == 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height == 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Width < 0 || cfg.Height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, cfg.Width, cfg.Height)
	}

	instance, err := createInstance(cfg.Backend)
	if err != nil {
		return nil, err
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoAdapter
	}
	selected := selectAdapter(adapters)

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("open device: %w", err)
	}

	c := &Canvas{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		format:   gputypes.TextureFormatBGRA8Unorm,
		adapter: AdapterInfo{
			Name:       selected.Info.Name,
			DeviceType: selected.Info.DeviceType,
		},
	}
	if err := c.createTarget(uint32(cfg.Width), uint32(cfg.Height)); err != nil { //nolint:gosec // validated non-negative
		c.Close()
		return nil, err
	}

	slogger().Info("gpu: canvas opened",
		"backend", backendName(cfg.Backend),
		"adapter", c.adapter.Name,
		"width", cfg.Width, "height", cfg.Height)
	return c, nil
}

// NewCanvasFromProvider creates an offscreen canvas on a device shared by a
// host application. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue. The canvas does not
// destroy the shared device on Close.
func NewCanvasFromProvider(provider gpucontext.DeviceProvider, width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}

	format := provider.SurfaceFormat()
	if format != gputypes.TextureFormatRGBA8Unorm {
		format = gputypes.TextureFormatBGRA8Unorm
	}

	c := &Canvas{
		device:   device,
		queue:    queue,
		external: true,
		format:   format,
		adapter:  AdapterInfo{Name: "shared"},
	}
	if err := c.createTarget(uint32(width), uint32(height)); err != nil { //nolint:gosec // validated positive
		c.Close()
		return nil, err
	}
	slogger().Info("gpu: canvas opened on shared device", "width", width, "height", height)
	return c, nil
}

// instanceCreator is implemented by every HAL backend.
type instanceCreator interface {
	CreateInstance(desc *hal.InstanceDescriptor) (hal.Instance, error)
}

func createInstance(name string) (hal.Instance, error) {
	var backend instanceCreator
	switch name {
	case "", BackendVulkan:
		b, ok := hal.GetBackend(gputypes.BackendVulkan)
		if !ok {
			return nil, fmt.Errorf("vulkan backend not available")
		}
		backend = b
	case BackendNoop:
		backend = &noop.API{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}

	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("create instance: %w", err)
	}
	return instance, nil
}

// selectAdapter prefers a discrete GPU, then an integrated one, then the
// first adapter listed.
func selectAdapter(adapters []hal.ExposedAdapter) *hal.ExposedAdapter {
	var integrated *hal.ExposedAdapter
	for i := range adapters {
		switch adapters[i].Info.DeviceType {
		case gputypes.DeviceTypeDiscreteGPU:
			return &adapters[i]
		case gputypes.DeviceTypeIntegratedGPU:
			if integrated == nil {
				integrated = &adapters[i]
			}
		}
	}
	if integrated != nil {
		return integrated
	}
	return &adapters[0]
}

func backendName(name string) string {
	if name == "" {
		return BackendVulkan
	}
	return name
}
