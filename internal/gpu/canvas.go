package gpu

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// fenceTimeout bounds how long End and readback wait for the GPU.
const fenceTimeout = 5 * time.Second

// copyPitchAlignment is the row alignment WebGPU requires for
// texture-to-buffer copies.
const copyPitchAlignment = 256

var (
	// ErrNoFrame is returned by End when no frame is in progress.
	ErrNoFrame = errors.New("gpu: no frame in progress")

	// ErrFrameInProgress is returned by Begin and readback while a frame is
	// being recorded.
	ErrFrameInProgress = errors.New("gpu: frame already in progress")

	// ErrClosed is returned by operations on a closed canvas.
	ErrClosed = errors.New("gpu: canvas is closed")
)

// Pixel is an 8-bit RGBA color read back from the canvas.
type Pixel struct {
	R, G, B, A uint8
}

// Canvas is an offscreen render target on a GPU device.
// A Canvas is not safe for concurrent use.
type Canvas struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool // device is shared, don't destroy on Close
	adapter  AdapterInfo

	format        gputypes.TextureFormat
	width, height uint32
	colorTex      hal.Texture
	colorView     hal.TextureView

	clear gputypes.Color
	frame *Frame
}

// Frame is one render pass into the canvas, started by Begin.
type Frame struct {
	canvas  *Canvas
	encoder hal.CommandEncoder
	pass    hal.RenderPassEncoder
}

// Pass returns the render pass encoder of the frame.
func (f *Frame) Pass() hal.RenderPassEncoder { return f.pass }

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return int(c.width) }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return int(c.height) }

// Format returns the color target format.
func (c *Canvas) Format() gputypes.TextureFormat { return c.format }

// Adapter describes the adapter the canvas renders with.
func (c *Canvas) Adapter() AdapterInfo { return c.adapter }

// Device returns the HAL device.
func (c *Canvas) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Canvas) Queue() hal.Queue { return c.queue }

// SetClearColor sets the color the target is cleared to at Begin.
func (c *Canvas) SetClearColor(p Pixel) {
	c.clear = gputypes.Color{
		R: float64(p.R) / 255,
		G: float64(p.G) / 255,
		B: float64(p.B) / 255,
		A: float64(p.A) / 255,
	}
}

// ClearColor returns the current clear color.
func (c *Canvas) ClearColor() Pixel {
	return Pixel{
		R: unorm8(c.clear.R),
		G: unorm8(c.clear.G),
		B: unorm8(c.clear.B),
		A: unorm8(c.clear.A),
	}
}

// AspectRatio returns width / height.
func (c *Canvas) AspectRatio() float32 {
	if c.height == 0 {
		return 1
	}
	return float32(c.width) / float32(c.height)
}

// createTarget allocates the color texture and its view.
func (c *Canvas) createTarget(width, height uint32) error {
	tex, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "canvas_color",
		Size:          hal.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        c.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	c.colorTex = tex

	view, err := c.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "canvas_color_view",
	})
	if err != nil {
		c.destroyTarget()
		return fmt.Errorf("create color texture view: %w", err)
	}
	c.colorView = view
	c.width = width
	c.height = height
	return nil
}

// destroyTarget releases the color view and texture.
func (c *Canvas) destroyTarget() {
	if c.device == nil {
		return
	}
	if c.colorView != nil {
		c.device.DestroyTextureView(c.colorView)
		c.colorView = nil
	}
	if c.colorTex != nil {
		c.device.DestroyTexture(c.colorTex)
		c.colorTex = nil
	}
	c.width = 0
	c.height = 0
}

// Begin starts a frame: it opens a command encoder and a render pass that
// clears the color target.
func (c *Canvas) Begin() (*Frame, error) {
	if c.device == nil {
		return nil, ErrClosed
	}
	if c.frame != nil {
		return nil, ErrFrameInProgress
	}

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "canvas_frame_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("canvas_frame"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "canvas_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       c.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: c.clear,
		}},
	})

	c.frame = &Frame{canvas: c, encoder: encoder, pass: pass}
	return c.frame, nil
}

// End finishes the current frame, submits it and waits for the GPU.
func (c *Canvas) End() error {
	f := c.frame
	if f == nil {
		return ErrNoFrame
	}
	c.frame = nil

	f.pass.End()
	cmdBuf, err := f.encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	return c.submitAndWait(cmdBuf)
}

func (c *Canvas) submitAndWait(cmdBuf hal.CommandBuffer) error {
	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer c.device.DestroyFence(fence)

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := c.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// ReadImage copies the color target to the CPU as RGBA.
// It must not be called while a frame is in progress.
func (c *Canvas) ReadImage() (*image.RGBA, error) {
	if c.device == nil {
		return nil, ErrClosed
	}
	if c.frame != nil {
		return nil, ErrFrameInProgress
	}

	w, h := c.width, c.height
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(h)

	stagingBuf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "canvas_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer c.device.DestroyBuffer(stagingBuf)

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "canvas_readback_encoder"})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("canvas_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The target is left in attachment layout by the last pass.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: c.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(c.colorTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: c.colorTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: c.colorTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	if err := c.submitAndWait(cmdBuf); err != nil {
		return nil, err
	}

	readback := make([]byte, stagingSize)
	if err := c.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	img := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	unpackRows(readback, img.Pix, int(w), int(h), int(alignedBytesPerRow), c.format == gputypes.TextureFormatBGRA8Unorm)
	return img, nil
}

// ReadPixel returns the color of the pixel at (x, y), origin top-left.
func (c *Canvas) ReadPixel(x, y int) (Pixel, error) {
	if x < 0 || y < 0 || x >= int(c.width) || y >= int(c.height) {
		return Pixel{}, fmt.Errorf("gpu: pixel (%d, %d) outside %dx%d canvas", x, y, c.width, c.height)
	}
	img, err := c.ReadImage()
	if err != nil {
		return Pixel{}, err
	}
	i := img.PixOffset(x, y)
	return Pixel{R: img.Pix[i], G: img.Pix[i+1], B: img.Pix[i+2], A: img.Pix[i+3]}, nil
}

// Close releases the target and, unless the device is shared, the device
// and instance. Close is idempotent.
func (c *Canvas) Close() {
	if c.frame != nil {
		c.frame.encoder.DiscardEncoding()
		c.frame = nil
	}
	c.destroyTarget()
	if !c.external {
		if c.device != nil {
			c.device.Destroy()
		}
		if c.instance != nil {
			c.instance.Destroy()
		}
	}
	c.device = nil
	c.queue = nil
	c.instance = nil
}

// unpackRows strips the per-row copy padding from src and writes tightly
// packed RGBA rows to dst, swapping red and blue when swapRB is set.
func unpackRows(src, dst []byte, width, height, srcStride int, swapRB bool) {
	rowBytes := width * 4
	for row := 0; row < height; row++ {
		s := src[row*srcStride : row*srcStride+rowBytes]
		d := dst[row*rowBytes : (row+1)*rowBytes]
		if !swapRB {
			copy(d, s)
			continue
		}
		for i := 0; i < rowBytes; i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}

func unorm8(v float64) uint8 {
	v = min(max(v, 0), 1)
	return uint8(v*255 + 0.5) //nolint:gosec // clamped to [0, 255]
}
