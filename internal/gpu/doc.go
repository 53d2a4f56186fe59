// Package gpu drives the GPU for the benchmark scenes.
//
// It is a thin layer over gogpu/wgpu's HAL: a Canvas owns (or borrows) a
// device and queue and an offscreen color target, a Frame records one render
// pass into that target, and a Program bundles the shader modules, uniform
// buffer and render pipeline a scene draws with.
//
// # Backends
//
// Open selects the HAL backend by name:
//
//   - "vulkan" (default): real hardware through the Vulkan HAL
//   - "noop": accepts every call and renders nothing, for tests and dry runs
//
// A host application that already owns a device can share it through
// NewCanvasFromProvider, which accepts a gpucontext.DeviceProvider that also
// exposes its HAL device and queue.
//
// # Frame lifecycle
//
//	f, err := canvas.Begin()   // command encoder + render pass, target cleared
//	program.Draw(f, vertices)  // any number of draws
//	err = canvas.End()         // submit and wait for the GPU
//
// Every frame is waited on before End returns, so frame rate measurements
// include the full GPU execution time of the frame.
//
// # Readback
//
// ReadImage and ReadPixel copy the color target back to the CPU. Coordinates
// have their origin at the top-left corner.
package gpu
