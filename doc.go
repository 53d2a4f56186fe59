// Package gpumark is a GPU benchmark suite built on the GoGPU stack.
//
// # Overview
//
// gpumark renders synthetic scenes offscreen through gogpu/wgpu and measures
// how many frames per second the GPU sustains. Each scene exposes string
// options that tune its workload; the loop scene, for instance, varies the
// number of computational steps executed per vertex and per fragment, and
// whether those steps are unrolled, run in a loop with a constant bound, or
// run in a loop bounded by a uniform.
//
// # Quick Start
//
//	canvas, err := gpu.Open(gpu.Config{Width: 800, Height: 600})
//	if err != nil { ... }
//	defer canvas.Close()
//
//	b, err := bench.New(scene.DefaultRegistry(), canvas,
//	    "loop:vertex-steps=5:fragment-loop=false")
//	if err != nil { ... }
//
//	r := bench.Runner{Canvas: canvas, Out: os.Stdout}
//	report, err := r.Run(ctx, []*bench.Benchmark{b})
//
// # Architecture
//
// The module is organized into:
//   - scene: options, scene lifecycle, grid base scene, loop scene
//   - mesh: grid mesh generation and vertex packing
//   - bench: benchmark descriptions, runner, suites, reports
//   - internal/shadersrc: WGSL templates, step assembly, naga compilation
//   - internal/gpu: device, offscreen canvas, render programs
//   - cmd/gpumark: command line front end
//
// # Logging
//
// gpumark is silent unless a logger is installed with [SetLogger].
package gpumark

// Version information
const (
	// Version is the current version of the suite
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
