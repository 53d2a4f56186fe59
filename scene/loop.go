package scene

import (
	"encoding/binary"
	"fmt"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/internal/shadersrc"
	"github.com/gogpu/gpumark/mesh"
)

// Loop option names.
const (
	OptVertexSteps     = "vertex-steps"
	OptFragmentSteps   = "fragment-steps"
	OptVertexLoop      = "vertex-loop"
	OptFragmentLoop    = "fragment-loop"
	OptVertexUniform   = "vertex-uniform"
	OptFragmentUniform = "fragment-uniform"
)

// loopUniformSize is the size of the LoopParams block shared by both loop
// templates: mvp, vertex_loops, fragment_loops and two words of padding.
const loopUniformSize = Mat4Size + 4*4

// validationThreshold is the minimum color distance between the center
// pixel and the clear color for a frame to count as drawn.
const validationThreshold = 0.01

// pixelSource reads back rendered pixels. *gpu.Canvas implements it.
type pixelSource interface {
	Width() int
	Height() int
	ClearColor() gpu.Pixel
	ReadPixel(x, y int) (gpu.Pixel, error)
}

// Loop renders the grid with shaders whose cost is a configurable number of
// computational steps per vertex and per fragment. The steps are either
// unrolled or emitted as one loop, and the loop bound is either a uniform or
// a constant.
type Loop struct {
	Grid

	loader  *shadersrc.Loader
	program *gpu.Program
	pixels  pixelSource

	vertexSteps   int
	fragmentSteps int
	uniforms      []byte
}

// NewLoop returns the loop scene. Templates are read from loader, or from
// the embedded set when loader is nil.
func NewLoop(canvas *gpu.Canvas, loader *shadersrc.Loader) *Loop {
	if loader == nil {
		loader = shadersrc.DefaultLoader()
	}
	l := &Loop{
		Grid:   NewGrid(canvas, "loop"),
		loader: loader,
	}
	if canvas != nil {
		l.pixels = canvas
	}
	l.options.Add(OptFragmentSteps, "1",
		"The number of computational steps in the fragment shader")
	l.options.Add(OptFragmentLoop, "true",
		"Whether to execute the fragment steps in a loop")
	l.options.Add(OptVertexSteps, "1",
		"The number of computational steps in the vertex shader")
	l.options.Add(OptVertexLoop, "true",
		"Whether to execute the vertex steps in a loop")
	l.options.Add(OptVertexUniform, "true",
		"Whether to use a uniform in the vertex shader for the number of loop iterations to perform (i.e. vertex-steps)")
	l.options.Add(OptFragmentUniform, "true",
		"Whether to use a uniform in the fragment shader for the number of loop iterations to perform (i.e. fragment-steps)")
	return l
}

// LoopConfig is the per-stage step configuration parsed from loop options.
type LoopConfig struct {
	Vertex   shadersrc.StepConfig
	Fragment shadersrc.StepConfig
}

// ParseLoopConfig reads the step options of the loop scene.
func ParseLoopConfig(opts *Options) (LoopConfig, error) {
	vtxSteps, err := stepCount(opts, OptVertexSteps)
	if err != nil {
		return LoopConfig{}, err
	}
	frgSteps, err := stepCount(opts, OptFragmentSteps)
	if err != nil {
		return LoopConfig{}, err
	}
	return LoopConfig{
		Vertex: shadersrc.StepConfig{
			Steps:   vtxSteps,
			Loop:    opts.Bool(OptVertexLoop),
			Uniform: opts.Bool(OptVertexUniform),
		},
		Fragment: shadersrc.StepConfig{
			Steps:   frgSteps,
			Loop:    opts.Bool(OptFragmentLoop),
			Uniform: opts.Bool(OptFragmentUniform),
		},
	}, nil
}

func stepCount(opts *Options, name string) (int, error) {
	n, err := opts.Int(name)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s=%d", ErrInvalidOption, name, n)
	}
	return n, nil
}

// LoopSources assembles the vertex and fragment sources for cfg.
func LoopSources(loader *shadersrc.Loader, cfg LoopConfig) (vertex, fragment string, err error) {
	vertex, err = shadersrc.LoopSource(loader, shadersrc.StageVertex, cfg.Vertex)
	if err != nil {
		return "", "", err
	}
	fragment, err = shadersrc.LoopSource(loader, shadersrc.StageFragment, cfg.Fragment)
	if err != nil {
		return "", "", err
	}
	return vertex, fragment, nil
}

// Setup builds the grid, assembles and compiles both shaders, uploads the
// loop counts and starts the scene. On error the scene is not running and
// holds no GPU resources.
func (l *Loop) Setup() error {
	if err := l.Grid.Setup(); err != nil {
		return err
	}
	if err := l.setupProgram(); err != nil {
		l.Grid.Teardown()
		return err
	}
	l.Start()
	return nil
}

func (l *Loop) setupProgram() error {
	cfg, err := ParseLoopConfig(&l.options)
	if err != nil {
		return err
	}
	l.vertexSteps = cfg.Vertex.Steps
	l.fragmentSteps = cfg.Fragment.Steps

	vtx, frg, err := LoopSources(l.loader, cfg)
	if err != nil {
		return err
	}

	log := gpumark.Logger()
	log.Debug("scene: loading vertex shader", "template", shadersrc.StageVertex.Template(), "source", vtx)
	if _, err := shadersrc.Compile(vtx); err != nil {
		log.Error("scene: failed to compile vertex shader", "template", shadersrc.StageVertex.Template(), "err", err)
		return fmt.Errorf("vertex shader: %w", err)
	}
	log.Debug("scene: loading fragment shader", "template", shadersrc.StageFragment.Template(), "source", frg)
	if _, err := shadersrc.Compile(frg); err != nil {
		log.Error("scene: failed to compile fragment shader", "template", shadersrc.StageFragment.Template(), "err", err)
		return fmt.Errorf("fragment shader: %w", err)
	}

	prog, err := l.canvas.NewProgram(gpu.ProgramDescriptor{
		Label:          l.name,
		VertexSource:   vtx,
		FragmentSource: frg,
		VertexEntry:    shadersrc.StageVertex.EntryPoint(),
		FragmentEntry:  shadersrc.StageFragment.EntryPoint(),
		VertexLayout:   mesh.VertexLayout(),
		UniformSize:    loopUniformSize,
	})
	if err != nil {
		return err
	}
	l.program = prog

	if err := l.program.WriteUniforms(l.uniformBytes()); err != nil {
		l.program.Destroy()
		l.program = nil
		return err
	}
	return nil
}

// uniformBytes encodes LoopParams for the current rotation.
func (l *Loop) uniformBytes() []byte {
	buf := l.ModelViewProjection().AppendBytes(l.uniforms[:0])
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(l.vertexSteps)))   //nolint:gosec // step counts are small
	buf = binary.LittleEndian.AppendUint32(buf, uint32(int32(l.fragmentSteps))) //nolint:gosec // step counts are small
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	buf = binary.LittleEndian.AppendUint32(buf, 0)
	l.uniforms = buf
	return buf
}

// Teardown releases the program and the grid.
func (l *Loop) Teardown() {
	if l.program != nil {
		l.program.Destroy()
		l.program = nil
	}
	l.Grid.Teardown()
}

// Draw uploads the transform and draws the grid.
func (l *Loop) Draw(f *gpu.Frame) {
	if l.program == nil {
		return
	}
	if err := l.program.WriteUniforms(l.uniformBytes()); err != nil {
		gpumark.Logger().Warn("scene: uniform upload failed", "scene", l.name, "err", err)
		return
	}
	l.program.Draw(f, l.vertices)
}

// Validate checks that the center of the canvas was drawn over.
func (l *Loop) Validate() ValidationResult {
	if l.pixels == nil {
		return ValidationUnknown
	}
	bg := l.pixels.ClearColor()
	p, err := l.pixels.ReadPixel(l.pixels.Width()/2, l.pixels.Height()/2)
	if err != nil {
		gpumark.Logger().Warn("scene: validation readback failed", "scene", l.name, "err", err)
		return ValidationUnknown
	}

	dist := PixelDistance(p, bg, false)
	if dist <= validationThreshold {
		gpumark.Logger().Warn("scene: validation failed",
			"scene", l.name,
			"pixel", p,
			"clear", bg)
		return ValidationFailure
	}
	return ValidationSuccess
}

// Steps returns the vertex and fragment step counts of the last Setup.
func (l *Loop) Steps() (vertex, fragment int) { return l.vertexSteps, l.fragmentSteps }
