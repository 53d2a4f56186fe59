package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ErrUniformSize is returned when uniform data does not match the size the
// program was created with.
var ErrUniformSize = errors.New("gpu: uniform data size mismatch")

// ProgramDescriptor describes a render program.
type ProgramDescriptor struct {
	Label string

	// VertexSource and FragmentSource are WGSL modules, each holding the
	// entry point of its stage.
	VertexSource   string
	FragmentSource string
	VertexEntry    string
	FragmentEntry  string

	VertexLayout []gputypes.VertexBufferLayout

	// UniformSize is the byte size of the uniform block at
	// @group(0) @binding(0), visible to both stages.
	UniformSize uint64
}

// Program is a render pipeline with its shader modules and a single uniform
// buffer bound at group 0.
type Program struct {
	device hal.Device
	queue  hal.Queue
	label  string

	vertexShader   hal.ShaderModule
	fragmentShader hal.ShaderModule
	uniformLayout  hal.BindGroupLayout
	pipeLayout     hal.PipelineLayout
	pipeline       hal.RenderPipeline

	uniformBuf  hal.Buffer
	uniformSize uint64
	bindGroup   hal.BindGroup
}

// NewProgram compiles the shaders of desc and creates the render pipeline
// targeting the canvas color format. On error every partially created
// resource is released.
func (c *Canvas) NewProgram(desc ProgramDescriptor) (*Program, error) {
	if c.device == nil {
		return nil, ErrClosed
	}
	if desc.VertexSource == "" || desc.FragmentSource == "" {
		return nil, fmt.Errorf("program %q: shader source is empty", desc.Label)
	}
	if desc.UniformSize == 0 {
		return nil, fmt.Errorf("program %q: uniform size is zero", desc.Label)
	}

	p := &Program{
		device:      c.device,
		queue:       c.queue,
		label:       desc.Label,
		uniformSize: desc.UniformSize,
	}
	if err := p.create(desc, c.format); err != nil {
		p.Destroy()
		return nil, err
	}

	slogger().Debug("gpu: program created",
		"label", desc.Label,
		"uniform_size", desc.UniformSize,
		"vertex_buffers", len(desc.VertexLayout))
	return p, nil
}

func (p *Program) create(desc ProgramDescriptor, format gputypes.TextureFormat) error { //nolint:funlen // pipeline creation is a single cohesive unit
	vs, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_vertex",
		Source: hal.ShaderSource{WGSL: desc.VertexSource},
	})
	if err != nil {
		return fmt.Errorf("compile vertex shader: %w", err)
	}
	p.vertexShader = vs

	fs, err := p.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  desc.Label + "_fragment",
		Source: hal.ShaderSource{WGSL: desc.FragmentSource},
	})
	if err != nil {
		return fmt.Errorf("compile fragment shader: %w", err)
	}
	p.fragmentShader = fs

	uniformLayout, err := p.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: desc.Label + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := p.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	pipeline, err := p.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  desc.Label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vertexShader,
			EntryPoint: desc.VertexEntry,
			Buffers:    desc.VertexLayout,
		},
		Fragment: &hal.FragmentState{
			Module:     p.fragmentShader,
			EntryPoint: desc.FragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("create render pipeline: %w", err)
	}
	p.pipeline = pipeline

	uniformBuf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
		Label: desc.Label + "_uniforms",
		Size:  desc.UniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create uniform buffer: %w", err)
	}
	p.uniformBuf = uniformBuf

	bindGroup, err := p.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  desc.Label + "_bind",
		Layout: p.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: desc.UniformSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	p.bindGroup = bindGroup
	return nil
}

// Label returns the program label.
func (p *Program) Label() string { return p.label }

// WriteUniforms uploads the whole uniform block.
func (p *Program) WriteUniforms(data []byte) error {
	if uint64(len(data)) != p.uniformSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrUniformSize, len(data), p.uniformSize)
	}
	p.queue.WriteBuffer(p.uniformBuf, 0, data)
	return nil
}

// Draw records a draw of every vertex in vb into the frame.
func (p *Program) Draw(f *Frame, vb *VertexBuffer) {
	if vb == nil || vb.count == 0 {
		return
	}
	rp := f.Pass()
	rp.SetPipeline(p.pipeline)
	rp.SetBindGroup(0, p.bindGroup, nil)
	rp.SetVertexBuffer(0, vb.buf, 0)
	rp.Draw(vb.count, 1, 0, 0)
}

// Destroy releases all GPU resources in reverse creation order. Safe to call
// multiple times or on a partially created program.
func (p *Program) Destroy() {
	if p.device == nil {
		return
	}
	if p.bindGroup != nil {
		p.device.DestroyBindGroup(p.bindGroup)
		p.bindGroup = nil
	}
	if p.uniformBuf != nil {
		p.device.DestroyBuffer(p.uniformBuf)
		p.uniformBuf = nil
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.fragmentShader != nil {
		p.device.DestroyShaderModule(p.fragmentShader)
		p.fragmentShader = nil
	}
	if p.vertexShader != nil {
		p.device.DestroyShaderModule(p.vertexShader)
		p.vertexShader = nil
	}
}

// VertexBuffer is an uploaded vertex buffer with a known vertex count.
type VertexBuffer struct {
	device hal.Device
	buf    hal.Buffer
	count  uint32
}

// NewVertexBuffer uploads data holding count vertices.
func (c *Canvas) NewVertexBuffer(label string, data []byte, count int) (*VertexBuffer, error) {
	if c.device == nil {
		return nil, ErrClosed
	}
	if len(data) == 0 || count <= 0 {
		return nil, fmt.Errorf("vertex buffer %q: no vertices", label)
	}

	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer %q: %w", label, err)
	}
	c.queue.WriteBuffer(buf, 0, data)

	return &VertexBuffer{device: c.device, buf: buf, count: uint32(count)}, nil //nolint:gosec // vertex counts fit uint32
}

// Count returns the number of vertices.
func (vb *VertexBuffer) Count() int { return int(vb.count) }

// Destroy releases the buffer. Safe to call multiple times.
func (vb *VertexBuffer) Destroy() {
	if vb.buf != nil {
		vb.device.DestroyBuffer(vb.buf)
		vb.buf = nil
	}
	vb.count = 0
}
