package scene

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpumark"
	"github.com/gogpu/gpumark/internal/gpu"
	"github.com/gogpu/gpumark/mesh"
)

// Grid option names.
const (
	OptGridSize   = "grid-size"
	OptGridLength = "grid-length"
)

// Grid projection and animation parameters.
const (
	gridRotationSpeed = 36 // degrees per second
	gridFovy          = 30
	gridNear          = 2
	gridFar           = 20
	gridDistance      = 5
)

// Grid is the base of scenes that draw a rotating square grid of
// triangles. It owns the grid vertex buffer; embedding scenes provide the
// program.
type Grid struct {
	Base

	mesh     *mesh.Mesh
	vertices *gpu.VertexBuffer
	rotation float32
}

// NewGrid returns a Grid for the named scene with the grid options
// declared.
func NewGrid(canvas *gpu.Canvas, name string) Grid {
	g := Grid{Base: NewBase(canvas, name)}
	g.options.Add(OptGridSize, "32",
		"The number of squares per side of the grid (controls the number of vertices)")
	g.options.Add(OptGridLength, "5.0",
		"The length of each side of the grid (normalized) (controls the area drawn to)")
	return g
}

// Setup runs the base setup, builds the grid mesh and uploads it.
func (g *Grid) Setup() error {
	if err := g.Base.Setup(); err != nil {
		return err
	}
	if g.canvas == nil {
		return errors.New("scene: no canvas")
	}

	size, err := g.options.Int(OptGridSize)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("%w: %s=%d", ErrInvalidOption, OptGridSize, size)
	}
	length, err := g.options.Float(OptGridLength)
	if err != nil {
		return err
	}
	if length <= 0 {
		return fmt.Errorf("%w: %s=%v", ErrInvalidOption, OptGridLength, length)
	}

	g.mesh = mesh.MakeGrid(size, size, float32(length), float32(length), 0)
	vb, err := g.canvas.NewVertexBuffer(g.name+"_grid", g.mesh.Bytes(), g.mesh.VertexCount())
	if err != nil {
		return fmt.Errorf("upload grid: %w", err)
	}
	g.vertices = vb
	g.rotation = 0

	gpumark.Logger().Debug("scene: grid ready",
		"scene", g.name,
		"size", size,
		"length", length,
		"vertices", g.mesh.VertexCount())
	return nil
}

// Teardown releases the grid vertex buffer.
func (g *Grid) Teardown() {
	if g.vertices != nil {
		g.vertices.Destroy()
		g.vertices = nil
	}
	g.mesh = nil
	g.Base.Teardown()
}

// Update advances the frame statistics and the rotation.
func (g *Grid) Update() {
	dt := g.tick()
	g.rotation += gridRotationSpeed * float32(dt)
}

// Rotation returns the current rotation about the z axis in degrees.
func (g *Grid) Rotation() float32 { return g.rotation }

// Mesh returns the grid mesh, nil before Setup.
func (g *Grid) Mesh() *mesh.Mesh { return g.mesh }

// Vertices returns the uploaded grid, nil before Setup.
func (g *Grid) Vertices() *gpu.VertexBuffer { return g.vertices }

// ModelViewProjection returns the grid transform for the current rotation.
func (g *Grid) ModelViewProjection() Mat4 {
	aspect := float32(1)
	if g.canvas != nil {
		aspect = g.canvas.AspectRatio()
	}
	proj := Perspective4(gridFovy, aspect, gridNear, gridFar)
	return proj.Mul(Translate4(0, 0, -gridDistance)).Mul(RotateZ4(g.rotation))
}
