// Package mesh builds the vertex data drawn by the benchmark scenes.
package mesh

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Vec3 is a position in model space.
type Vec3 struct {
	X, Y, Z float32
}

// Stride is the byte stride of one vertex: position (vec3<f32>) = 12 bytes
// at shader location 0.
const Stride = 12

// Mesh is a non-indexed triangle list.
type Mesh struct {
	Positions []Vec3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Positions) / 3
}

// Bytes packs the positions as little-endian float32 triples.
func (m *Mesh) Bytes() []byte {
	buf := make([]byte, len(m.Positions)*Stride)
	for i, p := range m.Positions {
		off := i * Stride
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(buf[off+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], math.Float32bits(p.Z))
	}
	return buf
}

// Bounds returns the axis-aligned bounding box of the mesh.
// An empty mesh returns zero vectors.
func (m *Mesh) Bounds() (lo, hi Vec3) {
	if len(m.Positions) == 0 {
		return Vec3{}, Vec3{}
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo.X = min(lo.X, p.X)
		lo.Y = min(lo.Y, p.Y)
		lo.Z = min(lo.Z, p.Z)
		hi.X = max(hi.X, p.X)
		hi.Y = max(hi.Y, p.Y)
		hi.Z = max(hi.Z, p.Z)
	}
	return lo, hi
}

// VertexLayout returns the vertex buffer layout matching Bytes.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: Stride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0}, // position
			},
		},
	}
}
