package mesh

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestMakeGridCounts(t *testing.T) {
	tests := []struct {
		name      string
		nx, ny    int
		w, h      float32
		wantVerts int
	}{
		{"1x1", 1, 1, 2, 2, 6},
		{"32x32", 32, 32, 5, 5, 32 * 32 * 6},
		{"4x2", 4, 2, 1, 1, 48},
		{"zero columns", 0, 3, 1, 1, 0},
		{"negative rows", 3, -1, 1, 1, 0},
		{"zero width", 3, 3, 0, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MakeGrid(tt.nx, tt.ny, tt.w, tt.h, 0)
			if got := m.VertexCount(); got != tt.wantVerts {
				t.Errorf("VertexCount() = %d, want %d", got, tt.wantVerts)
			}
			if got := m.TriangleCount(); got != tt.wantVerts/3 {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.wantVerts/3)
			}
		})
	}
}

func TestMakeGridBounds(t *testing.T) {
	m := MakeGrid(8, 4, 5, 2.5, 0)
	lo, hi := m.Bounds()

	want := [2]Vec3{{-2.5, -1.25, 0}, {2.5, 1.25, 0}}
	if !near(lo, want[0]) || !near(hi, want[1]) {
		t.Errorf("Bounds() = %v, %v, want %v, %v", lo, hi, want[0], want[1])
	}
}

func TestMakeGridSpacing(t *testing.T) {
	m := MakeGrid(2, 1, 2, 1, 0.2)
	// First quad spans x in [-1+0.1, 0-0.1].
	if got := m.Positions[0].X; !nearf(got, -0.9) {
		t.Errorf("first vertex x = %v, want -0.9", got)
	}
	if got := m.Positions[1].X; !nearf(got, -0.1) {
		t.Errorf("second vertex x = %v, want -0.1", got)
	}

	// Spacing larger than the cell collapses quads instead of inverting them.
	m = MakeGrid(2, 2, 2, 2, 10)
	for i, p := range m.Positions {
		if p.X != 0 && !nearf(p.X, -0.5) && !nearf(p.X, 0.5) {
			t.Fatalf("vertex %d x = %v escaped its cell", i, p.X)
		}
	}
}

func TestMakeGridWinding(t *testing.T) {
	m := MakeGrid(3, 3, 3, 3, 0)
	for tri := 0; tri < m.TriangleCount(); tri++ {
		a, b, c := m.Positions[tri*3], m.Positions[tri*3+1], m.Positions[tri*3+2]
		cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
		if cross <= 0 {
			t.Fatalf("triangle %d is not counter-clockwise (cross=%v)", tri, cross)
		}
	}
}

func TestMeshBytes(t *testing.T) {
	m := &Mesh{Positions: []Vec3{{1, 2, 3}, {-1, 0.5, 0}}}
	b := m.Bytes()
	if len(b) != 2*Stride {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), 2*Stride)
	}
	want := []float32{1, 2, 3, -1, 0.5, 0}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if got != w {
			t.Errorf("float %d = %v, want %v", i, got, w)
		}
	}
}

func TestMeshBoundsEmpty(t *testing.T) {
	lo, hi := (&Mesh{}).Bounds()
	if lo != (Vec3{}) || hi != (Vec3{}) {
		t.Errorf("Bounds() of empty mesh = %v, %v", lo, hi)
	}
}

func TestVertexLayout(t *testing.T) {
	layout := VertexLayout()
	if len(layout) != 1 {
		t.Fatalf("len(VertexLayout()) = %d, want 1", len(layout))
	}
	if layout[0].ArrayStride != Stride {
		t.Errorf("ArrayStride = %d, want %d", layout[0].ArrayStride, Stride)
	}
	attrs := layout[0].Attributes
	if len(attrs) != 1 || attrs[0].Format != gputypes.VertexFormatFloat32x3 || attrs[0].ShaderLocation != 0 {
		t.Errorf("unexpected attributes: %+v", attrs)
	}
}

func nearf(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func near(a, b Vec3) bool {
	return nearf(a.X, b.X) && nearf(a.Y, b.Y) && nearf(a.Z, b.Z)
}
