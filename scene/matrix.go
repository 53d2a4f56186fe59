package scene

import (
	"encoding/binary"

	"github.com/chewxy/math32"
)

// Mat4 is a 4x4 float32 matrix stored in column-major order, the layout of
// a WGSL mat4x4<f32>:
//
//	| m[0] m[4] m[8]  m[12] |
//	| m[1] m[5] m[9]  m[13] |
//	| m[2] m[6] m[10] m[14] |
//	| m[3] m[7] m[11] m[15] |
type Mat4 [16]float32

// Mat4Size is the byte size of a Mat4 in a uniform buffer.
const Mat4Size = 64

// Identity4 returns the identity matrix.
func Identity4() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate4 returns a translation matrix.
func Translate4(x, y, z float32) Mat4 {
	m := Identity4()
	m[12], m[13], m[14] = x, y, z
	return m
}

// RotateZ4 returns a rotation about the z axis (angle in degrees).
func RotateZ4(degrees float32) Mat4 {
	rad := degrees * math32.Pi / 180
	c, s := math32.Cos(rad), math32.Sin(rad)
	m := Identity4()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Perspective4 returns a perspective projection with the vertical field of
// view fovy in degrees, mapping depth to the [0, 1] range used by WebGPU.
func Perspective4(fovy, aspect, near, far float32) Mat4 {
	f := 1 / math32.Tan(fovy*math32.Pi/360)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1
	m[14] = near * far / (near - far)
	return m
}

// Mul returns m * o.
func (m Mat4) Mul(o Mat4) Mat4 {
	var r Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * o[col*4+k]
			}
			r[col*4+row] = sum
		}
	}
	return r
}

// Transform applies m to the point (x, y, z, 1) and returns the homogeneous
// result.
func (m Mat4) Transform(x, y, z float32) (rx, ry, rz, rw float32) {
	rx = m[0]*x + m[4]*y + m[8]*z + m[12]
	ry = m[1]*x + m[5]*y + m[9]*z + m[13]
	rz = m[2]*x + m[6]*y + m[10]*z + m[14]
	rw = m[3]*x + m[7]*y + m[11]*z + m[15]
	return rx, ry, rz, rw
}

// AppendBytes appends the little-endian encoding of m to dst.
func (m Mat4) AppendBytes(dst []byte) []byte {
	for _, v := range m {
		dst = binary.LittleEndian.AppendUint32(dst, math32.Float32bits(v))
	}
	return dst
}
