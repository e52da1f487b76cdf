// Package raymath provides the float32 linear algebra used by rlgl:
// 4x4 matrices, vectors and quaternions.
//
// Matrices are column-major. Element Mn is the n-th float of the OpenGL
// style array, so M12, M13 and M14 hold the translation. Multiply follows
// the raylib convention: Multiply(a, b) applies a first and b second.
//
// All functions are pure and allocation-free.
package raymath

import (
	"github.com/chewxy/math32"
)

// DegToRad converts degrees to radians.
const DegToRad = math32.Pi / 180

// Matrix is a 4x4 column-major matrix. Field order matches the row layout
// used in source code so composite literals read naturally.
type Matrix struct {
	M0, M4, M8, M12  float32
	M1, M5, M9, M13  float32
	M2, M6, M10, M14 float32
	M3, M7, M11, M15 float32
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		M0: 1, M5: 1, M10: 1, M15: 1,
	}
}

// FromFloatV builds a matrix from 16 column-major floats.
func FromFloatV(f [16]float32) Matrix {
	return Matrix{
		M0: f[0], M1: f[1], M2: f[2], M3: f[3],
		M4: f[4], M5: f[5], M6: f[6], M7: f[7],
		M8: f[8], M9: f[9], M10: f[10], M11: f[11],
		M12: f[12], M13: f[13], M14: f[14], M15: f[15],
	}
}

// ToFloatV returns the 16 column-major floats of m.
func (m Matrix) ToFloatV() [16]float32 {
	return [16]float32{
		m.M0, m.M1, m.M2, m.M3,
		m.M4, m.M5, m.M6, m.M7,
		m.M8, m.M9, m.M10, m.M11,
		m.M12, m.M13, m.M14, m.M15,
	}
}

// Multiply returns the composition that applies left first and right second.
func Multiply(left, right Matrix) Matrix {
	l := left.ToFloatV()
	r := right.ToFloatV()
	var out [16]float32
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = l[i*4]*r[j] + l[i*4+1]*r[4+j] + l[i*4+2]*r[8+j] + l[i*4+3]*r[12+j]
		}
	}
	return FromFloatV(out)
}

// Translate returns a translation matrix.
func Translate(x, y, z float32) Matrix {
	m := Identity()
	m.M12, m.M13, m.M14 = x, y, z
	return m
}

// Scale returns a scaling matrix.
func Scale(x, y, z float32) Matrix {
	return Matrix{M0: x, M5: y, M10: z, M15: 1}
}

// Rotate returns a rotation of angle radians around axis.
// A zero axis yields the identity.
func Rotate(axis Vector3, angle float32) Matrix {
	x, y, z := axis.X, axis.Y, axis.Z
	length := math32.Sqrt(x*x + y*y + z*z)
	if length == 0 {
		return Identity()
	}
	if length != 1 {
		inv := 1 / length
		x, y, z = x*inv, y*inv, z*inv
	}

	s, c := math32.Sincos(angle)
	t := 1 - c

	return Matrix{
		M0: x*x*t + c, M4: y*x*t - z*s, M8: z*x*t + y*s,
		M1: x*y*t + z*s, M5: y*y*t + c, M9: z*y*t - x*s,
		M2: x*z*t - y*s, M6: y*z*t + x*s, M10: z*z*t + c,
		M15: 1,
	}
}

// Ortho returns an orthographic projection in OpenGL clip space.
func Ortho(left, right, bottom, top, near, far float64) Matrix {
	rl := right - left
	tb := top - bottom
	fn := far - near

	return Matrix{
		M0:  float32(2 / rl),
		M5:  float32(2 / tb),
		M10: float32(-2 / fn),
		M12: float32(-(left + right) / rl),
		M13: float32(-(top + bottom) / tb),
		M14: float32(-(far + near) / fn),
		M15: 1,
	}
}

// Frustum returns a perspective projection in OpenGL clip space.
func Frustum(left, right, bottom, top, near, far float64) Matrix {
	rl := right - left
	tb := top - bottom
	fn := far - near

	return Matrix{
		M0:  float32(near * 2 / rl),
		M5:  float32(near * 2 / tb),
		M8:  float32((right + left) / rl),
		M9:  float32((top + bottom) / tb),
		M10: float32(-(far + near) / fn),
		M11: -1,
		M14: float32(-(far * near * 2) / fn),
	}
}

// Perspective returns a perspective projection for a vertical field of view
// given in radians.
func Perspective(fovy, aspect, near, far float64) Matrix {
	top := near * float64(math32.Tan(float32(fovy*0.5)))
	right := top * aspect
	return Frustum(-right, right, -top, top, near, far)
}

// LookAt returns a view matrix looking from eye towards target.
func LookAt(eye, target, up Vector3) Matrix {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return Matrix{
		M0: x.X, M4: x.Y, M8: x.Z, M12: -x.Dot(eye),
		M1: y.X, M5: y.Y, M9: y.Z, M13: -y.Dot(eye),
		M2: z.X, M6: z.Y, M10: z.Z, M14: -z.Dot(eye),
		M15: 1,
	}
}

// Transpose returns the transpose of m.
func (m Matrix) Transpose() Matrix {
	return Matrix{
		M0: m.M0, M4: m.M1, M8: m.M2, M12: m.M3,
		M1: m.M4, M5: m.M5, M9: m.M6, M13: m.M7,
		M2: m.M8, M6: m.M9, M10: m.M10, M14: m.M11,
		M3: m.M12, M7: m.M13, M11: m.M14, M15: m.M15,
	}
}

// Determinant returns the determinant of m.
func (m Matrix) Determinant() float32 {
	b00 := m.M0*m.M5 - m.M1*m.M4
	b01 := m.M0*m.M6 - m.M2*m.M4
	b02 := m.M0*m.M7 - m.M3*m.M4
	b03 := m.M1*m.M6 - m.M2*m.M5
	b04 := m.M1*m.M7 - m.M3*m.M5
	b05 := m.M2*m.M7 - m.M3*m.M6
	b06 := m.M8*m.M13 - m.M9*m.M12
	b07 := m.M8*m.M14 - m.M10*m.M12
	b08 := m.M8*m.M15 - m.M11*m.M12
	b09 := m.M9*m.M14 - m.M10*m.M13
	b10 := m.M9*m.M15 - m.M11*m.M13
	b11 := m.M10*m.M15 - m.M11*m.M14
	return b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
}

// Invert returns the inverse of m. A singular matrix yields the zero matrix.
func (m Matrix) Invert() Matrix {
	b00 := m.M0*m.M5 - m.M1*m.M4
	b01 := m.M0*m.M6 - m.M2*m.M4
	b02 := m.M0*m.M7 - m.M3*m.M4
	b03 := m.M1*m.M6 - m.M2*m.M5
	b04 := m.M1*m.M7 - m.M3*m.M5
	b05 := m.M2*m.M7 - m.M3*m.M6
	b06 := m.M8*m.M13 - m.M9*m.M12
	b07 := m.M8*m.M14 - m.M10*m.M12
	b08 := m.M8*m.M15 - m.M11*m.M12
	b09 := m.M9*m.M14 - m.M10*m.M13
	b10 := m.M9*m.M15 - m.M11*m.M13
	b11 := m.M10*m.M15 - m.M11*m.M14

	det := b00*b11 - b01*b10 + b02*b09 + b03*b08 - b04*b07 + b05*b06
	if det == 0 {
		return Matrix{}
	}
	inv := 1 / det

	return Matrix{
		M0:  (m.M5*b11 - m.M6*b10 + m.M7*b09) * inv,
		M1:  (-m.M1*b11 + m.M2*b10 - m.M3*b09) * inv,
		M2:  (m.M13*b05 - m.M14*b04 + m.M15*b03) * inv,
		M3:  (-m.M9*b05 + m.M10*b04 - m.M11*b03) * inv,
		M4:  (-m.M4*b11 + m.M6*b08 - m.M7*b07) * inv,
		M5:  (m.M0*b11 - m.M2*b08 + m.M3*b07) * inv,
		M6:  (-m.M12*b05 + m.M14*b02 - m.M15*b01) * inv,
		M7:  (m.M8*b05 - m.M10*b02 + m.M11*b01) * inv,
		M8:  (m.M4*b10 - m.M5*b08 + m.M7*b06) * inv,
		M9:  (-m.M0*b10 + m.M1*b08 - m.M3*b06) * inv,
		M10: (m.M12*b04 - m.M13*b02 + m.M15*b00) * inv,
		M11: (-m.M8*b04 + m.M9*b02 - m.M11*b00) * inv,
		M12: (-m.M4*b09 + m.M5*b07 - m.M6*b06) * inv,
		M13: (m.M0*b09 - m.M1*b07 + m.M2*b06) * inv,
		M14: (-m.M12*b03 + m.M13*b01 - m.M14*b00) * inv,
		M15: (m.M8*b03 - m.M9*b01 + m.M10*b00) * inv,
	}
}
