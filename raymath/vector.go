package raymath

import (
	"github.com/chewxy/math32"
)

// Vector2 is a 2D vector.
type Vector2 struct {
	X, Y float32
}

// Vector3 is a 3D vector.
type Vector3 struct {
	X, Y, Z float32
}

// Vector4 is a 4D vector.
type Vector4 struct {
	X, Y, Z, W float32
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product of v and o.
func (v Vector3) Cross(o Vector3) Vector3 {
	return Vector3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// Length returns the euclidean length of v.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// Transform returns v transformed by m as a point (w = 1).
func (v Vector3) Transform(m Matrix) Vector3 {
	return Vector3{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z + m.M12,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z + m.M13,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z + m.M14,
	}
}

// Transform returns v multiplied by m.
func (v Vector4) Transform(m Matrix) Vector4 {
	return Vector4{
		X: m.M0*v.X + m.M4*v.Y + m.M8*v.Z + m.M12*v.W,
		Y: m.M1*v.X + m.M5*v.Y + m.M9*v.Z + m.M13*v.W,
		Z: m.M2*v.X + m.M6*v.Y + m.M10*v.Z + m.M14*v.W,
		W: m.M3*v.X + m.M7*v.Y + m.M11*v.Z + m.M15*v.W,
	}
}

// Quaternion is stored as (X, Y, Z, W).
type Quaternion = Vector4

// QuaternionIdentity returns the identity rotation.
func QuaternionIdentity() Quaternion {
	return Quaternion{W: 1}
}

// QuaternionFromAxisAngle returns the rotation of angle radians around axis.
func QuaternionFromAxisAngle(axis Vector3, angle float32) Quaternion {
	if axis.Length() == 0 {
		return QuaternionIdentity()
	}
	axis = axis.Normalize()
	s, c := math32.Sincos(angle * 0.5)
	return Quaternion{X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s, W: c}
}

// QuaternionToMatrix returns the rotation matrix for a unit quaternion.
func QuaternionToMatrix(q Quaternion) Matrix {
	xx, yy, zz := q.X*q.X, q.Y*q.Y, q.Z*q.Z
	xy, xz, yz := q.X*q.Y, q.X*q.Z, q.Y*q.Z
	wx, wy, wz := q.W*q.X, q.W*q.Y, q.W*q.Z

	return Matrix{
		M0: 1 - 2*(yy+zz), M4: 2 * (xy - wz), M8: 2 * (xz + wy),
		M1: 2 * (xy + wz), M5: 1 - 2*(xx+zz), M9: 2 * (yz - wx),
		M2: 2 * (xz - wy), M6: 2 * (yz + wx), M10: 1 - 2*(xx+yy),
		M15: 1,
	}
}

// Rectangle is an axis-aligned rectangle.
type Rectangle struct {
	X, Y, Width, Height float32
}
