package rlgl

import "github.com/gogpu/rlgl/raymath"

// MatrixMode selects the matrix modified by the matrix operations.
func (c *Context) MatrixMode(mode MatrixMode) {
	if mode > Modelview {
		c.log.Warn("rlgl: unknown matrix mode", "mode", mode)
		return
	}
	c.stack.setMode(mode)
}

// PushMatrix saves the current matrix. In modelview mode following matrix
// operations and vertices go through a separate transform matrix until the
// stack is popped back to depth 0. A full stack ignores the push.
func (c *Context) PushMatrix() {
	c.stack.push()
}

// PopMatrix restores the most recently pushed matrix.
func (c *Context) PopMatrix() {
	c.stack.pop()
}

// LoadIdentity resets the current matrix.
func (c *Context) LoadIdentity() {
	*c.stack.current() = raymath.Identity()
}

// Translatef right-multiplies the current matrix by a translation.
func (c *Context) Translatef(x, y, z float32) {
	c.stack.compose(raymath.Translate(x, y, z))
}

// Rotatef right-multiplies the current matrix by a rotation of angle
// degrees around axis (x, y, z).
func (c *Context) Rotatef(angle, x, y, z float32) {
	axis := raymath.Vector3{X: x, Y: y, Z: z}.Normalize()
	c.stack.compose(raymath.Rotate(axis, angle*raymath.DegToRad))
}

// Scalef right-multiplies the current matrix by a scale.
func (c *Context) Scalef(x, y, z float32) {
	c.stack.compose(raymath.Scale(x, y, z))
}

// MultMatrixf multiplies the current matrix by a column-major matrix.
func (c *Context) MultMatrixf(m [16]float32) {
	c.stack.compose(raymath.FromFloatV(m))
}

// Frustum multiplies the current matrix by a perspective projection.
func (c *Context) Frustum(left, right, bottom, top, near, far float64) {
	c.stack.compose(raymath.Frustum(left, right, bottom, top, near, far))
}

// Ortho multiplies the current matrix by an orthographic projection.
func (c *Context) Ortho(left, right, bottom, top, near, far float64) {
	c.stack.compose(raymath.Ortho(left, right, bottom, top, near, far))
}

// MatrixProjection returns the projection matrix.
func (c *Context) MatrixProjection() raymath.Matrix {
	return c.stack.projection
}

// MatrixModelview returns the modelview matrix.
func (c *Context) MatrixModelview() raymath.Matrix {
	return c.stack.modelview
}

// SetMatrixProjection replaces the projection matrix.
func (c *Context) SetMatrixProjection(m raymath.Matrix) {
	c.stack.projection = m
}

// SetMatrixModelview replaces the modelview matrix.
func (c *Context) SetMatrixModelview(m raymath.Matrix) {
	c.stack.modelview = m
}

// Unproject maps a point in normalized device coordinates back to world
// space through the inverse of view and projection.
func Unproject(source raymath.Vector3, projection, view raymath.Matrix) raymath.Vector3 {
	inv := raymath.Multiply(view, projection).Invert()
	q := raymath.Vector4{X: source.X, Y: source.Y, Z: source.Z, W: 1}.Transform(inv)
	if q.W == 0 {
		return raymath.Vector3{}
	}
	return raymath.Vector3{X: q.X / q.W, Y: q.Y / q.W, Z: q.Z / q.W}
}
