package rlgl

import (
	"fmt"

	"github.com/gogpu/rlgl/raymath"
)

// depthStep is the virtual depth advance per completed primitive.
const depthStep = 1.0 / 20000.0

// Begin starts a primitive of mode. A change of mode, or of the texture
// selected with EnableTexture, closes the open draw call.
func (c *Context) Begin(mode Mode) {
	if !c.usable() {
		return
	}
	if !mode.Valid() {
		c.log.Warn("rlgl: Begin with invalid mode", "mode", mode)
		return
	}
	open := c.active().draws.open()
	if open.Mode != mode || open.TextureID != c.boundTexture {
		c.switchDraw(mode, c.boundTexture, false)
	}
}

// End completes the primitive: missing texcoords become zero, missing colors
// repeat the current color, and the virtual depth advances. A slot within
// four vertices of capacity is flushed.
func (c *Context) End() {
	if !c.usable() {
		return
	}
	buf := c.active()
	buf.equalize(c.color)
	c.depth += depthStep

	if buf.vCount >= buf.capacity-4 {
		c.stack.unwind()
		c.flushLogged("end")
	}
}

// Vertex3f appends a vertex. While a matrix is pushed in modelview mode the
// position is transformed on the CPU. A full slot is flushed mid-primitive
// and the incomplete primitive continues in the next slot; with implicit
// flushing disabled the vertex is dropped instead.
func (c *Context) Vertex3f(x, y, z float32) {
	if !c.usable() {
		return
	}
	v := c.stack.transformVertex(raymath.Vector3{X: x, Y: y, Z: z})

	buf := c.active()
	if buf.full() && c.cfg.implicitFlush {
		c.flushMidPrimitive()
		buf = c.active()
	}
	if !buf.pushPosition(v.X, v.Y, v.Z) {
		c.stats.DroppedVertices++
		c.log.Warn("rlgl: batch vertex capacity reached, vertex dropped",
			"capacity", buf.capacity)
		return
	}
	buf.draws.open().VertexCount++
}

// Vertex2f appends a vertex at the current virtual depth.
func (c *Context) Vertex2f(x, y float32) {
	c.Vertex3f(x, y, c.depth)
}

// Vertex2i appends a vertex at the current virtual depth.
func (c *Context) Vertex2i(x, y int) {
	c.Vertex3f(float32(x), float32(y), c.depth)
}

// TexCoord2f appends a texture coordinate.
func (c *Context) TexCoord2f(u, v float32) {
	if !c.usable() {
		return
	}
	if !c.active().pushTexCoord(u, v) {
		c.log.Warn("rlgl: texcoord stream full, texcoord dropped")
	}
}

// Normal3f is accepted for compatibility. Batched geometry carries no normals.
func (c *Context) Normal3f(x, y, z float32) {}

// Color4ub appends a color and makes it the current color.
func (c *Context) Color4ub(r, g, b, a uint8) {
	if !c.usable() {
		return
	}
	c.color = [4]uint8{r, g, b, a}
	if !c.active().pushColor(c.color) {
		c.log.Warn("rlgl: color stream full, color dropped")
	}
}

// Color4f appends a color given as floats in [0, 1].
func (c *Context) Color4f(r, g, b, a float32) {
	c.Color4ub(unitByte(r), unitByte(g), unitByte(b), unitByte(a))
}

// Color3f appends an opaque color given as floats in [0, 1].
func (c *Context) Color3f(r, g, b float32) {
	c.Color4ub(unitByte(r), unitByte(g), unitByte(b), 255)
}

func unitByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v * 255)
	}
}

// EnableTexture selects the texture for following vertices. Zero selects the
// default texture. A change closes the open draw call.
func (c *Context) EnableTexture(id TextureID) {
	if !c.usable() {
		return
	}
	if id == 0 {
		id = c.defaultTexture.ID
	}
	c.boundTexture = id
	open := c.active().draws.open()
	if open.TextureID != id {
		c.switchDraw(open.Mode, id, true)
	}
}

// DisableTexture returns to the default texture for following primitives and
// flushes a full slot.
func (c *Context) DisableTexture() {
	if !c.usable() {
		return
	}
	c.boundTexture = c.defaultTexture.ID
	if c.active().full() {
		c.stack.unwind()
		c.flushLogged("disable texture")
	}
}

// CheckBufferLimit reports whether n more vertices would fill the active slot.
func (c *Context) CheckBufferLimit(n int) bool {
	if c.closed {
		return true
	}
	buf := c.active()
	return buf.vCount+n >= buf.capacity
}

// switchDraw closes the open draw call and opens one for (mode, tex).
// Closing pads the run to the alignment the quad index buffer needs; a slot
// without room for the padding, or a full registry, is flushed first.
func (c *Context) switchDraw(mode Mode, tex TextureID, unwind bool) {
	buf := c.active()
	open := buf.draws.open()
	if open.VertexCount > 0 {
		buf.equalize(c.color)
		pad := alignment(open.VertexCount)
		switch {
		case buf.vCount+pad >= buf.capacity:
			c.forceFlush(unwind, "capacity")
		case buf.draws.full():
			c.forceFlush(unwind, "draw calls")
		default:
			open.VertexAlignment = pad
			buf.pad(pad)
			buf.draws.push(mode, tex)
			c.log.Debug("rlgl: draw call closed",
				"mode", open.Mode, "vertices", open.VertexCount, "alignment", pad)
		}
	}

	open = c.active().draws.open()
	open.Mode = mode
	open.TextureID = tex
	open.VertexCount = 0
	open.VertexAlignment = 0
}

// flushMidPrimitive flushes a full slot while a primitive is open. Vertices
// of the trailing incomplete primitive move to the next slot under a draw
// call with the same mode and texture.
func (c *Context) flushMidPrimitive() {
	buf := c.active()
	open := buf.draws.open()
	mode, tex := open.Mode, open.TextureID

	keep := open.VertexCount % mode.vertices()
	tail := buf.cut(buf.vCount - keep)
	open.VertexCount -= keep
	buf.equalize(c.color)

	c.stack.unwind()
	c.flushLogged("capacity")

	next := c.active().draws.open()
	next.Mode = mode
	next.TextureID = tex
	next.VertexCount = c.active().restore(tail)
}

func (c *Context) forceFlush(unwind bool, reason string) {
	if unwind {
		c.stack.unwind()
	}
	c.flushLogged(reason)
}

// flushLogged runs an implicit flush, where no caller can receive the error.
func (c *Context) flushLogged(reason string) {
	if err := c.flush(); err != nil {
		c.log.Error("rlgl: implicit flush failed", "reason", reason, "err", err)
	}
}

// Flush draws everything accumulated in the active slot and moves to the
// next slot.
func (c *Context) Flush() error {
	if c.closed {
		return ErrClosed
	}
	return c.flush()
}

// flush uploads the active slot, replays its draw calls in recorded order,
// then resets the slot and rotates. The slot is reset and rotated even when
// the device fails, so a broken frame never wedges the batch.
func (c *Context) flush() error {
	buf := c.active()
	if buf.vCount == 0 {
		return nil
	}
	buf.equalize(c.color)
	if total := buf.draws.vertexTotal(); total != buf.vCount {
		c.log.Warn("rlgl: draw calls do not cover the slot",
			"slot", c.slot, "vertices", buf.vCount, "draw_call_vertices", total)
	}

	err := c.replay(buf)

	c.stats.Flushes++
	c.log.Debug("rlgl: batch flushed",
		"slot", c.slot, "vertices", buf.vCount, "draw_calls", len(buf.draws.calls))

	buf.reset(c.boundTexture)
	c.slot = (c.slot + 1) % len(c.buffers)
	c.depth = -1
	return err
}

func (c *Context) replay(buf *vertexBuffer) error {
	if err := c.dev.UploadBatch(c.slot, buf.data()); err != nil {
		return fmt.Errorf("rlgl: upload slot %d: %w", c.slot, err)
	}

	pass, err := c.dev.BeginPass(c.passDesc())
	if err != nil {
		return fmt.Errorf("rlgl: begin pass: %w", err)
	}
	u := FrameUniforms{
		MVP:        raymath.Multiply(c.stack.modelview, c.stack.projection),
		ColDiffuse: [4]float32{1, 1, 1, 1},
	}
	if err := pass.SetShader(c.currentShader.ID, u); err != nil {
		_ = pass.End()
		return fmt.Errorf("rlgl: set shader %d: %w", c.currentShader.ID, err)
	}

	offset := 0
	for _, dc := range buf.draws.calls {
		if dc.VertexCount > 0 {
			if err := c.issue(pass, dc, offset); err != nil {
				_ = pass.End()
				return err
			}
		}
		offset += dc.VertexCount + dc.VertexAlignment
	}
	return pass.End()
}

func (c *Context) issue(pass Pass, dc DrawCall, offset int) error {
	if dc.Mode == Quads && dc.VertexCount < 4 {
		return nil
	}
	if err := pass.BindTexture(dc.TextureID); err != nil {
		return fmt.Errorf("rlgl: bind texture %d: %w", dc.TextureID, err)
	}
	if dc.Mode == Quads {
		err := pass.DrawIndexed(offset/4*6, dc.VertexCount/4*6)
		if err != nil {
			return fmt.Errorf("rlgl: draw quads: %w", err)
		}
	} else if err := pass.DrawArrays(dc.Mode, offset, dc.VertexCount); err != nil {
		return fmt.Errorf("rlgl: draw %s: %w", dc.Mode, err)
	}
	c.stats.DrawCalls++
	return nil
}
