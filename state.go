package rlgl

// renderState is the fixed-function state applied to every flush.
type renderState struct {
	blend       BlendMode
	depthTest   bool
	cullFace    bool
	scissorTest bool
	scissor     Rect
	viewport    Rect
	wireframe   bool
	clearColor  [4]float32
}

// defaultRenderState is the state of a new Context: alpha blending, back
// faces culled, no depth test, opaque black clear color.
func defaultRenderState(width, height int) renderState {
	return renderState{
		blend:      BlendAlpha,
		cullFace:   true,
		viewport:   Rect{Width: width, Height: height},
		scissor:    Rect{Width: width, Height: height},
		clearColor: [4]float32{0, 0, 0, 1},
	}
}

func (c *Context) passDesc() PassDesc {
	return PassDesc{
		Slot:        c.slot,
		Target:      c.target,
		Viewport:    c.state.viewport,
		Scissor:     c.state.scissor,
		ScissorTest: c.state.scissorTest,
		Blend:       c.state.blend,
		DepthTest:   c.state.depthTest,
		CullFace:    c.state.cullFace,
		Wireframe:   c.state.wireframe,
	}
}

// setState flushes pending geometry and applies next when it differs from
// the current state. Geometry recorded earlier keeps the state it was
// recorded under.
func (c *Context) setState(next renderState, what string) {
	if !c.usable() || next == c.state {
		return
	}
	c.flushLogged(what)
	c.state = next
}

// BeginBlendMode selects the blending equation for following geometry.
func (c *Context) BeginBlendMode(mode BlendMode) {
	if mode > BlendMultiplied {
		c.log.Warn("rlgl: unknown blend mode", "mode", mode)
		return
	}
	next := c.state
	next.blend = mode
	c.setState(next, "blend mode")
}

// EndBlendMode restores alpha blending.
func (c *Context) EndBlendMode() {
	c.BeginBlendMode(BlendAlpha)
}

// EnableDepthTest enables depth testing with a less-or-equal comparison.
func (c *Context) EnableDepthTest() {
	next := c.state
	next.depthTest = true
	c.setState(next, "depth test")
}

// DisableDepthTest disables depth testing.
func (c *Context) DisableDepthTest() {
	next := c.state
	next.depthTest = false
	c.setState(next, "depth test")
}

// EnableBackfaceCulling culls counter-clockwise back faces.
func (c *Context) EnableBackfaceCulling() {
	next := c.state
	next.cullFace = true
	c.setState(next, "culling")
}

// DisableBackfaceCulling draws both faces.
func (c *Context) DisableBackfaceCulling() {
	next := c.state
	next.cullFace = false
	c.setState(next, "culling")
}

// EnableScissorTest restricts drawing to the scissor rectangle.
func (c *Context) EnableScissorTest() {
	next := c.state
	next.scissorTest = true
	c.setState(next, "scissor test")
}

// DisableScissorTest removes the scissor restriction.
func (c *Context) DisableScissorTest() {
	next := c.state
	next.scissorTest = false
	c.setState(next, "scissor test")
}

// Scissor sets the scissor rectangle. The origin is the bottom-left corner.
func (c *Context) Scissor(x, y, width, height int) {
	next := c.state
	next.scissor = Rect{X: x, Y: y, Width: width, Height: height}
	c.setState(next, "scissor")
}

// EnableWireMode draws following geometry as wireframe when the device
// supports it.
func (c *Context) EnableWireMode() {
	if !c.caps.Wireframe {
		c.log.Warn("rlgl: wireframe mode not supported by device")
		return
	}
	next := c.state
	next.wireframe = true
	c.setState(next, "wire mode")
}

// DisableWireMode returns to filled drawing.
func (c *Context) DisableWireMode() {
	next := c.state
	next.wireframe = false
	c.setState(next, "wire mode")
}

// Viewport sets the viewport rectangle. The origin is the bottom-left corner.
func (c *Context) Viewport(x, y, width, height int) {
	next := c.state
	next.viewport = Rect{X: x, Y: y, Width: width, Height: height}
	c.setState(next, "viewport")
}

// ClearColor sets the color used by ClearScreenBuffers.
func (c *Context) ClearColor(r, g, b, a uint8) {
	c.state.clearColor = [4]float32{
		float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255,
	}
}

// ClearScreenBuffers clears the color and depth of the current target.
// Geometry still pending in the batch is drawn after the clear.
func (c *Context) ClearScreenBuffers() {
	if !c.usable() {
		return
	}
	if err := c.dev.Clear(c.target, c.state.clearColor); err != nil {
		c.log.Error("rlgl: clear failed", "target", c.target, "err", err)
	}
}
