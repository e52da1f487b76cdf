package rlgl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gogpu/rlgl/raymath"
)

// Context is an immediate-mode rendering context. It accumulates vertices
// into buffer slots, groups them into draw calls by primitive mode and
// texture, and replays them on its Device when a slot is flushed.
//
// A Context is not safe for concurrent use. All calls must come from the
// goroutine that owns the device.
type Context struct {
	cfg  config
	log  *slog.Logger
	dev  Device
	caps capabilityTable

	width, height int

	stack   matrixStack
	buffers []*vertexBuffer
	slot    int
	depth   float32
	color   [4]uint8

	// boundTexture is the texture new draw calls are opened with.
	boundTexture TextureID

	defaultTexture Texture
	shapesTexture  Texture
	shapesRect     raymath.Rectangle
	defaultShader  Shader
	currentShader  Shader
	textures       map[TextureID]*textureState

	state  renderState
	target RenderTargetID
	stats  Stats

	closed       bool
	warnedClosed bool
}

// Stats counts batching activity since the Context was created.
type Stats struct {
	Flushes         uint64
	DrawCalls       uint64
	DroppedVertices uint64
}

// Ensure Context implements io.Closer
var _ io.Closer = (*Context)(nil)

// New creates a Context drawing on dev with a width x height screen.
// It allocates the batch buffer slots, a 1x1 white default texture and the
// default shader.
//
//	ctx, err := rlgl.New(dev, 800, 600, rlgl.WithBufferCount(2))
//	if err != nil {
//	    return err
//	}
//	defer ctx.Close()
func New(dev Device, width, height int, opts ...Option) (*Context, error) {
	if dev == nil {
		return nil, ErrNilDevice
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: screen size %dx%d", ErrInvalidConfig, width, height)
	}

	log := cfg.logger
	if log == nil {
		log = Logger()
	}
	propagateLogger(dev, log)

	c := &Context{
		cfg:      cfg,
		log:      log,
		dev:      dev,
		caps:     probeCapabilities(dev),
		width:    width,
		height:   height,
		stack:    newMatrixStack(cfg.stackDepth, log),
		depth:    -1,
		color:    [4]uint8{255, 255, 255, 255},
		textures: make(map[TextureID]*textureState),
		state:    defaultRenderState(width, height),
	}
	log.Info("rlgl: device capabilities", "caps", c.caps.logValue())

	capacity := cfg.maxBatchElements * 4
	if err := dev.CreateBatchBuffers(cfg.bufferCount, capacity, quadIndices(cfg.maxBatchElements)); err != nil {
		return nil, fmt.Errorf("rlgl: create batch buffers: %w", err)
	}

	white := TextureDesc{
		Width:  1,
		Height: 1,
		Format: PixelR8G8B8A8,
		Levels: [][]byte{{255, 255, 255, 255}},
		Params: c.defaultTextureParameters(1, 1),
	}
	texID, err := dev.CreateTexture(white)
	if err != nil {
		dev.DestroyBatchBuffers()
		return nil, fmt.Errorf("rlgl: create default texture: %w", err)
	}
	c.defaultTexture = Texture{ID: texID, Width: 1, Height: 1, Mipmaps: 1, Format: PixelR8G8B8A8}
	c.textures[texID] = &textureState{tex: c.defaultTexture, params: white.Params}
	c.shapesTexture = c.defaultTexture
	c.shapesRect = raymath.Rectangle{Width: 1, Height: 1}
	c.boundTexture = texID

	shaderID, err := dev.CompileShader("", "")
	if err != nil {
		dev.DestroyTexture(texID)
		dev.DestroyBatchBuffers()
		return nil, fmt.Errorf("rlgl: compile default shader: %w", err)
	}
	c.defaultShader = Shader{ID: shaderID}
	c.setDefaultLocations(&c.defaultShader)
	c.currentShader = c.defaultShader

	c.buffers = make([]*vertexBuffer, cfg.bufferCount)
	for i := range c.buffers {
		c.buffers[i] = newVertexBuffer(capacity, cfg.maxDrawCalls, texID)
	}

	if err := dev.Clear(Screen, c.state.clearColor); err != nil {
		log.Warn("rlgl: initial clear failed", "err", err)
	}

	log.Info("rlgl: context initialized",
		"width", width, "height", height,
		"batch_elements", cfg.maxBatchElements,
		"buffers", cfg.bufferCount,
		"draw_calls", cfg.maxDrawCalls)
	return c, nil
}

// Close flushes pending geometry and releases the batch buffers, the default
// texture and the default shader. The device itself stays open; its owner
// destroys it.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	err := c.flush()
	c.closed = true

	c.dev.DestroyShader(c.defaultShader.ID)
	c.dev.DestroyTexture(c.defaultTexture.ID)
	c.dev.DestroyBatchBuffers()
	c.buffers = nil
	c.textures = nil

	if err != nil {
		return errors.Join(ErrClosed, err)
	}
	c.log.Info("rlgl: context closed", "flushes", c.stats.Flushes)
	return nil
}

// usable reports whether the Context accepts calls, logging the first call
// after Close.
func (c *Context) usable() bool {
	if !c.closed {
		return true
	}
	if !c.warnedClosed {
		c.warnedClosed = true
		c.log.Warn("rlgl: call on closed context ignored")
	}
	return false
}

// active returns the slot currently receiving vertices.
func (c *Context) active() *vertexBuffer {
	return c.buffers[c.slot]
}

// Width returns the screen width.
func (c *Context) Width() int { return c.width }

// Height returns the screen height.
func (c *Context) Height() int { return c.height }

// Device returns the device the Context draws on.
func (c *Context) Device() Device { return c.dev }

// Capabilities returns the device feature set read at creation.
func (c *Context) Capabilities() Capabilities { return c.caps.Capabilities }

// Stats returns batching counters.
func (c *Context) Stats() Stats { return c.stats }

// Slot returns the index of the buffer slot receiving vertices.
func (c *Context) Slot() int { return c.slot }

// BufferCount returns the number of buffer slots.
func (c *Context) BufferCount() int { return len(c.buffers) }

// Depth returns the current virtual depth used by Vertex2f and Vertex2i.
func (c *Context) Depth() float32 { return c.depth }

// StackDepth returns the number of pushed matrices.
func (c *Context) StackDepth() int { return c.stack.depth }

// DrawCalls returns a copy of the active slot's draw call registry. The last
// entry is the open one.
func (c *Context) DrawCalls() []DrawCall {
	if c.closed {
		return nil
	}
	return append([]DrawCall(nil), c.active().draws.calls...)
}

// VertexCounts returns the vertex, texcoord and color counters of the
// active slot.
func (c *Context) VertexCounts() (vertices, texcoords, colors int) {
	if c.closed {
		return 0, 0, 0
	}
	b := c.active()
	return b.vCount, b.tcCount, b.cCount
}

// DefaultTexture returns the 1x1 white texture.
func (c *Context) DefaultTexture() Texture { return c.defaultTexture }

// ShapesTexture returns the texture and source rectangle used for untextured
// shapes. It defaults to the white texture.
func (c *Context) ShapesTexture() (Texture, raymath.Rectangle) {
	return c.shapesTexture, c.shapesRect
}

// SetShapesTexture sets the texture and source rectangle used for shapes.
func (c *Context) SetShapesTexture(tex Texture, src raymath.Rectangle) {
	c.shapesTexture = tex
	c.shapesRect = src
}

// SetDebugMarker labels the device command stream when the device supports it.
func (c *Context) SetDebugMarker(text string) {
	if c.caps.marker != nil {
		c.caps.marker.SetDebugMarker(text)
	}
}
