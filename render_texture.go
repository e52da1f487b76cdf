package rlgl

import "fmt"

// RenderTexture is an offscreen render target with its color texture and
// optional depth texture.
type RenderTexture struct {
	ID           RenderTargetID
	Texture      Texture
	Depth        Texture
	DepthTexture bool // Depth is a sampleable texture
}

// LoadTextureDepth creates a depth texture of 16, 24 or 32 bits, reduced to
// what the device supports. Other bit depths select 16. With useRenderBuffer
// set, or without device depth texture support, no texture is created and
// the zero ID is returned; render targets then use device-owned depth.
func (c *Context) LoadTextureDepth(width, height, bits int, useRenderBuffer bool) TextureID {
	if !c.usable() {
		return 0
	}
	if bits != 16 && bits != 24 && bits != 32 {
		bits = 16
	}
	bits = min(bits, c.caps.MaxDepthBits)
	if useRenderBuffer || !c.caps.TexDepth {
		return 0
	}
	id, err := c.caps.depth.CreateDepthTexture(width, height, bits)
	if err != nil {
		c.log.Warn("rlgl: depth texture could not be created", "bits", bits, "err", err)
		return 0
	}
	return id
}

// LoadRenderTexture creates an offscreen target with a color texture of
// format. depthBits of zero creates no depth attachment of its own. With
// useDepthTexture the depth attachment is a texture when the device
// supports it.
func (c *Context) LoadRenderTexture(width, height int, format PixelFormat, depthBits int, useDepthTexture bool) RenderTexture {
	if !c.usable() {
		return RenderTexture{}
	}
	color := c.LoadTexture(nil, width, height, format, 1)
	if color.ID == 0 {
		return RenderTexture{}
	}

	rt := RenderTexture{Texture: color}
	if depthBits > 0 {
		if id := c.LoadTextureDepth(width, height, depthBits, !useDepthTexture); id != 0 {
			rt.Depth = Texture{ID: id, Width: width, Height: height, Mipmaps: 1}
			rt.DepthTexture = true
		}
	}

	id, err := c.dev.CreateRenderTarget(RenderTargetDesc{
		Width:  width,
		Height: height,
		Color:  color.ID,
		Depth:  rt.Depth.ID,
	})
	if err != nil || id == 0 {
		c.log.Warn("rlgl: render texture could not be created", "err", err)
		c.UnloadTexture(color.ID)
		if rt.Depth.ID != 0 {
			c.dev.DestroyTexture(rt.Depth.ID)
		}
		return RenderTexture{}
	}
	rt.ID = id
	c.log.Info("rlgl: render texture created", "id", id, "width", width, "height", height)
	return rt
}

// UnloadRenderTexture destroys a render target and its textures.
func (c *Context) UnloadRenderTexture(rt RenderTexture) {
	if !c.usable() || rt.ID == Screen {
		return
	}
	if c.target == rt.ID {
		c.DisableRenderTexture()
	}
	c.dev.DestroyRenderTarget(rt.ID)
	c.UnloadTexture(rt.Texture.ID)
	if rt.Depth.ID != 0 {
		c.dev.DestroyTexture(rt.Depth.ID)
	}
}

// EnableRenderTexture directs following geometry to rt and sets the viewport
// to cover it. Pending geometry is flushed to the previous target.
func (c *Context) EnableRenderTexture(rt RenderTexture) {
	if !c.usable() || rt.ID == c.target {
		return
	}
	c.flushLogged("render target")
	c.target = rt.ID
	full := Rect{Width: rt.Texture.Width, Height: rt.Texture.Height}
	c.state.viewport = full
	c.state.scissor = full
}

// DisableRenderTexture directs following geometry to the screen.
func (c *Context) DisableRenderTexture() {
	if !c.usable() || c.target == Screen {
		return
	}
	c.flushLogged("render target")
	c.target = Screen
	full := Rect{Width: c.width, Height: c.height}
	c.state.viewport = full
	c.state.scissor = full
}

// ReadScreenPixels flushes pending geometry and reads the screen as RGBA8
// rows, top row first, with alpha forced to 255.
func (c *Context) ReadScreenPixels(width, height int) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if err := c.flush(); err != nil {
		return nil, err
	}
	// The region is anchored at the bottom-left corner of the screen.
	region := Rect{Width: width, Height: height}.TopDown(c.height)
	pix, err := c.dev.ReadPixels(Screen, region)
	if err != nil {
		return nil, fmt.Errorf("rlgl: read screen: %w", err)
	}
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}
	return pix, nil
}
