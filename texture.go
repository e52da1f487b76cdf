package rlgl

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Texture describes a texture owned by a device.
type Texture struct {
	ID      TextureID
	Width   int
	Height  int
	Mipmaps int
	Format  PixelFormat
}

// TextureWrap is a texture coordinate wrap mode.
type TextureWrap uint8

// Wrap modes.
const (
	WrapRepeat TextureWrap = iota
	WrapClamp
	WrapMirrorRepeat
	WrapMirrorClamp
)

// TextureFilter is a texture sampling filter. The Mip variants only apply to
// minification of textures with mipmaps.
type TextureFilter uint8

// Filters.
const (
	FilterNearest TextureFilter = iota
	FilterLinear
	FilterMipNearest       // nearest texel, nearest mip level
	FilterNearestMipLinear // nearest texel, linear between mip levels
	FilterLinearMipNearest // linear texel, nearest mip level
	FilterMipLinear        // trilinear
)

// TextureParameters is the complete sampling state of a texture.
type TextureParameters struct {
	WrapS, WrapT TextureWrap
	MagFilter    TextureFilter
	MinFilter    TextureFilter
	// Anisotropy is the anisotropic filtering level; values below 2 disable it.
	Anisotropy float32
}

// TextureParam names one field of TextureParameters.
type TextureParam uint8

// Texture parameters accepted by Context.TextureParameters.
const (
	ParamWrapS TextureParam = iota
	ParamWrapT
	ParamMagFilter
	ParamMinFilter
	ParamAnisotropicFilter
)

// textureState is what the Context remembers about textures it created.
type textureState struct {
	tex    Texture
	params TextureParameters
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// defaultTextureParameters repeats when the device supports NPOT textures
// and clamps otherwise; both filters are nearest.
func (c *Context) defaultTextureParameters(width, height int) TextureParameters {
	wrap := WrapClamp
	if c.caps.TexNPOT || (isPowerOfTwo(width) && isPowerOfTwo(height)) {
		wrap = WrapRepeat
	}
	return TextureParameters{WrapS: wrap, WrapT: wrap, MagFilter: FilterNearest, MinFilter: FilterNearest}
}

// LoadTexture creates a texture from data holding mipmaps levels in format,
// largest level first. A nil data creates an empty texture. Formats the
// device does not support are refused; on any failure the zero Texture is
// returned and the reason is logged.
func (c *Context) LoadTexture(data []byte, width, height int, format PixelFormat, mipmaps int) Texture {
	if !c.usable() {
		return Texture{}
	}
	if width <= 0 || height <= 0 {
		c.log.Warn("rlgl: texture has invalid size", "width", width, "height", height)
		return Texture{}
	}
	if !c.caps.SupportsFormat(format) {
		c.log.Warn("rlgl: texture format not supported", "format", format)
		return Texture{}
	}
	if limit := c.caps.MaxTextureSize; limit > 0 && (width > limit || height > limit) {
		c.log.Warn("rlgl: texture exceeds device limit", "width", width, "height", height, "max", limit)
		return Texture{}
	}
	mipmaps = max(mipmaps, 1)

	var levels [][]byte
	if data != nil {
		if need := mipChainSize(width, height, mipmaps, format); len(data) < need {
			c.log.Warn("rlgl: texture data too short", "have", len(data), "need", need)
			return Texture{}
		}
		levels = make([][]byte, 0, mipmaps)
		w, h, off := width, height, 0
		for range mipmaps {
			size := PixelDataSize(w, h, format)
			levels = append(levels, data[off:off+size])
			off += size
			w, h = max(w/2, 1), max(h/2, 1)
		}
	} else {
		mipmaps = 1
	}

	params := c.defaultTextureParameters(width, height)
	id, err := c.dev.CreateTexture(TextureDesc{
		Width:  width,
		Height: height,
		Format: format,
		Levels: levels,
		Params: params,
	})
	if err != nil || id == 0 {
		c.log.Warn("rlgl: texture could not be created", "format", format, "err", err)
		return Texture{}
	}

	tex := Texture{ID: id, Width: width, Height: height, Mipmaps: mipmaps, Format: format}
	c.textures[id] = &textureState{tex: tex, params: params}
	c.log.Info("rlgl: texture created", "id", id, "width", width, "height", height, "mipmaps", mipmaps)
	return tex
}

// LoadTextureFromImage creates an RGBA8 texture from any image.
func (c *Context) LoadTextureFromImage(img image.Image) Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}
	return c.LoadTexture(rgba.Pix, b.Dx(), b.Dy(), PixelR8G8B8A8, 1)
}

// UpdateTexture replaces a region of level 0 of an uncompressed texture.
// The region origin is the top-left corner.
func (c *Context) UpdateTexture(id TextureID, x, y, width, height int, format PixelFormat, data []byte) {
	if !c.usable() {
		return
	}
	if format.IsCompressed() || !format.Valid() {
		c.log.Warn("rlgl: texture format update not supported", "format", format)
		return
	}
	if len(data) < PixelDataSize(width, height, format) {
		c.log.Warn("rlgl: texture update data too short", "id", id)
		return
	}
	region := Rect{X: x, Y: y, Width: width, Height: height}
	if err := c.dev.UpdateTexture(id, region, format, data); err != nil {
		c.log.Warn("rlgl: texture update failed", "id", id, "err", err)
	}
}

// UnloadTexture destroys a texture. The default texture is kept.
func (c *Context) UnloadTexture(id TextureID) {
	if !c.usable() || id == 0 || id == c.defaultTexture.ID {
		return
	}
	for _, dc := range c.active().draws.calls {
		if dc.TextureID == id && dc.VertexCount > 0 {
			c.flushLogged("unload texture")
			break
		}
	}
	if c.boundTexture == id {
		c.DisableTexture()
	}
	c.dev.DestroyTexture(id)
	delete(c.textures, id)
}

// TextureParameters changes one sampling parameter of a texture. Wrap values
// are TextureWrap constants, filter values TextureFilter constants, and the
// anisotropic value is the filtering level.
func (c *Context) TextureParameters(id TextureID, param TextureParam, value int) {
	if !c.usable() {
		return
	}
	st, ok := c.textures[id]
	if !ok {
		c.log.Warn("rlgl: texture parameters on unknown texture", "id", id)
		return
	}
	p := st.params

	switch param {
	case ParamWrapS, ParamWrapT:
		if value < 0 || value > int(WrapMirrorClamp) {
			c.log.Warn("rlgl: invalid wrap mode", "value", value)
			return
		}
		wrap := TextureWrap(value) //nolint:gosec // range checked
		if wrap == WrapMirrorClamp && !c.caps.TexMirrorClamp {
			c.log.Warn("rlgl: mirror clamp wrap mode not supported")
			return
		}
		if param == ParamWrapS {
			p.WrapS = wrap
		} else {
			p.WrapT = wrap
		}
	case ParamMagFilter, ParamMinFilter:
		if value < 0 || value > int(FilterMipLinear) {
			c.log.Warn("rlgl: invalid filter", "value", value)
			return
		}
		filter := TextureFilter(value) //nolint:gosec // range checked
		if param == ParamMagFilter {
			if filter > FilterLinear {
				c.log.Warn("rlgl: mip filter used for magnification", "value", value)
				return
			}
			p.MagFilter = filter
		} else {
			p.MinFilter = filter
		}
	case ParamAnisotropicFilter:
		if !c.caps.TexAnisoFilter {
			c.log.Warn("rlgl: anisotropic filtering not supported")
			return
		}
		level := float32(value)
		if level > c.caps.MaxAnisotropicLevel {
			c.log.Warn("rlgl: anisotropic level clamped",
				"requested", value, "max", c.caps.MaxAnisotropicLevel)
			level = c.caps.MaxAnisotropicLevel
		}
		p.Anisotropy = level
	default:
		c.log.Warn("rlgl: unknown texture parameter", "param", param)
		return
	}

	if err := c.dev.SetTextureParameters(id, p); err != nil {
		c.log.Warn("rlgl: set texture parameters failed", "id", id, "err", err)
		return
	}
	st.params = p
}

// GenerateMipmaps builds the mipmap chain of tex and switches it to
// trilinear filtering. Non power-of-two textures need device support.
func (c *Context) GenerateMipmaps(tex *Texture) {
	if !c.usable() || tex == nil {
		return
	}
	pot := isPowerOfTwo(tex.Width) && isPowerOfTwo(tex.Height)
	if !pot && !c.caps.TexNPOT {
		c.log.Warn("rlgl: mipmaps need power-of-two texture", "id", tex.ID)
		return
	}
	if c.caps.mipmaps == nil {
		c.log.Warn("rlgl: mipmap generation not supported by device")
		return
	}
	levels, err := c.caps.mipmaps.GenerateMipmaps(tex.ID)
	if err != nil {
		c.log.Warn("rlgl: mipmap generation failed", "id", tex.ID, "err", err)
		return
	}
	tex.Mipmaps = levels
	if st, ok := c.textures[tex.ID]; ok {
		st.tex.Mipmaps = levels
		p := st.params
		p.MagFilter = FilterLinear
		p.MinFilter = FilterMipLinear
		if err := c.dev.SetTextureParameters(tex.ID, p); err == nil {
			st.params = p
		}
	}
	c.log.Debug("rlgl: mipmaps generated", "id", tex.ID, "levels", levels)
}

// ReadTexturePixels reads level 0 of a texture as RGBA8 rows, top row first.
func (c *Context) ReadTexturePixels(tex Texture) ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if tex.Format.IsCompressed() {
		return nil, fmt.Errorf("rlgl: read %s texture: %w", tex.Format, ErrUnsupported)
	}
	if c.caps.reader == nil {
		return nil, fmt.Errorf("rlgl: read texture: %w", ErrUnsupported)
	}
	return c.caps.reader.ReadTexture(tex.ID)
}
