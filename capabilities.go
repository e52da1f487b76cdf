package rlgl

import "log/slog"

// Capabilities lists the optional features a device supports.
// A Context reads them once at creation and never changes them.
type Capabilities struct {
	VAO            bool // vertex array objects
	TexNPOT        bool // non power-of-two textures with repeat and mipmaps
	TexFloat32     bool // 32-bit float textures
	TexDepth       bool // depth textures
	MaxDepthBits   int  // 16, 24 or 32
	TexCompDXT     bool
	TexCompETC1    bool
	TexCompETC2    bool
	TexCompPVRT    bool
	TexCompASTC    bool
	TexMirrorClamp bool
	TexAnisoFilter bool

	// MaxAnisotropicLevel is the largest accepted anisotropy; 0 when
	// TexAnisoFilter is false.
	MaxAnisotropicLevel float32

	DebugMarker bool
	Wireframe   bool

	// MaxTextureSize is the largest texture dimension; 0 means unknown.
	MaxTextureSize int
}

// SupportsFormat reports whether textures of format f can be created.
func (c Capabilities) SupportsFormat(f PixelFormat) bool {
	switch f {
	case PixelR32, PixelR32G32B32, PixelR32G32B32A32:
		return c.TexFloat32
	case PixelDXT1RGB, PixelDXT1RGBA, PixelDXT3RGBA, PixelDXT5RGBA:
		return c.TexCompDXT
	case PixelETC1RGB:
		return c.TexCompETC1
	case PixelETC2RGB, PixelETC2EACRGBA:
		return c.TexCompETC2
	case PixelPVRTRGB, PixelPVRTRGBA:
		return c.TexCompPVRT
	case PixelASTC4x4RGBA, PixelASTC8x8RGBA:
		return c.TexCompASTC
	default:
		return f.Valid()
	}
}

// MipmapGenerator is implemented by devices that can build a mipmap chain
// from level 0 of a texture. It returns the resulting level count.
type MipmapGenerator interface {
	GenerateMipmaps(id TextureID) (int, error)
}

// TextureReader is implemented by devices that can read back texture level 0
// as tightly packed RGBA8 rows, top row first.
type TextureReader interface {
	ReadTexture(id TextureID) ([]byte, error)
}

// DebugMarker is implemented by devices that can label command streams.
type DebugMarker interface {
	SetDebugMarker(text string)
}

// DepthTextureCreator is implemented by devices that can create depth
// textures usable as render target attachments.
type DepthTextureCreator interface {
	CreateDepthTexture(width, height, bits int) (TextureID, error)
}

// capabilityTable is the feature set plus the optional device hooks,
// resolved once at Context creation.
type capabilityTable struct {
	Capabilities

	mipmaps MipmapGenerator
	reader  TextureReader
	marker  DebugMarker
	depth   DepthTextureCreator
}

// probeCapabilities reads the device feature set and resolves its hooks.
// Flags that promise a hook the device does not implement are cleared.
func probeCapabilities(d Device) capabilityTable {
	t := capabilityTable{Capabilities: d.Capabilities()}
	t.mipmaps, _ = d.(MipmapGenerator)
	t.reader, _ = d.(TextureReader)
	t.marker, _ = d.(DebugMarker)
	t.depth, _ = d.(DepthTextureCreator)

	if t.marker == nil {
		t.DebugMarker = false
	}
	if t.depth == nil {
		t.TexDepth = false
	}
	if !t.TexAnisoFilter {
		t.MaxAnisotropicLevel = 0
	}
	switch t.MaxDepthBits {
	case 16, 24, 32:
	default:
		t.MaxDepthBits = 16
	}
	return t
}

// logValue summarizes the table for the init log line.
func (t capabilityTable) logValue() slog.Value {
	return slog.GroupValue(
		slog.Bool("vao", t.VAO),
		slog.Bool("npot", t.TexNPOT),
		slog.Bool("float32", t.TexFloat32),
		slog.Bool("depth_tex", t.TexDepth),
		slog.Int("max_depth_bits", t.MaxDepthBits),
		slog.Bool("dxt", t.TexCompDXT),
		slog.Bool("etc1", t.TexCompETC1),
		slog.Bool("etc2", t.TexCompETC2),
		slog.Bool("pvrt", t.TexCompPVRT),
		slog.Bool("astc", t.TexCompASTC),
		slog.Bool("mirror_clamp", t.TexMirrorClamp),
		slog.Float64("max_aniso", float64(t.MaxAnisotropicLevel)),
		slog.Bool("debug_marker", t.DebugMarker),
		slog.Bool("wireframe", t.Wireframe),
		slog.Bool("mipmaps", t.mipmaps != nil),
		slog.Bool("texture_read", t.reader != nil),
	)
}
