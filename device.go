package rlgl

import "github.com/gogpu/rlgl/raymath"

// TextureID is a device texture handle. Zero is never a valid texture.
type TextureID uint32

// ShaderID is a device shader handle. Zero is never a valid shader.
type ShaderID uint32

// RenderTargetID is a device render target handle. Zero is the screen.
type RenderTargetID uint32

// Screen is the default render target.
const Screen RenderTargetID = 0

// Rect is an integer rectangle with its origin at the bottom-left corner of
// the target, matching the convention of Viewport and Scissor.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// TopDown converts r to a top-left origin inside a target of the given height.
func (r Rect) TopDown(targetHeight int) Rect {
	return Rect{X: r.X, Y: targetHeight - r.Y - r.Height, Width: r.Width, Height: r.Height}
}

// BatchData is the occupied prefix of one buffer slot.
type BatchData struct {
	Positions   []float32 // 3 per vertex
	TexCoords   []float32 // 2 per vertex
	Colors      []uint8   // 4 per vertex
	VertexCount int
}

// FrameUniforms are the uniforms set for every flush.
type FrameUniforms struct {
	MVP        raymath.Matrix
	ColDiffuse [4]float32
}

// PassDesc describes the fixed render state of one flush.
type PassDesc struct {
	Slot        int
	Target      RenderTargetID
	Viewport    Rect
	Scissor     Rect
	ScissorTest bool
	Blend       BlendMode
	DepthTest   bool
	CullFace    bool
	Wireframe   bool
}

// TextureDesc describes a texture to create. Levels holds the pixel data of
// each mip level, largest first. A nil Levels creates an empty texture with a
// single level.
type TextureDesc struct {
	Width, Height int
	Format        PixelFormat
	Levels        [][]byte
	Params        TextureParameters
}

// RenderTargetDesc describes an offscreen target. Depth may be zero, in
// which case the device provides its own depth storage.
type RenderTargetDesc struct {
	Width, Height int
	Color         TextureID
	Depth         TextureID
}

// Device is the GPU side of a Context. Implementations live in
// backend/native (wgpu hal) and recording (command log).
//
// A Device is driven from a single goroutine by its Context.
type Device interface {
	// Capabilities reports the optional features of the device.
	Capabilities() Capabilities

	// CreateBatchBuffers allocates slots vertex buffer sets of
	// vertexCapacity vertices each plus one shared index buffer.
	CreateBatchBuffers(slots, vertexCapacity int, indices []uint16) error
	DestroyBatchBuffers()
	// UploadBatch writes the occupied prefix of a slot.
	UploadBatch(slot int, data BatchData) error

	CreateTexture(desc TextureDesc) (TextureID, error)
	// UpdateTexture replaces a region of level 0. The region uses a top-left
	// origin.
	UpdateTexture(id TextureID, region Rect, format PixelFormat, data []byte) error
	SetTextureParameters(id TextureID, p TextureParameters) error
	DestroyTexture(id TextureID)

	CreateRenderTarget(desc RenderTargetDesc) (RenderTargetID, error)
	DestroyRenderTarget(id RenderTargetID)

	// CompileShader builds a program from vertex and fragment source.
	// An empty stage uses the device's default stage.
	CompileShader(vs, fs string) (ShaderID, error)
	DestroyShader(id ShaderID)
	// UniformLocation and AttribLocation return -1 for unknown names.
	UniformLocation(id ShaderID, name string) int
	AttribLocation(id ShaderID, name string) int
	// SetUniform stores a little-endian encoded value for a uniform.
	SetUniform(id ShaderID, loc int, data []byte) error

	// Clear fills a target with color and resets its depth.
	Clear(target RenderTargetID, color [4]float32) error
	// BeginPass starts recording the draws of one flush.
	BeginPass(desc PassDesc) (Pass, error)
	// ReadPixels reads a region of a target as RGBA8 rows, top row first.
	// The region uses a top-left origin.
	ReadPixels(target RenderTargetID, region Rect) ([]byte, error)

	// Destroy releases everything the device still owns.
	Destroy()
}

// Pass records the draws of one flush.
type Pass interface {
	SetShader(id ShaderID, u FrameUniforms) error
	BindTexture(id TextureID) error
	// DrawArrays draws count vertices of mode starting at first.
	DrawArrays(mode Mode, first, count int) error
	// DrawIndexed draws indexCount quad indices starting at firstIndex.
	DrawIndexed(firstIndex, indexCount int) error
	// End submits the pass.
	End() error
}
