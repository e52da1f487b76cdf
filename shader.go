package rlgl

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/rlgl/raymath"
)

// MaxShaderLocations is the size of a shader's location table.
const MaxShaderLocations = 32

// ShaderLocation indexes Shader.Locs.
type ShaderLocation uint8

// Well-known shader locations.
const (
	LocVertexPosition ShaderLocation = iota
	LocVertexTexCoord01
	LocVertexTexCoord02
	LocVertexNormal
	LocVertexTangent
	LocVertexColor
	LocMatrixMVP
	LocMatrixModel
	LocMatrixView
	LocMatrixProjection
	LocVectorView
	LocColorDiffuse
	LocColorSpecular
	LocColorAmbient
	LocMapAlbedo
	LocMapMetalness
	LocMapNormal
	LocMapRoughness
	LocMapOcclusion
	LocMapEmission
	LocMapHeight
	LocMapCubemap
	LocMapIrradiance
	LocMapPrefilter
	LocMapBRDF
)

// Fixed vertex attribute locations every shader used for batched geometry
// must declare.
const (
	AttribPosition  = 0
	AttribTexCoord  = 1
	AttribNormal    = 2
	AttribColor     = 3
	AttribTangent   = 4
	AttribTexCoord2 = 5
)

// Default attribute and uniform names.
const (
	AttribNamePosition  = "vertexPosition"
	AttribNameTexCoord  = "vertexTexCoord"
	AttribNameTexCoord2 = "vertexTexCoord2"
	AttribNameNormal    = "vertexNormal"
	AttribNameTangent   = "vertexTangent"
	AttribNameColor     = "vertexColor"

	UniformNameMVP        = "mvp"
	UniformNameProjection = "projection"
	UniformNameView       = "view"
	UniformNameColDiffuse = "colDiffuse"
	UniformNameTexture0   = "texture0"
	UniformNameTexture1   = "texture1"
	UniformNameTexture2   = "texture2"
)

// Shader is a compiled program and its location table. Unused locations
// hold -1.
type Shader struct {
	ID   ShaderID
	Locs [MaxShaderLocations]int
}

// UniformType is the data type of a shader uniform.
type UniformType uint8

// Uniform types.
const (
	UniformFloat UniformType = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformInt
	UniformIVec2
	UniformIVec3
	UniformIVec4
	UniformSampler2D
)

// components returns the scalar count of one value of type t.
func (t UniformType) components() int {
	switch t {
	case UniformVec2, UniformIVec2:
		return 2
	case UniformVec3, UniformIVec3:
		return 3
	case UniformVec4, UniformIVec4:
		return 4
	default:
		return 1
	}
}

func (t UniformType) isInt() bool {
	return t >= UniformInt && t <= UniformSampler2D
}

// setDefaultLocations fills the location table from the default names.
func (c *Context) setDefaultLocations(sh *Shader) {
	for i := range sh.Locs {
		sh.Locs[i] = -1
	}
	attribs := []struct {
		loc  ShaderLocation
		name string
	}{
		{LocVertexPosition, AttribNamePosition},
		{LocVertexTexCoord01, AttribNameTexCoord},
		{LocVertexTexCoord02, AttribNameTexCoord2},
		{LocVertexNormal, AttribNameNormal},
		{LocVertexTangent, AttribNameTangent},
		{LocVertexColor, AttribNameColor},
	}
	for _, a := range attribs {
		sh.Locs[a.loc] = c.dev.AttribLocation(sh.ID, a.name)
	}
	uniforms := []struct {
		loc  ShaderLocation
		name string
	}{
		{LocMatrixMVP, UniformNameMVP},
		{LocMatrixProjection, UniformNameProjection},
		{LocMatrixView, UniformNameView},
		{LocColorDiffuse, UniformNameColDiffuse},
		{LocMapAlbedo, UniformNameTexture0},
		{LocMapMetalness, UniformNameTexture1},
		{LocMapNormal, UniformNameTexture2},
	}
	for _, u := range uniforms {
		sh.Locs[u.loc] = c.dev.UniformLocation(sh.ID, u.name)
	}
}

// LoadShaderCode compiles a shader from vertex and fragment source. An empty
// stage uses the default stage. Compile failures are logged and the default
// shader is returned.
func (c *Context) LoadShaderCode(vs, fs string) Shader {
	if !c.usable() {
		return Shader{}
	}
	if vs == "" && fs == "" {
		return c.defaultShader
	}
	id, err := c.dev.CompileShader(vs, fs)
	if err != nil || id == 0 {
		c.log.Warn("rlgl: shader could not be compiled, using default shader", "err", err)
		return c.defaultShader
	}
	sh := Shader{ID: id}
	c.setDefaultLocations(&sh)
	c.log.Info("rlgl: shader loaded", "id", id)
	return sh
}

// UnloadShader destroys a shader. The default shader is kept.
func (c *Context) UnloadShader(sh Shader) {
	if !c.usable() || sh.ID == 0 || sh.ID == c.defaultShader.ID {
		return
	}
	if c.currentShader.ID == sh.ID {
		c.EndShaderMode()
	}
	c.dev.DestroyShader(sh.ID)
	c.log.Info("rlgl: shader unloaded", "id", sh.ID)
}

// DefaultShader returns the built-in shader.
func (c *Context) DefaultShader() Shader { return c.defaultShader }

// CurrentShader returns the shader used by the next flush.
func (c *Context) CurrentShader() Shader { return c.currentShader }

// BeginShaderMode draws following geometry with sh. Pending geometry is
// flushed with the previous shader.
func (c *Context) BeginShaderMode(sh Shader) {
	if !c.usable() || sh.ID == c.currentShader.ID {
		return
	}
	if sh.ID == 0 {
		sh = c.defaultShader
	}
	c.flushLogged("shader")
	c.currentShader = sh
}

// EndShaderMode returns to the default shader.
func (c *Context) EndShaderMode() {
	c.BeginShaderMode(c.defaultShader)
}

// GetShaderLocation returns the location of a uniform, or -1.
func (c *Context) GetShaderLocation(sh Shader, name string) int {
	loc := c.dev.UniformLocation(sh.ID, name)
	if loc < 0 {
		c.log.Warn("rlgl: shader uniform not found", "shader", sh.ID, "name", name)
	}
	return loc
}

// GetShaderLocationAttrib returns the location of a vertex attribute, or -1.
func (c *Context) GetShaderLocationAttrib(sh Shader, name string) int {
	loc := c.dev.AttribLocation(sh.ID, name)
	if loc < 0 {
		c.log.Warn("rlgl: shader attribute not found", "shader", sh.ID, "name", name)
	}
	return loc
}

// SetShaderValue sets a single uniform value. value may be a float32,
// int32, []float32, []int32 or a raymath vector matching typ.
func (c *Context) SetShaderValue(sh Shader, loc int, value any, typ UniformType) error {
	return c.SetShaderValueV(sh, loc, value, typ, 1)
}

// SetShaderValueV sets an array of count uniform values.
func (c *Context) SetShaderValueV(sh Shader, loc int, value any, typ UniformType, count int) error {
	if c.closed {
		return ErrClosed
	}
	if loc < 0 {
		return ErrInvalidLocation
	}
	if typ > UniformSampler2D || count < 1 {
		return fmt.Errorf("%w: type %d count %d", ErrInvalidUniform, typ, count)
	}
	data, err := encodeUniform(value, typ, count)
	if err != nil {
		return err
	}
	return c.setUniform(sh, loc, data)
}

// SetShaderValueMatrix sets a mat4 uniform in column-major order.
func (c *Context) SetShaderValueMatrix(sh Shader, loc int, m raymath.Matrix) error {
	if c.closed {
		return ErrClosed
	}
	if loc < 0 {
		return ErrInvalidLocation
	}
	f := m.ToFloatV()
	return c.setUniform(sh, loc, encodeFloats(f[:]))
}

// SetShaderValueTexture sets a sampler uniform to a texture handle.
func (c *Context) SetShaderValueTexture(sh Shader, loc int, tex Texture) error {
	return c.SetShaderValue(sh, loc, int32(tex.ID), UniformSampler2D) //nolint:gosec // handles fit in int32
}

// setUniform forwards encoded data to the device. Setting a uniform of the
// shader in use flushes first so earlier geometry keeps the old value.
func (c *Context) setUniform(sh Shader, loc int, data []byte) error {
	if sh.ID == c.currentShader.ID {
		c.flushLogged("uniform")
	}
	if err := c.dev.SetUniform(sh.ID, loc, data); err != nil {
		return fmt.Errorf("rlgl: set uniform %d of shader %d: %w", loc, sh.ID, err)
	}
	return nil
}

func encodeFloats(f []float32) []byte {
	out := make([]byte, 0, len(f)*4)
	for _, v := range f {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// encodeUniform converts value to little-endian bytes for count values of typ.
func encodeUniform(value any, typ UniformType, count int) ([]byte, error) {
	need := typ.components() * count
	var floats []float32
	var ints []int32

	switch v := value.(type) {
	case float32:
		floats = []float32{v}
	case []float32:
		floats = v
	case int32:
		ints = []int32{v}
	case []int32:
		ints = v
	case int:
		ints = []int32{int32(v)} //nolint:gosec // uniform ints are 32-bit
	case raymath.Vector2:
		floats = []float32{v.X, v.Y}
	case raymath.Vector3:
		floats = []float32{v.X, v.Y, v.Z}
	case raymath.Vector4:
		floats = []float32{v.X, v.Y, v.Z, v.W}
	default:
		return nil, fmt.Errorf("%w: unsupported value type %T", ErrInvalidUniform, value)
	}

	if typ.isInt() {
		if ints == nil {
			return nil, fmt.Errorf("%w: %T for integer uniform", ErrInvalidUniform, value)
		}
		if len(ints) < need {
			return nil, fmt.Errorf("%w: have %d ints, need %d", ErrInvalidUniform, len(ints), need)
		}
		out := make([]byte, 0, need*4)
		for _, x := range ints[:need] {
			out = binary.LittleEndian.AppendUint32(out, uint32(x)) //nolint:gosec // bit pattern
		}
		return out, nil
	}

	if floats == nil {
		return nil, fmt.Errorf("%w: %T for float uniform", ErrInvalidUniform, value)
	}
	if len(floats) < need {
		return nil, fmt.Errorf("%w: have %d floats, need %d", ErrInvalidUniform, len(floats), need)
	}
	return encodeFloats(floats[:need]), nil
}
