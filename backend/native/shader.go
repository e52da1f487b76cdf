//go:build !nogpu

package native

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/default.wgsl
var defaultShaderSource string

// Entry points every program provides.
const (
	vertexEntryPoint   = "vs_main"
	fragmentEntryPoint = "fs_main"
)

// program is a compiled pair of stages with its uniform block.
type program struct {
	vs, fs   hal.ShaderModule
	codeHash uint64

	layout   uniformLayout
	textures []string
	attribs  map[string]int

	block   []byte // CPU copy of the Uniforms struct
	uniform hal.Buffer
}

// location returns the uniform location of name: struct members first, then
// texture variables.
func (p *program) location(name string) int {
	for i, m := range p.layout.members {
		if m.name == name {
			return i
		}
	}
	for i, t := range p.textures {
		if t == name {
			return len(p.layout.members) + i
		}
	}
	return -1
}

// compileWGSL compiles WGSL to SPIR-V words.
func compileWGSL(src string) ([]uint32, []byte, error) {
	spirvBytes, err := naga.Compile(src)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrShaderSource, err)
	}
	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, spirvBytes, nil
}

// CompileShader implements rlgl.Device. vs and fs are WGSL modules providing
// vs_main and fs_main; an empty stage uses the default module.
func (d *Device) CompileShader(vs, fs string) (rlgl.ShaderID, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}
	if vs == "" {
		vs = defaultShaderSource
	}
	if fs == "" {
		fs = defaultShaderSource
	}
	if !strings.Contains(vs, vertexEntryPoint) || !strings.Contains(fs, fragmentEntryPoint) {
		return 0, fmt.Errorf("%w: missing %s or %s", ErrShaderSource, vertexEntryPoint, fragmentEntryPoint)
	}

	layout, err := programLayout(vs, fs)
	if err != nil {
		return 0, err
	}

	p := &program{
		layout:   layout,
		textures: parseTextureBindings(fs),
		attribs:  parseVertexInputs(vs),
		block:    make([]byte, layout.size),
	}
	d.nextShader++
	id := d.nextShader
	label := fmt.Sprintf("rlgl_shader%d", id)

	vsCode, vsBytes, err := compileWGSL(vs)
	if err != nil {
		return 0, fmt.Errorf("native: vertex stage: %w", err)
	}
	fsCode, fsBytes, err := compileWGSL(fs)
	if err != nil {
		return 0, fmt.Errorf("native: fragment stage: %w", err)
	}
	p.codeHash = hashBytes(append(append([]byte(nil), vsBytes...), fsBytes...))

	if p.vs, err = d.createModule(label+"_vs", vsCode); err != nil {
		return 0, err
	}
	if p.fs, err = d.createModule(label+"_fs", fsCode); err != nil {
		d.destroyProgram(p)
		return 0, err
	}
	p.uniform, err = d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_uniforms",
		Size:  uint64(layout.size), //nolint:gosec // layout sizes are small and positive
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.destroyProgram(p)
		return 0, fmt.Errorf("native: create uniform buffer: %w", err)
	}

	d.shaders[id] = p
	slogger().Debug("native: shader compiled", "id", id, "uniforms", len(layout.members), "textures", len(p.textures))
	return id, nil
}

// programLayout returns the Uniforms layout shared by both stages. A stage
// without the struct takes the other's; two differing declarations are an
// error.
func programLayout(vs, fs string) (uniformLayout, error) {
	vl, vok, err := parseUniformLayout(vs)
	if err != nil {
		return uniformLayout{}, err
	}
	fl, fok, err := parseUniformLayout(fs)
	if err != nil {
		return uniformLayout{}, err
	}
	switch {
	case vok && fok && !vl.equal(fl):
		return uniformLayout{}, fmt.Errorf("%w: stages declare different Uniforms", ErrShaderSource)
	case vok:
		return vl, nil
	case fok:
		return fl, nil
	default:
		dl, _, err := parseUniformLayout(defaultShaderSource)
		return dl, err
	}
}

func (d *Device) createModule(label string, code []uint32) (hal.ShaderModule, error) {
	m, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create shader module %s: %w", label, err)
	}
	return m, nil
}

func (d *Device) destroyProgram(p *program) {
	if p.uniform != nil {
		d.device.DestroyBuffer(p.uniform)
	}
	if p.fs != nil {
		d.device.DestroyShaderModule(p.fs)
	}
	if p.vs != nil {
		d.device.DestroyShaderModule(p.vs)
	}
}

// DestroyShader implements rlgl.Device.
func (d *Device) DestroyShader(id rlgl.ShaderID) {
	p, ok := d.shaders[id]
	if !ok || d.destroyed {
		return
	}
	d.dropBindGroups(func(k bindKey) bool { return k.shader == id })
	d.waitIdle()
	d.pipelines.removeShader(d.device, id)
	d.destroyProgram(p)
	delete(d.shaders, id)
}

// UniformLocation implements rlgl.Device.
func (d *Device) UniformLocation(id rlgl.ShaderID, name string) int {
	p, ok := d.shaders[id]
	if !ok {
		return -1
	}
	return p.location(name)
}

// AttribLocation implements rlgl.Device.
func (d *Device) AttribLocation(id rlgl.ShaderID, name string) int {
	p, ok := d.shaders[id]
	if !ok {
		return -1
	}
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	return -1
}

// SetUniform implements rlgl.Device. Values for texture locations are
// accepted and ignored: texture0 is always the texture bound by the pass.
// Data longer than the member is truncated.
func (d *Device) SetUniform(id rlgl.ShaderID, loc int, data []byte) error {
	if err := d.usable(); err != nil {
		return err
	}
	p, ok := d.shaders[id]
	if !ok {
		return fmt.Errorf("native: shader %d: %w", id, ErrUnknownResource)
	}
	if loc < 0 || loc >= len(p.layout.members)+len(p.textures) {
		return fmt.Errorf("native: location %d of shader %d: %w", loc, id, ErrOutOfRange)
	}
	if loc >= len(p.layout.members) {
		return nil
	}
	m := p.layout.members[loc]
	copy(p.block[m.offset:m.offset+m.size], data)
	return nil
}

// setFrameUniforms stores the per-flush uniforms into the block and uploads
// it.
func (d *Device) setFrameUniforms(p *program, u rlgl.FrameUniforms) {
	if m, ok := p.layout.member(rlgl.UniformNameMVP); ok && m.size >= 64 {
		mvp := u.MVP.ToFloatV()
		copy(p.block[m.offset:m.offset+64], d.floatBytes(mvp[:]))
	}
	if m, ok := p.layout.member(rlgl.UniformNameColDiffuse); ok && m.size >= 16 {
		copy(p.block[m.offset:m.offset+16], d.floatBytes(u.ColDiffuse[:]))
	}
	d.queue.WriteBuffer(p.uniform, 0, p.block)
}
