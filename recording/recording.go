package recording

import (
	"fmt"

	"github.com/gogpu/rlgl"
)

// Recording is an immutable container for recorded device commands.
// It can be replayed to any rlgl.Device.
type Recording struct {
	width, height int
	commands      []Command
	resources     *ResourcePool
}

// Width returns the screen width of the recording.
func (r *Recording) Width() int {
	return r.width
}

// Height returns the screen height of the recording.
func (r *Recording) Height() int {
	return r.height
}

// Commands returns the recorded commands.
func (r *Recording) Commands() []Command {
	return r.commands
}

// Resources returns the resources alive when the recording finished.
func (r *Recording) Resources() *ResourcePool {
	return r.resources
}

// Filter returns the commands of the given types, in recorded order.
func (r *Recording) Filter(types ...CommandType) []Command {
	var out []Command
	for _, cmd := range r.commands {
		for _, t := range types {
			if cmd.Type() == t {
				out = append(out, cmd)
				break
			}
		}
	}
	return out
}

// Count returns the number of commands of type t.
func (r *Recording) Count(t CommandType) int {
	n := 0
	for _, cmd := range r.commands {
		if cmd.Type() == t {
			n++
		}
	}
	return n
}

// Playback replays the recording to dev. Handles created during the
// recording are mapped to the handles dev returns, and uniform locations
// are resolved again by name. Optional hooks the device lacks are skipped,
// except mipmap and depth texture creation, which fail with
// rlgl.ErrUnsupported.
func (r *Recording) Playback(dev rlgl.Device) error {
	p := &player{
		dev:      dev,
		textures: map[rlgl.TextureID]rlgl.TextureID{0: 0},
		shaders:  map[rlgl.ShaderID]rlgl.ShaderID{0: 0},
		targets:  map[rlgl.RenderTargetID]rlgl.RenderTargetID{rlgl.Screen: rlgl.Screen},
		uniforms: make(map[rlgl.ShaderID]map[int]string),
	}
	for i, cmd := range r.commands {
		if err := p.apply(cmd); err != nil {
			if p.pass != nil {
				_ = p.pass.End()
			}
			return fmt.Errorf("recording: playback command %d (%s): %w", i, cmd.Type(), err)
		}
	}
	return nil
}

// player carries the handle mapping of one Playback.
type player struct {
	dev  rlgl.Device
	pass rlgl.Pass

	textures map[rlgl.TextureID]rlgl.TextureID
	shaders  map[rlgl.ShaderID]rlgl.ShaderID
	targets  map[rlgl.RenderTargetID]rlgl.RenderTargetID
	// recorded location -> uniform name, per recorded shader
	uniforms map[rlgl.ShaderID]map[int]string
}

func (p *player) texture(id rlgl.TextureID) (rlgl.TextureID, error) {
	if mapped, ok := p.textures[id]; ok {
		return mapped, nil
	}
	return 0, fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
}

func (p *player) shader(id rlgl.ShaderID) (rlgl.ShaderID, error) {
	if mapped, ok := p.shaders[id]; ok {
		return mapped, nil
	}
	return 0, fmt.Errorf("%w: shader %d", ErrUnknownResource, id)
}

func (p *player) target(id rlgl.RenderTargetID) (rlgl.RenderTargetID, error) {
	if mapped, ok := p.targets[id]; ok {
		return mapped, nil
	}
	return 0, fmt.Errorf("%w: target %d", ErrUnknownResource, id)
}

//nolint:gocyclo,cyclop,funlen // one case per command type
func (p *player) apply(cmd Command) error {
	switch c := cmd.(type) {
	case CreateBatchBuffersCommand:
		return p.dev.CreateBatchBuffers(c.Slots, c.VertexCapacity, c.Indices)
	case DestroyBatchBuffersCommand:
		p.dev.DestroyBatchBuffers()
	case UploadBatchCommand:
		return p.dev.UploadBatch(c.Slot, c.Data)

	case CreateTextureCommand:
		id, err := p.dev.CreateTexture(c.Desc)
		if err != nil {
			return err
		}
		p.textures[c.ID] = id
	case UpdateTextureCommand:
		id, err := p.texture(c.ID)
		if err != nil {
			return err
		}
		return p.dev.UpdateTexture(id, c.Region, c.Format, c.Data)
	case SetTextureParamsCommand:
		id, err := p.texture(c.ID)
		if err != nil {
			return err
		}
		return p.dev.SetTextureParameters(id, c.Params)
	case DestroyTextureCommand:
		id, err := p.texture(c.ID)
		if err != nil {
			return err
		}
		p.dev.DestroyTexture(id)
		delete(p.textures, c.ID)
	case CreateDepthTextureCommand:
		dc, ok := p.dev.(rlgl.DepthTextureCreator)
		if !ok {
			return rlgl.ErrUnsupported
		}
		id, err := dc.CreateDepthTexture(c.Width, c.Height, c.Bits)
		if err != nil {
			return err
		}
		p.textures[c.ID] = id
	case GenerateMipmapsCommand:
		mg, ok := p.dev.(rlgl.MipmapGenerator)
		if !ok {
			return rlgl.ErrUnsupported
		}
		id, err := p.texture(c.ID)
		if err != nil {
			return err
		}
		_, err = mg.GenerateMipmaps(id)
		return err

	case CreateRenderTargetCommand:
		desc := c.Desc
		var err error
		if desc.Color, err = p.texture(desc.Color); err != nil {
			return err
		}
		if desc.Depth, err = p.texture(desc.Depth); err != nil {
			return err
		}
		id, err := p.dev.CreateRenderTarget(desc)
		if err != nil {
			return err
		}
		p.targets[c.ID] = id
	case DestroyRenderTargetCommand:
		id, err := p.target(c.ID)
		if err != nil {
			return err
		}
		p.dev.DestroyRenderTarget(id)
		delete(p.targets, c.ID)

	case CompileShaderCommand:
		id, err := p.dev.CompileShader(c.VertexSource, c.FragmentSource)
		if err != nil {
			return err
		}
		p.shaders[c.ID] = id
		names := make(map[int]string)
		for name, loc := range shaderLocations(c.VertexSource, c.FragmentSource) {
			names[loc] = name
		}
		p.uniforms[c.ID] = names
	case DestroyShaderCommand:
		id, err := p.shader(c.ID)
		if err != nil {
			return err
		}
		p.dev.DestroyShader(id)
		delete(p.shaders, c.ID)
		delete(p.uniforms, c.ID)
	case SetUniformCommand:
		id, err := p.shader(c.Shader)
		if err != nil {
			return err
		}
		name, ok := p.uniforms[c.Shader][c.Location]
		if !ok {
			return fmt.Errorf("%w: location %d", ErrOutOfRange, c.Location)
		}
		loc := p.dev.UniformLocation(id, name)
		if loc < 0 {
			return fmt.Errorf("%w: uniform %q", ErrUnknownResource, name)
		}
		return p.dev.SetUniform(id, loc, c.Data)

	case ClearCommand:
		id, err := p.target(c.Target)
		if err != nil {
			return err
		}
		return p.dev.Clear(id, c.Color)
	case BeginPassCommand:
		desc := c.Desc
		var err error
		if desc.Target, err = p.target(desc.Target); err != nil {
			return err
		}
		p.pass, err = p.dev.BeginPass(desc)
		return err
	case SetShaderCommand:
		if p.pass == nil {
			return ErrNoPass
		}
		id, err := p.shader(c.ID)
		if err != nil {
			return err
		}
		return p.pass.SetShader(id, c.Uniforms)
	case BindTextureCommand:
		if p.pass == nil {
			return ErrNoPass
		}
		id, err := p.texture(c.ID)
		if err != nil {
			return err
		}
		return p.pass.BindTexture(id)
	case DrawArraysCommand:
		if p.pass == nil {
			return ErrNoPass
		}
		return p.pass.DrawArrays(c.Mode, c.First, c.Count)
	case DrawIndexedCommand:
		if p.pass == nil {
			return ErrNoPass
		}
		return p.pass.DrawIndexed(c.First, c.Count)
	case EndPassCommand:
		if p.pass == nil {
			return ErrNoPass
		}
		pass := p.pass
		p.pass = nil
		return pass.End()
	case ReadPixelsCommand:
		id, err := p.target(c.Target)
		if err != nil {
			return err
		}
		_, err = p.dev.ReadPixels(id, c.Region)
		return err
	case DebugMarkerCommand:
		if dm, ok := p.dev.(rlgl.DebugMarker); ok {
			dm.SetDebugMarker(c.Text)
		}
	default:
		return fmt.Errorf("recording: unknown command %T", cmd)
	}
	return nil
}
