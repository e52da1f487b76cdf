package recording

import (
	"maps"
	"slices"

	"github.com/gogpu/rlgl"
)

// TextureResource is what the recorder keeps about a texture.
type TextureResource struct {
	Width, Height int
	Format        rlgl.PixelFormat
	Params        rlgl.TextureParameters
	// Levels holds the pixel data of each mip level. Level 0 is kept up to
	// date by UpdateTexture; it is nil for empty textures.
	Levels [][]byte
	// MipCount is the number of levels, including generated ones.
	MipCount int
	// DepthBits is non-zero for depth textures.
	DepthBits int
}

// ShaderResource is what the recorder keeps about a shader.
type ShaderResource struct {
	VertexSource   string
	FragmentSource string
	// Locations maps uniform names to locations.
	Locations map[string]int
	// Values holds the last data set for each location.
	Values map[int][]byte
}

// TargetResource is what the recorder keeps about a render target.
type TargetResource struct {
	Desc rlgl.RenderTargetDesc
	// ClearColor is the color of the last Clear, as RGBA8.
	ClearColor [4]uint8
}

// ResourcePool stores the device objects created during a recording,
// indexed by their handles. Handles are never reused.
//
// ResourcePool is not safe for concurrent use.
type ResourcePool struct {
	textures map[rlgl.TextureID]*TextureResource
	shaders  map[rlgl.ShaderID]*ShaderResource
	targets  map[rlgl.RenderTargetID]*TargetResource

	lastTexture rlgl.TextureID
	lastShader  rlgl.ShaderID
	lastTarget  rlgl.RenderTargetID
}

// NewResourcePool creates an empty resource pool.
func NewResourcePool() *ResourcePool {
	return &ResourcePool{
		textures: make(map[rlgl.TextureID]*TextureResource, 8),
		shaders:  make(map[rlgl.ShaderID]*ShaderResource, 2),
		targets:  make(map[rlgl.RenderTargetID]*TargetResource, 2),
	}
}

// AddTexture stores a texture and returns its handle.
func (p *ResourcePool) AddTexture(t *TextureResource) rlgl.TextureID {
	p.lastTexture++
	p.textures[p.lastTexture] = t
	return p.lastTexture
}

// Texture returns the texture for id, or nil.
func (p *ResourcePool) Texture(id rlgl.TextureID) *TextureResource {
	return p.textures[id]
}

// RemoveTexture forgets a texture. It reports whether id was known.
func (p *ResourcePool) RemoveTexture(id rlgl.TextureID) bool {
	_, ok := p.textures[id]
	delete(p.textures, id)
	return ok
}

// TextureCount returns the number of live textures.
func (p *ResourcePool) TextureCount() int {
	return len(p.textures)
}

// AddShader stores a shader and returns its handle.
func (p *ResourcePool) AddShader(s *ShaderResource) rlgl.ShaderID {
	p.lastShader++
	p.shaders[p.lastShader] = s
	return p.lastShader
}

// Shader returns the shader for id, or nil.
func (p *ResourcePool) Shader(id rlgl.ShaderID) *ShaderResource {
	return p.shaders[id]
}

// RemoveShader forgets a shader. It reports whether id was known.
func (p *ResourcePool) RemoveShader(id rlgl.ShaderID) bool {
	_, ok := p.shaders[id]
	delete(p.shaders, id)
	return ok
}

// ShaderCount returns the number of live shaders.
func (p *ResourcePool) ShaderCount() int {
	return len(p.shaders)
}

// AddTarget stores a render target and returns its handle.
func (p *ResourcePool) AddTarget(t *TargetResource) rlgl.RenderTargetID {
	p.lastTarget++
	p.targets[p.lastTarget] = t
	return p.lastTarget
}

// Target returns the render target for id, or nil. The screen is not a
// pooled target.
func (p *ResourcePool) Target(id rlgl.RenderTargetID) *TargetResource {
	return p.targets[id]
}

// RemoveTarget forgets a render target. It reports whether id was known.
func (p *ResourcePool) RemoveTarget(id rlgl.RenderTargetID) bool {
	_, ok := p.targets[id]
	delete(p.targets, id)
	return ok
}

// TargetCount returns the number of live render targets.
func (p *ResourcePool) TargetCount() int {
	return len(p.targets)
}

// Clear removes all resources. Handles keep increasing.
func (p *ResourcePool) Clear() {
	clear(p.textures)
	clear(p.shaders)
	clear(p.targets)
}

// Clone creates a deep copy of the pool.
func (p *ResourcePool) Clone() *ResourcePool {
	c := &ResourcePool{
		textures:    make(map[rlgl.TextureID]*TextureResource, len(p.textures)),
		shaders:     make(map[rlgl.ShaderID]*ShaderResource, len(p.shaders)),
		targets:     make(map[rlgl.RenderTargetID]*TargetResource, len(p.targets)),
		lastTexture: p.lastTexture,
		lastShader:  p.lastShader,
		lastTarget:  p.lastTarget,
	}
	for id, t := range p.textures {
		cp := *t
		cp.Levels = make([][]byte, len(t.Levels))
		for i, l := range t.Levels {
			cp.Levels[i] = slices.Clone(l)
		}
		c.textures[id] = &cp
	}
	for id, s := range p.shaders {
		cp := *s
		cp.Locations = maps.Clone(s.Locations)
		cp.Values = make(map[int][]byte, len(s.Values))
		for loc, v := range s.Values {
			cp.Values[loc] = slices.Clone(v)
		}
		c.shaders[id] = &cp
	}
	for id, t := range p.targets {
		cp := *t
		c.targets[id] = &cp
	}
	return c
}
