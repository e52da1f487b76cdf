//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

// bindKey identifies the bind group of a program drawing a texture.
type bindKey struct {
	shader  rlgl.ShaderID
	texture rlgl.TextureID
}

// bindGroup returns the cached bind group for key, creating it on first
// use.
func (d *Device) bindGroup(key bindKey, p *program) (hal.BindGroup, error) {
	if bg, ok := d.bindGroups[key]; ok {
		return bg, nil
	}
	t, ok := d.textures[key.texture]
	if !ok || t.isDepth() {
		return nil, fmt.Errorf("native: bind texture %d: %w", key.texture, ErrUnknownResource)
	}
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  fmt.Sprintf("rlgl_bind_s%d_t%d", key.shader, key.texture),
		Layout: d.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: p.uniform.NativeHandle(),
				Offset: 0,
				Size:   uint64(p.layout.size), //nolint:gosec // layout sizes are small and positive
			}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{
				TextureView: t.view.NativeHandle(),
			}},
			{Binding: 2, Resource: gputypes.SamplerBinding{
				Sampler: t.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("native: create bind group: %w", err)
	}
	d.bindGroups[key] = bg
	return bg, nil
}

// dropBindGroups destroys the cached bind groups matching drop.
func (d *Device) dropBindGroups(drop func(bindKey) bool) {
	var doomed []hal.BindGroup
	for key, bg := range d.bindGroups {
		if drop(key) {
			doomed = append(doomed, bg)
			delete(d.bindGroups, key)
		}
	}
	if len(doomed) == 0 {
		return
	}
	d.waitIdle()
	for _, bg := range doomed {
		d.device.DestroyBindGroup(bg)
	}
}

// pipelineKey returns the key of the pipeline drawing topo with p under
// the pass state.
func (d *Device) pipelineKey(id rlgl.ShaderID, p *program, topo gputypes.PrimitiveTopology, desc rlgl.PassDesc, depthFormat gputypes.TextureFormat) pipelineKey {
	return pipelineKey{
		shader:      id,
		codeHash:    p.codeHash,
		topology:    topo,
		blend:       desc.Blend,
		depthTest:   desc.DepthTest,
		cullFace:    desc.CullFace,
		depthFormat: depthFormat,
	}
}

func (d *Device) createPipeline(p *program, k pipelineKey) (hal.RenderPipeline, error) {
	blend := blendState(k.blend)
	depth := &hal.DepthStencilState{
		Format:            k.depthFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
	}
	if k.depthTest {
		depth.DepthWriteEnabled = true
		depth.DepthCompare = gputypes.CompareFunctionLessEqual
	}
	if hasStencil(k.depthFormat) {
		keep := hal.StencilFaceState{
			Compare:     gputypes.CompareFunctionAlways,
			FailOp:      hal.StencilOperationKeep,
			DepthFailOp: hal.StencilOperationKeep,
			PassOp:      hal.StencilOperationKeep,
		}
		depth.StencilFront, depth.StencilBack = keep, keep
	}
	primitive := gputypes.PrimitiveState{
		Topology:  k.topology,
		FrontFace: gputypes.FrontFaceCCW,
		CullMode:  gputypes.CullModeNone,
	}
	if k.cullFace && k.topology == gputypes.PrimitiveTopologyTriangleList {
		primitive.CullMode = gputypes.CullModeBack
	}
	return d.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("rlgl_pipeline_s%d", k.shader),
		Layout: d.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.vs,
			EntryPoint: vertexEntryPoint,
			Buffers:    vertexLayouts,
		},
		Fragment: &hal.FragmentState{
			Module:     p.fs,
			EntryPoint: fragmentEntryPoint,
			Targets: []gputypes.ColorTargetState{{
				Format:    colorFormat,
				Blend:     &blend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		DepthStencil: depth,
		Primitive:    primitive,
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
}

// blendState returns the blend equation of a mode.
func blendState(mode rlgl.BlendMode) gputypes.BlendState {
	src, dst := gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha
	switch mode {
	case rlgl.BlendAdditive:
		dst = gputypes.BlendFactorOne
	case rlgl.BlendMultiplied:
		src = gputypes.BlendFactorDst
	}
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gputypes.BlendOperationAdd},
		Alpha: gputypes.BlendComponent{SrcFactor: src, DstFactor: dst, Operation: gputypes.BlendOperationAdd},
	}
}

func topology(mode rlgl.Mode) gputypes.PrimitiveTopology {
	if mode == rlgl.Lines {
		return gputypes.PrimitiveTopologyLineList
	}
	return gputypes.PrimitiveTopologyTriangleList
}

// BeginPass implements rlgl.Device.
func (d *Device) BeginPass(desc rlgl.PassDesc) (rlgl.Pass, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if d.pass != nil {
		return nil, ErrPassActive
	}
	if desc.Slot < 0 || desc.Slot >= len(d.slots) {
		return nil, fmt.Errorf("native: pass slot %d of %d: %w", desc.Slot, len(d.slots), ErrOutOfRange)
	}
	t, ok := d.targets[desc.Target]
	if !ok {
		return nil, fmt.Errorf("native: pass target %d: %w", desc.Target, ErrUnknownResource)
	}
	att, err := d.attachments(t)
	if err != nil {
		return nil, err
	}
	d.reclaim()

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "rlgl_batch"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("rlgl_batch"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "rlgl_batch_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    att.colorView,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
		DepthStencilAttachment: depthAttachment(att, gputypes.LoadOpLoad),
	})

	vp := clampRect(desc.Viewport.TopDown(t.height), t.width, t.height)
	rp.SetViewport(float32(vp.X), float32(vp.Y), float32(vp.Width), float32(vp.Height), 0, 1)
	sc := rlgl.Rect{Width: t.width, Height: t.height}
	if desc.ScissorTest {
		sc = clampRect(desc.Scissor.TopDown(t.height), t.width, t.height)
	}
	//nolint:gosec // clamped to the target
	rp.SetScissorRect(uint32(sc.X), uint32(sc.Y), uint32(sc.Width), uint32(sc.Height))

	sb := d.slots[desc.Slot]
	rp.SetVertexBuffer(0, sb.positions, 0)
	rp.SetVertexBuffer(1, sb.texcoords, 0)
	rp.SetVertexBuffer(2, sb.colors, 0)
	rp.SetIndexBuffer(d.indexBuf, gputypes.IndexFormatUint16, 0)

	d.pass = &pass{d: d, desc: desc, depthFormat: att.depthFormat, encoder: encoder, rp: rp}
	return d.pass, nil
}

// depthAttachment describes the depth-stencil attachment of a pass.
// Stencil operations are only set for formats with a stencil aspect.
func depthAttachment(att attachments, load gputypes.LoadOp) *hal.RenderPassDepthStencilAttachment {
	a := &hal.RenderPassDepthStencilAttachment{
		View:            att.depthView,
		DepthLoadOp:     load,
		DepthStoreOp:    gputypes.StoreOpStore,
		DepthClearValue: 1.0,
	}
	if hasStencil(att.depthFormat) {
		a.StencilLoadOp = load
		a.StencilStoreOp = gputypes.StoreOpStore
		a.StencilClearValue = 0
	}
	return a
}

// clampRect intersects r with a width x height target. An empty
// intersection becomes a zero-size rectangle at the origin.
func clampRect(r rlgl.Rect, width, height int) rlgl.Rect {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.Width, width), min(r.Y+r.Height, height)
	if x1 <= x0 || y1 <= y0 {
		return rlgl.Rect{}
	}
	return rlgl.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// pass records the draws of one flush into a hal render pass.
type pass struct {
	d           *Device
	desc        rlgl.PassDesc
	depthFormat gputypes.TextureFormat
	encoder     hal.CommandEncoder
	rp          hal.RenderPassEncoder

	shaderID rlgl.ShaderID
	shader   *program
	texture  rlgl.TextureID

	// State last set on rp. Draw calls sharing it skip rebinding.
	bound      bool
	boundState pipelineKey
	boundGroup bindKey
	ended      bool
}

// SetShader implements rlgl.Pass.
func (p *pass) SetShader(id rlgl.ShaderID, u rlgl.FrameUniforms) error {
	if p.ended {
		return ErrPassEnded
	}
	prog, ok := p.d.shaders[id]
	if !ok {
		return fmt.Errorf("native: set shader %d: %w", id, ErrUnknownResource)
	}
	p.d.setFrameUniforms(prog, u)
	p.shaderID, p.shader = id, prog
	return nil
}

// BindTexture implements rlgl.Pass.
func (p *pass) BindTexture(id rlgl.TextureID) error {
	if p.ended {
		return ErrPassEnded
	}
	if t, ok := p.d.textures[id]; !ok || t.isDepth() {
		return fmt.Errorf("native: bind texture %d: %w", id, ErrUnknownResource)
	}
	p.texture = id
	return nil
}

// prepare binds the pipeline and bind group for the next draw.
func (p *pass) prepare(topo gputypes.PrimitiveTopology) error {
	if p.ended {
		return ErrPassEnded
	}
	if p.shader == nil {
		return ErrNoShader
	}
	key := p.d.pipelineKey(p.shaderID, p.shader, topo, p.desc, p.depthFormat)
	group := bindKey{shader: p.shaderID, texture: p.texture}
	if p.bound && key == p.boundState && group == p.boundGroup {
		return nil
	}
	pipe, err := p.d.pipelines.getOrCreate(key, func(k pipelineKey) (hal.RenderPipeline, error) {
		return p.d.createPipeline(p.shader, k)
	})
	if err != nil {
		return err
	}
	bg, err := p.d.bindGroup(group, p.shader)
	if err != nil {
		return err
	}
	p.rp.SetPipeline(pipe)
	p.rp.SetBindGroup(0, bg, nil)
	p.bound, p.boundState, p.boundGroup = true, key, group
	return nil
}

// DrawArrays implements rlgl.Pass.
func (p *pass) DrawArrays(mode rlgl.Mode, first, count int) error {
	if first < 0 || count < 0 || first+count > p.d.vertexCapacity {
		return fmt.Errorf("native: draw %d vertices at %d: %w", count, first, ErrOutOfRange)
	}
	if err := p.prepare(topology(mode)); err != nil {
		return err
	}
	p.rp.Draw(uint32(count), 1, uint32(first), 0) //nolint:gosec // bounded by the vertex capacity
	return nil
}

// DrawIndexed implements rlgl.Pass.
func (p *pass) DrawIndexed(firstIndex, indexCount int) error {
	if firstIndex < 0 || indexCount < 0 || (firstIndex+indexCount)/6*4 > p.d.vertexCapacity {
		return fmt.Errorf("native: draw %d indices at %d: %w", indexCount, firstIndex, ErrOutOfRange)
	}
	if err := p.prepare(gputypes.PrimitiveTopologyTriangleList); err != nil {
		return err
	}
	p.rp.DrawIndexed(uint32(indexCount), 1, uint32(firstIndex), 0, 0) //nolint:gosec // bounded by the index count
	return nil
}

// End implements rlgl.Pass. The pass is submitted without waiting.
func (p *pass) End() error {
	if p.ended {
		return ErrPassEnded
	}
	p.ended = true
	p.d.pass = nil
	p.rp.End()
	return p.d.submit(p.encoder, false)
}

// abort ends the pass without submitting it.
func (p *pass) abort() {
	if p.ended {
		return
	}
	p.ended = true
	p.d.pass = nil
	p.rp.End()
	p.encoder.DiscardEncoding()
}

// Clear implements rlgl.Device.
func (d *Device) Clear(target rlgl.RenderTargetID, color [4]float32) error {
	if err := d.usable(); err != nil {
		return err
	}
	if d.pass != nil {
		return ErrPassActive
	}
	t, ok := d.targets[target]
	if !ok {
		return fmt.Errorf("native: clear target %d: %w", target, ErrUnknownResource)
	}
	att, err := d.attachments(t)
	if err != nil {
		return err
	}
	d.reclaim()

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "rlgl_clear"})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("rlgl_clear"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "rlgl_clear_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    att.colorView,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(color[0]),
				G: float64(color[1]),
				B: float64(color[2]),
				A: float64(color[3]),
			},
		}},
		DepthStencilAttachment: depthAttachment(att, gputypes.LoadOpClear),
	})
	rp.End()
	return d.submit(encoder, false)
}
