//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

// renderTarget is the screen or an offscreen target. Color and depth either
// refer to device textures or, when zero, to storage the target owns.
type renderTarget struct {
	width, height int

	color rlgl.TextureID
	depth rlgl.TextureID

	ownColor     hal.Texture
	ownColorView hal.TextureView
	ownDepth     hal.Texture
	ownDepthView hal.TextureView
}

// attachments resolves the views and the depth format of a target.
type attachments struct {
	colorTex    hal.Texture
	colorView   hal.TextureView
	depthView   hal.TextureView
	depthFormat gputypes.TextureFormat
}

func (d *Device) newScreenTarget() (*renderTarget, error) {
	t := &renderTarget{width: d.width, height: d.height}
	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "rlgl_screen",
		Size:          hal.Extent3D{Width: uint32(d.width), Height: uint32(d.height), DepthOrArrayLayers: 1}, //nolint:gosec // validated by newDevice
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create screen texture: %w", err)
	}
	t.ownColor = raw
	t.ownColorView, err = d.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         "rlgl_screen_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.destroyTarget(t)
		return nil, fmt.Errorf("native: create screen view: %w", err)
	}
	if err := d.createOwnDepth(t, "rlgl_screen"); err != nil {
		d.destroyTarget(t)
		return nil, err
	}
	return t, nil
}

func (d *Device) createOwnDepth(t *renderTarget, label string) error {
	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label + "_depth",
		Size:          hal.Extent3D{Width: uint32(t.width), Height: uint32(t.height), DepthOrArrayLayers: 1}, //nolint:gosec // validated by callers
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        screenDepthFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("native: create depth/stencil texture: %w", err)
	}
	t.ownDepth = raw
	t.ownDepthView, err = d.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         label + "_depth_view",
		Format:        screenDepthFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		return fmt.Errorf("native: create depth/stencil view: %w", err)
	}
	return nil
}

func (d *Device) destroyTarget(t *renderTarget) {
	if t.ownDepthView != nil {
		d.device.DestroyTextureView(t.ownDepthView)
	}
	if t.ownDepth != nil {
		d.device.DestroyTexture(t.ownDepth)
	}
	if t.ownColorView != nil {
		d.device.DestroyTextureView(t.ownColorView)
	}
	if t.ownColor != nil {
		d.device.DestroyTexture(t.ownColor)
	}
}

// attachments looks up the current views of t. Textures a target refers to
// may have been rebuilt or destroyed since the target was created.
func (d *Device) attachments(t *renderTarget) (attachments, error) {
	a := attachments{colorTex: t.ownColor, colorView: t.ownColorView, depthView: t.ownDepthView, depthFormat: screenDepthFormat}
	if t.color != 0 {
		tex, ok := d.textures[t.color]
		if !ok || tex.isDepth() {
			return attachments{}, fmt.Errorf("native: target color texture %d: %w", t.color, ErrUnknownResource)
		}
		a.colorTex, a.colorView = tex.raw, tex.view
	}
	if t.depth != 0 {
		tex, ok := d.textures[t.depth]
		if !ok || !tex.isDepth() {
			return attachments{}, fmt.Errorf("native: target depth texture %d: %w", t.depth, ErrUnknownResource)
		}
		a.depthView, a.depthFormat = tex.view, tex.format
	}
	return a, nil
}

// CreateRenderTarget implements rlgl.Device.
func (d *Device) CreateRenderTarget(desc rlgl.RenderTargetDesc) (rlgl.RenderTargetID, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}
	color, ok := d.textures[desc.Color]
	if !ok || color.isDepth() {
		return 0, fmt.Errorf("native: render target color %d: %w", desc.Color, ErrUnknownResource)
	}
	if color.width != desc.Width || color.height != desc.Height {
		return 0, fmt.Errorf("native: render target %dx%d with %dx%d color: %w",
			desc.Width, desc.Height, color.width, color.height, rlgl.ErrInvalidSize)
	}
	t := &renderTarget{width: desc.Width, height: desc.Height, color: desc.Color, depth: desc.Depth}
	if desc.Depth != 0 {
		depth, ok := d.textures[desc.Depth]
		if !ok || !depth.isDepth() {
			return 0, fmt.Errorf("native: render target depth %d: %w", desc.Depth, ErrUnknownResource)
		}
		if depth.width != desc.Width || depth.height != desc.Height {
			return 0, fmt.Errorf("native: render target depth %dx%d: %w", depth.width, depth.height, rlgl.ErrInvalidSize)
		}
	}

	d.nextTarget++
	id := d.nextTarget
	if desc.Depth == 0 {
		if err := d.createOwnDepth(t, fmt.Sprintf("rlgl_target%d", id)); err != nil {
			d.destroyTarget(t)
			return 0, err
		}
	}
	d.targets[id] = t
	slogger().Debug("native: render target created", "id", id, "width", desc.Width, "height", desc.Height)
	return id, nil
}

// DestroyRenderTarget implements rlgl.Device. The screen is never
// destroyed; the attached textures are left to DestroyTexture.
func (d *Device) DestroyRenderTarget(id rlgl.RenderTargetID) {
	t, ok := d.targets[id]
	if !ok || id == rlgl.Screen || d.destroyed {
		return
	}
	d.waitIdle()
	d.destroyTarget(t)
	delete(d.targets, id)
}
