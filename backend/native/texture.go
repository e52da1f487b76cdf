//go:build !nogpu

package native

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

// texture is a color or depth texture with its default view and, for color
// textures, its sampler.
type texture struct {
	raw     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler

	width, height int
	levels        int
	format        gputypes.TextureFormat
	params        rlgl.TextureParameters
}

func (t *texture) isDepth() bool {
	return t.format != colorFormat
}

const colorUsage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst |
	gputypes.TextureUsageCopySrc | gputypes.TextureUsageRenderAttachment

// createColorTexture allocates an RGBA8 texture and uploads levels, which
// hold RGBA8 data largest first.
func (d *Device) createColorTexture(label string, width, height int, levels [][]byte, params rlgl.TextureParameters) (*texture, error) {
	mipCount := max(len(levels), 1)
	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // dimensions are validated
		MipLevelCount: uint32(mipCount),                                                                  //nolint:gosec // at most 14 levels
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        colorFormat,
		Usage:         colorUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create texture: %w", err)
	}
	t := &texture{raw: raw, width: width, height: height, levels: mipCount, format: colorFormat, params: params}

	t.view, err = d.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        colorFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: uint32(mipCount), //nolint:gosec // at most 14 levels
	})
	if err != nil {
		d.destroyTexture(t)
		return nil, fmt.Errorf("native: create texture view: %w", err)
	}
	if t.sampler, err = d.createSampler(params); err != nil {
		d.destroyTexture(t)
		return nil, err
	}

	w, h := width, height
	for level, data := range levels {
		d.writeTexture(raw, level, rlgl.Rect{Width: w, Height: h}, data)
		w, h = max(w/2, 1), max(h/2, 1)
	}
	return t, nil
}

// writeTexture uploads tightly packed RGBA8 rows to a region of one level.
func (d *Device) writeTexture(raw hal.Texture, level int, region rlgl.Rect, data []byte) {
	//nolint:gosec // regions are validated against the texture size
	d.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  raw,
			MipLevel: uint32(level),
			Origin:   hal.Origin3D{X: uint32(region.X), Y: uint32(region.Y), Z: 0},
			Aspect:   gputypes.TextureAspectAll,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(region.Width * 4),
			RowsPerImage: uint32(region.Height),
		},
		&hal.Extent3D{Width: uint32(region.Width), Height: uint32(region.Height), DepthOrArrayLayers: 1},
	)
}

// createSampler translates rlgl sampling parameters.
func (d *Device) createSampler(p rlgl.TextureParameters) (hal.Sampler, error) {
	desc := &hal.SamplerDescriptor{
		Label:        "rlgl_sampler",
		AddressModeU: addressMode(p.WrapS),
		AddressModeV: addressMode(p.WrapT),
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.FilterModeNearest,
	}
	if p.MagFilter == rlgl.FilterLinear {
		desc.MagFilter = gputypes.FilterModeLinear
	}
	switch p.MinFilter {
	case rlgl.FilterLinear, rlgl.FilterLinearMipNearest:
		desc.MinFilter = gputypes.FilterModeLinear
	case rlgl.FilterMipLinear:
		desc.MinFilter = gputypes.FilterModeLinear
		desc.MipmapFilter = gputypes.FilterModeLinear
	case rlgl.FilterNearestMipLinear:
		desc.MipmapFilter = gputypes.FilterModeLinear
	}
	s, err := d.device.CreateSampler(desc)
	if err != nil {
		return nil, fmt.Errorf("native: create sampler: %w", err)
	}
	return s, nil
}

func addressMode(w rlgl.TextureWrap) gputypes.AddressMode {
	switch w {
	case rlgl.WrapRepeat:
		return gputypes.AddressModeRepeat
	case rlgl.WrapMirrorRepeat:
		return gputypes.AddressModeMirrorRepeat
	default:
		return gputypes.AddressModeClampToEdge
	}
}

func (d *Device) destroyTexture(t *texture) {
	if t.sampler != nil {
		d.device.DestroySampler(t.sampler)
	}
	if t.view != nil {
		d.device.DestroyTextureView(t.view)
	}
	if t.raw != nil {
		d.device.DestroyTexture(t.raw)
	}
}

// CreateTexture implements rlgl.Device. Uncompressed formats are expanded
// to RGBA8.
func (d *Device) CreateTexture(desc rlgl.TextureDesc) (rlgl.TextureID, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.Width > maxTextureSize || desc.Height > maxTextureSize {
		return 0, fmt.Errorf("native: texture %dx%d: %w", desc.Width, desc.Height, rlgl.ErrInvalidSize)
	}
	if desc.Format.IsCompressed() {
		return 0, fmt.Errorf("native: texture format %s: %w", desc.Format, rlgl.ErrUnsupported)
	}
	levels := make([][]byte, 0, len(desc.Levels))
	w, h := desc.Width, desc.Height
	for i, data := range desc.Levels {
		rgba, err := rlgl.ToRGBA8(data, w, h, desc.Format)
		if err != nil {
			return 0, fmt.Errorf("native: texture level %d: %w", i, err)
		}
		levels = append(levels, rgba)
		w, h = max(w/2, 1), max(h/2, 1)
	}

	d.nextTexture++
	id := d.nextTexture
	t, err := d.createColorTexture(fmt.Sprintf("rlgl_texture%d", id), desc.Width, desc.Height, levels, desc.Params)
	if err != nil {
		return 0, err
	}
	d.textures[id] = t
	slogger().Debug("native: texture created",
		"id", id, "width", desc.Width, "height", desc.Height, "format", desc.Format, "levels", t.levels)
	return id, nil
}

// UpdateTexture implements rlgl.Device.
func (d *Device) UpdateTexture(id rlgl.TextureID, region rlgl.Rect, format rlgl.PixelFormat, data []byte) error {
	if err := d.usable(); err != nil {
		return err
	}
	t, ok := d.textures[id]
	if !ok || t.isDepth() {
		return fmt.Errorf("native: update texture %d: %w", id, ErrUnknownResource)
	}
	if region.Empty() || region.X < 0 || region.Y < 0 ||
		region.X+region.Width > t.width || region.Y+region.Height > t.height {
		return fmt.Errorf("native: update texture %d region %+v: %w", id, region, ErrOutOfRange)
	}
	rgba, err := rlgl.ToRGBA8(data, region.Width, region.Height, format)
	if err != nil {
		return fmt.Errorf("native: update texture %d: %w", id, err)
	}
	d.writeTexture(t.raw, 0, region, rgba)
	return nil
}

// SetTextureParameters implements rlgl.Device. The sampler is rebuilt and
// bind groups using the texture are dropped.
func (d *Device) SetTextureParameters(id rlgl.TextureID, p rlgl.TextureParameters) error {
	if err := d.usable(); err != nil {
		return err
	}
	t, ok := d.textures[id]
	if !ok || t.isDepth() {
		return fmt.Errorf("native: texture %d parameters: %w", id, ErrUnknownResource)
	}
	if t.params == p {
		return nil
	}
	s, err := d.createSampler(p)
	if err != nil {
		return err
	}
	d.dropBindGroups(func(k bindKey) bool { return k.texture == id })
	d.waitIdle()
	d.device.DestroySampler(t.sampler)
	t.sampler = s
	t.params = p
	return nil
}

// DestroyTexture implements rlgl.Device.
func (d *Device) DestroyTexture(id rlgl.TextureID) {
	t, ok := d.textures[id]
	if !ok || d.destroyed {
		return
	}
	d.dropBindGroups(func(k bindKey) bool { return k.texture == id })
	d.waitIdle()
	d.destroyTexture(t)
	delete(d.textures, id)
	slogger().Debug("native: texture destroyed", "id", id)
}

// CreateDepthTexture implements rlgl.DepthTextureCreator. 16 bits map to
// depth16unorm, 32 bits to depth32float and anything else to
// depth24plus-stencil8.
func (d *Device) CreateDepthTexture(width, height, bits int) (rlgl.TextureID, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}
	if width <= 0 || height <= 0 || width > maxTextureSize || height > maxTextureSize {
		return 0, fmt.Errorf("native: depth texture %dx%d: %w", width, height, rlgl.ErrInvalidSize)
	}
	format := depthFormat(bits)
	d.nextTexture++
	id := d.nextTexture
	label := fmt.Sprintf("rlgl_depth%d", id)

	raw, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // validated above
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return 0, fmt.Errorf("native: create depth texture: %w", err)
	}
	t := &texture{raw: raw, width: width, height: height, levels: 1, format: format}
	t.view, err = d.device.CreateTextureView(raw, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		d.destroyTexture(t)
		return 0, fmt.Errorf("native: create depth texture view: %w", err)
	}
	d.textures[id] = t
	return id, nil
}

func depthFormat(bits int) gputypes.TextureFormat {
	switch bits {
	case 16:
		return gputypes.TextureFormatDepth16Unorm
	case 32:
		return gputypes.TextureFormatDepth32Float
	default:
		return gputypes.TextureFormatDepth24PlusStencil8
	}
}

func hasStencil(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatDepth24PlusStencil8
}

// GenerateMipmaps implements rlgl.MipmapGenerator. Level 0 is read back and
// downscaled bilinearly on the CPU; the texture is then rebuilt with the
// full chain.
func (d *Device) GenerateMipmaps(id rlgl.TextureID) (int, error) {
	if err := d.usable(); err != nil {
		return 0, err
	}
	t, ok := d.textures[id]
	if !ok || t.isDepth() {
		return 0, fmt.Errorf("native: mipmaps of texture %d: %w", id, ErrUnknownResource)
	}
	base, err := d.readTexture(t.raw, gputypes.TextureUsageTextureBinding, rlgl.Rect{Width: t.width, Height: t.height})
	if err != nil {
		return 0, err
	}
	levels := mipChain(base, t.width, t.height)

	nt, err := d.createColorTexture(fmt.Sprintf("rlgl_texture%d", id), t.width, t.height, levels, t.params)
	if err != nil {
		return 0, err
	}
	d.dropBindGroups(func(k bindKey) bool { return k.texture == id })
	d.waitIdle()
	d.destroyTexture(t)
	d.textures[id] = nt
	slogger().Debug("native: mipmaps generated", "id", id, "levels", len(levels))
	return len(levels), nil
}

// mipChain builds every level from an RGBA8 base image down to 1x1.
func mipChain(base []byte, width, height int) [][]byte {
	src := &image.RGBA{Pix: base, Stride: width * 4, Rect: image.Rect(0, 0, width, height)}
	levels := [][]byte{base}
	for width > 1 || height > 1 {
		width, height = max(width/2, 1), max(height/2, 1)
		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		levels = append(levels, dst.Pix)
		src = dst
	}
	return levels
}

// ReadTexture implements rlgl.TextureReader.
func (d *Device) ReadTexture(id rlgl.TextureID) ([]byte, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	t, ok := d.textures[id]
	if !ok || t.isDepth() {
		return nil, fmt.Errorf("native: read texture %d: %w", id, ErrUnknownResource)
	}
	return d.readTexture(t.raw, gputypes.TextureUsageTextureBinding, rlgl.Rect{Width: t.width, Height: t.height})
}
