//go:build !nogpu

package native

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment of texture-to-buffer copies.
const copyPitchAlignment = 256

// submission is a command buffer in flight with the fence signaling it.
type submission struct {
	cmdBuf hal.CommandBuffer
	fence  hal.Fence
}

// submit finishes encoder and submits it. With wait set it blocks until
// the GPU is done; otherwise the submission is reclaimed later.
func (d *Device) submit(encoder hal.CommandEncoder, wait bool) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	fence, err := d.device.CreateFence()
	if err != nil {
		d.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("native: create fence: %w", err)
	}
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		d.device.FreeCommandBuffer(cmdBuf)
		d.device.DestroyFence(fence)
		return fmt.Errorf("native: submit: %w", err)
	}
	s := submission{cmdBuf: cmdBuf, fence: fence}
	if !wait {
		d.inflight = append(d.inflight, s)
		return nil
	}
	return d.finish(s)
}

// finish waits for s and releases it.
func (d *Device) finish(s submission) error {
	defer func() {
		d.device.FreeCommandBuffer(s.cmdBuf)
		d.device.DestroyFence(s.fence)
	}()
	ok, err := d.device.Wait(s.fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("native: wait for GPU: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w after %v", ErrGPUTimeout, fenceTimeout)
	}
	return nil
}

// reclaim releases the submissions the GPU has completed without
// blocking.
func (d *Device) reclaim() {
	kept := d.inflight[:0]
	for _, s := range d.inflight {
		ok, err := d.device.Wait(s.fence, 1, 0)
		if err == nil && ok {
			d.device.FreeCommandBuffer(s.cmdBuf)
			d.device.DestroyFence(s.fence)
			continue
		}
		kept = append(kept, s)
	}
	clear(d.inflight[len(kept):])
	d.inflight = kept
}

// waitIdle blocks until every submission has completed. Resources may be
// destroyed afterwards.
func (d *Device) waitIdle() {
	for _, s := range d.inflight {
		if err := d.finish(s); err != nil {
			slogger().Warn("native: waiting for submission", "err", err)
		}
	}
	d.inflight = d.inflight[:0]
}

// ReadPixels implements rlgl.Device. region uses a top-left origin.
func (d *Device) ReadPixels(target rlgl.RenderTargetID, region rlgl.Rect) ([]byte, error) {
	if err := d.usable(); err != nil {
		return nil, err
	}
	if d.pass != nil {
		return nil, ErrPassActive
	}
	t, ok := d.targets[target]
	if !ok {
		return nil, fmt.Errorf("native: read target %d: %w", target, ErrUnknownResource)
	}
	att, err := d.attachments(t)
	if err != nil {
		return nil, err
	}
	return d.readTexture(att.colorTex, gputypes.TextureUsageRenderAttachment, clampRect(region, t.width, t.height))
}

// readTexture copies region of mip level 0 of raw to the CPU as tightly
// packed RGBA8 rows. raw is transitioned from oldUsage for the copy and
// back afterwards.
func (d *Device) readTexture(raw hal.Texture, oldUsage gputypes.TextureUsage, region rlgl.Rect) ([]byte, error) {
	if region.Empty() {
		return nil, nil
	}
	d.waitIdle()

	w, h := uint32(region.Width), uint32(region.Height) //nolint:gosec // clamped by callers
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "rlgl_readback",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("native: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "rlgl_readback"})
	if err != nil {
		return nil, fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("rlgl_readback"); err != nil {
		return nil, fmt.Errorf("native: begin encoding: %w", err)
	}
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: raw,
		Usage: hal.TextureUsageTransition{
			OldUsage: oldUsage,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(raw, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase: hal.ImageCopyTexture{
			Texture:  raw,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(region.X), Y: uint32(region.Y)}, //nolint:gosec // clamped by callers
		},
		Size: hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: raw,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: oldUsage,
		},
	}})
	if err := d.submit(encoder, true); err != nil {
		return nil, err
	}

	readback := make([]byte, size)
	if err := d.queue.ReadBuffer(staging, 0, readback); err != nil {
		return nil, fmt.Errorf("native: readback: %w", err)
	}
	if alignedBytesPerRow == bytesPerRow {
		return readback, nil
	}
	tight := make([]byte, int(bytesPerRow)*int(h))
	for row := range int(h) {
		src := row * int(alignedBytesPerRow)
		copy(tight[row*int(bytesPerRow):(row+1)*int(bytesPerRow)], readback[src:src+int(bytesPerRow)])
	}
	return tight, nil
}
