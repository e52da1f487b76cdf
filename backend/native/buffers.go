//go:build !nogpu

package native

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"
)

// Vertex strides. Colors are expanded to float32x4 on upload.
const (
	positionStride = 3 * 4
	texcoordStride = 2 * 4
	colorStride    = 4 * 4
)

// slotBuffers are the vertex buffers of one batch slot.
type slotBuffers struct {
	positions hal.Buffer
	texcoords hal.Buffer
	colors    hal.Buffer
}

// vertexLayouts matches VertexInput of the default program.
var vertexLayouts = []gputypes.VertexBufferLayout{
	{
		ArrayStride: positionStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x3, Offset: 0, ShaderLocation: rlgl.AttribPosition},
		},
	},
	{
		ArrayStride: texcoordStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: rlgl.AttribTexCoord},
		},
	},
	{
		ArrayStride: colorStride,
		StepMode:    gputypes.VertexStepModeVertex,
		Attributes: []gputypes.VertexAttribute{
			{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: rlgl.AttribColor},
		},
	},
}

// CreateBatchBuffers implements rlgl.Device.
func (d *Device) CreateBatchBuffers(slots, vertexCapacity int, indices []uint16) error {
	if err := d.usable(); err != nil {
		return err
	}
	if slots <= 0 || vertexCapacity <= 0 || len(indices) == 0 {
		return fmt.Errorf("native: batch buffers %d x %d: %w", slots, vertexCapacity, ErrOutOfRange)
	}
	d.DestroyBatchBuffers()

	for i := range slots {
		var sb slotBuffers
		var err error
		sizes := []struct {
			dst    *hal.Buffer
			stride int
			name   string
		}{
			{&sb.positions, positionStride, "positions"},
			{&sb.texcoords, texcoordStride, "texcoords"},
			{&sb.colors, colorStride, "colors"},
		}
		for _, s := range sizes {
			*s.dst, err = d.device.CreateBuffer(&hal.BufferDescriptor{
				Label: fmt.Sprintf("rlgl_slot%d_%s", i, s.name),
				Size:  uint64(vertexCapacity * s.stride), //nolint:gosec // capacity is validated by the context
				Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
			})
			if err != nil {
				d.destroySlot(sb)
				d.DestroyBatchBuffers()
				return fmt.Errorf("native: create slot %d %s buffer: %w", i, s.name, err)
			}
		}
		d.slots = append(d.slots, sb)
	}

	// Buffer writes must be a multiple of 4 bytes.
	data := make([]byte, roundUp(len(indices)*2, 4))
	for i, idx := range indices {
		binary.LittleEndian.PutUint16(data[i*2:], idx)
	}
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "rlgl_quad_indices",
		Size:  uint64(len(data)),
		Usage: gputypes.BufferUsageIndex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		d.DestroyBatchBuffers()
		return fmt.Errorf("native: create index buffer: %w", err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	d.indexBuf = buf
	d.vertexCapacity = vertexCapacity

	slogger().Debug("native: batch buffers created",
		"slots", slots, "vertices", vertexCapacity, "indices", len(indices))
	return nil
}

func (d *Device) destroySlot(sb slotBuffers) {
	for _, b := range []hal.Buffer{sb.positions, sb.texcoords, sb.colors} {
		if b != nil {
			d.device.DestroyBuffer(b)
		}
	}
}

// DestroyBatchBuffers implements rlgl.Device.
func (d *Device) DestroyBatchBuffers() {
	if len(d.slots) == 0 && d.indexBuf == nil {
		return
	}
	d.waitIdle()
	for _, sb := range d.slots {
		d.destroySlot(sb)
	}
	d.slots = nil
	if d.indexBuf != nil {
		d.device.DestroyBuffer(d.indexBuf)
		d.indexBuf = nil
	}
	d.vertexCapacity = 0
}

// UploadBatch implements rlgl.Device.
func (d *Device) UploadBatch(slot int, data rlgl.BatchData) error {
	if err := d.usable(); err != nil {
		return err
	}
	if slot < 0 || slot >= len(d.slots) {
		return fmt.Errorf("native: upload slot %d of %d: %w", slot, len(d.slots), ErrOutOfRange)
	}
	n := data.VertexCount
	if n < 0 || n > d.vertexCapacity ||
		len(data.Positions) < n*3 || len(data.TexCoords) < n*2 || len(data.Colors) < n*4 {
		return fmt.Errorf("native: upload %d vertices: %w", n, ErrOutOfRange)
	}
	if n == 0 {
		return nil
	}
	sb := d.slots[slot]
	d.queue.WriteBuffer(sb.positions, 0, d.floatBytes(data.Positions[:n*3]))
	d.queue.WriteBuffer(sb.texcoords, 0, d.floatBytes(data.TexCoords[:n*2]))

	colors := d.grow(n * colorStride)
	for i, c := range data.Colors[:n*4] {
		binary.LittleEndian.PutUint32(colors[i*4:], math.Float32bits(float32(c)/255))
	}
	d.queue.WriteBuffer(sb.colors, 0, colors)
	return nil
}

// floatBytes encodes fs little-endian into the scratch buffer. The result
// is valid until the next call.
func (d *Device) floatBytes(fs []float32) []byte {
	buf := d.grow(len(fs) * 4)
	for i, f := range fs {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// grow returns the scratch buffer resized to n bytes.
func (d *Device) grow(n int) []byte {
	if cap(d.scratch) < n {
		d.scratch = make([]byte, n)
	}
	return d.scratch[:n]
}
