//go:build !nogpu

package native

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/rlgl"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const (
	// colorFormat is the format of the screen and of every color texture.
	colorFormat = gputypes.TextureFormatRGBA8Unorm

	// screenDepthFormat is the depth format of targets without a depth
	// texture.
	screenDepthFormat = gputypes.TextureFormatDepth24PlusStencil8

	// maxTextureSize is the WebGPU default limit for 2D textures.
	maxTextureSize = 8192

	// fenceTimeout bounds every blocking wait on the GPU.
	fenceTimeout = 5 * time.Second
)

func init() {
	rlgl.RegisterDevice("native", func(width, height int) (rlgl.Device, error) {
		return NewStandalone(width, height)
	})
}

// Device is an rlgl.Device on a hal device and queue.
//
// A Device is driven from a single goroutine by its rlgl.Context.
type Device struct {
	device   hal.Device
	queue    hal.Queue
	instance hal.Instance // set when the device was opened by NewStandalone
	external bool         // device and queue belong to the caller

	width, height int

	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipelines  *pipelineCache

	slots          []slotBuffers
	vertexCapacity int
	indexBuf       hal.Buffer

	textures   map[rlgl.TextureID]*texture
	targets    map[rlgl.RenderTargetID]*renderTarget
	shaders    map[rlgl.ShaderID]*program
	bindGroups map[bindKey]hal.BindGroup

	nextTexture rlgl.TextureID
	nextShader  rlgl.ShaderID
	nextTarget  rlgl.RenderTargetID

	inflight []submission
	pass     *pass
	scratch  []byte

	destroyed bool
}

var (
	_ rlgl.Device              = (*Device)(nil)
	_ rlgl.MipmapGenerator     = (*Device)(nil)
	_ rlgl.TextureReader       = (*Device)(nil)
	_ rlgl.DepthTextureCreator = (*Device)(nil)
)

// New creates a device rendering a width x height screen on a caller-owned
// hal device and queue. Destroy releases the resources of the Device but
// leaves device and queue open.
func New(device hal.Device, queue hal.Queue, width, height int) (*Device, error) {
	d, err := newDevice(device, queue, width, height)
	if err != nil {
		return nil, err
	}
	d.external = true
	return d, nil
}

// NewFromProvider creates a device on the hal device shared by a host
// application. The provider must also implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider, width, height int) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return New(device, queue, width, height)
}

// NewStandalone opens the first Vulkan adapter, preferring discrete and
// integrated GPUs, and creates a device owning it.
func NewStandalone(width, height int) (*Device, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", ErrNoGPU)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, ErrNoGPU
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("native: open device: %w", err)
	}
	d, err := newDevice(openDev.Device, openDev.Queue, width, height)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	slogger().Info("native: adapter selected", "name", selected.Info.Name)
	return d, nil
}

func newDevice(device hal.Device, queue hal.Queue, width, height int) (*Device, error) {
	if device == nil || queue == nil {
		return nil, ErrNoHAL
	}
	if width <= 0 || height <= 0 || width > maxTextureSize || height > maxTextureSize {
		return nil, fmt.Errorf("native: screen %dx%d: %w", width, height, rlgl.ErrInvalidSize)
	}
	d := &Device{
		device:     device,
		queue:      queue,
		width:      width,
		height:     height,
		pipelines:  newPipelineCache(),
		textures:   make(map[rlgl.TextureID]*texture),
		targets:    make(map[rlgl.RenderTargetID]*renderTarget),
		shaders:    make(map[rlgl.ShaderID]*program),
		bindGroups: make(map[bindKey]hal.BindGroup),
	}
	if err := d.createLayouts(); err != nil {
		d.destroyLayouts()
		return nil, err
	}
	screen, err := d.newScreenTarget()
	if err != nil {
		d.destroyLayouts()
		return nil, err
	}
	d.targets[rlgl.Screen] = screen
	slogger().Info("native: device created", "width", width, "height", height)
	return d, nil
}

// createLayouts builds the bind group and pipeline layouts shared by every
// program.
//
//	Binding 0: Uniforms (vertex + fragment)
//	Binding 1: texture0 (fragment)
//	Binding 2: texture0 sampler (fragment)
func (d *Device) createLayouts() error {
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "rlgl_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("native: create bind group layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "rlgl_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("native: create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout
	return nil
}

func (d *Device) destroyLayouts() {
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
}

// SetLogger sets the logger shared by all native devices. rlgl.New
// forwards the Context logger here.
func (d *Device) SetLogger(l *slog.Logger) {
	setLogger(l)
}

// Size returns the screen size.
func (d *Device) Size() (width, height int) {
	return d.width, d.height
}

// PipelineStats returns the pipeline cache hits and misses.
func (d *Device) PipelineStats() (hits, misses uint64) {
	return d.pipelines.stats()
}

// Capabilities implements rlgl.Device.
func (d *Device) Capabilities() rlgl.Capabilities {
	return rlgl.Capabilities{
		VAO:            true,
		TexNPOT:        true,
		TexDepth:       true,
		MaxDepthBits:   32,
		MaxTextureSize: maxTextureSize,
	}
}

// Destroy implements rlgl.Device. It waits for submitted work, releases
// every resource and, for standalone devices, closes the hal device.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	if d.pass != nil {
		d.pass.abort()
	}
	d.waitIdle()
	d.destroyed = true

	for key, bg := range d.bindGroups {
		d.device.DestroyBindGroup(bg)
		delete(d.bindGroups, key)
	}
	d.pipelines.destroyAll(d.device)
	for id, t := range d.targets {
		d.destroyTarget(t)
		delete(d.targets, id)
	}
	for id, t := range d.textures {
		d.destroyTexture(t)
		delete(d.textures, id)
	}
	for id, p := range d.shaders {
		d.destroyProgram(p)
		delete(d.shaders, id)
	}
	d.DestroyBatchBuffers()
	d.destroyLayouts()

	if !d.external {
		d.device.Destroy()
		if d.instance != nil {
			d.instance.Destroy()
			d.instance = nil
		}
	}
	slogger().Info("native: device destroyed")
}

// usable returns ErrDestroyed after Destroy.
func (d *Device) usable() error {
	if d.destroyed {
		return ErrDestroyed
	}
	return nil
}
