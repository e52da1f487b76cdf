package recording

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"
	"regexp"
	"slices"

	"github.com/gogpu/rlgl"
)

// Errors returned by the Recorder.
var (
	ErrUnknownResource = errors.New("recording: unknown resource")
	ErrOutOfRange      = errors.New("recording: out of range")
	ErrPassActive      = errors.New("recording: pass already in progress")
	ErrNoPass          = errors.New("recording: no pass in progress")
	ErrFormatMismatch  = errors.New("recording: pixel format mismatch")
)

func init() {
	rlgl.RegisterDevice("recording", func(width, height int) (rlgl.Device, error) {
		return NewRecorder(width, height), nil
	})
}

// DefaultCapabilities is the feature set of a Recorder created without
// WithCapabilities: everything uncompressed, no compressed formats.
func DefaultCapabilities() rlgl.Capabilities {
	return rlgl.Capabilities{
		VAO:                 true,
		TexNPOT:             true,
		TexFloat32:          true,
		TexDepth:            true,
		MaxDepthBits:        24,
		TexMirrorClamp:      true,
		TexAnisoFilter:      true,
		MaxAnisotropicLevel: 16,
		DebugMarker:         true,
		Wireframe:           true,
		MaxTextureSize:      8192,
	}
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithCapabilities sets the feature set the Recorder reports.
func WithCapabilities(c rlgl.Capabilities) Option {
	return func(r *Recorder) {
		r.caps = c
	}
}

// Recorder is an rlgl.Device that performs no rendering. Every call is
// validated, applied to an in-memory resource model and appended to a
// command log. Use FinishRecording to obtain a Recording that can be
// replayed to another device.
//
// Example:
//
//	rec := recording.NewRecorder(800, 600)
//	ctx, _ := rlgl.New(rec, 800, 600)
//	ctx.Begin(rlgl.Triangles)
//	...
//	ctx.End()
//	_ = ctx.Flush()
//	r := rec.FinishRecording()
//
// The Recorder is not safe for concurrent use.
type Recorder struct {
	width, height int
	caps          rlgl.Capabilities
	commands      []Command
	resources     *ResourcePool

	// uploaded vertex count per batch slot
	slots          []int
	vertexCapacity int
	indexCount     int

	screenClear [4]uint8
	pass        *recorderPass
	failures    map[CommandType]error
	log         *slog.Logger
}

// NewRecorder creates a Recorder for a screen of the given size.
func NewRecorder(width, height int, opts ...Option) *Recorder {
	r := &Recorder{
		width:     width,
		height:    height,
		caps:      DefaultCapabilities(),
		commands:  make([]Command, 0, 256),
		resources: NewResourcePool(),
		failures:  make(map[CommandType]error),
		log:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetLogger sets the logger for command tracing at debug level.
// Pass nil to disable logging.
func (r *Recorder) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	r.log = l
}

// FailOn makes every following command of type t fail with err.
// A nil err removes the failure.
func (r *Recorder) FailOn(t CommandType, err error) {
	if err == nil {
		delete(r.failures, t)
		return
	}
	r.failures[t] = err
}

// Width returns the screen width.
func (r *Recorder) Width() int {
	return r.width
}

// Height returns the screen height.
func (r *Recorder) Height() int {
	return r.height
}

// Commands returns the commands recorded so far.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// Resources returns the live resource pool.
func (r *Recorder) Resources() *ResourcePool {
	return r.resources
}

// Reset drops the recorded commands. Resources stay alive.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
}

// FinishRecording returns a Recording of every command so far. The
// Recorder stays usable; later commands do not affect the Recording.
func (r *Recorder) FinishRecording() *Recording {
	return &Recording{
		width:     r.width,
		height:    r.height,
		commands:  slices.Clone(r.commands),
		resources: r.resources.Clone(),
	}
}

func (r *Recorder) record(cmd Command) {
	r.commands = append(r.commands, cmd)
	r.log.Debug("recording: command", "n", len(r.commands), "type", cmd.Type())
}

func (r *Recorder) fail(t CommandType) error {
	if err, ok := r.failures[t]; ok {
		return err
	}
	return nil
}

// --------------------------------------------------------------------------
// Batch buffers
// --------------------------------------------------------------------------

// Capabilities implements rlgl.Device.
func (r *Recorder) Capabilities() rlgl.Capabilities {
	return r.caps
}

// CreateBatchBuffers implements rlgl.Device.
func (r *Recorder) CreateBatchBuffers(slots, vertexCapacity int, indices []uint16) error {
	if err := r.fail(CmdCreateBatchBuffers); err != nil {
		return err
	}
	if slots < 1 || vertexCapacity < 4 {
		return fmt.Errorf("%w: %d slots of %d vertices", ErrOutOfRange, slots, vertexCapacity)
	}
	r.slots = make([]int, slots)
	r.vertexCapacity = vertexCapacity
	r.indexCount = len(indices)
	r.record(CreateBatchBuffersCommand{
		Slots:          slots,
		VertexCapacity: vertexCapacity,
		Indices:        slices.Clone(indices),
	})
	return nil
}

// DestroyBatchBuffers implements rlgl.Device.
func (r *Recorder) DestroyBatchBuffers() {
	r.slots = nil
	r.record(DestroyBatchBuffersCommand{})
}

// UploadBatch implements rlgl.Device.
func (r *Recorder) UploadBatch(slot int, data rlgl.BatchData) error {
	if err := r.fail(CmdUploadBatch); err != nil {
		return err
	}
	if slot < 0 || slot >= len(r.slots) {
		return fmt.Errorf("%w: slot %d of %d", ErrOutOfRange, slot, len(r.slots))
	}
	n := data.VertexCount
	if n < 0 || n > r.vertexCapacity {
		return fmt.Errorf("%w: %d vertices, capacity %d", ErrOutOfRange, n, r.vertexCapacity)
	}
	if len(data.Positions) < n*3 || len(data.TexCoords) < n*2 || len(data.Colors) < n*4 {
		return fmt.Errorf("%w: streams shorter than %d vertices", rlgl.ErrInvalidSize, n)
	}
	r.slots[slot] = n
	r.record(UploadBatchCommand{
		Slot: slot,
		Data: rlgl.BatchData{
			Positions:   slices.Clone(data.Positions[:n*3]),
			TexCoords:   slices.Clone(data.TexCoords[:n*2]),
			Colors:      slices.Clone(data.Colors[:n*4]),
			VertexCount: n,
		},
	})
	return nil
}

// --------------------------------------------------------------------------
// Textures
// --------------------------------------------------------------------------

// CreateTexture implements rlgl.Device.
func (r *Recorder) CreateTexture(desc rlgl.TextureDesc) (rlgl.TextureID, error) {
	if err := r.fail(CmdCreateTexture); err != nil {
		return 0, err
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", rlgl.ErrInvalidSize, desc.Width, desc.Height)
	}
	levels := make([][]byte, len(desc.Levels))
	for i, l := range desc.Levels {
		levels[i] = slices.Clone(l)
	}
	id := r.resources.AddTexture(&TextureResource{
		Width:    desc.Width,
		Height:   desc.Height,
		Format:   desc.Format,
		Params:   desc.Params,
		Levels:   levels,
		MipCount: max(len(levels), 1),
	})

	recorded := desc
	recorded.Levels = make([][]byte, len(levels))
	for i, l := range levels {
		recorded.Levels[i] = slices.Clone(l)
	}
	r.record(CreateTextureCommand{ID: id, Desc: recorded})
	return id, nil
}

// UpdateTexture implements rlgl.Device. The update is applied to the
// recorded level 0 so ReadTexture returns it.
func (r *Recorder) UpdateTexture(id rlgl.TextureID, region rlgl.Rect, format rlgl.PixelFormat, data []byte) error {
	if err := r.fail(CmdUpdateTexture); err != nil {
		return err
	}
	tex := r.resources.Texture(id)
	if tex == nil {
		return fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	if format != tex.Format {
		return fmt.Errorf("%w: %s update of %s texture", ErrFormatMismatch, format, tex.Format)
	}
	if format.IsCompressed() {
		return fmt.Errorf("recording: update %s texture: %w", format, rlgl.ErrUnsupported)
	}
	if region.Empty() || region.X < 0 || region.Y < 0 ||
		region.X+region.Width > tex.Width || region.Y+region.Height > tex.Height {
		return fmt.Errorf("%w: region %+v of %dx%d texture", ErrOutOfRange, region, tex.Width, tex.Height)
	}
	size := rlgl.PixelDataSize(region.Width, region.Height, format)
	if len(data) < size {
		return fmt.Errorf("%w: have %d bytes, need %d", rlgl.ErrInvalidSize, len(data), size)
	}

	if len(tex.Levels) == 0 {
		tex.Levels = [][]byte{make([]byte, rlgl.PixelDataSize(tex.Width, tex.Height, format))}
	}
	bpp := format.BitsPerPixel() / 8
	dst := tex.Levels[0]
	rowBytes := region.Width * bpp
	for row := range region.Height {
		off := ((region.Y+row)*tex.Width + region.X) * bpp
		copy(dst[off:off+rowBytes], data[row*rowBytes:])
	}

	r.record(UpdateTextureCommand{ID: id, Region: region, Format: format, Data: slices.Clone(data[:size])})
	return nil
}

// SetTextureParameters implements rlgl.Device.
func (r *Recorder) SetTextureParameters(id rlgl.TextureID, p rlgl.TextureParameters) error {
	if err := r.fail(CmdSetTextureParams); err != nil {
		return err
	}
	tex := r.resources.Texture(id)
	if tex == nil {
		return fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	tex.Params = p
	r.record(SetTextureParamsCommand{ID: id, Params: p})
	return nil
}

// DestroyTexture implements rlgl.Device.
func (r *Recorder) DestroyTexture(id rlgl.TextureID) {
	if r.resources.RemoveTexture(id) {
		r.record(DestroyTextureCommand{ID: id})
	}
}

// CreateDepthTexture implements rlgl.DepthTextureCreator.
func (r *Recorder) CreateDepthTexture(width, height, depthBits int) (rlgl.TextureID, error) {
	if err := r.fail(CmdCreateDepthTexture); err != nil {
		return 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", rlgl.ErrInvalidSize, width, height)
	}
	id := r.resources.AddTexture(&TextureResource{
		Width:     width,
		Height:    height,
		MipCount:  1,
		DepthBits: depthBits,
	})
	r.record(CreateDepthTextureCommand{ID: id, Width: width, Height: height, Bits: depthBits})
	return id, nil
}

// GenerateMipmaps implements rlgl.MipmapGenerator. Only the level count is
// modeled.
func (r *Recorder) GenerateMipmaps(id rlgl.TextureID) (int, error) {
	if err := r.fail(CmdGenerateMipmaps); err != nil {
		return 0, err
	}
	tex := r.resources.Texture(id)
	if tex == nil {
		return 0, fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	levels := bits.Len(uint(max(tex.Width, tex.Height)))
	tex.MipCount = levels
	r.record(GenerateMipmapsCommand{ID: id, Levels: levels})
	return levels, nil
}

// ReadTexture implements rlgl.TextureReader. Empty textures read as
// transparent black.
func (r *Recorder) ReadTexture(id rlgl.TextureID) ([]byte, error) {
	tex := r.resources.Texture(id)
	if tex == nil {
		return nil, fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	if tex.DepthBits != 0 {
		return nil, fmt.Errorf("recording: read depth texture: %w", rlgl.ErrUnsupported)
	}
	if len(tex.Levels) == 0 || tex.Levels[0] == nil {
		return make([]byte, tex.Width*tex.Height*4), nil
	}
	return rlgl.ToRGBA8(tex.Levels[0], tex.Width, tex.Height, tex.Format)
}

// --------------------------------------------------------------------------
// Render targets
// --------------------------------------------------------------------------

// CreateRenderTarget implements rlgl.Device.
func (r *Recorder) CreateRenderTarget(desc rlgl.RenderTargetDesc) (rlgl.RenderTargetID, error) {
	if err := r.fail(CmdCreateRenderTarget); err != nil {
		return 0, err
	}
	if r.resources.Texture(desc.Color) == nil {
		return 0, fmt.Errorf("%w: color texture %d", ErrUnknownResource, desc.Color)
	}
	if desc.Depth != 0 && r.resources.Texture(desc.Depth) == nil {
		return 0, fmt.Errorf("%w: depth texture %d", ErrUnknownResource, desc.Depth)
	}
	id := r.resources.AddTarget(&TargetResource{Desc: desc})
	r.record(CreateRenderTargetCommand{ID: id, Desc: desc})
	return id, nil
}

// DestroyRenderTarget implements rlgl.Device.
func (r *Recorder) DestroyRenderTarget(id rlgl.RenderTargetID) {
	if r.resources.RemoveTarget(id) {
		r.record(DestroyRenderTargetCommand{ID: id})
	}
}

// targetSize returns the size of a target, or false if it is unknown.
func (r *Recorder) targetSize(id rlgl.RenderTargetID) (int, int, bool) {
	if id == rlgl.Screen {
		return r.width, r.height, true
	}
	t := r.resources.Target(id)
	if t == nil {
		return 0, 0, false
	}
	return t.Desc.Width, t.Desc.Height, true
}

// --------------------------------------------------------------------------
// Shaders
// --------------------------------------------------------------------------

// defaultUniforms are the uniforms of the default shader, in location order.
var defaultUniforms = []string{
	rlgl.UniformNameMVP,
	rlgl.UniformNameProjection,
	rlgl.UniformNameView,
	rlgl.UniformNameColDiffuse,
	rlgl.UniformNameTexture0,
	rlgl.UniformNameTexture1,
	rlgl.UniformNameTexture2,
}

// attribLocations are the fixed vertex attribute locations.
var attribLocations = map[string]int{
	rlgl.AttribNamePosition:  rlgl.AttribPosition,
	rlgl.AttribNameTexCoord:  rlgl.AttribTexCoord,
	rlgl.AttribNameNormal:    rlgl.AttribNormal,
	rlgl.AttribNameColor:     rlgl.AttribColor,
	rlgl.AttribNameTangent:   rlgl.AttribTangent,
	rlgl.AttribNameTexCoord2: rlgl.AttribTexCoord2,
}

// uniformDecl matches GLSL "uniform [precision] type name" and WGSL
// "var<uniform> name" declarations.
var uniformDecl = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?\w+\s+(\w+)|var<uniform>\s+(\w+)`)

// shaderLocations assigns uniform locations: the default uniforms first,
// then every other uniform declared in the sources in order of appearance.
func shaderLocations(vs, fs string) map[string]int {
	locs := make(map[string]int, len(defaultUniforms))
	for i, name := range defaultUniforms {
		locs[name] = i
	}
	for _, src := range []string{vs, fs} {
		for _, m := range uniformDecl.FindAllStringSubmatch(src, -1) {
			name := m[1]
			if name == "" {
				name = m[2]
			}
			if _, ok := locs[name]; !ok {
				locs[name] = len(locs)
			}
		}
	}
	return locs
}

// CompileShader implements rlgl.Device. Sources are not compiled; their
// uniform declarations are scanned to assign locations.
func (r *Recorder) CompileShader(vs, fs string) (rlgl.ShaderID, error) {
	if err := r.fail(CmdCompileShader); err != nil {
		return 0, err
	}
	id := r.resources.AddShader(&ShaderResource{
		VertexSource:   vs,
		FragmentSource: fs,
		Locations:      shaderLocations(vs, fs),
		Values:         make(map[int][]byte),
	})
	r.record(CompileShaderCommand{ID: id, VertexSource: vs, FragmentSource: fs})
	return id, nil
}

// DestroyShader implements rlgl.Device.
func (r *Recorder) DestroyShader(id rlgl.ShaderID) {
	if r.resources.RemoveShader(id) {
		r.record(DestroyShaderCommand{ID: id})
	}
}

// UniformLocation implements rlgl.Device.
func (r *Recorder) UniformLocation(id rlgl.ShaderID, name string) int {
	sh := r.resources.Shader(id)
	if sh == nil {
		return -1
	}
	if loc, ok := sh.Locations[name]; ok {
		return loc
	}
	return -1
}

// AttribLocation implements rlgl.Device.
func (r *Recorder) AttribLocation(id rlgl.ShaderID, name string) int {
	if r.resources.Shader(id) == nil {
		return -1
	}
	if loc, ok := attribLocations[name]; ok {
		return loc
	}
	return -1
}

// SetUniform implements rlgl.Device.
func (r *Recorder) SetUniform(id rlgl.ShaderID, loc int, data []byte) error {
	if err := r.fail(CmdSetUniform); err != nil {
		return err
	}
	sh := r.resources.Shader(id)
	if sh == nil {
		return fmt.Errorf("%w: shader %d", ErrUnknownResource, id)
	}
	if loc < 0 || loc >= len(sh.Locations) {
		return fmt.Errorf("%w: location %d of shader %d", ErrOutOfRange, loc, id)
	}
	sh.Values[loc] = slices.Clone(data)
	r.record(SetUniformCommand{Shader: id, Location: loc, Data: slices.Clone(data)})
	return nil
}

// --------------------------------------------------------------------------
// Frame
// --------------------------------------------------------------------------

// unitByte converts a color channel in [0, 1] to 0..255.
func unitByte(f float32) uint8 {
	f = min(max(f, 0), 1)
	return uint8(f*255 + 0.5)
}

// Clear implements rlgl.Device. The color is remembered per target and
// returned by ReadPixels.
func (r *Recorder) Clear(target rlgl.RenderTargetID, color [4]float32) error {
	if err := r.fail(CmdClear); err != nil {
		return err
	}
	c := [4]uint8{unitByte(color[0]), unitByte(color[1]), unitByte(color[2]), unitByte(color[3])}
	if target == rlgl.Screen {
		r.screenClear = c
	} else {
		t := r.resources.Target(target)
		if t == nil {
			return fmt.Errorf("%w: target %d", ErrUnknownResource, target)
		}
		t.ClearColor = c
	}
	r.record(ClearCommand{Target: target, Color: color})
	return nil
}

// BeginPass implements rlgl.Device.
func (r *Recorder) BeginPass(desc rlgl.PassDesc) (rlgl.Pass, error) {
	if err := r.fail(CmdBeginPass); err != nil {
		return nil, err
	}
	if r.pass != nil {
		return nil, ErrPassActive
	}
	if desc.Slot < 0 || desc.Slot >= len(r.slots) {
		return nil, fmt.Errorf("%w: slot %d of %d", ErrOutOfRange, desc.Slot, len(r.slots))
	}
	if _, _, ok := r.targetSize(desc.Target); !ok {
		return nil, fmt.Errorf("%w: target %d", ErrUnknownResource, desc.Target)
	}
	r.pass = &recorderPass{r: r, vertices: r.slots[desc.Slot]}
	r.record(BeginPassCommand{Desc: desc})
	return r.pass, nil
}

// ReadPixels implements rlgl.Device. Every pixel reads as the last clear
// color of the target; draws are not rasterized.
func (r *Recorder) ReadPixels(target rlgl.RenderTargetID, region rlgl.Rect) ([]byte, error) {
	if err := r.fail(CmdReadPixels); err != nil {
		return nil, err
	}
	w, h, ok := r.targetSize(target)
	if !ok {
		return nil, fmt.Errorf("%w: target %d", ErrUnknownResource, target)
	}
	if region.Empty() || region.X < 0 || region.Y < 0 || region.X+region.Width > w || region.Y+region.Height > h {
		return nil, fmt.Errorf("%w: region %+v of %dx%d target", ErrOutOfRange, region, w, h)
	}
	c := r.screenClear
	if target != rlgl.Screen {
		c = r.resources.Target(target).ClearColor
	}
	pix := make([]byte, region.Width*region.Height*4)
	for i := 0; i < len(pix); i += 4 {
		copy(pix[i:i+4], c[:])
	}
	r.record(ReadPixelsCommand{Target: target, Region: region})
	return pix, nil
}

// SetDebugMarker implements rlgl.DebugMarker.
func (r *Recorder) SetDebugMarker(text string) {
	r.record(DebugMarkerCommand{Text: text})
}

// Destroy implements rlgl.Device. It releases every resource; the command
// log is kept.
func (r *Recorder) Destroy() {
	r.resources.Clear()
	r.slots = nil
	r.pass = nil
}

// recorderPass validates draws against the uploaded vertex count of its slot.
type recorderPass struct {
	r        *Recorder
	vertices int
	ended    bool
}

func (p *recorderPass) check(t CommandType) error {
	if p.ended {
		return ErrNoPass
	}
	return p.r.fail(t)
}

// SetShader implements rlgl.Pass.
func (p *recorderPass) SetShader(id rlgl.ShaderID, u rlgl.FrameUniforms) error {
	if err := p.check(CmdSetShader); err != nil {
		return err
	}
	if p.r.resources.Shader(id) == nil {
		return fmt.Errorf("%w: shader %d", ErrUnknownResource, id)
	}
	p.r.record(SetShaderCommand{ID: id, Uniforms: u})
	return nil
}

// BindTexture implements rlgl.Pass.
func (p *recorderPass) BindTexture(id rlgl.TextureID) error {
	if err := p.check(CmdBindTexture); err != nil {
		return err
	}
	if p.r.resources.Texture(id) == nil {
		return fmt.Errorf("%w: texture %d", ErrUnknownResource, id)
	}
	p.r.record(BindTextureCommand{ID: id})
	return nil
}

// DrawArrays implements rlgl.Pass.
func (p *recorderPass) DrawArrays(mode rlgl.Mode, first, count int) error {
	if err := p.check(CmdDrawArrays); err != nil {
		return err
	}
	if !mode.Valid() {
		return fmt.Errorf("%w: mode %d", ErrOutOfRange, mode)
	}
	if first < 0 || count <= 0 || first+count > p.vertices {
		return fmt.Errorf("%w: vertices [%d, %d) of %d", ErrOutOfRange, first, first+count, p.vertices)
	}
	p.r.record(DrawArraysCommand{Mode: mode, First: first, Count: count})
	return nil
}

// DrawIndexed implements rlgl.Pass.
func (p *recorderPass) DrawIndexed(firstIndex, indexCount int) error {
	if err := p.check(CmdDrawIndexed); err != nil {
		return err
	}
	end := firstIndex + indexCount
	if firstIndex < 0 || indexCount <= 0 || end > p.r.indexCount || (end+5)/6*4 > p.vertices {
		return fmt.Errorf("%w: indices [%d, %d) over %d vertices", ErrOutOfRange, firstIndex, end, p.vertices)
	}
	p.r.record(DrawIndexedCommand{First: firstIndex, Count: indexCount})
	return nil
}

// End implements rlgl.Pass.
func (p *recorderPass) End() error {
	if p.ended {
		return ErrNoPass
	}
	p.ended = true
	p.r.pass = nil
	if err := p.r.fail(CmdEndPass); err != nil {
		return err
	}
	p.r.record(EndPassCommand{})
	return nil
}

// Compile-time interface checks.
var (
	_ rlgl.Device              = (*Recorder)(nil)
	_ rlgl.MipmapGenerator     = (*Recorder)(nil)
	_ rlgl.TextureReader       = (*Recorder)(nil)
	_ rlgl.DebugMarker         = (*Recorder)(nil)
	_ rlgl.DepthTextureCreator = (*Recorder)(nil)
	_ rlgl.Pass                = (*recorderPass)(nil)
)
