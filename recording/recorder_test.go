package recording

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/rlgl"
)

// newBatchedRecorder returns a recorder with one slot of 16 vertices.
func newBatchedRecorder(t *testing.T) *Recorder {
	t.Helper()
	rec := NewRecorder(64, 32)
	indices := make([]uint16, 16/4*6)
	if err := rec.CreateBatchBuffers(1, 16, indices); err != nil {
		t.Fatalf("CreateBatchBuffers: %v", err)
	}
	return rec
}

func batchOf(n int) rlgl.BatchData {
	return rlgl.BatchData{
		Positions:   make([]float32, n*3),
		TexCoords:   make([]float32, n*2),
		Colors:      make([]uint8, n*4),
		VertexCount: n,
	}
}

func TestNewRecorder(t *testing.T) {
	rec := NewRecorder(800, 600)

	if rec.Width() != 800 {
		t.Errorf("Width() = %d, want 800", rec.Width())
	}
	if rec.Height() != 600 {
		t.Errorf("Height() = %d, want 600", rec.Height())
	}
	if rec.Capabilities() != DefaultCapabilities() {
		t.Error("default capabilities not reported")
	}
	if len(rec.Commands()) != 0 {
		t.Errorf("new recorder has %d commands", len(rec.Commands()))
	}
}

func TestRecorderWithCapabilities(t *testing.T) {
	caps := rlgl.Capabilities{MaxDepthBits: 16}
	rec := NewRecorder(1, 1, WithCapabilities(caps))
	if rec.Capabilities() != caps {
		t.Errorf("Capabilities() = %+v, want %+v", rec.Capabilities(), caps)
	}
}

func TestRecorderRegistered(t *testing.T) {
	if !rlgl.IsDeviceRegistered("recording") {
		t.Fatal(`"recording" device not registered`)
	}
	dev, err := rlgl.NewDevice("recording", 10, 20)
	if err != nil {
		t.Fatalf("NewDevice: %v", err)
	}
	rec, ok := dev.(*Recorder)
	if !ok {
		t.Fatalf("NewDevice returned %T", dev)
	}
	if rec.Width() != 10 || rec.Height() != 20 {
		t.Errorf("size = %dx%d, want 10x20", rec.Width(), rec.Height())
	}
}

func TestRecorderUploadBatch(t *testing.T) {
	rec := newBatchedRecorder(t)

	if err := rec.UploadBatch(0, batchOf(8)); err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}
	if err := rec.UploadBatch(1, batchOf(1)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("UploadBatch(slot 1) = %v, want ErrOutOfRange", err)
	}
	if err := rec.UploadBatch(0, batchOf(17)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("UploadBatch(17 vertices) = %v, want ErrOutOfRange", err)
	}
	short := batchOf(4)
	short.Colors = short.Colors[:8]
	if err := rec.UploadBatch(0, short); !errors.Is(err, rlgl.ErrInvalidSize) {
		t.Errorf("UploadBatch(short colors) = %v, want ErrInvalidSize", err)
	}

	// The recorded data is a copy.
	data := batchOf(2)
	data.Positions[0] = 7
	if err := rec.UploadBatch(0, data); err != nil {
		t.Fatal(err)
	}
	data.Positions[0] = 99
	cmds := rec.Commands()
	up, ok := cmds[len(cmds)-1].(UploadBatchCommand)
	if !ok {
		t.Fatalf("last command is %T", cmds[len(cmds)-1])
	}
	if up.Data.Positions[0] != 7 || len(up.Data.Positions) != 6 {
		t.Errorf("recorded positions = %v", up.Data.Positions)
	}
}

func TestRecorderPassValidatesDraws(t *testing.T) {
	rec := newBatchedRecorder(t)
	sh, _ := rec.CompileShader("", "")
	tex, _ := rec.CreateTexture(rlgl.TextureDesc{Width: 1, Height: 1, Format: rlgl.PixelR8G8B8A8})
	if err := rec.UploadBatch(0, batchOf(8)); err != nil {
		t.Fatal(err)
	}

	pass, err := rec.BeginPass(rlgl.PassDesc{Slot: 0})
	if err != nil {
		t.Fatalf("BeginPass: %v", err)
	}
	if _, err := rec.BeginPass(rlgl.PassDesc{Slot: 0}); !errors.Is(err, ErrPassActive) {
		t.Errorf("nested BeginPass = %v, want ErrPassActive", err)
	}

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"set shader", func() error { return pass.SetShader(sh, rlgl.FrameUniforms{}) }, nil},
		{"unknown shader", func() error { return pass.SetShader(99, rlgl.FrameUniforms{}) }, ErrUnknownResource},
		{"bind texture", func() error { return pass.BindTexture(tex) }, nil},
		{"unknown texture", func() error { return pass.BindTexture(99) }, ErrUnknownResource},
		{"lines in range", func() error { return pass.DrawArrays(rlgl.Lines, 0, 8) }, nil},
		{"lines past upload", func() error { return pass.DrawArrays(rlgl.Lines, 4, 6) }, ErrOutOfRange},
		{"invalid mode", func() error { return pass.DrawArrays(rlgl.Mode(9), 0, 2) }, ErrOutOfRange},
		{"quads in range", func() error { return pass.DrawIndexed(6, 6) }, nil},
		{"quads past upload", func() error { return pass.DrawIndexed(12, 6) }, ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := pass.End(); err != nil {
		t.Fatalf("End: %v", err)
	}
	if err := pass.End(); !errors.Is(err, ErrNoPass) {
		t.Errorf("second End = %v, want ErrNoPass", err)
	}
	if err := pass.DrawArrays(rlgl.Lines, 0, 2); !errors.Is(err, ErrNoPass) {
		t.Errorf("draw after End = %v, want ErrNoPass", err)
	}
}

func TestRecorderUpdateAndReadTexture(t *testing.T) {
	rec := NewRecorder(1, 1)
	id, err := rec.CreateTexture(rlgl.TextureDesc{Width: 4, Height: 2, Format: rlgl.PixelR8G8B8A8})
	if err != nil {
		t.Fatal(err)
	}

	pix, err := rec.ReadTexture(id)
	if err != nil {
		t.Fatalf("ReadTexture: %v", err)
	}
	if !bytes.Equal(pix, make([]byte, 4*2*4)) {
		t.Error("empty texture does not read as zeros")
	}

	red := []byte{255, 0, 0, 255, 255, 0, 0, 255}
	if err := rec.UpdateTexture(id, rlgl.Rect{X: 1, Y: 1, Width: 2, Height: 1}, rlgl.PixelR8G8B8A8, red); err != nil {
		t.Fatalf("UpdateTexture: %v", err)
	}
	pix, _ = rec.ReadTexture(id)
	row1 := pix[4*4:]
	if !bytes.Equal(row1[4:12], red) {
		t.Errorf("row 1 = %v, want red at x=1..2", row1)
	}
	if row1[0] != 0 || pix[4] != 0 {
		t.Error("pixels outside the region changed")
	}

	if err := rec.UpdateTexture(id, rlgl.Rect{X: 3, Y: 0, Width: 2, Height: 1}, rlgl.PixelR8G8B8A8, red); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("update past edge = %v, want ErrOutOfRange", err)
	}
	if err := rec.UpdateTexture(id, rlgl.Rect{Width: 1, Height: 1}, rlgl.PixelGrayscale, []byte{1}); !errors.Is(err, ErrFormatMismatch) {
		t.Errorf("format mismatch = %v, want ErrFormatMismatch", err)
	}
	if err := rec.UpdateTexture(id, rlgl.Rect{Width: 2, Height: 1}, rlgl.PixelR8G8B8A8, red[:4]); !errors.Is(err, rlgl.ErrInvalidSize) {
		t.Errorf("short data = %v, want ErrInvalidSize", err)
	}
	if err := rec.UpdateTexture(99, rlgl.Rect{Width: 1, Height: 1}, rlgl.PixelR8G8B8A8, red); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("unknown texture = %v, want ErrUnknownResource", err)
	}
}

func TestRecorderGenerateMipmaps(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{1, 1, 1},
		{2, 2, 2},
		{256, 256, 9},
		{256, 64, 9},
		{100, 30, 7},
	}
	for _, tt := range tests {
		rec := NewRecorder(1, 1)
		id, _ := rec.CreateTexture(rlgl.TextureDesc{Width: tt.w, Height: tt.h, Format: rlgl.PixelR8G8B8A8})
		got, err := rec.GenerateMipmaps(id)
		if err != nil {
			t.Fatalf("GenerateMipmaps(%dx%d): %v", tt.w, tt.h, err)
		}
		if got != tt.want {
			t.Errorf("GenerateMipmaps(%dx%d) = %d, want %d", tt.w, tt.h, got, tt.want)
		}
		if rec.Resources().Texture(id).MipCount != tt.want {
			t.Errorf("MipCount not updated for %dx%d", tt.w, tt.h)
		}
	}
}

func TestRecorderDepthTexture(t *testing.T) {
	rec := NewRecorder(1, 1)
	id, err := rec.CreateDepthTexture(8, 8, 24)
	if err != nil {
		t.Fatal(err)
	}
	if got := rec.Resources().Texture(id).DepthBits; got != 24 {
		t.Errorf("DepthBits = %d, want 24", got)
	}
	if _, err := rec.ReadTexture(id); !errors.Is(err, rlgl.ErrUnsupported) {
		t.Errorf("ReadTexture(depth) = %v, want ErrUnsupported", err)
	}
}

func TestRecorderRenderTargetClearAndRead(t *testing.T) {
	rec := NewRecorder(4, 4)
	color, _ := rec.CreateTexture(rlgl.TextureDesc{Width: 2, Height: 2, Format: rlgl.PixelR8G8B8A8})

	if _, err := rec.CreateRenderTarget(rlgl.RenderTargetDesc{Width: 2, Height: 2, Color: 99}); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("target with unknown color = %v, want ErrUnknownResource", err)
	}
	rt, err := rec.CreateRenderTarget(rlgl.RenderTargetDesc{Width: 2, Height: 2, Color: color})
	if err != nil {
		t.Fatal(err)
	}

	if err := rec.Clear(rlgl.Screen, [4]float32{1, 0, 0, 1}); err != nil {
		t.Fatal(err)
	}
	if err := rec.Clear(rt, [4]float32{0, 0, 1, 0.5}); err != nil {
		t.Fatal(err)
	}

	pix, err := rec.ReadPixels(rlgl.Screen, rlgl.Rect{Width: 2, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pix, []byte{255, 0, 0, 255, 255, 0, 0, 255}) {
		t.Errorf("screen pixels = %v", pix)
	}
	pix, err = rec.ReadPixels(rt, rlgl.Rect{Width: 1, Height: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pix, []byte{0, 0, 255, 128}) {
		t.Errorf("target pixels = %v", pix)
	}

	if _, err := rec.ReadPixels(rt, rlgl.Rect{Width: 3, Height: 1}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("read past target = %v, want ErrOutOfRange", err)
	}
	rec.DestroyRenderTarget(rt)
	if _, err := rec.ReadPixels(rt, rlgl.Rect{Width: 1, Height: 1}); !errors.Is(err, ErrUnknownResource) {
		t.Errorf("read destroyed target = %v, want ErrUnknownResource", err)
	}
}

func TestRecorderShaderLocations(t *testing.T) {
	rec := NewRecorder(1, 1)
	def, _ := rec.CompileShader("", "")

	if got := rec.UniformLocation(def, rlgl.UniformNameMVP); got != 0 {
		t.Errorf("mvp location = %d, want 0", got)
	}
	if got := rec.UniformLocation(def, rlgl.UniformNameColDiffuse); got != 3 {
		t.Errorf("colDiffuse location = %d, want 3", got)
	}
	if got := rec.UniformLocation(def, "time"); got != -1 {
		t.Errorf("unknown uniform location = %d, want -1", got)
	}
	if got := rec.AttribLocation(def, rlgl.AttribNameColor); got != rlgl.AttribColor {
		t.Errorf("color attribute = %d, want %d", got, rlgl.AttribColor)
	}
	if got := rec.AttribLocation(99, rlgl.AttribNameColor); got != -1 {
		t.Errorf("attribute of unknown shader = %d, want -1", got)
	}

	fs := `#version 330
uniform sampler2D texture0;
uniform highp float time;
uniform vec2 resolution;
void main() {}`
	custom, _ := rec.CompileShader("", fs)
	timeLoc := rec.UniformLocation(custom, "time")
	resLoc := rec.UniformLocation(custom, "resolution")
	if timeLoc != len(defaultUniforms) || resLoc != timeLoc+1 {
		t.Errorf("time=%d resolution=%d, want %d and %d", timeLoc, resLoc, len(defaultUniforms), len(defaultUniforms)+1)
	}
	if got := rec.UniformLocation(custom, rlgl.UniformNameTexture0); got != 4 {
		t.Errorf("texture0 location = %d, want 4", got)
	}

	wgsl := `@group(0) @binding(0) var<uniform> params: Params;`
	if locs := shaderLocations(wgsl, ""); locs["params"] != len(defaultUniforms) {
		t.Errorf("wgsl uniform location = %d", locs["params"])
	}

	if err := rec.SetUniform(custom, timeLoc, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetUniform: %v", err)
	}
	if got := rec.Resources().Shader(custom).Values[timeLoc]; !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("stored value = %v", got)
	}
	if err := rec.SetUniform(custom, 50, nil); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SetUniform(50) = %v, want ErrOutOfRange", err)
	}
}

func TestRecorderFailOn(t *testing.T) {
	rec := newBatchedRecorder(t)
	boom := errors.New("device lost")

	rec.FailOn(CmdUploadBatch, boom)
	if err := rec.UploadBatch(0, batchOf(4)); !errors.Is(err, boom) {
		t.Errorf("UploadBatch = %v, want injected error", err)
	}
	rec.FailOn(CmdUploadBatch, nil)
	if err := rec.UploadBatch(0, batchOf(4)); err != nil {
		t.Errorf("UploadBatch after clearing failure = %v", err)
	}

	rec.FailOn(CmdEndPass, boom)
	pass, err := rec.BeginPass(rlgl.PassDesc{})
	if err != nil {
		t.Fatal(err)
	}
	if err := pass.End(); !errors.Is(err, boom) {
		t.Errorf("End = %v, want injected error", err)
	}
	// A failed End still closes the pass.
	if _, err := rec.BeginPass(rlgl.PassDesc{}); err != nil {
		t.Errorf("BeginPass after failed End = %v", err)
	}
}

func TestRecorderResetAndFinish(t *testing.T) {
	rec := NewRecorder(2, 2)
	rec.SetDebugMarker("frame")

	r := rec.FinishRecording()
	rec.SetDebugMarker("later")

	if len(r.Commands()) != 1 {
		t.Errorf("recording has %d commands, want 1", len(r.Commands()))
	}
	if r.Width() != 2 || r.Height() != 2 {
		t.Errorf("recording size = %dx%d", r.Width(), r.Height())
	}

	rec.Reset()
	if len(rec.Commands()) != 0 {
		t.Errorf("Reset left %d commands", len(rec.Commands()))
	}
}
