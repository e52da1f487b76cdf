package rlgl_test

import (
	"testing"

	"github.com/gogpu/rlgl"
	"github.com/gogpu/rlgl/recording"
)

const (
	testWidth  = 64
	testHeight = 48
)

// newContext creates a Context on a fresh Recorder and drops the setup
// commands so tests see only what they trigger.
func newContext(t *testing.T, opts ...rlgl.Option) (*rlgl.Context, *recording.Recorder) {
	t.Helper()
	return newContextOn(t, recording.NewRecorder(testWidth, testHeight), opts...)
}

func newContextOn(t *testing.T, rec *recording.Recorder, opts ...rlgl.Option) (*rlgl.Context, *recording.Recorder) {
	t.Helper()
	ctx, err := rlgl.New(rec, testWidth, testHeight, opts...)
	if err != nil {
		t.Fatalf("rlgl.New: %v", err)
	}
	rec.Reset()
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, rec
}

// commands returns the recorded commands of type T in order.
func commands[T recording.Command](rec *recording.Recorder) []T {
	var out []T
	for _, c := range rec.Commands() {
		if v, ok := c.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

// uploads returns the vertex count of every recorded upload.
func uploads(rec *recording.Recorder) []int {
	var n []int
	for _, up := range commands[recording.UploadBatchCommand](rec) {
		n = append(n, up.Data.VertexCount)
	}
	return n
}

// quad emits the four corners of a w x h rectangle at (x, y).
func quad(ctx *rlgl.Context, x, y, w, h float32) {
	ctx.Vertex2f(x, y)
	ctx.Vertex2f(x, y+h)
	ctx.Vertex2f(x+w, y+h)
	ctx.Vertex2f(x+w, y)
}

// loadTexture creates a 2x2 RGBA8 texture.
func loadTexture(t *testing.T, ctx *rlgl.Context) rlgl.Texture {
	t.Helper()
	tex := ctx.LoadTexture(make([]byte, 2*2*4), 2, 2, rlgl.PixelR8G8B8A8, 1)
	if tex.ID == 0 {
		t.Fatal("LoadTexture failed")
	}
	return tex
}
