package main

import (
	"fmt"

	"github.com/gogpu/rlgl"
)

// checkerSize is the side of the checker texture in texels.
const checkerSize = 8

// checker returns an RGBA8 checkerboard of two colors.
func checker(a, b [4]uint8) []byte {
	pix := make([]byte, 0, checkerSize*checkerSize*4)
	for y := range checkerSize {
		for x := range checkerSize {
			c := a
			if (x+y)%2 == 1 {
				c = b
			}
			pix = append(pix, c[:]...)
		}
	}
	return pix
}

// screenSpace sets a pixel projection with the origin at the top-left.
func screenSpace(ctx *rlgl.Context, w, h int) {
	ctx.MatrixMode(rlgl.Projection)
	ctx.LoadIdentity()
	ctx.Ortho(0, float64(w), float64(h), 0, 0, 1)
	ctx.MatrixMode(rlgl.Modelview)
	ctx.LoadIdentity()
}

// drawScene draws the demo into ctx, through a render texture when the
// config asks for one.
func drawScene(ctx *rlgl.Context, cfg Config) error {
	w, h := ctx.Width(), ctx.Height()
	bg := cfg.Scene.Background

	tex := ctx.LoadTexture(checker([4]uint8{230, 41, 55, 255}, [4]uint8{255, 255, 255, 255}), checkerSize, checkerSize, rlgl.PixelR8G8B8A8, 1)
	if tex.ID == 0 {
		return fmt.Errorf("load checker texture")
	}
	defer ctx.UnloadTexture(tex.ID)

	if !cfg.Scene.RenderTexture {
		ctx.ClearColor(bg[0], bg[1], bg[2], bg[3])
		ctx.ClearScreenBuffers()
		screenSpace(ctx, w, h)
		drawShapes(ctx, tex, w, h)
		return ctx.Flush()
	}

	rt := ctx.LoadRenderTexture(w, h, rlgl.PixelR8G8B8A8, cfg.Scene.DepthBits, false)
	if rt.ID == rlgl.Screen {
		return fmt.Errorf("load render texture")
	}
	defer ctx.UnloadRenderTexture(rt)

	ctx.EnableRenderTexture(rt)
	ctx.ClearColor(bg[0], bg[1], bg[2], bg[3])
	ctx.ClearScreenBuffers()
	screenSpace(ctx, w, h)
	drawShapes(ctx, tex, w, h)
	ctx.DisableRenderTexture()

	ctx.ClearColor(0, 0, 0, 255)
	ctx.ClearScreenBuffers()
	screenSpace(ctx, w, h)
	drawTexturedQuad(ctx, rt.Texture.ID, 0, 0, float32(w), float32(h), true)
	return ctx.Flush()
}

// drawShapes covers every primitive mode.
func drawShapes(ctx *rlgl.Context, tex rlgl.Texture, w, h int) {
	fw, fh := float32(w), float32(h)

	// Grid.
	ctx.Begin(rlgl.Lines)
	ctx.Color4ub(200, 200, 200, 255)
	for x := float32(0); x <= fw; x += 50 {
		ctx.Vertex2f(x, 0)
		ctx.Vertex2f(x, fh)
	}
	for y := float32(0); y <= fh; y += 50 {
		ctx.Vertex2f(0, y)
		ctx.Vertex2f(fw, y)
	}
	ctx.End()

	// Gradient triangle.
	ctx.Begin(rlgl.Triangles)
	ctx.Color4ub(230, 41, 55, 255)
	ctx.Vertex2f(fw*0.2, fh*0.2)
	ctx.Color4ub(0, 228, 48, 255)
	ctx.Vertex2f(fw*0.1, fh*0.8)
	ctx.Color4ub(0, 121, 241, 255)
	ctx.Vertex2f(fw*0.3, fh*0.8)
	ctx.End()

	// Checker quad.
	drawTexturedQuad(ctx, tex.ID, fw*0.4, fh*0.3, fh*0.4, fh*0.4, false)

	// Fan of rotated translucent squares.
	ctx.BeginBlendMode(rlgl.BlendAdditive)
	for i := range 6 {
		ctx.PushMatrix()
		ctx.Translatef(fw*0.8, fh*0.5, 0)
		ctx.Rotatef(float32(i)*15, 0, 0, 1)
		ctx.Begin(rlgl.Quads)
		ctx.Color4ub(uint8(40*i), 80, 255-uint8(40*i), 96) //nolint:gosec // i < 6
		ctx.Vertex2f(-40, -40)
		ctx.Vertex2f(-40, 40)
		ctx.Vertex2f(40, 40)
		ctx.Vertex2f(40, -40)
		ctx.End()
		ctx.PopMatrix()
	}
	ctx.EndBlendMode()
}

// drawTexturedQuad draws id over a rectangle. flipV samples the texture
// upside down, as render textures store their rows bottom-up.
func drawTexturedQuad(ctx *rlgl.Context, id rlgl.TextureID, x, y, w, h float32, flipV bool) {
	v0, v1 := float32(0), float32(1)
	if flipV {
		v0, v1 = 1, 0
	}
	ctx.EnableTexture(id)
	ctx.Begin(rlgl.Quads)
	ctx.Color4ub(255, 255, 255, 255)
	ctx.TexCoord2f(0, v0)
	ctx.Vertex2f(x, y)
	ctx.TexCoord2f(0, v1)
	ctx.Vertex2f(x, y+h)
	ctx.TexCoord2f(1, v1)
	ctx.Vertex2f(x+w, y+h)
	ctx.TexCoord2f(1, v0)
	ctx.Vertex2f(x+w, y)
	ctx.End()
	ctx.DisableTexture()
}
