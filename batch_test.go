package rlgl_test

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/gogpu/rlgl"
	"github.com/gogpu/rlgl/raymath"
	"github.com/gogpu/rlgl/recording"
)

func TestDrawCallPerModeRun(t *testing.T) {
	ctx, rec := newContext(t)
	def := ctx.DefaultTexture().ID

	ctx.Begin(rlgl.Quads)
	quad(ctx, 0, 0, 1, 1)
	quad(ctx, 2, 0, 1, 1)
	ctx.End()
	ctx.Begin(rlgl.Triangles)
	ctx.Vertex2f(0, 0)
	ctx.Vertex2f(1, 0)
	ctx.Vertex2f(1, 1)
	ctx.End()
	ctx.Begin(rlgl.Lines)
	for i := range 4 {
		ctx.Vertex2f(float32(i), 0)
	}
	ctx.End()
	ctx.Begin(rlgl.Quads)
	quad(ctx, 5, 5, 1, 1)
	ctx.End()

	want := []rlgl.DrawCall{
		{Mode: rlgl.Quads, VertexCount: 8, TextureID: def},
		{Mode: rlgl.Triangles, VertexCount: 3, VertexAlignment: 1, TextureID: def},
		{Mode: rlgl.Lines, VertexCount: 4, TextureID: def},
		{Mode: rlgl.Quads, VertexCount: 4, TextureID: def},
	}
	if got := ctx.DrawCalls(); !slices.Equal(got, want) {
		t.Fatalf("DrawCalls() = %+v\nwant %+v", got, want)
	}
	if v, _, _ := ctx.VertexCounts(); v != 20 {
		t.Errorf("vertices = %d, want 20 (19 emitted + 1 padding)", v)
	}

	if err := ctx.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	var draws []recording.Command
	for _, c := range rec.Commands() {
		switch c.(type) {
		case recording.DrawIndexedCommand, recording.DrawArraysCommand:
			draws = append(draws, c)
		}
	}
	wantDraws := []recording.Command{
		recording.DrawIndexedCommand{First: 0, Count: 12},
		recording.DrawArraysCommand{Mode: rlgl.Triangles, First: 8, Count: 3},
		recording.DrawArraysCommand{Mode: rlgl.Lines, First: 12, Count: 4},
		recording.DrawIndexedCommand{First: 24, Count: 6},
	}
	if !slices.Equal(draws, wantDraws) {
		t.Errorf("draws = %+v\nwant %+v", draws, wantDraws)
	}
	if got := ctx.Stats().DrawCalls; got != 4 {
		t.Errorf("Stats().DrawCalls = %d, want 4", got)
	}
}

// TestDrawCallRunsRandomized checks that random sequences of primitives
// produce one draw call per run of equal (mode, texture) and that the slot
// holds exactly the emitted vertices plus padding.
func TestDrawCallRunsRandomized(t *testing.T) {
	modes := []rlgl.Mode{rlgl.Lines, rlgl.Triangles, rlgl.Quads}
	perPrim := map[rlgl.Mode]int{rlgl.Lines: 2, rlgl.Triangles: 3, rlgl.Quads: 4}

	for seed := range uint64(20) {
		ctx, rec := newContext(t, rlgl.WithMaxBatchElements(1024))
		texA, texB := loadTexture(t, ctx), loadTexture(t, ctx)
		textures := []rlgl.TextureID{ctx.DefaultTexture().ID, texA.ID, texB.ID}
		rng := rand.New(rand.NewPCG(seed, 7))

		type run struct {
			mode  rlgl.Mode
			tex   rlgl.TextureID
			count int
		}
		var runs []run
		for range 40 {
			mode := modes[rng.IntN(len(modes))]
			tex := textures[rng.IntN(len(textures))]
			n := (1 + rng.IntN(5)) * perPrim[mode]

			ctx.EnableTexture(tex)
			ctx.Begin(mode)
			for i := range n {
				ctx.Vertex2f(float32(i), 0)
			}
			ctx.End()

			if k := len(runs) - 1; k >= 0 && runs[k].mode == mode && runs[k].tex == tex {
				runs[k].count += n
			} else {
				runs = append(runs, run{mode, tex, n})
			}
		}

		calls := ctx.DrawCalls()
		if len(calls) != len(runs) {
			t.Fatalf("seed %d: %d draw calls for %d runs", seed, len(calls), len(runs))
		}
		total := 0
		for i, dc := range calls {
			r := runs[i]
			if dc.Mode != r.mode || dc.TextureID != r.tex || dc.VertexCount != r.count {
				t.Errorf("seed %d: call %d = %+v, want run %+v", seed, i, dc, r)
			}
			wantPad := (4 - r.count%4) % 4
			if i == len(calls)-1 {
				wantPad = 0
			}
			if dc.VertexAlignment != wantPad {
				t.Errorf("seed %d: call %d alignment = %d, want %d", seed, i, dc.VertexAlignment, wantPad)
			}
			total += dc.VertexCount + dc.VertexAlignment
		}
		if v, _, _ := ctx.VertexCounts(); v != total {
			t.Errorf("seed %d: slot holds %d vertices, registry accounts for %d", seed, v, total)
		}

		rec.Reset()
		if err := ctx.Flush(); err != nil {
			t.Fatalf("seed %d: Flush: %v", seed, err)
		}
		binds := commands[recording.BindTextureCommand](rec)
		if len(binds) != len(runs) {
			t.Errorf("seed %d: %d binds for %d runs", seed, len(binds), len(runs))
		}
		for i := range min(len(binds), len(runs)) {
			if binds[i].ID != runs[i].tex {
				t.Errorf("seed %d: bind %d = %d, want %d", seed, i, binds[i].ID, runs[i].tex)
			}
		}
	}
}

func TestEqualizeAfterEnd(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 3))
	ctx, _ := newContext(t, rlgl.WithMaxBatchElements(4096))

	for range 200 {
		ctx.Begin(rlgl.Triangles)
		for range 3 * (1 + rng.IntN(4)) {
			switch rng.IntN(4) {
			case 0:
				ctx.TexCoord2f(rng.Float32(), rng.Float32())
			case 1:
				ctx.Color4ub(uint8(rng.IntN(256)), 0, 0, 255)
			case 2:
				ctx.TexCoord2f(0, 1)
				ctx.Color4f(1, 1, 1, 1)
			}
			ctx.Vertex2f(rng.Float32(), rng.Float32())
		}
		// Stray attributes after the last vertex.
		if rng.IntN(2) == 0 {
			ctx.Color3f(0, 1, 0)
		}
		ctx.End()

		v, tc, c := ctx.VertexCounts()
		if tc != v || c != v {
			t.Fatalf("after End: vertices=%d texcoords=%d colors=%d", v, tc, c)
		}
	}
}

func TestEqualizeRepeatsCurrentColor(t *testing.T) {
	ctx, rec := newContext(t)

	ctx.Begin(rlgl.Triangles)
	ctx.Color4ub(10, 20, 30, 40)
	ctx.Vertex2f(0, 0)
	ctx.Vertex2f(1, 0)
	ctx.Vertex2f(1, 1)
	ctx.End()
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}

	up := commands[recording.UploadBatchCommand](rec)[0]
	want := []uint8{10, 20, 30, 40, 10, 20, 30, 40, 10, 20, 30, 40}
	if !slices.Equal(up.Data.Colors, want) {
		t.Errorf("colors = %v, want %v", up.Data.Colors, want)
	}
	if !slices.Equal(up.Data.TexCoords, make([]float32, 6)) {
		t.Errorf("texcoords = %v, want zeros", up.Data.TexCoords)
	}
}

func TestImplicitFlushOnCapacity(t *testing.T) {
	const elements = 2 // 8 vertices per slot

	t.Run("quads", func(t *testing.T) {
		ctx, rec := newContext(t, rlgl.WithMaxBatchElements(elements))

		ctx.Begin(rlgl.Quads)
		for i := range elements*4 + 1 {
			ctx.Vertex2f(float32(i), 0)
		}
		if got := ctx.Stats().Flushes; got != 1 {
			t.Fatalf("flushes mid-primitive = %d, want 1", got)
		}
		ctx.End()
		if err := ctx.Flush(); err != nil {
			t.Fatal(err)
		}

		if got := uploads(rec); !slices.Equal(got, []int{8, 1}) {
			t.Errorf("uploads = %v, want [8 1]", got)
		}
		if got := ctx.Stats().DroppedVertices; got != 0 {
			t.Errorf("dropped = %d, want 0", got)
		}
	})

	t.Run("triangles carry the open primitive", func(t *testing.T) {
		ctx, rec := newContext(t, rlgl.WithMaxBatchElements(elements))

		ctx.Begin(rlgl.Triangles)
		for i := range 9 {
			ctx.Color4ub(uint8(i), 0, 0, 255)
			ctx.Vertex2f(float32(i), 0)
		}
		ctx.End()
		if err := ctx.Flush(); err != nil {
			t.Fatal(err)
		}

		if got := uploads(rec); !slices.Equal(got, []int{6, 3}) {
			t.Fatalf("uploads = %v, want [6 3]", got)
		}
		second := commands[recording.UploadBatchCommand](rec)[1]
		if second.Data.Positions[0] != 6 {
			t.Errorf("second slot starts at x=%v, want 6", second.Data.Positions[0])
		}
		if got := []uint8{second.Data.Colors[0], second.Data.Colors[4], second.Data.Colors[8]}; !slices.Equal(got, []uint8{6, 7, 8}) {
			t.Errorf("carried colors = %v, want [6 7 8]", got)
		}
		draws := commands[recording.DrawArraysCommand](rec)
		want := []recording.DrawArraysCommand{
			{Mode: rlgl.Triangles, First: 0, Count: 6},
			{Mode: rlgl.Triangles, First: 0, Count: 3},
		}
		if !slices.Equal(draws, want) {
			t.Errorf("draws = %+v, want %+v", draws, want)
		}
	})

	t.Run("disabled drops", func(t *testing.T) {
		ctx, _ := newContext(t, rlgl.WithMaxBatchElements(elements), rlgl.WithImplicitFlush(false))

		ctx.Begin(rlgl.Quads)
		for i := range elements*4 + 1 {
			ctx.Vertex2f(float32(i), 0)
		}
		if got := ctx.Stats().Flushes; got != 0 {
			t.Errorf("flushes = %d, want 0", got)
		}
		if got := ctx.Stats().DroppedVertices; got != 1 {
			t.Errorf("dropped = %d, want 1", got)
		}
		ctx.End()
	})
}

func TestEndFlushesNearCapacity(t *testing.T) {
	ctx, rec := newContext(t, rlgl.WithMaxBatchElements(4)) // 16 vertices

	ctx.Begin(rlgl.Quads)
	for range 3 {
		quad(ctx, 0, 0, 1, 1)
	}
	ctx.End() // 12 >= 16-4
	if got := ctx.Stats().Flushes; got != 1 {
		t.Errorf("flushes = %d, want 1", got)
	}
	if got := uploads(rec); !slices.Equal(got, []int{12}) {
		t.Errorf("uploads = %v, want [12]", got)
	}
}

func TestCheckBufferLimit(t *testing.T) {
	ctx, _ := newContext(t, rlgl.WithMaxBatchElements(2))
	if ctx.CheckBufferLimit(7) {
		t.Error("7 of 8 vertices reported over limit")
	}
	if !ctx.CheckBufferLimit(8) {
		t.Error("8 of 8 vertices not reported over limit")
	}
}

func TestEnableTextureCollapsesEmptyDrawCall(t *testing.T) {
	ctx, rec := newContext(t)
	a, b := loadTexture(t, ctx), loadTexture(t, ctx)

	ctx.EnableTexture(a.ID)
	ctx.EnableTexture(b.ID)

	calls := ctx.DrawCalls()
	if len(calls) != 1 || calls[0].TextureID != b.ID || calls[0].VertexCount != 0 {
		t.Fatalf("DrawCalls() = %+v, want a single empty entry for texture %d", calls, b.ID)
	}

	ctx.Begin(rlgl.Quads)
	quad(ctx, 0, 0, 1, 1)
	ctx.End()
	rec.Reset()
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}
	binds := commands[recording.BindTextureCommand](rec)
	if len(binds) != 1 || binds[0].ID != b.ID {
		t.Errorf("binds = %+v, want one bind of %d", binds, b.ID)
	}
}

func TestTextureSwitchEndToEnd(t *testing.T) {
	ctx, rec := newContext(t)
	a, b := loadTexture(t, ctx), loadTexture(t, ctx)

	ctx.EnableTexture(a.ID)
	ctx.Begin(rlgl.Quads)
	quad(ctx, 0, 0, 1, 1)
	ctx.EnableTexture(b.ID)
	quad(ctx, 2, 0, 1, 1)
	ctx.End()

	want := []rlgl.DrawCall{
		{Mode: rlgl.Quads, VertexCount: 4, TextureID: a.ID},
		{Mode: rlgl.Quads, VertexCount: 4, TextureID: b.ID},
	}
	if got := ctx.DrawCalls(); !slices.Equal(got, want) {
		t.Fatalf("DrawCalls() = %+v, want %+v", got, want)
	}

	rec.Reset()
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}
	var got []recording.Command
	for _, c := range rec.Commands() {
		switch c.(type) {
		case recording.BindTextureCommand, recording.DrawIndexedCommand:
			got = append(got, c)
		}
	}
	wantCmds := []recording.Command{
		recording.BindTextureCommand{ID: a.ID},
		recording.DrawIndexedCommand{First: 0, Count: 6},
		recording.BindTextureCommand{ID: b.ID},
		recording.DrawIndexedCommand{First: 6, Count: 6},
	}
	if !slices.Equal(got, wantCmds) {
		t.Errorf("commands = %+v, want %+v", got, wantCmds)
	}
}

func TestDisableTextureAppliesAtNextBegin(t *testing.T) {
	ctx, _ := newContext(t)
	a := loadTexture(t, ctx)

	ctx.EnableTexture(a.ID)
	ctx.Begin(rlgl.Quads)
	quad(ctx, 0, 0, 1, 1)
	ctx.End()
	ctx.DisableTexture()
	ctx.Begin(rlgl.Quads)
	quad(ctx, 0, 0, 1, 1)
	ctx.End()

	calls := ctx.DrawCalls()
	if len(calls) != 2 {
		t.Fatalf("DrawCalls() = %+v, want 2 entries", calls)
	}
	if calls[1].TextureID != ctx.DefaultTexture().ID {
		t.Errorf("second entry texture = %d, want default %d", calls[1].TextureID, ctx.DefaultTexture().ID)
	}
}

func TestDrawCallLimitFlushes(t *testing.T) {
	ctx, rec := newContext(t, rlgl.WithMaxDrawCalls(2))

	ctx.MatrixMode(rlgl.Modelview)
	ctx.PushMatrix()

	ctx.Begin(rlgl.Quads)
	quad(ctx, 0, 0, 1, 1)
	ctx.End()
	ctx.Begin(rlgl.Triangles)
	ctx.Vertex2f(0, 0)
	ctx.Vertex2f(1, 0)
	ctx.Vertex2f(1, 1)
	ctx.End()
	ctx.Begin(rlgl.Lines)

	if got := ctx.Stats().Flushes; got != 1 {
		t.Fatalf("flushes = %d, want 1", got)
	}
	if got := uploads(rec); !slices.Equal(got, []int{7}) {
		t.Errorf("uploads = %v, want [7]", got)
	}
	// A flush forced by Begin keeps the matrix stack.
	if got := ctx.StackDepth(); got != 1 {
		t.Errorf("stack depth = %d, want 1", got)
	}
	calls := ctx.DrawCalls()
	if len(calls) != 1 || calls[0].Mode != rlgl.Lines || calls[0].VertexCount != 0 {
		t.Errorf("DrawCalls() after flush = %+v", calls)
	}
	ctx.End()
	ctx.PopMatrix()
}

func TestTextureSwitchWithoutRoomFlushes(t *testing.T) {
	ctx, rec := newContext(t, rlgl.WithMaxBatchElements(4)) // 16 vertices
	a := loadTexture(t, ctx)
	rec.Reset()

	ctx.PushMatrix()
	ctx.Begin(rlgl.Lines)
	for i := range 13 {
		ctx.Vertex2f(float32(i), 0)
	}
	// 13 vertices plus 3 padding reach capacity.
	ctx.EnableTexture(a.ID)

	if got := uploads(rec); !slices.Equal(got, []int{13}) {
		t.Errorf("uploads = %v, want [13]", got)
	}
	// Flushes forced by a texture change unwind the matrix stack.
	if got := ctx.StackDepth(); got != 0 {
		t.Errorf("stack depth = %d, want 0", got)
	}
	calls := ctx.DrawCalls()
	if len(calls) != 1 || calls[0].TextureID != a.ID || calls[0].Mode != rlgl.Lines {
		t.Errorf("DrawCalls() = %+v", calls)
	}
	ctx.End()
}

func TestImplicitFlushUnwindsMatrixStack(t *testing.T) {
	ctx, _ := newContext(t, rlgl.WithMaxBatchElements(2))

	ctx.PushMatrix()
	ctx.PushMatrix()
	ctx.Begin(rlgl.Quads)
	for i := range 9 {
		ctx.Vertex2f(float32(i), 0)
	}
	ctx.End()

	if got := ctx.StackDepth(); got != 0 {
		t.Errorf("stack depth = %d, want 0", got)
	}
}

func TestBufferRotation(t *testing.T) {
	ctx, rec := newContext(t, rlgl.WithBufferCount(3))

	for range 4 {
		ctx.Begin(rlgl.Triangles)
		ctx.Vertex2f(0, 0)
		ctx.Vertex2f(1, 0)
		ctx.Vertex2f(1, 1)
		ctx.End()
		if err := ctx.Flush(); err != nil {
			t.Fatal(err)
		}
	}

	var slots []int
	for _, up := range commands[recording.UploadBatchCommand](rec) {
		slots = append(slots, up.Slot)
	}
	if !slices.Equal(slots, []int{0, 1, 2, 0}) {
		t.Errorf("upload slots = %v, want [0 1 2 0]", slots)
	}
	for i, bp := range commands[recording.BeginPassCommand](rec) {
		if bp.Desc.Slot != slots[i] {
			t.Errorf("pass %d drew slot %d, uploaded %d", i, bp.Desc.Slot, slots[i])
		}
	}
	if ctx.Slot() != 1 {
		t.Errorf("Slot() = %d, want 1", ctx.Slot())
	}
}

func TestEmptyFlushIsNoop(t *testing.T) {
	ctx, rec := newContext(t)
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}
	if len(rec.Commands()) != 0 || ctx.Stats().Flushes != 0 {
		t.Errorf("empty flush recorded %d commands", len(rec.Commands()))
	}
}

func TestVirtualDepth(t *testing.T) {
	ctx, rec := newContext(t)
	if ctx.Depth() != -1 {
		t.Fatalf("initial depth = %v, want -1", ctx.Depth())
	}

	ctx.Begin(rlgl.Triangles)
	ctx.Vertex2f(0, 0)
	ctx.Vertex2f(1, 0)
	ctx.Vertex2f(1, 1)
	ctx.End()
	step := ctx.Depth() + 1
	if step <= 0 || step > 1e-4 {
		t.Fatalf("depth step = %v", step)
	}

	ctx.Begin(rlgl.Triangles)
	ctx.Vertex2f(0, 0)
	ctx.Vertex2f(1, 0)
	ctx.Vertex2f(1, 1)
	ctx.End()
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}
	if ctx.Depth() != -1 {
		t.Errorf("depth after flush = %v, want -1", ctx.Depth())
	}

	pos := commands[recording.UploadBatchCommand](rec)[0].Data.Positions
	if pos[2] != -1 || pos[3*3+2] != -1+step {
		t.Errorf("z = %v and %v, want -1 and %v", pos[2], pos[3*3+2], -1+step)
	}
}

func TestPushedMatrixTransformsVertices(t *testing.T) {
	ctx, rec := newContext(t)

	ctx.PushMatrix()
	ctx.Translatef(10, 20, 0)
	ctx.Begin(rlgl.Quads)
	ctx.Vertex3f(1, 1, 0)
	ctx.Vertex3f(1, 2, 0)
	ctx.Vertex3f(2, 2, 0)
	ctx.Vertex3f(2, 1, 0)
	ctx.End()
	ctx.PopMatrix()

	ctx.Begin(rlgl.Quads)
	ctx.Vertex3f(1, 1, 0)
	ctx.Vertex3f(1, 2, 0)
	ctx.Vertex3f(2, 2, 0)
	ctx.Vertex3f(2, 1, 0)
	ctx.End()
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}

	pos := commands[recording.UploadBatchCommand](rec)[0].Data.Positions
	if pos[0] != 11 || pos[1] != 21 {
		t.Errorf("pushed vertex = (%v, %v), want (11, 21)", pos[0], pos[1])
	}
	if pos[12] != 1 || pos[13] != 1 {
		t.Errorf("popped vertex = (%v, %v), want (1, 1)", pos[12], pos[13])
	}
	if ctx.MatrixModelview() != raymath.Identity() {
		t.Error("pushed transform leaked into the modelview matrix")
	}
}

func TestFlushUploadsMVP(t *testing.T) {
	ctx, rec := newContext(t)

	ctx.MatrixMode(rlgl.Projection)
	ctx.LoadIdentity()
	ctx.Ortho(0, testWidth, testHeight, 0, 0, 1)
	ctx.MatrixMode(rlgl.Modelview)
	ctx.LoadIdentity()
	ctx.Translatef(3, 4, 0)

	ctx.Begin(rlgl.Triangles)
	ctx.Vertex2f(0, 0)
	ctx.Vertex2f(1, 0)
	ctx.Vertex2f(1, 1)
	ctx.End()
	if err := ctx.Flush(); err != nil {
		t.Fatal(err)
	}

	set := commands[recording.SetShaderCommand](rec)
	if len(set) != 1 {
		t.Fatalf("%d SetShader commands, want 1", len(set))
	}
	want := raymath.Multiply(ctx.MatrixModelview(), ctx.MatrixProjection())
	if set[0].Uniforms.MVP != want {
		t.Errorf("MVP = %+v, want %+v", set[0].Uniforms.MVP, want)
	}
	if set[0].Uniforms.ColDiffuse != [4]float32{1, 1, 1, 1} {
		t.Errorf("colDiffuse = %v", set[0].Uniforms.ColDiffuse)
	}
	if set[0].ID != ctx.DefaultShader().ID {
		t.Errorf("shader = %d, want default", set[0].ID)
	}
}

func TestMatrixOperationsComposeInOneOrder(t *testing.T) {
	ctx, _ := newContext(t)
	scale := raymath.Scale(2, 2, 2)
	ortho := raymath.Ortho(0, 10, 10, 0, -1, 1)
	frustum := raymath.Frustum(-1, 1, -1, 1, 1, 100)

	tests := []struct {
		name string
		op   func()
		want raymath.Matrix
	}{
		{"ortho", func() { ctx.Ortho(0, 10, 10, 0, -1, 1) }, ortho},
		{"frustum", func() { ctx.Frustum(-1, 1, -1, 1, 1, 100) }, frustum},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx.LoadIdentity()
			ctx.Translatef(10, 0, 0)
			tt.op()
			got := ctx.MatrixModelview()

			ctx.LoadIdentity()
			ctx.Translatef(10, 0, 0)
			ctx.MultMatrixf(tt.want.ToFloatV())
			if want := ctx.MatrixModelview(); got != want {
				t.Errorf("matrix = %+v, want %+v", got, want)
			}
		})
	}

	ctx.LoadIdentity()
	ctx.Translatef(10, 0, 0)
	ctx.MultMatrixf(scale.ToFloatV())
	viaMult := raymath.Vector3{X: 1}.Transform(ctx.MatrixModelview())

	ctx.LoadIdentity()
	ctx.Translatef(10, 0, 0)
	ctx.Scalef(2, 2, 2)
	viaScale := raymath.Vector3{X: 1}.Transform(ctx.MatrixModelview())

	if viaMult != viaScale || viaScale.X != 12 {
		t.Errorf("MultMatrixf gives x = %v, Scalef gives x = %v, want 12", viaMult.X, viaScale.X)
	}
}

func TestMatrixModeRepointsWhilePushed(t *testing.T) {
	ctx, _ := newContext(t)

	ctx.PushMatrix()
	ctx.MatrixMode(rlgl.Projection)
	ctx.MatrixMode(rlgl.Modelview)
	ctx.Translatef(5, 0, 0)
	if got := ctx.MatrixModelview().M12; got != 5 {
		t.Errorf("modelview translation = %v, want 5", got)
	}
	ctx.PopMatrix()
	if ctx.MatrixModelview() != raymath.Identity() {
		t.Error("pop did not restore the modelview matrix")
	}
}

func TestMatrixStackThroughContext(t *testing.T) {
	ctx, _ := newContext(t, rlgl.WithMatrixStackDepth(3))

	ctx.MatrixMode(rlgl.Projection)
	ctx.Ortho(0, 10, 10, 0, -1, 1)
	before := ctx.MatrixProjection()

	for n := 1; n <= 3; n++ {
		for range n {
			ctx.PushMatrix()
			ctx.Scalef(2, 3, 1)
			ctx.Rotatef(30, 0, 0, 1)
		}
		for range n {
			ctx.PopMatrix()
		}
		if got := ctx.MatrixProjection(); got != before {
			t.Errorf("n=%d: projection not restored", n)
		}
	}

	for range 5 {
		ctx.PushMatrix()
	}
	if got := ctx.StackDepth(); got != 3 {
		t.Errorf("stack depth after overflow = %d, want 3", got)
	}
}
