package rlgl

import (
	"slices"
	"testing"
)

func TestQuadIndices(t *testing.T) {
	idx := quadIndices(3)
	if len(idx) != 18 {
		t.Fatalf("len = %d, want 18", len(idx))
	}
	want := []uint16{8, 9, 10, 8, 10, 11}
	if !slices.Equal(idx[12:], want) {
		t.Errorf("third quad = %v, want %v", idx[12:], want)
	}
	last := quadIndices(MaxBatchElementsLimit)
	if got := last[len(last)-1]; got != MaxBatchElementsLimit*4-1 {
		t.Errorf("last index = %d, want %d", got, MaxBatchElementsLimit*4-1)
	}
}

func TestVertexBufferEqualize(t *testing.T) {
	tests := []struct {
		name              string
		vertices, tc, col int
	}{
		{"positions only", 3, 0, 0},
		{"all streams", 4, 4, 4},
		{"partial", 4, 1, 2},
		{"surplus attributes", 2, 3, 3},
		{"empty", 0, 0, 0},
	}
	red := [4]uint8{255, 0, 0, 255}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newVertexBuffer(8, 4, 1)
			for range tt.vertices {
				b.pushPosition(1, 1, 1)
			}
			for range tt.tc {
				b.pushTexCoord(0.5, 0.5)
			}
			for range tt.col {
				b.pushColor([4]uint8{1, 2, 3, 4})
			}

			b.equalize(red)

			if b.tcCount != b.vCount || b.cCount != b.vCount {
				t.Fatalf("counts v=%d tc=%d c=%d", b.vCount, b.tcCount, b.cCount)
			}
			for i := tt.col; i < tt.vertices; i++ {
				if got := [4]uint8(b.colors[i*4 : i*4+4]); got != red {
					t.Errorf("filled color %d = %v, want %v", i, got, red)
				}
			}
			for i := tt.tc; i < tt.vertices; i++ {
				if b.texcoords[i*2] != 0 || b.texcoords[i*2+1] != 0 {
					t.Errorf("filled texcoord %d not zero", i)
				}
			}
		})
	}
}

func TestVertexBufferCapacity(t *testing.T) {
	b := newVertexBuffer(4, 4, 1)
	for i := range 4 {
		if !b.pushPosition(float32(i), 0, 0) {
			t.Fatalf("push %d refused", i)
		}
	}
	if !b.full() {
		t.Error("buffer of 4/4 not full")
	}
	if b.pushPosition(9, 9, 9) {
		t.Error("push past capacity accepted")
	}
	// Attribute streams keep one vertex of lookahead.
	for i := range 5 {
		if !b.pushTexCoord(0, 0) || !b.pushColor([4]uint8{}) {
			t.Fatalf("attribute %d refused", i)
		}
	}
	if b.pushTexCoord(0, 0) || b.pushColor([4]uint8{}) {
		t.Error("attribute past lookahead accepted")
	}
}

func TestVertexBufferPad(t *testing.T) {
	b := newVertexBuffer(8, 4, 1)
	for range 2 {
		b.pushPosition(5, 5, 5)
		b.pushColor([4]uint8{9, 9, 9, 9})
	}
	b.equalize([4]uint8{9, 9, 9, 9})
	b.pad(2)

	if b.vCount != 4 || b.tcCount != 4 || b.cCount != 4 {
		t.Fatalf("counts after pad v=%d tc=%d c=%d", b.vCount, b.tcCount, b.cCount)
	}
	if !slices.Equal(b.positions[6:12], make([]float32, 6)) {
		t.Errorf("padding positions = %v", b.positions[6:12])
	}
	if !slices.Equal(b.colors[8:16], make([]uint8, 8)) {
		t.Errorf("padding colors = %v", b.colors[8:16])
	}
}

func TestVertexBufferCutRestore(t *testing.T) {
	src := newVertexBuffer(4, 4, 1)
	for i := range 4 {
		src.pushPosition(float32(i), 0, 0)
		src.pushTexCoord(float32(i), 0)
		src.pushColor([4]uint8{uint8(i), 0, 0, 0})
	}
	// Lookahead attributes of the vertex that did not fit.
	src.pushTexCoord(4, 0)
	src.pushColor([4]uint8{4, 0, 0, 0})

	tail := src.cut(2)
	if src.vCount != 2 || src.tcCount != 2 || src.cCount != 2 {
		t.Fatalf("counts after cut v=%d tc=%d c=%d", src.vCount, src.tcCount, src.cCount)
	}

	dst := newVertexBuffer(4, 4, 1)
	if n := dst.restore(tail); n != 2 {
		t.Fatalf("restore = %d, want 2", n)
	}
	if dst.vCount != 2 || dst.tcCount != 3 || dst.cCount != 3 {
		t.Errorf("restored counts v=%d tc=%d c=%d", dst.vCount, dst.tcCount, dst.cCount)
	}
	if dst.positions[0] != 2 || dst.positions[3] != 3 {
		t.Errorf("restored positions = %v", dst.positions[:6])
	}
	if dst.texcoords[4] != 4 || dst.colors[8] != 4 {
		t.Error("lookahead attributes not carried over")
	}
}

func TestVertexBufferReset(t *testing.T) {
	b := newVertexBuffer(4, 4, 1)
	b.pushPosition(1, 1, 1)
	b.draws.push(Lines, 3)
	b.reset(5)
	if b.vCount != 0 || b.tcCount != 0 || b.cCount != 0 {
		t.Error("reset left counts")
	}
	if d := b.data(); d.VertexCount != 0 || len(d.Positions) != 0 {
		t.Errorf("data after reset = %+v", d)
	}
	if len(b.draws.calls) != 1 || b.draws.open().TextureID != 5 {
		t.Errorf("draws after reset = %+v", b.draws.calls)
	}
}
