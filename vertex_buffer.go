package rlgl

// vertexBuffer is one buffer slot: parallel attribute streams with
// independent fill counters plus the draw calls recorded into them.
//
// The texcoord and color streams hold one vertex more than the position
// stream so the attributes of a vertex that overflows the slot survive
// into the next slot.
type vertexBuffer struct {
	positions []float32 // 3 per vertex
	texcoords []float32 // 2 per vertex
	colors    []uint8   // 4 per vertex

	vCount, tcCount, cCount int
	capacity                int

	draws drawRegistry
}

func newVertexBuffer(capacity, maxDraws int, tex TextureID) *vertexBuffer {
	return &vertexBuffer{
		positions: make([]float32, capacity*3),
		texcoords: make([]float32, (capacity+1)*2),
		colors:    make([]uint8, (capacity+1)*4),
		capacity:  capacity,
		draws:     newDrawRegistry(maxDraws, tex),
	}
}

// quadIndices builds the shared index list drawing each 4-vertex quad as two
// triangles.
func quadIndices(quads int) []uint16 {
	idx := make([]uint16, quads*6)
	for q := range quads {
		k := uint16(q * 4) //nolint:gosec // quads <= MaxBatchElementsLimit
		i := q * 6
		idx[i+0] = k
		idx[i+1] = k + 1
		idx[i+2] = k + 2
		idx[i+3] = k
		idx[i+4] = k + 2
		idx[i+5] = k + 3
	}
	return idx
}

// full reports whether the position stream has no room left.
func (b *vertexBuffer) full() bool {
	return b.vCount >= b.capacity
}

func (b *vertexBuffer) pushPosition(x, y, z float32) bool {
	if b.vCount >= b.capacity {
		return false
	}
	i := b.vCount * 3
	b.positions[i], b.positions[i+1], b.positions[i+2] = x, y, z
	b.vCount++
	return true
}

func (b *vertexBuffer) pushTexCoord(u, v float32) bool {
	if b.tcCount > b.capacity {
		return false
	}
	i := b.tcCount * 2
	b.texcoords[i], b.texcoords[i+1] = u, v
	b.tcCount++
	return true
}

func (b *vertexBuffer) pushColor(c [4]uint8) bool {
	if b.cCount > b.capacity {
		return false
	}
	copy(b.colors[b.cCount*4:], c[:])
	b.cCount++
	return true
}

// equalize brings the texcoord and color counters to the vertex counter.
// Missing texcoords are zero, missing colors repeat c, surplus entries are
// discarded.
func (b *vertexBuffer) equalize(c [4]uint8) {
	for b.tcCount < b.vCount {
		i := b.tcCount * 2
		b.texcoords[i], b.texcoords[i+1] = 0, 0
		b.tcCount++
	}
	for b.cCount < b.vCount {
		copy(b.colors[b.cCount*4:], c[:])
		b.cCount++
	}
	b.tcCount = b.vCount
	b.cCount = b.vCount
}

// pad appends n zeroed vertices to all three streams. The caller equalizes
// the streams first and ensures the slot has room.
func (b *vertexBuffer) pad(n int) {
	for range n {
		i := b.vCount
		clear(b.positions[i*3 : i*3+3])
		clear(b.texcoords[i*2 : i*2+2])
		clear(b.colors[i*4 : i*4+4])
		b.vCount++
	}
	b.tcCount = b.vCount
	b.cCount = b.vCount
}

// vertexTail holds the attributes of trailing vertices moved between slots.
type vertexTail struct {
	positions []float32
	texcoords []float32
	colors    []uint8
}

// cut removes everything from vertex index from onward and returns it.
func (b *vertexBuffer) cut(from int) vertexTail {
	var t vertexTail
	if b.vCount > from {
		t.positions = append(t.positions, b.positions[from*3:b.vCount*3]...)
		b.vCount = from
	}
	if b.tcCount > from {
		t.texcoords = append(t.texcoords, b.texcoords[from*2:b.tcCount*2]...)
		b.tcCount = from
	}
	if b.cCount > from {
		t.colors = append(t.colors, b.colors[from*4:b.cCount*4]...)
		b.cCount = from
	}
	return t
}

// restore appends a tail taken from another slot. It reports the number of
// vertices restored.
func (b *vertexBuffer) restore(t vertexTail) int {
	n := 0
	for i := 0; i+2 < len(t.positions); i += 3 {
		if !b.pushPosition(t.positions[i], t.positions[i+1], t.positions[i+2]) {
			break
		}
		n++
	}
	for i := 0; i+1 < len(t.texcoords); i += 2 {
		b.pushTexCoord(t.texcoords[i], t.texcoords[i+1])
	}
	for i := 0; i+3 < len(t.colors); i += 4 {
		b.pushColor([4]uint8(t.colors[i : i+4]))
	}
	return n
}

// data returns the occupied prefix for upload.
func (b *vertexBuffer) data() BatchData {
	return BatchData{
		Positions:   b.positions[:b.vCount*3],
		TexCoords:   b.texcoords[:b.vCount*2],
		Colors:      b.colors[:b.vCount*4],
		VertexCount: b.vCount,
	}
}

// reset empties the streams and the registry.
func (b *vertexBuffer) reset(tex TextureID) {
	b.vCount, b.tcCount, b.cCount = 0, 0, 0
	b.draws.reset(tex)
}
