package rlgl

// DrawCall is one GPU draw covering a contiguous run of vertices that share
// a primitive mode and a texture. VertexAlignment vertices of padding follow
// the run inside the slot.
type DrawCall struct {
	Mode            Mode
	VertexCount     int
	VertexAlignment int
	TextureID       TextureID
}

// drawRegistry is the ordered draw call list of one buffer slot. The last
// entry is always the open one; it is never empty of entries.
type drawRegistry struct {
	calls []DrawCall
	limit int
}

func newDrawRegistry(limit int, tex TextureID) drawRegistry {
	r := drawRegistry{
		calls: make([]DrawCall, 0, limit),
		limit: limit,
	}
	r.reset(tex)
	return r
}

// open returns the entry that receives new vertices.
func (r *drawRegistry) open() *DrawCall {
	return &r.calls[len(r.calls)-1]
}

// full reports whether no further entry can be appended.
func (r *drawRegistry) full() bool {
	return len(r.calls) >= r.limit
}

// push appends a new empty open entry.
func (r *drawRegistry) push(mode Mode, tex TextureID) {
	r.calls = append(r.calls, DrawCall{Mode: mode, TextureID: tex})
}

// reset leaves a single empty Quads entry bound to tex.
func (r *drawRegistry) reset(tex TextureID) {
	r.calls = append(r.calls[:0], DrawCall{Mode: Quads, TextureID: tex})
}

// vertexTotal returns the slot vertices the registry accounts for.
func (r *drawRegistry) vertexTotal() int {
	n := 0
	for _, c := range r.calls {
		n += c.VertexCount + c.VertexAlignment
	}
	return n
}

// alignment returns the padding that brings a closed run of n vertices to a
// multiple of 4, keeping every later Quads run aligned with the shared quad
// index buffer. Complete line lists gain at most two vertices and never more
// than n; triangle lists reach the next multiple of 4; complete quad runs
// need none.
func alignment(n int) int {
	return (4 - n%4) % 4
}
