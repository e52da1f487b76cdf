package rlgl

import (
	"log/slog"

	"github.com/gogpu/rlgl/raymath"
)

// matrixTarget names the matrix that matrix operations modify.
type matrixTarget uint8

const (
	targetProjection matrixTarget = iota
	targetModelview
	targetTransform
)

// matrixStack is the software matrix pipeline. Pushing in modelview mode
// routes further operations and vertex transforms through an auxiliary
// transform matrix until the stack returns to depth 0.
type matrixStack struct {
	projection raymath.Matrix
	modelview  raymath.Matrix
	transform  raymath.Matrix

	stack []raymath.Matrix // len == depth limit
	depth int

	mode        MatrixMode
	target      matrixTarget
	doTransform bool

	log *slog.Logger
}

func newMatrixStack(limit int, log *slog.Logger) matrixStack {
	return matrixStack{
		projection: raymath.Identity(),
		modelview:  raymath.Identity(),
		transform:  raymath.Identity(),
		stack:      make([]raymath.Matrix, limit),
		mode:       Modelview,
		target:     targetModelview,
		log:        log,
	}
}

// current returns the matrix selected by target.
func (s *matrixStack) current() *raymath.Matrix {
	switch s.target {
	case targetProjection:
		return &s.projection
	case targetTransform:
		return &s.transform
	default:
		return &s.modelview
	}
}

// setMode repoints the current matrix. Modelview always selects the
// modelview matrix; a pushed transform keeps applying to vertices but stops
// receiving operations until the next push.
func (s *matrixStack) setMode(m MatrixMode) {
	s.mode = m
	if m == Projection {
		s.target = targetProjection
	} else {
		s.target = targetModelview
	}
}

// push copies the current matrix onto the stack. It reports false and leaves
// the stack unchanged when the stack is full.
func (s *matrixStack) push() bool {
	if s.depth >= len(s.stack) {
		s.log.Warn("rlgl: matrix stack overflow, push ignored", "depth", s.depth)
		return false
	}
	if s.mode == Modelview {
		s.doTransform = true
		s.target = targetTransform
	}
	s.stack[s.depth] = *s.current()
	s.depth++
	return true
}

// pop restores the matrix on top of the stack. Reaching depth 0 in modelview
// mode stops transform routing.
func (s *matrixStack) pop() {
	if s.depth > 0 {
		s.depth--
		*s.current() = s.stack[s.depth]
	}
	if s.depth == 0 && s.mode == Modelview {
		s.target = targetModelview
		s.doTransform = false
	}
}

// unwind pops the whole stack. It runs before every forced flush because a
// flush does not preserve stack state.
func (s *matrixStack) unwind() {
	for {
		s.pop()
		if s.depth == 0 {
			break
		}
	}
	s.doTransform = false
	s.setMode(s.mode)
}

// compose right-multiplies the current matrix by op.
func (s *matrixStack) compose(op raymath.Matrix) {
	cur := s.current()
	*cur = raymath.Multiply(op, *cur)
}

// transformVertex applies the auxiliary transform when routing is active.
func (s *matrixStack) transformVertex(v raymath.Vector3) raymath.Vector3 {
	if !s.doTransform {
		return v
	}
	return v.Transform(s.transform)
}
