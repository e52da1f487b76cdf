// Package rlgl provides an immediate-mode rendering API on top of a batching
// core.
//
// # Overview
//
// Calling code emits geometry one vertex at a time, in the style of legacy
// OpenGL 1.1: Begin a primitive, push vertex, texcoord and color attributes,
// End the primitive. The Context accumulates those vertices into CPU-side
// buffer slots and coalesces them into the fewest possible draw calls,
// grouped by primitive mode and bound texture. A software matrix stack
// transforms vertices while a matrix is pushed.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/rlgl"
//	    "github.com/gogpu/rlgl/backend/native"
//	)
//
//	dev, err := native.NewStandalone(800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Destroy()
//
//	ctx, err := rlgl.New(dev, 800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer ctx.Close()
//
//	ctx.MatrixMode(rlgl.Projection)
//	ctx.Ortho(0, 800, 600, 0, 0, 1)
//	ctx.MatrixMode(rlgl.Modelview)
//
//	ctx.Begin(rlgl.Quads)
//	ctx.Color4ub(230, 41, 55, 255)
//	ctx.Vertex2f(100, 100)
//	ctx.Vertex2f(100, 200)
//	ctx.Vertex2f(200, 200)
//	ctx.Vertex2f(200, 100)
//	ctx.End()
//
//	if err := ctx.Flush(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Batching
//
// Each buffer slot holds MaxBatchElements*4 vertices and a registry of draw
// calls. A new draw call opens when the primitive mode or the texture
// changes. Before Quads follow Lines or Triangles, the closed run is padded
// to a multiple of four vertices so the shared quad index buffer stays
// aligned. A slot is flushed when it is full, when its registry is full,
// when render state changes, or when Flush is called. Flushing replays the
// draw calls in recorded order and moves on to the next slot.
//
// # Devices
//
// A Context draws through a Device. backend/native implements Device on the
// wgpu HAL; recording implements it as a command log for tests and
// debugging.
//
// # Errors
//
// Immediate-mode calls never fail. Overflows and unsupported requests are
// logged (see SetLogger) and ignored. Construction, Flush, readback and
// shader value setters return errors.
package rlgl
