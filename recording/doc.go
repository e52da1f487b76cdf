// Package recording provides an rlgl.Device that records device calls as
// commands instead of rendering them.
//
// The recording device validates every call against an in-memory model of
// the resources it created, so it catches draws outside the uploaded
// vertices, binds of destroyed textures and uniform writes to unknown
// locations. It is the device used by rlgl's tests and by the -dry-run mode
// of cmd/rlgldemo.
//
// # Architecture
//
// The system follows a Command Pattern with three main components:
//
//   - Recorder: an rlgl.Device that captures calls as commands
//   - Recording: an immutable snapshot of commands and resources
//   - Playback: replays a Recording to any other rlgl.Device
//
// # Basic Usage
//
//	rec := recording.NewRecorder(800, 600)
//	ctx, err := rlgl.New(rec, 800, 600)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx.Begin(rlgl.Quads)
//	ctx.Vertex2f(0, 0)
//	ctx.Vertex2f(0, 10)
//	ctx.Vertex2f(10, 10)
//	ctx.Vertex2f(10, 0)
//	ctx.End()
//	_ = ctx.Flush()
//
//	r := rec.FinishRecording()
//	fmt.Println(r.Count(recording.CmdDrawIndexed)) // 1
//
// # Playback
//
// A Recording replays to any device. Texture, shader and render target
// handles are remapped to the ones the target device returns, and uniform
// locations are resolved again by name:
//
//	dev, _ := native.NewStandalone(800, 600)
//	if err := r.Playback(dev); err != nil {
//	    log.Fatal(err)
//	}
//
// # Readback
//
// Draws are not rasterized. ReadPixels returns the last clear color of the
// target for every pixel, and ReadTexture returns the uploaded level 0
// converted to RGBA8, including regions written by UpdateTexture.
//
// # Failure Injection
//
// FailOn makes every command of one type fail with a given error, which
// lets tests exercise the error paths of rlgl.Context:
//
//	rec.FailOn(recording.CmdUploadBatch, errors.New("device lost"))
//
// # Thread Safety
//
// Recorder is NOT safe for concurrent use. Recording objects are immutable
// and can be shared and played back from multiple goroutines.
package recording
