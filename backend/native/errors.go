//go:build !nogpu

package native

import "errors"

// Device errors.
var (
	// ErrNoGPU is returned when no adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNoHAL is returned when a provider does not expose hal types.
	ErrNoHAL = errors.New("native: provider does not expose hal device and queue")

	// ErrDestroyed is returned after Destroy.
	ErrDestroyed = errors.New("native: device destroyed")

	// ErrUnknownResource is returned for handles the device does not own.
	ErrUnknownResource = errors.New("native: unknown resource")

	// ErrOutOfRange is returned for slots, regions and locations outside
	// their bounds.
	ErrOutOfRange = errors.New("native: out of range")

	// ErrPassActive is returned by BeginPass while a pass is recording.
	ErrPassActive = errors.New("native: render pass already in progress")

	// ErrPassEnded is returned when a pass is used after End.
	ErrPassEnded = errors.New("native: render pass has already ended")

	// ErrNoShader is returned by draws issued before SetShader.
	ErrNoShader = errors.New("native: no shader set")

	// ErrShaderSource is returned for WGSL a program cannot be built from.
	ErrShaderSource = errors.New("native: invalid shader source")

	// ErrGPUTimeout is returned when a submission does not finish in time.
	ErrGPUTimeout = errors.New("native: GPU timeout")
)
