package rlgl

import (
	"fmt"
	"log/slog"
)

// Default limits. They match the sizes the batching core was tuned for.
const (
	DefaultMaxBatchElements = 2048
	DefaultBufferCount      = 1
	DefaultMaxDrawCalls     = 256
	DefaultMatrixStackDepth = 32

	// MaxBatchElementsLimit keeps every quad index inside uint16.
	MaxBatchElementsLimit = 16384
)

// Option configures a Context during creation.
//
// Example:
//
//	ctx, err := rlgl.New(dev, 800, 600,
//	    rlgl.WithMaxBatchElements(4096),
//	    rlgl.WithBufferCount(3),
//	)
type Option func(*config)

// config holds the optional settings for Context creation.
type config struct {
	maxBatchElements int
	bufferCount      int
	maxDrawCalls     int
	stackDepth       int
	implicitFlush    bool
	logger           *slog.Logger
}

// defaultConfig returns the default context settings.
func defaultConfig() config {
	return config{
		maxBatchElements: DefaultMaxBatchElements,
		bufferCount:      DefaultBufferCount,
		maxDrawCalls:     DefaultMaxDrawCalls,
		stackDepth:       DefaultMatrixStackDepth,
		implicitFlush:    true,
		logger:           nil, // falls back to Logger()
	}
}

// validate reports the first out-of-range setting.
func (c *config) validate() error {
	switch {
	case c.maxBatchElements < 1 || c.maxBatchElements > MaxBatchElementsLimit:
		return fmt.Errorf("%w: max batch elements %d not in [1, %d]",
			ErrInvalidConfig, c.maxBatchElements, MaxBatchElementsLimit)
	case c.bufferCount < 1:
		return fmt.Errorf("%w: buffer count %d < 1", ErrInvalidConfig, c.bufferCount)
	case c.maxDrawCalls < 2:
		return fmt.Errorf("%w: max draw calls %d < 2", ErrInvalidConfig, c.maxDrawCalls)
	case c.stackDepth < 1:
		return fmt.Errorf("%w: matrix stack depth %d < 1", ErrInvalidConfig, c.stackDepth)
	}
	return nil
}

// WithMaxBatchElements sets the number of quads one buffer slot holds.
// Each slot stores n*4 vertices.
func WithMaxBatchElements(n int) Option {
	return func(c *config) {
		c.maxBatchElements = n
	}
}

// WithBufferCount sets the number of buffer slots used round-robin.
// One slot fully serializes CPU writes and GPU reads.
func WithBufferCount(n int) Option {
	return func(c *config) {
		c.bufferCount = n
	}
}

// WithMaxDrawCalls sets the draw call registry capacity per slot.
// Reaching it forces a flush.
func WithMaxDrawCalls(n int) Option {
	return func(c *config) {
		c.maxDrawCalls = n
	}
}

// WithMatrixStackDepth sets the maximum number of pushed matrices.
func WithMatrixStackDepth(n int) Option {
	return func(c *config) {
		c.stackDepth = n
	}
}

// WithImplicitFlush controls what Vertex does when the active slot is full.
// When enabled (the default) the batch is flushed mid-primitive and the
// primitive continues in the next slot. When disabled the vertex is dropped
// and the overflow is logged.
func WithImplicitFlush(enabled bool) Option {
	return func(c *config) {
		c.implicitFlush = enabled
	}
}

// WithLogger gives the Context its own logger instead of the package logger.
// The logger is also handed to the device when the device accepts one.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
