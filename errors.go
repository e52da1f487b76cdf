package rlgl

import "errors"

// Errors returned by Context construction, readback and shader value setters.
// The immediate-mode calls never return errors; they log and continue.
var (
	// ErrNilDevice is returned when New is called without a device.
	ErrNilDevice = errors.New("rlgl: device is nil")

	// ErrInvalidConfig is returned when an option is out of range.
	ErrInvalidConfig = errors.New("rlgl: invalid configuration")

	// ErrClosed is returned by operations on a closed Context.
	ErrClosed = errors.New("rlgl: context is closed")

	// ErrInvalidLocation is returned for a negative shader location.
	ErrInvalidLocation = errors.New("rlgl: invalid shader location")

	// ErrInvalidUniform is returned when a uniform value does not match its type.
	ErrInvalidUniform = errors.New("rlgl: invalid uniform value")

	// ErrUnsupported is returned when the device lacks an optional feature.
	ErrUnsupported = errors.New("rlgl: not supported by device")

	// ErrInvalidSize is returned for non-positive readback dimensions.
	ErrInvalidSize = errors.New("rlgl: invalid size")
)
