package rlgl

import (
	"fmt"
	"sort"
	"sync"
)

// DeviceFactory creates a device for a framebuffer of the given size.
// Factories are registered via RegisterDevice and called by NewDevice.
type DeviceFactory func(width, height int) (Device, error)

var (
	registryMu sync.RWMutex
	devices    = make(map[string]DeviceFactory)
)

// RegisterDevice registers a device factory with the given name.
// Device packages call it from init, following the database/sql driver
// pattern:
//
//	func init() {
//	    rlgl.RegisterDevice("native", func(w, h int) (rlgl.Device, error) {
//	        return NewStandalone(w, h)
//	    })
//	}
//
// RegisterDevice panics if factory is nil or the name is already taken.
func RegisterDevice(name string, factory DeviceFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("rlgl: RegisterDevice factory is nil")
	}
	if _, dup := devices[name]; dup {
		panic("rlgl: RegisterDevice called twice for " + name)
	}
	devices[name] = factory
}

// UnregisterDevice removes a device from the registry.
// If the device is not registered, this is a no-op.
func UnregisterDevice(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(devices, name)
}

// NewDevice creates a device by name. The error names the missing import
// when nothing is registered under name.
func NewDevice(name string, width, height int) (Device, error) {
	registryMu.RLock()
	factory, ok := devices[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("rlgl: unknown device %q (forgotten import?)", name)
	}
	d, err := factory(width, height)
	if err != nil {
		return nil, fmt.Errorf("rlgl: create %s device: %w", name, err)
	}
	return d, nil
}

// MustDevice is like NewDevice but panics on error.
func MustDevice(name string, width, height int) Device {
	d, err := NewDevice(name, width, height)
	if err != nil {
		panic(err)
	}
	return d
}

// Devices returns the registered device names in alphabetical order.
func Devices() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsDeviceRegistered reports whether a device with the given name exists.
func IsDeviceRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := devices[name]
	return ok
}
