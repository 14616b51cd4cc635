// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package driver defines the interfaces through which the
// validation layer consumes an underlying GPU API.
// Resources are exposed as queryable handles, and commands
// are encoded into a raw Sink that performs no checks of
// its own. Implementations are expected to be thin: all
// validation happens before a Sink method is called.
package driver

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
)

// Driver is the interface that provides methods for
// loading and unloading an underlying implementation.
type Driver interface {
	// Open initializes the driver.
	// If it succeeds, further calls with the same receiver
	// have no effect and must return the same Device.
	// Callers should assume that Open is not safe for
	// parallel execution.
	Open() (Device, error)

	// Name returns the name of the driver.
	// It must not cause the driver to be opened.
	Name() string

	// Close deinitializes the driver.
	// Closing a driver that is not open has no effect.
	// Callers should assume that Close is not safe for
	// parallel execution.
	Close()
}

// ErrNotInstalled means that a platform-specific library
// required for the driver to work is not present in the
// system.
var ErrNotInstalled = errors.New("driver: missing required library")

// ErrNoDevice means that no suitable device could be
// found.
var ErrNoDevice = errors.New("driver: no suitable device found")

// ErrNoHostMemory means that host memory could not be
// allocated.
var ErrNoHostMemory = errors.New("driver: out of host memory")

// ErrNoDeviceMemory means that device memory could not
// be allocated.
var ErrNoDeviceMemory = errors.New("driver: out of device memory")

// ErrFatal means that the driver is in an unrecoverable
// state. Upon encountering such an error, the application
// must destroy everything that it created using the
// driver's Device and then call the Close method. It may
// call Open again to reinitialize the driver for further use.
var ErrFatal = errors.New("driver: fatal error")

// Drivers returns the registered Drivers, in
// registration order.
// Driver packages register themselves from init, so
// client code must import the ones it intends to use.
func Drivers() []Driver {
	reg.Lock()
	defer reg.Unlock()
	drv := make([]Driver, len(reg.names))
	for i, name := range reg.names {
		drv[i] = reg.byName[name]
	}
	return drv
}

// Lookup returns the registered Driver with the given name.
func Lookup(name string) (Driver, bool) {
	reg.Lock()
	defer reg.Unlock()
	drv, ok := reg.byName[name]
	return drv, ok
}

// Register registers a Driver.
// Driver implementations are expected to call Register
// exactly once, from an init function.
// A driver registered under an existing name replaces
// the previous one but keeps its position.
func Register(drv Driver) {
	name := drv.Name()
	reg.Lock()
	defer reg.Unlock()
	if _, ok := reg.byName[name]; ok {
		slog.Warn("driver replaced", "driver", name)
	} else {
		reg.names = append(reg.names, name)
		slog.Debug("driver registered", "driver", name)
	}
	reg.byName[name] = drv
}

var reg = struct {
	sync.Mutex
	names  []string
	byName map[string]Driver
}{byName: make(map[string]Driver)}
