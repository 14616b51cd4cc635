// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package trace implements a driver that runs entirely on
// the host. Its resources are plain descriptions and its
// sink records each raw call instead of executing it.
// It is useful to dry-run validation and to inspect what
// a recorder would send to a real device.
package trace

import (
	"sync"

	"github.com/gviegas/safecmd/driver"
)

const driverName = "trace"

// Driver implements driver.Driver.
type Driver struct {
	mu   sync.Mutex
	lim  driver.Limits
	dev  *Device
	opts bool
}

func init() {
	driver.Register(&Driver{})
}

// New returns a driver whose device reports lim.
// It is not registered.
func New(lim driver.Limits) *Driver { return &Driver{lim: lim, opts: true} }

// Open implements driver.Driver.
func (d *Driver) Open() (driver.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev == nil {
		lim := d.lim
		if !d.opts {
			lim = driver.DefaultLimits()
		}
		d.dev = &Device{drv: d, lim: lim}
	}
	return d.dev, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements driver.Driver.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dev = nil
}

// Device implements driver.Device.
type Device struct {
	drv *Driver
	lim driver.Limits
}

// Driver implements driver.Device.
func (d *Device) Driver() driver.Driver { return d.drv }

// NewSink implements driver.Device.
func (d *Device) NewSink(secondary bool) (driver.Sink, error) {
	return NewSink(secondary), nil
}

// Limits implements driver.Device.
func (d *Device) Limits() driver.Limits { return d.lim }
