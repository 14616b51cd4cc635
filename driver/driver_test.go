// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver_test

import (
	"testing"

	"github.com/gviegas/safecmd/driver"
	_ "github.com/gviegas/safecmd/driver/trace"
)

type fakeDriver struct {
	name string
	id   int
}

func (d *fakeDriver) Open() (driver.Device, error) { return nil, driver.ErrNoDevice }
func (d *fakeDriver) Name() string                 { return d.name }
func (d *fakeDriver) Close()                       {}

func TestDrivers(t *testing.T) {
	drivers := driver.Drivers()
	for i := range drivers {
		name := drivers[i].Name()
		for j := range i {
			if name == drivers[j].Name() {
				t.Error("driver.Drivers: Driver.Name is not unique")
			}
		}
	}
	drivers2 := driver.Drivers()
	if len(drivers) != len(drivers2) {
		t.Error("driver.Drivers: length mismatch")
	} else {
		for i := range drivers {
			if drivers[i].Name() != drivers2[i].Name() {
				t.Error("driver.Drivers: Driver.Name mismatch")
			}
		}
	}
	drivers[0] = nil
	if driver.Drivers()[0] == nil {
		t.Error("driver.Drivers: returned slice aliases the registry")
	}
}

func TestLookup(t *testing.T) {
	if d, ok := driver.Lookup("trace"); !ok || d.Name() != "trace" {
		t.Errorf("driver.Lookup(\"trace\")\nhave %v, %t\nwant trace, true", d, ok)
	}
	if d, ok := driver.Lookup("no such driver"); ok || d != nil {
		t.Errorf("driver.Lookup: unexpected driver %v", d)
	}
}

func TestRegister(t *testing.T) {
	n := len(driver.Drivers())
	driver.Register(&fakeDriver{"fake", 1})
	if len(driver.Drivers()) != n+1 {
		t.Fatalf("driver.Register: driver not added")
	}
	driver.Register(&fakeDriver{"fake", 2})
	if len(driver.Drivers()) != n+1 {
		t.Fatalf("driver.Register: driver with same name added twice")
	}
	d, ok := driver.Lookup("fake")
	if !ok {
		t.Fatal("driver.Lookup: registered driver not found")
	}
	if id := d.(*fakeDriver).id; id != 2 {
		t.Errorf("driver.Register: driver not replaced\nhave id %d\nwant 2", id)
	}
}
