// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package trace

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/gviegas/safecmd/driver"
)

func TestRegistered(t *testing.T) {
	drv, ok := driver.Lookup("trace")
	if !ok {
		t.Fatal("driver.Lookup: trace driver not registered")
	}
	dev, err := drv.Open()
	if err != nil {
		t.Fatalf("Driver.Open: unexpected error: %v", err)
	}
	defer drv.Close()
	if dev.Driver() != drv {
		t.Error("Device.Driver: unexpected driver")
	}
	if have, want := dev.Limits(), driver.DefaultLimits(); have != want {
		t.Errorf("Device.Limits:\nhave %v\nwant %v", have, want)
	}
	if dev2, _ := drv.Open(); dev2 != dev {
		t.Error("Driver.Open: expected same device")
	}
}

func TestNew(t *testing.T) {
	lim, err := driver.LoadLimits(strings.NewReader("max_color_targets: 8\n"))
	if err != nil {
		t.Fatalf("driver.LoadLimits: unexpected error: %v", err)
	}
	drv := New(lim)
	dev, _ := drv.Open()
	if have := dev.Limits().MaxColorTargets; have != 8 {
		t.Errorf("Device.Limits().MaxColorTargets:\nhave %d\nwant 8", have)
	}
	s, err := dev.NewSink(true)
	if err != nil {
		t.Fatalf("Device.NewSink: unexpected error: %v", err)
	}
	if !s.(*Sink).Secondary() {
		t.Error("Sink.Secondary:\nhave false\nwant true")
	}
}

func TestSink(t *testing.T) {
	s := NewSink(false)
	if err := s.End(); !errors.Is(err, ErrNotBegun) {
		t.Errorf("Sink.End:\nhave %v\nwant %v", err, ErrNotBegun)
	}
	if err := s.Begin(); err != nil {
		t.Fatalf("Sink.Begin: unexpected error: %v", err)
	}
	if err := s.Begin(); !errors.Is(err, ErrBegun) {
		t.Errorf("Sink.Begin:\nhave %v\nwant %v", err, ErrBegun)
	}
	buf := NewBuffer(256, driver.UGeneric)
	s.Fill(buf, 0, 64, 0xff)
	s.Dispatch(1, 2, 3)
	s.EndPass()
	if err := s.End(); err != nil {
		t.Fatalf("Sink.End: unexpected error: %v", err)
	}
	if !s.Ended() {
		t.Error("Sink.Ended:\nhave false\nwant true")
	}
	want := []string{"Fill", "Dispatch", "EndPass"}
	names := s.Names()
	if len(names) != len(want) {
		t.Fatalf("Sink.Names:\nhave %v\nwant %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Sink.Names()[%d]:\nhave %s\nwant %s", i, names[i], want[i])
		}
	}
	if have, want := s.Ops()[1].String(), "Dispatch(1, 2, 3)"; have != want {
		t.Errorf("Op.String:\nhave %s\nwant %s", have, want)
	}
	if have, want := s.Ops()[2].String(), "EndPass()"; have != want {
		t.Errorf("Op.String:\nhave %s\nwant %s", have, want)
	}
}

func TestRef(t *testing.T) {
	img := NewImage(driver.RGBA8un, driver.Dim3D{Width: 64, Height: 32, Depth: 1}, 1, 3, 1, driver.URenderTarget)
	v := img.NewView(0, 1, 2)
	if have := img.Count(); have != 2 {
		t.Fatalf("Image.Count:\nhave %d\nwant 2", have)
	}
	if have, want := v.Size(), (driver.Dim3D{Width: 16, Height: 8, Depth: 1}); have != want {
		t.Errorf("ImageView.Size:\nhave %v\nwant %v", have, want)
	}
	img.Destroy()
	if img.Freed() {
		t.Error("Image.Freed: freed while a view is alive")
	}
	v.Destroy()
	if !v.Freed() || !img.Freed() {
		t.Error("ImageView.Destroy: expected view and image to be freed")
	}
	if v.ID() == img.ID() {
		t.Error("ImageView.ID: same as Image.ID")
	}
}

func TestFramebuf(t *testing.T) {
	img := NewImage(driver.D16un, driver.Dim3D{Width: 8, Height: 8, Depth: 1}, 1, 1, 1, driver.URenderTarget)
	v := img.NewView(0, 1, 0)
	fb, err := NewRenderPass().NewFB([]driver.ImageView{v}, 8, 8, 1)
	if err != nil {
		t.Fatalf("RenderPass.NewFB: unexpected error: %v", err)
	}
	if have := len(fb.(*Framebuf).Views()); have != 1 {
		t.Errorf("Framebuf.Views:\nhave %d views\nwant 1", have)
	}
}
