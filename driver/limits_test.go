// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultLimits(t *testing.T) {
	lim := DefaultLimits()
	if err := lim.validate(); err != nil {
		t.Fatalf("DefaultLimits: %v", err)
	}
}

func TestLoadLimits(t *testing.T) {
	lim, err := LoadLimits(strings.NewReader(""))
	if err != nil {
		t.Fatalf("LoadLimits(empty): %v", err)
	}
	if lim != DefaultLimits() {
		t.Errorf("LoadLimits(empty)\nhave %+v\nwant %+v", lim, DefaultLimits())
	}

	const doc = `
max_viewports: 16
max_fb_size: [8192, 4096]
line_width: [1, 8]
max_draw_indirect: 1024
`
	lim, err = LoadLimits(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadLimits: %v", err)
	}
	want := DefaultLimits()
	want.MaxViewports = 16
	want.MaxFBSize = [2]int{8192, 4096}
	want.LineWidth = [2]float32{1, 8}
	want.MaxDrawIndirect = 1024
	if lim != want {
		t.Errorf("LoadLimits\nhave %+v\nwant %+v", lim, want)
	}

	for _, s := range [...]string{
		"max_viewports: 0",
		"max_dispatch: [1, -1, 1]",
		"line_width: [2, 1]",
		"line_width: [0, 1]",
		"max_viewport: 4",
		"max_viewports: [",
	} {
		if _, err := LoadLimits(strings.NewReader(s)); err == nil {
			t.Errorf("LoadLimits(%q)\nhave nil\nwant non-nil", s)
		}
	}
}

func TestReadLimits(t *testing.T) {
	name := filepath.Join(t.TempDir(), "limits.yaml")
	if err := os.WriteFile(name, []byte("max_color_targets: 8\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lim, err := ReadLimits(name)
	if err != nil {
		t.Fatalf("ReadLimits: %v", err)
	}
	if lim.MaxColorTargets != 8 {
		t.Errorf("ReadLimits: MaxColorTargets\nhave %d\nwant 8", lim.MaxColorTargets)
	}
	if _, err := ReadLimits(name + ".missing"); err == nil {
		t.Error("ReadLimits(missing file)\nhave nil\nwant non-nil")
	}
}
