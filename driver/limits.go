// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Limits describes implementation limits.
// These may vary across drivers and devices.
type Limits struct {
	// Maximum number of descriptor sets that can be
	// bound at the same time.
	MaxDescSets int `yaml:"max_desc_sets"`
	// Maximum size in bytes of push constants.
	MaxPushConst int `yaml:"max_push_const"`

	// Maximum number of color render targets in a
	// subpass of a render pass.
	MaxColorTargets int `yaml:"max_color_targets"`
	// Maximum width/height for a framebuffer.
	MaxFBSize [2]int `yaml:"max_fb_size,flow"`
	// Maximum number of layers in a framebuffer.
	MaxFBLayers int `yaml:"max_fb_layers"`
	// Maximum number of viewports.
	MaxViewports int `yaml:"max_viewports"`
	// Range of valid line widths.
	LineWidth [2]float32 `yaml:"line_width,flow"`

	// Maximum number of vertex buffer bindings.
	MaxVertexBufs int `yaml:"max_vertex_bufs"`
	// Maximum draw count of indirect draws.
	MaxDrawIndirect int `yaml:"max_draw_indirect"`

	// Maximum dipatch count.
	MaxDispatch [3]int `yaml:"max_dispatch,flow"`
}

// DefaultLimits returns the limits that every conforming
// implementation is guaranteed to support.
func DefaultLimits() Limits {
	return Limits{
		MaxDescSets:     4,
		MaxPushConst:    128,
		MaxColorTargets: 4,
		MaxFBSize:       [2]int{4096, 4096},
		MaxFBLayers:     256,
		MaxViewports:    1,
		LineWidth:       [2]float32{1, 1},
		MaxVertexBufs:   16,
		MaxDrawIndirect: 1,
		MaxDispatch:     [3]int{65535, 65535, 65535},
	}
}

// LoadLimits decodes a YAML document from r.
// Fields not present in the document keep the values
// returned by DefaultLimits.
func LoadLimits(r io.Reader) (Limits, error) {
	lim := DefaultLimits()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&lim); err != nil && !errors.Is(err, io.EOF) {
		return Limits{}, errors.Wrap(err, "driver: failed to parse limits")
	}
	if err := lim.validate(); err != nil {
		return Limits{}, err
	}
	return lim, nil
}

// ReadLimits calls LoadLimits with the contents of the
// named file.
func ReadLimits(name string) (Limits, error) {
	f, err := os.Open(name)
	if err != nil {
		return Limits{}, errors.Wrap(err, "driver: failed to read limits")
	}
	defer f.Close()
	return LoadLimits(f)
}

// validate checks that lim has no nonsensical values.
func (lim *Limits) validate() error {
	for _, x := range [...]struct {
		name string
		val  int
	}{
		{"max_desc_sets", lim.MaxDescSets},
		{"max_push_const", lim.MaxPushConst},
		{"max_color_targets", lim.MaxColorTargets},
		{"max_fb_size[0]", lim.MaxFBSize[0]},
		{"max_fb_size[1]", lim.MaxFBSize[1]},
		{"max_fb_layers", lim.MaxFBLayers},
		{"max_viewports", lim.MaxViewports},
		{"max_vertex_bufs", lim.MaxVertexBufs},
		{"max_draw_indirect", lim.MaxDrawIndirect},
		{"max_dispatch[0]", lim.MaxDispatch[0]},
		{"max_dispatch[1]", lim.MaxDispatch[1]},
		{"max_dispatch[2]", lim.MaxDispatch[2]},
	} {
		if x.val < 1 {
			return errors.Newf("driver: limit %s must be positive (have %d)", x.name, x.val)
		}
	}
	if lim.LineWidth[0] <= 0 || lim.LineWidth[1] < lim.LineWidth[0] {
		return errors.Newf("driver: invalid line_width range %v", lim.LineWidth)
	}
	return nil
}
