// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build vulkan

package vk

import (
	"github.com/cockroachdb/errors"
	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gviegas/safecmd/driver"
)

// checkResult returns an error derived from a VkResult value.
// If such value does not indicate an error, it returns nil instead.
func checkResult(res vulkan.Result) error {
	if res >= 0 {
		// Not an error: VK_ERROR_* values are all negative.
		return nil
	}
	switch res {
	case vulkan.ErrorOutOfHostMemory:
		return driver.ErrNoHostMemory
	case vulkan.ErrorOutOfDeviceMemory:
		return driver.ErrNoDeviceMemory
	case vulkan.ErrorIncompatibleDriver:
		return driver.ErrNotInstalled
	case vulkan.ErrorDeviceLost:
		return driver.ErrFatal
	}
	return errors.Wrap(vulkan.Error(res), "vk: unexpected result")
}
