// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Package vk implements a driver on top of the Vulkan API.
//
// The driver is only built with the vulkan build tag, since
// it requires cgo and the Vulkan loader.
//
// Resources are not allocated by this package. Instead,
// handles created by the application through Vulkan are
// wrapped by the Device, which takes ownership of them.
// Every resource given to a Sink must come from the same
// Device as the Sink.
package vk
