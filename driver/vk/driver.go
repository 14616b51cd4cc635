// Copyright 2022 Gustavo C. Viegas. All rights reserved.

//go:build vulkan

package vk

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/errors"
	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gviegas/safecmd/driver"
)

const driverName = "vulkan"

// Driver implements driver.Driver.
type Driver struct {
	mu  sync.Mutex
	dev *Device
}

func init() {
	driver.Register(&Driver{})
}

// Open implements driver.Driver.
func (d *Driver) Open() (driver.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev != nil {
		return d.dev, nil
	}
	if err := vulkan.SetDefaultGetInstanceProcAddr(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "vk: failed to load Vulkan"), driver.ErrNotInstalled)
	}
	if err := vulkan.Init(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "vk: failed to initialize Vulkan"), driver.ErrNotInstalled)
	}
	dev := &Device{drv: d}
	if err := dev.init(); err != nil {
		dev.destroy()
		return nil, err
	}
	d.dev = dev
	slog.Debug("device opened", "driver", driverName, "queue family", dev.qfam)
	return dev, nil
}

// Name implements driver.Driver.
func (d *Driver) Name() string { return driverName }

// Close implements driver.Driver.
func (d *Driver) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dev != nil {
		d.dev.destroy()
		d.dev = nil
	}
}

// Device implements driver.Device.
type Device struct {
	drv  *Driver
	inst vulkan.Instance
	pdev vulkan.PhysicalDevice
	dev  vulkan.Device
	qfam uint32
	pool vulkan.CommandPool
	lim  driver.Limits
}

// init creates the instance, the device and the command
// pool from which sinks are allocated.
func (d *Device) init() error {
	app := vulkan.ApplicationInfo{
		SType:            vulkan.StructureTypeApplicationInfo,
		PApplicationName: "safecmd\x00",
		PEngineName:      "safecmd\x00",
		ApiVersion:       vulkan.ApiVersion10,
	}
	instInfo := vulkan.InstanceCreateInfo{
		SType:            vulkan.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &app,
	}
	if err := checkResult(vulkan.CreateInstance(&instInfo, nil, &d.inst)); err != nil {
		return err
	}
	if err := vulkan.InitInstance(d.inst); err != nil {
		return errors.Wrap(err, "vk: failed to load instance procedures")
	}

	var n uint32
	if err := checkResult(vulkan.EnumeratePhysicalDevices(d.inst, &n, nil)); err != nil {
		return err
	}
	pdevs := make([]vulkan.PhysicalDevice, n)
	if err := checkResult(vulkan.EnumeratePhysicalDevices(d.inst, &n, pdevs)); err != nil {
		return err
	}
	found := false
	for _, pdev := range pdevs[:n] {
		if qfam, ok := queueFamily(pdev); ok {
			d.pdev, d.qfam, found = pdev, qfam, true
			break
		}
	}
	if !found {
		return driver.ErrNoDevice
	}

	devInfo := vulkan.DeviceCreateInfo{
		SType:                vulkan.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos: []vulkan.DeviceQueueCreateInfo{{
			SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: d.qfam,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		}},
	}
	if err := checkResult(vulkan.CreateDevice(d.pdev, &devInfo, nil, &d.dev)); err != nil {
		return err
	}
	poolInfo := vulkan.CommandPoolCreateInfo{
		SType:            vulkan.StructureTypeCommandPoolCreateInfo,
		Flags:            vulkan.CommandPoolCreateFlags(vulkan.CommandPoolCreateResetCommandBufferBit),
		QueueFamilyIndex: d.qfam,
	}
	if err := checkResult(vulkan.CreateCommandPool(d.dev, &poolInfo, nil, &d.pool)); err != nil {
		return err
	}
	d.lim = deviceLimits(d.pdev)
	return nil
}

// queueFamily returns the index of a queue family that
// supports both graphics and compute.
func queueFamily(pdev vulkan.PhysicalDevice) (uint32, bool) {
	var n uint32
	vulkan.GetPhysicalDeviceQueueFamilyProperties(pdev, &n, nil)
	props := make([]vulkan.QueueFamilyProperties, n)
	vulkan.GetPhysicalDeviceQueueFamilyProperties(pdev, &n, props)
	const want = vulkan.QueueFlags(vulkan.QueueGraphicsBit) | vulkan.QueueFlags(vulkan.QueueComputeBit)
	for i := range props[:n] {
		props[i].Deref()
		if props[i].QueueFlags&want == want {
			return uint32(i), true
		}
	}
	return 0, false
}

// deviceLimits queries the limits of pdev.
func deviceLimits(pdev vulkan.PhysicalDevice) driver.Limits {
	var props vulkan.PhysicalDeviceProperties
	vulkan.GetPhysicalDeviceProperties(pdev, &props)
	props.Deref()
	l := props.Limits
	l.Deref()
	return driver.Limits{
		MaxDescSets:     int(l.MaxBoundDescriptorSets),
		MaxPushConst:    int(l.MaxPushConstantsSize),
		MaxColorTargets: int(l.MaxColorAttachments),
		MaxFBSize:       [2]int{int(l.MaxFramebufferWidth), int(l.MaxFramebufferHeight)},
		MaxFBLayers:     int(l.MaxFramebufferLayers),
		MaxViewports:    int(l.MaxViewports),
		LineWidth:       l.LineWidthRange,
		MaxVertexBufs:   int(l.MaxVertexInputBindings),
		MaxDrawIndirect: int(l.MaxDrawIndirectCount),
		MaxDispatch: [3]int{
			int(l.MaxComputeWorkGroupCount[0]),
			int(l.MaxComputeWorkGroupCount[1]),
			int(l.MaxComputeWorkGroupCount[2]),
		},
	}
}

// destroy destroys everything that d created.
func (d *Device) destroy() {
	if d.dev != nil {
		vulkan.DeviceWaitIdle(d.dev)
		if d.pool != nil {
			vulkan.DestroyCommandPool(d.dev, d.pool, nil)
		}
		vulkan.DestroyDevice(d.dev, nil)
	}
	if d.inst != nil {
		vulkan.DestroyInstance(d.inst, nil)
	}
	*d = Device{drv: d.drv}
}

// Driver implements driver.Device.
func (d *Device) Driver() driver.Driver { return d.drv }

// Limits implements driver.Device.
func (d *Device) Limits() driver.Limits { return d.lim }

// Handle returns the VkDevice.
func (d *Device) Handle() vulkan.Device { return d.dev }

// QueueFamily returns the index of the queue family to
// which command buffers must be submitted.
func (d *Device) QueueFamily() uint32 { return d.qfam }

// NewSink implements driver.Device.
func (d *Device) NewSink(secondary bool) (driver.Sink, error) {
	level := vulkan.CommandBufferLevelPrimary
	if secondary {
		level = vulkan.CommandBufferLevelSecondary
	}
	info := vulkan.CommandBufferAllocateInfo{
		SType:              vulkan.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        d.pool,
		Level:              level,
		CommandBufferCount: 1,
	}
	cb := make([]vulkan.CommandBuffer, 1)
	if err := checkResult(vulkan.AllocateCommandBuffers(d.dev, &info, cb)); err != nil {
		return nil, err
	}
	return &Sink{d: d, cb: cb[0], secondary: secondary}, nil
}
