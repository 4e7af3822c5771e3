// vulkan_zoom.go - Vulkan instance/device bring-up for the zoom path.
//
// repaintZoom (zoom.go) always produces and presents the composited
// frame in software, matching render_zoomed_to_shm's SHM-backed
// approach in original_source/swc/libswc/compositor.c. This file only
// brings up a Vulkan instance, device and graphics queue, following the
// bring-up voodoo_vulkan.go performs for its own offscreen target. It
// uploads and presents nothing, and the Engine has no field that
// holds a VulkanZoomRenderer.

package chordwm

import (
	"fmt"
	"sync"

	vk "github.com/goki/vulkan"
)

var vulkanInitOnce sync.Once
var vulkanInitErr error

// VulkanZoomRenderer owns a minimal Vulkan instance/device pair and
// its graphics queue. It performs neither the per-view blit (that
// stays in zoom.go's software path) nor any upload or presentation of
// the zoom composite.
type VulkanZoomRenderer struct {
	instance       vk.Instance
	physicalDevice vk.PhysicalDevice
	device         vk.Device
	queue          vk.Queue
	queueFamily    uint32
}

// NewVulkanZoomRenderer brings up a Vulkan instance and device with a
// graphics-capable queue. Callers that cannot obtain a GPU context
// (headless CI, a machine with no Vulkan ICD) get an error and should
// fall back to the software-only zoom path.
func NewVulkanZoomRenderer() (*VulkanZoomRenderer, error) {
	vulkanInitOnce.Do(func() {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			vulkanInitErr = fmt.Errorf("load vulkan library: %w", err)
			return
		}
		vulkanInitErr = vk.Init()
	})
	if vulkanInitErr != nil {
		return nil, newError("NewVulkanZoomRenderer", "vulkan loader unavailable", vulkanInitErr)
	}

	r := &VulkanZoomRenderer{}
	if err := r.createInstance(); err != nil {
		return nil, err
	}
	if err := r.selectPhysicalDevice(); err != nil {
		return nil, err
	}
	if err := r.createDevice(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *VulkanZoomRenderer) createInstance() error {
	appInfo := vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		EngineVersion:      vk.MakeVersion(1, 0, 0),
		ApiVersion:         vk.MakeVersion(1, 1, 0),
	}
	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &appInfo,
	}
	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, nil, &instance); res != vk.Success {
		return newError("createInstance", fmt.Sprintf("vkCreateInstance failed: %d", res), nil)
	}
	r.instance = instance
	vk.InitInstance(instance)
	return nil
}

func (r *VulkanZoomRenderer) selectPhysicalDevice() error {
	var deviceCount uint32
	vk.EnumeratePhysicalDevices(r.instance, &deviceCount, nil)
	if deviceCount == 0 {
		return newError("selectPhysicalDevice", "no Vulkan-capable GPUs found", nil)
	}
	devices := make([]vk.PhysicalDevice, deviceCount)
	vk.EnumeratePhysicalDevices(r.instance, &deviceCount, devices)

	for _, device := range devices {
		var queueFamilyCount uint32
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, nil)
		queueFamilies := make([]vk.QueueFamilyProperties, queueFamilyCount)
		vk.GetPhysicalDeviceQueueFamilyProperties(device, &queueFamilyCount, queueFamilies)
		for i, qf := range queueFamilies {
			qf.Deref()
			if qf.QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) != 0 {
				r.physicalDevice = device
				r.queueFamily = uint32(i)
				return nil
			}
		}
	}
	return newError("selectPhysicalDevice", "no suitable GPU with graphics queue found", nil)
}

func (r *VulkanZoomRenderer) createDevice() error {
	priority := float32(1.0)
	queueCreateInfo := vk.DeviceQueueCreateInfo{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: r.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{priority},
	}
	deviceCreateInfo := vk.DeviceCreateInfo{
		SType:                vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount: 1,
		PQueueCreateInfos:    []vk.DeviceQueueCreateInfo{queueCreateInfo},
	}
	var device vk.Device
	if res := vk.CreateDevice(r.physicalDevice, &deviceCreateInfo, nil, &device); res != vk.Success {
		return newError("createDevice", fmt.Sprintf("vkCreateDevice failed: %d", res), nil)
	}
	r.device = device
	var queue vk.Queue
	vk.GetDeviceQueue(device, r.queueFamily, 0, &queue)
	r.queue = queue
	return nil
}

// Close tears down the device and instance.
func (r *VulkanZoomRenderer) Close() {
	if r.device != nil {
		vk.DeviceWaitIdle(r.device)
		vk.DestroyDevice(r.device, nil)
	}
	if r.instance != nil {
		vk.DestroyInstance(r.instance, nil)
	}
}
