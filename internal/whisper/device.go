package whisper

import "whisperlib/internal/native"

// SelectGPU returns the first GPU-kind device in registry order.
func SelectGPU(devices []native.Device) (native.Device, bool) {
	for _, d := range devices {
		if d.Kind == native.DeviceKindGPU {
			return d, true
		}
	}
	return native.Device{}, false
}
