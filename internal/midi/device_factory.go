package midi

import "fmt"

// GetDevice returns the appropriate Device implementation for the given type
func GetDevice(deviceType DeviceType) Device {
	switch deviceType {
	case DeviceTypeClassic:
		return &ClassicDevice{}
	case DeviceTypeGeneric:
		return &GenericDevice{}
	default:
		return &ColorfulDevice{}
	}
}

// ParseDeviceType validates a configured device type. Empty means colorful.
func ParseDeviceType(s string) (DeviceType, error) {
	switch t := DeviceType(s); t {
	case DeviceTypeClassic, DeviceTypeColorful, DeviceTypeGeneric:
		return t, nil
	case "":
		return DeviceTypeColorful, nil
	}
	return "", fmt.Errorf("unknown device type %q", s)
}
