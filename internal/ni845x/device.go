package ni845x

import (
	"errors"
	"log/slog"
)

// Device is a live, exclusive session with one NI-845x adapter. It owns the
// device handle and every configuration created through it; Close releases
// them all.
type Device struct {
	resource string
	d        driver
	guard    handleGuard
	configs  []interface{ Close() error }
}

// FindDevices returns the resource names of all connected NI-845x adapters,
// in the order the driver reports them. It returns an empty list when the
// driver library is not installed.
func FindDevices() ([]string, error) {
	d, err := load()
	if err != nil {
		if errors.Is(err, ErrDriverUnavailable) {
			return nil, nil
		}
		return nil, err
	}
	return findDevices(d)
}

func findDevices(d driver) ([]string, error) {
	first := make([]byte, resourceNameLen)
	h, count, status := d.findDevice(first)
	if err := statusError(d, "ni845xFindDevice", status); err != nil {
		return nil, err
	}

	find := handleGuard{d: d, op: "ni845xCloseFindDeviceHandle", handle: h, release: d.closeFindDeviceHandle}
	defer func() {
		if err := find.close(); err != nil {
			slog.Warn("failed to close device enumeration handle", slog.Any("error", err))
		}
	}()

	if count == 0 {
		return nil, nil
	}

	devices := []string{cstring(first)}
	for i := uint32(1); i < count; i++ {
		next := make([]byte, resourceNameLen)
		if err := statusError(d, "ni845xFindDeviceNext", d.findDeviceNext(h, next)); err != nil {
			return nil, err
		}
		devices = append(devices, cstring(next))
	}
	return devices, nil
}

// Open opens a session to the adapter named by resource, e.g. "USB-8451".
func Open(resource string) (*Device, error) {
	d, err := load()
	if err != nil {
		return nil, &OpenError{Resource: resource, Err: err}
	}
	return openDevice(d, resource)
}

func openDevice(d driver, resource string) (*Device, error) {
	name := append([]byte(resource), 0)
	h, status := d.open(name)
	if err := statusError(d, "ni845xOpen", status); err != nil {
		return nil, &OpenError{Resource: resource, Err: err}
	}
	return &Device{
		resource: resource,
		d:        d,
		guard:    handleGuard{d: d, op: "ni845xClose", handle: h, release: d.close},
	}, nil
}

// Resource returns the resource name this session was opened with.
func (dev *Device) Resource() string { return dev.resource }

// SetTimeout sets the communication timeout in milliseconds. It bounds every
// subsequent transfer on this session; there is no per-call override.
func (dev *Device) SetTimeout(ms uint32) error {
	h, err := dev.guard.get()
	if err != nil {
		return err
	}
	return statusError(dev.d, "ni845xSetTimeout", dev.d.setTimeout(h, ms))
}

// SetIoVoltageLevel sets the IO voltage level, e.g. Voltage33.
func (dev *Device) SetIoVoltageLevel(code uint8) error {
	h, err := dev.guard.get()
	if err != nil {
		return err
	}
	return statusError(dev.d, "ni845xSetIoVoltageLevel", dev.d.setIoVoltageLevel(h, code))
}

// Close releases every configuration created through this session and then
// the device handle itself. It is idempotent; the first error encountered is
// returned.
func (dev *Device) Close() error {
	var first error
	for _, c := range dev.configs {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	dev.configs = nil
	if err := dev.guard.close(); err != nil && first == nil {
		first = err
	}
	return first
}
