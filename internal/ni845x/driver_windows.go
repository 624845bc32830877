//go:build windows

package ni845x

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Windows binding of Ni845x.dll using pure Go syscalls (no CGO). Each method
// is a thin wrapper over one DLL entry point; status translation happens in
// the session layer.

type winDriver struct {
	dll *windows.LazyDLL

	procStatusToString        *windows.LazyProc
	procFindDevice            *windows.LazyProc
	procFindDeviceNext        *windows.LazyProc
	procCloseFindDeviceHandle *windows.LazyProc
	procOpen                  *windows.LazyProc
	procClose                 *windows.LazyProc
	procSetTimeout            *windows.LazyProc
	procSetIoVoltageLevel     *windows.LazyProc

	procSpiConfigurationOpen                *windows.LazyProc
	procSpiConfigurationClose               *windows.LazyProc
	procSpiConfigurationSetClockRate        *windows.LazyProc
	procSpiConfigurationSetChipSelect       *windows.LazyProc
	procSpiConfigurationSetPort             *windows.LazyProc
	procSpiConfigurationSetClockPolarity    *windows.LazyProc
	procSpiConfigurationSetClockPhase       *windows.LazyProc
	procSpiConfigurationSetNumBitsPerSample *windows.LazyProc
	procSpiWriteRead                        *windows.LazyProc

	procI2cConfigurationOpen           *windows.LazyProc
	procI2cConfigurationClose          *windows.LazyProc
	procI2cConfigurationSetAddressSize *windows.LazyProc
	procI2cWrite                       *windows.LazyProc
	procI2cRead                        *windows.LazyProc

	procDioSetPortLineDirectionMap *windows.LazyProc
	procDioWritePort               *windows.LazyProc
	procDioReadPort                *windows.LazyProc
}

func loadDriver() (driver, error) {
	dll := windows.NewLazyDLL("Ni845x.dll")
	if err := dll.Load(); err != nil {
		return nil, fmt.Errorf("load Ni845x.dll: %w", err)
	}

	return &winDriver{
		dll: dll,

		procStatusToString:        dll.NewProc("ni845xStatusToString"),
		procFindDevice:            dll.NewProc("ni845xFindDevice"),
		procFindDeviceNext:        dll.NewProc("ni845xFindDeviceNext"),
		procCloseFindDeviceHandle: dll.NewProc("ni845xCloseFindDeviceHandle"),
		procOpen:                  dll.NewProc("ni845xOpen"),
		procClose:                 dll.NewProc("ni845xClose"),
		procSetTimeout:            dll.NewProc("ni845xSetTimeout"),
		procSetIoVoltageLevel:     dll.NewProc("ni845xSetIoVoltageLevel"),

		procSpiConfigurationOpen:                dll.NewProc("ni845xSpiConfigurationOpen"),
		procSpiConfigurationClose:               dll.NewProc("ni845xSpiConfigurationClose"),
		procSpiConfigurationSetClockRate:        dll.NewProc("ni845xSpiConfigurationSetClockRate"),
		procSpiConfigurationSetChipSelect:       dll.NewProc("ni845xSpiConfigurationSetChipSelect"),
		procSpiConfigurationSetPort:             dll.NewProc("ni845xSpiConfigurationSetPort"),
		procSpiConfigurationSetClockPolarity:    dll.NewProc("ni845xSpiConfigurationSetClockPolarity"),
		procSpiConfigurationSetClockPhase:       dll.NewProc("ni845xSpiConfigurationSetClockPhase"),
		procSpiConfigurationSetNumBitsPerSample: dll.NewProc("ni845xSpiConfigurationSetNumBitsPerSample"),
		procSpiWriteRead:                        dll.NewProc("ni845xSpiWriteRead"),

		procI2cConfigurationOpen:           dll.NewProc("ni845xI2cConfigurationOpen"),
		procI2cConfigurationClose:          dll.NewProc("ni845xI2cConfigurationClose"),
		procI2cConfigurationSetAddressSize: dll.NewProc("ni845xI2cConfigurationSetAddressSize"),
		procI2cWrite:                       dll.NewProc("ni845xI2cWrite"),
		procI2cRead:                        dll.NewProc("ni845xI2cRead"),

		procDioSetPortLineDirectionMap: dll.NewProc("ni845xDioSetPortLineDirectionMap"),
		procDioWritePort:               dll.NewProc("ni845xDioWritePort"),
		procDioReadPort:                dll.NewProc("ni845xDioReadPort"),
	}, nil
}

// bufPtr returns a pointer to the first element of b, or nil for empty
// slices so zero-length transfers never fabricate a pointer.
func bufPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}

func (d *winDriver) statusToString(status Status, buf []byte) {
	d.procStatusToString.Call(
		uintptr(status),
		uintptr(uint32(len(buf))),
		uintptr(unsafe.Pointer(bufPtr(buf))),
	)
}

func (d *winDriver) findDevice(first []byte) (Handle, uint32, Status) {
	var h uintptr
	var count uint32
	r, _, _ := d.procFindDevice.Call(
		uintptr(unsafe.Pointer(bufPtr(first))),
		uintptr(unsafe.Pointer(&h)),
		uintptr(unsafe.Pointer(&count)),
	)
	return Handle(h), count, Status(r)
}

func (d *winDriver) findDeviceNext(h Handle, next []byte) Status {
	r, _, _ := d.procFindDeviceNext.Call(
		uintptr(h),
		uintptr(unsafe.Pointer(bufPtr(next))),
	)
	return Status(r)
}

func (d *winDriver) closeFindDeviceHandle(h Handle) Status {
	r, _, _ := d.procCloseFindDeviceHandle.Call(uintptr(h))
	return Status(r)
}

func (d *winDriver) open(resource []byte) (Handle, Status) {
	var h uintptr
	r, _, _ := d.procOpen.Call(
		uintptr(unsafe.Pointer(bufPtr(resource))),
		uintptr(unsafe.Pointer(&h)),
	)
	return Handle(h), Status(r)
}

func (d *winDriver) close(h Handle) Status {
	r, _, _ := d.procClose.Call(uintptr(h))
	return Status(r)
}

func (d *winDriver) setTimeout(h Handle, ms uint32) Status {
	r, _, _ := d.procSetTimeout.Call(uintptr(h), uintptr(ms))
	return Status(r)
}

func (d *winDriver) setIoVoltageLevel(h Handle, code uint8) Status {
	r, _, _ := d.procSetIoVoltageLevel.Call(uintptr(h), uintptr(code))
	return Status(r)
}

func (d *winDriver) spiConfigurationOpen() (Handle, Status) {
	var h uintptr
	r, _, _ := d.procSpiConfigurationOpen.Call(uintptr(unsafe.Pointer(&h)))
	return Handle(h), Status(r)
}

func (d *winDriver) spiConfigurationClose(h Handle) Status {
	r, _, _ := d.procSpiConfigurationClose.Call(uintptr(h))
	return Status(r)
}

func (d *winDriver) spiConfigurationSetClockRate(h Handle, kHz uint16) Status {
	r, _, _ := d.procSpiConfigurationSetClockRate.Call(uintptr(h), uintptr(kHz))
	return Status(r)
}

func (d *winDriver) spiConfigurationSetChipSelect(h Handle, line uint32) Status {
	r, _, _ := d.procSpiConfigurationSetChipSelect.Call(uintptr(h), uintptr(line))
	return Status(r)
}

func (d *winDriver) spiConfigurationSetPort(h Handle, port uint8) Status {
	r, _, _ := d.procSpiConfigurationSetPort.Call(uintptr(h), uintptr(port))
	return Status(r)
}

func (d *winDriver) spiConfigurationSetClockPolarity(h Handle, polarity int32) Status {
	r, _, _ := d.procSpiConfigurationSetClockPolarity.Call(uintptr(h), uintptr(polarity))
	return Status(r)
}

func (d *winDriver) spiConfigurationSetClockPhase(h Handle, phase int32) Status {
	r, _, _ := d.procSpiConfigurationSetClockPhase.Call(uintptr(h), uintptr(phase))
	return Status(r)
}

func (d *winDriver) spiConfigurationSetNumBitsPerSample(h Handle, bits uint16) Status {
	r, _, _ := d.procSpiConfigurationSetNumBitsPerSample.Call(uintptr(h), uintptr(bits))
	return Status(r)
}

func (d *winDriver) spiWriteRead(dev, cfg Handle, write []byte, readSize *uint32, read []byte) Status {
	r, _, _ := d.procSpiWriteRead.Call(
		uintptr(dev),
		uintptr(cfg),
		uintptr(uint32(len(write))),
		uintptr(unsafe.Pointer(bufPtr(write))),
		uintptr(unsafe.Pointer(readSize)),
		uintptr(unsafe.Pointer(bufPtr(read))),
	)
	return Status(r)
}

func (d *winDriver) i2cConfigurationOpen() (Handle, Status) {
	var h uintptr
	r, _, _ := d.procI2cConfigurationOpen.Call(uintptr(unsafe.Pointer(&h)))
	return Handle(h), Status(r)
}

func (d *winDriver) i2cConfigurationClose(h Handle) Status {
	r, _, _ := d.procI2cConfigurationClose.Call(uintptr(h))
	return Status(r)
}

func (d *winDriver) i2cConfigurationSetAddressSize(h Handle, size int32) Status {
	r, _, _ := d.procI2cConfigurationSetAddressSize.Call(uintptr(h), uintptr(size))
	return Status(r)
}

func (d *winDriver) i2cWrite(dev, cfg Handle, data []byte) Status {
	r, _, _ := d.procI2cWrite.Call(
		uintptr(dev),
		uintptr(cfg),
		uintptr(uint32(len(data))),
		uintptr(unsafe.Pointer(bufPtr(data))),
	)
	return Status(r)
}

func (d *winDriver) i2cRead(dev, cfg Handle, n uint32, readSize *uint32, buf []byte) Status {
	r, _, _ := d.procI2cRead.Call(
		uintptr(dev),
		uintptr(cfg),
		uintptr(n),
		uintptr(unsafe.Pointer(readSize)),
		uintptr(unsafe.Pointer(bufPtr(buf))),
	)
	return Status(r)
}

func (d *winDriver) dioSetPortLineDirectionMap(h Handle, port, dirs uint8) Status {
	r, _, _ := d.procDioSetPortLineDirectionMap.Call(uintptr(h), uintptr(port), uintptr(dirs))
	return Status(r)
}

func (d *winDriver) dioWritePort(h Handle, port, value uint8) Status {
	r, _, _ := d.procDioWritePort.Call(uintptr(h), uintptr(port), uintptr(value))
	return Status(r)
}

func (d *winDriver) dioReadPort(h Handle, port uint8, value *uint8) Status {
	r, _, _ := d.procDioReadPort.Call(
		uintptr(h),
		uintptr(port),
		uintptr(unsafe.Pointer(value)),
	)
	return Status(r)
}
