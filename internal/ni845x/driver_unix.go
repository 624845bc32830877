//go:build !windows

package ni845x

import (
	"fmt"
	"runtime"

	"github.com/ebitengine/purego"
)

// Non-Windows binding of the vendor library via dlopen. NI ships the driver
// as Ni845x.dll on Windows and libni845x on Linux desktop systems; macOS
// has no official build, so the dylib name is a best-effort convention.

func libraryName() string {
	if runtime.GOOS == "darwin" {
		return "libni845x.dylib"
	}
	return "libni845x.so"
}

type unixDriver struct {
	statusToStringFn func(status int32, size uint32, buf *byte)

	findDeviceFn            func(first *byte, h *uintptr, count *uint32) int32
	findDeviceNextFn        func(h uintptr, next *byte) int32
	closeFindDeviceHandleFn func(h uintptr) int32
	openFn                  func(resource *byte, h *uintptr) int32
	closeFn                 func(h uintptr) int32
	setTimeoutFn            func(h uintptr, ms uint32) int32
	setIoVoltageLevelFn     func(h uintptr, code uint8) int32

	spiConfigurationOpenFn                func(h *uintptr) int32
	spiConfigurationCloseFn               func(h uintptr) int32
	spiConfigurationSetClockRateFn        func(h uintptr, kHz uint16) int32
	spiConfigurationSetChipSelectFn       func(h uintptr, line uint32) int32
	spiConfigurationSetPortFn             func(h uintptr, port uint8) int32
	spiConfigurationSetClockPolarityFn    func(h uintptr, polarity int32) int32
	spiConfigurationSetClockPhaseFn       func(h uintptr, phase int32) int32
	spiConfigurationSetNumBitsPerSampleFn func(h uintptr, bits uint16) int32
	spiWriteReadFn                        func(dev, cfg uintptr, size uint32, write *byte, readSize *uint32, read *byte) int32

	i2cConfigurationOpenFn           func(h *uintptr) int32
	i2cConfigurationCloseFn          func(h uintptr) int32
	i2cConfigurationSetAddressSizeFn func(h uintptr, size int32) int32
	i2cWriteFn                       func(dev, cfg uintptr, size uint32, data *byte) int32
	i2cReadFn                        func(dev, cfg uintptr, n uint32, readSize *uint32, buf *byte) int32

	dioSetPortLineDirectionMapFn func(h uintptr, port, dirs uint8) int32
	dioWritePortFn               func(h uintptr, port, value uint8) int32
	dioReadPortFn                func(h uintptr, port uint8, value *uint8) int32
}

func loadDriver() (driver, error) {
	name := libraryName()
	lib, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}

	d := &unixDriver{}
	purego.RegisterLibFunc(&d.statusToStringFn, lib, "ni845xStatusToString")

	purego.RegisterLibFunc(&d.findDeviceFn, lib, "ni845xFindDevice")
	purego.RegisterLibFunc(&d.findDeviceNextFn, lib, "ni845xFindDeviceNext")
	purego.RegisterLibFunc(&d.closeFindDeviceHandleFn, lib, "ni845xCloseFindDeviceHandle")
	purego.RegisterLibFunc(&d.openFn, lib, "ni845xOpen")
	purego.RegisterLibFunc(&d.closeFn, lib, "ni845xClose")
	purego.RegisterLibFunc(&d.setTimeoutFn, lib, "ni845xSetTimeout")
	purego.RegisterLibFunc(&d.setIoVoltageLevelFn, lib, "ni845xSetIoVoltageLevel")

	purego.RegisterLibFunc(&d.spiConfigurationOpenFn, lib, "ni845xSpiConfigurationOpen")
	purego.RegisterLibFunc(&d.spiConfigurationCloseFn, lib, "ni845xSpiConfigurationClose")
	purego.RegisterLibFunc(&d.spiConfigurationSetClockRateFn, lib, "ni845xSpiConfigurationSetClockRate")
	purego.RegisterLibFunc(&d.spiConfigurationSetChipSelectFn, lib, "ni845xSpiConfigurationSetChipSelect")
	purego.RegisterLibFunc(&d.spiConfigurationSetPortFn, lib, "ni845xSpiConfigurationSetPort")
	purego.RegisterLibFunc(&d.spiConfigurationSetClockPolarityFn, lib, "ni845xSpiConfigurationSetClockPolarity")
	purego.RegisterLibFunc(&d.spiConfigurationSetClockPhaseFn, lib, "ni845xSpiConfigurationSetClockPhase")
	purego.RegisterLibFunc(&d.spiConfigurationSetNumBitsPerSampleFn, lib, "ni845xSpiConfigurationSetNumBitsPerSample")
	purego.RegisterLibFunc(&d.spiWriteReadFn, lib, "ni845xSpiWriteRead")

	purego.RegisterLibFunc(&d.i2cConfigurationOpenFn, lib, "ni845xI2cConfigurationOpen")
	purego.RegisterLibFunc(&d.i2cConfigurationCloseFn, lib, "ni845xI2cConfigurationClose")
	purego.RegisterLibFunc(&d.i2cConfigurationSetAddressSizeFn, lib, "ni845xI2cConfigurationSetAddressSize")
	purego.RegisterLibFunc(&d.i2cWriteFn, lib, "ni845xI2cWrite")
	purego.RegisterLibFunc(&d.i2cReadFn, lib, "ni845xI2cRead")

	purego.RegisterLibFunc(&d.dioSetPortLineDirectionMapFn, lib, "ni845xDioSetPortLineDirectionMap")
	purego.RegisterLibFunc(&d.dioWritePortFn, lib, "ni845xDioWritePort")
	purego.RegisterLibFunc(&d.dioReadPortFn, lib, "ni845xDioReadPort")

	return d, nil
}

// bufPtr returns a pointer to the first element of b, or nil for empty
// slices so zero-length transfers never fabricate a pointer.
func bufPtr(b []byte) *byte {
	if len(b) == 0 {
		return nil
	}
	return &b[0]
}

func (d *unixDriver) statusToString(status Status, buf []byte) {
	d.statusToStringFn(int32(status), uint32(len(buf)), bufPtr(buf))
}

func (d *unixDriver) findDevice(first []byte) (Handle, uint32, Status) {
	var h uintptr
	var count uint32
	status := d.findDeviceFn(bufPtr(first), &h, &count)
	return Handle(h), count, Status(status)
}

func (d *unixDriver) findDeviceNext(h Handle, next []byte) Status {
	return Status(d.findDeviceNextFn(uintptr(h), bufPtr(next)))
}

func (d *unixDriver) closeFindDeviceHandle(h Handle) Status {
	return Status(d.closeFindDeviceHandleFn(uintptr(h)))
}

func (d *unixDriver) open(resource []byte) (Handle, Status) {
	var h uintptr
	status := d.openFn(bufPtr(resource), &h)
	return Handle(h), Status(status)
}

func (d *unixDriver) close(h Handle) Status {
	return Status(d.closeFn(uintptr(h)))
}

func (d *unixDriver) setTimeout(h Handle, ms uint32) Status {
	return Status(d.setTimeoutFn(uintptr(h), ms))
}

func (d *unixDriver) setIoVoltageLevel(h Handle, code uint8) Status {
	return Status(d.setIoVoltageLevelFn(uintptr(h), code))
}

func (d *unixDriver) spiConfigurationOpen() (Handle, Status) {
	var h uintptr
	status := d.spiConfigurationOpenFn(&h)
	return Handle(h), Status(status)
}

func (d *unixDriver) spiConfigurationClose(h Handle) Status {
	return Status(d.spiConfigurationCloseFn(uintptr(h)))
}

func (d *unixDriver) spiConfigurationSetClockRate(h Handle, kHz uint16) Status {
	return Status(d.spiConfigurationSetClockRateFn(uintptr(h), kHz))
}

func (d *unixDriver) spiConfigurationSetChipSelect(h Handle, line uint32) Status {
	return Status(d.spiConfigurationSetChipSelectFn(uintptr(h), line))
}

func (d *unixDriver) spiConfigurationSetPort(h Handle, port uint8) Status {
	return Status(d.spiConfigurationSetPortFn(uintptr(h), port))
}

func (d *unixDriver) spiConfigurationSetClockPolarity(h Handle, polarity int32) Status {
	return Status(d.spiConfigurationSetClockPolarityFn(uintptr(h), polarity))
}

func (d *unixDriver) spiConfigurationSetClockPhase(h Handle, phase int32) Status {
	return Status(d.spiConfigurationSetClockPhaseFn(uintptr(h), phase))
}

func (d *unixDriver) spiConfigurationSetNumBitsPerSample(h Handle, bits uint16) Status {
	return Status(d.spiConfigurationSetNumBitsPerSampleFn(uintptr(h), bits))
}

func (d *unixDriver) spiWriteRead(dev, cfg Handle, write []byte, readSize *uint32, read []byte) Status {
	return Status(d.spiWriteReadFn(uintptr(dev), uintptr(cfg), uint32(len(write)), bufPtr(write), readSize, bufPtr(read)))
}

func (d *unixDriver) i2cConfigurationOpen() (Handle, Status) {
	var h uintptr
	status := d.i2cConfigurationOpenFn(&h)
	return Handle(h), Status(status)
}

func (d *unixDriver) i2cConfigurationClose(h Handle) Status {
	return Status(d.i2cConfigurationCloseFn(uintptr(h)))
}

func (d *unixDriver) i2cConfigurationSetAddressSize(h Handle, size int32) Status {
	return Status(d.i2cConfigurationSetAddressSizeFn(uintptr(h), size))
}

func (d *unixDriver) i2cWrite(dev, cfg Handle, data []byte) Status {
	return Status(d.i2cWriteFn(uintptr(dev), uintptr(cfg), uint32(len(data)), bufPtr(data)))
}

func (d *unixDriver) i2cRead(dev, cfg Handle, n uint32, readSize *uint32, buf []byte) Status {
	return Status(d.i2cReadFn(uintptr(dev), uintptr(cfg), n, readSize, bufPtr(buf)))
}

func (d *unixDriver) dioSetPortLineDirectionMap(h Handle, port, dirs uint8) Status {
	return Status(d.dioSetPortLineDirectionMapFn(uintptr(h), port, dirs))
}

func (d *unixDriver) dioWritePort(h Handle, port, value uint8) Status {
	return Status(d.dioWritePortFn(uintptr(h), port, value))
}

func (d *unixDriver) dioReadPort(h Handle, port uint8, value *uint8) Status {
	return Status(d.dioReadPortFn(uintptr(h), port, value))
}
