// Package ni845x wraps the National Instruments NI-845x driver library,
// exposing device sessions, SPI/I2C configurations, and SPI/I2C/DIO
// transfers through plain Go types.
//
// The driver is loaded lazily on first use. When the library is not
// installed, Available reports false and the package-level entry points
// return ErrDriverUnavailable; callers are expected to fall back to a
// simulated backend rather than abort.
//
// Sessions, configurations, and their transfers are not safe for concurrent
// use; callers issue one operation at a time per session.
package ni845x

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Handle is an opaque resource identifier returned by the driver. It is
// meaningless outside the process and only ever moves through a handleGuard.
type Handle uintptr

// Status is a raw driver status code. Zero means success.
type Status int32

const noError Status = 0

// Generic function arguments from ni845x.h.
const (
	OpenDrain uint8 = 0
	PushPull  uint8 = 1

	Voltage33 uint8 = 33
	Voltage25 uint8 = 25
	Voltage18 uint8 = 18
	Voltage15 uint8 = 15
	Voltage12 uint8 = 12
)

// SPI function arguments.
const (
	SpiClockPolarityIdleLow  int32 = 0
	SpiClockPolarityIdleHigh int32 = 1
	SpiClockPhaseFirstEdge   int32 = 0
	SpiClockPhaseSecondEdge  int32 = 1
)

// I2C function arguments.
const (
	I2cAddress7Bit  int32 = 0
	I2cAddress10Bit int32 = 1
)

// DIO function arguments. Direction maps are bitmasks, one bit per line.
const (
	DioInput  byte = 0
	DioOutput byte = 1

	DioLogicLow  byte = 0
	DioLogicHigh byte = 1
)

const (
	// resourceNameLen is the buffer size used for device resource names.
	resourceNameLen = 256
	// statusStringLen is the buffer size used for driver error descriptions.
	statusStringLen = 256
)

var (
	// ErrDriverUnavailable reports that the native driver library failed to
	// load. Hardware access is impossible but the process keeps running.
	ErrDriverUnavailable = errors.New("ni845x: driver library not available")

	// ErrHandleClosed reports use of a handle after its release.
	ErrHandleClosed = errors.New("ni845x: handle is closed")
)

// Error is a failed driver call, carrying the raw status code and the
// driver's own description of it.
type Error struct {
	Op      string // DLL entry point that failed
	Status  Status
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ni845x: %s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("ni845x: %s: status %d", e.Op, e.Status)
}

// OpenError reports a failed attempt to open a device session.
type OpenError struct {
	Resource string
	Err      error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("ni845x: open %q: %v", e.Resource, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// driver is the call surface of the vendor library. The platform loaders
// bind it to Ni845x.dll or libni845x; tests substitute a stub.
type driver interface {
	statusToString(status Status, buf []byte)

	findDevice(first []byte) (Handle, uint32, Status)
	findDeviceNext(h Handle, next []byte) Status
	closeFindDeviceHandle(h Handle) Status
	open(resource []byte) (Handle, Status)
	close(h Handle) Status
	setTimeout(h Handle, ms uint32) Status
	setIoVoltageLevel(h Handle, code uint8) Status

	spiConfigurationOpen() (Handle, Status)
	spiConfigurationClose(h Handle) Status
	spiConfigurationSetClockRate(h Handle, kHz uint16) Status
	spiConfigurationSetChipSelect(h Handle, line uint32) Status
	spiConfigurationSetPort(h Handle, port uint8) Status
	spiConfigurationSetClockPolarity(h Handle, polarity int32) Status
	spiConfigurationSetClockPhase(h Handle, phase int32) Status
	spiConfigurationSetNumBitsPerSample(h Handle, bits uint16) Status
	spiWriteRead(dev, cfg Handle, write []byte, readSize *uint32, read []byte) Status

	i2cConfigurationOpen() (Handle, Status)
	i2cConfigurationClose(h Handle) Status
	i2cConfigurationSetAddressSize(h Handle, size int32) Status
	i2cWrite(dev, cfg Handle, data []byte) Status
	i2cRead(dev, cfg Handle, n uint32, readSize *uint32, buf []byte) Status

	dioSetPortLineDirectionMap(h Handle, port, dirs uint8) Status
	dioWritePort(h Handle, port, value uint8) Status
	dioReadPort(h Handle, port uint8, value *uint8) Status
}

var (
	loadOnce sync.Once
	loaded   driver
	loadErr  error
)

// load resolves the driver library exactly once per process. The failure is
// remembered, never retried.
func load() (driver, error) {
	loadOnce.Do(func() {
		loaded, loadErr = loadDriver()
		if loadErr != nil {
			slog.Warn("NI-845x driver library failed to load, hardware access disabled",
				slog.Any("error", loadErr))
		}
	})
	if loadErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrDriverUnavailable, loadErr)
	}
	return loaded, nil
}

// Available reports whether the driver library loaded successfully.
func Available() bool {
	_, err := load()
	return err == nil
}

// statusError translates a nonzero driver status into an *Error, resolving
// the human-readable description through ni845xStatusToString.
func statusError(d driver, op string, status Status) error {
	if status == noError {
		return nil
	}
	var msg string
	if d != nil {
		buf := make([]byte, statusStringLen)
		d.statusToString(status, buf)
		msg = cstring(buf)
	}
	return &Error{Op: op, Status: status, Message: msg}
}

// cstring returns the NUL-terminated prefix of buf as a Go string.
func cstring(buf []byte) string {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		return string(buf[:i])
	}
	return string(buf)
}
