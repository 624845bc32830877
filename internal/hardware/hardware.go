// Package hardware provides the backend façade the rest of the application
// talks to: device enumeration, session open/close, and byte transfers.
// Two implementations exist, the real NI-845x backend and a loopback
// simulator used when the driver library is absent or simulation is
// requested. Backends are not safe for concurrent use.
package hardware

import (
	"errors"
	"log/slog"

	"github.com/dnanderson/Prism2/internal/ni845x"
)

// ErrNotConnected reports a transfer attempted without an open device.
var ErrNotConnected = errors.New("hardware: no device is open")

// Backend is the capability set consumed by the controller and the
// presentation layer behind it.
type Backend interface {
	// Name identifies the backend variant for display and logging.
	Name() string
	// FindDevices lists available device resource names in driver order.
	FindDevices() ([]string, error)
	// Open connects to the named device. Opening while already connected
	// replaces nothing; callers close first.
	Open(resource string) error
	// Close disconnects. Safe to call when not connected.
	Close() error
	// Transfer performs one synchronous SPI write-read of data and returns
	// the bytes read. Fails with ErrNotConnected when no device is open.
	Transfer(data []byte) ([]byte, error)
}

// SPIOptions carries the SPI configuration applied before the first
// transfer on a session.
type SPIOptions struct {
	ClockRateKHz  uint16
	ChipSelect    uint32
	Port          uint8
	ClockPolarity int32
	ClockPhase    int32
	BitsPerSample uint16
}

// Options carries the per-session settings for the real backend.
type Options struct {
	TimeoutMS uint32
	IOVoltage uint8
	SPI       SPIOptions
}

// DefaultOptions mirror the adapter's conservative defaults: 5s timeout,
// 3.3V IO, SPI mode 0 at 1 MHz on port 0, chip select 0, 8-bit samples.
func DefaultOptions() Options {
	return Options{
		TimeoutMS: 5000,
		IOVoltage: ni845x.Voltage33,
		SPI: SPIOptions{
			ClockRateKHz:  1000,
			ChipSelect:    0,
			Port:          0,
			ClockPolarity: ni845x.SpiClockPolarityIdleLow,
			ClockPhase:    ni845x.SpiClockPhaseFirstEdge,
			BitsPerSample: 8,
		},
	}
}

// New selects a backend. The real one is used only when simulation is not
// requested and the driver library loaded; otherwise the simulator stands in
// so the process keeps working without hardware.
func New(opts Options, simulate bool) Backend {
	if simulate {
		return NewSimulator()
	}
	if !ni845x.Available() {
		slog.Warn("NI-845x driver unavailable, falling back to the simulated backend")
		return NewSimulator()
	}
	return NewNI845x(opts)
}
