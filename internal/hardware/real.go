package hardware

import (
	"fmt"
	"log/slog"

	"github.com/dnanderson/Prism2/internal/ni845x"
)

// NI845x drives a physical adapter through the vendor driver. The SPI
// configuration is created lazily on the first transfer and lives until the
// session closes.
type NI845x struct {
	opts Options
	dev  *ni845x.Device
	spi  *ni845x.SpiConfiguration
}

// NewNI845x returns a real backend with the given session options. No
// hardware is touched until Open.
func NewNI845x(opts Options) *NI845x {
	return &NI845x{opts: opts}
}

func (b *NI845x) Name() string { return "NI-845x" }

// FindDevices lists connected adapters in driver order.
func (b *NI845x) FindDevices() ([]string, error) {
	return ni845x.FindDevices()
}

// Open opens a session to the named adapter and applies the session
// settings. A failed open leaves the backend disconnected.
func (b *NI845x) Open(resource string) error {
	if b.dev != nil {
		return fmt.Errorf("hardware: device %q already open", b.dev.Resource())
	}

	dev, err := ni845x.Open(resource)
	if err != nil {
		return err
	}
	if err := dev.SetTimeout(b.opts.TimeoutMS); err != nil {
		dev.Close()
		return err
	}
	if err := dev.SetIoVoltageLevel(b.opts.IOVoltage); err != nil {
		dev.Close()
		return err
	}

	slog.Info("device opened", slog.String("resource", resource))
	b.dev = dev
	return nil
}

// Close releases the session and its configurations. Safe when not open.
func (b *NI845x) Close() error {
	if b.dev == nil {
		return nil
	}
	err := b.dev.Close() // releases the SPI configuration too
	b.dev, b.spi = nil, nil
	return err
}

// Transfer performs one SPI write-read, creating and configuring the SPI
// configuration on first use.
func (b *NI845x) Transfer(data []byte) ([]byte, error) {
	if b.dev == nil {
		return nil, ErrNotConnected
	}
	if b.spi == nil {
		spi, err := b.configureSPI()
		if err != nil {
			return nil, err
		}
		b.spi = spi
	}
	return b.dev.SpiWriteRead(b.spi, data)
}

func (b *NI845x) configureSPI() (*ni845x.SpiConfiguration, error) {
	spi, err := b.dev.NewSpiConfiguration()
	if err != nil {
		return nil, err
	}

	o := b.opts.SPI
	steps := []func() error{
		func() error { return spi.SetPort(o.Port) },
		func() error { return spi.SetChipSelect(o.ChipSelect) },
		func() error { return spi.SetClockRate(o.ClockRateKHz) },
		func() error { return spi.SetClockPolarity(o.ClockPolarity) },
		func() error { return spi.SetClockPhase(o.ClockPhase) },
		func() error { return spi.SetNumBitsPerSample(o.BitsPerSample) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			spi.Close()
			return nil, err
		}
	}
	return spi, nil
}
