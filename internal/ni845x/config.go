package ni845x

// SpiConfiguration parameterizes SPI transfers. It owns its own driver
// handle, separate from the session's, and is released either explicitly or
// when the owning session closes. Setters take effect immediately and in any
// order, but callers must apply them before the first transfer that depends
// on them; using a configuration after its own or its session's close fails
// with ErrHandleClosed.
type SpiConfiguration struct {
	d     driver
	guard handleGuard
}

// NewSpiConfiguration opens a fresh SPI configuration scoped to this session.
func (dev *Device) NewSpiConfiguration() (*SpiConfiguration, error) {
	if _, err := dev.guard.get(); err != nil {
		return nil, err
	}
	h, status := dev.d.spiConfigurationOpen()
	if err := statusError(dev.d, "ni845xSpiConfigurationOpen", status); err != nil {
		return nil, err
	}
	cfg := &SpiConfiguration{
		d:     dev.d,
		guard: handleGuard{d: dev.d, op: "ni845xSpiConfigurationClose", handle: h, release: dev.d.spiConfigurationClose},
	}
	dev.configs = append(dev.configs, cfg)
	return cfg, nil
}

// SetClockRate sets the SPI clock rate in kHz.
func (c *SpiConfiguration) SetClockRate(kHz uint16) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xSpiConfigurationSetClockRate", c.d.spiConfigurationSetClockRate(h, kHz))
}

// SetChipSelect sets the active chip select line.
func (c *SpiConfiguration) SetChipSelect(line uint32) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xSpiConfigurationSetChipSelect", c.d.spiConfigurationSetChipSelect(h, line))
}

// SetPort sets the SPI port number.
func (c *SpiConfiguration) SetPort(port uint8) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xSpiConfigurationSetPort", c.d.spiConfigurationSetPort(h, port))
}

// SetClockPolarity sets CPOL, SpiClockPolarityIdleLow or -IdleHigh.
func (c *SpiConfiguration) SetClockPolarity(polarity int32) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xSpiConfigurationSetClockPolarity", c.d.spiConfigurationSetClockPolarity(h, polarity))
}

// SetClockPhase sets CPHA, SpiClockPhaseFirstEdge or -SecondEdge.
func (c *SpiConfiguration) SetClockPhase(phase int32) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xSpiConfigurationSetClockPhase", c.d.spiConfigurationSetClockPhase(h, phase))
}

// SetNumBitsPerSample sets the number of bits per sample.
func (c *SpiConfiguration) SetNumBitsPerSample(bits uint16) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xSpiConfigurationSetNumBitsPerSample", c.d.spiConfigurationSetNumBitsPerSample(h, bits))
}

// Close releases the configuration handle. Safe to call more than once.
func (c *SpiConfiguration) Close() error { return c.guard.close() }

// I2cConfiguration parameterizes I2C transfers. Same ownership and lifetime
// rules as SpiConfiguration.
type I2cConfiguration struct {
	d     driver
	guard handleGuard
}

// NewI2cConfiguration opens a fresh I2C configuration scoped to this session.
func (dev *Device) NewI2cConfiguration() (*I2cConfiguration, error) {
	if _, err := dev.guard.get(); err != nil {
		return nil, err
	}
	h, status := dev.d.i2cConfigurationOpen()
	if err := statusError(dev.d, "ni845xI2cConfigurationOpen", status); err != nil {
		return nil, err
	}
	cfg := &I2cConfiguration{
		d:     dev.d,
		guard: handleGuard{d: dev.d, op: "ni845xI2cConfigurationClose", handle: h, release: dev.d.i2cConfigurationClose},
	}
	dev.configs = append(dev.configs, cfg)
	return cfg, nil
}

// SetAddressSize selects 7- or 10-bit addressing, I2cAddress7Bit or -10Bit.
func (c *I2cConfiguration) SetAddressSize(size int32) error {
	h, err := c.guard.get()
	if err != nil {
		return err
	}
	return statusError(c.d, "ni845xI2cConfigurationSetAddressSize", c.d.i2cConfigurationSetAddressSize(h, size))
}

// Close releases the configuration handle. Safe to call more than once.
func (c *I2cConfiguration) Close() error { return c.guard.close() }
