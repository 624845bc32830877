package ni845x

// SpiWriteRead clocks write out over SPI and returns the bytes clocked in.
// The read buffer is sized to len(write): the basic SPI API is full duplex,
// one byte in per byte out, so the driver never reports more. The result is
// truncated to the count the driver actually reports.
func (dev *Device) SpiWriteRead(cfg *SpiConfiguration, write []byte) ([]byte, error) {
	h, err := dev.guard.get()
	if err != nil {
		return nil, err
	}
	ch, err := cfg.guard.get()
	if err != nil {
		return nil, err
	}

	read := make([]byte, len(write))
	readSize := uint32(len(write))
	status := dev.d.spiWriteRead(h, ch, write, &readSize, read)
	if err := statusError(dev.d, "ni845xSpiWriteRead", status); err != nil {
		return nil, err
	}
	if int(readSize) < len(read) {
		read = read[:readSize]
	}
	return read, nil
}

// I2cWrite writes data to the addressed I2C slave.
func (dev *Device) I2cWrite(cfg *I2cConfiguration, data []byte) error {
	h, err := dev.guard.get()
	if err != nil {
		return err
	}
	ch, err := cfg.guard.get()
	if err != nil {
		return err
	}
	return statusError(dev.d, "ni845xI2cWrite", dev.d.i2cWrite(h, ch, data))
}

// I2cRead reads up to n bytes from the addressed I2C slave, returning the
// count the driver reports.
func (dev *Device) I2cRead(cfg *I2cConfiguration, n int) ([]byte, error) {
	h, err := dev.guard.get()
	if err != nil {
		return nil, err
	}
	ch, err := cfg.guard.get()
	if err != nil {
		return nil, err
	}

	buf := make([]byte, n)
	var readSize uint32
	status := dev.d.i2cRead(h, ch, uint32(n), &readSize, buf)
	if err := statusError(dev.d, "ni845xI2cRead", status); err != nil {
		return nil, err
	}
	if int(readSize) < len(buf) {
		buf = buf[:readSize]
	}
	return buf, nil
}

// DioSetPortLineDirectionMap sets the direction of each line on an 8-bit DIO
// port. Bit 1 = output, 0 = input.
func (dev *Device) DioSetPortLineDirectionMap(port, dirs byte) error {
	h, err := dev.guard.get()
	if err != nil {
		return err
	}
	return statusError(dev.d, "ni845xDioSetPortLineDirectionMap", dev.d.dioSetPortLineDirectionMap(h, port, dirs))
}

// DioWritePort writes an 8-bit value to a DIO port.
func (dev *Device) DioWritePort(port, value byte) error {
	h, err := dev.guard.get()
	if err != nil {
		return err
	}
	return statusError(dev.d, "ni845xDioWritePort", dev.d.dioWritePort(h, port, value))
}

// DioReadPort reads the 8-bit value of a DIO port.
func (dev *Device) DioReadPort(port byte) (byte, error) {
	h, err := dev.guard.get()
	if err != nil {
		return 0, err
	}
	var value uint8
	status := dev.d.dioReadPort(h, port, &value)
	if err := statusError(dev.d, "ni845xDioReadPort", status); err != nil {
		return 0, err
	}
	return value, nil
}
