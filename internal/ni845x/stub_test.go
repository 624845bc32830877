package ni845x

// stubDriver is an in-memory stand-in for the vendor library. Calls can be
// forced to fail by entry-point name, and every handle release is counted so
// tests can assert the at-most-once release invariant.
type stubDriver struct {
	devices  []string
	fail     map[string]Status
	messages map[Status]string

	nextHandle Handle
	findCursor int
	released   map[Handle]int

	timeout uint32
	voltage uint8

	spiSettings map[Handle]map[string]uint64
	i2cAddrSize map[Handle]int32

	spiResponse  []byte
	spiReadSize  int // reported read count; -1 means echo the write length
	lastSpiWrite []byte

	i2cReadData  []byte
	i2cReadSize  int // reported read count; -1 means the requested length
	lastI2cWrite []byte

	dioDirs map[uint8]uint8
	dioVals map[uint8]uint8
}

func newStubDriver(devices ...string) *stubDriver {
	return &stubDriver{
		devices:     devices,
		fail:        map[string]Status{},
		messages:    map[Status]string{},
		released:    map[Handle]int{},
		spiSettings: map[Handle]map[string]uint64{},
		i2cAddrSize: map[Handle]int32{},
		spiReadSize: -1,
		i2cReadSize: -1,
		dioDirs:     map[uint8]uint8{},
		dioVals:     map[uint8]uint8{},
	}
}

func (s *stubDriver) alloc() Handle {
	s.nextHandle++
	return s.nextHandle
}

func (s *stubDriver) status(op string) Status { return s.fail[op] }

func (s *stubDriver) releaseHandle(h Handle, op string) Status {
	s.released[h]++
	return s.status(op)
}

func putCString(buf []byte, v string) {
	n := copy(buf, v)
	if n < len(buf) {
		buf[n] = 0
	}
}

func (s *stubDriver) statusToString(status Status, buf []byte) {
	putCString(buf, s.messages[status])
}

func (s *stubDriver) findDevice(first []byte) (Handle, uint32, Status) {
	if st := s.status("findDevice"); st != noError {
		return 0, 0, st
	}
	if len(s.devices) > 0 {
		putCString(first, s.devices[0])
	}
	s.findCursor = 1
	return s.alloc(), uint32(len(s.devices)), noError
}

func (s *stubDriver) findDeviceNext(h Handle, next []byte) Status {
	if st := s.status("findDeviceNext"); st != noError {
		return st
	}
	putCString(next, s.devices[s.findCursor])
	s.findCursor++
	return noError
}

func (s *stubDriver) closeFindDeviceHandle(h Handle) Status {
	return s.releaseHandle(h, "closeFindDeviceHandle")
}

func (s *stubDriver) open(resource []byte) (Handle, Status) {
	if st := s.status("open"); st != noError {
		return 0, st
	}
	return s.alloc(), noError
}

func (s *stubDriver) close(h Handle) Status {
	return s.releaseHandle(h, "close")
}

func (s *stubDriver) setTimeout(h Handle, ms uint32) Status {
	if st := s.status("setTimeout"); st != noError {
		return st
	}
	s.timeout = ms
	return noError
}

func (s *stubDriver) setIoVoltageLevel(h Handle, code uint8) Status {
	if st := s.status("setIoVoltageLevel"); st != noError {
		return st
	}
	s.voltage = code
	return noError
}

func (s *stubDriver) spiConfigurationOpen() (Handle, Status) {
	if st := s.status("spiConfigurationOpen"); st != noError {
		return 0, st
	}
	h := s.alloc()
	s.spiSettings[h] = map[string]uint64{}
	return h, noError
}

func (s *stubDriver) spiConfigurationClose(h Handle) Status {
	return s.releaseHandle(h, "spiConfigurationClose")
}

func (s *stubDriver) spiSet(h Handle, key string, v uint64, op string) Status {
	if st := s.status(op); st != noError {
		return st
	}
	s.spiSettings[h][key] = v
	return noError
}

func (s *stubDriver) spiConfigurationSetClockRate(h Handle, kHz uint16) Status {
	return s.spiSet(h, "clockRate", uint64(kHz), "spiConfigurationSetClockRate")
}

func (s *stubDriver) spiConfigurationSetChipSelect(h Handle, line uint32) Status {
	return s.spiSet(h, "chipSelect", uint64(line), "spiConfigurationSetChipSelect")
}

func (s *stubDriver) spiConfigurationSetPort(h Handle, port uint8) Status {
	return s.spiSet(h, "port", uint64(port), "spiConfigurationSetPort")
}

func (s *stubDriver) spiConfigurationSetClockPolarity(h Handle, polarity int32) Status {
	return s.spiSet(h, "clockPolarity", uint64(polarity), "spiConfigurationSetClockPolarity")
}

func (s *stubDriver) spiConfigurationSetClockPhase(h Handle, phase int32) Status {
	return s.spiSet(h, "clockPhase", uint64(phase), "spiConfigurationSetClockPhase")
}

func (s *stubDriver) spiConfigurationSetNumBitsPerSample(h Handle, bits uint16) Status {
	return s.spiSet(h, "bitsPerSample", uint64(bits), "spiConfigurationSetNumBitsPerSample")
}

func (s *stubDriver) spiWriteRead(dev, cfg Handle, write []byte, readSize *uint32, read []byte) Status {
	if st := s.status("spiWriteRead"); st != noError {
		return st
	}
	s.lastSpiWrite = append([]byte(nil), write...)
	copy(read, s.spiResponse)
	if s.spiReadSize >= 0 {
		*readSize = uint32(s.spiReadSize)
	} else {
		*readSize = uint32(len(write))
	}
	return noError
}

func (s *stubDriver) i2cConfigurationOpen() (Handle, Status) {
	if st := s.status("i2cConfigurationOpen"); st != noError {
		return 0, st
	}
	return s.alloc(), noError
}

func (s *stubDriver) i2cConfigurationClose(h Handle) Status {
	return s.releaseHandle(h, "i2cConfigurationClose")
}

func (s *stubDriver) i2cConfigurationSetAddressSize(h Handle, size int32) Status {
	if st := s.status("i2cConfigurationSetAddressSize"); st != noError {
		return st
	}
	s.i2cAddrSize[h] = size
	return noError
}

func (s *stubDriver) i2cWrite(dev, cfg Handle, data []byte) Status {
	if st := s.status("i2cWrite"); st != noError {
		return st
	}
	s.lastI2cWrite = append([]byte(nil), data...)
	return noError
}

func (s *stubDriver) i2cRead(dev, cfg Handle, n uint32, readSize *uint32, buf []byte) Status {
	if st := s.status("i2cRead"); st != noError {
		return st
	}
	copy(buf, s.i2cReadData)
	if s.i2cReadSize >= 0 {
		*readSize = uint32(s.i2cReadSize)
	} else {
		*readSize = n
	}
	return noError
}

func (s *stubDriver) dioSetPortLineDirectionMap(h Handle, port, dirs uint8) Status {
	if st := s.status("dioSetPortLineDirectionMap"); st != noError {
		return st
	}
	s.dioDirs[port] = dirs
	return noError
}

func (s *stubDriver) dioWritePort(h Handle, port, value uint8) Status {
	if st := s.status("dioWritePort"); st != noError {
		return st
	}
	s.dioVals[port] = value
	return noError
}

func (s *stubDriver) dioReadPort(h Handle, port uint8, value *uint8) Status {
	if st := s.status("dioReadPort"); st != noError {
		return st
	}
	*value = s.dioVals[port]
	return noError
}
