// Package usbprobe checks the USB bus for National Instruments hardware
// without going through the vendor driver. It tells "the driver sees no
// devices" apart from "no adapter is plugged in at all".
package usbprobe

import (
	"errors"
	"fmt"

	"github.com/karalabe/usb"
)

// NationalInstrumentsVID is the USB vendor ID assigned to NI.
const NationalInstrumentsVID = 0x3923

// Info describes one NI device seen on the bus.
type Info struct {
	VendorID  uint16
	ProductID uint16
}

// ErrUnsupported reports that raw USB enumeration is not available on this
// platform build.
var ErrUnsupported = errors.New("usbprobe: raw USB enumeration not supported")

// Probe enumerates the bus and returns the NI devices found plus the total
// number of USB devices seen, for diagnostics when the adapter is missing.
func Probe() ([]Info, int, error) {
	if !usb.Supported() {
		return nil, 0, ErrUnsupported
	}

	devices, err := usb.Enumerate(0, 0)
	if err != nil {
		return nil, 0, fmt.Errorf("usb enumerate: %w", err)
	}

	var ni []Info
	for _, d := range devices {
		if d.VendorID == NationalInstrumentsVID {
			ni = append(ni, Info{VendorID: d.VendorID, ProductID: d.ProductID})
		}
	}
	return ni, len(devices), nil
}
