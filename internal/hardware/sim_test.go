package hardware

import (
	"bytes"
	"errors"
	"testing"
)

func TestSimulatorLoopback(t *testing.T) {
	tests := []struct {
		name  string
		write []byte
		want  []byte
	}{
		{"single byte", []byte{0x06}, []byte{0x06}},
		{"word", []byte{0xDE, 0xAD, 0xBE, 0xEF}, []byte{0xEF, 0xBE, 0xAD, 0xDE}},
		{"empty", []byte{}, []byte{}},
	}

	s := NewSimulator()
	if err := s.Open(SimResource); err != nil {
		t.Fatalf("open: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Transfer(tt.write)
			if err != nil {
				t.Fatalf("transfer: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Fatalf("transfer(%x) = %x, want %x", tt.write, got, tt.want)
			}
		})
	}
}

func TestSimulatorTransferWhileClosed(t *testing.T) {
	s := NewSimulator()
	if _, err := s.Transfer([]byte{0x01}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("transfer while closed: %v, want ErrNotConnected", err)
	}

	if err := s.Open(SimResource); err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := s.Transfer([]byte{0x01}); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("transfer after close: %v, want ErrNotConnected", err)
	}
}

func TestSimulatorEnumerateThenOpen(t *testing.T) {
	s := NewSimulator()
	devices, err := s.FindDevices()
	if err != nil {
		t.Fatalf("FindDevices: %v", err)
	}
	if len(devices) != 1 || devices[0] != SimResource {
		t.Fatalf("devices = %v, want [%s]", devices, SimResource)
	}
	for _, d := range devices {
		if err := s.Open(d); err != nil {
			t.Fatalf("open %q: %v", d, err)
		}
	}
}

func TestNewSimulateRequested(t *testing.T) {
	b := New(DefaultOptions(), true)
	if _, ok := b.(*Simulator); !ok {
		t.Fatalf("New(simulate=true) = %T, want *Simulator", b)
	}
}
