package hardware

import (
	"encoding/hex"
	"log/slog"
	"strings"
)

// SimResource is the synthetic resource name reported by the simulator.
const SimResource = "SIM-845x"

// Simulator is a deterministic stand-in for the real adapter: one fixed
// device, open always succeeds, and a transfer loops the input back
// byte-reversed. It never touches hardware.
type Simulator struct {
	open bool
}

// NewSimulator returns a disconnected simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) Name() string { return "Simulator" }

// FindDevices reports the single synthetic device.
func (s *Simulator) FindDevices() ([]string, error) {
	return []string{SimResource}, nil
}

// Open marks the simulator connected. It never fails.
func (s *Simulator) Open(resource string) error {
	slog.Info("simulating device open", slog.String("resource", resource))
	s.open = true
	return nil
}

// Close marks the simulator disconnected.
func (s *Simulator) Close() error {
	s.open = false
	return nil
}

// Transfer returns the byte-reversed input as the loopback response.
func (s *Simulator) Transfer(data []byte) ([]byte, error) {
	if !s.open {
		return nil, ErrNotConnected
	}

	response := make([]byte, len(data))
	for i, b := range data {
		response[len(data)-1-i] = b
	}
	slog.Debug("simulated transfer",
		slog.String("write", strings.ToUpper(hex.EncodeToString(data))),
		slog.String("read", strings.ToUpper(hex.EncodeToString(response))))
	return response, nil
}
