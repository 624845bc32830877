// Package prism holds the application state behind the presentation layer:
// the active hardware backend, the device list, the connection flag, the
// command history, and the current breakdown text. It is the programmatic
// surface a UI binds to.
package prism

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dnanderson/Prism2/internal/hardware"
	"github.com/dnanderson/Prism2/internal/ni845x"
	"github.com/dnanderson/Prism2/internal/protocol"
)

// HistoryEntry is one completed transfer, both sides stored as upper-case
// hex. Entries are append-only; indices are stable once assigned.
type HistoryEntry struct {
	Command  string
	Response string
}

// Controller owns one backend and the state derived from it. It is not safe
// for concurrent use; the caller serializes operations.
type Controller struct {
	backend   hardware.Backend
	table     *protocol.Table
	opts      hardware.Options
	simulated bool

	devices   []string
	selected  string
	connected bool
	history   []HistoryEntry
	breakdown string
}

// New builds a controller over a freshly selected backend and populates the
// device list. With simulate false, the simulator still takes over when the
// driver library is unavailable.
func New(table *protocol.Table, opts hardware.Options, simulate bool) *Controller {
	c := &Controller{table: table, opts: opts}
	c.setBackend(hardware.New(opts, simulate))
	if err := c.RefreshDevices(); err != nil {
		slog.Warn("initial device refresh failed", slog.Any("error", err))
	}
	return c
}

func (c *Controller) setBackend(b hardware.Backend) {
	c.backend = b
	_, c.simulated = b.(*hardware.Simulator)
	slog.Info("hardware backend selected", slog.String("backend", b.Name()))
}

// Simulated reports whether the simulator backend is active.
func (c *Controller) Simulated() bool { return c.simulated }

// Connected reports whether a device is open.
func (c *Controller) Connected() bool { return c.connected }

// Devices returns the most recently enumerated device list.
func (c *Controller) Devices() []string {
	return append([]string(nil), c.devices...)
}

// Selected returns the device the next Connect will open.
func (c *Controller) Selected() string { return c.selected }

// BreakdownText returns the breakdown of the last selected history entry.
func (c *Controller) BreakdownText() string { return c.breakdown }

// RefreshDevices re-enumerates and selects the first device found. On
// failure the previous list and selection are kept.
func (c *Controller) RefreshDevices() error {
	devices, err := c.backend.FindDevices()
	if err != nil {
		return fmt.Errorf("refresh devices: %w", err)
	}
	c.devices = devices
	if len(devices) > 0 {
		c.selected = devices[0]
	} else {
		c.selected = ""
	}
	return nil
}

// Select picks one of the enumerated devices for the next Connect.
func (c *Controller) Select(resource string) error {
	for _, d := range c.devices {
		if d == resource {
			c.selected = resource
			return nil
		}
	}
	return fmt.Errorf("unknown device %q", resource)
}

// Connect opens the selected device. A failed open leaves the controller
// disconnected.
func (c *Controller) Connect() error {
	if c.connected {
		return nil
	}
	if c.selected == "" {
		return fmt.Errorf("no device selected")
	}
	if err := c.backend.Open(c.selected); err != nil {
		return err
	}
	c.connected = true
	return nil
}

// Disconnect closes the open device. The controller counts as disconnected
// even when the close reports an error.
func (c *Controller) Disconnect() error {
	err := c.backend.Close()
	c.connected = false
	return err
}

// SetSimulation switches between the real and simulated backends. Any open
// session is torn down first. Leaving simulation requires the driver
// library; without it the simulated backend stays in place.
func (c *Controller) SetSimulation(simulate bool) error {
	if simulate == c.simulated {
		return nil
	}
	if !simulate && !ni845x.Available() {
		return ni845x.ErrDriverUnavailable
	}

	if c.connected {
		if err := c.Disconnect(); err != nil {
			slog.Warn("disconnect before backend switch failed", slog.Any("error", err))
		}
	}
	c.setBackend(hardware.New(c.opts, simulate))
	return c.RefreshDevices()
}

// Send validates commandHex, transfers it, appends the exchange to the
// history, and returns the response hex. Nothing is appended and no state
// changes when validation or the transfer fails.
func (c *Controller) Send(commandHex string) (string, error) {
	if !c.connected {
		return "", hardware.ErrNotConnected
	}

	data, err := protocol.ParseHex(commandHex)
	if err != nil {
		return "", err
	}

	response, err := c.backend.Transfer(data)
	if err != nil {
		return "", fmt.Errorf("transfer: %w", err)
	}

	responseHex := strings.ToUpper(hex.EncodeToString(response))
	c.history = append(c.history, HistoryEntry{
		Command:  strings.ToUpper(commandHex),
		Response: responseHex,
	})
	return responseHex, nil
}

// History returns the transfer history in call order.
func (c *Controller) History() []HistoryEntry {
	return append([]HistoryEntry(nil), c.history...)
}

// SelectHistory decodes history entry i and updates the breakdown text.
// Repeated selection of the same entry always yields the same text.
func (c *Controller) SelectHistory(i int) error {
	if i < 0 || i >= len(c.history) {
		return fmt.Errorf("history index %d out of range", i)
	}
	entry := c.history[i]

	cmd, err := c.table.Decode(entry.Command, protocol.Command)
	if err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	rsp, err := c.table.Decode(entry.Response, protocol.Response)
	if err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	c.breakdown = fmt.Sprintf("--- Command ---\n%s\n\n--- Response ---\n%s", cmd, rsp)
	return nil
}
