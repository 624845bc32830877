package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dnanderson/Prism2/internal/ni845x"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeoutMS != 5000 || cfg.IOVoltage != ni845x.Voltage33 {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	if cfg.SPI.ClockRateKHz != 1000 || cfg.SPI.BitsPerSample != 8 {
		t.Fatalf("SPI defaults not applied: %+v", cfg.SPI)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism2.yaml")
	content := `
simulation: true
timeout_ms: 2000
spi:
  clock_rate_khz: 250
  chip_select: 1
  port: 0
  clock_polarity: 1
  clock_phase: 1
  bits_per_sample: 16
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Simulation || cfg.TimeoutMS != 2000 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.SPI.ClockRateKHz != 250 || cfg.SPI.ClockPolarity != ni845x.SpiClockPolarityIdleHigh {
		t.Fatalf("SPI overrides not applied: %+v", cfg.SPI)
	}
	// Untouched fields keep their defaults.
	if cfg.IOVoltage != ni845x.Voltage33 {
		t.Fatalf("defaults clobbered: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad voltage", "io_voltage: 50\n"},
		{"bad polarity", "spi:\n  clock_polarity: 2\n"},
		{"bad phase", "spi:\n  clock_phase: 2\n"},
		{"bad yaml", ":\n  -\n bad"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prism2.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestHardwareOptions(t *testing.T) {
	opts := Default().HardwareOptions()
	if opts.TimeoutMS != 5000 || opts.SPI.ClockRateKHz != 1000 {
		t.Fatalf("options = %+v", opts)
	}
}
