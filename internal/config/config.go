// Package config loads the application configuration from a YAML file,
// filling in adapter-appropriate defaults for anything not specified.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dnanderson/Prism2/internal/hardware"
	"github.com/dnanderson/Prism2/internal/ni845x"
)

// SPIConfig parameterizes the SPI configuration used for transfers.
// Polarity and phase use the driver encoding: 0 = idle low / first edge,
// 1 = idle high / second edge.
type SPIConfig struct {
	ClockRateKHz  uint16 `yaml:"clock_rate_khz"`
	ChipSelect    uint32 `yaml:"chip_select"`
	Port          uint8  `yaml:"port"`
	ClockPolarity int32  `yaml:"clock_polarity"`
	ClockPhase    int32  `yaml:"clock_phase"`
	BitsPerSample uint16 `yaml:"bits_per_sample"`
}

// Config is the whole application configuration.
type Config struct {
	Simulation bool      `yaml:"simulation"`
	TimeoutMS  uint32    `yaml:"timeout_ms"`
	IOVoltage  uint8     `yaml:"io_voltage"` // 33, 25, 18, 15 or 12
	SPI        SPIConfig `yaml:"spi"`

	// Definitions optionally names a YAML file with extra protocol
	// definitions merged over the built-in opcode table.
	Definitions string `yaml:"definitions"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Simulation: false,
		TimeoutMS:  5000,
		IOVoltage:  ni845x.Voltage33,
		SPI: SPIConfig{
			ClockRateKHz:  1000,
			ChipSelect:    0,
			Port:          0,
			ClockPolarity: ni845x.SpiClockPolarityIdleLow,
			ClockPhase:    ni845x.SpiClockPhaseFirstEdge,
			BitsPerSample: 8,
		},
	}
}

// Load reads a YAML config from path over the defaults. A missing file is
// not an error, just the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no config file, using defaults", slog.String("path", path))
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.IOVoltage {
	case ni845x.Voltage33, ni845x.Voltage25, ni845x.Voltage18, ni845x.Voltage15, ni845x.Voltage12:
	default:
		return fmt.Errorf("invalid io_voltage %d", c.IOVoltage)
	}
	if c.SPI.ClockPolarity != ni845x.SpiClockPolarityIdleLow && c.SPI.ClockPolarity != ni845x.SpiClockPolarityIdleHigh {
		return fmt.Errorf("invalid clock_polarity %d", c.SPI.ClockPolarity)
	}
	if c.SPI.ClockPhase != ni845x.SpiClockPhaseFirstEdge && c.SPI.ClockPhase != ni845x.SpiClockPhaseSecondEdge {
		return fmt.Errorf("invalid clock_phase %d", c.SPI.ClockPhase)
	}
	return nil
}

// HardwareOptions converts the configuration into backend session options.
func (c *Config) HardwareOptions() hardware.Options {
	return hardware.Options{
		TimeoutMS: c.TimeoutMS,
		IOVoltage: c.IOVoltage,
		SPI: hardware.SPIOptions{
			ClockRateKHz:  c.SPI.ClockRateKHz,
			ChipSelect:    c.SPI.ChipSelect,
			Port:          c.SPI.Port,
			ClockPolarity: c.SPI.ClockPolarity,
			ClockPhase:    c.SPI.ClockPhase,
			BitsPerSample: c.SPI.BitsPerSample,
		},
	}
}
