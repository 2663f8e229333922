// Package config loads the device wiring from YAML. Scenes, gamma and the
// brightness levels are compiled in and not configurable.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type SPI struct {
	Port    string `yaml:"port"`     // periph port name, "" for the first
	FreqKHz int    `yaml:"freq_khz"` // e.g. 2400
}

type Button struct {
	Pin string `yaml:"pin"` // periph gpio name, e.g. GPIO17; "" disables
}

type IR struct {
	Chip     string `yaml:"chip"` // e.g. gpiochip0; "" disables
	Line     int    `yaml:"line"`
	Niceness int    `yaml:"niceness"`
}

type Thermal struct {
	Source       string `yaml:"source"` // "adc" | "iio" | "sim"
	I2CBus       string `yaml:"i2c_bus,omitempty"`
	ADCChannel   int    `yaml:"adc_channel,omitempty"`
	IIOPath      string `yaml:"iio_path,omitempty"`
	IIOScalePath string `yaml:"iio_scale_path,omitempty"`
	SimSample    int    `yaml:"sim_sample,omitempty"`
}

type Preview struct {
	Addr string `yaml:"addr,omitempty"` // e.g. :8080; "" disables
}

type Config struct {
	Driver       string `yaml:"driver"` // "spi" | "console" | "sim"
	FrameDelayMs int    `yaml:"frame_delay_ms"`
	LogLevel     string `yaml:"log_level"`
	StartScene   int    `yaml:"start_scene"`

	SPI     SPI     `yaml:"spi,omitempty"`
	Button  Button  `yaml:"button,omitempty"`
	IR      IR      `yaml:"ir,omitempty"`
	Thermal Thermal `yaml:"thermal"`
	Preview Preview `yaml:"preview,omitempty"`
}

// Default returns a configuration that runs without any hardware.
func Default() *Config {
	return &Config{
		Driver:       "sim",
		FrameDelayMs: 1,
		LogLevel:     "info",
		SPI:          SPI{FreqKHz: 2400},
		IR:           IR{Niceness: -10},
		Thermal: Thermal{
			Source:    "sim",
			IIOPath:   "/sys/bus/iio/devices/iio:device0/in_voltage4_raw",
			SimSample: 876, // 27°C
		},
	}
}

// FrameDelay is the sleep between frames.
func (c *Config) FrameDelay() time.Duration {
	return time.Duration(c.FrameDelayMs) * time.Millisecond
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Driver {
	case "spi", "console", "sim":
	default:
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
	switch c.Thermal.Source {
	case "adc", "iio", "sim":
	default:
		return fmt.Errorf("config: unknown thermal source %q", c.Thermal.Source)
	}
	if c.FrameDelayMs < 0 {
		return fmt.Errorf("config: negative frame_delay_ms %d", c.FrameDelayMs)
	}
	if c.Thermal.Source == "adc" && (c.Thermal.ADCChannel < 0 || c.Thermal.ADCChannel > 3) {
		return fmt.Errorf("config: adc_channel %d out of range 0-3", c.Thermal.ADCChannel)
	}
	return nil
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, c.Validate()
}

func Save(path string, c *Config) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
