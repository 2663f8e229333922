package sensor

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// IIO reads a Linux industrial-I/O ADC channel from sysfs, e.g.
// /sys/bus/iio/devices/iio:device0/in_voltage4_raw. If ScalePath is set the
// raw count is converted through the channel scale (millivolts per LSB);
// otherwise the raw count is assumed to be on the reference scale.
type IIO struct {
	RawPath   string
	ScalePath string
}

func (s IIO) Sample(context.Context) (int, error) {
	raw, err := readFloat(s.RawPath)
	if err != nil {
		return 0, err
	}
	if s.ScalePath == "" {
		return int(raw), nil
	}
	scale, err := readFloat(s.ScalePath)
	if err != nil {
		return 0, err
	}
	return ToRef(raw * scale / 1000), nil
}

func readFloat(path string) (float64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("iio: %w", err)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0, fmt.Errorf("iio: parse %s: %w", path, err)
	}
	return v, nil
}
