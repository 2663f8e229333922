package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "sim", c.Driver)
	assert.Equal(t, time.Millisecond, c.FrameDelay())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledmatrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
driver: spi
spi:
  port: SPI0.0
button:
  pin: GPIO17
thermal:
  source: iio
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "spi", c.Driver)
	assert.Equal(t, "SPI0.0", c.SPI.Port)
	assert.Equal(t, 2400, c.SPI.FreqKHz)
	assert.Equal(t, "GPIO17", c.Button.Pin)
	assert.Equal(t, "iio", c.Thermal.Source)
	assert.Equal(t, Default().Thermal.IIOPath, c.Thermal.IIOPath)
	assert.Equal(t, -10, c.IR.Niceness)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("driver: pwm\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	c := Default()
	c.Preview.Addr = ":8080"
	c.IR = IR{Chip: "gpiochip0", Line: 23, Niceness: -5}
	require.NoError(t, Save(path, c))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
