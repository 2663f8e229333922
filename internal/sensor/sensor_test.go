package sensor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

type fakeADC struct {
	pin.BasicPin
	v   physic.ElectricPotential
	err error
}

func (f *fakeADC) Range() (analog.Sample, analog.Sample) {
	return analog.Sample{}, analog.Sample{V: 3300 * physic.MilliVolt}
}

func (f *fakeADC) Read() (analog.Sample, error) {
	return analog.Sample{V: f.v}, f.err
}

func TestToRef(t *testing.T) {
	assert.Equal(t, 0, ToRef(0))
	assert.Equal(t, 2048, ToRef(1.65))
	assert.Equal(t, 876, ToRef(0.706))
}

func TestADCNormalizesVoltage(t *testing.T) {
	s := ADC{Pin: &fakeADC{BasicPin: pin.BasicPin{N: "A0"}, v: 1650 * physic.MilliVolt}}
	v, err := s.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2048, v)
}

func TestADCError(t *testing.T) {
	boom := errors.New("bus gone")
	s := ADC{Pin: &fakeADC{BasicPin: pin.BasicPin{N: "A0"}, err: boom}}
	_, err := s.Sample(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestIIORawOnly(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "in_voltage4_raw")
	require.NoError(t, os.WriteFile(raw, []byte("827\n"), 0o644))

	v, err := IIO{RawPath: raw}.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 827, v)
}

func TestIIOScaled(t *testing.T) {
	dir := t.TempDir()
	raw := filepath.Join(dir, "in_voltage0_raw")
	scale := filepath.Join(dir, "in_voltage0_scale")
	require.NoError(t, os.WriteFile(raw, []byte("1000"), 0o644))
	require.NoError(t, os.WriteFile(scale, []byte("1.65\n"), 0o644))

	v, err := IIO{RawPath: raw, ScalePath: scale}.Sample(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2048, v)
}

func TestIIOMissingFile(t *testing.T) {
	_, err := IIO{RawPath: filepath.Join(t.TempDir(), "nope")}.Sample(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
