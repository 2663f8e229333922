package led

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"

	"github.com/coreman2200/ledmatrix/internal/render"
)

// DefaultFreq is the SPI clock for a WS2812 chain: three SPI bits per
// data bit at 800kHz.
const DefaultFreq = 2400 * physic.KiloHertz

// Drawer feeds frames to a periph display.Drawer as an N×1 image, pixel i
// of the frame at x=i. This is the strip order of the chain.
type Drawer struct {
	d      display.Drawer
	img    *image.NRGBA
	closer io.Closer
}

// NewDrawer wraps d for n pixels. closer, if not nil, is closed after the
// drawer is halted.
func NewDrawer(d display.Drawer, n int, closer io.Closer) *Drawer {
	return &Drawer{
		d:      d,
		img:    image.NewNRGBA(image.Rect(0, 0, n, 1)),
		closer: closer,
	}
}

func (s *Drawer) Write(frame []render.Color) error {
	if len(frame) != s.img.Rect.Dx() {
		return fmt.Errorf("%w: got %d pixels, want %d", ErrFrameSize, len(frame), s.img.Rect.Dx())
	}
	for x, c := range frame {
		s.img.SetNRGBA(x, 0, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xFF})
	}
	return s.d.Draw(s.d.Bounds(), s.img, image.Point{})
}

// Close turns the LEDs off and releases the port.
func (s *Drawer) Close() error {
	err := s.d.Halt()
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}

func (s *Drawer) String() string { return s.d.String() }

// OpenStrip opens a WS2812-style strip of n pixels on an SPI port. An empty
// port name selects the first port available. The strip starts dark.
func OpenStrip(port string, freq physic.Frequency, n int) (*Drawer, error) {
	p, err := spireg.Open(port)
	if err != nil {
		return nil, err
	}
	if freq == 0 {
		freq = DefaultFreq
	}
	d, err := nrzled.NewSPI(p, &nrzled.Opts{NumPixels: n, Channels: 3, Freq: freq})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	if err := d.Halt(); err != nil {
		_ = p.Close()
		return nil, err
	}
	return NewDrawer(d, n, p), nil
}

// NewConsole renders frames as colored blocks on the terminal.
func NewConsole(n int) *Drawer {
	return NewDrawer(screen.New(n), n, nil)
}
