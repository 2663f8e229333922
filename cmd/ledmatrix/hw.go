package main

import (
	"io"
	"sync"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"
	"periph.io/x/host/v3"

	"github.com/coreman2200/ledmatrix/internal/config"
	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/ir"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/internal/producer"
	"github.com/coreman2200/ledmatrix/internal/sensor"
)

var adcChannels = [...]ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

type hardware struct {
	driver  string
	sink    led.Sink
	sampler sensor.Sampler
	button  producer.Pin
	edges   <-chan ir.Edge
	diags   []diag.Diagnostic

	closers []io.Closer
	once    sync.Once
}

func (h *hardware) close() {
	h.once.Do(func() {
		if h.sink != nil {
			if err := h.sink.Close(); err != nil {
				log.Warn().Err(err).Msg("close sink")
			}
		}
		for _, c := range h.closers {
			_ = c.Close()
		}
	})
}

func newDecoder() ir.Decoder { return &ir.NEC{} }

func needsHost(cfg *config.Config) bool {
	return cfg.Driver == "spi" || cfg.Button.Pin != "" || cfg.Thermal.Source == "adc"
}

// bringUp opens every device the config asks for. Hardware that was
// explicitly requested and cannot be opened is fatal, except the LED strip
// which falls back to the console.
func bringUp(cfg *config.Config, m layout.Matrix, reg metrics.Registry) *hardware {
	h := &hardware{driver: cfg.Driver}
	n := m.Count()

	if needsHost(cfg) {
		if _, err := host.Init(); err != nil {
			log.Fatal().Err(err).Msg("periph host init")
		}
	}

	// ---- Output ----
	switch cfg.Driver {
	case "spi":
		freq := physic.Frequency(cfg.SPI.FreqKHz) * physic.KiloHertz
		s, err := led.OpenStrip(cfg.SPI.Port, freq, n)
		if err != nil {
			log.Warn().Err(err).Str("port", cfg.SPI.Port).Msg("Failed to find a SPI port, printing at the console")
			h.diags = append(h.diags, diag.Diagnostic{
				Severity: diag.Warn, Code: diag.CodeNoHW, Summary: "LED strip unavailable; using console",
				Detail:         err.Error(),
				LikelyCauses:   []string{"SPI not enabled", "wrong port name"},
				SuggestedFixes: []string{"enable spidev in the boot config", "set spi.port"},
			})
			h.sink, h.driver = led.NewConsole(n), "console"
			break
		}
		log.Info().Str("port", s.String()).Int("pixels", n).Msg("LED strip ready")
		h.sink = s
	case "console":
		h.sink = led.NewConsole(n)
	default:
		h.sink = &led.Sim{Log: log.With().Str("component", "sim").Logger(), Every: 1000}
	}

	// ---- Thermal ----
	switch cfg.Thermal.Source {
	case "adc":
		bus, err := i2creg.Open(cfg.Thermal.I2CBus)
		if err != nil {
			log.Fatal().Err(err).Str("bus", cfg.Thermal.I2CBus).Msg("i2c bus for thermal ADC")
		}
		h.closers = append(h.closers, bus)
		adc, err := ads1x15.NewADS1115(bus, &ads1x15.DefaultOpts)
		if err != nil {
			log.Fatal().Err(err).Msg("ADS1115")
		}
		pin, err := adc.PinForChannel(adcChannels[cfg.Thermal.ADCChannel], 3300*physic.MilliVolt, physic.Hertz, ads1x15.SaveEnergy)
		if err != nil {
			log.Fatal().Err(err).Int("channel", cfg.Thermal.ADCChannel).Msg("ADS1115 channel")
		}
		h.sampler = sensor.ADC{Pin: pin}
	case "iio":
		h.sampler = sensor.IIO{RawPath: cfg.Thermal.IIOPath, ScalePath: cfg.Thermal.IIOScalePath}
	default:
		h.sampler = sensor.Fixed{Value: cfg.Thermal.SimSample}
	}

	// ---- Button ----
	if cfg.Button.Pin != "" {
		p := gpioreg.ByName(cfg.Button.Pin)
		if p == nil {
			log.Fatal().Str("pin", cfg.Button.Pin).Msg("button pin not found")
		}
		if err := p.In(gpio.PullUp, gpio.BothEdges); err != nil {
			log.Fatal().Err(err).Str("pin", cfg.Button.Pin).Msg("button pin")
		}
		h.button = p
	} else {
		h.diags = append(h.diags, diag.Diagnostic{
			Severity: diag.Info, Code: diag.CodeInputDown, Summary: "no button configured",
		})
	}

	// ---- Remote ----
	if cfg.IR.Chip != "" {
		l, edges, err := producer.LineEdges(cfg.IR.Chip, cfg.IR.Line, log.With().Str("component", "ir").Logger())
		if err != nil {
			log.Fatal().Err(err).Str("chip", cfg.IR.Chip).Int("line", cfg.IR.Line).Msg("ir receiver line")
		}
		h.closers = append(h.closers, l)
		h.edges = edges
	}

	metrics.GetOrRegisterGauge("hw.pixels", reg).Update(int64(n))
	return h
}
