package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/coreman2200/ledmatrix/internal/app"
	"github.com/coreman2200/ledmatrix/internal/config"
	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/event"
	"github.com/coreman2200/ledmatrix/internal/layout"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/internal/preview"
	"github.com/coreman2200/ledmatrix/internal/producer"
	"github.com/coreman2200/ledmatrix/internal/render"
	"github.com/coreman2200/ledmatrix/internal/scenes"
)

func main() {
	// ---- Flags (override config.yaml when given) ----
	var (
		configPath  = flag.String("config", "ledmatrix.yaml", "path to config file")
		driver      = flag.String("driver", "", "output: spi | console | sim")
		logLevel    = flag.String("log-level", "", "trace | debug | info | warn | error")
		previewAddr = flag.String("preview", "", "preview listen address, e.g. :8080")
		startScene  = flag.Int("scene", 0, "scene shown at start")
		frameDelay  = flag.Int("frame-delay-ms", 0, "delay between frames")
		writeConfig = flag.String("write-config", "", "write the effective config to this path and exit")
		calibrate   = flag.Bool("calibrate", false, "show wiring and colour-order test scenes instead of the library")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config")
		}
		log.Warn().Str("path", *configPath).Msg("no config file; using defaults")
		cfg = config.Default()
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "driver":
			cfg.Driver = *driver
		case "log-level":
			cfg.LogLevel = *logLevel
		case "preview":
			cfg.Preview.Addr = *previewAddr
		case "scene":
			cfg.StartScene = *startScene
		case "frame-delay-ms":
			cfg.FrameDelayMs = *frameDelay
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			log.Fatal().Err(err).Msg("write config")
		}
		log.Info().Str("path", *writeConfig).Msg("config written")
		return
	}

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level; using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	// ---- Compiled-in content ----
	m := layout.Default
	if err := m.Validate(); err != nil {
		log.Fatal().Err(err).Msg("matrix wiring")
	}
	all := scenes.Scenes()
	if *calibrate {
		all = scenes.Of(scenes.Calibration(m))
		log.Info().Msg("calibration mode")
	}
	if err := render.ValidateScenes(all); err != nil {
		log.Fatal().Err(err).Msg("scene library")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	reporters := diag.Fanout{diag.Logger{Log: log.With().Str("component", "diag").Logger()}}

	// ---- Hardware ----
	hw := bringUp(cfg, m, reg)
	defer hw.close()

	var pv *preview.Server
	sink := hw.sink
	if cfg.Preview.Addr != "" {
		pv = preview.New(m, reg, log.With().Str("component", "preview").Logger())
		sink = led.Multi{hw.sink, pv}
		reporters = append(reporters, pv)
	}
	for _, d := range hw.diags {
		reporters.Report(d)
	}

	inbox := event.NewMailbox()
	ctl, err := app.New(app.Options{
		Grid:       render.NewGrid(m),
		Scenes:     all,
		Levels:     scenes.Levels,
		Indicator:  scenes.Indicator,
		Inbox:      inbox,
		Sink:       sink,
		Log:        log.With().Str("component", "control").Logger(),
		Metrics:    reg,
		Diag:       reporters,
		FrameDelay: cfg.FrameDelay(),
		StartScene: cfg.StartScene,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("controller")
	}

	// ---- Run ----
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctl.Run(gctx) })
	g.Go(func() error {
		t := &producer.Thermal{
			Sampler: hw.sampler,
			Out:     inbox,
			Log:     log.With().Str("component", "thermal").Logger(),
		}
		return t.Run(gctx)
	})
	if hw.button != nil {
		g.Go(func() error {
			b := &producer.Button{
				Pin: hw.button,
				Out: inbox,
				Log: log.With().Str("component", "button").Logger(),
			}
			return b.Run(gctx)
		})
	}
	if hw.edges != nil {
		g.Go(func() error {
			r := &producer.Remote{
				Edges:    hw.edges,
				Decoder:  newDecoder(),
				Out:      inbox,
				Log:      log.With().Str("component", "remote").Logger(),
				Niceness: cfg.IR.Niceness,
			}
			return r.Run(gctx)
		})
	}
	if pv != nil {
		g.Go(func() error { return pv.Run(gctx) })
		g.Go(func() error { return pv.ListenAndServe(gctx, cfg.Preview.Addr) })
	}

	reporters.Report(diag.Diagnostic{
		Severity: diag.Info, Code: diag.CodeStartup, Summary: "ledmatrix running",
		Evidence: map[string]any{"driver": hw.driver, "scenes": len(all), "thermal": cfg.Thermal.Source},
	})

	if err := g.Wait(); err != nil {
		hw.close()
		log.Fatal().Err(err).Msg("stopped")
	}
	log.Info().Msg("shut down")
}
