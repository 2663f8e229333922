// Package app runs the main control loop: drain at most one event, render
// the active scene, hand the frame to the sink, clear, repeat.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rcrowley/go-metrics"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/ledmatrix/internal/diagnostics"
	"github.com/coreman2200/ledmatrix/internal/event"
	"github.com/coreman2200/ledmatrix/internal/led"
	"github.com/coreman2200/ledmatrix/internal/render"
)

const (
	DefaultFrameDelay    = time.Millisecond
	DefaultIndicatorHold = time.Second

	// Frames between FPS log lines.
	fpsWindow = 1000
)

// Metric names registered by the controller.
const (
	MetricFrame       = "frame.render"
	MetricSinkErrors  = "sink.errors"
	MetricThermal     = "event.thermal"
	MetricRemote      = "event.remote"
	MetricShortPress  = "event.short_press"
	MetricLongPress   = "event.long_press"
	MetricScene       = "state.scene"
	MetricLevel       = "state.level"
	MetricRawGain     = "state.raw_gain"
	MetricMailboxUsed = "mailbox.used"
)

// RenderState is the user-facing selection. Owned by the control loop.
type RenderState struct {
	Scene int
	Level int
}

// Options configure a Controller. Grid, Scenes, Levels, Indicator, Inbox
// and Sink are required.
type Options struct {
	Grid   *render.Grid
	Scenes []render.Scene
	// Levels are the corrected-gain steps a long press cycles through.
	Levels []float64
	// Indicator returns the scene shown after switching to a level.
	Indicator func(level int) render.Scene
	Inbox     *event.Mailbox
	Sink      led.Sink

	Log     zerolog.Logger
	Metrics metrics.Registry
	Diag    diag.Reporter

	FrameDelay    time.Duration
	IndicatorHold time.Duration
	StartScene    int

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
}

// Controller is the main control loop. Grid and RenderState are touched
// only from the goroutine calling Step or Run.
type Controller struct {
	grid      *render.Grid
	eval      *render.Evaluator
	scenes    []render.Scene
	levels    []float64
	indicator func(int) render.Scene
	inbox     *event.Mailbox
	sink      led.Sink

	log  zerolog.Logger
	reg  metrics.Registry
	diag diag.Reporter

	frameDelay time.Duration
	hold       time.Duration
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error

	state  RenderState
	start  time.Time
	frames uint64
	window time.Time

	frameTimer metrics.Timer
	sinkErrors metrics.Counter
	counters   map[string]metrics.Counter
	sceneGauge metrics.Gauge
	levelGauge metrics.Gauge
	rawGauge   metrics.GaugeFloat64
	usedGauge  metrics.Gauge
}

func New(o Options) (*Controller, error) {
	switch {
	case o.Grid == nil:
		return nil, fmt.Errorf("app: nil grid")
	case len(o.Scenes) == 0:
		return nil, fmt.Errorf("app: no scenes")
	case len(o.Levels) == 0:
		return nil, fmt.Errorf("app: no brightness levels")
	case o.Indicator == nil:
		return nil, fmt.Errorf("app: nil indicator")
	case o.Inbox == nil:
		return nil, fmt.Errorf("app: nil mailbox")
	case o.Sink == nil:
		return nil, fmt.Errorf("app: nil sink")
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewRegistry()
	}
	if o.Diag == nil {
		o.Diag = diag.Nop
	}
	if o.FrameDelay <= 0 {
		o.FrameDelay = DefaultFrameDelay
	}
	if o.IndicatorHold <= 0 {
		o.IndicatorHold = DefaultIndicatorHold
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Sleep == nil {
		o.Sleep = sleep
	}

	c := &Controller{
		grid:       o.Grid,
		eval:       render.NewEvaluator(o.Grid),
		scenes:     o.Scenes,
		levels:     o.Levels,
		indicator:  o.Indicator,
		inbox:      o.Inbox,
		sink:       o.Sink,
		log:        o.Log,
		reg:        o.Metrics,
		diag:       o.Diag,
		frameDelay: o.FrameDelay,
		hold:       o.IndicatorHold,
		now:        o.Now,
		sleep:      o.Sleep,
		state:      RenderState{Scene: mod(o.StartScene, len(o.Scenes))},

		frameTimer: metrics.GetOrRegisterTimer(MetricFrame, o.Metrics),
		sinkErrors: metrics.GetOrRegisterCounter(MetricSinkErrors, o.Metrics),
		sceneGauge: metrics.GetOrRegisterGauge(MetricScene, o.Metrics),
		levelGauge: metrics.GetOrRegisterGauge(MetricLevel, o.Metrics),
		rawGauge:   metrics.GetOrRegisterGaugeFloat64(MetricRawGain, o.Metrics),
		usedGauge:  metrics.GetOrRegisterGauge(MetricMailboxUsed, o.Metrics),
		counters:   map[string]metrics.Counter{},
	}
	for _, name := range []string{MetricThermal, MetricRemote, MetricShortPress, MetricLongPress} {
		c.counters[name] = metrics.GetOrRegisterCounter(name, o.Metrics)
	}
	c.start = c.now()
	c.window = c.start
	c.sceneGauge.Update(int64(c.state.Scene))
	c.rawGauge.Update(c.grid.RawGain())
	return c, nil
}

func (c *Controller) State() RenderState        { return c.state }
func (c *Controller) Metrics() metrics.Registry { return c.reg }
func (c *Controller) Frames() uint64            { return c.frames }

// Run steps until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	c.log.Info().Int("scene", c.state.Scene).Int("scenes", len(c.scenes)).Msg("control loop started")
	for {
		if err := c.Step(ctx); err != nil {
			if ctx.Err() != nil {
				c.log.Info().Uint64("frames", c.frames).Msg("control loop stopped")
				return nil
			}
			return err
		}
	}
}

// Step runs one iteration of the loop, including the frame delay. It
// returns an error only when ctx is done.
func (c *Controller) Step(ctx context.Context) error {
	t := c.now().Sub(c.start).Seconds()
	c.grid.SetGain(c.levels[c.state.Level])

	c.usedGauge.Update(int64(c.inbox.Len()))
	if ev, ok := c.inbox.TryReceive(); ok {
		if err := c.apply(ctx, ev, t); err != nil {
			return err
		}
	}

	began := c.now()
	c.eval.Evaluate(c.scenes[c.state.Scene], t)
	c.flush()
	c.grid.Clear()
	c.frameTimer.UpdateSince(began)
	c.tick()

	return c.sleep(ctx, c.frameDelay)
}

func (c *Controller) apply(ctx context.Context, ev event.Event, t float64) error {
	switch ev := ev.(type) {
	case event.ThermalThrottle:
		c.counters[MetricThermal].Inc(1)
		c.grid.SetRawGain(ev.Factor)
		c.rawGauge.Update(ev.Factor)
		c.log.Info().Float64("factor", ev.Factor).Msg("thermal throttle multiplier")
		sev := diag.Warn
		if ev.Factor >= 1 {
			sev = diag.Info
		}
		c.diag.Report(diag.Diagnostic{
			Severity: sev, Code: diag.CodeThermal, Summary: "thermal output cap changed",
			Evidence: map[string]any{"raw_gain": ev.Factor},
		})

	case event.RemoteCommand:
		c.counters[MetricRemote].Inc(1)
		c.log.Info().Str("code", fmt.Sprintf("0x%08x", ev.Code)).Msg("remote command")
		c.diag.Report(diag.Diagnostic{
			Severity: diag.Info, Code: diag.CodeRemote, Summary: "remote command received",
			Evidence: map[string]any{"code": ev.Code},
		})

	case event.ShortPress:
		c.counters[MetricShortPress].Inc(1)
		c.state.Scene = (c.state.Scene + 1) % len(c.scenes)
		c.sceneGauge.Update(int64(c.state.Scene))
		c.log.Info().Int("scene", c.state.Scene).Msg("short press")
		c.diag.Report(diag.Diagnostic{
			Severity: diag.Info, Code: diag.CodeScene, Summary: "scene changed",
			Evidence: map[string]any{"scene": c.state.Scene},
		})

	case event.LongPress:
		c.counters[MetricLongPress].Inc(1)
		c.state.Level = (c.state.Level + 1) % len(c.levels)
		c.levelGauge.Update(int64(c.state.Level))
		c.log.Info().Int("level", c.state.Level).Float64("gain", c.levels[c.state.Level]).Msg("long press")
		c.diag.Report(diag.Diagnostic{
			Severity: diag.Info, Code: diag.CodeLevel, Summary: "brightness level changed",
			Evidence: map[string]any{"level": c.state.Level, "gain": c.levels[c.state.Level]},
		})
		return c.showLevel(ctx, t)

	default:
		c.log.Warn().Str("event", fmt.Sprint(ev)).Msg("unhandled event")
	}
	return nil
}

// showLevel renders the power-level indicator and holds it. Input is not
// processed during the hold; only shutdown interrupts it.
func (c *Controller) showLevel(ctx context.Context, t float64) error {
	c.grid.SetGain(c.levels[c.state.Level])
	c.eval.Evaluate(c.indicator(c.state.Level), t)
	c.flush()
	err := c.sleep(ctx, c.hold)
	c.grid.Clear()
	return err
}

func (c *Controller) flush() {
	if err := c.sink.Write(c.grid.Frame()); err != nil {
		c.sinkErrors.Inc(1)
		n := c.sinkErrors.Count()
		c.log.Error().Err(err).Int64("count", n).Msg("sink write")
		if n == 1 || n%fpsWindow == 0 {
			c.diag.Report(diag.Diagnostic{
				Severity: diag.Err, Code: diag.CodeSink, Summary: "frame could not be written",
				Detail:         err.Error(),
				LikelyCauses:   []string{"LED bus unplugged", "SPI port busy"},
				SuggestedFixes: []string{"check the data line", "run with driver: console"},
				Evidence:       map[string]any{"count": n},
			})
		}
	}
}

func (c *Controller) tick() {
	c.frames++
	if c.frames%fpsWindow != 0 {
		return
	}
	now := c.now()
	if dt := now.Sub(c.window).Seconds(); dt > 0 {
		c.log.Info().
			Float64("fps", fpsWindow/dt).
			Float64("render_ms", c.frameTimer.Mean()/float64(time.Millisecond)).
			Msg("frame rate")
	}
	c.window = now
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func mod(a, n int) int {
	a %= n
	if a < 0 {
		a += n
	}
	return a
}
