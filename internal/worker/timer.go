package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/stopwatch/internal/gpio"
	"github.com/sweeney/stopwatch/internal/stopwatch"
)

// Timer advances the stopwatch every interval and mirrors its state on the
// running and paused LEDs. It is the only writer of both LED lines.
type Timer struct {
	sw         *stopwatch.Stopwatch
	runningLED gpio.Line
	pausedLED  gpio.Line
	renderer   Renderer
	interval   time.Duration
	failures   *absorber
}

// NewTimer creates a Timer ticking at stopwatch.TimerInterval.
func NewTimer(sw *stopwatch.Stopwatch, runningLED, pausedLED gpio.Line, renderer Renderer) *Timer {
	return &Timer{
		sw:         sw,
		runningLED: runningLED,
		pausedLED:  pausedLED,
		renderer:   renderer,
		interval:   stopwatch.TimerInterval,
		failures:   newAbsorber(),
	}
}

// Step performs one tick: advance and drive the LEDs under the stopwatch
// lock, then render the resulting snapshot outside it.
func (t *Timer) Step() stopwatch.Snapshot {
	snap := t.sw.Tick(t.interval, t.driveLEDs)

	if t.renderer != nil {
		if err := t.renderer.Render(snap); err != nil {
			log.Debugf("render: %v", err)
		}
	}
	return snap
}

func (t *Timer) driveLEDs(running bool) {
	on, off := gpio.High, gpio.Low
	if !running {
		on, off = off, on
	}
	t.failures.absorb("write", t.runningLED.Pin(), t.runningLED.Write(on))
	t.failures.absorb("write", t.pausedLED.Pin(), t.pausedLED.Write(off))
}

// Run ticks until ctx is cancelled. Elapsed time grows by exactly one
// interval per tick; wall-clock drift is not compensated.
func (t *Timer) Run(ctx context.Context) error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	return t.loop(ctx, ticker.C)
}

func (t *Timer) loop(ctx context.Context, tick <-chan time.Time) error {
	log.Debugf("timer worker started: interval=%v", t.interval)
	for {
		t.Step()

		select {
		case <-ctx.Done():
			log.Debug("timer worker stopped")
			return nil
		case <-tick:
		}
	}
}
