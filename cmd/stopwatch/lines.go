package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/stopwatch/internal/gpio"
	"github.com/sweeney/stopwatch/internal/stopwatch"
	"github.com/sweeney/stopwatch/internal/worker"
)

// lineSet holds the four fixed-role lines.
type lineSet struct {
	startStop  gpio.Line
	reset      gpio.Line
	runningLED gpio.Line
	pausedLED  gpio.Line
}

// openLines opens every role's pin. Leniently, a pin the backend cannot
// provide is replaced by an absent line and the stopwatch runs degraded.
// With strict set, any pin that cannot be opened or read fails startup.
func openLines(cfg gpio.Config, strict bool) (*lineSet, error) {
	pins := []int{gpio.PinStartStop, gpio.PinReset, gpio.PinLEDRunning, gpio.PinLEDPaused}
	opened := make([]gpio.Line, 0, len(pins))

	fail := func(err error) (*lineSet, error) {
		for _, l := range opened {
			l.Close()
		}
		return nil, err
	}

	for _, pin := range pins {
		l, err := gpio.Open(cfg, pin)
		if err != nil {
			if strict {
				return fail(fmt.Errorf("open pin %d: %w", pin, err))
			}
			log.Warnf("pin %d unavailable, continuing without it: %v", pin, err)
			l = gpio.NewAbsentLine(pin)
		}
		opened = append(opened, l)

		if strict {
			if _, err := l.Read(); err != nil {
				return fail(fmt.Errorf("probe pin %d: %w", pin, err))
			}
		}
	}

	return &lineSet{
		startStop:  opened[0],
		reset:      opened[1],
		runningLED: opened[2],
		pausedLED:  opened[3],
	}, nil
}

// Close releases all four lines.
func (s *lineSet) Close() error {
	var errs []error
	for _, l := range []gpio.Line{s.startStop, s.reset, s.runningLED, s.pausedLED} {
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("pin %d: %w", l.Pin(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func newTimer(sw *stopwatch.Stopwatch, lines *lineSet, renderer worker.Renderer) *worker.Timer {
	return worker.NewTimer(sw, lines.runningLED, lines.pausedLED, renderer)
}

func newButtons(sw *stopwatch.Stopwatch, lines *lineSet, poll time.Duration, events chan<- stopwatch.Event) *worker.Buttons {
	return worker.NewButtons(sw, lines.startStop, lines.reset, poll, events)
}
