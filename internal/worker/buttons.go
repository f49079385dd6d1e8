package worker

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/stopwatch/internal/gpio"
	"github.com/sweeney/stopwatch/internal/stopwatch"
)

// DefaultPollInterval bounds how often the buttons are sampled.
const DefaultPollInterval = 5 * time.Millisecond

// Buttons polls the start/stop and reset lines and applies a command on
// every rising edge. Edge state is private to the worker.
type Buttons struct {
	sw        *stopwatch.Stopwatch
	startStop gpio.Line
	reset     gpio.Line
	poll      time.Duration
	events    chan<- stopwatch.Event
	now       func() time.Time
	failures  *absorber

	startStopEdge stopwatch.EdgeTracker
	resetEdge     stopwatch.EdgeTracker
}

// NewButtons creates a button worker. Applied commands are sent to events
// without blocking; events may be nil. A non-positive poll uses
// DefaultPollInterval.
func NewButtons(sw *stopwatch.Stopwatch, startStop, reset gpio.Line, poll time.Duration, events chan<- stopwatch.Event) *Buttons {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Buttons{
		sw:        sw,
		startStop: startStop,
		reset:     reset,
		poll:      poll,
		events:    events,
		now:       time.Now,
		failures:  newAbsorber(),
	}
}

// Configure sets both button lines to input. Failures are absorbed.
func (b *Buttons) Configure() {
	b.failures.absorb("configure", b.startStop.Pin(), b.startStop.ConfigureInput())
	b.failures.absorb("configure", b.reset.Pin(), b.reset.ConfigureInput())
}

// Poll samples both lines once and applies any rising edges. The two reads
// are independent, not an atomic snapshot of both lines.
func (b *Buttons) Poll() []stopwatch.Event {
	startStop := b.pressed(b.startStop)
	reset := b.pressed(b.reset)

	events := b.sw.Apply(b.startStopEdge.Observe(startStop), b.resetEdge.Observe(reset))
	if len(events) == 0 {
		return nil
	}

	t := b.now()
	for i := range events {
		events[i].Timestamp = t
		b.notify(events[i])
	}
	return events
}

// pressed treats anything but a clean High, including read errors, as
// released.
func (b *Buttons) pressed(line gpio.Line) bool {
	level, err := line.Read()
	b.failures.absorb("read", line.Pin(), err)
	return level == gpio.High
}

func (b *Buttons) notify(e stopwatch.Event) {
	if b.events == nil {
		return
	}
	select {
	case b.events <- e:
	default:
		log.Warnf("event channel full, dropping %s", e.Type)
	}
}

// Run configures the inputs and polls until ctx is cancelled.
func (b *Buttons) Run(ctx context.Context) error {
	b.Configure()

	ticker := time.NewTicker(b.poll)
	defer ticker.Stop()
	return b.loop(ctx, ticker.C)
}

func (b *Buttons) loop(ctx context.Context, tick <-chan time.Time) error {
	log.Debugf("button worker started: poll=%v", b.poll)
	for {
		b.Poll()

		select {
		case <-ctx.Done():
			log.Debug("button worker stopped")
			return nil
		case <-tick:
		}
	}
}
