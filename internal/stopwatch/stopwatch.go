package stopwatch

import (
	"sync"
	"time"
)

// Stopwatch is the state shared by the timer and button workers. All reads
// and writes happen with mu held.
type Stopwatch struct {
	mu        sync.Mutex
	running   bool
	elapsedMs uint64
	counts    EventCounts
}

// New returns a paused stopwatch at zero.
func New() *Stopwatch {
	return &Stopwatch{}
}

// Tick advances elapsed time by step if running, then calls drive with the
// running flag. drive runs with the lock held so outputs never disagree
// with the state they reflect.
func (s *Stopwatch) Tick(step time.Duration, drive func(running bool)) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.elapsedMs += uint64(step.Milliseconds())
	}
	if drive != nil {
		drive(s.running)
	}
	return s.snapshotLocked()
}

// Apply handles the commands observed in one button sample. startStop
// toggles running. reset pauses and zeroes elapsed time. When both fire,
// the toggle is applied first, so the result is always paused at zero.
// The returned events are in application order.
func (s *Stopwatch) Apply(startStop, reset bool) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []Event

	if startStop {
		s.running = !s.running
		typ := EventPaused
		if s.running {
			typ = EventStarted
			s.counts.Started++
		} else {
			s.counts.Paused++
		}
		events = append(events, Event{Type: typ, Snapshot: s.snapshotLocked()})
	}

	if reset {
		s.running = false
		s.elapsedMs = 0
		s.counts.Resets++
		events = append(events, Event{Type: EventReset, Snapshot: s.snapshotLocked()})
	}

	return events
}

// Snapshot returns the current state.
func (s *Stopwatch) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Counts returns the number of applied commands by type.
func (s *Stopwatch) Counts() EventCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts
}

func (s *Stopwatch) snapshotLocked() Snapshot {
	return Snapshot{Running: s.running, ElapsedMs: s.elapsedMs}
}
