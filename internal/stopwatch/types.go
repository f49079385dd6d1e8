// Package stopwatch contains the shared stopwatch state and its transition
// rules. This package has NO external dependencies (no GPIO, MQTT, OS, or
// time.Sleep). Callers own the Stopwatch and inject it where needed.
package stopwatch

import "time"

// TimerInterval is the fixed quantum by which elapsed time advances.
const TimerInterval = 100 * time.Millisecond

// EventType names a command applied to the stopwatch.
type EventType string

const (
	EventStarted EventType = "STARTED"
	EventPaused  EventType = "PAUSED"
	EventReset   EventType = "RESET"
)

// Snapshot is a point-in-time copy of the stopwatch state.
type Snapshot struct {
	Running   bool
	ElapsedMs uint64
}

// Event is a command applied to the stopwatch together with the state it
// left behind. Timestamp is filled in by the caller.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Snapshot  Snapshot
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Started int
	Paused  int
	Resets  int
}
