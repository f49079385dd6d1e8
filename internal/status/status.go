// Package status provides a thread-safe status view of the stopwatch daemon.
// It is read by the HTTP handlers and by MQTT lifecycle events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/stopwatch/internal/stopwatch"
)

// Source supplies live stopwatch state.
type Source interface {
	Snapshot() stopwatch.Snapshot
	Counts() stopwatch.EventCounts
}

// Config contains daemon configuration for display.
type Config struct {
	Backend     string
	IntervalMs  int64
	PollMs      int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Stopwatch     stopwatch.Snapshot
	Counts        stopwatch.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker combines live stopwatch state with daemon metadata.
type Tracker struct {
	source Source

	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker reading stopwatch state from source.
func NewTracker(startTime time.Time, cfg Config, source Source) *Tracker {
	return &Tracker{
		source: source,
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()

	if t.source != nil {
		s.Stopwatch = t.source.Snapshot()
		s.Counts = t.source.Counts()
	}
	s.Now = time.Now()
	return s
}
