package gpio

import "sync"

// FakeLine is a test double with a settable level and an optional script
// of readings. It is safe for concurrent use.
type FakeLine struct {
	mu sync.Mutex

	pin   int
	level Level

	// script holds scripted readings; each Read consumes the next one and
	// leaves it as the current level.
	script []Level
	index  int

	configured bool
	writes     []Level
	closed     bool

	// ReadError, WriteError and ConfigureError, if set, are returned by the
	// corresponding operation.
	ReadError      error
	WriteError     error
	ConfigureError error
}

// NewFakeLine creates a FakeLine for pin that reads Low until scripted or set.
func NewFakeLine(pin int, script ...Level) *FakeLine {
	return &FakeLine{pin: pin, script: script}
}

func (f *FakeLine) Pin() int { return f.pin }

func (f *FakeLine) ConfigureInput() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ConfigureError != nil {
		return f.ConfigureError
	}
	f.configured = true
	return nil
}

// Read returns the next scripted level, or the current level once the
// script is exhausted.
func (f *FakeLine) Read() (Level, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ReadError != nil {
		return LevelError, f.ReadError
	}
	if f.index < len(f.script) {
		f.level = f.script[f.index]
		f.index++
	}
	return f.level, nil
}

// Write records the level and makes it the current level.
func (f *FakeLine) Write(level Level) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.WriteError != nil {
		return f.WriteError
	}
	f.writes = append(f.writes, level)
	f.level = level
	return nil
}

func (f *FakeLine) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Set changes the level returned by Read once the script is exhausted.
func (f *FakeLine) Set(level Level) {
	f.mu.Lock()
	f.level = level
	f.mu.Unlock()
}

// Level returns the current level without consuming the script.
func (f *FakeLine) Level() Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

// Writes returns a copy of every level written so far.
func (f *FakeLine) Writes() []Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Level(nil), f.writes...)
}

// Configured reports whether ConfigureInput succeeded.
func (f *FakeLine) Configured() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.configured
}

// Closed reports whether Close was called.
func (f *FakeLine) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
