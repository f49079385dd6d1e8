package stopwatch

// EdgeTracker detects 0→1 transitions between consecutive samples of one
// button. It is not safe for concurrent use; each button worker owns its
// trackers.
type EdgeTracker struct {
	prev bool
}

// Observe records the sample and reports whether it is a rising edge.
func (e *EdgeTracker) Observe(pressed bool) bool {
	rising := pressed && !e.prev
	e.prev = pressed
	return rising
}
