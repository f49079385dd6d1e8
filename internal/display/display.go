// Package display renders the stopwatch as a single status line that is
// overwritten in place.
package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/sweeney/stopwatch/internal/stopwatch"
)

// lineWidth pads every line so a shorter line fully covers a longer one.
const lineWidth = 40

// Label returns "Running" or "Paused".
func Label(s stopwatch.Snapshot) string {
	if s.Running {
		return "Running"
	}
	return "Paused"
}

// Seconds formats elapsed time as seconds.hundredths, e.g. "12.30".
func Seconds(s stopwatch.Snapshot) string {
	return fmt.Sprintf("%d.%02d", s.ElapsedMs/1000, (s.ElapsedMs%1000)/10)
}

// Format returns the status line, starting with a carriage return.
func Format(s stopwatch.Snapshot) string {
	line := fmt.Sprintf("Elapsed Time (%s): %s seconds", Label(s), Seconds(s))
	return fmt.Sprintf("\r%-*s", lineWidth, line)
}

type flusher interface {
	Flush() error
}

// Renderer writes status lines to w. It is safe for concurrent use.
type Renderer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewRenderer creates a Renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Render overwrites the current line with s and flushes buffered writers.
func (r *Renderer) Render(s stopwatch.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := io.WriteString(r.w, Format(s)); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if f, ok := r.w.(flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flush: %w", err)
		}
	}
	return nil
}

// Finish ends the status line so later output starts on a fresh line.
func (r *Renderer) Finish() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := io.WriteString(r.w, "\n"); err != nil {
		return err
	}
	if f, ok := r.w.(flusher); ok {
		return f.Flush()
	}
	return nil
}
