//go:build !linux

package gpio

import "errors"

var errCdevUnsupported = errors.New("gpio: character device not supported on this platform (requires Linux)")

// CdevLine is not available on non-Linux platforms.
type CdevLine struct {
	pin int
}

// NewCdevLine returns a line whose operations all fail.
func NewCdevLine(pin, linesPerChip int) *CdevLine {
	return &CdevLine{pin: pin}
}

func (l *CdevLine) Pin() int                { return l.pin }
func (l *CdevLine) ConfigureInput() error   { return errCdevUnsupported }
func (l *CdevLine) Read() (Level, error)    { return LevelError, errCdevUnsupported }
func (l *CdevLine) Write(level Level) error { return errCdevUnsupported }
func (l *CdevLine) Close() error            { return nil }
