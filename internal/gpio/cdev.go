//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// CdevLine accesses a pin through the Linux GPIO character device.
// The line is requested lazily: as input on ConfigureInput or the first
// Read, as output on the first Write.
type CdevLine struct {
	pin    int
	chip   string
	offset int
	line   *gpiocdev.Line
	output bool
}

// NewCdevLine maps the global pin number onto gpiochip<pin/linesPerChip>
// at offset pin%linesPerChip.
func NewCdevLine(pin, linesPerChip int) *CdevLine {
	return &CdevLine{
		pin:    pin,
		chip:   fmt.Sprintf("gpiochip%d", pin/linesPerChip),
		offset: pin % linesPerChip,
	}
}

func (l *CdevLine) Pin() int { return l.pin }

// ConfigureInput requests the line as input, or reconfigures it if it is
// already held as output.
func (l *CdevLine) ConfigureInput() error {
	if l.line == nil {
		line, err := gpiocdev.RequestLine(l.chip, l.offset, gpiocdev.AsInput)
		if err != nil {
			return fmt.Errorf("request %s:%d as input: %w", l.chip, l.offset, err)
		}
		l.line = line
		l.output = false
		return nil
	}
	if l.output {
		if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
			return fmt.Errorf("reconfigure %s:%d as input: %w", l.chip, l.offset, err)
		}
		l.output = false
	}
	return nil
}

func (l *CdevLine) Read() (Level, error) {
	if l.line == nil {
		if err := l.ConfigureInput(); err != nil {
			return LevelError, err
		}
	}
	v, err := l.line.Value()
	if err != nil {
		return LevelError, fmt.Errorf("read %s:%d: %w", l.chip, l.offset, err)
	}
	if v == 1 {
		return High, nil
	}
	return Low, nil
}

func (l *CdevLine) Write(level Level) error {
	v := 0
	if level == High {
		v = 1
	}

	switch {
	case l.line == nil:
		line, err := gpiocdev.RequestLine(l.chip, l.offset, gpiocdev.AsOutput(v))
		if err != nil {
			return fmt.Errorf("request %s:%d as output: %w", l.chip, l.offset, err)
		}
		l.line = line
		l.output = true
		return nil
	case !l.output:
		if err := l.line.Reconfigure(gpiocdev.AsOutput(v)); err != nil {
			return fmt.Errorf("reconfigure %s:%d as output: %w", l.chip, l.offset, err)
		}
		l.output = true
		return nil
	}

	if err := l.line.SetValue(v); err != nil {
		return fmt.Errorf("write %s:%d: %w", l.chip, l.offset, err)
	}
	return nil
}

// Close reverts the line to input before releasing it, so LEDs are not
// left driven after exit.
func (l *CdevLine) Close() error {
	if l.line == nil {
		return nil
	}

	var errs []error
	if l.output {
		if err := l.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s:%d: %w", l.chip, l.offset, err))
		}
	}
	if err := l.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close %s:%d: %w", l.chip, l.offset, err))
	}
	l.line = nil
	l.output = false

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
