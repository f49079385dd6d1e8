package gpio

import (
	"fmt"
	"sync"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// initHost loads the periph drivers once per process.
func initHost() error {
	hostOnce.Do(func() {
		_, hostErr = host.Init()
	})
	return hostErr
}

// PeriphLine accesses a pin through periph.io, addressed as GPIO<N>.
type PeriphLine struct {
	pin int
	io  pgpio.PinIO
}

// NewPeriphLine looks up GPIO<pin> in the periph registry.
func NewPeriphLine(pin int) (*PeriphLine, error) {
	if err := initHost(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	name := fmt.Sprintf("GPIO%d", pin)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("periph: no pin named %s", name)
	}
	return &PeriphLine{pin: pin, io: p}, nil
}

func (l *PeriphLine) Pin() int { return l.pin }

func (l *PeriphLine) ConfigureInput() error {
	if err := l.io.In(pgpio.PullNoChange, pgpio.NoEdge); err != nil {
		return fmt.Errorf("configure %s as input: %w", l.io.Name(), err)
	}
	return nil
}

func (l *PeriphLine) Read() (Level, error) {
	if l.io.Read() == pgpio.High {
		return High, nil
	}
	return Low, nil
}

func (l *PeriphLine) Write(level Level) error {
	out := pgpio.Low
	if level == High {
		out = pgpio.High
	}
	if err := l.io.Out(out); err != nil {
		return fmt.Errorf("write %s: %w", l.io.Name(), err)
	}
	return nil
}

func (l *PeriphLine) Close() error {
	return l.io.Halt()
}
