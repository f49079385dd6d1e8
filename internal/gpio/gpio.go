// Package gpio provides digital line access with hardware abstraction.
// Lines can be backed by the sysfs path interface, the Linux GPIO character
// device or periph.io. The fake implementation allows testing without
// hardware.
package gpio

import (
	"errors"
	"fmt"
)

// Level is the logic level of a line.
type Level int

const (
	Low  Level = 0
	High Level = 1

	// LevelError is reported by Read when the line's value resource could
	// not be opened.
	LevelError Level = -1
)

func (l Level) String() string {
	switch l {
	case Low:
		return "0"
	case High:
		return "1"
	default:
		return "error"
	}
}

// Line is a single digital signal addressed by pin number.
type Line interface {
	// Pin returns the line's numeric identifier.
	Pin() int

	// ConfigureInput sets the line direction to input.
	ConfigureInput() error

	// Read returns the current logic level. Anything that is not a clean
	// high reading is Low. A resource that cannot be opened returns
	// LevelError and a non-nil error.
	Read() (Level, error)

	// Write drives the line to the given level.
	Write(level Level) error

	// Close releases any resources held for the line.
	Close() error
}

// Pin roles (sysfs global numbering).
const (
	PinStartStop  = 48
	PinReset      = 49
	PinLEDRunning = 117
	PinLEDPaused  = 115
)

// Backend selects how lines are accessed.
type Backend string

const (
	BackendSysfs  Backend = "sysfs"
	BackendCdev   Backend = "cdev"
	BackendPeriph Backend = "periph"
)

// DefaultLinesPerChip is the bank width used to map global pin numbers onto
// character device chips and offsets.
const DefaultLinesPerChip = 32

// Config selects and parameterises a backend.
type Config struct {
	Backend      Backend
	SysfsRoot    string
	LinesPerChip int
}

// ErrAbsent is returned by every operation on an absent line.
var ErrAbsent = errors.New("gpio: line absent")

// Open returns a Line for pin using the configured backend.
func Open(cfg Config, pin int) (Line, error) {
	switch cfg.Backend {
	case BackendSysfs, "":
		root := cfg.SysfsRoot
		if root == "" {
			root = DefaultSysfsRoot
		}
		return NewSysfsLine(root, pin), nil
	case BackendCdev:
		n := cfg.LinesPerChip
		if n <= 0 {
			n = DefaultLinesPerChip
		}
		return NewCdevLine(pin, n), nil
	case BackendPeriph:
		return NewPeriphLine(pin)
	default:
		return nil, fmt.Errorf("unknown gpio backend %q", cfg.Backend)
	}
}

// AbsentLine stands in for a line whose backend could not provide it.
// It behaves like a missing sysfs entry: reads fail, writes are no-ops.
type AbsentLine struct {
	pin int
}

// NewAbsentLine returns a placeholder for pin.
func NewAbsentLine(pin int) *AbsentLine {
	return &AbsentLine{pin: pin}
}

func (a *AbsentLine) Pin() int                { return a.pin }
func (a *AbsentLine) ConfigureInput() error   { return ErrAbsent }
func (a *AbsentLine) Read() (Level, error)    { return LevelError, ErrAbsent }
func (a *AbsentLine) Write(level Level) error { return ErrAbsent }
func (a *AbsentLine) Close() error            { return nil }
