package gpio

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultSysfsRoot is where exported pins appear as gpio<N> directories.
const DefaultSysfsRoot = "/sys/class/gpio"

// SysfsLine accesses an already exported pin through its direction and
// value files. Every operation opens and closes the file, so a pin that
// appears or disappears at runtime is picked up on the next call.
type SysfsLine struct {
	root string
	pin  int
}

// NewSysfsLine returns a line for pin under root.
func NewSysfsLine(root string, pin int) *SysfsLine {
	return &SysfsLine{root: root, pin: pin}
}

func (l *SysfsLine) Pin() int { return l.pin }

func (l *SysfsLine) path(name string) string {
	return filepath.Join(l.root, fmt.Sprintf("gpio%d", l.pin), name)
}

// ConfigureInput writes "in" to the direction file.
func (l *SysfsLine) ConfigureInput() error {
	f, err := os.OpenFile(l.path("direction"), os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open direction for pin %d: %w", l.pin, err)
	}
	defer f.Close()

	if _, err := f.Write([]byte("in")); err != nil {
		return fmt.Errorf("write direction for pin %d: %w", l.pin, err)
	}
	return nil
}

// Read reads one byte from the value file. '1' is High; any other byte,
// an empty file or a failed read is Low.
func (l *SysfsLine) Read() (Level, error) {
	f, err := os.Open(l.path("value"))
	if err != nil {
		return LevelError, fmt.Errorf("open value for pin %d: %w", l.pin, err)
	}
	defer f.Close()

	var b [1]byte
	if n, _ := f.Read(b[:]); n == 1 && b[0] == '1' {
		return High, nil
	}
	return Low, nil
}

// Write writes '1' for High and '0' for anything else.
func (l *SysfsLine) Write(level Level) error {
	f, err := os.OpenFile(l.path("value"), os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open value for pin %d: %w", l.pin, err)
	}
	defer f.Close()

	b := []byte{'0'}
	if level == High {
		b[0] = '1'
	}
	if _, err := f.Write(b); err != nil {
		return fmt.Errorf("write value for pin %d: %w", l.pin, err)
	}
	return nil
}

// Close is a no-op; no file is held between calls.
func (l *SysfsLine) Close() error { return nil }
