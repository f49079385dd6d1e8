// Package worker runs the two stopwatch loops: the timer, which advances
// time and drives the LEDs, and the button poller, which turns rising edges
// into commands. Both take the shared stopwatch and their lines by
// injection and stop when their context is cancelled.
package worker

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/sweeney/stopwatch/internal/stopwatch"
)

// Renderer displays a stopwatch snapshot.
type Renderer interface {
	Render(s stopwatch.Snapshot) error
}

// absorber swallows GPIO failures so missing hardware degrades to a line
// that never changes. The first failure of an operation on a pin is logged
// at warn, repeats at debug, and recovery at info.
type absorber struct {
	failing map[string]bool
}

func newAbsorber() *absorber {
	return &absorber{failing: make(map[string]bool)}
}

func (a *absorber) absorb(op string, pin int, err error) {
	key := fmt.Sprintf("%s/%d", op, pin)
	if err == nil {
		if a.failing[key] {
			log.Infof("gpio %s on pin %d recovered", op, pin)
			delete(a.failing, key)
		}
		return
	}
	if !a.failing[key] {
		log.Warnf("gpio %s on pin %d failed, continuing without it: %v", op, pin, err)
		a.failing[key] = true
		return
	}
	log.Debugf("gpio %s on pin %d: %v", op, pin, err)
}
