package stopwatch

import (
	"sync"
	"testing"
)

func TestNewStopwatch(t *testing.T) {
	s := New()
	snap := s.Snapshot()
	if snap.Running {
		t.Error("new stopwatch should be paused")
	}
	if snap.ElapsedMs != 0 {
		t.Errorf("expected elapsed 0, got %d", snap.ElapsedMs)
	}
	if s.Counts() != (EventCounts{}) {
		t.Errorf("expected zero counts, got %+v", s.Counts())
	}
}

func TestTickWhilePausedDoesNotAdvance(t *testing.T) {
	s := New()
	for i := 0; i < 50; i++ {
		snap := s.Tick(TimerInterval, nil)
		if snap.ElapsedMs != 0 {
			t.Fatalf("tick %d: expected elapsed 0, got %d", i, snap.ElapsedMs)
		}
		if snap.Running {
			t.Fatalf("tick %d: expected paused", i)
		}
	}
}

func TestTickWhileRunningAdvancesInQuanta(t *testing.T) {
	for _, n := range []int{1, 5, 10, 37, 1000} {
		s := New()
		s.Apply(true, false)
		var snap Snapshot
		for i := 0; i < n; i++ {
			snap = s.Tick(TimerInterval, nil)
		}
		if want := uint64(n) * 100; snap.ElapsedMs != want {
			t.Errorf("%d ticks: expected elapsed %d, got %d", n, want, snap.ElapsedMs)
		}
	}
}

func TestTickDrivesWithRunningFlag(t *testing.T) {
	s := New()

	var seen []bool
	drive := func(running bool) { seen = append(seen, running) }

	s.Tick(TimerInterval, drive)
	s.Apply(true, false)
	s.Tick(TimerInterval, drive)
	s.Apply(true, false)
	s.Tick(TimerInterval, drive)

	want := []bool{false, true, false}
	if len(seen) != len(want) {
		t.Fatalf("expected %d drive calls, got %d", len(want), len(seen))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("drive %d: got running=%v, want %v", i, seen[i], want[i])
		}
	}
}

func TestTickDriveHoldsLock(t *testing.T) {
	s := New()
	s.Tick(TimerInterval, func(bool) {
		if s.mu.TryLock() {
			s.mu.Unlock()
			t.Error("drive should run with the lock held")
		}
	})
}

func TestToggle(t *testing.T) {
	s := New()

	events := s.Apply(true, false)
	if len(events) != 1 || events[0].Type != EventStarted {
		t.Fatalf("expected STARTED, got %+v", events)
	}
	if !events[0].Snapshot.Running {
		t.Error("STARTED snapshot should be running")
	}

	s.Tick(TimerInterval, nil)
	s.Tick(TimerInterval, nil)

	events = s.Apply(true, false)
	if len(events) != 1 || events[0].Type != EventPaused {
		t.Fatalf("expected PAUSED, got %+v", events)
	}
	if events[0].Snapshot.Running || events[0].Snapshot.ElapsedMs != 200 {
		t.Errorf("unexpected PAUSED snapshot: %+v", events[0].Snapshot)
	}

	// Paused time does not advance but is kept.
	s.Tick(TimerInterval, nil)
	if got := s.Snapshot().ElapsedMs; got != 200 {
		t.Errorf("expected elapsed 200 after paused tick, got %d", got)
	}
}

func TestNoCommandsNoEvents(t *testing.T) {
	s := New()
	if events := s.Apply(false, false); len(events) != 0 {
		t.Errorf("expected no events, got %+v", events)
	}
	if s.Snapshot() != (Snapshot{}) {
		t.Errorf("state changed without commands: %+v", s.Snapshot())
	}
}

func TestResetFromAnyState(t *testing.T) {
	tests := []struct {
		name    string
		running bool
		ticks   int
	}{
		{"paused at zero", false, 0},
		{"paused with time", false, 7},
		{"running at zero", true, 0},
		{"running with time", true, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.Apply(true, false)
			for i := 0; i < tt.ticks; i++ {
				s.Tick(TimerInterval, nil)
			}
			if !tt.running {
				s.Apply(true, false)
			}

			events := s.Apply(false, true)
			if len(events) != 1 || events[0].Type != EventReset {
				t.Fatalf("expected RESET, got %+v", events)
			}

			snap := s.Snapshot()
			if snap.Running || snap.ElapsedMs != 0 {
				t.Errorf("expected paused at zero, got %+v", snap)
			}
			if events[0].Snapshot != snap {
				t.Errorf("event snapshot %+v differs from state %+v", events[0].Snapshot, snap)
			}
		})
	}
}

func TestSimultaneousToggleAndResetAlwaysPausedAtZero(t *testing.T) {
	for _, running := range []bool{false, true} {
		s := New()
		if running {
			s.Apply(true, false)
			s.Tick(TimerInterval, nil)
		}

		events := s.Apply(true, true)
		if len(events) != 2 {
			t.Fatalf("running=%v: expected 2 events, got %d", running, len(events))
		}
		if events[1].Type != EventReset {
			t.Errorf("running=%v: reset should be applied last, got %s", running, events[1].Type)
		}
		wantFirst := EventStarted
		if running {
			wantFirst = EventPaused
		}
		if events[0].Type != wantFirst {
			t.Errorf("running=%v: first event got %s, want %s", running, events[0].Type, wantFirst)
		}

		if snap := s.Snapshot(); snap.Running || snap.ElapsedMs != 0 {
			t.Errorf("running=%v: expected paused at zero, got %+v", running, snap)
		}
	}
}

func TestCounts(t *testing.T) {
	s := New()
	s.Apply(true, false)  // started
	s.Apply(true, false)  // paused
	s.Apply(true, false)  // started
	s.Apply(false, true)  // reset
	s.Apply(true, true)   // started + reset
	s.Apply(false, false) // nothing

	want := EventCounts{Started: 3, Paused: 1, Resets: 2}
	if got := s.Counts(); got != want {
		t.Errorf("counts: got %+v, want %+v", got, want)
	}
}

func TestConcurrentTickAndApply(t *testing.T) {
	s := New()
	s.Apply(true, false)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Tick(TimerInterval, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Apply(false, false)
			_ = s.Snapshot()
		}
	}()
	wg.Wait()

	if got := s.Snapshot().ElapsedMs; got != 100000 {
		t.Errorf("expected elapsed 100000, got %d", got)
	}
}
