package engine

import (
	"testing"
	"time"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func TestMockTimeProvider(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	if !mock.Now().Equal(epoch) {
		t.Errorf("Expected initial time %v, got %v", epoch, mock.Now())
	}
	mock.Advance(30 * time.Minute)
	mock.Advance(15 * time.Minute)
	if want := epoch.Add(45 * time.Minute); !mock.Now().Equal(want) {
		t.Errorf("Expected %v after advances, got %v", want, mock.Now())
	}
}

func TestMonotonicTimeProvider(t *testing.T) {
	p := NewMonotonicTimeProvider()
	t1 := p.Now()
	time.Sleep(5 * time.Millisecond)
	if d := p.Now().Sub(t1); d < 5*time.Millisecond {
		t.Errorf("Expected at least 5ms difference, got %v", d)
	}
}

func TestClockAccumulates(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := NewClock(mock, 20*time.Millisecond, 5)

	if n := c.Advance(); n != 0 {
		t.Fatalf("no time elapsed but %d steps", n)
	}

	mock.Advance(15 * time.Millisecond)
	if n := c.Advance(); n != 0 {
		t.Errorf("partial step ran %d", n)
	}
	if d := c.UntilNext(); d != 5*time.Millisecond {
		t.Errorf("UntilNext = %v", d)
	}

	mock.Advance(10 * time.Millisecond)
	if n := c.Advance(); n != 1 {
		t.Errorf("25ms elapsed, steps = %d", n)
	}

	mock.Advance(55 * time.Millisecond)
	if n := c.Advance(); n != 3 {
		t.Errorf("remainder carried, steps = %d, want 3", n)
	}
	if c.Ticks() != 4 {
		t.Errorf("Ticks = %d", c.Ticks())
	}
}

func TestClockCatchUpCap(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := NewClock(mock, 20*time.Millisecond, 5)

	mock.Advance(time.Second + 10*time.Millisecond)
	if n := c.Advance(); n != 5 {
		t.Fatalf("steps after stall = %d, want cap 5", n)
	}
	if c.Dropped() != 900*time.Millisecond {
		t.Errorf("Dropped = %v", c.Dropped())
	}

	// Backlog is gone, only the sub-step remainder carries
	mock.Advance(10 * time.Millisecond)
	if n := c.Advance(); n != 1 {
		t.Errorf("steps after recovery = %d", n)
	}
}

func TestClockPause(t *testing.T) {
	mock := NewMockTimeProvider(epoch)
	c := NewClock(mock, 20*time.Millisecond, 5)

	c.Pause()
	mock.Advance(time.Second)
	if n := c.Advance(); n != 0 || !c.Paused() {
		t.Errorf("paused clock stepped %d", n)
	}

	c.Resume()
	mock.Advance(40 * time.Millisecond)
	if n := c.Advance(); n != 2 {
		t.Errorf("resume replayed paused time: %d steps", n)
	}

	c.Reset()
	if c.Ticks() != 0 {
		t.Errorf("Ticks after reset = %d", c.Ticks())
	}
}
