package engine

import (
	"sync"
	"time"
)

// Clock converts wall time into a count of fixed simulation steps
// Time accumulates while running; each Advance consumes whole steps from the accumulator
// After a stall at most maxCatchUp steps run and the rest of the backlog is dropped
type Clock struct {
	mu sync.Mutex

	provider   TimeProvider
	step       time.Duration
	maxCatchUp int

	last        time.Time
	accumulator time.Duration
	paused      bool
	ticks       uint64
	dropped     time.Duration
}

func NewClock(provider TimeProvider, step time.Duration, maxCatchUp int) *Clock {
	if maxCatchUp < 1 {
		maxCatchUp = 1
	}
	return &Clock{
		provider:   provider,
		step:       step,
		maxCatchUp: maxCatchUp,
		last:       provider.Now(),
	}
}

// Advance reads the provider and returns the number of steps due now
// The returned steps are counted as run
func (c *Clock) Advance() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.provider.Now()
	elapsed := now.Sub(c.last)
	c.last = now
	if c.paused || elapsed <= 0 {
		return 0
	}

	c.accumulator += elapsed
	n := int(c.accumulator / c.step)
	if n > c.maxCatchUp {
		c.dropped += time.Duration(n-c.maxCatchUp) * c.step
		n = c.maxCatchUp
		c.accumulator = c.accumulator % c.step
	} else {
		c.accumulator -= time.Duration(n) * c.step
	}
	c.ticks += uint64(n)
	return n
}

// UntilNext is the wall time left before the next step is due
func (c *Clock) UntilNext() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		return c.step
	}
	d := c.step - c.accumulator - c.provider.Now().Sub(c.last)
	if d < 0 {
		return 0
	}
	return d
}

// Pause freezes step accumulation; time spent paused is never replayed
func (c *Clock) Pause() {
	c.mu.Lock()
	c.paused = true
	c.mu.Unlock()
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused {
		c.paused = false
		c.last = c.provider.Now()
	}
}

func (c *Clock) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Ticks is the number of steps handed out since creation or Reset
func (c *Clock) Ticks() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticks
}

// Dropped is the wall time discarded by the catch-up cap
func (c *Clock) Dropped() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

func (c *Clock) Step() time.Duration {
	return c.step
}

// Reset clears the tick count and accumulator
func (c *Clock) Reset() {
	c.mu.Lock()
	c.ticks = 0
	c.accumulator = 0
	c.dropped = 0
	c.last = c.provider.Now()
	c.mu.Unlock()
}
