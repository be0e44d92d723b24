package assembly

import (
	"time"
)

// Clock measures wall-clock time between ticks.
type Clock struct {
	Time time.Time
	Dt   time.Duration

	now func() time.Time
}

func NewClock() *Clock {
	return NewClockWithSource(time.Now)
}

func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{Time: now(), now: now}
}

// Tick advances the clock and returns the elapsed time since the previous tick.
func (c *Clock) Tick() time.Duration {
	now := c.now()
	c.Dt = now.Sub(c.Time)
	if c.Dt < 0 {
		c.Dt = 0
	}
	c.Time = now
	return c.Dt
}
