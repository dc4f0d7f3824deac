package timex

import (
	"sync"
	"time"
)

// Clock is the single wall-clock accessor used by expiry checks.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant until moved. Safe for
// concurrent use.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// UnixNow returns c.Now() truncated to whole seconds since the epoch, the
// unit JWT expiry claims are expressed in.
func UnixNow(c Clock) int64 {
	return c.Now().Unix()
}
