package engine

import "sync/atomic"

// Clock hands out the logical sequence numbers stamped on events. Sequence
// numbers are strictly increasing across turns and never derive from wall
// time, so a replayed campaign stamps exactly the same numbers.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock whose first Next is 1.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt resumes a clock after seq, e.g. from a journal's last event.
func NewClockAt(seq int64) *Clock {
	c := &Clock{}
	c.seq.Store(seq)
	return c
}

// Next advances the clock and returns the new sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the last number handed out.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
