// Package timer provides cancellable delayed callbacks driven by an explicit
// frame clock instead of wall time.
package timer

import (
	"sort"
	"time"
)

// Handle refers to one scheduled callback.
type Handle interface {
	// Cancel prevents the callback from running. Cancelling a fired or
	// already cancelled handle is a no-op.
	Cancel()
	// Pending reports whether the callback is still waiting to run.
	Pending() bool
}

// Scheduler runs fn once at least d has elapsed.
type Scheduler interface {
	After(d time.Duration, fn func()) Handle
}

type task struct {
	due  time.Duration
	tick uint64
	seq  uint64
	fn   func()
	done bool
}

func (t *task) Cancel() {
	if t == nil {
		return
	}
	t.done = true
	t.fn = nil
}

func (t *task) Pending() bool {
	return t != nil && !t.done
}

// Clock is a Scheduler advanced by its owner once per frame. A callback never
// runs during the tick that scheduled it, so a zero delay resumes on the next
// tick.
type Clock struct {
	now   time.Duration
	tick  uint64
	seq   uint64
	tasks []*task
}

func NewClock() *Clock {
	return &Clock{}
}

// Now returns the total time advanced so far.
func (c *Clock) Now() time.Duration {
	if c == nil {
		return 0
	}
	return c.now
}

// Ticks returns the number of Advance calls.
func (c *Clock) Ticks() uint64 {
	if c == nil {
		return 0
	}
	return c.tick
}

func (c *Clock) After(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	t := &task{fn: fn}
	if c == nil || fn == nil {
		t.done = true
		return t
	}
	c.seq++
	t.due = c.now + d
	t.tick = c.tick
	t.seq = c.seq
	c.tasks = append(c.tasks, t)
	return t
}

// Advance moves the clock forward by dt and runs every callback that became
// due, earliest first. It returns the number of callbacks run.
func (c *Clock) Advance(dt time.Duration) int {
	if c == nil {
		return 0
	}
	if dt < 0 {
		dt = 0
	}
	c.tick++
	c.now += dt

	due := make([]*task, 0, len(c.tasks))
	for _, t := range c.tasks {
		if !t.done && t.tick < c.tick && t.due <= c.now {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})

	ran := 0
	for _, t := range due {
		// an earlier callback may have cancelled this one
		if t.done {
			continue
		}
		fn := t.fn
		t.done = true
		t.fn = nil
		fn()
		ran++
	}

	live := c.tasks[:0]
	for _, t := range c.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(c.tasks); i++ {
		c.tasks[i] = nil
	}
	c.tasks = live
	return ran
}

// Pending returns the number of callbacks waiting to run.
func (c *Clock) Pending() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, t := range c.tasks {
		if !t.done {
			n++
		}
	}
	return n
}
