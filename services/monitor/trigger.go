package monitor

import (
	"context"
	"sync/atomic"
	"time"
)

// Trigger is the single point of contact between the tick source and the
// sampling loop. The tick side does nothing but set a flag; the loop side
// consumes it with read-and-clear semantics. A tick that fires while the
// loop is mid-cycle leaves the flag set and is absorbed into the next
// cycle: ticks coalesce, they never queue.
type Trigger struct {
	flag atomic.Bool
}

// Tick asserts the flag. Safe to call from any goroutine; performs no I/O
// and no allocation.
func (t *Trigger) Tick() { t.flag.Store(true) }

// TakeTick observes and clears the flag in one atomic step, so a tick
// landing between observe and clear cannot be lost.
func (t *Trigger) TakeTick() bool { return t.flag.CompareAndSwap(true, false) }

// RunTicker drives the trigger at the period reported by periodMS until ctx
// is done. The period is re-read every tick so runtime configuration
// changes take effect on the next interval.
func RunTicker(ctx context.Context, t *Trigger, periodMS func() int32) {
	cur := periodMS()
	tick := time.NewTicker(time.Duration(cur) * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			t.Tick()
			if p := periodMS(); p != cur {
				cur = p
				tick.Reset(time.Duration(cur) * time.Millisecond)
			}
		}
	}
}
