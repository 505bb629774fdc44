package driver

import "sync/atomic"

// changeFlag is a tiny atomic latch drivers use to detect whether any
// functor invocation in a graph-view advance pass changed something,
// since graph-view sweeps have no output frontier to test for emptiness.
type changeFlag struct {
	v atomic.Bool
}

func (c *changeFlag) set()      { c.v.Store(true) }
func (c *changeFlag) get() bool { return c.v.Load() }
