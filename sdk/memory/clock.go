package memory

import (
	"context"
	"sync/atomic"

	"github.com/demole/governor/sdk"
)

var _ sdk.BlockClock = (*Clock)(nil)

// Clock is a manually advanced block counter.
type Clock struct {
	height atomic.Uint64
}

// NewClock returns a clock starting at the given height.
func NewClock(start uint64) *Clock {
	c := &Clock{}
	c.height.Store(start)

	return c
}

// CurrentHeight implements sdk.BlockClock.
func (c *Clock) CurrentHeight(context.Context) (uint64, error) {
	return c.height.Load(), nil
}

// Mine advances the clock by n blocks and returns the new height.
func (c *Clock) Mine(n uint64) uint64 {
	return c.height.Add(n)
}
