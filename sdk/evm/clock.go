package evm

import (
	"context"

	"github.com/demole/governor/sdk"
)

var _ sdk.BlockClock = (*Clock)(nil)

type BlockNumberReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

// Clock reads the block height of the chain.
type Clock struct {
	client BlockNumberReader
}

func NewClock(client BlockNumberReader) *Clock {
	return &Clock{client: client}
}

// CurrentHeight implements sdk.BlockClock.
func (c *Clock) CurrentHeight(ctx context.Context) (uint64, error) {
	return c.client.BlockNumber(ctx)
}
