package sdk

import "context"

// BlockClock is the external, append-only block counter that gates voting windows.
// Heights returned by successive calls never decrease.
type BlockClock interface {
	CurrentHeight(ctx context.Context) (uint64, error)
}
