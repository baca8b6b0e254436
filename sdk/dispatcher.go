package sdk

import (
	"context"

	"github.com/demole/governor/types"
)

// Dispatcher performs the side effect of a single proposal call.
//
// The payload is opaque to the governor: implementations invoke call.Payload() against
// call.Target forwarding call.Value, and report failure of the callee as an error.
type Dispatcher interface {
	Dispatch(ctx context.Context, call types.Call) (types.TransactionResult, error)
}

// Simulator is implemented by dispatchers that can dry-run a call without side effects.
//
// When the dispatcher is not also a Reverter, every call of a proposal is simulated before
// the first one is dispatched.
type Simulator interface {
	SimulateCall(ctx context.Context, call types.Call) error
}

// Reverter is implemented by dispatchers whose effects can be rolled back.
//
// When available, a failing call reverts the effects of the calls dispatched before it in
// the same execution. A successful execution discards its snapshot, keeping the effects.
// Both RevertToSnapshot and DiscardSnapshot also drop the snapshots taken after id.
type Reverter interface {
	Snapshot() int
	RevertToSnapshot(id int)
	DiscardSnapshot(id int)
}
