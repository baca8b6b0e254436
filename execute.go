package governor

import (
	"context"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

// Execute runs every call of a succeeded proposal in order and marks it executed.
//
// Execution is all-or-nothing: if any call fails the proposal stays unexecuted, and a
// dispatcher that implements sdk.Reverter has the effects of the earlier calls rolled back.
// A dispatcher that cannot revert but implements sdk.Simulator has every call simulated
// before the first one is sent. Calls already sent by such a dispatcher stay applied when a
// later call fails or the executed flag cannot be stored; this is logged as an error.
func (g *Governor) Execute(ctx context.Context, id uint64) ([]types.TransactionResult, error) {
	ctx = g.withLogger(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()

	height, err := g.clock.CurrentHeight(ctx)
	if err != nil {
		return nil, g.rejected(ctx, "execute", err)
	}

	reverter, canRevert := g.dispatcher.(sdk.Reverter)
	var (
		snapshot   int
		dispatched bool
		callCount  int
	)

	var results []types.TransactionResult
	err = g.store.Update(ctx, func(tx store.Tx) error {
		proposal, err := getProposal(tx, id)
		if err != nil {
			return err
		}

		if state := g.params.stateAt(proposal, height); state != types.StateSucceeded {
			return stateError(ErrProposalNotSucceeded, id, state)
		}

		callCount = len(proposal.Calls)
		proposal.Executed = true
		if err := tx.PutProposal(proposal); err != nil {
			return err
		}

		if simulator, ok := g.dispatcher.(sdk.Simulator); ok && !canRevert {
			for i, call := range proposal.Calls {
				if err := simulator.SimulateCall(ctx, call); err != nil {
					return NewExecutionError(id, i, call.Target, true, err)
				}
			}
		}

		if canRevert {
			snapshot = reverter.Snapshot()
		}
		dispatched = true

		results = make([]types.TransactionResult, 0, len(proposal.Calls))
		for i, call := range proposal.Calls {
			result, err := g.dispatcher.Dispatch(ctx, call)
			if err != nil {
				return NewExecutionError(id, i, call.Target, false, err)
			}
			sdk.LoggerFrom(ctx).Debugf("proposal %d call %d to %s: %s", id, i, call.Target.Hex(), result.Hash)
			results = append(results, result)
		}

		return nil
	})
	if err != nil {
		switch {
		case dispatched && canRevert:
			reverter.RevertToSnapshot(snapshot)
		case len(results) > 0:
			// Sent calls cannot be undone and the proposal stays executable.
			sdk.LoggerFrom(ctx).Errorf("proposal %d left unexecuted after %d of %d calls were applied: %v",
				id, len(results), callCount, err)
		}

		return nil, g.rejected(ctx, "execute", err)
	}
	if canRevert {
		reverter.DiscardSnapshot(snapshot)
	}

	sdk.LoggerFrom(ctx).Infof("proposal %d executed with %d calls", id, len(results))
	g.metrics.proposalsExecuted.Inc()
	g.committed(ctx, types.NewEvent(types.EventProposalExecuted, id, g.ledger.Custody(), height))

	return results, nil
}
