package evm

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/types"
)

var (
	_ sdk.Dispatcher = (*Dispatcher)(nil)
	_ sdk.Simulator  = (*Dispatcher)(nil)
)

// Dispatcher sends each proposal call as a transaction from the custody key.
//
// Mined calls cannot be undone, so the governor simulates every call of a proposal before
// sending the first. A call can still fail after simulation if the chain state changed in
// between; earlier calls of the same proposal then stay applied on chain.
type Dispatcher struct {
	tx *transactor
}

// NewDispatcher returns a dispatcher sending from auth.From. When auth.GasLimit is zero the
// gas is estimated, which requires every target to be a contract.
func NewDispatcher(backend ContractDeployBackend, auth *bind.TransactOpts, opts ...Option) *Dispatcher {
	return &Dispatcher{tx: newTransactor(backend, auth, opts...)}
}

// Dispatch implements sdk.Dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, call types.Call) (types.TransactionResult, error) {
	tx, err := d.tx.send(ctx, call.Target, call.CallValue(), call.Payload())
	if err != nil {
		return types.TransactionResult{}, err
	}

	return types.TransactionResult{
		Hash:    tx.Hash().Hex(),
		RawData: tx,
	}, nil
}

// SimulateCall implements sdk.Simulator.
func (d *Dispatcher) SimulateCall(ctx context.Context, call types.Call) error {
	_, err := d.tx.call(ctx, call.Target, call.CallValue(), call.Payload())

	return err
}
