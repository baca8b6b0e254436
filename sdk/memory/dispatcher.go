package memory

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/demole/governor/sdk"
	sdkerrors "github.com/demole/governor/sdk/errors"
	"github.com/demole/governor/types"
)

var (
	_ sdk.Dispatcher = (*Dispatcher)(nil)
	_ sdk.Simulator  = (*Dispatcher)(nil)
	_ sdk.Reverter   = (*Dispatcher)(nil)
)

// Method handles one function of an in-process contract. args excludes the selector.
type Method func(ctx context.Context, from common.Address, value *big.Int, args []byte) ([]byte, error)

// Contract is an in-process dispatch target. Methods is keyed by canonical signature.
type Contract interface {
	Methods() map[string]Method
}

type deployment struct {
	contract Contract
	methods  map[[4]byte]Method
}

// Dispatcher routes proposal calls to contracts registered at addresses.
//
// Calls are made on behalf of sender. Contracts implementing sdk.Reverter take part in
// snapshots, which makes a multi-call execution all-or-nothing.
type Dispatcher struct {
	mu        sync.Mutex
	sender    common.Address
	contracts map[common.Address]*deployment
	snapshots map[int]map[common.Address]int
	nextSnap  int
}

// NewDispatcher returns a dispatcher issuing calls from sender.
func NewDispatcher(sender common.Address) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		contracts: map[common.Address]*deployment{},
		snapshots: map[int]map[common.Address]int{},
	}
}

// Register deploys the contract at the address, replacing any previous one.
func (d *Dispatcher) Register(at common.Address, c Contract) {
	d.mu.Lock()
	defer d.mu.Unlock()

	dep := &deployment{contract: c, methods: map[[4]byte]Method{}}
	for sig, m := range c.Methods() {
		var sel [4]byte
		copy(sel[:], crypto.Keccak256([]byte(sig))[:4])
		dep.methods[sel] = m
	}
	d.contracts[at] = dep
}

// Dispatch implements sdk.Dispatcher.
func (d *Dispatcher) Dispatch(ctx context.Context, call types.Call) (types.TransactionResult, error) {
	out, err := d.invoke(ctx, call)
	if err != nil {
		return types.TransactionResult{}, err
	}

	payload := call.Payload()

	return types.TransactionResult{
		Hash:    crypto.Keccak256Hash(call.Target.Bytes(), payload).Hex(),
		RawData: hexutil.Bytes(out),
	}, nil
}

// SimulateCall implements sdk.Simulator.
func (d *Dispatcher) SimulateCall(ctx context.Context, call types.Call) error {
	id := d.Snapshot()
	defer d.RevertToSnapshot(id)

	_, err := d.invoke(ctx, call)

	return err
}

// Snapshot implements sdk.Reverter.
func (d *Dispatcher) Snapshot() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := map[common.Address]int{}
	for addr, dep := range d.contracts {
		if r, ok := dep.contract.(sdk.Reverter); ok {
			ids[addr] = r.Snapshot()
		}
	}
	id := d.nextSnap
	d.nextSnap++
	d.snapshots[id] = ids

	return id
}

// RevertToSnapshot implements sdk.Reverter.
func (d *Dispatcher) RevertToSnapshot(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.release(id, sdk.Reverter.RevertToSnapshot)
}

// DiscardSnapshot implements sdk.Reverter.
func (d *Dispatcher) DiscardSnapshot(id int) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.release(id, sdk.Reverter.DiscardSnapshot)
}

// Snapshots returns the number of snapshots retained.
func (d *Dispatcher) Snapshots() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.snapshots)
}

// release applies fn to the contract snapshots taken with id and forgets id and every later
// snapshot. The caller holds d.mu.
func (d *Dispatcher) release(id int, fn func(sdk.Reverter, int)) {
	ids, ok := d.snapshots[id]
	if !ok {
		return
	}
	for addr, snap := range ids {
		if r, ok := d.contracts[addr].contract.(sdk.Reverter); ok {
			fn(r, snap)
		}
	}
	for k := range d.snapshots {
		if k >= id {
			delete(d.snapshots, k)
		}
	}
}

func (d *Dispatcher) invoke(ctx context.Context, call types.Call) ([]byte, error) {
	d.mu.Lock()
	dep, ok := d.contracts[call.Target]
	d.mu.Unlock()
	if !ok {
		return nil, sdkerrors.NewUnknownTargetError(call.Target)
	}

	payload := call.Payload()
	if len(payload) < 4 {
		return nil, fmt.Errorf("call to %s: payload shorter than a selector", call.Target.Hex())
	}
	var sel [4]byte
	copy(sel[:], payload[:4])
	method, ok := dep.methods[sel]
	if !ok {
		return nil, sdkerrors.NewUnknownSelectorError(call.Target, sel)
	}

	return method(ctx, d.sender, call.CallValue(), payload[4:])
}
