package evm

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethTypes "github.com/ethereum/go-ethereum/core/types"

	"github.com/demole/governor/sdk"
	sdkerrors "github.com/demole/governor/sdk/errors"
)

// Confirmer blocks until tx is included and returns its receipt.
type Confirmer func(ctx context.Context, tx *gethTypes.Transaction) (*gethTypes.Receipt, error)

// WaitMined returns a Confirmer that polls backend for the receipt.
func WaitMined(backend bind.DeployBackend) Confirmer {
	return func(ctx context.Context, tx *gethTypes.Transaction) (*gethTypes.Receipt, error) {
		return bind.WaitMined(ctx, backend, tx)
	}
}

type Option func(*transactor)

// WithConfirmer replaces the default receipt polling.
func WithConfirmer(confirm Confirmer) Option {
	return func(t *transactor) {
		t.confirm = confirm
	}
}

// WithTxTimeout bounds the time spent sending a transaction and waiting for its receipt.
// Zero means no bound beyond the caller's context.
func WithTxTimeout(timeout time.Duration) Option {
	return func(t *transactor) {
		t.timeout = timeout
	}
}

// transactor sends raw calls from a single key and waits for them to be mined.
type transactor struct {
	backend ContractDeployBackend
	auth    *bind.TransactOpts
	confirm Confirmer
	timeout time.Duration
}

func newTransactor(backend ContractDeployBackend, auth *bind.TransactOpts, opts ...Option) *transactor {
	t := &transactor{
		backend: backend,
		auth:    auth,
		confirm: WaitMined(backend),
	}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// send submits payload to the target and waits for a successful receipt.
func (t *transactor) send(ctx context.Context, to common.Address, value *big.Int, payload []byte) (*gethTypes.Transaction, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	opts := *t.auth
	opts.Context = ctx
	opts.Value = value

	contract := bind.NewBoundContract(to, abi.ABI{}, t.backend, t.backend, t.backend)
	tx, err := contract.RawTransact(&opts, payload)
	if err != nil {
		return nil, err
	}

	sdk.LoggerFrom(ctx).Debugf("sent transaction %s to %s", tx.Hash().Hex(), to.Hex())

	receipt, err := t.confirm(ctx, tx)
	if err != nil {
		return tx, fmt.Errorf("waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != gethTypes.ReceiptStatusSuccessful {
		return tx, sdkerrors.NewTransactionRevertedError(tx.Hash())
	}

	return tx, nil
}

// call runs payload against the latest state without sending a transaction.
func (t *transactor) call(ctx context.Context, to common.Address, value *big.Int, payload []byte) ([]byte, error) {
	return t.backend.CallContract(ctx, ethereum.CallMsg{
		From:  t.auth.From,
		To:    &to,
		Value: value,
		Data:  payload,
	}, nil)
}
