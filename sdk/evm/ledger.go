package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"

	abiutils "github.com/demole/governor/internal/utils/abi"
	"github.com/demole/governor/sdk"
	"github.com/demole/governor/types"
)

var _ sdk.TokenLedger = (*TokenLedger)(nil)

const (
	transferSignature     = "transfer(address,uint256)"
	transferFromSignature = "transferFrom(address,address,uint256)"
	balanceOfSignature    = "balanceOf(address)"

	addressAmountABI        = `[{"type":"address"},{"type":"uint256"}]`
	addressAddressAmountABI = `[{"type":"address"},{"type":"address"},{"type":"uint256"}]`
	addressABI              = `[{"type":"address"}]`
	uint256ABI              = `[{"type":"uint256"}]`
	boolABI                 = `[{"type":"bool"}]`
)

// ErrTransferRejected is returned when a token call succeeds but returns false.
var ErrTransferRejected = errors.New("token transfer returned false")

// TokenLedger is an ERC-20 token whose custody account is the transacting key.
//
// Every transfer is first run with eth_call so that tokens reporting failure with a false
// return value are rejected before anything is sent.
type TokenLedger struct {
	token common.Address
	tx    *transactor
}

func NewTokenLedger(token common.Address, backend ContractDeployBackend, auth *bind.TransactOpts, opts ...Option) *TokenLedger {
	return &TokenLedger{token: token, tx: newTransactor(backend, auth, opts...)}
}

// Custody implements sdk.TokenLedger.
func (l *TokenLedger) Custody() common.Address {
	return l.tx.auth.From
}

// TransferFrom implements sdk.TokenLedger.
func (l *TokenLedger) TransferFrom(ctx context.Context, owner common.Address, amount *big.Int) error {
	args, err := abiutils.Encode(addressAddressAmountABI, owner, l.Custody(), amount)
	if err != nil {
		return err
	}

	return l.transact(ctx, transferFromSignature, args)
}

// Transfer implements sdk.TokenLedger.
func (l *TokenLedger) Transfer(ctx context.Context, to common.Address, amount *big.Int) error {
	args, err := abiutils.Encode(addressAmountABI, to, amount)
	if err != nil {
		return err
	}

	return l.transact(ctx, transferSignature, args)
}

// BalanceOf implements sdk.TokenLedger.
func (l *TokenLedger) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	args, err := abiutils.Encode(addressABI, account)
	if err != nil {
		return nil, err
	}

	call := types.Call{Target: l.token, Signature: balanceOfSignature, Data: args}
	out, err := l.tx.call(ctx, l.token, nil, call.Payload())
	if err != nil {
		return nil, err
	}

	values, err := abiutils.Decode(uint256ABI, out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode balanceOf result: %w", err)
	}

	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected balanceOf result type %T", values[0])
	}

	return balance, nil
}

func (l *TokenLedger) transact(ctx context.Context, signature string, args []byte) error {
	payload := types.Call{Target: l.token, Signature: signature, Data: args}.Payload()

	out, err := l.tx.call(ctx, l.token, nil, payload)
	if err != nil {
		return err
	}
	if err := checkTransferResult(out); err != nil {
		return err
	}

	_, err = l.tx.send(ctx, l.token, nil, payload)

	return err
}

// checkTransferResult accepts an empty return, as sent by tokens predating the ERC-20 bool
// return value, or true.
func checkTransferResult(out []byte) error {
	if len(out) == 0 {
		return nil
	}

	values, err := abiutils.Decode(boolABI, out)
	if err != nil {
		return fmt.Errorf("failed to decode transfer result: %w", err)
	}

	if ok, _ := values[0].(bool); !ok {
		return ErrTransferRejected
	}

	return nil
}
