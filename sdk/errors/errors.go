package sdkerrors

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type InvalidChainIDError struct {
	ReceivedChainID uint64
	ExpectedChainID uint64
}

func (e *InvalidChainIDError) Error() string {
	return fmt.Sprintf("invalid chain ID: %v, expected %v", e.ReceivedChainID, e.ExpectedChainID)
}

func NewInvalidChainIDError(received, expected uint64) *InvalidChainIDError {
	return &InvalidChainIDError{ReceivedChainID: received, ExpectedChainID: expected}
}

// TransactionRevertedError is returned when a mined transaction has a failed status.
type TransactionRevertedError struct {
	TxHash common.Hash
}

func (e *TransactionRevertedError) Error() string {
	return "transaction reverted: " + e.TxHash.Hex()
}

func NewTransactionRevertedError(txHash common.Hash) *TransactionRevertedError {
	return &TransactionRevertedError{TxHash: txHash}
}

// InsufficientBalanceError is returned by ledgers when an account cannot cover a transfer.
type InsufficientBalanceError struct {
	Account   common.Address
	Balance   *big.Int
	Requested *big.Int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s: have %s, want %s", e.Account, e.Balance, e.Requested)
}

func NewInsufficientBalanceError(account common.Address, balance, requested *big.Int) *InsufficientBalanceError {
	return &InsufficientBalanceError{Account: account, Balance: balance, Requested: requested}
}

// InsufficientAllowanceError is returned by ledgers when the custody account is not approved
// for a transfer.
type InsufficientAllowanceError struct {
	Owner     common.Address
	Spender   common.Address
	Allowance *big.Int
	Requested *big.Int
}

func (e *InsufficientAllowanceError) Error() string {
	return fmt.Sprintf("insufficient allowance from %s to %s: have %s, want %s", e.Owner, e.Spender, e.Allowance, e.Requested)
}

func NewInsufficientAllowanceError(owner, spender common.Address, allowance, requested *big.Int) *InsufficientAllowanceError {
	return &InsufficientAllowanceError{Owner: owner, Spender: spender, Allowance: allowance, Requested: requested}
}

// UnknownTargetError is returned when a call targets an address with nothing to invoke.
type UnknownTargetError struct {
	Target common.Address
}

func (e *UnknownTargetError) Error() string {
	return "no contract at target " + e.Target.Hex()
}

func NewUnknownTargetError(target common.Address) *UnknownTargetError {
	return &UnknownTargetError{Target: target}
}

// UnknownSelectorError is returned when a target does not implement the called function.
type UnknownSelectorError struct {
	Target   common.Address
	Selector [4]byte
}

func (e *UnknownSelectorError) Error() string {
	return fmt.Sprintf("target %s has no function with selector 0x%x", e.Target.Hex(), e.Selector)
}

func NewUnknownSelectorError(target common.Address, selector [4]byte) *UnknownSelectorError {
	return &UnknownSelectorError{Target: target, Selector: selector}
}
