package sdk

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TokenLedger is the fungible token the governor takes custody of.
//
// The governor never does token accounting itself; it only asks the ledger to move
// balances between participants and its custody account.
type TokenLedger interface {
	// Custody returns the account that holds pledged tokens.
	Custody() common.Address

	// TransferFrom moves amount from the owner's balance into custody. The owner must have
	// approved the custody account for at least amount.
	TransferFrom(ctx context.Context, owner common.Address, amount *big.Int) error

	// Transfer moves amount out of custody to the recipient.
	Transfer(ctx context.Context, to common.Address, amount *big.Int) error

	// BalanceOf returns the balance of the account.
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
}
