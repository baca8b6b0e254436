// Package store defines the transactional state store behind the governor.
//
// All governor state (proposals, locks, receipts and the proposal sequence) is read and
// written through a Tx. Update applies fn atomically: if fn returns an error, nothing it
// wrote is visible afterwards.
package store

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/types"
)

// ErrNotFound is returned by Tx getters when no record exists.
var ErrNotFound = errors.New("record not found")

// Tx is a view of the store inside a transaction.
type Tx interface {
	// NextProposalID reserves and returns the next proposal id, starting at 1.
	NextProposalID() (uint64, error)
	// ProposalCount returns the number of proposals created so far.
	ProposalCount() (uint64, error)
	GetProposal(id uint64) (*types.Proposal, error)
	PutProposal(p *types.Proposal) error

	GetLock(participant common.Address, proposalID uint64) (*types.Lock, error)
	PutLock(l *types.Lock) error
	// ListLocks returns every lock entry of a proposal, ordered by participant.
	ListLocks(proposalID uint64) ([]*types.Lock, error)
	// TotalLocked returns the sum of all outstanding lock amounts.
	TotalLocked() (*big.Int, error)

	GetReceipt(voter common.Address, proposalID uint64) (*types.Receipt, error)
	PutReceipt(r *types.Receipt) error
}

// Store is a transactional state store. Implementations must make Update all-or-nothing.
type Store interface {
	Update(ctx context.Context, fn func(tx Tx) error) error
	View(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
