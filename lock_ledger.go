package governor

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

// lockLedger records how much each participant has pledged per proposal and moves the
// tokens in and out of custody through the token ledger.
//
// Every pledge is mirrored by exactly one ledger transfer into custody, and every release
// by one transfer out, so the outstanding lock amounts always sum to what custody holds on
// behalf of the governor.
type lockLedger struct {
	store  store.Store
	ledger sdk.TokenLedger
}

func newLockLedger(st store.Store, ledger sdk.TokenLedger) *lockLedger {
	return &lockLedger{store: st, ledger: ledger}
}

// pledge is a transfer into custody that happened inside a store transaction which may
// still fail to commit.
type pledge struct {
	participant common.Address
	amount      *big.Int
}

// pledge records amount against participant on the proposal and takes it into custody. It
// must be the last step of the enclosing Update: the ledger transfer is only made once every
// store write succeeded. If the enclosing Update fails after pledge returned, the caller
// must pass the returned pledge to refund.
func (l *lockLedger) pledge(
	ctx context.Context, tx store.Tx, participant common.Address, proposalID uint64, amount *big.Int, kind types.PledgeKind,
) (*pledge, error) {
	lock, err := tx.GetLock(participant, proposalID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		lock = &types.Lock{Participant: participant, ProposalID: proposalID, Amount: new(big.Int)}
	case err != nil:
		return nil, err
	}

	if lock.Has(kind) {
		return nil, fmt.Errorf("%w: %s on proposal %d by %s", ErrAlreadyPledged, kind, proposalID, participant.Hex())
	}

	lock.Amount = new(big.Int).Add(lock.Amount, amount)
	lock.Released = false
	switch kind {
	case types.PledgeProposal:
		lock.Proposed = true
	case types.PledgeVote:
		lock.Voted = true
	}

	if err := tx.PutLock(lock); err != nil {
		return nil, err
	}

	if err := l.ledger.TransferFrom(ctx, participant, amount); err != nil {
		return nil, NewLedgerError("pledge", participant, err)
	}

	return &pledge{participant: participant, amount: new(big.Int).Set(amount)}, nil
}

// refund returns a pledge whose store transaction did not commit.
func (l *lockLedger) refund(ctx context.Context, p *pledge, cause error) {
	if p == nil {
		return
	}

	logger := sdk.LoggerFrom(ctx)
	if err := l.ledger.Transfer(ctx, p.participant, p.amount); err != nil {
		logger.Errorf("failed to refund pledge of %s to %s after %v: %v", p.amount, p.participant.Hex(), cause, err)
		return
	}

	logger.Warnf("refunded pledge of %s to %s after %v", p.amount, p.participant.Hex(), cause)
}

// release pays out participant's whole lock on the proposal and zeroes it. guard runs in
// the same transaction before the lock is read.
//
// The zeroed lock is committed before the payout, so a concurrent reader never sees tokens
// both locked and paid out. If the payout fails the lock is restored.
func (l *lockLedger) release(
	ctx context.Context, participant common.Address, proposalID uint64, guard func(tx store.Tx) error,
) (*big.Int, error) {
	var prev *types.Lock
	err := l.store.Update(ctx, func(tx store.Tx) error {
		if err := guard(tx); err != nil {
			return err
		}

		lock, err := tx.GetLock(participant, proposalID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrTokenLockedZero
		}
		if err != nil {
			return err
		}
		if !lock.Outstanding() {
			return ErrTokenLockedZero
		}

		prev = lock.Clone()
		lock.Amount = new(big.Int)
		lock.Released = true

		return tx.PutLock(lock)
	})
	if err != nil {
		return nil, err
	}

	if err := l.ledger.Transfer(ctx, participant, prev.Amount); err != nil {
		ledgerErr := NewLedgerError("release", participant, err)
		restoreErr := l.store.Update(ctx, func(tx store.Tx) error {
			return tx.PutLock(prev)
		})
		if restoreErr != nil {
			sdk.LoggerFrom(ctx).Errorf("failed to restore lock of %s on proposal %d: %v", participant.Hex(), proposalID, restoreErr)
			return nil, errors.Join(ledgerErr, restoreErr)
		}

		return nil, ledgerErr
	}

	return prev.Amount, nil
}

func (l *lockLedger) lockOf(ctx context.Context, participant common.Address, proposalID uint64) (*big.Int, error) {
	amount := new(big.Int)
	err := l.store.View(ctx, func(tx store.Tx) error {
		lock, err := tx.GetLock(participant, proposalID)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		amount.Set(lock.Amount)

		return nil
	})

	return amount, err
}
