package governor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

// Propose registers a proposal and locks ProposalThreshold from the proposer. Voting opens
// at the current block and stays open for req.VotingPeriod blocks after it.
//
// The proposer must have approved custody for at least the threshold. If the tokens cannot
// be taken, no proposal is created and its id is not used.
func (g *Governor) Propose(ctx context.Context, proposer common.Address, req ProposeRequest) (uint64, error) {
	ctx = g.withLogger(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()

	height, err := g.clock.CurrentHeight(ctx)
	if err != nil {
		return 0, g.rejected(ctx, "propose", err)
	}

	if err := g.validateProposeRequest(req, height); err != nil {
		return 0, g.rejected(ctx, "propose", err)
	}

	proposal := &types.Proposal{
		Proposer:     proposer,
		Calls:        req.Calls(),
		Description:  req.Description,
		StartBlock:   height,
		EndBlock:     height + req.VotingPeriod,
		ForVotes:     new(big.Int),
		AgainstVotes: new(big.Int),
	}

	var taken *pledge
	err = g.store.Update(ctx, func(tx store.Tx) error {
		id, err := tx.NextProposalID()
		if err != nil {
			return err
		}
		proposal.ID = id

		if err := tx.PutProposal(proposal); err != nil {
			return err
		}

		taken, err = g.locks.pledge(ctx, tx, proposer, id, g.params.ProposalThreshold, types.PledgeProposal)

		return err
	})
	if err != nil {
		g.locks.refund(ctx, taken, err)
		return 0, g.rejected(ctx, "propose", err)
	}

	sdk.LoggerFrom(ctx).Infof("proposal %d created by %s, voting until block %d", proposal.ID, proposer.Hex(), proposal.EndBlock)
	g.metrics.proposalsCreated.Inc()
	event := types.NewEvent(types.EventProposalCreated, proposal.ID, proposer, height)
	event.Amount = g.ProposalThreshold()
	g.committed(ctx, event)

	return proposal.ID, nil
}

// validateProposeRequest checks req against the params. The voting window must end at a
// height representable as int64, which bounds the period even when MaxVotingPeriod is unset.
func (g *Governor) validateProposeRequest(req ProposeRequest, height uint64) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if len(req.Targets) > g.params.MaxOperations {
		return NewInvalidProposalError("too many actions: %d > %d", len(req.Targets), g.params.MaxOperations)
	}

	maxPeriod := g.params.MaxVotingPeriod
	if height >= math.MaxInt64 {
		return NewInvalidProposalError("block height %d leaves no room for a voting window", height)
	}
	if limit := uint64(math.MaxInt64) - height; maxPeriod == 0 || maxPeriod > limit {
		maxPeriod = limit
	}

	if req.VotingPeriod < g.params.MinVotingPeriod || req.VotingPeriod > maxPeriod {
		return NewVotingPeriodError(req.VotingPeriod, g.params.MinVotingPeriod, maxPeriod)
	}

	return nil
}

// CastVote locks amount from the voter and adds it to the For or Against tally of an active
// proposal. Each voter votes at most once per proposal, with at least MinVoteAmount and at
// most its current balance.
func (g *Governor) CastVote(ctx context.Context, voter common.Address, id uint64, amount *big.Int, support bool) error {
	ctx = g.withLogger(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()

	height, err := g.clock.CurrentHeight(ctx)
	if err != nil {
		return g.rejected(ctx, "vote", err)
	}

	var taken *pledge
	err = g.store.Update(ctx, func(tx store.Tx) error {
		proposal, err := getProposal(tx, id)
		if err != nil {
			return err
		}

		if state := g.params.stateAt(proposal, height); state != types.StateActive {
			return stateError(ErrProposalNotActive, id, state)
		}

		receipt, err := tx.GetReceipt(voter, id)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return err
		case receipt.HasVoted:
			return fmt.Errorf("%w: %s on proposal %d", ErrVoterAlreadyVoted, voter.Hex(), id)
		}

		balance, err := g.ledger.BalanceOf(ctx, voter)
		if err != nil {
			return NewLedgerError("balance", voter, err)
		}
		if !g.params.VoteAmountAllowed(amount, balance) {
			return fmt.Errorf("%w: voting %v with a balance of %s", ErrVoteAmountTooLow, amount, balance)
		}

		if support {
			proposal.ForVotes = new(big.Int).Add(proposal.ForVotes, amount)
		} else {
			proposal.AgainstVotes = new(big.Int).Add(proposal.AgainstVotes, amount)
		}
		if err := tx.PutProposal(proposal); err != nil {
			return err
		}

		err = tx.PutReceipt(&types.Receipt{
			Voter:      voter,
			ProposalID: id,
			HasVoted:   true,
			Support:    support,
			Votes:      new(big.Int).Set(amount),
		})
		if err != nil {
			return err
		}

		taken, err = g.locks.pledge(ctx, tx, voter, id, amount, types.PledgeVote)

		return err
	})
	if err != nil {
		g.locks.refund(ctx, taken, err)
		return g.rejected(ctx, "vote", err)
	}

	sdk.LoggerFrom(ctx).Infof("%s voted %v with %s on proposal %d", voter.Hex(), support, amount, id)
	g.metrics.voteCast(support)
	event := types.NewEvent(types.EventVoteCast, id, voter, height)
	event.Amount = new(big.Int).Set(amount)
	event.Support = &support
	g.committed(ctx, event)

	return nil
}

// Cancel marks a proposal canceled. Executed proposals cannot be canceled.
//
// No tokens move: the proposer's stake and every vote stay locked until their owners call
// UnlockToken, which is allowed immediately after cancellation.
func (g *Governor) Cancel(ctx context.Context, caller common.Address, id uint64) error {
	ctx = g.withLogger(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()

	height, err := g.clock.CurrentHeight(ctx)
	if err != nil {
		return g.rejected(ctx, "cancel", err)
	}

	err = g.store.Update(ctx, func(tx store.Tx) error {
		proposal, err := getProposal(tx, id)
		if err != nil {
			return err
		}

		switch {
		case proposal.Executed:
			return fmt.Errorf("%w: proposal %d", ErrCancelExecuted, id)
		case proposal.Canceled:
			return fmt.Errorf("%w: proposal %d", ErrProposalAlreadyCanceled, id)
		case g.params.ProposerOnlyCancel && caller != proposal.Proposer:
			return fmt.Errorf("%w: %s is not the proposer of proposal %d", ErrOnlyProposerCanCancel, caller.Hex(), id)
		}

		proposal.Canceled = true

		return tx.PutProposal(proposal)
	})
	if err != nil {
		return g.rejected(ctx, "cancel", err)
	}

	sdk.LoggerFrom(ctx).Infof("proposal %d canceled by %s", id, caller.Hex())
	g.metrics.proposalsCanceled.Inc()
	g.committed(ctx, types.NewEvent(types.EventProposalCanceled, id, caller, height))

	return nil
}

// UnlockToken returns everything the caller locked on a proposal, once its voting window is
// over or it was canceled. It returns the amount released.
func (g *Governor) UnlockToken(ctx context.Context, caller common.Address, id uint64) (*big.Int, error) {
	ctx = g.withLogger(ctx)
	g.mu.Lock()
	defer g.mu.Unlock()

	height, err := g.clock.CurrentHeight(ctx)
	if err != nil {
		return nil, g.rejected(ctx, "unlock", err)
	}

	amount, err := g.locks.release(ctx, caller, id, func(tx store.Tx) error {
		proposal, err := getProposal(tx, id)
		if err != nil {
			return err
		}

		if !proposal.Canceled && !proposal.Ended(height) {
			return stateError(ErrProposalNotEnded, id, g.params.stateAt(proposal, height))
		}

		return nil
	})
	if err != nil {
		return nil, g.rejected(ctx, "unlock", err)
	}

	sdk.LoggerFrom(ctx).Infof("unlocked %s for %s on proposal %d", amount, caller.Hex(), id)
	g.metrics.unlocks.Inc()
	event := types.NewEvent(types.EventTokensUnlocked, id, caller, height)
	event.Amount = new(big.Int).Set(amount)
	g.committed(ctx, event)

	return amount, nil
}
