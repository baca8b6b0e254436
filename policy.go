package governor

import (
	"math/big"

	"github.com/demole/governor/types"
)

// QuorumReached reports whether the total vote weight of p meets the quorum.
func (p Params) QuorumReached(proposal *types.Proposal) bool {
	return proposal.TotalVotes().Cmp(p.QuorumVotes) >= 0
}

// MajorityReached reports whether For votes strictly exceed MajorityBps of all votes cast.
func (p Params) MajorityReached(proposal *types.Proposal) bool {
	forVotes := proposal.ForVotes
	if forVotes == nil || forVotes.Sign() == 0 {
		return false
	}

	lhs := new(big.Int).Mul(forVotes, big.NewInt(bpsDenominator))
	rhs := new(big.Int).Mul(proposal.TotalVotes(), big.NewInt(int64(p.MajorityBps)))

	return lhs.Cmp(rhs) > 0
}

// Succeeded reports whether a proposal whose window has ended passes.
func (p Params) Succeeded(proposal *types.Proposal) bool {
	return p.QuorumReached(proposal) && p.MajorityReached(proposal)
}

// VoteAmountAllowed reports whether amount is an acceptable vote weight for a voter holding
// balance.
func (p Params) VoteAmountAllowed(amount, balance *big.Int) bool {
	if amount == nil || balance == nil {
		return false
	}

	return amount.Cmp(p.MinVoteAmount) >= 0 && amount.Cmp(balance) <= 0
}

// stateAt derives the lifecycle state of proposal at height.
func (p Params) stateAt(proposal *types.Proposal, height uint64) types.ProposalState {
	switch {
	case proposal.Canceled:
		return types.StateCanceled
	case proposal.Executed:
		return types.StateExecuted
	case height < proposal.StartBlock:
		return types.StatePending
	case !proposal.Ended(height):
		return types.StateActive
	case p.Succeeded(proposal):
		return types.StateSucceeded
	default:
		return types.StateDefeated
	}
}
