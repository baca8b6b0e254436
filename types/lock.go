package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PledgeKind distinguishes the two ways a participant can lock tokens on a proposal.
type PledgeKind string

const (
	PledgeProposal PledgeKind = "propose"
	PledgeVote     PledgeKind = "vote"
)

// Lock is the amount a participant has pledged on a proposal and not yet reclaimed.
//
// A participant that both proposes and votes on the same proposal holds a single entry whose
// Amount is the sum of both pledges. Released is set exactly once, when Amount drops to zero.
type Lock struct {
	Participant common.Address `json:"participant"`
	ProposalID  uint64         `json:"proposalId"`
	Amount      *big.Int       `json:"amount"`
	Proposed    bool           `json:"proposed"`
	Voted       bool           `json:"voted"`
	Released    bool           `json:"released"`
}

// Has reports whether a pledge of the given kind was already recorded.
func (l *Lock) Has(kind PledgeKind) bool {
	switch kind {
	case PledgeProposal:
		return l.Proposed
	case PledgeVote:
		return l.Voted
	default:
		return false
	}
}

// Outstanding reports whether the lock still holds tokens.
func (l *Lock) Outstanding() bool {
	return l.Amount != nil && l.Amount.Sign() > 0
}

// Clone returns a deep copy of the lock.
func (l *Lock) Clone() *Lock {
	out := *l
	out.Amount = new(big.Int).Set(orZero(l.Amount))

	return &out
}
