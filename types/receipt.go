package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Receipt records a participant's vote on a proposal.
type Receipt struct {
	Voter      common.Address `json:"voter"`
	ProposalID uint64         `json:"proposalId"`
	HasVoted   bool           `json:"hasVoted"`
	Support    bool           `json:"support"`
	Votes      *big.Int       `json:"votes"`
}

// Clone returns a deep copy of the receipt.
func (r *Receipt) Clone() *Receipt {
	out := *r
	out.Votes = new(big.Int).Set(orZero(r.Votes))

	return &out
}
