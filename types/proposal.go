package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Proposal is a registered request to execute one or more calls, subject to a vote.
//
// Calls, Description, StartBlock and EndBlock never change after creation. Tallies and the
// Executed/Canceled flags are mutated by the governor only.
type Proposal struct {
	ID           uint64         `json:"id"`
	Proposer     common.Address `json:"proposer"`
	Calls        []Call         `json:"calls"`
	Description  string         `json:"description"`
	StartBlock   uint64         `json:"startBlock"`
	EndBlock     uint64         `json:"endBlock"`
	ForVotes     *big.Int       `json:"forVotes"`
	AgainstVotes *big.Int       `json:"againstVotes"`
	Executed     bool           `json:"executed"`
	Canceled     bool           `json:"canceled"`
}

// TotalVotes returns ForVotes + AgainstVotes.
func (p *Proposal) TotalVotes() *big.Int {
	return new(big.Int).Add(orZero(p.ForVotes), orZero(p.AgainstVotes))
}

// Ended reports whether the voting window is over at the given height. The window is
// inclusive of EndBlock.
func (p *Proposal) Ended(height uint64) bool {
	return height > p.EndBlock
}

// Clone returns a deep copy of the proposal.
func (p *Proposal) Clone() *Proposal {
	out := *p
	out.ForVotes = new(big.Int).Set(orZero(p.ForVotes))
	out.AgainstVotes = new(big.Int).Set(orZero(p.AgainstVotes))
	out.Calls = make([]Call, len(p.Calls))
	for i, c := range p.Calls {
		out.Calls[i] = Call{
			Target:    c.Target,
			Value:     c.CallValue(),
			Signature: c.Signature,
			Data:      common.CopyBytes(c.Data),
		}
	}

	return &out
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}

	return v
}
