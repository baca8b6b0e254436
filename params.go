package governor

import (
	"math/big"

	"github.com/go-playground/validator/v10"

	"github.com/demole/governor/types"
)

const (
	// DefaultDecimals is the number of decimals of the governance token.
	DefaultDecimals uint8 = 18
	// DefaultMinVotingPeriod is the shortest voting window, in blocks, a proposal may request.
	DefaultMinVotingPeriod uint64 = 10
	// DefaultMaxOperations bounds the number of calls in a single proposal.
	DefaultMaxOperations = 10
	// DefaultMajorityBps requires strictly more than half of the votes cast to be in favor.
	DefaultMajorityBps uint16 = 5000

	bpsDenominator = 10000
)

// Params are the governance rules. They are fixed for the lifetime of a Governor.
type Params struct {
	// ProposalThreshold is locked from the proposer for every new proposal.
	ProposalThreshold *big.Int `json:"proposalThreshold" validate:"required"`
	// QuorumVotes is the minimum For+Against weight for a proposal to pass.
	QuorumVotes *big.Int `json:"quorumVotes" validate:"required"`
	// MinVoteAmount is the smallest vote weight accepted.
	MinVoteAmount *big.Int `json:"minVoteAmount" validate:"required"`
	// MinVotingPeriod and MaxVotingPeriod bound the requested voting window. A zero
	// MaxVotingPeriod means unbounded.
	MinVotingPeriod uint64 `json:"minVotingPeriod" validate:"gte=1"`
	MaxVotingPeriod uint64 `json:"maxVotingPeriod" validate:"omitempty,gtefield=MinVotingPeriod"`
	// MajorityBps is the share of votes, in basis points, that For must strictly exceed.
	MajorityBps        uint16 `json:"majorityBps" validate:"lt=10000"`
	MaxOperations      int    `json:"maxOperations" validate:"gte=1"`
	Decimals           uint8  `json:"decimals" validate:"lte=77"`
	ProposerOnlyCancel bool   `json:"proposerOnlyCancel"`
}

// DefaultParams returns the rules the governor was first deployed with: a 1% threshold and
// a 4% quorum of a one billion token supply.
func DefaultParams() Params {
	return Params{
		ProposalThreshold: types.MustParseTokenAmount("10000000", DefaultDecimals),
		QuorumVotes:       types.MustParseTokenAmount("40000000", DefaultDecimals),
		MinVoteAmount:     big.NewInt(1),
		MinVotingPeriod:   DefaultMinVotingPeriod,
		MajorityBps:       DefaultMajorityBps,
		MaxOperations:     DefaultMaxOperations,
		Decimals:          DefaultDecimals,
	}
}

// Validate checks the params for internal consistency.
func (p Params) Validate() error {
	if err := validator.New().Struct(p); err != nil {
		return err
	}

	if p.ProposalThreshold.Sign() <= 0 {
		return &InvalidParamsError{Reason: "proposal threshold must be positive"}
	}

	if p.QuorumVotes.Sign() <= 0 {
		return &InvalidParamsError{Reason: "quorum must be positive"}
	}

	if p.MinVoteAmount.Sign() <= 0 {
		return &InvalidParamsError{Reason: "minimum vote amount must be positive"}
	}

	return nil
}

func (p Params) clone() Params {
	out := p
	out.ProposalThreshold = new(big.Int).Set(p.ProposalThreshold)
	out.QuorumVotes = new(big.Int).Set(p.QuorumVotes)
	out.MinVoteAmount = new(big.Int).Set(p.MinVoteAmount)

	return out
}
