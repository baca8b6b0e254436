package governor

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/demole/governor/types"
)

func tally(forVotes, againstVotes int64) *types.Proposal {
	return &types.Proposal{
		ID:           1,
		StartBlock:   10,
		EndBlock:     20,
		ForVotes:     big.NewInt(forVotes),
		AgainstVotes: big.NewInt(againstVotes),
	}
}

func smallParams() Params {
	params := DefaultParams()
	params.ProposalThreshold = big.NewInt(10)
	params.QuorumVotes = big.NewInt(40)

	return params
}

func TestParams_Succeeded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		forVotes     int64
		againstVotes int64
		quorum       bool
		majority     bool
	}{
		{name: "below quorum", forVotes: 39, againstVotes: 0, quorum: false, majority: true},
		{name: "quorum exactly met", forVotes: 40, againstVotes: 0, quorum: true, majority: true},
		{name: "quorum met by combined votes", forVotes: 30, againstVotes: 10, quorum: true, majority: true},
		{name: "tie is not a majority", forVotes: 20, againstVotes: 20, quorum: true, majority: false},
		{name: "against wins", forVotes: 10, againstVotes: 30, quorum: true, majority: false},
		{name: "no votes", forVotes: 0, againstVotes: 0, quorum: false, majority: false},
	}

	params := smallParams()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := tally(tt.forVotes, tt.againstVotes)
			assert.Equal(t, tt.quorum, params.QuorumReached(p))
			assert.Equal(t, tt.majority, params.MajorityReached(p))
			assert.Equal(t, tt.quorum && tt.majority, params.Succeeded(p))
		})
	}
}

func TestParams_MajorityBps(t *testing.T) {
	t.Parallel()

	params := smallParams()
	params.MajorityBps = 6667

	assert.False(t, params.MajorityReached(tally(66, 34)))
	assert.True(t, params.MajorityReached(tally(67, 33)))

	params.MajorityBps = 0
	assert.True(t, params.MajorityReached(tally(1, 1000)))
	assert.False(t, params.MajorityReached(tally(0, 1000)))
}

func TestParams_VoteAmountAllowed(t *testing.T) {
	t.Parallel()

	params := smallParams()
	params.MinVoteAmount = big.NewInt(5)

	assert.False(t, params.VoteAmountAllowed(big.NewInt(0), big.NewInt(100)))
	assert.False(t, params.VoteAmountAllowed(big.NewInt(4), big.NewInt(100)))
	assert.True(t, params.VoteAmountAllowed(big.NewInt(5), big.NewInt(100)))
	assert.True(t, params.VoteAmountAllowed(big.NewInt(100), big.NewInt(100)))
	assert.False(t, params.VoteAmountAllowed(big.NewInt(101), big.NewInt(100)))
	assert.False(t, params.VoteAmountAllowed(nil, big.NewInt(100)))
}

func TestParams_StateAt(t *testing.T) {
	t.Parallel()

	params := smallParams()

	passing := tally(40, 0)
	failing := tally(1, 0)
	canceled := tally(40, 0)
	canceled.Canceled = true
	executed := tally(40, 0)
	executed.Executed = true

	tests := []struct {
		name     string
		proposal *types.Proposal
		height   uint64
		want     types.ProposalState
	}{
		{name: "before start", proposal: failing, height: 9, want: types.StatePending},
		{name: "at start", proposal: failing, height: 10, want: types.StateActive},
		{name: "at end block", proposal: passing, height: 20, want: types.StateActive},
		{name: "after end passing", proposal: passing, height: 21, want: types.StateSucceeded},
		{name: "after end failing", proposal: failing, height: 21, want: types.StateDefeated},
		{name: "canceled while active", proposal: canceled, height: 15, want: types.StateCanceled},
		{name: "executed", proposal: executed, height: 30, want: types.StateExecuted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, params.stateAt(tt.proposal, tt.height))
		})
	}
}

func TestParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *Params)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Params) {}},
		{
			name:    "zero threshold",
			mutate:  func(p *Params) { p.ProposalThreshold = big.NewInt(0) },
			wantErr: "invalid governance params: proposal threshold must be positive",
		},
		{
			name:    "negative quorum",
			mutate:  func(p *Params) { p.QuorumVotes = big.NewInt(-1) },
			wantErr: "invalid governance params: quorum must be positive",
		},
		{
			name:    "zero min vote",
			mutate:  func(p *Params) { p.MinVoteAmount = new(big.Int) },
			wantErr: "invalid governance params: minimum vote amount must be positive",
		},
		{
			name:    "missing quorum",
			mutate:  func(p *Params) { p.QuorumVotes = nil },
			wantErr: "Key: 'Params.QuorumVotes' Error:Field validation for 'QuorumVotes' failed on the 'required' tag",
		},
		{
			name:    "max period below min",
			mutate:  func(p *Params) { p.MaxVotingPeriod = 5 },
			wantErr: "Key: 'Params.MaxVotingPeriod' Error:Field validation for 'MaxVotingPeriod' failed on the 'gtefield' tag",
		},
		{
			name:    "majority of all votes",
			mutate:  func(p *Params) { p.MajorityBps = 10000 },
			wantErr: "Key: 'Params.MajorityBps' Error:Field validation for 'MajorityBps' failed on the 'lt' tag",
		},
		{
			name:    "no operations",
			mutate:  func(p *Params) { p.MaxOperations = 0 },
			wantErr: "Key: 'Params.MaxOperations' Error:Field validation for 'MaxOperations' failed on the 'gte' tag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params := DefaultParams()
			tt.mutate(&params)

			err := params.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.wantErr)
			}
		})
	}
}
