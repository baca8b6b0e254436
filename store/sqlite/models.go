package sqlite

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/types"
)

// Amounts are stored as base-10 strings; sqlite integers cannot hold uint256.

type Proposal struct {
	ID           uint64       `gorm:"primaryKey;autoIncrement:false"`
	Proposer     []byte       `gorm:"index"`
	Calls        []types.Call `gorm:"serializer:json;type:text"`
	Description  string
	StartBlock   uint64
	EndBlock     uint64 `gorm:"index"`
	ForVotes     string
	AgainstVotes string
	Executed     bool
	Canceled     bool
}

func (Proposal) TableName() string {
	return "proposal"
}

type Lock struct {
	Participant []byte `gorm:"primaryKey"`
	ProposalID  uint64 `gorm:"primaryKey;autoIncrement:false"`
	Amount      string
	Proposed    bool
	Voted       bool
	Released    bool `gorm:"index"`
}

func (Lock) TableName() string {
	return "lock"
}

type Receipt struct {
	Voter      []byte `gorm:"primaryKey"`
	ProposalID uint64 `gorm:"primaryKey;autoIncrement:false"`
	HasVoted   bool
	Support    bool
	Votes      string
}

func (Receipt) TableName() string {
	return "receipt"
}

type Sequence struct {
	Name  string `gorm:"primaryKey"`
	Value uint64
}

func (Sequence) TableName() string {
	return "sequence"
}

var migrateModels = []any{
	&Proposal{},
	&Lock{},
	&Receipt{},
	&Sequence{},
}

func parseAmount(s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("corrupt amount %q", s)
	}

	return v, nil
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}

	return v.String()
}

func proposalToModel(p *types.Proposal) *Proposal {
	return &Proposal{
		ID:           p.ID,
		Proposer:     p.Proposer.Bytes(),
		Calls:        p.Clone().Calls,
		Description:  p.Description,
		StartBlock:   p.StartBlock,
		EndBlock:     p.EndBlock,
		ForVotes:     formatAmount(p.ForVotes),
		AgainstVotes: formatAmount(p.AgainstVotes),
		Executed:     p.Executed,
		Canceled:     p.Canceled,
	}
}

func (m *Proposal) toType() (*types.Proposal, error) {
	forVotes, err := parseAmount(m.ForVotes)
	if err != nil {
		return nil, err
	}
	againstVotes, err := parseAmount(m.AgainstVotes)
	if err != nil {
		return nil, err
	}
	calls := m.Calls
	if calls == nil {
		calls = []types.Call{}
	}

	return &types.Proposal{
		ID:           m.ID,
		Proposer:     common.BytesToAddress(m.Proposer),
		Calls:        calls,
		Description:  m.Description,
		StartBlock:   m.StartBlock,
		EndBlock:     m.EndBlock,
		ForVotes:     forVotes,
		AgainstVotes: againstVotes,
		Executed:     m.Executed,
		Canceled:     m.Canceled,
	}, nil
}

func lockToModel(l *types.Lock) *Lock {
	return &Lock{
		Participant: l.Participant.Bytes(),
		ProposalID:  l.ProposalID,
		Amount:      formatAmount(l.Amount),
		Proposed:    l.Proposed,
		Voted:       l.Voted,
		Released:    l.Released,
	}
}

func (m *Lock) toType() (*types.Lock, error) {
	amount, err := parseAmount(m.Amount)
	if err != nil {
		return nil, err
	}

	return &types.Lock{
		Participant: common.BytesToAddress(m.Participant),
		ProposalID:  m.ProposalID,
		Amount:      amount,
		Proposed:    m.Proposed,
		Voted:       m.Voted,
		Released:    m.Released,
	}, nil
}

func receiptToModel(r *types.Receipt) *Receipt {
	return &Receipt{
		Voter:      r.Voter.Bytes(),
		ProposalID: r.ProposalID,
		HasVoted:   r.HasVoted,
		Support:    r.Support,
		Votes:      formatAmount(r.Votes),
	}
}

func (m *Receipt) toType() (*types.Receipt, error) {
	votes, err := parseAmount(m.Votes)
	if err != nil {
		return nil, err
	}

	return &types.Receipt{
		Voter:      common.BytesToAddress(m.Voter),
		ProposalID: m.ProposalID,
		HasVoted:   m.HasVoted,
		Support:    m.Support,
		Votes:      votes,
	}, nil
}
