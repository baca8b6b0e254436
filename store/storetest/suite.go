// Package storetest holds the behavioural suite every store.Store must pass.
package storetest

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")

	errBoom = errors.New("boom")
)

// Suite exercises a store.Store. Open is called once per test.
type Suite struct {
	suite.Suite

	Open  func(t *testing.T) store.Store
	store store.Store
}

// Run runs the suite against the stores returned by open.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	suite.Run(t, &Suite{Open: open})
}

func (s *Suite) SetupTest() {
	s.store = s.Open(s.T())
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *Suite) update(fn func(tx store.Tx) error) error {
	return s.store.Update(context.Background(), fn)
}

func (s *Suite) view(fn func(tx store.Tx) error) {
	s.Require().NoError(s.store.View(context.Background(), fn))
}

func sampleProposal(id uint64) *types.Proposal {
	return &types.Proposal{
		ID:       id,
		Proposer: alice,
		Calls: []types.Call{{
			Target:    common.HexToAddress("0x70c3"),
			Value:     big.NewInt(0),
			Signature: "mint(address,uint256)",
			Data:      []byte{0xde, 0xad},
		}},
		Description:  "mint token",
		StartBlock:   10,
		EndBlock:     25,
		ForVotes:     big.NewInt(3),
		AgainstVotes: big.NewInt(4),
	}
}

func (s *Suite) TestProposalSequenceStartsAtOne() {
	var ids []uint64
	for range 3 {
		s.Require().NoError(s.update(func(tx store.Tx) error {
			id, err := tx.NextProposalID()
			ids = append(ids, id)

			return err
		}))
	}
	s.Equal([]uint64{1, 2, 3}, ids)

	s.view(func(tx store.Tx) error {
		n, err := tx.ProposalCount()
		s.Require().NoError(err)
		s.Equal(uint64(3), n)

		return nil
	})
}

func (s *Suite) TestProposalRoundTrip() {
	want := sampleProposal(1)
	s.Require().NoError(s.update(func(tx store.Tx) error {
		return tx.PutProposal(want)
	}))

	s.view(func(tx store.Tx) error {
		got, err := tx.GetProposal(1)
		s.Require().NoError(err)
		s.Empty(cmp.Diff(want, got, cmp.Comparer(bigEqual)))

		_, err = tx.GetProposal(2)
		s.ErrorIs(err, store.ErrNotFound)

		return nil
	})
}

func (s *Suite) TestFailedUpdateLeavesNoTrace() {
	s.Require().NoError(s.update(func(tx store.Tx) error {
		if _, err := tx.NextProposalID(); err != nil {
			return err
		}

		return tx.PutProposal(sampleProposal(1))
	}))

	err := s.update(func(tx store.Tx) error {
		id, err := tx.NextProposalID()
		s.Require().NoError(err)
		s.Equal(uint64(2), id)

		p := sampleProposal(1)
		p.Executed = true
		s.Require().NoError(tx.PutProposal(p))
		s.Require().NoError(tx.PutProposal(sampleProposal(2)))
		s.Require().NoError(tx.PutLock(&types.Lock{Participant: bob, ProposalID: 1, Amount: big.NewInt(9), Voted: true}))
		s.Require().NoError(tx.PutReceipt(&types.Receipt{Voter: bob, ProposalID: 1, HasVoted: true, Votes: big.NewInt(9)}))

		return errBoom
	})
	s.ErrorIs(err, errBoom)

	s.view(func(tx store.Tx) error {
		n, err := tx.ProposalCount()
		s.Require().NoError(err)
		s.Equal(uint64(1), n)

		p, err := tx.GetProposal(1)
		s.Require().NoError(err)
		s.False(p.Executed)

		_, err = tx.GetProposal(2)
		s.ErrorIs(err, store.ErrNotFound)
		_, err = tx.GetLock(bob, 1)
		s.ErrorIs(err, store.ErrNotFound)
		_, err = tx.GetReceipt(bob, 1)
		s.ErrorIs(err, store.ErrNotFound)

		return nil
	})
}

func (s *Suite) TestLocks() {
	s.Require().NoError(s.update(func(tx store.Tx) error {
		s.Require().NoError(tx.PutLock(&types.Lock{Participant: bob, ProposalID: 1, Amount: big.NewInt(40), Voted: true}))
		s.Require().NoError(tx.PutLock(&types.Lock{Participant: alice, ProposalID: 1, Amount: big.NewInt(10), Proposed: true}))
		s.Require().NoError(tx.PutLock(&types.Lock{Participant: alice, ProposalID: 2, Amount: big.NewInt(10), Proposed: true}))

		return tx.PutLock(&types.Lock{Participant: bob, ProposalID: 2, Amount: big.NewInt(0), Voted: true, Released: true})
	}))

	s.view(func(tx store.Tx) error {
		l, err := tx.GetLock(bob, 1)
		s.Require().NoError(err)
		s.Equal(int64(40), l.Amount.Int64())
		s.True(l.Voted)
		s.False(l.Proposed)

		locks, err := tx.ListLocks(1)
		s.Require().NoError(err)
		s.Require().Len(locks, 2)
		s.Equal(alice, locks[0].Participant)
		s.Equal(bob, locks[1].Participant)

		total, err := tx.TotalLocked()
		s.Require().NoError(err)
		s.Equal(int64(60), total.Int64())

		return nil
	})

	// Overwrite releases the entry.
	s.Require().NoError(s.update(func(tx store.Tx) error {
		l, err := tx.GetLock(bob, 1)
		s.Require().NoError(err)
		l.Amount = big.NewInt(0)
		l.Released = true

		return tx.PutLock(l)
	}))
	s.view(func(tx store.Tx) error {
		l, err := tx.GetLock(bob, 1)
		s.Require().NoError(err)
		s.True(l.Released)
		s.Equal(0, l.Amount.Sign())

		total, err := tx.TotalLocked()
		s.Require().NoError(err)
		s.Equal(int64(20), total.Int64())

		return nil
	})
}

func (s *Suite) TestReceipts() {
	s.Require().NoError(s.update(func(tx store.Tx) error {
		return tx.PutReceipt(&types.Receipt{Voter: bob, ProposalID: 3, HasVoted: true, Support: true, Votes: big.NewInt(1000)})
	}))

	s.view(func(tx store.Tx) error {
		r, err := tx.GetReceipt(bob, 3)
		s.Require().NoError(err)
		s.True(r.HasVoted)
		s.True(r.Support)
		s.Equal(int64(1000), r.Votes.Int64())

		_, err = tx.GetReceipt(alice, 3)
		s.ErrorIs(err, store.ErrNotFound)

		return nil
	})
}

func (s *Suite) TestViewRejectsWrites() {
	err := s.store.View(context.Background(), func(tx store.Tx) error {
		return tx.PutProposal(sampleProposal(1))
	})
	s.ErrorIs(err, store.ErrReadOnly)
}

func bigEqual(a, b *big.Int) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Cmp(b) == 0
}
