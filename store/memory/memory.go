// Package memory implements an in-process store.Store.
package memory

import (
	"bytes"
	"context"
	"math/big"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

func init() {
	store.Register(store.BackendMemory, func(string) (store.Store, error) {
		return New(), nil
	})
}

var _ store.Store = (*Store)(nil)

type key struct {
	account    common.Address
	proposalID uint64
}

type state struct {
	lastID    uint64
	proposals map[uint64]*types.Proposal
	locks     map[key]*types.Lock
	receipts  map[key]*types.Receipt
}

func (s *state) clone() *state {
	out := &state{
		lastID:    s.lastID,
		proposals: make(map[uint64]*types.Proposal, len(s.proposals)),
		locks:     make(map[key]*types.Lock, len(s.locks)),
		receipts:  make(map[key]*types.Receipt, len(s.receipts)),
	}
	for k, v := range s.proposals {
		out.proposals[k] = v
	}
	for k, v := range s.locks {
		out.locks[k] = v
	}
	for k, v := range s.receipts {
		out.receipts[k] = v
	}

	return out
}

// Store keeps governor state in maps. Records are stored as private copies, so an Update
// that fails leaves the committed state untouched.
type Store struct {
	mu    sync.RWMutex
	state *state
}

// New returns an empty store.
func New() *Store {
	return &Store{state: &state{
		proposals: map[uint64]*types.Proposal{},
		locks:     map[key]*types.Lock{},
		receipts:  map[key]*types.Receipt{},
	}}
}

// Update implements store.Store.
func (s *Store) Update(_ context.Context, fn func(tx store.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&txn{state: next}); err != nil {
		return err
	}
	s.state = next

	return nil
}

// View implements store.Store.
func (s *Store) View(_ context.Context, fn func(tx store.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&txn{state: s.state, readOnly: true})
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

type txn struct {
	state    *state
	readOnly bool
}

func (t *txn) NextProposalID() (uint64, error) {
	if t.readOnly {
		return 0, store.ErrReadOnly
	}
	t.state.lastID++

	return t.state.lastID, nil
}

func (t *txn) ProposalCount() (uint64, error) {
	return t.state.lastID, nil
}

func (t *txn) GetProposal(id uint64) (*types.Proposal, error) {
	p, ok := t.state.proposals[id]
	if !ok {
		return nil, store.ErrNotFound
	}

	return p.Clone(), nil
}

func (t *txn) PutProposal(p *types.Proposal) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	t.state.proposals[p.ID] = p.Clone()

	return nil
}

func (t *txn) GetLock(participant common.Address, proposalID uint64) (*types.Lock, error) {
	l, ok := t.state.locks[key{participant, proposalID}]
	if !ok {
		return nil, store.ErrNotFound
	}

	return l.Clone(), nil
}

func (t *txn) PutLock(l *types.Lock) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	t.state.locks[key{l.Participant, l.ProposalID}] = l.Clone()

	return nil
}

func (t *txn) ListLocks(proposalID uint64) ([]*types.Lock, error) {
	var out []*types.Lock
	for k, l := range t.state.locks {
		if k.proposalID == proposalID {
			out = append(out, l.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *types.Lock) int {
		return bytes.Compare(a.Participant.Bytes(), b.Participant.Bytes())
	})

	return out, nil
}

func (t *txn) TotalLocked() (*big.Int, error) {
	total := new(big.Int)
	for _, l := range t.state.locks {
		if l.Amount != nil {
			total.Add(total, l.Amount)
		}
	}

	return total, nil
}

func (t *txn) GetReceipt(voter common.Address, proposalID uint64) (*types.Receipt, error) {
	r, ok := t.state.receipts[key{voter, proposalID}]
	if !ok {
		return nil, store.ErrNotFound
	}

	return r.Clone(), nil
}

func (t *txn) PutReceipt(r *types.Receipt) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	t.state.receipts[key{r.Voter, r.ProposalID}] = r.Clone()

	return nil
}
