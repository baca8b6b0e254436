// Package badger implements store.Store on a badger key-value database.
package badger

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

var (
	keySequence       = []byte("seq/proposal")
	prefixProposal    = []byte("p/")
	prefixLock        = []byte("l/")
	prefixReceipt     = []byte("r/")
	errValueMalformed = errors.New("malformed value")
)

func init() {
	store.Register(store.BackendBadger, func(dataDir string) (store.Store, error) {
		return New(dataDir, nil)
	})
}

var _ store.Store = (*Store)(nil)

// Store persists governor state as JSON records in badger.
//
// Lock and receipt keys are prefixed by proposal id, so the entries of one proposal are
// contiguous and ordered by participant address.
type Store struct {
	db *badger.DB
}

// New opens the database in dataDir, or an in-memory database when dataDir is empty.
// A nil logger silences badger.
func New(dataDir string, logger sdk.Logger) (*Store, error) {
	var opts badger.Options
	if dataDir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dataDir, fs.ModePerm); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		opts = badger.DefaultOptions(dataDir).WithSyncWrites(true)
	}
	if logger != nil {
		opts = opts.WithLogger(badgerLogger{logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Update implements store.Store.
func (s *Store) Update(_ context.Context, fn func(tx store.Tx) error) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn})
	})
}

// View implements store.Store.
func (s *Store) View(_ context.Context, fn func(tx store.Tx) error) error {
	return s.db.View(func(txn *badger.Txn) error {
		return fn(&badgerTxn{txn: txn, readOnly: true})
	})
}

// Close implements store.Store.
func (s *Store) Close() error {
	return s.db.Close()
}

func proposalKey(id uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte{}, prefixProposal...), id)
}

func accountKey(prefix []byte, id uint64, account common.Address) []byte {
	k := binary.BigEndian.AppendUint64(append([]byte{}, prefix...), id)

	return append(k, account.Bytes()...)
}

func proposalPrefix(prefix []byte, id uint64) []byte {
	return binary.BigEndian.AppendUint64(append([]byte{}, prefix...), id)
}

type badgerTxn struct {
	txn      *badger.Txn
	readOnly bool
}

func (t *badgerTxn) get(key []byte, dest any) error {
	item, err := t.txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return store.ErrNotFound
		}

		return err
	}

	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, dest)
	})
}

func (t *badgerTxn) put(key []byte, value any) error {
	if t.readOnly {
		return store.ErrReadOnly
	}
	buf, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return t.txn.Set(key, buf)
}

func (t *badgerTxn) NextProposalID() (uint64, error) {
	if t.readOnly {
		return 0, store.ErrReadOnly
	}
	n, err := t.ProposalCount()
	if err != nil {
		return 0, err
	}
	n++

	return n, t.txn.Set(keySequence, binary.BigEndian.AppendUint64(nil, n))
}

func (t *badgerTxn) ProposalCount() (uint64, error) {
	item, err := t.txn.Get(keySequence)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var n uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return errValueMalformed
		}
		n = binary.BigEndian.Uint64(val)

		return nil
	})

	return n, err
}

func (t *badgerTxn) GetProposal(id uint64) (*types.Proposal, error) {
	var p types.Proposal
	if err := t.get(proposalKey(id), &p); err != nil {
		return nil, err
	}

	return p.Clone(), nil
}

func (t *badgerTxn) PutProposal(p *types.Proposal) error {
	return t.put(proposalKey(p.ID), p)
}

func (t *badgerTxn) GetLock(participant common.Address, proposalID uint64) (*types.Lock, error) {
	var l types.Lock
	if err := t.get(accountKey(prefixLock, proposalID, participant), &l); err != nil {
		return nil, err
	}

	return l.Clone(), nil
}

func (t *badgerTxn) PutLock(l *types.Lock) error {
	return t.put(accountKey(prefixLock, l.ProposalID, l.Participant), l)
}

func (t *badgerTxn) ListLocks(proposalID uint64) ([]*types.Lock, error) {
	var out []*types.Lock
	err := t.scan(proposalPrefix(prefixLock, proposalID), func(val []byte) error {
		var l types.Lock
		if err := json.Unmarshal(val, &l); err != nil {
			return err
		}
		out = append(out, l.Clone())

		return nil
	})

	return out, err
}

func (t *badgerTxn) TotalLocked() (*big.Int, error) {
	total := new(big.Int)
	err := t.scan(prefixLock, func(val []byte) error {
		var l types.Lock
		if err := json.Unmarshal(val, &l); err != nil {
			return err
		}
		if l.Amount != nil {
			total.Add(total, l.Amount)
		}

		return nil
	})

	return total, err
}

func (t *badgerTxn) GetReceipt(voter common.Address, proposalID uint64) (*types.Receipt, error) {
	var r types.Receipt
	if err := t.get(accountKey(prefixReceipt, proposalID, voter), &r); err != nil {
		return nil, err
	}

	return r.Clone(), nil
}

func (t *badgerTxn) PutReceipt(r *types.Receipt) error {
	return t.put(accountKey(prefixReceipt, r.ProposalID, r.Voter), r)
}

func (t *badgerTxn) scan(prefix []byte, fn func(val []byte) error) error {
	it := t.txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := it.Item().Value(fn); err != nil {
			return err
		}
	}

	return nil
}

type badgerLogger struct {
	sdk.Logger
}

func (l badgerLogger) Warningf(template string, args ...any) {
	l.Warnf(template, args...)
}
