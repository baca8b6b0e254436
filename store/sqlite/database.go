// Package sqlite implements store.Store on SQLite through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

const (
	sequenceProposal = "proposal"
	databaseFile     = "governor.sqlite"
)

func init() {
	store.Register(store.BackendSqlite, func(dataDir string) (store.Store, error) {
		return New(dataDir)
	})
}

var _ store.Store = (*Store)(nil)

// Store persists governor state in a SQLite database.
type Store struct {
	db *gorm.DB
}

// New opens (creating if needed) the database under dataDir. An empty dataDir gives a
// private in-memory database.
func New(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == "" {
		// Named so that every pooled connection sees the same database, unique so that
		// separate stores do not.
		dsn = fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	} else {
		if _, err := os.Stat(dataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(dataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		// WAL journal mode, full sync: custody records must survive a crash
		dsn = fmt.Sprintf(
			"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)",
			filepath.Join(dataDir, databaseFile),
		)
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// single writer
	sqlDB.SetMaxOpenConns(1)
	for _, model := range migrateModels {
		if err := db.AutoMigrate(model); err != nil {
			return nil, fmt.Errorf("migrate %T: %w", model, err)
		}
	}

	return &Store{db: db}, nil
}

// DB returns the underlying gorm handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txn{db: tx})
	})
}

// View implements store.Store.
func (s *Store) View(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txn{db: tx, readOnly: true})
	})
}

// Close implements store.Store.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

type txn struct {
	db       *gorm.DB
	readOnly bool
}

func (t *txn) upsert(value any) error {
	if t.readOnly {
		return store.ErrReadOnly
	}

	return t.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
}

func (t *txn) first(dest any, conds ...any) error {
	err := t.db.Take(dest, conds...).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}

	return err
}

func (t *txn) NextProposalID() (uint64, error) {
	if t.readOnly {
		return 0, store.ErrReadOnly
	}
	seq := Sequence{Name: sequenceProposal}
	if err := t.first(&seq, "name = ?", sequenceProposal); err != nil && !errors.Is(err, store.ErrNotFound) {
		return 0, err
	}
	seq.Value++
	if err := t.upsert(&seq); err != nil {
		return 0, err
	}

	return seq.Value, nil
}

func (t *txn) ProposalCount() (uint64, error) {
	var seq Sequence
	if err := t.first(&seq, "name = ?", sequenceProposal); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return 0, nil
		}

		return 0, err
	}

	return seq.Value, nil
}

func (t *txn) GetProposal(id uint64) (*types.Proposal, error) {
	var m Proposal
	if err := t.first(&m, "id = ?", id); err != nil {
		return nil, err
	}

	return m.toType()
}

func (t *txn) PutProposal(p *types.Proposal) error {
	return t.upsert(proposalToModel(p))
}

func (t *txn) GetLock(participant common.Address, proposalID uint64) (*types.Lock, error) {
	var m Lock
	if err := t.first(&m, "participant = ? AND proposal_id = ?", participant.Bytes(), proposalID); err != nil {
		return nil, err
	}

	return m.toType()
}

func (t *txn) PutLock(l *types.Lock) error {
	return t.upsert(lockToModel(l))
}

func (t *txn) ListLocks(proposalID uint64) ([]*types.Lock, error) {
	var rows []Lock
	if err := t.db.Where("proposal_id = ?", proposalID).Order("participant").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*types.Lock, 0, len(rows))
	for i := range rows {
		l, err := rows[i].toType()
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}

	return out, nil
}

func (t *txn) TotalLocked() (*big.Int, error) {
	var amounts []string
	if err := t.db.Model(&Lock{}).Where("released = ?", false).Pluck("amount", &amounts).Error; err != nil {
		return nil, err
	}
	total := new(big.Int)
	for _, a := range amounts {
		v, err := parseAmount(a)
		if err != nil {
			return nil, err
		}
		total.Add(total, v)
	}

	return total, nil
}

func (t *txn) GetReceipt(voter common.Address, proposalID uint64) (*types.Receipt, error) {
	var m Receipt
	if err := t.first(&m, "voter = ? AND proposal_id = ?", voter.Bytes(), proposalID); err != nil {
		return nil, err
	}

	return m.toType()
}

func (t *txn) PutReceipt(r *types.Receipt) error {
	return t.upsert(receiptToModel(r))
}
