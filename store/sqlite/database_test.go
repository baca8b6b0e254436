package sqlite_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demole/governor/store"
	"github.com/demole/governor/store/sqlite"
	"github.com/demole/governor/store/storetest"
	"github.com/demole/governor/types"
)

func TestStore_InMemory(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := sqlite.New("")
		require.NoError(t, err)

		return s
	})
}

func TestStore_OnDisk(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := sqlite.New(t.TempDir())
		require.NoError(t, err)

		return s
	})
}

func TestStore_Reopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	holder := common.HexToAddress("0xb0b")

	s, err := store.Open(store.BackendSqlite, dir)
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
		if _, err := tx.NextProposalID(); err != nil {
			return err
		}

		return tx.PutLock(&types.Lock{Participant: holder, ProposalID: 1, Amount: big.NewInt(77), Voted: true})
	}))
	require.NoError(t, s.Close())

	s, err = sqlite.New(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.View(ctx, func(tx store.Tx) error {
		n, err := tx.ProposalCount()
		require.NoError(t, err)
		assert.Equal(t, uint64(1), n)

		l, err := tx.GetLock(holder, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(77), l.Amount.Int64())

		return nil
	}))
}
