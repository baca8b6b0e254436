package badger_test

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/demole/governor/store"
	"github.com/demole/governor/store/badger"
	"github.com/demole/governor/store/storetest"
	"github.com/demole/governor/types"
)

func TestStore_InMemory(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badger.New("", nil)
		require.NoError(t, err)

		return s
	})
}

func TestStore_OnDisk(t *testing.T) {
	t.Parallel()

	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := badger.New(t.TempDir(), zap.NewNop().Sugar())
		require.NoError(t, err)

		return s
	})
}

func TestStore_LocksDoNotLeakAcrossProposals(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, err := store.Open(store.BackendBadger, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	holder := common.HexToAddress("0xb0b")
	require.NoError(t, s.Update(ctx, func(tx store.Tx) error {
		// 1 and 256 share their low byte; the prefix must include the full id.
		for _, id := range []uint64{1, 256} {
			if err := tx.PutLock(&types.Lock{Participant: holder, ProposalID: id, Amount: big.NewInt(int64(id)), Voted: true}); err != nil {
				return err
			}
		}

		return nil
	}))

	require.NoError(t, s.View(ctx, func(tx store.Tx) error {
		locks, err := tx.ListLocks(1)
		require.NoError(t, err)
		require.Len(t, locks, 1)
		assert.Equal(t, int64(1), locks[0].Amount.Int64())

		return nil
	}))
}
