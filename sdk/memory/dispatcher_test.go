package memory

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkerrors "github.com/demole/governor/sdk/errors"
	"github.com/demole/governor/types"
)

func mintCall(t *testing.T, target, to common.Address, amount int64) types.Call {
	t.Helper()

	args, err := addressAmountArgs.Pack(to, big.NewInt(amount))
	require.NoError(t, err)

	return types.Call{Target: target, Value: big.NewInt(0), Signature: "mint(address,uint256)", Data: args}
}

func TestDispatcher_Dispatch(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokenAddr := common.HexToAddress("0x70c3")
	tok := NewToken(custody)
	d := NewDispatcher(custody)
	d.Register(tokenAddr, tok)

	tests := []struct {
		name    string
		call    types.Call
		wantErr any
	}{
		{
			name: "mint",
			call: mintCall(t, tokenAddr, alice, 1000),
		},
		{
			name:    "unknown target",
			call:    mintCall(t, common.HexToAddress("0xdead"), alice, 1),
			wantErr: &sdkerrors.UnknownTargetError{},
		},
		{
			name:    "unknown selector",
			call:    types.Call{Target: tokenAddr, Signature: "burn(uint256)"},
			wantErr: &sdkerrors.UnknownSelectorError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Dispatch(ctx, tt.call)
			switch want := tt.wantErr.(type) {
			case *sdkerrors.UnknownTargetError:
				require.ErrorAs(t, err, &want)
			case *sdkerrors.UnknownSelectorError:
				require.ErrorAs(t, err, &want)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, res.Hash)
			}
		})
	}

	bal, err := tok.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), bal.Int64())
}

func TestDispatcher_ValueRejected(t *testing.T) {
	t.Parallel()

	tokenAddr := common.HexToAddress("0x70c3")
	d := NewDispatcher(custody)
	d.Register(tokenAddr, NewToken(custody))

	call := mintCall(t, tokenAddr, alice, 1)
	call.Value = big.NewInt(1)
	_, err := d.Dispatch(context.Background(), call)
	require.ErrorIs(t, err, ErrNotPayable)
}

func TestDispatcher_TransferFromSender(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokenAddr := common.HexToAddress("0x70c3")
	tok := NewToken(custody)
	tok.Mint(custody, big.NewInt(10))
	d := NewDispatcher(custody)
	d.Register(tokenAddr, tok)

	args, err := addressAmountArgs.Pack(bob, big.NewInt(4))
	require.NoError(t, err)
	res, err := d.Dispatch(ctx, types.Call{Target: tokenAddr, Signature: "transfer(address,uint256)", Data: args})
	require.NoError(t, err)
	assert.Len(t, res.RawData, 32)

	bal, err := tok.BalanceOf(ctx, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(4), bal.Int64())
}

func TestDispatcher_SimulateAndRevert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokenAddr := common.HexToAddress("0x70c3")
	tok := NewToken(custody)
	d := NewDispatcher(custody)
	d.Register(tokenAddr, tok)

	require.NoError(t, d.SimulateCall(ctx, mintCall(t, tokenAddr, alice, 50)))
	assert.Equal(t, int64(0), tok.TotalSupply().Int64(), "simulation must not leave effects")

	snap := d.Snapshot()
	_, err := d.Dispatch(ctx, mintCall(t, tokenAddr, alice, 50))
	require.NoError(t, err)
	assert.Equal(t, int64(50), tok.TotalSupply().Int64())
	d.RevertToSnapshot(snap)
	assert.Equal(t, int64(0), tok.TotalSupply().Int64())
}

func TestDispatcher_DiscardSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tokenAddr := common.HexToAddress("0x70c3")
	tok := NewToken(custody)
	d := NewDispatcher(custody)
	d.Register(tokenAddr, tok)

	for range 10 {
		snap := d.Snapshot()
		_, err := d.Dispatch(ctx, mintCall(t, tokenAddr, alice, 1))
		require.NoError(t, err)
		d.DiscardSnapshot(snap)
	}

	assert.Equal(t, int64(10), tok.TotalSupply().Int64())
	assert.Zero(t, d.Snapshots())
	assert.Zero(t, tok.Snapshots())

	require.NoError(t, d.SimulateCall(ctx, mintCall(t, tokenAddr, alice, 1)))
	assert.Zero(t, d.Snapshots())
	assert.Zero(t, tok.Snapshots())
}
