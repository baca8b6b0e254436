package evm

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	gethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demole/governor/internal/testutils/evmsim"
	abiutils "github.com/demole/governor/internal/utils/abi"
	sdkerrors "github.com/demole/governor/sdk/errors"
	"github.com/demole/governor/types"
)

var errInsufficient = errors.New("execution reverted: ERC20: transfer amount exceeds balance")

// fakeERC20 is a backend serving a single ERC-20 token at a fixed address. Transactions are
// applied when sent and their receipts are available immediately.
type fakeERC20 struct {
	ContractDeployBackend

	mu         sync.Mutex
	signer     gethTypes.Signer
	balances   map[common.Address]*big.Int
	allowances map[[2]common.Address]*big.Int
	nonces     map[common.Address]uint64
	receipts   map[common.Hash]*gethTypes.Receipt
	sent       int

	// returnFalse makes transfers report failure instead of reverting.
	returnFalse bool
	// revertOnChain makes transfers pass eth_call but revert once mined.
	revertOnChain bool
}

func newFakeERC20() *fakeERC20 {
	return &fakeERC20{
		signer:     gethTypes.LatestSignerForChainID(big.NewInt(evmsim.SimulatedChainID)),
		balances:   map[common.Address]*big.Int{},
		allowances: map[[2]common.Address]*big.Int{},
		nonces:     map[common.Address]uint64{},
		receipts:   map[common.Hash]*gethTypes.Receipt{},
	}
}

func selectorOf(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])

	return sel
}

func (f *fakeERC20) balance(a common.Address) *big.Int {
	if b, ok := f.balances[a]; ok {
		return b
	}

	return new(big.Int)
}

func (f *fakeERC20) allowance(owner, spender common.Address) *big.Int {
	if v, ok := f.allowances[[2]common.Address{owner, spender}]; ok {
		return v
	}

	return new(big.Int)
}

// apply runs a token call from sender. When commit is false no state changes.
func (f *fakeERC20) apply(sender common.Address, data []byte, commit bool) ([]byte, error) {
	var sel [4]byte
	copy(sel[:], data[:4])

	switch sel {
	case selectorOf(balanceOfSignature):
		values, err := abiutils.Decode(addressABI, data[4:])
		if err != nil {
			return nil, err
		}

		return abiutils.Encode(uint256ABI, f.balance(values[0].(common.Address)))
	case selectorOf(transferSignature), selectorOf(transferFromSignature):
		from, to, amount := sender, common.Address{}, new(big.Int)
		if sel == selectorOf(transferSignature) {
			values, err := abiutils.Decode(addressAmountABI, data[4:])
			if err != nil {
				return nil, err
			}
			to, amount = values[0].(common.Address), values[1].(*big.Int)
		} else {
			values, err := abiutils.Decode(addressAddressAmountABI, data[4:])
			if err != nil {
				return nil, err
			}
			from, to, amount = values[0].(common.Address), values[1].(common.Address), values[2].(*big.Int)
			if f.allowance(from, sender).Cmp(amount) < 0 {
				return nil, errors.New("execution reverted: ERC20: insufficient allowance")
			}
		}

		if f.balance(from).Cmp(amount) < 0 {
			return nil, errInsufficient
		}
		if f.returnFalse {
			return abiutils.Encode(boolABI, false)
		}

		if commit {
			f.balances[from] = new(big.Int).Sub(f.balance(from), amount)
			f.balances[to] = new(big.Int).Add(f.balance(to), amount)
			if sel == selectorOf(transferFromSignature) {
				key := [2]common.Address{from, sender}
				f.allowances[key] = new(big.Int).Sub(f.allowance(from, sender), amount)
			}
		}

		return abiutils.Encode(boolABI, true)
	default:
		return nil, errors.New("execution reverted")
	}
}

func (f *fakeERC20) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.apply(msg.From, msg.Data, false)
}

func (f *fakeERC20) PendingNonceAt(_ context.Context, account common.Address) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.nonces[account], nil
}

func (f *fakeERC20) SendTransaction(_ context.Context, tx *gethTypes.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	sender, err := gethTypes.Sender(f.signer, tx)
	if err != nil {
		return err
	}
	f.nonces[sender]++
	f.sent++

	status := gethTypes.ReceiptStatusSuccessful
	if _, err := f.apply(sender, tx.Data(), !f.revertOnChain); err != nil || f.revertOnChain {
		status = gethTypes.ReceiptStatusFailed
	}
	f.receipts[tx.Hash()] = &gethTypes.Receipt{Status: status, TxHash: tx.Hash()}

	return nil
}

func (f *fakeERC20) TransactionReceipt(_ context.Context, hash common.Hash) (*gethTypes.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r, ok := f.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}

	return r, nil
}

func newTestLedger(t *testing.T, opts ...Option) (*TokenLedger, *fakeERC20, common.Address) {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	auth, err := bind.NewKeyedTransactorWithChainID(key, big.NewInt(evmsim.SimulatedChainID))
	require.NoError(t, err)
	auth.GasLimit = 100000
	auth.GasPrice = big.NewInt(1)

	backend := newFakeERC20()
	token := common.HexToAddress("0x70c3")

	return NewTokenLedger(token, backend, auth, opts...), backend, auth.From
}

func TestTokenLedger_TransferFromAndBack(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	ledger, backend, custody := newTestLedger(t)
	owner := common.HexToAddress("0xa11ce")

	backend.balances[owner] = big.NewInt(100)
	backend.allowances[[2]common.Address{owner, custody}] = big.NewInt(60)

	assert.Equal(t, custody, ledger.Custody())

	require.NoError(t, ledger.TransferFrom(ctx, owner, big.NewInt(60)))

	balance, err := ledger.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(40), balance)
	balance, err = ledger.BalanceOf(ctx, custody)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(60), balance)

	// The allowance is used up.
	err = ledger.TransferFrom(ctx, owner, big.NewInt(1))
	require.EqualError(t, err, "execution reverted: ERC20: insufficient allowance")

	require.NoError(t, ledger.Transfer(ctx, owner, big.NewInt(60)))
	balance, err = ledger.BalanceOf(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100), balance)

	assert.Equal(t, 2, backend.sent)
}

func TestTokenLedger_Rejections(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	to := common.HexToAddress("0xb0b")

	t.Run("reverts in simulation", func(t *testing.T) {
		t.Parallel()

		ledger, backend, _ := newTestLedger(t)
		err := ledger.Transfer(ctx, to, big.NewInt(1))
		require.ErrorIs(t, err, errInsufficient)
		assert.Zero(t, backend.sent)
	})

	t.Run("returns false", func(t *testing.T) {
		t.Parallel()

		ledger, backend, custody := newTestLedger(t)
		backend.balances[custody] = big.NewInt(5)
		backend.returnFalse = true

		err := ledger.Transfer(ctx, to, big.NewInt(1))
		require.ErrorIs(t, err, ErrTransferRejected)
		assert.Zero(t, backend.sent)
	})

	t.Run("reverts on chain", func(t *testing.T) {
		t.Parallel()

		ledger, backend, custody := newTestLedger(t)
		backend.balances[custody] = big.NewInt(5)
		backend.revertOnChain = true

		err := ledger.Transfer(ctx, to, big.NewInt(1))
		var reverted *sdkerrors.TransactionRevertedError
		require.ErrorAs(t, err, &reverted)
		assert.Equal(t, 1, backend.sent)
		assert.Equal(t, big.NewInt(5), backend.balance(custody))
	})
}

func TestCheckTransferResult(t *testing.T) {
	t.Parallel()

	require.NoError(t, checkTransferResult(nil))

	ok, err := abiutils.Encode(boolABI, true)
	require.NoError(t, err)
	require.NoError(t, checkTransferResult(ok))

	require.Error(t, checkTransferResult([]byte{1, 2, 3}))
}

func TestTokenLedger_BalanceOfPayload(t *testing.T) {
	t.Parallel()

	args, err := abiutils.Encode(addressABI, common.HexToAddress("0xa11ce"))
	require.NoError(t, err)

	call := types.Call{Signature: balanceOfSignature, Data: args}
	assert.Equal(t, "0x70a08231", common.Bytes2Hex(call.Payload()[:4]))
}

func TestTokenLedger_TxTimeout(t *testing.T) {
	t.Parallel()

	neverMined := func(ctx context.Context, _ *gethTypes.Transaction) (*gethTypes.Receipt, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	ledger, backend, custody := newTestLedger(t, WithConfirmer(neverMined), WithTxTimeout(20*time.Millisecond))
	backend.balances[custody] = big.NewInt(5)

	err := ledger.Transfer(context.Background(), common.HexToAddress("0xb0b"), big.NewInt(1))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, backend.sent)
}
