package memory

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/demole/governor/sdk"
	sdkerrors "github.com/demole/governor/sdk/errors"
)

var (
	_ sdk.TokenLedger = (*Token)(nil)
	_ sdk.Reverter    = (*Token)(nil)
	_ Contract        = (*Token)(nil)
)

var (
	addressType, _ = abi.NewType("address", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)

	addressAmountArgs = abi.Arguments{{Type: addressType}, {Type: uint256Type}}
	uint256Args       = abi.Arguments{{Type: uint256Type}}

	// ErrNotPayable is returned when a call forwards value to a token function.
	ErrNotPayable = errors.New("token functions are not payable")
)

type tokenState struct {
	balances   map[common.Address]*big.Int
	allowances map[common.Address]map[common.Address]*big.Int
	supply     *big.Int
}

func (s tokenState) clone() tokenState {
	out := tokenState{
		balances:   make(map[common.Address]*big.Int, len(s.balances)),
		allowances: make(map[common.Address]map[common.Address]*big.Int, len(s.allowances)),
		supply:     new(big.Int).Set(s.supply),
	}
	for k, v := range s.balances {
		out.balances[k] = new(big.Int).Set(v)
	}
	for owner, spenders := range s.allowances {
		m := make(map[common.Address]*big.Int, len(spenders))
		for k, v := range spenders {
			m[k] = new(big.Int).Set(v)
		}
		out.allowances[owner] = m
	}

	return out
}

// Token is an in-process fungible token with ERC-20 style balances and allowances.
//
// It serves as the governor's ledger, with custody held by a fixed account, and as a
// dispatch target exposing mint(address,uint256) and transfer(address,uint256).
type Token struct {
	mu        sync.Mutex
	custody   common.Address
	state     tokenState
	snapshots []tokenState
}

// NewToken returns an empty token whose custody account is custody.
func NewToken(custody common.Address) *Token {
	return &Token{
		custody: custody,
		state: tokenState{
			balances:   map[common.Address]*big.Int{},
			allowances: map[common.Address]map[common.Address]*big.Int{},
			supply:     new(big.Int),
		},
	}
}

// Custody implements sdk.TokenLedger.
func (t *Token) Custody() common.Address { return t.custody }

// Mint credits amount to the account and grows the supply.
func (t *Token) Mint(to common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.credit(to, amount)
	t.state.supply.Add(t.state.supply, amount)
}

// Approve sets the amount spender may move out of owner's balance.
func (t *Token) Approve(owner, spender common.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	spenders, ok := t.state.allowances[owner]
	if !ok {
		spenders = map[common.Address]*big.Int{}
		t.state.allowances[owner] = spenders
	}
	spenders[spender] = new(big.Int).Set(amount)
}

// Allowance returns the amount spender may move out of owner's balance.
func (t *Token) Allowance(owner, spender common.Address) *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.allowance(owner, spender))
}

// Move transfers amount between two arbitrary accounts.
func (t *Token) Move(from, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(from, to, amount)
}

// TotalSupply returns the number of tokens in existence.
func (t *Token) TotalSupply() *big.Int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.state.supply)
}

// TransferFrom implements sdk.TokenLedger.
func (t *Token) TransferFrom(_ context.Context, owner common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	allowed := t.allowance(owner, t.custody)
	if allowed.Cmp(amount) < 0 {
		return sdkerrors.NewInsufficientAllowanceError(owner, t.custody, new(big.Int).Set(allowed), amount)
	}
	if err := t.move(owner, t.custody, amount); err != nil {
		return err
	}
	allowed.Sub(allowed, amount)

	return nil
}

// Transfer implements sdk.TokenLedger.
func (t *Token) Transfer(_ context.Context, to common.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.move(t.custody, to, amount)
}

// BalanceOf implements sdk.TokenLedger.
func (t *Token) BalanceOf(_ context.Context, account common.Address) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return new(big.Int).Set(t.balance(account)), nil
}

// Snapshot implements sdk.Reverter.
func (t *Token) Snapshot() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.snapshots = append(t.snapshots, t.state.clone())

	return len(t.snapshots) - 1
}

// RevertToSnapshot implements sdk.Reverter. Later snapshots are discarded.
func (t *Token) RevertToSnapshot(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id < 0 || id >= len(t.snapshots) {
		return
	}
	t.state = t.snapshots[id]
	t.snapshots = t.snapshots[:id]
}

// DiscardSnapshot implements sdk.Reverter. The current state is kept.
func (t *Token) DiscardSnapshot(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id < 0 || id >= len(t.snapshots) {
		return
	}
	t.snapshots = t.snapshots[:id]
}

// Snapshots returns the number of snapshots retained.
func (t *Token) Snapshots() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.snapshots)
}

// Methods implements Contract.
func (t *Token) Methods() map[string]Method {
	return map[string]Method{
		"mint(address,uint256)": func(_ context.Context, _ common.Address, value *big.Int, args []byte) ([]byte, error) {
			if value.Sign() != 0 {
				return nil, ErrNotPayable
			}
			to, amount, err := unpackAddressAmount(args)
			if err != nil {
				return nil, err
			}
			t.Mint(to, amount)

			return nil, nil
		},
		"transfer(address,uint256)": func(_ context.Context, from common.Address, value *big.Int, args []byte) ([]byte, error) {
			if value.Sign() != 0 {
				return nil, ErrNotPayable
			}
			to, amount, err := unpackAddressAmount(args)
			if err != nil {
				return nil, err
			}
			if err := t.Move(from, to, amount); err != nil {
				return nil, err
			}

			return uint256Args.Pack(big.NewInt(1))
		},
	}
}

func (t *Token) allowance(owner, spender common.Address) *big.Int {
	spenders, ok := t.state.allowances[owner]
	if !ok {
		spenders = map[common.Address]*big.Int{}
		t.state.allowances[owner] = spenders
	}
	v, ok := spenders[spender]
	if !ok {
		v = new(big.Int)
		spenders[spender] = v
	}

	return v
}

func (t *Token) balance(account common.Address) *big.Int {
	if v, ok := t.state.balances[account]; ok {
		return v
	}

	return new(big.Int)
}

func (t *Token) credit(account common.Address, amount *big.Int) {
	t.state.balances[account] = new(big.Int).Add(t.balance(account), amount)
}

func (t *Token) move(from, to common.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative transfer amount")
	}
	bal := t.balance(from)
	if bal.Cmp(amount) < 0 {
		return sdkerrors.NewInsufficientBalanceError(from, new(big.Int).Set(bal), amount)
	}
	t.state.balances[from] = new(big.Int).Sub(bal, amount)
	t.credit(to, amount)

	return nil
}

func unpackAddressAmount(args []byte) (common.Address, *big.Int, error) {
	values, err := addressAmountArgs.Unpack(args)
	if err != nil {
		return common.Address{}, nil, err
	}
	to, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, nil, errors.New("malformed address argument")
	}
	amount, ok := values[1].(*big.Int)
	if !ok {
		return common.Address{}, nil, errors.New("malformed amount argument")
	}

	return to, amount, nil
}
