package governor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/sdk/memory"
	"github.com/demole/governor/sdk/mocks"
	"github.com/demole/governor/store"
	memstore "github.com/demole/governor/store/memory"
	"github.com/demole/governor/types"
)

// simulatingDispatcher is a dispatcher that can dry-run calls but not revert them.
type simulatingDispatcher struct {
	*mocks.Dispatcher
}

var _ sdk.Simulator = simulatingDispatcher{}

func (d simulatingDispatcher) SimulateCall(ctx context.Context, call types.Call) error {
	return d.Called(ctx, call).Error(0)
}

func TestGovernor_ExecutePreflight(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	token := memory.NewToken(custody)
	clock := memory.NewClock(1)
	dispatcher := simulatingDispatcher{Dispatcher: mocks.NewDispatcher(t)}

	token.Mint(proposer, tokens("10000000"))
	token.Approve(proposer, custody, tokens("10000000"))
	token.Mint(voter, tokens("40000000"))
	token.Approve(voter, custody, tokens("40000000"))

	gov, err := New(memstore.New(), token, clock, dispatcher, DefaultParams(),
		WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	req := mintRequest(t, treasury, tokens("1"))
	req.Targets = append(req.Targets, tokenAddr)
	req.Values = append(req.Values, nil)
	req.Signatures = append(req.Signatures, "pause()")
	req.Calldatas = append(req.Calldatas, nil)

	id, err := gov.Propose(ctx, proposer, req)
	require.NoError(t, err)
	require.NoError(t, gov.CastVote(ctx, voter, id, tokens("40000000"), true))
	clock.Mine(11)

	bySignature := func(signature string) any {
		return mock.MatchedBy(func(c types.Call) bool { return c.Signature == signature })
	}
	dispatcher.On("SimulateCall", mock.Anything, bySignature("mint(address,uint256)")).Return(nil).Once()
	dispatcher.On("SimulateCall", mock.Anything, bySignature("pause()")).Return(errors.New("execution reverted")).Once()

	_, err = gov.Execute(ctx, id)
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.True(t, execErr.Simulated)
	assert.Equal(t, 1, execErr.CallIndex)
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)

	state, err := gov.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StateSucceeded, state)

	dispatcher.On("SimulateCall", mock.Anything, mock.Anything).Return(nil).Twice()
	dispatcher.EXPECT().Dispatch(mock.Anything, bySignature("mint(address,uint256)")).Return(types.TransactionResult{Hash: "0x01"}, nil).Once()
	dispatcher.EXPECT().Dispatch(mock.Anything, bySignature("pause()")).Return(types.TransactionResult{Hash: "0x02"}, nil).Once()

	results, err := gov.Execute(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []types.TransactionResult{{Hash: "0x01"}, {Hash: "0x02"}}, results)

	state, err = gov.State(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, types.StateExecuted, state)
}

// Without simulation or rollback, a failing call still leaves the proposal unexecuted.
func TestGovernor_ExecuteFailureWithoutRollback(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	token := memory.NewToken(custody)
	clock := memory.NewClock(1)
	dispatcher := mocks.NewDispatcher(t)

	token.Mint(proposer, tokens("50000000"))
	token.Approve(proposer, custody, tokens("50000000"))

	gov, err := New(memstore.New(), token, clock, dispatcher, DefaultParams(),
		WithLogger(zaptest.NewLogger(t).Sugar()))
	require.NoError(t, err)

	id, err := gov.Propose(ctx, proposer, mintRequest(t, treasury, tokens("1")))
	require.NoError(t, err)
	require.NoError(t, gov.CastVote(ctx, proposer, id, tokens("40000000"), true))
	clock.Mine(11)

	dispatcher.EXPECT().Dispatch(mock.Anything, mock.Anything).Return(types.TransactionResult{}, errors.New("out of gas")).Once()

	_, err = gov.Execute(ctx, id)
	require.EqualError(t, err, "proposal 1: call 0 to "+tokenAddr.Hex()+" failed: out of gas")

	p, err := gov.Proposal(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.Executed)
}

// switchableStore discards updates once failing is set.
type switchableStore struct {
	store.Store
	failing *atomic.Bool
}

func (s switchableStore) Update(ctx context.Context, fn func(tx store.Tx) error) error {
	if !s.failing.Load() {
		return s.Store.Update(ctx, fn)
	}

	return commitFailingStore{Store: s.Store}.Update(ctx, fn)
}

// A dispatcher that cannot revert leaves sent calls applied; the governor reports it.
func TestGovernor_ExecuteReportsAppliedCalls(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		failCommit bool
		secondErr  error
		wantErr    error
		wantLog    string
	}{
		{
			name:      "later call fails",
			secondErr: errors.New("out of gas"),
			wantLog:   "proposal 1 left unexecuted after 1 of 2 calls were applied",
		},
		{
			name:       "executed flag not stored",
			failCommit: true,
			wantErr:    errCommit,
			wantLog:    "proposal 1 left unexecuted after 2 of 2 calls were applied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			token := memory.NewToken(custody)
			clock := memory.NewClock(1)
			dispatcher := mocks.NewDispatcher(t)
			failing := &atomic.Bool{}
			st := switchableStore{Store: memstore.New(), failing: failing}

			token.Mint(proposer, tokens("50000000"))
			token.Approve(proposer, custody, tokens("50000000"))

			core, logs := observer.New(zap.ErrorLevel)
			gov, err := New(st, token, clock, dispatcher, DefaultParams(), WithLogger(zap.New(core).Sugar()))
			require.NoError(t, err)

			req := mintRequest(t, treasury, tokens("1"))
			req.Targets = append(req.Targets, tokenAddr)
			req.Values = append(req.Values, nil)
			req.Signatures = append(req.Signatures, "pause()")
			req.Calldatas = append(req.Calldatas, nil)

			id, err := gov.Propose(ctx, proposer, req)
			require.NoError(t, err)
			require.NoError(t, gov.CastVote(ctx, proposer, id, tokens("40000000"), true))
			clock.Mine(11)

			dispatcher.EXPECT().Dispatch(mock.Anything, mock.Anything).Return(types.TransactionResult{Hash: "0x01"}, nil).Once()
			dispatcher.EXPECT().Dispatch(mock.Anything, mock.Anything).Return(types.TransactionResult{Hash: "0x02"}, tt.secondErr).Once()

			failing.Store(tt.failCommit)
			_, err = gov.Execute(ctx, id)
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
			failing.Store(false)

			p, err := gov.Proposal(ctx, id)
			require.NoError(t, err)
			assert.False(t, p.Executed)

			entries := logs.FilterMessageSnippet(tt.wantLog).All()
			require.Len(t, entries, 1)
			assert.Equal(t, zap.ErrorLevel, entries[0].Level)
		})
	}
}
