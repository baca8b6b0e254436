package governor

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/demole/governor/sdk"
	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

// Governor runs the proposal lifecycle: token holders lock tokens to propose and to vote,
// proposals that reach quorum and majority are executed, and locked tokens are returned once
// voting is over.
//
// All mutating methods are serialized: at most one of Propose, CastVote, Execute, Cancel
// and UnlockToken runs at a time, and each either commits all of its effects or none.
type Governor struct {
	mu sync.Mutex

	store      store.Store
	ledger     sdk.TokenLedger
	clock      sdk.BlockClock
	dispatcher sdk.Dispatcher
	params     Params
	locks      *lockLedger

	logger    sdk.Logger
	publisher sdk.EventPublisher
	registry  prometheus.Registerer
	metrics   *governorMetrics
}

type Option func(*Governor)

// WithLogger sets the logger used for every operation. Without it the logger is taken from
// the operation's context.
func WithLogger(logger sdk.Logger) Option {
	return func(g *Governor) {
		g.logger = logger
	}
}

// WithEventPublisher publishes every committed transition. Publish failures are logged and
// never fail the operation.
func WithEventPublisher(publisher sdk.EventPublisher) Option {
	return func(g *Governor) {
		g.publisher = publisher
	}
}

// WithMetrics registers the governor metrics on registry.
func WithMetrics(registry prometheus.Registerer) Option {
	return func(g *Governor) {
		g.registry = registry
	}
}

// New returns a governor over the given state store, token ledger, block clock and call
// dispatcher.
func New(
	st store.Store, ledger sdk.TokenLedger, clock sdk.BlockClock, dispatcher sdk.Dispatcher, params Params, opts ...Option,
) (*Governor, error) {
	if st == nil || ledger == nil || clock == nil || dispatcher == nil {
		return nil, errors.New("governor requires a store, a token ledger, a block clock and a dispatcher")
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}

	g := &Governor{
		store:      st,
		ledger:     ledger,
		clock:      clock,
		dispatcher: dispatcher,
		params:     params.clone(),
		locks:      newLockLedger(st, ledger),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.metrics = newGovernorMetrics(g.registry)

	return g, nil
}

// Params returns a copy of the governance rules.
func (g *Governor) Params() Params {
	return g.params.clone()
}

// ProposalThreshold returns the amount locked from a proposer for each proposal.
func (g *Governor) ProposalThreshold() *big.Int {
	return new(big.Int).Set(g.params.ProposalThreshold)
}

// QuorumVotes returns the vote weight a proposal needs to be eligible to pass.
func (g *Governor) QuorumVotes() *big.Int {
	return new(big.Int).Set(g.params.QuorumVotes)
}

// Custody returns the account holding locked tokens.
func (g *Governor) Custody() common.Address {
	return g.ledger.Custody()
}

// Proposal returns a snapshot of the proposal.
func (g *Governor) Proposal(ctx context.Context, id uint64) (*types.Proposal, error) {
	var out *types.Proposal
	err := g.store.View(ctx, func(tx store.Tx) error {
		p, err := getProposal(tx, id)
		out = p

		return err
	})

	return out, err
}

// State returns the lifecycle state of the proposal at the current block height.
func (g *Governor) State(ctx context.Context, id uint64) (types.ProposalState, error) {
	p, err := g.Proposal(ctx, id)
	if err != nil {
		return 0, err
	}

	height, err := g.clock.CurrentHeight(ctx)
	if err != nil {
		return 0, err
	}

	return g.params.stateAt(p, height), nil
}

// Receipt returns the voter's receipt on the proposal. A voter that did not vote gets a
// receipt with HasVoted unset.
func (g *Governor) Receipt(ctx context.Context, id uint64, voter common.Address) (*types.Receipt, error) {
	out := &types.Receipt{Voter: voter, ProposalID: id, Votes: new(big.Int)}
	err := g.store.View(ctx, func(tx store.Tx) error {
		if _, err := getProposal(tx, id); err != nil {
			return err
		}

		r, err := tx.GetReceipt(voter, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		out = r

		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// LockedTokens returns what participant still has locked on the proposal.
func (g *Governor) LockedTokens(ctx context.Context, id uint64, participant common.Address) (*big.Int, error) {
	return g.locks.lockOf(ctx, participant, id)
}

// Locks returns every lock entry of the proposal, released ones included.
func (g *Governor) Locks(ctx context.Context, id uint64) ([]*types.Lock, error) {
	var out []*types.Lock
	err := g.store.View(ctx, func(tx store.Tx) error {
		if _, err := getProposal(tx, id); err != nil {
			return err
		}

		locks, err := tx.ListLocks(id)
		out = locks

		return err
	})

	return out, err
}

// TotalLocked returns the sum of all outstanding locks.
func (g *Governor) TotalLocked(ctx context.Context) (*big.Int, error) {
	var out *big.Int
	err := g.store.View(ctx, func(tx store.Tx) error {
		total, err := tx.TotalLocked()
		out = total

		return err
	})

	return out, err
}

// ProposalCount returns the number of proposals created so far.
func (g *Governor) ProposalCount(ctx context.Context) (uint64, error) {
	var out uint64
	err := g.store.View(ctx, func(tx store.Tx) error {
		count, err := tx.ProposalCount()
		out = count

		return err
	})

	return out, err
}

// SyncMetrics sets the locked tokens gauge from the store. Transitions made by this Governor
// keep it current; a long-running process sharing the store with others calls this instead.
func (g *Governor) SyncMetrics(ctx context.Context) error {
	total, err := g.TotalLocked(ctx)
	if err != nil {
		return err
	}
	g.metrics.setLocked(total)

	return nil
}

func getProposal(tx store.Tx, id uint64) (*types.Proposal, error) {
	p, err := tx.GetProposal(id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewProposalNotFoundError(id)
	}

	return p, err
}

// withLogger returns ctx carrying the governor's logger, if one was configured.
func (g *Governor) withLogger(ctx context.Context) context.Context {
	if g.logger == nil {
		return ctx
	}

	return sdk.WithLogger(ctx, g.logger)
}

// committed records a committed transition in metrics and publishes its event.
func (g *Governor) committed(ctx context.Context, event types.Event) {
	if total, err := g.TotalLocked(ctx); err == nil {
		g.metrics.setLocked(total)
	}

	if g.publisher == nil {
		return
	}

	if err := g.publisher.Publish(ctx, event); err != nil {
		sdk.LoggerFrom(ctx).Errorf("failed to publish %s event for proposal %d: %v", event.Kind, event.ProposalID, err)
	}
}

// rejected counts a failed operation and returns err unchanged.
func (g *Governor) rejected(ctx context.Context, op string, err error) error {
	g.metrics.rejected(op)
	sdk.LoggerFrom(ctx).Debugf("%s rejected: %v", op, err)

	return err
}
