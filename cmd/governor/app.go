package governor

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	chainsel "github.com/smartcontractkit/chain-selectors"
	"go.uber.org/zap"

	"github.com/demole/governor"
	"github.com/demole/governor/internal/config"
	"github.com/demole/governor/internal/events"
	"github.com/demole/governor/sdk/evm"
	"github.com/demole/governor/store"

	// Store backends register themselves with store.Open.
	_ "github.com/demole/governor/store/badger"
	_ "github.com/demole/governor/store/memory"
	_ "github.com/demole/governor/store/sqlite"
)

// app is a Governor wired to the configured chain, store and event bus.
type app struct {
	cfg      *config.Config
	gov      *governor.Governor
	operator common.Address
	registry *prometheus.Registry
	logger   *zap.Logger

	client *ethclient.Client
	store  store.Store
	conn   *nats.Conn
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl

	return zcfg.Build()
}

func openApp(ctx context.Context, opts *options) (_ *app, err error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}

	token, err := cfg.Token()
	if err != nil {
		return nil, err
	}

	chain, exists := chainsel.ChainBySelector(cfg.Chain.ChainSelector)
	if !exists {
		return nil, errors.New("chain not found")
	}

	pk, err := cfg.LoadPrivateKey()
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(pk, new(big.Int).SetUint64(chain.EvmChainID))
	if err != nil {
		return nil, err
	}
	a.operator = auth.From

	a.client, err = ethclient.DialContext(ctx, cfg.Chain.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", cfg.Chain.RPCURL, err)
	}
	if err = evm.VerifyChain(ctx, a.client, cfg.Chain.ChainSelector); err != nil {
		return nil, err
	}

	a.store, err = store.Open(cfg.Store.Backend, cfg.Store.DataDir)
	if err != nil {
		return nil, err
	}

	govOpts := []governor.Option{
		governor.WithLogger(logger.Sugar()),
		governor.WithMetrics(a.registry),
	}
	if cfg.Events.NATSURL != "" {
		var pub *events.NATSPublisher
		pub, a.conn, err = events.Connect(cfg.Events.NATSURL, cfg.Events.SubjectPrefix, nats.Name("governor"))
		if err != nil {
			return nil, err
		}
		govOpts = append(govOpts, governor.WithEventPublisher(pub))
	}

	txTimeout := evm.WithTxTimeout(cfg.Chain.TxTimeout)
	a.gov, err = governor.New(
		a.store,
		evm.NewTokenLedger(token, a.client, auth, txTimeout),
		evm.NewClock(a.client),
		evm.NewDispatcher(a.client, auth, txTimeout),
		params,
		govOpts...,
	)
	if err != nil {
		return nil, err
	}

	return a, nil
}

// participant resolves the --account flag. The address is taken as given: whoever holds the
// operator key may act for any account that approved custody.
func (a *app) participant(opts *options) (common.Address, error) {
	if opts.account == "" {
		return a.operator, nil
	}
	if !common.IsHexAddress(opts.account) {
		return common.Address{}, fmt.Errorf("invalid account address %q", opts.account)
	}

	return common.HexToAddress(opts.account), nil
}

func (a *app) Close() {
	if a.conn != nil {
		if err := a.conn.Drain(); err != nil {
			a.conn.Close()
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Sugar().Warnf("failed to close store: %v", err)
		}
	}
	if a.client != nil {
		a.client.Close()
	}
	_ = a.logger.Sync()
}

// withApp opens the app for the duration of run.
func withApp(ctx context.Context, opts *options, run func(a *app) error) error {
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(a)
}
