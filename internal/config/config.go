// Package config loads governor settings from defaults, a YAML file and the environment.
package config

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/demole/governor"
	"github.com/demole/governor/store"
	"github.com/demole/governor/types"
)

// EnvPrefix prefixes every environment override, e.g. GOVERNOR_STORE_BACKEND.
const EnvPrefix = "governor"

const (
	DefaultPrivateKeyEnv = "GOVERNOR_PRIVATE_KEY"
	DefaultTxTimeout     = 2 * time.Minute
)

type Config struct {
	Store      StoreConfig      `yaml:"store"`
	Chain      ChainConfig      `yaml:"chain"`
	Governance GovernanceConfig `yaml:"governance"`
	Events     EventsConfig     `yaml:"events"`
	Log        LogConfig        `yaml:"log"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

type StoreConfig struct {
	Backend store.Backend `yaml:"backend" validate:"oneof=memory sqlite badger"`
	// DataDir is where persistent backends keep their files. Empty keeps state in memory.
	DataDir string `yaml:"dataDir" split_words:"true"`
}

type ChainConfig struct {
	RPCURL        string        `yaml:"rpcUrl"        envconfig:"RPC_URL"`
	ChainSelector uint64        `yaml:"chainSelector" split_words:"true"`
	TokenAddress  string        `yaml:"tokenAddress"  split_words:"true" validate:"omitempty,eth_addr"`
	PrivateKeyEnv string        `yaml:"privateKeyEnv" split_words:"true" validate:"required"`
	TxTimeout     time.Duration `yaml:"txTimeout"     split_words:"true" validate:"gt=0"`
}

// GovernanceConfig holds Params with amounts written as decimal token strings.
type GovernanceConfig struct {
	ProposalThreshold  string `yaml:"proposalThreshold"  split_words:"true" validate:"required"`
	QuorumVotes        string `yaml:"quorumVotes"        split_words:"true" validate:"required"`
	MinVoteAmount      string `yaml:"minVoteAmount"      split_words:"true" validate:"required"`
	Decimals           uint8  `yaml:"decimals"`
	MinVotingPeriod    uint64 `yaml:"minVotingPeriod"    split_words:"true"`
	MaxVotingPeriod    uint64 `yaml:"maxVotingPeriod"    split_words:"true"`
	MajorityBps        uint16 `yaml:"majorityBps"        split_words:"true"`
	MaxOperations      int    `yaml:"maxOperations"      split_words:"true"`
	ProposerOnlyCancel bool   `yaml:"proposerOnlyCancel" split_words:"true"`
}

type EventsConfig struct {
	// NATSURL enables event publishing when set.
	NATSURL       string `yaml:"natsUrl"       envconfig:"NATS_URL"`
	SubjectPrefix string `yaml:"subjectPrefix" split_words:"true"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

type MetricsConfig struct {
	// ListenAddress serves /metrics when set.
	ListenAddress string `yaml:"listenAddress" split_words:"true"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	params := governor.DefaultParams()

	return &Config{
		Store: StoreConfig{Backend: store.BackendSqlite, DataDir: ".governor"},
		Chain: ChainConfig{
			RPCURL:        "http://127.0.0.1:8545",
			PrivateKeyEnv: DefaultPrivateKeyEnv,
			TxTimeout:     DefaultTxTimeout,
		},
		Governance: GovernanceConfig{
			ProposalThreshold: types.FormatTokenAmount(params.ProposalThreshold, params.Decimals),
			QuorumVotes:       types.FormatTokenAmount(params.QuorumVotes, params.Decimals),
			MinVoteAmount:     "0x" + params.MinVoteAmount.Text(16),
			Decimals:          params.Decimals,
			MinVotingPeriod:   params.MinVotingPeriod,
			MajorityBps:       params.MajorityBps,
			MaxOperations:     params.MaxOperations,
		},
		Events: EventsConfig{SubjectPrefix: "governor.events"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load applies the YAML file at path, when given, and then environment overrides on top of
// the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks field formats and that the governance section converts to valid Params.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return err
	}

	_, err := c.Params()

	return err
}

// Params converts the governance section.
func (c *Config) Params() (governor.Params, error) {
	g := c.Governance
	amounts := make([]*big.Int, 3)
	for i, s := range []string{g.ProposalThreshold, g.QuorumVotes, g.MinVoteAmount} {
		v, err := types.ParseTokenAmount(s, g.Decimals)
		if err != nil {
			return governor.Params{}, fmt.Errorf("governance: %w", err)
		}
		amounts[i] = v
	}

	params := governor.Params{
		ProposalThreshold:  amounts[0],
		QuorumVotes:        amounts[1],
		MinVoteAmount:      amounts[2],
		MinVotingPeriod:    g.MinVotingPeriod,
		MaxVotingPeriod:    g.MaxVotingPeriod,
		MajorityBps:        g.MajorityBps,
		MaxOperations:      g.MaxOperations,
		Decimals:           g.Decimals,
		ProposerOnlyCancel: g.ProposerOnlyCancel,
	}
	if err := params.Validate(); err != nil {
		return governor.Params{}, err
	}

	return params, nil
}

// Token returns the configured governance token address.
func (c *Config) Token() (common.Address, error) {
	if !common.IsHexAddress(c.Chain.TokenAddress) {
		return common.Address{}, errors.New("chain.tokenAddress is not set")
	}

	return common.HexToAddress(c.Chain.TokenAddress), nil
}

// LoadPrivateKey reads the hex private key from the variable named by chain.privateKeyEnv,
// loading a .env file from the working directory first if one exists.
func (c *Config) LoadPrivateKey() (*ecdsa.PrivateKey, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	pk := os.Getenv(c.Chain.PrivateKeyEnv)
	if pk == "" {
		return nil, fmt.Errorf("%s not found in environment or .env file", c.Chain.PrivateKeyEnv)
	}

	key, err := crypto.HexToECDSA(pk)
	if err != nil {
		return nil, fmt.Errorf("invalid private key in %s: %w", c.Chain.PrivateKeyEnv, err)
	}

	return key, nil
}
