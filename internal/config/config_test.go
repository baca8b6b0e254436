package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demole/governor"
	"github.com/demole/governor/internal/testutils/chaintest"
	"github.com/demole/governor/store"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "governor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestDefaultParamsRoundTrip(t *testing.T) {
	t.Parallel()

	params, err := Default().Params()
	require.NoError(t, err)

	want := governor.DefaultParams()
	assert.Equal(t, 0, want.ProposalThreshold.Cmp(params.ProposalThreshold))
	assert.Equal(t, 0, want.QuorumVotes.Cmp(params.QuorumVotes))
	assert.Equal(t, 0, want.MinVoteAmount.Cmp(params.MinVoteAmount))
	assert.Equal(t, want.MinVotingPeriod, params.MinVotingPeriod)
	assert.Equal(t, want.MajorityBps, params.MajorityBps)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: badger
  dataDir: /var/lib/governor
chain:
  chainSelector: 16015286601757825753
  tokenAddress: "0x00000000000000000000000000000000000070c3"
  txTimeout: 30s
governance:
  proposalThreshold: "100"
  quorumVotes: "400.5"
  minVoteAmount: "1"
  decimals: 6
  maxVotingPeriod: 1000
  proposerOnlyCancel: true
events:
  natsUrl: nats://127.0.0.1:4222
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, store.BackendBadger, cfg.Store.Backend)
	assert.Equal(t, "/var/lib/governor", cfg.Store.DataDir)
	assert.Equal(t, chaintest.SepoliaSelector, cfg.Chain.ChainSelector)
	assert.Equal(t, 30*time.Second, cfg.Chain.TxTimeout)
	assert.Equal(t, DefaultPrivateKeyEnv, cfg.Chain.PrivateKeyEnv)
	assert.Equal(t, "nats://127.0.0.1:4222", cfg.Events.NATSURL)
	assert.Equal(t, "governor.events", cfg.Events.SubjectPrefix)

	token, err := cfg.Token()
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x70c3"), token)

	params, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(100_000_000), params.ProposalThreshold)
	assert.Equal(t, big.NewInt(400_500_000), params.QuorumVotes)
	assert.Equal(t, big.NewInt(1_000_000), params.MinVoteAmount)
	assert.Equal(t, uint64(1000), params.MaxVotingPeriod)
	assert.Equal(t, governor.DefaultMinVotingPeriod, params.MinVotingPeriod)
	assert.True(t, params.ProposerOnlyCancel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "store:\n  backend: badger\n")

	t.Setenv("GOVERNOR_STORE_BACKEND", "memory")
	t.Setenv("GOVERNOR_CHAIN_RPC_URL", "http://node:8545")
	t.Setenv("GOVERNOR_GOVERNANCE_QUORUM_VOTES", "1000")
	t.Setenv("GOVERNOR_METRICS_LISTEN_ADDRESS", ":9102")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, store.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, "http://node:8545", cfg.Chain.RPCURL)
	assert.Equal(t, "1000", cfg.Governance.QuorumVotes)
	assert.Equal(t, ":9102", cfg.Metrics.ListenAddress)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "unknown backend",
			body:    "store:\n  backend: postgres\n",
			wantErr: "Key: 'Config.Store.Backend' Error:Field validation for 'Backend' failed on the 'oneof' tag",
		},
		{
			name:    "bad log level",
			body:    "log:\n  level: verbose\n",
			wantErr: "Key: 'Config.Log.Level' Error:Field validation for 'Level' failed on the 'oneof' tag",
		},
		{
			name:    "bad token address",
			body:    "chain:\n  tokenAddress: nope\n",
			wantErr: "Key: 'Config.Chain.TokenAddress' Error:Field validation for 'TokenAddress' failed on the 'eth_addr' tag",
		},
		{
			name:    "unparsable amount",
			body:    "governance:\n  quorumVotes: lots\n",
			wantErr: "governance: invalid token amount: \"lots\"",
		},
		{
			name:    "zero quorum",
			body:    "governance:\n  quorumVotes: \"0\"\n",
			wantErr: "invalid governance params: quorum must be positive",
		},
		{
			name:    "malformed yaml",
			body:    "store: [",
			wantErr: "error parsing config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(writeConfig(t, tt.body))
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPrivateKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	cfg := Default()
	cfg.Chain.PrivateKeyEnv = "GOVERNOR_TEST_PRIVATE_KEY"

	_, err = cfg.LoadPrivateKey()
	require.EqualError(t, err, "GOVERNOR_TEST_PRIVATE_KEY not found in environment or .env file")

	t.Setenv("GOVERNOR_TEST_PRIVATE_KEY", common.Bytes2Hex(crypto.FromECDSA(key)))
	got, err := cfg.LoadPrivateKey()
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(got.PublicKey))

	t.Setenv("GOVERNOR_TEST_PRIVATE_KEY", "zz")
	_, err = cfg.LoadPrivateKey()
	require.ErrorContains(t, err, "invalid private key in GOVERNOR_TEST_PRIVATE_KEY")
}
