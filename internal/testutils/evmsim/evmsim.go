// package evmsim implements a simulated EVM chain for testing purposes.
package evmsim

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethTypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/stretchr/testify/require"
)

const (
	// DefaultGasLimit is the default gas limit for each transaction in the simulated chain
	DefaultGasLimit = uint64(8000000)

	// DefaultBalance is the default balance for each account in the simulated chain
	DefaultBalance = 1e18

	// SimulatedChainID is the chain ID used for the simulated chain. EVM Simulated chains always use 1337
	//
	// https://pkg.go.dev/github.com/ethereum/go-ethereum/ethclient/simulated#NewBackend
	SimulatedChainID = 1337
)

var (
	// recorderCode stores the first calldata word in slot 0 and the call value in slot 1.
	recorderCode = hexutil.MustDecode("0x600b600c600039600b6000f3" + "6000356000553460015500")

	// reverterCode reverts every call.
	reverterCode = hexutil.MustDecode("0x6005600c60003960056000f3" + "60006000fd")
)

// SimulatedChain represents a simulated chain with a backend and a list of signers.
type SimulatedChain struct {
	Backend *simulated.Backend
	Signers []*Signer
}

// Signer represents a signer with a private key.
type Signer struct {
	PrivateKey *ecdsa.PrivateKey
}

// NewTransactOpts creates a new transact options with the signer's private key and sets default
// values.
func (s *Signer) NewTransactOpts(t *testing.T) *bind.TransactOpts {
	t.Helper()

	auth, err := bind.NewKeyedTransactorWithChainID(s.PrivateKey, big.NewInt(SimulatedChainID))
	require.NoError(t, err)

	// Set default values
	auth.GasLimit = DefaultGasLimit

	return auth
}

// Address extracts the address from the signer's private key.
func (s *Signer) Address(t *testing.T) common.Address {
	t.Helper()

	publicKeyECDSA, ok := s.PrivateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		t.Fatal("error casting public key from crypto to ecdsa")
	}

	return crypto.PubkeyToAddress(*publicKeyECDSA)
}

// NewSimulatedChain creates a new simulated chain with the given number of signers. The
// backend is closed when the test ends.
func NewSimulatedChain(t *testing.T, numSigners uint64) SimulatedChain {
	t.Helper()

	signers := make([]*Signer, 0, numSigners)
	for range numSigners {
		key, err := crypto.GenerateKey()
		require.NoError(t, err)

		signers = append(signers, &Signer{PrivateKey: key})
	}

	genesisAlloc := gethTypes.GenesisAlloc{}
	for _, s := range signers {
		genesisAlloc[s.Address(t)] = gethTypes.Account{
			Balance: big.NewInt(DefaultBalance),
		}
	}

	sim := simulated.NewBackend(genesisAlloc,
		simulated.WithBlockGasLimit(DefaultGasLimit),
	)
	t.Cleanup(func() {
		require.NoError(t, sim.Close())
	})

	return SimulatedChain{
		Backend: sim,
		Signers: signers,
	}
}

// CommitAndWait returns a confirmer that mines a block and reads the receipt of tx.
func (s *SimulatedChain) CommitAndWait() func(ctx context.Context, tx *gethTypes.Transaction) (*gethTypes.Receipt, error) {
	return func(ctx context.Context, tx *gethTypes.Transaction) (*gethTypes.Receipt, error) {
		s.Backend.Commit()

		return bind.WaitMined(ctx, s.Backend.Client(), tx)
	}
}

// DeployRecorder deploys a contract that records the first word of its calldata and the
// value of its last call.
func (s *SimulatedChain) DeployRecorder(t *testing.T, signer *Signer) common.Address {
	t.Helper()

	return s.deploy(t, signer, recorderCode)
}

// DeployReverter deploys a contract that reverts every call.
func (s *SimulatedChain) DeployReverter(t *testing.T, signer *Signer) common.Address {
	t.Helper()

	return s.deploy(t, signer, reverterCode)
}

func (s *SimulatedChain) deploy(t *testing.T, signer *Signer, code []byte) common.Address {
	t.Helper()

	addr, _, _, err := bind.DeployContract(signer.NewTransactOpts(t), abi.ABI{}, code, s.Backend.Client())
	require.NoError(t, err)

	// Mine a block
	s.Backend.Commit()

	return addr
}
