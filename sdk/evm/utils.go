package evm

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	chainsel "github.com/smartcontractkit/chain-selectors"

	sdkerrors "github.com/demole/governor/sdk/errors"
)

// SimulatedEVMChainID is the chain ID used for simulated chains.
const SimulatedEVMChainID = 1337

type ContractDeployBackend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// VerifyChain checks that client is connected to the EVM chain identified by the chain
// selector.
func VerifyChain(ctx context.Context, client ChainIDReader, selector uint64) error {
	chain, exists := chainsel.ChainBySelector(selector)
	if !exists {
		return errors.New("chain not found")
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return err
	}

	if !chainID.IsUint64() || chainID.Uint64() != chain.EvmChainID {
		return sdkerrors.NewInvalidChainIDError(chainID.Uint64(), chain.EvmChainID)
	}

	return nil
}
