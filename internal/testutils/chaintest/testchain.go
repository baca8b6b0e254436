package chaintest

import (
	cselectors "github.com/smartcontractkit/chain-selectors"
)

var (
	SimulatedSelector = cselectors.GETH_TESTNET.Selector   // 3379446385462418246
	SimulatedEVMID    = cselectors.GETH_TESTNET.EvmChainID // 1337

	SepoliaSelector = cselectors.ETHEREUM_TESTNET_SEPOLIA.Selector   // 16015286601757825753
	SepoliaEVMID    = cselectors.ETHEREUM_TESTNET_SEPOLIA.EvmChainID // 11155111

	// InvalidSelector is a chain selector that doesn't exist.
	InvalidSelector uint64
)
