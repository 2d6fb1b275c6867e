package params

import "github.com/ethereum/go-ethereum/common"

var (
	// DefaultFactoryAddress is where the factory of a devnet is placed at genesis.
	DefaultFactoryAddress = common.HexToAddress("0xB7e495092749dE8D30CA30B91e437E15e399Ef69")

	// DefaultChainID identifies devnets started without a configured chain id.
	DefaultChainID uint64 = 1337
)
