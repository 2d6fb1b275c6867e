package contracts_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core"
	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/vm"
)

var (
	ownerAddr       = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	beneficiaryAddr = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	impostorAddr    = common.HexToAddress("0x0000000000000000000000000000000000000bad")
	externalAddr    = common.HexToAddress("0x0000000000000000000000000000000000000e11")

	ether  = uint256.NewInt(1e18)
	window = big.NewInt(86400)
)

type testEnv struct {
	chain   *core.BlockChain
	clock   *clock.Mock
	factory *contracts.FactoryBinding
	deriver *derive.Deriver
}

func newTestEnv(t *testing.T, programs map[common.Address]vm.Program) *testEnv {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(time.Unix(1_700_000_000, 0))

	balance := new(uint256.Int).Mul(ether, uint256.NewInt(100))
	genesis := core.DeveloperGenesisBlock([]common.Address{ownerAddr, beneficiaryAddr, impostorAddr, externalAddr}, balance)
	genesis.Programs = programs

	chain, err := core.NewBlockChain(genesis, clk, log.NewLogger(log.DiscardHandler()))
	require.NoError(t, err)
	t.Cleanup(chain.Stop)

	return &testEnv{
		chain:   chain,
		clock:   clk,
		factory: contracts.NewFactoryBinding(chain.FactoryAddress(), chain),
		deriver: derive.NewDeriver(chain.FactoryAddress(), chain.ImplementationAddress()),
	}
}

func (e *testEnv) createTrust(t *testing.T, owner, beneficiary common.Address, window *big.Int, metadata string) *contracts.Trust {
	t.Helper()

	addr, receipt, err := e.factory.Create(context.Background(), externalAddr, derive.Params{
		Owner:       owner,
		Beneficiary: beneficiary,
		Window:      window,
		Metadata:    metadata,
	})
	require.NoError(t, err)
	require.True(t, receipt.Succeeded())
	return contracts.NewTrust(addr, e.chain)
}

func (e *testEnv) advance(seconds int64) {
	e.chain.AdvanceTime(time.Duration(seconds) * time.Second)
}
