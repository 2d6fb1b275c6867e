package contracts_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/vm"
)

var attackerAddr = common.HexToAddress("0x000000000000000000000000000000000000a77a")

// reentrant calls back into trust whenever the trust calls it.
type reentrant struct {
	trust     common.Address
	input     []byte
	propagate bool

	calls int
	err   error
}

func (r *reentrant) CodeHash() common.Hash {
	return crypto.Keccak256Hash([]byte("test/reentrant"))
}

func (r *reentrant) Run(evm *vm.EVM, frame *vm.Frame) ([]byte, error) {
	if frame.Caller != r.trust {
		return nil, nil
	}
	r.calls++
	_, r.err = evm.Call(frame.Address, r.trust, r.input, nil)
	if r.propagate {
		return nil, r.err
	}
	return nil, nil
}

func TestReentrantExecute(t *testing.T) {
	t.Parallel()

	for _, propagate := range []bool{false, true} {
		ctx := context.Background()
		attacker := &reentrant{propagate: propagate}
		env := newTestEnv(t, map[common.Address]vm.Program{attackerAddr: attacker})
		trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
		env.advance(1000)

		input, err := contracts.AutemABI.Pack("execute", attackerAddr, common.Big0, []byte{})
		require.NoError(t, err)
		attacker.trust = trust.Address
		attacker.input = input

		prev, err := trust.LastPing(ctx)
		require.NoError(t, err)

		receipt, err := trust.Execute(ctx, ownerAddr, attackerAddr, nil, []byte{0x01})
		assert.Equal(t, 1, attacker.calls)
		require.ErrorIs(t, attacker.err, contracts.ErrUnauthorized)

		lastPing, perr := trust.LastPing(ctx)
		require.NoError(t, perr)
		if propagate {
			require.ErrorIs(t, err, contracts.ErrUnauthorized)
			assert.Equal(t, prev, lastPing)
			assert.Empty(t, receipt.Logs)
		} else {
			require.NoError(t, err)
			assert.Equal(t, receipt.BlockTime, lastPing)
			assert.Len(t, receipt.Logs, 2)
		}
	}
}

// The ping is stored before the forwarded call, so a beneficiary reached by
// that call cannot use authority the caller's own activity just revoked.
func TestReentrantBeneficiaryIsLocked(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	attacker := &reentrant{}
	env := newTestEnv(t, map[common.Address]vm.Program{attackerAddr: attacker})
	trust := env.createTrust(t, ownerAddr, attackerAddr, window, "")
	env.advance(2 * 86400)

	input, err := contracts.AutemABI.Pack("setOwner", attackerAddr)
	require.NoError(t, err)
	attacker.trust = trust.Address
	attacker.input = input

	receipt, err := trust.Execute(ctx, ownerAddr, attackerAddr, nil, []byte{0x01})
	require.NoError(t, err)
	assert.Equal(t, 1, attacker.calls)
	assert.ErrorIs(t, attacker.err, contracts.ErrStillLocked)

	info, err := trust.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, info.Owner)
	assert.Equal(t, receipt.BlockTime, info.LastPing)
}
