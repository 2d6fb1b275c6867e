package contracts_test

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/types"
	"github.com/zircuit-labs/autem/core/vm"
)

func TestCreateTrust(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	params := derive.Params{Owner: ownerAddr, Beneficiary: beneficiaryAddr, Window: window, Metadata: `["Savings"]`}

	predicted, err := env.deriver.Address(params)
	require.NoError(t, err)
	assert.False(t, env.chain.HasCode(predicted))

	addr, receipt, err := env.factory.Create(ctx, externalAddr, params)
	require.NoError(t, err)
	assert.Equal(t, predicted, addr)
	assert.True(t, env.chain.HasCode(addr))

	trust := contracts.NewTrust(addr, env.chain)
	info, err := trust.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, info.Owner)
	assert.Equal(t, beneficiaryAddr, info.Beneficiary)
	assert.Equal(t, 0, window.Cmp(info.Window))
	assert.Equal(t, `["Savings"]`, info.Metadata)
	assert.Equal(t, receipt.BlockTime, info.LastPing)

	impl, err := trust.Implementation(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.chain.ImplementationAddress(), impl)

	factoryImpl, err := env.factory.Implementation(ctx)
	require.NoError(t, err)
	assert.Equal(t, env.chain.ImplementationAddress(), factoryImpl)

	ok, err := env.deriver.Verify(addr, params)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateEmitsCreated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")

	logs, err := env.chain.FilterLogs(context.Background(), types.FilterQuery{
		Addresses: []common.Address{env.factory.Address},
		Topics:    [][]common.Hash{{contracts.CreatedEventID}, nil, {common.BytesToHash(ownerAddr.Bytes())}},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, trust.Address, common.BytesToAddress(logs[0].Topics[1].Bytes()))
	assert.Equal(t, beneficiaryAddr, common.BytesToAddress(logs[0].Topics[3].Bytes()))
}

func TestCreateZeroOwner(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	params := derive.Params{Beneficiary: beneficiaryAddr, Window: window}
	predicted, err := env.deriver.Address(params)
	require.NoError(t, err)

	_, receipt, err := env.factory.Create(context.Background(), externalAddr, params)
	require.ErrorIs(t, err, contracts.ErrInvalidOwner)
	require.NotNil(t, receipt)
	assert.False(t, receipt.Succeeded())
	assert.Empty(t, receipt.Logs)
	assert.Contains(t, err.Error(), contracts.ReasonInvalidOwner)
	assert.False(t, env.chain.HasCode(predicted))
}

func TestCreateDuplicate(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, nil)
	env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")

	_, _, err := env.factory.Create(context.Background(), externalAddr, derive.Params{
		Owner: ownerAddr, Beneficiary: beneficiaryAddr, Window: window,
	})
	assert.ErrorIs(t, err, vm.ErrContractAddressCollision)

	// Any difference in the parameters gives a new trust.
	env.createTrust(t, ownerAddr, beneficiaryAddr, window, "other")
}

func TestSetupIsOneShot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
	params := derive.Params{Owner: ownerAddr, Beneficiary: beneficiaryAddr, Window: big.NewInt(123)}

	_, err := trust.Setup(ctx, ownerAddr, params)
	require.ErrorIs(t, err, contracts.ErrAlreadyInitialized)
	reason, ok := contracts.Reason(err)
	assert.True(t, ok)
	assert.Equal(t, contracts.ReasonAlreadyInitialized, reason)

	impl := contracts.NewTrust(env.chain.ImplementationAddress(), env.chain)
	_, err = impl.Setup(ctx, ownerAddr, params)
	require.ErrorIs(t, err, contracts.ErrAlreadyInitialized)

	// The shared logic is initialized without an owner, so nobody controls it.
	implOwner, err := impl.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, common.Address{}, implOwner)
	_, err = impl.SetOwner(ctx, ownerAddr, ownerAddr)
	require.ErrorIs(t, err, contracts.ErrUnauthorized)

	got, err := trust.Window(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, window.Cmp(got))
}

// actors mirrors the three ways a caller can be authorized.
var actors = []struct {
	name    string
	signer  common.Address
	advance int64
}{
	{name: "owner", signer: ownerAddr},
	{name: "owner after window", signer: ownerAddr, advance: 86401},
	{name: "beneficiary after window", signer: beneficiaryAddr, advance: 86400 + 1000},
}

func TestAuthorizedWrites(t *testing.T) {
	t.Parallel()

	newOwner := common.HexToAddress("0x1234")
	newBeneficiary := common.HexToAddress("0x5678")
	metadata := "Did you ever hear the tragedy of Darth Plagueis the Wise? I thought not."

	writes := []struct {
		name  string
		write func(ctx context.Context, trust *contracts.Trust, from common.Address) error
		check func(t *testing.T, info *contracts.TrustInfo)
	}{
		{
			name: "setOwner",
			write: func(ctx context.Context, trust *contracts.Trust, from common.Address) error {
				_, err := trust.SetOwner(ctx, from, newOwner)
				return err
			},
			check: func(t *testing.T, info *contracts.TrustInfo) { assert.Equal(t, newOwner, info.Owner) },
		},
		{
			name: "setBeneficiary",
			write: func(ctx context.Context, trust *contracts.Trust, from common.Address) error {
				_, err := trust.SetBeneficiary(ctx, from, newBeneficiary)
				return err
			},
			check: func(t *testing.T, info *contracts.TrustInfo) { assert.Equal(t, newBeneficiary, info.Beneficiary) },
		},
		{
			name: "setWindow",
			write: func(ctx context.Context, trust *contracts.Trust, from common.Address) error {
				_, err := trust.SetWindow(ctx, from, big.NewInt(600))
				return err
			},
			check: func(t *testing.T, info *contracts.TrustInfo) { assert.Equal(t, int64(600), info.Window.Int64()) },
		},
		{
			name: "setMetadata",
			write: func(ctx context.Context, trust *contracts.Trust, from common.Address) error {
				_, err := trust.SetMetadata(ctx, from, metadata)
				return err
			},
			check: func(t *testing.T, info *contracts.TrustInfo) { assert.Equal(t, metadata, info.Metadata) },
		},
	}

	for _, a := range actors {
		t.Run(a.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			env := newTestEnv(t, nil)
			trusts := make([]*contracts.Trust, len(writes))
			for i, w := range writes {
				trusts[i] = env.createTrust(t, ownerAddr, beneficiaryAddr, window, w.name)
			}
			env.advance(a.advance)

			for i, w := range writes {
				require.NoError(t, w.write(ctx, trusts[i], a.signer), w.name)
				info, err := trusts[i].Info(ctx)
				require.NoError(t, err)
				w.check(t, info)
			}
		})
	}
}

func TestSetOwnerZero(t *testing.T) {
	t.Parallel()

	for _, a := range actors {
		t.Run(a.name, func(t *testing.T) {
			t.Parallel()

			env := newTestEnv(t, nil)
			trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
			env.advance(a.advance)

			_, err := trust.SetOwner(context.Background(), a.signer, common.Address{})
			assert.ErrorIs(t, err, contracts.ErrInvalidOwner)
		})
	}
}

func TestUnauthorizedWrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")

	tests := []struct {
		name    string
		signer  common.Address
		advance int64
		wantErr error
	}{
		{name: "impostor", signer: impostorAddr, wantErr: contracts.ErrUnauthorized},
		{name: "beneficiary before window", signer: beneficiaryAddr, wantErr: contracts.ErrStillLocked},
		{name: "beneficiary one second early", signer: beneficiaryAddr, advance: 86398, wantErr: contracts.ErrStillLocked},
		{name: "impostor after window", signer: impostorAddr, advance: 86400, wantErr: contracts.ErrUnauthorized},
	}
	for _, tt := range tests {
		env.advance(tt.advance)

		_, err := trust.SetOwner(ctx, tt.signer, tt.signer)
		assert.ErrorIs(t, err, tt.wantErr, tt.name)
		_, err = trust.Execute(ctx, tt.signer, tt.signer, nil, nil)
		assert.ErrorIs(t, err, tt.wantErr, tt.name)
	}

	owner, err := trust.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, ownerAddr, owner)
}

func TestBeneficiaryTakesOverAfterWindow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
	newOwner := common.HexToAddress("0xbeef")

	_, err := trust.SetOwner(ctx, beneficiaryAddr, newOwner)
	require.ErrorIs(t, err, contracts.ErrStillLocked)
	assert.Contains(t, err.Error(), contracts.ReasonStillLocked)

	env.advance(86401)
	_, err = trust.SetOwner(ctx, beneficiaryAddr, newOwner)
	require.NoError(t, err)

	owner, err := trust.Owner(ctx)
	require.NoError(t, err)
	assert.Equal(t, newOwner, owner)
}

func TestOwnerPingRelocks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")

	env.advance(86000)
	_, err := trust.Ping(ctx, ownerAddr)
	require.NoError(t, err)

	env.advance(1000)
	_, err = trust.SetOwner(ctx, beneficiaryAddr, beneficiaryAddr)
	assert.ErrorIs(t, err, contracts.ErrStillLocked)
}

func TestPingOnCall(t *testing.T) {
	t.Parallel()

	for _, a := range actors {
		t.Run(a.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			env := newTestEnv(t, nil)
			trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
			env.advance(a.advance)
			recipient := common.HexToAddress("0xfeed")

			prev, err := trust.LastPing(ctx)
			require.NoError(t, err)

			receipt, err := trust.Execute(ctx, a.signer, recipient, nil, nil)
			require.NoError(t, err)
			lastPing, err := trust.LastPing(ctx)
			require.NoError(t, err)

			if a.signer != beneficiaryAddr {
				assert.Equal(t, receipt.BlockTime, lastPing)
				assert.NotEqual(t, prev, lastPing)
				require.Len(t, receipt.Logs, 2)
				assert.Equal(t, contracts.PingEventID, receipt.Logs[0].Topics[0])
				assert.Equal(t, contracts.ExecuteEventID, receipt.Logs[1].Topics[0])
			} else {
				assert.Equal(t, prev, lastPing)
				require.Len(t, receipt.Logs, 1)
				assert.Equal(t, contracts.ExecuteEventID, receipt.Logs[0].Topics[0])
			}
		})
	}
}

func TestPingOnSelfCall(t *testing.T) {
	t.Parallel()

	for _, a := range actors {
		t.Run(a.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			env := newTestEnv(t, nil)
			trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
			env.advance(a.advance)

			prev, err := trust.LastPing(ctx)
			require.NoError(t, err)

			receipt, err := trust.Ping(ctx, a.signer)
			require.NoError(t, err)
			lastPing, err := trust.LastPing(ctx)
			require.NoError(t, err)

			if a.signer != beneficiaryAddr {
				assert.Equal(t, receipt.BlockTime, lastPing)
				assert.NotEqual(t, prev, lastPing)
				assert.Len(t, receipt.Logs, 1)
			} else {
				assert.Equal(t, prev, lastPing)
				assert.Empty(t, receipt.Logs)
			}
		})
	}
}

func TestDeposits(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
	prev, err := trust.LastPing(ctx)
	require.NoError(t, err)
	env.advance(100)

	receipt, err := trust.Deposit(ctx, externalAddr, ether)
	require.NoError(t, err)
	assert.Empty(t, receipt.Logs)
	assert.Equal(t, ether, env.chain.BalanceAt(trust.Address))

	// Unknown calldata, with and without value, is accepted as a deposit.
	junk := []byte(strings.Repeat("\x42", 96))
	_, err = env.chain.SendTransaction(ctx, types.NewTransaction(externalAddr, trust.Address, ether, junk))
	require.NoError(t, err)
	_, err = env.chain.SendTransaction(ctx, types.NewTransaction(externalAddr, trust.Address, nil, junk))
	require.NoError(t, err)

	// Deposits by the owner do not ping either.
	_, err = trust.Deposit(ctx, ownerAddr, ether)
	require.NoError(t, err)

	assert.Equal(t, new(uint256.Int).Mul(ether, uint256.NewInt(3)), env.chain.BalanceAt(trust.Address))
	lastPing, err := trust.LastPing(ctx)
	require.NoError(t, err)
	assert.Equal(t, prev, lastPing)
}

func TestNonPayableSetterRejectsValue(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")

	input, err := contracts.AutemABI.Pack("setWindow", big.NewInt(1))
	require.NoError(t, err)
	_, err = env.chain.SendTransaction(ctx, types.NewTransaction(ownerAddr, trust.Address, ether, input))
	assert.ErrorIs(t, err, vm.ErrExecutionReverted)
	assert.True(t, env.chain.BalanceAt(trust.Address).IsZero())
}

func TestWindowOutsideUint96Reverts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
	huge := new(big.Int).Lsh(big.NewInt(1), 200)

	input := append(append([]byte{}, contracts.AutemABI.Methods["setWindow"].ID...), common.BigToHash(huge).Bytes()...)
	_, err := env.chain.SendTransaction(ctx, types.NewTransaction(ownerAddr, trust.Address, new(uint256.Int), input))
	assert.ErrorIs(t, err, vm.ErrExecutionReverted)

	got, err := trust.Window(ctx)
	require.NoError(t, err)
	assert.Zero(t, window.Cmp(got))

	// The largest uint96 is still accepted.
	_, err = trust.SetWindow(ctx, ownerAddr, derive.MaxWindow)
	require.NoError(t, err)
	got, err = trust.Window(ctx)
	require.NoError(t, err)
	assert.Zero(t, derive.MaxWindow.Cmp(got))

	// Same bound on creation.
	input, err = contracts.FactoryABI.Pack("create", ownerAddr, beneficiaryAddr, big.NewInt(1), "")
	require.NoError(t, err)
	copy(input[4+64:4+96], common.BigToHash(huge).Bytes())
	_, err = env.chain.SendTransaction(ctx, types.NewTransaction(ownerAddr, env.chain.FactoryAddress(), new(uint256.Int), input))
	assert.ErrorIs(t, err, vm.ErrExecutionReverted)
}

func TestExecuteMovesFunds(t *testing.T) {
	t.Parallel()

	for _, a := range actors {
		t.Run(a.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			env := newTestEnv(t, nil)
			trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
			env.advance(a.advance)
			_, err := trust.Deposit(ctx, externalAddr, ether)
			require.NoError(t, err)

			quarter := new(uint256.Int).Div(ether, uint256.NewInt(4))
			payloads := map[common.Address][]byte{
				common.HexToAddress("0xee01"): nil,
				common.HexToAddress("0xee02"): []byte(strings.Repeat("\x01", 96)),
			}
			for recipient, data := range payloads {
				_, err = trust.Execute(ctx, a.signer, recipient, quarter, data)
				require.NoError(t, err)
				assert.Equal(t, quarter, env.chain.BalanceAt(recipient))
			}
			assert.Equal(t, new(uint256.Int).Div(ether, uint256.NewInt(2)), env.chain.BalanceAt(trust.Address))
		})
	}
}

func TestExecuteOverdraftReverts(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
	prev, err := trust.LastPing(ctx)
	require.NoError(t, err)

	receipt, err := trust.Execute(ctx, ownerAddr, externalAddr, ether, nil)
	require.ErrorIs(t, err, vm.ErrInsufficientBalance)
	assert.False(t, receipt.Succeeded())
	assert.Empty(t, receipt.Logs)

	// The ping was rolled back with the rest of the transaction.
	lastPing, err := trust.LastPing(ctx)
	require.NoError(t, err)
	assert.Equal(t, prev, lastPing)
}

func TestExecuteCallsContract(t *testing.T) {
	t.Parallel()

	for _, a := range actors {
		t.Run(a.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			env := newTestEnv(t, nil)
			trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
			alt := env.createTrust(t, trust.Address, common.Address{}, window, "")
			env.advance(a.advance)

			newOwner := common.HexToAddress("0xc0ffee")
			input, err := contracts.AutemABI.Pack("setOwner", newOwner)
			require.NoError(t, err)
			_, err = trust.Execute(ctx, a.signer, alt.Address, nil, input)
			require.NoError(t, err)

			owner, err := alt.Owner(ctx)
			require.NoError(t, err)
			assert.Equal(t, newOwner, owner)
		})
	}
}

func TestExecuteBubblesRevert(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")
	alt := env.createTrust(t, ownerAddr, common.Address{}, window, "")

	input, err := contracts.AutemABI.Pack("setOwner", trust.Address)
	require.NoError(t, err)
	receipt, err := trust.Execute(ctx, ownerAddr, alt.Address, nil, input)
	require.ErrorIs(t, err, contracts.ErrUnauthorized)
	assert.Equal(t, contracts.EncodeReason(contracts.ReasonUnauthorized), []byte(receipt.RevertData))
}

func TestMetadataRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	env := newTestEnv(t, nil)
	trust := env.createTrust(t, ownerAddr, beneficiaryAddr, window, "")

	got, err := trust.Metadata(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	decoded, err := contracts.DecodeMetadata(got)
	require.NoError(t, err)
	assert.Equal(t, contracts.Metadata{}, decoded)

	values := []string{
		strings.Repeat("x", 31),
		strings.Repeat("long metadata ", 20),
		contracts.Metadata{Name: "Savings", Description: "For the kids"}.Encode(),
		strings.Repeat("y", 32),
		"",
	}
	for _, m := range values {
		_, err := trust.SetMetadata(ctx, ownerAddr, m)
		require.NoError(t, err)
		got, err := trust.Metadata(ctx)
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
}
