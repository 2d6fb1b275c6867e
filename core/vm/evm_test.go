package vm

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/state"
)

var errBoom = errors.New("boom")

// storeProgram writes its input into slot 0 and fails when the input is "fail".
type storeProgram struct{}

func (storeProgram) CodeHash() common.Hash { return crypto.Keccak256Hash([]byte("store")) }

func (storeProgram) Run(evm *EVM, frame *Frame) ([]byte, error) {
	if err := frame.SetState(evm, common.Hash{}, common.BytesToHash(frame.Input)); err != nil {
		return nil, err
	}
	if string(frame.Input) == "fail" {
		return []byte("reason"), NewRevertError([]byte("reason"), errBoom)
	}
	return frame.Caller.Bytes(), nil
}

// delegator forwards everything to the program stored at target.
type delegator struct {
	target common.Address
}

func (d delegator) CodeHash() common.Hash { return crypto.Keccak256Hash(d.target.Bytes()) }

func (d delegator) Run(evm *EVM, frame *Frame) ([]byte, error) {
	return evm.DelegateCall(frame, d.target, frame.Input)
}

// recursor calls itself until the depth limit trips.
type recursor struct{}

func (recursor) CodeHash() common.Hash { return crypto.Keccak256Hash([]byte("recursor")) }

func (recursor) Run(evm *EVM, frame *Frame) ([]byte, error) {
	return evm.Call(frame.Address, frame.Address, nil, nil)
}

type ctorProgram struct {
	fail bool
}

func (c ctorProgram) CodeHash() common.Hash { return crypto.Keccak256Hash([]byte("ctor")) }

func (c ctorProgram) Run(evm *EVM, frame *Frame) ([]byte, error) { return nil, nil }

func (c ctorProgram) Construct(evm *EVM, frame *Frame) error {
	if c.fail {
		return errBoom
	}
	return frame.SetState(evm, common.Hash{}, common.HexToHash("0x1"))
}

var (
	alice = common.HexToAddress("0xa11ce")
	bob   = common.HexToAddress("0xb0b")
)

func newTestEVM(t *testing.T) *EVM {
	t.Helper()
	db := state.New()
	db.AddBalance(alice, uint256.NewInt(100))
	return NewEVM(BlockContext{BlockNumber: 1, Time: 10}, TxContext{Origin: alice}, db, nil)
}

func TestCallTransfersValueToPlainAccount(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	ret, err := evm.Call(alice, bob, []byte{1, 2, 3}, uint256.NewInt(40))
	require.NoError(t, err)
	assert.Nil(t, ret)
	assert.Equal(t, uint64(60), evm.StateDB.GetBalance(alice).Uint64())
	assert.Equal(t, uint64(40), evm.StateDB.GetBalance(bob).Uint64())
}

func TestCallInsufficientBalance(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	_, err := evm.Call(alice, bob, nil, uint256.NewInt(101))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestCallRevertRollsBackFrame(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	addr, err := evm.Create(alice, storeProgram{}, nil)
	require.NoError(t, err)

	_, err = evm.Call(alice, addr, []byte("fail"), uint256.NewInt(5))
	require.ErrorIs(t, err, ErrExecutionReverted)
	require.ErrorIs(t, err, errBoom)
	assert.Equal(t, []byte("reason"), RevertData(err))
	assert.Equal(t, common.Hash{}, evm.StateDB.GetState(addr, common.Hash{}))
	assert.Equal(t, uint64(100), evm.StateDB.GetBalance(alice).Uint64())
}

func TestDelegateCallUsesCallerStorage(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	impl, err := evm.Create(alice, storeProgram{}, nil)
	require.NoError(t, err)
	proxy, err := evm.Create(alice, delegator{target: impl}, nil)
	require.NoError(t, err)

	ret, err := evm.Call(alice, proxy, []byte("hello"), nil)
	require.NoError(t, err)
	assert.Equal(t, alice.Bytes(), ret)
	assert.Equal(t, common.BytesToHash([]byte("hello")), evm.StateDB.GetState(proxy, common.Hash{}))
	assert.Equal(t, common.Hash{}, evm.StateDB.GetState(impl, common.Hash{}))
}

func TestStaticCallRejectsWrites(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	addr, err := evm.Create(alice, storeProgram{}, nil)
	require.NoError(t, err)

	_, err = evm.StaticCall(alice, addr, []byte("x"))
	assert.ErrorIs(t, err, ErrWriteProtection)
}

func TestCallDepthLimit(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	addr, err := evm.Create(alice, recursor{}, nil)
	require.NoError(t, err)

	_, err = evm.Call(alice, addr, nil, nil)
	assert.ErrorIs(t, err, ErrDepth)
	assert.Equal(t, 0, evm.Depth())
}

func TestCallLimiter(t *testing.T) {
	t.Parallel()

	db := state.New()
	evm := NewEVM(BlockContext{}, TxContext{}, db, NewEVMLimiter(LimitConfig{CallsPerTxPerAddr: 3}))
	addr, err := evm.Create(alice, recursor{}, nil)
	require.NoError(t, err)

	_, err = evm.Call(alice, addr, nil, nil)
	var limitErr *ErrCallLimit
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, addr, limitErr.Address)
}

func TestCreate2DeterministicAndCollision(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	initCode := []byte("init code")
	salt := common.HexToHash("0x5a17")

	addr, err := evm.Create2(alice, initCode, storeProgram{}, salt, nil)
	require.NoError(t, err)
	assert.Equal(t, crypto.CreateAddress2(alice, salt, crypto.Keccak256(initCode)), addr)

	_, err = evm.Create2(alice, initCode, storeProgram{}, salt, nil)
	assert.ErrorIs(t, err, ErrContractAddressCollision)
}

func TestCreateRunsConstructor(t *testing.T) {
	t.Parallel()

	evm := newTestEVM(t)
	addr, err := evm.Create(alice, ctorProgram{}, nil)
	require.NoError(t, err)
	assert.Equal(t, common.HexToHash("0x1"), evm.StateDB.GetState(addr, common.Hash{}))
	assert.Equal(t, uint64(1), evm.StateDB.GetNonce(addr))

	next := crypto.CreateAddress(alice, evm.StateDB.GetNonce(alice))
	_, err = evm.Create(alice, ctorProgram{fail: true}, nil)
	require.ErrorIs(t, err, errBoom)
	assert.False(t, evm.StateDB.Exist(next))
}
