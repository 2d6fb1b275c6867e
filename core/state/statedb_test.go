package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/types"
)

type testCode string

func (c testCode) CodeHash() common.Hash {
	return common.BytesToHash([]byte(c))
}

func TestStateDBRevertToSnapshot(t *testing.T) {
	t.Parallel()

	db := New()
	addr := common.HexToAddress("0x1")
	key := common.HexToHash("0x2")

	db.AddBalance(addr, uint256.NewInt(10))
	db.SetState(addr, key, common.HexToHash("0xaa"))
	db.Finalise()

	snap := db.Snapshot()
	db.SubBalance(addr, uint256.NewInt(4))
	db.SetState(addr, key, common.HexToHash("0xbb"))
	db.SetNonce(addr, 7)
	db.SetCode(addr, testCode("code"))
	db.AddLog(&types.Log{Address: addr})
	other := common.HexToAddress("0x3")
	db.AddBalance(other, uint256.NewInt(4))

	assert.Equal(t, uint64(6), db.GetBalance(addr).Uint64())
	assert.Len(t, db.Logs(), 1)

	db.RevertToSnapshot(snap)

	assert.Equal(t, uint64(10), db.GetBalance(addr).Uint64())
	assert.Equal(t, common.HexToHash("0xaa"), db.GetState(addr, key))
	assert.Equal(t, uint64(0), db.GetNonce(addr))
	assert.Nil(t, db.GetCode(addr))
	assert.Equal(t, types.EmptyCodeHash, db.GetCodeHash(addr))
	assert.Empty(t, db.Logs())
	assert.False(t, db.Exist(other))
}

func TestStateDBNestedSnapshots(t *testing.T) {
	t.Parallel()

	db := New()
	addr := common.HexToAddress("0x1")
	key := common.HexToHash("0x1")

	outer := db.Snapshot()
	db.SetState(addr, key, common.HexToHash("0x1"))
	inner := db.Snapshot()
	db.SetState(addr, key, common.HexToHash("0x2"))

	db.RevertToSnapshot(inner)
	require.Equal(t, common.HexToHash("0x1"), db.GetState(addr, key))

	db.RevertToSnapshot(outer)
	require.False(t, db.Exist(addr))
}

func TestStateDBFinaliseDropsJournal(t *testing.T) {
	t.Parallel()

	db := New()
	addr := common.HexToAddress("0x1")
	db.SetTxContext(common.HexToHash("0xfeed"), 3)
	db.AddLog(&types.Log{Address: addr})
	db.AddLog(&types.Log{Address: addr})

	logs := db.Finalise()
	require.Len(t, logs, 2)
	assert.Equal(t, common.HexToHash("0xfeed"), logs[1].TxHash)
	assert.Equal(t, uint(3), logs[1].TxIndex)
	assert.Equal(t, uint(1), logs[1].Index)
	assert.Equal(t, 0, db.Snapshot())
	assert.Empty(t, db.Logs())
}

func TestStateDBSetStateZeroDeletes(t *testing.T) {
	t.Parallel()

	db := New()
	addr := common.HexToAddress("0x1")
	key := common.HexToHash("0x1")
	db.SetState(addr, key, common.HexToHash("0x5"))
	db.SetState(addr, key, common.Hash{})

	assert.Empty(t, db.getStateObject(addr).storage)
}
