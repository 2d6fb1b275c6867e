package ethapi

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zircuit-labs/autem/core/autem/contracts"
	"github.com/zircuit-labs/autem/core/vm"
)

func TestExecutionError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, executionError(nil))

	plain := errors.New("out of funds")
	assert.Equal(t, plain, executionError(plain))

	data := contracts.EncodeReason(contracts.ReasonUnauthorized)
	err := executionError(vm.NewRevertError(data, contracts.ErrUnauthorized))
	var rerr *revertError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 3, rerr.ErrorCode())
	assert.Equal(t, hexutil.Encode(data), rerr.ErrorData())
	assert.EqualError(t, rerr, "execution reverted: "+contracts.ReasonUnauthorized)

	err = executionError(vm.NewRevertError(nil, nil))
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "0x", rerr.ErrorData())
	assert.ErrorIs(t, err, vm.ErrExecutionReverted)
}
