// Copyright 2015 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package core

import (
	"errors"
	"fmt"

	"github.com/zircuit-labs/autem/core/state"
	"github.com/zircuit-labs/autem/core/types"
	"github.com/zircuit-labs/autem/core/vm"
)

// ErrNonceTooLow and ErrNonceTooHigh are returned for transactions whose
// nonce does not match the sender's account nonce.
var (
	ErrNonceTooLow  = errors.New("nonce too low")
	ErrNonceTooHigh = errors.New("nonce too high")
)

// ExecutionResult includes all output after executing a transaction.
type ExecutionResult struct {
	Err        error  // Any error encountered during the execution
	ReturnData []byte // Returned data from the called frame
}

// Failed returns the indicator whether the execution is successful or not
func (result *ExecutionResult) Failed() bool { return result.Err != nil }

// Revert returns the concrete revert reason if the execution is aborted by
// a revert. The data is empty for other failures.
func (result *ExecutionResult) Revert() []byte {
	return vm.RevertData(result.Err)
}

// ApplyMessage runs the transaction against the state. The sender nonce is
// consumed even when execution fails; everything else the failed call did is
// rolled back.
func ApplyMessage(evm *vm.EVM, tx *types.Transaction) (*ExecutionResult, error) {
	statedb := evm.StateDB
	nonce := statedb.GetNonce(tx.From)
	switch {
	case tx.Nonce < nonce:
		return nil, fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooLow, tx.From, tx.Nonce, nonce)
	case tx.Nonce > nonce:
		return nil, fmt.Errorf("%w: address %v, tx: %d state: %d", ErrNonceTooHigh, tx.From, tx.Nonce, nonce)
	case nonce+1 < nonce:
		return nil, vm.ErrNonceUintOverflow
	}
	if !statedb.Exist(tx.From) {
		statedb.CreateAccount(tx.From)
	}
	statedb.SetNonce(tx.From, nonce+1)

	snapshot := statedb.Snapshot()
	ret, err := evm.Call(tx.From, tx.To, tx.Data, tx.Value)
	if err != nil {
		statedb.RevertToSnapshot(snapshot)
	}
	return &ExecutionResult{Err: err, ReturnData: ret}, nil
}

// ApplyTransaction applies tx as the only transaction of the block described
// by header and returns its receipt. An error is returned only when the
// transaction cannot be included at all; a reverted execution yields a
// receipt with a failed status.
func ApplyTransaction(evm *vm.EVM, statedb *state.StateDB, header *types.Header, tx *types.Transaction) (*types.Receipt, *ExecutionResult, error) {
	statedb.SetTxContext(tx.Hash(), 0)
	result, err := ApplyMessage(evm, tx)
	if err != nil {
		statedb.Finalise()
		return nil, nil, err
	}
	return MakeReceipt(result, statedb, header, tx), result, nil
}

// MakeReceipt generates the receipt object for a transaction given its execution result.
func MakeReceipt(result *ExecutionResult, statedb *state.StateDB, header *types.Header, tx *types.Transaction) *types.Receipt {
	receipt := &types.Receipt{
		TxHash:      tx.Hash(),
		From:        tx.From,
		To:          tx.To,
		BlockNumber: header.Number,
		BlockTime:   header.Time,
	}
	if result.Failed() {
		receipt.Status = types.ReceiptStatusFailed
		receipt.RevertData = result.Revert()
	} else {
		receipt.Status = types.ReceiptStatusSuccessful
		receipt.ReturnData = result.ReturnData
	}
	receipt.Logs = statedb.Finalise()
	if receipt.Logs == nil {
		receipt.Logs = []*types.Log{}
	}
	return receipt
}
