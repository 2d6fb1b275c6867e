package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/state"
	"github.com/zircuit-labs/autem/core/types"
)

// Program is contract code implemented natively. The ledger stores it as the
// code of an account and runs it for every call frame targeting that account.
type Program interface {
	state.Code
	Run(evm *EVM, frame *Frame) ([]byte, error)
}

// Constructor is implemented by programs that initialise storage on deployment.
type Constructor interface {
	Construct(evm *EVM, frame *Frame) error
}

// Frame is the context of a single call. Address is the account whose storage
// and balance the code acts on; under a delegate call it differs from
// CodeAddress, the account the code was loaded from.
type Frame struct {
	Caller      common.Address
	Address     common.Address
	CodeAddress common.Address
	Value       *uint256.Int
	Input       []byte
	ReadOnly    bool
}

// GetState reads a storage slot of the frame's account.
func (f *Frame) GetState(evm *EVM, key common.Hash) common.Hash {
	return evm.StateDB.GetState(f.Address, key)
}

// SetState writes a storage slot of the frame's account.
func (f *Frame) SetState(evm *EVM, key, value common.Hash) error {
	if f.ReadOnly {
		return ErrWriteProtection
	}
	evm.StateDB.SetState(f.Address, key, value)
	return nil
}

// EmitLog records an event emitted by the frame's account.
func (f *Frame) EmitLog(evm *EVM, topics []common.Hash, data []byte) error {
	if f.ReadOnly {
		return ErrWriteProtection
	}
	evm.StateDB.AddLog(&types.Log{
		Address:     f.Address,
		Topics:      topics,
		Data:        data,
		BlockNumber: evm.Context.BlockNumber,
		BlockTime:   evm.Context.Time,
	})
	return nil
}
