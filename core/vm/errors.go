package vm

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// List evm execution errors
var (
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrExecutionReverted        = errors.New("execution reverted")
	ErrNonceUintOverflow        = errors.New("nonce uint64 overflow")
	ErrWriteProtection          = errors.New("write protection")
)

// RevertError is returned by a call frame that reverted. It carries the raw
// revert data and, when the reverting contract is native, the typed cause so
// callers can match it with errors.Is.
type RevertError struct {
	data  []byte
	cause error
}

// NewRevertError creates a revert with the given data and optional cause.
func NewRevertError(data []byte, cause error) *RevertError {
	return &RevertError{data: data, cause: cause}
}

// Error implements the error interface.
func (e *RevertError) Error() string {
	if reason, err := abi.UnpackRevert(e.data); err == nil {
		return fmt.Sprintf("%v: %v", ErrExecutionReverted, reason)
	}
	if e.cause != nil {
		return fmt.Sprintf("%v: %v", ErrExecutionReverted, e.cause)
	}
	return ErrExecutionReverted.Error()
}

// Unwrap exposes both ErrExecutionReverted and the cause.
func (e *RevertError) Unwrap() []error {
	if e.cause == nil {
		return []error{ErrExecutionReverted}
	}
	return []error{ErrExecutionReverted, e.cause}
}

// Data returns the revert data.
func (e *RevertError) Data() []byte {
	return e.data
}

// ErrorData returns the hex encoded revert data.
func (e *RevertError) ErrorData() any {
	return hexutil.Encode(e.data)
}

// RevertData extracts the revert data from err, if any.
func RevertData(err error) []byte {
	var revert *RevertError
	if errors.As(err, &revert) {
		return revert.Data()
	}
	return nil
}
