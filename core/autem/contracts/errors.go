package contracts

import (
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/zircuit-labs/autem/core/vm"
)

// Revert reasons of the trust logic.
var (
	ErrInvalidOwner       = errors.New("invalid owner")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrAlreadyInitialized = errors.New("already initialized")
	ErrStillLocked        = errors.New("still locked")
)

// Reason codes as they appear in the revert data.
const (
	ReasonInvalidOwner       = "E400"
	ReasonUnauthorized       = "E401"
	ReasonAlreadyInitialized = "E405"
	ReasonStillLocked        = "E425"
)

var reasonErrors = map[string]error{
	ReasonInvalidOwner:       ErrInvalidOwner,
	ReasonUnauthorized:       ErrUnauthorized,
	ReasonAlreadyInitialized: ErrAlreadyInitialized,
	ReasonStillLocked:        ErrStillLocked,
}

var errorSelector = crypto.Keccak256([]byte("Error(string)"))[:4]

var reasonArguments = abi.Arguments{{Type: mustType("string")}}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

// EncodeReason returns the Error(string) revert data for reason.
func EncodeReason(reason string) []byte {
	packed, err := reasonArguments.Pack(reason)
	if err != nil {
		panic(err)
	}
	return append(append([]byte{}, errorSelector...), packed...)
}

// Reason returns the code of a trust revert error, if err is one.
func Reason(err error) (string, bool) {
	for code, sentinel := range reasonErrors {
		if errors.Is(err, sentinel) {
			return code, true
		}
	}
	if reason, uerr := abi.UnpackRevert(vm.RevertData(err)); uerr == nil {
		if _, ok := reasonErrors[reason]; ok {
			return reason, true
		}
	}
	return "", false
}

// ErrorFromRevert maps raw revert data back to the matching sentinel error.
// Unknown revert data yields vm.ErrExecutionReverted.
func ErrorFromRevert(data []byte) error {
	reason, err := abi.UnpackRevert(data)
	if err != nil {
		return vm.NewRevertError(data, nil)
	}
	return vm.NewRevertError(data, reasonErrors[reason])
}

func revert(reason string) error {
	return vm.NewRevertError(EncodeReason(reason), reasonErrors[reason])
}

// bubble turns a failed inner call into a revert of the current frame,
// keeping the inner revert data when there is some.
func bubble(err error) error {
	var r *vm.RevertError
	if errors.As(err, &r) {
		return err
	}
	return vm.NewRevertError(nil, err)
}
