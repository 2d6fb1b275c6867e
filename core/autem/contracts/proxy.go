package contracts

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/zircuit-labs/autem/core/vm"
)

// Proxy forwards every call to a fixed implementation with a delegate call,
// so the implementation runs on the proxy's storage and balance.
type Proxy struct {
	implementation common.Address
}

// NewProxy returns a proxy bound to implementation.
func NewProxy(implementation common.Address) *Proxy {
	return &Proxy{implementation: implementation}
}

// Implementation returns the address calls are forwarded to.
func (p *Proxy) Implementation() common.Address {
	return p.implementation
}

func (p *Proxy) CodeHash() common.Hash {
	return crypto.Keccak256Hash([]byte("autem/proxy"), p.implementation.Bytes())
}

func (p *Proxy) Run(evm *vm.EVM, frame *vm.Frame) ([]byte, error) {
	if len(frame.Input) == 0 {
		// Plain transfer: keep the value, run nothing.
		return nil, nil
	}
	method := ProxyABI.Methods["implementation"]
	if len(frame.Input) >= 4 && bytes.Equal(frame.Input[:4], method.ID) {
		if !frame.Value.IsZero() {
			return nil, vm.NewRevertError(nil, nil)
		}
		return method.Outputs.Pack(p.implementation)
	}
	return evm.DelegateCall(frame, p.implementation, frame.Input)
}
