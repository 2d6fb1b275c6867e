package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/zircuit-labs/autem/core/autem/derive"
	"github.com/zircuit-labs/autem/core/vm"
)

var factoryCodeHash = crypto.Keccak256Hash([]byte("autem/factory"))

// Factory deploys trusts. Its constructor deploys the shared logic, and
// create places a proxy for it at the address derive.Address predicts.
type Factory struct{}

// NewFactory returns the factory program.
func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) CodeHash() common.Hash {
	return factoryCodeHash
}

// Construct deploys the logic from the factory address. Being the first
// contract the factory creates, it lives at CreateAddress(factory, 1).
func (f *Factory) Construct(evm *vm.EVM, frame *vm.Frame) error {
	impl, err := evm.Create(frame.Address, NewLogic(), nil)
	if err != nil {
		return err
	}
	return slots{evm, frame}.setAddress(implementationSlot, impl)
}

func (f *Factory) Run(evm *vm.EVM, frame *vm.Frame) ([]byte, error) {
	if len(frame.Input) < 4 {
		return nil, vm.NewRevertError(nil, nil)
	}
	method, err := FactoryABI.MethodById(frame.Input[:4])
	if err != nil || !frame.Value.IsZero() {
		return nil, vm.NewRevertError(nil, err)
	}
	args, err := unpackInputs(method, frame.Input[4:])
	if err != nil {
		return nil, vm.NewRevertError(nil, err)
	}

	impl := slots{evm, frame}.address(implementationSlot)
	switch method.Name {
	case "implementation":
		return method.Outputs.Pack(impl)
	case "create":
		trust, err := f.create(evm, frame, impl, derive.Params{
			Owner:       args[0].(common.Address),
			Beneficiary: args[1].(common.Address),
			Window:      args[2].(*big.Int),
			Metadata:    args[3].(string),
		})
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(trust)
	}
	return nil, vm.NewRevertError(nil, nil)
}

func (f *Factory) create(evm *vm.EVM, frame *vm.Frame, impl common.Address, p derive.Params) (common.Address, error) {
	salt, err := derive.Salt(p)
	if err != nil {
		return common.Address{}, vm.NewRevertError(nil, err)
	}
	trust, err := evm.Create2(frame.Address, derive.ProxyInitCode(impl), NewProxy(impl), salt, nil)
	if err != nil {
		return common.Address{}, bubble(err)
	}
	input, err := AutemABI.Pack("setup", p.Owner, p.Beneficiary, p.Window, p.Metadata)
	if err != nil {
		return common.Address{}, vm.NewRevertError(nil, err)
	}
	if _, err := evm.Call(frame.Address, trust, input, nil); err != nil {
		return common.Address{}, bubble(err)
	}

	event := FactoryABI.Events["Created"]
	topics := []common.Hash{event.ID, addressTopic(trust), addressTopic(p.Owner), addressTopic(p.Beneficiary)}
	if err := frame.EmitLog(evm, topics, nil); err != nil {
		return common.Address{}, err
	}
	return trust, nil
}
