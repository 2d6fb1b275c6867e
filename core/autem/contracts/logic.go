package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/vm"
)

var logicCodeHash = crypto.Keccak256Hash([]byte("autem/logic"))

// Logic is the dead-man's-switch state machine shared by every trust. It only
// ever acts on the storage of the frame it runs in, which is the proxy's when
// reached through a delegate call.
type Logic struct{}

// NewLogic returns the trust logic program.
func NewLogic() *Logic {
	return &Logic{}
}

func (l *Logic) CodeHash() common.Hash {
	return logicCodeHash
}

// Construct marks the canonical instance initialized, so setup can never be
// called on it. Its owner stays zero.
func (l *Logic) Construct(evm *vm.EVM, frame *vm.Frame) error {
	return slots{evm, frame}.setNumber(initializedSlot, uint256.NewInt(1))
}

// Run dispatches a call on the trust. Calldata that does not match a known
// method is accepted as a deposit without authorization or ping.
func (l *Logic) Run(evm *vm.EVM, frame *vm.Frame) ([]byte, error) {
	if len(frame.Input) < 4 {
		return nil, nil
	}
	method, err := AutemABI.MethodById(frame.Input[:4])
	if err != nil {
		return nil, nil
	}
	if !method.IsPayable() && !frame.Value.IsZero() {
		return nil, vm.NewRevertError(nil, nil)
	}
	args, err := unpackInputs(method, frame.Input[4:])
	if err != nil {
		return nil, vm.NewRevertError(nil, err)
	}

	t := &trust{slots: slots{evm, frame}}
	switch method.Name {
	case "owner":
		return method.Outputs.Pack(t.address(ownerSlot))
	case "beneficiary":
		return method.Outputs.Pack(t.address(beneficiarySlot))
	case "window":
		return method.Outputs.Pack(t.number(windowSlot).ToBig())
	case "lastPing":
		return method.Outputs.Pack(t.number(lastPingSlot).Uint64())
	case "metadata":
		return method.Outputs.Pack(t.str(metadataSlot))
	case "setup":
		return nil, t.setup(args[0].(common.Address), args[1].(common.Address), args[2].(*big.Int), args[3].(string))
	case "setOwner":
		return nil, t.setOwner(args[0].(common.Address))
	case "setBeneficiary":
		return nil, t.setBeneficiary(args[0].(common.Address))
	case "setWindow":
		return nil, t.setWindow(args[0].(*big.Int))
	case "setMetadata":
		return nil, t.setMetadata(args[0].(string))
	case "execute":
		ret, err := t.execute(args[0].(common.Address), args[1].(*big.Int), args[2].([]byte))
		if err != nil {
			return nil, err
		}
		return method.Outputs.Pack(ret)
	}
	return nil, nil
}

type trust struct {
	slots
}

func (t *trust) state() TrustState {
	return TrustState{
		Owner:       t.address(ownerSlot),
		Beneficiary: t.address(beneficiarySlot),
		Window:      t.number(windowSlot),
		LastPing:    t.number(lastPingSlot),
	}
}

func (t *trust) authorize() error {
	return t.state().AuthLevel(t.frame.Caller, t.evm.Context.Time).err()
}

func (t *trust) emit(event abi.Event, topics []common.Hash, data ...any) error {
	packed, err := event.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return err
	}
	return t.frame.EmitLog(t.evm, append([]common.Hash{event.ID}, topics...), packed)
}

func addressTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func (t *trust) setup(owner, beneficiary common.Address, window *big.Int, metadata string) error {
	if !t.number(initializedSlot).IsZero() || t.address(ownerSlot) != (common.Address{}) {
		return revert(ReasonAlreadyInitialized)
	}
	if owner == (common.Address{}) {
		return revert(ReasonInvalidOwner)
	}
	if err := t.setNumber(initializedSlot, uint256.NewInt(1)); err != nil {
		return err
	}
	if err := t.setAddress(ownerSlot, owner); err != nil {
		return err
	}
	if err := t.setAddress(beneficiarySlot, beneficiary); err != nil {
		return err
	}
	if err := t.setNumber(windowSlot, uint256.MustFromBig(window)); err != nil {
		return err
	}
	if err := t.setNumber(lastPingSlot, uint256.NewInt(t.evm.Context.Time)); err != nil {
		return err
	}
	if err := t.setStr(metadataSlot, metadata); err != nil {
		return err
	}
	return t.emit(AutemABI.Events["Setup"], []common.Hash{addressTopic(owner), addressTopic(beneficiary)}, window, metadata)
}

func (t *trust) setOwner(owner common.Address) error {
	if err := t.authorize(); err != nil {
		return err
	}
	if owner == (common.Address{}) {
		return revert(ReasonInvalidOwner)
	}
	if err := t.setAddress(ownerSlot, owner); err != nil {
		return err
	}
	return t.emit(AutemABI.Events["SetOwner"], []common.Hash{addressTopic(owner)})
}

func (t *trust) setBeneficiary(beneficiary common.Address) error {
	if err := t.authorize(); err != nil {
		return err
	}
	if err := t.setAddress(beneficiarySlot, beneficiary); err != nil {
		return err
	}
	return t.emit(AutemABI.Events["SetBeneficiary"], []common.Hash{addressTopic(beneficiary)})
}

func (t *trust) setWindow(window *big.Int) error {
	if err := t.authorize(); err != nil {
		return err
	}
	if err := t.setNumber(windowSlot, uint256.MustFromBig(window)); err != nil {
		return err
	}
	return t.emit(AutemABI.Events["SetWindow"], nil, window)
}

func (t *trust) setMetadata(metadata string) error {
	if err := t.authorize(); err != nil {
		return err
	}
	if err := t.setStr(metadataSlot, metadata); err != nil {
		return err
	}
	return t.emit(AutemABI.Events["SetMetadata"], nil, metadata)
}

// ping is committed before the forwarded call runs, so a reentrant call
// already sees the renewed timer.
func (t *trust) ping() error {
	now := t.evm.Context.Time
	if err := t.setNumber(lastPingSlot, uint256.NewInt(now)); err != nil {
		return err
	}
	return t.emit(AutemABI.Events["Ping"], []common.Hash{addressTopic(t.frame.Caller)}, now)
}

func (t *trust) execute(to common.Address, value *big.Int, data []byte) ([]byte, error) {
	if err := t.authorize(); err != nil {
		return nil, err
	}
	if t.frame.Caller != t.address(beneficiarySlot) {
		if err := t.ping(); err != nil {
			return nil, err
		}
	}
	amount, overflow := uint256.FromBig(value)
	if overflow {
		return nil, vm.NewRevertError(nil, vm.ErrInsufficientBalance)
	}
	ret, err := t.evm.Call(t.frame.Address, to, data, amount)
	if err != nil {
		return nil, bubble(err)
	}
	if to != t.frame.Address {
		if err := t.emit(AutemABI.Events["Execute"], []common.Hash{addressTopic(to)}, value, data); err != nil {
			return nil, err
		}
	}
	return ret, nil
}
