// Package vm executes calls between accounts of the ledger. Contract code is
// native Go (see Program); the package provides the call, delegate call and
// deterministic deployment semantics around it.
package vm

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/state"
)

// MaxCallDepth is the maximum depth of nested call frames.
const MaxCallDepth = 1024

// BlockContext provides the EVM with auxiliary information about the block
// being executed.
type BlockContext struct {
	BlockNumber uint64
	Time        uint64
}

// TxContext provides the EVM with information about the transaction.
type TxContext struct {
	Origin common.Address
}

// EVM runs call frames against a StateDB. It is not thread safe and should
// only ever be used once per transaction.
type EVM struct {
	Context BlockContext
	TxContext
	StateDB *state.StateDB

	limiter  ExecutionLimiter
	depth    int
	readOnly bool
}

// NewEVM returns a new EVM for a single transaction.
func NewEVM(blockCtx BlockContext, txCtx TxContext, statedb *state.StateDB, limiter ExecutionLimiter) *EVM {
	if limiter != nil {
		limiter.ResetTx()
	}
	return &EVM{
		Context:   blockCtx,
		TxContext: txCtx,
		StateDB:   statedb,
		limiter:   limiter,
	}
}

// Depth returns the depth of the frame currently running.
func (evm *EVM) Depth() int {
	return evm.depth
}

func (evm *EVM) canTransfer(addr common.Address, amount *uint256.Int) bool {
	return evm.StateDB.GetBalance(addr).Cmp(amount) >= 0
}

func (evm *EVM) transfer(from, to common.Address, amount *uint256.Int) {
	if amount.IsZero() {
		return
	}
	evm.StateDB.SubBalance(from, amount)
	evm.StateDB.AddBalance(to, amount)
}

func (evm *EVM) enter(addr common.Address) error {
	if evm.depth >= MaxCallDepth {
		return ErrDepth
	}
	if evm.limiter != nil {
		return evm.limiter.TrackCall(addr)
	}
	return nil
}

func (evm *EVM) run(prog Program, frame *Frame) ([]byte, error) {
	evm.depth++
	defer func() { evm.depth-- }()
	frame.ReadOnly = evm.readOnly
	return prog.Run(evm, frame)
}

// Call executes the code of addr with the given input, transferring value
// from caller first. Any state change made by the frame is reverted when it
// returns an error.
func (evm *EVM) Call(caller, addr common.Address, input []byte, value *uint256.Int) ([]byte, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	if err := evm.enter(addr); err != nil {
		return nil, err
	}
	if evm.readOnly && !value.IsZero() {
		return nil, ErrWriteProtection
	}
	if !evm.canTransfer(caller, value) {
		return nil, ErrInsufficientBalance
	}
	snapshot := evm.StateDB.Snapshot()
	if !evm.StateDB.Exist(addr) {
		evm.StateDB.CreateAccount(addr)
	}
	evm.transfer(caller, addr, value)

	prog, ok := evm.StateDB.GetCode(addr).(Program)
	if !ok {
		// Plain account: the transfer is the whole call.
		return nil, nil
	}
	ret, err := evm.run(prog, &Frame{
		Caller:      caller,
		Address:     addr,
		CodeAddress: addr,
		Value:       value,
		Input:       input,
	})
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
	}
	return ret, err
}

// DelegateCall runs the code of codeAddr in the context of parent: same
// caller, same value, same storage account.
func (evm *EVM) DelegateCall(parent *Frame, codeAddr common.Address, input []byte) ([]byte, error) {
	if err := evm.enter(codeAddr); err != nil {
		return nil, err
	}
	prog, ok := evm.StateDB.GetCode(codeAddr).(Program)
	if !ok {
		return nil, nil
	}
	snapshot := evm.StateDB.Snapshot()
	ret, err := evm.run(prog, &Frame{
		Caller:      parent.Caller,
		Address:     parent.Address,
		CodeAddress: codeAddr,
		Value:       parent.Value,
		Input:       input,
	})
	if err != nil {
		evm.StateDB.RevertToSnapshot(snapshot)
	}
	return ret, err
}

// StaticCall executes a call in which no state may be modified.
func (evm *EVM) StaticCall(caller, addr common.Address, input []byte) ([]byte, error) {
	prev := evm.readOnly
	evm.readOnly = true
	defer func() { evm.readOnly = prev }()
	return evm.Call(caller, addr, input, nil)
}

// Create deploys prog at the address derived from caller and its nonce.
func (evm *EVM) Create(caller common.Address, prog Program, value *uint256.Int) (common.Address, error) {
	addr := crypto.CreateAddress(caller, evm.StateDB.GetNonce(caller))
	return evm.create(caller, addr, prog, value)
}

// Create2 deploys prog at the address derived from caller, salt and the hash
// of initCode, the creation bytecode prog stands for.
func (evm *EVM) Create2(caller common.Address, initCode []byte, prog Program, salt common.Hash, value *uint256.Int) (common.Address, error) {
	addr := crypto.CreateAddress2(caller, salt, crypto.Keccak256(initCode))
	return evm.create(caller, addr, prog, value)
}

// Deploy places prog at a fixed address. It is meant for genesis allocations.
func (evm *EVM) Deploy(addr common.Address, prog Program, value *uint256.Int) (common.Address, error) {
	return evm.create(addr, addr, prog, value)
}

func (evm *EVM) create(caller, addr common.Address, prog Program, value *uint256.Int) (common.Address, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	if evm.readOnly {
		return common.Address{}, ErrWriteProtection
	}
	if err := evm.enter(addr); err != nil {
		return common.Address{}, err
	}
	if !evm.canTransfer(caller, value) {
		return common.Address{}, ErrInsufficientBalance
	}
	nonce := evm.StateDB.GetNonce(caller)
	if nonce+1 < nonce {
		return common.Address{}, ErrNonceUintOverflow
	}
	if caller != addr {
		evm.StateDB.SetNonce(caller, nonce+1)
	}
	if evm.StateDB.GetNonce(addr) != 0 || evm.StateDB.GetCode(addr) != nil {
		return common.Address{}, ErrContractAddressCollision
	}

	snapshot := evm.StateDB.Snapshot()
	evm.StateDB.CreateAccount(addr)
	evm.StateDB.SetNonce(addr, 1)
	evm.transfer(caller, addr, value)
	evm.StateDB.SetCode(addr, prog)

	if ctor, ok := prog.(Constructor); ok {
		evm.depth++
		err := ctor.Construct(evm, &Frame{
			Caller:      caller,
			Address:     addr,
			CodeAddress: addr,
			Value:       value,
		})
		evm.depth--
		if err != nil {
			evm.StateDB.RevertToSnapshot(snapshot)
			return common.Address{}, err
		}
	}
	return addr, nil
}
