package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/vm"
)

// Storage layout of a trust. The proxy holds these slots; the logic reads and
// writes them through delegate calls.
var (
	ownerSlot       = common.BigToHash(big.NewInt(0))
	beneficiarySlot = common.BigToHash(big.NewInt(1))
	windowSlot      = common.BigToHash(big.NewInt(2))
	lastPingSlot    = common.BigToHash(big.NewInt(3))
	metadataSlot    = common.BigToHash(big.NewInt(4))
	initializedSlot = common.BigToHash(big.NewInt(5))
)

// implementationSlot is the factory slot holding the logic address.
var implementationSlot = common.Hash{}

// slots reads and writes typed values in the storage of a frame's account.
type slots struct {
	evm   *vm.EVM
	frame *vm.Frame
}

func (s slots) address(key common.Hash) common.Address {
	return common.BytesToAddress(s.frame.GetState(s.evm, key).Bytes())
}

func (s slots) setAddress(key common.Hash, addr common.Address) error {
	return s.frame.SetState(s.evm, key, common.BytesToHash(addr.Bytes()))
}

func (s slots) number(key common.Hash) *uint256.Int {
	v := s.frame.GetState(s.evm, key)
	return new(uint256.Int).SetBytes32(v[:])
}

func (s slots) setNumber(key common.Hash, v *uint256.Int) error {
	return s.frame.SetState(s.evm, key, v.Bytes32())
}

// str reads a string stored with the Solidity layout: up to 31 bytes inline
// with 2*len in the lowest byte, otherwise 2*len+1 in the slot and the data
// in consecutive slots starting at keccak256(slot).
func (s slots) str(key common.Hash) string {
	head := s.frame.GetState(s.evm, key)
	if head[31]&1 == 0 {
		n := int(head[31]) / 2
		return string(head[:n])
	}
	length := new(uint256.Int).SetBytes32(head[:])
	length.Rsh(length, 1)
	n := int(length.Uint64())

	data := make([]byte, 0, n+31)
	base := new(uint256.Int).SetBytes(crypto.Keccak256(key.Bytes()))
	for i := 0; len(data) < n; i++ {
		slot := new(uint256.Int).AddUint64(base, uint64(i))
		word := s.frame.GetState(s.evm, slot.Bytes32())
		data = append(data, word[:]...)
	}
	return string(data[:n])
}

func (s slots) setStr(key common.Hash, value string) error {
	if err := s.clearStr(key); err != nil {
		return err
	}
	if len(value) < 32 {
		var head common.Hash
		copy(head[:], value)
		head[31] = byte(len(value) * 2)
		return s.frame.SetState(s.evm, key, head)
	}
	length := uint256.NewInt(uint64(len(value))*2 + 1)
	if err := s.frame.SetState(s.evm, key, length.Bytes32()); err != nil {
		return err
	}
	base := new(uint256.Int).SetBytes(crypto.Keccak256(key.Bytes()))
	for i := 0; i*32 < len(value); i++ {
		var word common.Hash
		copy(word[:], value[i*32:])
		slot := new(uint256.Int).AddUint64(base, uint64(i))
		if err := s.frame.SetState(s.evm, slot.Bytes32(), word); err != nil {
			return err
		}
	}
	return nil
}

// clearStr zeroes the data slots of a long string so no stale tail remains.
func (s slots) clearStr(key common.Hash) error {
	head := s.frame.GetState(s.evm, key)
	if head[31]&1 == 0 {
		return nil
	}
	length := new(uint256.Int).SetBytes32(head[:])
	n := length.Rsh(length, 1).Uint64()
	base := new(uint256.Int).SetBytes(crypto.Keccak256(key.Bytes()))
	for i := uint64(0); i*32 < n; i++ {
		slot := new(uint256.Int).AddUint64(base, i)
		if err := s.frame.SetState(s.evm, slot.Bytes32(), common.Hash{}); err != nil {
			return err
		}
	}
	return nil
}
