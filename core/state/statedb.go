// Package state holds the account state of the ledger: balances, nonces,
// contract code and storage slots, plus the logs of the running transaction.
package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/types"
)

// Code is the executable attached to a contract account.
type Code interface {
	CodeHash() common.Hash
}

type stateObject struct {
	data    types.StateAccount
	code    Code
	storage map[common.Hash]common.Hash
}

func (s *stateObject) setStorage(key, value common.Hash) {
	if value == (common.Hash{}) {
		delete(s.storage, key)
		return
	}
	s.storage[key] = value
}

// StateDB is an in-memory account database with a change journal so that
// any call frame can be rolled back. It is not safe for concurrent use; the
// ledger serialises access to it.
type StateDB struct {
	accounts map[common.Address]*stateObject
	journal  *journal

	logs    []*types.Log
	thash   common.Hash
	txIndex uint
}

// New creates an empty state.
func New() *StateDB {
	return &StateDB{
		accounts: make(map[common.Address]*stateObject),
		journal:  newJournal(),
	}
}

func (s *StateDB) getStateObject(addr common.Address) *stateObject {
	return s.accounts[addr]
}

func (s *StateDB) getOrNewStateObject(addr common.Address) *stateObject {
	obj := s.accounts[addr]
	if obj == nil {
		obj = &stateObject{
			data:    *types.NewEmptyStateAccount(),
			storage: make(map[common.Hash]common.Hash),
		}
		s.accounts[addr] = obj
		s.journal.append(createAccountChange{account: addr})
	}
	return obj
}

// Exist reports whether the given account exists in state.
func (s *StateDB) Exist(addr common.Address) bool {
	return s.getStateObject(addr) != nil
}

// CreateAccount explicitly creates a new, empty account.
func (s *StateDB) CreateAccount(addr common.Address) {
	s.getOrNewStateObject(addr)
}

// GetBalance returns a copy of the balance of addr.
func (s *StateDB) GetBalance(addr common.Address) *uint256.Int {
	if obj := s.getStateObject(addr); obj != nil {
		return new(uint256.Int).Set(obj.data.Balance)
	}
	return new(uint256.Int)
}

// AddBalance adds amount to the account associated with addr.
func (s *StateDB) AddBalance(addr common.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(balanceChange{account: addr, prev: obj.data.Balance})
	obj.data.Balance = new(uint256.Int).Add(obj.data.Balance, amount)
}

// SubBalance subtracts amount from the account associated with addr. The
// caller must have checked that the balance suffices.
func (s *StateDB) SubBalance(addr common.Address, amount *uint256.Int) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(balanceChange{account: addr, prev: obj.data.Balance})
	obj.data.Balance = new(uint256.Int).Sub(obj.data.Balance, amount)
}

// GetNonce returns the nonce of addr.
func (s *StateDB) GetNonce(addr common.Address) uint64 {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.Nonce
	}
	return 0
}

// SetNonce sets the nonce of addr.
func (s *StateDB) SetNonce(addr common.Address, nonce uint64) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(nonceChange{account: addr, prev: obj.data.Nonce})
	obj.data.Nonce = nonce
}

// GetCode returns the contract deployed at addr, or nil.
func (s *StateDB) GetCode(addr common.Address) Code {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.code
	}
	return nil
}

// GetCodeHash returns the code hash of addr, or the zero hash for a missing account.
func (s *StateDB) GetCodeHash(addr common.Address) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.data.CodeHash
	}
	return common.Hash{}
}

// SetCode attaches code to addr.
func (s *StateDB) SetCode(addr common.Address, code Code) {
	obj := s.getOrNewStateObject(addr)
	s.journal.append(codeChange{account: addr, prevCode: obj.code, prevHash: obj.data.CodeHash})
	obj.code = code
	obj.data.CodeHash = code.CodeHash()
}

// GetState returns a storage slot of addr.
func (s *StateDB) GetState(addr common.Address, key common.Hash) common.Hash {
	if obj := s.getStateObject(addr); obj != nil {
		return obj.storage[key]
	}
	return common.Hash{}
}

// SetState writes a storage slot of addr.
func (s *StateDB) SetState(addr common.Address, key, value common.Hash) {
	obj := s.getOrNewStateObject(addr)
	prev := obj.storage[key]
	if prev == value {
		return
	}
	s.journal.append(storageChange{account: addr, key: key, prev: prev})
	obj.setStorage(key, value)
}

// SetTxContext sets the current transaction hash and index which are used
// when the EVM emits new state logs.
func (s *StateDB) SetTxContext(thash common.Hash, ti uint) {
	s.thash = thash
	s.txIndex = ti
}

// AddLog records a log emitted by the running transaction.
func (s *StateDB) AddLog(log *types.Log) {
	s.journal.append(addLogChange{})
	log.TxHash = s.thash
	log.TxIndex = s.txIndex
	log.Index = uint(len(s.logs))
	s.logs = append(s.logs, log)
}

// Logs returns the logs emitted by the running transaction.
func (s *StateDB) Logs() []*types.Log {
	return s.logs
}

// Snapshot returns an identifier for the current revision of the state.
func (s *StateDB) Snapshot() int {
	return s.journal.length()
}

// RevertToSnapshot reverts all state changes made since the given revision.
func (s *StateDB) RevertToSnapshot(revid int) {
	s.journal.revertTo(s, revid)
}

// Finalise commits the running transaction: the journal is dropped so its
// changes can no longer be reverted, and the logs are handed back.
func (s *StateDB) Finalise() []*types.Log {
	logs := s.logs
	s.logs = nil
	s.journal.reset()
	return logs
}
