package state

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// journalEntry is a modification entry in the state change journal that can be
// reverted on demand.
type journalEntry interface {
	revert(*StateDB)
}

// journal contains the list of state modifications applied since the last
// transaction was finalised.
type journal struct {
	entries []journalEntry
}

func newJournal() *journal {
	return &journal{}
}

func (j *journal) append(entry journalEntry) {
	j.entries = append(j.entries, entry)
}

func (j *journal) length() int {
	return len(j.entries)
}

// revertTo undoes every entry recorded after the given length.
func (j *journal) revertTo(db *StateDB, length int) {
	for i := len(j.entries) - 1; i >= length; i-- {
		j.entries[i].revert(db)
	}
	j.entries = j.entries[:length]
}

func (j *journal) reset() {
	j.entries = j.entries[:0]
}

type (
	createAccountChange struct {
		account common.Address
	}
	balanceChange struct {
		account common.Address
		prev    *uint256.Int
	}
	nonceChange struct {
		account common.Address
		prev    uint64
	}
	storageChange struct {
		account common.Address
		key     common.Hash
		prev    common.Hash
	}
	codeChange struct {
		account  common.Address
		prevCode Code
		prevHash common.Hash
	}
	addLogChange struct{}
)

func (ch createAccountChange) revert(s *StateDB) {
	delete(s.accounts, ch.account)
}

func (ch balanceChange) revert(s *StateDB) {
	s.accounts[ch.account].data.Balance = ch.prev
}

func (ch nonceChange) revert(s *StateDB) {
	s.accounts[ch.account].data.Nonce = ch.prev
}

func (ch storageChange) revert(s *StateDB) {
	s.accounts[ch.account].setStorage(ch.key, ch.prev)
}

func (ch codeChange) revert(s *StateDB) {
	obj := s.accounts[ch.account]
	obj.code = ch.prevCode
	obj.data.CodeHash = ch.prevHash
}

func (ch addLogChange) revert(s *StateDB) {
	s.logs = s.logs[:len(s.logs)-1]
}
