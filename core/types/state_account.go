package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// StateAccount is the ledger representation of an account. Contract storage
// and code are kept beside it by the state database.
type StateAccount struct {
	Nonce    uint64       `json:"nonce"`
	Balance  *uint256.Int `json:"balance"`
	CodeHash common.Hash  `json:"codeHash"`
}

// NewEmptyStateAccount constructs an empty state account.
func NewEmptyStateAccount() *StateAccount {
	return &StateAccount{
		Balance:  new(uint256.Int),
		CodeHash: EmptyCodeHash,
	}
}

// Copy returns a deep-copied state account object.
func (acct *StateAccount) Copy() *StateAccount {
	var balance *uint256.Int
	if acct.Balance != nil {
		balance = new(uint256.Int).Set(acct.Balance)
	}
	return &StateAccount{
		Nonce:    acct.Nonce,
		Balance:  balance,
		CodeHash: acct.CodeHash,
	}
}

// HasCode reports whether a contract is deployed at the account.
func (acct *StateAccount) HasCode() bool {
	return acct.CodeHash != EmptyCodeHash && acct.CodeHash != (common.Hash{})
}
