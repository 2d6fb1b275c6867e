package types

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Transaction is a state transition submitted to the ledger by an account.
// The ledger runs unlocked accounts only, so there is no signature.
type Transaction struct {
	From  common.Address
	To    common.Address
	Value *uint256.Int
	Data  []byte
	Nonce uint64
}

// NewTransaction creates a transaction; a nil value means zero.
func NewTransaction(from, to common.Address, value *uint256.Int, data []byte) *Transaction {
	if value == nil {
		value = new(uint256.Int)
	}
	return &Transaction{From: from, To: to, Value: value, Data: data}
}

// Hash returns the keccak256 hash identifying the transaction.
func (tx *Transaction) Hash() common.Hash {
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], tx.Nonce)
	value := tx.value().Bytes32()
	return crypto.Keccak256Hash(tx.From.Bytes(), tx.To.Bytes(), nonce[:], value[:], tx.Data)
}

func (tx *Transaction) value() *uint256.Int {
	if tx.Value == nil {
		return new(uint256.Int)
	}
	return tx.Value
}

// CallMsg is a read-only call executed against the head state.
type CallMsg struct {
	From  common.Address
	To    common.Address
	Value *uint256.Int
	Data  []byte
}
