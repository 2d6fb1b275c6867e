package types

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Header is a sealed block of the ledger. Every block carries exactly one
// transaction, so ordering of blocks is ordering of transactions.
type Header struct {
	ParentHash common.Hash `json:"parentHash"`
	Number     uint64      `json:"number"`
	Time       uint64      `json:"timestamp"`
	TxHash     common.Hash `json:"transactionHash"`
}

// Hash returns the keccak256 hash of the header fields.
func (h *Header) Hash() common.Hash {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], h.Number)
	binary.BigEndian.PutUint64(buf[8:], h.Time)
	return crypto.Keccak256Hash(h.ParentHash.Bytes(), buf[:], h.TxHash.Bytes())
}
