package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Log represents an event emitted by a contract during transaction execution.
type Log struct {
	// Consensus fields:
	Address common.Address `json:"address"` // address of the contract that generated the event
	Topics  []common.Hash  `json:"topics"`  // list of topics provided by the contract
	Data    hexutil.Bytes  `json:"data"`    // supplied by the contract, usually ABI-encoded

	// Derived fields. These fields are filled in by the ledger
	// but not secured by consensus.
	BlockNumber uint64      `json:"blockNumber"`
	TxHash      common.Hash `json:"transactionHash"`
	TxIndex     uint        `json:"transactionIndex"`
	BlockTime   uint64      `json:"blockTimestamp"`
	Index       uint        `json:"logIndex"`
}

// FilterQuery selects logs by emitting address and topics. A nil or empty
// position in Topics matches anything; the hashes inside a position are ORed.
type FilterQuery struct {
	FromBlock uint64
	ToBlock   *uint64
	Addresses []common.Address
	Topics    [][]common.Hash
}

// Matches reports whether the log satisfies the query.
func (q FilterQuery) Matches(l *Log) bool {
	if l.BlockNumber < q.FromBlock {
		return false
	}
	if q.ToBlock != nil && l.BlockNumber > *q.ToBlock {
		return false
	}
	if len(q.Addresses) > 0 && !containsAddress(q.Addresses, l.Address) {
		return false
	}
	if len(q.Topics) > len(l.Topics) {
		return false
	}
	for i, sub := range q.Topics {
		if len(sub) == 0 {
			continue
		}
		match := false
		for _, topic := range sub {
			if l.Topics[i] == topic {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	return true
}

func containsAddress(addrs []common.Address, a common.Address) bool {
	for _, addr := range addrs {
		if addr == a {
			return true
		}
	}
	return false
}
