package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// ReceiptStatusFailed is the status code of a transaction if execution failed.
	ReceiptStatusFailed = uint64(0)

	// ReceiptStatusSuccessful is the status code of a transaction if execution succeeded.
	ReceiptStatusSuccessful = uint64(1)
)

// Receipt represents the result of a transaction.
type Receipt struct {
	Status      uint64         `json:"status"`
	Logs        []*Log         `json:"logs"`
	TxHash      common.Hash    `json:"transactionHash"`
	From        common.Address `json:"from"`
	To          common.Address `json:"to"`
	BlockNumber uint64         `json:"blockNumber"`
	BlockTime   uint64         `json:"blockTimestamp"`
	ReturnData  hexutil.Bytes  `json:"returnData,omitempty"`
	RevertData  hexutil.Bytes  `json:"revertData,omitempty"`
}

// Succeeded reports whether the transaction was applied.
func (r *Receipt) Succeeded() bool {
	return r.Status == ReceiptStatusSuccessful
}
