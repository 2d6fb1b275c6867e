package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/zircuit-labs/autem/core/autem/derive"
)

// TrustEntry is a trust recorded by the indexer from its creation logs.
// Owner follows SetOwner logs; the other parameters are the creation ones.
type TrustEntry struct {
	bun.BaseModel `bun:"table:autem.trust,alias:t"`
	Address       string    `bun:"address,pk,type:text"`
	ChainID       uint64    `bun:"chain_id,pk,type:bigint"`
	Owner         string    `bun:"owner,type:text"`
	Beneficiary   string    `bun:"beneficiary,type:text"`
	Window        string    `bun:"window,type:text"` // decimal seconds, up to 2^96-1
	Metadata      string    `bun:"metadata,type:text"`
	BlockNumber   uint64    `bun:"block_number,type:bigint"`
	TxHash        string    `bun:"tx_hash,type:text"`
	CreatedAt     time.Time `bun:"created_at,type:timestamptz,nullzero,notnull,default:current_timestamp"`
}

// NewTrustEntry builds the entry of a trust created with p.
func NewTrustEntry(chainID uint64, address common.Address, p derive.Params, blockNumber uint64, txHash common.Hash, createdAt time.Time) *TrustEntry {
	window := "0"
	if p.Window != nil {
		window = p.Window.String()
	}
	return &TrustEntry{
		Address:     address.Hex(),
		ChainID:     chainID,
		Owner:       p.Owner.Hex(),
		Beneficiary: p.Beneficiary.Hex(),
		Window:      window,
		Metadata:    p.Metadata,
		BlockNumber: blockNumber,
		TxHash:      txHash.Hex(),
		CreatedAt:   createdAt,
	}
}

// Params returns the creation parameters of the trust. The owner is the
// current indexed owner, which differs from the creation owner once the
// trust has been handed over.
func (t *TrustEntry) Params() derive.Params {
	window, ok := new(big.Int).SetString(t.Window, 10)
	if !ok {
		window = new(big.Int)
	}
	return derive.Params{
		Owner:       common.HexToAddress(t.Owner),
		Beneficiary: common.HexToAddress(t.Beneficiary),
		Window:      window,
		Metadata:    t.Metadata,
	}
}
