package model

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/uptrace/bun"

	"github.com/zircuit-labs/autem/core/autem/derive"
)

// KnownParameters are creation parameters remembered for a chain, so the
// address of a trust can be derived again before or after it is deployed.
type KnownParameters struct {
	bun.BaseModel `bun:"table:autem.known_parameters,alias:k"`
	ChainID       uint64    `bun:"chain_id,pk,type:bigint"`
	Address       string    `bun:"address,pk,type:text"`
	Owner         string    `bun:"owner,type:text"`
	Beneficiary   string    `bun:"beneficiary,type:text"`
	Window        string    `bun:"window,type:text"` // decimal seconds, up to 2^96-1
	Metadata      string    `bun:"metadata,type:text"`
	CreatedAt     time.Time `bun:"created_at,type:timestamptz,nullzero,notnull,default:current_timestamp"`
	Seq           int64     `bun:"seq,type:bigserial,nullzero"` // insertion order
}

// NewKnownParameters records p as the parameters of the trust at address.
func NewKnownParameters(chainID uint64, address common.Address, p derive.Params) *KnownParameters {
	window := "0"
	if p.Window != nil {
		window = p.Window.String()
	}
	return &KnownParameters{
		ChainID:     chainID,
		Address:     address.Hex(),
		Owner:       p.Owner.Hex(),
		Beneficiary: p.Beneficiary.Hex(),
		Window:      window,
		Metadata:    p.Metadata,
	}
}

func (k *KnownParameters) Params() derive.Params {
	window, ok := new(big.Int).SetString(k.Window, 10)
	if !ok {
		window = new(big.Int)
	}
	return derive.Params{
		Owner:       common.HexToAddress(k.Owner),
		Beneficiary: common.HexToAddress(k.Beneficiary),
		Window:      window,
		Metadata:    k.Metadata,
	}
}
