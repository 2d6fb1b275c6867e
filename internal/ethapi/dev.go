package ethapi

import (
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DevAPI exposes devnet clock controls under the evm namespace.
type DevAPI struct {
	b Backend
}

func NewDevAPI(b Backend) *DevAPI {
	return &DevAPI{b: b}
}

// IncreaseTime moves the ledger clock forward and returns the timestamp the
// next block will get at the earliest.
func (api *DevAPI) IncreaseTime(seconds uint64) hexutil.Uint64 {
	api.b.AdvanceTime(time.Duration(seconds) * time.Second)
	return hexutil.Uint64(api.b.Now())
}

// Now returns the current ledger time in seconds.
func (api *DevAPI) Now() hexutil.Uint64 {
	return hexutil.Uint64(api.b.Now())
}
