package vm

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ExecutionLimiter enforces per-transaction execution limits.
type ExecutionLimiter interface {
	ResetTx()
	TrackCall(addr common.Address) error
}

// LimitConfig configures the call budget of a single transaction.
// A zero value disables the corresponding limit.
type LimitConfig struct {
	CallsPerTx        uint64
	CallsPerTxPerAddr uint64
}

// Empty returns true if no limits are configured.
func (cfg LimitConfig) Empty() bool {
	return cfg.CallsPerTx == 0 && cfg.CallsPerTxPerAddr == 0
}

// NewEVMLimiter builds an ExecutionLimiter from a LimitConfig.
func NewEVMLimiter(cfg LimitConfig) ExecutionLimiter {
	if cfg.Empty() {
		return nil
	}
	return &countLimiter{
		cfg:    cfg,
		byAddr: make(map[common.Address]uint64),
	}
}

// ErrCallLimit is returned when a transaction exhausts its call budget.
type ErrCallLimit struct {
	Address common.Address
	Limit   uint64
}

func (e *ErrCallLimit) Error() string {
	if e.Address == (common.Address{}) {
		return fmt.Sprintf("call limit of %d per transaction reached", e.Limit)
	}
	return fmt.Sprintf("call limit of %d per transaction reached for %s", e.Limit, e.Address)
}

type countLimiter struct {
	cfg    LimitConfig
	total  uint64
	byAddr map[common.Address]uint64
}

func (l *countLimiter) ResetTx() {
	l.total = 0
	l.byAddr = make(map[common.Address]uint64)
}

func (l *countLimiter) TrackCall(addr common.Address) error {
	l.total++
	if l.cfg.CallsPerTx > 0 && l.total > l.cfg.CallsPerTx {
		return &ErrCallLimit{Limit: l.cfg.CallsPerTx}
	}
	l.byAddr[addr]++
	if l.cfg.CallsPerTxPerAddr > 0 && l.byAddr[addr] > l.cfg.CallsPerTxPerAddr {
		return &ErrCallLimit{Address: addr, Limit: l.cfg.CallsPerTxPerAddr}
	}
	return nil
}
