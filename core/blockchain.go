// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package core implements the ledger trusts live on: a single serialized
// chain applying one transaction per block.
package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/state"
	"github.com/zircuit-labs/autem/core/types"
	"github.com/zircuit-labs/autem/core/vm"
)

var ErrUnknownBlock = errors.New("unknown block")

// ChainEvent is posted for every block added to the chain.
type ChainEvent struct {
	Header  *types.Header
	Receipt *types.Receipt
}

// BlockChain is the authoritative ledger. Every transaction is applied
// atomically in a block of its own, under a single lock, so transactions are
// totally ordered and block timestamps strictly increase.
type BlockChain struct {
	genesis *Genesis
	logger  log.Logger
	clock   clock.Clock
	limiter vm.ExecutionLimiter

	mu       sync.Mutex
	statedb  *state.StateDB
	headers  []*types.Header
	receipts map[common.Hash]*types.Receipt
	logs     []*types.Log
	offset   time.Duration

	chainFeed event.Feed
	scope     event.SubscriptionScope
}

// NewBlockChain commits genesis and returns the chain. A nil clock uses the
// wall clock; a nil logger uses the root logger.
func NewBlockChain(genesis *Genesis, clk clock.Clock, logger log.Logger) (*BlockChain, error) {
	if clk == nil {
		clk = clock.New()
	}
	if logger == nil {
		logger = log.Root()
	}
	statedb := state.New()
	if genesis.Timestamp == 0 {
		genesis.Timestamp = uint64(clk.Now().Unix())
	}
	head, err := genesis.Commit(statedb)
	if err != nil {
		return nil, err
	}
	bc := &BlockChain{
		genesis:  genesis,
		logger:   logger.New("chain", genesis.ChainID),
		clock:    clk,
		limiter:  vm.NewEVMLimiter(genesis.Limits),
		statedb:  statedb,
		headers:  []*types.Header{head},
		receipts: make(map[common.Hash]*types.Receipt),
	}
	bc.logger.Info("Initialised chain", "factory", genesis.FactoryAddress, "implementation", genesis.ImplementationAddress(), "time", head.Time)
	return bc, nil
}

// ChainID returns the identifier of the chain.
func (bc *BlockChain) ChainID() uint64 {
	return bc.genesis.ChainID
}

// FactoryAddress returns the address of the factory deployed at genesis.
func (bc *BlockChain) FactoryAddress() common.Address {
	return bc.genesis.FactoryAddress
}

// ImplementationAddress returns the address of the shared trust logic.
func (bc *BlockChain) ImplementationAddress() common.Address {
	return bc.genesis.ImplementationAddress()
}

// CurrentHeader returns the head of the chain.
func (bc *BlockChain) CurrentHeader() *types.Header {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.head()
}

func (bc *BlockChain) head() *types.Header {
	return bc.headers[len(bc.headers)-1]
}

// HeaderByNumber returns the header of block number.
func (bc *BlockChain) HeaderByNumber(number uint64) (*types.Header, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if number >= uint64(len(bc.headers)) {
		return nil, ErrUnknownBlock
	}
	return bc.headers[number], nil
}

// AdvanceTime moves the chain clock forward by d. Blocks sealed afterwards
// carry the shifted timestamp.
func (bc *BlockChain) AdvanceTime(d time.Duration) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.offset += d
	bc.logger.Debug("Advanced chain time", "by", d, "offset", bc.offset)
}

// Now returns the timestamp the next block would be sealed with.
func (bc *BlockChain) Now() uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.nextTime()
}

func (bc *BlockChain) nextTime() uint64 {
	now := uint64(bc.clock.Now().Add(bc.offset).Unix())
	if parent := bc.head().Time; now <= parent {
		return parent + 1
	}
	return now
}

// SendTransaction seals tx in a new block. The sender nonce is assigned by
// the chain. A transaction that fails during execution is still included:
// its receipt is returned together with the execution error.
func (bc *BlockChain) SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	header, receipt, result, err := bc.insert(tx)
	if err != nil {
		bc.logger.Warn("Rejected transaction", "hash", tx.Hash(), "from", tx.From, "err", err)
		return nil, err
	}
	// Posted outside the lock so subscribers may query the chain.
	bc.chainFeed.Send(ChainEvent{Header: header, Receipt: receipt})

	if result.Failed() {
		bc.logger.Debug("Transaction reverted", "hash", receipt.TxHash, "number", header.Number, "to", tx.To, "err", result.Err)
		return receipt, result.Err
	}
	bc.logger.Debug("Applied transaction", "hash", receipt.TxHash, "number", header.Number, "to", tx.To, "logs", len(receipt.Logs))
	return receipt, nil
}

func (bc *BlockChain) insert(tx *types.Transaction) (*types.Header, *types.Receipt, *ExecutionResult, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()

	parent := bc.head()
	tx.Nonce = bc.statedb.GetNonce(tx.From)
	header := &types.Header{
		ParentHash: parent.Hash(),
		Number:     parent.Number + 1,
		Time:       bc.nextTime(),
		TxHash:     tx.Hash(),
	}
	evm := vm.NewEVM(vm.BlockContext{BlockNumber: header.Number, Time: header.Time}, vm.TxContext{Origin: tx.From}, bc.statedb, bc.limiter)
	receipt, result, err := ApplyTransaction(evm, bc.statedb, header, tx)
	if err != nil {
		return nil, nil, nil, err
	}
	bc.headers = append(bc.headers, header)
	bc.receipts[receipt.TxHash] = receipt
	bc.logs = append(bc.logs, receipt.Logs...)
	return header, receipt, result, nil
}

// Call executes msg on top of the head state as if it were sealed in the next
// block, and discards every change it made.
func (bc *BlockChain) Call(ctx context.Context, msg types.CallMsg) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bc.mu.Lock()
	defer bc.mu.Unlock()

	head := bc.head()
	evm := vm.NewEVM(vm.BlockContext{BlockNumber: head.Number + 1, Time: bc.nextTime()}, vm.TxContext{Origin: msg.From}, bc.statedb, bc.limiter)
	snapshot := bc.statedb.Snapshot()
	defer func() {
		bc.statedb.RevertToSnapshot(snapshot)
		bc.statedb.Finalise()
	}()
	return evm.Call(msg.From, msg.To, msg.Data, msg.Value)
}

// BalanceAt returns the head balance of addr.
func (bc *BlockChain) BalanceAt(addr common.Address) *uint256.Int {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.statedb.GetBalance(addr)
}

// NonceAt returns the head nonce of addr.
func (bc *BlockChain) NonceAt(addr common.Address) uint64 {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.statedb.GetNonce(addr)
}

// HasCode reports whether addr is a contract.
func (bc *BlockChain) HasCode(addr common.Address) bool {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.statedb.GetCode(addr) != nil
}

// TransactionReceipt returns the receipt of a sealed transaction.
func (bc *BlockChain) TransactionReceipt(hash common.Hash) (*types.Receipt, bool) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	receipt, ok := bc.receipts[hash]
	return receipt, ok
}

// FilterLogs returns the logs of sealed blocks matching q, in chain order.
func (bc *BlockChain) FilterLogs(ctx context.Context, q types.FilterQuery) ([]*types.Log, error) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	var out []*types.Log
	for i, l := range bc.logs {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if q.Matches(l) {
			out = append(out, l)
		}
	}
	return out, nil
}

// SubscribeChainEvent registers a subscription of ChainEvent.
func (bc *BlockChain) SubscribeChainEvent(ch chan<- ChainEvent) event.Subscription {
	return bc.scope.Track(bc.chainFeed.Subscribe(ch))
}

// Stop closes every subscription.
func (bc *BlockChain) Stop() {
	bc.scope.Close()
}
