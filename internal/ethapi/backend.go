// Copyright 2015 The go-ethereum Authors
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

// Package ethapi implements the JSON-RPC services of an Autem node.
package ethapi

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/holiman/uint256"

	"github.com/zircuit-labs/autem/core/autem/metrics"
	"github.com/zircuit-labs/autem/core/autem/ratelimiter"
	"github.com/zircuit-labs/autem/core/autem/storage"
	"github.com/zircuit-labs/autem/core/types"
)

// Backend interface provides the common API services with access to the ledger.
type Backend interface {
	ChainID() uint64
	FactoryAddress() common.Address
	ImplementationAddress() common.Address
	CurrentHeader() *types.Header
	HeaderByNumber(number uint64) (*types.Header, error)
	Now() uint64
	AdvanceTime(d time.Duration)

	Call(ctx context.Context, msg types.CallMsg) ([]byte, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
	BalanceAt(addr common.Address) *uint256.Int
	NonceAt(addr common.Address) uint64
	HasCode(addr common.Address) bool
	TransactionReceipt(hash common.Hash) (*types.Receipt, bool)
	FilterLogs(ctx context.Context, q types.FilterQuery) ([]*types.Log, error)
}

// Config selects the services and limits of the API.
type Config struct {
	Accounts  []common.Address // accounts the node sends transactions for
	RateLimit ratelimiter.Config
	Dev       bool // expose the evm namespace
}

func GetAPIs(b Backend, store storage.Storage, discoverer discoverer, collector *metrics.Collector, cfg Config) []rpc.API {
	apis := []rpc.API{
		{
			Namespace: "eth",
			Service:   NewBlockChainAPI(b, cfg.Accounts),
		}, {
			Namespace: "autem",
			Service:   NewAutemAPI(b, store, discoverer, collector, cfg),
		},
	}
	if cfg.Dev {
		apis = append(apis, rpc.API{
			Namespace: "evm",
			Service:   NewDevAPI(b),
		})
	}
	return apis
}
